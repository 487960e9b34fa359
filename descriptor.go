package propkit

import (
	"reflect"

	"github.com/propkit/propkit/diag"
	"github.com/propkit/propkit/is"
)

// Descriptor represents one prop's type contract: the coarse native type the
// host framework checks, the required flag, an optional default value, and an
// optional validator predicate. Composite descriptors additionally hold the
// nested descriptors their synthesized validator recurses through; the
// dispatcher drives that recursion keyed by Kind, so the composite state
// stays inspectable as data.
//
// Descriptors are created once, during prop schema declaration, and refined
// through the chain methods Def, IsRequired, and (for shapes) Loose. They are
// not safe for concurrent mutation.
type Descriptor struct {
	// Kind tags the validator family.
	Kind Kind

	// Type is the ordered set of coarse tags the host framework checks.
	// Empty means the prop opts out of coarse type checking.
	Type []ValueType

	// Required marks the prop as mandatory. Zero value is optional.
	Required bool

	// Default is the value applied when the prop is absent: either a plain
	// value or a zero-argument factory (func() any). Reference-typed
	// defaults are always stored as factories so component instances never
	// share one default value.
	Default any

	// name is the prop or validator name used in diagnostics, when known.
	name string

	// validator is the installed predicate. For native validable kinds it
	// is user-installed via Validate; for integer and the composites it is
	// synthesized and never user-replaceable.
	validator func(any) bool

	// validable marks native kinds that accept a user validator.
	validable bool

	// Composite data, populated per Kind.
	choices    []any                  // oneOf: enumerated values
	alts       []*Descriptor          // oneOfType: alternatives in declaration order
	elem       *Descriptor            // arrayOf / objectOf: entry type
	schema     map[string]*Descriptor // shape: declared keys
	schemaKeys []string               // shape: stable key order for diagnostics
	loose      bool                   // shape: permit undeclared keys
	instance   func(any) bool         // instanceOf: dynamic type check
	typeName   string                 // instanceOf / custom: name for diagnostics
	message    string                 // custom: override message

	// sink receives Def diagnostics; nil means the process default.
	sink *diag.Sink
}

// PropSpec is the host framework boundary object: the exact fields the prop
// processing pipeline consumes. It is produced by Descriptor.Prop and is also
// accepted wherever composite builders take a raw prop schema entry.
type PropSpec struct {
	Type      []ValueType
	Required  bool
	Default   any
	Validator func(any) bool
}

// newDescriptor builds a bare descriptor for the given kind and tags.
func newDescriptor(kind Kind, tags ...ValueType) *Descriptor {
	return &Descriptor{Kind: kind, Type: tags}
}

func (d *Descriptor) warnSink() *diag.Sink {
	if d.sink != nil {
		return d.sink
	}
	return diag.Default()
}

// IsRequired marks the descriptor as required and returns it for chaining.
// It is idempotent; there is no way to unset the flag.
func (d *Descriptor) IsRequired() *Descriptor {
	d.Required = true
	return d
}

// Def sets the descriptor's default value and returns it for chaining.
//
// Passing nil removes the default entirely, without validation. Any other
// value, or the product of a supplied func() any factory, is first checked
// against the descriptor's own contract; an invalid default is reported
// through the diagnostics sink and the previous default kept. Array and
// object defaults supplied as plain values are wrapped into a deep-copying
// factory so repeated default application yields fresh instances.
func (d *Descriptor) Def(v any) *Descriptor {
	if v == nil {
		d.Default = nil
		return d
	}

	if factory, ok := v.(func() any); ok {
		produced := factory()
		if err := d.check(produced, ""); err != nil {
			d.warnSink().Warn("default factory product does not satisfy the descriptor, keeping previous default",
				"kind", string(d.Kind), "error", err.Error())
			return d
		}
		d.Default = factory
		return d
	}

	if err := d.check(v, ""); err != nil {
		d.warnSink().Warn("default value does not satisfy the descriptor, keeping previous default",
			"kind", string(d.Kind), "error", err.Error())
		return d
	}

	if is.Array(v) || is.PlainObject(v) {
		d.Default = func() any { return cloneValue(v) }
		return d
	}
	d.Default = v
	return d
}

// ApplyDefault materializes the default value, invoking it when stored as a
// factory. The second result reports whether a default is set.
func (d *Descriptor) ApplyDefault() (any, bool) {
	if d.Default == nil {
		return nil, false
	}
	if factory, ok := d.Default.(func() any); ok {
		return factory(), true
	}
	return d.Default, true
}

// Loose returns a copy of a shape descriptor that permits undeclared keys.
// The receiver stays strict. Chaining Loose onto any other kind is a
// programmer error and panics with a *BuildError.
func (d *Descriptor) Loose() *Descriptor {
	if d.Kind != KindShape {
		panic(NewChainError("Descriptor.Loose", ErrNotShape))
	}
	dup := *d
	dup.loose = true
	return &dup
}

// Check reports whether value satisfies the descriptor's contract, absence of
// an optional prop included. It is the predicate the host framework invokes
// per render; no diagnostics are emitted, use ValidateType for the loud form.
func (d *Descriptor) Check(value any) bool {
	return checkValue(d, value, "") == nil
}

// Prop exports the host framework boundary object. The validator closes over
// the descriptor, so later chain refinements are reflected.
func (d *Descriptor) Prop() PropSpec {
	tags := make([]ValueType, len(d.Type))
	copy(tags, d.Type)
	return PropSpec{
		Type:      tags,
		Required:  d.Required,
		Default:   d.Default,
		Validator: d.Check,
	}
}

// ValidableDescriptor is a native descriptor that accepts a user-installed
// validator. Composite builders never produce one: their synthesized
// validators must stay intact. Def and IsRequired are shadowed so the chain
// keeps its static type regardless of call order.
type ValidableDescriptor struct {
	Descriptor
}

func newValidable(kind Kind, tags ...ValueType) *ValidableDescriptor {
	d := &ValidableDescriptor{Descriptor: Descriptor{Kind: kind, Type: tags}}
	d.validable = true
	return d
}

// Validate installs fn as the descriptor's validator and returns the
// descriptor for chaining.
func (d *ValidableDescriptor) Validate(fn func(any) bool) *ValidableDescriptor {
	if fn == nil {
		panic(NewChainError("Descriptor.Validate", ErrNotValidable).WithContext(
			map[string]any{"reason": "nil validator"}))
	}
	d.validator = fn
	return d
}

// Def sets the default value, see Descriptor.Def.
func (d *ValidableDescriptor) Def(v any) *ValidableDescriptor {
	d.Descriptor.Def(v)
	return d
}

// IsRequired marks the descriptor as required, see Descriptor.IsRequired.
func (d *ValidableDescriptor) IsRequired() *ValidableDescriptor {
	d.Descriptor.IsRequired()
	return d
}

// cloneValue deep-copies string-keyed maps and slices so wrapped defaults
// hand every component instance its own value. Scalars and opaque types are
// returned as-is.
func cloneValue(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.IsNil() {
			return v
		}
		dup := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			val := iter.Value()
			if val.Kind() == reflect.Interface && !val.IsNil() {
				dup.SetMapIndex(iter.Key(), reflect.ValueOf(cloneValue(val.Interface())))
			} else {
				dup.SetMapIndex(iter.Key(), val)
			}
		}
		return dup.Interface()
	case reflect.Slice:
		if rv.IsNil() {
			return v
		}
		dup := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			el := rv.Index(i)
			if el.Kind() == reflect.Interface && !el.IsNil() {
				dup.Index(i).Set(reflect.ValueOf(cloneValue(el.Interface())))
			} else {
				dup.Index(i).Set(el)
			}
		}
		return dup.Interface()
	default:
		return v
	}
}
