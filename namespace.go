package propkit

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/propkit/propkit/diag"
	"go.opentelemetry.io/otel/trace"
)

// Namespace is an independent collection of validators with its own mutable
// defaults record, diagnostics sink, and optional instrumentation. Two
// namespaces never share mutable state: mutating one's defaults leaves the
// other's convenience getters unchanged.
type Namespace struct {
	id string

	mu       sync.RWMutex
	defaults map[Kind]any
	entries  map[string]*entry

	sink    *diag.Sink
	tracer  trace.Tracer
	metrics *nsMetrics
}

// entry is one registered validator: a factory producing a fresh descriptor
// per request, a parallel validable factory when the validator accepts a user
// predicate, and a reserved marker for the builtin composite names, which
// need arguments and therefore cannot be fetched by name.
type entry struct {
	factory   func(ns *Namespace) *Descriptor
	validable func(ns *Namespace) *ValidableDescriptor
	reserved  bool
}

// NewTypes creates an independent namespace seeded with every builtin
// validator. The defaults record starts from WithDefaults and is mutated only
// through SetDefault.
func NewTypes(opts ...Option) *Namespace {
	var cfg nsConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	ns := &Namespace{
		id:       uuid.NewString(),
		defaults: make(map[Kind]any, len(cfg.defaults)),
		entries:  make(map[string]*entry),
		sink:     diag.Default(),
	}
	for k, v := range cfg.defaults {
		ns.defaults[k] = v
	}
	if cfg.logger != nil {
		ns.sink = diag.New(cfg.logger)
	}
	ns.tracer = cfg.tracer
	if cfg.meter != nil {
		m, err := newNSMetrics(cfg.meter)
		if err != nil {
			ns.sink.Warn("metrics disabled", "error", err.Error())
		} else {
			ns.metrics = m
		}
	}

	ns.seed()
	return ns
}

// ID returns the namespace's unique identifier, used as an attribute on
// diagnostics and instrumentation.
func (ns *Namespace) ID() string {
	return ns.id
}

// seed registers the builtin validator names. Natives get factories;
// composites are reserved so Extend collides on them but Get explains they
// need arguments.
func (ns *Namespace) seed() {
	natives := map[string]Kind{
		"any":     KindAny,
		"bool":    KindBool,
		"string":  KindString,
		"number":  KindNumber,
		"integer": KindInteger,
		"func":    KindFunc,
		"array":   KindArray,
		"object":  KindObject,
	}
	for name, kind := range natives {
		kind := kind
		e := &entry{
			factory: func(ns *Namespace) *Descriptor {
				return ns.native(kind)
			},
		}
		if kind != KindInteger {
			e.validable = func(ns *Namespace) *ValidableDescriptor {
				return ns.nativeValidable(kind)
			}
		}
		ns.entries[name] = e
	}
	for _, name := range []string{"oneOf", "oneOfType", "arrayOf", "objectOf", "shape", "instanceOf", "custom", "expr"} {
		ns.entries[name] = &entry{reserved: true}
	}
}

// Defaults record.

// SetDefault sets the default value the convenience getter for kind applies.
func (ns *Namespace) SetDefault(kind Kind, value any) {
	ns.mu.Lock()
	ns.defaults[kind] = value
	ns.mu.Unlock()
}

// DefaultFor returns the configured default for kind.
func (ns *Namespace) DefaultFor(kind Kind) (any, bool) {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	v, ok := ns.defaults[kind]
	return v, ok
}

// ClearDefault removes the configured default for kind.
func (ns *Namespace) ClearDefault(kind Kind) {
	ns.mu.Lock()
	delete(ns.defaults, kind)
	ns.mu.Unlock()
}

// Convenience getters. Unlike the package-level factories, these consult the
// namespace's defaults record; the factories themselves always start
// default-free.

// Any returns a fresh any validator bound to this namespace.
func (ns *Namespace) Any() *ValidableDescriptor { return ns.nativeValidable(KindAny) }

// Bool returns a fresh bool validator bound to this namespace.
func (ns *Namespace) Bool() *ValidableDescriptor { return ns.nativeValidable(KindBool) }

// String returns a fresh string validator bound to this namespace.
func (ns *Namespace) String() *ValidableDescriptor { return ns.nativeValidable(KindString) }

// Number returns a fresh number validator bound to this namespace.
func (ns *Namespace) Number() *ValidableDescriptor { return ns.nativeValidable(KindNumber) }

// Integer returns a fresh integer validator bound to this namespace.
func (ns *Namespace) Integer() *Descriptor { return ns.native(KindInteger) }

// Func returns a fresh func validator bound to this namespace.
func (ns *Namespace) Func() *ValidableDescriptor { return ns.nativeValidable(KindFunc) }

// Array returns a fresh array validator bound to this namespace.
func (ns *Namespace) Array() *ValidableDescriptor { return ns.nativeValidable(KindArray) }

// Object returns a fresh object validator bound to this namespace.
func (ns *Namespace) Object() *ValidableDescriptor { return ns.nativeValidable(KindObject) }

func (ns *Namespace) nativeValidable(kind Kind) *ValidableDescriptor {
	var d *ValidableDescriptor
	switch kind {
	case KindAny:
		d = Any()
	case KindBool:
		d = Bool()
	case KindString:
		d = String()
	case KindNumber:
		d = Number()
	case KindFunc:
		d = Func()
	case KindArray:
		d = Array()
	case KindObject:
		d = Object()
	default:
		panic(NewArgumentError("Namespace", fmt.Errorf("kind %q has no validable native", string(kind))))
	}
	ns.bind(&d.Descriptor, kind)
	return d
}

func (ns *Namespace) native(kind Kind) *Descriptor {
	if kind == KindInteger {
		d := Integer()
		ns.bind(d, kind)
		return d
	}
	return &ns.nativeValidable(kind).Descriptor
}

// bind attaches the namespace sink and applies the configured default.
func (ns *Namespace) bind(d *Descriptor, kind Kind) {
	d.sink = ns.sink
	d.name = string(kind)
	if v, ok := ns.DefaultFor(kind); ok {
		d.Def(v)
	}
}

// Composite builders bound to the namespace sink.

// OneOf builds a oneOf validator bound to this namespace, see OneOf.
func (ns *Namespace) OneOf(values ...any) *Descriptor {
	d := OneOf(values...)
	d.sink = ns.sink
	return d
}

// OneOfType builds a oneOfType validator bound to this namespace.
func (ns *Namespace) OneOfType(entries ...any) *Descriptor {
	d := OneOfType(entries...)
	d.sink = ns.sink
	return d
}

// ArrayOf builds an arrayOf validator bound to this namespace.
func (ns *Namespace) ArrayOf(entry any) *Descriptor {
	d := ArrayOf(entry)
	d.sink = ns.sink
	return d
}

// ObjectOf builds an objectOf validator bound to this namespace.
func (ns *Namespace) ObjectOf(entry any) *Descriptor {
	d := ObjectOf(entry)
	d.sink = ns.sink
	return d
}

// Shape builds a shape validator bound to this namespace.
func (ns *Namespace) Shape(schema map[string]any) *Descriptor {
	d := Shape(schema)
	d.sink = ns.sink
	return d
}

// Custom builds a custom validator bound to this namespace.
func (ns *Namespace) Custom(fn func(any) bool, message ...string) *Descriptor {
	d := Custom(fn, message...)
	d.sink = ns.sink
	return d
}

// Lookup.

// Get returns a fresh descriptor for a registered validator name. Reserved
// composite names report that they need arguments; unknown names report
// ErrUnknownValidator.
func (ns *Namespace) Get(name string) (*Descriptor, error) {
	ns.mu.RLock()
	e, ok := ns.entries[name]
	ns.mu.RUnlock()

	if !ok {
		return nil, (&BuildError{Op: "Namespace.Get", Kind: KindArgument, Err: ErrUnknownValidator}).
			WithContext(map[string]any{"name": name})
	}
	if e.reserved {
		return nil, NewArgumentError("Namespace.Get",
			fmt.Errorf("composite validator %q requires arguments", name))
	}
	return e.factory(ns), nil
}

// GetValidable returns a fresh validable descriptor for a registered name, or
// ErrNotValidable when the validator's predicate is synthesized.
func (ns *Namespace) GetValidable(name string) (*ValidableDescriptor, error) {
	ns.mu.RLock()
	e, ok := ns.entries[name]
	ns.mu.RUnlock()

	if !ok {
		return nil, (&BuildError{Op: "Namespace.GetValidable", Kind: KindArgument, Err: ErrUnknownValidator}).
			WithContext(map[string]any{"name": name})
	}
	if e.reserved || e.validable == nil {
		return nil, NewChainError("Namespace.GetValidable", ErrNotValidable)
	}
	return e.validable(ns), nil
}

// Has reports whether name is registered, reserved names included.
func (ns *Namespace) Has(name string) bool {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	_, ok := ns.entries[name]
	return ok
}

// Names returns all registered validator names, reserved names included.
func (ns *Namespace) Names() []string {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	names := make([]string, 0, len(ns.entries))
	for name := range ns.entries {
		names = append(names, name)
	}
	return names
}

// Extension.

// ExtendSpec declares one named validator to add to a namespace.
type ExtendSpec struct {
	// Name registers the validator; collisions with any existing name,
	// builtin or extended, are rejected.
	Name string

	// Type is the base contract: a coarse ValueType tag, a descriptor to
	// inherit from, or nil for an any-typed validator. Inheriting from a
	// descriptor carries over its type, required flag, and default, and
	// AND-composes Validator with the inherited check.
	Type any

	// Required marks descriptors produced for this name as required.
	Required bool

	// Default is applied through Def, so an invalid default is reported
	// and dropped.
	Default any

	// Validator is the extra predicate, composed with the inherited check
	// when Type is a descriptor.
	Validator func(any) bool

	// Validable exposes the Validate chain method on produced descriptors.
	// Disallowed when Type is a descriptor: the inherited check must stay
	// intact.
	Validable bool
}

// Extend registers one or more named validators in order. The first invalid
// declaration or name collision aborts with a *BuildError; declarations after
// it are not applied.
func (ns *Namespace) Extend(specs ...ExtendSpec) error {
	for _, spec := range specs {
		if err := ns.extendOne(spec); err != nil {
			return err
		}
	}
	return nil
}

func (ns *Namespace) extendOne(spec ExtendSpec) error {
	if spec.Name == "" {
		return NewArgumentError("Namespace.Extend", fmt.Errorf("validator name is empty"))
	}

	e, err := buildEntry(spec)
	if err != nil {
		return err
	}

	ns.mu.Lock()
	defer ns.mu.Unlock()
	if _, exists := ns.entries[spec.Name]; exists {
		return (&BuildError{Op: "Namespace.Extend", Kind: KindCollision, Err: ErrNameTaken}).
			WithContext(map[string]any{"name": spec.Name})
	}
	ns.entries[spec.Name] = e
	return nil
}

func buildEntry(spec ExtendSpec) (*entry, error) {
	switch base := spec.Type.(type) {
	case *Descriptor:
		if spec.Validable {
			return nil, NewChainError("Namespace.Extend", ErrNotValidable).
				WithContext(map[string]any{"name": spec.Name})
		}
		return &entry{factory: func(ns *Namespace) *Descriptor {
			return deriveFrom(spec.Name, base, spec, ns)
		}}, nil
	case *ValidableDescriptor:
		if spec.Validable {
			return nil, NewChainError("Namespace.Extend", ErrNotValidable).
				WithContext(map[string]any{"name": spec.Name})
		}
		return &entry{factory: func(ns *Namespace) *Descriptor {
			return deriveFrom(spec.Name, &base.Descriptor, spec, ns)
		}}, nil
	case ValueType, nil:
		e := &entry{factory: func(ns *Namespace) *Descriptor {
			d := plainFrom(spec)
			d.sink = ns.sink
			return d
		}}
		if spec.Validable {
			tag, _ := spec.Type.(ValueType)
			if tag == TypeInteger {
				return nil, NewChainError("Namespace.Extend", ErrNotValidable).
					WithContext(map[string]any{"name": spec.Name})
			}
			e.validable = func(ns *Namespace) *ValidableDescriptor {
				d := plainFrom(spec)
				d.sink = ns.sink
				vd := &ValidableDescriptor{Descriptor: *d}
				vd.validable = true
				return vd
			}
		}
		return e, nil
	default:
		return nil, NewArgumentError("Namespace.Extend",
			fmt.Errorf("cannot extend from %T", spec.Type))
	}
}

// plainFrom builds a descriptor for a tag-based (or untyped) extension spec.
func plainFrom(spec ExtendSpec) *Descriptor {
	var d *Descriptor
	if tag, ok := spec.Type.(ValueType); ok {
		base := descriptorForTag(tag)
		dup := *base
		d = &dup
	} else {
		d = newDescriptor(KindAny)
	}
	d.name = spec.Name
	d.Required = spec.Required
	if spec.Validator != nil {
		if d.validator != nil {
			// Keep the built-in predicate (integer's whole-number
			// check) and AND the extra one.
			builtin := d.validator
			extra := spec.Validator
			d.validator = func(v any) bool { return builtin(v) && extra(v) }
		} else {
			d.validator = spec.Validator
		}
	}
	if spec.Default != nil {
		d.Def(spec.Default)
	}
	return d
}

// deriveFrom implements descriptor inheritance: the derived validator
// inherits type, required, and default, and composes the extra predicate with
// the inherited check (both must pass).
func deriveFrom(name string, source *Descriptor, spec ExtendSpec, ns *Namespace) *Descriptor {
	d := newDescriptor(KindCustom, source.Type...)
	d.name = name
	d.typeName = name
	d.sink = ns.sink
	d.Required = source.Required || spec.Required
	d.Default = source.Default

	extra := spec.Validator
	d.validator = func(v any) bool {
		if !source.Check(v) {
			return false
		}
		if extra != nil {
			return extra(v)
		}
		return true
	}

	if spec.Default != nil {
		d.Def(spec.Default)
	}
	return d
}

// FromType derives a new named validator from an existing descriptor,
// inheriting its type, required flag, and default, with optional extra
// predicates AND-composed onto the inherited check. It is the single
// validator convenience form of Extend's inheritance behavior, detached from
// any namespace.
func FromType(name string, source any, extra ...func(any) bool) *Descriptor {
	src := toType("FromType", source)
	d := newDescriptor(KindCustom, src.Type...)
	d.name = name
	d.typeName = name
	d.Required = src.Required
	d.Default = src.Default
	preds := append([]func(any) bool(nil), extra...)
	d.validator = func(v any) bool {
		if !src.Check(v) {
			return false
		}
		for _, p := range preds {
			if !p(v) {
				return false
			}
		}
		return true
	}
	return d
}

// Namespace-bound dispatch.

// ValidateType checks value against spec, logging one diagnostic through the
// namespace sink on failure and recording instrumentation when configured.
func (ns *Namespace) ValidateType(spec, value any) bool {
	return ns.ValidateProp("", spec, value)
}

// ValidateProp is ValidateType with a prop name attached to the diagnostic.
func (ns *Namespace) ValidateProp(name string, spec, value any) bool {
	d := toType("Namespace.ValidateType", spec)
	err := ns.observe(d.Kind, name, func() *ValidationError {
		return checkWith(ns.sink, name, d, value)
	})
	if err == nil {
		return true
	}
	ns.sink.Warn(err.Error())
	return false
}

// CheckType is the silent form: it returns the descriptive error instead of
// logging.
func (ns *Namespace) CheckType(spec, value any) error {
	return ns.CheckProp("", spec, value)
}

// CheckProp is CheckType with a prop name attached to the error.
func (ns *Namespace) CheckProp(name string, spec, value any) error {
	d := toType("Namespace.CheckType", spec)
	err := ns.observe(d.Kind, name, func() *ValidationError {
		return checkWith(ns.sink, name, d, value)
	})
	if err != nil {
		return err
	}
	return nil
}
