package propkit

import (
	"fmt"
	"reflect"
	"runtime"
	"sort"
	"strings"
)

// Composite validator builders. Each returns a descriptor whose check
// recursively delegates to nested descriptors; the nested state is held as
// data on the descriptor and dispatched by kind, so it stays inspectable.
//
// Malformed arguments are programmer errors, not validation failures: the
// builders panic with a *BuildError, keeping the chainable construction style
// (the regexp.MustCompile precedent).

// OneOf accepts a value iff it is one of the enumerated values, compared by
// identity, or nil when nil is enumerated. The coarse Type set is derived
// from the runtime types of the enumerated values so the host framework's own
// check stays consistent.
func OneOf(values ...any) *Descriptor {
	if len(values) == 0 {
		panic(NewArgumentError("OneOf", ErrEmptyList))
	}
	d := newDescriptor(KindOneOf, distinctTypes(values)...)
	d.choices = append([]any(nil), values...)
	return d
}

// OneOfType accepts a value iff it validates against any entry. Entries may
// be coarse ValueType tags, descriptors, raw PropSpec objects, or bare
// predicates; they are normalized uniformly. When every entry is a bare tag
// the composite degrades to a plain Type set with no validator, the cheap
// path the host framework can check on its own.
func OneOfType(entries ...any) *Descriptor {
	if len(entries) == 0 {
		panic(NewArgumentError("OneOfType", ErrEmptyList))
	}

	allTags := true
	for _, e := range entries {
		if _, ok := e.(ValueType); !ok {
			allTags = false
			break
		}
	}
	if allTags {
		tags := make([]ValueType, 0, len(entries))
		seen := make(map[ValueType]bool)
		for _, e := range entries {
			tag := e.(ValueType)
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
		return newDescriptor(KindOneOfType, tags...)
	}

	d := newDescriptor(KindOneOfType)
	seen := make(map[ValueType]bool)
	untagged := false
	for i, e := range entries {
		alt := toType(fmt.Sprintf("OneOfType[%d]", i), e)
		d.alts = append(d.alts, alt)
		// An alternative without coarse tags accepts any type, so the
		// composite's tag set must stay open too.
		if len(alt.Type) == 0 {
			untagged = true
			continue
		}
		for _, tag := range alt.Type {
			if !seen[tag] {
				seen[tag] = true
				d.Type = append(d.Type, tag)
			}
		}
	}
	if untagged {
		d.Type = nil
	}
	return d
}

// ArrayOf accepts an array iff every element validates against entry. The
// diagnostic names the index of the first failing element.
func ArrayOf(entry any) *Descriptor {
	d := newDescriptor(KindArrayOf, TypeArray)
	d.elem = toType("ArrayOf", entry)
	return d
}

// ObjectOf accepts a plain object iff every value validates against entry.
// The diagnostic names the offending key.
func ObjectOf(entry any) *Descriptor {
	d := newDescriptor(KindObjectOf, TypeObject)
	d.elem = toType("ObjectOf", entry)
	return d
}

// Shape accepts a plain object iff all required declared keys are present,
// every present declared key validates against its entry, and, unless the
// descriptor was made loose, no undeclared keys are present. Schema entries
// are normalized like composite entries; an entry that cannot be normalized,
// or a member declaring both required and a default, is a construction error.
func Shape(schema map[string]any) *Descriptor {
	d := newDescriptor(KindShape, TypeObject)
	d.schema = make(map[string]*Descriptor, len(schema))
	d.schemaKeys = make([]string, 0, len(schema))
	for key, entry := range schema {
		member := toType("Shape."+key, entry)
		// A required member is always supplied by the caller, so a default
		// on it can never apply; declaring both is contradictory.
		if member.Required && member.Default != nil {
			panic(NewArgumentError("Shape",
				fmt.Errorf("member %q is required and carries a default", key)))
		}
		d.schema[key] = member
		d.schemaKeys = append(d.schemaKeys, key)
	}
	sort.Strings(d.schemaKeys)
	return d
}

// InstanceOf accepts values assignable to T: exact type matches, and any
// implementation when T is an interface. Nil passes unless the descriptor is
// required.
func InstanceOf[T any]() *Descriptor {
	target := reflect.TypeOf((*T)(nil)).Elem()
	d := newDescriptor(KindInstanceOf)
	d.typeName = target.String()
	d.instance = func(v any) bool {
		if v == nil {
			return false
		}
		return reflect.TypeOf(v).AssignableTo(target)
	}
	return d
}

// Custom accepts a value iff fn reports true. The optional message overrides
// the templated diagnostic, which otherwise embeds the predicate's declared
// name.
func Custom(fn func(any) bool, message ...string) *Descriptor {
	if fn == nil {
		panic(NewArgumentError("Custom", fmt.Errorf("nil predicate")))
	}
	d := newDescriptor(KindCustom)
	d.validator = fn
	d.typeName = funcName(fn)
	if len(message) > 0 {
		d.message = message[0]
	}
	return d
}

// toType normalizes a composite entry into a descriptor. Accepted inputs:
// *Descriptor, *ValidableDescriptor, a coarse ValueType tag, a raw PropSpec,
// or a bare predicate (treated as a custom validator). Anything else is a
// construction error.
func toType(op string, entry any) *Descriptor {
	switch e := entry.(type) {
	case *Descriptor:
		return e
	case *ValidableDescriptor:
		return &e.Descriptor
	case ValueType:
		return descriptorForTag(e)
	case PropSpec:
		return specToDescriptor(e)
	case *PropSpec:
		return specToDescriptor(*e)
	case func(any) bool:
		return Custom(e)
	default:
		panic(NewArgumentError(op, fmt.Errorf("cannot use %T as a validator entry", entry)))
	}
}

// descriptorForTag builds the native descriptor matching one coarse tag.
func descriptorForTag(tag ValueType) *Descriptor {
	switch tag {
	case TypeString:
		return &String().Descriptor
	case TypeBoolean:
		return &Bool().Descriptor
	case TypeNumber:
		return &Number().Descriptor
	case TypeInteger:
		return Integer()
	case TypeArray:
		return &Array().Descriptor
	case TypeObject:
		return &Object().Descriptor
	case TypeFunction:
		return &Func().Descriptor
	default:
		panic(NewArgumentError("toType", fmt.Errorf("unknown value type %q", string(tag))))
	}
}

// specToDescriptor wraps a raw host framework prop spec.
func specToDescriptor(spec PropSpec) *Descriptor {
	kind := KindAny
	if len(spec.Type) == 1 {
		switch spec.Type[0] {
		case TypeString:
			kind = KindString
		case TypeBoolean:
			kind = KindBool
		case TypeNumber:
			kind = KindNumber
		case TypeInteger:
			kind = KindInteger
		case TypeArray:
			kind = KindArray
		case TypeObject:
			kind = KindObject
		case TypeFunction:
			kind = KindFunc
		}
	}
	d := newDescriptor(kind, spec.Type...)
	d.Required = spec.Required
	d.Default = spec.Default
	d.validator = spec.Validator
	return d
}

// identical compares two values by identity, the oneOf membership rule.
// Uncomparable types (slices, maps, functions) never match.
func identical(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

// funcName reports the declared name of a predicate for diagnostics.
func funcName(fn func(any) bool) string {
	name := runtime.FuncForPC(reflect.ValueOf(fn).Pointer()).Name()
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		return "custom validator"
	}
	return name
}
