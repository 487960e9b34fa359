package propkit

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/propkit/propkit/is"
)

// Kind tags a descriptor's validator family. Kinds form a closed set; the
// dispatcher switches on them rather than probing descriptor shape.
type Kind string

// Native kinds.
const (
	KindAny     Kind = "any"
	KindBool    Kind = "bool"
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindInteger Kind = "integer"
	KindFunc    Kind = "func"
	KindArray   Kind = "array"
	KindObject  Kind = "object"
)

// Composite kinds.
const (
	KindOneOf      Kind = "oneOf"
	KindOneOfType  Kind = "oneOfType"
	KindArrayOf    Kind = "arrayOf"
	KindObjectOf   Kind = "objectOf"
	KindShape      Kind = "shape"
	KindInstanceOf Kind = "instanceOf"
	KindCustom     Kind = "custom"
)

// ValueType is the coarse native type tag the host framework checks before
// running a descriptor's validator. A descriptor carries zero or more tags;
// zero tags means any type is acceptable at the coarse level.
type ValueType string

const (
	TypeString   ValueType = "string"
	TypeNumber   ValueType = "number"
	TypeInteger  ValueType = "integer"
	TypeBoolean  ValueType = "boolean"
	TypeArray    ValueType = "array"
	TypeObject   ValueType = "object"
	TypeFunction ValueType = "function"
)

// valueTypeOf derives the coarse tag for a runtime value. Whole floats are
// reported as number, not integer; the integer tag is only ever declared by
// descriptors, never inferred from a value.
func valueTypeOf(v any) (ValueType, bool) {
	switch {
	case v == nil:
		return "", false
	case is.String(v):
		return TypeString, true
	case is.Bool(v):
		return TypeBoolean, true
	case is.Number(v):
		return TypeNumber, true
	case is.Function(v):
		return TypeFunction, true
	case is.Array(v):
		return TypeArray, true
	case is.Object(v):
		return TypeObject, true
	default:
		return "", false
	}
}

// matchesType checks a value against one coarse tag. The number tag accepts
// integers and the integer tag accepts whole floats, mirroring how decoded
// JSON carries numbers.
func matchesType(tag ValueType, v any) bool {
	switch tag {
	case TypeString:
		return is.String(v)
	case TypeBoolean:
		return is.Bool(v)
	case TypeNumber:
		return is.Number(v)
	case TypeInteger:
		return is.Integer(v)
	case TypeArray:
		return is.Array(v)
	case TypeObject:
		return is.Object(v)
	case TypeFunction:
		return is.Function(v)
	default:
		return false
	}
}

// typeList renders a tag set for diagnostics, e.g. "string or number".
func typeList(tags []ValueType) string {
	if len(tags) == 0 {
		return "any"
	}
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = string(t)
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return strings.Join(parts[:len(parts)-1], ", ") + " or " + parts[len(parts)-1]
}

// distinctTypes derives the ordered set of coarse tags covering the runtime
// types of the given values. Values with no tag (nil, channels, ...) are
// skipped.
func distinctTypes(values []any) []ValueType {
	seen := make(map[ValueType]bool)
	var tags []ValueType
	for _, v := range values {
		tag, ok := valueTypeOf(v)
		if !ok || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

// describe renders a received value for diagnostics: its Go type and a short
// representation of the value itself.
func describe(v any) string {
	if v == nil {
		return "nil"
	}
	s := fmt.Sprintf("%T(%v)", v, v)
	if len(s) > 80 {
		s = s[:77] + "..."
	}
	return s
}

// sortedKeys returns the sorted string keys of a reflected map, used to make
// objectOf and shape diagnostics deterministic.
func sortedKeys(rv reflect.Value) []string {
	keys := make([]string, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	return keys
}
