package is

import "reflect"

// Nil reports whether v is nil, including typed nil pointers, maps, slices,
// functions, channels, and interfaces.
func Nil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

// String reports whether v is a string.
func String(v any) bool {
	_, ok := v.(string)
	return ok
}

// Bool reports whether v is a boolean.
func Bool(v any) bool {
	_, ok := v.(bool)
	return ok
}

// Number reports whether v is any integer or floating point value.
func Number(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// Integer reports whether v is an integer value. Floats are accepted when
// they carry no fractional part, matching how decoded JSON represents whole
// numbers as float64.
func Integer(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f == float64(int64(f))
	default:
		return false
	}
}

// Float reports whether v is a floating point value.
func Float(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// Function reports whether v is a non-nil function value.
func Function(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Func && !rv.IsNil()
}

// Array reports whether v is a slice or array.
func Array(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		return true
	default:
		return false
	}
}

// Object reports whether v is a map or a struct.
func Object(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Struct:
		return true
	default:
		return false
	}
}

// PlainObject reports whether v is a string-keyed map, the shape prop values
// arrive in after JSON or YAML decoding.
func PlainObject(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String && !rv.IsNil()
}
