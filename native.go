package propkit

import "github.com/propkit/propkit/is"

// Native validator factories. Each returns a fresh, default-free descriptor
// wrapping a single runtime predicate; namespace convenience getters layer
// configured defaults on top of these.

// Any accepts every value. It opts a prop out of type checking while still
// allowing the required flag and a default.
func Any() *ValidableDescriptor {
	return newValidable(KindAny)
}

// Bool accepts boolean values.
func Bool() *ValidableDescriptor {
	return newValidable(KindBool, TypeBoolean)
}

// String accepts string values.
func String() *ValidableDescriptor {
	return newValidable(KindString, TypeString)
}

// Number accepts any integer or floating point value.
func Number() *ValidableDescriptor {
	return newValidable(KindNumber, TypeNumber)
}

// Integer accepts integer values, including whole floats as produced by JSON
// decoding. Its whole-number predicate is built in, so Integer descriptors do
// not accept a user validator.
func Integer() *Descriptor {
	d := newDescriptor(KindInteger, TypeInteger)
	d.validator = is.Integer
	return d
}

// Func accepts function values.
func Func() *ValidableDescriptor {
	return newValidable(KindFunc, TypeFunction)
}

// Array accepts slices and arrays.
func Array() *ValidableDescriptor {
	return newValidable(KindArray, TypeArray)
}

// Object accepts maps and structs.
func Object() *ValidableDescriptor {
	return newValidable(KindObject, TypeObject)
}
