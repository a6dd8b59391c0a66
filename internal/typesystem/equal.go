package typesystem

import "reflect"

// Equal reports whether two types are structurally identical.
// It is reflexive and symmetric, and treats two TUnknown values as
// equal. Union member order is significant: Int | Str and Str | Int
// are distinct values.
func Equal(t1, t2 Type) bool {
	return reflect.DeepEqual(t1, t2)
}

// IsUnknown reports whether t is the unresolved/unknown type.
func IsUnknown(t Type) bool {
	_, ok := t.(TUnknown)
	return ok
}

// IsNever reports whether t is the empty type.
func IsNever(t Type) bool {
	_, ok := t.(TNever)
	return ok
}
