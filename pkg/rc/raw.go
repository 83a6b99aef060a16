package rc

import "fmt"

// RawPtr is a non-null handle to a native object.
// It carries no ownership: holders must not release it.
type RawPtr struct {
	addr uintptr
}

// Addr returns the native address of the object.
func (p RawPtr) Addr() uintptr {
	return p.addr
}

// Nullable converts p back to its nullable form, as passed to native calls.
func (p RawPtr) Nullable() NullablePtr {
	return NullablePtr(p.addr)
}

func (p RawPtr) String() string {
	return fmt.Sprintf("%#x", p.addr)
}

// Same reports whether a and b are the same native object.
// This is identity, two distinct objects may still be equal by value.
func Same(a, b RawPtr) bool {
	return a.addr == b.addr
}

// NullablePtr is the form native calls use to return an object or nil.
// It has the layout of an Objective-C id so buffers of it can be handed to C.
type NullablePtr uintptr

// Nullable wraps a native address.
//
// Only runtime backends should call it: the address must be nil or point to a live object.
func Nullable(addr uintptr) NullablePtr {
	return NullablePtr(addr)
}

// Get returns the non-null pointer, or false for nil.
func (n NullablePtr) Get() (RawPtr, bool) {
	if n == 0 {
		return RawPtr{}, false
	}
	return RawPtr{addr: uintptr(n)}, true
}

// IsNil reports whether n is nil.
func (n NullablePtr) IsNil() bool {
	return n == 0
}

// ClassPtr is a non-null handle to a native class object.
type ClassPtr struct {
	addr uintptr
}

// Addr returns the native address of the class.
func (c ClassPtr) Addr() uintptr {
	return c.addr
}

func (c ClassPtr) String() string {
	return fmt.Sprintf("%#x", c.addr)
}

// NullableClassPtr is a class pointer returned by a native call, possibly nil.
type NullableClassPtr uintptr

// NullableClass wraps a native class address. Only runtime backends should call it.
func NullableClass(addr uintptr) NullableClassPtr {
	return NullableClassPtr(addr)
}

// Get returns the non-null class pointer, or false for nil.
func (n NullableClassPtr) Get() (ClassPtr, bool) {
	if n == 0 {
		return ClassPtr{}, false
	}
	return ClassPtr{addr: uintptr(n)}, true
}
