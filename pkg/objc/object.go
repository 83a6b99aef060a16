package objc

import (
	"fmt"

	"github.com/blacktop/choco/internal/shim"
	"github.com/blacktop/choco/pkg/rc"
)

// Object is implemented by every wrapper of an Objective-C object.
type Object interface {
	Raw() rc.RawPtr
}

// Class is implemented by the zero-size tags naming an Objective-C class.
type Class interface {
	rc.Type
	ClassName() string
	Class() rc.ClassPtr
}

// Tag gives a class tag the Objective-C TypeKind.
type Tag struct{}

func (Tag) TypeKind() rc.TypeKind { return rc.ObjC }

// NonNull unwraps a pointer a native call documents as never nil.
func NonNull(p rc.NullablePtr, call string) rc.RawPtr {
	raw, ok := p.Get()
	if !ok {
		panic(fmt.Sprintf("expecting %s to return a non null pointer", call))
	}
	return raw
}

// Instance holds the pointer of a wrapper and implements the NSObject protocol for it.
type Instance[T Class] struct {
	ptr rc.Handle[T]
}

// Wrap builds an Instance over a pointer of any ownership.
func Wrap[T Class](p rc.Handle[T]) Instance[T] {
	return Instance[T]{ptr: p}
}

// Raw returns the object without transferring ownership.
func (o Instance[T]) Raw() rc.RawPtr {
	return o.ptr.Raw()
}

// Ptr returns the underlying handle.
func (o Instance[T]) Ptr() rc.Handle[T] {
	return o.ptr
}

// Release gives back the reference owned by the wrapper, if any.
func (o Instance[T]) Release() {
	if o.ptr != nil {
		o.ptr.Release()
	}
}

func (o Instance[T]) Hash() uint {
	return Hash(o)
}

// IsEqual compares by value through -isEqual:. other is never nil.
func (o Instance[T]) IsEqual(other Object) bool {
	return IsEqual(o, other)
}

func (o Instance[T]) IsKindOf(cls rc.ClassPtr) bool {
	return IsKindOf(o, cls)
}

func (o Instance[T]) Class() rc.ClassPtr {
	return ClassOf(o)
}

func (o Instance[T]) Description() string {
	return Describe(o)
}

func (o Instance[T]) DebugDescription() string {
	return goString(NonNull(shim.Current().DebugDescription(o.Raw()), "-[NSObject debugDescription]"))
}

func (o Instance[T]) String() string {
	if o.ptr == nil || !o.ptr.Valid() {
		var t T
		return fmt.Sprintf("<%s: invalid>", t.ClassName())
	}
	return o.Description()
}

// Hash returns -hash of obj.
func Hash(obj Object) uint {
	return shim.Current().Hash(obj.Raw())
}

// IsEqual returns -isEqual: of a and b. Identical objects are always equal.
func IsEqual(a, b Object) bool {
	return shim.Current().IsEqual(a.Raw(), b.Raw())
}

// IsKindOf reports whether obj is an instance of cls or of one of its subclasses.
func IsKindOf(obj Object, cls rc.ClassPtr) bool {
	return shim.Current().IsKindOfClass(obj.Raw(), cls)
}

// ClassOf returns the dynamic class of obj.
func ClassOf(obj Object) rc.ClassPtr {
	return shim.Current().ObjectClass(obj.Raw())
}

// Describe returns -description of obj.
func Describe(obj Object) string {
	return goString(NonNull(shim.Current().Description(obj.Raw()), "-[NSObject description]"))
}

// goString converts an owned NSString and releases it.
func goString(owned rc.RawPtr) string {
	s := rc.Own[NSObjectType](owned)
	defer s.Release()
	return shim.Current().StringUTF8(s.Raw())
}
