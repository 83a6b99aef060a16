// Package cf binds CoreFoundation types on top of the rc ownership model.
//
// CF objects are retained and released with CFRetain/CFRelease. CFBoolean and CFNull
// singletons are immortal and carried by Static pointers.
package cf

import (
	"fmt"

	"github.com/blacktop/choco/internal/shim"
	"github.com/blacktop/choco/pkg/objc"
	"github.com/blacktop/choco/pkg/rc"
)

// Tag gives a tag the CF TypeKind.
type Tag struct{}

func (Tag) TypeKind() rc.TypeKind { return rc.CF }

// TypeRef is implemented by every CF wrapper.
type TypeRef interface {
	Raw() rc.RawPtr
}

// Instance holds the pointer of a CF wrapper and implements the CFType functions for it.
type Instance[T rc.Type] struct {
	ptr rc.Handle[T]
}

func Wrap[T rc.Type](p rc.Handle[T]) Instance[T] {
	return Instance[T]{ptr: p}
}

func (i Instance[T]) Raw() rc.RawPtr       { return i.ptr.Raw() }
func (i Instance[T]) Ptr() rc.Handle[T]    { return i.ptr }
func (i Instance[T]) Equal(o TypeRef) bool { return Equal(i, o) }
func (i Instance[T]) Hash() uint           { return Hash(i) }
func (i Instance[T]) RetainCount() int     { return RetainCount(i) }
func (i Instance[T]) TypeID() uint         { return GetTypeID(i) }
func (i Instance[T]) Description() string  { return CopyDescription(i) }
func (i Instance[T]) Show()                { Show(i) }

// Release gives back the reference owned by the wrapper, if any.
func (i Instance[T]) Release() {
	if i.ptr != nil {
		i.ptr.Release()
	}
}

// Equal is CFEqual.
func Equal(a, b TypeRef) bool {
	return shim.Current().CFEqual(a.Raw(), b.Raw())
}

// Hash is CFHash.
func Hash(cf TypeRef) uint {
	return shim.Current().CFHash(cf.Raw())
}

// RetainCount is CFGetRetainCount. It is only meaningful for debugging.
func RetainCount(cf TypeRef) int {
	return shim.Current().CFGetRetainCount(cf.Raw())
}

// GetTypeID is CFGetTypeID.
func GetTypeID(cf TypeRef) uint {
	return shim.Current().CFGetTypeID(cf.Raw())
}

// CopyDescription returns CFCopyDescription as a Go string.
func CopyDescription(cf TypeRef) string {
	rt := shim.Current()
	desc := rc.Own[StringType](objc.NonNull(rt.CFCopyDescription(cf.Raw()), "CFCopyDescription()"))
	defer desc.Release()
	return rt.CFStringUTF8(desc.Raw())
}

// Show is CFShow.
func Show(cf TypeRef) {
	shim.Current().CFShow(cf.Raw())
}

// RefType tags CFTypeRef.
type RefType struct{ Tag }

// Ref is an owned CFTypeRef of unknown type.
type Ref struct {
	Instance[RefType]
}

func (r *Ref) String() string {
	return fmt.Sprintf("CFTypeRef(%v id=%d)", r.Raw(), r.TypeID())
}

func init() {
	objc.Register(func(p *rc.Ptr[RefType, rc.Retained]) *Ref {
		return &Ref{Wrap[RefType](p)}
	})
}
