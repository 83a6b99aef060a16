package cf

import (
	"github.com/blacktop/choco/internal/shim"
	"github.com/blacktop/choco/pkg/objc"
	"github.com/blacktop/choco/pkg/rc"
)

// StringType tags CFStringRef.
type StringType struct{ Tag }

// String is an owned CFStringRef.
type String struct {
	Instance[StringType]
}

// NewString creates a CFString from UTF-8 text.
func NewString(s string) *String {
	raw := objc.NonNull(shim.Current().CFStringCreate(s), "CFStringCreateWithCString()")
	return &String{Wrap[StringType](rc.Own[StringType](raw))}
}

// StringTypeID is CFStringGetTypeID.
func StringTypeID() uint {
	return shim.Current().CFStringGetTypeID()
}

func (s *String) String() string {
	return shim.Current().CFStringUTF8(s.Raw())
}

// Retain returns an independent owner of the same string.
func (s *String) Retain() *String {
	return &String{Wrap[StringType](s.Ptr().Retain())}
}

func init() {
	objc.Register(func(p *rc.Ptr[StringType, rc.Retained]) *String {
		return &String{Wrap[StringType](p)}
	})
}
