package objc

import "github.com/blacktop/choco/pkg/rc"

// NSObjectType tags NSObject.
type NSObjectType struct{ Tag }

func (NSObjectType) ClassName() string     { return "NSObject" }
func (t NSObjectType) Class() rc.ClassPtr { return MustClass(t.ClassName()) }

// NSObjectKind is implemented by every wrapper usable as an NSObject.
type NSObjectKind interface {
	Object
	KindOfNSObject()
}

// NSObject wraps an instance of NSObject.
type NSObject struct {
	Instance[NSObjectType]
}

func (*NSObject) KindOfNSObject() {}

// NewNSObject returns [NSObject new].
func NewNSObject() *NSObject {
	return New[*NSObject](NSObjectType{}.Class())
}

// Retain returns an independent owner of the same object.
func (o *NSObject) Retain() *NSObject {
	return &NSObject{Wrap[NSObjectType](o.Ptr().Retain())}
}

func init() {
	Register(func(p *rc.Ptr[NSObjectType, rc.Retained]) *NSObject {
		return &NSObject{Wrap[NSObjectType](p)}
	})
}
