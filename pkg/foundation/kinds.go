// Package foundation binds the Foundation classes needed to work with strings, numbers,
// dates, URLs, errors and the generic NSArray / NSDictionary containers.
//
// Every method returning an object returns an owned wrapper the caller must Release.
package foundation

import (
	"github.com/blacktop/choco/pkg/objc"
	"github.com/blacktop/choco/pkg/rc"
)

type (
	NSStringType            struct{ objc.Tag }
	NSValueType             struct{ objc.Tag }
	NSNumberType            struct{ objc.Tag }
	NSNullType              struct{ objc.Tag }
	NSDateType              struct{ objc.Tag }
	NSURLType               struct{ objc.Tag }
	NSErrorType             struct{ objc.Tag }
	NSArrayType             struct{ objc.Tag }
	NSMutableArrayType      struct{ objc.Tag }
	NSDictionaryType        struct{ objc.Tag }
	NSMutableDictionaryType struct{ objc.Tag }
)

func (NSStringType) ClassName() string            { return "NSString" }
func (NSValueType) ClassName() string             { return "NSValue" }
func (NSNumberType) ClassName() string            { return "NSNumber" }
func (NSNullType) ClassName() string              { return "NSNull" }
func (NSDateType) ClassName() string              { return "NSDate" }
func (NSURLType) ClassName() string               { return "NSURL" }
func (NSErrorType) ClassName() string             { return "NSError" }
func (NSArrayType) ClassName() string             { return "NSArray" }
func (NSMutableArrayType) ClassName() string      { return "NSMutableArray" }
func (NSDictionaryType) ClassName() string        { return "NSDictionary" }
func (NSMutableDictionaryType) ClassName() string { return "NSMutableDictionary" }

func (t NSStringType) Class() rc.ClassPtr            { return objc.MustClass(t.ClassName()) }
func (t NSValueType) Class() rc.ClassPtr             { return objc.MustClass(t.ClassName()) }
func (t NSNumberType) Class() rc.ClassPtr            { return objc.MustClass(t.ClassName()) }
func (t NSNullType) Class() rc.ClassPtr              { return objc.MustClass(t.ClassName()) }
func (t NSDateType) Class() rc.ClassPtr              { return objc.MustClass(t.ClassName()) }
func (t NSURLType) Class() rc.ClassPtr               { return objc.MustClass(t.ClassName()) }
func (t NSErrorType) Class() rc.ClassPtr             { return objc.MustClass(t.ClassName()) }
func (t NSArrayType) Class() rc.ClassPtr             { return objc.MustClass(t.ClassName()) }
func (t NSMutableArrayType) Class() rc.ClassPtr      { return objc.MustClass(t.ClassName()) }
func (t NSDictionaryType) Class() rc.ClassPtr        { return objc.MustClass(t.ClassName()) }
func (t NSMutableDictionaryType) Class() rc.ClassPtr { return objc.MustClass(t.ClassName()) }

// NSCopyingKind is implemented by wrappers of classes adopting NSCopying.
type NSCopyingKind interface {
	objc.Object
	KindOfNSCopying()
}

// NSMutableCopyingKind is implemented by wrappers of classes adopting NSMutableCopying.
type NSMutableCopyingKind interface {
	objc.Object
	KindOfNSMutableCopying()
}

type NSStringKind interface {
	objc.NSObjectKind
	KindOfNSString()
}

type NSValueKind interface {
	objc.NSObjectKind
	KindOfNSValue()
}

type NSNumberKind interface {
	objc.NSObjectKind
	KindOfNSNumber()
}

type NSDateKind interface {
	objc.NSObjectKind
	KindOfNSDate()
}

type NSURLKind interface {
	objc.NSObjectKind
	KindOfNSURL()
}

type NSErrorKind interface {
	objc.NSObjectKind
	KindOfNSError()
}

// NSArrayKind is implemented by arrays whose elements are E. The marker carries the
// element type, so arrays of different element types are distinct kinds.
type NSArrayKind[E objc.Object] interface {
	objc.NSObjectKind
	KindOfNSArray(E)
}

type NSMutableArrayKind[E objc.Object] interface {
	NSArrayKind[E]
	KindOfNSMutableArray(E)
}

type NSDictionaryKind[K, V objc.Object] interface {
	objc.NSObjectKind
	KindOfNSDictionary(K, V)
}

type NSMutableDictionaryKind[K, V objc.Object] interface {
	NSDictionaryKind[K, V]
	KindOfNSMutableDictionary(K, V)
}

func init() {
	objc.Register(func(p *rc.Ptr[NSStringType, rc.Retained]) *NSString {
		return &NSString{objc.Wrap[NSStringType](p)}
	})
	objc.Register(func(p *rc.Ptr[NSValueType, rc.Retained]) *NSValue {
		return &NSValue{objc.Wrap[NSValueType](p)}
	})
	objc.Register(func(p *rc.Ptr[NSNumberType, rc.Retained]) *NSNumber {
		return &NSNumber{NSValue{objc.Wrap[NSValueType](rc.Transfer[NSValueType](p))}}
	})
	objc.Register(func(p *rc.Ptr[NSNullType, rc.Retained]) *NSNull {
		return &NSNull{objc.Wrap[NSNullType](p)}
	})
	objc.Register(func(p *rc.Ptr[NSDateType, rc.Retained]) *NSDate {
		return &NSDate{objc.Wrap[NSDateType](p)}
	})
	objc.Register(func(p *rc.Ptr[NSURLType, rc.Retained]) *NSURL {
		return &NSURL{objc.Wrap[NSURLType](p)}
	})
	objc.Register(func(p *rc.Ptr[NSErrorType, rc.Retained]) *NSError {
		return &NSError{objc.Wrap[NSErrorType](p)}
	})
	// untyped containers, used when adopting by class
	objc.Register(func(p *rc.Ptr[NSArrayType, rc.Retained]) *NSArray[objc.NSObjectKind] {
		return &NSArray[objc.NSObjectKind]{objc.Wrap[NSArrayType](p)}
	})
	objc.Register(func(p *rc.Ptr[NSMutableArrayType, rc.Retained]) *NSMutableArray[objc.NSObjectKind] {
		return newMutableArray[objc.NSObjectKind](rc.Transfer[NSArrayType](p))
	})
	objc.Register(func(p *rc.Ptr[NSDictionaryType, rc.Retained]) *NSDictionary[objc.NSObjectKind, objc.NSObjectKind] {
		return &NSDictionary[objc.NSObjectKind, objc.NSObjectKind]{objc.Wrap[NSDictionaryType](p)}
	})
	objc.Register(func(p *rc.Ptr[NSMutableDictionaryType, rc.Retained]) *NSMutableDictionary[objc.NSObjectKind, objc.NSObjectKind] {
		return newMutableDictionary[objc.NSObjectKind, objc.NSObjectKind](rc.Transfer[NSDictionaryType](p))
	})
}
