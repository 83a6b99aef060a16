package foundation

import (
	"strconv"

	"github.com/blacktop/choco/internal/shim"
	"github.com/blacktop/choco/pkg/objc"
	"github.com/blacktop/choco/pkg/rc"
)

// NSValue wraps an NSValue.
type NSValue struct {
	objc.Instance[NSValueType]
}

func (*NSValue) KindOfNSObject()  {}
func (*NSValue) KindOfNSValue()   {}
func (*NSValue) KindOfNSCopying() {}

// ObjCType returns the @encode type of the stored value.
func (v *NSValue) ObjCType() string {
	return shim.Current().ValueObjCType(v.Raw())
}

// NSNumber wraps an NSNumber. Booleans are the shared kCFBooleanTrue/False objects.
type NSNumber struct {
	NSValue
}

func (*NSNumber) KindOfNSNumber() {}

func newNumber(p rc.NullablePtr, call string) *NSNumber {
	return objc.Adopt[*NSNumber](objc.NonNull(p, call))
}

func NumberWithBool(v bool) *NSNumber {
	return newNumber(shim.Current().NumberWithBool(v), "+[NSNumber numberWithBool:]")
}

func NumberWithInt(v int64) *NSNumber {
	return newNumber(shim.Current().NumberWithInteger(v), "+[NSNumber numberWithLongLong:]")
}

func NumberWithUint(v uint64) *NSNumber {
	return newNumber(shim.Current().NumberWithUnsignedInteger(v), "+[NSNumber numberWithUnsignedLongLong:]")
}

func NumberWithFloat(v float64) *NSNumber {
	return newNumber(shim.Current().NumberWithDouble(v), "+[NSNumber numberWithDouble:]")
}

func (n *NSNumber) BoolValue() bool     { return shim.Current().NumberBoolValue(n.Raw()) }
func (n *NSNumber) IntValue() int64     { return shim.Current().NumberIntegerValue(n.Raw()) }
func (n *NSNumber) UintValue() uint64   { return shim.Current().NumberUnsignedIntegerValue(n.Raw()) }
func (n *NSNumber) FloatValue() float64 { return shim.Current().NumberDoubleValue(n.Raw()) }

// IsBool reports whether n is one of the boolean singletons.
func (n *NSNumber) IsBool() bool {
	return n.ObjCType() == "c" && (rc.Same(n.Raw(), boolRaw(true)) || rc.Same(n.Raw(), boolRaw(false)))
}

func boolRaw(v bool) rc.RawPtr {
	rt := shim.Current()
	if v {
		return objc.NonNull(rt.CFBooleanTrue(), "kCFBooleanTrue")
	}
	return objc.NonNull(rt.CFBooleanFalse(), "kCFBooleanFalse")
}

func (n *NSNumber) Retain() *NSNumber {
	return objc.RetainAs[*NSNumber](n.Raw())
}

func (n *NSNumber) String() string {
	switch n.ObjCType() {
	case "c", "B":
		if n.IsBool() {
			return strconv.FormatBool(n.BoolValue())
		}
		return strconv.FormatInt(n.IntValue(), 10)
	case "f", "d":
		return strconv.FormatFloat(n.FloatValue(), 'g', -1, 64)
	case "Q", "L", "I", "S", "C":
		return strconv.FormatUint(n.UintValue(), 10)
	default:
		return strconv.FormatInt(n.IntValue(), 10)
	}
}

// NSNull wraps the kCFNull singleton.
type NSNull struct {
	objc.Instance[NSNullType]
}

func (*NSNull) KindOfNSObject()  {}
func (*NSNull) KindOfNSCopying() {}

// Null returns [NSNull null] as a static pointer.
func Null() *NSNull {
	return &NSNull{objc.Wrap[NSNullType](rc.Immortal[NSNullType](objc.NonNull(shim.Current().CFNull(), "+[NSNull null]")))}
}
