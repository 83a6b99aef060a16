package cf

import (
	"strconv"

	"github.com/blacktop/choco/internal/shim"
	"github.com/blacktop/choco/pkg/objc"
	"github.com/blacktop/choco/pkg/rc"
)

// BooleanType tags CFBooleanRef.
type BooleanType struct{ Tag }

// Boolean is one of the two immortal CFBoolean singletons.
type Boolean struct {
	Instance[BooleanType]
}

func True() *Boolean {
	return &Boolean{Wrap[BooleanType](rc.Immortal[BooleanType](objc.NonNull(shim.Current().CFBooleanTrue(), "kCFBooleanTrue")))}
}

func False() *Boolean {
	return &Boolean{Wrap[BooleanType](rc.Immortal[BooleanType](objc.NonNull(shim.Current().CFBooleanFalse(), "kCFBooleanFalse")))}
}

// BooleanOf returns the singleton for v.
func BooleanOf(v bool) *Boolean {
	if v {
		return True()
	}
	return False()
}

// Value is CFBooleanGetValue.
func (b *Boolean) Value() bool {
	return shim.Current().CFBooleanGetValue(b.Raw())
}

func (b *Boolean) String() string {
	return strconv.FormatBool(b.Value())
}

// BooleanTypeID is CFBooleanGetTypeID.
func BooleanTypeID() uint {
	return shim.Current().CFBooleanGetTypeID()
}

// NullType tags CFNullRef.
type NullType struct{ Tag }

// NullValue is the immortal kCFNull singleton.
type NullValue struct {
	Instance[NullType]
}

// Null returns kCFNull.
func Null() *NullValue {
	return &NullValue{Wrap[NullType](rc.Immortal[NullType](objc.NonNull(shim.Current().CFNull(), "kCFNull")))}
}

func (*NullValue) String() string { return "<null>" }

// NullTypeID is CFNullGetTypeID.
func NullTypeID() uint {
	return shim.Current().CFNullGetTypeID()
}
