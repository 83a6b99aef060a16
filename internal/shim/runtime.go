// Package shim is the trampoline surface between the bindings and a native
// Objective-C / Core Foundation runtime.
//
// Object results are returned owned (+1) unless noted otherwise. Errors handed back
// through an out parameter follow the Cocoa convention and are autoreleased.
package shim

import (
	"sync/atomic"

	"github.com/blacktop/choco/pkg/rc"
)

// Runtime is implemented by the darwin trampolines and by the simulated runtime.
type Runtime interface {
	rc.Backend

	// autorelease pools
	PoolPush() uintptr
	PoolPop(token uintptr)

	// classes
	ClassNamed(name string) rc.NullableClassPtr
	ClassName(cls rc.ClassPtr) string
	Superclass(cls rc.ClassPtr) rc.NullableClassPtr
	ConformsToProtocol(cls rc.ClassPtr, protocol string) bool
	RespondsToSelector(cls rc.ClassPtr, selector string) bool
	ClassProtocols(cls rc.ClassPtr) []string
	ClassSelectors(cls rc.ClassPtr) []string
	ClassNew(cls rc.ClassPtr) rc.NullablePtr
	ObjectClass(obj rc.RawPtr) rc.ClassPtr

	// NSObject protocol
	Hash(obj rc.RawPtr) uint
	IsEqual(obj, other rc.RawPtr) bool
	IsKindOfClass(obj rc.RawPtr, cls rc.ClassPtr) bool
	Description(obj rc.RawPtr) rc.NullablePtr
	DebugDescription(obj rc.RawPtr) rc.NullablePtr

	// NSCopying / NSMutableCopying
	Copy(obj rc.RawPtr) rc.NullablePtr
	MutableCopy(obj rc.RawPtr) rc.NullablePtr

	// NSString
	StringWithUTF8(s string) rc.NullablePtr
	StringWithContentsOfFile(path string, err *rc.NullablePtr) rc.NullablePtr
	StringUTF8(str rc.RawPtr) string
	StringLength(str rc.RawPtr) int
	StringCharacterAt(str rc.RawPtr, index int) uint16
	StringIsEqualToString(str, other rc.RawPtr) bool

	// NSValue / NSNumber
	ValueObjCType(val rc.RawPtr) string
	NumberWithBool(v bool) rc.NullablePtr
	NumberWithInteger(v int64) rc.NullablePtr
	NumberWithUnsignedInteger(v uint64) rc.NullablePtr
	NumberWithDouble(v float64) rc.NullablePtr
	NumberBoolValue(num rc.RawPtr) bool
	NumberIntegerValue(num rc.RawPtr) int64
	NumberUnsignedIntegerValue(num rc.RawPtr) uint64
	NumberDoubleValue(num rc.RawPtr) float64

	// NSDate
	DateNow() rc.NullablePtr
	DateWithTimeIntervalSince1970(secs float64) rc.NullablePtr
	DateWithTimeIntervalSinceReferenceDate(secs float64) rc.NullablePtr
	DateTimeIntervalSince1970(date rc.RawPtr) float64
	DateTimeIntervalSinceReferenceDate(date rc.RawPtr) float64
	DateTimeIntervalSinceNow(date rc.RawPtr) float64
	DateTimeIntervalSinceDate(date, other rc.RawPtr) float64

	// NSURL
	URLWithString(s string) rc.NullablePtr
	FileURLWithPath(path string, isDirectory bool) rc.NullablePtr
	URLAbsoluteString(url rc.RawPtr) rc.NullablePtr
	URLPath(url rc.RawPtr) string
	URLIsFileURL(url rc.RawPtr) bool

	// NSError
	ErrorWithDomain(domain string, code int, description string) rc.NullablePtr
	ErrorDomain(err rc.RawPtr) string
	ErrorCode(err rc.RawPtr) int
	ErrorLocalizedDescription(err rc.RawPtr) string

	// NSArray / NSMutableArray
	ArrayWithObjects(objs []rc.RawPtr) rc.NullablePtr
	ArrayCount(arr rc.RawPtr) int
	ArrayObjectAtIndex(arr rc.RawPtr, index int) rc.NullablePtr
	ArrayFirstObject(arr rc.RawPtr) rc.NullablePtr
	ArrayLastObject(arr rc.RawPtr) rc.NullablePtr
	ArrayByAddingObject(arr, obj rc.RawPtr) rc.NullablePtr
	MutableArrayAddObject(arr, obj rc.RawPtr)
	MutableArrayRemoveLastObject(arr rc.RawPtr)
	MutableArrayRemoveAllObjects(arr rc.RawPtr)

	// NSDictionary / NSMutableDictionary
	DictionaryWithObjects(objs, keys []rc.RawPtr) rc.NullablePtr
	DictionaryCount(dict rc.RawPtr) int
	DictionaryObjectForKey(dict, key rc.RawPtr) rc.NullablePtr
	MutableDictionarySetObject(dict, obj, key rc.RawPtr)
	MutableDictionaryRemoveObject(dict, key rc.RawPtr)
	MutableDictionaryRemoveAllObjects(dict rc.RawPtr)

	// NSFastEnumeration; buf items are borrowed for the round only.
	CountByEnumerating(obj rc.RawPtr, state *EnumState, buf []rc.NullablePtr) int

	// Core Foundation
	CFEqual(a, b rc.RawPtr) bool
	CFHash(cf rc.RawPtr) uint
	CFGetRetainCount(cf rc.RawPtr) int
	CFGetTypeID(cf rc.RawPtr) uint
	CFCopyDescription(cf rc.RawPtr) rc.NullablePtr
	CFShow(cf rc.RawPtr)
	CFStringCreate(s string) rc.NullablePtr
	CFStringGetTypeID() uint
	CFStringUTF8(str rc.RawPtr) string
	// the CFBoolean and CFNull singletons are immortal and returned unowned
	CFBooleanTrue() rc.NullablePtr
	CFBooleanFalse() rc.NullablePtr
	CFBooleanGetValue(b rc.RawPtr) bool
	CFBooleanGetTypeID() uint
	CFNull() rc.NullablePtr
	CFNullGetTypeID() uint
}

type runtimeHolder struct {
	rt Runtime
}

var current atomic.Pointer[runtimeHolder]

// Use installs rt as the process runtime, and as the reference counting backend,
// returning a func that restores the previous selection.
func Use(rt Runtime) (restore func()) {
	prev := current.Swap(&runtimeHolder{rt: rt})
	var b rc.Backend
	if rt != nil {
		b = rt
	}
	restoreBackend := rc.Use(b)
	return func() {
		restoreBackend()
		current.Store(prev)
	}
}

// Current returns the installed runtime. It panics when there is none.
func Current() Runtime {
	if h := current.Load(); h != nil && h.rt != nil {
		return h.rt
	}
	panic("shim: no native runtime installed (use the simulated runtime on this platform)")
}

// Installed reports whether a runtime is installed.
func Installed() bool {
	h := current.Load()
	return h != nil && h.rt != nil
}
