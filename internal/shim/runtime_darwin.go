//go:build darwin && cgo

package shim

/*
#cgo CFLAGS: -W -Wall -Wno-unused-parameter -Wno-unused-function -fno-objc-arc -O2
#cgo LDFLAGS: -lobjc -framework Foundation -framework CoreFoundation
#include <stdlib.h>
#include <objc/runtime.h>
#include <CoreFoundation/CoreFoundation.h>
#include "trampoline.h"

static int objcBOOL2int(BOOL b) {
	return (int)b;
}
*/
import "C"

import (
	"unsafe"

	"github.com/blacktop/choco/pkg/rc"
)

type native struct{}

func init() {
	Use(native{})
}

// Native returns the runtime backed by the Objective-C runtime and Foundation.
func Native() (Runtime, bool) {
	return native{}, true
}

func id(p rc.RawPtr) C.uintptr_t {
	return C.uintptr_t(p.Addr())
}

func obj(p C.uintptr_t) rc.NullablePtr {
	return rc.Nullable(uintptr(p))
}

func cclass(cls rc.ClassPtr) C.Class {
	return (C.Class)(unsafe.Pointer(cls.Addr()))
}

func cfref(p rc.RawPtr) C.CFTypeRef {
	return C.CFTypeRef(unsafe.Pointer(p.Addr()))
}

func cfobj(p unsafe.Pointer) rc.NullablePtr {
	return rc.Nullable(uintptr(p))
}

// gostring converts and frees a string copied out by the trampolines.
func gostring(s *C.char) string {
	if s == nil {
		return ""
	}
	defer C.free(unsafe.Pointer(s))
	return C.GoString(s)
}

func cids(objs []rc.RawPtr) (*C.uintptr_t, []C.uintptr_t) {
	if len(objs) == 0 {
		return nil, nil
	}
	ids := make([]C.uintptr_t, len(objs))
	for i, o := range objs {
		ids[i] = id(o)
	}
	return &ids[0], ids
}

func (native) ObjCRetain(p rc.RawPtr) rc.NullablePtr { return obj(C.choco_objc_retain(id(p))) }
func (native) ObjCRelease(p rc.RawPtr)            { C.choco_objc_release(id(p)) }

func (native) CFRetain(p rc.RawPtr) rc.NullablePtr {
	return cfobj(unsafe.Pointer(C.CFRetain(cfref(p))))
}

func (native) CFRelease(p rc.RawPtr) { C.CFRelease(cfref(p)) }

func (native) PoolPush() uintptr      { return uintptr(C.choco_pool_push()) }
func (native) PoolPop(token uintptr) { C.choco_pool_pop(C.uintptr_t(token)) }

/* classes */

func (native) ClassNamed(name string) rc.NullableClassPtr {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	return rc.NullableClass(uintptr(unsafe.Pointer(C.objc_getClass(cname))))
}

func (native) ClassName(cls rc.ClassPtr) string {
	return C.GoString(C.class_getName(cclass(cls)))
}

func (native) Superclass(cls rc.ClassPtr) rc.NullableClassPtr {
	return rc.NullableClass(uintptr(unsafe.Pointer(C.class_getSuperclass(cclass(cls)))))
}

func (native) ConformsToProtocol(cls rc.ClassPtr, protocol string) bool {
	cname := C.CString(protocol)
	defer C.free(unsafe.Pointer(cname))
	p := C.objc_getProtocol(cname)
	if p == nil {
		return false
	}
	return C.objcBOOL2int(C.class_conformsToProtocol(cclass(cls), p)) != 0
}

func (native) RespondsToSelector(cls rc.ClassPtr, selector string) bool {
	cname := C.CString(selector)
	defer C.free(unsafe.Pointer(cname))
	return C.objcBOOL2int(C.class_respondsToSelector(cclass(cls), C.sel_registerName(cname))) != 0
}

func (native) ClassProtocols(cls rc.ClassPtr) (protocols []string) {
	var coutCount C.uint
	list := C.class_copyProtocolList(cclass(cls), &coutCount)
	if list == nil {
		return nil
	}
	defer C.free(unsafe.Pointer(list))
	for _, p := range unsafe.Slice(list, int(coutCount)) {
		protocols = append(protocols, C.GoString(C.protocol_getName(p)))
	}
	return protocols
}

func (native) ClassSelectors(cls rc.ClassPtr) (selectors []string) {
	var coutCount C.uint
	list := C.class_copyMethodList(cclass(cls), &coutCount)
	if list == nil {
		return nil
	}
	defer C.free(unsafe.Pointer(list))
	for _, m := range unsafe.Slice(list, int(coutCount)) {
		selectors = append(selectors, C.GoString(C.sel_getName(C.method_getName(m))))
	}
	return selectors
}

func (native) ClassNew(cls rc.ClassPtr) rc.NullablePtr {
	return obj(C.choco_class_new(C.uintptr_t(cls.Addr())))
}

func (native) ObjectClass(o rc.RawPtr) rc.ClassPtr {
	c, ok := rc.NullableClass(uintptr(unsafe.Pointer(C.object_getClass(C.id(unsafe.Pointer(o.Addr())))))).Get()
	if !ok {
		panic("expecting object_getClass() to return a non null pointer")
	}
	return c
}

/* NSObject protocol */

func (native) Hash(o rc.RawPtr) uint           { return uint(C.choco_hash(id(o))) }
func (native) IsEqual(o, other rc.RawPtr) bool { return bool(C.choco_is_equal(id(o), id(other))) }
func (native) IsKindOfClass(o rc.RawPtr, cls rc.ClassPtr) bool {
	return bool(C.choco_is_kind_of_class(id(o), C.uintptr_t(cls.Addr())))
}
func (native) Description(o rc.RawPtr) rc.NullablePtr      { return obj(C.choco_description(id(o))) }
func (native) DebugDescription(o rc.RawPtr) rc.NullablePtr { return obj(C.choco_debug_description(id(o))) }
func (native) Copy(o rc.RawPtr) rc.NullablePtr             { return obj(C.choco_copy(id(o))) }
func (native) MutableCopy(o rc.RawPtr) rc.NullablePtr      { return obj(C.choco_mutable_copy(id(o))) }

/* NSString */

func (native) StringWithUTF8(s string) rc.NullablePtr {
	cs := C.CString(s)
	defer C.free(unsafe.Pointer(cs))
	return obj(C.choco_string_with_utf8(cs, C.size_t(len(s))))
}

func (native) StringWithContentsOfFile(path string, err *rc.NullablePtr) rc.NullablePtr {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	var cerr C.uintptr_t
	s := C.choco_string_with_contents_of_file(cpath, &cerr)
	if err != nil {
		*err = obj(cerr)
	}
	return obj(s)
}

func (native) StringUTF8(str rc.RawPtr) string { return gostring(C.choco_string_copy_utf8(id(str))) }
func (native) StringLength(str rc.RawPtr) int  { return int(C.choco_string_length(id(str))) }
func (native) StringCharacterAt(str rc.RawPtr, index int) uint16 {
	return uint16(C.choco_string_character_at(id(str), C.ulong(index)))
}
func (native) StringIsEqualToString(str, other rc.RawPtr) bool {
	return bool(C.choco_string_is_equal_to_string(id(str), id(other)))
}

/* NSValue / NSNumber */

func (native) ValueObjCType(val rc.RawPtr) string { return C.GoString(C.choco_value_objc_type(id(val))) }
func (native) NumberWithBool(v bool) rc.NullablePtr {
	return obj(C.choco_number_with_bool(C.bool(v)))
}
func (native) NumberWithInteger(v int64) rc.NullablePtr {
	return obj(C.choco_number_with_integer(C.longlong(v)))
}
func (native) NumberWithUnsignedInteger(v uint64) rc.NullablePtr {
	return obj(C.choco_number_with_unsigned_integer(C.ulonglong(v)))
}
func (native) NumberWithDouble(v float64) rc.NullablePtr {
	return obj(C.choco_number_with_double(C.double(v)))
}
func (native) NumberBoolValue(n rc.RawPtr) bool { return bool(C.choco_number_bool_value(id(n))) }
func (native) NumberIntegerValue(n rc.RawPtr) int64 {
	return int64(C.choco_number_integer_value(id(n)))
}
func (native) NumberUnsignedIntegerValue(n rc.RawPtr) uint64 {
	return uint64(C.choco_number_unsigned_integer_value(id(n)))
}
func (native) NumberDoubleValue(n rc.RawPtr) float64 {
	return float64(C.choco_number_double_value(id(n)))
}

/* NSDate */

func (native) DateNow() rc.NullablePtr { return obj(C.choco_date_now()) }
func (native) DateWithTimeIntervalSince1970(secs float64) rc.NullablePtr {
	return obj(C.choco_date_with_time_interval_since_1970(C.double(secs)))
}
func (native) DateWithTimeIntervalSinceReferenceDate(secs float64) rc.NullablePtr {
	return obj(C.choco_date_with_time_interval_since_reference_date(C.double(secs)))
}
func (native) DateTimeIntervalSince1970(d rc.RawPtr) float64 {
	return float64(C.choco_date_time_interval_since_1970(id(d)))
}
func (native) DateTimeIntervalSinceReferenceDate(d rc.RawPtr) float64 {
	return float64(C.choco_date_time_interval_since_reference_date(id(d)))
}
func (native) DateTimeIntervalSinceNow(d rc.RawPtr) float64 {
	return float64(C.choco_date_time_interval_since_now(id(d)))
}
func (native) DateTimeIntervalSinceDate(d, other rc.RawPtr) float64 {
	return float64(C.choco_date_time_interval_since_date(id(d), id(other)))
}

/* NSURL */

func (native) URLWithString(s string) rc.NullablePtr {
	cs := C.CString(s)
	defer C.free(unsafe.Pointer(cs))
	return obj(C.choco_url_with_string(cs))
}

func (native) FileURLWithPath(path string, isDirectory bool) rc.NullablePtr {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	return obj(C.choco_file_url_with_path(cpath, C.bool(isDirectory)))
}

func (native) URLAbsoluteString(u rc.RawPtr) rc.NullablePtr { return obj(C.choco_url_absolute_string(id(u))) }
func (native) URLPath(u rc.RawPtr) string                   { return gostring(C.choco_url_copy_path(id(u))) }
func (native) URLIsFileURL(u rc.RawPtr) bool                { return bool(C.choco_url_is_file_url(id(u))) }

/* NSError */

func (native) ErrorWithDomain(domain string, code int, description string) rc.NullablePtr {
	cdomain := C.CString(domain)
	defer C.free(unsafe.Pointer(cdomain))
	cdesc := C.CString(description)
	defer C.free(unsafe.Pointer(cdesc))
	return obj(C.choco_error_with_domain(cdomain, C.long(code), cdesc))
}

func (native) ErrorDomain(e rc.RawPtr) string { return gostring(C.choco_error_copy_domain(id(e))) }
func (native) ErrorCode(e rc.RawPtr) int      { return int(C.choco_error_code(id(e))) }
func (native) ErrorLocalizedDescription(e rc.RawPtr) string {
	return gostring(C.choco_error_copy_localized_description(id(e)))
}

/* NSArray */

func (native) ArrayWithObjects(objs []rc.RawPtr) rc.NullablePtr {
	p, ids := cids(objs)
	return obj(C.choco_array_with_objects(p, C.ulong(len(ids))))
}

func (native) ArrayCount(a rc.RawPtr) int { return int(C.choco_array_count(id(a))) }
func (native) ArrayObjectAtIndex(a rc.RawPtr, index int) rc.NullablePtr {
	return obj(C.choco_array_object_at_index(id(a), C.ulong(index)))
}
func (native) ArrayFirstObject(a rc.RawPtr) rc.NullablePtr { return obj(C.choco_array_first_object(id(a))) }
func (native) ArrayLastObject(a rc.RawPtr) rc.NullablePtr  { return obj(C.choco_array_last_object(id(a))) }
func (native) ArrayByAddingObject(a, o rc.RawPtr) rc.NullablePtr {
	return obj(C.choco_array_by_adding_object(id(a), id(o)))
}
func (native) MutableArrayAddObject(a, o rc.RawPtr) { C.choco_mutable_array_add_object(id(a), id(o)) }
func (native) MutableArrayRemoveLastObject(a rc.RawPtr) {
	C.choco_mutable_array_remove_last_object(id(a))
}
func (native) MutableArrayRemoveAllObjects(a rc.RawPtr) {
	C.choco_mutable_array_remove_all_objects(id(a))
}

/* NSDictionary */

func (native) DictionaryWithObjects(objs, keys []rc.RawPtr) rc.NullablePtr {
	if len(objs) != len(keys) {
		panic("shim: dictionary objects and keys differ in length")
	}
	po, ids := cids(objs)
	pk, _ := cids(keys)
	return obj(C.choco_dictionary_with_objects(po, pk, C.ulong(len(ids))))
}

func (native) DictionaryCount(d rc.RawPtr) int { return int(C.choco_dictionary_count(id(d))) }
func (native) DictionaryObjectForKey(d, key rc.RawPtr) rc.NullablePtr {
	return obj(C.choco_dictionary_object_for_key(id(d), id(key)))
}
func (native) MutableDictionarySetObject(d, o, key rc.RawPtr) {
	C.choco_mutable_dictionary_set_object(id(d), id(o), id(key))
}
func (native) MutableDictionaryRemoveObject(d, key rc.RawPtr) {
	C.choco_mutable_dictionary_remove_object(id(d), id(key))
}
func (native) MutableDictionaryRemoveAllObjects(d rc.RawPtr) {
	C.choco_mutable_dictionary_remove_all_objects(id(d))
}

/* NSFastEnumeration */

func freeEnum(p unsafe.Pointer) {
	C.choco_enum_free(p)
}

// CountByEnumerating keeps the native state and buffer in C memory; buf only bounds the round.
func (native) CountByEnumerating(o rc.RawPtr, st *EnumState, buf []rc.NullablePtr) int {
	if st.native == nil {
		st.native = C.choco_enum_new()
		st.free = freeEnum
	}
	var view C.choco_enum_view
	n := int(C.choco_enum_next(id(o), st.native, C.ulong(len(buf)), &view))
	st.State = uintptr(view.state)
	st.Mutations = (*uintptr)(unsafe.Pointer(view.mutations))
	for i := range st.Extra {
		st.Extra[i] = uintptr(view.extra[i])
	}
	if n == 0 {
		st.Items = nil
		return 0
	}
	st.Items = unsafe.Slice((*rc.NullablePtr)(unsafe.Pointer(view.items)), n)
	return n
}

/* Core Foundation */

func (native) CFEqual(a, b rc.RawPtr) bool { return C.CFEqual(cfref(a), cfref(b)) != 0 }
func (native) CFHash(cf rc.RawPtr) uint    { return uint(C.CFHash(cfref(cf))) }
func (native) CFGetRetainCount(cf rc.RawPtr) int {
	return int(C.CFGetRetainCount(cfref(cf)))
}
func (native) CFGetTypeID(cf rc.RawPtr) uint { return uint(C.CFGetTypeID(cfref(cf))) }
func (native) CFCopyDescription(cf rc.RawPtr) rc.NullablePtr {
	return cfobj(unsafe.Pointer(C.CFCopyDescription(cfref(cf))))
}
func (native) CFShow(cf rc.RawPtr) { C.CFShow(cfref(cf)) }

func (native) CFStringCreate(s string) rc.NullablePtr {
	cs := C.CString(s)
	defer C.free(unsafe.Pointer(cs))
	return cfobj(unsafe.Pointer(C.CFStringCreateWithBytes(C.kCFAllocatorDefault,
		(*C.UInt8)(unsafe.Pointer(cs)), C.CFIndex(len(s)), C.kCFStringEncodingUTF8, 0)))
}

func (native) CFStringGetTypeID() uint { return uint(C.CFStringGetTypeID()) }

// CFString is toll-free bridged with NSString.
func (native) CFStringUTF8(str rc.RawPtr) string { return gostring(C.choco_string_copy_utf8(id(str))) }

func (native) CFBooleanTrue() rc.NullablePtr  { return cfobj(unsafe.Pointer(C.kCFBooleanTrue)) }
func (native) CFBooleanFalse() rc.NullablePtr { return cfobj(unsafe.Pointer(C.kCFBooleanFalse)) }
func (native) CFBooleanGetValue(b rc.RawPtr) bool {
	return C.CFBooleanGetValue(C.CFBooleanRef(unsafe.Pointer(b.Addr()))) != 0
}
func (native) CFBooleanGetTypeID() uint { return uint(C.CFBooleanGetTypeID()) }
func (native) CFNull() rc.NullablePtr    { return cfobj(unsafe.Pointer(C.kCFNull)) }
func (native) CFNullGetTypeID() uint     { return uint(C.CFNullGetTypeID()) }
