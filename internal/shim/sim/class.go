package sim

import (
	"fmt"
	"slices"

	"github.com/blacktop/choco/pkg/rc"
)

type payload uint8

const (
	plainPayload payload = iota
	stringPayload
	numberPayload
	booleanPayload
	nullPayload
	datePayload
	urlPayload
	errorPayload
	arrayPayload
	dictPayload
)

// CF type ids reported by CFGetTypeID.
const (
	typeIDType       uint = 1
	typeIDString     uint = 7
	typeIDNull       uint = 16
	typeIDDictionary uint = 18
	typeIDArray      uint = 19
	typeIDBoolean    uint = 21
	typeIDNumber     uint = 22
	typeIDURL        uint = 29
	typeIDDate       uint = 42
)

type class struct {
	name      string
	addr      uintptr
	super     *class
	protocols []string
	selectors []string
	payload   payload
	typeID    uint
	mutable   bool
	// immutable/mutable counterparts for copy and mutableCopy
	immutable *class
	mutableOf *class
}

func (c *class) isSubclassOf(other *class) bool {
	for k := c; k != nil; k = k.super {
		if k == other {
			return true
		}
	}
	return false
}

func (c *class) conforms(protocol string) bool {
	for k := c; k != nil; k = k.super {
		if slices.Contains(k.protocols, protocol) {
			return true
		}
	}
	return false
}

func (c *class) responds(selector string) bool {
	for k := c; k != nil; k = k.super {
		if slices.Contains(k.selectors, selector) {
			return true
		}
	}
	return false
}

func (c *class) cfTypeID() uint {
	for k := c; k != nil; k = k.super {
		if k.typeID != 0 {
			return k.typeID
		}
	}
	return typeIDType
}

func (r *Runtime) defineLocked(name, super string, protocols, selectors []string) *class {
	if _, ok := r.classes[name]; ok {
		panic(fmt.Sprintf("sim: class %s already defined", name))
	}
	c := &class{
		name:      name,
		addr:      r.nextClass,
		protocols: protocols,
		selectors: selectors,
	}
	r.nextClass += addrStep
	if super != "" {
		s, ok := r.classes[super]
		if !ok {
			panic(fmt.Sprintf("sim: superclass %s of %s is not defined", super, name))
		}
		c.super = s
		c.payload = s.payload
		c.mutable = s.mutable
		c.immutable = s.immutable
		c.mutableOf = s.mutableOf
	}
	r.classes[name] = c
	r.byAddr[c.addr] = c
	return c
}

// DefineClass registers a class deriving from super, which must already exist.
// Instances inherit the storage of their superclass.
func (r *Runtime) DefineClass(name, super string, protocols, selectors []string) rc.ClassPtr {
	r.mu.Lock()
	defer r.mu.Unlock()
	if super == "" {
		super = "NSObject"
	}
	c := r.defineLocked(name, super, protocols, selectors)
	p, _ := rc.NullableClass(c.addr).Get()
	return p
}

func (r *Runtime) bootstrap() {
	r.mu.Lock()
	defer r.mu.Unlock()

	obj := r.defineLocked("NSObject", "", []string{"NSObject"}, []string{
		"alloc", "init", "new", "class", "superclass", "hash", "isEqual:", "description",
		"debugDescription", "isKindOfClass:", "respondsToSelector:", "conformsToProtocol:",
		"retain", "release", "autorelease", "retainCount", "dealloc",
	})
	obj.typeID = typeIDType

	str := r.defineLocked("NSString", "NSObject", []string{"NSCopying", "NSMutableCopying", "NSSecureCoding"}, []string{
		"length", "characterAtIndex:", "UTF8String", "isEqualToString:", "copy", "mutableCopy",
		"stringWithContentsOfFile:encoding:error:", "initWithUTF8String:",
	})
	str.payload, str.typeID = stringPayload, typeIDString
	mstr := r.defineLocked("NSMutableString", "NSString", nil, []string{"appendString:", "setString:"})
	mstr.mutable = true
	str.immutable, str.mutableOf = str, mstr
	mstr.immutable, mstr.mutableOf = str, mstr

	val := r.defineLocked("NSValue", "NSObject", []string{"NSCopying", "NSSecureCoding"}, []string{"objCType", "getValue:size:"})
	val.payload = numberPayload
	num := r.defineLocked("NSNumber", "NSValue", nil, []string{
		"boolValue", "integerValue", "unsignedIntegerValue", "doubleValue", "compare:", "stringValue",
	})
	num.typeID = typeIDNumber
	boolean := r.defineLocked("__NSCFBoolean", "NSNumber", nil, nil)
	boolean.payload, boolean.typeID = booleanPayload, typeIDBoolean

	null := r.defineLocked("NSNull", "NSObject", []string{"NSCopying", "NSSecureCoding"}, []string{"null"})
	null.payload, null.typeID = nullPayload, typeIDNull

	date := r.defineLocked("NSDate", "NSObject", []string{"NSCopying", "NSSecureCoding"}, []string{
		"timeIntervalSince1970", "timeIntervalSinceReferenceDate", "timeIntervalSinceNow", "timeIntervalSinceDate:",
		"dateWithTimeIntervalSince1970:",
	})
	date.payload, date.typeID = datePayload, typeIDDate

	url := r.defineLocked("NSURL", "NSObject", []string{"NSCopying", "NSSecureCoding"}, []string{
		"absoluteString", "path", "isFileURL", "URLWithString:", "fileURLWithPath:isDirectory:",
	})
	url.payload, url.typeID = urlPayload, typeIDURL

	nserr := r.defineLocked("NSError", "NSObject", []string{"NSCopying", "NSSecureCoding"}, []string{
		"domain", "code", "userInfo", "localizedDescription", "errorWithDomain:code:userInfo:",
	})
	nserr.payload = errorPayload

	arr := r.defineLocked("NSArray", "NSObject", []string{"NSCopying", "NSMutableCopying", "NSSecureCoding", "NSFastEnumeration"}, []string{
		"count", "objectAtIndex:", "firstObject", "lastObject", "arrayByAddingObject:",
		"countByEnumeratingWithState:objects:count:", "arrayWithObjects:count:",
	})
	arr.payload, arr.typeID = arrayPayload, typeIDArray
	marr := r.defineLocked("NSMutableArray", "NSArray", nil, []string{"addObject:", "removeLastObject", "removeAllObjects"})
	marr.mutable = true
	arr.immutable, arr.mutableOf = arr, marr
	marr.immutable, marr.mutableOf = arr, marr

	dict := r.defineLocked("NSDictionary", "NSObject", []string{"NSCopying", "NSMutableCopying", "NSSecureCoding", "NSFastEnumeration"}, []string{
		"count", "objectForKey:", "allKeys", "countByEnumeratingWithState:objects:count:",
		"dictionaryWithObjects:forKeys:count:",
	})
	dict.payload, dict.typeID = dictPayload, typeIDDictionary
	mdict := r.defineLocked("NSMutableDictionary", "NSDictionary", nil, []string{"setObject:forKey:", "removeObjectForKey:", "removeAllObjects"})
	mdict.mutable = true
	dict.immutable, dict.mutableOf = dict, mdict
	mdict.immutable, mdict.mutableOf = dict, mdict

	r.trueObj = r.immortal(boolean)
	r.trueObj.num = number{typ: 'c', i: 1}
	r.falseObj = r.immortal(boolean)
	r.falseObj.num = number{typ: 'c'}
	r.nullObj = r.immortal(null)
}

func (r *Runtime) classOf(cls rc.ClassPtr) *class {
	c, ok := r.byAddr[cls.Addr()]
	if !ok {
		panic(fmt.Sprintf("sim: %v is not a class", cls))
	}
	return c
}

func (r *Runtime) mustClass(name string) *class {
	c, ok := r.classes[name]
	if !ok {
		panic(fmt.Sprintf("sim: class %s is not defined", name))
	}
	return c
}

func (r *Runtime) ClassNamed(name string) rc.NullableClassPtr {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.classes[name]; ok {
		return rc.NullableClass(c.addr)
	}
	return 0
}

func (r *Runtime) ClassName(cls rc.ClassPtr) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.classOf(cls).name
}

func (r *Runtime) Superclass(cls rc.ClassPtr) rc.NullableClassPtr {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s := r.classOf(cls).super; s != nil {
		return rc.NullableClass(s.addr)
	}
	return 0
}

func (r *Runtime) ConformsToProtocol(cls rc.ClassPtr, protocol string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.classOf(cls).conforms(protocol)
}

func (r *Runtime) RespondsToSelector(cls rc.ClassPtr, selector string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.classOf(cls).responds(selector)
}

// ClassProtocols returns the protocols declared by cls itself, not by its ancestors.
func (r *Runtime) ClassProtocols(cls rc.ClassPtr) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.classOf(cls).protocols)
}

// ClassSelectors returns the instance selectors declared by cls itself.
func (r *Runtime) ClassSelectors(cls rc.ClassPtr) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.classOf(cls).selectors)
}

// ClassNew is +new: the returned instance is owned by the caller.
func (r *Runtime) ClassNew(cls rc.ClassPtr) rc.NullablePtr {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.classOf(cls)
	switch c.payload {
	case booleanPayload:
		return r.falseObj.ptr()
	case nullPayload:
		return r.nullObj.ptr()
	case numberPayload:
		o := r.alloc(c)
		o.num = number{typ: 'q'}
		return o.ptr()
	}
	return r.alloc(c).ptr()
}

func (r *Runtime) ObjectClass(obj rc.RawPtr) rc.ClassPtr {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, _ := rc.NullableClass(r.get(obj).cls.addr).Get()
	return p
}
