package sim

import (
	"fmt"
	"strconv"

	"github.com/blacktop/choco/pkg/rc"
)

func (r *Runtime) CFEqual(a, b rc.RawPtr) bool {
	return r.IsEqual(a, b)
}

func (r *Runtime) CFHash(cf rc.RawPtr) uint {
	return r.Hash(cf)
}

func (r *Runtime) CFGetRetainCount(cf rc.RawPtr) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	o := r.get(cf)
	if o.immortal {
		return immortalRetainCount
	}
	return o.refs
}

func (r *Runtime) CFGetTypeID(cf rc.RawPtr) uint {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(cf).cls.cfTypeID()
}

func (r *Runtime) cfDescribeLocked(o *object) string {
	switch o.cls.payload {
	case stringPayload:
		return fmt.Sprintf("<CFString %#x>{contents = %s}", o.addr, strconv.Quote(o.str))
	case booleanPayload:
		return fmt.Sprintf("<CFBoolean %#x>{value = %t}", o.addr, o.num.i != 0)
	case nullPayload:
		return fmt.Sprintf("<CFNull %#x>", o.addr)
	}
	return r.describeLocked(o, "", false)
}

func (r *Runtime) CFCopyDescription(cf rc.RawPtr) rc.NullablePtr {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.newString(r.cfDescribeLocked(r.get(cf))).ptr()
}

// CFShow prints strings verbatim and anything else as its CF description.
func (r *Runtime) CFShow(cf rc.RawPtr) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o := r.get(cf)
	if o.cls.payload == stringPayload {
		fmt.Fprintln(r.out, o.str)
		return
	}
	fmt.Fprintln(r.out, r.cfDescribeLocked(o))
}

func (r *Runtime) CFStringCreate(s string) rc.NullablePtr {
	return r.StringWithUTF8(s)
}

func (r *Runtime) CFStringGetTypeID() uint { return typeIDString }

func (r *Runtime) CFStringUTF8(str rc.RawPtr) string {
	return r.StringUTF8(str)
}

func (r *Runtime) CFBooleanTrue() rc.NullablePtr {
	return r.trueObj.ptr()
}

func (r *Runtime) CFBooleanFalse() rc.NullablePtr {
	return r.falseObj.ptr()
}

func (r *Runtime) CFBooleanGetValue(b rc.RawPtr) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.want(b, booleanPayload, "boolValue").num.i != 0
}

func (r *Runtime) CFBooleanGetTypeID() uint { return typeIDBoolean }

func (r *Runtime) CFNull() rc.NullablePtr {
	return r.nullObj.ptr()
}

func (r *Runtime) CFNullGetTypeID() uint { return typeIDNull }
