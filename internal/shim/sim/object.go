package sim

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/blacktop/choco/pkg/rc"
	"github.com/twmb/murmur3"
)

type number struct {
	typ byte // objCType: 'c' bool, 'q' signed, 'Q' unsigned, 'd' double
	i   int64
	u   uint64
	f   float64
}

func (n number) float() float64 {
	switch n.typ {
	case 'd':
		return n.f
	case 'Q':
		return float64(n.u)
	default:
		return float64(n.i)
	}
}

func (n number) equal(o number) bool {
	if n.typ == 'd' || o.typ == 'd' {
		return n.float() == o.float()
	}
	if n.typ == 'Q' && o.typ == 'Q' {
		return n.u == o.u
	}
	if n.typ == 'Q' {
		return o.i >= 0 && uint64(o.i) == n.u
	}
	if o.typ == 'Q' {
		return n.i >= 0 && uint64(n.i) == o.u
	}
	return n.i == o.i
}

func (n number) hash() uint {
	switch n.typ {
	case 'd':
		if f := n.f; f == math.Trunc(f) && math.Abs(f) < 1<<63 {
			return uint(int64(f))
		}
		return uint(math.Float64bits(n.f))
	case 'Q':
		return uint(n.u)
	default:
		return uint(n.i)
	}
}

func (n number) String() string {
	switch n.typ {
	case 'd':
		return strconv.FormatFloat(n.f, 'g', -1, 64)
	case 'Q':
		return strconv.FormatUint(n.u, 10)
	default:
		return strconv.FormatInt(n.i, 10)
	}
}

type nsError struct {
	domain      string
	code        int
	description string
}

func (e nsError) localized() string {
	if e.description != "" {
		return e.description
	}
	return fmt.Sprintf("The operation couldn’t be completed. (%s error %d.)", e.domain, e.code)
}

func (r *Runtime) hashLocked(o *object) uint {
	switch o.cls.payload {
	case stringPayload:
		return uint(murmur3.StringSum64(o.str))
	case urlPayload:
		return uint(murmur3.StringSum64(o.str))
	case numberPayload, booleanPayload:
		return o.num.hash()
	case datePayload:
		return uint(int64(o.date))
	case errorPayload:
		return uint(murmur3.StringSum64(o.err.domain)) ^ uint(o.err.code)
	case arrayPayload, dictPayload:
		return uint(len(o.items))
	default:
		return uint(o.addr)
	}
}

func (r *Runtime) equalLocked(a, b *object) bool {
	if a == b {
		return true
	}
	pa, pb := a.cls.payload, b.cls.payload
	isNum := func(p payload) bool { return p == numberPayload || p == booleanPayload }
	if isNum(pa) && isNum(pb) {
		return a.num.equal(b.num)
	}
	if pa != pb {
		return false
	}
	switch pa {
	case stringPayload, urlPayload:
		return a.str == b.str
	case datePayload:
		return a.date == b.date
	case errorPayload:
		return a.err.domain == b.err.domain && a.err.code == b.err.code
	case arrayPayload:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !r.equalLocked(r.getN(a.items[i]), r.getN(b.items[i])) {
				return false
			}
		}
		return true
	case dictPayload:
		if len(a.items) != len(b.items) {
			return false
		}
		for i, k := range a.items {
			j := r.indexOfKey(b, r.getN(k))
			if j < 0 || !r.equalLocked(r.getN(a.values[i]), r.getN(b.values[j])) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func (r *Runtime) Hash(obj rc.RawPtr) uint {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hashLocked(r.get(obj))
}

func (r *Runtime) IsEqual(obj, other rc.RawPtr) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.equalLocked(r.get(obj), r.get(other))
}

func (r *Runtime) IsKindOfClass(obj rc.RawPtr, cls rc.ClassPtr) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(obj).cls.isSubclassOf(r.classOf(cls))
}

const referenceDate1970 = 978307200

var referenceDate = time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)

func needsQuotes(s string) bool {
	if s == "" {
		return true
	}
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_', c == '.', c == '$', c == '/', c == ':':
		default:
			return true
		}
	}
	return false
}

func (r *Runtime) describeLocked(o *object, indent string, nested bool) string {
	switch o.cls.payload {
	case stringPayload:
		if nested && needsQuotes(o.str) {
			return strconv.Quote(o.str)
		}
		return o.str
	case numberPayload, booleanPayload:
		if o.cls.payload == booleanPayload || o.num.typ == 'c' {
			if o.num.i != 0 {
				return "1"
			}
			return "0"
		}
		return o.num.String()
	case nullPayload:
		return "<null>"
	case datePayload:
		return referenceDate.Add(time.Duration(o.date * float64(time.Second))).Format("2006-01-02 15:04:05 -0700")
	case urlPayload:
		return o.str
	case errorPayload:
		return fmt.Sprintf("Error Domain=%s Code=%d %q", o.err.domain, o.err.code, o.err.localized())
	case arrayPayload:
		var sb strings.Builder
		sb.WriteString("(\n")
		for i, it := range o.items {
			sb.WriteString(indent + "    " + r.describeLocked(r.getN(it), indent+"    ", true))
			if i < len(o.items)-1 {
				sb.WriteString(",")
			}
			sb.WriteString("\n")
		}
		sb.WriteString(indent + ")")
		return sb.String()
	case dictPayload:
		var sb strings.Builder
		sb.WriteString("{\n")
		for i, k := range o.items {
			fmt.Fprintf(&sb, "%s    %s = %s;\n", indent,
				r.describeLocked(r.getN(k), indent+"    ", true),
				r.describeLocked(r.getN(o.values[i]), indent+"    ", true))
		}
		sb.WriteString(indent + "}")
		return sb.String()
	default:
		return fmt.Sprintf("<%s: %#x>", o.cls.name, o.addr)
	}
}

func (r *Runtime) newString(s string) *object {
	o := r.alloc(r.mustClass("NSString"))
	o.str = s
	return o
}

func (r *Runtime) Description(obj rc.RawPtr) rc.NullablePtr {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.newString(r.describeLocked(r.get(obj), "", false)).ptr()
}

func (r *Runtime) DebugDescription(obj rc.RawPtr) rc.NullablePtr {
	r.mu.Lock()
	defer r.mu.Unlock()
	o := r.get(obj)
	switch o.cls.payload {
	case stringPayload:
		return r.newString(strconv.Quote(o.str)).ptr()
	case plainPayload:
		return r.newString(fmt.Sprintf("<%s: %#x; retainCount = %d>", o.cls.name, o.addr, o.refs)).ptr()
	}
	return r.newString(r.describeLocked(o, "", false)).ptr()
}

func unrecognized(o *object, selector string) string {
	return fmt.Sprintf("sim: -[%s %s]: unrecognized selector sent to instance %#x", o.cls.name, selector, o.addr)
}

// cloneLocked creates an instance of cls holding a copy of o's storage; children are retained.
func (r *Runtime) cloneLocked(o *object, cls *class) *object {
	c := r.alloc(cls)
	c.str, c.num, c.date, c.err = o.str, o.num, o.date, o.err
	c.items = append([]rc.NullablePtr(nil), o.items...)
	c.values = append([]rc.NullablePtr(nil), o.values...)
	for _, p := range c.items {
		r.retainLocked(r.getN(p))
	}
	for _, p := range c.values {
		r.retainLocked(r.getN(p))
	}
	return c
}

func (r *Runtime) copyLocked(o *object) *object {
	if !o.cls.conforms("NSCopying") {
		panic(unrecognized(o, "copyWithZone:"))
	}
	if o.cls.mutable {
		return r.cloneLocked(o, o.cls.immutable)
	}
	return r.retainLocked(o)
}

func (r *Runtime) Copy(obj rc.RawPtr) rc.NullablePtr {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.copyLocked(r.get(obj)).ptr()
}

func (r *Runtime) MutableCopy(obj rc.RawPtr) rc.NullablePtr {
	r.mu.Lock()
	defer r.mu.Unlock()
	o := r.get(obj)
	if !o.cls.conforms("NSMutableCopying") || o.cls.mutableOf == nil {
		panic(unrecognized(o, "mutableCopyWithZone:"))
	}
	return r.cloneLocked(o, o.cls.mutableOf).ptr()
}
