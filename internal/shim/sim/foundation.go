package sim

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/blacktop/choco/pkg/rc"
)

// NSCocoaErrorDomain codes produced by file reads.
const (
	CocoaErrorDomain             = "NSCocoaErrorDomain"
	FileReadUnknownError         = 256
	FileReadNoPermissionError    = 257
	FileReadNoSuchFileError      = 260
	FileReadInapplicableEncoding = 261
)

func (r *Runtime) want(obj rc.RawPtr, p payload, selector string) *object {
	o := r.get(obj)
	if o.cls.payload != p {
		panic(unrecognized(o, selector))
	}
	return o
}

/* NSString */

func (r *Runtime) StringWithUTF8(s string) rc.NullablePtr {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.newString(s).ptr()
}

func (r *Runtime) StringWithContentsOfFile(path string, errOut *rc.NullablePtr) rc.NullablePtr {
	data, err := os.ReadFile(path)
	r.mu.Lock()
	defer r.mu.Unlock()

	var code int
	name := filepath.Base(path)
	var desc string
	switch {
	case errors.Is(err, fs.ErrNotExist):
		code, desc = FileReadNoSuchFileError, fmt.Sprintf("The file “%s” couldn’t be opened because there is no such file.", name)
	case errors.Is(err, fs.ErrPermission):
		code, desc = FileReadNoPermissionError, fmt.Sprintf("The file “%s” couldn’t be opened because you don’t have permission to view it.", name)
	case err != nil:
		code, desc = FileReadUnknownError, fmt.Sprintf("The file “%s” couldn’t be opened.", name)
	case !utf8.Valid(data):
		code, desc = FileReadInapplicableEncoding, fmt.Sprintf("The file “%s” couldn’t be opened using text encoding Unicode (UTF-8).", name)
	default:
		return r.newString(string(data)).ptr()
	}
	if errOut != nil {
		e := r.newError(CocoaErrorDomain, code, desc)
		r.autoreleaseLocked(e)
		*errOut = e.ptr()
	}
	return 0
}

func (r *Runtime) StringUTF8(str rc.RawPtr) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.want(str, stringPayload, "UTF8String").str
}

func (r *Runtime) StringLength(str rc.RawPtr) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(utf16.Encode([]rune(r.want(str, stringPayload, "length").str)))
}

func (r *Runtime) StringCharacterAt(str rc.RawPtr, index int) uint16 {
	r.mu.Lock()
	defer r.mu.Unlock()
	units := utf16.Encode([]rune(r.want(str, stringPayload, "characterAtIndex:").str))
	if index < 0 || index >= len(units) {
		panic(fmt.Sprintf("sim: -[NSString characterAtIndex:]: Range or index out of bounds (%d, length %d)", index, len(units)))
	}
	return units[index]
}

func (r *Runtime) StringIsEqualToString(str, other rc.RawPtr) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.want(str, stringPayload, "isEqualToString:").str == r.want(other, stringPayload, "isEqualToString:").str
}

/* NSValue / NSNumber */

func (r *Runtime) ValueObjCType(val rc.RawPtr) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	o := r.get(val)
	if o.cls.payload != numberPayload && o.cls.payload != booleanPayload {
		panic(unrecognized(o, "objCType"))
	}
	if o.num.typ == 0 {
		return ""
	}
	return string(o.num.typ)
}

func (r *Runtime) newNumber(n number) rc.NullablePtr {
	o := r.alloc(r.mustClass("NSNumber"))
	o.num = n
	return o.ptr()
}

// NumberWithBool returns one of the immortal CFBoolean singletons.
func (r *Runtime) NumberWithBool(v bool) rc.NullablePtr {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v {
		return r.trueObj.ptr()
	}
	return r.falseObj.ptr()
}

func (r *Runtime) NumberWithInteger(v int64) rc.NullablePtr {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.newNumber(number{typ: 'q', i: v})
}

func (r *Runtime) NumberWithUnsignedInteger(v uint64) rc.NullablePtr {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.newNumber(number{typ: 'Q', u: v})
}

func (r *Runtime) NumberWithDouble(v float64) rc.NullablePtr {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.newNumber(number{typ: 'd', f: v})
}

func (r *Runtime) num(p rc.RawPtr, selector string) number {
	o := r.get(p)
	if o.cls.payload != numberPayload && o.cls.payload != booleanPayload {
		panic(unrecognized(o, selector))
	}
	return o.num
}

func (r *Runtime) NumberBoolValue(num rc.RawPtr) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.num(num, "boolValue").float() != 0
}

func (r *Runtime) NumberIntegerValue(num rc.RawPtr) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := r.num(num, "integerValue")
	switch n.typ {
	case 'd':
		return int64(n.f)
	case 'Q':
		return int64(n.u)
	}
	return n.i
}

func (r *Runtime) NumberUnsignedIntegerValue(num rc.RawPtr) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := r.num(num, "unsignedIntegerValue")
	switch n.typ {
	case 'd':
		return uint64(n.f)
	case 'Q':
		return n.u
	}
	return uint64(n.i)
}

func (r *Runtime) NumberDoubleValue(num rc.RawPtr) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.num(num, "doubleValue").float()
}

/* NSDate */

func (r *Runtime) newDate(sinceRef float64) rc.NullablePtr {
	o := r.alloc(r.mustClass("NSDate"))
	o.date = sinceRef
	return o.ptr()
}

func (r *Runtime) nowSinceRef() float64 {
	return r.now().Sub(referenceDate).Seconds()
}

func (r *Runtime) DateNow() rc.NullablePtr {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.newDate(r.nowSinceRef())
}

func (r *Runtime) DateWithTimeIntervalSince1970(secs float64) rc.NullablePtr {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.newDate(secs - referenceDate1970)
}

func (r *Runtime) DateWithTimeIntervalSinceReferenceDate(secs float64) rc.NullablePtr {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.newDate(secs)
}

func (r *Runtime) date(p rc.RawPtr, selector string) float64 {
	return r.want(p, datePayload, selector).date
}

func (r *Runtime) DateTimeIntervalSince1970(date rc.RawPtr) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.date(date, "timeIntervalSince1970") + referenceDate1970
}

func (r *Runtime) DateTimeIntervalSinceReferenceDate(date rc.RawPtr) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.date(date, "timeIntervalSinceReferenceDate")
}

func (r *Runtime) DateTimeIntervalSinceNow(date rc.RawPtr) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.date(date, "timeIntervalSinceNow") - r.nowSinceRef()
}

func (r *Runtime) DateTimeIntervalSinceDate(date, other rc.RawPtr) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.date(date, "timeIntervalSinceDate:") - r.date(other, "timeIntervalSinceDate:")
}

/* NSURL */

func validURL(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if c := s[i]; c <= ' ' || c >= 0x7f || strings.IndexByte(`"<>\^{|}`+"`", c) >= 0 {
			return false
		}
	}
	_, err := url.Parse(s)
	return err == nil
}

func (r *Runtime) newURL(s string) rc.NullablePtr {
	o := r.alloc(r.mustClass("NSURL"))
	o.str = s
	return o.ptr()
}

// URLWithString returns nil for strings that are not valid URLs.
func (r *Runtime) URLWithString(s string) rc.NullablePtr {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !validURL(s) {
		return 0
	}
	return r.newURL(s)
}

func (r *Runtime) FileURLWithPath(path string, isDirectory bool) rc.NullablePtr {
	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}
	path = filepath.ToSlash(path)
	if isDirectory && !strings.HasSuffix(path, "/") {
		path += "/"
	}
	u := url.URL{Scheme: "file", Path: path}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.newURL(u.String())
}

func (r *Runtime) URLAbsoluteString(u rc.RawPtr) rc.NullablePtr {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.newString(r.want(u, urlPayload, "absoluteString").str).ptr()
}

func (r *Runtime) URLPath(u rc.RawPtr) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	parsed, err := url.Parse(r.want(u, urlPayload, "path").str)
	if err != nil {
		return ""
	}
	p := parsed.Path
	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}

func (r *Runtime) URLIsFileURL(u rc.RawPtr) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return strings.HasPrefix(r.want(u, urlPayload, "isFileURL").str, "file:")
}

/* NSError */

func (r *Runtime) newError(domain string, code int, description string) *object {
	o := r.alloc(r.mustClass("NSError"))
	o.err = nsError{domain: domain, code: code, description: description}
	return o
}

func (r *Runtime) ErrorWithDomain(domain string, code int, description string) rc.NullablePtr {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.newError(domain, code, description).ptr()
}

func (r *Runtime) ErrorDomain(e rc.RawPtr) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.want(e, errorPayload, "domain").err.domain
}

func (r *Runtime) ErrorCode(e rc.RawPtr) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.want(e, errorPayload, "code").err.code
}

func (r *Runtime) ErrorLocalizedDescription(e rc.RawPtr) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.want(e, errorPayload, "localizedDescription").err.localized()
}
