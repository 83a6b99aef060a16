package foundation

import (
	"github.com/blacktop/choco/internal/shim"
	"github.com/blacktop/choco/pkg/objc"
)

// NSURL wraps an NSURL.
type NSURL struct {
	objc.Instance[NSURLType]
}

func (*NSURL) KindOfNSObject()  {}
func (*NSURL) KindOfNSURL()     {}
func (*NSURL) KindOfNSCopying() {}

// URLWithString parses s. It reports false when Foundation rejects the string.
func URLWithString(s string) (*NSURL, bool) {
	raw, ok := shim.Current().URLWithString(s).Get()
	if !ok {
		return nil, false
	}
	return objc.Adopt[*NSURL](raw), true
}

func FileURLWithPath(path string, isDirectory bool) *NSURL {
	return objc.Adopt[*NSURL](objc.NonNull(shim.Current().FileURLWithPath(path, isDirectory), "+[NSURL fileURLWithPath:isDirectory:]"))
}

func (u *NSURL) AbsoluteString() string {
	s := objc.Adopt[*NSString](objc.NonNull(shim.Current().URLAbsoluteString(u.Raw()), "-[NSURL absoluteString]"))
	defer s.Release()
	return s.String()
}

func (u *NSURL) Path() string {
	return shim.Current().URLPath(u.Raw())
}

func (u *NSURL) IsFileURL() bool {
	return shim.Current().URLIsFileURL(u.Raw())
}

func (u *NSURL) String() string {
	return u.AbsoluteString()
}
