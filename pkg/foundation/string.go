package foundation

import (
	"github.com/apex/log"
	"github.com/blacktop/choco/internal/shim"
	"github.com/blacktop/choco/pkg/cf"
	"github.com/blacktop/choco/pkg/objc"
	"github.com/blacktop/choco/pkg/rc"
	"github.com/pkg/errors"
)

// NSString wraps an immutable NSString.
type NSString struct {
	objc.Instance[NSStringType]
}

func (*NSString) KindOfNSObject()         {}
func (*NSString) KindOfNSString()         {}
func (*NSString) KindOfNSCopying()        {}
func (*NSString) KindOfNSMutableCopying() {}

// NewNSString returns a new string holding a copy of s.
func NewNSString(s string) *NSString {
	return objc.Adopt[*NSString](objc.NonNull(shim.Current().StringWithUTF8(s), "+[NSString stringWithUTF8String:]"))
}

// NSStringWithContentsOfFile reads a UTF-8 file. Failures come back as a wrapped *NSError.
func NSStringWithContentsOfFile(path string) (s *NSString, err error) {
	objc.AutoreleasePool(func() {
		var errOut rc.NullablePtr
		val := shim.Current().StringWithContentsOfFile(path, &errOut)
		s, err = MakeObjectResult[*NSString](val, errOut)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	log.WithFields(log.Fields{"path": path, "length": s.Len()}).Debug("read string")
	return s, nil
}

// String returns the UTF-8 contents.
func (s *NSString) String() string {
	return shim.Current().StringUTF8(s.Raw())
}

// Len returns the length in UTF-16 code units.
func (s *NSString) Len() int {
	return shim.Current().StringLength(s.Raw())
}

// CharAt returns the UTF-16 code unit at i. i must be in range.
func (s *NSString) CharAt(i int) uint16 {
	return shim.Current().StringCharacterAt(s.Raw(), i)
}

func (s *NSString) IsEqualToString(other NSStringKind) bool {
	return shim.Current().StringIsEqualToString(s.Raw(), other.Raw())
}

func (s *NSString) Retain() *NSString {
	return &NSString{objc.Wrap[NSStringType](s.Ptr().Retain())}
}

func (s *NSString) Copy() *NSString {
	return Copy[*NSString](s)
}

// CFString returns a new CF owner of the same string.
func (s *NSString) CFString() *cf.String {
	return &cf.String{Instance: cf.Wrap[cf.StringType](rc.RetainRaw[cf.StringType](s.Raw()))}
}

// BridgeToCF moves the reference held by s to a CFString. s must not be used afterwards.
func (s *NSString) BridgeToCF() *cf.String {
	p, ok := s.Ptr().(*rc.Ptr[NSStringType, rc.Retained])
	if !ok {
		return s.CFString()
	}
	return &cf.String{Instance: cf.Wrap[cf.StringType](rc.Transfer[cf.StringType](p))}
}

// NSStringFromCF returns a new NSString owner of a CFString.
func NSStringFromCF(s *cf.String) *NSString {
	return objc.RetainAs[*NSString](s.Raw())
}
