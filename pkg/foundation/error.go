package foundation

import (
	"fmt"

	"github.com/apex/log"
	"github.com/blacktop/choco/internal/shim"
	"github.com/blacktop/choco/pkg/objc"
	"github.com/blacktop/choco/pkg/rc"
)

// Cocoa error domain and the file reading codes surfaced by NSStringWithContentsOfFile.
const (
	NSCocoaErrorDomain = "NSCocoaErrorDomain"

	NSFileReadUnknownError                    = 256
	NSFileReadNoPermissionError               = 257
	NSFileReadNoSuchFileError                 = 260
	NSFileReadInapplicableStringEncodingError = 261
)

// NSError wraps an NSError. It implements error; the caller owns it and should Release
// it once done.
type NSError struct {
	objc.Instance[NSErrorType]
}

func (*NSError) KindOfNSObject()  {}
func (*NSError) KindOfNSError()   {}
func (*NSError) KindOfNSCopying() {}

// NewNSError returns an error carrying description as its localized description.
func NewNSError(domain string, code int, description string) *NSError {
	return objc.Adopt[*NSError](objc.NonNull(shim.Current().ErrorWithDomain(domain, code, description), "+[NSError errorWithDomain:code:userInfo:]"))
}

func (e *NSError) Domain() string {
	return shim.Current().ErrorDomain(e.Raw())
}

func (e *NSError) Code() int {
	return shim.Current().ErrorCode(e.Raw())
}

func (e *NSError) LocalizedDescription() string {
	return shim.Current().ErrorLocalizedDescription(e.Raw())
}

func (e *NSError) Error() string {
	return e.LocalizedDescription()
}

func (e *NSError) String() string {
	return fmt.Sprintf("Error Domain=%s Code=%d %q", e.Domain(), e.Code(), e.LocalizedDescription())
}

// Is matches another *NSError with the same domain and code.
func (e *NSError) Is(target error) bool {
	t, ok := target.(*NSError)
	if !ok {
		return false
	}
	return rc.Same(e.Raw(), t.Raw()) || (e.Domain() == t.Domain() && e.Code() == t.Code())
}

// MakeObjectResult builds the Go result of a native call returning an owned object or nil
// alongside an unowned (autoreleased) error out parameter.
//
// An error always wins: if both are set the value is adopted and released. Both nil is a
// broken native contract and panics.
func MakeObjectResult[K any](value, unownedError rc.NullablePtr) (K, error) {
	var zero K
	v, hasValue := value.Get()
	e, hasError := unownedError.Get()
	switch {
	case hasError:
		if hasValue {
			log.WithField("value", v).Debug("discarding value returned alongside an error")
			release(objc.Adopt[K](v))
		}
		return zero, objc.RetainAs[*NSError](e)
	case hasValue:
		return objc.Adopt[K](v), nil
	default:
		panic("expecting a value or an error from the native call, got neither")
	}
}

// MakeValueResult is MakeObjectResult for calls returning a plain value, such as a BOOL.
func MakeValueResult[V any](value V, unownedError rc.NullablePtr) (V, error) {
	if e, ok := unownedError.Get(); ok {
		var zero V
		return zero, objc.RetainAs[*NSError](e)
	}
	return value, nil
}

func release(obj any) {
	if r, ok := obj.(interface{ Release() }); ok {
		r.Release()
		return
	}
	panic(fmt.Sprintf("foundation: %T cannot be released", obj))
}
