package foundation

import (
	"github.com/blacktop/choco/internal/shim"
	"github.com/blacktop/choco/pkg/objc"
)

// Copy returns -copy of obj adopted as K. For mutable classes K is the immutable
// counterpart.
func Copy[K any](obj NSCopyingKind) K {
	return objc.Adopt[K](objc.NonNull(shim.Current().Copy(obj.Raw()), "-[NSObject copy]"))
}

// MutableCopy returns -mutableCopy of obj adopted as K.
func MutableCopy[K any](obj NSMutableCopyingKind) K {
	return objc.Adopt[K](objc.NonNull(shim.Current().MutableCopy(obj.Raw()), "-[NSObject mutableCopy]"))
}
