package rc

import (
	"fmt"
	"sync/atomic"
)

// Backend performs the native reference count operations of both ABIs.
type Backend interface {
	ObjCRetain(RawPtr) NullablePtr
	ObjCRelease(RawPtr)
	CFRetain(RawPtr) NullablePtr
	CFRelease(RawPtr)
}

type backendHolder struct {
	b Backend
}

var current atomic.Pointer[backendHolder]

// Use installs b as the process backend and returns a func restoring the previous one.
func Use(b Backend) (restore func()) {
	prev := current.Swap(&backendHolder{b: b})
	return func() {
		current.Store(prev)
	}
}

// Current returns the installed backend, or nil.
func Current() Backend {
	if h := current.Load(); h != nil {
		return h.b
	}
	return nil
}

func backend() Backend {
	b := Current()
	if b == nil {
		panic("rc: no reference counting backend installed")
	}
	return b
}

func retain(kind TypeKind, raw RawPtr) RawPtr {
	var out NullablePtr
	switch kind {
	case ObjC:
		out = backend().ObjCRetain(raw)
		if p, ok := out.Get(); ok {
			return p
		}
		panic("expecting objc_retain() to return a non null pointer")
	case CF:
		out = backend().CFRetain(raw)
		if p, ok := out.Get(); ok {
			return p
		}
		panic("expecting CFRetain() to return a non null pointer")
	default:
		panic(fmt.Sprintf("rc: cannot retain %v: unknown %v", raw, kind))
	}
}

func release(kind TypeKind, raw RawPtr) {
	switch kind {
	case ObjC:
		backend().ObjCRelease(raw)
	case CF:
		backend().CFRelease(raw)
	default:
		panic(fmt.Sprintf("rc: cannot release %v: unknown %v", raw, kind))
	}
}
