package shim

import (
	"unsafe"

	"github.com/blacktop/choco/pkg/rc"
)

// EnumState mirrors NSFastEnumerationState.
//
// State is zero before the first round. Items views the objects produced by the last
// round; it may alias the caller's buffer or the container's own storage. Mutations
// points at the container's mutation counter. Extra is scratch space for the runtime.
type EnumState struct {
	State     uintptr
	Items     []rc.NullablePtr
	Mutations *uintptr
	Extra     [5]uintptr

	native unsafe.Pointer
	free   func(unsafe.Pointer)
}

// Close releases any native memory staged for the enumeration.
func (s *EnumState) Close() {
	if s.native != nil && s.free != nil {
		s.free(s.native)
	}
	s.native, s.free = nil, nil
}
