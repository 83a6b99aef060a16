package foundation

import (
	"fmt"
	"iter"

	"github.com/blacktop/choco/internal/shim"
	"github.com/blacktop/choco/pkg/objc"
	"github.com/blacktop/choco/pkg/rc"
)

// EnumerationBatch is the number of objects requested per fast enumeration round.
const EnumerationBatch = 16

// Enumerator walks an NSFastEnumeration container.
//
// Objects in the native buffer are only borrowed for the current round, so Next retains
// each one before handing it out. The mutation counter is captured on the first round
// and checked on every call; a change is fatal. Once Next reports false the enumerator
// is finished for good. The container must outlive the enumerator.
type Enumerator[E objc.Object] struct {
	src       objc.Object
	state     shim.EnumState
	buf       [EnumerationBatch]rc.NullablePtr
	items     []rc.NullablePtr
	cursor    int
	mutations uintptr
	started   bool
	done      bool
}

// NewEnumerator starts an enumeration of src yielding elements as E.
func NewEnumerator[E objc.Object](src objc.Object) *Enumerator[E] {
	return &Enumerator[E]{src: src}
}

// Next returns the next element, owned by the caller, or false when the container is
// exhausted.
func (e *Enumerator[E]) Next() (E, bool) {
	var zero E
	if e.done {
		return zero, false
	}
	e.checkMutations()
	if e.cursor == len(e.items) && !e.refill() {
		return zero, false
	}
	raw := objc.NonNull(e.items[e.cursor], "-[NSFastEnumeration countByEnumeratingWithState:objects:count:]")
	e.cursor++
	return objc.RetainAs[E](raw), true
}

func (e *Enumerator[E]) refill() bool {
	n := shim.Current().CountByEnumerating(e.src.Raw(), &e.state, e.buf[:])
	if n == 0 {
		e.Close()
		return false
	}
	if !e.started {
		e.started = true
		if e.state.Mutations != nil {
			e.mutations = *e.state.Mutations
		}
	} else {
		e.checkMutations()
	}
	e.items, e.cursor = e.state.Items[:n], 0
	return true
}

func (e *Enumerator[E]) checkMutations() {
	if !e.started || e.state.Mutations == nil {
		return
	}
	if *e.state.Mutations != e.mutations {
		e.Close()
		panic(fmt.Sprintf("foundation: mutation detected during iteration of %v", e.src.Raw()))
	}
}

// Close ends the enumeration early and frees the native state.
func (e *Enumerator[E]) Close() {
	e.done = true
	e.items = nil
	e.state.Close()
}

// seq adapts an enumerator to a range-over-func sequence. Every yielded element is
// owned by the loop body.
func seq[E objc.Object](src objc.Object) iter.Seq[E] {
	return func(yield func(E) bool) {
		e := NewEnumerator[E](src)
		defer e.Close()
		for {
			v, ok := e.Next()
			if !ok || !yield(v) {
				return
			}
		}
	}
}
