package rc

import (
	"fmt"
	"strings"
)

type phase uint8

const (
	live phase = iota
	released
	detached
	expired
)

func (p phase) String() string {
	switch p {
	case live:
		return "live"
	case released:
		return "released"
	case detached:
		return "detached"
	case expired:
		return "expired"
	default:
		return "unknown"
	}
}

// state is shared by every copy of a Ptr so a copied wrapper cannot release twice.
type state struct {
	raw   RawPtr
	kind  TypeKind
	phase phase
}

// noCopy may be embedded into structs which must not be copied after first use.
// See https://golang.org/issues/8005#issuecomment-190753527
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Ptr wraps a native object of type T under ownership policy O.
type Ptr[T Type, O Ownership] struct {
	_  noCopy
	st *state
}

// Handle is satisfied by a Ptr of any ownership policy.
// Wrappers store a Handle so one wrapper type serves owned and immortal objects alike.
type Handle[T Type] interface {
	Raw() RawPtr
	Retain() *Ptr[T, Retained]
	Release()
	Valid() bool
}

func newPtr[T Type, O Ownership](raw RawPtr) *Ptr[T, O] {
	if raw.addr == 0 {
		panic("rc: wrapping a null pointer")
	}
	p := &Ptr[T, O]{st: &state{raw: raw, kind: kindOf[T]()}}
	var o O
	if o.owns() {
		trackLeak(p, p.st)
	}
	return p
}

// Own wraps a pointer whose reference count increment the caller owns.
//
// The caller must own exactly one increment of raw and raw must be of type T.
// The increment is given back by Release.
func Own[T Type](raw RawPtr) *Ptr[T, Retained] {
	return newPtr[T, Retained](raw)
}

// Immortal wraps a pointer to an object outliving every use of the wrapper,
// such as a process lifetime constant. The wrapper never releases.
func Immortal[T Type](raw RawPtr) *Ptr[T, Static] {
	return newPtr[T, Static](raw)
}

// RetainRaw retains an unowned pointer and wraps the new increment.
func RetainRaw[T Type](raw RawPtr) *Ptr[T, Retained] {
	return Own[T](retain(kindOf[T](), raw))
}

// Borrow runs fn with a Borrowed wrapper over raw. The wrapper expires when fn returns;
// keeping the object beyond that requires Retain.
func Borrow[T Type, R any](raw RawPtr, fn func(*Ptr[T, Borrowed]) R) R {
	p := newPtr[T, Borrowed](raw)
	defer p.st.expire()
	return fn(p)
}

func (st *state) expire() {
	if st.phase == live {
		st.phase = expired
	}
}

func (p *Ptr[T, O]) mustLive() *state {
	if p == nil || p.st == nil {
		panic("rc: use of a nil pointer wrapper")
	}
	if p.st.phase != live {
		panic(fmt.Sprintf("rc: use of %s %s pointer %v", p.st.phase, p.policy(), p.st.raw))
	}
	return p.st
}

func (p *Ptr[T, O]) policy() string {
	var o O
	return o.name()
}

// Raw returns the wrapped pointer without transferring ownership.
func (p *Ptr[T, O]) Raw() RawPtr {
	return p.mustLive().raw
}

// Retain increments the native reference count and returns an independent owner.
func (p *Ptr[T, O]) Retain() *Ptr[T, Retained] {
	st := p.mustLive()
	return Own[T](retain(st.kind, st.raw))
}

// Release gives back the owned increment. It does nothing for Static and Borrowed wrappers,
// nor for a nil or detached wrapper. Releasing twice panics.
func (p *Ptr[T, O]) Release() {
	var o O
	if !o.owns() || p == nil || p.st == nil {
		return
	}
	switch p.st.phase {
	case live:
		p.st.phase = released
		release(p.st.kind, p.st.raw)
	case detached:
	default:
		panic(fmt.Sprintf("rc: too many releases of %v", p.st.raw))
	}
}

// Detach moves the owned increment out of the wrapper and returns the pointer.
// The caller becomes accountable for it; the wrapper is dead afterwards.
func (p *Ptr[T, O]) Detach() RawPtr {
	var o O
	if !o.owns() {
		panic(fmt.Sprintf("rc: cannot detach a %s pointer", o.name()))
	}
	st := p.mustLive()
	st.phase = detached
	return st.raw
}

// Valid reports whether the wrapper can still be used.
func (p *Ptr[T, O]) Valid() bool {
	return p != nil && p.st != nil && p.st.phase == live
}

// Kind returns the TypeKind governing the pointee.
func (p *Ptr[T, O]) Kind() TypeKind {
	return kindOf[T]()
}

func (p *Ptr[T, O]) String() string {
	var t T
	name := fmt.Sprintf("%T", t)
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	if p == nil || p.st == nil {
		return fmt.Sprintf("Ptr[%s](nil)", name)
	}
	return fmt.Sprintf("Ptr[%s,%s](%v %s)", name, p.policy(), p.st.raw, p.st.phase)
}

// Transfer moves the increment owned by p into a wrapper of type U.
//
// The object must be usable as U: a toll-free bridged counterpart or a native ancestor.
func Transfer[U, T Type](p *Ptr[T, Retained]) *Ptr[U, Retained] {
	return Own[U](p.Detach())
}
