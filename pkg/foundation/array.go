package foundation

import (
	"iter"

	"github.com/blacktop/choco/internal/shim"
	"github.com/blacktop/choco/pkg/objc"
	"github.com/blacktop/choco/pkg/rc"
)

// NSArray is an immutable array of E. E is either a Kind interface, accepting every
// conforming wrapper, or a concrete wrapper type.
type NSArray[E objc.Object] struct {
	objc.Instance[NSArrayType]
}

func (*NSArray[E]) KindOfNSObject()         {}
func (*NSArray[E]) KindOfNSArray(E)         {}
func (*NSArray[E]) KindOfNSCopying()        {}
func (*NSArray[E]) KindOfNSMutableCopying() {}

func (*NSArray[E]) AdoptOwned(raw rc.RawPtr) any {
	return &NSArray[E]{objc.Wrap[NSArrayType](rc.Own[NSArrayType](raw))}
}

func raws[E objc.Object](objs []E) []rc.RawPtr {
	out := make([]rc.RawPtr, len(objs))
	for i, o := range objs {
		out[i] = o.Raw()
	}
	return out
}

// NSArrayOf returns a new array holding objs. The array retains its elements.
func NSArrayOf[E objc.Object](objs ...E) *NSArray[E] {
	return objc.Adopt[*NSArray[E]](objc.NonNull(shim.Current().ArrayWithObjects(raws(objs)), "+[NSArray arrayWithObjects:count:]"))
}

// AsNSArray returns a new owner of any array of E typed as the immutable array.
func AsNSArray[E objc.Object](a NSArrayKind[E]) *NSArray[E] {
	return objc.RetainAs[*NSArray[E]](a.Raw())
}

func (a *NSArray[E]) Count() int {
	return shim.Current().ArrayCount(a.Raw())
}

func (a *NSArray[E]) IsEmpty() bool {
	return a.Count() == 0
}

// ObjectAt returns the element at i. i must be in range; out of range is fatal.
func (a *NSArray[E]) ObjectAt(i int) E {
	return objc.Adopt[E](objc.NonNull(shim.Current().ArrayObjectAtIndex(a.Raw(), i), "-[NSArray objectAtIndex:]"))
}

func (a *NSArray[E]) First() (E, bool) {
	return adoptNullable[E](shim.Current().ArrayFirstObject(a.Raw()))
}

func (a *NSArray[E]) Last() (E, bool) {
	return adoptNullable[E](shim.Current().ArrayLastObject(a.Raw()))
}

func adoptNullable[E any](p rc.NullablePtr) (E, bool) {
	raw, ok := p.Get()
	if !ok {
		var zero E
		return zero, false
	}
	return objc.Adopt[E](raw), true
}

// AddingObject returns a new array with obj appended. a is not modified.
func (a *NSArray[E]) AddingObject(obj E) *NSArray[E] {
	return objc.Adopt[*NSArray[E]](objc.NonNull(shim.Current().ArrayByAddingObject(a.Raw(), obj.Raw()), "-[NSArray arrayByAddingObject:]"))
}

// Enumerator starts a fast enumeration over the elements.
func (a *NSArray[E]) Enumerator() *Enumerator[E] {
	return NewEnumerator[E](a)
}

// All yields every element in order. The loop body owns each element.
func (a *NSArray[E]) All() iter.Seq[E] {
	return seq[E](a)
}

// Values returns every element. The caller owns each one.
func (a *NSArray[E]) Values() []E {
	out := make([]E, 0, a.Count())
	for v := range a.All() {
		out = append(out, v)
	}
	return out
}

func (a *NSArray[E]) Retain() *NSArray[E] {
	return &NSArray[E]{objc.Wrap[NSArrayType](a.Ptr().Retain())}
}

// Copy returns an immutable copy.
func (a *NSArray[E]) Copy() *NSArray[E] {
	return Copy[*NSArray[E]](a)
}

func (a *NSArray[E]) MutableCopy() *NSMutableArray[E] {
	return MutableCopy[*NSMutableArray[E]](a)
}

// NSMutableArray is a mutable array of E. It can be used wherever an NSArrayKind[E] is
// expected.
type NSMutableArray[E objc.Object] struct {
	NSArray[E]
}

func (*NSMutableArray[E]) KindOfNSMutableArray(E) {}

func (*NSMutableArray[E]) AdoptOwned(raw rc.RawPtr) any {
	return newMutableArray[E](rc.Own[NSArrayType](raw))
}

func newMutableArray[E objc.Object](p *rc.Ptr[NSArrayType, rc.Retained]) *NSMutableArray[E] {
	return &NSMutableArray[E]{NSArray[E]{objc.Wrap[NSArrayType](p)}}
}

// NewNSMutableArray returns a new empty mutable array.
func NewNSMutableArray[E objc.Object]() *NSMutableArray[E] {
	return objc.New[*NSMutableArray[E]](NSMutableArrayType{}.Class())
}

// NSMutableArrayOf returns a new mutable array holding objs.
func NSMutableArrayOf[E objc.Object](objs ...E) *NSMutableArray[E] {
	a := NewNSMutableArray[E]()
	for _, o := range objs {
		a.AddObject(o)
	}
	return a
}

func (a *NSMutableArray[E]) AddObject(obj E) {
	shim.Current().MutableArrayAddObject(a.Raw(), obj.Raw())
}

func (a *NSMutableArray[E]) RemoveLastObject() {
	shim.Current().MutableArrayRemoveLastObject(a.Raw())
}

func (a *NSMutableArray[E]) RemoveAllObjects() {
	shim.Current().MutableArrayRemoveAllObjects(a.Raw())
}

func (a *NSMutableArray[E]) Retain() *NSMutableArray[E] {
	return newMutableArray[E](a.Ptr().Retain())
}
