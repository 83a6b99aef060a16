package objc

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/blacktop/choco/internal/shim"
	"github.com/blacktop/choco/pkg/rc"
)

type adopter struct {
	kind  rc.TypeKind
	probe any // typed nil of the wrapper, for interface checks
	adopt func(rc.RawPtr) any
}

var (
	regMu   sync.RWMutex
	byType  = map[any]adopter{}
	byClass = map[string]adopter{}
)

func typeKey[K any]() any { return (*K)(nil) }

// Register installs the adopter building wrapper K from an owned pointer of tag T.
//
// When T names a class, the adopter is also used for objects adopted as an interface
// whose most derived registered class is T.
func Register[K Object, T rc.Type](adopt func(*rc.Ptr[T, rc.Retained]) K) {
	var (
		t    T
		zero K
	)
	a := adopter{
		kind:  t.TypeKind(),
		probe: zero,
		adopt: func(raw rc.RawPtr) any { return adopt(rc.Own[T](raw)) },
	}
	regMu.Lock()
	defer regMu.Unlock()
	byType[typeKey[K]()] = a
	if c, ok := any(t).(Class); ok {
		byClass[c.ClassName()] = a
	}
}

// OwnedAdopter is implemented by generic wrappers that cannot be registered per
// instantiation. AdoptOwned is called on the zero value.
type OwnedAdopter interface {
	AdoptOwned(rc.RawPtr) any
}

// Adopt wraps an owned (+1) pointer as K. The wrapper takes over the reference.
func Adopt[K any](raw rc.RawPtr) K {
	regMu.RLock()
	a, ok := byType[typeKey[K]()]
	regMu.RUnlock()
	if ok {
		return a.adopt(raw).(K)
	}
	var zero K
	if g, ok := any(zero).(OwnedAdopter); ok {
		return g.AdoptOwned(raw).(K)
	}
	if a, ok := adopterByClass[K](raw); ok {
		return a.adopt(raw).(K)
	}
	panic(fmt.Sprintf("objc: no wrapper registered to adopt %s as %T", describeClass(raw), (*K)(nil)))
}

// RetainAs wraps an unowned pointer as K, retaining it first.
func RetainAs[K any](raw rc.RawPtr) K {
	return Adopt[K](retainUnowned(kindOf[K](), raw))
}

// adopterByClass walks the class chain of raw and returns the first registered
// adopter whose wrapper satisfies K.
func adopterByClass[K any](raw rc.RawPtr) (adopter, bool) {
	if reflect.TypeFor[K]().Kind() != reflect.Interface {
		return adopter{}, false
	}
	rt := shim.Current()
	regMu.RLock()
	defer regMu.RUnlock()
	for cls, ok := rt.ObjectClass(raw), true; ok; cls, ok = rt.Superclass(cls).Get() {
		a, found := byClass[rt.ClassName(cls)]
		if !found {
			continue
		}
		if _, fits := a.probe.(K); fits {
			return a, true
		}
	}
	return adopter{}, false
}

func kindOf[K any]() rc.TypeKind {
	regMu.RLock()
	defer regMu.RUnlock()
	if a, ok := byType[typeKey[K]()]; ok {
		return a.kind
	}
	return rc.ObjC
}

func describeClass(raw rc.RawPtr) string {
	if !shim.Installed() {
		return raw.String()
	}
	rt := shim.Current()
	return fmt.Sprintf("<%s %v>", rt.ClassName(rt.ObjectClass(raw)), raw)
}

type anyObject struct{ Tag }

type anyCFType struct{}

func (anyCFType) TypeKind() rc.TypeKind { return rc.CF }

func retainUnowned(kind rc.TypeKind, raw rc.RawPtr) rc.RawPtr {
	if kind == rc.CF {
		return rc.Borrow(raw, func(p *rc.Ptr[anyCFType, rc.Borrowed]) rc.RawPtr {
			return p.Retain().Detach()
		})
	}
	return rc.Borrow(raw, func(p *rc.Ptr[anyObject, rc.Borrowed]) rc.RawPtr {
		return p.Retain().Detach()
	})
}

// New returns [cls new] adopted as K.
func New[K any](cls rc.ClassPtr) K {
	rt := shim.Current()
	raw := NonNull(rt.ClassNew(cls), fmt.Sprintf("+[%s new]", rt.ClassName(cls)))
	return Adopt[K](raw)
}
