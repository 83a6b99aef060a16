package foundation

import (
	"fmt"
	"iter"

	"github.com/blacktop/choco/internal/shim"
	"github.com/blacktop/choco/pkg/objc"
	"github.com/blacktop/choco/pkg/rc"
)

// NSDictionary is an immutable dictionary from K to V. Keys are copied on insertion.
type NSDictionary[K, V objc.Object] struct {
	objc.Instance[NSDictionaryType]
}

func (*NSDictionary[K, V]) KindOfNSObject()         {}
func (*NSDictionary[K, V]) KindOfNSDictionary(K, V) {}
func (*NSDictionary[K, V]) KindOfNSCopying()        {}
func (*NSDictionary[K, V]) KindOfNSMutableCopying() {}

func (*NSDictionary[K, V]) AdoptOwned(raw rc.RawPtr) any {
	return &NSDictionary[K, V]{objc.Wrap[NSDictionaryType](rc.Own[NSDictionaryType](raw))}
}

// NSDictionaryWithObjects returns a new dictionary mapping keys[i] to objs[i].
func NSDictionaryWithObjects[K, V objc.Object](objs []V, keys []K) *NSDictionary[K, V] {
	if len(objs) != len(keys) {
		panic(fmt.Sprintf("foundation: %d objects for %d keys", len(objs), len(keys)))
	}
	return objc.Adopt[*NSDictionary[K, V]](objc.NonNull(shim.Current().DictionaryWithObjects(raws(objs), raws(keys)), "+[NSDictionary dictionaryWithObjects:forKeys:count:]"))
}

// AsNSDictionary returns a new owner of any dictionary typed as the immutable dictionary.
func AsNSDictionary[K, V objc.Object](d NSDictionaryKind[K, V]) *NSDictionary[K, V] {
	return objc.RetainAs[*NSDictionary[K, V]](d.Raw())
}

func (d *NSDictionary[K, V]) Count() int {
	return shim.Current().DictionaryCount(d.Raw())
}

func (d *NSDictionary[K, V]) IsEmpty() bool {
	return d.Count() == 0
}

// Get returns the value for key, or false when key is absent.
func (d *NSDictionary[K, V]) Get(key K) (V, bool) {
	return adoptNullable[V](shim.Current().DictionaryObjectForKey(d.Raw(), key.Raw()))
}

// ObjectForKey returns the value for a key known to be present; absence is fatal.
func (d *NSDictionary[K, V]) ObjectForKey(key K) V {
	return objc.Adopt[V](objc.NonNull(shim.Current().DictionaryObjectForKey(d.Raw(), key.Raw()), "-[NSDictionary objectForKey:]"))
}

// Enumerator starts a fast enumeration over the keys.
func (d *NSDictionary[K, V]) Enumerator() *Enumerator[K] {
	return NewEnumerator[K](d)
}

// Keys yields every key. The loop body owns each key.
func (d *NSDictionary[K, V]) Keys() iter.Seq[K] {
	return seq[K](d)
}

// All yields every entry. The loop body owns each key and value.
func (d *NSDictionary[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for k := range d.Keys() {
			if !yield(k, d.ObjectForKey(k)) {
				return
			}
		}
	}
}

func (d *NSDictionary[K, V]) Retain() *NSDictionary[K, V] {
	return &NSDictionary[K, V]{objc.Wrap[NSDictionaryType](d.Ptr().Retain())}
}

func (d *NSDictionary[K, V]) Copy() *NSDictionary[K, V] {
	return Copy[*NSDictionary[K, V]](d)
}

func (d *NSDictionary[K, V]) MutableCopy() *NSMutableDictionary[K, V] {
	return MutableCopy[*NSMutableDictionary[K, V]](d)
}

// NSMutableDictionary is a mutable dictionary. It can be used wherever an
// NSDictionaryKind[K, V] is expected.
type NSMutableDictionary[K, V objc.Object] struct {
	NSDictionary[K, V]
}

func (*NSMutableDictionary[K, V]) KindOfNSMutableDictionary(K, V) {}

func (*NSMutableDictionary[K, V]) AdoptOwned(raw rc.RawPtr) any {
	return newMutableDictionary[K, V](rc.Own[NSDictionaryType](raw))
}

func newMutableDictionary[K, V objc.Object](p *rc.Ptr[NSDictionaryType, rc.Retained]) *NSMutableDictionary[K, V] {
	return &NSMutableDictionary[K, V]{NSDictionary[K, V]{objc.Wrap[NSDictionaryType](p)}}
}

func NewNSMutableDictionary[K, V objc.Object]() *NSMutableDictionary[K, V] {
	return objc.New[*NSMutableDictionary[K, V]](NSMutableDictionaryType{}.Class())
}

// Set stores obj under a copy of key.
func (d *NSMutableDictionary[K, V]) Set(key K, obj V) {
	shim.Current().MutableDictionarySetObject(d.Raw(), obj.Raw(), key.Raw())
}

func (d *NSMutableDictionary[K, V]) Remove(key K) {
	shim.Current().MutableDictionaryRemoveObject(d.Raw(), key.Raw())
}

func (d *NSMutableDictionary[K, V]) RemoveAll() {
	shim.Current().MutableDictionaryRemoveAllObjects(d.Raw())
}

func (d *NSMutableDictionary[K, V]) Retain() *NSMutableDictionary[K, V] {
	return newMutableDictionary[K, V](d.Ptr().Retain())
}
