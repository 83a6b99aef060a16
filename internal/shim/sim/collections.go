package sim

import (
	"fmt"

	"github.com/blacktop/choco/internal/shim"
	"github.com/blacktop/choco/pkg/rc"
)

func (r *Runtime) mutable(p rc.RawPtr, want payload, selector string) *object {
	o := r.get(p)
	if o.cls.payload != want || !o.cls.mutable {
		panic(unrecognized(o, selector))
	}
	return o
}

/* NSArray */

func (r *Runtime) newArray(items []rc.NullablePtr) *object {
	o := r.alloc(r.mustClass("NSArray"))
	o.items = items
	return o
}

func (r *Runtime) ArrayWithObjects(objs []rc.RawPtr) rc.NullablePtr {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]rc.NullablePtr, 0, len(objs))
	for _, p := range objs {
		items = append(items, r.retainLocked(r.get(p)).ptr())
	}
	return r.newArray(items).ptr()
}

func (r *Runtime) ArrayCount(arr rc.RawPtr) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.want(arr, arrayPayload, "count").items)
}

func (r *Runtime) ArrayObjectAtIndex(arr rc.RawPtr, index int) rc.NullablePtr {
	r.mu.Lock()
	defer r.mu.Unlock()
	o := r.want(arr, arrayPayload, "objectAtIndex:")
	if index < 0 || index >= len(o.items) {
		if len(o.items) == 0 {
			panic(fmt.Sprintf("sim: *** -[%s objectAtIndex:]: index %d beyond bounds for empty array", o.cls.name, index))
		}
		panic(fmt.Sprintf("sim: *** -[%s objectAtIndex:]: index %d beyond bounds [0 .. %d]", o.cls.name, index, len(o.items)-1))
	}
	return r.retainLocked(r.getN(o.items[index])).ptr()
}

func (r *Runtime) ArrayFirstObject(arr rc.RawPtr) rc.NullablePtr {
	r.mu.Lock()
	defer r.mu.Unlock()
	o := r.want(arr, arrayPayload, "firstObject")
	if len(o.items) == 0 {
		return 0
	}
	return r.retainLocked(r.getN(o.items[0])).ptr()
}

func (r *Runtime) ArrayLastObject(arr rc.RawPtr) rc.NullablePtr {
	r.mu.Lock()
	defer r.mu.Unlock()
	o := r.want(arr, arrayPayload, "lastObject")
	if len(o.items) == 0 {
		return 0
	}
	return r.retainLocked(r.getN(o.items[len(o.items)-1])).ptr()
}

func (r *Runtime) ArrayByAddingObject(arr, obj rc.RawPtr) rc.NullablePtr {
	r.mu.Lock()
	defer r.mu.Unlock()
	o := r.want(arr, arrayPayload, "arrayByAddingObject:")
	items := make([]rc.NullablePtr, 0, len(o.items)+1)
	for _, p := range o.items {
		items = append(items, r.retainLocked(r.getN(p)).ptr())
	}
	items = append(items, r.retainLocked(r.get(obj)).ptr())
	return r.newArray(items).ptr()
}

func (r *Runtime) MutableArrayAddObject(arr, obj rc.RawPtr) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o := r.mutable(arr, arrayPayload, "addObject:")
	o.items = append(o.items, r.retainLocked(r.get(obj)).ptr())
	o.mutations++
}

func (r *Runtime) MutableArrayRemoveLastObject(arr rc.RawPtr) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o := r.mutable(arr, arrayPayload, "removeLastObject")
	if len(o.items) == 0 {
		return
	}
	last := o.items[len(o.items)-1]
	o.items = o.items[:len(o.items)-1]
	o.mutations++
	r.releaseLocked(r.getN(last))
}

func (r *Runtime) MutableArrayRemoveAllObjects(arr rc.RawPtr) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o := r.mutable(arr, arrayPayload, "removeAllObjects")
	items := o.items
	o.items = nil
	o.mutations++
	for _, p := range items {
		r.releaseLocked(r.getN(p))
	}
}

/* NSDictionary */

func (r *Runtime) indexOfKey(dict, key *object) int {
	for i, k := range dict.items {
		if r.equalLocked(r.getN(k), key) {
			return i
		}
	}
	return -1
}

// setLocked stores obj under a copy of key, keeping the existing key object on replacement.
func (r *Runtime) setLocked(dict, obj, key *object) {
	r.retainLocked(obj)
	if i := r.indexOfKey(dict, key); i >= 0 {
		old := dict.values[i]
		dict.values[i] = obj.ptr()
		r.releaseLocked(r.getN(old))
		return
	}
	dict.items = append(dict.items, r.copyLocked(key).ptr())
	dict.values = append(dict.values, obj.ptr())
}

func (r *Runtime) DictionaryWithObjects(objs, keys []rc.RawPtr) rc.NullablePtr {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(objs) != len(keys) {
		panic(fmt.Sprintf("sim: *** -[NSDictionary initWithObjects:forKeys:]: count of objects (%d) differs from count of keys (%d)", len(objs), len(keys)))
	}
	d := r.alloc(r.mustClass("NSDictionary"))
	for i := range objs {
		r.setLocked(d, r.get(objs[i]), r.get(keys[i]))
	}
	return d.ptr()
}

func (r *Runtime) DictionaryCount(dict rc.RawPtr) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.want(dict, dictPayload, "count").items)
}

func (r *Runtime) DictionaryObjectForKey(dict, key rc.RawPtr) rc.NullablePtr {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := r.want(dict, dictPayload, "objectForKey:")
	if i := r.indexOfKey(d, r.get(key)); i >= 0 {
		return r.retainLocked(r.getN(d.values[i])).ptr()
	}
	return 0
}

func (r *Runtime) MutableDictionarySetObject(dict, obj, key rc.RawPtr) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := r.mutable(dict, dictPayload, "setObject:forKey:")
	r.setLocked(d, r.get(obj), r.get(key))
	d.mutations++
}

func (r *Runtime) MutableDictionaryRemoveObject(dict, key rc.RawPtr) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := r.mutable(dict, dictPayload, "removeObjectForKey:")
	i := r.indexOfKey(d, r.get(key))
	if i < 0 {
		return
	}
	k, v := d.items[i], d.values[i]
	d.items = append(d.items[:i:i], d.items[i+1:]...)
	d.values = append(d.values[:i:i], d.values[i+1:]...)
	d.mutations++
	r.releaseLocked(r.getN(k))
	r.releaseLocked(r.getN(v))
}

func (r *Runtime) MutableDictionaryRemoveAllObjects(dict rc.RawPtr) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := r.mutable(dict, dictPayload, "removeAllObjects")
	children := append(d.items, d.values...)
	d.items, d.values = nil, nil
	d.mutations++
	for _, p := range children {
		r.releaseLocked(r.getN(p))
	}
}

/* NSFastEnumeration */

// CountByEnumerating hands out immutable arrays in a single round straight from their
// storage. Mutable arrays and dictionaries are copied into buf, Extra[0] holding the
// position of the next round.
func (r *Runtime) CountByEnumerating(obj rc.RawPtr, state *shim.EnumState, buf []rc.NullablePtr) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	o := r.get(obj)
	if !o.cls.conforms("NSFastEnumeration") {
		panic(unrecognized(o, "countByEnumeratingWithState:objects:count:"))
	}
	first := state.State == 0
	if first {
		state.State = 1
		state.Mutations = &o.mutations
	}
	if o.cls.payload == arrayPayload && !o.cls.mutable {
		if !first {
			state.Items = nil
			return 0
		}
		state.Items = o.items
		return len(o.items)
	}
	pos := int(state.Extra[0])
	if pos > len(o.items) {
		pos = len(o.items)
	}
	n := copy(buf, o.items[pos:])
	state.Extra[0] += uintptr(n)
	state.Items = buf[:n]
	return n
}
