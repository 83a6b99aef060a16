package foundation_test

import (
	"maps"
	"testing"

	"github.com/blacktop/choco/pkg/foundation"
)

type stringToNumber = foundation.NSDictionary[*foundation.NSString, *foundation.NSNumber]

func TestNSDictionary(t *testing.T) {
	r := setup(t)
	keys := strs("one", "two", "three")
	vals := []*foundation.NSNumber{foundation.NumberWithInt(1), foundation.NumberWithInt(2), foundation.NumberWithInt(3)}
	dict := foundation.NSDictionaryWithObjects(vals, keys)
	releaseAll(vals...)

	if dict.Count() != 3 || dict.IsEmpty() {
		t.Fatalf("Count() = %d", dict.Count())
	}
	v, ok := dict.Get(keys[1])
	if !ok || v.IntValue() != 2 {
		t.Errorf("Get(two) = %v, %v", v, ok)
	}
	v.Release()

	missing := foundation.NewNSString("four")
	if _, ok := dict.Get(missing); ok {
		t.Error("Get of an absent key")
	}
	expectPanic(t, "expecting -[NSDictionary objectForKey:] to return a non null pointer", func() {
		dict.ObjectForKey(missing)
	})
	missing.Release()

	got := map[string]int64{}
	for k, v := range dict.All() {
		got[k.String()] = v.IntValue()
		releaseAll(k)
		v.Release()
	}
	if want := map[string]int64{"one": 1, "two": 2, "three": 3}; !maps.Equal(got, want) {
		t.Errorf("All() = %v, want %v", got, want)
	}
	releaseAll(keys...)
	dict.Release()
	checkNoLeaks(t, r)
}

func TestNSMutableDictionary(t *testing.T) {
	r := setup(t)
	dict := foundation.NewNSMutableDictionary[*foundation.NSString, *foundation.NSNumber]()
	k := foundation.NewNSString("k")
	one, two := foundation.NumberWithInt(1), foundation.NumberWithInt(2)

	dict.Set(k, one)
	dict.Set(k, two)
	cur := dict.ObjectForKey(k)
	if dict.Count() != 1 || cur.IntValue() != 2 {
		t.Error("Set did not replace the value")
	}
	cur.Release()
	if r.RefCount(one.Raw()) != 1 {
		t.Error("replaced value was not released by the dictionary")
	}

	var view *stringToNumber = foundation.AsNSDictionary[*foundation.NSString, *foundation.NSNumber](dict)
	frozen := dict.Copy()
	dict.Remove(k)
	if dict.Count() != 0 || view.Count() != 0 || frozen.Count() != 1 {
		t.Errorf("counts = %d / %d / %d", dict.Count(), view.Count(), frozen.Count())
	}
	if className(frozen) != "NSDictionary" {
		t.Errorf("Copy() class = %s", className(frozen))
	}

	thawed := frozen.MutableCopy()
	thawed.RemoveAll()
	if !thawed.IsEmpty() || frozen.IsEmpty() {
		t.Error("MutableCopy() is not independent")
	}

	other := foundation.NewNSString("other")
	thawed.Set(k, one)
	thawed.Set(other, one)
	other.Release()
	expectPanic(t, "mutation detected during iteration", func() {
		for key := range thawed.Keys() {
			thawed.Remove(key)
			key.Release()
		}
	})

	releaseAll(one, two)
	releaseAll(k)
	view.Release()
	frozen.Release()
	thawed.Release()
	dict.Release()
	checkNoLeaks(t, r)
}
