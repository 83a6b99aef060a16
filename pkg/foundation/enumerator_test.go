package foundation_test

import (
	"fmt"
	"testing"

	"github.com/blacktop/choco/pkg/foundation"
)

func numbers(n int) []*foundation.NSNumber {
	out := make([]*foundation.NSNumber, n)
	for i := range out {
		out[i] = foundation.NumberWithInt(int64(i))
	}
	return out
}

type arrayKind interface {
	foundation.NSArrayKind[*foundation.NSNumber]
	Release()
}

func buildArray(mutable bool, n int) arrayKind {
	elems := numbers(n)
	defer releaseAll(elems...)
	if mutable {
		return foundation.NSMutableArrayOf(elems...)
	}
	return foundation.NSArrayOf(elems...)
}

func TestEnumerationBoundarySizes(t *testing.T) {
	sizes := []int{0, 1, foundation.EnumerationBatch - 1, foundation.EnumerationBatch, foundation.EnumerationBatch + 1, foundation.EnumerationBatch*3 + 1}
	for n := range 48 {
		sizes = append(sizes, n)
	}
	for _, mutable := range []bool{false, true} {
		for _, n := range sizes {
			t.Run(fmt.Sprintf("mutable=%v/%d", mutable, n), func(t *testing.T) {
				r := setup(t)
				arr := buildArray(mutable, n)
				view := foundation.AsNSArray[*foundation.NSNumber](arr)
				arr.Release()

				e := view.Enumerator()
				var got []*foundation.NSNumber
				for {
					v, ok := e.Next()
					if !ok {
						break
					}
					got = append(got, v)
				}
				if _, ok := e.Next(); ok {
					t.Fatal("enumerator restarted after finishing")
				}
				if len(got) != n {
					t.Fatalf("yielded %d elements, want %d", len(got), n)
				}

				// the container goes first: every element must be independently owned
				view.Release()
				for i, v := range got {
					if v.IntValue() != int64(i) {
						t.Fatalf("element %d = %d", i, v.IntValue())
					}
					v.Release()
				}
				checkNoLeaks(t, r)
			})
		}
	}
}

func TestEnumerationAllBalancesReferences(t *testing.T) {
	r := setup(t)
	arr := buildArray(false, 40)
	view := foundation.AsNSArray[*foundation.NSNumber](arr)
	sum := int64(0)
	for v := range view.All() {
		sum += v.IntValue()
		v.Release()
	}
	for v := range view.All() {
		v.Release()
		break
	}
	if sum != 40*39/2 {
		t.Errorf("sum = %d", sum)
	}
	view.Release()
	arr.Release()
	checkNoLeaks(t, r)
}

func TestEnumerationMutationIsFatal(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		consume int
		mutate  func(*foundation.NSMutableArray[*foundation.NSNumber])
	}{
		{"add within a round", 3, 1, func(a *foundation.NSMutableArray[*foundation.NSNumber]) {
			n := foundation.NumberWithInt(99)
			a.AddObject(n)
			n.Release()
		}},
		{"remove last within a round", 5, 2, func(a *foundation.NSMutableArray[*foundation.NSNumber]) { a.RemoveLastObject() }},
		{"remove all at a round boundary", foundation.EnumerationBatch * 2, foundation.EnumerationBatch, func(a *foundation.NSMutableArray[*foundation.NSNumber]) {
			a.RemoveAllObjects()
		}},
		{"remove all after the last element", 4, 4, func(a *foundation.NSMutableArray[*foundation.NSNumber]) { a.RemoveAllObjects() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setup(t)
			elems := numbers(tt.size)
			arr := foundation.NSMutableArrayOf(elems...)
			releaseAll(elems...)
			defer arr.Release()

			e := arr.Enumerator()
			defer e.Close()
			for range tt.consume {
				v, ok := e.Next()
				if !ok {
					t.Fatal("ran out of elements")
				}
				v.Release()
			}
			tt.mutate(arr)
			expectPanic(t, "mutation detected during iteration", func() { e.Next() })
		})
	}
}

func TestEnumerationMutationInsideRange(t *testing.T) {
	setup(t)
	elems := numbers(3)
	arr := foundation.NSMutableArrayOf(elems...)
	releaseAll(elems...)
	defer arr.Release()

	expectPanic(t, "mutation detected during iteration", func() {
		for v := range arr.All() {
			arr.AddObject(v)
			v.Release()
		}
	})
}

func TestEnumeratorClose(t *testing.T) {
	setup(t)
	arr := buildArray(true, 20)
	defer arr.Release()
	e := foundation.AsNSArray[*foundation.NSNumber](arr).Enumerator()
	v, _ := e.Next()
	v.Release()
	e.Close()
	e.Close()
	if _, ok := e.Next(); ok {
		t.Fatal("Next after Close")
	}
}
