package jot_test

import (
	"errors"
	"testing"

	"jot"
)

func intArray(vals ...int64) jot.Array {
	a := jot.ArrayWithCapacity(len(vals))
	for _, v := range vals {
		a.Push(jot.FromInt64(v))
	}
	return a
}

func arrayInts(t *testing.T, a jot.Array) []int64 {
	t.Helper()
	out := make([]int64, 0, a.Len())
	a.Range(func(_ int, v jot.Value) bool {
		i, ok := v.ToInt64()
		if !ok {
			t.Fatalf("element %v is not an integer", v)
		}
		out = append(out, i)
		return true
	})
	return out
}

func sameInts(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestEmptyArrayStatic(t *testing.T) {
	before := jot.Snapshot().Arrays
	a := jot.NewArray()
	b := jot.NewArray()
	if a.Value() != b.Value() {
		t.Fatal("empty arrays must share the static record")
	}
	if a.Len() != 0 || a.Cap() != 0 || !a.IsEmpty() {
		t.Fatal("empty array header")
	}
	if jot.Snapshot().Arrays.Total != before.Total {
		t.Fatal("empty array must not allocate")
	}
	av := a.Value()
	av.Drop()
	if jot.Snapshot().Arrays.Live != before.Live {
		t.Fatal("dropping the static empty array must be a no-op")
	}
}

func TestArrayPushGrowth(t *testing.T) {
	a := jot.NewArray()
	for i := int64(0); i < 9; i++ {
		a.Push(jot.FromInt64(i))
		if a.Cap() < a.Len() {
			t.Fatalf("cap %d below len %d", a.Cap(), a.Len())
		}
	}
	if a.Cap() < 4 {
		t.Fatalf("initial capacity %d below 4", a.Cap())
	}
	if !sameInts(arrayInts(t, a), []int64{0, 1, 2, 3, 4, 5, 6, 7, 8}) {
		t.Fatalf("contents %v", arrayInts(t, a))
	}
	av := a.Value()
	av.Drop()
}

func TestArrayOps(t *testing.T) {
	a := intArray(1, 2, 3)

	v, ok := a.Pop()
	if !ok {
		t.Fatal("pop")
	}
	if i, _ := v.ToInt64(); i != 3 {
		t.Fatalf("pop = %d", i)
	}
	v.Drop()

	a.Insert(0, jot.FromInt64(0))
	if !sameInts(arrayInts(t, a), []int64{0, 1, 2}) {
		t.Fatalf("after insert: %v", arrayInts(t, a))
	}

	r, ok := a.Remove(1)
	if !ok {
		t.Fatal("remove")
	}
	if i, _ := r.ToInt64(); i != 1 {
		t.Fatalf("removed %d", i)
	}
	r.Drop()
	if !sameInts(arrayInts(t, a), []int64{0, 2}) {
		t.Fatalf("after remove: %v", arrayInts(t, a))
	}

	a.Push(jot.FromInt64(9))
	s, ok := a.SwapRemove(0)
	if !ok {
		t.Fatal("swap remove")
	}
	s.Drop()
	if !sameInts(arrayInts(t, a), []int64{9, 2}) {
		t.Fatalf("after swap remove: %v", arrayInts(t, a))
	}

	if !a.Set(0, jot.FromInt64(7)) {
		t.Fatal("set")
	}
	if got, _ := a.Get(0); mustI64(t, got) != 7 {
		t.Fatal("set readback")
	}
	if a.Set(5, jot.FromInt64(1)) {
		t.Fatal("set out of range must fail")
	}

	a.Clear()
	if a.Len() != 0 {
		t.Fatal("clear")
	}
	if a.Value() != jot.NewArray().Value() {
		t.Fatal("cleared array must be the shared empty array")
	}
}

func mustI64(t *testing.T, v jot.Value) int64 {
	t.Helper()
	i, ok := v.ToInt64()
	if !ok {
		t.Fatalf("%v is not an integer", v)
	}
	return i
}

func TestArrayRefcountRoundTrip(t *testing.T) {
	before := jot.Snapshot().Arrays
	a := intArray(1, 2, 3)
	v := a.Value()

	c := v.Clone()
	c.Drop()

	v.Drop()
	after := jot.Snapshot().Arrays
	if after.Live != before.Live {
		t.Fatalf("clone-then-drop leaked %d records", after.Live-before.Live)
	}
}

func TestArrayCloneOnWrite(t *testing.T) {
	a := intArray(1, 2, 3)
	orig := a.Value()
	cloneHandle := orig.Clone()

	clone, _ := cloneHandle.AsArray()
	clone.Push(jot.FromInt64(4))

	origView, _ := orig.AsArray()
	if !sameInts(arrayInts(t, *origView), []int64{1, 2, 3}) {
		t.Fatalf("original mutated: %v", arrayInts(t, *origView))
	}
	if !sameInts(arrayInts(t, *clone), []int64{1, 2, 3, 4}) {
		t.Fatalf("clone contents: %v", arrayInts(t, *clone))
	}

	// The CoW copy moved the clone to its own record.
	if cloneHandle == orig {
		t.Fatal("mutated clone still shares the record")
	}

	cloneHandle.Drop()
	orig.Drop()
}

func TestAsArrayMutShared(t *testing.T) {
	a := intArray(1)
	v := a.Value()
	c := v.Clone()
	if _, ok := v.AsArrayMut(); ok {
		t.Fatal("AsArrayMut must refuse a shared array")
	}
	c.Drop()
	if _, ok := v.AsArrayMut(); !ok {
		t.Fatal("AsArrayMut must allow a unique array")
	}
	v.Drop()
}

func TestArrayMutErrors(t *testing.T) {
	s := jot.FromString("not an array")
	if _, err := s.ArrayMut(); !errors.Is(err, jot.ErrTypeMismatch) {
		t.Fatalf("ArrayMut on a string: %v", err)
	}
	s.Drop()

	a := intArray(1)
	v := a.Value()
	c := v.Clone()
	if _, err := v.ArrayMut(); !errors.Is(err, jot.ErrSharedMutation) {
		t.Fatalf("ArrayMut on a shared array: %v", err)
	}
	c.Drop()
	if _, err := v.ArrayMut(); err != nil {
		t.Fatalf("ArrayMut on a unique array: %v", err)
	}
	v.Drop()
}

func TestArrayEqualityAndHash(t *testing.T) {
	a := intArray(1, 2, 3)
	b := intArray(1, 2, 3)
	c := intArray(3, 2, 1)
	av, bv, cv := a.Value(), b.Value(), c.Value()
	defer av.Drop()
	defer bv.Drop()
	defer cv.Drop()

	if !jot.Equal(av, bv) {
		t.Fatal("equal arrays")
	}
	if jot.Hash(av) != jot.Hash(bv) {
		t.Fatal("equal arrays must hash alike")
	}
	if jot.Equal(av, cv) {
		t.Fatal("order matters for arrays")
	}
	if jot.Compare(av, cv) >= 0 {
		t.Fatal("[1,2,3] < [3,2,1]")
	}
}
