package jot

import (
	"fmt"
	"testing"
)

// checkTableInvariants verifies that every occupied bucket indexes an
// entry whose probe chain reaches that bucket, and that every entry is
// referenced by exactly one bucket.
func checkTableInvariants(t *testing.T, o Object) {
	t.Helper()
	if o.isStatic() {
		return
	}
	rec := o.record()
	seen := make(map[uint32]bool, len(rec.entries))
	mask := uint32(len(rec.table)) - 1
	for b, idx := range rec.table {
		if idx == objEmptyBucket {
			continue
		}
		if int(idx) >= len(rec.entries) {
			t.Fatalf("bucket %d holds stale index %d", b, idx)
		}
		if seen[idx] {
			t.Fatalf("entry %d referenced twice", idx)
		}
		seen[idx] = true
		// The bucket must lie on the entry's probe chain.
		home := bucketFor(Value(rec.entries[idx].key).slot(), mask)
		dist := (uint32(b) - home) & mask
		for i := uint32(0); i <= dist; i++ {
			if rec.table[(home+i)&mask] == objEmptyBucket {
				t.Fatalf("entry %d has a hole in its probe chain", idx)
			}
		}
	}
	if len(seen) != len(rec.entries) {
		t.Fatalf("%d entries but %d referenced from the table", len(rec.entries), len(seen))
	}
}

func TestObjectTableInvariantsUnderChurn(t *testing.T) {
	o := NewObject()
	for round := 0; round < 4; round++ {
		for i := 0; i < 50; i++ {
			key := fmt.Sprintf("r%d-k%d", round, i)
			if prev, had := o.Insert(key, FromInt(i)); had {
				prev.Drop()
			}
		}
		checkTableInvariants(t, o)
		for i := 0; i < 50; i += 2 {
			key := fmt.Sprintf("r%d-k%d", round, i)
			v, ok := o.Remove(key)
			if !ok {
				t.Fatalf("remove %s", key)
			}
			v.Drop()
			checkTableInvariants(t, o)
		}
	}
	ov := o.Value()
	ov.Drop()
}

func TestStaticNumberTable(t *testing.T) {
	for k := int64(numStaticLower); k < numStaticUpper; k++ {
		v := FromInt64(k)
		if !numStore.isStatic(v.slot()) {
			t.Fatalf("FromInt64(%d) did not hit the static table", k)
		}
		got, ok := v.ToInt64()
		if !ok || got != k {
			t.Fatalf("static %d reads back %d", k, got)
		}
	}
	if v := FromInt64(numStaticUpper); numStore.isStatic(v.slot()) {
		t.Fatalf("FromInt64(%d) must allocate", numStaticUpper)
	} else {
		v.Drop()
	}
}

func TestSlabGrowthKeepsRecordsStable(t *testing.T) {
	// Cross several slab boundaries and verify earlier records survive
	// the slab-slice republish.
	const n = 3 * slabSize
	vals := make([]Value, 0, n)
	for i := 0; i < n; i++ {
		vals = append(vals, FromInt64(int64(1_000_000+i)))
	}
	for i, v := range vals {
		got, ok := v.ToInt64()
		if !ok || got != int64(1_000_000+i) {
			t.Fatalf("record %d corrupted after growth: %d", i, got)
		}
	}
	for i := range vals {
		vals[i].Drop()
	}
}

func TestRecycleReusesSlots(t *testing.T) {
	a := FromInt64(777_000)
	slot := a.slot()
	a.Drop()
	b := FromInt64(888_000)
	if b.slot() != slot {
		t.Fatalf("freed slot %d not reused (got %d)", slot, b.slot())
	}
	b.Drop()
}

func TestRefUnderflowAborts(t *testing.T) {
	defer func() {
		r := recover()
		f, ok := r.(*Fault)
		if !ok || f.Code != FaultRefUnderflow {
			t.Fatalf("recover = %v, want refcount underflow fault", r)
		}
	}()
	v := FromInt64(999_000)
	w := v
	v.Drop()
	w.Drop() // double drop of the same record
	t.Fatal("unreachable")
}

func TestImmediateWordsStayReserved(t *testing.T) {
	// Null/False/True are the zero-slot string/array/object handles and
	// the zero word is the number store's reserved slot.
	if Null.slot() != 0 || False.slot() != 0 || True.slot() != 0 {
		t.Fatal("immediates must use slot 0")
	}
	if Null.tag() != tagString || False.tag() != tagArray || True.tag() != tagObject {
		t.Fatal("immediate tag assignment changed")
	}
	if emptyString.slot() != 1 || emptyArray.slot() != 1 || emptyObject.slot() != 1 {
		t.Fatal("static empties must use slot 1")
	}
}
