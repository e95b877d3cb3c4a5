package jot

import (
	"fmt"
	"sync"

	"go.uber.org/atomic"
)

// Records are addressed by 32-bit slots grouped into fixed-size slabs.
// Slabs never move once published, so readers index them without taking
// the store lock; only slot allocation and recycling are serialized.
const (
	slabShift = 10
	slabSize  = 1 << slabShift
	slabMask  = slabSize - 1
)

// refCount is the atomic reference count carried by every heap record.
// Static records keep it at zero and are excluded from refcount traffic
// by slot range, not by sentinel value.
type refCount = atomic.Int32

// store is a slot-addressed slab allocator for one record kind.
// Slot 0 is always reserved so the zero word stays non-dereferenceable,
// and the first `reserved` slots hold static records that take no
// refcount or recycling traffic.
type store[T any] struct {
	mu       sync.Mutex
	slabs    atomic.Pointer[[]*[slabSize]T]
	next     uint32
	recycled []uint32
	reserved uint32

	live  atomic.Int64
	total atomic.Int64
}

func newStore[T any](reserved uint32) *store[T] {
	s := &store[T]{next: reserved, reserved: reserved}
	slabCount := (int(reserved) + slabSize - 1) / slabSize
	if slabCount == 0 {
		slabCount = 1
	}
	slabs := make([]*[slabSize]T, slabCount)
	for i := range slabs {
		slabs[i] = new([slabSize]T)
	}
	s.slabs.Store(&slabs)
	return s
}

// get returns the record at slot. The caller must hold a live handle to
// the slot (or be the store itself); stale slots are not detectable here.
func (s *store[T]) get(slot uint32) *T {
	slabs := *s.slabs.Load()
	return &slabs[slot>>slabShift][slot&slabMask]
}

// alloc reserves a slot and returns it with its (zeroed) record.
func (s *store[T]) alloc() (uint32, *T) {
	s.mu.Lock()
	var slot uint32
	if n := len(s.recycled); n > 0 {
		slot = s.recycled[n-1]
		s.recycled = s.recycled[:n-1]
	} else {
		slot = s.next
		if slot == ^uint32(0) {
			s.mu.Unlock()
			abort(FaultSlotOverflow, fmt.Sprintf("store exhausted at slot %d", slot))
		}
		s.next++
		s.growLocked(slot)
	}
	s.mu.Unlock()
	s.live.Inc()
	s.total.Inc()
	return slot, s.get(slot)
}

// growLocked publishes a new slab when slot crosses the current boundary.
// The old slice is copied so concurrent readers keep a consistent view.
func (s *store[T]) growLocked(slot uint32) {
	old := *s.slabs.Load()
	idx := int(slot >> slabShift)
	if idx < len(old) {
		return
	}
	slabs := make([]*[slabSize]T, idx+1)
	copy(slabs, old)
	for i := len(old); i <= idx; i++ {
		slabs[i] = new([slabSize]T)
	}
	s.slabs.Store(&slabs)
}

// recycle returns a slot to the free pool. The caller has already cleared
// the record's payload.
func (s *store[T]) recycle(slot uint32) {
	if slot < s.reserved {
		abort(FaultStaticMutation, fmt.Sprintf("recycle of reserved slot %d", slot))
	}
	s.mu.Lock()
	s.recycled = append(s.recycled, slot)
	s.mu.Unlock()
	s.live.Dec()
}

// isStatic reports whether slot is one of the store's pre-reserved static
// records (including the never-valid slot 0).
func (s *store[T]) isStatic(slot uint32) bool {
	return slot < s.reserved
}

// StoreStats counts heap records of one kind. Total is monotonically
// increasing; Live excludes records that have been dropped to zero.
type StoreStats struct {
	Live  int64
	Total int64
}

func (s *store[T]) stats() StoreStats {
	return StoreStats{Live: s.live.Load(), Total: s.total.Load()}
}

// Stats is a point-in-time snapshot of every store plus the interner.
// Static records (immediates, the small-number table, empty collections)
// are never counted, which is what makes the no-allocation properties
// observable in tests.
type Stats struct {
	Numbers StoreStats
	Strings StoreStats
	Arrays  StoreStats
	Objects StoreStats

	// InternedStrings is the current size of the global intern set.
	InternedStrings int
}

// Snapshot reads the allocation counters of all four stores.
func Snapshot() Stats {
	return Stats{
		Numbers:         numStore.stats(),
		Strings:         strStore.stats(),
		Arrays:          arrStore.stats(),
		Objects:         objStore.stats(),
		InternedStrings: internedCount(),
	}
}
