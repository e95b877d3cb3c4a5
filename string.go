package jot

import (
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// strRecord is an interned string: refcount, content hash and the bytes.
// The hash picks the intern shard (so release never rehashes); object
// bucket tables derive placement from the record's slot instead.
type strRecord struct {
	rc   refCount
	hash uint64
	data string
}

// Slot 1 is the static empty string; it never enters the intern set and
// takes no refcount traffic.
const strEmptySlot = 1

var strStore = newStore[strRecord](2)

// emptyString is the shared handle for "".
var emptyString = handleFor(strEmptySlot, tagString)

const internShardCount = 32

type internShard struct {
	mu sync.Mutex
	m  map[string]uint32
}

var internShards [internShardCount]internShard

func init() {
	for i := range internShards {
		internShards[i].m = make(map[string]uint32, 64)
	}
}

func shardFor(hash uint64) *internShard {
	return &internShards[hash&(internShardCount-1)]
}

// Intern returns the string value for s, deduplicated across the
// process. Concurrent interns of equal contents return handles to the
// same record; the record stays live until its last handle is dropped.
func Intern(s string) String {
	if len(s) == 0 {
		return String(emptyString)
	}
	hash := xxhash.Sum64String(s)
	shard := shardFor(hash)
	shard.mu.Lock()
	if slot, ok := shard.m[s]; ok {
		// A concurrent drop-to-zero rechecks the count under this lock, so
		// incrementing here is enough to keep the record alive.
		strStore.get(slot).rc.Inc()
		shard.mu.Unlock()
		return String(handleFor(slot, tagString))
	}
	slot, rec := strStore.alloc()
	rec.rc.Store(1)
	rec.hash = hash
	rec.data = strings.Clone(s)
	shard.m[rec.data] = slot
	shard.mu.Unlock()
	return String(handleFor(slot, tagString))
}

// internLookup finds the record for s without creating one and without
// touching its refcount. Used by object key lookups, where a missing
// intern entry simply means the key is absent everywhere.
func internLookup(s string) (uint32, bool) {
	if len(s) == 0 {
		return strEmptySlot, true
	}
	shard := shardFor(xxhash.Sum64String(s))
	shard.mu.Lock()
	slot, ok := shard.m[s]
	shard.mu.Unlock()
	return slot, ok
}

func releaseString(slot uint32) {
	if strStore.isStatic(slot) {
		return
	}
	rec := strStore.get(slot)
	// Snapshot the identity while this handle still pins the record: the
	// moment the count hits zero another goroutine may revive, free and
	// even reallocate the slot, so rec.hash/rec.data are unstable after
	// the decrement.
	hash := rec.hash
	data := rec.data
	if !decRef(&rec.rc, slot) {
		return
	}
	// Remove from the set before freeing. The record is recycled only by
	// the goroutine that wins the map removal, and only while the count
	// is still zero: an intern that won the shard lock first has revived
	// the count, and a revived-then-dropped record is cleaned up by its
	// own final drop.
	shard := shardFor(hash)
	shard.mu.Lock()
	if cur, ok := shard.m[data]; ok && cur == slot && rec.rc.Load() == 0 {
		delete(shard.m, data)
		rec.hash = 0
		rec.data = ""
		strStore.recycle(slot)
	}
	shard.mu.Unlock()
}

func internedCount() int {
	n := 0
	for i := range internShards {
		shard := &internShards[i]
		shard.mu.Lock()
		n += len(shard.m)
		shard.mu.Unlock()
	}
	return n
}

// FromString returns the (interned) string value for s.
func FromString(s string) Value { return Value(Intern(s)) }

// FromBytes returns the string value for b. The bytes are copied.
func FromBytes(b []byte) Value { return Value(Intern(string(b))) }

// String is a Value known to hold a string. Two String handles are equal
// iff their words are equal; interning makes that a content comparison.
type String Value

// AsString returns the string view of v.
func (v Value) AsString() (String, bool) {
	if !v.IsString() {
		return 0, false
	}
	return String(v), true
}

// IntoString consumes v on success; on kind mismatch the handle is
// returned to the caller untouched.
func (v Value) IntoString() (String, bool) {
	if !v.IsString() {
		return 0, false
	}
	return String(v), true
}

// Value returns s as a generic handle.
func (s String) Value() Value { return Value(s) }

func (s String) record() *strRecord { return strStore.get(Value(s).slot()) }

// Str returns the string contents without copying.
func (s String) Str() string { return s.record().data }

// Bytes returns a copy of the string contents.
func (s String) Bytes() []byte { return []byte(s.record().data) }

// Len returns the byte length.
func (s String) Len() int { return len(s.record().data) }

// IsEmpty reports whether s is "".
func (s String) IsEmpty() bool { return Value(s) == emptyString }

// Compare orders strings lexicographically by bytes. Equality is the
// word comparison s == other.
func (s String) Compare(other String) int {
	if s == other {
		return 0
	}
	return strings.Compare(s.Str(), other.Str())
}

// contentHash is the stored xxhash of the bytes, used by the interner
// shards. Bucket placement in objects derives from the slot instead.
func (s String) contentHash() uint64 {
	if Value(s).slot() == strEmptySlot {
		return 0
	}
	return s.record().hash
}
