package jot

import "sort"

// Kind ranks for the total order: null < false < true < number < string
// < array < object.

func kindRank(v Value) int {
	switch v.Kind() {
	case KindNull:
		return 0
	case KindBool:
		if v == False {
			return 1
		}
		return 2
	case KindNumber:
		return 3
	case KindString:
		return 4
	case KindArray:
		return 5
	default:
		return 6
	}
}

// Equal reports deep structural equality. Interning and the static
// tables make the word comparison a correct fast path for immediates,
// strings and shared records.
func Equal(a, b Value) bool {
	if a == b {
		return true
	}
	ka, kb := a.Kind(), b.Kind()
	if ka != kb {
		return false
	}
	switch ka {
	case KindNumber:
		na, _ := a.AsNumber()
		nb, _ := b.AsNumber()
		return numCompare(na.record(), nb.record()) == 0
	case KindString:
		// Interned: distinct words are distinct contents.
		return false
	case KindArray:
		aa, _ := a.asArrayRead()
		ab, _ := b.asArrayRead()
		if aa.Len() != ab.Len() {
			return false
		}
		ea, eb := aa.Values(), ab.Values()
		for i := range ea {
			if !Equal(ea[i], eb[i]) {
				return false
			}
		}
		return true
	case KindObject:
		oa, _ := a.asObjectRead()
		ob, _ := b.asObjectRead()
		if oa.Len() != ob.Len() {
			return false
		}
		equal := true
		oa.Range(func(key string, va Value) bool {
			vb, ok := ob.Get(key)
			if !ok || !Equal(va, vb) {
				equal = false
				return false
			}
			return true
		})
		return equal
	default:
		// Immediates already compared by word.
		return false
	}
}

// Compare orders values totally: first by kind rank, then within the
// kind. Objects compare by length, then by their sorted entry lists, so
// order-insensitive equal objects compare equal.
func Compare(a, b Value) int {
	ra, rb := kindRank(a), kindRank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	switch a.Kind() {
	case KindNull, KindBool:
		return 0
	case KindNumber:
		na, _ := a.AsNumber()
		nb, _ := b.AsNumber()
		return numCompare(na.record(), nb.record())
	case KindString:
		sa, _ := a.AsString()
		sb, _ := b.AsString()
		return sa.Compare(sb)
	case KindArray:
		aa, _ := a.asArrayRead()
		ab, _ := b.asArrayRead()
		ea, eb := aa.Values(), ab.Values()
		n := len(ea)
		if len(eb) < n {
			n = len(eb)
		}
		for i := 0; i < n; i++ {
			if c := Compare(ea[i], eb[i]); c != 0 {
				return c
			}
		}
		return len(ea) - len(eb)
	default:
		return compareObjects(a, b)
	}
}

func compareObjects(a, b Value) int {
	oa, _ := a.asObjectRead()
	ob, _ := b.asObjectRead()
	if d := oa.Len() - ob.Len(); d != 0 {
		return d
	}
	ea := sortedEntries(oa)
	eb := sortedEntries(ob)
	for i := range ea {
		if c := ea[i].key.Compare(eb[i].key); c != 0 {
			return c
		}
		if c := Compare(ea[i].value, eb[i].value); c != 0 {
			return c
		}
	}
	return 0
}

func sortedEntries(o Object) []objEntry {
	out := make([]objEntry, 0, o.Len())
	for i := 0; i < o.Len(); i++ {
		k, v, _ := o.At(i)
		out = append(out, objEntry{key: k, value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].key.Compare(out[j].key) < 0
	})
	return out
}

// Hash seeds keep the six kinds in distinct hash families.
const (
	hashSeedNull  = 0x9ae16a3b2f90404f
	hashSeedFalse = 0xc3a5c85c97cb3127
	hashSeedTrue  = 0xb492b66fbe98f273
	hashSeedInt   = 0x651e95c4d06fbfb1
	hashSeedFloat = 0x3c79ac492ba7b653
	hashSeedStr   = 0x1f83d9abfb41bd6b
	hashSeedArr   = 0x510e527fade682d1
	hashSeedObj   = 0x9b05688c2b3e6c1f
)

// mix64 is a multiply-xor finalizer over the word.
func mix64(x uint64) uint64 {
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	x *= 0xc4ceb9fe1a85ec53
	x ^= x >> 33
	return x
}

// Hash returns a structural hash consistent with Equal: numerically
// equal numbers hash alike regardless of shape, and object hashes are
// order-insensitive.
func Hash(v Value) uint64 {
	switch v.Kind() {
	case KindNull:
		return hashSeedNull
	case KindBool:
		if v == True {
			return hashSeedTrue
		}
		return hashSeedFalse
	case KindNumber:
		n, _ := v.AsNumber()
		return numHash(n.record())
	case KindString:
		// Pointer-derived: interning makes the slot a content identity.
		return mix64(uint64(v.slot()) ^ hashSeedStr)
	case KindArray:
		a, _ := v.asArrayRead()
		h := uint64(hashSeedArr)
		for _, e := range a.Values() {
			h = mix64(h ^ Hash(e))
		}
		return mix64(h ^ uint64(a.Len()))
	default:
		o, _ := v.asObjectRead()
		h := uint64(hashSeedObj) ^ mix64(uint64(o.Len()))
		for i := 0; i < o.Len(); i++ {
			k, e, _ := o.At(i)
			h ^= mix64(Hash(Value(k)) ^ mix64(Hash(e)))
		}
		return h
	}
}
