package jot

import (
	"fmt"
	"strconv"
)

// Value is the one-word handle to a JSON-like value.
//
// The word is either an immediate (Null, False, True) or slot<<2|tag,
// where tag selects the store holding the record. The zero word is never
// a valid handle, so a Value inside a struct or slice can use 0 as its
// "no value" niche; the zero Value must not be passed to any operation
// other than IsZero and Drop (for which it is a no-op).
//
// Tag assignment (fixed): 00 number, 01 string, 10 array, 11 object.
// The three immediates are the zero-slot string, array and object words,
// which keeps them non-dereferenceable because slot 0 of every store is
// reserved.
type Value uint64

const (
	tagNumber uint64 = 0
	tagString uint64 = 1
	tagArray  uint64 = 2
	tagObject uint64 = 3
	tagMask   uint64 = 3
)

// Immediate values. These are constant words and compare with ==.
const (
	// Null is the JSON null value.
	Null Value = 0x1
	// False is the JSON false value.
	False Value = 0x2
	// True is the JSON true value.
	True Value = 0x3
)

func (v Value) tag() uint64  { return uint64(v) & tagMask }
func (v Value) slot() uint32 { return uint32(uint64(v) >> 2) }
func (v Value) isHeap() bool { return v.slot() != 0 }

func handleFor(slot uint32, tag uint64) Value {
	return Value(uint64(slot)<<2 | tag)
}

// Kind identifies one of the six value kinds.
type Kind uint8

const (
	// KindNull is JSON null.
	KindNull Kind = iota
	// KindBool is JSON true or false.
	KindBool
	// KindNumber is a JSON number.
	KindNumber
	// KindString is a JSON string.
	KindString
	// KindArray is a JSON array.
	KindArray
	// KindObject is a JSON object.
	KindObject
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// IsZero reports whether v is the zero word (the niche, not a value).
func (v Value) IsZero() bool { return v == 0 }

// Kind returns the kind of v. Aborts on the zero word.
func (v Value) Kind() Kind {
	if v.slot() == 0 {
		switch v {
		case Null:
			return KindNull
		case False, True:
			return KindBool
		default:
			abort(FaultCorruptTag, "kind of the zero word")
		}
	}
	switch v.tag() {
	case tagNumber:
		return KindNumber
	case tagString:
		return KindString
	case tagArray:
		return KindArray
	default:
		return KindObject
	}
}

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v == Null }

// IsBool reports whether v is true or false.
func (v Value) IsBool() bool { return v == True || v == False }

// IsTrue reports whether v is true.
func (v Value) IsTrue() bool { return v == True }

// IsFalse reports whether v is false.
func (v Value) IsFalse() bool { return v == False }

// IsNumber reports whether v is a number.
func (v Value) IsNumber() bool { return v.isHeap() && v.tag() == tagNumber }

// IsString reports whether v is a string.
func (v Value) IsString() bool { return v.isHeap() && v.tag() == tagString }

// IsArray reports whether v is an array.
func (v Value) IsArray() bool { return v.isHeap() && v.tag() == tagArray }

// IsObject reports whether v is an object.
func (v Value) IsObject() bool { return v.isHeap() && v.tag() == tagObject }

// Bool returns the value for b.
func Bool(b bool) Value {
	if b {
		return True
	}
	return False
}

// ToBool returns the boolean payload, or false if v is not a boolean.
func (v Value) ToBool() (bool, bool) {
	switch v {
	case True:
		return true, true
	case False:
		return false, true
	default:
		return false, false
	}
}

// Clone returns a second handle to the same value. Heap records gain a
// reference; immediates and static records are returned as-is.
func (v Value) Clone() Value {
	slot := v.slot()
	if slot == 0 {
		return v
	}
	switch v.tag() {
	case tagNumber:
		if !numStore.isStatic(slot) {
			numStore.get(slot).rc.Inc()
		}
	case tagString:
		if !strStore.isStatic(slot) {
			strStore.get(slot).rc.Inc()
		}
	case tagArray:
		if !arrStore.isStatic(slot) {
			arrStore.get(slot).rc.Inc()
		}
	case tagObject:
		if !objStore.isStatic(slot) {
			objStore.get(slot).rc.Inc()
		}
	}
	return v
}

// Drop releases the handle and zeroes it. Dropping the last handle to a
// heap record frees it; for composites the contained values are dropped
// recursively. Dropping the zero word is a no-op.
func (v *Value) Drop() {
	dropValue(*v)
	*v = 0
}

func dropValue(v Value) {
	slot := v.slot()
	if slot == 0 {
		return
	}
	switch v.tag() {
	case tagNumber:
		releaseNumber(slot)
	case tagString:
		releaseString(slot)
	case tagArray:
		releaseArray(slot)
	case tagObject:
		releaseObject(slot)
	}
}

// decRef decrements rc and reports whether the record must be freed.
func decRef(rc *refCount, slot uint32) bool {
	n := rc.Dec()
	if n < 0 {
		abort(FaultRefUnderflow, fmt.Sprintf("slot %d dropped below zero", slot))
	}
	return n == 0
}

// DeepClone returns a structure-copying clone: composites are rebuilt
// record by record so the result shares no mutable state with v. Strings
// and numbers are still shared (they are immutable).
func (v Value) DeepClone() Value {
	switch v.Kind() {
	case KindArray:
		a, _ := v.asArrayRead()
		out := ArrayWithCapacity(a.Len())
		for _, e := range a.Values() {
			out.Push(e.DeepClone())
		}
		return Value(out)
	case KindObject:
		o, _ := v.asObjectRead()
		out := ObjectWithCapacity(o.Len())
		o.Range(func(k string, e Value) bool {
			prev, had := out.Insert(k, e.DeepClone())
			if had {
				prev.Drop()
			}
			return true
		})
		return Value(out)
	default:
		return v.Clone()
	}
}

// Take replaces v with null and returns the previous value, transferring
// ownership to the caller.
func (v *Value) Take() Value {
	old := *v
	*v = Null
	return old
}

// Len returns the element count of a string, array or object.
func (v Value) Len() (int, bool) {
	switch v.Kind() {
	case KindString:
		s, _ := v.AsString()
		return s.Len(), true
	case KindArray:
		a, _ := v.asArrayRead()
		return a.Len(), true
	case KindObject:
		o, _ := v.asObjectRead()
		return o.Len(), true
	default:
		return 0, false
	}
}

// Get looks up key in an object value. The returned handle is borrowed.
func (v Value) Get(key string) (Value, bool) {
	o, ok := v.asObjectRead()
	if !ok {
		return 0, false
	}
	return o.Get(key)
}

// At returns the i-th element of an array value. The returned handle is
// borrowed.
func (v Value) At(i int) (Value, bool) {
	a, ok := v.asArrayRead()
	if !ok {
		return 0, false
	}
	return a.Get(i)
}

// String renders a short debug form of the value. It is not JSON; use the
// codec package to serialize.
func (v Value) String() string {
	switch v.Kind() {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v == True)
	case KindNumber:
		n, _ := v.AsNumber()
		return n.String()
	case KindString:
		s, _ := v.AsString()
		return strconv.Quote(s.Str())
	case KindArray:
		a, _ := v.asArrayRead()
		return fmt.Sprintf("array(len=%d)", a.Len())
	default:
		o, _ := v.asObjectRead()
		return fmt.Sprintf("object(len=%d)", o.Len())
	}
}
