package jot

// Destructured is the borrowed discriminated view of a Value. Exactly
// one payload field is meaningful, selected by Kind; the composite
// fields are borrowed handles, so they are not Dropped by the caller.
type Destructured struct {
	Kind   Kind
	Bool   bool
	Number Number
	String String
	Array  Array
	Object Object
}

// Destructure returns the discriminated view of v. O(1), no allocation.
func (v Value) Destructure() Destructured {
	switch v.Kind() {
	case KindNull:
		return Destructured{Kind: KindNull}
	case KindBool:
		return Destructured{Kind: KindBool, Bool: v == True}
	case KindNumber:
		return Destructured{Kind: KindNumber, Number: Number(v)}
	case KindString:
		return Destructured{Kind: KindString, String: String(v)}
	case KindArray:
		return Destructured{Kind: KindArray, Array: Array(v)}
	default:
		return Destructured{Kind: KindObject, Object: Object(v)}
	}
}

// DestructuredMut is the mutable analogue of Destructured. Composite
// pointers alias the original handle, so mutation through them updates
// the caller's Value (including copy-on-write handle moves).
type DestructuredMut struct {
	Kind   Kind
	Bool   *BoolMut
	Number Number
	String String
	Array  *Array
	Object *Object
}

// BoolMut is a settable view of a boolean Value.
type BoolMut struct {
	v *Value
}

// Get returns the current boolean.
func (b *BoolMut) Get() bool { return *b.v == True }

// Set overwrites the underlying Value with the given boolean.
func (b *BoolMut) Set(val bool) { *b.v = Bool(val) }

// DestructureMut returns the mutable view. For arrays and objects it
// requires unique ownership: a shared composite yields ok=false, and the
// caller can either Clone-and-rebuild or use the mutating methods, which
// uniquify implicitly.
func (v *Value) DestructureMut() (DestructuredMut, bool) {
	switch v.Kind() {
	case KindNull:
		return DestructuredMut{Kind: KindNull}, true
	case KindBool:
		return DestructuredMut{Kind: KindBool, Bool: &BoolMut{v: v}}, true
	case KindNumber:
		return DestructuredMut{Kind: KindNumber, Number: Number(*v)}, true
	case KindString:
		return DestructuredMut{Kind: KindString, String: String(*v)}, true
	case KindArray:
		a, ok := v.AsArrayMut()
		if !ok {
			return DestructuredMut{}, false
		}
		return DestructuredMut{Kind: KindArray, Array: a}, true
	default:
		o, ok := v.AsObjectMut()
		if !ok {
			return DestructuredMut{}, false
		}
		return DestructuredMut{Kind: KindObject, Object: o}, true
	}
}
