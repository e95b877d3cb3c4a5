package jot

import (
	"math"

	"fortio.org/safecast"
)

// Shape-level conversions. Integer getters succeed only when the stored
// number is integral and in range; the float getter is total for any
// stored number (64-bit integers may lose precision).

func numToI64(rec *numRecord) (int64, bool) {
	switch rec.shape {
	case numU64:
		u := rec.asU64()
		if u > math.MaxInt64 {
			return 0, false
		}
		return int64(u), true
	case numF64:
		f := rec.asF64()
		if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, false
		}
		return int64(f), true
	default:
		return rec.asI64(), true
	}
}

func numToU64(rec *numRecord) (uint64, bool) {
	switch rec.shape {
	case numU64:
		return rec.asU64(), true
	case numF64:
		f := rec.asF64()
		if f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 {
			return 0, false
		}
		return uint64(f), true
	default:
		i := rec.asI64()
		if i < 0 {
			return 0, false
		}
		return uint64(i), true
	}
}

func numToF64(rec *numRecord) float64 {
	switch rec.shape {
	case numU64:
		return float64(rec.asU64())
	case numF64:
		return rec.asF64()
	default:
		return float64(rec.asI64())
	}
}

// ToInt64 returns the number as an int64 when it is integral and fits.
func (n Number) ToInt64() (int64, bool) { return numToI64(n.record()) }

// ToUint64 returns the number as a uint64 when it is integral, fits and
// is not negative.
func (n Number) ToUint64() (uint64, bool) { return numToU64(n.record()) }

// ToInt32 narrows through ToInt64 with a checked conversion.
func (n Number) ToInt32() (int32, bool) {
	i, ok := n.ToInt64()
	if !ok {
		return 0, false
	}
	v, err := safecast.Conv[int32](i)
	return v, err == nil
}

// ToUint32 narrows through ToUint64 with a checked conversion.
func (n Number) ToUint32() (uint32, bool) {
	u, ok := n.ToUint64()
	if !ok {
		return 0, false
	}
	v, err := safecast.Conv[uint32](u)
	return v, err == nil
}

// ToFloat64 converts any stored number to a float64. Integers above 2^53
// lose precision but never fail.
func (n Number) ToFloat64() float64 { return numToF64(n.record()) }

// ToFloat64Lossy is ToFloat64; the two coincide for every shape.
func (n Number) ToFloat64Lossy() float64 { return n.ToFloat64() }

// ToFloat32 succeeds only when the number survives the round trip
// through float32 exactly.
func (n Number) ToFloat32() (float32, bool) {
	rec := n.record()
	switch rec.shape {
	case numU64:
		if !canRepresentAsF32(rec.asU64()) {
			return 0, false
		}
		return float32(rec.asU64()), true
	case numF64:
		f := rec.asF64()
		u := float32(f)
		if float64(u) != f {
			return 0, false
		}
		return u, true
	default:
		i := rec.asI64()
		mag := uint64(i)
		if i < 0 {
			mag = uint64(-i)
		}
		if !canRepresentAsF32(mag) {
			return 0, false
		}
		return float32(i), true
	}
}

// ToFloat32Lossy rounds to the nearest float32.
func (n Number) ToFloat32Lossy() float32 { return float32(n.ToFloat64()) }

// ToInt64Lossy rounds float shapes to the nearest integer and saturates
// out-of-range values.
func (n Number) ToInt64Lossy() int64 {
	rec := n.record()
	switch rec.shape {
	case numU64:
		return math.MaxInt64
	case numF64:
		return roundToI64(rec.asF64())
	default:
		return rec.asI64()
	}
}

// ToUint64Lossy rounds float shapes and saturates; negatives clamp to 0.
func (n Number) ToUint64Lossy() uint64 {
	rec := n.record()
	switch rec.shape {
	case numU64:
		return rec.asU64()
	case numF64:
		return roundToU64(rec.asF64())
	default:
		i := rec.asI64()
		if i < 0 {
			return 0
		}
		return uint64(i)
	}
}

// ToInt32Lossy saturates to the int32 range.
func (n Number) ToInt32Lossy() int32 {
	i := n.ToInt64Lossy()
	switch {
	case i > math.MaxInt32:
		return math.MaxInt32
	case i < math.MinInt32:
		return math.MinInt32
	default:
		return int32(i)
	}
}

// ToUint32Lossy saturates to the uint32 range.
func (n Number) ToUint32Lossy() uint32 {
	u := n.ToUint64Lossy()
	if u > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(u)
}

func roundToI64(f float64) int64 {
	f = math.Round(f)
	switch {
	case f >= math.MaxInt64: // 2^63 exactly, first non-representable value
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	default:
		return int64(f)
	}
}

func roundToU64(f float64) uint64 {
	f = math.Round(f)
	switch {
	case f >= math.MaxUint64:
		return math.MaxUint64
	case f <= 0:
		return 0
	default:
		return uint64(f)
	}
}

// Value-level getters: each succeeds only when v is a number and the
// number converts.

// ToInt64 returns the integral value of a number handle.
func (v Value) ToInt64() (int64, bool) {
	n, ok := v.AsNumber()
	if !ok {
		return 0, false
	}
	return n.ToInt64()
}

// ToUint64 returns the unsigned integral value of a number handle.
func (v Value) ToUint64() (uint64, bool) {
	n, ok := v.AsNumber()
	if !ok {
		return 0, false
	}
	return n.ToUint64()
}

// ToInt32 returns the value of a number handle when it fits an int32.
func (v Value) ToInt32() (int32, bool) {
	n, ok := v.AsNumber()
	if !ok {
		return 0, false
	}
	return n.ToInt32()
}

// ToUint32 returns the value of a number handle when it fits a uint32.
func (v Value) ToUint32() (uint32, bool) {
	n, ok := v.AsNumber()
	if !ok {
		return 0, false
	}
	return n.ToUint32()
}

// ToFloat64 converts a number handle to float64.
func (v Value) ToFloat64() (float64, bool) {
	n, ok := v.AsNumber()
	if !ok {
		return 0, false
	}
	return n.ToFloat64(), true
}

// ToFloat32 converts a number handle to float32 when exact.
func (v Value) ToFloat32() (float32, bool) {
	n, ok := v.AsNumber()
	if !ok {
		return 0, false
	}
	return n.ToFloat32()
}

// ToInt64Lossy converts a number handle, rounding and saturating.
func (v Value) ToInt64Lossy() (int64, bool) {
	n, ok := v.AsNumber()
	if !ok {
		return 0, false
	}
	return n.ToInt64Lossy(), true
}

// ToUint64Lossy converts a number handle, rounding and saturating.
func (v Value) ToUint64Lossy() (uint64, bool) {
	n, ok := v.AsNumber()
	if !ok {
		return 0, false
	}
	return n.ToUint64Lossy(), true
}
