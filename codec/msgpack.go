package codec

import (
	"fmt"
	"io"
	"math"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"

	"jot"
)

// EncodeMsgpack streams v to w as MessagePack. Objects are written entry
// by entry so insertion order survives the round trip.
func EncodeMsgpack(w io.Writer, v jot.Value) error {
	enc := msgpack.NewEncoder(w)
	return encodeValue(enc, v)
}

func encodeValue(enc *msgpack.Encoder, v jot.Value) error {
	switch v.Kind() {
	case jot.KindNull:
		return enc.EncodeNil()
	case jot.KindBool:
		return enc.EncodeBool(v.IsTrue())
	case jot.KindNumber:
		n, _ := v.AsNumber()
		if !n.HasDecimalPoint() {
			if i, ok := n.ToInt64(); ok {
				return enc.EncodeInt(i)
			}
			u, _ := n.ToUint64()
			return enc.EncodeUint(u)
		}
		return enc.EncodeFloat64(n.ToFloat64())
	case jot.KindString:
		s, _ := v.AsString()
		return enc.EncodeString(s.Str())
	case jot.KindArray:
		a, _ := v.IntoArray()
		if err := enc.EncodeArrayLen(a.Len()); err != nil {
			return err
		}
		for _, e := range a.Values() {
			if err := encodeValue(enc, e); err != nil {
				return err
			}
		}
		return nil
	default:
		o, _ := v.IntoObject()
		if err := enc.EncodeMapLen(o.Len()); err != nil {
			return err
		}
		var encErr error
		o.Range(func(key string, e jot.Value) bool {
			if encErr = enc.EncodeString(key); encErr != nil {
				return false
			}
			encErr = encodeValue(enc, e)
			return encErr == nil
		})
		return encErr
	}
}

// DecodeMsgpack reads one MessagePack value from r and builds the value
// tree. Map keys must be strings; floats must be finite.
func DecodeMsgpack(r io.Reader) (jot.Value, error) {
	dec := msgpack.NewDecoder(r)
	return decodeValue(dec)
}

func decodeValue(dec *msgpack.Decoder) (jot.Value, error) {
	code, err := dec.PeekCode()
	if err != nil {
		return 0, err
	}
	switch {
	case code == msgpcode.Nil:
		return jot.Null, dec.DecodeNil()
	case code == msgpcode.True || code == msgpcode.False:
		b, err := dec.DecodeBool()
		if err != nil {
			return 0, err
		}
		return jot.Bool(b), nil
	case msgpcode.IsFixedNum(code),
		code == msgpcode.Int8, code == msgpcode.Int16,
		code == msgpcode.Int32, code == msgpcode.Int64:
		i, err := dec.DecodeInt64()
		if err != nil {
			return 0, err
		}
		return jot.FromInt64(i), nil
	case code == msgpcode.Uint8, code == msgpcode.Uint16,
		code == msgpcode.Uint32, code == msgpcode.Uint64:
		u, err := dec.DecodeUint64()
		if err != nil {
			return 0, err
		}
		return jot.FromUint64(u), nil
	case code == msgpcode.Float, code == msgpcode.Double:
		f, err := dec.DecodeFloat64()
		if err != nil {
			return 0, err
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("codec: msgpack: %w", jot.ErrNonFinite)
		}
		return jot.FromFloat64(f)
	case msgpcode.IsString(code), msgpcode.IsBin(code):
		s, err := dec.DecodeString()
		if err != nil {
			return 0, err
		}
		return jot.FromString(s), nil
	case msgpcode.IsFixedArray(code), code == msgpcode.Array16, code == msgpcode.Array32:
		n, err := dec.DecodeArrayLen()
		if err != nil {
			return 0, err
		}
		arr := jot.ArrayWithCapacity(n)
		for i := 0; i < n; i++ {
			elem, err := decodeValue(dec)
			if err != nil {
				av := arr.Value()
				av.Drop()
				return 0, err
			}
			arr.Push(elem)
		}
		return arr.Value(), nil
	case msgpcode.IsFixedMap(code), code == msgpcode.Map16, code == msgpcode.Map32:
		n, err := dec.DecodeMapLen()
		if err != nil {
			return 0, err
		}
		out := jot.ObjectWithCapacity(n)
		for i := 0; i < n; i++ {
			key, err := dec.DecodeString()
			if err != nil {
				ov := out.Value()
				ov.Drop()
				return 0, fmt.Errorf("codec: msgpack: map key: %w", err)
			}
			elem, err := decodeValue(dec)
			if err != nil {
				ov := out.Value()
				ov.Drop()
				return 0, err
			}
			if prev, had := out.Insert(key, elem); had {
				prev.Drop()
			}
		}
		return out.Value(), nil
	default:
		return 0, fmt.Errorf("codec: msgpack: unsupported code 0x%02x", code)
	}
}
