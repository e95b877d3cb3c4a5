// Package codec converts jot value trees to and from external formats.
//
// JSON parsing is delegated to fastjson, which keeps number literals as
// raw text; that lets the builder prefer integer shapes for undotted
// numerals and reject non-finite values before they reach the store.
// Emission walks the handles directly so no intermediate tree is built.
package codec

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/valyala/fastjson"

	"jot"
)

// Parse builds a value tree from JSON text. The returned handle owns the
// whole tree; Drop releases it.
func Parse(data []byte) (jot.Value, error) {
	var p fastjson.Parser
	v, err := p.ParseBytes(data)
	if err != nil {
		return 0, fmt.Errorf("codec: parse: %w", err)
	}
	return build(v)
}

// ParseString is Parse for string input.
func ParseString(data string) (jot.Value, error) {
	var p fastjson.Parser
	v, err := p.Parse(data)
	if err != nil {
		return 0, fmt.Errorf("codec: parse: %w", err)
	}
	return build(v)
}

func build(v *fastjson.Value) (jot.Value, error) {
	switch v.Type() {
	case fastjson.TypeNull:
		return jot.Null, nil
	case fastjson.TypeTrue:
		return jot.True, nil
	case fastjson.TypeFalse:
		return jot.False, nil
	case fastjson.TypeString:
		b, err := v.StringBytes()
		if err != nil {
			return 0, err
		}
		return jot.FromBytes(b), nil
	case fastjson.TypeNumber:
		return buildNumber(v)
	case fastjson.TypeArray:
		items, err := v.Array()
		if err != nil {
			return 0, err
		}
		arr := jot.ArrayWithCapacity(len(items))
		for _, item := range items {
			elem, err := build(item)
			if err != nil {
				av := arr.Value()
				av.Drop()
				return 0, err
			}
			arr.Push(elem)
		}
		return arr.Value(), nil
	case fastjson.TypeObject:
		obj, err := v.Object()
		if err != nil {
			return 0, err
		}
		out := jot.ObjectWithCapacity(obj.Len())
		var buildErr error
		obj.Visit(func(key []byte, item *fastjson.Value) {
			if buildErr != nil {
				return
			}
			elem, err := build(item)
			if err != nil {
				buildErr = err
				return
			}
			if prev, had := out.Insert(string(key), elem); had {
				prev.Drop()
			}
		})
		if buildErr != nil {
			ov := out.Value()
			ov.Drop()
			return 0, buildErr
		}
		return out.Value(), nil
	default:
		return 0, fmt.Errorf("codec: unexpected value type %v", v.Type())
	}
}

// buildNumber follows the integer-first order: i64, then u64, then f64.
// fastjson keeps the raw literal, so "1.0" falls through to the float
// path and keeps its decimal point.
func buildNumber(v *fastjson.Value) (jot.Value, error) {
	if i, err := v.Int64(); err == nil {
		return jot.FromInt64(i), nil
	}
	if u, err := v.Uint64(); err == nil {
		return jot.FromUint64(u), nil
	}
	f, err := v.Float64()
	if err != nil {
		return 0, fmt.Errorf("codec: number: %w", err)
	}
	return jot.FromFloat64(f)
}

// MarshalJSON renders v as compact JSON.
func MarshalJSON(v jot.Value) ([]byte, error) {
	return AppendJSON(nil, v)
}

// AppendJSON appends the compact JSON rendering of v to dst.
func AppendJSON(dst []byte, v jot.Value) ([]byte, error) {
	return appendValue(dst, v, "", "")
}

// AppendIndent appends an indented rendering, one element per line.
func AppendIndent(dst []byte, v jot.Value, indent string) ([]byte, error) {
	return appendValue(dst, v, "", indent)
}

func appendValue(dst []byte, v jot.Value, prefix, indent string) ([]byte, error) {
	switch v.Kind() {
	case jot.KindNull:
		return append(dst, "null"...), nil
	case jot.KindBool:
		if v.IsTrue() {
			return append(dst, "true"...), nil
		}
		return append(dst, "false"...), nil
	case jot.KindNumber:
		n, _ := v.AsNumber()
		return appendNumber(dst, n), nil
	case jot.KindString:
		s, _ := v.AsString()
		return appendString(dst, s.Str()), nil
	case jot.KindArray:
		return appendArray(dst, v, prefix, indent)
	default:
		return appendObject(dst, v, prefix, indent)
	}
}

func appendNumber(dst []byte, n jot.Number) []byte {
	if !n.HasDecimalPoint() {
		if i, ok := n.ToInt64(); ok {
			return strconv.AppendInt(dst, i, 10)
		}
		u, _ := n.ToUint64()
		return strconv.AppendUint(dst, u, 10)
	}
	f := n.ToFloat64()
	out := strconv.AppendFloat(dst, f, 'g', -1, 64)
	// Keep float fidelity: integral floats gain an explicit ".0".
	if !containsFloatMark(out[len(dst):]) {
		out = append(out, '.', '0')
	}
	return out
}

func containsFloatMark(b []byte) bool {
	for _, c := range b {
		if c == '.' || c == 'e' || c == 'E' {
			return true
		}
	}
	return false
}

const hexDigits = "0123456789abcdef"

func appendString(dst []byte, s string) []byte {
	dst = append(dst, '"')
	for i := 0; i < len(s); {
		c := s[i]
		if c >= 0x20 && c != '"' && c != '\\' && c < utf8.RuneSelf {
			dst = append(dst, c)
			i++
			continue
		}
		if c >= utf8.RuneSelf {
			r, size := utf8.DecodeRuneInString(s[i:])
			if r == utf8.RuneError && size == 1 {
				dst = append(dst, `�`...)
				i++
				continue
			}
			dst = append(dst, s[i:i+size]...)
			i += size
			continue
		}
		switch c {
		case '"':
			dst = append(dst, '\\', '"')
		case '\\':
			dst = append(dst, '\\', '\\')
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '\t':
			dst = append(dst, '\\', 't')
		default:
			dst = append(dst, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
		}
		i++
	}
	return append(dst, '"')
}

func appendArray(dst []byte, v jot.Value, prefix, indent string) ([]byte, error) {
	a, _ := v.IntoArray()
	if a.Len() == 0 {
		return append(dst, "[]"...), nil
	}
	inner := prefix + indent
	dst = append(dst, '[')
	var err error
	for i, e := range a.Values() {
		if i > 0 {
			dst = append(dst, ',')
		}
		if indent != "" {
			dst = append(dst, '\n')
			dst = append(dst, inner...)
		}
		dst, err = appendValue(dst, e, inner, indent)
		if err != nil {
			return nil, err
		}
	}
	if indent != "" {
		dst = append(dst, '\n')
		dst = append(dst, prefix...)
	}
	return append(dst, ']'), nil
}

func appendObject(dst []byte, v jot.Value, prefix, indent string) ([]byte, error) {
	o, _ := v.IntoObject()
	if o.Len() == 0 {
		return append(dst, "{}"...), nil
	}
	inner := prefix + indent
	dst = append(dst, '{')
	first := true
	var err error
	o.Range(func(key string, e jot.Value) bool {
		if !first {
			dst = append(dst, ',')
		}
		first = false
		if indent != "" {
			dst = append(dst, '\n')
			dst = append(dst, inner...)
		}
		dst = appendString(dst, key)
		dst = append(dst, ':')
		if indent != "" {
			dst = append(dst, ' ')
		}
		dst, err = appendValue(dst, e, inner, indent)
		return err == nil
	})
	if err != nil {
		return nil, err
	}
	if indent != "" {
		dst = append(dst, '\n')
		dst = append(dst, prefix...)
	}
	return append(dst, '}'), nil
}
