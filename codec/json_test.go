package codec_test

import (
	"testing"

	"jot"
	"jot/codec"
)

func parse(t *testing.T, src string) jot.Value {
	t.Helper()
	v, err := codec.Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return v
}

func render(t *testing.T, v jot.Value) string {
	t.Helper()
	out, err := codec.MarshalJSON(v)
	if err != nil {
		t.Fatal(err)
	}
	return string(out)
}

func TestParseScalars(t *testing.T) {
	cases := []struct {
		src  string
		kind jot.Kind
	}{
		{`null`, jot.KindNull},
		{`true`, jot.KindBool},
		{`false`, jot.KindBool},
		{`12`, jot.KindNumber},
		{`-3.5`, jot.KindNumber},
		{`"hi"`, jot.KindString},
		{`[]`, jot.KindArray},
		{`{}`, jot.KindObject},
	}
	for _, tc := range cases {
		v := parse(t, tc.src)
		if v.Kind() != tc.kind {
			t.Fatalf("%s parsed as %v", tc.src, v.Kind())
		}
		v.Drop()
	}
}

func TestParseNumberShapes(t *testing.T) {
	i := parse(t, `7`)
	f := parse(t, `7.0`)
	defer i.Drop()
	defer f.Drop()

	ni, _ := i.AsNumber()
	nf, _ := f.AsNumber()
	if ni.HasDecimalPoint() {
		t.Fatal("7 must parse as an integer")
	}
	if !nf.HasDecimalPoint() {
		t.Fatal("7.0 must keep its decimal point")
	}
	if !jot.Equal(i, f) {
		t.Fatal("7 and 7.0 must be equal")
	}

	big := parse(t, `18446744073709551615`)
	defer big.Drop()
	if u, ok := big.ToUint64(); !ok || u != 18446744073709551615 {
		t.Fatalf("uint64 literal = %d, %v", u, ok)
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	for _, src := range []string{``, `{`, `[1,]`, `nul`, `"unterminated`} {
		if _, err := codec.Parse([]byte(src)); err == nil {
			t.Fatalf("parse %q must fail", src)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	cases := []string{
		`null`,
		`true`,
		`[1,2,3]`,
		`{"a":1,"b":[true,null],"c":{"d":"e"}}`,
		`"escape \" \\ \n \t ok"`,
		`[-128,383,384,1.5]`,
	}
	for _, src := range cases {
		v := parse(t, src)
		out := render(t, v)
		back, err := codec.Parse([]byte(out))
		if err != nil {
			t.Fatalf("reparse of %q (%q): %v", src, out, err)
		}
		if !jot.Equal(v, back) {
			t.Fatalf("round trip of %q changed the value (got %q)", src, out)
		}
		v.Drop()
		back.Drop()
	}
}

func TestEmitFloatFidelity(t *testing.T) {
	v := parse(t, `{"f":2.0,"i":2}`)
	defer v.Drop()
	out := render(t, v)
	if out != `{"f":2.0,"i":2}` {
		t.Fatalf("emitted %q", out)
	}
}

func TestEmitPreservesInsertionOrder(t *testing.T) {
	v := parse(t, `{"z":1,"a":2,"m":3}`)
	defer v.Drop()
	if got := render(t, v); got != `{"z":1,"a":2,"m":3}` {
		t.Fatalf("emitted %q", got)
	}
}

func TestEmitControlCharacters(t *testing.T) {
	s := jot.FromString("a\x01b")
	defer s.Drop()
	if got := render(t, s); got != `"a\u0001b"` {
		t.Fatalf("emitted %q", got)
	}
}

func TestAppendIndent(t *testing.T) {
	v := parse(t, `{"a":[1,2]}`)
	defer v.Drop()
	out, err := codec.AppendIndent(nil, v, "  ")
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"a\": [\n    1,\n    2\n  ]\n}"
	if string(out) != want {
		t.Fatalf("indent rendering:\n%s\nwant:\n%s", out, want)
	}
}

func TestParsedKeysShareInternedStrings(t *testing.T) {
	a := parse(t, `{"shared_key":1}`)
	b := parse(t, `{"shared_key":2}`)
	defer a.Drop()
	defer b.Drop()

	oa, _ := a.IntoObject()
	ob, _ := b.IntoObject()
	ka, _, _ := oa.At(0)
	kb, _, _ := ob.At(0)
	if ka != kb {
		t.Fatal("parsed keys must share one interned record")
	}
}
