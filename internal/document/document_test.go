package document

import (
	"bytes"
	"math"
	"runtime/debug"
	"strings"
	"testing"
)

func sample() Value {
	return Object(
		Member{"kind", String("Root")},
		Member{"id", String("$0")},
		Member{"attributes", Object(
			Member{"zeta", Int(-3)},
			Member{"alpha", Bool(true)},
			Member{"ratio", Float(0.5)},
			Member{"whole", Float(2)},
			Member{"big", Uint(math.MaxUint64)},
		)},
		Member{"children", Array(
			Object(Member{"ref", String("$1")}),
			Null(),
			Array(),
			Object(),
		)},
	)
}

func TestCompactOutput(t *testing.T) {
	got := string(MarshalJSON(sample(), false))
	want := `{"kind":"Root","id":"$0","attributes":{"zeta":-3,"alpha":true,"ratio":0.5,"whole":2.0,"big":18446744073709551615},"children":[{"ref":"$1"},null,[],{}]}`
	if got != want {
		t.Fatalf("compact output\n got: %s\nwant: %s", got, want)
	}
}

func TestPrettyOutput(t *testing.T) {
	v := Object(
		Member{"kind", String("Net")},
		Member{"children", Array(Int(1), Array())},
		Member{"attributes", Object()},
	)
	got := string(MarshalJSON(v, true))
	want := "{\n" +
		"  \"kind\": \"Net\",\n" +
		"  \"children\": [\n" +
		"    1,\n" +
		"    []\n" +
		"  ],\n" +
		"  \"attributes\": {}\n" +
		"}\n"
	if got != want {
		t.Fatalf("pretty output\n got: %q\nwant: %q", got, want)
	}
}

func TestCustomIndent(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, Array(Int(1)), WriteOptions{Pretty: true, Indent: "\t"}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "[\n\t1\n]\n" {
		t.Fatalf("got %q", buf.String())
	}
}

func TestStringEscaping(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", `"plain"`},
		{`a"b\c`, `"a\"b\\c"`},
		{"tab\there\nnl\r\b\f", `"tab\there\nnl\r\b\f"`},
		{"\x00\x1f", `"\u0000\u001f"`},
		{"café 日本", "\"café 日本\""},
		{"line\u2028para\u2029", `"line\u2028para\u2029"`},
		{"bad\xffbyte", `"bad\ufffdbyte"`},
		{"</script>", `"</script>"`},
	}
	for _, tt := range tests {
		if got := Quote(tt.in); got != tt.want {
			t.Errorf("Quote(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestNonFiniteFloats(t *testing.T) {
	v := Array(Float(math.NaN()), Float(math.Inf(1)), Float(math.Inf(-1)), Float(1e21))
	got := string(MarshalJSON(v, false))
	if got != `[null,null,null,1e+21]` {
		t.Fatalf("got %s", got)
	}
}

func TestPrettyCompactEquivalence(t *testing.T) {
	v := sample()
	pretty, err := ParseJSON(MarshalJSON(v, true))
	if err != nil {
		t.Fatalf("parse pretty: %v", err)
	}
	compact, err := ParseJSON(MarshalJSON(v, false))
	if err != nil {
		t.Fatalf("parse compact: %v", err)
	}
	if !Equal(pretty, compact) {
		t.Fatal("pretty and compact parse to different documents")
	}
	if !Equal(pretty, v) {
		t.Fatal("parsed document differs from the source value")
	}
}

func TestParsePreservesKeyOrder(t *testing.T) {
	v, err := ParseJSON([]byte(`{"z":1,"a":{"y":[1,2.5,"s"],"b":null}}`))
	if err != nil {
		t.Fatal(err)
	}
	var keys []string
	for k := range v.Keys() {
		keys = append(keys, k)
	}
	if len(keys) != 2 || keys[0] != "z" || keys[1] != "a" {
		t.Fatalf("keys = %v", keys)
	}
	inner, _ := v.Get("a")
	y, _ := inner.Get("y")
	if y.Len() != 3 || y.Items()[1].Kind() != KindFloat || y.Items()[0].Kind() != KindInt {
		t.Fatalf("y = %+v", y)
	}
}

func TestParseRejectsTrailingData(t *testing.T) {
	if _, err := ParseJSON([]byte(`{} {}`)); err == nil {
		t.Fatal("expected error")
	}
	if _, err := ParseJSON([]byte(`{"a":`)); err == nil {
		t.Fatal("expected error for truncated input")
	}
}

func TestEqualIsOrderSensitive(t *testing.T) {
	a := Object(Member{"a", Int(1)}, Member{"b", Int(2)})
	b := Object(Member{"b", Int(2)}, Member{"a", Int(1)})
	if Equal(a, b) {
		t.Fatal("member order must matter")
	}
	if Equal(Int(1), Float(1)) {
		t.Fatal("kinds must matter")
	}
}

func TestMsgpackRoundTripKeepsOrder(t *testing.T) {
	v := Object(
		Member{"kind", String("Root")},
		Member{"children", Array(Int(-1), Int(300), Bool(false), Null(), Float(1.25))},
		Member{"attributes", Object(Member{"b", String("x")}, Member{"a", Int(7)})},
	)
	var buf bytes.Buffer
	if err := WriteMsgpack(&buf, v); err != nil {
		t.Fatal(err)
	}
	got, err := ReadMsgpack(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !Equal(got, v) {
		t.Fatalf("msgpack round trip changed the document:\n%s\n%s", MarshalJSON(got, false), MarshalJSON(v, false))
	}
}

func TestCompactIsDeterministic(t *testing.T) {
	first := MarshalJSON(sample(), false)
	for range 5 {
		if !bytes.Equal(first, MarshalJSON(sample(), false)) {
			t.Fatal("compact output differs between runs")
		}
	}
}

func nested(depth int) Value {
	v := String("leaf")
	for i := range depth {
		if i%2 == 0 {
			v = Array(v)
		} else {
			v = Object(Member{"k", v})
		}
	}
	return v
}

// A deep chain must not grow the goroutine stack: the limit below is far
// smaller than one frame per level would need.
func TestDeepNestingUsesNoRecursion(t *testing.T) {
	const depth = 200_000
	defer debug.SetMaxStack(debug.SetMaxStack(4 << 20))

	v := nested(depth)
	compact := MarshalJSON(v, false)
	if want := depth + len(`"leaf"`) + depth/2*len(`"k":`) + depth; len(compact) != want {
		t.Fatalf("compact length = %d, want %d", len(compact), want)
	}
	if !strings.HasPrefix(string(compact), `{"k":[{"k":[`) {
		t.Errorf("compact prefix = %.16s", compact)
	}

	var buf bytes.Buffer
	if err := WriteMsgpack(&buf, v); err != nil {
		t.Fatal(err)
	}
	got, err := ReadMsgpack(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !Equal(got, v) || !Equal(v, nested(depth)) {
		t.Fatal("deep msgpack round trip changed the document")
	}
	if Equal(v, nested(depth-1)) {
		t.Fatal("documents of different depth compare equal")
	}
}

func TestParseNestedJSON(t *testing.T) {
	// encoding/json caps nesting at 10000 levels
	for _, tt := range []struct {
		depth  int
		pretty bool
	}{{5000, false}, {300, true}} {
		v := nested(tt.depth)
		got, err := ParseJSON(MarshalJSON(v, tt.pretty))
		if err != nil {
			t.Fatalf("depth %d: %v", tt.depth, err)
		}
		if !Equal(got, v) {
			t.Fatalf("depth %d: parsed document differs", tt.depth)
		}
	}
}
