package logic

import (
	"errors"
	"testing"
)

func TestParseLiterals(t *testing.T) {
	tests := []struct {
		text   string
		width  int
		signed bool
		bits   string
	}{
		{"4'b10xz", 4, false, "10xz"},
		{"8'hFF", 8, false, "11111111"},
		{"8'sb1010_0101", 8, true, "10100101"},
		{"3'o7", 3, false, "111"},
		{"6'd5", 6, false, "000101"},
		{"4'bx", 4, false, "xxxx"},
		{"4'bz1", 4, false, "zzz1"},
		{"2'hF", 2, false, "11"},
		{"'h3", 32, false, "00000000000000000000000000000011"},
		{"5", 32, true, "00000000000000000000000000000101"},
		{"4'd?", 4, false, "zzzz"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			v, err := Parse(tt.text)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.text, err)
			}
			if v.Width() != tt.width || v.Signed != tt.signed || v.Bits() != tt.bits {
				t.Errorf("Parse(%q) = %d/%v/%s, want %d/%v/%s", tt.text,
					v.Width(), v.Signed, v.Bits(), tt.width, tt.signed, tt.bits)
			}
		})
	}
}

func TestParseRejects(t *testing.T) {
	for _, text := range []string{"4'b102", "0'b1", "8'q12", "'", "4'h", "abc"} {
		if _, err := Parse(text); !errors.Is(err, ErrBadLiteral) {
			t.Errorf("Parse(%q): expected ErrBadLiteral, got %v", text, err)
		}
	}
}

func TestInt64AndSignedness(t *testing.T) {
	v := FromInt64(-3, 8, true)
	if v.Bits() != "11111101" {
		t.Fatalf("bits = %s", v.Bits())
	}
	if n, ok := v.Int64(); !ok || n != -3 {
		t.Errorf("Int64 = %d, %v", n, ok)
	}
	if n, ok := v.AsSigned(false).Int64(); !ok || n != 253 {
		t.Errorf("unsigned Int64 = %d, %v", n, ok)
	}
	if _, ok := FromBits("1x", false).Int64(); ok {
		t.Error("unknown bits must not convert")
	}
	if got := v.Resize(12).Bits(); got != "111111111101" {
		t.Errorf("sign extension = %s", got)
	}
	if got := v.AsSigned(false).Resize(12).Bits(); got != "000011111101" {
		t.Errorf("zero extension = %s", got)
	}
}

func TestArithmetic(t *testing.T) {
	a := FromInt64(6, 8, false)
	b := FromInt64(4, 8, false)

	check := func(name string, got Vector, want int64) {
		t.Helper()
		n, ok := got.Int64()
		if !ok || n != want {
			t.Errorf("%s = %s, want %d", name, got, want)
		}
	}
	check("add", Add(a, b), 10)
	check("sub", Sub(a, b), 2)
	check("mul", Mul(a, b), 24)
	check("wrap", Add(FromInt64(255, 8, false), FromInt64(1, 8, false)), 0)
	check("pow", Pow(FromInt64(2, 32, true), FromInt64(10, 32, true)), 1024)
	check("shl", Shl(a, FromInt64(1, 32, false)), 12)
	check("shr", Shr(a, FromInt64(1, 32, false), false), 3)
	check("ashr", Shr(FromInt64(-8, 8, true), FromInt64(1, 32, false), true), -4)
	check("neg", Neg(FromInt64(5, 8, true)), -5)

	q, err := Div(a, b)
	if err != nil {
		t.Fatal(err)
	}
	check("div", q, 1)
	r, err := Mod(a, b)
	if err != nil {
		t.Fatal(err)
	}
	check("mod", r, 2)

	if _, err := Div(a, FromInt64(0, 8, false)); !errors.Is(err, ErrDivideByZero) {
		t.Errorf("expected ErrDivideByZero, got %v", err)
	}
}

func TestFourStatePropagation(t *testing.T) {
	x := FromBits("1x01", false)
	one := FromBits("0001", false)

	if got := Add(x, one).Bits(); got != "xxxx" {
		t.Errorf("add with x = %s", got)
	}
	if got := And(x, FromBits("0000", false)).Bits(); got != "0000" {
		t.Errorf("and with zero = %s", got)
	}
	if got := Or(x, FromBits("1111", false)).Bits(); got != "1111" {
		t.Errorf("or with ones = %s", got)
	}
	if got := Not(x).Bits(); got != "0x10" {
		t.Errorf("not = %s", got)
	}
	if got := Eq(x, one).Bits(); got != "x" {
		t.Errorf("eq with x = %s", got)
	}
	if got := CaseEq(x, FromBits("1x01", false)).Bits(); got != "1" {
		t.Errorf("case eq = %s", got)
	}
	if got := Reduce(FromBits("111", false), '&').Bits(); got != "1" {
		t.Errorf("reduce and = %s", got)
	}
	if got := Reduce(FromBits("101", false), '^').Bits(); got != "0" {
		t.Errorf("reduce xor = %s", got)
	}
}

func TestConcatReplicateSlice(t *testing.T) {
	v := Concat(FromBits("10", false), FromBits("x1", false))
	if v.Bits() != "10x1" {
		t.Fatalf("concat = %s", v.Bits())
	}
	if got := Replicate(FromBits("10", false), 3).Bits(); got != "101010" {
		t.Errorf("replicate = %s", got)
	}
	if got := v.Slice(1, 2).Bits(); got != "0x" {
		t.Errorf("slice = %s", got)
	}
	if got := v.Slice(3, 2).Bits(); got != "x1" {
		t.Errorf("out-of-range slice = %s", got)
	}
	if got := v.String(); got != "4'b10x1" {
		t.Errorf("String = %s", got)
	}
}

func TestUnbased(t *testing.T) {
	for text, want := range map[string]Bit{"'0": B0, "'1": B1, "'x": BX, "'Z": BZ} {
		b, err := ParseUnbased(text)
		if err != nil || b != want {
			t.Errorf("ParseUnbased(%q) = %v, %v", text, b, err)
		}
	}
	if _, err := ParseUnbased("'2"); err == nil {
		t.Error("expected error")
	}
}
