// Package logic implements four-state bit vectors used for constant values.
//
// A Vector stores its bits least significant first. Each bit is one of 0, 1,
// x (unknown) or z (high impedance). Arithmetic on a vector with any x/z bit
// yields an all-x result; bitwise operators follow the usual four-state truth
// tables.
package logic

import (
	"math/big"
	"strconv"
	"strings"
)

// Bit is a single four-state value.
type Bit uint8

const (
	B0 Bit = iota
	B1
	BX
	BZ
)

// Char returns the textual form of b.
func (b Bit) Char() byte {
	switch b {
	case B0:
		return '0'
	case B1:
		return '1'
	case BX:
		return 'x'
	default:
		return 'z'
	}
}

func (b Bit) known() bool { return b == B0 || b == B1 }

// DefaultIntWidth is the width of unsized integer literals.
const DefaultIntWidth = 32

// Vector is a fixed-width four-state value.
type Vector struct {
	Signed bool
	bits   []Bit // bits[0] - младший
}

// Width returns the number of bits.
func (v Vector) Width() int { return len(v.bits) }

// Bit returns bit i (0 = least significant) or x when out of range.
func (v Vector) Bit(i int) Bit {
	if i < 0 || i >= len(v.bits) {
		return BX
	}
	return v.bits[i]
}

// Fill returns a vector of width bits all set to b.
func Fill(width int, b Bit, signed bool) Vector {
	if width < 1 {
		width = 1
	}
	bits := make([]Bit, width)
	for i := range bits {
		bits[i] = b
	}
	return Vector{Signed: signed, bits: bits}
}

// FromInt64 builds a two-state vector holding n truncated to width bits.
func FromInt64(n int64, width int, signed bool) Vector {
	return FromBig(big.NewInt(n), width, signed)
}

// FromBool is 1'b1 or 1'b0.
func FromBool(b bool) Vector {
	if b {
		return Fill(1, B1, false)
	}
	return Fill(1, B0, false)
}

// FromBig builds a two-state vector holding n modulo 2^width.
func FromBig(n *big.Int, width int, signed bool) Vector {
	if width < 1 {
		width = 1
	}
	m := new(big.Int).Set(n)
	if m.Sign() < 0 {
		mod := new(big.Int).Lsh(big.NewInt(1), uint(width))
		m.Mod(m, mod)
	}
	bits := make([]Bit, width)
	for i := 0; i < width; i++ {
		if m.Bit(i) == 1 {
			bits[i] = B1
		}
	}
	return Vector{Signed: signed, bits: bits}
}

// FromBits parses an MSB-first string of 0/1/x/z characters.
func FromBits(s string, signed bool) Vector {
	bits := make([]Bit, len(s))
	for i := 0; i < len(s); i++ {
		b := BX
		switch s[len(s)-1-i] {
		case '0':
			b = B0
		case '1':
			b = B1
		case 'z', 'Z', '?':
			b = BZ
		}
		bits[i] = b
	}
	if len(bits) == 0 {
		bits = []Bit{B0}
	}
	return Vector{Signed: signed, bits: bits}
}

// HasUnknown reports whether any bit is x or z.
func (v Vector) HasUnknown() bool {
	for _, b := range v.bits {
		if !b.known() {
			return true
		}
	}
	return false
}

// Bits returns the MSB-first textual form, one character per bit.
func (v Vector) Bits() string {
	var sb strings.Builder
	sb.Grow(len(v.bits))
	for i := len(v.bits) - 1; i >= 0; i-- {
		sb.WriteByte(v.bits[i].Char())
	}
	return sb.String()
}

// String renders v as a sized binary literal, e.g. 4'b10xz or 8'sb11111111.
func (v Vector) String() string {
	s := ""
	if v.Signed {
		s = "s"
	}
	return strconv.Itoa(v.Width()) + "'" + s + "b" + v.Bits()
}

// Big returns the value as an integer, honoring signedness.
// ok is false when the vector has unknown bits.
func (v Vector) Big() (n *big.Int, ok bool) {
	if v.HasUnknown() {
		return nil, false
	}
	n = new(big.Int)
	for i := len(v.bits) - 1; i >= 0; i-- {
		n.Lsh(n, 1)
		if v.bits[i] == B1 {
			n.SetBit(n, 0, 1)
		}
	}
	if v.Signed && len(v.bits) > 0 && v.bits[len(v.bits)-1] == B1 {
		n.Sub(n, new(big.Int).Lsh(big.NewInt(1), uint(len(v.bits))))
	}
	return n, true
}

// Int64 returns the value when it is fully known and fits in int64.
func (v Vector) Int64() (int64, bool) {
	n, ok := v.Big()
	if !ok || !n.IsInt64() {
		return 0, false
	}
	return n.Int64(), true
}

// Resize truncates or extends v to width. Signed vectors sign-extend;
// unsigned ones zero-extend.
func (v Vector) Resize(width int) Vector {
	if width < 1 {
		width = 1
	}
	if width == len(v.bits) {
		return v
	}
	bits := make([]Bit, width)
	n := copy(bits, v.bits)
	fill := B0
	if v.Signed && len(v.bits) > 0 {
		fill = v.bits[len(v.bits)-1]
	}
	for i := n; i < width; i++ {
		bits[i] = fill
	}
	return Vector{Signed: v.Signed, bits: bits}
}

// AsSigned returns v reinterpreted with the given signedness.
func (v Vector) AsSigned(signed bool) Vector {
	v.Signed = signed
	return v
}

// Equal reports exact (case) equality including width and signedness.
func (v Vector) Equal(o Vector) bool {
	if v.Signed != o.Signed || len(v.bits) != len(o.bits) {
		return false
	}
	for i := range v.bits {
		if v.bits[i] != o.bits[i] {
			return false
		}
	}
	return true
}

// Truthy evaluates v as a condition: known reports whether the answer is defined.
func (v Vector) Truthy() (value, known bool) {
	unknown := false
	for _, b := range v.bits {
		switch b {
		case B1:
			return true, true
		case BX, BZ:
			unknown = true
		}
	}
	return false, !unknown
}
