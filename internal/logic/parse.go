package logic

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

var (
	// ErrBadLiteral is wrapped by every literal parse failure.
	ErrBadLiteral = errors.New("malformed integer literal")
)

// MaxWidth bounds literal sizes.
const MaxWidth = 1 << 16

// Parse reads a Verilog integer literal: 12, 'hFF, 8'sb1010_x1z0, 4'd?.
// Unsized literals are at least DefaultIntWidth bits wide; plain decimal
// literals are signed.
func Parse(text string) (Vector, error) {
	lit := strings.ReplaceAll(text, "_", "")
	tick := strings.IndexByte(lit, '\'')
	if tick < 0 {
		n, ok := new(big.Int).SetString(lit, 10)
		if !ok {
			return Vector{}, fmt.Errorf("%w: %q", ErrBadLiteral, text)
		}
		return FromBig(n, max(DefaultIntWidth, n.BitLen()+1), true), nil
	}

	width := 0
	sized := false
	if tick > 0 {
		w, err := strconv.Atoi(strings.TrimSpace(lit[:tick]))
		if err != nil || w <= 0 || w > MaxWidth {
			return Vector{}, fmt.Errorf("%w: bad size in %q", ErrBadLiteral, text)
		}
		width, sized = w, true
	}
	rest := strings.TrimSpace(lit[tick+1:])
	signed := false
	if rest != "" && (rest[0] == 's' || rest[0] == 'S') {
		signed = true
		rest = rest[1:]
	}
	if rest == "" {
		return Vector{}, fmt.Errorf("%w: missing base in %q", ErrBadLiteral, text)
	}
	base := rest[0] | 0x20
	digits := strings.TrimSpace(rest[1:])
	if digits == "" {
		return Vector{}, fmt.Errorf("%w: missing digits in %q", ErrBadLiteral, text)
	}

	var bits []Bit // LSB first
	switch base {
	case 'b':
		bits = expandDigits(digits, 1)
	case 'o':
		bits = expandDigits(digits, 3)
	case 'h':
		bits = expandDigits(digits, 4)
	case 'd':
		var err error
		bits, err = decimalBits(digits)
		if err != nil {
			return Vector{}, fmt.Errorf("%w: %q: %v", ErrBadLiteral, text, err)
		}
	default:
		return Vector{}, fmt.Errorf("%w: unknown base %q in %q", ErrBadLiteral, rest[0], text)
	}
	if bits == nil {
		return Vector{}, fmt.Errorf("%w: bad digit in %q", ErrBadLiteral, text)
	}

	if !sized {
		width = max(DefaultIntWidth, len(bits))
	}
	return extendLiteral(bits, width, signed), nil
}

// expandDigits converts base-2^k digits, MSB first, into LSB-first bits.
func expandDigits(digits string, k int) []Bit {
	bits := make([]Bit, 0, len(digits)*k)
	for i := len(digits) - 1; i >= 0; i-- {
		c := digits[i]
		switch c {
		case 'x', 'X':
			bits = appendN(bits, BX, k)
			continue
		case 'z', 'Z', '?':
			bits = appendN(bits, BZ, k)
			continue
		}
		d, ok := digitValue(c)
		if !ok || d >= 1<<k {
			return nil
		}
		for j := 0; j < k; j++ {
			bits = append(bits, Bit((d>>j)&1))
		}
	}
	return bits
}

func decimalBits(digits string) ([]Bit, error) {
	switch digits {
	case "x", "X":
		return []Bit{BX}, nil
	case "z", "Z", "?":
		return []Bit{BZ}, nil
	}
	n, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, errors.New("bad decimal digits")
	}
	width := max(n.BitLen(), 1)
	v := FromBig(n, width, false)
	return v.bits, nil
}

// extendLiteral pads or truncates to width. A leading x or z digit extends
// with that value, otherwise zeros are used.
func extendLiteral(bits []Bit, width int, signed bool) Vector {
	out := make([]Bit, width)
	n := copy(out, bits)
	fill := B0
	if len(bits) > 0 {
		if top := bits[len(bits)-1]; top == BX || top == BZ {
			fill = top
		}
	}
	for i := n; i < width; i++ {
		out[i] = fill
	}
	return Vector{Signed: signed, bits: out}
}

func appendN(bits []Bit, b Bit, n int) []Bit {
	for i := 0; i < n; i++ {
		bits = append(bits, b)
	}
	return bits
}

func digitValue(c byte) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10, true
	}
	return 0, false
}

// ParseUnbased reads '0, '1, 'x or 'z. The result is one bit wide; the
// caller widens it to the context.
func ParseUnbased(text string) (Bit, error) {
	if len(text) != 2 || text[0] != '\'' {
		return BX, fmt.Errorf("%w: %q", ErrBadLiteral, text)
	}
	switch text[1] {
	case '0':
		return B0, nil
	case '1':
		return B1, nil
	case 'x', 'X':
		return BX, nil
	case 'z', 'Z':
		return BZ, nil
	}
	return BX, fmt.Errorf("%w: %q", ErrBadLiteral, text)
}
