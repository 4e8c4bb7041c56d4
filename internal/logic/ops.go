package logic

import (
	"errors"
	"math/big"
)

// ErrDivideByZero is returned by Div and Mod with a zero divisor.
var ErrDivideByZero = errors.New("division by zero")

// balance brings both operands to a common width and signedness.
func balance(a, b Vector) (Vector, Vector, int, bool) {
	signed := a.Signed && b.Signed
	width := max(a.Width(), b.Width())
	a = a.AsSigned(signed && a.Signed).Resize(width)
	b = b.AsSigned(signed && b.Signed).Resize(width)
	return a, b, width, signed
}

func arith(a, b Vector, f func(x, y *big.Int) *big.Int) Vector {
	a, b, width, signed := balance(a, b)
	x, okA := a.Big()
	y, okB := b.Big()
	if !okA || !okB {
		return Fill(width, BX, signed)
	}
	return FromBig(f(x, y), width, signed)
}

func Add(a, b Vector) Vector {
	return arith(a, b, func(x, y *big.Int) *big.Int { return new(big.Int).Add(x, y) })
}

func Sub(a, b Vector) Vector {
	return arith(a, b, func(x, y *big.Int) *big.Int { return new(big.Int).Sub(x, y) })
}

func Mul(a, b Vector) Vector {
	return arith(a, b, func(x, y *big.Int) *big.Int { return new(big.Int).Mul(x, y) })
}

// Div truncates toward zero. A zero divisor yields x bits and ErrDivideByZero.
func Div(a, b Vector) (Vector, error) {
	var err error
	v := arith(a, b, func(x, y *big.Int) *big.Int {
		if y.Sign() == 0 {
			err = ErrDivideByZero
			return new(big.Int)
		}
		return new(big.Int).Quo(x, y)
	})
	if err != nil {
		return Fill(v.Width(), BX, v.Signed), err
	}
	return v, nil
}

// Mod takes the sign of the dividend.
func Mod(a, b Vector) (Vector, error) {
	var err error
	v := arith(a, b, func(x, y *big.Int) *big.Int {
		if y.Sign() == 0 {
			err = ErrDivideByZero
			return new(big.Int)
		}
		return new(big.Int).Rem(x, y)
	})
	if err != nil {
		return Fill(v.Width(), BX, v.Signed), err
	}
	return v, nil
}

// Pow keeps the width of the base. Negative exponents give 0, except for
// bases 1 and -1.
func Pow(a, b Vector) Vector {
	width, signed := a.Width(), a.Signed
	x, okA := a.Big()
	y, okB := b.Big()
	if !okA || !okB {
		return Fill(width, BX, signed)
	}
	if y.Sign() < 0 {
		switch {
		case x.CmpAbs(big.NewInt(1)) == 0:
			if x.Sign() < 0 && y.Bit(0) == 1 {
				return FromInt64(-1, width, signed)
			}
			return FromInt64(1, width, signed)
		default:
			return FromInt64(0, width, signed)
		}
	}
	mod := new(big.Int).Lsh(big.NewInt(1), uint(width))
	return FromBig(new(big.Int).Exp(x, y, mod), width, signed)
}

func Neg(a Vector) Vector {
	return Sub(FromInt64(0, a.Width(), a.Signed), a)
}

func bitwise(a, b Vector, f func(x, y Bit) Bit) Vector {
	a, b, width, signed := balance(a, b)
	bits := make([]Bit, width)
	for i := range bits {
		bits[i] = f(a.bits[i], b.bits[i])
	}
	return Vector{Signed: signed, bits: bits}
}

func andBit(x, y Bit) Bit {
	if x == B0 || y == B0 {
		return B0
	}
	if x == B1 && y == B1 {
		return B1
	}
	return BX
}

func orBit(x, y Bit) Bit {
	if x == B1 || y == B1 {
		return B1
	}
	if x == B0 && y == B0 {
		return B0
	}
	return BX
}

func xorBit(x, y Bit) Bit {
	if !x.known() || !y.known() {
		return BX
	}
	return x ^ y
}

func notBit(x Bit) Bit {
	switch x {
	case B0:
		return B1
	case B1:
		return B0
	}
	return BX
}

func And(a, b Vector) Vector { return bitwise(a, b, andBit) }
func Or(a, b Vector) Vector  { return bitwise(a, b, orBit) }
func Xor(a, b Vector) Vector { return bitwise(a, b, xorBit) }
func Xnor(a, b Vector) Vector {
	return bitwise(a, b, func(x, y Bit) Bit { return notBit(xorBit(x, y)) })
}

func Not(a Vector) Vector {
	bits := make([]Bit, a.Width())
	for i, b := range a.bits {
		bits[i] = notBit(b)
	}
	return Vector{Signed: a.Signed, bits: bits}
}

// Reduce folds all bits with op, one of '&', '|', '^'.
func Reduce(a Vector, op byte) Vector {
	if a.Width() == 0 {
		return Fill(1, BX, false)
	}
	acc := a.bits[0]
	for _, b := range a.bits[1:] {
		switch op {
		case '&':
			acc = andBit(acc, b)
		case '|':
			acc = orBit(acc, b)
		default:
			acc = xorBit(acc, b)
		}
	}
	return Vector{bits: []Bit{acc}}
}

func shiftAmount(b Vector) (int, bool) {
	n, ok := b.AsSigned(false).Big()
	if !ok {
		return 0, false
	}
	if !n.IsInt64() || n.Int64() > MaxWidth {
		return MaxWidth, true
	}
	return int(n.Int64()), true
}

// Shl is a logical left shift; the width of a is kept.
func Shl(a, b Vector) Vector {
	n, ok := shiftAmount(b)
	if !ok {
		return Fill(a.Width(), BX, a.Signed)
	}
	bits := make([]Bit, a.Width())
	for i := range bits {
		if i-n >= 0 {
			bits[i] = a.bits[i-n]
		}
	}
	return Vector{Signed: a.Signed, bits: bits}
}

// Shr is a logical right shift; arithmetic selects sign fill for signed a.
func Shr(a, b Vector, arithmetic bool) Vector {
	n, ok := shiftAmount(b)
	if !ok {
		return Fill(a.Width(), BX, a.Signed)
	}
	fill := B0
	if arithmetic && a.Signed && a.Width() > 0 {
		fill = a.bits[a.Width()-1]
	}
	bits := make([]Bit, a.Width())
	for i := range bits {
		if i+n < a.Width() {
			bits[i] = a.bits[i+n]
		} else {
			bits[i] = fill
		}
	}
	return Vector{Signed: a.Signed, bits: bits}
}

// Compare returns -1, 0 or 1; known is false when an operand has x/z bits.
func Compare(a, b Vector) (cmp int, known bool) {
	a, b, _, _ = balance(a, b)
	x, okA := a.Big()
	y, okB := b.Big()
	if !okA || !okB {
		return 0, false
	}
	return x.Cmp(y), true
}

func cmpResult(a, b Vector, pred func(int) bool) Vector {
	c, known := Compare(a, b)
	if !known {
		return Fill(1, BX, false)
	}
	return FromBool(pred(c))
}

func Eq(a, b Vector) Vector  { return cmpResult(a, b, func(c int) bool { return c == 0 }) }
func Neq(a, b Vector) Vector { return cmpResult(a, b, func(c int) bool { return c != 0 }) }
func Lt(a, b Vector) Vector  { return cmpResult(a, b, func(c int) bool { return c < 0 }) }
func Le(a, b Vector) Vector  { return cmpResult(a, b, func(c int) bool { return c <= 0 }) }
func Gt(a, b Vector) Vector  { return cmpResult(a, b, func(c int) bool { return c > 0 }) }
func Ge(a, b Vector) Vector  { return cmpResult(a, b, func(c int) bool { return c >= 0 }) }

// CaseEq compares bit patterns including x and z (===).
func CaseEq(a, b Vector) Vector {
	a, b, _, _ = balance(a, b)
	for i := range a.bits {
		if a.bits[i] != b.bits[i] {
			return FromBool(false)
		}
	}
	return FromBool(true)
}

func logical(v Vector) Bit {
	t, known := v.Truthy()
	switch {
	case !known:
		return BX
	case t:
		return B1
	}
	return B0
}

func LogicalNot(a Vector) Vector {
	return Vector{bits: []Bit{notBit(logical(a))}}
}

func LogicalAnd(a, b Vector) Vector {
	return Vector{bits: []Bit{andBit(logical(a), logical(b))}}
}

func LogicalOr(a, b Vector) Vector {
	return Vector{bits: []Bit{orBit(logical(a), logical(b))}}
}

// Concat joins parts, the first part becoming the most significant.
func Concat(parts ...Vector) Vector {
	total := 0
	for _, p := range parts {
		total += p.Width()
	}
	bits := make([]Bit, 0, total)
	for i := len(parts) - 1; i >= 0; i-- {
		bits = append(bits, parts[i].bits...)
	}
	if len(bits) == 0 {
		bits = []Bit{B0}
	}
	return Vector{bits: bits}
}

// Replicate repeats v n times.
func Replicate(v Vector, n int) Vector {
	parts := make([]Vector, n)
	for i := range parts {
		parts[i] = v
	}
	return Concat(parts...)
}

// Slice returns bits [lo, lo+width) as an unsigned vector; out-of-range
// positions read as x.
func (v Vector) Slice(lo, width int) Vector {
	bits := make([]Bit, max(width, 1))
	for i := range bits {
		bits[i] = v.Bit(lo + i)
	}
	return Vector{bits: bits}
}

// Merge picks bits of a where a and b agree and x elsewhere (?: with an
// unknown condition).
func Merge(a, b Vector) Vector {
	return bitwise(a, b, func(x, y Bit) Bit {
		if x == y && x.known() {
			return x
		}
		return BX
	})
}
