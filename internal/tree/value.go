package tree

import (
	"fmt"
	"strconv"

	"svdump/internal/logic"
)

// ValueKind tags the variant held by a Value.
type ValueKind uint8

const (
	ValString ValueKind = iota
	ValInt
	ValBool
	ValFloat
	ValConstant
)

// Value is an attribute value.
type Value struct {
	Kind  ValueKind
	Str   string
	Int   int64
	Bool  bool
	Float float64
	Const logic.Vector
}

func String(s string) Value { return Value{Kind: ValString, Str: s} }

func Int(n int64) Value { return Value{Kind: ValInt, Int: n} }

func Bool(b bool) Value { return Value{Kind: ValBool, Bool: b} }

func Float(f float64) Value { return Value{Kind: ValFloat, Float: f} }

func Constant(v logic.Vector) Value { return Value{Kind: ValConstant, Const: v} }

// String renders the value for debugging.
func (v Value) String() string {
	switch v.Kind {
	case ValString:
		return strconv.Quote(v.Str)
	case ValInt:
		return strconv.FormatInt(v.Int, 10)
	case ValBool:
		return strconv.FormatBool(v.Bool)
	case ValFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case ValConstant:
		return v.Const.String()
	default:
		return fmt.Sprintf("<value %d>", v.Kind)
	}
}

// Attr is one named attribute.
type Attr struct {
	Name  string
	Value Value
}
