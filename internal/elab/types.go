package elab

import (
	"fmt"

	"svdump/internal/tree"
)

type typeKind uint8

const (
	typeIntegral typeKind = iota
	typeReal
	typeString
	typeVoid
	typeError
)

// typeInfo is an interned type. Packed arrays keep the bounds of their
// outermost dimension and point at the element type.
type typeInfo struct {
	kind      typeKind
	name      string
	base      string // logic, reg, bit for vectors
	dims      string // "[7:0]" suffix of packed arrays
	width     int
	signed    bool
	fourState bool
	msb, lsb  int
	elem      *typeInfo
	node      tree.NodeID
}

func (t *typeInfo) integral() bool { return t.kind == typeIntegral }

// dim returns the selectable dimension of t: its own bounds for packed
// arrays, [width-1:0] of single bits for other integral types.
func (tt *typeTable) dim(t *typeInfo) (msb, lsb int, elem *typeInfo) {
	if t.elem != nil {
		return t.msb, t.lsb, t.elem
	}
	return t.width - 1, 0, tt.vector(1, false, t.fourState)
}

type typeTable struct {
	t     *tree.Tree
	byKey map[string]*typeInfo
	nets  map[string]tree.NodeID
}

func newTypeTable(t *tree.Tree) *typeTable {
	return &typeTable{t: t, byKey: make(map[string]*typeInfo), nets: make(map[string]tree.NodeID)}
}

func (tt *typeTable) intern(info *typeInfo) *typeInfo {
	if prev, ok := tt.byKey[info.name]; ok {
		return prev
	}
	n := tt.t.Add(kindOfType(info))
	tt.t.SetAttr(n, "name", tree.String(info.name))
	switch {
	case info.kind != typeIntegral:
	case info.elem != nil:
		tt.t.SetAttr(n, "msb", tree.Int(int64(info.msb)))
		tt.t.SetAttr(n, "lsb", tree.Int(int64(info.lsb)))
		tt.t.SetAttr(n, "width", tree.Int(int64(info.width)))
		tt.t.SetAttr(n, "signed", tree.Bool(info.signed))
		tt.t.AddRef(n, tree.RefElementType, info.elem.node)
	case info.base == "":
		tt.t.SetAttr(n, "width", tree.Int(int64(info.width)))
		tt.t.SetAttr(n, "signed", tree.Bool(info.signed))
		tt.t.SetAttr(n, "fourState", tree.Bool(info.fourState))
	default:
		tt.t.SetAttr(n, "signed", tree.Bool(info.signed))
	}
	info.node = n
	tt.byKey[info.name] = info
	return info
}

func kindOfType(info *typeInfo) tree.Kind {
	switch info.kind {
	case typeReal:
		return tree.KindRealType
	case typeString:
		return tree.KindStringType
	case typeVoid:
		return tree.KindVoidType
	case typeError:
		return tree.KindErrorType
	}
	switch {
	case info.elem != nil:
		return tree.KindPackedArrayType
	case info.base == "":
		return tree.KindIntegerType
	default:
		return tree.KindScalarType
	}
}

func signedName(base string, signed bool) string {
	if signed {
		return base + " signed"
	}
	return base
}

// scalar is a single-bit logic, reg or bit.
func (tt *typeTable) scalar(base string, signed bool) *typeInfo {
	return tt.intern(&typeInfo{
		kind:      typeIntegral,
		name:      signedName(base, signed),
		base:      base,
		width:     1,
		signed:    signed,
		fourState: base != "bit",
	})
}

// packed wraps elem in one more dimension [msb:lsb].
func (tt *typeTable) packed(elem *typeInfo, msb, lsb int, signed bool) *typeInfo {
	dims := fmt.Sprintf("[%d:%d]", msb, lsb) + elem.dims
	return tt.intern(&typeInfo{
		kind:      typeIntegral,
		name:      signedName(elem.base, signed) + dims,
		base:      elem.base,
		dims:      dims,
		width:     elem.width * (abs(msb-lsb) + 1),
		signed:    signed,
		fourState: elem.fourState,
		msb:       msb,
		lsb:       lsb,
		elem:      elem,
	})
}

// vector is the type of an expression result of the given shape.
func (tt *typeTable) vector(width int, signed, fourState bool) *typeInfo {
	base := "logic"
	if !fourState {
		base = "bit"
	}
	if width <= 1 {
		return tt.scalar(base, signed)
	}
	return tt.packed(tt.scalar(base, false), width-1, 0, signed)
}

// predefined returns integer, int and the other fixed integer types.
func (tt *typeTable) predefined(name string) *typeInfo {
	width, fourState := 32, false
	switch name {
	case "integer":
		fourState = true
	case "time":
		width, fourState = 64, true
	}
	return tt.intern(&typeInfo{kind: typeIntegral, name: name, width: width, signed: name != "time", fourState: fourState})
}

func (tt *typeTable) real() *typeInfo {
	return tt.intern(&typeInfo{kind: typeReal, name: "real", width: 64})
}

func (tt *typeTable) str() *typeInfo {
	return tt.intern(&typeInfo{kind: typeString, name: "string"})
}

func (tt *typeTable) void() *typeInfo {
	return tt.intern(&typeInfo{kind: typeVoid, name: "void"})
}

func (tt *typeTable) errorType() *typeInfo {
	return tt.intern(&typeInfo{kind: typeError, name: "<error>"})
}

// netType returns the interned NetType node for wire, tri, ...
func (tt *typeTable) netType(name string) tree.NodeID {
	if n, ok := tt.nets[name]; ok {
		return n
	}
	n := tt.t.Add(tree.KindNetType)
	tt.t.SetAttr(n, "name", tree.String(name))
	tt.nets[name] = n
	return n
}

// binary is the result type of an arithmetic or bitwise operator.
func (tt *typeTable) binary(a, b *typeInfo) *typeInfo {
	switch {
	case a.kind == typeReal || b.kind == typeReal:
		return tt.real()
	case !a.integral() || !b.integral():
		return tt.errorType()
	}
	width, signed, fourState := max(a.width, b.width), a.signed && b.signed, a.fourState || b.fourState
	for _, t := range []*typeInfo{a, b} {
		if t.width == width && t.signed == signed && t.fourState == fourState {
			return t
		}
	}
	return tt.vector(width, signed, fourState)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
