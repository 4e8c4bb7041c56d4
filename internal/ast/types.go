package ast

import (
	"svdump/internal/source"
	"svdump/internal/token"
)

// Range is a [left:right] dimension.
type Range struct {
	Left  ExprID
	Right ExprID
	Span  source.Span
}

// DataType is the declared type of a port, net, variable or parameter.
// Zero Keyword with zero NetKind is the implicit type.
type DataType struct {
	// NetKind is KwWire, KwTri, ... for nets, zero otherwise.
	NetKind token.Kind
	// Keyword is KwLogic, KwReg, KwBit, KwInteger, KwInt, KwReal or KwString.
	Keyword  token.Kind
	Signed   bool
	Unsigned bool
	Packed   []Range
	Span     source.Span
}

// Implicit reports whether neither a net kind nor a data keyword was written.
func (t DataType) Implicit() bool {
	return t.NetKind == 0 && t.Keyword == 0
}

// Attribute is a (* name = value *) source annotation.
type Attribute struct {
	Name  string
	Value ExprID
	Span  source.Span
}
