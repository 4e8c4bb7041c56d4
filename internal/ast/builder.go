// Package ast is the per-file syntax tree of the Verilog front end.
// Nodes live in typed arenas and refer to each other by 1-based ids.
package ast

import (
	"svdump/internal/source"
)

type Hints struct{ Items, Stmts, Exprs uint }

// File is the parse result of one source file.
type File struct {
	ID      source.FileID
	Span    source.Span
	Modules []ItemID
}

type Builder struct {
	Items *Items
	Stmts *Stmts
	Exprs *Exprs
}

func NewBuilder(hints Hints) *Builder {
	if hints.Items == 0 {
		hints.Items = 1 << 7
	}
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 8
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 9
	}
	return &Builder{
		Items: NewItems(hints.Items),
		Stmts: NewStmts(hints.Stmts),
		Exprs: NewExprs(hints.Exprs),
	}
}

// Unit pairs a parsed file with the builder that owns its nodes.
type Unit struct {
	File    *File
	Builder *Builder
}
