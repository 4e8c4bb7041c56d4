package ast

import (
	"svdump/internal/source"
	"svdump/internal/token"
)

type ExprKind uint8

const (
	ExprInvalid ExprKind = iota
	ExprIdent
	ExprLit
	ExprUnary
	ExprBinary
	ExprTernary
	ExprIndex
	ExprRange
	ExprConcat
	ExprReplicate
	ExprCall
)

type LitKind uint8

const (
	LitInt LitKind = iota
	LitUnbased
	LitReal
	LitString
)

type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

type ExprIdentData struct {
	Name string
}

type ExprLitData struct {
	Kind LitKind
	Text string
}

type ExprUnaryData struct {
	Op token.Kind
	X  ExprID
}

type ExprBinaryData struct {
	Op    token.Kind
	Left  ExprID
	Right ExprID
}

type ExprTernaryData struct {
	Cond ExprID
	Then ExprID
	Else ExprID
}

type ExprIndexData struct {
	X     ExprID
	Index ExprID
}

// ExprRangeData is x[l:r], x[b+:w] or x[b-:w]; Mode is Colon, PlusColon
// or MinusColon.
type ExprRangeData struct {
	X     ExprID
	Mode  token.Kind
	Left  ExprID
	Right ExprID
}

// ExprConcatData backs both {a, b} and {n{a, b}}; Count is zero for a
// plain concatenation.
type ExprConcatData struct {
	Count ExprID
	Items []ExprID
}

type ExprCallData struct {
	Name string
	Args []ExprID
}

// Exprs manages allocation of expressions.
type Exprs struct {
	Arena     *Arena[Expr]
	Idents    *Arena[ExprIdentData]
	Literals  *Arena[ExprLitData]
	Unaries   *Arena[ExprUnaryData]
	Binaries  *Arena[ExprBinaryData]
	Ternaries *Arena[ExprTernaryData]
	Indices   *Arena[ExprIndexData]
	Ranges    *Arena[ExprRangeData]
	Concats   *Arena[ExprConcatData]
	Calls     *Arena[ExprCallData]
}

func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Exprs{
		Arena:     NewArena[Expr](capHint),
		Idents:    NewArena[ExprIdentData](capHint),
		Literals:  NewArena[ExprLitData](capHint / 2),
		Unaries:   NewArena[ExprUnaryData](capHint / 8),
		Binaries:  NewArena[ExprBinaryData](capHint / 2),
		Ternaries: NewArena[ExprTernaryData](capHint / 16),
		Indices:   NewArena[ExprIndexData](capHint / 8),
		Ranges:    NewArena[ExprRangeData](capHint / 8),
		Concats:   NewArena[ExprConcatData](capHint / 16),
		Calls:     NewArena[ExprCallData](capHint / 16),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload uint32) ExprID {
	return ExprID(e.Arena.Allocate(Expr{Kind: kind, Span: span, Payload: PayloadID(payload)}))
}

// Get returns the expression with the given ID.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

func (e *Exprs) NewInvalid(span source.Span) ExprID {
	return e.new(ExprInvalid, span, 0)
}

func (e *Exprs) NewIdent(span source.Span, name string) ExprID {
	return e.new(ExprIdent, span, e.Idents.Allocate(ExprIdentData{Name: name}))
}

func (e *Exprs) NewLiteral(span source.Span, kind LitKind, text string) ExprID {
	return e.new(ExprLit, span, e.Literals.Allocate(ExprLitData{Kind: kind, Text: text}))
}

func (e *Exprs) NewUnary(span source.Span, op token.Kind, x ExprID) ExprID {
	return e.new(ExprUnary, span, e.Unaries.Allocate(ExprUnaryData{Op: op, X: x}))
}

func (e *Exprs) NewBinary(span source.Span, op token.Kind, left, right ExprID) ExprID {
	return e.new(ExprBinary, span, e.Binaries.Allocate(ExprBinaryData{Op: op, Left: left, Right: right}))
}

func (e *Exprs) NewTernary(span source.Span, cond, then, els ExprID) ExprID {
	return e.new(ExprTernary, span, e.Ternaries.Allocate(ExprTernaryData{Cond: cond, Then: then, Else: els}))
}

func (e *Exprs) NewIndex(span source.Span, x, index ExprID) ExprID {
	return e.new(ExprIndex, span, e.Indices.Allocate(ExprIndexData{X: x, Index: index}))
}

func (e *Exprs) NewRange(span source.Span, x ExprID, mode token.Kind, left, right ExprID) ExprID {
	return e.new(ExprRange, span, e.Ranges.Allocate(ExprRangeData{X: x, Mode: mode, Left: left, Right: right}))
}

func (e *Exprs) NewConcat(span source.Span, items []ExprID) ExprID {
	return e.new(ExprConcat, span, e.Concats.Allocate(ExprConcatData{Items: items}))
}

func (e *Exprs) NewReplicate(span source.Span, count ExprID, items []ExprID) ExprID {
	return e.new(ExprReplicate, span, e.Concats.Allocate(ExprConcatData{Count: count, Items: items}))
}

func (e *Exprs) NewCall(span source.Span, name string, args []ExprID) ExprID {
	return e.new(ExprCall, span, e.Calls.Allocate(ExprCallData{Name: name, Args: args}))
}

func (e *Exprs) payload(id ExprID, kind ExprKind) (uint32, bool) {
	x := e.Get(id)
	if x == nil || x.Kind != kind {
		return 0, false
	}
	return uint32(x.Payload), true
}

func (e *Exprs) Ident(id ExprID) (*ExprIdentData, bool) {
	p, ok := e.payload(id, ExprIdent)
	return e.Idents.Get(p), ok
}

func (e *Exprs) Literal(id ExprID) (*ExprLitData, bool) {
	p, ok := e.payload(id, ExprLit)
	return e.Literals.Get(p), ok
}

func (e *Exprs) Unary(id ExprID) (*ExprUnaryData, bool) {
	p, ok := e.payload(id, ExprUnary)
	return e.Unaries.Get(p), ok
}

func (e *Exprs) Binary(id ExprID) (*ExprBinaryData, bool) {
	p, ok := e.payload(id, ExprBinary)
	return e.Binaries.Get(p), ok
}

func (e *Exprs) Ternary(id ExprID) (*ExprTernaryData, bool) {
	p, ok := e.payload(id, ExprTernary)
	return e.Ternaries.Get(p), ok
}

func (e *Exprs) Index(id ExprID) (*ExprIndexData, bool) {
	p, ok := e.payload(id, ExprIndex)
	return e.Indices.Get(p), ok
}

func (e *Exprs) Range(id ExprID) (*ExprRangeData, bool) {
	p, ok := e.payload(id, ExprRange)
	return e.Ranges.Get(p), ok
}

// Concat returns the data of a concatenation or replication.
func (e *Exprs) Concat(id ExprID) (*ExprConcatData, bool) {
	x := e.Get(id)
	if x == nil || (x.Kind != ExprConcat && x.Kind != ExprReplicate) {
		return nil, false
	}
	return e.Concats.Get(uint32(x.Payload)), true
}

func (e *Exprs) Call(id ExprID) (*ExprCallData, bool) {
	p, ok := e.payload(id, ExprCall)
	return e.Calls.Get(p), ok
}
