package ast

import (
	"svdump/internal/source"
	"svdump/internal/token"
)

type StmtKind uint8

const (
	StmtInvalid StmtKind = iota
	StmtNull
	StmtBlock
	StmtAssign
	// StmtExpr is an expression evaluated for effect, e.g. $display(...).
	StmtExpr
	StmtIf
	StmtCase
	StmtTimed
)

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

type StmtBlockData struct {
	Label string
	Stmts []StmtID
}

type StmtAssignData struct {
	LHS         ExprID
	RHS         ExprID
	NonBlocking bool
}

type StmtIfData struct {
	Cond ExprID
	Then StmtID
	Else StmtID
}

type CaseItem struct {
	Exprs   []ExprID
	Default bool
	Body    StmtID
	Span    source.Span
}

type StmtCaseData struct {
	// Kind is KwCase, KwCasez or KwCasex.
	Kind  token.Kind
	Cond  ExprID
	Items []CaseItem
}

// Event is one entry of an @(...) list; Edge is KwPosedge, KwNegedge or 0.
type Event struct {
	Edge token.Kind
	Expr ExprID
	Span source.Span
}

// StmtTimedData is @(...) body or @* body; Implicit marks the star form.
type StmtTimedData struct {
	Events   []Event
	Implicit bool
	Body     StmtID
}

type Stmts struct {
	Arena   *Arena[Stmt]
	Blocks  *Arena[StmtBlockData]
	Assigns *Arena[StmtAssignData]
	Ifs     *Arena[StmtIfData]
	Cases   *Arena[StmtCaseData]
	Timings *Arena[StmtTimedData]
}

func NewStmts(capHint uint) *Stmts {
	if capHint == 0 {
		capHint = 1 << 6
	}
	return &Stmts{
		Arena:   NewArena[Stmt](capHint),
		Blocks:  NewArena[StmtBlockData](capHint / 4),
		Assigns: NewArena[StmtAssignData](capHint),
		Ifs:     NewArena[StmtIfData](capHint / 4),
		Cases:   NewArena[StmtCaseData](capHint / 8),
		Timings: NewArena[StmtTimedData](capHint / 8),
	}
}

func (s *Stmts) new(kind StmtKind, span source.Span, payload uint32) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{Kind: kind, Span: span, Payload: PayloadID(payload)}))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

func (s *Stmts) NewInvalid(span source.Span) StmtID { return s.new(StmtInvalid, span, 0) }

func (s *Stmts) NewNull(span source.Span) StmtID { return s.new(StmtNull, span, 0) }

func (s *Stmts) NewBlock(span source.Span, label string, stmts []StmtID) StmtID {
	return s.new(StmtBlock, span, s.Blocks.Allocate(StmtBlockData{Label: label, Stmts: stmts}))
}

func (s *Stmts) NewAssign(span source.Span, lhs, rhs ExprID, nonBlocking bool) StmtID {
	return s.new(StmtAssign, span, s.Assigns.Allocate(StmtAssignData{LHS: lhs, RHS: rhs, NonBlocking: nonBlocking}))
}

// NewExprStmt stores x as the RHS of an assignment payload without LHS.
func (s *Stmts) NewExprStmt(span source.Span, x ExprID) StmtID {
	return s.new(StmtExpr, span, s.Assigns.Allocate(StmtAssignData{RHS: x}))
}

func (s *Stmts) NewIf(span source.Span, cond ExprID, then, els StmtID) StmtID {
	return s.new(StmtIf, span, s.Ifs.Allocate(StmtIfData{Cond: cond, Then: then, Else: els}))
}

func (s *Stmts) NewCase(span source.Span, data StmtCaseData) StmtID {
	return s.new(StmtCase, span, s.Cases.Allocate(data))
}

func (s *Stmts) NewTimed(span source.Span, data StmtTimedData) StmtID {
	return s.new(StmtTimed, span, s.Timings.Allocate(data))
}

func (s *Stmts) payload(id StmtID, kind StmtKind) (uint32, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != kind {
		return 0, false
	}
	return uint32(st.Payload), true
}

func (s *Stmts) Block(id StmtID) (*StmtBlockData, bool) {
	p, ok := s.payload(id, StmtBlock)
	return s.Blocks.Get(p), ok
}

func (s *Stmts) Assign(id StmtID) (*StmtAssignData, bool) {
	p, ok := s.payload(id, StmtAssign)
	return s.Assigns.Get(p), ok
}

func (s *Stmts) ExprStmt(id StmtID) (ExprID, bool) {
	p, ok := s.payload(id, StmtExpr)
	if !ok {
		return NoExprID, false
	}
	return s.Assigns.Get(p).RHS, true
}

func (s *Stmts) If(id StmtID) (*StmtIfData, bool) {
	p, ok := s.payload(id, StmtIf)
	return s.Ifs.Get(p), ok
}

func (s *Stmts) Case(id StmtID) (*StmtCaseData, bool) {
	p, ok := s.payload(id, StmtCase)
	return s.Cases.Get(p), ok
}

func (s *Stmts) Timed(id StmtID) (*StmtTimedData, bool) {
	p, ok := s.payload(id, StmtTimed)
	return s.Timings.Get(p), ok
}
