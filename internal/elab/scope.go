package elab

import (
	"svdump/internal/ast"
	"svdump/internal/diag"
	"svdump/internal/logic"
	"svdump/internal/source"
	"svdump/internal/tree"
)

type symKind uint8

const (
	symNet symKind = iota
	symVariable
	symParameter
	symGenvar
	symInstance
	symBlock
)

func (k symKind) isValue() bool {
	return k <= symGenvar
}

type symbol struct {
	kind symKind
	name string
	node tree.NodeID
	typ  *typeInfo
	span source.Span
	// value holds parameter and loop-variable values once known.
	value logic.Vector
	known bool
}

// scope is a lexical naming scope: an instance body or a generate block.
type scope struct {
	parent     *scope
	path       string
	names      map[source.StringID]*symbol
	constructs int
}

func newScope(parent *scope, path string) *scope {
	return &scope{parent: parent, path: path, names: make(map[source.StringID]*symbol)}
}

func (s *scope) lookup(key source.StringID) *symbol {
	for sc := s; sc != nil; sc = sc.parent {
		if sym, ok := sc.names[key]; ok {
			return sym
		}
	}
	return nil
}

// nextConstruct numbers generate constructs for genblkN names.
func (s *scope) nextConstruct() int {
	s.constructs++
	return s.constructs
}

// env is what expression and statement elaboration need: the ast owning the
// ids, the naming scope and whether tree nodes are produced at all.
type env struct {
	unit  *ast.Unit
	scope *scope
	build bool
	body  *bodyCtx
}

// bodyCtx is the instance body being elaborated.
type bodyCtx struct {
	def   *definition
	node  tree.NodeID
	depth int
	ports map[string]*portInfo
}

func (en env) quiet() env {
	en.build = false
	return en
}

func (en env) in(sc *scope) env {
	en.scope = sc
	return en
}

// declare adds sym to sc, reporting a clash with an earlier declaration.
func (el *elaborator) declare(sc *scope, sym *symbol) bool {
	key := el.names.Intern(sym.name)
	if prev, dup := sc.names[key]; dup {
		diag.ReportError(el.rep, diag.SemaDuplicateSymbol, sym.span,
			"redeclaration of '"+sym.name+"'").
			WithNote(prev.span, "previous declaration is here").
			Emit()
		return false
	}
	sc.names[key] = sym
	return true
}

func (el *elaborator) lookup(sc *scope, name string) *symbol {
	return sc.lookup(el.names.Intern(name))
}
