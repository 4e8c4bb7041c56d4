package elab

import (
	"strconv"

	"svdump/internal/ast"
	"svdump/internal/diag"
	"svdump/internal/source"
	"svdump/internal/token"
	"svdump/internal/tree"
)

// stmt elaborates a procedural statement; it always returns a node.
func (el *elaborator) stmt(en env, id ast.StmtID) tree.NodeID {
	stmts := en.unit.Builder.Stmts
	st := stmts.Get(id)
	if st == nil {
		return el.t.Add(tree.KindInvalidStatement)
	}

	switch st.Kind {
	case ast.StmtNull:
		return el.stmtNode(tree.KindEmptyStatement, st.Span)

	case ast.StmtBlock:
		data, _ := stmts.Block(id)
		n := el.stmtNode(tree.KindBlock, st.Span)
		el.t.SetAttr(n, "name", tree.String(data.Label))
		el.t.SetAttr(n, "blockKind", tree.String("Sequential"))
		for _, s := range data.Stmts {
			el.t.AddChild(n, el.stmt(en, s))
		}
		return n

	case ast.StmtAssign:
		data, _ := stmts.Assign(id)
		n := el.stmtNode(tree.KindExpressionStatement, st.Span)
		el.t.AddChild(n, el.assignment(en, data.LHS, data.RHS, data.NonBlocking, true, st.Span).node)
		return n

	case ast.StmtExpr:
		x, _ := stmts.ExprStmt(id)
		n := el.stmtNode(tree.KindExpressionStatement, st.Span)
		if r := el.expr(en, x); r.node.IsValid() {
			el.t.AddChild(n, r.node)
		}
		return n

	case ast.StmtIf:
		data, _ := stmts.If(id)
		n := el.stmtNode(tree.KindConditionalStatement, st.Span)
		el.t.SetAttr(n, "hasElse", tree.Bool(data.Else.IsValid()))
		el.condition(en, n, data.Cond)
		el.t.AddChild(n, el.stmt(en, data.Then))
		if data.Else.IsValid() {
			el.t.AddChild(n, el.stmt(en, data.Else))
		}
		return n

	case ast.StmtCase:
		data, _ := stmts.Case(id)
		return el.caseStmt(en, data, st.Span)

	case ast.StmtTimed:
		data, _ := stmts.Timed(id)
		n := el.stmtNode(tree.KindTimedStatement, st.Span)
		if data.Implicit {
			ev := el.t.Add(tree.KindImplicitEvent)
			el.setLoc(ev, st.Span)
			el.t.AddChild(n, ev)
		}
		for _, e := range data.Events {
			ev := el.t.Add(tree.KindSignalEvent)
			edge := "None"
			switch e.Edge {
			case token.KwPosedge:
				edge = "PosEdge"
			case token.KwNegedge:
				edge = "NegEdge"
			}
			el.t.SetAttr(ev, "edge", tree.String(edge))
			el.setLoc(ev, e.Span)
			if r := el.expr(en, e.Expr); r.node.IsValid() {
				el.t.AddChild(ev, r.node)
			}
			el.t.AddChild(n, ev)
		}
		el.t.AddChild(n, el.stmt(en, data.Body))
		return n
	}
	return el.stmtNode(tree.KindInvalidStatement, st.Span)
}

func (el *elaborator) stmtNode(kind tree.Kind, sp source.Span) tree.NodeID {
	n := el.t.Add(kind)
	el.setLoc(n, sp)
	return n
}

func (el *elaborator) condition(en env, parent tree.NodeID, id ast.ExprID) {
	r := el.expr(en, id)
	if !isError(r) && !r.typ.integral() && r.typ.kind != typeReal {
		el.errorAt(diag.SemaError, el.exprSpan(en, id), "value of type '"+r.typ.name+"' is not a valid condition")
	}
	if r.node.IsValid() {
		el.t.AddChild(parent, r.node)
	}
}

func (el *elaborator) caseStmt(en env, data *ast.StmtCaseData, sp source.Span) tree.NodeID {
	n := el.stmtNode(tree.KindCaseStatement, sp)
	cond := "Normal"
	switch data.Kind {
	case token.KwCasez:
		cond = "WildcardJustZ"
	case token.KwCasex:
		cond = "WildcardXOrZ"
	}
	el.t.SetAttr(n, "condition", tree.String(cond))
	el.condition(en, n, data.Cond)

	var defaultSpan source.Span
	seenDefault := false
	for _, item := range data.Items {
		ci := el.stmtNode(tree.KindCaseItem, item.Span)
		el.t.SetAttr(ci, "isDefault", tree.Bool(item.Default))
		if item.Default {
			if seenDefault {
				diag.ReportError(el.rep, diag.SemaError, item.Span, "case statement has more than one default item").
					WithNote(defaultSpan, "previous default is here").
					Emit()
			}
			seenDefault, defaultSpan = true, item.Span
		}
		for _, x := range item.Exprs {
			if r := el.expr(en, x); r.node.IsValid() {
				el.t.AddChild(ci, r.node)
			}
		}
		el.t.AddChild(ci, el.stmt(en, item.Body))
		el.t.AddChild(n, ci)
	}
	return n
}

// assignment builds an Assignment expression; procedural selects the
// rules for always/initial blocks, where nets cannot be targets.
func (el *elaborator) assignment(en env, lhs, rhs ast.ExprID, nonBlocking, procedural bool, sp source.Span) exprResult {
	el.checkLValue(en, lhs, procedural)
	l := el.expr(en, lhs)
	r := el.expr(en, rhs)
	if !isError(l) && l.typ.integral() {
		if !procedural {
			el.checkWidth(l.typ, r, el.exprSpan(en, rhs))
		}
		r = el.convert(en, r, l.typ, el.exprSpan(en, rhs))
	}
	n := el.exprNode(en, tree.KindAssignment, sp)
	if n.IsValid() {
		el.t.SetAttr(n, "isNonBlocking", tree.Bool(nonBlocking))
	}
	el.children(n, l, r)
	return el.done(n, exprResult{typ: l.typ})
}

// checkWidth warns when r loses bits on its way into a target of type to.
// Constants that fit are accepted whatever their width.
func (el *elaborator) checkWidth(to *typeInfo, r exprResult, sp source.Span) {
	if isError(r) || !r.typ.integral() || r.fill || r.typ.width <= to.width {
		return
	}
	if r.known && r.value.Resize(to.width).Resize(r.typ.width).Equal(r.value) {
		return
	}
	el.warnAt(diag.SemaWidthMismatch, sp,
		"assignment truncates "+strconv.Itoa(r.typ.width)+"-bit value to "+strconv.Itoa(to.width)+" bits")
}

// checkLValue reports targets that cannot be assigned. Unresolved names
// are left to expression elaboration.
func (el *elaborator) checkLValue(en env, id ast.ExprID, procedural bool) bool {
	exprs := en.unit.Builder.Exprs
	x := exprs.Get(id)
	if x == nil {
		return false
	}
	switch x.Kind {
	case ast.ExprIdent:
		data, _ := exprs.Ident(id)
		return el.checkTarget(en, data.Name, x.Span, procedural)
	case ast.ExprIndex:
		data, _ := exprs.Index(id)
		return el.checkLValue(en, data.X, procedural)
	case ast.ExprRange:
		data, _ := exprs.Range(id)
		return el.checkLValue(en, data.X, procedural)
	case ast.ExprConcat:
		data, _ := exprs.Concat(id)
		ok := true
		for _, it := range data.Items {
			ok = el.checkLValue(en, it, procedural) && ok
		}
		return ok
	case ast.ExprInvalid:
		return false
	}
	el.errorAt(diag.SemaNotAssignable, x.Span, "expression is not assignable")
	return false
}

func (el *elaborator) checkTarget(en env, name string, sp source.Span, procedural bool) bool {
	sym := el.lookup(en.scope, name)
	if sym == nil {
		return false
	}
	switch {
	case sym.kind == symParameter:
		el.errorAt(diag.SemaNotAssignable, sp, "cannot assign to parameter '"+name+"'")
	case sym.kind == symGenvar:
		el.errorAt(diag.SemaNotAssignable, sp, "cannot assign to genvar '"+name+"'")
	case sym.kind == symNet && procedural:
		el.errorAt(diag.SemaNotAssignable, sp, "cannot assign to net '"+name+"' in a procedural block")
	case sym.kind == symNet || sym.kind == symVariable:
		return true
	}
	return false
}

func (el *elaborator) exprSpan(en env, id ast.ExprID) source.Span {
	if x := en.unit.Builder.Exprs.Get(id); x != nil {
		return x.Span
	}
	return source.Detached()
}
