package parser

import (
	"svdump/internal/ast"
	"svdump/internal/diag"
	"svdump/internal/token"
)

// parseStmt always returns a statement; on error it reports, resyncs and
// returns StmtInvalid.
func (p *Parser) parseStmt() ast.StmtID {
	for p.at(token.AttrOpen) {
		p.parseAttributes() // атрибуты на операторах не сохраняем
	}
	tok := p.peek()
	stmts := p.arenas.Stmts
	switch tok.Kind {
	case token.Semicolon:
		p.advance()
		return stmts.NewNull(tok.Span)
	case token.KwBegin:
		return p.parseBlock()
	case token.KwIf:
		return p.parseIf()
	case token.KwCase, token.KwCasez, token.KwCasex:
		return p.parseCase()
	case token.At:
		return p.parseTimed()
	case token.Hash:
		p.skipDelay()
		return p.parseStmt()
	case token.SystemIdent:
		x, ok := p.parseSystemCall()
		if !ok {
			return p.invalidStmt(tok)
		}
		if !p.expectSemicolon() {
			return p.invalidStmt(tok)
		}
		return stmts.NewExprStmt(tok.Span.Cover(p.lastSpan), x)
	case token.Ident, token.LBrace:
		return p.parseAssignStmt()
	default:
		p.report(diag.SynExpectStatement, diag.SevError, p.getDiagnosticSpan(), "expected statement, found "+describe(tok))
		return p.invalidStmt(tok)
	}
}

func (p *Parser) invalidStmt(start token.Token) ast.StmtID {
	p.resyncStmt()
	return p.arenas.Stmts.NewInvalid(start.Span.Cover(p.lastSpan))
}

// resyncStmt skips past the next ';' or up to a block terminator.
func (p *Parser) resyncStmt() {
	for !p.at(token.EOF) {
		if p.eat(token.Semicolon) {
			return
		}
		if p.at_or(token.KwEnd, token.KwEndcase, token.KwEndmodule, token.KwElse) {
			return
		}
		p.advance()
	}
}

// parseAssignStmt parses lvalue = expr; and lvalue <= expr;
func (p *Parser) parseAssignStmt() ast.StmtID {
	start := p.peek()
	lhs, ok := p.parsePostfixExpr()
	if !ok {
		return p.invalidStmt(start)
	}
	var nonBlocking bool
	switch p.peek().Kind {
	case token.Assign:
	case token.LtEq:
		nonBlocking = true
	default:
		p.err(diag.SynUnexpectedToken, "expected '=' or '<=' in assignment, found "+describe(p.peek()))
		return p.invalidStmt(start)
	}
	p.advance()
	p.skipDelay()
	rhs, ok := p.parseExpr()
	if !ok {
		return p.invalidStmt(start)
	}
	if !p.expectSemicolon() {
		return p.invalidStmt(start)
	}
	return p.arenas.Stmts.NewAssign(start.Span.Cover(p.lastSpan), lhs, rhs, nonBlocking)
}

// parseBlock parses begin [: label] {stmt} end [: label].
func (p *Parser) parseBlock() ast.StmtID {
	kwTok := p.advance()
	var label string
	if p.eat(token.Colon) {
		if labelTok, ok := p.expectIdent("block label"); ok {
			label = labelTok.Name()
		}
	}
	var body []ast.StmtID
	for !p.at_or(token.KwEnd, token.KwEndmodule, token.EOF) {
		before := p.pos
		body = append(body, p.parseStmt())
		if p.pos == before {
			p.advance()
		}
	}
	if _, ok := p.expect(token.KwEnd, diag.SynExpectEnd, "expected 'end'"); ok && label != "" {
		p.parseEndLabel(label)
	}
	return p.arenas.Stmts.NewBlock(kwTok.Span.Cover(p.lastSpan), label, body)
}

func (p *Parser) parseParenExpr(what string) (ast.ExprID, bool) {
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after '"+what+"'"); !ok {
		return ast.NoExprID, false
	}
	x, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	if _, ok = p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'"); !ok {
		return ast.NoExprID, false
	}
	return x, true
}

// parseIf parses if (cond) stmt [else stmt]; else binds to the nearest if.
func (p *Parser) parseIf() ast.StmtID {
	kwTok := p.advance()
	cond, ok := p.parseParenExpr("if")
	if !ok {
		return p.invalidStmt(kwTok)
	}
	then := p.parseStmt()
	els := ast.NoStmtID
	if p.eat(token.KwElse) {
		els = p.parseStmt()
	}
	return p.arenas.Stmts.NewIf(kwTok.Span.Cover(p.lastSpan), cond, then, els)
}

// parseCase parses case (expr) {items} endcase.
func (p *Parser) parseCase() ast.StmtID {
	kwTok := p.advance()
	cond, ok := p.parseParenExpr(kwTok.Kind.String())
	if !ok {
		p.resyncUntil(token.KwEndcase, token.KwEnd, token.KwEndmodule)
		p.eat(token.KwEndcase)
		return p.arenas.Stmts.NewInvalid(kwTok.Span.Cover(p.lastSpan))
	}
	data := ast.StmtCaseData{Kind: kwTok.Kind, Cond: cond}
	for !p.at_or(token.KwEndcase, token.KwEnd, token.KwEndmodule, token.EOF) {
		before := p.pos
		start := p.peek().Span
		item := ast.CaseItem{}
		if p.eat(token.KwDefault) {
			item.Default = true
			p.eat(token.Colon)
		} else {
			exprs, ok := p.parseExprList()
			if !ok {
				p.resyncStmt()
				if p.pos == before {
					p.advance()
				}
				continue
			}
			item.Exprs = exprs
			if _, ok = p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' after case item"); !ok {
				p.resyncStmt()
				continue
			}
		}
		item.Body = p.parseStmt()
		item.Span = start.Cover(p.lastSpan)
		data.Items = append(data.Items, item)
	}
	if _, ok := p.expect(token.KwEndcase, diag.SynExpectEndcase, "expected 'endcase'"); !ok {
		p.resyncStmt()
	}
	return p.arenas.Stmts.NewCase(kwTok.Span.Cover(p.lastSpan), data)
}

// parseTimed parses @(event {or|, event}) stmt, @* stmt and @(*) stmt.
func (p *Parser) parseTimed() ast.StmtID {
	atTok := p.advance()
	var data ast.StmtTimedData
	switch {
	case p.at(token.Star):
		p.advance()
		data.Implicit = true
	case p.at(token.LParen) && p.peekN(1).Kind == token.Star && p.peekN(2).Kind == token.RParen:
		p.advance()
		p.advance()
		p.advance()
		data.Implicit = true
	case p.at(token.LParen):
		p.advance()
		for {
			start := p.peek().Span
			ev := ast.Event{}
			if p.at_or(token.KwPosedge, token.KwNegedge) {
				ev.Edge = p.advance().Kind
			}
			x, ok := p.parseExpr()
			if !ok {
				return p.invalidStmt(atTok)
			}
			ev.Expr = x
			ev.Span = start.Cover(p.lastSpan)
			data.Events = append(data.Events, ev)
			if !p.eat(token.KwOr) && !p.eat(token.Comma) {
				break
			}
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after event list"); !ok {
			return p.invalidStmt(atTok)
		}
	case p.at(token.Ident):
		nameTok := p.advance()
		x := p.arenas.Exprs.NewIdent(nameTok.Span, nameTok.Name())
		data.Events = []ast.Event{{Expr: x, Span: nameTok.Span}}
	default:
		p.err(diag.SynUnexpectedToken, "expected event control after '@'")
		return p.invalidStmt(atTok)
	}
	data.Body = p.parseStmt()
	return p.arenas.Stmts.NewTimed(atTok.Span.Cover(p.lastSpan), data)
}
