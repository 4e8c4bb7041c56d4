package parser

import (
	"svdump/internal/ast"
	"svdump/internal/diag"
	"svdump/internal/token"
)

// parseItemsUntil parses module items up to one of the end keywords.
// endmodule always stops the loop so a missing 'end' does not swallow it.
func (p *Parser) parseItemsUntil(ctx *moduleCtx, end ...token.Kind) []ast.ItemID {
	var items []ast.ItemID
	for !p.at(token.EOF) && !p.at(token.KwEndmodule) && !p.at_or(end...) {
		if p.opts.Enough() {
			p.resyncUntil(token.KwEndmodule)
			break
		}
		before := p.pos
		items = append(items, p.parseModuleItem(ctx)...)
		if p.pos == before {
			p.advance()
		}
	}
	return items
}

// parseModuleItem выбирает по первому токену нужный распознаватель.
func (p *Parser) parseModuleItem(ctx *moduleCtx) []ast.ItemID {
	tok := p.peek()
	switch {
	case tok.Kind == token.AttrOpen:
		p.pendingAttrs = append(p.pendingAttrs, p.parseAttributes()...)
		return nil
	case tok.Kind == token.Semicolon:
		p.advance()
		return nil
	case isDirection(tok.Kind):
		if ctx.ansi {
			p.report(diag.SynMixedPortStyles, diag.SevError, tok.Span,
				"port declaration in the body of a module with an ANSI header")
		}
		p.advance()
		return p.parseDeclList(ast.ItemPortDecl, tok, ast.DeclData{Direction: tok.Kind, Type: p.parseDataType(true)})
	case isNetKind(tok.Kind):
		return p.parseDeclList(ast.ItemNetDecl, tok, ast.DeclData{Type: p.parseDataType(true)})
	case isDataKeyword(tok.Kind):
		return p.parseDeclList(ast.ItemVarDecl, tok, ast.DeclData{Type: p.parseDataType(false)})
	case tok.Kind == token.KwParameter, tok.Kind == token.KwLocalparam:
		p.advance()
		return p.parseDeclList(ast.ItemParamDecl, tok, ast.DeclData{
			Type:  p.parseDataType(false),
			Local: tok.Kind == token.KwLocalparam,
		})
	case tok.Kind == token.KwGenvar:
		p.advance()
		return p.parseDeclList(ast.ItemGenvarDecl, tok, ast.DeclData{})
	case tok.Kind == token.KwAssign:
		return p.parseContAssign()
	case tok.Kind == token.KwAlways, tok.Kind == token.KwAlwaysComb, tok.Kind == token.KwAlwaysFF,
		tok.Kind == token.KwAlwaysLatch, tok.Kind == token.KwInitial:
		return p.single(p.parseProcedural())
	case tok.Kind == token.KwGenerate:
		return p.single(p.parseGenerateRegion(ctx))
	case tok.Kind == token.KwIf:
		return p.single(p.parseGenerateIf(ctx))
	case tok.Kind == token.KwFor:
		return p.single(p.parseGenerateFor(ctx))
	case tok.Kind == token.KwBegin:
		return p.single(p.parseGenerateBlock(ctx))
	case isGate(tok.Kind):
		return p.parsePrimitive()
	case tok.Kind == token.Ident:
		return p.parseInstance()
	case tok.Kind == token.KwModule, tok.Kind == token.KwMacromodule:
		p.report(diag.SynUnexpectedToken, diag.SevError, tok.Span, "nested module declarations are not supported")
		p.resyncUntil(token.KwEndmodule)
		p.eat(token.KwEndmodule)
		return nil
	default:
		p.report(diag.SynUnexpectedToken, diag.SevError, tok.Span, "unexpected "+describe(tok)+" in module body")
		p.pendingAttrs = nil
		p.resyncItem()
		return nil
	}
}

func (p *Parser) single(id ast.ItemID, ok bool) []ast.ItemID {
	if !ok {
		return nil
	}
	return []ast.ItemID{id}
}

// itemStarters are the tokens resyncItem may stop at.
var itemStarters = []token.Kind{
	token.KwEndmodule, token.KwEnd, token.KwEndgenerate,
	token.KwInput, token.KwOutput, token.KwInout,
	token.KwWire, token.KwTri, token.KwWand, token.KwWor, token.KwSupply0, token.KwSupply1,
	token.KwReg, token.KwLogic, token.KwBit, token.KwInteger, token.KwInt, token.KwReal, token.KwString,
	token.KwParameter, token.KwLocalparam, token.KwGenvar, token.KwAssign,
	token.KwAlways, token.KwAlwaysComb, token.KwAlwaysFF, token.KwAlwaysLatch, token.KwInitial,
	token.KwGenerate, token.KwModule,
}

// resyncItem skips to the next ';' (consumed) or a token that starts an item.
func (p *Parser) resyncItem() {
	for !p.at(token.EOF) {
		if p.eat(token.Semicolon) || p.at_or(itemStarters...) {
			return
		}
		p.advance()
	}
}

// parseDeclList parses NAME [dims] [= expr] {, ...} ; for every declaration
// kind. The leading keywords and the data type are already consumed.
func (p *Parser) parseDeclList(kind ast.ItemKind, startTok token.Token, base ast.DeclData) []ast.ItemID {
	attrs := p.takeAttrs()
	var items []ast.ItemID
	for {
		nameTok, ok := p.expectIdent("declaration name")
		if !ok {
			p.resyncItem()
			return items
		}
		decl := base
		decl.Init = ast.NoExprID
		decl.Unpacked = p.parseUnpackedDims()
		if p.eat(token.Assign) {
			if kind == ast.ItemPortDecl || kind == ast.ItemGenvarDecl {
				p.report(diag.SynUnexpectedToken, diag.SevError, p.lastSpan, "initializer is not allowed here")
			}
			if decl.Init, ok = p.parseExpr(); !ok {
				p.resyncItem()
				return items
			}
		} else if kind == ast.ItemParamDecl {
			p.report(diag.SynUnexpectedToken, diag.SevError, nameTok.Span,
				"parameter '"+nameTok.Name()+"' requires a value")
		}
		items = append(items, p.newDecl(kind, startTok.Span, nameTok, decl, attrs))
		if !p.eat(token.Comma) {
			break
		}
	}
	if !p.expectSemicolon() {
		p.resyncItem()
	}
	return items
}

// skipDelay drops a #delay in front of assignments and gates.
func (p *Parser) skipDelay() {
	if !p.at(token.Hash) {
		return
	}
	p.advance()
	if p.at(token.LParen) {
		p.skipBalanced(token.LParen, token.RParen)
	} else {
		p.advance()
	}
	p.warn(diag.SynUnexpectedToken, "delay control is ignored")
}

// parseContAssign parses assign lhs = rhs {, lhs = rhs};
func (p *Parser) parseContAssign() []ast.ItemID {
	kwTok := p.advance()
	attrs := p.takeAttrs()
	p.skipDelay()
	var items []ast.ItemID
	for {
		lhs, ok := p.parsePostfixExpr()
		if !ok {
			p.resyncItem()
			return items
		}
		if _, ok = p.expect(token.Assign, diag.SynUnexpectedToken, "expected '=' in continuous assignment"); !ok {
			p.resyncItem()
			return items
		}
		rhs, ok := p.parseExpr()
		if !ok {
			p.resyncItem()
			return items
		}
		span := kwTok.Span.Cover(p.exprSpan(rhs))
		payload := p.arenas.Items.Assigns.Allocate(ast.ContAssignData{LHS: lhs, RHS: rhs})
		id := p.arenas.Items.New(ast.ItemContAssign, span, "", p.exprSpan(lhs), payload)
		p.arenas.Items.Get(id).Attrs = attrs
		items = append(items, id)
		if !p.eat(token.Comma) {
			break
		}
	}
	if !p.expectSemicolon() {
		p.resyncItem()
	}
	return items
}

// parseInstance parses mod [#(overrides)] name (conns) {, name (conns)};
func (p *Parser) parseInstance() []ast.ItemID {
	modTok := p.advance()
	attrs := p.takeAttrs()
	var params []ast.Arg
	if p.at(token.Hash) {
		p.advance()
		if p.at(token.LParen) {
			params = p.parseArgs(false)
		} else if x, ok := p.parsePrimaryExpr(); ok {
			params = []ast.Arg{{Expr: x, Span: p.exprSpan(x)}}
		}
	}
	var items []ast.ItemID
	for {
		nameTok, ok := p.expectIdent("instance name")
		if !ok {
			p.resyncItem()
			return items
		}
		p.parseUnpackedDims()
		var conns []ast.Arg
		if p.at(token.LParen) {
			conns = p.parseArgs(true)
		} else {
			p.err(diag.SynUnexpectedToken, "expected '(' after instance name")
		}
		data := ast.InstanceData{
			Module:     modTok.Name(),
			ModuleSpan: modTok.Span,
			Params:     params,
			Conns:      conns,
		}
		payload := p.arenas.Items.Instances.Allocate(data)
		id := p.arenas.Items.New(ast.ItemInstance, modTok.Span.Cover(p.lastSpan), nameTok.Name(), nameTok.Span, payload)
		p.arenas.Items.Get(id).Attrs = attrs
		items = append(items, id)
		if !p.eat(token.Comma) {
			break
		}
	}
	if !p.expectSemicolon() {
		p.resyncItem()
	}
	return items
}

// parseArgs parses ( [arg {, arg}] ) where arg is .name(expr), .name, .*,
// expr or nothing.
func (p *Parser) parseArgs(conns bool) []ast.Arg {
	p.advance() // (
	var args []ast.Arg
	if p.eat(token.RParen) {
		return nil
	}
	for !p.at(token.EOF) {
		start := p.peek().Span
		var arg ast.Arg
		switch {
		case p.at(token.Dot) && p.peekN(1).Kind == token.Star && conns:
			p.advance()
			p.advance()
			arg = ast.Arg{Wildcard: true, Named: true, Span: start.Cover(p.lastSpan)}
		case p.at(token.Dot):
			p.advance()
			nameTok, ok := p.expectIdent("port or parameter name after '.'")
			if !ok {
				p.resyncUntil(token.Comma, token.RParen, token.Semicolon)
				break
			}
			arg = ast.Arg{Name: nameTok.Name(), Named: true}
			if p.eat(token.LParen) {
				if !p.at(token.RParen) {
					arg.Expr, _ = p.parseExpr()
				}
				p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after argument")
			} else {
				arg.Implicit = true
				arg.Expr = p.arenas.Exprs.NewIdent(nameTok.Span, nameTok.Name())
			}
			arg.Span = start.Cover(p.lastSpan)
		case p.at(token.Comma), p.at(token.RParen):
			arg = ast.Arg{Span: start.ZeroAt()}
		default:
			x, ok := p.parseExpr()
			if !ok {
				p.resyncUntil(token.Comma, token.RParen, token.Semicolon)
			}
			arg = ast.Arg{Expr: x, Span: start.Cover(p.lastSpan)}
		}
		args = append(args, arg)
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after argument list"); !ok {
		p.resyncUntil(token.Comma, token.Semicolon)
	}
	return args
}

// parsePrimitive parses gate [name] (terminals) {, [name] (terminals)};
func (p *Parser) parsePrimitive() []ast.ItemID {
	gateTok := p.advance()
	attrs := p.takeAttrs()
	p.skipDelay()
	var items []ast.ItemID
	for {
		var nameTok token.Token
		if p.at(token.Ident) {
			nameTok = p.advance()
			p.parseUnpackedDims()
		}
		if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' in gate instance"); !ok {
			p.resyncItem()
			return items
		}
		terms, ok := p.parseExprList()
		if !ok {
			p.resyncItem()
			return items
		}
		if _, ok = p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after gate terminals"); !ok {
			p.resyncItem()
			return items
		}
		nameSpan := nameTok.Span
		if nameTok.Kind == token.Invalid {
			nameSpan = gateTok.Span
		}
		payload := p.arenas.Items.Primitives.Allocate(ast.PrimitiveData{Gate: gateTok.Kind, Terminals: terms})
		id := p.arenas.Items.New(ast.ItemPrimitive, gateTok.Span.Cover(p.lastSpan), nameTok.Name(), nameSpan, payload)
		p.arenas.Items.Get(id).Attrs = attrs
		items = append(items, id)
		if !p.eat(token.Comma) {
			break
		}
	}
	if !p.expectSemicolon() {
		p.resyncItem()
	}
	return items
}

// parseProcedural parses always*, initial followed by one statement.
func (p *Parser) parseProcedural() (ast.ItemID, bool) {
	kwTok := p.advance()
	attrs := p.takeAttrs()
	body := p.parseStmt()
	payload := p.arenas.Items.Procs.Allocate(ast.ProceduralData{Kind: kwTok.Kind, Body: body})
	id := p.arenas.Items.New(ast.ItemProcedural, kwTok.Span.Cover(p.lastSpan), "", kwTok.Span, payload)
	p.arenas.Items.Get(id).Attrs = attrs
	return id, true
}
