package parser

import (
	"svdump/internal/ast"
	"svdump/internal/diag"
	"svdump/internal/token"
)

// parseGenerateRegion parses generate items endgenerate. The region only
// groups items; it opens no scope.
func (p *Parser) parseGenerateRegion(ctx *moduleCtx) (ast.ItemID, bool) {
	kwTok := p.advance()
	p.takeAttrs()
	items := p.parseItemsUntil(ctx, token.KwEndgenerate)
	if _, ok := p.expect(token.KwEndgenerate, diag.SynExpectEndgenerate, "expected 'endgenerate'"); !ok {
		p.resyncUntil(token.KwEndgenerate, token.KwEndmodule)
		p.eat(token.KwEndgenerate)
	}
	payload := p.arenas.Items.GenBlocks.Allocate(ast.GenBlockData{Items: items})
	return p.arenas.Items.New(ast.ItemGenRegion, kwTok.Span.Cover(p.lastSpan), "", kwTok.Span, payload), true
}

// parseGenerateBlock parses begin [: label] items end [: label].
func (p *Parser) parseGenerateBlock(ctx *moduleCtx) (ast.ItemID, bool) {
	kwTok := p.advance()
	attrs := p.takeAttrs()
	var label token.Token
	if p.eat(token.Colon) {
		label, _ = p.expectIdent("block label")
	}
	items := p.parseItemsUntil(ctx, token.KwEnd)
	if _, ok := p.expect(token.KwEnd, diag.SynExpectEnd, "expected 'end' to close generate block"); ok && label.Kind == token.Ident {
		p.parseEndLabel(label.Name())
	} else if ok {
		p.parseEndLabel("")
	}
	nameSpan := kwTok.Span
	if label.Kind == token.Ident {
		nameSpan = label.Span
	}
	payload := p.arenas.Items.GenBlocks.Allocate(ast.GenBlockData{Label: label.Name(), Items: items})
	id := p.arenas.Items.New(ast.ItemGenBlock, kwTok.Span.Cover(p.lastSpan), label.Name(), nameSpan, payload)
	p.arenas.Items.Get(id).Attrs = attrs
	return id, true
}

// parseGenerateBody parses the body of a generate if/for. A body without
// begin/end becomes an unnamed block holding that one item; an else-if
// chain keeps the nested if as is.
func (p *Parser) parseGenerateBody(ctx *moduleCtx) ast.ItemID {
	switch p.peek().Kind {
	case token.KwBegin:
		id, _ := p.parseGenerateBlock(ctx)
		return id
	case token.KwIf:
		id, _ := p.parseGenerateIf(ctx)
		return id
	}
	start := p.peek().Span
	items := p.parseModuleItem(ctx)
	payload := p.arenas.Items.GenBlocks.Allocate(ast.GenBlockData{Items: items})
	return p.arenas.Items.New(ast.ItemGenBlock, start.Cover(p.lastSpan), "", start, payload)
}

// parseGenerateIf parses if (cond) body [else body].
func (p *Parser) parseGenerateIf(ctx *moduleCtx) (ast.ItemID, bool) {
	kwTok := p.advance()
	p.takeAttrs()
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'if'"); !ok {
		p.resyncItem()
		return ast.NoItemID, false
	}
	cond, ok := p.parseExpr()
	if !ok {
		p.resyncUntil(token.RParen, token.Semicolon)
	}
	p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after condition")

	data := ast.GenIfData{Cond: cond}
	data.Then = p.parseGenerateBody(ctx)
	if p.eat(token.KwElse) {
		data.Else = p.parseGenerateBody(ctx)
	}
	payload := p.arenas.Items.GenIfs.Allocate(data)
	return p.arenas.Items.New(ast.ItemGenIf, kwTok.Span.Cover(p.lastSpan), "", kwTok.Span, payload), true
}

// parseGenerateFor parses for ([genvar] i = init; cond; i = step) body.
func (p *Parser) parseGenerateFor(ctx *moduleCtx) (ast.ItemID, bool) {
	kwTok := p.advance()
	p.takeAttrs()
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'for'"); !ok {
		p.resyncItem()
		return ast.NoItemID, false
	}
	var data ast.GenForData
	data.DeclGenvar = p.eat(token.KwGenvar)

	fail := func() (ast.ItemID, bool) {
		p.resyncUntil(token.RParen, token.KwBegin, token.KwEnd, token.KwEndmodule)
		p.eat(token.RParen)
		if p.at(token.KwBegin) {
			p.skipBalanced(token.KwBegin, token.KwEnd)
		}
		return ast.NoItemID, false
	}

	varTok, ok := p.expectIdent("loop variable")
	if !ok {
		return fail()
	}
	data.Var, data.VarSpan = varTok.Name(), varTok.Span
	if _, ok = p.expect(token.Assign, diag.SynUnexpectedToken, "expected '=' in loop initialization"); !ok {
		return fail()
	}
	if data.Init, ok = p.parseExpr(); !ok {
		return fail()
	}
	if !p.expectSemicolon() {
		return fail()
	}
	if data.Cond, ok = p.parseExpr(); !ok {
		return fail()
	}
	if !p.expectSemicolon() {
		return fail()
	}
	stepTok, ok := p.expectIdent("loop variable in step")
	if !ok {
		return fail()
	}
	data.StepVar = stepTok.Name()
	if _, ok = p.expect(token.Assign, diag.SynUnexpectedToken, "expected '=' in loop step"); !ok {
		return fail()
	}
	if data.Step, ok = p.parseExpr(); !ok {
		return fail()
	}
	if _, ok = p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after loop header"); !ok {
		return fail()
	}
	data.Body = p.parseGenerateBody(ctx)
	payload := p.arenas.Items.GenFors.Allocate(data)
	return p.arenas.Items.New(ast.ItemGenFor, kwTok.Span.Cover(p.lastSpan), "", kwTok.Span, payload), true
}
