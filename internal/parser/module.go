package parser

import (
	"svdump/internal/ast"
	"svdump/internal/diag"
	"svdump/internal/source"
	"svdump/internal/token"
)

// moduleCtx carries header facts needed while parsing the body.
type moduleCtx struct {
	name string
	ansi bool
}

// parseModule parses module NAME [#(params)] [(ports)]; items endmodule [: NAME].
func (p *Parser) parseModule() (ast.ItemID, bool) {
	kwTok := p.advance()
	attrs := p.takeAttrs()
	nameTok, ok := p.expectIdent("module name")
	if !ok {
		p.resyncUntil(token.KwEndmodule)
		p.eat(token.KwEndmodule)
		return ast.NoItemID, false
	}

	var data ast.ModuleData
	if p.at(token.Hash) {
		p.advance()
		data.Params = p.parseParamPortList()
	}
	if p.at(token.LParen) {
		data.Ports, data.ANSI = p.parsePortList()
	}
	if !p.expectSemicolon() {
		p.resyncItem()
	}

	ctx := moduleCtx{name: nameTok.Name(), ansi: data.ANSI}
	data.Body = p.parseItemsUntil(&ctx, token.KwEndmodule)
	if _, ok := p.expect(token.KwEndmodule, diag.SynExpectEndmodule, "expected 'endmodule' for module '"+ctx.name+"'"); ok {
		p.parseEndLabel(ctx.name)
	}

	span := kwTok.Span.Cover(p.lastSpan)
	payload := p.arenas.Items.Modules.Allocate(data)
	id := p.arenas.Items.New(ast.ItemModule, span, ctx.name, nameTok.Span, payload)
	p.arenas.Items.Get(id).Attrs = attrs
	return id, true
}

// parseEndLabel handles an optional ": label" after end keywords.
func (p *Parser) parseEndLabel(want string) {
	if !p.at(token.Colon) {
		return
	}
	p.advance()
	label, ok := p.expectIdent("label after ':'")
	if ok && label.Name() != want {
		p.report(diag.SynLabelMismatch, diag.SevWarning, label.Span,
			"end label '"+label.Name()+"' does not match '"+want+"'")
	}
}

// parseParamPortList parses the #( ... ) module header list.
func (p *Parser) parseParamPortList() []ast.ItemID {
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after '#'"); !ok {
		return nil
	}
	var items []ast.ItemID
	local := false
	for !p.at(token.RParen) && !p.at(token.EOF) {
		start := p.peek().Span
		switch p.peek().Kind {
		case token.KwParameter:
			p.advance()
			local = false
		case token.KwLocalparam:
			p.advance()
			local = true
		}
		dt := p.parseDataType(false)
		nameTok, ok := p.expectIdent("parameter name")
		if !ok {
			p.resyncUntil(token.Comma, token.RParen)
		} else {
			init := ast.NoExprID
			if _, ok := p.expect(token.Assign, diag.SynUnexpectedToken, "expected '=' after parameter name"); ok {
				init, _ = p.parseExpr()
			}
			decl := ast.DeclData{Type: dt, Init: init, Local: local, InHeader: true}
			items = append(items, p.newDecl(ast.ItemParamDecl, start, nameTok, decl, nil))
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after parameter list"); !ok {
		p.resyncUntil(token.LParen, token.Semicolon)
	}
	return items
}

// parsePortList parses ( ... ) of a module header. The first entry decides
// between ANSI declarations and a plain list of names.
func (p *Parser) parsePortList() ([]ast.ItemID, bool) {
	p.advance() // (
	if p.eat(token.RParen) {
		return nil, false
	}
	ansi := !p.at(token.Ident)

	var (
		ports []ast.ItemID
		dir   token.Kind
		dt    ast.DataType
	)
	for !p.at(token.EOF) {
		for p.at(token.AttrOpen) {
			p.pendingAttrs = append(p.pendingAttrs, p.parseAttributes()...)
		}
		start := p.peek().Span
		if ansi {
			if isDirection(p.peek().Kind) {
				dir = p.advance().Kind
				dt = p.parseDataType(true)
			} else if p.at(token.Ident) {
				if dir == 0 {
					dir = token.KwInout
				}
			} else {
				if dir == 0 {
					dir = token.KwInout
				}
				dt = p.parseDataType(true)
			}
			nameTok, ok := p.expectIdent("port name")
			if !ok {
				p.resyncUntil(token.Comma, token.RParen)
			} else {
				decl := ast.DeclData{Direction: dir, Type: dt, Unpacked: p.parseUnpackedDims()}
				if p.eat(token.Assign) {
					decl.Init, _ = p.parseExpr()
				}
				ports = append(ports, p.newDecl(ast.ItemPortDecl, start, nameTok, decl, p.takeAttrs()))
			}
		} else {
			if isDirection(p.peek().Kind) {
				p.report(diag.SynMixedPortStyles, diag.SevError, p.peek().Span,
					"port declaration in a list of port names")
				p.resyncUntil(token.Comma, token.RParen)
			} else if nameTok, ok := p.expectIdent("port name"); ok {
				id := p.arenas.Items.New(ast.ItemPortRef, nameTok.Span, nameTok.Name(), nameTok.Span, 0)
				p.arenas.Items.Get(id).Attrs = p.takeAttrs()
				ports = append(ports, id)
			} else {
				p.resyncUntil(token.Comma, token.RParen)
			}
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after port list"); !ok {
		p.resyncUntil(token.Semicolon)
	}
	return ports, ansi
}

func isDirection(k token.Kind) bool {
	return k == token.KwInput || k == token.KwOutput || k == token.KwInout
}

func isNetKind(k token.Kind) bool {
	switch k {
	case token.KwWire, token.KwTri, token.KwWand, token.KwWor, token.KwSupply0, token.KwSupply1:
		return true
	default:
		return false
	}
}

func isDataKeyword(k token.Kind) bool {
	switch k {
	case token.KwReg, token.KwLogic, token.KwBit, token.KwInteger, token.KwInt, token.KwReal, token.KwString:
		return true
	default:
		return false
	}
}

func isGate(k token.Kind) bool {
	switch k {
	case token.KwAnd, token.KwOr, token.KwNand, token.KwNor, token.KwXor, token.KwXnor, token.KwNot, token.KwBuf:
		return true
	default:
		return false
	}
}

// parseDataType reads [net kind] [data keyword] [signed|unsigned] {[l:r]}.
// Every part is optional; the zero DataType means implicit.
func (p *Parser) parseDataType(allowNet bool) ast.DataType {
	start := p.pos
	var dt ast.DataType
	dt.Span = p.peek().Span.ZeroAt()
	if allowNet && isNetKind(p.peek().Kind) {
		dt.NetKind = p.advance().Kind
	}
	if isDataKeyword(p.peek().Kind) {
		dt.Keyword = p.advance().Kind
	}
	switch p.peek().Kind {
	case token.KwSigned:
		p.advance()
		dt.Signed = true
	case token.KwUnsigned:
		p.advance()
		dt.Unsigned = true
	}
	for p.at(token.LBracket) {
		r, ok := p.parseRange()
		if !ok {
			break
		}
		dt.Packed = append(dt.Packed, r)
	}
	if p.pos > start {
		dt.Span = p.toks[start].Span.Cover(p.lastSpan)
	}
	return dt
}

// parseRange reads [left:right].
func (p *Parser) parseRange() (ast.Range, bool) {
	open := p.advance()
	left, ok := p.parseExpr()
	if !ok {
		p.resyncUntil(token.RBracket, token.Semicolon)
		p.eat(token.RBracket)
		return ast.Range{}, false
	}
	if _, ok = p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' in packed range"); !ok {
		p.resyncUntil(token.RBracket, token.Semicolon)
		p.eat(token.RBracket)
		return ast.Range{}, false
	}
	right, ok := p.parseExpr()
	if !ok {
		p.resyncUntil(token.RBracket, token.Semicolon)
		p.eat(token.RBracket)
		return ast.Range{}, false
	}
	closeTok, ok := p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']'")
	if !ok {
		return ast.Range{}, false
	}
	return ast.Range{Left: left, Right: right, Span: open.Span.Cover(closeTok.Span)}, true
}

// parseUnpackedDims reads dimensions after a declared name. They are kept in
// the ast but the front end does not elaborate them.
func (p *Parser) parseUnpackedDims() []ast.Range {
	var dims []ast.Range
	for p.at(token.LBracket) {
		open := p.advance()
		left, ok := p.parseExpr()
		if !ok {
			p.resyncUntil(token.RBracket, token.Semicolon)
			p.eat(token.RBracket)
			continue
		}
		right := ast.NoExprID
		if p.eat(token.Colon) {
			right, _ = p.parseExpr()
		}
		closeTok, _ := p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']'")
		span := open.Span.Cover(closeTok.Span)
		p.report(diag.SynUnpackedDimIgnored, diag.SevWarning, span, "unpacked dimension is ignored")
		dims = append(dims, ast.Range{Left: left, Right: right, Span: span})
	}
	return dims
}

func (p *Parser) newDecl(kind ast.ItemKind, start source.Span, nameTok token.Token, decl ast.DeclData, attrs []ast.Attribute) ast.ItemID {
	payload := p.arenas.Items.Decls.Allocate(decl)
	id := p.arenas.Items.New(kind, start.Cover(p.lastSpan), nameTok.Name(), nameTok.Span, payload)
	p.arenas.Items.Get(id).Attrs = attrs
	return id
}

// parseAttributes parses (* name [= expr] {, name [= expr]} *).
func (p *Parser) parseAttributes() []ast.Attribute {
	p.advance() // (*
	var attrs []ast.Attribute
	for !p.at(token.AttrClose) && !p.at(token.EOF) {
		nameTok, ok := p.expectIdent("attribute name")
		if !ok {
			p.resyncUntil(token.AttrClose)
			break
		}
		attr := ast.Attribute{Name: nameTok.Name(), Span: nameTok.Span}
		if p.eat(token.Assign) {
			if attr.Value, ok = p.parseExpr(); ok {
				attr.Span = attr.Span.Cover(p.lastSpan)
			}
		}
		attrs = append(attrs, attr)
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.AttrClose, diag.SynUnexpectedToken, "expected '*)'"); !ok {
		p.resyncUntil(token.AttrClose, token.Semicolon)
		p.eat(token.AttrClose)
	}
	return attrs
}

func (p *Parser) takeAttrs() []ast.Attribute {
	attrs := p.pendingAttrs
	p.pendingAttrs = nil
	return attrs
}
