package parser

import (
	"svdump/internal/ast"
	"svdump/internal/diag"
	"svdump/internal/source"
	"svdump/internal/token"
)

// parseExpr - главная точка входа для парсинга выражений.
// Условный оператор правоассоциативен и имеет наименьший приоритет.
func (p *Parser) parseExpr() (ast.ExprID, bool) {
	cond, ok := p.parseBinaryExpr(precLogicalOr)
	if !ok {
		return ast.NoExprID, false
	}
	if !p.at(token.Question) {
		return cond, true
	}
	p.advance()
	then, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	if _, ok = p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' in conditional expression"); !ok {
		return ast.NoExprID, false
	}
	els, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	span := p.exprSpan(cond).Cover(p.exprSpan(els))
	return p.arenas.Exprs.NewTernary(span, cond, then, els), true
}

// parseBinaryExpr реализует Pratt parsing для бинарных операторов
// minPrec - минимальный приоритет для текущего уровня
func (p *Parser) parseBinaryExpr(minPrec int) (ast.ExprID, bool) {
	left, ok := p.parseUnaryExpr()
	if !ok {
		return ast.NoExprID, false
	}

	for {
		prec, isRightAssoc := getBinaryOperatorPrec(p.peek().Kind)
		if prec < minPrec {
			break // приоритет слишком низкий
		}
		opTok := p.advance()

		nextMinPrec := prec + 1
		if isRightAssoc {
			nextMinPrec = prec
		}
		right, ok := p.parseBinaryExpr(nextMinPrec)
		if !ok {
			return ast.NoExprID, false
		}
		span := p.exprSpan(left).Cover(p.exprSpan(right))
		left = p.arenas.Exprs.NewBinary(span, opTok.Kind, left, right)
	}
	return left, true
}

// parseUnaryExpr обрабатывает унарные операторы (префиксы)
func (p *Parser) parseUnaryExpr() (ast.ExprID, bool) {
	var prefixes []token.Token
	for isUnaryOperator(p.peek().Kind) {
		prefixes = append(prefixes, p.advance())
	}

	operand, ok := p.parsePostfixExpr()
	if !ok {
		return ast.NoExprID, false
	}
	// применяем префиксы справа налево
	for i := len(prefixes) - 1; i >= 0; i-- {
		span := prefixes[i].Span.Cover(p.exprSpan(operand))
		operand = p.arenas.Exprs.NewUnary(span, prefixes[i].Kind, operand)
	}
	return operand, true
}

// parsePostfixExpr handles bit, part and indexed part selects.
func (p *Parser) parsePostfixExpr() (ast.ExprID, bool) {
	x, ok := p.parsePrimaryExpr()
	if !ok {
		return ast.NoExprID, false
	}
	for p.at(token.LBracket) {
		if x, ok = p.parseSelect(x); !ok {
			return ast.NoExprID, false
		}
	}
	return x, true
}

func (p *Parser) parseSelect(x ast.ExprID) (ast.ExprID, bool) {
	p.advance() // [
	first, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	mode := p.peek().Kind
	var second ast.ExprID
	switch mode {
	case token.Colon, token.PlusColon, token.MinusColon:
		p.advance()
		if second, ok = p.parseExpr(); !ok {
			return ast.NoExprID, false
		}
	}
	closeTok, ok := p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']'")
	if !ok {
		return ast.NoExprID, false
	}
	span := p.exprSpan(x).Cover(closeTok.Span)
	if second == ast.NoExprID {
		return p.arenas.Exprs.NewIndex(span, x, first), true
	}
	return p.arenas.Exprs.NewRange(span, x, mode, first, second), true
}

func (p *Parser) parsePrimaryExpr() (ast.ExprID, bool) {
	tok := p.peek()
	exprs := p.arenas.Exprs
	switch tok.Kind {
	case token.Ident:
		p.advance()
		return exprs.NewIdent(tok.Span, tok.Name()), true
	case token.SystemIdent:
		return p.parseSystemCall()
	case token.IntLit:
		p.advance()
		return exprs.NewLiteral(tok.Span, ast.LitInt, tok.Text), true
	case token.UnbasedLit:
		p.advance()
		return exprs.NewLiteral(tok.Span, ast.LitUnbased, tok.Text), true
	case token.RealLit:
		p.advance()
		return exprs.NewLiteral(tok.Span, ast.LitReal, tok.Text), true
	case token.StringLit:
		p.advance()
		return exprs.NewLiteral(tok.Span, ast.LitString, tok.Text), true
	case token.LParen:
		p.advance()
		x, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		if _, ok = p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'"); !ok {
			return ast.NoExprID, false
		}
		return x, true
	case token.LBrace:
		return p.parseConcat()
	default:
		p.err(diag.SynExpectExpression, "expected expression, found "+describe(tok))
		return ast.NoExprID, false
	}
}

// parseSystemCall parses $name or $name(args).
func (p *Parser) parseSystemCall() (ast.ExprID, bool) {
	nameTok := p.advance()
	span := nameTok.Span
	var args []ast.ExprID
	if p.at(token.LParen) {
		p.advance()
		if !p.at(token.RParen) {
			list, ok := p.parseExprList()
			if !ok {
				return ast.NoExprID, false
			}
			args = list
		}
		closeTok, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after arguments")
		if !ok {
			return ast.NoExprID, false
		}
		span = span.Cover(closeTok.Span)
	}
	return p.arenas.Exprs.NewCall(span, nameTok.Text, args), true
}

// parseConcat parses {a, b} and {n{a, b}}.
func (p *Parser) parseConcat() (ast.ExprID, bool) {
	openTok := p.advance()
	first, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	if p.at(token.LBrace) {
		p.advance()
		items, ok := p.parseExprList()
		if !ok {
			return ast.NoExprID, false
		}
		if _, ok = p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' in replication"); !ok {
			return ast.NoExprID, false
		}
		closeTok, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' after replication")
		if !ok {
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.NewReplicate(openTok.Span.Cover(closeTok.Span), first, items), true
	}
	items := []ast.ExprID{first}
	for p.eat(token.Comma) {
		x, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		items = append(items, x)
	}
	closeTok, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' in concatenation")
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewConcat(openTok.Span.Cover(closeTok.Span), items), true
}

func (p *Parser) parseExprList() ([]ast.ExprID, bool) {
	var list []ast.ExprID
	for {
		x, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		list = append(list, x)
		if !p.eat(token.Comma) {
			return list, true
		}
	}
}

func (p *Parser) exprSpan(id ast.ExprID) source.Span {
	if e := p.arenas.Exprs.Get(id); e != nil {
		return e.Span
	}
	return p.lastSpan
}
