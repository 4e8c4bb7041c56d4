package lexer

import (
	"svdump/internal/diag"
	"svdump/internal/token"
)

// scanIdentOrKeyword сканирует [Ident] и проверяет через LookupKeyword.
// Ключевые слова регистрозависимые. Token.Text - ровно исходный срез.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	text := lx.cursor.Text(start)
	if k, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: k, Span: sp, Text: text}
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: text}
}

// scanEscapedIdent reads "\" followed by any printable run up to whitespace.
func (lx *Lexer) scanEscapedIdent() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if isSpace(b) || b == '\n' {
			break
		}
		lx.cursor.Bump()
	}
	if lx.cursor.Off-uint32(start) == 1 {
		lx.errLex(diag.LexBadEscapedIdent, lx.cursor.SpanFrom(start), "empty escaped identifier")
		return lx.invalid(start)
	}
	return token.Token{Kind: token.Ident, Span: lx.cursor.SpanFrom(start), Text: lx.cursor.Text(start)}
}

func (lx *Lexer) scanSystemIdent() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	if !isIdentStartByte(lx.cursor.Peek()) {
		lx.errLex(diag.LexUnknownChar, lx.cursor.SpanFrom(start), "'$' must start a system name")
		return lx.invalid(start)
	}
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	return token.Token{Kind: token.SystemIdent, Span: lx.cursor.SpanFrom(start), Text: lx.cursor.Text(start)}
}

func (lx *Lexer) scanDirective() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	if !isIdentStartByte(lx.cursor.Peek()) {
		lx.errLex(diag.LexUnknownChar, lx.cursor.SpanFrom(start), "'`' must start a directive or macro name")
		return lx.invalid(start)
	}
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	return token.Token{Kind: token.Directive, Span: lx.cursor.SpanFrom(start), Text: lx.cursor.Text(start)}
}
