package lexer

import (
	"svdump/internal/diag"
	"svdump/internal/token"
)

// scanNumber handles
//
//	12  1_000  3.5  1e-3  8'hFF  8'sb1x0z  'd5  'hx  '0 '1 'x 'z
//
// Whitespace between size, base and digits is not accepted.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	if lx.cursor.Peek() != '\'' {
		lx.eatDecimal()
		if lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1)) {
			lx.cursor.Bump()
			lx.eatDecimal()
			lx.eatExponent(start)
			return token.Token{Kind: token.RealLit, Span: lx.cursor.SpanFrom(start), Text: lx.cursor.Text(start)}
		}
		if b := lx.cursor.Peek(); (b == 'e' || b == 'E') && lx.exponentFollows() {
			lx.eatExponent(start)
			return token.Token{Kind: token.RealLit, Span: lx.cursor.SpanFrom(start), Text: lx.cursor.Text(start)}
		}
		if lx.cursor.Peek() != '\'' {
			return token.Token{Kind: token.IntLit, Span: lx.cursor.SpanFrom(start), Text: lx.cursor.Text(start)}
		}
	}

	// at '\''
	b1 := lx.cursor.PeekAt(1)
	if b1 == 's' || b1 == 'S' {
		b1 = lx.cursor.PeekAt(2)
		if !isBaseChar(b1) {
			lx.cursor.Bump()
			lx.errLex(diag.LexBadNumber, lx.cursor.SpanFrom(start), "expected base after 's")
			return lx.invalid(start)
		}
		lx.cursor.Bump()
	}
	if isBaseChar(b1) {
		lx.cursor.Bump()
		lx.cursor.Bump()
		digits := lx.cursor.Mark()
		for isBasedDigit(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		if lx.cursor.Off == uint32(digits) {
			lx.errLex(diag.LexBadNumber, lx.cursor.SpanFrom(start), "missing digits in based literal")
			return lx.invalid(start)
		}
		return token.Token{Kind: token.IntLit, Span: lx.cursor.SpanFrom(start), Text: lx.cursor.Text(start)}
	}
	if uint32(start) == lx.cursor.Off {
		switch b1 {
		case '0', '1', 'x', 'X', 'z', 'Z':
			if !isIdentContinueByte(lx.cursor.PeekAt(2)) {
				lx.cursor.Bump()
				lx.cursor.Bump()
				return token.Token{Kind: token.UnbasedLit, Span: lx.cursor.SpanFrom(start), Text: lx.cursor.Text(start)}
			}
		}
	}
	lx.cursor.Bump()
	lx.errLex(diag.LexBadNumber, lx.cursor.SpanFrom(start), "malformed literal after '\\''")
	return lx.invalid(start)
}

func (lx *Lexer) eatDecimal() {
	for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
		lx.cursor.Bump()
	}
}

func (lx *Lexer) exponentFollows() bool {
	b := lx.cursor.PeekAt(1)
	if b == '+' || b == '-' {
		b = lx.cursor.PeekAt(2)
	}
	return isDec(b)
}

func (lx *Lexer) eatExponent(start Mark) {
	b := lx.cursor.Peek()
	if b != 'e' && b != 'E' {
		return
	}
	if !lx.exponentFollows() {
		lx.cursor.Bump()
		lx.errLex(diag.LexBadNumber, lx.cursor.SpanFrom(start), "expected digit after exponent")
		return
	}
	lx.cursor.Bump()
	if c := lx.cursor.Peek(); c == '+' || c == '-' {
		lx.cursor.Bump()
	}
	lx.eatDecimal()
}
