package lexer

import (
	"svdump/internal/diag"
	"svdump/internal/token"
)

// ops is ordered longest first within each leading byte.
var ops = []struct {
	text string
	kind token.Kind
}{
	{"<<<", token.AShl},
	{">>>", token.AShr},
	{"===", token.CaseEq},
	{"!==", token.CaseNeq},
	{"**", token.Power},
	{"==", token.EqEq},
	{"!=", token.BangEq},
	{"<=", token.LtEq},
	{">=", token.GtEq},
	{"&&", token.AndAnd},
	{"||", token.OrOr},
	{"~&", token.TildeAmp},
	{"~|", token.TildePipe},
	{"~^", token.TildeCaret},
	{"^~", token.TildeCaret},
	{"<<", token.Shl},
	{">>", token.Shr},
	{"+:", token.PlusColon},
	{"-:", token.MinusColon},
	{"(*", token.AttrOpen},
	{"*)", token.AttrClose},
	{"+", token.Plus},
	{"-", token.Minus},
	{"*", token.Star},
	{"/", token.Slash},
	{"%", token.Percent},
	{"<", token.Lt},
	{">", token.Gt},
	{"!", token.Bang},
	{"~", token.Tilde},
	{"&", token.Amp},
	{"|", token.Pipe},
	{"^", token.Caret},
	{"?", token.Question},
	{":", token.Colon},
	{"=", token.Assign},
	{"(", token.LParen},
	{")", token.RParen},
	{"[", token.LBracket},
	{"]", token.RBracket},
	{"{", token.LBrace},
	{"}", token.RBrace},
	{",", token.Comma},
	{";", token.Semicolon},
	{".", token.Dot},
	{"#", token.Hash},
	{"@", token.At},
}

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	rest := lx.file.Content[lx.cursor.Off:]
	for _, op := range ops {
		if len(rest) < len(op.text) || string(rest[:len(op.text)]) != op.text {
			continue
		}
		kind := op.kind
		// @(*) is an implicit event list, not an attribute bracket.
		if kind == token.AttrOpen && len(rest) > 2 && rest[2] == ')' {
			kind = token.LParen
		}
		// .*) is a wildcard connection followed by ')'.
		if kind == token.AttrClose && (lx.prev == token.LParen || lx.prev == token.Dot) {
			kind = token.Star
		}
		n := len(op.text)
		if kind == token.LParen || kind == token.Star {
			n = 1
		}
		for range n {
			lx.cursor.Bump()
		}
		return token.Token{Kind: kind, Span: lx.cursor.SpanFrom(start), Text: lx.cursor.Text(start)}
	}

	lx.bumpRune()
	lx.errLex(diag.LexUnknownChar, lx.cursor.SpanFrom(start), "unknown character")
	return lx.invalid(start)
}

// bumpRune consumes one UTF-8 sequence so that errors cover whole characters.
func (lx *Lexer) bumpRune() {
	b := lx.cursor.Bump()
	if b < 0x80 {
		return
	}
	for !lx.cursor.EOF() && lx.cursor.Peek()&0xC0 == 0x80 {
		lx.cursor.Bump()
	}
}
