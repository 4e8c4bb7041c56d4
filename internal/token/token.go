package token

import (
	"strings"

	"svdump/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
	// Expanded marks tokens produced by macro substitution.
	Expanded bool
}

// IsLiteral reports whether the token is a numeric or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, UnbasedLit, RealLit, StringLit:
		return true
	default:
		return false
	}
}

func (t Token) IsIdent() bool { return t.Kind == Ident }

// StartsLine reports whether a newline separates t from the previous token.
func (t Token) StartsLine() bool {
	for _, tr := range t.Leading {
		if tr.Kind == TriviaNewline {
			return true
		}
	}
	return false
}

// Name is the identifier text with the escape backslash removed.
func (t Token) Name() string {
	if t.Kind == Ident && strings.HasPrefix(t.Text, `\`) {
		return t.Text[1:]
	}
	return t.Text
}

// DirectiveName is the name of a Directive token without the backtick.
func (t Token) DirectiveName() string {
	return strings.TrimPrefix(t.Text, "`")
}
