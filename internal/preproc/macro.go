package preproc

import (
	"slices"

	"svdump/internal/source"
	"svdump/internal/token"
)

type macro struct {
	name string
	// params is nil for object-like macros.
	params []string
	body   []token.Token
	span   source.Span
}

func (m *macro) functionLike() bool { return m.params != nil }

func (m *macro) sameAs(o *macro) bool {
	if !slices.Equal(m.params, o.params) || len(m.body) != len(o.body) {
		return false
	}
	for i := range m.body {
		if m.body[i].Kind != o.body[i].Kind || m.body[i].Text != o.body[i].Text {
			return false
		}
	}
	return true
}

// substitute copies the body, replacing parameter identifiers with the
// argument tokens. Every produced token takes the use site span.
func (m *macro) substitute(use source.Span, leading []token.Trivia, args [][]token.Token) []token.Token {
	out := make([]token.Token, 0, len(m.body))
	for _, t := range m.body {
		if t.Kind == token.Ident && m.params != nil {
			if i := slices.Index(m.params, t.Text); i >= 0 && i < len(args) {
				for _, a := range args[i] {
					a.Span = use
					a.Expanded = true
					a.Leading = nil
					out = append(out, a)
				}
				continue
			}
		}
		t.Span = use
		t.Expanded = true
		t.Leading = nil
		out = append(out, t)
	}
	if len(out) > 0 {
		out[0].Leading = leading
	}
	return out
}
