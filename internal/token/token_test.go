package token_test

import (
	"testing"

	"svdump/internal/token"
)

func TestLookupKeyword(t *testing.T) {
	cases := map[string]token.Kind{
		"module":      token.KwModule,
		"always_ff":   token.KwAlwaysFF,
		"endgenerate": token.KwEndgenerate,
		"xnor":        token.KwXnor,
	}
	for text, want := range cases {
		got, ok := token.LookupKeyword(text)
		if !ok || got != want {
			t.Fatalf("LookupKeyword(%q) = %v, %v", text, got, ok)
		}
		if !got.IsKeyword() {
			t.Fatalf("%v should be a keyword", got)
		}
	}
	if _, ok := token.LookupKeyword("Module"); ok {
		t.Fatal("keywords are case sensitive")
	}
}

func TestKindString(t *testing.T) {
	if token.KwModule.String() != "module" || token.AShr.String() != ">>>" {
		t.Fatalf("names: %q %q", token.KwModule, token.AShr)
	}
	if token.Plus.IsKeyword() || token.Ident.IsKeyword() {
		t.Fatal("operators and identifiers are not keywords")
	}
}

func TestTokenHelpers(t *testing.T) {
	esc := token.Token{Kind: token.Ident, Text: `\bus[0]`}
	if esc.Name() != "bus[0]" {
		t.Fatalf("Name = %q", esc.Name())
	}
	dir := token.Token{Kind: token.Directive, Text: "`define"}
	if dir.DirectiveName() != "define" {
		t.Fatalf("DirectiveName = %q", dir.DirectiveName())
	}
	nl := token.Token{Leading: []token.Trivia{{Kind: token.TriviaSpace}, {Kind: token.TriviaNewline}}}
	if !nl.StartsLine() {
		t.Fatal("newline trivia should start a line")
	}
	if (token.Token{Kind: token.Ident}).StartsLine() {
		t.Fatal("no trivia must not start a line")
	}
	if !(token.Token{Kind: token.UnbasedLit}).IsLiteral() {
		t.Fatal("unbased literal is a literal")
	}
}
