package lexer_test

import (
	"testing"

	"svdump/internal/diag"
	"svdump/internal/lexer"
	"svdump/internal/source"
	"svdump/internal/token"
)

func lexAll(t *testing.T, src string) ([]token.Token, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.sv", []byte(src))
	bag := diag.NewBag(50)
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: &diag.BagReporter{Bag: bag}})
	return lx.All(), bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(toks))
	for _, tk := range toks {
		out = append(out, tk.Kind)
	}
	return out
}

func expectKinds(t *testing.T, src string, want ...token.Kind) []token.Token {
	t.Helper()
	toks, bag := lexAll(t, src)
	if bag.HasErrors() {
		t.Fatalf("%q: unexpected diagnostics: %v", src, bag.Items())
	}
	want = append(want, token.EOF)
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("%q: got %v, want %v", src, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%q: token %d = %v, want %v (all %v)", src, i, got[i], want[i], got)
		}
	}
	return toks
}

func TestModuleHeader(t *testing.T) {
	toks := expectKinds(t, "module top(input wire [7:0] a, output logic y);",
		token.KwModule, token.Ident, token.LParen, token.KwInput, token.KwWire,
		token.LBracket, token.IntLit, token.Colon, token.IntLit, token.RBracket, token.Ident,
		token.Comma, token.KwOutput, token.KwLogic, token.Ident, token.RParen, token.Semicolon)
	if toks[1].Text != "top" || toks[1].Span.Start != 7 || toks[1].Span.End != 10 {
		t.Fatalf("ident token = %+v", toks[1])
	}
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		src  string
		kind token.Kind
	}{
		{"12", token.IntLit},
		{"1_000", token.IntLit},
		{"8'hFF", token.IntLit},
		{"4'sb1x0z", token.IntLit},
		{"'d5", token.IntLit},
		{"16'h?", token.IntLit},
		{"'0", token.UnbasedLit},
		{"'z", token.UnbasedLit},
		{"3.25", token.RealLit},
		{"1e-3", token.RealLit},
		{"2.5E+2", token.RealLit},
	}
	for _, tt := range tests {
		toks := expectKinds(t, tt.src, tt.kind)
		if toks[0].Text != tt.src {
			t.Errorf("%q: text = %q", tt.src, toks[0].Text)
		}
	}
}

func TestBadNumbers(t *testing.T) {
	for _, src := range []string{"8'h", "'q", "4'sq1"} {
		_, bag := lexAll(t, src)
		if !bag.HasErrors() || bag.Items()[0].Code != diag.LexBadNumber {
			t.Errorf("%q: expected LexBadNumber, got %v", src, bag.Items())
		}
	}
}

func TestOperatorsLongestMatch(t *testing.T) {
	expectKinds(t, "a <<< 2 >>> b === c !== d ** e ~^ f ^~ g <= h",
		token.Ident, token.AShl, token.IntLit, token.AShr, token.Ident, token.CaseEq,
		token.Ident, token.CaseNeq, token.Ident, token.Power, token.Ident, token.TildeCaret,
		token.Ident, token.TildeCaret, token.Ident, token.LtEq, token.Ident)
	expectKinds(t, "x[i +: 4] y[j -: 2]",
		token.Ident, token.LBracket, token.Ident, token.PlusColon, token.IntLit, token.RBracket,
		token.Ident, token.LBracket, token.Ident, token.MinusColon, token.IntLit, token.RBracket)
}

func TestImplicitEventVersusAttribute(t *testing.T) {
	expectKinds(t, "always @(*)", token.KwAlways, token.At, token.LParen, token.Star, token.RParen)
	expectKinds(t, "(* keep *) wire w;", token.AttrOpen, token.Ident, token.AttrClose, token.KwWire, token.Ident, token.Semicolon)
	expectKinds(t, "u(.*)", token.Ident, token.LParen, token.Dot, token.Star, token.RParen)
}

func TestIdentifiers(t *testing.T) {
	toks := expectKinds(t, "\\bus[0]  $clog2 `define n$1", token.Ident, token.SystemIdent, token.Directive, token.Ident)
	if toks[0].Name() != "bus[0]" || toks[1].Text != "$clog2" || toks[2].DirectiveName() != "define" || toks[3].Text != "n$1" {
		t.Fatalf("texts: %q %q %q %q", toks[0].Text, toks[1].Text, toks[2].Text, toks[3].Text)
	}
}

func TestTriviaAndComments(t *testing.T) {
	toks := expectKinds(t, "a // line\n/* block\n */ b \\\n c", token.Ident, token.Ident, token.Ident)
	if !toks[1].StartsLine() {
		t.Fatal("b follows a newline")
	}
	if toks[2].StartsLine() {
		t.Fatal("a continuation is not a newline")
	}
	var hasCont bool
	for _, tr := range toks[2].Leading {
		if tr.Kind == token.TriviaContinuation {
			hasCont = true
		}
	}
	if !hasCont {
		t.Fatalf("missing continuation trivia: %+v", toks[2].Leading)
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		src  string
		code diag.Code
	}{
		{`"open`, diag.LexUnterminatedString},
		{"\"a\nb\"", diag.LexUnterminatedString},
		{"/* never closed", diag.LexUnterminatedBlockComment},
		{"a § b", diag.LexUnknownChar},
		{"$ 1", diag.LexUnknownChar},
	}
	for _, tt := range tests {
		_, bag := lexAll(t, tt.src)
		if bag.Len() == 0 || bag.Items()[0].Code != tt.code {
			t.Errorf("%q: got %v, want code %v", tt.src, bag.Items(), tt.code)
		}
	}
}

func TestTokenLimit(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("big.sv", []byte("a b c d e f"))
	bag := diag.NewBag(10)
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: &diag.BagReporter{Bag: bag}, MaxTokens: 3})
	toks := lx.All()
	if len(toks) != 4 || toks[3].Kind != token.EOF {
		t.Fatalf("got %v", kinds(toks))
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.LexTokenLimit {
		t.Fatalf("diagnostics: %v", bag.Items())
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("p.sv", []byte("x y"))
	lx := lexer.New(fs.Get(id), lexer.Options{})
	if lx.Peek().Text != "x" || lx.Next().Text != "x" || lx.Next().Text != "y" {
		t.Fatal("peek/next mismatch")
	}
	if lx.Next().Kind != token.EOF || lx.Next().Kind != token.EOF {
		t.Fatal("EOF must repeat")
	}
}
