package preproc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"svdump/internal/diag"
	"svdump/internal/lexer"
	"svdump/internal/source"
	"svdump/internal/token"
)

type result struct {
	toks []token.Token
	bag  *diag.Bag
	fs   *source.FileSet
}

func (r result) text() string {
	parts := make([]string, 0, len(r.toks))
	for _, t := range r.toks {
		if t.Kind == token.EOF {
			break
		}
		parts = append(parts, t.Text)
	}
	return strings.Join(parts, " ")
}

func run(t *testing.T, path, src string, opts Options) result {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.Add(path, []byte(src), 0)
	pp := New(fs, opts)
	bag := diag.NewBag(50)
	toks := lexer.New(fs.Get(id), lexer.Options{}).All()
	out := pp.Process(toks, &diag.BagReporter{Bag: bag})
	if out[len(out)-1].Kind != token.EOF {
		t.Fatal("EOF token lost")
	}
	return result{toks: out, bag: bag, fs: fs}
}

func TestObjectMacro(t *testing.T) {
	r := run(t, "a.sv", "`define W 8\nwire [`W-1:0] x;\n`undef W\n`ifdef W bad `endif", Options{})
	if r.bag.Len() != 0 {
		t.Fatalf("diagnostics: %v", r.bag.Items())
	}
	if got := r.text(); got != "wire [ 8 - 1 : 0 ] x ;" {
		t.Fatalf("got %q", got)
	}
	for _, tk := range r.toks {
		if tk.Text == "8" && !tk.Expanded {
			t.Fatal("expanded token not marked")
		}
	}
}

func TestFunctionMacro(t *testing.T) {
	src := "`define MAX(a, b) ((a) > (b) ? (a) : (b))\nassign y = `MAX(p, f(q, r));"
	r := run(t, "a.sv", src, Options{})
	if r.bag.Len() != 0 {
		t.Fatalf("diagnostics: %v", r.bag.Items())
	}
	want := "assign y = ( ( p ) > ( f ( q , r ) ) ? ( p ) : ( f ( q , r ) ) ) ;"
	if got := r.text(); got != want {
		t.Fatalf("got  %q\nwant %q", got, want)
	}
}

func TestSpaceBeforeParenMakesObjectMacro(t *testing.T) {
	r := run(t, "a.sv", "`define P (1)\nx = `P;", Options{})
	if got := r.text(); got != "x = ( 1 ) ;" {
		t.Fatalf("got %q", got)
	}
}

func TestConditionals(t *testing.T) {
	src := "`define FAST\n" +
		"`ifdef SLOW a `elsif FAST b `else c `endif\n" +
		"`ifndef FAST d `else e `endif\n" +
		"`ifdef NONE `ifdef FAST f `endif `else g `endif"
	r := run(t, "a.sv", src, Options{})
	if r.bag.Len() != 0 {
		t.Fatalf("diagnostics: %v", r.bag.Items())
	}
	if got := r.text(); got != "b e g" {
		t.Fatalf("got %q", got)
	}
}

func TestCommandLineDefines(t *testing.T) {
	d, err := ParseDefine("WIDTH=16")
	if err != nil {
		t.Fatal(err)
	}
	flag, err := ParseDefine("SIM")
	if err != nil || flag.Value != "1" {
		t.Fatalf("bare define = %+v, %v", flag, err)
	}
	if _, err := ParseDefine("1BAD=2"); err == nil {
		t.Fatal("expected invalid name error")
	}
	r := run(t, "a.sv", "`ifdef SIM x = `WIDTH; `endif", Options{Defines: []Define{d, flag}})
	if got := r.text(); got != "x = 16 ;" {
		t.Fatalf("got %q", got)
	}
}

func TestDirectiveErrors(t *testing.T) {
	tests := []struct {
		src  string
		code diag.Code
	}{
		{"`endif", diag.PPUnbalancedEndif},
		{"`ifdef A\nx", diag.PPUnterminatedIfdef},
		{"`ifdef\nx `endif", diag.PPExpectMacroName},
		{"x = `NOPE;", diag.PPUndefinedMacro},
		{"`define L `L\n`L", diag.PPRecursiveMacro},
		{"`define F(a) a\n`F(1, 2)", diag.PPMacroArgCount},
		{"`include \"missing.svh\"", diag.PPIncludeNotFound},
		{"`pragma protect", diag.PPIgnoredDirective},
	}
	for _, tt := range tests {
		r := run(t, "a.sv", tt.src, Options{})
		if r.bag.Len() == 0 || r.bag.Items()[0].Code != tt.code {
			t.Errorf("%q: got %v, want %v", tt.src, r.bag.Items(), tt.code)
		}
	}
}

func TestIgnoredDirectivesEatTheirLine(t *testing.T) {
	r := run(t, "a.sv", "`timescale 1ns / 1ps\n`default_nettype none\nmodule m; endmodule", Options{})
	if r.bag.Len() != 0 {
		t.Fatalf("diagnostics: %v", r.bag.Items())
	}
	if got := r.text(); got != "module m ; endmodule" {
		t.Fatalf("got %q", got)
	}
}

func TestRedefinitionWarns(t *testing.T) {
	r := run(t, "a.sv", "`define A 1\n`define A 1\n`define A 2\n", Options{})
	if r.bag.Len() != 1 || r.bag.Items()[0].Severity != diag.SevWarning || len(r.bag.Items()[0].Notes) != 1 {
		t.Fatalf("diagnostics: %v", r.bag.Items())
	}
}

func TestIncludeSearchOrder(t *testing.T) {
	dir := t.TempDir()
	incDir := filepath.Join(dir, "inc")
	if err := os.MkdirAll(incDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(incDir, "defs.svh"), []byte("`define DEPTH 4\nlocalparam D = `DEPTH;\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "local.svh"), []byte("wire l;"), 0o600); err != nil {
		t.Fatal(err)
	}
	src := "`include \"local.svh\"\n`include \"defs.svh\"\nx = `DEPTH;"
	r := run(t, filepath.Join(dir, "top.sv"), src, Options{IncludeDirs: []string{incDir}})
	if r.bag.Len() != 0 {
		t.Fatalf("diagnostics: %v", r.bag.Items())
	}
	if got := r.text(); got != "wire l ; localparam D = 4 ; x = 4 ;" {
		t.Fatalf("got %q", got)
	}
	if r.fs.Len() != 3 {
		t.Fatalf("expected the two includes to be registered, have %d files", r.fs.Len())
	}
	for id := source.FileID(1); id < 3; id++ {
		if got := r.fs.Origin(id); got != 0 {
			t.Errorf("include %s: origin = %d", r.fs.Get(id).Path, got)
		}
	}
}

func TestIncludeDepthLimit(t *testing.T) {
	dir := t.TempDir()
	self := filepath.Join(dir, "self.svh")
	if err := os.WriteFile(self, []byte("`include \"self.svh\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	r := run(t, filepath.Join(dir, "top.sv"), "`include \"self.svh\"", Options{MaxIncludeDepth: 3})
	if r.bag.Len() != 1 || r.bag.Items()[0].Code != diag.PPIncludeDepth {
		t.Fatalf("diagnostics: %v", r.bag.Items())
	}
}

func TestFileAndLineMacros(t *testing.T) {
	r := run(t, "dir/a.sv", "\n\nx = `__LINE__; s = `__FILE__;", Options{})
	if got := r.text(); got != `x = 3 ; s = "dir/a.sv" ;` {
		t.Fatalf("got %q", got)
	}
}
