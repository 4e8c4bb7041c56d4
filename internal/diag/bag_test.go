package diag

import (
	"strings"
	"testing"

	"svdump/internal/source"
)

func TestBagLimitKeepsErrors(t *testing.T) {
	bag := NewBag(2)
	sp := source.Span{File: 0, Start: 0, End: 1}

	bag.Add(New(SevWarning, SynUnexpectedToken, sp, "w1"))
	bag.Add(New(SevWarning, SynUnexpectedToken, sp, "w2"))
	if bag.Add(New(SevWarning, SynUnexpectedToken, sp, "w3")) {
		t.Error("third warning should be dropped")
	}
	if !bag.Add(NewError(SemaUndeclaredIdentifier, sp, "e1")) {
		t.Error("errors must never be dropped")
	}
	if bag.Len() != 3 || bag.Dropped() != 1 {
		t.Errorf("len=%d dropped=%d", bag.Len(), bag.Dropped())
	}
	if !bag.HasErrors() {
		t.Error("expected HasErrors")
	}
}

func TestBagExtractKeepsOrder(t *testing.T) {
	bag := NewBag(0)
	bag.Add(New(SevError, SemaError, source.Span{File: 1, Start: 50}, "b-late"))
	bag.Add(New(SevError, SemaError, source.Detached(), "nowhere"))
	bag.Add(New(SevError, SemaError, source.Span{File: 0, Start: 90}, "a-first"))
	bag.Add(New(SevError, SemaError, source.Span{File: 1, Start: 10}, "b-early"))
	bag.Add(New(SevError, SemaError, source.Span{File: 0, Start: 5}, "a-second"))

	inB := bag.Extract(func(d *Diagnostic) bool { return d.Primary.File == 1 })

	messages := func(b *Bag) string {
		var out []string
		for _, d := range b.Items() {
			out = append(out, d.Message)
		}
		return strings.Join(out, " ")
	}
	if got := messages(inB); got != "b-late b-early" {
		t.Errorf("extracted = %s", got)
	}
	if got := messages(bag); got != "nowhere a-first a-second" {
		t.Errorf("left = %s", got)
	}
}

func TestBagMergeRaisesLimit(t *testing.T) {
	a := NewBag(1)
	b := NewBag(1)
	sp := source.Span{}
	a.Add(New(SevNote, SynInfo, sp, "a"))
	b.Add(New(SevNote, SynInfo, sp, "b"))

	a.Merge(b)
	if a.Len() != 2 {
		t.Fatalf("expected 2 items after merge, got %d", a.Len())
	}
	if a.Items()[1].Message != "b" {
		t.Errorf("merge must append in order")
	}
}

func TestSeverityAndCodes(t *testing.T) {
	if !SevFatal.IsError() || !SevError.IsError() || SevWarning.IsError() {
		t.Error("IsError classification is wrong")
	}
	if got := SynUnexpectedToken.ID(); got != "SYN2001" {
		t.Errorf("ID() = %q", got)
	}
	if got := PPUndefinedMacro.ID(); got != "PP1104" {
		t.Errorf("ID() = %q", got)
	}
	if got := IOLoadFileError.ID(); got != "IO4001" {
		t.Errorf("ID() = %q", got)
	}
	if SemaUndeclaredIdentifier.Title() != "Undeclared identifier" {
		t.Errorf("Title() = %q", SemaUndeclaredIdentifier.Title())
	}
}

func TestFormatShort(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("top.sv", []byte("module top;\n  assign y = x;\nendmodule\n"))
	missing := fs.AddMissing("gone.sv")

	diags := []Diagnostic{
		NewError(SemaUndeclaredIdentifier, source.Span{File: id, Start: 25, End: 26}, "use of undeclared identifier 'x'"),
		New(SevFatal, IOLoadFileError, source.Span{File: missing}, "no such file"),
		New(SevError, SemaNoTopModules, source.Detached(), "no top-level modules"),
	}
	got := FormatShort(diags, fs)
	want := "error SEM3005 top.sv:2:14 use of undeclared identifier 'x'\n" +
		"fatal IO4001 gone.sv no such file\n" +
		"error SEM3008 - no top-level modules"
	if got != want {
		t.Errorf("FormatShort:\n%s\nwant:\n%s", got, want)
	}
}
