package diag

import (
	"testing"

	"svdump/internal/source"
)

func TestReportBuilderEmitsOnce(t *testing.T) {
	var got []Diagnostic
	rep := ReporterFunc(func(d Diagnostic) { got = append(got, d) })
	sp := source.Span{File: 1, Start: 4, End: 9}

	b := ReportError(rep, SemaDuplicateSymbol, sp, "dup").WithNote(sp, "previous declaration is here")
	b.Emit()
	b.Emit()

	if len(got) != 1 {
		t.Fatalf("emitted %d times", len(got))
	}
	if got[0].Severity != SevError || len(got[0].Notes) != 1 || got[0].Primary != sp {
		t.Errorf("diagnostic = %+v", got[0])
	}
}

func TestNilReportersAreQuiet(t *testing.T) {
	var nb *ReportBuilder
	nb.WithNote(source.Span{}, "x").Emit()

	ReportWarning(nil, SemaError, source.Span{}, "no sink").Emit()
	(&BagReporter{}).Report(New(SevError, SemaError, source.Span{}, "no bag"))

	bag := NewBag(0)
	ReportWarning(&BagReporter{Bag: bag}, SemaError, source.Span{}, "kept").Emit()
	if bag.Len() != 1 {
		t.Errorf("bag len = %d", bag.Len())
	}
}
