package source

import "testing"

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 10, End: 20}
	b := Span{File: 1, Start: 5, End: 12}
	if got := a.Cover(b); got != (Span{File: 1, Start: 5, End: 20}) {
		t.Errorf("Cover = %v", got)
	}
	other := Span{File: 2, Start: 0, End: 100}
	if got := a.Cover(other); got != a {
		t.Errorf("spans from different files must not merge, got %v", got)
	}
}

func TestDetachedSpan(t *testing.T) {
	sp := Detached()
	if !sp.IsDetached() {
		t.Fatal("expected detached span")
	}
	if sp.String() != "<none>" {
		t.Errorf("String() = %q", sp.String())
	}
}

func TestInternerNormalizes(t *testing.T) {
	in := NewInterner()
	// "é" как одна руна и как e + combining acute
	id1 := in.Intern("caf\u00e9")
	id2 := in.Intern("cafe\u0301")
	if id1 != id2 {
		t.Errorf("expected NFC-equal strings to share id: %d vs %d", id1, id2)
	}
	if s := in.MustLookup(id1); s != "caf\u00e9" {
		t.Errorf("lookup = %q", s)
	}
	if _, ok := in.Lookup(StringID(99)); ok {
		t.Error("expected lookup failure")
	}
}
