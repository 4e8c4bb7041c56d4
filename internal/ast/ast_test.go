package ast

import (
	"testing"

	"svdump/internal/source"
	"svdump/internal/token"
)

func TestArenaIsOneBased(t *testing.T) {
	a := NewArena[int](0)
	if a.Get(0) != nil || a.Get(1) != nil {
		t.Fatal("empty arena returned a value")
	}
	id := a.Allocate(7)
	if id != 1 || *a.Get(id) != 7 || a.Len() != 1 {
		t.Fatalf("allocate: id=%d len=%d", id, a.Len())
	}
}

func TestPayloadAccessorsCheckKind(t *testing.T) {
	b := NewBuilder(Hints{})
	sp := source.Span{}
	x := b.Exprs.NewIdent(sp, "a")
	y := b.Exprs.NewLiteral(sp, LitInt, "1")
	sum := b.Exprs.NewBinary(sp, token.Plus, x, y)

	if d, ok := b.Exprs.Binary(sum); !ok || d.Left != x || d.Right != y || d.Op != token.Plus {
		t.Fatalf("binary payload = %+v, %v", d, ok)
	}
	if _, ok := b.Exprs.Binary(x); ok {
		t.Fatal("ident must not read as binary")
	}
	if d, ok := b.Exprs.Ident(x); !ok || d.Name != "a" {
		t.Fatalf("ident payload = %+v", d)
	}

	rep := b.Exprs.NewReplicate(sp, y, []ExprID{x})
	if d, ok := b.Exprs.Concat(rep); !ok || d.Count != y {
		t.Fatalf("replicate payload = %+v", d)
	}

	decl := b.Items.New(ItemNetDecl, sp, "w", sp, b.Items.Decls.Allocate(DeclData{Type: DataType{NetKind: token.KwWire}}))
	if d, ok := b.Items.Decl(decl); !ok || d.Type.Implicit() {
		t.Fatalf("decl payload = %+v", d)
	}
	if _, ok := b.Items.Module(decl); ok {
		t.Fatal("net decl must not read as module")
	}
}
