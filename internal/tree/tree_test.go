package tree

import (
	"testing"

	"svdump/internal/logic"
)

func TestAddChildRecordsFirstOwner(t *testing.T) {
	tr := New(4)
	a := tr.Add(KindRoot)
	b := tr.Add(KindInstance)
	c := tr.Add(KindInstance)
	tr.AddChild(a, c)
	tr.AddChild(b, c)

	if got := tr.Get(c).Owner; got != a {
		t.Fatalf("owner = %d, want %d", got, a)
	}
	if len(tr.Get(b).Children) != 1 {
		t.Fatalf("second parent lost its child slot")
	}
	if tr.Owned(a) {
		t.Fatalf("root must be unowned")
	}
}

func TestGetOutOfRange(t *testing.T) {
	tr := New(0)
	if tr.Get(NoNodeID) != nil || tr.Get(1) != nil {
		t.Fatal("expected nil for ids outside the arena")
	}
	id := tr.Add(KindNet)
	if id != 1 || tr.Get(id) == nil {
		t.Fatalf("first id = %d", id)
	}
}

func TestSetAttrReplacesInPlace(t *testing.T) {
	tr := New(1)
	id := tr.Add(KindParameter)
	tr.SetAttr(id, "name", String("W"))
	tr.SetAttr(id, "value", Constant(logic.FromInt64(8, 32, true)))
	tr.SetAttr(id, "name", String("WIDTH"))

	n := tr.Get(id)
	if len(n.Attrs) != 2 || n.Attrs[0].Name != "name" || n.Attrs[0].Value.Str != "WIDTH" {
		t.Fatalf("attrs = %+v", n.Attrs)
	}
	if v, ok := n.Attr("value"); !ok || v.Const.Width() != 32 {
		t.Fatalf("value attr = %+v ok=%v", v, ok)
	}
}

func TestRefPolicyTable(t *testing.T) {
	expand := map[RefKind]bool{RefType: true, RefElementType: true, RefNetType: true}
	for k := RefKind(0); k < refKindCount; k++ {
		want := PolicyPointer
		if expand[k] {
			want = PolicyExpandFirst
		}
		if k.Policy() != want {
			t.Errorf("%s: policy = %d, want %d", k, k.Policy(), want)
		}
		if k.String() == "" || k.String() == "unknown" {
			t.Errorf("ref kind %d has no name", k)
		}
	}
}

func TestKindTableComplete(t *testing.T) {
	seen := map[string]Kind{}
	for k := Kind(0); k < kindCount; k++ {
		name := k.Info().Name
		if name == "" {
			t.Fatalf("kind %d has no name", k)
		}
		if prev, dup := seen[name]; dup {
			t.Fatalf("kind name %q used by %d and %d", name, prev, k)
		}
		seen[name] = k
	}
	if !KindPackedArrayType.IsType() || KindNet.IsType() {
		t.Fatal("category mismatch")
	}
	if !KindNet.Allows("name") || KindNet.Allows("width") {
		t.Fatal("schema lookup mismatch")
	}
}
