package tree

import (
	"fmt"

	"fortio.org/safecast"
)

// NodeID addresses a node in a Tree. Ids are 1-based; 0 means none.
type NodeID uint32

const NoNodeID NodeID = 0

func (id NodeID) IsValid() bool { return id != NoNodeID }

// Location is a source range. The zero value means "no location".
type Location struct {
	File      string
	Line      uint32
	Column    uint32
	EndLine   uint32
	EndColumn uint32
}

func (l Location) IsZero() bool {
	return l == Location{}
}

// Node is a single program tree element.
type Node struct {
	Kind     Kind
	Owner    NodeID
	Children []NodeID
	Refs     []Ref
	Attrs    []Attr
	Loc      Location
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (Value, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return Value{}, false
}

// Ref returns the first reference of kind k.
func (n *Node) Ref(k RefKind) (NodeID, bool) {
	for _, r := range n.Refs {
		if r.Kind == k {
			return r.Target, true
		}
	}
	return NoNodeID, false
}

// Tree owns every node of one compilation.
type Tree struct {
	nodes []Node
}

func New(capHint uint) *Tree {
	return &Tree{nodes: make([]Node, 0, capHint)}
}

// Add allocates a node of the given kind and returns its id.
func (t *Tree) Add(kind Kind) NodeID {
	t.nodes = append(t.nodes, Node{Kind: kind})
	id, err := safecast.Conv[NodeID](len(t.nodes))
	if err != nil {
		panic(fmt.Errorf("tree overflow: %w", err))
	}
	return id
}

// Get returns the node or nil when id is outside the arena.
func (t *Tree) Get(id NodeID) *Node {
	if !t.Contains(id) {
		return nil
	}
	return &t.nodes[id-1]
}

func (t *Tree) Contains(id NodeID) bool {
	return id != NoNodeID && int(id) <= len(t.nodes)
}

// Len reports the number of allocated nodes.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// AddChild appends child to parent's ordered children and records the
// owner. The first owner wins; a second AddChild of the same child is
// kept so that the serializer can report it.
func (t *Tree) AddChild(parent, child NodeID) {
	p := t.Get(parent)
	if p == nil {
		panic(fmt.Sprintf("tree: AddChild on unknown parent %d", parent))
	}
	p.Children = append(p.Children, child)
	if c := t.Get(child); c != nil && c.Owner == NoNodeID {
		c.Owner = parent
	}
}

// AddRef appends a non-owning reference.
func (t *Tree) AddRef(id NodeID, kind RefKind, target NodeID) {
	n := t.Get(id)
	if n == nil {
		panic(fmt.Sprintf("tree: AddRef on unknown node %d", id))
	}
	n.Refs = append(n.Refs, Ref{Kind: kind, Target: target})
}

// SetAttr sets or replaces an attribute, keeping first-set order.
func (t *Tree) SetAttr(id NodeID, name string, v Value) {
	n := t.Get(id)
	if n == nil {
		panic(fmt.Sprintf("tree: SetAttr on unknown node %d", id))
	}
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			n.Attrs[i].Value = v
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: v})
}

func (t *Tree) SetLoc(id NodeID, loc Location) {
	if n := t.Get(id); n != nil {
		n.Loc = loc
	}
}

// Owned reports whether id has an owning parent.
func (t *Tree) Owned(id NodeID) bool {
	n := t.Get(id)
	return n != nil && n.Owner != NoNodeID
}
