// Package serialize turns a program tree into a document.
//
// Traversal follows ownership edges only, depth-first and pre-order, on an
// explicit work stack. Every node is expanded at most once. References are
// emitted as {"ref": id} pointers, except that a reference whose kind has
// tree.PolicyExpandFirst expands its target in place the first time it is
// met, provided the target has no owner.
//
// Identifiers "$0", "$1", ... are handed out on first encounter: when a
// child is taken off the stack, when an expand-first reference is
// scheduled, or when a pointer names a node not seen yet.
package serialize

import (
	"path/filepath"
	"strconv"

	"fortio.org/safecast"

	"svdump/internal/document"
	"svdump/internal/logic"
	"svdump/internal/tree"
)

type nodeState uint8

const (
	stateUnseen nodeState = iota
	// stateNamed: an id is assigned but no expansion is queued yet.
	stateNamed
	// stateQueued: an expansion is on the stack or done.
	stateQueued
)

// entry is one pending expansion of a node.
type entry struct {
	node     tree.NodeID
	refs     []refOut
	children []*entry
	out      document.Value
}

type refOut struct {
	kind tree.RefKind
	ptr  string
	exp  *entry
}

type serializer struct {
	t     *tree.Tree
	opts  Options
	state []nodeState
	ids   []string
	next  uint64
	// forward holds pointers that named a node before its expansion was
	// queued, in naming order.
	forward []forwardRef
}

// forwardRef is the first pointer that named a not-yet-queued node.
type forwardRef struct {
	from   tree.NodeID
	kind   tree.RefKind
	target tree.NodeID
}

// Serialize walks t from root. A malformed tree yields an
// *InvariantViolation and no document.
func Serialize(t *tree.Tree, root tree.NodeID, opts Options) (document.Value, error) {
	if t == nil || !t.Contains(root) {
		return document.Value{}, &InvariantViolation{Kind: InvalidRoot, Node: root, Detail: "root is not in the tree"}
	}
	if owner := t.Get(root).Owner; owner != tree.NoNodeID {
		return document.Value{}, &InvariantViolation{Kind: InvalidRoot, Node: root, Target: owner, Detail: "root has an owner"}
	}

	s := &serializer{
		t:     t,
		opts:  opts,
		state: make([]nodeState, t.Len()+1),
		ids:   make([]string, t.Len()+1),
	}
	order, err := s.walk(root)
	if err != nil {
		return document.Value{}, err
	}
	for _, f := range s.forward {
		if s.state[f.target] != stateQueued {
			return document.Value{}, &InvariantViolation{
				Kind:   DanglingReference,
				Node:   f.from,
				Target: f.target,
				Edge:   f.kind.String(),
				Detail: "pointer target " + s.ids[f.target] + " is never reached through ownership",
			}
		}
	}
	// order is pre-order, so every sub-entry is built before its parent.
	for i := len(order) - 1; i >= 0; i-- {
		s.build(order[i])
	}
	return order[0].out, nil
}

func (s *serializer) name(id tree.NodeID) string {
	if s.ids[id] == "" {
		s.ids[id] = "$" + strconv.FormatUint(s.next, 10)
		s.next++
	}
	return s.ids[id]
}

func (s *serializer) walk(root tree.NodeID) ([]*entry, error) {
	rootEntry := &entry{node: root}
	s.state[root] = stateQueued
	stack := []*entry{rootEntry}
	var order []*entry

	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, e)
		s.name(e.node)

		n := s.t.Get(e.node)
		var expansions []*entry
		for _, r := range n.Refs {
			if !s.t.Contains(r.Target) {
				return nil, &InvariantViolation{Kind: DanglingReference, Node: e.node, Target: r.Target, Edge: r.Kind.String(), Detail: "target outside the tree"}
			}
			if r.Kind.Policy() == tree.PolicyExpandFirst && s.state[r.Target] != stateQueued && !s.t.Owned(r.Target) {
				s.name(r.Target)
				s.state[r.Target] = stateQueued
				sub := &entry{node: r.Target}
				e.refs = append(e.refs, refOut{kind: r.Kind, exp: sub})
				expansions = append(expansions, sub)
				continue
			}
			if s.state[r.Target] == stateUnseen {
				s.state[r.Target] = stateNamed
				s.forward = append(s.forward, forwardRef{from: e.node, kind: r.Kind, target: r.Target})
			}
			e.refs = append(e.refs, refOut{kind: r.Kind, ptr: s.name(r.Target)})
		}

		for _, c := range n.Children {
			if !s.t.Contains(c) {
				return nil, &InvariantViolation{Kind: DanglingReference, Node: e.node, Target: c, Edge: "child", Detail: "child outside the tree"}
			}
			if s.state[c] == stateQueued {
				return nil, &InvariantViolation{Kind: OwnershipCycle, Node: e.node, Target: c, Edge: "child", Detail: "node already reached through ownership"}
			}
			s.state[c] = stateQueued
			sub := &entry{node: c}
			e.children = append(e.children, sub)
		}

		for i := len(e.children) - 1; i >= 0; i-- {
			stack = append(stack, e.children[i])
		}
		for i := len(expansions) - 1; i >= 0; i-- {
			stack = append(stack, expansions[i])
		}
	}
	return order, nil
}

func (s *serializer) build(e *entry) {
	n := s.t.Get(e.node)
	members := make([]document.Member, 0, 6)
	members = append(members,
		document.Member{Key: "kind", Value: document.String(n.Kind.String())},
		document.Member{Key: "id", Value: document.String(s.ids[e.node])},
	)
	if len(n.Attrs) > 0 {
		attrs := make([]document.Member, 0, len(n.Attrs))
		for _, a := range n.Attrs {
			attrs = append(attrs, document.Member{Key: a.Name, Value: attrValue(a.Value)})
		}
		members = append(members, document.Member{Key: "attributes", Value: document.Object(attrs...)})
	}
	if s.opts.IncludeLocations && !n.Loc.IsZero() {
		members = append(members, document.Member{Key: "location", Value: s.location(n.Loc)})
	}
	if len(e.refs) > 0 {
		members = append(members, document.Member{Key: "references", Value: refsValue(e.refs)})
	}
	children := make([]document.Value, 0, len(e.children))
	for _, c := range e.children {
		children = append(children, c.out)
	}
	members = append(members, document.Member{Key: "children", Value: document.Array(children...)})
	e.out = document.Object(members...)
	// Release sub-documents held only for assembly.
	e.children = nil
	e.refs = nil
}

// refsValue keys references by kind in first-appearance order. A kind that
// occurs more than once maps to an array of its entries.
func refsValue(refs []refOut) document.Value {
	type group struct {
		kind  tree.RefKind
		items []document.Value
	}
	var groups []group
	for _, r := range refs {
		v := document.Object(document.Member{Key: "ref", Value: document.String(r.ptr)})
		if r.exp != nil {
			v = r.exp.out
		}
		found := false
		for i := range groups {
			if groups[i].kind == r.kind {
				groups[i].items = append(groups[i].items, v)
				found = true
				break
			}
		}
		if !found {
			groups = append(groups, group{kind: r.kind, items: []document.Value{v}})
		}
	}
	members := make([]document.Member, 0, len(groups))
	for _, g := range groups {
		v := g.items[0]
		if len(g.items) > 1 {
			v = document.Array(g.items...)
		}
		members = append(members, document.Member{Key: g.kind.String(), Value: v})
	}
	return document.Object(members...)
}

func (s *serializer) location(loc tree.Location) document.Value {
	file := loc.File
	if s.opts.FileNames == FileNamesBase && file != "" {
		file = filepath.Base(file)
	}
	return document.Object(
		document.Member{Key: "file", Value: document.String(file)},
		document.Member{Key: "line", Value: document.Uint(uint64(loc.Line))},
		document.Member{Key: "column", Value: document.Uint(uint64(loc.Column))},
		document.Member{Key: "endLine", Value: document.Uint(uint64(loc.EndLine))},
		document.Member{Key: "endColumn", Value: document.Uint(uint64(loc.EndColumn))},
	)
}

func attrValue(v tree.Value) document.Value {
	switch v.Kind {
	case tree.ValString:
		return document.String(v.Str)
	case tree.ValInt:
		return document.Int(v.Int)
	case tree.ValBool:
		return document.Bool(v.Bool)
	case tree.ValFloat:
		return document.Float(v.Float)
	case tree.ValConstant:
		return ConstantValue(v.Const)
	default:
		return document.Null()
	}
}

// ConstantValue renders a four-state vector as {width, signed, bits} with
// bits most significant first.
func ConstantValue(c logic.Vector) document.Value {
	width, err := safecast.Conv[int64](c.Width())
	if err != nil {
		width = 0
	}
	return document.Object(
		document.Member{Key: "width", Value: document.Int(width)},
		document.Member{Key: "signed", Value: document.Bool(c.Signed)},
		document.Member{Key: "bits", Value: document.String(c.Bits())},
	)
}
