package serialize

import (
	"fmt"

	"svdump/internal/tree"
)

// ViolationKind classifies a malformed program tree.
type ViolationKind uint8

const (
	// DanglingReference: a child or reference names an id outside the
	// arena, or a pointer targets a node that is never expanded.
	DanglingReference ViolationKind = iota + 1
	// OwnershipCycle: a node is reached twice through ownership edges.
	OwnershipCycle
	// InvalidRoot: the root id is unknown or the root has an owner.
	InvalidRoot
)

func (k ViolationKind) String() string {
	switch k {
	case DanglingReference:
		return "dangling reference"
	case OwnershipCycle:
		return "ownership cycle"
	case InvalidRoot:
		return "invalid root"
	default:
		return "unknown violation"
	}
}

// InvariantViolation reports a defect in the tree handed to Serialize.
type InvariantViolation struct {
	Kind ViolationKind
	// Node is the node whose edge is broken, Target the edge's far end.
	Node   tree.NodeID
	Target tree.NodeID
	// Edge is "child" or the reference name.
	Edge   string
	Detail string
}

func (e *InvariantViolation) Error() string {
	msg := fmt.Sprintf("tree invariant violated: %s", e.Kind)
	if e.Edge != "" {
		msg += fmt.Sprintf(" on %s edge %d -> %d", e.Edge, e.Node, e.Target)
	} else if e.Node != tree.NoNodeID {
		msg += fmt.Sprintf(" at node %d", e.Node)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}
