package tree

// RefKind names a non-owning relationship; the name is the document key.
type RefKind uint8

const (
	RefDefinition RefKind = iota
	RefSymbol
	RefType
	RefElementType
	RefNetType
	RefPort
	RefGenvar
	RefParent

	refKindCount
)

// Policy decides how the serializer emits a reference.
type Policy uint8

const (
	// PolicyPointer always emits {"ref": id}.
	PolicyPointer Policy = iota
	// PolicyExpandFirst expands an unowned target in place the first
	// time it is met and emits a pointer afterwards.
	PolicyExpandFirst
)

var refTable = [refKindCount]struct {
	name   string
	policy Policy
}{
	RefDefinition:  {"definition", PolicyPointer},
	RefSymbol:      {"symbol", PolicyPointer},
	RefType:        {"type", PolicyExpandFirst},
	RefElementType: {"elementType", PolicyExpandFirst},
	RefNetType:     {"netType", PolicyExpandFirst},
	RefPort:        {"port", PolicyPointer},
	RefGenvar:      {"genvar", PolicyPointer},
	RefParent:      {"parent", PolicyPointer},
}

func (r RefKind) String() string {
	if r >= refKindCount {
		return "unknown"
	}
	return refTable[r].name
}

// Policy returns the fixed expansion policy of r.
func (r RefKind) Policy() Policy {
	if r >= refKindCount {
		return PolicyPointer
	}
	return refTable[r].policy
}

// Ref is one outgoing reference of a node.
type Ref struct {
	Kind   RefKind
	Target NodeID
}
