package ast

import (
	"svdump/internal/source"
	"svdump/internal/token"
)

type ItemKind uint8

const (
	ItemInvalid ItemKind = iota
	ItemModule
	// ItemPortRef is a bare name in a non-ANSI module header.
	ItemPortRef
	ItemPortDecl
	ItemNetDecl
	ItemVarDecl
	ItemParamDecl
	ItemGenvarDecl
	ItemContAssign
	ItemInstance
	ItemPrimitive
	ItemProcedural
	ItemGenRegion
	ItemGenIf
	ItemGenFor
	ItemGenBlock
)

// Item is a module or a module member.
type Item struct {
	Kind     ItemKind
	Span     source.Span
	Name     string
	NameSpan source.Span
	Attrs    []Attribute
	Payload  PayloadID
}

type ModuleData struct {
	Params []ItemID
	// Ports are ItemPortDecl entries for ANSI headers, ItemPortRef otherwise.
	Ports []ItemID
	ANSI  bool
	Body  []ItemID
}

// DeclData backs port, net, variable, parameter and genvar declarations.
type DeclData struct {
	Direction token.Kind
	Type      DataType
	Unpacked  []Range
	Init      ExprID
	Local     bool
	// InHeader marks parameters of a #( ) list.
	InHeader bool
}

type ContAssignData struct {
	LHS ExprID
	RHS ExprID
}

// Arg is a parameter override or port connection; Name is empty for
// ordered arguments and Expr is zero for empty ones. Implicit marks the
// .name shorthand, whose Expr is an identifier with the same name.
type Arg struct {
	Name     string
	Expr     ExprID
	Named    bool
	Implicit bool
	Wildcard bool
	Span     source.Span
}

type InstanceData struct {
	Module     string
	ModuleSpan source.Span
	Params     []Arg
	Conns      []Arg
}

type PrimitiveData struct {
	Gate      token.Kind
	Terminals []ExprID
}

type ProceduralData struct {
	Kind token.Kind
	Body StmtID
}

type GenBlockData struct {
	Label string
	Items []ItemID
}

type GenIfData struct {
	Cond ExprID
	Then ItemID
	Else ItemID
}

// GenForData is for (Var = Init; Cond; Var = Step) Body.
type GenForData struct {
	Var        string
	VarSpan    source.Span
	DeclGenvar bool
	Init       ExprID
	Cond       ExprID
	StepVar    string
	Step       ExprID
	Body       ItemID
}

type Items struct {
	Arena      *Arena[Item]
	Modules    *Arena[ModuleData]
	Decls      *Arena[DeclData]
	Assigns    *Arena[ContAssignData]
	Instances  *Arena[InstanceData]
	Primitives *Arena[PrimitiveData]
	Procs      *Arena[ProceduralData]
	GenBlocks  *Arena[GenBlockData]
	GenIfs     *Arena[GenIfData]
	GenFors    *Arena[GenForData]
}

func NewItems(capHint uint) *Items {
	if capHint == 0 {
		capHint = 1 << 6
	}
	return &Items{
		Arena:      NewArena[Item](capHint),
		Modules:    NewArena[ModuleData](4),
		Decls:      NewArena[DeclData](capHint),
		Assigns:    NewArena[ContAssignData](capHint / 4),
		Instances:  NewArena[InstanceData](capHint / 8),
		Primitives: NewArena[PrimitiveData](capHint / 8),
		Procs:      NewArena[ProceduralData](capHint / 8),
		GenBlocks:  NewArena[GenBlockData](capHint / 16),
		GenIfs:     NewArena[GenIfData](capHint / 16),
		GenFors:    NewArena[GenForData](capHint / 16),
	}
}

func (it *Items) Get(id ItemID) *Item {
	return it.Arena.Get(uint32(id))
}

func (it *Items) New(kind ItemKind, span source.Span, name string, nameSpan source.Span, payload uint32) ItemID {
	return ItemID(it.Arena.Allocate(Item{Kind: kind, Span: span, Name: name, NameSpan: nameSpan, Payload: PayloadID(payload)}))
}

func (it *Items) payload(id ItemID, kinds ...ItemKind) (uint32, bool) {
	item := it.Get(id)
	if item == nil {
		return 0, false
	}
	for _, k := range kinds {
		if item.Kind == k {
			return uint32(item.Payload), true
		}
	}
	return 0, false
}

func (it *Items) Module(id ItemID) (*ModuleData, bool) {
	p, ok := it.payload(id, ItemModule)
	return it.Modules.Get(p), ok
}

func (it *Items) Decl(id ItemID) (*DeclData, bool) {
	p, ok := it.payload(id, ItemPortDecl, ItemNetDecl, ItemVarDecl, ItemParamDecl, ItemGenvarDecl)
	return it.Decls.Get(p), ok
}

func (it *Items) ContAssign(id ItemID) (*ContAssignData, bool) {
	p, ok := it.payload(id, ItemContAssign)
	return it.Assigns.Get(p), ok
}

func (it *Items) Instance(id ItemID) (*InstanceData, bool) {
	p, ok := it.payload(id, ItemInstance)
	return it.Instances.Get(p), ok
}

func (it *Items) Primitive(id ItemID) (*PrimitiveData, bool) {
	p, ok := it.payload(id, ItemPrimitive)
	return it.Primitives.Get(p), ok
}

func (it *Items) Procedural(id ItemID) (*ProceduralData, bool) {
	p, ok := it.payload(id, ItemProcedural)
	return it.Procs.Get(p), ok
}

// GenBlock returns the payload of a generate region or generate block.
func (it *Items) GenBlock(id ItemID) (*GenBlockData, bool) {
	p, ok := it.payload(id, ItemGenRegion, ItemGenBlock)
	return it.GenBlocks.Get(p), ok
}

func (it *Items) GenIf(id ItemID) (*GenIfData, bool) {
	p, ok := it.payload(id, ItemGenIf)
	return it.GenIfs.Get(p), ok
}

func (it *Items) GenFor(id ItemID) (*GenForData, bool) {
	p, ok := it.payload(id, ItemGenFor)
	return it.GenFors.Get(p), ok
}
