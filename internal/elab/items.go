package elab

import (
	"svdump/internal/ast"
	"svdump/internal/diag"
	"svdump/internal/logic"
	"svdump/internal/token"
	"svdump/internal/tree"
)

var procedureKinds = map[token.Kind]string{
	token.KwAlways:      "Always",
	token.KwAlwaysComb:  "AlwaysComb",
	token.KwAlwaysFF:    "AlwaysFF",
	token.KwAlwaysLatch: "AlwaysLatch",
	token.KwInitial:     "Initial",
}

// item elaborates one module member into parent.
func (el *elaborator) item(en env, parent tree.NodeID, id ast.ItemID) {
	items := en.unit.Builder.Items
	item := items.Get(id)
	if item == nil {
		return
	}
	switch item.Kind {
	case ast.ItemPortDecl:
		el.portDecl(en, parent, id)

	case ast.ItemNetDecl:
		decl, _ := items.Decl(id)
		typ := el.portType(en, item.Name, decl.Type, el.resolveType(en, decl.Type))
		sym := el.net(en, parent, item, decl.Type.NetKind, typ, decl.Init)
		el.bindPortData(en, sym)

	case ast.ItemVarDecl:
		decl, _ := items.Decl(id)
		typ := el.portType(en, item.Name, decl.Type, el.resolveType(en, decl.Type))
		sym := el.variable(en, parent, item, typ, decl.Init)
		el.bindPortData(en, sym)

	case ast.ItemParamDecl:
		el.param(en, parent, id, nil)

	case ast.ItemGenvarDecl:
		n := el.symbolNode(en, tree.KindGenvar, item)
		typ := el.types.predefined("int")
		el.t.AddRef(n, tree.RefType, typ.node)
		el.t.AddChild(parent, n)
		el.declare(en.scope, &symbol{kind: symGenvar, name: item.Name, node: n, typ: typ, span: item.NameSpan})

	case ast.ItemContAssign:
		data, _ := items.ContAssign(id)
		n := el.t.Add(tree.KindContinuousAssign)
		el.setLoc(n, item.Span)
		el.attributes(en, n, item.Attrs)
		a := el.assignment(en, data.LHS, data.RHS, false, false, item.Span)
		el.t.AddChild(n, a.node)
		el.t.AddChild(parent, n)

	case ast.ItemInstance:
		el.instantiate(en, parent, id)

	case ast.ItemPrimitive:
		data, _ := items.Primitive(id)
		n := el.t.Add(tree.KindPrimitiveInstance)
		el.t.SetAttr(n, "name", tree.String(item.Name))
		el.t.SetAttr(n, "primitiveType", tree.String(data.Gate.String()))
		el.setLoc(n, item.Span)
		el.attributes(en, n, item.Attrs)
		for i, x := range data.Terminals {
			if i == 0 {
				el.checkLValue(en, x, false)
			}
			if r := el.expr(en, x); r.node.IsValid() {
				el.t.AddChild(n, r.node)
			}
		}
		if item.Name != "" {
			el.declare(en.scope, &symbol{kind: symInstance, name: item.Name, node: n, span: item.NameSpan})
		}
		el.t.AddChild(parent, n)

	case ast.ItemProcedural:
		data, _ := items.Procedural(id)
		n := el.t.Add(tree.KindProceduralBlock)
		el.t.SetAttr(n, "procedureKind", tree.String(procedureKinds[data.Kind]))
		el.setLoc(n, item.Span)
		el.attributes(en, n, item.Attrs)
		el.t.AddChild(n, el.stmt(en, data.Body))
		el.t.AddChild(parent, n)

	case ast.ItemGenRegion:
		blk, _ := items.GenBlock(id)
		for _, sub := range blk.Items {
			el.item(en, parent, sub)
		}

	case ast.ItemGenBlock:
		el.genBlock(en, parent, id)

	case ast.ItemGenIf:
		el.genIf(en, parent, id)

	case ast.ItemGenFor:
		el.genFor(en, parent, id)

	case ast.ItemModule:
		el.errorAt(diag.SemaError, item.NameSpan, "nested module declarations are not supported")
	}
}

// symbolNode creates a named declaration node with its attribute children.
func (el *elaborator) symbolNode(en env, kind tree.Kind, item *ast.Item) tree.NodeID {
	n := el.t.Add(kind)
	el.t.SetAttr(n, "name", tree.String(item.Name))
	el.setLoc(n, item.NameSpan)
	el.attributes(en, n, item.Attrs)
	return n
}

func (el *elaborator) net(en env, parent tree.NodeID, item *ast.Item, kind token.Kind, typ *typeInfo, init ast.ExprID) *symbol {
	n := el.symbolNode(en, tree.KindNet, item)
	el.t.SetAttr(n, "implicit", tree.Bool(false))
	if kind == 0 {
		kind = token.KwWire
	}
	el.t.AddRef(n, tree.RefNetType, el.types.netType(kind.String()))
	el.t.AddRef(n, tree.RefType, typ.node)
	sym := &symbol{kind: symNet, name: item.Name, node: n, typ: typ, span: item.NameSpan}
	el.declare(en.scope, sym)
	if init.IsValid() {
		r := el.expr(en, init)
		el.checkWidth(typ, r, el.exprSpan(en, init))
		r = el.convert(en, r, typ, el.exprSpan(en, init))
		if r.node.IsValid() {
			el.t.AddChild(n, r.node)
		}
	}
	el.t.AddChild(parent, n)
	return sym
}

func (el *elaborator) variable(en env, parent tree.NodeID, item *ast.Item, typ *typeInfo, init ast.ExprID) *symbol {
	n := el.symbolNode(en, tree.KindVariable, item)
	el.t.AddRef(n, tree.RefType, typ.node)
	sym := &symbol{kind: symVariable, name: item.Name, node: n, typ: typ, span: item.NameSpan}
	el.declare(en.scope, sym)
	if init.IsValid() {
		r := el.convert(en, el.expr(en, init), typ, el.exprSpan(en, init))
		if r.node.IsValid() {
			el.t.AddChild(n, r.node)
		}
	}
	el.t.AddChild(parent, n)
	return sym
}

// explicitType reports whether a parameter spells out its type; otherwise
// the parameter takes the type of its value.
func explicitType(t ast.DataType) bool {
	return t.Keyword != 0 || len(t.Packed) > 0 || t.Signed || t.Unsigned
}

// param elaborates a parameter or localparam; ov replaces the default
// value when the instantiation supplies one.
func (el *elaborator) param(en env, parent tree.NodeID, id ast.ItemID, ov *override) {
	items := en.unit.Builder.Items
	item := items.Get(id)
	decl, _ := items.Decl(id)
	local := decl.Local
	if !decl.InHeader && en.body != nil && len(en.body.def.data.Params) > 0 {
		local = true
	}

	var r exprResult
	valueSpan := item.NameSpan
	switch {
	case ov != nil:
		r, valueSpan = ov.expr, ov.span
	case decl.Init.IsValid():
		r = el.expr(en, decl.Init)
		valueSpan = el.exprSpan(en, decl.Init)
	default:
		r = el.invalid(en, item.NameSpan)
	}

	typ := r.typ
	if explicitType(decl.Type) {
		typ = el.resolveType(en, decl.Type)
		r = el.convert(en, r, typ, valueSpan)
	} else if r.fill {
		typ = el.types.scalar("logic", false)
	}
	if !r.known && !isError(r) && typ.integral() && ov == nil {
		el.errorAt(diag.SemaNotConstant, valueSpan, "value of parameter '"+item.Name+"' must be constant")
	}

	n := el.t.Add(tree.KindParameter)
	el.t.SetAttr(n, "name", tree.String(item.Name))
	el.t.SetAttr(n, "isLocal", tree.Bool(local))
	el.t.SetAttr(n, "isPort", tree.Bool(decl.InHeader))
	el.t.SetAttr(n, "overridden", tree.Bool(ov != nil))
	if r.known {
		el.t.SetAttr(n, "value", tree.Constant(r.value))
	}
	el.setLoc(n, item.NameSpan)
	el.t.AddRef(n, tree.RefType, typ.node)
	el.attributes(en, n, item.Attrs)
	if r.node.IsValid() {
		el.t.AddChild(n, r.node)
	}
	el.t.AddChild(parent, n)
	el.declare(en.scope, &symbol{
		kind:  symParameter,
		name:  item.Name,
		node:  n,
		typ:   typ,
		span:  item.NameSpan,
		value: r.value,
		known: r.known,
	})
}

// attributes adds one Attribute child per source attribute. A missing
// value means 1.
func (el *elaborator) attributes(en env, n tree.NodeID, attrs []ast.Attribute) {
	for _, a := range attrs {
		v := logic.FromInt64(1, 1, false)
		if a.Value.IsValid() {
			r := el.expr(en.quiet(), a.Value)
			switch {
			case isError(r):
			case !r.known:
				el.errorAt(diag.SemaNotConstant, a.Span, "value of attribute '"+a.Name+"' must be constant")
			default:
				v = r.value
			}
		}
		at := el.t.Add(tree.KindAttribute)
		el.t.SetAttr(at, "name", tree.String(a.Name))
		el.t.SetAttr(at, "value", tree.Constant(v))
		el.setLoc(at, a.Span)
		el.t.AddChild(n, at)
	}
}

// resolveType maps a declared type to an interned one. Packed bounds must
// be constant; a bad bound becomes [0:0].
func (el *elaborator) resolveType(en env, dt ast.DataType) *typeInfo {
	base := "logic"
	switch dt.Keyword {
	case token.KwInteger, token.KwInt, token.KwReal, token.KwString:
		if len(dt.Packed) > 0 {
			el.errorAt(diag.SemaError, dt.Span, "packed dimensions are not allowed on '"+dt.Keyword.String()+"'")
		}
		switch dt.Keyword {
		case token.KwReal:
			return el.types.real()
		case token.KwString:
			return el.types.str()
		}
		return el.types.predefined(dt.Keyword.String())
	case token.KwReg:
		base = "reg"
	case token.KwBit:
		base = "bit"
	}
	if len(dt.Packed) == 0 {
		return el.types.scalar(base, dt.Signed)
	}

	type bounds struct{ msb, lsb int }
	dims := make([]bounds, len(dt.Packed))
	width := 1
	for i, r := range dt.Packed {
		msb, okM := el.constInt(en, r.Left, "packed range bound")
		lsb, okL := el.constInt(en, r.Right, "packed range bound")
		if !okM || !okL {
			msb, lsb = 0, 0
		}
		if abs64(msb) > logic.MaxWidth || abs64(lsb) > logic.MaxWidth {
			el.errorAt(diag.SemaError, r.Span, "packed range bound is out of range")
			return el.types.errorType()
		}
		dims[i] = bounds{int(msb), int(lsb)}
		width *= abs(int(msb-lsb)) + 1
		if width > logic.MaxWidth {
			el.errorAt(diag.SemaError, dt.Span, "packed type is too wide")
			return el.types.errorType()
		}
	}
	typ := el.types.scalar(base, false)
	for i := len(dims) - 1; i >= 0; i-- {
		typ = el.types.packed(typ, dims[i].msb, dims[i].lsb, dt.Signed && i == 0)
	}
	return typ
}
