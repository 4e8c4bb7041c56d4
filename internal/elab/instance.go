package elab

import (
	"strconv"

	"svdump/internal/ast"
	"svdump/internal/diag"
	"svdump/internal/source"
	"svdump/internal/token"
	"svdump/internal/tree"
)

// portInfo is one port of an instance body.
type portInfo struct {
	name string
	dir  token.Kind
	node tree.NodeID
	sym  *symbol
	span source.Span
	// decl is the body declaration of a non-ANSI port.
	decl ast.ItemID
	// hasData marks non-ANSI ports that also have a net or variable
	// declaration carrying the internal symbol.
	hasData bool
}

// override is a parameter value from an instantiation, elaborated in the
// instantiating scope.
type override struct {
	slot int
	expr exprResult
	span source.Span
}

func directionName(dir token.Kind) string {
	switch dir {
	case token.KwInput:
		return "In"
	case token.KwOutput:
		return "Out"
	}
	return "InOut"
}

// instance builds an Instance node with its body. Connections are added by
// the caller, which owns the instantiating scope.
func (el *elaborator) instance(def *definition, name string, sp source.Span, path string, depth int, overrides []override) (tree.NodeID, []*portInfo) {
	n := el.t.Add(tree.KindInstance)
	el.t.SetAttr(n, "name", tree.String(name))
	el.t.SetAttr(n, "path", tree.String(path))
	el.setLoc(n, sp)
	el.t.AddRef(n, tree.RefDefinition, def.node)

	body := el.t.Add(tree.KindInstanceBody)
	el.t.SetAttr(body, "name", tree.String(def.name))
	el.t.SetAttr(body, "depth", tree.Int(int64(depth)))
	el.setLoc(body, def.item.Span)
	el.t.AddRef(body, tree.RefDefinition, def.node)
	el.t.AddChild(n, body)

	def.instances++
	if depth > el.opts.MaxInstanceDepth {
		el.errorAt(diag.SemaInstanceDepth, sp,
			"instance depth limit of "+strconv.Itoa(el.opts.MaxInstanceDepth)+" exceeded instantiating '"+def.name+"'")
		return n, nil
	}
	return n, el.body(def, body, path, depth, overrides)
}

func (el *elaborator) body(def *definition, body tree.NodeID, path string, depth int, overrides []override) []*portInfo {
	items := def.unit.Builder.Items
	ctx := &bodyCtx{def: def, node: body, depth: depth, ports: make(map[string]*portInfo)}
	en := env{unit: def.unit, scope: newScope(nil, path), build: true, body: ctx}

	bySlot := make(map[int]*override, len(overrides))
	for i := range overrides {
		bySlot[overrides[i].slot] = &overrides[i]
	}
	slot := 0
	for _, id := range def.data.Params {
		el.param(en, body, id, bySlot[slot])
		slot++
	}

	var ports []*portInfo
	if def.data.ANSI {
		for _, id := range def.data.Ports {
			ports = append(ports, el.ansiPort(en, body, id))
		}
	} else {
		ports = el.headerPorts(en, body, def.data)
	}

	paramSlot := make(map[ast.ItemID]int)
	for _, id := range def.data.Body {
		if it := items.Get(id); it != nil && it.Kind == ast.ItemParamDecl {
			paramSlot[id] = slot
			slot++
		}
	}
	for _, id := range def.data.Body {
		if s, ok := paramSlot[id]; ok {
			el.param(en, body, id, bySlot[s])
			continue
		}
		el.item(en, body, id)
	}

	for _, p := range ports {
		if !def.data.ANSI && p.sym == nil && !p.decl.IsValid() {
			el.errorAt(diag.SemaPortWithoutDecl, p.span, "port '"+p.name+"' has no direction declaration")
			el.t.AddRef(p.node, tree.RefType, el.types.scalar("logic", false).node)
		}
	}
	return ports
}

func (el *elaborator) portNode(name string, dir token.Kind, sp source.Span) tree.NodeID {
	n := el.t.Add(tree.KindPort)
	el.t.SetAttr(n, "name", tree.String(name))
	el.t.SetAttr(n, "direction", tree.String(directionName(dir)))
	el.setLoc(n, sp)
	return n
}

// internal creates the net or variable behind a port.
func (el *elaborator) internal(en env, parent tree.NodeID, item *ast.Item, decl *ast.DeclData, typ *typeInfo) *symbol {
	t := decl.Type
	variable := t.Keyword == token.KwReg || t.Keyword == token.KwInteger || t.Keyword == token.KwInt ||
		t.Keyword == token.KwReal || t.Keyword == token.KwString ||
		(t.NetKind == 0 && t.Keyword != 0 && decl.Direction == token.KwOutput)
	if variable {
		return el.variable(en, parent, item, typ, ast.NoExprID)
	}
	return el.net(en, parent, item, t.NetKind, typ, ast.NoExprID)
}

func (el *elaborator) ansiPort(en env, parent tree.NodeID, id ast.ItemID) *portInfo {
	items := en.unit.Builder.Items
	item := items.Get(id)
	decl, _ := items.Decl(id)
	p := &portInfo{name: item.Name, dir: decl.Direction, span: item.NameSpan, decl: id}
	p.node = el.portNode(item.Name, decl.Direction, item.NameSpan)
	el.attributes(en, p.node, item.Attrs)
	el.t.AddChild(parent, p.node)
	en.body.ports[item.Name] = p

	typ := el.resolveType(en, decl.Type)
	p.sym = el.internal(en, parent, item, decl, typ)
	el.linkPort(p, p.sym)
	return p
}

func (el *elaborator) linkPort(p *portInfo, sym *symbol) {
	p.sym = sym
	el.t.AddRef(p.node, tree.RefType, sym.typ.node)
	if sym.node.IsValid() {
		el.t.AddRef(p.node, tree.RefSymbol, sym.node)
	}
}

// headerPorts creates the Port nodes of a non-ANSI header; directions and
// types come later from the body declarations.
func (el *elaborator) headerPorts(en env, parent tree.NodeID, data *ast.ModuleData) []*portInfo {
	items := en.unit.Builder.Items
	var ports []*portInfo
	for _, id := range data.Ports {
		item := items.Get(id)
		if _, dup := en.body.ports[item.Name]; dup {
			el.errorAt(diag.SemaDuplicateSymbol, item.NameSpan, "port '"+item.Name+"' is listed twice")
			continue
		}
		p := &portInfo{name: item.Name, dir: token.KwInout, span: item.NameSpan}
		p.node = el.portNode(item.Name, token.KwInout, item.NameSpan)
		el.t.AddChild(parent, p.node)
		en.body.ports[item.Name] = p
		ports = append(ports, p)
	}
	dataNames := make(map[string]bool)
	for _, id := range data.Body {
		item := items.Get(id)
		switch item.Kind {
		case ast.ItemNetDecl, ast.ItemVarDecl:
			dataNames[item.Name] = true
		case ast.ItemPortDecl:
			if p, ok := en.body.ports[item.Name]; ok && !p.decl.IsValid() {
				p.decl = id
			}
		}
	}
	for _, p := range ports {
		p.hasData = p.decl.IsValid() && dataNames[p.name]
	}
	return ports
}

// portDecl handles "input [3:0] a;" in a non-ANSI body.
func (el *elaborator) portDecl(en env, parent tree.NodeID, id ast.ItemID) {
	items := en.unit.Builder.Items
	item := items.Get(id)
	decl, _ := items.Decl(id)
	var p *portInfo
	if en.body != nil {
		p = en.body.ports[item.Name]
	}
	typ := el.resolveType(en, decl.Type)
	if p == nil || p.decl != id {
		if p == nil {
			el.errorAt(diag.SemaError, item.NameSpan, "'"+item.Name+"' is declared as a port but is not in the port list")
		} else {
			el.errorAt(diag.SemaDuplicateSymbol, item.NameSpan, "port '"+item.Name+"' already has a direction declaration")
		}
		el.internal(en, parent, item, decl, typ)
		return
	}
	p.dir = decl.Direction
	el.t.SetAttr(p.node, "direction", tree.String(directionName(decl.Direction)))
	el.attributes(en, p.node, item.Attrs)
	if p.hasData {
		return
	}
	el.linkPort(p, el.internal(en, parent, item, decl, typ))
}

// portType merges the types of a non-ANSI port and its net or variable
// declaration. The declaration's type wins unless it is a bare scalar.
func (el *elaborator) portType(en env, name string, declared ast.DataType, typ *typeInfo) *typeInfo {
	if en.body == nil {
		return typ
	}
	p := en.body.ports[name]
	if p == nil || !p.hasData || p.sym != nil || len(declared.Packed) > 0 {
		return typ
	}
	pd, _ := en.unit.Builder.Items.Decl(p.decl)
	if len(pd.Type.Packed) == 0 && !pd.Type.Signed {
		return typ
	}
	return el.resolveType(en, pd.Type)
}

func (el *elaborator) bindPortData(en env, sym *symbol) {
	if en.body == nil {
		return
	}
	if p := en.body.ports[sym.name]; p != nil && p.hasData && p.sym == nil {
		el.linkPort(p, sym)
	}
}

// overrides evaluates the parameter assignments of an instantiation.
func (el *elaborator) overrides(en env, def *definition, args []ast.Arg) []override {
	public := make([]int, 0, len(def.params))
	byName := make(map[string]int, len(def.params))
	for i, s := range def.params {
		if !s.local {
			public = append(public, i)
		}
		if _, ok := byName[s.name]; !ok {
			byName[s.name] = i
		}
	}

	var out []override
	seen := make(map[int]source.Span)
	ordered := 0
	for _, a := range args {
		slot := -1
		switch {
		case !a.Named:
			if ordered >= len(public) {
				if ordered == len(public) {
					el.errorAt(diag.SemaTooManyConnections, a.Span,
						"too many parameter overrides for module '"+def.name+"'")
				}
				ordered++
				continue
			}
			slot = public[ordered]
			ordered++
		default:
			i, ok := byName[a.Name]
			switch {
			case !ok:
				el.errorAt(diag.SemaUnknownParameter, a.Span,
					"module '"+def.name+"' has no parameter named '"+a.Name+"'")
				continue
			case def.params[i].local:
				diag.ReportError(el.rep, diag.SemaLocalparamOverride, a.Span,
					"cannot override local parameter '"+a.Name+"'").
					WithNote(def.params[i].span, "declared here").
					Emit()
				continue
			}
			slot = i
		}
		if prev, dup := seen[slot]; dup {
			diag.ReportError(el.rep, diag.SemaDuplicateConnection, a.Span,
				"parameter '"+def.params[slot].name+"' is assigned more than once").
				WithNote(prev, "previous assignment is here").
				Emit()
			continue
		}
		seen[slot] = a.Span
		if !a.Expr.IsValid() {
			continue
		}
		r := el.expr(en, a.Expr)
		if !r.known && !isError(r) && r.typ.integral() {
			el.errorAt(diag.SemaNotConstant, a.Span, "parameter override for '"+def.params[slot].name+"' must be constant")
		}
		out = append(out, override{slot: slot, expr: r, span: a.Span})
	}
	return out
}

// instantiate elaborates a module instantiation item inside a body.
func (el *elaborator) instantiate(en env, parent tree.NodeID, id ast.ItemID) {
	items := en.unit.Builder.Items
	item := items.Get(id)
	data, _ := items.Instance(id)
	def, ok := el.defs[el.names.Intern(data.Module)]
	if !ok {
		el.errorAt(diag.SemaUnknownModule, data.ModuleSpan, "unknown module '"+data.Module+"'")
		return
	}

	depth := 1
	if en.body != nil {
		depth = en.body.depth + 1
	}
	path := en.scope.path + "." + item.Name
	ovs := el.overrides(en, def, data.Params)
	n, ports := el.instance(def, item.Name, item.Span, path, depth, ovs)
	el.attributes(en, n, item.Attrs)
	el.declare(en.scope, &symbol{kind: symInstance, name: item.Name, node: n, span: item.NameSpan})
	el.t.AddChild(parent, n)
	if depth <= el.opts.MaxInstanceDepth {
		el.connect(en, n, item.Name, item.NameSpan, ports, data.Conns)
	}
}

type binding struct {
	arg      ast.Arg
	expr     exprResult
	implicit bool
	empty    bool
}

// connect resolves the port connections of inst in port order.
func (el *elaborator) connect(en env, inst tree.NodeID, name string, sp source.Span, ports []*portInfo, args []ast.Arg) {
	byName := make(map[string]int, len(ports))
	for i, p := range ports {
		byName[p.name] = i
	}
	bound := make([]*binding, len(ports))
	bind := func(i int, a ast.Arg, implicit bool) {
		b := &binding{arg: a, implicit: implicit, empty: !a.Expr.IsValid()}
		if !b.empty {
			if ports[i].dir != token.KwInput {
				el.checkLValue(en, a.Expr, false)
			}
			b.expr = el.expr(en, a.Expr)
		}
		bound[i] = b
	}
	// skip still resolves names in an unbound actual, without building it
	skip := func(a ast.Arg) {
		if a.Expr.IsValid() && !a.Implicit {
			el.expr(en.quiet(), a.Expr)
		}
	}

	ordered := 0
	var wildcard *ast.Arg
	for _, a := range args {
		switch {
		case a.Wildcard:
			if wildcard == nil {
				wildcard = &a
			}
		case !a.Named:
			if ordered >= len(ports) {
				if ordered == len(ports) {
					el.errorAt(diag.SemaTooManyConnections, a.Span,
						"too many port connections for instance '"+name+"'")
				}
				skip(a)
				ordered++
				continue
			}
			bind(ordered, a, false)
			ordered++
		default:
			i, ok := byName[a.Name]
			if !ok {
				el.errorAt(diag.SemaUnknownPort, a.Span, "instance '"+name+"' has no port named '"+a.Name+"'")
				skip(a)
				continue
			}
			if bound[i] != nil {
				diag.ReportError(el.rep, diag.SemaDuplicateConnection, a.Span,
					"port '"+a.Name+"' is connected more than once").
					WithNote(bound[i].arg.Span, "previous connection is here").
					Emit()
				skip(a)
				continue
			}
			bind(i, a, a.Implicit)
		}
	}
	if wildcard != nil {
		for i, p := range ports {
			if bound[i] != nil {
				continue
			}
			if el.lookup(en.scope, p.name) == nil {
				el.errorAt(diag.SemaUndeclaredIdentifier, wildcard.Span,
					"no signal named '"+p.name+"' for implicit connection of port '"+p.name+"'")
				continue
			}
			b := &binding{arg: *wildcard, implicit: true}
			if p.dir != token.KwInput {
				el.checkTarget(en, p.name, wildcard.Span, false)
			}
			b.expr = el.ident(en, p.name, wildcard.Span)
			bound[i] = b
		}
	}

	for i, p := range ports {
		b := bound[i]
		if b == nil {
			if wildcard == nil {
				el.warnAt(diag.SemaUnusedPort, sp, "port '"+p.name+"' of instance '"+name+"' is not connected")
			}
			continue
		}
		c := el.t.Add(tree.KindConnection)
		el.t.SetAttr(c, "port", tree.String(p.name))
		el.t.SetAttr(c, "implicit", tree.Bool(b.implicit))
		el.setLoc(c, b.arg.Span)
		el.t.AddRef(c, tree.RefPort, p.node)
		if b.expr.node.IsValid() {
			el.t.AddChild(c, b.expr.node)
		}
		el.t.AddChild(inst, c)
	}
}
