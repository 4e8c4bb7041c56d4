package elab

import (
	"strconv"

	"svdump/internal/ast"
	"svdump/internal/diag"
	"svdump/internal/logic"
	"svdump/internal/source"
	"svdump/internal/tree"
)

func genblkName(index int) string {
	return "genblk" + strconv.Itoa(index)
}

// generateBlock creates a GenerateBlock node; arrayIndex is set only for
// loop iterations.
func (el *elaborator) generateBlock(name string, index int, uninstantiated bool, sp source.Span) tree.NodeID {
	n := el.t.Add(tree.KindGenerateBlock)
	el.t.SetAttr(n, "name", tree.String(name))
	el.t.SetAttr(n, "constructIndex", tree.Int(int64(index)))
	el.t.SetAttr(n, "isUninstantiated", tree.Bool(uninstantiated))
	el.setLoc(n, sp)
	return n
}

// genBody elaborates the items of a generate branch or loop body into
// parent. A begin/end block contributes its items; anything else is a
// single item.
func (el *elaborator) genBody(en env, parent tree.NodeID, id ast.ItemID) {
	items := en.unit.Builder.Items
	if item := items.Get(id); item != nil && item.Kind == ast.ItemGenBlock {
		blk, _ := items.GenBlock(id)
		el.attributes(en, parent, item.Attrs)
		for _, sub := range blk.Items {
			el.item(en, parent, sub)
		}
		return
	}
	el.item(en, parent, id)
}

func (el *elaborator) label(en env, id ast.ItemID) string {
	items := en.unit.Builder.Items
	if item := items.Get(id); item != nil && item.Kind == ast.ItemGenBlock {
		blk, _ := items.GenBlock(id)
		return blk.Label
	}
	return ""
}

func (el *elaborator) itemSpan(en env, id ast.ItemID) source.Span {
	if item := en.unit.Builder.Items.Get(id); item != nil {
		return item.Span
	}
	return source.Detached()
}

// enter opens the scope of a generate block named name.
func (el *elaborator) enter(en env, name string, labeled bool, n tree.NodeID, sp source.Span) env {
	if labeled {
		el.declare(en.scope, &symbol{kind: symBlock, name: name, node: n, span: sp})
	}
	return en.in(newScope(en.scope, en.scope.path+"."+name))
}

// genBlock is a standalone begin/end block in a generate region.
func (el *elaborator) genBlock(en env, parent tree.NodeID, id ast.ItemID) {
	index := en.scope.nextConstruct()
	name := el.label(en, id)
	labeled := name != ""
	if !labeled {
		name = genblkName(index)
	}
	sp := el.itemSpan(en, id)
	n := el.generateBlock(name, index, false, sp)
	el.genBody(el.enter(en, name, labeled, n, sp), n, id)
	el.t.AddChild(parent, n)
}

// genIf elaborates an if/else-if chain. Every branch gets a block; only
// the first one whose condition holds is instantiated. The chain shares
// one construct index.
func (el *elaborator) genIf(en env, parent tree.NodeID, id ast.ItemID) {
	items := en.unit.Builder.Items
	index := en.scope.nextConstruct()
	taken := false
	branch := func(body ast.ItemID, holds bool) {
		name := el.label(en, body)
		labeled := name != ""
		if !labeled {
			name = genblkName(index)
		}
		sp := el.itemSpan(en, body)
		instantiate := holds && !taken
		n := el.generateBlock(name, index, !instantiate, sp)
		if instantiate {
			taken = true
			el.genBody(el.enter(en, name, labeled, n, sp), n, body)
		}
		el.t.AddChild(parent, n)
	}

	for cur := id; cur.IsValid(); {
		gi, ok := items.GenIf(cur)
		if !ok {
			branch(cur, true)
			break
		}
		holds := false
		r := el.expr(en.quiet(), gi.Cond)
		switch {
		case isError(r):
		case !r.known:
			el.errorAt(diag.SemaNotConstant, el.exprSpan(en, gi.Cond), "generate condition must be constant")
		default:
			truth, defined := r.value.Truthy()
			holds = truth && defined
		}
		branch(gi.Then, holds)
		cur = gi.Else
	}
}

// genFor unrolls a generate loop into a GenerateBlockArray, one block per
// iteration. Each block starts with a local parameter holding the loop
// value.
func (el *elaborator) genFor(en env, parent tree.NodeID, id ast.ItemID) {
	items := en.unit.Builder.Items
	gf, _ := items.GenFor(id)
	sp := el.itemSpan(en, id)
	index := en.scope.nextConstruct()
	name := el.label(en, gf.Body)
	labeled := name != ""
	if !labeled {
		name = genblkName(index)
	}

	arr := el.t.Add(tree.KindGenerateBlockArray)
	el.t.SetAttr(arr, "name", tree.String(name))
	el.t.SetAttr(arr, "constructIndex", tree.Int(int64(index)))
	el.t.SetAttr(arr, "iterations", tree.Int(0))
	el.setLoc(arr, sp)
	el.t.AddChild(parent, arr)
	if labeled {
		el.declare(en.scope, &symbol{kind: symBlock, name: name, node: arr, span: sp})
	}

	intType := el.types.predefined("int")
	if gf.DeclGenvar {
		g := el.t.Add(tree.KindGenvar)
		el.t.SetAttr(g, "name", tree.String(gf.Var))
		el.setLoc(g, gf.VarSpan)
		el.t.AddRef(g, tree.RefType, intType.node)
		el.t.AddChild(arr, g)
	} else {
		sym := el.lookup(en.scope, gf.Var)
		if sym == nil || sym.kind != symGenvar {
			el.errorAt(diag.SemaNotAGenvar, gf.VarSpan, "'"+gf.Var+"' is not a genvar")
			return
		}
		el.t.AddRef(arr, tree.RefGenvar, sym.node)
	}
	if gf.StepVar != gf.Var {
		el.errorAt(diag.SemaNotAGenvar, sp, "generate loop step must assign '"+gf.Var+"', not '"+gf.StepVar+"'")
		return
	}

	v, ok := el.constInt(en, gf.Init, "generate loop initial value")
	if !ok {
		return
	}
	loopVar := &symbol{kind: symGenvar, name: gf.Var, typ: intType, span: gf.VarSpan, known: true}
	loop := en.in(newScope(en.scope, en.scope.path))
	loop.scope.names[el.names.Intern(gf.Var)] = loopVar

	seen := make(map[int64]bool)
	iterations := 0
	for {
		loopVar.value = logic.FromInt64(v, logic.DefaultIntWidth, true)
		r := el.expr(loop.quiet(), gf.Cond)
		if isError(r) {
			break
		}
		if !r.known {
			el.errorAt(diag.SemaNotConstant, el.exprSpan(en, gf.Cond), "generate loop condition must be constant")
			break
		}
		if truth, defined := r.value.Truthy(); !truth || !defined {
			break
		}
		if iterations >= el.opts.MaxGenerateIterations {
			el.errorAt(diag.SemaGenerateLoopLimit, sp,
				"generate loop exceeded "+strconv.Itoa(el.opts.MaxGenerateIterations)+" iterations")
			break
		}
		if seen[v] {
			el.errorAt(diag.SemaGenerateLoopLimit, sp,
				"genvar '"+gf.Var+"' repeats value "+strconv.FormatInt(v, 10)+"; the loop would not terminate")
			break
		}
		seen[v] = true
		iterations++

		blockName := name + "[" + strconv.FormatInt(v, 10) + "]"
		n := el.generateBlock(name, index, false, el.itemSpan(en, gf.Body))
		el.t.SetAttr(n, "arrayIndex", tree.Int(v))
		inner := en.in(newScope(en.scope, en.scope.path+"."+blockName))
		el.loopParam(inner, n, gf, loopVar.value, intType)
		el.genBody(inner, n, gf.Body)
		el.t.AddChild(arr, n)

		next, ok := el.constInt(loop, gf.Step, "generate loop step")
		if !ok {
			break
		}
		v = next
	}
	el.t.SetAttr(arr, "iterations", tree.Int(int64(iterations)))
}

// loopParam binds the loop variable inside one iteration block.
func (el *elaborator) loopParam(en env, block tree.NodeID, gf *ast.GenForData, value logic.Vector, typ *typeInfo) {
	p := el.t.Add(tree.KindParameter)
	el.t.SetAttr(p, "name", tree.String(gf.Var))
	el.t.SetAttr(p, "isLocal", tree.Bool(true))
	el.t.SetAttr(p, "isPort", tree.Bool(false))
	el.t.SetAttr(p, "overridden", tree.Bool(false))
	el.t.SetAttr(p, "value", tree.Constant(value))
	el.setLoc(p, gf.VarSpan)
	el.t.AddRef(p, tree.RefType, typ.node)
	el.t.AddChild(block, p)
	en.scope.names[el.names.Intern(gf.Var)] = &symbol{
		kind:  symParameter,
		name:  gf.Var,
		node:  p,
		typ:   typ,
		span:  gf.VarSpan,
		value: value,
		known: true,
	}
}
