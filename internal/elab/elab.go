// Package elab builds the program tree from parsed files.
//
// Elaboration collects module definitions, picks the top modules and
// instantiates them recursively. Every instance gets its own body with
// parameters evaluated as four-state constants. Generate constructs are
// unrolled, and expressions are typed and folded where constant. Types are
// interned: a type node has no owner and is shared through type references.
package elab

import (
	"svdump/internal/ast"
	"svdump/internal/diag"
	"svdump/internal/source"
	"svdump/internal/tree"
)

type definition struct {
	name      string
	unit      *ast.Unit
	item      *ast.Item
	data      *ast.ModuleData
	node      tree.NodeID
	params    []paramSlot
	instances int
}

// paramSlot is a parameter as seen by an instantiation.
type paramSlot struct {
	name   string
	local  bool
	header bool
	span   source.Span
}

type elaborator struct {
	fs    *source.FileSet
	opts  Options
	rep   diag.Reporter
	t     *tree.Tree
	names *source.Interner
	types *typeTable

	defs         map[source.StringID]*definition
	order        []*definition
	instantiated map[source.StringID]bool
}

// Elaborate builds the tree for inputs and returns it with its root.
// Problems in the sources are reported through opts.Reporter; the tree is
// always complete enough to serialize.
func Elaborate(fs *source.FileSet, inputs []Input, opts Options) (*tree.Tree, tree.NodeID) {
	opts.normalize()
	t := tree.New(1 << 10)
	el := &elaborator{
		fs:           fs,
		opts:         opts,
		rep:          newDedup(opts.Reporter),
		t:            t,
		names:        source.NewInterner(),
		types:        newTypeTable(t),
		defs:         make(map[source.StringID]*definition),
		instantiated: make(map[source.StringID]bool),
	}

	root := t.Add(tree.KindRoot)
	for _, in := range inputs {
		el.compilationUnit(root, in)
	}
	for _, in := range inputs {
		if in.Unit != nil {
			el.collect(in.Unit)
		}
	}
	for _, def := range el.order {
		t.AddChild(root, def.node)
	}
	for _, def := range el.tops() {
		inst, _ := el.instance(def, def.name, def.item.NameSpan, def.name, 0, nil)
		t.AddChild(root, inst)
	}
	for _, def := range el.order {
		t.SetAttr(def.node, "instanceCount", tree.Int(int64(def.instances)))
	}
	return t, root
}

func (el *elaborator) compilationUnit(root tree.NodeID, in Input) {
	cu := el.t.Add(tree.KindCompilationUnit)
	path := ""
	missing := in.Unit == nil
	if f := el.fs.Get(in.File); f != nil {
		path = f.Path
		missing = missing || f.Missing()
	}
	el.t.SetAttr(cu, "file", tree.String(path))
	el.t.SetAttr(cu, "missing", tree.Bool(missing))
	el.t.AddChild(root, cu)
}

// collect registers definitions of unit and records which module names are
// instantiated anywhere.
func (el *elaborator) collect(unit *ast.Unit) {
	items := unit.Builder.Items
	for _, id := range unit.File.Modules {
		item := items.Get(id)
		data, ok := items.Module(id)
		if !ok {
			continue
		}
		key := el.names.Intern(item.Name)
		if prev, dup := el.defs[key]; dup {
			diag.ReportError(el.rep, diag.SemaDuplicateDefinition, item.NameSpan,
				"duplicate definition of module '"+item.Name+"'").
				WithNote(prev.item.NameSpan, "previous definition is here").
				Emit()
			continue
		}
		def := &definition{
			name: item.Name,
			unit: unit,
			item: item,
			data: data,
		}
		def.params = paramSlots(items, data)
		def.node = el.definitionNode(def)
		el.defs[key] = def
		el.order = append(el.order, def)
		el.markInstantiated(items, data.Body)
	}
}

func paramSlots(items *ast.Items, data *ast.ModuleData) []paramSlot {
	var slots []paramSlot
	for _, id := range data.Params {
		decl, _ := items.Decl(id)
		item := items.Get(id)
		slots = append(slots, paramSlot{name: item.Name, local: decl.Local, header: true, span: item.NameSpan})
	}
	hasHeader := len(data.Params) > 0
	for _, id := range data.Body {
		item := items.Get(id)
		if item.Kind != ast.ItemParamDecl {
			continue
		}
		decl, _ := items.Decl(id)
		slots = append(slots, paramSlot{name: item.Name, local: decl.Local || hasHeader, span: item.NameSpan})
	}
	return slots
}

func (el *elaborator) markInstantiated(items *ast.Items, body []ast.ItemID) {
	stack := append([]ast.ItemID(nil), body...)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		item := items.Get(id)
		if item == nil {
			continue
		}
		switch item.Kind {
		case ast.ItemInstance:
			inst, _ := items.Instance(id)
			el.instantiated[el.names.Intern(inst.Module)] = true
		case ast.ItemGenRegion, ast.ItemGenBlock:
			blk, _ := items.GenBlock(id)
			stack = append(stack, blk.Items...)
		case ast.ItemGenIf:
			gi, _ := items.GenIf(id)
			stack = append(stack, gi.Then)
			if gi.Else.IsValid() {
				stack = append(stack, gi.Else)
			}
		case ast.ItemGenFor:
			gf, _ := items.GenFor(id)
			stack = append(stack, gf.Body)
		}
	}
}

func (el *elaborator) definitionNode(def *definition) tree.NodeID {
	n := el.t.Add(tree.KindDefinition)
	el.t.SetAttr(n, "name", tree.String(def.name))
	file := ""
	if f := el.fs.Get(def.item.NameSpan.File); f != nil {
		file = f.Path
	}
	el.t.SetAttr(n, "file", tree.String(file))
	el.t.SetAttr(n, "portCount", tree.Int(int64(len(def.data.Ports))))
	el.t.SetAttr(n, "parameterCount", tree.Int(int64(len(def.params))))
	el.t.SetAttr(n, "instanceCount", tree.Int(0))
	el.setLoc(n, def.item.NameSpan)
	el.attributes(env{unit: def.unit, scope: newScope(nil, def.name), build: true}, n, def.item.Attrs)
	return n
}

// tops resolves the requested top modules, or every uninstantiated one.
func (el *elaborator) tops() []*definition {
	var tops []*definition
	if len(el.opts.Tops) > 0 {
		seen := make(map[*definition]bool)
		for _, name := range el.opts.Tops {
			def, ok := el.defs[el.names.Intern(name)]
			if !ok {
				diag.ReportError(el.rep, diag.SemaUnknownTop, source.Detached(),
					"unknown top module '"+name+"'").Emit()
				continue
			}
			if !seen[def] {
				seen[def] = true
				tops = append(tops, def)
			}
		}
		return tops
	}
	for _, def := range el.order {
		if !el.instantiated[el.names.Intern(def.name)] {
			tops = append(tops, def)
		}
	}
	if len(tops) == 0 && len(el.order) > 0 {
		diag.ReportWarning(el.rep, diag.SemaNoTopModules, source.Detached(),
			"no top-level modules found; every module is instantiated by another").Emit()
	}
	return tops
}

func (el *elaborator) setLoc(n tree.NodeID, sp source.Span) {
	if !n.IsValid() || sp.IsDetached() {
		return
	}
	f := el.fs.Get(sp.File)
	if f == nil || f.Missing() {
		return
	}
	start, end := el.fs.Resolve(sp)
	el.t.SetLoc(n, tree.Location{
		File:      f.Path,
		Line:      start.Line,
		Column:    start.Col,
		EndLine:   end.Line,
		EndColumn: end.Col,
	})
}

// dedup drops repeats of a diagnostic. Bodies are elaborated once per
// instance, so the same source problem would otherwise be reported for
// every instance.
type dedup struct {
	next diag.Reporter
	seen map[dedupKey]struct{}
}

type dedupKey struct {
	code diag.Code
	span source.Span
	msg  string
}

func newDedup(next diag.Reporter) *dedup {
	return &dedup{next: next, seen: make(map[dedupKey]struct{})}
}

func (d *dedup) Report(dg diag.Diagnostic) {
	key := dedupKey{dg.Code, dg.Primary, dg.Message}
	if _, dup := d.seen[key]; dup {
		return
	}
	d.seen[key] = struct{}{}
	d.next.Report(dg)
}

func (el *elaborator) errorAt(code diag.Code, sp source.Span, msg string) {
	diag.ReportError(el.rep, code, sp, msg).Emit()
}

func (el *elaborator) warnAt(code diag.Code, sp source.Span, msg string) {
	diag.ReportWarning(el.rep, code, sp, msg).Emit()
}
