package elab

import (
	"math/big"
	"strconv"
	"strings"

	"svdump/internal/ast"
	"svdump/internal/diag"
	"svdump/internal/logic"
	"svdump/internal/source"
	"svdump/internal/token"
	"svdump/internal/tree"
)

// exprResult is an elaborated expression. node is zero in quiet mode;
// value is meaningful only when known.
type exprResult struct {
	node  tree.NodeID
	typ   *typeInfo
	value logic.Vector
	known bool
	// fill marks unbased unsized literals, which widen by replication.
	fill bool
}

var unaryOps = map[token.Kind]string{
	token.Plus:       "Plus",
	token.Minus:      "Minus",
	token.Tilde:      "BitwiseNot",
	token.Bang:       "LogicalNot",
	token.Amp:        "BitwiseAnd",
	token.Pipe:       "BitwiseOr",
	token.Caret:      "BitwiseXor",
	token.TildeAmp:   "BitwiseNand",
	token.TildePipe:  "BitwiseNor",
	token.TildeCaret: "BitwiseXnor",
}

var binaryOps = map[token.Kind]string{
	token.Plus:       "Add",
	token.Minus:      "Subtract",
	token.Star:       "Multiply",
	token.Slash:      "Divide",
	token.Percent:    "Mod",
	token.Power:      "Power",
	token.Amp:        "BinaryAnd",
	token.Pipe:       "BinaryOr",
	token.Caret:      "BinaryXor",
	token.TildeCaret: "BinaryXnor",
	token.EqEq:       "Equality",
	token.BangEq:     "Inequality",
	token.CaseEq:     "CaseEquality",
	token.CaseNeq:    "CaseInequality",
	token.Lt:         "LessThan",
	token.LtEq:       "LessThanEqual",
	token.Gt:         "GreaterThan",
	token.GtEq:       "GreaterThanEqual",
	token.AndAnd:     "LogicalAnd",
	token.OrOr:       "LogicalOr",
	token.Shl:        "LogicalShiftLeft",
	token.Shr:        "LogicalShiftRight",
	token.AShl:       "ArithmeticShiftLeft",
	token.AShr:       "ArithmeticShiftRight",
}

// system tasks called for effect; their calls have type void.
var systemTasks = map[string]bool{
	"$display": true, "$write": true, "$strobe": true, "$monitor": true,
	"$finish": true, "$stop": true, "$error": true, "$warning": true,
	"$info": true, "$fatal": true, "$dumpfile": true, "$dumpvars": true,
	"$readmemh": true, "$readmemb": true,
}

// exprNode allocates an expression node; nothing is built in quiet mode.
func (el *elaborator) exprNode(en env, kind tree.Kind, sp source.Span) tree.NodeID {
	if !en.build {
		return tree.NoNodeID
	}
	n := el.t.Add(kind)
	el.setLoc(n, sp)
	return n
}

// done stamps the constant flag and the type reference on n.
func (el *elaborator) done(n tree.NodeID, r exprResult) exprResult {
	r.node = n
	if !n.IsValid() {
		return r
	}
	if el.t.Get(n).Kind.Allows("constant") {
		el.t.SetAttr(n, "constant", tree.Bool(r.known))
	}
	el.t.AddRef(n, tree.RefType, r.typ.node)
	return r
}

func (el *elaborator) children(n tree.NodeID, rs ...exprResult) {
	if !n.IsValid() {
		return
	}
	for _, r := range rs {
		if r.node.IsValid() {
			el.t.AddChild(n, r.node)
		}
	}
}

func (el *elaborator) invalid(en env, sp source.Span, parts ...exprResult) exprResult {
	n := el.exprNode(en, tree.KindInvalid, sp)
	el.children(n, parts...)
	return el.done(n, exprResult{typ: el.types.errorType()})
}

func isError(rs ...exprResult) bool {
	for _, r := range rs {
		if r.typ.kind == typeError {
			return true
		}
	}
	return false
}

// expr elaborates the expression id in en.
func (el *elaborator) expr(en env, id ast.ExprID) exprResult {
	exprs := en.unit.Builder.Exprs
	x := exprs.Get(id)
	if x == nil {
		return el.invalid(en, source.Detached())
	}
	switch x.Kind {
	case ast.ExprIdent:
		data, _ := exprs.Ident(id)
		return el.ident(en, data.Name, x.Span)
	case ast.ExprLit:
		data, _ := exprs.Literal(id)
		return el.literal(en, data, x.Span)
	case ast.ExprUnary:
		data, _ := exprs.Unary(id)
		return el.unary(en, data, x.Span)
	case ast.ExprBinary:
		data, _ := exprs.Binary(id)
		return el.binary(en, data, x.Span)
	case ast.ExprTernary:
		data, _ := exprs.Ternary(id)
		return el.ternary(en, data, x.Span)
	case ast.ExprIndex:
		data, _ := exprs.Index(id)
		return el.elementSelect(en, data, x.Span)
	case ast.ExprRange:
		data, _ := exprs.Range(id)
		return el.rangeSelect(en, data, x.Span)
	case ast.ExprConcat, ast.ExprReplicate:
		data, _ := exprs.Concat(id)
		return el.concat(en, data, x.Span)
	case ast.ExprCall:
		data, _ := exprs.Call(id)
		return el.call(en, data, x.Span)
	}
	return el.invalid(en, x.Span)
}

func (el *elaborator) ident(en env, name string, sp source.Span) exprResult {
	sym := el.lookup(en.scope, name)
	if sym == nil {
		el.errorAt(diag.SemaUndeclaredIdentifier, sp, "use of undeclared identifier '"+name+"'")
		return el.invalid(en, sp)
	}
	if !sym.kind.isValue() {
		el.errorAt(diag.SemaError, sp, "'"+name+"' is not a value")
		return el.invalid(en, sp)
	}
	n := el.exprNode(en, tree.KindNamedValue, sp)
	if n.IsValid() {
		el.t.SetAttr(n, "name", tree.String(name))
		if sym.node.IsValid() {
			el.t.AddRef(n, tree.RefSymbol, sym.node)
		}
	}
	constant := sym.known && (sym.kind == symParameter || sym.kind == symGenvar)
	return el.done(n, exprResult{typ: sym.typ, value: sym.value, known: constant})
}

func (el *elaborator) literal(en env, data *ast.ExprLitData, sp source.Span) exprResult {
	switch data.Kind {
	case ast.LitInt:
		v, err := logic.Parse(data.Text)
		if err != nil {
			el.errorAt(diag.SemaError, sp, err.Error())
			return el.invalid(en, sp)
		}
		typ := el.types.vector(v.Width(), v.Signed, true)
		if !strings.ContainsRune(data.Text, '\'') {
			typ = el.types.vector(v.Width(), true, false)
			if v.Width() == logic.DefaultIntWidth {
				typ = el.types.predefined("int")
			}
		}
		n := el.exprNode(en, tree.KindIntegerLiteral, sp)
		if n.IsValid() {
			el.t.SetAttr(n, "value", tree.Constant(v))
		}
		return el.done(n, exprResult{typ: typ, value: v, known: true})

	case ast.LitUnbased:
		b, err := logic.ParseUnbased(data.Text)
		if err != nil {
			el.errorAt(diag.SemaError, sp, err.Error())
			return el.invalid(en, sp)
		}
		v := logic.Fill(1, b, false)
		n := el.exprNode(en, tree.KindUnbasedUnsizedLiteral, sp)
		if n.IsValid() {
			el.t.SetAttr(n, "value", tree.Constant(v))
		}
		return el.done(n, exprResult{typ: el.types.scalar("logic", false), value: v, known: true, fill: true})

	case ast.LitReal:
		f, err := strconv.ParseFloat(strings.ReplaceAll(data.Text, "_", ""), 64)
		if err != nil {
			el.errorAt(diag.SemaError, sp, "malformed real literal '"+data.Text+"'")
			return el.invalid(en, sp)
		}
		n := el.exprNode(en, tree.KindRealLiteral, sp)
		if n.IsValid() {
			el.t.SetAttr(n, "value", tree.Float(f))
		}
		return el.done(n, exprResult{typ: el.types.real()})

	case ast.LitString:
		s, err := strconv.Unquote(data.Text)
		if err != nil {
			s = strings.Trim(data.Text, `"`)
		}
		width := max(8*len(s), 8)
		v := logic.FromBig(new(big.Int).SetBytes([]byte(s)), width, false)
		n := el.exprNode(en, tree.KindStringLiteral, sp)
		if n.IsValid() {
			el.t.SetAttr(n, "literal", tree.String(s))
		}
		return el.done(n, exprResult{typ: el.types.vector(width, false, false), value: v, known: true})
	}
	return el.invalid(en, sp)
}

func (el *elaborator) unary(en env, data *ast.ExprUnaryData, sp source.Span) exprResult {
	x := el.expr(en, data.X)
	op, ok := unaryOps[data.Op]
	if !ok || isError(x) {
		return el.invalid(en, sp, x)
	}
	if !x.typ.integral() && !(x.typ.kind == typeReal && (data.Op == token.Plus || data.Op == token.Minus || data.Op == token.Bang)) {
		el.errorAt(diag.SemaError, sp, "invalid operand type '"+x.typ.name+"' for unary '"+data.Op.String()+"'")
		return el.invalid(en, sp, x)
	}

	r := exprResult{typ: x.typ, known: x.known}
	v := x.value
	switch data.Op {
	case token.Plus:
	case token.Minus:
		v = logic.Neg(v)
	case token.Tilde:
		v = logic.Not(v)
	case token.Bang:
		v = logic.LogicalNot(v)
	case token.Amp, token.TildeAmp:
		v = logic.Reduce(v, '&')
	case token.Pipe, token.TildePipe:
		v = logic.Reduce(v, '|')
	case token.Caret, token.TildeCaret:
		v = logic.Reduce(v, '^')
	}
	switch data.Op {
	case token.TildeAmp, token.TildePipe, token.TildeCaret:
		v = logic.Not(v)
	}
	switch data.Op {
	case token.Plus, token.Minus, token.Tilde:
		if x.fill {
			r.fill = true
		}
	default:
		r.typ = el.types.vector(1, false, x.typ.fourState)
	}
	if x.typ.kind == typeReal {
		r.known = false
	}
	r.value = v

	n := el.exprNode(en, tree.KindUnaryOp, sp)
	if n.IsValid() {
		el.t.SetAttr(n, "op", tree.String(op))
	}
	el.children(n, x)
	return el.done(n, r)
}

func (el *elaborator) binary(en env, data *ast.ExprBinaryData, sp source.Span) exprResult {
	a := el.expr(en, data.Left)
	b := el.expr(en, data.Right)
	op, ok := binaryOps[data.Op]
	if !ok || isError(a, b) {
		return el.invalid(en, sp, a, b)
	}
	fp := a.typ.kind == typeReal || b.typ.kind == typeReal
	if !(a.typ.integral() || a.typ.kind == typeReal) || !(b.typ.integral() || b.typ.kind == typeReal) {
		el.errorAt(diag.SemaError, sp, "invalid operands to binary '"+data.Op.String()+"' ('"+a.typ.name+"' and '"+b.typ.name+"')")
		return el.invalid(en, sp, a, b)
	}

	r := exprResult{known: a.known && b.known && !fp}
	av, bv := widen(a), widen(b)
	switch data.Op {
	case token.Plus, token.Minus, token.Star, token.Slash, token.Percent,
		token.Amp, token.Pipe, token.Caret, token.TildeCaret:
		r.typ = el.types.binary(a.typ, b.typ)
		if fp {
			break
		}
		av = av.AsSigned(r.typ.signed).Resize(r.typ.width)
		bv = bv.AsSigned(r.typ.signed).Resize(r.typ.width)
		r.value = el.arith(data.Op, av, bv, r.known, sp)
	case token.Power, token.Shl, token.Shr, token.AShl, token.AShr:
		r.typ = a.typ
		if fp {
			r.typ = el.types.real()
			break
		}
		switch data.Op {
		case token.Power:
			r.value = logic.Pow(av, bv)
		case token.Shl, token.AShl:
			r.value = logic.Shl(av, bv)
		case token.Shr:
			r.value = logic.Shr(av, bv, false)
		default:
			r.value = logic.Shr(av, bv, true)
		}
	default:
		r.typ = el.types.vector(1, false, a.typ.fourState || b.typ.fourState)
		r.value = compare(data.Op, av, bv)
	}
	if r.known && r.typ.integral() {
		r.value = r.value.AsSigned(r.typ.signed).Resize(r.typ.width)
	}

	n := el.exprNode(en, tree.KindBinaryOp, sp)
	if n.IsValid() {
		el.t.SetAttr(n, "op", tree.String(op))
	}
	el.children(n, a, b)
	return el.done(n, r)
}

// widen returns the value of r, replicating unbased literals to 32 bits
// so that they combine with the other operand.
func widen(r exprResult) logic.Vector {
	if r.fill {
		return logic.Fill(logic.DefaultIntWidth, r.value.Bit(0), false)
	}
	return r.value
}

func (el *elaborator) arith(op token.Kind, a, b logic.Vector, known bool, sp source.Span) logic.Vector {
	switch op {
	case token.Plus:
		return logic.Add(a, b)
	case token.Minus:
		return logic.Sub(a, b)
	case token.Star:
		return logic.Mul(a, b)
	case token.Slash, token.Percent:
		div := logic.Div
		if op == token.Percent {
			div = logic.Mod
		}
		v, err := div(a, b)
		if err != nil && known {
			el.warnAt(diag.SemaDivideByZero, sp, "division by zero yields x")
		}
		return v
	case token.Amp:
		return logic.And(a, b)
	case token.Pipe:
		return logic.Or(a, b)
	case token.Caret:
		return logic.Xor(a, b)
	default:
		return logic.Xnor(a, b)
	}
}

func compare(op token.Kind, a, b logic.Vector) logic.Vector {
	switch op {
	case token.EqEq:
		return logic.Eq(a, b)
	case token.BangEq:
		return logic.Neq(a, b)
	case token.CaseEq:
		return logic.CaseEq(a, b)
	case token.CaseNeq:
		return logic.Not(logic.CaseEq(a, b))
	case token.Lt:
		return logic.Lt(a, b)
	case token.LtEq:
		return logic.Le(a, b)
	case token.Gt:
		return logic.Gt(a, b)
	case token.GtEq:
		return logic.Ge(a, b)
	case token.AndAnd:
		return logic.LogicalAnd(a, b)
	default:
		return logic.LogicalOr(a, b)
	}
}

func (el *elaborator) ternary(en env, data *ast.ExprTernaryData, sp source.Span) exprResult {
	c := el.expr(en, data.Cond)
	a := el.expr(en, data.Then)
	b := el.expr(en, data.Else)
	if isError(c, a, b) {
		return el.invalid(en, sp, c, a, b)
	}
	r := exprResult{typ: el.types.binary(a.typ, b.typ)}
	if r.typ.integral() {
		av := widen(a).AsSigned(r.typ.signed).Resize(r.typ.width)
		bv := widen(b).AsSigned(r.typ.signed).Resize(r.typ.width)
		truth, defined := c.value.Truthy()
		switch {
		case !c.known:
		case !defined:
			r.value, r.known = logic.Merge(av, bv), a.known && b.known
		case truth:
			r.value, r.known = av, a.known
		default:
			r.value, r.known = bv, b.known
		}
	}
	n := el.exprNode(en, tree.KindConditionalOp, sp)
	el.children(n, c, a, b)
	return el.done(n, r)
}

// bitOffset maps index i of dimension [msb:lsb] to its element position
// counted from the least significant end.
func bitOffset(i int64, msb, lsb int) (int, bool) {
	lo, hi := min(msb, lsb), max(msb, lsb)
	if i < int64(lo) || i > int64(hi) {
		return 0, false
	}
	if msb >= lsb {
		return int(i) - lsb, true
	}
	return lsb - int(i), true
}

func (el *elaborator) selectable(en env, base exprResult, sp source.Span) bool {
	if base.typ.integral() {
		return true
	}
	el.errorAt(diag.SemaError, sp, "cannot select from value of type '"+base.typ.name+"'")
	return false
}

func (el *elaborator) elementSelect(en env, data *ast.ExprIndexData, sp source.Span) exprResult {
	base := el.expr(en, data.X)
	idx := el.expr(en, data.Index)
	if isError(base, idx) || !el.selectable(en, base, sp) {
		return el.invalid(en, sp, base, idx)
	}
	msb, lsb, elem := el.types.dim(base.typ)
	r := exprResult{typ: elem}
	if idx.known {
		i, ok := idx.value.Int64()
		off, in := bitOffset(i, msb, lsb)
		switch {
		case !ok:
			r.value, r.known = logic.Fill(elem.width, logic.BX, false), base.known
		case !in:
			el.warnAt(diag.SemaIndexOutOfRange, sp,
				"index "+strconv.FormatInt(i, 10)+" is out of range ["+strconv.Itoa(msb)+":"+strconv.Itoa(lsb)+"]")
			r.value, r.known = logic.Fill(elem.width, logic.BX, false), base.known
		default:
			r.value, r.known = base.value.Slice(off*elem.width, elem.width), base.known
		}
	}
	n := el.exprNode(en, tree.KindElementSelect, sp)
	el.children(n, base, idx)
	return el.done(n, r)
}

func (el *elaborator) rangeSelect(en env, data *ast.ExprRangeData, sp source.Span) exprResult {
	base := el.expr(en, data.X)
	left := el.expr(en, data.Left)
	right := el.expr(en, data.Right)
	if isError(base, left, right) || !el.selectable(en, base, sp) {
		return el.invalid(en, sp, base, left, right)
	}
	kind := "Simple"
	switch data.Mode {
	case token.PlusColon:
		kind = "IndexedUp"
	case token.MinusColon:
		kind = "IndexedDown"
	}

	msb, lsb, elem := el.types.dim(base.typ)
	l, lok := left.value.Int64()
	w, wok := right.value.Int64()
	lok, wok = lok && left.known, wok && right.known
	var count int64
	switch kind {
	case "Simple":
		if !lok || !wok {
			el.errorAt(diag.SemaNotConstant, sp, "range select bounds must be constant")
			return el.invalid(en, sp, base, left, right)
		}
		count = abs64(l-w) + 1
	default:
		if !wok || w <= 0 {
			el.errorAt(diag.SemaNotConstant, sp, "indexed part-select width must be a positive constant")
			return el.invalid(en, sp, base, left, right)
		}
		count = w
	}
	if count*int64(elem.width) > logic.MaxWidth {
		el.errorAt(diag.SemaError, sp, "part-select is too wide")
		return el.invalid(en, sp, base, left, right)
	}

	width := int(count)
	r := exprResult{typ: el.types.vector(width, false, base.typ.fourState)}
	if elem.width > 1 {
		r.typ = el.types.packed(elem, width-1, 0, false)
	}
	if lok {
		first, last := l, w
		switch kind {
		case "IndexedUp":
			first, last = l, l+w-1
		case "IndexedDown":
			first, last = l, l-w+1
		}
		a, okA := bitOffset(first, msb, lsb)
		b, okB := bitOffset(last, msb, lsb)
		if !okA || !okB {
			el.warnAt(diag.SemaIndexOutOfRange, sp,
				"part-select ["+strconv.FormatInt(first, 10)+":"+strconv.FormatInt(last, 10)+"] is out of range ["+
					strconv.Itoa(msb)+":"+strconv.Itoa(lsb)+"]")
			r.value, r.known = logic.Fill(r.typ.width, logic.BX, false), base.known
		} else {
			r.value, r.known = base.value.Slice(min(a, b)*elem.width, r.typ.width), base.known
		}
	}

	n := el.exprNode(en, tree.KindRangeSelect, sp)
	if n.IsValid() {
		el.t.SetAttr(n, "selectionKind", tree.String(kind))
	}
	el.children(n, base, left, right)
	return el.done(n, r)
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

func (el *elaborator) concat(en env, data *ast.ExprConcatData, sp source.Span) exprResult {
	items := make([]exprResult, 0, len(data.Items))
	known, fourState, width := true, false, 0
	for _, id := range data.Items {
		r := el.expr(en, id)
		items = append(items, r)
		if r.typ.kind == typeError {
			continue
		}
		if !r.typ.integral() {
			el.errorAt(diag.SemaError, sp, "value of type '"+r.typ.name+"' cannot be concatenated")
			r.typ = el.types.errorType()
			items[len(items)-1] = r
			continue
		}
		if r.fill {
			el.errorAt(diag.SemaError, sp, "unbased unsized literal is not allowed in a concatenation")
		}
		known = known && r.known
		fourState = fourState || r.typ.fourState
		width += r.typ.width
	}
	if isError(items...) {
		return el.invalid(en, sp, items...)
	}

	if !data.Count.IsValid() {
		if width > logic.MaxWidth {
			el.errorAt(diag.SemaError, sp, "concatenation is too wide")
			return el.invalid(en, sp, items...)
		}
		return el.concatNode(en, items, width, known, fourState, sp)
	}

	count := el.expr(en, data.Count)
	if isError(count) {
		return el.invalid(en, sp, append([]exprResult{count}, items...)...)
	}
	k, ok := count.value.Int64()
	if !count.known || !ok || k < 0 {
		el.errorAt(diag.SemaNotConstant, sp, "replication count must be a non-negative constant")
		return el.invalid(en, sp, append([]exprResult{count}, items...)...)
	}
	if int64(width)*k > logic.MaxWidth {
		el.errorAt(diag.SemaError, sp, "replication is too wide")
		return el.invalid(en, sp, append([]exprResult{count}, items...)...)
	}
	inner := el.concatNode(en, items, width, known, fourState, sp)
	r := exprResult{
		typ:   el.types.vector(width*int(k), false, fourState),
		known: known,
	}
	if known {
		r.value = logic.Replicate(inner.value, int(k))
	}
	n := el.exprNode(en, tree.KindReplication, sp)
	if n.IsValid() {
		el.t.SetAttr(n, "count", tree.Int(k))
	}
	el.children(n, count, inner)
	return el.done(n, r)
}

func (el *elaborator) concatNode(en env, items []exprResult, width int, known, fourState bool, sp source.Span) exprResult {
	r := exprResult{typ: el.types.vector(width, false, fourState), known: known}
	if known {
		parts := make([]logic.Vector, len(items))
		for i, it := range items {
			parts[i] = it.value
		}
		r.value = logic.Concat(parts...)
	}
	n := el.exprNode(en, tree.KindConcatenation, sp)
	el.children(n, items...)
	return el.done(n, r)
}

func (el *elaborator) call(en env, data *ast.ExprCallData, sp source.Span) exprResult {
	args := make([]exprResult, len(data.Args))
	for i, id := range data.Args {
		args[i] = el.expr(en, id)
	}
	argc := func(n int) bool {
		if len(args) == n {
			return true
		}
		el.errorAt(diag.SemaError, sp, data.Name+" expects "+strconv.Itoa(n)+" argument(s), got "+strconv.Itoa(len(args)))
		return false
	}

	var r exprResult
	switch data.Name {
	case "$clog2":
		if !argc(1) || isError(args...) {
			return el.invalid(en, sp, args...)
		}
		r.typ = el.types.predefined("int")
		if n, ok := args[0].value.Big(); ok && args[0].known {
			r.value, r.known = logic.FromInt64(int64(clog2(n)), 32, true), true
		}
	case "$bits":
		if !argc(1) || isError(args...) {
			return el.invalid(en, sp, args...)
		}
		r.typ = el.types.predefined("int")
		r.value, r.known = logic.FromInt64(int64(args[0].typ.width), 32, true), true
	case "$signed", "$unsigned":
		if !argc(1) || isError(args...) {
			return el.invalid(en, sp, args...)
		}
		a := args[0]
		if !a.typ.integral() {
			el.errorAt(diag.SemaError, sp, data.Name+" requires an integral argument")
			return el.invalid(en, sp, args...)
		}
		signed := data.Name == "$signed"
		r.typ = el.types.vector(a.typ.width, signed, a.typ.fourState)
		r.value, r.known = a.value.AsSigned(signed), a.known
	case "$time":
		r.typ = el.types.predefined("time")
	case "$random":
		r.typ = el.types.predefined("int")
	default:
		if !systemTasks[data.Name] {
			el.errorAt(diag.SemaError, sp, "unknown system subroutine '"+data.Name+"'")
			return el.invalid(en, sp, args...)
		}
		r.typ = el.types.void()
	}

	n := el.exprNode(en, tree.KindCall, sp)
	if n.IsValid() {
		el.t.SetAttr(n, "subroutine", tree.String(data.Name))
	}
	el.children(n, args...)
	return el.done(n, r)
}

// clog2 is the ceiling of log2(n); zero and one give zero.
func clog2(n *big.Int) int {
	if n.Sign() <= 0 || n.Cmp(big.NewInt(1)) == 0 {
		return 0
	}
	return new(big.Int).Sub(n, big.NewInt(1)).BitLen()
}

// convert wraps r in an implicit conversion when its type differs from to.
func (el *elaborator) convert(en env, r exprResult, to *typeInfo, sp source.Span) exprResult {
	if r.typ == to || isError(r) || to.kind == typeError {
		return r
	}
	out := exprResult{typ: to}
	switch {
	case !r.known || !to.integral():
	case r.fill:
		out.value, out.known = logic.Fill(to.width, r.value.Bit(0), to.signed), true
	default:
		out.value, out.known = r.value.Resize(to.width).AsSigned(to.signed), true
	}
	n := el.exprNode(en, tree.KindConversion, sp)
	if n.IsValid() {
		el.t.SetAttr(n, "conversionKind", tree.String("Implicit"))
	}
	el.children(n, r)
	return el.done(n, out)
}

// constInt evaluates id as an integer constant without building nodes.
func (el *elaborator) constInt(en env, id ast.ExprID, what string) (int64, bool) {
	r := el.expr(en.quiet(), id)
	if isError(r) {
		return 0, false
	}
	sp := el.exprSpan(en, id)
	if !r.known {
		el.errorAt(diag.SemaNotConstant, sp, what+" must be a constant expression")
		return 0, false
	}
	n, ok := r.value.Int64()
	if !ok {
		el.errorAt(diag.SemaNotConstant, sp, what+" has unknown bits")
	}
	return n, ok
}
