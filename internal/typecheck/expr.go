package typecheck

import "github.com/dcarreno/bminor/internal/ast"

// CheckExpr implements §4.4.1, returning a freshly owned Type describing e's
// result. On error it emits a diagnostic and returns a best-effort recovery
// type so callers can keep checking.
func (t *Typechecker) CheckExpr(e *ast.Expr) *ast.Type {
	if e == nil {
		return nil
	}
	switch e.Kind {
	case ast.ExprAdd, ast.ExprSub, ast.ExprMul, ast.ExprDiv, ast.ExprMod, ast.ExprPow:
		return t.checkArithmetic(e)
	case ast.ExprNeg, ast.ExprIncr, ast.ExprDecr:
		return t.checkUnaryNumeric(e)
	case ast.ExprAssign:
		return t.checkAssign(e)
	case ast.ExprAnd, ast.ExprOr:
		return t.checkLogical(e)
	case ast.ExprNot:
		return t.checkNot(e)
	case ast.ExprEq, ast.ExprNotEq:
		return t.checkEquality(e)
	case ast.ExprLess, ast.ExprLessEq, ast.ExprGreater, ast.ExprGreaterEq:
		return t.checkComparison(e)
	case ast.ExprArrayLen:
		return t.checkArrayLen(e)
	case ast.ExprGroup:
		inner := t.CheckExpr(e.Left)
		e.Type = inner
		return inner
	case ast.ExprCall:
		return t.checkCall(e)
	case ast.ExprArgs:
		return t.CheckExpr(e.Left)
	case ast.ExprIndex:
		return t.checkIndex(e)
	case ast.ExprBrace:
		return t.checkBrace(e)
	case ast.ExprIntLit:
		e.Type = typ(ast.KindInteger)
		return e.Type
	case ast.ExprDoubleLit:
		e.Type = typ(ast.KindDouble)
		return e.Type
	case ast.ExprCharLit:
		e.Type = typ(ast.KindCharacter)
		return e.Type
	case ast.ExprStringLit:
		e.Type = typ(ast.KindString)
		return e.Type
	case ast.ExprBoolLit:
		e.Type = typ(ast.KindBoolean)
		return e.Type
	case ast.ExprIdent:
		if e.Symbol == nil || e.Symbol.Type == nil {
			return typ(ast.KindInteger)
		}
		e.Type = e.Symbol.Type.DeepCopy()
		return e.Type
	default:
		return nil
	}
}

func (t *Typechecker) checkArithmetic(e *ast.Expr) *ast.Type {
	lt := t.CheckExpr(e.Left)
	rt := t.CheckExpr(e.Right)
	if lt == nil || rt == nil {
		e.Type = typ(ast.KindInteger)
		return e.Type
	}
	if e.Kind == ast.ExprMod {
		if lt.Kind != ast.KindInteger || rt.Kind != ast.KindInteger {
			t.errorf("%% requires integer operands")
		}
		e.Type = typ(ast.KindInteger)
		return e.Type
	}
	if !ast.IsNumeric(lt.Kind) || !ast.IsNumeric(rt.Kind) || lt.Kind != rt.Kind {
		t.errorf("arithmetic operands must be the same numeric type, got%s and%s", lt.Print(), rt.Print())
		e.Type = typ(ast.KindInteger)
		return e.Type
	}
	e.Type = typ(lt.Kind)
	return e.Type
}

func (t *Typechecker) checkUnaryNumeric(e *ast.Expr) *ast.Type {
	ot := t.CheckExpr(e.Left)
	if ot == nil || !ast.IsNumeric(ot.Kind) {
		t.errorf("operand must be integer or double")
		e.Type = typ(ast.KindInteger)
		return e.Type
	}
	e.Type = typ(ot.Kind)
	return e.Type
}

func (t *Typechecker) checkAssign(e *ast.Expr) *ast.Type {
	if e.Left.Kind != ast.ExprIdent && e.Left.Kind != ast.ExprIndex {
		t.errorf("left side of assignment must be an identifier or array index")
	}
	lt := t.CheckExpr(e.Left)
	rt := t.CheckExpr(e.Right)
	if lt == nil || rt == nil {
		return lt
	}
	if lt.Kind == ast.KindAuto && rt.Kind == ast.KindAuto {
		t.errorf("cannot infer type: both sides of assignment are auto")
		e.Type = typ(ast.KindInteger)
		return e.Type
	}
	if lt.Kind == ast.KindAuto {
		if rt.Kind == ast.KindVoid {
			t.errorf("cannot infer type from a void expression")
			e.Type = typ(ast.KindInteger)
			return e.Type
		}
		installType(e.Left, rt)
		t.resolvedf("'%s' type set to (%s )", identName(e.Left), rt.Print())
		e.Type = rt.DeepCopy()
		return e.Type
	}
	if (lt.Kind == ast.KindArray || lt.Kind == ast.KindCarray) && lt.BaseElement().Kind == ast.KindAuto &&
		(rt.Kind == ast.KindArray || rt.Kind == ast.KindCarray) {
		base := rt.BaseElement()
		if base == nil || base.Kind == ast.KindAuto || base.Kind == ast.KindVoid {
			t.errorf("cannot infer element type from%s", rt.Print())
		} else {
			resolveAutoElement(e.Left, base)
			t.resolvedf("'%s' type set to (%s )", identName(e.Left), e.Left.Type.Print())
		}
		e.Type = e.Left.Type
		return e.Type
	}
	if lt.Kind != rt.Kind {
		t.errorf("cannot assign%s to%s", rt.Print(), lt.Print())
	}
	e.Type = lt
	return e.Type
}

// identName digs out the identifier a resolved/inferred message should name:
// the assignment target itself, or the array an index expression ultimately
// subscripts.
func identName(e *ast.Expr) string {
	cur := e.Unwrap()
	for cur != nil && cur.Kind == ast.ExprIndex {
		cur = cur.Left.Unwrap()
	}
	if cur != nil && cur.Kind == ast.ExprIdent {
		return cur.Name
	}
	return ""
}

// resolveAutoElement installs base into the deepest element slot of the
// target's symbol type: walk the subtype chain until the last subtype whose
// own subtype is non-nil, then replace that slot (the original compiler
// mutated the base type through exactly this walk, and its observed
// semantics are kept).
func resolveAutoElement(e *ast.Expr, base *ast.Type) {
	if e == nil || e.Symbol == nil || e.Symbol.Type == nil {
		return
	}
	cur := e.Symbol.Type
	for cur.Subtype != nil && cur.Subtype.Subtype != nil {
		cur = cur.Subtype
	}
	cur.Subtype = base.DeepCopy()
	e.Type = e.Symbol.Type.DeepCopy()
}

// installType writes resolved onto the identifier's Type and its Symbol's
// Type in place, keeping both views of an auto binding synchronized.
func installType(e *ast.Expr, resolved *ast.Type) {
	if e == nil || resolved == nil {
		return
	}
	e.Type = resolved.DeepCopy()
	if e.Symbol != nil {
		e.Symbol.Type = resolved.DeepCopy()
	}
}

func (t *Typechecker) checkLogical(e *ast.Expr) *ast.Type {
	lt := t.CheckExpr(e.Left)
	rt := t.CheckExpr(e.Right)
	if lt != nil && lt.Kind != ast.KindBoolean {
		t.errorf("logical operand must be boolean, got%s", lt.Print())
	}
	if rt != nil && rt.Kind != ast.KindBoolean {
		t.errorf("logical operand must be boolean, got%s", rt.Print())
	}
	e.Type = typ(ast.KindBoolean)
	return e.Type
}

func (t *Typechecker) checkNot(e *ast.Expr) *ast.Type {
	ot := t.CheckExpr(e.Left)
	if ot != nil && ot.Kind != ast.KindBoolean {
		t.errorf("! requires a boolean operand, got%s", ot.Print())
	}
	e.Type = typ(ast.KindBoolean)
	return e.Type
}

func (t *Typechecker) checkEquality(e *ast.Expr) *ast.Type {
	lt := t.CheckExpr(e.Left)
	rt := t.CheckExpr(e.Right)
	if lt != nil && rt != nil {
		if lt.Kind != rt.Kind {
			t.errorf("cannot compare%s with%s", lt.Print(), rt.Print())
		} else if ast.IllegalEqualityKind(lt.Kind) {
			t.errorf("values of type%s may not be compared", lt.Print())
		}
	}
	e.Type = typ(ast.KindBoolean)
	return e.Type
}

func (t *Typechecker) checkComparison(e *ast.Expr) *ast.Type {
	lt := t.CheckExpr(e.Left)
	rt := t.CheckExpr(e.Right)
	if lt == nil || rt == nil || !ast.IsNumeric(lt.Kind) || lt.Kind != rt.Kind {
		t.errorf("comparison operands must be the same numeric type")
	}
	e.Type = typ(ast.KindBoolean)
	return e.Type
}

// checkArrayLen requires an array operand specifically — carray is not
// accepted here, unlike indexing, which takes both.
func (t *Typechecker) checkArrayLen(e *ast.Expr) *ast.Type {
	ot := t.CheckExpr(e.Left)
	if ot != nil && ot.Kind != ast.KindArray {
		t.errorf("# requires an array operand, got%s", ot.Print())
	}
	e.Type = typ(ast.KindInteger)
	return e.Type
}

func (t *Typechecker) checkIndex(e *ast.Expr) *ast.Type {
	at := t.CheckExpr(e.Left)
	it := t.CheckExpr(e.Right)
	if it != nil && it.Kind != ast.KindInteger {
		t.errorf("array index must be of type integer")
	}
	if at == nil || (at.Kind != ast.KindArray && at.Kind != ast.KindCarray) {
		t.errorf("indexed value must be an array")
		e.Type = typ(ast.KindInteger)
		return e.Type
	}
	e.Type = at.Subtype.DeepCopy()
	return e.Type
}

func (t *Typechecker) checkCall(e *ast.Expr) *ast.Type {
	calleeType := t.CheckExpr(e.Left)
	args := argsList(e.Right)
	if calleeType == nil || calleeType.Kind != ast.KindFunction {
		t.errorf("call target is not a function")
		for _, a := range args {
			t.CheckExpr(a)
		}
		return typ(ast.KindVoid)
	}
	params := paramsSlice(calleeType.Params)
	if len(params) == 0 && len(args) > 0 {
		t.errorf("function takes no arguments, got %d", len(args))
	} else if len(params) != len(args) {
		t.errorf("function expects %d argument(s), got %d", len(params), len(args))
	}
	n := len(params)
	if len(args) < n {
		n = len(args)
	}
	for i := 0; i < n; i++ {
		argType := t.CheckExpr(args[i])
		if argType != nil && params[i].Type != nil && !argType.Equals(params[i].Type) {
			t.errorf("argument %d: expected%s, got%s", i+1, params[i].Type.Print(), argType.Print())
		}
	}
	for i := n; i < len(args); i++ {
		t.CheckExpr(args[i])
	}
	e.Type = calleeType.Subtype.DeepCopy()
	return e.Type
}

func argsList(e *ast.Expr) []*ast.Expr {
	if e == nil {
		return nil
	}
	return e.Args()
}

func paramsSlice(p *ast.ParamList) []*ast.ParamList {
	var out []*ast.ParamList
	for cur := p; cur != nil; cur = cur.Next {
		out = append(out, cur)
	}
	return out
}

// checkBrace implements §4.4.1's three brace-initializer modes.
func (t *Typechecker) checkBrace(e *ast.Expr) *ast.Type {
	elements := e.Elements()
	if e.Symbol == nil {
		inferred := t.inferBraceType(e)
		e.Type = inferred
		return inferred
	}
	declared := e.Symbol.Type
	if declared == nil || declared.Kind == ast.KindAuto {
		inferred := t.inferBraceType(e)
		e.Type = inferred
		if e.Symbol.Type != nil {
			e.Symbol.Type = inferred.DeepCopy()
		}
		return inferred
	}
	name := ""
	if e.Symbol != nil {
		name = e.Symbol.Name
	}
	t.checkBraceAgainstType(e, declared, elements, name)
	e.Type = declared.DeepCopy()
	return e.Type
}

// inferBraceType recursively typechecks every element (for diagnostics) and
// builds an array type from the brace's structure: the first concrete
// element's kind becomes the leaf type, and each level's length is the
// element count at that level.
func (t *Typechecker) inferBraceType(e *ast.Expr) *ast.Type {
	elements := e.Elements()
	if len(elements) == 0 {
		return ast.NewArrayType(ast.KindArray, typ(ast.KindInteger), nil, e.Pos)
	}
	var elemType *ast.Type
	if elements[0].Kind == ast.ExprBrace {
		elemType = t.inferBraceType(elements[0])
		for _, el := range elements[1:] {
			t.CheckExpr(el)
		}
	} else {
		for _, el := range elements {
			et := t.CheckExpr(el)
			if elemType == nil || (elemType.Kind == ast.KindAuto && et != nil && et.Kind != ast.KindAuto) {
				elemType = et
			}
		}
	}
	length := ast.NewIntLiteral(int64(len(elements)), e.Pos)
	return ast.NewArrayType(ast.KindArray, elemType, length, e.Pos)
}

// checkBraceAgainstType enforces a brace's elements against a fully declared
// array/carray type, per-level, reporting length and nesting mismatches. name
// is the declared symbol's name, threaded through for the "length resolved"
// diagnostic and reused unchanged across nested levels.
func (t *Typechecker) checkBraceAgainstType(e *ast.Expr, declared *ast.Type, elements []*ast.Expr, name string) {
	if declared.Kind != ast.KindArray && declared.Kind != ast.KindCarray {
		t.errorf("brace initializer used for non-array type%s", declared.Print())
		return
	}
	if declared.Length != nil && declared.Length.Kind == ast.ExprIntLit {
		want := int(declared.Length.IntLiteral)
		if want != len(elements) {
			t.errorf("expected %d elements in initializer, got %d", want, len(elements))
		}
	} else if declared.Length == nil {
		declared.Length = ast.NewIntLiteral(int64(len(elements)), e.Pos)
		t.resolvedf("Array '%s' set to length %d", name, len(elements))
	}
	sub := declared.Subtype
	for _, el := range elements {
		if sub != nil && (sub.Kind == ast.KindArray || sub.Kind == ast.KindCarray) {
			if el.Kind != ast.ExprBrace {
				t.errorf("expected nested initializer for array element")
				continue
			}
			t.checkBraceAgainstType(el, sub, el.Elements(), name)
			continue
		}
		if el.Kind == ast.ExprBrace {
			t.errorf("unexpected nested initializer")
			continue
		}
		if !isLiteralExpr(el) {
			t.errorf("initializer element must be a constant literal")
			continue
		}
		elType := t.CheckExpr(el)
		if elType != nil && sub != nil && !elType.Equals(sub) {
			t.errorf("initializer element has type%s, expected%s", elType.Print(), sub.Print())
		}
	}
}

// isLiteralExpr reports whether e is a literal or a unary negation of a
// numeric literal, the only element shapes a declared-type brace initializer
// accepts at a leaf position.
func isLiteralExpr(e *ast.Expr) bool {
	if e == nil {
		return false
	}
	switch e.Kind {
	case ast.ExprIntLit, ast.ExprDoubleLit, ast.ExprCharLit, ast.ExprStringLit, ast.ExprBoolLit:
		return true
	case ast.ExprNeg:
		return e.Left != nil && (e.Left.Kind == ast.ExprIntLit || e.Left.Kind == ast.ExprDoubleLit)
	default:
		return false
	}
}
