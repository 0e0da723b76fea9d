// Package typecheck implements B-minor's type checker (C4): per-expression
// result-type inference, per-statement control-flow-return tracking, and
// per-declaration rules including `auto` inference and brace-initializer
// shape inference (§4.4). Call-argument and initializer checks compare
// ast.Type values structurally via ast.Type.Equals; assignment, equality and
// return checks compare kinds only.
package typecheck

import (
	"github.com/dcarreno/bminor/internal/ast"
	"github.com/dcarreno/bminor/internal/diag"
	"github.com/dcarreno/bminor/internal/lexer"
)

// Typechecker walks a resolved AST computing and validating types.
type Typechecker struct {
	diags *diag.Context
}

func New(diags *diag.Context) *Typechecker {
	return &Typechecker{diags: diags}
}

func (t *Typechecker) errorf(format string, args ...interface{}) {
	t.diags.Errorf(diag.PhaseTypechecker, format, args...)
}

func (t *Typechecker) resolvedf(format string, args ...interface{}) {
	t.diags.Resolvedf(diag.PhaseTypechecker, format, args...)
}

// CheckProgram typechecks every top-level declaration in order.
func (t *Typechecker) CheckProgram(decls *ast.Decl) {
	for d := decls; d != nil; d = d.Next {
		t.CheckDecl(d)
	}
}

func typ(kind ast.TypeKind) *ast.Type { return ast.NewType(kind, lexer.Position{}) }

// CheckDecl implements §4.4.3.
func (t *Typechecker) CheckDecl(d *ast.Decl) {
	if d == nil {
		return
	}
	if d.Type != nil && d.Type.Kind == ast.KindFunction {
		t.checkFunctionDecl(d)
		return
	}
	t.checkDataDecl(d)
}

func (t *Typechecker) checkDataDecl(d *ast.Decl) {
	var initType *ast.Type
	if d.Value != nil {
		initType = t.CheckExpr(d.Value)
	}

	if d.Type.Kind == ast.KindAuto {
		if d.Value == nil {
			t.errorf("%s: auto-typed declaration requires an initializer", d.Name)
			return
		}
		if initType == nil || initType.Kind == ast.KindVoid || initType.Kind == ast.KindAuto {
			t.errorf("%s: cannot infer type from initializer", d.Name)
			return
		}
		d.Type = initType.DeepCopy()
		if d.Symbol != nil {
			d.Symbol.Type = d.Type
		}
		t.resolvedf("'%s' type set to (%s )", d.Name, d.Type.Print())
	} else if d.Value != nil && initType != nil {
		if !typesCompatibleForInit(d.Type, initType) {
			t.errorf("%s: cannot initialize%s with%s", d.Name, d.Type.Print(), initType.Print())
		}
	}

	if d.Symbol != nil && d.Symbol.Kind == ast.SymbolGlobal && d.Value != nil {
		if !isConstantInitializer(d.Value) {
			t.errorf("%s: global variable initializer must be a compile-time constant", d.Name)
		}
	}
	if (d.Type.Kind == ast.KindArray || d.Type.Kind == ast.KindCarray) &&
		d.Symbol != nil && d.Symbol.Kind != ast.SymbolGlobal && d.Value != nil && d.Value.Kind == ast.ExprBrace {
		t.errorf("%s: local arrays may not use a brace initializer", d.Name)
	}

	t.checkArrayLengths(d.Type, d.Symbol != nil && d.Symbol.Kind == ast.SymbolGlobal)
}

// typesCompatibleForInit lets an array/carray declared type accept any
// array- or carray-typed initializer; element types and lengths are not
// compared here (checkBraceAgainstType does that for brace initializers).
// Every other declared type requires structural equality (ast.Type.Equals).
func typesCompatibleForInit(declared, init *ast.Type) bool {
	if declared.Kind == ast.KindArray || declared.Kind == ast.KindCarray {
		return init.Kind == declared.Kind || init.Kind == ast.KindArray || init.Kind == ast.KindCarray
	}
	return declared.Equals(init)
}

// isConstantInitializer implements §4.4.3's global-initializer rule: a
// literal, a unary negation of a literal, or a brace initializer whose
// elements are themselves constant (recursively, for nested braces).
func isConstantInitializer(e *ast.Expr) bool {
	if e == nil {
		return false
	}
	switch e.Kind {
	case ast.ExprIntLit, ast.ExprDoubleLit, ast.ExprCharLit, ast.ExprStringLit, ast.ExprBoolLit:
		return true
	case ast.ExprBrace:
		for _, el := range e.Elements() {
			if !isConstantInitializer(el) {
				return false
			}
		}
		return true
	case ast.ExprNeg:
		return e.Left != nil && (e.Left.Kind == ast.ExprIntLit || e.Left.Kind == ast.ExprDoubleLit)
	default:
		return false
	}
}

// checkArrayLengths implements §4.4.3's array-length rule, walking every
// array/carray link in the type chain.
func (t *Typechecker) checkArrayLengths(typ *ast.Type, isGlobal bool) {
	for cur := typ; cur != nil && (cur.Kind == ast.KindArray || cur.Kind == ast.KindCarray); cur = cur.Subtype {
		if cur.Length == nil {
			continue
		}
		if isGlobal {
			if cur.Length.Kind != ast.ExprIntLit || cur.Length.IntLiteral <= 0 {
				t.errorf("array length must be a positive integer literal at global scope")
			}
			continue
		}
		lenType := t.CheckExpr(cur.Length)
		if lenType == nil || lenType.Kind != ast.KindInteger {
			t.errorf("array length expression must be of type integer")
		}
	}
}

func (t *Typechecker) checkFunctionDecl(d *ast.Decl) {
	ret := d.Type.Subtype
	if ret != nil && ret.Kind == ast.KindAuto && d.Symbol != nil && d.Symbol.Type != nil &&
		d.Symbol.Type.Subtype != nil && d.Symbol.Type.Subtype.Kind != ast.KindAuto {
		d.Type.Subtype = d.Symbol.Type.Subtype.DeepCopy()
		ret = d.Type.Subtype
	}
	if ret != nil && (ret.Kind == ast.KindFunction || ret.Kind == ast.KindArray || ret.Kind == ast.KindCarray) {
		t.errorf("%s: return type may not be%s", d.Name, ret.Print())
	}
	for p := d.Type.Params; p != nil; p = p.Next {
		if p.Type == nil {
			continue
		}
		if p.Type.Kind == ast.KindVoid || p.Type.Kind == ast.KindAuto || p.Type.Kind == ast.KindFunction {
			t.errorf("%s: parameter %s may not have type%s", d.Name, p.Name, p.Type.Print())
		}
	}

	if d.Body == nil {
		return
	}
	definitelyReturns := t.checkStmtList(d.Body)
	if !definitelyReturns {
		if ret != nil && ret.Kind == ast.KindAuto {
			d.Type.Subtype = typ(ast.KindVoid)
			if d.Symbol != nil {
				d.Symbol.Type.Subtype = d.Type.Subtype
			}
			t.resolvedf("%s: resolved return type to void", d.Name)
		} else if ret != nil && ret.Kind != ast.KindVoid {
			t.diags.Warnf(diag.PhaseTypechecker, "%s: control reaches end of non-void function", d.Name)
		}
	}
}

// checkStmtList implements §4.4.2 for one statement and its Next chain,
// returning whether the chain definitely returns on every path: true once any
// statement in it does. Every statement is still checked.
func (t *Typechecker) checkStmtList(s *ast.Stmt) bool {
	returns := false
	for cur := s; cur != nil; cur = cur.Next {
		if t.CheckStmt(cur) {
			returns = true
		}
	}
	return returns
}

func (t *Typechecker) CheckStmt(s *ast.Stmt) bool {
	if s == nil {
		return false
	}
	switch s.Kind {
	case ast.StmtDecl:
		t.CheckDecl(s.Decl)
		return false
	case ast.StmtExpr:
		t.CheckExpr(s.Expr)
		return false
	case ast.StmtIfElse:
		condType := t.CheckExpr(s.Expr)
		if condType != nil && condType.Kind != ast.KindBoolean {
			t.errorf("Condition in 'if' statement must be of type boolean, but got %s.", condType.Kind)
		}
		thenReturns := t.checkBranch(s.Body)
		elseReturns := false
		if s.ElseBody != nil {
			elseReturns = t.checkBranch(s.ElseBody)
		}
		return thenReturns && elseReturns && s.ElseBody != nil
	case ast.StmtFor:
		if s.InitExpr != nil {
			t.CheckExpr(s.InitExpr)
		}
		if s.Expr != nil {
			condType := t.CheckExpr(s.Expr)
			if condType != nil && condType.Kind != ast.KindBoolean {
				t.errorf("Condition in 'for' statement must be of type boolean, but got %s.", condType.Kind)
			}
		}
		if s.NextExpr != nil {
			t.CheckExpr(s.NextExpr)
		}
		return t.checkBranch(s.Body)
	case ast.StmtPrint:
		for _, a := range s.Expr.Args() {
			at := t.CheckExpr(a)
			if at == nil {
				continue
			}
			switch at.Kind {
			case ast.KindInteger, ast.KindDouble, ast.KindBoolean, ast.KindCharacter, ast.KindString:
			default:
				t.errorf("print argument may not have type%s", at.Print())
			}
		}
		return false
	case ast.StmtReturn:
		return t.checkReturn(s)
	case ast.StmtBlock:
		return t.checkStmtList(s.Body)
	default:
		return false
	}
}

func (t *Typechecker) checkBranch(s *ast.Stmt) bool {
	if s == nil {
		return false
	}
	if s.Kind == ast.StmtBlock {
		return t.checkStmtList(s.Body)
	}
	return t.CheckStmt(s)
}

func (t *Typechecker) checkReturn(s *ast.Stmt) bool {
	var valueType *ast.Type
	if s.Expr != nil {
		valueType = t.CheckExpr(s.Expr)
	} else {
		valueType = typ(ast.KindVoid)
	}
	if s.FuncSym == nil || s.FuncSym.Type == nil {
		return true
	}
	ret := s.FuncSym.Type.Subtype
	if ret == nil {
		return true
	}
	switch {
	case ret.Kind == ast.KindAuto:
		if valueType != nil && valueType.Kind != ast.KindVoid && valueType.Kind != ast.KindAuto {
			*ret = *valueType.DeepCopy()
			t.resolvedf("resolved return type to%s", ret.Print())
		} else {
			t.errorf("cannot infer return type from return statement")
		}
	case ret.Kind == ast.KindVoid:
		if valueType != nil && valueType.Kind != ast.KindVoid {
			t.errorf("void function may not return a value")
		}
	default:
		if valueType != nil && valueType.Kind != ret.Kind {
			t.errorf("Return type mismatch. Expected (%s ), but got (%s ).", ret.Print(), valueType.Print())
		}
	}
	return true
}
