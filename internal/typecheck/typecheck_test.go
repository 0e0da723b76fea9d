package typecheck_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcarreno/bminor/internal/ast"
	"github.com/dcarreno/bminor/internal/diag"
	"github.com/dcarreno/bminor/internal/lexer"
	"github.com/dcarreno/bminor/internal/resolver"
	"github.com/dcarreno/bminor/internal/typecheck"
)

func pos() lexer.Position { return lexer.Position{Filename: "t.bminor", Line: 1, Column: 1} }

func check(t *testing.T, d *ast.Decl) *diag.Context {
	t.Helper()
	diags := diag.New()
	r := resolver.New(diags)
	r.ResolveProgram(d)
	require.Equal(t, 0, diags.ResolverErrors, "unexpected resolver errors")
	tc := typecheck.New(diags)
	tc.CheckProgram(d)
	return diags
}

func TestAutoInferenceFromIntLiteral(t *testing.T) {
	d := ast.NewDecl("x", ast.NewType(ast.KindAuto, pos()), ast.NewIntLiteral(42, pos()), nil, nil, pos())
	diags := check(t, d)
	assert.Equal(t, 0, diags.TypecheckErrors)
	assert.Equal(t, ast.KindInteger, d.Type.Kind)
	assert.Equal(t, ast.KindInteger, d.Symbol.Type.Kind)
}

func TestMismatchedArithmeticOperandsErrors(t *testing.T) {
	body := ast.NewExprStmt(
		ast.NewBinaryExpr(ast.ExprAdd, ast.NewIntLiteral(1, pos()), ast.NewDoubleLiteral(1.5, pos()), pos()),
		pos(),
	)
	d := ast.NewDecl("main", ast.NewFunctionType(ast.NewType(ast.KindVoid, pos()), nil, pos()), nil, body, nil, pos())
	diags := check(t, d)
	assert.Equal(t, 1, diags.TypecheckErrors)
}

func TestGlobalArrayRequiresPositiveLiteralLength(t *testing.T) {
	arrType := ast.NewArrayType(ast.KindArray, ast.NewType(ast.KindInteger, pos()), ast.NewIntLiteral(0, pos()), pos())
	d := ast.NewDecl("arr", arrType, nil, nil, nil, pos())
	diags := check(t, d)
	assert.Equal(t, 1, diags.TypecheckErrors)
}

func TestPrintVoidArgumentErrors(t *testing.T) {
	voidFn := ast.NewDecl("noop", ast.NewFunctionType(ast.NewType(ast.KindVoid, pos()), nil, pos()),
		nil, ast.NewReturnStmt(nil, pos()), nil, pos())
	printStmt := ast.NewPrintStmt(
		ast.NewArgsExpr(ast.NewCallExpr(ast.NewIdentExpr("noop", pos()), nil, pos()), nil, pos()),
		pos())
	main := ast.NewDecl("main", ast.NewFunctionType(ast.NewType(ast.KindVoid, pos()), nil, pos()), nil, printStmt, nil, pos())
	voidFn.Next = main
	diags := check(t, voidFn)
	assert.Equal(t, 1, diags.TypecheckErrors)
}

func TestNonVoidFunctionMissingReturnWarns(t *testing.T) {
	body := ast.NewExprStmt(ast.NewIntLiteral(1, pos()), pos())
	d := ast.NewDecl("f", ast.NewFunctionType(ast.NewType(ast.KindInteger, pos()), nil, pos()), nil, body, nil, pos())
	diags := check(t, d)
	assert.Equal(t, 0, diags.TypecheckErrors)
	require.Len(t, diags.Messages, 1)
	assert.Equal(t, diag.SeverityWarning, diags.Messages[0].Severity)
}

func TestBraceInitializerInfersArrayType(t *testing.T) {
	brace := ast.NewBraceExpr(
		ast.NewArgsExpr(ast.NewIntLiteral(1, pos()),
			ast.NewArgsExpr(ast.NewIntLiteral(2, pos()), nil, pos()), pos()),
		pos())
	d := ast.NewDecl("xs", ast.NewType(ast.KindAuto, pos()), brace, nil, nil, pos())
	diags := check(t, d)
	assert.Equal(t, 0, diags.TypecheckErrors)
	assert.Equal(t, ast.KindArray, d.Type.Kind)
	assert.Equal(t, ast.KindInteger, d.Type.Subtype.Kind)
}

func TestForLoopBodyReturnSatisfiesFunctionReturn(t *testing.T) {
	forBody := ast.NewReturnStmt(ast.NewIntLiteral(1, pos()), pos())
	forStmt := ast.NewForStmt(nil, nil, nil, forBody, pos())
	d := ast.NewDecl("f", ast.NewFunctionType(ast.NewType(ast.KindInteger, pos()), nil, pos()), nil, forStmt, nil, pos())
	diags := check(t, d)
	assert.Equal(t, 0, diags.TypecheckErrors)
	for _, m := range diags.Messages {
		assert.NotEqual(t, diag.SeverityWarning, m.Severity, "unexpected warning: %s", m.Text)
	}
}

func TestBraceInitializerResolvesOmittedArrayLength(t *testing.T) {
	brace := ast.NewBraceExpr(
		ast.NewArgsExpr(ast.NewIntLiteral(1, pos()),
			ast.NewArgsExpr(ast.NewIntLiteral(2, pos()),
				ast.NewArgsExpr(ast.NewIntLiteral(3, pos()), nil, pos()), pos()), pos()),
		pos())
	arrType := ast.NewArrayType(ast.KindArray, ast.NewType(ast.KindInteger, pos()), nil, pos())
	d := ast.NewDecl("a", arrType, brace, nil, nil, pos())
	diags := check(t, d)
	assert.Equal(t, 0, diags.TypecheckErrors)
	require.NotEmpty(t, diags.Messages)
	assert.Equal(t, "typechecker resolved: Array 'a' set to length 3", diags.Messages[len(diags.Messages)-1].String())
}

func TestGlobalArrayInitializerRejectsNonLiteralElement(t *testing.T) {
	other := ast.NewDecl("other", ast.NewType(ast.KindInteger, pos()), ast.NewIntLiteral(5, pos()), nil, nil, pos())
	brace := ast.NewBraceExpr(
		ast.NewArgsExpr(ast.NewIdentExpr("other", pos()), nil, pos()),
		pos())
	arrType := ast.NewArrayType(ast.KindArray, ast.NewType(ast.KindInteger, pos()), ast.NewIntLiteral(1, pos()), pos())
	arr := ast.NewDecl("a", arrType, brace, nil, nil, pos())
	other.Next = arr
	diags := check(t, other)
	assert.Equal(t, 2, diags.TypecheckErrors, "expected both the literal-element check and the constant-initializer check to fire")
}

func TestAssignmentInstallsFullTypeOnAutoTarget(t *testing.T) {
	diags := diag.New()
	tc := typecheck.New(diags)

	target := ast.NewIdentExpr("xs", pos())
	target.Symbol = ast.NewSymbol(ast.SymbolLocal, "xs", ast.NewType(ast.KindAuto, pos()))
	src := ast.NewIdentExpr("ys", pos())
	src.Symbol = ast.NewSymbol(ast.SymbolLocal, "ys",
		ast.NewArrayType(ast.KindArray, ast.NewType(ast.KindInteger, pos()), ast.NewIntLiteral(2, pos()), pos()))

	e := ast.NewBinaryExpr(ast.ExprAssign, target, src, pos())
	result := tc.CheckExpr(e)

	assert.Equal(t, 0, diags.TypecheckErrors)
	require.NotNil(t, target.Symbol.Type)
	assert.Equal(t, ast.KindArray, target.Symbol.Type.Kind)
	assert.Equal(t, ast.KindInteger, target.Symbol.Type.Subtype.Kind)
	require.NotNil(t, result)
	assert.Equal(t, ast.KindArray, result.Kind)
}

func TestAssignmentResolvesAutoArrayElementType(t *testing.T) {
	diags := diag.New()
	tc := typecheck.New(diags)

	target := ast.NewIdentExpr("a", pos())
	target.Symbol = ast.NewSymbol(ast.SymbolLocal, "a",
		ast.NewArrayType(ast.KindArray, ast.NewType(ast.KindAuto, pos()), ast.NewIntLiteral(3, pos()), pos()))
	src := ast.NewIdentExpr("b", pos())
	src.Symbol = ast.NewSymbol(ast.SymbolLocal, "b",
		ast.NewArrayType(ast.KindArray, ast.NewType(ast.KindInteger, pos()), ast.NewIntLiteral(3, pos()), pos()))

	e := ast.NewBinaryExpr(ast.ExprAssign, target, src, pos())
	tc.CheckExpr(e)

	assert.Equal(t, 0, diags.TypecheckErrors)
	assert.Equal(t, ast.KindArray, target.Symbol.Type.Kind)
	assert.Equal(t, ast.KindInteger, target.Symbol.Type.Subtype.Kind)
}

func TestAssignmentBothSidesAutoErrors(t *testing.T) {
	diags := diag.New()
	tc := typecheck.New(diags)

	target := ast.NewIdentExpr("p", pos())
	target.Symbol = ast.NewSymbol(ast.SymbolLocal, "p", ast.NewType(ast.KindAuto, pos()))
	src := ast.NewIdentExpr("q", pos())
	src.Symbol = ast.NewSymbol(ast.SymbolLocal, "q", ast.NewType(ast.KindAuto, pos()))

	tc.CheckExpr(ast.NewBinaryExpr(ast.ExprAssign, target, src, pos()))
	assert.Equal(t, 1, diags.TypecheckErrors)
}

func TestDeepCopyYieldsSameDiagnosticCounters(t *testing.T) {
	bad := ast.NewDecl("x", ast.NewType(ast.KindInteger, pos()), ast.NewDoubleLiteral(1.5, pos()), nil, nil, pos())
	auto := ast.NewDecl("a", ast.NewType(ast.KindAuto, pos()), ast.NewIntLiteral(3, pos()), nil, nil, pos())
	bad.Next = auto
	cp := bad.DeepCopy()

	orig := check(t, bad)
	copied := check(t, cp)
	assert.Equal(t, orig.ResolverErrors, copied.ResolverErrors)
	assert.Equal(t, orig.TypecheckErrors, copied.TypecheckErrors)
	assert.Equal(t, len(orig.Messages), len(copied.Messages))
}

func TestArrayLenRequiresArrayOperand(t *testing.T) {
	diags := diag.New()
	tc := typecheck.New(diags)

	arr := ast.NewIdentExpr("a", pos())
	arr.Symbol = ast.NewSymbol(ast.SymbolGlobal, "a",
		ast.NewArrayType(ast.KindArray, ast.NewType(ast.KindInteger, pos()), ast.NewIntLiteral(3, pos()), pos()))
	result := tc.CheckExpr(ast.NewUnaryExpr(ast.ExprArrayLen, arr, pos()))
	assert.Equal(t, 0, diags.TypecheckErrors)
	require.NotNil(t, result)
	assert.Equal(t, ast.KindInteger, result.Kind)
}

// # takes array operands only; carray is indexable but has no length.
func TestArrayLenRejectsCarrayOperand(t *testing.T) {
	diags := diag.New()
	tc := typecheck.New(diags)

	ca := ast.NewIdentExpr("c", pos())
	ca.Symbol = ast.NewSymbol(ast.SymbolGlobal, "c",
		ast.NewArrayType(ast.KindCarray, ast.NewType(ast.KindCharacter, pos()), nil, pos()))
	result := tc.CheckExpr(ast.NewUnaryExpr(ast.ExprArrayLen, ca, pos()))
	assert.Equal(t, 1, diags.TypecheckErrors)
	require.NotNil(t, result)
	assert.Equal(t, ast.KindInteger, result.Kind)
}

func TestIndexAcceptsCarrayOperand(t *testing.T) {
	diags := diag.New()
	tc := typecheck.New(diags)

	ca := ast.NewIdentExpr("c", pos())
	ca.Symbol = ast.NewSymbol(ast.SymbolGlobal, "c",
		ast.NewArrayType(ast.KindCarray, ast.NewType(ast.KindCharacter, pos()), nil, pos()))
	result := tc.CheckExpr(ast.NewIndexExpr(ca, ast.NewIntLiteral(0, pos()), pos()))
	assert.Equal(t, 0, diags.TypecheckErrors)
	require.NotNil(t, result)
	assert.Equal(t, ast.KindCharacter, result.Kind)
}
