package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcarreno/bminor/internal/ast"
	"github.com/dcarreno/bminor/internal/diag"
	"github.com/dcarreno/bminor/internal/lexer"
	"github.com/dcarreno/bminor/internal/resolver"
)

func pos() lexer.Position { return lexer.Position{Filename: "t.bminor", Line: 1, Column: 1} }

func intType() *ast.Type { return ast.NewType(ast.KindInteger, pos()) }

func TestResolveSimpleGlobal(t *testing.T) {
	d := ast.NewDecl("x", intType(), ast.NewIntLiteral(1, pos()), nil, nil, pos())
	diags := diag.New()
	r := resolver.New(diags)
	r.ResolveProgram(d)
	require.Equal(t, 0, diags.ResolverErrors)
	require.NotNil(t, d.Symbol)
	assert.True(t, d.Owner)
	assert.Equal(t, ast.SymbolGlobal, d.Symbol.Kind)
}

func TestResolveRedeclarationErrors(t *testing.T) {
	a := ast.NewDecl("x", intType(), nil, nil, nil, pos())
	b := ast.NewDecl("x", intType(), nil, nil, nil, pos())
	a.Next = b
	diags := diag.New()
	r := resolver.New(diags)
	r.ResolveProgram(a)
	assert.Equal(t, 1, diags.ResolverErrors)
	assert.True(t, a.Owner)
	assert.False(t, b.Owner)
	assert.Same(t, a.Symbol, b.Symbol)
}

func TestResolveUndefinedIdentifier(t *testing.T) {
	use := ast.NewExprStmt(ast.NewIdentExpr("y", pos()), pos())
	d := ast.NewDecl("main", ast.NewFunctionType(ast.NewType(ast.KindVoid, pos()), nil, pos()), nil, use, nil, pos())
	diags := diag.New()
	r := resolver.New(diags)
	r.ResolveProgram(d)
	assert.Equal(t, 1, diags.ResolverErrors)
}

func TestResolvePrototypeThenDefinitionIsAccepted(t *testing.T) {
	fnType := ast.NewFunctionType(intType(), nil, pos())
	proto := ast.NewDecl("f", fnType, nil, nil, nil, pos())
	def := ast.NewDecl("f", fnType.DeepCopy(), nil, ast.NewReturnStmt(ast.NewIntLiteral(1, pos()), pos()), nil, pos())
	proto.Next = def
	diags := diag.New()
	r := resolver.New(diags)
	r.ResolveProgram(proto)
	assert.Equal(t, 0, diags.ResolverErrors)
	assert.Same(t, proto.Symbol, def.Symbol)
	assert.False(t, def.Symbol.FuncDecl)
}

func TestResolveDuplicateParamName(t *testing.T) {
	params := ast.NewParamList("a", intType(), ast.NewParamList("a", intType(), nil, pos()), pos())
	fnType := ast.NewFunctionType(ast.NewType(ast.KindVoid, pos()), params, pos())
	def := ast.NewDecl("f", fnType, nil, ast.NewReturnStmt(nil, pos()), nil, pos())
	diags := diag.New()
	r := resolver.New(diags)
	r.ResolveProgram(def)
	assert.Equal(t, 1, diags.ResolverErrors)
}

func TestResolveSingleLineIfBodyDeclRejected(t *testing.T) {
	badBody := ast.NewDeclStmt(ast.NewDecl("z", intType(), nil, nil, nil, pos()), pos())
	ifStmt := ast.NewIfStmt(ast.NewBoolLiteral(true, pos()), badBody, nil, pos())
	fnType := ast.NewFunctionType(ast.NewType(ast.KindVoid, pos()), nil, pos())
	def := ast.NewDecl("f", fnType, nil, ifStmt, nil, pos())
	diags := diag.New()
	r := resolver.New(diags)
	r.ResolveProgram(def)
	assert.Equal(t, 1, diags.ResolverErrors)
}
