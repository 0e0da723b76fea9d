package codegen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcarreno/bminor/internal/codegen"
	"github.com/dcarreno/bminor/internal/diag"
	"github.com/dcarreno/bminor/internal/lexer"
	"github.com/dcarreno/bminor/internal/parser"
	"github.com/dcarreno/bminor/internal/resolver"
	"github.com/dcarreno/bminor/internal/typecheck"
)

func build(t *testing.T, src string) (string, *diag.Context) {
	t.Helper()
	p, err := parser.New(lexer.New(src, "t.bminor"))
	require.NoError(t, err)
	decl, err := p.ParseFile()
	require.NoError(t, err)

	diags := diag.New()
	resolver.New(diags).ResolveProgram(decl)
	require.Equal(t, 0, diags.ResolverErrors)
	typecheck.New(diags).CheckProgram(decl)
	require.Equal(t, 0, diags.TypecheckErrors)

	out := codegen.New(diags).Generate(decl)
	return out, diags
}

func TestFunctionWithArithmeticReturnEmitsLabelAndRet(t *testing.T) {
	out, diags := build(t, "f: function integer (a: integer) = { return a + 1; }")
	assert.Equal(t, 0, diags.CodegenErrors)
	assert.Contains(t, out, ".text")
	assert.Contains(t, out, "f:")
	assert.Contains(t, out, "ret")
}

func TestGlobalWithNoFunctionsEmitsDataOnly(t *testing.T) {
	out, diags := build(t, "x: integer = 5;")
	assert.Equal(t, 0, diags.CodegenErrors)
	assert.Contains(t, out, ".data")
	assert.Contains(t, out, "x:")
	assert.NotContains(t, out, ".text")
}

func TestDoubleReachingCodegenErrors(t *testing.T) {
	_, diags := build(t, "x: double = 1.5;")
	assert.Equal(t, 1, diags.CodegenErrors)
	require.NotEmpty(t, diags.Messages)
	found := false
	for _, m := range diags.Messages {
		if m.Phase == diag.PhaseCodegen {
			found = true
			assert.Contains(t, m.Text, "double operands are not supported")
		}
	}
	assert.True(t, found)
}

func TestStringLiteralInternedBeforeTextSection(t *testing.T) {
	out, diags := build(t, `main: function void () = { print "hi"; }`)
	assert.Equal(t, 0, diags.CodegenErrors)
	dataIdx := indexOf(out, ".data")
	textIdx := indexOf(out, ".text")
	require.GreaterOrEqual(t, dataIdx, 0)
	require.GreaterOrEqual(t, textIdx, 0)
	assert.Less(t, dataIdx, textIdx)
	assert.Contains(t, out, "call print_string")
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

func TestUninitializedDoubleLocalErrors(t *testing.T) {
	_, diags := build(t, "main: function void () = { x: double; }")
	assert.Equal(t, 1, diags.CodegenErrors)
	found := false
	for _, m := range diags.Messages {
		if m.Phase == diag.PhaseCodegen {
			found = true
			assert.Contains(t, m.Text, "double operands are not supported")
			assert.Contains(t, m.String(), "(t.bminor:1:")
		}
	}
	assert.True(t, found)
}
