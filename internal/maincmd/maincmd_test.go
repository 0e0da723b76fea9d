package maincmd_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/mna/mainer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcarreno/bminor/internal/maincmd"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestValidateRequiresExactlyOnePhase(t *testing.T) {
	c := &maincmd.Cmd{}
	c.SetArgs([]string{"in.bminor"})
	assert.Error(t, c.Validate())

	c.Scan = true
	assert.NoError(t, c.Validate())

	c.Parse = true
	assert.Error(t, c.Validate())
}

func TestValidateHelpBypassesPhaseCheck(t *testing.T) {
	c := &maincmd.Cmd{Help: true}
	assert.NoError(t, c.Validate())
}

func TestValidateCodegenNeedsTwoArgs(t *testing.T) {
	c := &maincmd.Cmd{Codegen: true}
	c.SetArgs([]string{"in.bminor"})
	assert.Error(t, c.Validate())

	c.SetArgs([]string{"in.bminor", "out.s"})
	assert.NoError(t, c.Validate())
}

func TestMainScanPhaseEmitsTokens(t *testing.T) {
	in := writeTemp(t, "in.bminor", "x: integer = 1;")
	var out, errOut bytes.Buffer
	c := &maincmd.Cmd{}
	code := c.Main([]string{"bminor", "--scan", in}, mainer.Stdio{Stdin: bytes.NewReader(nil), Stdout: &out, Stderr: &errOut})
	assert.Equal(t, mainer.Success, code)
	assert.Contains(t, out.String(), "identifier x")
}

func TestMainCodegenWritesOutputFile(t *testing.T) {
	in := writeTemp(t, "in.bminor", "f: function integer (a: integer) = { return a + 1; }")
	outPath := filepath.Join(t.TempDir(), "out.s")
	var out, errOut bytes.Buffer
	c := &maincmd.Cmd{}
	code := c.Main([]string{"bminor", "--codegen", in, outPath}, mainer.Stdio{Stdin: bytes.NewReader(nil), Stdout: &out, Stderr: &errOut})
	assert.Equal(t, mainer.Success, code)
	b, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(b), ".text")
}

func TestMainTypecheckFailureReturnsFailure(t *testing.T) {
	in := writeTemp(t, "in.bminor", "x: double = 1.0; y: integer = x;")
	var out, errOut bytes.Buffer
	c := &maincmd.Cmd{}
	code := c.Main([]string{"bminor", "--typecheck", in}, mainer.Stdio{Stdin: bytes.NewReader(nil), Stdout: &out, Stderr: &errOut})
	assert.Equal(t, mainer.Failure, code)
	assert.NotEmpty(t, errOut.String())
}

func TestMainHelpPrintsUsage(t *testing.T) {
	var out, errOut bytes.Buffer
	c := &maincmd.Cmd{}
	code := c.Main([]string{"bminor", "--help"}, mainer.Stdio{Stdin: bytes.NewReader(nil), Stdout: &out, Stderr: &errOut})
	assert.Equal(t, mainer.Success, code)
	assert.Contains(t, out.String(), "usage:")
}

func TestMainEncodeRoundTrips(t *testing.T) {
	in := writeTemp(t, "lit.txt", `"a\tb"`)
	var out, errOut bytes.Buffer
	c := &maincmd.Cmd{}
	code := c.Main([]string{"bminor", "--encode", in}, mainer.Stdio{Stdin: bytes.NewReader(nil), Stdout: &out, Stderr: &errOut})
	assert.Equal(t, mainer.Success, code)
	assert.Contains(t, out.String(), `a\tb`)
}

func TestMainResolveRedeclarationMessage(t *testing.T) {
	in := writeTemp(t, "redecl.bminor", "x: integer = 5; x: integer = 6;")
	var out, errOut bytes.Buffer
	c := &maincmd.Cmd{}
	code := c.Main([]string{"bminor", "--resolve", in}, mainer.Stdio{Stdin: bytes.NewReader(nil), Stdout: &out, Stderr: &errOut})
	assert.Equal(t, mainer.Failure, code)
	assert.Contains(t, errOut.String(), "resolver error: Redeclaring an Identifier 'x' in the same scope")
}

func TestMainTypecheckReturnMismatchMessage(t *testing.T) {
	in := writeTemp(t, "ret.bminor", `f: function integer () = { return "hi"; }`)
	var out, errOut bytes.Buffer
	c := &maincmd.Cmd{}
	code := c.Main([]string{"bminor", "--typecheck", in}, mainer.Stdio{Stdin: bytes.NewReader(nil), Stdout: &out, Stderr: &errOut})
	assert.Equal(t, mainer.Failure, code)
	assert.Contains(t, errOut.String(), "typechecker error: Return type mismatch. Expected ( integer ), but got ( string ).")
}

func TestMainTypecheckAutoResolutionOnStdout(t *testing.T) {
	in := writeTemp(t, "auto.bminor", "a: auto = 3;")
	var out, errOut bytes.Buffer
	c := &maincmd.Cmd{}
	code := c.Main([]string{"bminor", "--typecheck", in}, mainer.Stdio{Stdin: bytes.NewReader(nil), Stdout: &out, Stderr: &errOut})
	assert.Equal(t, mainer.Success, code)
	assert.Contains(t, out.String(), "typechecker resolved: 'a' type set to ( integer )")
	assert.Empty(t, errOut.String())
}

func TestMainTypecheckIfConditionMessage(t *testing.T) {
	in := writeTemp(t, "if.bminor", "main: function void () = { if (1) { } }")
	var out, errOut bytes.Buffer
	c := &maincmd.Cmd{}
	code := c.Main([]string{"bminor", "--typecheck", in}, mainer.Stdio{Stdin: bytes.NewReader(nil), Stdout: &out, Stderr: &errOut})
	assert.Equal(t, mainer.Failure, code)
	assert.Contains(t, errOut.String(), "Condition in 'if' statement must be of type boolean, but got integer.")
}

func TestMainPrintOutputReparses(t *testing.T) {
	src := "g: integer = 5;\nf: function integer (a: integer) = { if (a < 1) { return 0; } return a * 2; }\n"
	in := writeTemp(t, "prog.bminor", src)
	var out, errOut bytes.Buffer
	c := &maincmd.Cmd{}
	code := c.Main([]string{"bminor", "--print", in}, mainer.Stdio{Stdin: bytes.NewReader(nil), Stdout: &out, Stderr: &errOut})
	require.Equal(t, mainer.Success, code)

	in2 := writeTemp(t, "prog2.bminor", out.String())
	var out2, errOut2 bytes.Buffer
	c2 := &maincmd.Cmd{}
	code = c2.Main([]string{"bminor", "--print", in2}, mainer.Stdio{Stdin: bytes.NewReader(nil), Stdout: &out2, Stderr: &errOut2})
	require.Equal(t, mainer.Success, code, "printed output should re-parse: %s", errOut2.String())
	assert.Equal(t, out.String(), out2.String())
}
