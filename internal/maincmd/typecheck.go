package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/dcarreno/bminor/internal/ast"
	"github.com/dcarreno/bminor/internal/diag"
	"github.com/dcarreno/bminor/internal/typecheck"
)

// typecheckFile chains off resolveFile: --typecheck implies --resolve
// implies --parse implies --scan, per §6.1's cumulative phase model. A
// resolver failure short-circuits before the type checker ever runs.
func typecheckFile(ctx context.Context, path string) (*ast.Decl, *diag.Context, error) {
	decl, diags, err := resolveFile(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	if diags.Failed(diag.PhaseResolver) {
		return decl, diags, nil
	}
	typecheck.New(diags).CheckProgram(decl)
	return decl, diags, nil
}

func (c *Cmd) runTypecheck(ctx context.Context, stdio mainer.Stdio) error {
	decl, diags, err := typecheckFile(ctx, c.args[0])
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	printDiags(stdio, diags)
	if diags.Failed(diag.PhaseResolver) {
		return fmt.Errorf("resolution failed with %d error(s)", diags.ResolverErrors)
	}
	if diags.Failed(diag.PhaseTypechecker) {
		return fmt.Errorf("type checking failed with %d error(s)", diags.TypecheckErrors)
	}
	fmt.Fprint(stdio.Stdout, ast.PrintProgram(decl))
	return nil
}
