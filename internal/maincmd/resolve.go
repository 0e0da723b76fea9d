package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/dcarreno/bminor/internal/ast"
	"github.com/dcarreno/bminor/internal/diag"
	"github.com/dcarreno/bminor/internal/resolver"
)

// resolveFile chains off parseFile, then runs name resolution, returning the
// shared diag.Context so later phases (typecheck, codegen) can keep
// accumulating into it instead of starting fresh (§4.5, §6.1).
func resolveFile(ctx context.Context, path string) (*ast.Decl, *diag.Context, error) {
	decl, err := parseFile(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	diags := diag.New()
	resolver.New(diags).ResolveProgram(decl)
	return decl, diags, nil
}

// printDiags routes errors and warnings to stderr and informational
// "resolved" lines to stdout, per the host's split of the two streams.
func printDiags(stdio mainer.Stdio, diags *diag.Context) {
	for _, m := range diags.Messages {
		if m.Severity == diag.SeverityResolved {
			fmt.Fprintln(stdio.Stdout, m.String())
			continue
		}
		fmt.Fprintln(stdio.Stderr, m.String())
	}
}

func (c *Cmd) runResolve(ctx context.Context, stdio mainer.Stdio) error {
	decl, diags, err := resolveFile(ctx, c.args[0])
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	printDiags(stdio, diags)
	if diags.Failed(diag.PhaseResolver) {
		return fmt.Errorf("resolution failed with %d error(s)", diags.ResolverErrors)
	}
	fmt.Fprint(stdio.Stdout, ast.PrintProgram(decl))
	return nil
}
