package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/dcarreno/bminor/internal/codegen"
	"github.com/dcarreno/bminor/internal/diag"
)

// runCodegen is the terminal phase: parse, resolve, type-check, then emit
// x86-64 text assembly to the path given as the second positional argument.
// No linking or assembling happens here (§1's non-goals).
func (c *Cmd) runCodegen(ctx context.Context, stdio mainer.Stdio) error {
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

	asm := codegen.New(diags).Generate(decl)
	if diags.Failed(diag.PhaseCodegen) {
		for _, m := range diags.Messages {
			if m.Phase == diag.PhaseCodegen {
				fmt.Fprintln(stdio.Stderr, m.String())
			}
		}
		return fmt.Errorf("code generation failed with %d error(s)", diags.CodegenErrors)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.WriteFile(c.args[1], []byte(asm), 0o644); err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	return nil
}
