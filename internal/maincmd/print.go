package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/dcarreno/bminor/internal/ast"
)

// runPrint is --parse's pretty-printing twin: same AST, same Print output.
// Kept as its own phase flag because §6.1 lists --print and --parse as
// distinct entry points even though they currently share one implementation.
func (c *Cmd) runPrint(ctx context.Context, stdio mainer.Stdio) error {
	decl, err := parseFile(ctx, c.args[0])
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	fmt.Fprint(stdio.Stdout, ast.PrintProgram(decl))
	return nil
}
