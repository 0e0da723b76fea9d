package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/dcarreno/bminor/internal/ast"
	"github.com/dcarreno/bminor/internal/lexer"
	"github.com/dcarreno/bminor/internal/parser"
)

// parseFile runs the lex+parse phase shared by --parse, --print, --resolve,
// --typecheck and --codegen, implementing the cumulative phase chaining of
// §6.1: every later phase re-enters the earlier ones rather than skipping
// them.
func parseFile(ctx context.Context, path string) (*ast.Decl, error) {
	src, err := readSource(ctx, path)
	if err != nil {
		return nil, err
	}
	p, err := parser.New(lexer.New(src, path))
	if err != nil {
		return nil, err
	}
	decl, err := p.ParseFile()
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return decl, nil
}

func (c *Cmd) runParse(ctx context.Context, stdio mainer.Stdio) error {
	decl, err := parseFile(ctx, c.args[0])
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	fmt.Fprint(stdio.Stdout, ast.PrintProgram(decl))
	return nil
}
