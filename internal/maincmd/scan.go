package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/dcarreno/bminor/internal/lexer"
)

// runScan tokenizes the input file and prints one line per token, the
// earliest and simplest of the cumulative phases (§6.1).
func (c *Cmd) runScan(ctx context.Context, stdio mainer.Stdio) error {
	src, err := readSource(ctx, c.args[0])
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	lx := lexer.New(src, c.args[0])
	for {
		tok, err := lx.NextToken()
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			return err
		}
		if tok.Type == lexer.TokenEOF {
			break
		}
		fmt.Fprintln(stdio.Stdout, tok.String())
	}
	return nil
}
