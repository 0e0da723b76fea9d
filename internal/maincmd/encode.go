package maincmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/mna/mainer"

	"github.com/dcarreno/bminor/internal/encoder"
)

// runEncode smoke-tests the escape codec directly: <input> holds a single
// quoted string literal (including its quote marks), which gets decoded to
// raw bytes and re-encoded back to quoted source text.
func (c *Cmd) runEncode(ctx context.Context, stdio mainer.Stdio) error {
	src, err := readSource(ctx, c.args[0])
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	lit := strings.TrimRight(src, "\r\n")
	if lit == "" {
		err := fmt.Errorf("%s: empty input", c.args[0])
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	decoded, err := encoder.Decode(lit, lit[0])
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	fmt.Fprintln(stdio.Stdout, encoder.Encode(decoded, lit[0]))
	return nil
}
