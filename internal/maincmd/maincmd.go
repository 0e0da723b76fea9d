// Package maincmd wires the CLI surface (C10) onto the compiler's phases.
// Grounded in mna-nenuphar/internal/maincmd.Cmd: a struct-tagged flag.Cmd
// driven by github.com/mna/mainer's reflection-based Parser, dispatching to
// one method per phase rather than nenuphar's one-method-per-subcommand
// (B-minor selects its phase with a flag, not a positional argument).
package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
)

const binName = "bminor"

var usage = fmt.Sprintf(`usage: %s <phase> <input> [output]
       %[1]s -h|--help

Compiler for the B-minor language. <phase> selects exactly one of:

       --encode                  Decode and re-encode a single quoted string
                                  literal, smoke-testing the escape codec.
       --scan                    Tokenize <input> and print the token stream.
       --parse                   Parse <input> and print the resulting AST.
       --print                   Alias for --parse's pretty-printed output.
       --resolve                 Parse and resolve names against lexical
                                  scope, then print the AST.
       --typecheck                Parse, resolve, and type-check <input>.
       --codegen                 Parse, resolve, type-check, and emit x86-64
                                  text assembly for <input> to the path
                                  given as the third argument.

Valid flag options are:
       -h --help                 Show this help and exit.
`, binName)

// Cmd is the CLI entry point struct, reflected over by mainer.Parser for
// its `flag:"..."` tagged fields.
type Cmd struct {
	Help bool `flag:"h,help"`

	Encode    bool `flag:"encode"`
	Scan      bool `flag:"scan"`
	Parse     bool `flag:"parse"`
	Print     bool `flag:"print"`
	Resolve   bool `flag:"resolve"`
	Typecheck bool `flag:"typecheck"`
	Codegen   bool `flag:"codegen"`

	args []string
}

func (c *Cmd) SetArgs(args []string)          { c.args = args }
func (c *Cmd) SetFlags(flags map[string]bool) {}

// Validate enforces exactly one phase flag and the right argument count for
// that phase, matching §6.1's "bminor <phase> <input> [output]" surface.
func (c *Cmd) Validate() error {
	if c.Help {
		return nil
	}
	n := 0
	for _, f := range []bool{c.Encode, c.Scan, c.Parse, c.Print, c.Resolve, c.Typecheck, c.Codegen} {
		if f {
			n++
		}
	}
	if n == 0 {
		return fmt.Errorf("no phase selected: pick one of --encode/--scan/--parse/--print/--resolve/--typecheck/--codegen")
	}
	if n > 1 {
		return fmt.Errorf("only one phase may be selected at a time")
	}
	if c.Codegen {
		if len(c.args) < 2 {
			return fmt.Errorf("--codegen requires an input file and an output path")
		}
		return nil
	}
	if len(c.args) < 1 {
		return fmt.Errorf("missing input file")
	}
	return nil
}

// Main parses os.Args-style arguments, dispatches to the selected phase
// runner, and maps the outcome onto a mainer.ExitCode.
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, usage)
		return mainer.InvalidArgs
	}

	if c.Help {
		fmt.Fprint(stdio.Stdout, usage)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)

	var err error
	switch {
	case c.Encode:
		err = c.runEncode(ctx, stdio)
	case c.Scan:
		err = c.runScan(ctx, stdio)
	case c.Parse:
		err = c.runParse(ctx, stdio)
	case c.Print:
		err = c.runPrint(ctx, stdio)
	case c.Resolve:
		err = c.runResolve(ctx, stdio)
	case c.Typecheck:
		err = c.runTypecheck(ctx, stdio)
	case c.Codegen:
		err = c.runCodegen(ctx, stdio)
	}
	if err != nil {
		return mainer.Failure
	}
	return mainer.Success
}

// readSource reads the phase's input file, honoring context cancellation at
// this I/O boundary the way mainer.CancelOnSignal expects collaborators to.
func readSource(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return string(b), nil
}
