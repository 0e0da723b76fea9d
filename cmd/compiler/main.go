// Command bminor is the entry point for the B-minor compiler: scan, parse,
// resolve, type-check, and emit x86-64 assembly for a single source file.
package main

import (
	"os"

	"github.com/mna/mainer"

	"github.com/dcarreno/bminor/internal/maincmd"
)

func main() {
	c := maincmd.Cmd{}
	os.Exit(int(c.Main(os.Args, mainer.CurrentStdio())))
}
