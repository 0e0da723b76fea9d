// Package lexer tokenizes B-minor source text for the parser.
package lexer

import "strconv"

// Position is a single point in a source file: 1-based line/column plus the
// 0-based byte offset of the token start. It travels on every token and AST
// node, and the diagnostic context prints it after positioned error lines.
type Position struct {
	Filename string
	Line     int
	Column   int
	Offset   int
}

func (p Position) String() string {
	return p.Filename + ":" + strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// IsValid reports whether the position points into real source. Zero-value
// positions come from synthesized nodes (inferred array lengths, recovery
// types) and are omitted from printed diagnostics.
func (p Position) IsValid() bool {
	return p.Line > 0
}
