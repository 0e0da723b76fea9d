package ast

// PrintProgram renders a chain of top-level declarations, one per line
// (functions get a blank line after their closing brace), matching how the
// `--print` CLI phase dumps a parsed/resolved/type-checked file. A function
// definition ends at its closing brace, not a semicolon. Types are rendered
// by Type.Print, so array types (" array integer[3]") and char types
// (" character") come out in a form the parser does not accept; programs
// using only the other types re-parse.
func PrintProgram(decls *Decl) string {
	var out string
	for d := decls; d != nil; d = d.Next {
		if d.Type != nil && d.Type.Kind == KindFunction && d.Body != nil {
			out += d.Print() + "\n\n"
			continue
		}
		out += d.Print() + ";\n"
	}
	return out
}
