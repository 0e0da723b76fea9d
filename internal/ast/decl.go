package ast

import "github.com/dcarreno/bminor/internal/lexer"

// Decl is a top-level or local declaration. It exclusively owns Type,
// Value, and Body, and its sibling via Next. Owner records whether this
// Decl was the first binding site of Symbol's name in its scope (§3.2); all
// other declarations/uses referencing the same Symbol are weak references.
type Decl struct {
	Name   string
	Type   *Type
	Value  *Expr // initializer, nil if absent
	Body   *Stmt // function body, nil for non-functions and prototypes
	Next   *Decl

	Symbol *Symbol
	Owner  bool

	// Locals is the number of local-kind symbols bound inside a function's
	// body, captured after resolving it, for stack-frame sizing by codegen.
	Locals int

	Pos lexer.Position
}

func NewDecl(name string, typ *Type, value *Expr, body *Stmt, next *Decl, pos lexer.Position) *Decl {
	return &Decl{Name: name, Type: typ, Value: value, Body: body, Next: next, Pos: pos}
}

func (d *Decl) DeepCopy() *Decl {
	if d == nil {
		return nil
	}
	cp := *d
	cp.Type = d.Type.DeepCopy()
	cp.Value = d.Value.DeepCopy()
	cp.Body = d.Body.DeepCopy()
	cp.Next = d.Next.DeepCopy()
	cp.Symbol = d.Symbol.DeepCopy()
	return &cp
}

// Print renders "name: type = value" or "name: type = { body }" for
// functions, the type part rendered by Type.Print. It writes no terminating ";";
// callers (PrintProgram, Stmt.Print) append one after declarations that have
// no function body. The chain formed by Next is rendered one declaration per
// call site; callers walk Next themselves since PrintProgram lays out the
// top-level chain itself.
func (d *Decl) Print() string {
	if d == nil {
		return ""
	}
	s := d.Name + ":" + d.Type.Print()
	if d.Type != nil && d.Type.Kind == KindFunction && d.Body != nil {
		s += " = {\n" + d.Body.Print() + "}"
		return s
	}
	if d.Value != nil {
		s += " = " + d.Value.Print()
	}
	return s
}
