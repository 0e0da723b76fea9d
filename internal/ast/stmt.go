package ast

import "github.com/dcarreno/bminor/internal/lexer"

// StmtKind tags every statement node.
type StmtKind int

const (
	StmtDecl StmtKind = iota
	StmtExpr
	StmtIfElse
	StmtFor
	StmtPrint
	StmtReturn
	StmtBlock
)

// Stmt is a tagged statement node. Statements form a singly linked list
// through Next. FuncSym is set during resolution to the enclosing
// function's Symbol so `return` can consult its expected return type
// (invariant I5); it is propagated from each parent statement down into
// Body, ElseBody, and Next.
type Stmt struct {
	Kind StmtKind

	Decl     *Decl // StmtDecl
	InitExpr *Expr // StmtFor init
	Expr     *Expr // StmtExpr / StmtFor condition / StmtReturn value / StmtPrint args
	NextExpr *Expr // StmtFor post

	Body     *Stmt // loop/if body, block contents
	ElseBody *Stmt // StmtIfElse else branch

	FuncSym *Symbol

	Next *Stmt
	Pos  lexer.Position
}

func newStmt(kind StmtKind, pos lexer.Position) *Stmt {
	return &Stmt{Kind: kind, Pos: pos}
}

func NewDeclStmt(d *Decl, pos lexer.Position) *Stmt {
	s := newStmt(StmtDecl, pos)
	s.Decl = d
	return s
}

func NewExprStmt(e *Expr, pos lexer.Position) *Stmt {
	s := newStmt(StmtExpr, pos)
	s.Expr = e
	return s
}

func NewIfStmt(cond *Expr, then, els *Stmt, pos lexer.Position) *Stmt {
	s := newStmt(StmtIfElse, pos)
	s.Expr, s.Body, s.ElseBody = cond, then, els
	return s
}

func NewForStmt(init, cond, post *Expr, body *Stmt, pos lexer.Position) *Stmt {
	s := newStmt(StmtFor, pos)
	s.InitExpr, s.Expr, s.NextExpr, s.Body = init, cond, post, body
	return s
}

func NewPrintStmt(args *Expr, pos lexer.Position) *Stmt {
	s := newStmt(StmtPrint, pos)
	s.Expr = args
	return s
}

func NewReturnStmt(value *Expr, pos lexer.Position) *Stmt {
	s := newStmt(StmtReturn, pos)
	s.Expr = value
	return s
}

func NewBlockStmt(body *Stmt, pos lexer.Position) *Stmt {
	s := newStmt(StmtBlock, pos)
	s.Body = body
	return s
}

func (s *Stmt) DeepCopy() *Stmt {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Decl = s.Decl.DeepCopy()
	cp.InitExpr = s.InitExpr.DeepCopy()
	cp.Expr = s.Expr.DeepCopy()
	cp.NextExpr = s.NextExpr.DeepCopy()
	cp.Body = s.Body.DeepCopy()
	cp.ElseBody = s.ElseBody.DeepCopy()
	cp.FuncSym = s.FuncSym.DeepCopy()
	cp.Next = s.Next.DeepCopy()
	return &cp
}

// Print renders one statement (and, for blocks and chains, everything it
// owns) back to B-minor surface syntax with a C-style brace layout.
func (s *Stmt) Print() string {
	if s == nil {
		return ""
	}
	var out string
	switch s.Kind {
	case StmtDecl:
		out = s.Decl.Print() + ";\n"
	case StmtExpr:
		out = s.Expr.Print() + ";\n"
	case StmtIfElse:
		out = "if (" + s.Expr.Print() + ") {\n" + s.Body.Print() + "}"
		if s.ElseBody != nil {
			out += " else {\n" + s.ElseBody.Print() + "}"
		}
		out += "\n"
	case StmtFor:
		out = "for (" + s.InitExpr.Print() + "; " + s.Expr.Print() + "; " + s.NextExpr.Print() + ") {\n" + s.Body.Print() + "}\n"
	case StmtPrint:
		out = "print "
		for i, a := range s.Expr.Args() {
			if i > 0 {
				out += ", "
			}
			out += a.Print()
		}
		out += ";\n"
	case StmtReturn:
		out = "return"
		if s.Expr != nil {
			out += " " + s.Expr.Print()
		}
		out += ";\n"
	case StmtBlock:
		out = s.Body.Print()
	}
	if s.Next != nil {
		out += s.Next.Print()
	}
	return out
}
