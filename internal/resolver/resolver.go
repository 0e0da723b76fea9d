// Package resolver implements name resolution (C3): binding declarations to
// fresh symbols, attaching existing symbols to identifier uses, and
// reconciling function prototypes against their eventual definitions (§4.3).
// Walks the tree with direct recursion over this module's single mutable
// node structs rather than a visitor over interface-typed AST nodes.
package resolver

import (
	"github.com/dcarreno/bminor/internal/ast"
	"github.com/dcarreno/bminor/internal/diag"
	"github.com/dcarreno/bminor/internal/symtab"
)

// Resolver walks an AST, binding names via a scope stack (§4.2) and
// recording diagnostics on a shared Context (§4.5).
type Resolver struct {
	scope *symtab.Scope
	diags *diag.Context
}

func New(diags *diag.Context) *Resolver {
	r := &Resolver{scope: symtab.New(), diags: diags}
	r.scope.Enter() // global scope, depth 1
	return r
}

// ResolveProgram resolves every top-level declaration in order, allowing
// forward use of later globals is NOT supported (B-minor requires
// declare-before-use at every scope, matching the original's single-pass
// design, §1).
func (r *Resolver) ResolveProgram(decls *ast.Decl) {
	for d := decls; d != nil; d = d.Next {
		r.ResolveDecl(d)
	}
}

// ResolveDecl implements §4.3.1.
func (r *Resolver) ResolveDecl(d *ast.Decl) {
	if d == nil {
		return
	}
	kind := ast.SymbolLocal
	if r.scope.Level() <= 1 {
		kind = ast.SymbolGlobal
	}

	if d.Value != nil {
		r.ResolveExpr(d.Value)
	}

	if d.Type != nil && d.Type.Kind == ast.KindFunction {
		r.resolveFunctionDecl(d, kind)
		return
	}

	sym := ast.NewSymbol(kind, d.Name, d.Type)
	existing, found := r.scope.LookupCurrent(d.Name)
	switch {
	case found && existing.Type != nil && existing.Type.Kind == ast.KindFunction:
		r.diags.Errorf(diag.PhaseResolver, "%s: reusing identifier for function name", d.Name)
		d.Symbol = existing
		d.Owner = false
	case found:
		r.diags.Errorf(diag.PhaseResolver, "Redeclaring an Identifier '%s' in the same scope", d.Name)
		d.Symbol = existing
		d.Owner = false
	default:
		r.scope.Bind(d.Name, sym)
		d.Symbol = sym
		d.Owner = true
		if d.Value != nil && d.Value.Kind == ast.ExprBrace &&
			(d.Type.Kind == ast.KindArray || d.Type.Kind == ast.KindCarray || d.Type.Kind == ast.KindAuto) {
			propagateSymbol(d.Value, sym)
		}
	}
}

// propagateSymbol stamps sym onto a brace initializer (and its nested brace
// elements are left for the type checker, which only needs the outermost
// symbol to consult the declared array shape).
func propagateSymbol(e *ast.Expr, sym *ast.Symbol) {
	if e == nil {
		return
	}
	e.Symbol = sym
}

func (r *Resolver) resolveFunctionDecl(d *ast.Decl, kind ast.SymbolKind) {
	isPrototype := d.Body == nil
	existing, found := r.scope.LookupCurrent(d.Name)

	var sym *ast.Symbol
	switch {
	case found && (existing.Type == nil || existing.Type.Kind != ast.KindFunction):
		r.diags.Errorf(diag.PhaseResolver, "%s: reusing identifier for function name", d.Name)
		sym = existing
		d.Owner = false
	case found && existing.FuncDecl && !isPrototype:
		existing.FuncDecl = false
		sym = existing
		d.Owner = false
		r.checkPrototypeConsistency(d, existing)
	case found && !existing.FuncDecl && !isPrototype:
		r.diags.Errorf(diag.PhaseResolver, "%s: redefinition of function", d.Name)
		sym = existing
		d.Owner = false
		r.checkPrototypeConsistency(d, existing)
	case found && !existing.FuncDecl && isPrototype:
		r.diags.Warnf(diag.PhaseResolver, "%s: prototype already defined", d.Name)
		sym = existing
		d.Owner = false
		r.checkPrototypeConsistency(d, existing)
	case found && existing.FuncDecl && isPrototype:
		r.diags.Warnf(diag.PhaseResolver, "%s: prototype already defined", d.Name)
		sym = existing
		d.Owner = false
		r.checkPrototypeConsistency(d, existing)
	default:
		sym = ast.NewSymbol(kind, d.Name, d.Type)
		sym.FuncDecl = isPrototype
		r.scope.Bind(d.Name, sym)
		d.Owner = true
	}
	d.Symbol = sym

	if d.Body == nil {
		return
	}

	r.scope.Enter() // parameter scope
	r.resolveParams(d.Type.Params)
	r.scope.Enter() // body scope
	r.ResolveStmt(d.Body, sym)
	d.Locals = r.scope.LocalCount()
	r.scope.Exit()
	r.scope.Exit()
}

// checkPrototypeConsistency implements §4.3.1's "prototype consistency
// check": return subtype and parameter list must match structurally.
func (r *Resolver) checkPrototypeConsistency(d *ast.Decl, existing *ast.Symbol) {
	if existing.Type == nil || d.Type == nil {
		return
	}
	if !existing.Type.Subtype.Equals(d.Type.Subtype) {
		r.diags.Errorf(diag.PhaseResolver, "%s: conflicting return types between prototype and definition", d.Name)
	}
	if !existing.Type.Params.EqualsByType(d.Type.Params) {
		r.diags.Errorf(diag.PhaseResolver, "%s: conflicting parameter types between prototype and definition", d.Name)
	}
}

func (r *Resolver) resolveParams(params *ast.ParamList) {
	seen := map[string]bool{}
	for p := params; p != nil; p = p.Next {
		if seen[p.Name] {
			r.diags.Errorf(diag.PhaseResolver, "%s: duplicate parameter name", p.Name)
			continue
		}
		seen[p.Name] = true
		sym := ast.NewSymbol(ast.SymbolParam, p.Name, p.Type)
		r.scope.Bind(p.Name, sym)
		p.Symbol = sym
	}
}

// ResolveStmt implements §4.3.2, threading funcSym down through Body,
// ElseBody, and Next.
func (r *Resolver) ResolveStmt(s *ast.Stmt, funcSym *ast.Symbol) {
	for cur := s; cur != nil; cur = cur.Next {
		cur.FuncSym = funcSym
		switch cur.Kind {
		case ast.StmtDecl:
			r.ResolveDecl(cur.Decl)
		case ast.StmtExpr:
			r.ResolveExpr(cur.Expr)
		case ast.StmtIfElse:
			r.ResolveExpr(cur.Expr)
			r.resolveBranchBody(cur.Body, funcSym)
			if cur.ElseBody != nil {
				r.resolveBranchBody(cur.ElseBody, funcSym)
			}
		case ast.StmtFor:
			r.ResolveExpr(cur.InitExpr)
			r.ResolveExpr(cur.Expr)
			r.ResolveExpr(cur.NextExpr)
			r.resolveBranchBody(cur.Body, funcSym)
		case ast.StmtPrint:
			for _, a := range cur.Expr.Args() {
				r.ResolveExpr(a)
			}
		case ast.StmtReturn:
			if cur.Expr != nil {
				r.ResolveExpr(cur.Expr)
			}
		case ast.StmtBlock:
			r.scope.Enter()
			r.ResolveStmt(cur.Body, funcSym)
			r.scope.Exit()
		}
	}
}

// resolveBranchBody handles an if/for single-statement or block body.
// Single-line declarations are rejected per §4.3.2, but still resolved so
// later diagnostics surface.
func (r *Resolver) resolveBranchBody(body *ast.Stmt, funcSym *ast.Symbol) {
	if body == nil {
		return
	}
	if body.Kind == ast.StmtDecl {
		r.diags.Errorf(diag.PhaseResolver, "declaration not allowed as a single-statement body")
	}
	if body.Kind == ast.StmtBlock {
		r.scope.Enter()
		r.ResolveStmt(body.Body, funcSym)
		r.scope.Exit()
		return
	}
	r.ResolveStmt(body, funcSym)
}

// ResolveExpr implements §4.3.2: only identifiers bind to a symbol; every
// other kind recurses into Left/Right.
func (r *Resolver) ResolveExpr(e *ast.Expr) {
	if e == nil {
		return
	}
	if e.Kind == ast.ExprIdent {
		sym, ok := r.scope.Lookup(e.Name)
		if !ok {
			r.diags.Errorf(diag.PhaseResolver, "%s: not defined", e.Name)
			return
		}
		e.Symbol = sym
		return
	}
	r.ResolveExpr(e.Left)
	r.ResolveExpr(e.Right)
}
