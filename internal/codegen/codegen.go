package codegen

import (
	"fmt"
	"strings"

	"github.com/dcarreno/bminor/internal/ast"
	"github.com/dcarreno/bminor/internal/diag"
	"github.com/dcarreno/bminor/internal/encoder"
	"github.com/dcarreno/bminor/internal/runtime"
)

// paramRegisters is the System V AMD64 integer/pointer argument order; a
// function with more than six parameters is beyond what this emitter
// handles (B-minor programs in practice never approach that, and nothing in
// §4.4 bounds parameter count, so this is a quiet simplification rather than
// a diagnosed error).
var paramRegisters = [6]string{"%rdi", "%rsi", "%rdx", "%rcx", "%r8", "%r9"}

// Generator lowers a resolved, type-checked AST to x86-64 text assembly.
// Grounded in the purpose of internal/ir/builder.go's register/value
// bookkeeping, reshaped into a direct AST-to-text emitter since this
// pipeline has no IR stage (see DESIGN.md).
type Generator struct {
	diags *diag.Context

	scratch *scratchPool
	labels  *labelAllocator
	strs    *stringPool

	strLabel map[*ast.Expr]string
	out      strings.Builder
}

func New(diags *diag.Context) *Generator {
	g := &Generator{diags: diags, scratch: newScratchPool(), labels: &labelAllocator{}}
	g.strs = newStringPool(g.labels)
	g.strLabel = make(map[*ast.Expr]string)
	return g
}

// Generate walks decls (global variables and functions) and returns the
// assembled text assembly. Non-fatal problems (an unsupported double
// operand, a multi-dimensional array) are recorded on the Context exactly
// like resolve/typecheck; callers check diags.Failed(diag.PhaseCodegen)
// after Generate returns to decide whether the phase succeeded.
func (g *Generator) Generate(decls *ast.Decl) string {
	g.collectStrings(decls)

	var globals, funcs []*ast.Decl
	for d := decls; d != nil; d = d.Next {
		if d.Type != nil && d.Type.Kind == ast.KindFunction {
			funcs = append(funcs, d)
		} else {
			globals = append(globals, d)
		}
	}

	g.emitData(globals)
	g.emitText(funcs)

	return g.out.String()
}

func (g *Generator) emitf(format string, args ...interface{}) {
	fmt.Fprintf(&g.out, format, args...)
}

// collectStrings walks every declaration (global initializers and function
// bodies) up front and interns each string literal exactly once, so the
// .data section — written before .text — already has a label for every
// string a function body will reference.
func (g *Generator) collectStrings(decls *ast.Decl) {
	for d := decls; d != nil; d = d.Next {
		g.collectStringsExpr(d.Value)
		g.collectStringsStmt(d.Body)
	}
}

func (g *Generator) collectStringsStmt(s *ast.Stmt) {
	for cur := s; cur != nil; cur = cur.Next {
		g.collectStringsExpr(cur.InitExpr)
		g.collectStringsExpr(cur.Expr)
		g.collectStringsExpr(cur.NextExpr)
		if cur.Decl != nil {
			g.collectStringsExpr(cur.Decl.Value)
		}
		g.collectStringsStmt(cur.Body)
		g.collectStringsStmt(cur.ElseBody)
	}
}

func (g *Generator) collectStringsExpr(e *ast.Expr) {
	if e == nil {
		return
	}
	if e.Kind == ast.ExprStringLit {
		g.strLabel[e] = g.strs.intern(e.StringLiteral)
	}
	g.collectStringsExpr(e.Left)
	g.collectStringsExpr(e.Right)
}

// ---- .data section ----

func (g *Generator) emitData(globals []*ast.Decl) {
	if len(globals) == 0 && len(g.strs.lits) == 0 {
		return
	}
	g.diags.DataEmitted = true
	g.emitf(".data\n")
	for _, d := range globals {
		g.emitGlobal(d)
	}
	for _, lit := range g.strs.lits {
		g.emitf("%s:\n\t.string %s\n", lit.label, encoder.Encode(lit.decoded, '"'))
	}
}

func (g *Generator) emitGlobal(d *ast.Decl) {
	if containsDouble(d.Type) {
		g.diags.ErrorfAt(diag.PhaseCodegen, d.Pos, "double operands are not supported")
		return
	}
	if isMultiDimArray(d.Type) {
		g.diags.ErrorfAt(diag.PhaseCodegen, d.Pos, "multi-dimensional arrays are not supported")
		return
	}

	switch d.Type.Kind {
	case ast.KindArray, ast.KindCarray:
		g.emitGlobalArray(d)
	case ast.KindString:
		if d.Value != nil && d.Value.Kind == ast.ExprStringLit {
			g.emitf("%s:\n\t.string %s\n", d.Name, encoder.Encode(d.Value.StringLiteral, '"'))
		} else {
			g.emitf("%s:\n\t.quad 0\n", d.Name)
		}
	case ast.KindCharacter:
		g.emitf("%s:\n\t.byte %d\n", d.Name, charValue(d.Value))
	default:
		g.emitf("%s:\n\t.quad %d\n", d.Name, intConstant(d.Value))
	}
}

func (g *Generator) emitGlobalArray(d *ast.Decl) {
	elemKind := d.Type.Subtype.Kind
	elems := d.Value.Elements()
	g.emitf("%s:\n", d.Name)
	if elemKind == ast.KindCharacter {
		for _, e := range elems {
			g.emitf("\t.byte %d\n", charValue(e))
		}
		return
	}
	for _, e := range elems {
		g.emitf("\t.quad %d\n", intConstant(e))
	}
}

// containsDouble reports whether t, or any element type it wraps, is the
// double type — double never reaches a generated instruction (§4.8).
func containsDouble(t *ast.Type) bool {
	for cur := t; cur != nil; cur = cur.Subtype {
		if cur.Kind == ast.KindDouble {
			return true
		}
		if cur.Kind != ast.KindArray && cur.Kind != ast.KindCarray {
			break
		}
	}
	return false
}

func isMultiDimArray(t *ast.Type) bool {
	if t == nil {
		return false
	}
	if t.Kind != ast.KindArray && t.Kind != ast.KindCarray {
		return false
	}
	return t.Subtype != nil && (t.Subtype.Kind == ast.KindArray || t.Subtype.Kind == ast.KindCarray)
}

// intConstant folds a global initializer expression (literal, or unary
// negation of a literal — the only constants the type checker accepts at
// global scope, §4.4.3) into its integer value.
func intConstant(e *ast.Expr) int64 {
	e = e.Unwrap()
	if e == nil {
		return 0
	}
	switch e.Kind {
	case ast.ExprIntLit:
		return e.IntLiteral
	case ast.ExprBoolLit:
		if e.BoolLiteral {
			return 1
		}
		return 0
	case ast.ExprNeg:
		return -intConstant(e.Left)
	default:
		return 0
	}
}

func charValue(e *ast.Expr) byte {
	e = e.Unwrap()
	if e == nil || e.StringLiteral == "" {
		return 0
	}
	return e.StringLiteral[0]
}

// ---- .text section ----

func (g *Generator) emitText(funcs []*ast.Decl) {
	if len(funcs) == 0 {
		return
	}
	g.diags.TextEmitted = true
	g.emitf(".text\n")
	for _, d := range funcs {
		if d.Body == nil {
			continue // prototype only, nothing to generate
		}
		g.emitFunction(d)
	}
}

// funcGen holds the per-function state a single Generator reuses across
// every function it emits: stack-slot offsets for locals/params, and the
// shared epilogue label every `return` jumps to.
type funcGen struct {
	g        *Generator
	offsets  map[*ast.Symbol]int
	frame    int
	epilogue string
}

func (g *Generator) emitFunction(d *ast.Decl) {
	if containsDouble(d.Type.Subtype) {
		g.diags.ErrorfAt(diag.PhaseCodegen, d.Pos, "double operands are not supported")
		return
	}

	fg := &funcGen{g: g, offsets: map[*ast.Symbol]int{}, epilogue: labelName(g.labels.create())}
	offset := 0
	for p, i := d.Type.Params, 0; p != nil; p, i = p.Next, i+1 {
		offset -= 8
		fg.offsets[p.Symbol] = offset
	}
	collectLocalOffsets(d.Body, fg, &offset)
	fg.frame = alignTo16(-offset)

	g.emitf("%s:\n", d.Name)
	g.emitf("\tpush %%rbp\n")
	g.emitf("\tmov %%rsp, %%rbp\n")
	if fg.frame > 0 {
		g.emitf("\tsub $%d, %%rsp\n", fg.frame)
	}
	for p, i := d.Type.Params, 0; p != nil; p, i = p.Next, i+1 {
		if i < len(paramRegisters) {
			g.emitf("\tmov %s, %d(%%rbp)\n", paramRegisters[i], fg.offsets[p.Symbol])
		}
	}

	fg.emitStmts(d.Body)

	g.emitf("%s:\n", fg.epilogue)
	g.emitf("\tmov %%rbp, %%rsp\n")
	g.emitf("\tpop %%rbp\n")
	g.emitf("\tret\n")
}

// collectLocalOffsets walks a function body assigning each local decl's
// symbol a stack slot, in declaration order, matching the original's
// one-slot-per-local frame layout.
func collectLocalOffsets(s *ast.Stmt, fg *funcGen, offset *int) {
	for cur := s; cur != nil; cur = cur.Next {
		if cur.Kind == ast.StmtDecl && cur.Decl != nil && cur.Decl.Symbol != nil {
			*offset -= 8
			fg.offsets[cur.Decl.Symbol] = *offset
		}
		collectLocalOffsets(cur.Body, fg, offset)
		collectLocalOffsets(cur.ElseBody, fg, offset)
	}
}

func alignTo16(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + 15) &^ 15
}

// ---- statements ----

func (fg *funcGen) emitStmts(s *ast.Stmt) {
	for cur := s; cur != nil; cur = cur.Next {
		fg.emitStmt(cur)
	}
}

func (fg *funcGen) emitStmt(s *ast.Stmt) {
	g := fg.g
	switch s.Kind {
	case ast.StmtDecl:
		// The declared type is checked here, not just the initializer's,
		// so an uninitialized double local is still diagnosed.
		if containsDouble(s.Decl.Type) {
			g.diags.ErrorfAt(diag.PhaseCodegen, s.Decl.Pos, "double operands are not supported")
			return
		}
		if isMultiDimArray(s.Decl.Type) {
			g.diags.ErrorfAt(diag.PhaseCodegen, s.Decl.Pos, "multi-dimensional arrays are not supported")
			return
		}
		if s.Decl.Value != nil {
			fg.emitAssignTo(s.Decl.Symbol, s.Decl.Value)
		}
	case ast.StmtExpr:
		if r, ok := fg.emitExpr(s.Expr); ok {
			g.scratch.free(r)
		}
	case ast.StmtIfElse:
		elseLabel := labelName(g.labels.create())
		endLabel := labelName(g.labels.create())
		if r, ok := fg.emitExpr(s.Expr); ok {
			g.emitf("\tcmp $0, %s\n", g.scratch.name(r))
			g.scratch.free(r)
		}
		target := elseLabel
		if s.ElseBody == nil {
			target = endLabel
		}
		g.emitf("\tje %s\n", target)
		fg.emitStmts(s.Body)
		if s.ElseBody != nil {
			g.emitf("\tjmp %s\n", endLabel)
			g.emitf("%s:\n", elseLabel)
			fg.emitStmts(s.ElseBody)
		}
		g.emitf("%s:\n", endLabel)
	case ast.StmtFor:
		if s.InitExpr != nil {
			if r, ok := fg.emitExpr(s.InitExpr); ok {
				g.scratch.free(r)
			}
		}
		startLabel := labelName(g.labels.create())
		endLabel := labelName(g.labels.create())
		g.emitf("%s:\n", startLabel)
		if s.Expr != nil {
			if r, ok := fg.emitExpr(s.Expr); ok {
				g.emitf("\tcmp $0, %s\n", g.scratch.name(r))
				g.scratch.free(r)
			}
			g.emitf("\tje %s\n", endLabel)
		}
		fg.emitStmts(s.Body)
		if s.NextExpr != nil {
			if r, ok := fg.emitExpr(s.NextExpr); ok {
				g.scratch.free(r)
			}
		}
		g.emitf("\tjmp %s\n", startLabel)
		g.emitf("%s:\n", endLabel)
	case ast.StmtPrint:
		for _, a := range s.Expr.Args() {
			fg.emitPrintArg(a)
		}
	case ast.StmtReturn:
		if s.Expr != nil {
			if r, ok := fg.emitExpr(s.Expr); ok {
				g.emitf("\tmov %s, %%rax\n", g.scratch.name(r))
				g.scratch.free(r)
			}
		}
		g.emitf("\tjmp %s\n", fg.epilogue)
	case ast.StmtBlock:
		fg.emitStmts(s.Body)
	}
}

func (fg *funcGen) emitPrintArg(a *ast.Expr) {
	g := fg.g
	if a.Type == nil {
		return
	}
	fn := runtime.PrintFuncFor(a.Type.Kind.String())
	if fn == "" {
		return
	}
	if r, ok := fg.emitExpr(a); ok {
		g.emitf("\tmov %s, %%rdi\n", g.scratch.name(r))
		g.scratch.free(r)
	}
	g.emitf("\tcall %s\n", fn)
}

func (fg *funcGen) emitAssignTo(sym *ast.Symbol, value *ast.Expr) {
	g := fg.g
	r, ok := fg.emitExpr(value)
	if !ok {
		return
	}
	off, known := fg.offsets[sym]
	if known {
		g.emitf("\tmov %s, %d(%%rbp)\n", g.scratch.name(r), off)
	}
	g.scratch.free(r)
}

// ---- expressions ----

// emitExpr evaluates e into a freshly allocated scratch register and
// returns its index; ok is false when e could not be evaluated (an
// unsupported double operand, or scratch-register exhaustion), in which
// case the caller emits nothing further for this subtree.
func (fg *funcGen) emitExpr(e *ast.Expr) (int, bool) {
	g := fg.g
	e = e.Unwrap()
	if e == nil {
		return 0, false
	}
	if e.Type != nil && e.Type.Kind == ast.KindDouble {
		g.diags.ErrorfAt(diag.PhaseCodegen, e.Pos, "double operands are not supported")
		return 0, false
	}

	switch e.Kind {
	case ast.ExprIntLit:
		return fg.loadImmediate(e.IntLiteral)
	case ast.ExprBoolLit:
		v := int64(0)
		if e.BoolLiteral {
			v = 1
		}
		return fg.loadImmediate(v)
	case ast.ExprCharLit:
		return fg.loadImmediate(int64(charValue(e)))
	case ast.ExprStringLit:
		return fg.loadLabelAddress(g.strLabel[e])
	case ast.ExprIdent:
		return fg.loadSymbol(e.Symbol)
	case ast.ExprAssign:
		return fg.emitAssignExpr(e)
	case ast.ExprAdd, ast.ExprSub, ast.ExprMul, ast.ExprDiv, ast.ExprMod:
		return fg.emitArith(e)
	case ast.ExprPow:
		return fg.emitCallBinary(e, runtime.IntegerPower)
	case ast.ExprEq, ast.ExprNotEq, ast.ExprLess, ast.ExprLessEq, ast.ExprGreater, ast.ExprGreaterEq:
		return fg.emitCompare(e)
	case ast.ExprAnd, ast.ExprOr:
		return fg.emitLogical(e)
	case ast.ExprNot:
		return fg.emitNot(e)
	case ast.ExprNeg:
		return fg.emitNeg(e)
	case ast.ExprIncr, ast.ExprDecr:
		return fg.emitIncrDecr(e)
	case ast.ExprArrayLen:
		return fg.emitArrayLen(e)
	case ast.ExprIndex:
		return fg.emitIndex(e)
	case ast.ExprCall:
		return fg.emitCall(e)
	default:
		return 0, false
	}
}

func (fg *funcGen) loadImmediate(v int64) (int, bool) {
	g := fg.g
	r, err := g.scratch.alloc()
	if err != nil {
		g.diags.Errorf(diag.PhaseCodegen, "%s", err)
		return 0, false
	}
	g.emitf("\tmov $%d, %s\n", v, g.scratch.name(r))
	return r, true
}

func (fg *funcGen) loadLabelAddress(label string) (int, bool) {
	g := fg.g
	r, err := g.scratch.alloc()
	if err != nil {
		g.diags.Errorf(diag.PhaseCodegen, "%s", err)
		return 0, false
	}
	g.emitf("\tlea %s(%%rip), %s\n", label, g.scratch.name(r))
	return r, true
}

func (fg *funcGen) loadSymbol(sym *ast.Symbol) (int, bool) {
	g := fg.g
	r, err := g.scratch.alloc()
	if err != nil {
		g.diags.Errorf(diag.PhaseCodegen, "%s", err)
		return 0, false
	}
	if off, ok := fg.offsets[sym]; ok {
		g.emitf("\tmov %d(%%rbp), %s\n", off, g.scratch.name(r))
	} else if sym != nil {
		g.emitf("\tmov %s(%%rip), %s\n", sym.Name, g.scratch.name(r))
	}
	return r, true
}

func (fg *funcGen) emitAssignExpr(e *ast.Expr) (int, bool) {
	g := fg.g
	r, ok := fg.emitExpr(e.Right)
	if !ok {
		return 0, false
	}
	lhs := e.Left.Unwrap()
	switch lhs.Kind {
	case ast.ExprIdent:
		if off, known := fg.offsets[lhs.Symbol]; known {
			g.emitf("\tmov %s, %d(%%rbp)\n", g.scratch.name(r), off)
		} else if lhs.Symbol != nil {
			g.emitf("\tmov %s, %s(%%rip)\n", g.scratch.name(r), lhs.Symbol.Name)
		}
	case ast.ExprIndex:
		fg.storeIndex(lhs, r)
	}
	return r, true
}

func (fg *funcGen) emitArith(e *ast.Expr) (int, bool) {
	g := fg.g
	l, ok := fg.emitExpr(e.Left)
	if !ok {
		return 0, false
	}
	r, ok := fg.emitExpr(e.Right)
	if !ok {
		g.scratch.free(l)
		return 0, false
	}
	switch e.Kind {
	case ast.ExprAdd:
		g.emitf("\tadd %s, %s\n", g.scratch.name(r), g.scratch.name(l))
	case ast.ExprSub:
		g.emitf("\tsub %s, %s\n", g.scratch.name(r), g.scratch.name(l))
	case ast.ExprMul:
		g.emitf("\timul %s, %s\n", g.scratch.name(r), g.scratch.name(l))
	case ast.ExprDiv, ast.ExprMod:
		g.emitf("\tmov %s, %%rax\n", g.scratch.name(l))
		g.emitf("\tcqto\n")
		g.emitf("\tidiv %s\n", g.scratch.name(r))
		if e.Kind == ast.ExprDiv {
			g.emitf("\tmov %%rax, %s\n", g.scratch.name(l))
		} else {
			g.emitf("\tmov %%rdx, %s\n", g.scratch.name(l))
		}
	}
	g.scratch.free(r)
	return l, true
}

// emitCallBinary lowers a binary operator into a call to a two-argument
// runtime routine (string equality, integer power), passing the left and
// right operands in the first two ABI argument registers.
func (fg *funcGen) emitCallBinary(e *ast.Expr, fn string) (int, bool) {
	g := fg.g
	l, ok := fg.emitExpr(e.Left)
	if !ok {
		return 0, false
	}
	r, ok := fg.emitExpr(e.Right)
	if !ok {
		g.scratch.free(l)
		return 0, false
	}
	g.emitf("\tmov %s, %%rdi\n", g.scratch.name(l))
	g.emitf("\tmov %s, %%rsi\n", g.scratch.name(r))
	g.scratch.free(l)
	g.scratch.free(r)
	g.emitf("\tcall %s\n", fn)
	out, err := g.scratch.alloc()
	if err != nil {
		g.diags.Errorf(diag.PhaseCodegen, "%s", err)
		return 0, false
	}
	g.emitf("\tmov %%rax, %s\n", g.scratch.name(out))
	return out, true
}

func (fg *funcGen) emitCompare(e *ast.Expr) (int, bool) {
	if e.Left.Type != nil && e.Left.Type.Kind == ast.KindString {
		fn := runtime.StrEqual
		if e.Kind == ast.ExprNotEq {
			fn = runtime.StrNotEqual
		}
		return fg.emitCallBinary(e, fn)
	}

	g := fg.g
	l, ok := fg.emitExpr(e.Left)
	if !ok {
		return 0, false
	}
	r, ok := fg.emitExpr(e.Right)
	if !ok {
		g.scratch.free(l)
		return 0, false
	}
	g.emitf("\tcmp %s, %s\n", g.scratch.name(r), g.scratch.name(l))
	g.scratch.free(r)
	set := map[ast.ExprKind]string{
		ast.ExprEq: "sete", ast.ExprNotEq: "setne",
		ast.ExprLess: "setl", ast.ExprLessEq: "setle",
		ast.ExprGreater: "setg", ast.ExprGreaterEq: "setge",
	}[e.Kind]
	g.emitf("\t%s %s\n", set, g.scratch.byteName(l))
	g.emitf("\tmovzbq %s, %s\n", g.scratch.byteName(l), g.scratch.name(l))
	return l, true
}

func (fg *funcGen) emitLogical(e *ast.Expr) (int, bool) {
	g := fg.g
	l, ok := fg.emitExpr(e.Left)
	if !ok {
		return 0, false
	}
	r, ok := fg.emitExpr(e.Right)
	if !ok {
		g.scratch.free(l)
		return 0, false
	}
	if e.Kind == ast.ExprAnd {
		g.emitf("\tand %s, %s\n", g.scratch.name(r), g.scratch.name(l))
	} else {
		g.emitf("\tor %s, %s\n", g.scratch.name(r), g.scratch.name(l))
	}
	g.scratch.free(r)
	return l, true
}

func (fg *funcGen) emitNot(e *ast.Expr) (int, bool) {
	g := fg.g
	r, ok := fg.emitExpr(e.Left)
	if !ok {
		return 0, false
	}
	g.emitf("\tcmp $0, %s\n", g.scratch.name(r))
	g.emitf("\tsete %s\n", g.scratch.byteName(r))
	g.emitf("\tmovzbq %s, %s\n", g.scratch.byteName(r), g.scratch.name(r))
	return r, true
}

func (fg *funcGen) emitNeg(e *ast.Expr) (int, bool) {
	g := fg.g
	r, ok := fg.emitExpr(e.Left)
	if !ok {
		return 0, false
	}
	g.emitf("\tneg %s\n", g.scratch.name(r))
	return r, true
}

func (fg *funcGen) emitIncrDecr(e *ast.Expr) (int, bool) {
	g := fg.g
	r, ok := fg.emitExpr(e.Left)
	if !ok {
		return 0, false
	}
	if e.Kind == ast.ExprIncr {
		g.emitf("\tadd $1, %s\n", g.scratch.name(r))
	} else {
		g.emitf("\tsub $1, %s\n", g.scratch.name(r))
	}
	lhs := e.Left.Unwrap()
	if lhs.Kind == ast.ExprIdent {
		if off, known := fg.offsets[lhs.Symbol]; known {
			g.emitf("\tmov %s, %d(%%rbp)\n", g.scratch.name(r), off)
		} else if lhs.Symbol != nil {
			g.emitf("\tmov %s, %s(%%rip)\n", g.scratch.name(r), lhs.Symbol.Name)
		}
	}
	return r, true
}

func (fg *funcGen) emitArrayLen(e *ast.Expr) (int, bool) {
	ident := e.Left.Unwrap()
	length := int64(0)
	if ident.Symbol != nil && ident.Symbol.Type != nil && ident.Symbol.Type.Length != nil {
		length = intConstant(ident.Symbol.Type.Length)
	}
	return fg.loadImmediate(length)
}

func (fg *funcGen) emitIndex(e *ast.Expr) (int, bool) {
	g := fg.g
	base, ok := fg.addressOfArray(e.Left)
	if !ok {
		return 0, false
	}
	idx, ok := fg.emitExpr(e.Right)
	if !ok {
		g.scratch.free(base)
		return 0, false
	}
	g.emitf("\tlea (%s,%s,8), %s\n", g.scratch.name(base), g.scratch.name(idx), g.scratch.name(base))
	g.emitf("\tmov (%s), %s\n", g.scratch.name(base), g.scratch.name(idx))
	g.scratch.free(base)
	return idx, true
}

func (fg *funcGen) storeIndex(e *ast.Expr, valueReg int) {
	g := fg.g
	base, ok := fg.addressOfArray(e.Left)
	if !ok {
		return
	}
	idx, ok := fg.emitExpr(e.Right)
	if !ok {
		g.scratch.free(base)
		return
	}
	g.emitf("\tlea (%s,%s,8), %s\n", g.scratch.name(base), g.scratch.name(idx), g.scratch.name(base))
	g.emitf("\tmov %s, (%s)\n", g.scratch.name(valueReg), g.scratch.name(base))
	g.scratch.free(base)
	g.scratch.free(idx)
}

// addressOfArray returns a scratch register holding the base address of an
// array-typed lvalue (identifier only — B-minor has no pointer arithmetic).
func (fg *funcGen) addressOfArray(e *ast.Expr) (int, bool) {
	g := fg.g
	ident := e.Unwrap()
	if ident.Kind != ast.ExprIdent {
		g.diags.ErrorfAt(diag.PhaseCodegen, ident.Pos, "unsupported array base expression")
		return 0, false
	}
	r, err := g.scratch.alloc()
	if err != nil {
		g.diags.Errorf(diag.PhaseCodegen, "%s", err)
		return 0, false
	}
	if off, known := fg.offsets[ident.Symbol]; known {
		g.emitf("\tlea %d(%%rbp), %s\n", off, g.scratch.name(r))
	} else if ident.Symbol != nil {
		g.emitf("\tlea %s(%%rip), %s\n", ident.Symbol.Name, g.scratch.name(r))
	}
	return r, true
}

func (fg *funcGen) emitCall(e *ast.Expr) (int, bool) {
	g := fg.g
	args := e.Right.Args()
	regs := make([]int, 0, len(args))
	for _, a := range args {
		r, ok := fg.emitExpr(a)
		if !ok {
			for _, reg := range regs {
				g.scratch.free(reg)
			}
			return 0, false
		}
		regs = append(regs, r)
	}
	for i, r := range regs {
		if i < len(paramRegisters) {
			g.emitf("\tmov %s, %s\n", g.scratch.name(r), paramRegisters[i])
		}
		g.scratch.free(r)
	}
	callee := e.Left.Unwrap()
	name := callee.Name
	if callee.Symbol != nil {
		name = callee.Symbol.Name
	}
	g.emitf("\tcall %s\n", name)
	out, err := g.scratch.alloc()
	if err != nil {
		g.diags.Errorf(diag.PhaseCodegen, "%s", err)
		return 0, false
	}
	g.emitf("\tmov %%rax, %s\n", g.scratch.name(out))
	return out, true
}
