// Package symtab implements the B-minor scope stack: an ordered stack of
// per-scope name-to-symbol mappings (§4.2). Symbol itself lives in
// internal/ast (see that package's symbol.go for why); this package owns
// only the stack discipline around it.
package symtab

import (
	"fmt"

	"github.com/dolthub/swiss"

	"github.com/dcarreno/bminor/internal/ast"
)

// frame is one lexical scope: a name->Symbol map plus the shared locals
// counter described in §4.2.
type frame struct {
	names *swiss.Map[string, *ast.Symbol]
	// local is the next positional index to hand out within this scope.
	// For nested non-global scopes past depth 3 (global, params, first
	// body block) this pointer is shared with the enclosing frame so a
	// function's locals stay numbered contiguously across inner blocks,
	// matching the original scope_enter/scope_exit behavior verbatim.
	local *int
}

func newFrame(shared *int) *frame {
	l := shared
	if l == nil {
		zero := 0
		l = &zero
	}
	return &frame{names: swiss.NewMap[string, *ast.Symbol](8), local: l}
}

// Scope is the scope stack (§3.1, §4.2). The zero value is not usable; call
// New.
type Scope struct {
	frames []*frame
}

func New() *Scope {
	return &Scope{}
}

// Enter pushes a fresh empty mapping.
func (s *Scope) Enter() {
	var shared *int
	// Past depth 3 (global=1, params=2, first body block=3), inherit the
	// enclosing frame's locals counter by reference.
	if len(s.frames) > 2 {
		shared = s.frames[len(s.frames)-1].local
	}
	s.frames = append(s.frames, newFrame(shared))
}

// Exit pops the top mapping.
func (s *Scope) Exit() {
	if len(s.frames) == 0 {
		return
	}
	s.frames = s.frames[:len(s.frames)-1]
}

// Level returns the current depth; depth 1 is the global scope, depth 0
// means Enter has not yet been called.
func (s *Scope) Level() int {
	return len(s.frames)
}

// Bind inserts name -> sym into the top scope and assigns sym.Which the
// next positional index within the scope. Panics on internal map-insert
// failure, matching §7's "fatal: internal insertion failures in scope map"
// classification (there is no Go error path for a map write failing, so
// this guards only the precondition of calling Bind with no open scope).
func (s *Scope) Bind(name string, sym *ast.Symbol) {
	if len(s.frames) == 0 {
		panic(fmt.Sprintf("symtab: Bind(%q) with no open scope", name))
	}
	top := s.frames[len(s.frames)-1]
	sym.Which = *top.local
	*top.local++
	top.names.Put(name, sym)
}

// Lookup searches from top to bottom; first match wins.
func (s *Scope) Lookup(name string) (*ast.Symbol, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if sym, ok := s.frames[i].names.Get(name); ok {
			return sym, true
		}
	}
	return nil, false
}

// LookupCurrent searches only the top scope.
func (s *Scope) LookupCurrent(name string) (*ast.Symbol, bool) {
	if len(s.frames) == 0 {
		return nil, false
	}
	return s.frames[len(s.frames)-1].names.Get(name)
}

// LocalCount returns the current value of the top scope's locals counter,
// letting a caller capture how many symbols a function body bound before
// its scopes are popped (used to size Decl.Locals, §4.3.1).
func (s *Scope) LocalCount() int {
	if len(s.frames) == 0 {
		return 0
	}
	return *s.frames[len(s.frames)-1].local
}

// Names returns the bound names in the top scope, sorted for deterministic
// diagnostics/debug output over an otherwise unordered Go map.
func (s *Scope) Names() []string {
	if len(s.frames) == 0 {
		return nil
	}
	top := s.frames[len(s.frames)-1]
	names := make([]string, 0, top.names.Count())
	top.names.Iter(func(k string, _ *ast.Symbol) bool {
		names = append(names, k)
		return false
	})
	sortStrings(names)
	return names
}
