// Package codegen lowers a resolved, type-checked AST into x86-64 AT&T
// syntax text assembly. No IR stage sits between the AST and the emitted
// text — the original source's pipeline has no IR, and per the stated
// non-goals this port performs no optimization over the result either.
package codegen

import "fmt"

// maxScratchRegisters mirrors scratch.c's MAX_SCRATCH_REGISTERS: the seven
// caller-saved/callee-saved general registers this emitter treats as a free
// pool, leaving rax/rdi/rsi/rdx/rcx/r8/r9/rsp/rbp reserved for the calling
// convention and return values.
const maxScratchRegisters = 7

var scratchNames = [maxScratchRegisters]string{
	"%rbx", "%r10", "%r11", "%r12", "%r13", "%r14", "%r15",
}

// scratchPool tracks which of the seven scratch registers are in use,
// ported from scratch.c's scratch_alloc/scratch_free/scratch_name.
type scratchPool struct {
	inUse [maxScratchRegisters]bool
}

func newScratchPool() *scratchPool {
	return &scratchPool{}
}

// alloc returns the index of a free scratch register, or an error if all
// seven are exhausted (scratch_alloc's "Ran out of scratch registers").
func (s *scratchPool) alloc() (int, error) {
	for i := 0; i < maxScratchRegisters; i++ {
		if !s.inUse[i] {
			s.inUse[i] = true
			return i, nil
		}
	}
	return 0, fmt.Errorf("codegen: ran out of scratch registers")
}

func (s *scratchPool) free(r int) {
	if r < 0 || r >= maxScratchRegisters {
		return
	}
	s.inUse[r] = false
}

func (s *scratchPool) name(r int) string {
	if r < 0 || r >= maxScratchRegisters {
		return ""
	}
	return scratchNames[r]
}

// byteNames holds the 8-bit sub-register name for each scratch register —
// irregular for rbx (bl, no r-prefix) and regular for r10-r15 (r10b..r15b),
// needed by set**/sete-style byte instructions.
var byteNames = [maxScratchRegisters]string{
	"%bl", "%r10b", "%r11b", "%r12b", "%r13b", "%r14b", "%r15b",
}

func (s *scratchPool) byteName(r int) string {
	if r < 0 || r >= maxScratchRegisters {
		return ""
	}
	return byteNames[r]
}
