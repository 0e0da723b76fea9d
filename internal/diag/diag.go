// Package diag implements the diagnostic context (C5): counters and flags
// accumulated during resolution, type checking, and code generation for one
// compilation unit (§4.5).
package diag

import (
	"fmt"

	"github.com/dcarreno/bminor/internal/lexer"
)

// Severity classifies one diagnostic line (§6.3).
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityResolved
)

// Phase names the compiler pass that produced a diagnostic.
type Phase int

const (
	PhaseResolver Phase = iota
	PhaseTypechecker
	PhaseCodegen
)

func (p Phase) label(sev Severity) string {
	switch p {
	case PhaseResolver:
		switch sev {
		case SeverityWarning:
			return "Resolver Warning:"
		case SeverityResolved:
			return "resolver resolved:"
		default:
			return "resolver error:"
		}
	case PhaseTypechecker:
		switch sev {
		case SeverityWarning:
			return "typechecker warning:"
		case SeverityResolved:
			return "typechecker resolved:"
		default:
			return "typechecker error:"
		}
	case PhaseCodegen:
		return "codegen error:"
	default:
		return "diagnostic:"
	}
}

// Message is one recorded diagnostic line. Pos is set only for positioned
// diagnostics (ErrorfAt); the zero Position means the message has no single
// source location to point at.
type Message struct {
	Phase    Phase
	Severity Severity
	Pos      lexer.Position
	Text     string
}

// String keeps the phase label at the start of the line (§6.3) and appends
// the source position, when one was recorded, at the end.
func (m Message) String() string {
	s := m.Phase.label(m.Severity) + " " + m.Text
	if m.Pos.IsValid() {
		s += " (" + m.Pos.String() + ")"
	}
	return s
}

// Context is a single compilation unit's diagnostic state. Reset between
// compilations simply by constructing a fresh Context — see §5's note on
// why this port uses an explicit value instead of a package-level global.
type Context struct {
	ResolverErrors   int
	TypecheckErrors  int
	CodegenErrors    int

	DataEmitted bool // codegen has written the .data section header
	TextEmitted bool // codegen has written the .text section header

	Messages []Message
}

func New() *Context {
	return &Context{}
}

// Errorf records an error and increments the matching counter.
func (c *Context) Errorf(phase Phase, format string, args ...interface{}) {
	c.ErrorfAt(phase, lexer.Position{}, format, args...)
}

// ErrorfAt records an error pinned to a source position and increments the
// matching counter.
func (c *Context) ErrorfAt(phase Phase, pos lexer.Position, format string, args ...interface{}) {
	c.record(phase, SeverityError, pos, fmt.Sprintf(format, args...))
	switch phase {
	case PhaseResolver:
		c.ResolverErrors++
	case PhaseTypechecker:
		c.TypecheckErrors++
	case PhaseCodegen:
		c.CodegenErrors++
	}
}

// Warnf records a warning; warnings never fail a phase.
func (c *Context) Warnf(phase Phase, format string, args ...interface{}) {
	c.record(phase, SeverityWarning, lexer.Position{}, fmt.Sprintf(format, args...))
}

// Resolvedf records an informational auto-inference resolution.
func (c *Context) Resolvedf(phase Phase, format string, args ...interface{}) {
	c.record(phase, SeverityResolved, lexer.Position{}, fmt.Sprintf(format, args...))
}

func (c *Context) record(phase Phase, sev Severity, pos lexer.Position, text string) {
	c.Messages = append(c.Messages, Message{Phase: phase, Severity: sev, Pos: pos, Text: text})
}

// Failed reports whether the given phase's error counter is non-zero — the
// front-end's short-circuit signal (§6.1).
func (c *Context) Failed(phase Phase) bool {
	switch phase {
	case PhaseResolver:
		return c.ResolverErrors > 0
	case PhaseTypechecker:
		return c.TypecheckErrors > 0
	case PhaseCodegen:
		return c.CodegenErrors > 0
	default:
		return false
	}
}
