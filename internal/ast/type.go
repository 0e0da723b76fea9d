// Package ast defines the B-minor abstract syntax tree: Type, ParamList,
// Expr, Stmt, and Decl. Nodes are plain, mutable structs tagged by a Kind
// field rather than a family of interface implementations — the type
// checker's `auto` inference (see internal/typecheck) mutates a
// Type's Kind in place and must keep a declaration's Type and its Symbol's
// Type in sync, which a shared, addressable struct supports directly.
package ast

import "github.com/dcarreno/bminor/internal/lexer"

// TypeKind tags the ten data-type categories of B-minor.
type TypeKind int

const (
	KindVoid TypeKind = iota
	KindBoolean
	KindCharacter
	KindInteger
	KindDouble
	KindString
	KindArray
	KindCarray
	KindAuto
	KindFunction
)

func (k TypeKind) String() string {
	switch k {
	case KindVoid:
		return "void"
	case KindBoolean:
		return "boolean"
	case KindCharacter:
		return "character"
	case KindInteger:
		return "integer"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindCarray:
		return "carray"
	case KindAuto:
		return "auto"
	case KindFunction:
		return "function"
	default:
		return "unknown"
	}
}

// IllegalEqualityKind reports whether operands of this kind are forbidden
// under `==`/`!=` (invariant I8). Mirrors the original source's
// ILLEGAL_KIND_EQUALITY macro verbatim.
func IllegalEqualityKind(k TypeKind) bool {
	switch k {
	case KindVoid, KindFunction, KindArray, KindCarray, KindAuto:
		return true
	default:
		return false
	}
}

func IsNumeric(k TypeKind) bool {
	return k == KindInteger || k == KindDouble
}

// Type is a recursive description of a B-minor data type. Arrays and
// carrays carry Subtype (element type) and an optional Length expression;
// function types carry a return Subtype and a Params chain.
type Type struct {
	Kind    TypeKind
	Subtype *Type      // element type for array/carray; return type for function
	Params  *ParamList // function parameter list
	Length  *Expr      // array length expression, nil when omitted
	Pos     lexer.Position
}

func NewType(kind TypeKind, pos lexer.Position) *Type {
	return &Type{Kind: kind, Pos: pos}
}

func NewArrayType(kind TypeKind, subtype *Type, length *Expr, pos lexer.Position) *Type {
	return &Type{Kind: kind, Subtype: subtype, Length: length, Pos: pos}
}

func NewFunctionType(ret *Type, params *ParamList, pos lexer.Position) *Type {
	return &Type{Kind: KindFunction, Subtype: ret, Params: params, Pos: pos}
}

// DeepCopy reproduces the type structure; the length expression, if any, is
// also deep-copied so the copy owns an independent subtree.
func (t *Type) DeepCopy() *Type {
	if t == nil {
		return nil
	}
	cp := &Type{Kind: t.Kind, Pos: t.Pos}
	cp.Subtype = t.Subtype.DeepCopy()
	cp.Params = t.Params.DeepCopy()
	if t.Length != nil {
		cp.Length = t.Length.DeepCopy()
	}
	return cp
}

// Equals compares two types structurally, by kind only (parameter/field
// names never participate) — used by the resolver's prototype-consistency
// check (§4.3.1) and the type checker's call-argument and initializer checks.
func (t *Type) Equals(other *Type) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case KindArray, KindCarray:
		return t.Subtype.Equals(other.Subtype)
	case KindFunction:
		if !t.Subtype.Equals(other.Subtype) {
			return false
		}
		return t.Params.EqualsByType(other.Params)
	default:
		return true
	}
}

// BaseElement walks Subtype chains until it reaches a non-array/carray leaf,
// used for element-wise auto resolution of array assignments (§4.4.1).
func (t *Type) BaseElement() *Type {
	cur := t
	for cur != nil && (cur.Kind == KindArray || cur.Kind == KindCarray) && cur.Subtype != nil {
		cur = cur.Subtype
	}
	return cur
}

// Print renders " kind[subtype][params]" per §4.1.2.
func (t *Type) Print() string {
	if t == nil {
		return ""
	}
	s := " " + t.Kind.String()
	switch t.Kind {
	case KindArray, KindCarray:
		s += t.Subtype.Print()
		if t.Length != nil {
			s += "[" + t.Length.Print() + "]"
		} else {
			s += "[]"
		}
	case KindFunction:
		s += t.Subtype.Print()
		s += " (" + t.Params.Print() + ")"
	}
	return s
}
