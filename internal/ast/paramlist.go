package ast

import "github.com/dcarreno/bminor/internal/lexer"

// ParamList is one entry of a function's parameter list: a name, its
// declared Type, and (after resolution) the bound Symbol. Chains through
// Next, exclusively owned by its parent Type.
type ParamList struct {
	Name   string
	Type   *Type
	Symbol *Symbol
	Next   *ParamList
	Pos    lexer.Position
}

func NewParamList(name string, typ *Type, next *ParamList, pos lexer.Position) *ParamList {
	return &ParamList{Name: name, Type: typ, Next: next, Pos: pos}
}

func (p *ParamList) DeepCopy() *ParamList {
	if p == nil {
		return nil
	}
	return &ParamList{
		Name:   p.Name,
		Type:   p.Type.DeepCopy(),
		Symbol: p.Symbol.DeepCopy(),
		Next:   p.Next.DeepCopy(),
		Pos:    p.Pos,
	}
}

// EqualsByType compares two parameter lists by type only, per §4.3.1's
// prototype-consistency check: names never participate.
func (p *ParamList) EqualsByType(other *ParamList) bool {
	a, b := p, other
	for a != nil && b != nil {
		if !a.Type.Equals(b.Type) {
			return false
		}
		a, b = a.Next, b.Next
	}
	return a == nil && b == nil
}

func (p *ParamList) Len() int {
	n := 0
	for cur := p; cur != nil; cur = cur.Next {
		n++
	}
	return n
}

// Print joins each parameter as "name: type", comma-separated.
func (p *ParamList) Print() string {
	s := ""
	for cur := p; cur != nil; cur = cur.Next {
		if cur != p {
			s += ", "
		}
		s += cur.Name + ":" + cur.Type.Print()
	}
	return s
}
