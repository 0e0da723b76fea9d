package codegen

import "fmt"

// labelAllocator hands out unique `.L%d` jump-target labels, ported from
// label.c's global label_count/label_create/label_name.
type labelAllocator struct {
	count int
}

func (l *labelAllocator) create() int {
	n := l.count
	l.count++
	return n
}

func labelName(n int) string {
	return fmt.Sprintf(".L%d", n)
}

// stringLiteral is one pooled string constant awaiting emission into the
// .data section, ported from str_lit.c's String_lit linked list (a slice
// here: Go doesn't need the original's manual list bookkeeping).
type stringLiteral struct {
	label   string
	decoded string
}

// stringPool collects string literals encountered during codegen so they
// can be emitted once, as named .data entries, instead of inline at every
// use site — mirrors string_alloc's accumulate-then-string_print shape.
type stringPool struct {
	labels *labelAllocator
	lits   []stringLiteral
}

func newStringPool(labels *labelAllocator) *stringPool {
	return &stringPool{labels: labels}
}

// intern allocates a fresh .data label for decoded and queues the literal
// for emission. Every call gets its own label; equal strings are not shared.
func (p *stringPool) intern(decoded string) string {
	label := fmt.Sprintf(".LS%d", p.labels.create())
	p.lits = append(p.lits, stringLiteral{label: label, decoded: decoded})
	return label
}
