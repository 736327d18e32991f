// Package crawl walks syntax trees and yields call sites that match a set of
// filters.
package crawl

import (
	"iter"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/papyrus/internal/lang"
	"github.com/phobologic/papyrus/internal/syntax"
)

// Call is one call expression found in a tree.
type Call struct {
	Tree     *syntax.Tree
	Node     *sitter.Node
	Callee   lang.Callee // nil when the callee is neither a name nor an attribute
	Args     []*sitter.Node
	Keywords []lang.Keyword
}

func newCall(t *syntax.Tree, n *sitter.Node) *Call {
	l := t.Lang()
	args, keywords := l.Arguments(n, t.Source())
	return &Call{
		Tree:     t,
		Node:     n,
		Callee:   l.CalleeOf(n, t.Source()),
		Args:     args,
		Keywords: keywords,
	}
}

// Line returns the 1-based line the call starts on.
func (c *Call) Line() int {
	return int(c.Node.StartPoint().Row) + 1
}

// Literal returns the literal value of n, which must belong to the call's tree.
func (c *Call) Literal(n *sitter.Node) (string, bool) {
	return c.Tree.Lang().Literal(n, c.Tree.Source())
}

// Keyword returns the value of the first keyword argument called name.
func (c *Call) Keyword(name string) (*sitter.Node, bool) {
	for _, kw := range c.Keywords {
		if kw.Name == name {
			return kw.Value, true
		}
	}
	return nil, false
}

// Calls yields every call expression in t, in pre-order, for which all
// filters match. Each range over the sequence walks the tree from its root.
func Calls(t *syntax.Tree, filters ...Filter) iter.Seq[*Call] {
	match := All(filters...)
	isCall := t.Lang().IsCall
	return func(yield func(*Call) bool) {
		stack := []*sitter.Node{t.Root()}
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if isCall(n) {
				if c := newCall(t, n); match.Match(c) && !yield(c) {
					return
				}
			}

			for i := int(n.NamedChildCount()) - 1; i >= 0; i-- {
				stack = append(stack, n.NamedChild(i))
			}
		}
	}
}

// DecoratorCalls yields the decorator applications named name, attached to any
// function or class definition in t, that also pass filters. Definitions are
// visited in pre-order and stacked decorators top to bottom. Each decorator
// expression is crawled as its own sub-tree.
func DecoratorCalls(t *syntax.Tree, name string, filters ...Filter) iter.Seq[*Call] {
	decorated := append([]Filter{DecoratorName(name)}, filters...)
	decorators := t.Lang().Decorators
	return func(yield func(*Call) bool) {
		stack := []*sitter.Node{t.Root()}
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			for _, expr := range decorators(n) {
				for c := range Calls(t.Sub(expr), decorated...) {
					if !yield(c) {
						return
					}
				}
			}

			for i := int(n.NamedChildCount()) - 1; i >= 0; i-- {
				stack = append(stack, n.NamedChild(i))
			}
		}
	}
}
