// Package lang provides a language registry mapping file extensions to
// tree-sitter grammars and the syntax helpers the crawler needs for each.
package lang

import (
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
)

// Callee is the shape of the expression being called at a call site.
// It is either an Attribute or an Identifier; any other callee shape
// (subscripts, calls returning callables, lambdas) is represented by nil.
type Callee interface {
	callee()
}

// Attribute is an attribute-access callee such as config.add_route.
type Attribute struct {
	Base string // source text of the object expression
	Name string
}

// Identifier is a bare-name callee such as view_config.
type Identifier struct {
	Name string
}

func (Attribute) callee()  {}
func (Identifier) callee() {}

// Keyword is a keyword argument at a call site. Name is empty for
// dictionary splats (**kwargs).
type Keyword struct {
	Name  string
	Value *sitter.Node
}

// Language holds tree-sitter configuration for a supported language.
type Language struct {
	Name       string
	Extensions []string
	lang       *sitter.Language

	// IsCall reports whether node is a call expression.
	IsCall func(node *sitter.Node) bool

	// CalleeOf returns the callee shape of a call node, or nil.
	CalleeOf func(call *sitter.Node, source []byte) Callee

	// Arguments splits a call's arguments into positional and keyword
	// arguments, in source order.
	Arguments func(call *sitter.Node, source []byte) ([]*sitter.Node, []Keyword)

	// Decorators returns the decorator expressions attached to node in
	// top-to-bottom order, or nil if node is not a decorated definition.
	Decorators func(node *sitter.Node) []*sitter.Node

	// Literal returns the value of a string or number literal node. It
	// reports false for every other node kind.
	Literal func(node *sitter.Node, source []byte) (string, bool)
}

// NewParser creates a fresh tree-sitter parser for this language.
// Parsers are not safe for concurrent use.
func (l *Language) NewParser() *sitter.Parser {
	p := sitter.NewParser()
	p.SetLanguage(l.lang)
	return p
}

// Languages maps language names to their configuration.
// Populated by init() functions in per-language files.
var Languages = map[string]*Language{}

// extensionMap is built lazily after all init() functions have run.
var extensionMap map[string]string
var extensionOnce sync.Once

func getExtensionMap() map[string]string {
	extensionOnce.Do(func() {
		extensionMap = make(map[string]string)
		for _, l := range Languages {
			for _, ext := range l.Extensions {
				extensionMap[ext] = l.Name
			}
		}
	})
	return extensionMap
}

// ForExtension returns the language for a file extension, or nil if
// unsupported.
func ForExtension(ext string) *Language {
	name, ok := getExtensionMap()[ext]
	if !ok {
		return nil
	}
	return Languages[name]
}

// NodeText returns the source text of a tree-sitter node.
func NodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}
