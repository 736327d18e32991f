// Package syntax parses source files into read-only tree-sitter trees.
package syntax

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/papyrus/internal/lang"
)

// ParseError reports source that is not syntactically valid.
// Line and Column are 1-based and point at the first error node.
type ParseError struct {
	Path   string
	Line   int
	Column int
}

func (e *ParseError) Error() string {
	path := e.Path
	if path == "" {
		path = "<source>"
	}
	return fmt.Sprintf("%s:%d:%d: invalid syntax", path, e.Line, e.Column)
}

// NotFoundError reports a source path that does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: no such file", e.Path)
}

func (e *NotFoundError) Unwrap() error {
	return fs.ErrNotExist
}

// Tree is a parsed source unit. A Tree is never modified after it is built;
// it may be the whole file or a sub-tree rooted at one of its nodes.
type Tree struct {
	lang   *lang.Language
	path   string
	source []byte
	tree   *sitter.Tree // nil for sub-trees
	root   *sitter.Node
}

// Parse parses source as l. An empty source yields an empty tree.
func Parse(l *lang.Language, source []byte) (*Tree, error) {
	return parse(l, "", source)
}

// ParseFile reads and parses the file at path, choosing the language from its
// extension.
func ParseFile(path string) (*Tree, error) {
	l := lang.ForExtension(filepath.Ext(path))
	if l == nil {
		return nil, fmt.Errorf("%s: unsupported file type", path)
	}
	source, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return parse(l, path, source)
}

func parse(l *lang.Language, path string, source []byte) (*Tree, error) {
	parser := l.NewParser()
	defer parser.Close()

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	root := tree.RootNode()
	if root.HasError() {
		pe := &ParseError{Path: path}
		if n := firstError(root); n != nil {
			pe.Line = int(n.StartPoint().Row) + 1
			pe.Column = int(n.StartPoint().Column) + 1
		}
		tree.Close()
		return nil, pe
	}

	return &Tree{lang: l, path: path, source: source, tree: tree, root: root}, nil
}

func firstError(n *sitter.Node) *sitter.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.HasError() || child.IsMissing() {
			if found := firstError(child); found != nil {
				return found
			}
		}
	}
	return n
}

// Sub returns a tree rooted at n, which must belong to t. The sub-tree shares
// t's source and must not outlive it.
func (t *Tree) Sub(n *sitter.Node) *Tree {
	return &Tree{lang: t.lang, path: t.path, source: t.source, root: n}
}

// Root returns the tree's root node.
func (t *Tree) Root() *sitter.Node { return t.root }

// Lang returns the language the tree was parsed as.
func (t *Tree) Lang() *lang.Language { return t.lang }

// Path returns the file the tree was read from, or "" for in-memory source.
func (t *Tree) Path() string { return t.path }

// Source returns the source text the tree was parsed from.
func (t *Tree) Source() []byte { return t.source }

// Text returns the source text of n.
func (t *Tree) Text(n *sitter.Node) string {
	return lang.NodeText(n, t.source)
}

// Close releases the parse tree. Closing a sub-tree is a no-op.
func (t *Tree) Close() {
	if t.tree != nil {
		t.tree.Close()
		t.tree = nil
	}
}
