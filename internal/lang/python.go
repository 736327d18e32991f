package lang

import (
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

func init() {
	Languages["python"] = &Language{
		Name:       "python",
		Extensions: []string{".py"},
		lang:       python.GetLanguage(),
		IsCall:     func(node *sitter.Node) bool { return node.Type() == "call" },
		CalleeOf:   pythonCallee,
		Arguments:  pythonArguments,
		Decorators: pythonDecorators,
		Literal:    pythonLiteral,
	}
}

// Python returns the registered Python language.
func Python() *Language {
	return Languages["python"]
}

func pythonCallee(call *sitter.Node, source []byte) Callee {
	fn := call.ChildByFieldName("function")
	if fn == nil {
		return nil
	}
	switch fn.Type() {
	case "identifier":
		return Identifier{Name: NodeText(fn, source)}
	case "attribute":
		obj := fn.ChildByFieldName("object")
		attr := fn.ChildByFieldName("attribute")
		if obj == nil || attr == nil {
			return nil
		}
		return Attribute{Base: NodeText(obj, source), Name: NodeText(attr, source)}
	}
	return nil
}

func pythonArguments(call *sitter.Node, source []byte) ([]*sitter.Node, []Keyword) {
	args := call.ChildByFieldName("arguments")
	if args == nil {
		return nil, nil
	}
	// f(x for x in xs)
	if args.Type() == "generator_expression" {
		return []*sitter.Node{args}, nil
	}

	var positional []*sitter.Node
	var keywords []Keyword
	for i := 0; i < int(args.NamedChildCount()); i++ {
		child := args.NamedChild(i)
		switch child.Type() {
		case "comment":
		case "keyword_argument":
			name := child.ChildByFieldName("name")
			value := child.ChildByFieldName("value")
			if name == nil || value == nil {
				continue
			}
			keywords = append(keywords, Keyword{Name: NodeText(name, source), Value: value})
		case "dictionary_splat":
			keywords = append(keywords, Keyword{Value: child})
		default:
			positional = append(positional, child)
		}
	}
	return positional, keywords
}

func pythonDecorators(node *sitter.Node) []*sitter.Node {
	if node.Type() != "decorated_definition" {
		return nil
	}
	var exprs []*sitter.Node
	for i := 0; i < int(node.NamedChildCount()); i++ {
		dec := node.NamedChild(i)
		if dec.Type() != "decorator" {
			continue
		}
		for j := 0; j < int(dec.NamedChildCount()); j++ {
			if expr := dec.NamedChild(j); expr.Type() != "comment" {
				exprs = append(exprs, expr)
				break
			}
		}
	}
	return exprs
}

func pythonLiteral(node *sitter.Node, source []byte) (string, bool) {
	switch node.Type() {
	case "string":
		return pythonString(NodeText(node, source))
	case "concatenated_string":
		var b strings.Builder
		for i := 0; i < int(node.NamedChildCount()); i++ {
			part := node.NamedChild(i)
			if part.Type() == "comment" {
				continue
			}
			if part.Type() != "string" {
				return "", false
			}
			s, ok := pythonString(NodeText(part, source))
			if !ok {
				return "", false
			}
			b.WriteString(s)
		}
		return b.String(), true
	case "integer", "float":
		return NodeText(node, source), true
	}
	return "", false
}

// pythonString decodes the text of a string literal, including its prefix
// and quotes. Formatted strings are not literals.
func pythonString(text string) (string, bool) {
	i := strings.IndexAny(text, `'"`)
	if i < 0 {
		return "", false
	}
	prefix := strings.ToLower(text[:i])
	if strings.ContainsAny(prefix, "ft") {
		return "", false
	}

	body := text[i:]
	quote := body[:1]
	if triple := strings.Repeat(quote, 3); len(body) >= 6 && strings.HasPrefix(body, triple) {
		quote = triple
	}
	if len(body) < 2*len(quote) || !strings.HasSuffix(body, quote) {
		return "", false
	}
	body = body[len(quote) : len(body)-len(quote)]

	if strings.Contains(prefix, "r") {
		return body, true
	}
	return unescapePython(body), true
}

var simpleEscapes = map[byte]string{
	'\\': `\`,
	'\'': `'`,
	'"':  `"`,
	'n':  "\n",
	't':  "\t",
	'r':  "\r",
	'a':  "\a",
	'b':  "\b",
	'f':  "\f",
	'v':  "\v",
	'\n': "",
}

func unescapePython(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		c = s[i]

		if repl, ok := simpleEscapes[c]; ok {
			b.WriteString(repl)
			continue
		}

		width := 0
		switch c {
		case 'x':
			width = 2
		case 'u':
			width = 4
		case 'U':
			width = 8
		}
		if width > 0 && i+1+width <= len(s) {
			if v, err := strconv.ParseUint(s[i+1:i+1+width], 16, 32); err == nil {
				b.WriteRune(rune(v))
				i += width
				continue
			}
		}

		if c >= '0' && c <= '7' {
			j := i
			for j < len(s) && j < i+3 && s[j] >= '0' && s[j] <= '7' {
				j++
			}
			v, _ := strconv.ParseUint(s[i:j], 8, 32)
			b.WriteRune(rune(v))
			i = j - 1
			continue
		}

		// Unknown escapes keep their backslash.
		b.WriteByte('\\')
		b.WriteByte(c)
	}
	return b.String()
}
