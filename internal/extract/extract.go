// Package extract reads route facts out of matched call sites. Extraction is
// tolerant: a call of the wrong shape yields an empty fact and a warning,
// never an error.
package extract

import (
	"log/slog"

	"github.com/phobologic/papyrus/internal/crawl"
	"github.com/phobologic/papyrus/internal/model"
)

const (
	// RouteNameKeyword and RequestMethodKeyword are the view decorator
	// keywords that carry the route name and the HTTP method.
	RouteNameKeyword     = "route_name"
	RequestMethodKeyword = "request_method"
)

// Pattern reads the route name and pattern from a route registration call
// such as config.add_route("user", "/user/{id}"). The first two positional
// arguments are used and any further ones ignored. A non-literal argument
// leaves its field nil. The pattern is returned as written.
func Pattern(log *slog.Logger, c *crawl.Call) model.PatternFact {
	if len(c.Args) < 2 {
		logger(log).Warn("extract.pattern.skip",
			"file", c.Tree.Path(), "line", c.Line(), "args", len(c.Args),
			"reason", "expected at least 2 positional arguments")
		return model.PatternFact{}
	}

	var fact model.PatternFact
	if name, ok := c.Literal(c.Args[0]); ok {
		fact.Name = &name
	}
	if pattern, ok := c.Literal(c.Args[1]); ok {
		fact.Pattern = &pattern
	}
	return fact
}

// Method reads the route name and HTTP method from a view decorator such as
// @view_config(route_name="user", request_method="GET"). Keyword order does
// not matter and unrelated keywords are ignored. The fact is empty unless both
// keywords are present with literal values.
func Method(log *slog.Logger, c *crawl.Call) model.MethodFact {
	if len(c.Keywords) < 2 {
		logger(log).Warn("extract.method.skip",
			"file", c.Tree.Path(), "line", c.Line(), "keywords", len(c.Keywords),
			"reason", "expected at least 2 keyword arguments")
		return model.MethodFact{}
	}

	name, ok := keywordLiteral(c, RouteNameKeyword)
	if !ok {
		return model.MethodFact{}
	}
	method, ok := keywordLiteral(c, RequestMethodKeyword)
	if !ok {
		return model.MethodFact{}
	}
	return model.MethodFact{Name: &name, Method: &method}
}

func keywordLiteral(c *crawl.Call, keyword string) (string, bool) {
	n, ok := c.Keyword(keyword)
	if !ok {
		return "", false
	}
	return c.Literal(n)
}

func logger(log *slog.Logger) *slog.Logger {
	if log == nil {
		return slog.Default()
	}
	return log
}
