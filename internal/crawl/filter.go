package crawl

import "github.com/phobologic/papyrus/internal/lang"

// Filter decides whether a call site is of interest. Filters never fail: a
// call of an unexpected shape simply does not match.
type Filter interface {
	Match(c *Call) bool
}

// FilterFunc adapts a function to a Filter.
type FilterFunc func(c *Call) bool

// Match calls f(c).
func (f FilterFunc) Match(c *Call) bool { return f(c) }

// MethodCall matches calls whose callee is an attribute access ending in name,
// as in config.add_route(...).
func MethodCall(name string) Filter {
	return FilterFunc(func(c *Call) bool {
		attr, ok := c.Callee.(lang.Attribute)
		return ok && attr.Name == name
	})
}

// DecoratorName matches calls whose callee is the bare identifier name, as in
// @view_config(...).
func DecoratorName(name string) Filter {
	return FilterFunc(func(c *Call) bool {
		id, ok := c.Callee.(lang.Identifier)
		return ok && id.Name == name
	})
}

// All matches when every filter matches. With no filters it matches
// everything.
func All(filters ...Filter) Filter {
	if len(filters) == 1 {
		return filters[0]
	}
	return FilterFunc(func(c *Call) bool {
		for _, f := range filters {
			if !f.Match(c) {
				return false
			}
		}
		return true
	})
}
