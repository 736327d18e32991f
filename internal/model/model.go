// Package model defines core data structures for papyrus.
package model

// PatternFact is the route name and URL pattern read from one route
// registration call. A field is nil when the corresponding argument was
// missing or not a literal.
type PatternFact struct {
	Name    *string
	Pattern *string
}

// Complete reports whether both the name and the pattern were recovered.
func (f PatternFact) Complete() bool {
	return f.Name != nil && f.Pattern != nil
}

// MethodFact is the route name and HTTP method read from one view decorator.
// Both fields are nil when the decorator could not be understood.
type MethodFact struct {
	Name   *string
	Method *string
}

// Complete reports whether both the route name and the method were recovered.
func (f MethodFact) Complete() bool {
	return f.Name != nil && f.Method != nil
}

// Route is a reconciled route: a registered name, its URL pattern, and the
// HTTP methods views declare for it. Methods is sorted and free of
// duplicates; it may be empty. Routes are values and are never modified once
// built.
type Route struct {
	Name    string
	Pattern string
	Methods []string
}

