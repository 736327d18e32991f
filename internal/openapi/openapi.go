// Package openapi renders reconciled routes as an OpenAPI 3.0 document.
package openapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"sigs.k8s.io/yaml"

	"github.com/phobologic/papyrus/internal/model"
	"github.com/phobologic/papyrus/internal/pyramid"
)

// Version is the OpenAPI version of generated documents.
const Version = "3.0.3"

// Info is the document's info object.
type Info struct {
	Title   string
	Version string
}

// methods are the operations an OpenAPI 3.0 path item can hold.
var methods = []string{
	http.MethodGet,
	http.MethodPut,
	http.MethodPost,
	http.MethodDelete,
	http.MethodOptions,
	http.MethodHead,
	http.MethodPatch,
	http.MethodTrace,
}

var responses = []struct {
	code        string
	description string
}{
	{"200", "OK"},
	{"401", "Unauthorized"},
	{"404", "Not Found"},
}

// Build creates a document with one path per route pattern and one operation
// per route method. Routes sharing a pattern share a path item. A method that
// has no OpenAPI operation is skipped with a warning.
func Build(log *slog.Logger, routes []model.Route, info Info) (*openapi3.T, error) {
	if log == nil {
		log = slog.Default()
	}
	doc := &openapi3.T{
		OpenAPI: Version,
		Info:    &openapi3.Info{Title: info.Title, Version: info.Version},
		Paths:   openapi3.NewPaths(),
	}

	for _, route := range routes {
		placeholders, err := pyramid.Placeholders(route.Pattern)
		if err != nil {
			return nil, fmt.Errorf("route %s: %w", route.Name, err)
		}

		path := Path(route.Pattern, placeholders)
		item := doc.Paths.Value(path)
		if item == nil {
			item = &openapi3.PathItem{Summary: route.Name, Description: route.Name}
			doc.Paths.Set(path, item)
		}

		for _, m := range route.Methods {
			method := strings.ToUpper(m)
			if !slices.Contains(methods, method) {
				log.Warn("openapi.method.skip", "route", route.Name, "method", m)
				continue
			}
			item.SetOperation(method, operation(route.Name, method, placeholders))
		}
	}
	return doc, nil
}

// Path rewrites a route pattern as an OpenAPI path template, dropping the
// regex part of {name:regex} placeholders.
func Path(pattern string, placeholders []pyramid.Placeholder) string {
	var b strings.Builder
	last := 0
	for _, ph := range placeholders {
		b.WriteString(pattern[last:ph.Start])
		b.WriteString("{" + ph.Name + "}")
		last = ph.End
	}
	b.WriteString(pattern[last:])
	return b.String()
}

func operation(route, method string, placeholders []pyramid.Placeholder) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.Summary = method + " " + route
	op.Description = op.Summary
	for _, ph := range placeholders {
		op.AddParameter(openapi3.NewPathParameter(ph.Name).WithSchema(openapi3.NewStringSchema()))
	}
	op.Responses = openapi3.NewResponsesWithCapacity(len(responses))
	for _, r := range responses {
		op.Responses.Set(r.code, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription(r.description),
		})
	}
	return op
}

// YAML encodes doc as YAML with sorted keys.
func YAML(doc *openapi3.T) ([]byte, error) {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding yaml: %w", err)
	}
	return data, nil
}

// JSON encodes doc as indented JSON.
func JSON(doc *openapi3.T) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding json: %w", err)
	}
	return append(data, '\n'), nil
}

// Validate loads an encoded document, YAML or JSON, and checks it against
// the OpenAPI 3 rules.
func Validate(ctx context.Context, data []byte) error {
	doc, err := openapi3.NewLoader().LoadFromData(data)
	if err != nil {
		return fmt.Errorf("loading document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return fmt.Errorf("invalid document: %w", err)
	}
	return nil
}
