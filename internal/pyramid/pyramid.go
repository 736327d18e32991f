// Package pyramid recovers the routing table of a Pyramid application from its
// source: route patterns from the routes file, HTTP methods from view
// decorators, joined by route name.
package pyramid

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/phobologic/papyrus/internal/crawl"
	"github.com/phobologic/papyrus/internal/discover"
	"github.com/phobologic/papyrus/internal/extract"
	"github.com/phobologic/papyrus/internal/lang"
	"github.com/phobologic/papyrus/internal/logging"
	"github.com/phobologic/papyrus/internal/model"
	"github.com/phobologic/papyrus/internal/syntax"
)

const (
	// AddRoute is the configurator method that registers a route.
	AddRoute = "add_route"
	// ViewConfig is the decorator that attaches a view to a route.
	ViewConfig = "view_config"
)

// Info names the routes file and the views directory of an application.
type Info struct {
	RoutesFile string
	ViewsDir   string
}

// Locator is the file lookup a Reconciler depends on. It must be safe to
// call from several reconciliations at once.
type Locator interface {
	FindFile(root, name string) (string, bool)
	FindDir(root, name string) (string, bool)
	FindAll(root, suffix string) ([]string, error)
}

// Reconciler builds route models. The zero value uses discover.Finder and the
// default logger. A Reconciler keeps no state between calls.
type Reconciler struct {
	Locator Locator
	Log     *slog.Logger
}

func (r *Reconciler) locator() Locator {
	if r.Locator == nil {
		return discover.Finder{}
	}
	return r.Locator
}

func (r *Reconciler) log() *slog.Logger {
	if r.Log == nil {
		return slog.Default()
	}
	return r.Log
}

// RoutesPath finds the routes file called name under baseDir.
func (r *Reconciler) RoutesPath(baseDir, name string) (path string, err error) {
	done := logging.Timed(r.log(), "pyramid.routes_path")
	defer func() { done(err) }()

	path, ok := r.locator().FindFile(baseDir, name)
	if !ok {
		return "", &RoutesFileNotFoundError{FileName: name, BaseDir: baseDir}
	}
	return path, nil
}

// ViewsPath finds the views directory called name under baseDir.
func (r *Reconciler) ViewsPath(baseDir, name string) (path string, err error) {
	done := logging.Timed(r.log(), "pyramid.views_path")
	defer func() { done(err) }()

	path, ok := r.locator().FindDir(baseDir, name)
	if !ok {
		return "", &ViewsDirNotFoundError{DirName: name, BaseDir: baseDir}
	}
	return path, nil
}

// Patterns maps route names to URL patterns in registration order.
type Patterns struct {
	names    []string
	patterns map[string]string
}

// Set records pattern for name. A later registration replaces the pattern
// but keeps the position of the first.
func (p *Patterns) Set(name, pattern string) {
	if p.patterns == nil {
		p.patterns = make(map[string]string)
	}
	if _, ok := p.patterns[name]; !ok {
		p.names = append(p.names, name)
	}
	p.patterns[name] = pattern
}

// Get returns the pattern registered for name.
func (p *Patterns) Get(name string) (string, bool) {
	pattern, ok := p.patterns[name]
	return pattern, ok
}

// Names returns the route names in registration order.
func (p *Patterns) Names() []string {
	return slices.Clone(p.names)
}

// Len returns the number of routes.
func (p *Patterns) Len() int { return len(p.names) }

// Methods maps route names to the set of HTTP methods views declare.
type Methods map[string]map[string]struct{}

// Add adds method to name's set. Methods are stored upper-cased, so "post"
// and "POST" are the same entry.
func (m Methods) Add(name, method string) {
	method = strings.ToUpper(method)
	set, ok := m[name]
	if !ok {
		set = make(map[string]struct{})
		m[name] = set
	}
	set[method] = struct{}{}
}

// Sorted returns name's methods in lexical order.
func (m Methods) Sorted(name string) []string {
	methods := make([]string, 0, len(m[name]))
	for method := range m[name] {
		methods = append(methods, method)
	}
	slices.Sort(methods)
	return methods
}

// Patterns parses the routes file at path and collects every add_route call
// with a literal name and pattern. Patterns are normalized to start with "/".
func (r *Reconciler) Patterns(path string) (*Patterns, error) {
	tree, err := syntax.ParseFile(path)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	log := r.log()
	patterns := &Patterns{}
	for call := range crawl.Calls(tree, crawl.MethodCall(AddRoute)) {
		fact := extract.Pattern(log, call)
		if !fact.Complete() {
			continue
		}
		patterns.Set(*fact.Name, NormalizePattern(*fact.Pattern))
	}
	log.Debug("pyramid.patterns", "file", path, "routes", patterns.Len())
	return patterns, nil
}

// Methods parses every Python file under dir and collects the methods of each
// view_config decorator. A file that fails to parse aborts the scan.
func (r *Reconciler) Methods(dir string) (Methods, error) {
	files, err := r.locator().FindAll(dir, lang.Python().Extensions[0])
	if err != nil {
		return nil, fmt.Errorf("listing views in %s: %w", dir, err)
	}

	log := r.log()
	methods := Methods{}
	for _, path := range files {
		if err := r.fileMethods(path, methods); err != nil {
			return nil, err
		}
	}
	log.Debug("pyramid.methods", "dir", dir, "files", len(files), "routes", len(methods))
	return methods, nil
}

func (r *Reconciler) fileMethods(path string, methods Methods) error {
	tree, err := syntax.ParseFile(path)
	if err != nil {
		return err
	}
	defer tree.Close()

	for call := range crawl.DecoratorCalls(tree, ViewConfig) {
		fact := extract.Method(r.log(), call)
		if fact.Complete() {
			methods.Add(*fact.Name, *fact.Method)
		}
	}
	return nil
}

// Join builds one Route per registered route name, in registration order.
// Method entries for names that were never registered are dropped.
func Join(patterns *Patterns, methods Methods) []model.Route {
	routes := make([]model.Route, 0, patterns.Len())
	for _, name := range patterns.Names() {
		pattern, _ := patterns.Get(name)
		routes = append(routes, model.Route{
			Name:    name,
			Pattern: pattern,
			Methods: methods.Sorted(name),
		})
	}
	return routes
}

// Reconcile locates the routes file and views directory named by info under
// baseDir and returns the application's routes.
func (r *Reconciler) Reconcile(baseDir string, info Info) (routes []model.Route, err error) {
	done := logging.Timed(r.log(), "pyramid.reconcile")
	defer func() { done(err) }()

	routesPath, err := r.RoutesPath(baseDir, info.RoutesFile)
	if err != nil {
		return nil, err
	}
	patterns, err := r.Patterns(routesPath)
	if err != nil {
		return nil, err
	}

	viewsPath, err := r.ViewsPath(baseDir, info.ViewsDir)
	if err != nil {
		return nil, err
	}
	methods, err := r.Methods(viewsPath)
	if err != nil {
		return nil, err
	}

	return Join(patterns, methods), nil
}

// WithMethods returns the routes that have at least one method.
func WithMethods(routes []model.Route) []model.Route {
	var kept []model.Route
	for _, route := range routes {
		if len(route.Methods) > 0 {
			kept = append(kept, route)
		}
	}
	return kept
}
