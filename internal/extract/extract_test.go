package extract

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/phobologic/papyrus/internal/crawl"
	"github.com/phobologic/papyrus/internal/lang"
	"github.com/phobologic/papyrus/internal/logging"
	"github.com/phobologic/papyrus/internal/model"
	"github.com/phobologic/papyrus/internal/syntax"
)

func firstCall(t *testing.T, source string, filter crawl.Filter) *crawl.Call {
	t.Helper()
	tree, err := syntax.Parse(lang.Python(), []byte(source))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	t.Cleanup(tree.Close)
	for c := range crawl.Calls(tree, filter) {
		return c
	}
	t.Fatalf("no matching call in %q", source)
	return nil
}

func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}

func TestPattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		source      string
		wantName    string
		wantPattern string
	}{
		{"two args", `config.add_route("home", "/")`, "home", "/"},
		{"extra args ignored", `config.add_route("user", "/user/{id}", factory, "x")`, "user", "/user/{id}"},
		{"keywords ignored", `config.add_route("about", "about", request_method="GET")`, "about", "about"},
		{"pattern not normalized", `config.add_route("about", "about")`, "about", "about"},
		{"computed name", `config.add_route(prefix + "x", "/x")`, "<nil>", "/x"},
		{"computed pattern", `config.add_route("x", base)`, "x", "<nil>"},
		{"both computed", `config.add_route(name, pattern)`, "<nil>", "<nil>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			call := firstCall(t, tt.source, crawl.MethodCall("add_route"))
			fact := Pattern(logging.Discard(), call)
			if got := deref(fact.Name); got != tt.wantName {
				t.Errorf("name = %s, want %s", got, tt.wantName)
			}
			if got := deref(fact.Pattern); got != tt.wantPattern {
				t.Errorf("pattern = %s, want %s", got, tt.wantPattern)
			}
		})
	}
}

func TestPatternTooFewArgs(t *testing.T) {
	t.Parallel()

	for _, source := range []string{
		`config.add_route("user")`,
		`config.add_route()`,
		`config.add_route(name="user", pattern="/user")`,
	} {
		t.Run(source, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			log := logging.New(&buf, slog.LevelWarn)

			fact := Pattern(log, firstCall(t, source, crawl.MethodCall("add_route")))
			if fact != (model.PatternFact{}) {
				t.Errorf("expected empty fact, got name=%s pattern=%s", deref(fact.Name), deref(fact.Pattern))
			}
			if !strings.Contains(buf.String(), "extract.pattern.skip") {
				t.Errorf("expected warning, got %q", buf.String())
			}
		})
	}
}

func TestMethod(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		source     string
		wantName   string
		wantMethod string
	}{
		{"basic", `view_config(route_name="home", request_method="GET")`, "home", "GET"},
		{"reordered", `view_config(request_method="POST", route_name="home")`, "home", "POST"},
		{"extra keywords", `view_config(route_name="home", renderer="json", request_method="PUT")`, "home", "PUT"},
		{"positional ignored", `view_config(Home, route_name="home", request_method="GET")`, "home", "GET"},
		{"missing method", `view_config(route_name="home", renderer="json")`, "<nil>", "<nil>"},
		{"missing name", `view_config(renderer="json", request_method="GET")`, "<nil>", "<nil>"},
		{"computed method", `view_config(route_name="home", request_method=METHOD)`, "<nil>", "<nil>"},
		{"tuple method", `view_config(route_name="home", request_method=("GET", "POST"))`, "<nil>", "<nil>"},
		{"computed name", `view_config(route_name=name, request_method="GET")`, "<nil>", "<nil>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			call := firstCall(t, tt.source, crawl.DecoratorName("view_config"))
			fact := Method(logging.Discard(), call)
			if got := deref(fact.Name); got != tt.wantName {
				t.Errorf("name = %s, want %s", got, tt.wantName)
			}
			if got := deref(fact.Method); got != tt.wantMethod {
				t.Errorf("method = %s, want %s", got, tt.wantMethod)
			}
		})
	}
}

func TestMethodTooFewKeywords(t *testing.T) {
	t.Parallel()

	for _, source := range []string{
		`view_config(route_name="home")`,
		`view_config()`,
		`view_config("home", "GET")`,
	} {
		t.Run(source, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			log := logging.New(&buf, slog.LevelWarn)

			fact := Method(log, firstCall(t, source, crawl.DecoratorName("view_config")))
			if fact.Complete() || fact.Name != nil || fact.Method != nil {
				t.Errorf("expected empty fact, got name=%s method=%s", deref(fact.Name), deref(fact.Method))
			}
			if !strings.Contains(buf.String(), "extract.method.skip") {
				t.Errorf("expected warning, got %q", buf.String())
			}
		})
	}
}

func TestNilLoggerUsesDefault(t *testing.T) {
	t.Parallel()

	// Must not panic.
	fact := Pattern(nil, firstCall(t, `config.add_route("x")`, crawl.MethodCall("add_route")))
	if fact.Complete() {
		t.Error("expected incomplete fact")
	}
}
