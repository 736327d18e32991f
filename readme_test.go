package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phobologic/papyrus/internal/model"
)

// TestApplySectionCreate verifies that applySection on empty content returns
// the section with a trailing newline.
func TestApplySectionCreate(t *testing.T) {
	t.Parallel()
	section := sentinelStart + "\nbody\n" + sentinelEnd
	got := applySection("", section)
	if got != section+"\n" {
		t.Errorf("applySection(\"\") = %q", got)
	}
}

// TestApplySectionAppend verifies that existing content without a sentinel block
// is preserved and the section is appended after a blank line.
func TestApplySectionAppend(t *testing.T) {
	t.Parallel()
	section := sentinelStart + "\nnew content\n" + sentinelEnd

	for _, existing := range []string{"# My Project\n\nSome existing content.\n", "# No trailing newline"} {
		got := applySection(existing, section)
		if !strings.HasPrefix(got, existing) {
			t.Errorf("existing content should be preserved at start:\n%s", got)
		}
		if !strings.HasSuffix(got, "\n\n"+section+"\n") {
			t.Errorf("section should follow a blank line:\n%s", got)
		}
	}
}

// TestApplySectionUpdate verifies that an existing sentinel block is replaced
// precisely, leaving surrounding content intact.
func TestApplySectionUpdate(t *testing.T) {
	t.Parallel()
	before := "# Project\n\n"
	after := "\n\n## Other Section\n"
	old := before + sentinelStart + "\nold content\n" + sentinelEnd + after

	section := sentinelStart + "\nnew content\n" + sentinelEnd
	got := applySection(old, section)

	if got != before+section+after {
		t.Errorf("applySection = %q", got)
	}
}

func TestGenerateSection(t *testing.T) {
	t.Parallel()

	got := generateSection([]model.Route{
		{Name: "home", Pattern: "/", Methods: []string{"GET"}},
		{Name: "user", Pattern: "/user/{id}", Methods: []string{"GET", "PUT"}},
		{Name: "odd|name", Pattern: "/static"},
	})

	want := sentinelStart + `
## API Routes

| Route | Pattern | Methods |
| --- | --- | --- |
| home | ` + "`/`" + ` | GET |
| user | ` + "`/user/{id}`" + ` | GET, PUT |
| odd\|name | ` + "`/static`" + ` | - |
` + sentinelEnd
	if got != want {
		t.Errorf("generateSection:\n%s\nwant:\n%s", got, want)
	}
}

func TestGenerateSectionEmpty(t *testing.T) {
	t.Parallel()

	got := generateSection(nil)
	if !strings.Contains(got, "No routes found.") {
		t.Errorf("generateSection(nil) = %q", got)
	}
}

// TestReadmeWritesFile verifies that readme creates README.md in the base
// directory and updates it in place on a second run.
func TestReadmeWritesFile(t *testing.T) {
	t.Parallel()
	dir := createSampleApp(t)
	path := filepath.Join(dir, "README.md")
	writeTestFile(t, dir, "README.md", "# Shop\n")

	var stdout, stderr bytes.Buffer
	if err := run([]string{"readme", dir}, &stdout, &stderr); err != nil {
		t.Fatalf("readme: %v\nstderr: %s", err, stderr.String())
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(first)
	if !strings.HasPrefix(content, "# Shop\n") {
		t.Errorf("existing content lost:\n%s", content)
	}
	if !strings.Contains(content, "| user | `/user/{id}` | DELETE, GET, POST, PUT |") {
		t.Errorf("route table missing:\n%s", content)
	}
	if !strings.Contains(stderr.String(), "wrote 3 routes to "+path) {
		t.Errorf("stderr = %q", stderr.String())
	}

	if err := run([]string{"readme", dir}, &stdout, &stderr); err != nil {
		t.Fatalf("second readme: %v", err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(second) != content {
		t.Errorf("second run changed the file:\n%s", second)
	}
}

// TestReadmeDryRun verifies that --dry-run without --file prints just the
// section and writes nothing.
func TestReadmeDryRun(t *testing.T) {
	t.Parallel()
	dir := createSampleApp(t)

	var stdout, stderr bytes.Buffer
	if err := run([]string{"readme", "--dry-run", dir}, &stdout, &stderr); err != nil {
		t.Fatalf("readme: %v", err)
	}
	if !strings.HasPrefix(stdout.String(), sentinelStart) {
		t.Errorf("dry-run output:\n%s", stdout.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "README.md")); err == nil {
		t.Error("--dry-run should not create README.md")
	}
}

// TestReadmeDryRunWithFile verifies that --dry-run with --file prints the
// whole would-be file.
func TestReadmeDryRunWithFile(t *testing.T) {
	t.Parallel()
	dir := createSampleApp(t)
	path := filepath.Join(t.TempDir(), "ROUTES.md")
	if err := os.WriteFile(path, []byte("# Routes\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	if err := run([]string{"readme", "--dry-run", "--file", path, dir}, &stdout, &stderr); err != nil {
		t.Fatalf("readme: %v", err)
	}
	if !strings.HasPrefix(stdout.String(), "# Routes\n\n"+sentinelStart) {
		t.Errorf("dry-run output:\n%s", stdout.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "# Routes\n" {
		t.Errorf("--dry-run modified the file:\n%s", data)
	}
}

func TestReadmeMissingRoutes(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	err := run([]string{"readme", t.TempDir()}, &stdout, &stderr)
	if err == nil || !strings.Contains(err.Error(), "file routes.py not found") {
		t.Errorf("error = %v", err)
	}
}
