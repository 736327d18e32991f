// Package discover locates files and directories in a project tree.
package discover

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	ignore "github.com/sabhiram/go-gitignore"
)

var skipDirs = map[string]struct{}{
	"__pycache__":   {},
	"node_modules":  {},
	".git":          {},
	".hg":           {},
	".svn":          {},
	"venv":          {},
	".venv":         {},
	"env":           {},
	".env":          {},
	"build":         {},
	"dist":          {},
	".tox":          {},
	".mypy_cache":   {},
	".ruff_cache":   {},
	".pytest_cache": {},
	"egg-info":      {},
}

// Finder looks up files by name or suffix. The zero value is ready to use and
// a Finder holds no state between calls.
type Finder struct {
	// Gitignore makes FindAll skip files that git would ignore under root.
	Gitignore bool
}

// walkSkipDirs are the directories FindAll never enters: version control
// metadata and bytecode caches. Anything else under the root is searched.
var walkSkipDirs = map[string]struct{}{
	".git":        {},
	".hg":         {},
	".svn":        {},
	"__pycache__": {},
}

func skipDir(name string) bool {
	_, skip := skipDirs[name]
	return skip || strings.HasPrefix(name, ".")
}

// FindFile returns the first regular file called name under root. Each
// directory is checked for a direct child before its sub-directories are
// searched in lexical order.
func (Finder) FindFile(root, name string) (string, bool) {
	return find(root, name, func(fi os.FileInfo) bool { return fi.Mode().IsRegular() })
}

// FindDir returns the first directory called name under root, searched in
// the same order as FindFile.
func (Finder) FindDir(root, name string) (string, bool) {
	return find(root, name, func(fi os.FileInfo) bool { return fi.IsDir() })
}

func find(dir, name string, want func(os.FileInfo) bool) (string, bool) {
	candidate := filepath.Join(dir, name)
	if fi, err := os.Stat(candidate); err == nil && want(fi) {
		return candidate, true
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false // skip unreadable directories
	}
	for _, e := range entries {
		if !e.IsDir() || skipDir(e.Name()) {
			continue
		}
		if found, ok := find(filepath.Join(dir, e.Name()), name, want); ok {
			return found, true
		}
	}
	return "", false
}

// FindAll returns every file under root whose extension is suffix (".py"),
// as paths joined onto root and sorted. Unlike FindFile and FindDir it only
// skips version control and cache directories, so packages named build or
// env are still searched.
func (f Finder) FindAll(root, suffix string) ([]string, error) {
	var gitFiles map[string]struct{}
	var gi *ignore.GitIgnore
	if f.Gitignore {
		gitFiles = gitLsFiles(root)
		if gitFiles == nil {
			gi = loadGitignore(root)
		}
	}

	var results []string

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil // skip errors below root
		}

		name := d.Name()

		if d.IsDir() {
			if path == root {
				return nil
			}
			if _, skip := walkSkipDirs[name]; skip {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}

		// Skip symlinks
		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}

		if filepath.Ext(name) != suffix {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}

		if gitFiles != nil {
			if _, ok := gitFiles[filepath.ToSlash(rel)]; !ok {
				return nil
			}
		} else if gi != nil && gi.MatchesPath(rel) {
			return nil
		}

		results = append(results, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(results)
	return results, nil
}

func gitLsFiles(root string) map[string]struct{} {
	gitDir := filepath.Join(root, ".git")
	info, err := os.Stat(gitDir)
	if err != nil || !info.IsDir() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "ls-files", "--cached", "--others", "--exclude-standard")
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		return nil
	}

	files := make(map[string]struct{})
	for _, line := range strings.Split(strings.TrimRight(string(out), "\n"), "\n") {
		if line != "" {
			files[line] = struct{}{}
		}
	}
	return files
}

func loadGitignore(root string) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return gi
}
