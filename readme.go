package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phobologic/papyrus/internal/model"
)

const (
	sentinelStart = "<!-- papyrus:start -->"
	sentinelEnd   = "<!-- papyrus:end -->"
)

// newReadmeCmd implements `papyrus readme`, which writes (or updates) a table
// of the application's routes in a markdown file.
func newReadmeCmd(a *app) *cobra.Command {
	var (
		dryRun bool
		file   string
	)

	cmd := &cobra.Command{
		Use:   "readme [flags] [base-dir]",
		Short: "Write a route table into a markdown file",
		Long: `Write a table of the application's routes to a markdown file. The table is
wrapped in sentinel comments so it can be updated in place on later runs
without touching surrounding content. Creates the file if it does not exist.

--file defaults to README.md in base-dir.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := resolveRoot(args)
			if err != nil {
				return err
			}
			cfg, log, err := a.load(cmd, root)
			if err != nil {
				return err
			}
			rs, err := routes(cfg, log, root)
			if err != nil {
				return err
			}

			section := generateSection(rs)

			// --dry-run with no file: just print the section itself.
			if dryRun && !cmd.Flags().Changed("file") {
				_, _ = fmt.Fprintln(a.stdout, section)
				return nil
			}

			path := file
			if path == "" {
				path = filepath.Join(root, "README.md")
			}

			existing, _ := os.ReadFile(path)
			updated := applySection(string(existing), section)

			if dryRun {
				_, _ = fmt.Fprint(a.stdout, updated)
				return nil
			}

			if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
			_, _ = fmt.Fprintf(a.stderr, "wrote %d routes to %s\n", len(rs), path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print what would be written without modifying the file")
	cmd.Flags().StringVar(&file, "file", "", "markdown file to update")
	return cmd
}

// generateSection returns the sentinel-wrapped route table.
func generateSection(rs []model.Route) string {
	var b strings.Builder
	b.WriteString(sentinelStart + "\n")
	b.WriteString("## API Routes\n\n")
	if len(rs) == 0 {
		b.WriteString("No routes found.\n")
	} else {
		b.WriteString("| Route | Pattern | Methods |\n")
		b.WriteString("| --- | --- | --- |\n")
		for _, r := range rs {
			methods := strings.Join(r.Methods, ", ")
			if methods == "" {
				methods = "-"
			}
			fmt.Fprintf(&b, "| %s | `%s` | %s |\n", cell(r.Name), cell(r.Pattern), methods)
		}
	}
	b.WriteString(sentinelEnd)
	return b.String()
}

func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// applySection inserts section into content, replacing an existing sentinel
// block if present or appending if not.
func applySection(content, section string) string {
	start := strings.Index(content, sentinelStart)
	end := strings.Index(content, sentinelEnd)

	if start >= 0 && end > start {
		return content[:start] + section + content[end+len(sentinelEnd):]
	}

	// Append, ensuring a blank line separator.
	if len(content) > 0 && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if len(content) == 0 {
		return section + "\n"
	}
	return content + "\n" + section + "\n"
}
