// papyrus generates an OpenAPI document from a Pyramid application's routes
// and views without running it.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/phobologic/papyrus/internal/config"
	"github.com/phobologic/papyrus/internal/discover"
	"github.com/phobologic/papyrus/internal/logging"
	"github.com/phobologic/papyrus/internal/model"
	"github.com/phobologic/papyrus/internal/openapi"
	"github.com/phobologic/papyrus/internal/pyramid"
	"github.com/phobologic/papyrus/internal/toon"
)

var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

// app carries what every subcommand shares for one invocation.
type app struct {
	stdout     io.Writer
	stderr     io.Writer
	v          *viper.Viper
	configPath string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr, v: config.New()}
	d := config.Default()

	cmd := &cobra.Command{
		Use:   "papyrus [flags] [base-dir]",
		Short: "Generate an OpenAPI document from a Pyramid application",
		Long: `papyrus reads a Pyramid application's routes file and views directory,
recovers every route registered with config.add_route and the HTTP methods
its @view_config decorators declare, and prints an OpenAPI 3.0 document.

base-dir defaults to the current directory.`,
		Args:          cobra.MaximumNArgs(1),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          a.runGenerate,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate("papyrus {{.Version}}\n")

	pf := cmd.PersistentFlags()
	pf.StringP("routes-file", "r", d.RoutesFile, "routes file to parse (env PAPYRUS_ROUTES_FILE_NAME)")
	pf.String("views-dir", d.ViewsDir, "views directory to parse (env PAPYRUS_VIEWS_DIR)")
	pf.BoolP("verbose", "v", false, "set log level to DEBUG")
	pf.StringP("log-level", "l", d.LogLevel, "log level: DEBUG, INFO, WARNING or ERROR (env PAPYRUS_LOG_LEVEL)")
	pf.Bool("gitignore", d.Gitignore, "skip view files ignored by git")
	pf.Bool("all-routes", d.AllRoutes, "keep routes that no view declares a method for")
	pf.StringVar(&a.configPath, "config", "", "config file (default papyrus.yaml in base-dir)")

	f := cmd.Flags()
	f.StringP("format", "f", string(d.Format), "output format: yaml, json or toon")
	f.StringP("output", "o", "", "write output to this file instead of stdout")
	f.Bool("validate", d.Validate, "validate the generated document")
	f.String("title", d.Title, "document title")
	f.String("api-version", d.APIVersion, "document version")
	f.BoolP("version", "V", false, "show version and exit")

	cmd.AddCommand(newInitCmd(a), newReadmeCmd(a))
	return cmd
}

// load binds cmd's flags over the environment and config file and builds the
// logger the configuration asks for.
func (a *app) load(cmd *cobra.Command, baseDir string) (*config.Config, *slog.Logger, error) {
	for _, key := range config.Keys() {
		if fl := cmd.Flags().Lookup(strings.ReplaceAll(key, "_", "-")); fl != nil {
			if err := a.v.BindPFlag(key, fl); err != nil {
				return nil, nil, fmt.Errorf("binding flag %s: %w", fl.Name, err)
			}
		}
	}

	cfg, err := config.Load(a.v, a.configPath, baseDir)
	if err != nil {
		return nil, nil, err
	}

	level := slog.LevelDebug
	if !cfg.Verbose {
		if level, err = logging.ParseLevel(cfg.LogLevel); err != nil {
			return nil, nil, err
		}
	}
	return cfg, logging.New(a.stderr, level), nil
}

func resolveRoot(args []string) (string, error) {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	root, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving root: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return "", fmt.Errorf("root path: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s: not a directory", root)
	}
	return root, nil
}

// routes reconciles the application under root and drops routes without
// methods unless the configuration keeps them.
func routes(cfg *config.Config, log *slog.Logger, root string) ([]model.Route, error) {
	r := &pyramid.Reconciler{
		Locator: discover.Finder{Gitignore: cfg.Gitignore},
		Log:     log,
	}
	all, err := r.Reconcile(root, pyramid.Info{RoutesFile: cfg.RoutesFile, ViewsDir: cfg.ViewsDir})
	if err != nil {
		return nil, err
	}
	if cfg.AllRoutes {
		return all, nil
	}
	kept := pyramid.WithMethods(all)
	if dropped := len(all) - len(kept); dropped > 0 {
		log.Info("papyrus.routes.without_methods", "dropped", dropped)
	}
	return kept, nil
}

func (a *app) runGenerate(cmd *cobra.Command, args []string) error {
	root, err := resolveRoot(args)
	if err != nil {
		return err
	}
	cfg, log, err := a.load(cmd, root)
	if err != nil {
		return err
	}

	log.Info("papyrus.start", "root", root, "routes_file", cfg.RoutesFile, "views_dir", cfg.ViewsDir)
	rs, err := routes(cfg, log, root)
	if err != nil {
		return err
	}

	out, err := render(cmd.Context(), cfg, log, rs)
	if err != nil {
		return err
	}

	if cfg.Output != "" {
		if err := os.WriteFile(cfg.Output, out, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", cfg.Output, err)
		}
		log.Info("papyrus.written", "path", cfg.Output, "routes", len(rs))
		return nil
	}
	_, err = a.stdout.Write(out)
	return err
}

// render encodes routes in the configured format. A document that fails
// validation is still returned; the failure is logged.
func render(ctx context.Context, cfg *config.Config, log *slog.Logger, rs []model.Route) ([]byte, error) {
	if cfg.Format == config.FormatTOON {
		return []byte(toon.Encode(rs) + "\n"), nil
	}

	doc, err := openapi.Build(log, rs, openapi.Info{Title: cfg.Title, Version: cfg.APIVersion})
	if err != nil {
		return nil, err
	}
	data, err := openapi.YAML(doc)
	if err != nil {
		return nil, err
	}

	if cfg.Validate {
		if err := openapi.Validate(ctx, data); err != nil {
			log.Error("openapi.validate", "err", err)
		}
	}

	if cfg.Format == config.FormatJSON {
		return openapi.JSON(doc)
	}
	return data, nil
}
