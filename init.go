package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
)

const defaultConfigFile = "papyrus.yaml"

// newInitCmd implements `papyrus init`, which writes the effective settings
// (defaults overlaid with any flags and PAPYRUS_* variables) to a config file.
func newInitCmd(a *app) *cobra.Command {
	var dryRun, force bool

	cmd := &cobra.Command{
		Use:   "init [flags] [path]",
		Short: "Write a papyrus config file",
		Long: `Write the current papyrus settings to a YAML config file that later runs
pick up from the base directory. Flags and PAPYRUS_* environment variables
given to init are written into the file.

path defaults to ./papyrus.yaml. An existing file is left alone unless
--force is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultConfigFile
			if len(args) > 0 {
				path = args[0]
			}

			cfg, log, err := a.load(cmd, ".")
			if err != nil {
				return err
			}

			if dryRun {
				data, err := cfg.YAML()
				if err != nil {
					return err
				}
				_, err = a.stdout.Write(data)
				return err
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("checking %s: %w", path, err)
			}

			if err := cfg.Save(path); err != nil {
				return err
			}
			log.Info("papyrus.init", "path", path)
			_, _ = fmt.Fprintf(a.stderr, "wrote papyrus config to %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the config instead of writing it")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}
