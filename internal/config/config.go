// Package config loads papyrus settings from flags, the environment and an
// optional config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable papyrus reads.
const EnvPrefix = "PAPYRUS"

// Format is an output format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOON Format = "toon"
)

// Config is the resolved papyrus configuration.
type Config struct {
	RoutesFile string `mapstructure:"routes_file" yaml:"routes_file"`
	ViewsDir   string `mapstructure:"views_dir" yaml:"views_dir"`
	LogLevel   string `mapstructure:"log_level" yaml:"log_level"`
	Verbose    bool   `mapstructure:"verbose" yaml:"-"`
	Format     Format `mapstructure:"format" yaml:"format"`
	Output     string `mapstructure:"output" yaml:"output,omitempty"`
	AllRoutes  bool   `mapstructure:"all_routes" yaml:"all_routes"`
	Validate   bool   `mapstructure:"validate" yaml:"validate"`
	Gitignore  bool   `mapstructure:"gitignore" yaml:"gitignore"`
	Title      string `mapstructure:"title" yaml:"title"`
	APIVersion string `mapstructure:"api_version" yaml:"api_version"`
}

var defaults = map[string]any{
	"routes_file": "routes.py",
	"views_dir":   "views",
	"log_level":   "WARNING",
	"verbose":     false,
	"format":      string(FormatYAML),
	"output":      "",
	"all_routes":  false,
	"validate":    true,
	"gitignore":   false,
	"title":       "API",
	"api_version": "1.0.0",
}

// Keys returns the configuration keys.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	return keys
}

// New returns a viper instance with papyrus defaults and environment
// bindings. Every key reads PAPYRUS_<KEY>; the routes file also reads
// PAPYRUS_ROUTES_FILE_NAME.
func New() *viper.Viper {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("routes_file", EnvPrefix+"_ROUTES_FILE_NAME", EnvPrefix+"_ROUTES_FILE")
	return v
}

// Load reads configuration into v and decodes it. If path is set it must
// exist; otherwise a papyrus.{yaml,yml,json,toml} file in dir is read when
// present.
func Load(v *viper.Viper, path, dir string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("papyrus")
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.check(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) check() error {
	switch c.Format {
	case FormatYAML, FormatJSON, FormatTOON:
	default:
		return fmt.Errorf("unsupported format %q (want yaml, json or toon)", c.Format)
	}
	if c.RoutesFile == "" {
		return errors.New("routes file name is empty")
	}
	if c.ViewsDir == "" {
		return errors.New("views directory name is empty")
	}
	return nil
}

// Default returns the built-in configuration.
func Default() *Config {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// YAML encodes c in config file form.
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("error encoding config: %w", err)
	}
	return data, nil
}

// Save writes c to path as YAML.
func (c *Config) Save(path string) error {
	data, err := c.YAML()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}
