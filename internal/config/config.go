// Package config loads stackdef settings from stackdef.yml and the
// environment.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/objectstack-ai/stackdef/internal/logger"
	"github.com/objectstack-ai/stackdef/stack"
	"github.com/spf13/viper"
)

// FileName is the config file looked up in the working directory.
const FileName = "stackdef.yml"

// EnvPrefix prefixes environment overrides, e.g. STACKDEF_LOG_LEVEL.
const EnvPrefix = "STACKDEF"

// Output formats
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Config holds the resolved CLI settings.
type Config struct {
	Strict      bool               `mapstructure:"strict"`
	Log         LogConfig          `mapstructure:"log"`
	Output      OutputConfig       `mapstructure:"output"`
	Collections []CollectionConfig `mapstructure:"collections"`

	file string
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// CollectionConfig registers an extra collection on top of the built-in
// catalog, or replaces a built-in entry of the same name.
type CollectionConfig struct {
	Name      string   `mapstructure:"name"`
	Kind      string   `mapstructure:"kind"`
	Reference string   `mapstructure:"reference"`
	KeyMaps   []string `mapstructure:"key_maps"`
	Anonymous bool     `mapstructure:"anonymous"`
}

// Load reads configuration. With an empty path, stackdef.yml in the working
// directory is used when present; an explicit path must exist. Environment
// variables override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("strict", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("output.format", FormatYAML)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, ".yml"))
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{file: v.ConfigFileUsed()}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// File returns the config file that was read, or "" when none was found.
func (c *Config) File() string {
	return c.file
}

// Validate checks every setting.
func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if !slices.Contains([]string{FormatYAML, FormatJSON}, c.Output.Format) {
		return fmt.Errorf("output.format must be %s or %s, got %q", FormatYAML, FormatJSON, c.Output.Format)
	}
	if _, err := c.Catalog(); err != nil {
		return fmt.Errorf("collections: %w", err)
	}
	return nil
}

// LogLevel returns the parsed log level.
func (c *Config) LogLevel() logger.Level {
	level, _ := logger.ParseLevel(c.Log.Level)
	return level
}

// CatalogSpecs converts the configured collections into catalog entries.
func (c *Config) CatalogSpecs() []stack.CollectionSpec {
	specs := make([]stack.CollectionSpec, 0, len(c.Collections))
	for _, col := range c.Collections {
		specs = append(specs, stack.CollectionSpec{
			Name:      col.Name,
			Kind:      col.Kind,
			Reference: col.Reference,
			KeyMaps:   col.KeyMaps,
			Anonymous: col.Anonymous,
		})
	}
	return specs
}

// Catalog returns the built-in catalog extended with the configured
// collections.
func (c *Config) Catalog() (*stack.Catalog, error) {
	return stack.DefaultCatalog().With(c.CatalogSpecs()...)
}
