package commands

import (
	"github.com/objectstack-ai/stackdef/internal/config"
	"github.com/objectstack-ai/stackdef/internal/logger"
	"github.com/objectstack-ai/stackdef/internal/output"
	"github.com/objectstack-ai/stackdef/stack"
	"github.com/spf13/cobra"
)

// settings is the per-invocation state shared by every subcommand.
type settings struct {
	cfg     *config.Config
	log     logger.Logger
	out     *output.Printer
	catalog *stack.Catalog
	verbose bool
}

// loadSettings resolves config file, environment and persistent flags.
func loadSettings(cmd *cobra.Command) (*settings, error) {
	path, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel()
	if verbose {
		level = logger.LevelDebug
	}
	log := logger.NewLogger(level, cmd.ErrOrStderr())

	out := output.New(cmd.OutOrStdout())
	out.SetVerbose(verbose)

	if cfg.File() != "" {
		log.Debug("loaded config", logger.F("file", cfg.File()))
	}

	return &settings{cfg: cfg, log: log, out: out, catalog: catalog, verbose: verbose}, nil
}

// strict returns the --strict flag when given, else the configured value.
func (s *settings) strict(cmd *cobra.Command) bool {
	if f := cmd.Flags().Lookup("strict"); f != nil && f.Changed {
		strict, _ := cmd.Flags().GetBool("strict")
		return strict
	}
	return s.cfg.Strict
}

// stackOptions builds the DefineStack options for this invocation.
func (s *settings) stackOptions(strict bool) []stack.Option {
	return []stack.Option{
		stack.WithStrict(strict),
		stack.WithCatalog(s.catalog),
		stack.WithLogger(s.log.Zap()),
	}
}

// define parses and validates one stack file.
func (s *settings) define(path string, strict bool) (*stack.Definition, error) {
	opts := s.stackOptions(strict)
	in, err := stack.Parse(path, opts...)
	if err != nil {
		return nil, err
	}
	return stack.DefineStack(in, opts...)
}
