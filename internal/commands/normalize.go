package commands

import (
	"fmt"
	"os"

	"github.com/objectstack-ai/stackdef/internal/config"
	"github.com/objectstack-ai/stackdef/internal/writer"
	"github.com/objectstack-ai/stackdef/stack"
	"github.com/spf13/cobra"
)

// NormalizeCmd creates the 'normalize' command
func NormalizeCmd() *cobra.Command {
	var (
		outPath string
		format  string
		diff    bool
		force   bool
		dryRun  bool
	)

	cmd := &cobra.Command{
		Use:   "normalize <file>",
		Short: "Print the canonical form of a stack file",
		Long: `Validates a stack file and prints its canonical form: every collection
as an ordered list, entity names first, keys in a stable order.

Example:
  stackdef normalize crm.stack.yml
  stackdef normalize crm.stack.yml --format json -o crm.stack.json
  stackdef normalize crm.stack.yml --diff`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			path := args[0]

			if !cmd.Flags().Changed("format") {
				format = s.cfg.Output.Format
			}

			def, err := s.define(path, s.strict(cmd))
			if err != nil {
				return err
			}

			data, err := encode(def, format)
			if err != nil {
				return err
			}

			if diff {
				source, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("failed to read stack file: %w", err)
				}
				text, err := writer.UnifiedDiff(path, path+" (canonical)", source, data)
				if err != nil {
					return err
				}
				if text == "" {
					s.out.Success(fmt.Sprintf("%s is already canonical", path))
					return nil
				}
				s.out.Raw(text)
				return nil
			}

			if outPath == "" {
				s.out.Raw(string(data))
				return nil
			}

			ops := []writer.Operation{&writer.WriteFileOp{Path: outPath, Content: data, Mode: 0644}}
			return writer.Execute(cmd.Context(), ops, writer.Options{
				DryRun: dryRun,
				Force:  force,
				Out:    s.out,
			})
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Write the canonical form to a file")
	cmd.Flags().StringVar(&format, "format", config.FormatYAML, "Output format (yaml or json)")
	cmd.Flags().BoolVar(&diff, "diff", false, "Show a unified diff between the file and its canonical form")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite the output file if it exists")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would be written without writing")
	cmd.Flags().Bool("strict", true, "Run naming, schema and reference checks")

	return cmd
}

func encode(def *stack.Definition, format string) ([]byte, error) {
	switch format {
	case config.FormatYAML:
		return def.YAML()
	case config.FormatJSON:
		return def.JSON()
	default:
		return nil, fmt.Errorf("unknown format %q (expected %s or %s)", format, config.FormatYAML, config.FormatJSON)
	}
}
