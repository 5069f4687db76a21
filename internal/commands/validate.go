package commands

import (
	"fmt"
	"strings"

	"github.com/objectstack-ai/stackdef/internal/discover"
	"github.com/objectstack-ai/stackdef/internal/logger"
	"github.com/spf13/cobra"
)

// ValidateCmd creates the 'validate' command
func ValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file|dir>...",
		Short: "Validate stack definition files",
		Long: `Parses each stack file and runs the full definition pipeline:
normalization, naming checks, schema validation and cross-references.

Every problem found by the failing stage is reported with its line number.
Directories are searched for *.stack.yml, *.stack.yaml and *.stack.json files.

Example:
  stackdef validate crm.stack.yml
  stackdef validate --strict=false stacks/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			strict := s.strict(cmd)

			files, err := discover.Expand(args, discover.Options{})
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no stack files found in %s", strings.Join(args, ", "))
			}

			failed := 0
			for _, path := range files {
				s.out.Verbose(fmt.Sprintf("Validating %s", path))

				def, err := s.define(path, strict)
				if err != nil {
					failed++
					s.log.Debug("validation failed", logger.F("file", path), logger.F("error", err.Error()))
					s.out.Error(fmt.Sprintf("%s: %v", path, err))
					continue
				}

				msg := fmt.Sprintf("%s is valid (%d objects)", path, len(def.Objects()))
				if !strict {
					msg = fmt.Sprintf("%s normalized without validation", path)
				}
				s.out.Success(msg)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d stack files failed validation", failed, len(files))
			}
			return nil
		},
	}

	cmd.Flags().Bool("strict", true, "Run naming, schema and reference checks")

	return cmd
}
