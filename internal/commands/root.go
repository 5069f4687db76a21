package commands

import (
	"github.com/objectstack-ai/stackdef"
	"github.com/spf13/cobra"
)

// RootCmd creates and returns the root command for the stackdef CLI
func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stackdef",
		Short: "Normalize and validate stack definition files",
		Long: `stackdef checks declarative stack documents before anything boots:
• Collections in map or list form are normalized to ordered lists
• Entity names and field keys must be snake_case
• Every entity is checked by its kind's schema validator
• Workflows, hooks and approvals must name a declared object

Settings are read from stackdef.yml and STACKDEF_* environment variables.`,
		Version:      stackdef.Version,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for debugging")
	cmd.PersistentFlags().String("config", "", "Path to a config file (default ./stackdef.yml)")

	return cmd
}

// NewRootCmd returns the root command with every subcommand registered.
func NewRootCmd() *cobra.Command {
	root := RootCmd()
	root.AddCommand(ValidateCmd())
	root.AddCommand(NormalizeCmd())
	root.AddCommand(InitCmd())
	return root
}
