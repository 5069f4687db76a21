package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/objectstack-ai/stackdef/internal/input"
	"github.com/objectstack-ai/stackdef/internal/writer"
	"github.com/objectstack-ai/stackdef/stack"
	"github.com/spf13/cobra"
)

const defaultStackFile = "stack.yml"

// InitCmd creates the 'init' command
func InitCmd() *cobra.Command {
	var (
		name   string
		object string
		yes    bool
		force  bool
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "init [file]",
		Short: "Create a starter stack file",
		Long: `Scaffolds a minimal, valid stack file with a manifest, one object and an
app. Prompts for the stack id and the first object unless --yes is given.

Example:
  stackdef init
  stackdef init crm.stack.yml --name crm --object lead --yes`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			path := defaultStackFile
			if len(args) == 1 {
				path = args[0]
			}

			if name == "" {
				name = defaultStackName(path)
			}
			if object == "" {
				object = "account"
			}

			if !yes {
				p := input.New(cmd.InOrStdin(), cmd.OutOrStdout())
				name = p.Prompt("Stack id", name)
				object = p.Prompt("First object", object)
				if _, err := os.Stat(path); err == nil && !force {
					force = p.Confirm(fmt.Sprintf("%s exists. Overwrite?", path), false)
					if !force {
						s.out.Info("Nothing written")
						return nil
					}
				}
			}

			def, err := stack.DefineStack(starterStack(name, object), s.stackOptions(true)...)
			if err != nil {
				return err
			}
			data, err := def.YAML()
			if err != nil {
				return err
			}

			ops := []writer.Operation{&writer.WriteFileOp{Path: path, Content: data, Mode: 0644}}
			if err := writer.Execute(cmd.Context(), ops, writer.Options{
				DryRun: dryRun,
				Force:  force,
				Out:    s.out,
			}); err != nil {
				return err
			}

			if !dryRun {
				s.out.Success(fmt.Sprintf("Created stack: %s", name))
				s.out.Info("Next steps:")
				s.out.Step(fmt.Sprintf("stackdef validate %s", path))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Stack id (default derived from the file name)")
	cmd.Flags().StringVar(&object, "object", "", "Name of the first object (default account)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Accept defaults without prompting")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would be written without writing")

	return cmd
}

// defaultStackName derives a snake_case stack id from a file name, e.g.
// "Sales CRM.stack.yml" -> "sales_crm".
func defaultStackName(path string) string {
	base := filepath.Base(path)
	for _, suffix := range []string{".yml", ".yaml", ".json", ".stack"} {
		base = strings.TrimSuffix(base, suffix)
	}
	if base == "" || base == "stack" {
		return "my_stack"
	}
	return strings.ToLower(strings.NewReplacer(" ", "_", "-", "_", ".", "_").Replace(base))
}

// starterStack is the document written by init.
func starterStack(name, object string) *stack.Input {
	in := stack.NewInput().
		With("objects", stack.Mapping().Set(object, stack.Entity{
			"label": label(object),
			"fields": map[string]any{
				"name": map[string]any{"type": "text", "label": "Name", "required": true},
			},
		})).
		With("apps", stack.Mapping().Set(name, stack.Entity{
			"label": label(name),
		}))
	in.Manifest = map[string]any{
		"id":      name,
		"version": "0.1.0",
		"type":    "app",
	}
	return in
}

// label turns a snake_case identifier into a title, e.g. "sales_order" ->
// "Sales Order".
func label(id string) string {
	words := strings.Split(strings.Trim(id, "_"), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
