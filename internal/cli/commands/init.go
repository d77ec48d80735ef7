package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/ezc/internal/cli/config"
	"github.com/spf13/cobra"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var example bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new ezc workspace",
		Long: `Initialize a workspace with a configuration file and a starter unit.

This creates:
  - ezc.yaml configuration file
  - units/main.yaml compilation unit
  - .gitignore excluding the state directory

Use --example to start from a unit with functions, arrays and control flow.`,
		Example: `  # Initialize in current directory
  ezc init

  # Initialize a new directory with the larger example
  ezc init my-units --example

  # Overwrite an existing configuration
  ezc init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			template := "minimal"
			if example {
				template = "example"
			}
			return runInit(cmd, dir, template, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")
	cmd.Flags().BoolVar(&example, "example", false, "Create a larger example unit")

	return cmd
}

func runInit(cmd *cobra.Command, dir, template string, force bool) error {
	r := NewCommandContext(cmd).Renderer

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	configPath := filepath.Join(dir, config.ConfigFileNames[0])
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
	}

	files, err := copyTemplate(template, dir, force)
	if err != nil {
		return fmt.Errorf("failed to initialize workspace: %w", err)
	}
	for _, f := range files {
		r.StatusLine(f, "success", "")
	}

	r.Println("")
	r.Success("ezc workspace initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  ezc check units/main.yaml      Run the semantic pass")
	r.Println("  ezc render units/main.yaml     Print the syntax tree")
	r.Println("  ezc snapshot units/main.yaml   Save the symbol tables")
	return nil
}
