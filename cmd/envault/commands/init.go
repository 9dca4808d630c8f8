package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/systmms/envault/internal/config"
	enverrors "github.com/systmms/envault/internal/errors"
)

const starterConfig = `# envault configuration
# Docs: https://envault.systmms.dev/docs/cli
version: 1

# Project id from the Envault dashboard
project: proj_xxxxxxxx

# Default environment for commands that take --env
environment: development

# Cache exported secrets for this many seconds (0 disables)
cache_ttl_seconds: 0

render:
  out: .env
`

func NewInitCommand(cfg *config.Config) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a starter envault.yaml",
		Long: `Write a commented starter configuration file to the current directory.

Examples:
  envault init
  envault init --config deploy/envault.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cfg.Path
			if path == "" {
				path = config.DefaultPath
			}

			if _, err := os.Stat(path); err == nil && !force {
				return enverrors.UserError{
					Message:    fmt.Sprintf("%s already exists", path),
					Suggestion: "Use --force to overwrite it",
				}
			}

			if err := os.WriteFile(path, []byte(starterConfig), 0o600); err != nil {
				return enverrors.UserError{
					Message: "Failed to write configuration file",
					Details: err.Error(),
					Err:     err,
				}
			}

			cfg.Logger.Info("Wrote %s", path)
			cfg.Logger.Info("Next: set your project id, then run 'envault login'")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	return cmd
}
