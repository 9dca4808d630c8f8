package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/systmms/envault/internal/config"
	enverrors "github.com/systmms/envault/internal/errors"
)

func NewRenderCommand(cfg *config.Config) *cobra.Command {
	var (
		envName string
		outPath string
		stdout  bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the environment's secrets as a .env file",
		Long: `Export an environment's secrets and write them as a sourceable dotenv
file. Values containing shell metacharacters are quoted and escaped.

Examples:
  envault render --env production
  envault render --env staging --out .env.staging
  envault render --stdout | grep DATABASE`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := buildClient(cfg)
			if err != nil {
				return err
			}
			project, environment, err := targetEnvironment(cfg, envName)
			if err != nil {
				return err
			}

			content, err := client.GenerateEnvFile(cmd.Context(), project, environment)
			if err != nil {
				return enverrors.FromAPI("export secrets", err)
			}

			if stdout {
				fmt.Print(content)
				return nil
			}

			out := outPath
			if out == "" && cfg.Definition != nil && cfg.Definition.Render.Out != "" {
				out = cfg.Definition.Render.Out
			}
			if out == "" {
				out = ".env"
			}

			// Secrets inside: owner-only.
			if err := os.WriteFile(out, []byte(content), 0o600); err != nil {
				return enverrors.UserError{
					Message: fmt.Sprintf("Failed to write %s", out),
					Details: err.Error(),
					Err:     err,
				}
			}

			cfg.Logger.Info("Rendered '%s' to %s", environment, out)
			return nil
		},
	}

	cmd.Flags().StringVar(&envName, "env", "", "Environment name (defaults to config)")
	cmd.Flags().StringVar(&outPath, "out", "", "Output path (defaults to render.out in config, then .env)")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "Write to stdout instead of a file")

	return cmd
}
