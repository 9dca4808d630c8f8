package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/systmms/envault/internal/config"
	enverrors "github.com/systmms/envault/internal/errors"
)

func NewGetCommand(cfg *config.Config) *cobra.Command {
	var (
		envName    string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Get a single secret value",
		Long: `Retrieve a single secret and print its value to stdout. By default only
the raw value is printed, making it suitable for scripting.

Examples:
  # Get a single value
  envault get DATABASE_URL --env production

  # Get value with metadata in JSON format
  envault get API_KEY --env production --json

  # Use in scripts
  export DB_URL=$(envault get DATABASE_URL --env prod)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := buildClient(cfg)
			if err != nil {
				return err
			}

			project, environment, err := targetEnvironment(cfg, envName)
			if err != nil {
				return err
			}

			secret, err := client.GetSecret(cmd.Context(), project, environment, args[0])
			if err != nil {
				return enverrors.FromAPI(fmt.Sprintf("get secret '%s'", args[0]), err)
			}

			if jsonOutput {
				return json.NewEncoder(os.Stdout).Encode(secret)
			}

			fmt.Println(secret.Value)
			if secret.InheritedFrom != "" {
				cfg.Logger.Debug("value inherited from environment '%s'", secret.InheritedFrom)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&envName, "env", "", "Environment name (defaults to config)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output value with metadata as JSON")

	return cmd
}
