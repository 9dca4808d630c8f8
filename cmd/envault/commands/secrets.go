package commands

import (
	"fmt"
	"sort"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/systmms/envault/internal/config"
	enverrors "github.com/systmms/envault/internal/errors"
	"github.com/systmms/envault/internal/execenv"
	"github.com/systmms/envault/pkg/envault"
)

func NewSecretsCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secrets",
		Short: "Manage secrets in an environment",
	}

	cmd.AddCommand(
		newSecretsListCommand(cfg),
		newSecretsSetCommand(cfg),
		newSecretsDeleteCommand(cfg),
		newSecretsHistoryCommand(cfg),
		newSecretsImportCommand(cfg),
	)

	return cmd
}

func newSecretsListCommand(cfg *config.Config) *cobra.Command {
	var envName string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List secret keys and versions (no values)",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := buildClient(cfg)
			if err != nil {
				return err
			}
			project, environment, err := targetEnvironment(cfg, envName)
			if err != nil {
				return err
			}

			secrets, err := client.ListSecrets(cmd.Context(), project, environment)
			if err != nil {
				return enverrors.FromAPI("list secrets", err)
			}

			if len(secrets) == 0 {
				cfg.Logger.Info("No secrets in environment '%s'", environment)
				return nil
			}

			sort.Slice(secrets, func(i, j int) bool { return secrets[i].Key < secrets[j].Key })
			fmt.Printf("%-32s %8s  %s\n", "KEY", "VERSION", "UPDATED")
			for _, s := range secrets {
				fmt.Printf("%-32s %8d  %s\n", s.Key, s.Version, s.UpdatedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&envName, "env", "", "Environment name (defaults to config)")
	return cmd
}

func newSecretsSetCommand(cfg *config.Config) *cobra.Command {
	var (
		envName     string
		description string
	)

	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Create or update a secret",
		Long: `Upsert a secret: update it when the key exists, create it otherwise.

Examples:
  envault secrets set API_KEY sk-live-123 --env production
  envault secrets set DB_URL "$DATABASE_URL" --description "primary database"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := buildClient(cfg)
			if err != nil {
				return err
			}
			project, environment, err := targetEnvironment(cfg, envName)
			if err != nil {
				return err
			}

			secret, err := client.SetSecret(cmd.Context(), project, environment, args[0], args[1], description)
			if err != nil {
				return enverrors.FromAPI(fmt.Sprintf("set secret '%s'", args[0]), err)
			}

			cfg.Logger.Info("Set %s (version %d) in '%s'", secret.Key, secret.Version, environment)
			return nil
		},
	}

	cmd.Flags().StringVar(&envName, "env", "", "Environment name (defaults to config)")
	cmd.Flags().StringVar(&description, "description", "", "Secret description")
	return cmd
}

func newSecretsDeleteCommand(cfg *config.Config) *cobra.Command {
	var envName string

	cmd := &cobra.Command{
		Use:   "delete <key>",
		Short: "Delete a secret and its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := buildClient(cfg)
			if err != nil {
				return err
			}
			project, environment, err := targetEnvironment(cfg, envName)
			if err != nil {
				return err
			}

			if err := client.DeleteSecret(cmd.Context(), project, environment, args[0]); err != nil {
				return enverrors.FromAPI(fmt.Sprintf("delete secret '%s'", args[0]), err)
			}

			cfg.Logger.Info("Deleted %s from '%s'", args[0], environment)
			return nil
		},
	}

	cmd.Flags().StringVar(&envName, "env", "", "Environment name (defaults to config)")
	return cmd
}

func newSecretsHistoryCommand(cfg *config.Config) *cobra.Command {
	var (
		envName    string
		showValues bool
	)

	cmd := &cobra.Command{
		Use:   "history <key>",
		Short: "Show a secret's previous versions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := buildClient(cfg)
			if err != nil {
				return err
			}
			project, environment, err := targetEnvironment(cfg, envName)
			if err != nil {
				return err
			}

			history, err := client.GetSecretHistory(cmd.Context(), project, environment, args[0])
			if err != nil {
				return enverrors.FromAPI(fmt.Sprintf("fetch history for '%s'", args[0]), err)
			}

			if len(history) == 0 {
				cfg.Logger.Info("No previous versions for %s", args[0])
				return nil
			}

			for _, v := range history {
				value := execenv.MaskValue(v.Value)
				if showValues {
					value = v.Value
				}
				changedBy := v.ChangedBy
				if changedBy == "" {
					changedBy = "-"
				}
				fmt.Printf("v%-4d %s  %-20s %s\n", v.Version, v.CreatedAt.Format("2006-01-02 15:04"), changedBy, value)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&envName, "env", "", "Environment name (defaults to config)")
	cmd.Flags().BoolVar(&showValues, "show-values", false, "Print historic values unmasked")
	return cmd
}

func newSecretsImportCommand(cfg *config.Config) *cobra.Command {
	var (
		envName   string
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:   "import <dotenv-file>",
		Short: "Bulk import secrets from a dotenv file",
		Long: `Parse a dotenv file and import every variable in one request. Existing
keys are skipped unless --overwrite is set; the service decides per item.

Examples:
  envault secrets import .env.production --env production
  envault secrets import .env --overwrite`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := godotenv.Read(args[0])
			if err != nil {
				return enverrors.UserError{
					Message:    fmt.Sprintf("Failed to parse %s", args[0]),
					Details:    err.Error(),
					Suggestion: "Check the file exists and uses KEY=value lines",
					Err:        err,
				}
			}
			if len(values) == 0 {
				return enverrors.UserError{
					Message:    fmt.Sprintf("%s contains no variables", args[0]),
					Suggestion: "Nothing to import",
				}
			}

			client, err := buildClient(cfg)
			if err != nil {
				return err
			}
			project, environment, err := targetEnvironment(cfg, envName)
			if err != nil {
				return err
			}

			keys := make([]string, 0, len(values))
			for key := range values {
				keys = append(keys, key)
			}
			sort.Strings(keys)

			secrets := make([]envault.BulkSecret, 0, len(keys))
			for _, key := range keys {
				secrets = append(secrets, envault.BulkSecret{Key: key, Value: values[key]})
			}

			result, err := client.BulkImport(cmd.Context(), project, environment, secrets, overwrite)
			if err != nil {
				return enverrors.FromAPI("import secrets", err)
			}

			cfg.Logger.Info("Imported into '%s': %d created, %d updated, %d skipped",
				environment, result.Created, result.Updated, result.Skipped)
			if result.Skipped > 0 && !overwrite {
				cfg.Logger.Warn("Skipped keys already exist. Re-run with --overwrite to replace them")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&envName, "env", "", "Environment name (defaults to config)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing secrets")
	return cmd
}
