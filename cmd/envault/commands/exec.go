package commands

import (
	"github.com/spf13/cobra"

	"github.com/systmms/envault/internal/config"
	enverrors "github.com/systmms/envault/internal/errors"
	"github.com/systmms/envault/internal/execenv"
)

func NewExecCommand(cfg *config.Config) *cobra.Command {
	var (
		envName       string
		allowOverride bool
		printVars     bool
		workingDir    string
		timeout       int
	)

	cmd := &cobra.Command{
		Use:   "exec -- <command> [args...]",
		Short: "Run a command with exported secrets in its environment",
		Long: `Export an environment's secrets and launch a command with them injected
as environment variables. The secrets exist only in the child process and
are never written to disk.

Examples:
  envault exec --env development -- npm start
  envault exec --env production --print -- ./server
  envault exec --allow-override -- make test`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := buildClient(cfg)
			if err != nil {
				return err
			}
			project, environment, err := targetEnvironment(cfg, envName)
			if err != nil {
				return err
			}

			secrets, err := client.ExportSecretsAsMap(cmd.Context(), project, environment)
			if err != nil {
				return enverrors.FromAPI("export secrets", err)
			}

			executor := execenv.New(cfg.Logger)
			return executor.Exec(cmd.Context(), execenv.ExecOptions{
				Command:       args,
				Secrets:       secrets,
				AllowOverride: allowOverride,
				PrintVars:     printVars,
				WorkingDir:    workingDir,
				Timeout:       timeout,
			})
		},
	}

	cmd.Flags().StringVar(&envName, "env", "", "Environment name (defaults to config)")
	cmd.Flags().BoolVar(&allowOverride, "allow-override", false, "Let existing env vars win over exported secrets")
	cmd.Flags().BoolVar(&printVars, "print", false, "Print injected variable names (values masked)")
	cmd.Flags().StringVar(&workingDir, "dir", "", "Working directory for the command")
	cmd.Flags().IntVar(&timeout, "timeout", 0, "Timeout in seconds (0 for none)")

	return cmd
}
