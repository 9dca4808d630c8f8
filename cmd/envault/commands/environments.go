package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/systmms/envault/internal/config"
	enverrors "github.com/systmms/envault/internal/errors"
)

func NewEnvironmentsCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "environments",
		Aliases: []string{"envs"},
		Short:   "Manage a project's environments",
	}

	cmd.AddCommand(
		newEnvironmentsListCommand(cfg),
		newEnvironmentsCreateCommand(cfg),
	)

	return cmd
}

func newEnvironmentsListCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the project's environments",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := buildClient(cfg)
			if err != nil {
				return err
			}
			project, err := cfg.Project()
			if err != nil {
				return err
			}

			environments, err := client.ListEnvironments(cmd.Context(), project)
			if err != nil {
				return enverrors.FromAPI("list environments", err)
			}

			for _, env := range environments {
				if env.InheritsFrom != "" {
					fmt.Printf("%s (inherits from %s)\n", env.Name, env.InheritsFrom)
					continue
				}
				fmt.Println(env.Name)
			}
			return nil
		},
	}
}

func newEnvironmentsCreateCommand(cfg *config.Config) *cobra.Command {
	var inheritsFrom string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an environment",
		Long: `Create an environment in the configured project. With --inherits, keys
not overridden here resolve to the parent environment's values.

Examples:
  envault environments create staging
  envault environments create preview --inherits production`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := buildClient(cfg)
			if err != nil {
				return err
			}
			project, err := cfg.Project()
			if err != nil {
				return err
			}

			env, err := client.CreateEnvironment(cmd.Context(), project, args[0], inheritsFrom)
			if err != nil {
				return enverrors.FromAPI(fmt.Sprintf("create environment '%s'", args[0]), err)
			}

			cfg.Logger.Info("Created environment %s", env.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&inheritsFrom, "inherits", "", "Parent environment to inherit values from")
	return cmd
}
