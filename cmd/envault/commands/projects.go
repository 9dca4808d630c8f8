package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/systmms/envault/internal/config"
	enverrors "github.com/systmms/envault/internal/errors"
)

func NewProjectsCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Manage projects",
	}

	cmd.AddCommand(
		newProjectsListCommand(cfg),
		newProjectsCreateCommand(cfg),
	)

	return cmd
}

func newProjectsListCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects visible to the caller",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := buildClient(cfg)
			if err != nil {
				return err
			}

			projects, err := client.ListProjects(cmd.Context())
			if err != nil {
				return enverrors.FromAPI("list projects", err)
			}

			if len(projects) == 0 {
				cfg.Logger.Info("No projects")
				return nil
			}

			fmt.Printf("%-16s %-24s %s\n", "ID", "SLUG", "NAME")
			for _, p := range projects {
				fmt.Printf("%-16s %-24s %s\n", p.ID, p.Slug, p.Name)
			}
			return nil
		},
	}
}

func newProjectsCreateCommand(cfg *config.Config) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := buildClient(cfg)
			if err != nil {
				return err
			}

			project, err := client.CreateProject(cmd.Context(), args[0], description)
			if err != nil {
				return enverrors.FromAPI(fmt.Sprintf("create project '%s'", args[0]), err)
			}

			cfg.Logger.Info("Created project %s (%s)", project.Name, project.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Project description")
	return cmd
}
