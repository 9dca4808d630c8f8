package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/systmms/envault/internal/config"
	enverrors "github.com/systmms/envault/internal/errors"
	"github.com/systmms/envault/pkg/envault"
)

func NewPermissionsCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "permissions",
		Aliases: []string{"perms"},
		Short:   "Manage environment access",
	}

	cmd.AddCommand(
		newPermissionsListCommand(cfg),
		newPermissionsSetCommand(cfg),
		newPermissionsMineCommand(cfg),
		newPermissionsDefaultsCommand(cfg),
	)

	return cmd
}

func parseRole(s string) (envault.Role, error) {
	switch envault.Role(s) {
	case envault.RoleNone, envault.RoleRead, envault.RoleWrite, envault.RoleAdmin:
		return envault.Role(s), nil
	}
	return "", enverrors.UserError{
		Message:    fmt.Sprintf("Unknown role '%s'", s),
		Suggestion: "Use one of: none, read, write, admin",
	}
}

func newPermissionsListCommand(cfg *config.Config) *cobra.Command {
	var envName string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List explicit permissions on an environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := buildClient(cfg)
			if err != nil {
				return err
			}
			project, environment, err := targetEnvironment(cfg, envName)
			if err != nil {
				return err
			}

			perms, err := client.ListPermissions(cmd.Context(), project, environment)
			if err != nil {
				return enverrors.FromAPI("list permissions", err)
			}

			if len(perms) == 0 {
				cfg.Logger.Info("No explicit permissions on '%s'; project defaults apply", environment)
				return nil
			}

			fmt.Printf("%-16s %-28s %s\n", "USER", "EMAIL", "ROLE")
			for _, p := range perms {
				fmt.Printf("%-16s %-28s %s\n", p.UserID, p.UserEmail, p.Role)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&envName, "env", "", "Environment name (defaults to config)")
	return cmd
}

func newPermissionsSetCommand(cfg *config.Config) *cobra.Command {
	var envName string

	cmd := &cobra.Command{
		Use:   "set <user-id> <role>",
		Short: "Grant or replace a user's role on an environment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := parseRole(args[1])
			if err != nil {
				return err
			}

			client, err := buildClient(cfg)
			if err != nil {
				return err
			}
			project, environment, err := targetEnvironment(cfg, envName)
			if err != nil {
				return err
			}

			perm, err := client.SetPermission(cmd.Context(), project, environment, args[0], role)
			if err != nil {
				return enverrors.FromAPI("set permission", err)
			}

			cfg.Logger.Info("Granted %s on '%s' to %s", perm.Role, environment, perm.UserID)
			return nil
		},
	}

	cmd.Flags().StringVar(&envName, "env", "", "Environment name (defaults to config)")
	return cmd
}

func newPermissionsMineCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "Show the caller's effective access per environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := buildClient(cfg)
			if err != nil {
				return err
			}
			project, err := cfg.Project()
			if err != nil {
				return err
			}

			mine, err := client.MyPermissions(cmd.Context(), project)
			if err != nil {
				return enverrors.FromAPI("fetch permissions", err)
			}

			if mine.IsTeamAdmin {
				cfg.Logger.Info("Team admin: full access to every environment")
			}
			fmt.Printf("%-20s %-8s %s\n", "ENVIRONMENT", "ROLE", "ACCESS")
			for _, p := range mine.Permissions {
				access := ""
				if p.CanRead {
					access += "r"
				}
				if p.CanWrite {
					access += "w"
				}
				if p.CanAdmin {
					access += "a"
				}
				fmt.Printf("%-20s %-8s %s\n", p.EnvironmentName, p.Role, access)
			}
			return nil
		},
	}
}

func newPermissionsDefaultsCommand(cfg *config.Config) *cobra.Command {
	var set []string

	cmd := &cobra.Command{
		Use:   "defaults",
		Short: "Show or set the project's default roles",
		Long: `Without flags, print the default role applied to each environment when
a user has no explicit permission. With --set, replace the defaults.

Examples:
  envault permissions defaults
  envault permissions defaults --set production=none --set staging=read`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := buildClient(cfg)
			if err != nil {
				return err
			}
			project, err := cfg.Project()
			if err != nil {
				return err
			}

			if len(set) > 0 {
				grants := make([]envault.DefaultGrant, 0, len(set))
				for _, pair := range set {
					name, roleStr, found := strings.Cut(pair, "=")
					if !found {
						return enverrors.UserError{
							Message:    fmt.Sprintf("Invalid default '%s'", pair),
							Suggestion: "Use the form environment=role, e.g. staging=read",
						}
					}
					role, err := parseRole(roleStr)
					if err != nil {
						return err
					}
					grants = append(grants, envault.DefaultGrant{EnvironmentName: name, Role: role})
				}

				defaults, err := client.SetProjectDefaults(cmd.Context(), project, grants)
				if err != nil {
					return enverrors.FromAPI("set project defaults", err)
				}
				cfg.Logger.Info("Updated %d default(s)", len(defaults))
				return nil
			}

			defaults, err := client.GetProjectDefaults(cmd.Context(), project)
			if err != nil {
				return enverrors.FromAPI("fetch project defaults", err)
			}
			for _, d := range defaults {
				fmt.Printf("%-20s %s\n", d.EnvironmentName, d.Role)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&set, "set", nil, "Default as environment=role (repeatable)")
	return cmd
}
