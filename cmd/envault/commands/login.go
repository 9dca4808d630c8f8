package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/systmms/envault/internal/config"
	enverrors "github.com/systmms/envault/internal/errors"
	"github.com/systmms/envault/internal/keyring"
	"github.com/systmms/envault/pkg/envault"
)

func NewLoginCommand(cfg *config.Config) *cobra.Command {
	var tokenFlag string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store an API token in the OS keyring",
		Long: `Verify an Envault API token and store it in the operating system's
credential store so later commands can authenticate without ENVAULT_TOKEN.

Examples:
  envault login --with-token ev_svc_...
  echo "$TOKEN" | envault login        # read the token from stdin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			token := tokenFlag
			if token == "" {
				if cfg.NonInteractive {
					return enverrors.UserError{
						Message:    "No token provided",
						Suggestion: "Pass --with-token or pipe the token on stdin",
					}
				}
				fmt.Fprint(os.Stderr, "Token: ")
				scanner := bufio.NewScanner(os.Stdin)
				if scanner.Scan() {
					token = strings.TrimSpace(scanner.Text())
				}
			}
			if token == "" {
				return enverrors.UserError{
					Message:    "No token provided",
					Suggestion: "Paste the token from the Envault dashboard",
				}
			}

			// Verify the token before storing it.
			client, err := envault.New(envault.Config{Token: token})
			if err != nil {
				return err
			}
			me, err := client.Me(cmd.Context())
			if err != nil {
				return enverrors.FromAPI("verify token", err)
			}

			if err := keyring.Store(token); err != nil {
				return enverrors.UserError{
					Message:    "Failed to store token in the OS keyring",
					Details:    err.Error(),
					Suggestion: "Ensure a keyring service is available, or use ENVAULT_TOKEN instead",
					Err:        err,
				}
			}

			switch me.AuthType {
			case "service_token":
				cfg.Logger.Info("Logged in with service token (team %s, %d projects)", me.TeamID, len(me.ProjectIDs))
			default:
				cfg.Logger.Info("Logged in as %s", me.Email)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&tokenFlag, "with-token", "", "API token (avoids the interactive prompt)")

	return cmd
}

func NewLogoutCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored API token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := keyring.Clear(); err != nil {
				return enverrors.UserError{
					Message: "Failed to clear the OS keyring",
					Details: err.Error(),
					Err:     err,
				}
			}
			cfg.Logger.Info("Logged out")
			return nil
		},
	}
}
