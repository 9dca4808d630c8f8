package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/systmms/envault/internal/config"
	enverrors "github.com/systmms/envault/internal/errors"
)

func NewWhoamiCommand(cfg *config.Config) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the authenticated principal",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := buildClient(cfg)
			if err != nil {
				return err
			}

			me, err := client.Me(cmd.Context())
			if err != nil {
				return enverrors.FromAPI("fetch identity", err)
			}

			if jsonOutput {
				return json.NewEncoder(os.Stdout).Encode(me)
			}

			if me.AuthType == "service_token" {
				fmt.Printf("Service token %s (team %s)\n", me.ID, me.TeamID)
				fmt.Printf("  Projects: %d\n", len(me.ProjectIDs))
				fmt.Printf("  Scopes:   %v\n", me.Scopes)
				return nil
			}
			fmt.Printf("%s <%s>\n", me.Name, me.Email)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
