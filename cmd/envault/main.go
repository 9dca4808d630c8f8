package main

import (
	"fmt"
	"os"

	"github.com/awnumar/memguard"
	"github.com/spf13/cobra"

	"github.com/systmms/envault/cmd/envault/commands"
	"github.com/systmms/envault/internal/config"
	"github.com/systmms/envault/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Wipe protected token memory on exit.
	defer memguard.Purge()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		memguard.Purge()
		os.Exit(1)
	}
}

func run() error {
	// Global flags
	var (
		configFile     string
		token          string
		noColor        bool
		debug          bool
		nonInteractive bool
	)

	// Create config placeholder
	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:   "envault",
		Short: "Envault - versioned secrets for your environments",
		Long: `envault manages secrets stored in the Envault service: fetch and export
environment secrets, render .env files, or launch commands with ephemeral
environment variables.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger := logging.New(debug, noColor)

			cfg.Path = configFile
			cfg.Logger = logger
			cfg.NonInteractive = nonInteractive
			if token != "" {
				cfg.SetToken(token)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", config.DefaultPath, "Config file path")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "API token (overrides ENVAULT_TOKEN and the keyring)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false, "Non-interactive mode")

	rootCmd.AddCommand(
		commands.NewInitCommand(cfg),
		commands.NewLoginCommand(cfg),
		commands.NewLogoutCommand(cfg),
		commands.NewWhoamiCommand(cfg),
		commands.NewGetCommand(cfg),
		commands.NewSecretsCommand(cfg),
		commands.NewRenderCommand(cfg),
		commands.NewExecCommand(cfg),
		commands.NewProjectsCommand(cfg),
		commands.NewEnvironmentsCommand(cfg),
		commands.NewPermissionsCommand(cfg),
		commands.NewCompletionCommand(cfg),
	)

	return rootCmd.Execute()
}
