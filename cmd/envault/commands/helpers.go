package commands

import (
	"github.com/systmms/envault/internal/config"
	"github.com/systmms/envault/internal/keyring"
	"github.com/systmms/envault/pkg/envault"
)

// buildClient loads the config file and constructs an SDK client, falling
// back to the OS keyring when neither the --token flag nor ENVAULT_TOKEN
// supplied a token.
func buildClient(cfg *config.Config) (*envault.Client, error) {
	if err := cfg.Load(); err != nil {
		return nil, err
	}

	if _, err := cfg.Token(); err != nil {
		stored, kerr := keyring.Load()
		if kerr != nil {
			// Surface the original "no token" guidance, not the
			// keyring internals.
			return nil, err
		}
		cfg.SetToken(stored)
	}

	return cfg.NewClient()
}

// targetEnvironment resolves project and environment for a command, with
// the --env flag beating the config file default.
func targetEnvironment(cfg *config.Config, envFlag string) (project, environment string, err error) {
	project, err = cfg.Project()
	if err != nil {
		return "", "", err
	}
	environment, err = cfg.Environment(envFlag)
	if err != nil {
		return "", "", err
	}
	return project, environment, nil
}
