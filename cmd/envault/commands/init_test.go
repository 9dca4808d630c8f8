package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/envault/internal/config"
	"github.com/systmms/envault/internal/logging"
)

func TestInitCommand_CreatesConfig(t *testing.T) {
	t.Parallel()

	configPath := filepath.Join(t.TempDir(), "envault.yaml")
	cfg := &config.Config{
		Path:   configPath,
		Logger: logging.New(false, true),
	}

	cmd := NewInitCommand(cfg)
	require.NoError(t, cmd.Execute())

	content, err := os.ReadFile(configPath)
	require.NoError(t, err)

	assert.Contains(t, string(content), "version: 1")
	assert.Contains(t, string(content), "project:")
	assert.Contains(t, string(content), "environment:")

	// The starter file must pass the loader's schema check.
	fresh := &config.Config{Path: configPath, Logger: cfg.Logger}
	assert.NoError(t, fresh.Load())
}

func TestInitCommand_ExistingConfigError(t *testing.T) {
	t.Parallel()

	configPath := filepath.Join(t.TempDir(), "envault.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("existing"), 0o600))

	cfg := &config.Config{
		Path:   configPath,
		Logger: logging.New(false, true),
	}

	err := NewInitCommand(cfg).Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInitCommand_ForceOverwrites(t *testing.T) {
	t.Parallel()

	configPath := filepath.Join(t.TempDir(), "envault.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("existing"), 0o600))

	cfg := &config.Config{
		Path:   configPath,
		Logger: logging.New(false, true),
	}

	cmd := NewInitCommand(cfg)
	cmd.SetArgs([]string{"--force"})
	require.NoError(t, cmd.Execute())

	content, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "version: 1")
}
