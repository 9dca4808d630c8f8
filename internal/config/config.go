package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	enverrors "github.com/systmms/envault/internal/errors"
	"github.com/systmms/envault/internal/logging"
	"github.com/systmms/envault/internal/secure"
	"github.com/systmms/envault/pkg/envault"
)

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = "envault.yaml"

// EnvToken supplies the API token when no flag is set and the keyring holds
// no entry.
const EnvToken = "ENVAULT_TOKEN"

// Config holds the runtime configuration
type Config struct {
	Path           string
	Logger         *logging.Logger
	NonInteractive bool
	Definition     *Definition

	// token is resolved lazily and held in protected memory until the
	// client is constructed.
	token *secure.Token
}

// Definition represents the envault.yaml structure
type Definition struct {
	Version         int    `yaml:"version" json:"version"`
	Project         string `yaml:"project" json:"project"`
	Environment     string `yaml:"environment,omitempty" json:"environment,omitempty"`
	APIURL          string `yaml:"api_url,omitempty" json:"api_url,omitempty"`
	TimeoutMs       int    `yaml:"timeout_ms,omitempty" json:"timeout_ms,omitempty"`
	CacheTTLSeconds int    `yaml:"cache_ttl_seconds,omitempty" json:"cache_ttl_seconds,omitempty"`

	// Render configures the default output of 'envault render'.
	Render RenderConfig `yaml:"render,omitempty" json:"render,omitempty"`
}

// RenderConfig holds defaults for rendered dotenv files
type RenderConfig struct {
	Out string `yaml:"out,omitempty" json:"out,omitempty"`
}

// schema validates envault.yaml before any field is trusted.
const schema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["version", "project"],
	"properties": {
		"version": {"type": "integer", "enum": [1]},
		"project": {"type": "string", "minLength": 1},
		"environment": {"type": "string"},
		"api_url": {"type": "string"},
		"timeout_ms": {"type": "integer", "minimum": 1},
		"cache_ttl_seconds": {"type": "integer"},
		"render": {
			"type": "object",
			"properties": {
				"out": {"type": "string"}
			},
			"additionalProperties": false
		}
	},
	"additionalProperties": false
}`

// Load reads, validates and parses the envault.yaml file
func (c *Config) Load() error {
	if c.Path == "" {
		c.Path = DefaultPath
	}

	data, err := os.ReadFile(c.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return enverrors.ConfigError{
				Field:      "path",
				Value:      c.Path,
				Message:    "configuration file not found",
				Suggestion: "Run 'envault init' to create a new configuration file",
			}
		}
		return enverrors.UserError{
			Message:    "Failed to read configuration file",
			Details:    err.Error(),
			Suggestion: "Check file permissions and path",
			Err:        err,
		}
	}

	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return enverrors.ConfigError{
			Message:    "invalid YAML syntax in configuration file",
			Suggestion: "Check for indentation errors, missing quotes, or invalid characters. Use a YAML validator",
		}
	}

	if err := validateSchema(raw); err != nil {
		return err
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return enverrors.ConfigError{
			Message:    "invalid configuration structure",
			Suggestion: "Compare your file against the output of 'envault init'",
		}
	}

	c.Definition = &def
	return nil
}

// validateSchema checks the parsed document against the embedded JSON
// schema and reports every violation at once.
func validateSchema(doc interface{}) error {
	jsonData, err := json.Marshal(normalizeYAML(doc))
	if err != nil {
		return fmt.Errorf("failed to marshal config for validation: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(jsonData),
	)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		var messages []string
		for _, desc := range result.Errors() {
			messages = append(messages, desc.String())
		}
		return enverrors.ConfigError{
			Message:    "invalid envault.yaml:\n  - " + strings.Join(messages, "\n  - "),
			Suggestion: "Fix the listed fields or regenerate the file with 'envault init'",
		}
	}
	return nil
}

// normalizeYAML rewrites map[interface{}]interface{} trees into
// map[string]interface{} so they can be marshaled to JSON.
func normalizeYAML(v interface{}) interface{} {
	switch value := v.(type) {
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(value))
		for k, item := range value {
			m[fmt.Sprint(k)] = normalizeYAML(item)
		}
		return m
	case map[string]interface{}:
		m := make(map[string]interface{}, len(value))
		for k, item := range value {
			m[k] = normalizeYAML(item)
		}
		return m
	case []interface{}:
		s := make([]interface{}, len(value))
		for i, item := range value {
			s[i] = normalizeYAML(item)
		}
		return s
	default:
		return v
	}
}

// SetToken stores a resolved token in protected memory.
func (c *Config) SetToken(token string) {
	c.token = secure.NewToken(token)
}

// Token returns the resolved API token, consulting the ENVAULT_TOKEN
// environment variable when none was set explicitly.
func (c *Config) Token() (string, error) {
	if c.token != nil {
		return c.token.Reveal()
	}
	if tok := os.Getenv(EnvToken); tok != "" {
		return tok, nil
	}
	return "", enverrors.UserError{
		Message:    "No API token configured",
		Suggestion: "Run 'envault login' to store a token, or set " + EnvToken,
	}
}

// NewClient builds an SDK client from the loaded definition and resolved
// token.
func (c *Config) NewClient() (*envault.Client, error) {
	token, err := c.Token()
	if err != nil {
		return nil, err
	}

	cfg := envault.Config{Token: token}
	if c.Definition != nil {
		cfg.BaseURL = c.Definition.APIURL
		if c.Definition.TimeoutMs > 0 {
			cfg.Timeout = time.Duration(c.Definition.TimeoutMs) * time.Millisecond
		}
		if c.Definition.CacheTTLSeconds != 0 {
			cfg.CacheTTL = time.Duration(c.Definition.CacheTTLSeconds) * time.Second
		}
	}
	return envault.New(cfg)
}

// Project returns the configured project id.
func (c *Config) Project() (string, error) {
	if c.Definition == nil || c.Definition.Project == "" {
		return "", enverrors.ConfigError{
			Field:      "project",
			Message:    "no project configured",
			Suggestion: "Set 'project' in envault.yaml or pass --project",
		}
	}
	return c.Definition.Project, nil
}

// Environment returns the environment to operate on, preferring the
// explicit flag value over the config file default.
func (c *Config) Environment(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if c.Definition != nil && c.Definition.Environment != "" {
		return c.Definition.Environment, nil
	}
	return "", enverrors.ConfigError{
		Field:      "environment",
		Message:    "no environment configured",
		Suggestion: "Set 'environment' in envault.yaml or pass --env",
	}
}
