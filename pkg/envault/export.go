package envault

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ExportSecrets returns every secret of an environment with its resolved
// value, including values inherited from ancestor environments. When the
// client was built with a positive CacheTTL, results are served from the
// export cache within the TTL window.
func (c *Client) ExportSecrets(ctx context.Context, projectID, environment string) ([]SecretWithValue, error) {
	if secrets, ok := c.cache.get(projectID, environment); ok {
		recordCacheHit()
		return secrets, nil
	}
	recordCacheMiss()

	raw, err := c.do(ctx, http.MethodGet, environmentPath(projectID, environment)+"/export", nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Secrets []SecretWithValue `json:"secrets"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	c.cache.set(projectID, environment, resp.Secrets)
	return resp.Secrets, nil
}

// ExportSecretsAsMap returns the environment's secrets as a key→value map.
// Should the export ever contain duplicate keys, the last one wins.
func (c *Client) ExportSecretsAsMap(ctx context.Context, projectID, environment string) (map[string]string, error) {
	secrets, err := c.ExportSecrets(ctx, projectID, environment)
	if err != nil {
		return nil, err
	}

	values := make(map[string]string, len(secrets))
	for _, s := range secrets {
		values[s.Key] = s.Value
	}
	return values, nil
}

// LoadEnv exports the environment's secrets and writes each one into the
// configured EnvWriter (the process environment by default), overwriting
// existing variables of the same name. It returns the number of secrets
// loaded.
func (c *Client) LoadEnv(ctx context.Context, projectID, environment string) (int, error) {
	secrets, err := c.ExportSecrets(ctx, projectID, environment)
	if err != nil {
		return 0, err
	}

	for _, s := range secrets {
		if err := c.envWriter.Setenv(s.Key, s.Value); err != nil {
			return 0, fmt.Errorf("failed to set %s: %w", s.Key, err)
		}
	}
	return len(secrets), nil
}

// GenerateEnvFile exports the environment's secrets and renders them as a
// dotenv document: a three-line comment header followed by one KEY=value
// line per secret, ending with a trailing newline. Values that could be
// reinterpreted by a shell are quoted and escaped so the file can be
// sourced safely.
func (c *Client) GenerateEnvFile(ctx context.Context, projectID, environment string) (string, error) {
	secrets, err := c.ExportSecrets(ctx, projectID, environment)
	if err != nil {
		return "", err
	}

	lines := make([]string, 0, len(secrets)+3)
	lines = append(lines,
		"# Generated by envault",
		"# Environment: "+environment,
		"# Generated at: "+time.Now().UTC().Format(time.RFC3339),
	)
	for _, s := range secrets {
		lines = append(lines, s.Key+"="+quoteEnvValue(s.Value))
	}
	return strings.Join(lines, "\n") + "\n", nil
}

// quoteEnvValue renders a value for a dotenv line. Plain values pass
// through unquoted; anything containing whitespace, quotes, newlines or a
// dollar sign is double-quoted with those characters escaped.
func quoteEnvValue(value string) string {
	if !strings.ContainsAny(value, " \"'\n$") {
		return value
	}

	escaped := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
		`$`, `\$`,
	).Replace(value)
	return `"` + escaped + `"`
}
