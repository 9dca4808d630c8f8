package envault

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

func secretsPath(projectID, environment string) string {
	return environmentPath(projectID, environment) + "/secrets"
}

func secretPath(projectID, environment, key string) string {
	return secretsPath(projectID, environment) + "/" + url.PathEscape(key)
}

// ListSecrets returns secret metadata for an environment. Values are never
// included; use GetSecret or ExportSecrets for those.
func (c *Client) ListSecrets(ctx context.Context, projectID, environment string) ([]Secret, error) {
	raw, err := c.do(ctx, http.MethodGet, secretsPath(projectID, environment), nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data []Secret `json:"data"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return resp.Data, nil
}

// GetSecret returns one secret with its decrypted value. InheritedFrom is
// set when the value was resolved from an ancestor environment.
func (c *Client) GetSecret(ctx context.Context, projectID, environment, key string) (*SecretWithValue, error) {
	raw, err := c.do(ctx, http.MethodGet, secretPath(projectID, environment, key), nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data SecretWithValue `json:"data"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &resp.Data, nil
}

// CreateSecret creates a secret at version 1. The key must be unique within
// the environment.
func (c *Client) CreateSecret(ctx context.Context, projectID, environment, key, value, description string) (*Secret, error) {
	body := struct {
		Key         string `json:"key"`
		Value       string `json:"value"`
		Description string `json:"description,omitempty"`
	}{Key: key, Value: value, Description: description}

	raw, err := c.do(ctx, http.MethodPost, secretsPath(projectID, environment), body)
	if err != nil {
		return nil, err
	}
	c.cache.invalidate(projectID, environment)

	var resp struct {
		Data Secret `json:"data"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &resp.Data, nil
}

// UpdateSecret replaces a secret's value, bumping its version by one. The
// previous value moves into the secret's history.
func (c *Client) UpdateSecret(ctx context.Context, projectID, environment, key, value, description string) (*Secret, error) {
	body := struct {
		Value       string `json:"value"`
		Description string `json:"description,omitempty"`
	}{Value: value, Description: description}

	raw, err := c.do(ctx, http.MethodPut, secretPath(projectID, environment, key), body)
	if err != nil {
		return nil, err
	}
	c.cache.invalidate(projectID, environment)

	var resp struct {
		Data Secret `json:"data"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &resp.Data, nil
}

// SetSecret upserts a secret. It tries an update first and falls back to a
// create only when the update fails with a 404; most calls target keys that
// already exist, so the optimistic update saves a round-trip. Any other
// update failure propagates untouched.
func (c *Client) SetSecret(ctx context.Context, projectID, environment, key, value, description string) (*Secret, error) {
	secret, err := c.UpdateSecret(ctx, projectID, environment, key, value, description)
	if err == nil {
		return secret, nil
	}
	if !IsNotFound(err) {
		return nil, err
	}
	return c.CreateSecret(ctx, projectID, environment, key, value, description)
}

// DeleteSecret removes a secret and its history.
func (c *Client) DeleteSecret(ctx context.Context, projectID, environment, key string) error {
	if _, err := c.do(ctx, http.MethodDelete, secretPath(projectID, environment, key), nil); err != nil {
		return err
	}
	c.cache.invalidate(projectID, environment)
	return nil
}

// GetSecretHistory returns a secret's previous values, newest first. The
// current version is never part of the history.
func (c *Client) GetSecretHistory(ctx context.Context, projectID, environment, key string) ([]SecretVersion, error) {
	raw, err := c.do(ctx, http.MethodGet, secretPath(projectID, environment, key)+"/history", nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		History []SecretVersion `json:"history"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return resp.History, nil
}

// BulkImport sends a batch of secrets in one request. The service decides
// per-item whether to create, update or skip; existing keys are only
// updated when overwrite is set.
func (c *Client) BulkImport(ctx context.Context, projectID, environment string, secrets []BulkSecret, overwrite bool) (*BulkImportResult, error) {
	body := struct {
		Secrets   []BulkSecret `json:"secrets"`
		Overwrite bool         `json:"overwrite"`
	}{Secrets: secrets, Overwrite: overwrite}

	raw, err := c.do(ctx, http.MethodPost, secretsPath(projectID, environment)+"/import", body)
	if err != nil {
		return nil, err
	}
	c.cache.invalidate(projectID, environment)

	var resp struct {
		Data BulkImportResult `json:"data"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &resp.Data, nil
}
