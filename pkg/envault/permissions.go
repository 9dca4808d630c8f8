package envault

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// ListPermissions returns the explicit permission records of an
// environment. Users covered only by project defaults do not appear here.
func (c *Client) ListPermissions(ctx context.Context, projectID, environment string) ([]EnvironmentPermission, error) {
	raw, err := c.do(ctx, http.MethodGet, environmentPath(projectID, environment)+"/permissions", nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data []EnvironmentPermission `json:"data"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return resp.Data, nil
}

// SetPermission grants or replaces a user's role on an environment.
func (c *Client) SetPermission(ctx context.Context, projectID, environment, userID string, role Role) (*EnvironmentPermission, error) {
	body := struct {
		Role Role `json:"role"`
	}{Role: role}

	raw, err := c.do(ctx, http.MethodPut, environmentPath(projectID, environment)+"/permissions/"+url.PathEscape(userID), body)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data EnvironmentPermission `json:"data"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &resp.Data, nil
}

// DeletePermission removes a user's explicit permission record, dropping
// them back to the project default for that environment.
func (c *Client) DeletePermission(ctx context.Context, projectID, environment, userID string) error {
	_, err := c.do(ctx, http.MethodDelete, environmentPath(projectID, environment)+"/permissions/"+url.PathEscape(userID), nil)
	return err
}

// BulkSetPermissions applies a batch of grants across a project's
// environments in one request.
func (c *Client) BulkSetPermissions(ctx context.Context, projectID string, grants []PermissionGrant) ([]EnvironmentPermission, error) {
	body := struct {
		Permissions []PermissionGrant `json:"permissions"`
	}{Permissions: grants}

	raw, err := c.do(ctx, http.MethodPost, "/v1/projects/"+url.PathEscape(projectID)+"/permissions/bulk", body)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data []EnvironmentPermission `json:"data"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return resp.Data, nil
}

// MyPermissions returns the caller's effective role per environment of a
// project, plus the project-wide team-admin flag.
func (c *Client) MyPermissions(ctx context.Context, projectID string) (*MyPermissions, error) {
	raw, err := c.do(ctx, http.MethodGet, "/v1/projects/"+url.PathEscape(projectID)+"/permissions/me", nil)
	if err != nil {
		return nil, err
	}

	var resp MyPermissions
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &resp, nil
}

// GetProjectDefaults returns the default roles applied when no explicit
// permission record exists.
func (c *Client) GetProjectDefaults(ctx context.Context, projectID string) ([]ProjectDefault, error) {
	raw, err := c.do(ctx, http.MethodGet, "/v1/projects/"+url.PathEscape(projectID)+"/defaults", nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data []ProjectDefault `json:"data"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return resp.Data, nil
}

// SetProjectDefaults replaces a project's default roles.
func (c *Client) SetProjectDefaults(ctx context.Context, projectID string, defaults []DefaultGrant) ([]ProjectDefault, error) {
	body := struct {
		Defaults []DefaultGrant `json:"defaults"`
	}{Defaults: defaults}

	raw, err := c.do(ctx, http.MethodPut, "/v1/projects/"+url.PathEscape(projectID)+"/defaults", body)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data []ProjectDefault `json:"data"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return resp.Data, nil
}
