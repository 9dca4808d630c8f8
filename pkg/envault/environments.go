package envault

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

func environmentPath(projectID, environment string) string {
	return "/v1/projects/" + url.PathEscape(projectID) + "/environments/" + url.PathEscape(environment)
}

// ListEnvironments returns a project's environments in service order.
func (c *Client) ListEnvironments(ctx context.Context, projectID string) ([]Environment, error) {
	raw, err := c.do(ctx, http.MethodGet, "/v1/projects/"+url.PathEscape(projectID)+"/environments", nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data []Environment `json:"data"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return resp.Data, nil
}

// CreateEnvironment adds an environment to a project. inheritsFrom may name
// a sibling environment whose values this one falls back to, or be empty.
func (c *Client) CreateEnvironment(ctx context.Context, projectID, name, inheritsFrom string) (*Environment, error) {
	body := struct {
		Name         string `json:"name"`
		InheritsFrom string `json:"inherits_from,omitempty"`
	}{Name: name, InheritsFrom: inheritsFrom}

	raw, err := c.do(ctx, http.MethodPost, "/v1/projects/"+url.PathEscape(projectID)+"/environments", body)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data Environment `json:"data"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &resp.Data, nil
}

// UpdateEnvironment renames an environment or changes its inheritance
// parent.
func (c *Client) UpdateEnvironment(ctx context.Context, projectID, environment, newName, inheritsFrom string) (*Environment, error) {
	body := struct {
		Name         string `json:"name,omitempty"`
		InheritsFrom string `json:"inherits_from,omitempty"`
	}{Name: newName, InheritsFrom: inheritsFrom}

	raw, err := c.do(ctx, http.MethodPut, environmentPath(projectID, environment), body)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data Environment `json:"data"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &resp.Data, nil
}

// DeleteEnvironment removes an environment and its secrets, and drops the
// pair's cached export.
func (c *Client) DeleteEnvironment(ctx context.Context, projectID, environment string) error {
	if _, err := c.do(ctx, http.MethodDelete, environmentPath(projectID, environment), nil); err != nil {
		return err
	}
	c.cache.invalidate(projectID, environment)
	return nil
}
