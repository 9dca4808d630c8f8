package envault

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// ListProjects returns every project the caller can see.
func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	raw, err := c.do(ctx, http.MethodGet, "/v1/projects", nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data []Project `json:"data"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return resp.Data, nil
}

// GetProject returns one project together with its environments.
func (c *Client) GetProject(ctx context.Context, projectID string) (*ProjectWithEnvironments, error) {
	raw, err := c.do(ctx, http.MethodGet, "/v1/projects/"+url.PathEscape(projectID), nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data ProjectWithEnvironments `json:"data"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &resp.Data, nil
}

// CreateProject creates a project owned by the caller's team.
func (c *Client) CreateProject(ctx context.Context, name, description string) (*Project, error) {
	body := struct {
		Name        string `json:"name"`
		Description string `json:"description,omitempty"`
	}{Name: name, Description: description}

	raw, err := c.do(ctx, http.MethodPost, "/v1/projects", body)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data Project `json:"data"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &resp.Data, nil
}

// UpdateProject renames a project or changes its description. Empty fields
// are left untouched by the service.
func (c *Client) UpdateProject(ctx context.Context, projectID, name, description string) (*Project, error) {
	body := struct {
		Name        string `json:"name,omitempty"`
		Description string `json:"description,omitempty"`
	}{Name: name, Description: description}

	raw, err := c.do(ctx, http.MethodPut, "/v1/projects/"+url.PathEscape(projectID), body)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data Project `json:"data"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &resp.Data, nil
}

// DeleteProject removes a project and everything under it. The project's
// cached exports are dropped as well.
func (c *Client) DeleteProject(ctx context.Context, projectID string) error {
	if _, err := c.do(ctx, http.MethodDelete, "/v1/projects/"+url.PathEscape(projectID), nil); err != nil {
		return err
	}
	c.cache.invalidateProject(projectID)
	return nil
}
