package envault

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Me returns the principal behind the configured token, either a user or a
// service token.
func (c *Client) Me(ctx context.Context) (*User, error) {
	raw, err := c.do(ctx, http.MethodGet, "/v1/auth/me", nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data User `json:"data"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &resp.Data, nil
}
