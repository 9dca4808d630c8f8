package envault

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
)

// errorEnvelope is the wire shape of every non-2xx response body.
type errorEnvelope struct {
	Error   string                 `json:"error"`
	Code    string                 `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// do issues one request and returns the raw response body, or nil for a 204.
// It never retries and never logs; every failure surfaces as an *APIError.
func (c *Client) do(ctx context.Context, method, path string, body interface{}) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())

	recordRequest(method)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			recordRequestError(StatusTimeout)
			return nil, &APIError{
				Message: fmt.Sprintf("request timed out after %s", c.timeout),
				Status:  StatusTimeout,
				Code:    "timeout",
				Err:     err,
			}
		}
		recordRequestError(StatusNetworkError)
		return nil, &APIError{
			Message: err.Error(),
			Status:  StatusNetworkError,
			Err:     err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		recordRequestError(StatusNetworkError)
		return nil, &APIError{
			Message: err.Error(),
			Status:  StatusNetworkError,
			Err:     err,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		recordRequestError(resp.StatusCode)
		return nil, apiErrorFromResponse(resp.StatusCode, raw)
	}

	return raw, nil
}

// apiErrorFromResponse builds the typed error from an error response body,
// falling back to the protocol status text when the body is not a
// well-formed error object.
func apiErrorFromResponse(status int, body []byte) *APIError {
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Error == "" {
		return &APIError{
			Message: http.StatusText(status),
			Status:  status,
		}
	}
	return &APIError{
		Message: envelope.Error,
		Status:  status,
		Code:    envelope.Code,
		Details: envelope.Details,
	}
}
