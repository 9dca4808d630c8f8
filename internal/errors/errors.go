package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/systmms/envault/pkg/envault"
)

// UserError represents an error that should be shown to the user with helpful context
type UserError struct {
	Message    string
	Suggestion string
	Details    string
	Err        error
}

func (e UserError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	if e.Details != "" {
		parts = append(parts, "\n  Details: "+e.Details)
	}

	if e.Suggestion != "" {
		parts = append(parts, "\n  💡 Try: "+e.Suggestion)
	}

	return strings.Join(parts, "")
}

func (e UserError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error with helpful context
type ConfigError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
}

func (e ConfigError) Error() string {
	msg := "Configuration error"
	if e.Field != "" {
		msg += fmt.Sprintf(" in field '%s'", e.Field)
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	msg += ": " + e.Message

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

// CommandError represents a command execution error
type CommandError struct {
	Command    string
	ExitCode   int
	Message    string
	Suggestion string
}

func (e CommandError) Error() string {
	msg := fmt.Sprintf("Command '%s' failed", e.Command)
	if e.ExitCode != 0 {
		msg += fmt.Sprintf(" (exit code: %d)", e.ExitCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

// WrapCommandNotFound wraps command not found errors with a helpful suggestion
func WrapCommandNotFound(command string, err error) error {
	return CommandError{
		Command:    command,
		Message:    "command not found",
		Suggestion: fmt.Sprintf("Make sure '%s' is installed and in your PATH", command),
	}
}

// FromAPI converts an Envault API error into a user-facing error with a
// suggestion matched to the failure category.
func FromAPI(operation string, err error) error {
	if err == nil {
		return nil
	}

	var apiErr *envault.APIError
	if !errors.As(err, &apiErr) {
		return err
	}

	suggestion := ""
	switch {
	case envault.IsUnauthorized(err):
		suggestion = "Run 'envault login' to store a valid token, or set ENVAULT_TOKEN"
	case envault.IsForbidden(err):
		suggestion = "Ask a project admin to grant your user access to this environment"
	case envault.IsNotFound(err):
		suggestion = "Check the project id, environment and key. Use 'envault projects list' and 'envault secrets list' to browse"
	case envault.IsTimeout(err):
		suggestion = "The request timed out. Check your network connection and try again"
	case envault.IsNetworkError(err):
		suggestion = "Unable to reach the Envault API. Check your network and the api_url setting"
	}

	return UserError{
		Message:    fmt.Sprintf("Failed to %s", operation),
		Details:    apiErr.Message,
		Suggestion: suggestion,
		Err:        err,
	}
}
