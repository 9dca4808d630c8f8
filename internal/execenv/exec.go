package execenv

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
	"syscall"
	"time"

	enverrors "github.com/systmms/envault/internal/errors"
	"github.com/systmms/envault/internal/logging"
)

// Executor runs commands with exported secrets injected as ephemeral
// environment variables. The secrets never touch the parent process
// environment or the filesystem.
type Executor struct {
	logger *logging.Logger
}

// New creates a new executor
func New(logger *logging.Logger) *Executor {
	return &Executor{
		logger: logger,
	}
}

// ExecOptions configures command execution
type ExecOptions struct {
	Command       []string          // Command and arguments to run
	Secrets       map[string]string // Exported secrets to inject
	AllowOverride bool              // Let existing env vars win over exported secrets
	PrintVars     bool              // Print injected variables (values masked)
	WorkingDir    string            // Working directory for the command
	Timeout       int               // Timeout in seconds (0 for no timeout)
}

// Exec runs a command with the provided secrets in its environment
func (e *Executor) Exec(ctx context.Context, options ExecOptions) error {
	if len(options.Command) == 0 {
		return enverrors.UserError{
			Message:    "No command specified",
			Suggestion: "Provide a command after -- (e.g., envault exec --env production -- npm start)",
		}
	}

	if options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(options.Timeout)*time.Second)
		defer cancel()
	}

	cmdName := options.Command[0]
	if _, err := exec.LookPath(cmdName); err != nil {
		return enverrors.WrapCommandNotFound(cmdName, err)
	}

	env := buildEnvironment(options.Secrets, options.AllowOverride)

	if options.PrintVars {
		e.printSecrets(options.Secrets)
	}

	cmd := exec.CommandContext(ctx, cmdName, options.Command[1:]...)
	cmd.Env = env
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	if options.WorkingDir != "" {
		cmd.Dir = options.WorkingDir
	}

	e.logger.Debug("Executing command: %s", strings.Join(options.Command, " "))
	e.logger.Debug("Secrets injected: %d", len(options.Secrets))

	if err := cmd.Run(); err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			// Preserve the exit code from the child process
			if status, ok := exitError.Sys().(syscall.WaitStatus); ok {
				os.Exit(status.ExitStatus())
			}
			os.Exit(1)
		}
		return enverrors.CommandError{
			Command:    strings.Join(options.Command, " "),
			Message:    err.Error(),
			Suggestion: "Check the command output above for details",
		}
	}

	return nil
}

// buildEnvironment merges the parent environment with the injected secrets
func buildEnvironment(secrets map[string]string, allowOverride bool) []string {
	envMap := make(map[string]string)
	for _, env := range os.Environ() {
		parts := strings.SplitN(env, "=", 2)
		if len(parts) == 2 {
			envMap[parts[0]] = parts[1]
		}
	}

	for key, value := range secrets {
		if allowOverride {
			// Existing variables win
			if _, exists := envMap[key]; !exists {
				envMap[key] = value
			}
		} else {
			envMap[key] = value
		}
	}

	result := make([]string, 0, len(envMap))
	for key, value := range envMap {
		result = append(result, fmt.Sprintf("%s=%s", key, value))
	}

	// Sort for consistent ordering (helps with debugging)
	sort.Strings(result)

	return result
}

// printSecrets displays the injected variables with values masked
func (e *Executor) printSecrets(secrets map[string]string) {
	if len(secrets) == 0 {
		fmt.Println("No secrets injected")
		return
	}

	fmt.Printf("Injecting %d environment variables:\n", len(secrets))

	keys := make([]string, 0, len(secrets))
	for key := range secrets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		fmt.Printf("  %s=%s\n", key, MaskValue(secrets[key]))
	}
	fmt.Println()
}

// MaskValue masks a secret value for display
func MaskValue(value string) string {
	if len(value) == 0 {
		return "(empty)"
	}
	if len(value) <= 3 {
		return strings.Repeat("*", len(value))
	}
	if len(value) <= 8 {
		return value[:1] + strings.Repeat("*", len(value)-2) + value[len(value)-1:]
	}
	return value[:3] + strings.Repeat("*", 8) + value[len(value)-2:]
}
