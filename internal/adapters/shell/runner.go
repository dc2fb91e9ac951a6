// Package shell provides the command runner adapter.
package shell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"slices"
	"strings"

	"go.trai.ch/lockmend/internal/core/domain"
	"go.trai.ch/lockmend/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.CommandRunner = (*Runner)(nil)

// commandEnv is applied on top of the process environment for every command.
// Output must not depend on the user's locale, pager or credential prompts.
var commandEnv = map[string]string{
	"LC_ALL":              "C",
	"GIT_PAGER":           "cat",
	"GIT_TERMINAL_PROMPT": "0",
}

// Runner implements ports.CommandRunner using os/exec.
type Runner struct {
	logger ports.Logger
	env    map[string]string
}

// NewRunner creates a new Runner.
func NewRunner(logger ports.Logger) *Runner {
	return &Runner{
		logger: logger,
		env:    commandEnv,
	}
}

// Run executes name with args in dir and captures stdout and stderr separately.
func (r *Runner) Run(ctx context.Context, dir, name string, args ...string) (ports.ExecResult, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec // binary comes from configuration
	cmd.Dir = dir
	cmd.Env = resolveEnvironment(os.Environ(), r.env)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("exec: " + name + " " + strings.Join(args, " "))

	err := cmd.Run()
	result := ports.ExecResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return result, ctxErr
			}
			wrapped := zerr.Wrap(err, domain.ErrCommandStartFailed.Error())
			wrapped = zerr.With(wrapped, "command", name)
			return result, zerr.With(wrapped, "dir", dir)
		}
		result.Code = exitErr.ExitCode()
		if result.Code < 0 {
			// Killed by a signal, usually the context being cancelled.
			if ctxErr := ctx.Err(); ctxErr != nil {
				return result, ctxErr
			}
		}
	}

	if !result.Success() {
		r.logger.Debug("exec: " + name + " exited with " + exitText(result))
	}

	return result, nil
}

func exitText(r ports.ExecResult) string {
	msg := strings.TrimSpace(r.Stderr)
	if msg == "" {
		return "no output"
	}
	return msg
}

// resolveEnvironment merges overrides into the base environment. Overrides win.
func resolveEnvironment(base []string, overrides map[string]string) []string {
	envMap := make(map[string]string, len(base)+len(overrides))
	for _, entry := range base {
		if k, v, ok := strings.Cut(entry, "="); ok {
			envMap[k] = v
		}
	}
	for k, v := range overrides {
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	slices.Sort(result)
	return result
}
