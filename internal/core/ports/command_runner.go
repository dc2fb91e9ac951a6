// Package ports defines the core interfaces for the application.
package ports

import "context"

// ExecResult is the outcome of an external program that ran to completion.
type ExecResult struct {
	// Code is the process exit code.
	Code   int
	Stdout string
	Stderr string
}

// Success reports whether the program exited with code 0.
func (r ExecResult) Success() bool {
	return r.Code == 0
}

// CommandRunner runs external programs such as the version control client.
//
//go:generate go run go.uber.org/mock/mockgen -source=command_runner.go -destination=mocks/mock_command_runner.go -package=mocks
type CommandRunner interface {
	// Run executes name with args in dir and captures its output.
	//
	// A non-zero exit is reported through ExecResult.Code, not as an error.
	// An error means the program could not be started at all.
	Run(ctx context.Context, dir, name string, args ...string) (ExecResult, error)
}
