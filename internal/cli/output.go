package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // compiled cleanly, all scenarios passed
	ExitFailure      = 1 // problems recorded or scenarios failed
	ExitCommandError = 2 // configuration rejected, missing file, bad flag
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode maps err to a process exit code. Errors that are not an
// ExitError count as failures.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// CLIResponse is the envelope of every structured (json or yaml) output.
type CLIResponse struct {
	Status string    `json:"status" yaml:"status"` // "ok" or "error"
	Data   any       `json:"data,omitempty" yaml:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty" yaml:"error,omitempty"`
	LoadID string    `json:"load_id,omitempty" yaml:"load_id,omitempty"`
}

// CLIError describes why a command failed. Code is either a compiler code
// (E001, E010, ...), a loader code (E000, E003-E007) or a command outcome
// such as E_PROBLEMS.
type CLIError struct {
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
	Line    int    `json:"line,omitempty" yaml:"line,omitempty"`
	Details any    `json:"details,omitempty" yaml:"details,omitempty"`
}

// OutputFormatter writes command results as text, JSON or YAML.
type OutputFormatter struct {
	Format string
	Writer io.Writer
	// Diag receives verbose diagnostics. Keeping them off Writer leaves
	// structured output parseable. Nil means Writer.
	Diag    io.Writer
	Verbose bool
}

// Structured reports whether the formatter emits machine-readable output.
func (f *OutputFormatter) Structured() bool {
	return f.Format == "json" || f.Format == "yaml"
}

// Encode writes resp in the configured structured format.
func (f *OutputFormatter) Encode(resp CLIResponse) error {
	if f.Format == "yaml" {
		enc := yaml.NewEncoder(f.Writer)
		enc.SetIndent(2)
		if err := enc.Encode(resp); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

// OK encodes a successful response. It is a no-op in text mode, where
// each command prints its own rendering.
func (f *OutputFormatter) OK(data any, loadID string) error {
	if !f.Structured() {
		return nil
	}
	return f.Encode(CLIResponse{Status: "ok", Data: data, LoadID: loadID})
}

// Fail reports e. Structured output carries data alongside the error;
// text output is a single "✗ CODE: message" line.
func (f *OutputFormatter) Fail(e CLIError, data any) error {
	if f.Structured() {
		return f.Encode(CLIResponse{Status: "error", Data: data, Error: &e})
	}
	_, err := fmt.Fprintf(f.Writer, "✗ %s: %s\n", e.Code, e.Message)
	return err
}

// VerboseLog writes a diagnostic line when verbose output is enabled.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.diag(), format+"\n", args...)
}

func (f *OutputFormatter) diag() io.Writer {
	if f.Diag != nil {
		return f.Diag
	}
	return f.Writer
}
