package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/winrule/internal/compiler"
	"github.com/roach88/winrule/internal/report"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid      bool                   `json:"valid" yaml:"valid"`
	Mode       string                 `json:"mode,omitempty" yaml:"mode,omitempty"`
	Problems   []string               `json:"problems" yaml:"problems"`
	Deprecated []compiler.Deprecation `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <config>",
		Short: "Check a configuration for problems",
		Long: `Compile a configuration and report every option that was ignored,
clamped or is deprecated, without printing the compiled result.

Exit codes:
  0 - No problems
  1 - The configuration compiles but problems were recorded
  2 - The configuration was rejected (or could not be read)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	res, loaded, err := compileConfig(path, nil)
	if err != nil {
		return outputCompileError(formatter, err)
	}
	defer res.Close()

	formatter.VerboseLog("Validated %d CUE file(s) from %s", len(loaded.Files), loaded.Dir)

	summary := report.Summarize(res)
	result := ValidationResult{
		Valid:      len(summary.Problems) == 0,
		Mode:       summary.Mode,
		Problems:   summary.Problems,
		Deprecated: summary.Deprecated,
	}

	if result.Valid {
		return outputValidateSuccess(formatter, result)
	}
	return outputValidationProblems(formatter, result)
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Structured() {
		return formatter.OK(result, "")
	}

	fmt.Fprintf(formatter.Writer, "✓ Configuration valid (%s mode)\n", result.Mode)
	return nil
}

// outputValidationProblems outputs the recorded problems.
func outputValidationProblems(formatter *OutputFormatter, result ValidationResult) error {
	msg := fmt.Sprintf("%d problem(s) found", len(result.Problems))

	if formatter.Structured() {
		if err := formatter.Fail(CLIError{Code: "E_PROBLEMS", Message: msg}, result); err != nil {
			return err
		}
		// Validation failures = exit code 1
		return NewExitError(ExitFailure, msg)
	}

	fmt.Fprintf(formatter.Writer, "✗ %s (%s mode)\n\n", msg, result.Mode)
	for _, p := range result.Problems {
		fmt.Fprintf(formatter.Writer, "  - %s\n", p)
	}
	for _, d := range result.Deprecated {
		fmt.Fprintf(formatter.Writer, "  deprecated: %s\n", d.Option)
	}

	// Validation failures = exit code 1
	return NewExitError(ExitFailure, msg)
}
