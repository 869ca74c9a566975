package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/winrule/internal/compiler"
	"github.com/roach88/winrule/internal/report"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path

	ids compiler.LoadIDGenerator
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <config>",
		Short: "Compile a configuration and print its summary",
		Long: `Compile a configuration file (or a directory of .cue files) and
print what it compiles to: the rule list, the default animation bindings,
the legacy option lists and the problems found along the way.

Individual bad entries are logged and skipped. A configuration with a
structural problem is rejected and nothing is printed but the error.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the summary to a file (.json, .yaml or .yml)")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	res, loaded, err := compileConfig(path, opts.ids)
	if err != nil {
		return outputCompileError(formatter, err)
	}
	defer res.Close()

	formatter.VerboseLog("Loaded %d CUE file(s) from %s", len(loaded.Files), loaded.Dir)

	summary := report.Summarize(res)

	if opts.Output != "" {
		if err := writeSummaryToFile(summary, opts.Output); err != nil {
			_ = formatter.Fail(CLIError{Code: ErrCodeWriteFailed, Message: err.Error()}, nil)
			return WrapExitError(ExitCommandError, "writing output file", err)
		}
	}

	return outputCompileSuccess(formatter, summary, opts.Output)
}

// outputCompileSuccess outputs the compiled summary.
func outputCompileSuccess(formatter *OutputFormatter, summary *report.Summary, outputFile string) error {
	if formatter.Structured() {
		return formatter.OK(summary, summary.LoadID)
	}

	if err := summary.WriteText(formatter.Writer); err != nil {
		return err
	}
	if outputFile != "" {
		fmt.Fprintf(formatter.Writer, "Wrote summary to %s\n", outputFile)
	}
	return nil
}

// outputCompileError reports a rejected configuration.
func outputCompileError(formatter *OutputFormatter, err error) error {
	desc := describeError(err)

	if formatter.Structured() {
		if encErr := formatter.Fail(desc, nil); encErr != nil {
			return encErr
		}
	} else {
		fmt.Fprintln(formatter.Writer, "✗ Compilation failed")
		fmt.Fprintln(formatter.Writer)
		if pos := errorPosition(err); pos != "" {
			fmt.Fprintln(formatter.Writer, pos)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n", desc.Code, desc.Message)
	}

	// Rejected configurations are command-level errors (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", desc.Code, desc.Message))
}

// writeSummaryToFile writes the summary as YAML for .yaml/.yml files and
// as indented JSON otherwise.
func writeSummaryToFile(summary *report.Summary, filename string) error {
	var (
		data []byte
		err  error
	)
	switch filepath.Ext(filename) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(summary)
	default:
		data, err = summary.JSON()
	}
	if err != nil {
		return fmt.Errorf("marshaling summary: %w", err)
	}

	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}
