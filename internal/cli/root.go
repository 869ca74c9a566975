package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/winrule/internal/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbosity int    // -v count: 1 info, 2 debug, 3 trace
	Format    string // "text" | "json" | "yaml"
}

// Verbose reports whether any -v was given.
func (o *RootOptions) Verbose() bool { return o.Verbosity > 0 }

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

// NewRootCommand creates the root command for the winrule CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "winrule",
		Short: "winrule - compositor window rule compiler",
		Long: `Compile compositor configuration files: window rules, animation
triggers and the legacy per-option condition lists they replace.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			logging.Setup(opts.Verbosity, cmd.ErrOrStderr())
			return nil
		},
	}

	cmd.PersistentFlags().CountVarP(&opts.Verbosity, "verbose", "v", "verbose output (repeat for more)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")

	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Diag:    cmd.ErrOrStderr(),
		Verbose: opts.Verbose(),
	}
}
