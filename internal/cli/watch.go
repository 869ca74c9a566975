package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/roach88/winrule/internal/compiler"
	"github.com/roach88/winrule/internal/logging"
	"github.com/roach88/winrule/internal/report"
)

// DefaultDebounce is how long the watcher waits after the last change
// before recompiling. Editors typically write a file in several steps.
const DefaultDebounce = 100 * time.Millisecond

// Watcher recompiles a configuration every time it changes on disk.
type Watcher struct {
	// Path is a configuration file or a directory of .cue files.
	Path     string
	Debounce time.Duration
	IDs      compiler.LoadIDGenerator

	log  zerolog.Logger
	last string
}

// WatchEvent is the outcome of one compile.
type WatchEvent struct {
	Summary     *report.Summary
	Err         error
	Fingerprint string
	// Unchanged is true when the configuration compiled to the same result
	// as the previous successful compile.
	Unchanged bool
}

// NewWatcher returns a watcher for path with the default debounce.
func NewWatcher(path string) *Watcher {
	return &Watcher{
		Path:     path,
		Debounce: DefaultDebounce,
		log:      logging.GetLogger("watch"),
	}
}

// Run compiles the configuration once, then again after every change,
// calling onCompile after each compile. It returns when ctx is cancelled.
func (w *Watcher) Run(ctx context.Context, onCompile func(WatchEvent)) error {
	info, err := os.Stat(w.Path)
	if err != nil {
		return &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("configuration not found: %s", w.Path)}
	}
	dir, file := w.Path, ""
	if !info.IsDir() {
		dir, file = filepath.Dir(w.Path), filepath.Base(w.Path)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer fw.Close()

	// Watch the directory rather than the file so editors that replace the
	// file by renaming keep being seen.
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	w.compile(onCompile)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event, file) {
				continue
			}
			w.log.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("configuration changed")
			if timer == nil {
				timer = time.NewTimer(w.Debounce)
			} else {
				timer.Reset(w.Debounce)
			}
			fire = timer.C
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn().Err(err).Msg("file watcher error")
		case <-fire:
			fire = nil
			w.compile(onCompile)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event, file string) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}
	base := filepath.Base(event.Name)
	if file != "" {
		return base == file
	}
	return filepath.Ext(base) == ".cue"
}

func (w *Watcher) compile(onCompile func(WatchEvent)) {
	res, _, err := compileConfig(w.Path, w.IDs)
	if err != nil {
		w.log.Warn().Err(err).Msg("configuration rejected, keeping the previous one")
		onCompile(WatchEvent{Err: err})
		return
	}
	defer res.Close()

	ev := WatchEvent{Summary: report.Summarize(res)}
	if fp, err := report.Fingerprint(ev.Summary); err == nil {
		ev.Fingerprint = fp
		ev.Unchanged = fp == w.last
		w.last = fp
	} else {
		w.log.Warn().Err(err).Msg("cannot fingerprint configuration")
	}
	w.log.Info().
		Str("load_id", ev.Summary.LoadID).
		Bool("unchanged", ev.Unchanged).
		Msg("configuration recompiled")
	onCompile(ev)
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch <config>",
		Short: "Recompile a configuration whenever it changes",
		Long: `Compile a configuration, then watch it and recompile after every
change, printing one line per compile. Stops on interrupt.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			w := NewWatcher(args[0])
			w.Debounce = debounce
			if err := w.Run(cmd.Context(), func(ev WatchEvent) {
				printWatchResult(formatter, ev)
			}); err != nil {
				return WrapExitError(ExitCommandError, "watch failed", err)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", DefaultDebounce, "delay after the last change before recompiling")

	return cmd
}

func printWatchResult(formatter *OutputFormatter, ev WatchEvent) {
	if ev.Err != nil {
		_ = formatter.Fail(describeError(ev.Err), nil)
		return
	}
	if formatter.Structured() {
		_ = formatter.OK(ev.Summary, ev.Summary.LoadID)
		return
	}
	s := ev.Summary
	if ev.Unchanged {
		fmt.Fprintf(formatter.Writer, "✓ [%s] unchanged\n", s.LoadID)
		return
	}
	fmt.Fprintf(formatter.Writer, "✓ [%s] %s mode, %d rule(s), %d script(s), %d problem(s)\n",
		s.LoadID, s.Mode, len(s.Rules), len(s.Scripts), len(s.Problems))
}
