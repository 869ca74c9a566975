package harness

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/roach88/winrule/internal/compiler"
	"github.com/roach88/winrule/internal/config"
	"github.com/roach88/winrule/internal/report"
	"github.com/roach88/winrule/internal/testutil"
)

// Run compiles a scenario's configuration and evaluates its assertions.
//
// Every scenario compiles with default settings and a fixed load ID, so the
// same scenario always produces the same summary. Shaders resolve against
// the scenario's directory.
//
// An error is returned only when the scenario itself cannot be executed.
// A configuration rejected by the compiler is a result, not an error:
// fatal assertions test exactly that.
func Run(scenario *Scenario) (*Result, error) {
	src, filename, err := scenarioSource(scenario)
	if err != nil {
		return nil, err
	}

	settings, err := config.Defaults()
	if err != nil {
		return nil, fmt.Errorf("failed to load default settings: %w", err)
	}

	v := cuecontext.New().CompileString(src, cue.Filename(filename))

	result := NewResult()
	events, compiled, compileErr := captureEvents(func() (*compiler.Result, error) {
		return compiler.Compile(v, compiler.Config{
			Settings:   settings,
			IncludeDir: scenario.dir,
			IDs:        testutil.NewFixedLoadIDGenerator(scenario.LoadID),
		})
	})
	result.Events = events

	if compileErr != nil {
		var ce *compiler.CompileError
		if !errors.As(compileErr, &ce) {
			return nil, fmt.Errorf("compile failed: %w", compileErr)
		}
		result.Fatal = ce
	} else {
		defer compiled.Close()
		result.compiled = compiled
		result.Summary = report.Summarize(compiled)
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

func scenarioSource(s *Scenario) (src, filename string, err error) {
	if s.ConfigFile == "" {
		return s.Config, s.Name + ".cue", nil
	}
	data, err := os.ReadFile(s.ConfigFile)
	if err != nil {
		return "", "", fmt.Errorf("failed to read config file: %w", err)
	}
	return string(data), filepath.Base(s.ConfigFile), nil
}

// captureEvents runs fn with the global logger writing JSON to a buffer,
// then decodes every line into a LogEvent.
func captureEvents(fn func() (*compiler.Result, error)) ([]LogEvent, *compiler.Result, error) {
	var buf bytes.Buffer
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	res, err := fn()

	log.Logger = prevLogger
	zerolog.SetGlobalLevel(prevLevel)

	events := []LogEvent{}
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		var e LogEvent
		if jerr := json.Unmarshal(sc.Bytes(), &e); jerr != nil {
			return nil, nil, fmt.Errorf("failed to decode log line: %w", jerr)
		}
		events = append(events, e)
	}
	return events, res, err
}
