package testutil

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogCapture collects JSON log lines written through the global logger.
type LogCapture struct {
	buf bytes.Buffer
}

// CaptureLogs redirects the global logger into a buffer at trace level
// until the test ends. Loggers must be created after the call, since
// components copy the global logger when they are constructed.
func CaptureLogs(t *testing.T) *LogCapture {
	t.Helper()
	c := &LogCapture{}
	prevLogger := log.Logger
	prevLevel := zerolog.GlobalLevel()
	log.Logger = zerolog.New(&c.buf)
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})
	return c
}

// Entries decodes every captured line.
func (c *LogCapture) Entries() []map[string]any {
	var out []map[string]any
	sc := bufio.NewScanner(bytes.NewReader(c.buf.Bytes()))
	for sc.Scan() {
		var m map[string]any
		if json.Unmarshal(sc.Bytes(), &m) == nil {
			out = append(out, m)
		}
	}
	return out
}

// At returns the entries logged at level ("warn", "error", ...).
func (c *LogCapture) At(level string) []map[string]any {
	var out []map[string]any
	for _, e := range c.Entries() {
		if e[zerolog.LevelFieldName] == level {
			out = append(out, e)
		}
	}
	return out
}

// With returns the entries whose field key equals value.
func (c *LogCapture) With(key string, value any) []map[string]any {
	var out []map[string]any
	for _, e := range c.Entries() {
		if e[key] == value {
			out = append(out, e)
		}
	}
	return out
}

// String returns the raw captured output.
func (c *LogCapture) String() string { return c.buf.String() }
