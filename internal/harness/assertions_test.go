package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/winrule/internal/compiler"
	"github.com/roach88/winrule/internal/report"
)

func TestAssertionErrorFormat(t *testing.T) {
	err := &AssertionError{
		Type:     AssertMode,
		Expected: "unified",
		Actual:   "legacy",
	}
	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: mode")
	assert.Contains(t, msg, "Expected: unified")
	assert.Contains(t, msg, "Actual: legacy")
	assert.NotContains(t, msg, "Compilation failed")

	err.Fatal = "[E021] vsync: bad"
	assert.Contains(t, err.Error(), "Compilation failed: [E021] vsync: bad")
}

func TestEvaluateAssertionsOnFatal(t *testing.T) {
	result := NewResult()
	result.Fatal = &compiler.CompileError{Field: "vsync", Code: compiler.ErrCodeVsyncString, Message: "bad"}

	errs := EvaluateAssertions(result, []Assertion{
		{Type: AssertFatal, Code: "E021"},
		{Type: AssertFatal, Code: "E020"},
		{Type: AssertMode, Value: "legacy"},
		{Type: AssertLogCount, Event: "both_styles", Count: 0},
	})
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], "Expected: error E020")
	assert.Contains(t, errs[0], "Actual: error E021")
	assert.Contains(t, errs[1], "compilation failed")
}

func TestEvaluateProblemsAndLegacyCount(t *testing.T) {
	result := NewResult()
	result.Summary = &report.Summary{
		Mode:     report.ModeLegacy,
		Problems: []string{"shadow-exclude"},
		Legacy: []report.LegacyList{
			{Option: "fade-exclude", Entries: []report.LegacyEntry{{Match: "focused"}}},
		},
	}
	result.Events = []LogEvent{{Event: "entry_rejected"}, {Event: "entry_rejected"}, {}}

	errs := EvaluateAssertions(result, []Assertion{
		{Type: AssertProblems, Options: []string{"shadow-exclude"}},
		{Type: AssertProblems},
		{Type: AssertLegacyCount, Option: "fade-exclude", Count: 1},
		{Type: AssertLegacyCount, Option: "opacity-rule", Count: 0},
		{Type: AssertLegacyCount, Option: "opacity-rule", Count: 2},
		{Type: AssertLogCount, Event: "entry_rejected", Count: 2},
	})
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], "Expected: []")
	assert.Contains(t, errs[1], "legacy_count opacity-rule")
}

func TestCountEvents(t *testing.T) {
	r := NewResult()
	assert.Equal(t, 0, r.CountEvents("x"))
	r.Events = append(r.Events, LogEvent{Event: "x"}, LogEvent{Event: "y"}, LogEvent{Event: "x"})
	assert.Equal(t, 2, r.CountEvents("x"))

	r.AddError("boom")
	assert.False(t, r.Pass)
	assert.Equal(t, []string{"boom"}, r.Errors)
}
