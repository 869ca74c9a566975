package harness

import (
	"github.com/roach88/winrule/internal/compiler"
	"github.com/roach88/winrule/internal/report"
)

// LogEvent is one log line emitted while compiling a scenario.
type LogEvent struct {
	Level   string `json:"level"`
	Event   string `json:"event,omitempty"`
	Option  string `json:"option,omitempty"`
	Line    int    `json:"line,omitempty"`
	Message string `json:"message"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	Pass bool `json:"pass"`

	// Summary is the compiled configuration. Nil when compilation failed.
	Summary *report.Summary `json:"summary,omitempty"`

	// Fatal is the error that aborted compilation, if any.
	Fatal *compiler.CompileError `json:"-"`

	// Events are the log lines emitted during compilation, in order.
	Events []LogEvent `json:"events"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	compiled *compiler.Result
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Events: []LogEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// CountEvents returns the number of log lines carrying event.
func (r *Result) CountEvents(event string) int {
	n := 0
	for _, e := range r.Events {
		if e.Event == event {
			n++
		}
	}
	return n
}
