package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/winrule/internal/ir"
	"github.com/roach88/winrule/internal/report"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
	Fatal    string // Fatal compile error, if compilation failed
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	if e.Fatal != "" {
		fmt.Fprintf(&buf, "\nCompilation failed: %s\n", e.Fatal)
	}
	return buf.String()
}

// EvaluateAssertions checks every assertion against result and returns the
// failure messages, in assertion order.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		var err error
		switch {
		case a.Type == AssertFatal:
			err = assertFatal(result, a)
		case a.Type == AssertLogCount:
			err = assertLogCount(result, a)
		case result.Summary == nil:
			err = &AssertionError{
				Type:     a.Type,
				Expected: "a compiled configuration",
				Actual:   "compilation failed",
				Fatal:    result.Fatal.Error(),
			}
		case a.Type == AssertMode:
			err = check(a.Type, a.Value, result.Summary.Mode)
		case a.Type == AssertRuleCount:
			err = check(a.Type, a.Count, len(result.Summary.Rules))
		case a.Type == AssertBound:
			err = assertBound(result, a)
		case a.Type == AssertUnbound:
			err = assertUnbound(result, a)
		case a.Type == AssertProblems:
			err = assertProblems(result.Summary, a)
		case a.Type == AssertLegacyCount:
			err = assertLegacyCount(result.Summary, a)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, a.Type)
		}
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func check[T comparable](typ string, want, got T) error {
	if want == got {
		return nil
	}
	return &AssertionError{
		Type:     typ,
		Expected: fmt.Sprint(want),
		Actual:   fmt.Sprint(got),
	}
}

func assertFatal(result *Result, a Assertion) error {
	if result.Fatal == nil {
		return &AssertionError{
			Type:     AssertFatal,
			Expected: "error " + a.Code,
			Actual:   "compilation succeeded",
		}
	}
	if result.Fatal.Code != a.Code {
		return &AssertionError{
			Type:     AssertFatal,
			Expected: "error " + a.Code,
			Actual:   "error " + result.Fatal.Code,
			Fatal:    result.Fatal.Error(),
		}
	}
	return nil
}

func assertLogCount(result *Result, a Assertion) error {
	got := result.CountEvents(a.Event)
	if got == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertLogCount,
		Expected: fmt.Sprintf("%d %q event(s)", a.Count, a.Event),
		Actual:   fmt.Sprintf("%d", got),
	}
}

func assertBound(result *Result, a Assertion) error {
	table := &result.compiled.Animations
	for _, name := range a.Triggers {
		t := ir.ParseTrigger(name)
		if !t.IsStorage() {
			return fmt.Errorf("bound: %q is not a bindable trigger", name)
		}
		s := table.Get(t)
		if s == nil {
			return &AssertionError{
				Type:     AssertBound,
				Expected: fmt.Sprintf("%s bound", name),
				Actual:   "unbound",
			}
		}
		if a.Generated != nil && s.IsGenerated != *a.Generated {
			return &AssertionError{
				Type:     AssertBound,
				Expected: fmt.Sprintf("%s bound to a script with generated=%t", name, *a.Generated),
				Actual:   fmt.Sprintf("generated=%t", s.IsGenerated),
			}
		}
	}
	return nil
}

func assertUnbound(result *Result, a Assertion) error {
	table := &result.compiled.Animations
	for _, name := range a.Triggers {
		t := ir.ParseTrigger(name)
		if !t.IsStorage() {
			return fmt.Errorf("unbound: %q is not a bindable trigger", name)
		}
		if s := table.Get(t); s != nil {
			return &AssertionError{
				Type:     AssertUnbound,
				Expected: fmt.Sprintf("%s unbound", name),
				Actual:   fmt.Sprintf("bound (generated=%t)", s.IsGenerated),
			}
		}
	}
	return nil
}

func assertProblems(s *report.Summary, a Assertion) error {
	want := a.Options
	if want == nil {
		want = []string{}
	}
	if slices.Equal(want, s.Problems) {
		return nil
	}
	return &AssertionError{
		Type:     AssertProblems,
		Expected: fmt.Sprintf("%v", want),
		Actual:   fmt.Sprintf("%v", s.Problems),
	}
}

func assertLegacyCount(s *report.Summary, a Assertion) error {
	got := 0
	for _, l := range s.Legacy {
		if l.Option == a.Option {
			got = len(l.Entries)
		}
	}
	return check(AssertLegacyCount+" "+a.Option, a.Count, got)
}
