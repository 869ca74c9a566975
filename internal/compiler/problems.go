package compiler

import (
	"github.com/rs/zerolog"
)

// Reporter receives every compatibility and deprecation finding.
type Reporter interface {
	// RecordProblem notes an option whose value was ignored or questionable.
	RecordProblem(option string)
	// ReportDeprecated notes an option that is deprecated. isError marks
	// options that are no longer honoured at all.
	ReportDeprecated(option string, isError bool)
}

// Deprecation is one ReportDeprecated call.
type Deprecation struct {
	Option  string `json:"option" yaml:"option"`
	IsError bool   `json:"is_error" yaml:"is_error"`
}

// ProblemLog is the default Reporter. It logs each finding and keeps the
// names in the order they were reported.
type ProblemLog struct {
	log        zerolog.Logger
	problems   []string
	deprecated []Deprecation
}

// NewProblemLog returns an empty reporter writing to log.
func NewProblemLog(log zerolog.Logger) *ProblemLog {
	return &ProblemLog{log: log}
}

func (p *ProblemLog) RecordProblem(option string) {
	for _, o := range p.problems {
		if o == option {
			return
		}
	}
	p.problems = append(p.problems, option)
}

func (p *ProblemLog) ReportDeprecated(option string, isError bool) {
	ev := p.log.Warn()
	msg := "option is deprecated and will be removed"
	if isError {
		ev = p.log.Error()
		msg = "option is deprecated and no longer has any effect"
	}
	ev.Str("option", option).Msg(msg)
	p.deprecated = append(p.deprecated, Deprecation{Option: option, IsError: isError})
	p.RecordProblem(option)
}

// Problems returns the recorded option names.
func (p *ProblemLog) Problems() []string {
	return append([]string(nil), p.problems...)
}

// Deprecated returns every deprecation reported.
func (p *ProblemLog) Deprecated() []Deprecation {
	return append([]Deprecation(nil), p.deprecated...)
}

// warnBothStyles reports a legacy option that is ignored because the
// configuration also uses a rules list.
func warnBothStyles(log zerolog.Logger, r Reporter, option string) {
	log.Warn().
		Str("event", "both_styles").
		Str("option", option).
		Msg("option is ignored because \"rules\" is set; move it into a rule")
	r.RecordProblem(option)
}
