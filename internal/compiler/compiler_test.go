package compiler

import (
	"path/filepath"
	"testing"

	"github.com/roach88/winrule/internal/ir"
	"github.com/roach88/winrule/internal/script"
)

func newAnimations(t *testing.T) *AnimationCompiler {
	t.Helper()
	sc := script.NewCompiler()
	return NewAnimationCompiler(sc, script.NewPresets(sc), &ir.ScriptRegistry{})
}

// mapResolver resolves only the files it knows about, under root.
type mapResolver struct {
	root  string
	files map[string]bool
	calls []string
}

func (r *mapResolver) Resolve(category, file, baseDir string) (string, bool) {
	r.calls = append(r.calls, category+"/"+file)
	if !r.files[file] {
		return "", false
	}
	return filepath.Join(r.root, category, file), true
}

// recordingReporter keeps every call, duplicates included.
type recordingReporter struct {
	problems   []string
	deprecated []Deprecation
}

func (r *recordingReporter) RecordProblem(option string) {
	r.problems = append(r.problems, option)
}

func (r *recordingReporter) ReportDeprecated(option string, isError bool) {
	r.deprecated = append(r.deprecated, Deprecation{Option: option, IsError: isError})
}

func count(items []string, want string) int {
	n := 0
	for _, s := range items {
		if s == want {
			n++
		}
	}
	return n
}
