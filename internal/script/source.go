// Package script compiles animation definitions into executable programs.
//
// A definition is an ordered set of named fields. Each field is a number, an
// arithmetic expression over other fields and context variables, or a
// transition:
//
//	opacity: {start: 0, end: "window-raw-opacity", duration: 0.2, curve: "ease-out"}
//	shadow-opacity: "opacity"
//	offset-y: "(1 - opacity) * 20"
//
// Fields named after an output channel (ir.OutputNames) drive that channel.
// Programs are evaluated with github.com/d5/tengo/v2.
package script

import (
	"fmt"

	"cuelang.org/go/cue"
)

// Field is one named entry of a definition.
type Field struct {
	Name  string
	Value cue.Value
}

// Source is a definition in declaration order.
type Source struct {
	Fields []Field
	// Line is the source line of the definition, for diagnostics.
	Line int
}

// SourceFromValue collects the fields of a CUE struct, dropping the names in
// skip.
func SourceFromValue(v cue.Value, skip ...string) (Source, error) {
	src := Source{Line: v.Pos().Line()}
	iter, err := v.Fields()
	if err != nil {
		return src, fmt.Errorf("animation definition must be a struct: %w", err)
	}
	for iter.Next() {
		name := iter.Label()
		if contains(skip, name) {
			continue
		}
		src.Fields = append(src.Fields, Field{Name: name, Value: iter.Value()})
	}
	return src, nil
}

// Lookup returns the field called name.
func (s Source) Lookup(name string) (cue.Value, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return cue.Value{}, false
}

// Names lists the field names in order.
func (s Source) Names() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
