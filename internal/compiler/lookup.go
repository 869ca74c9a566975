package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"github.com/rs/zerolog"
)

// lookup returns the field called name. Labels such as "corner-radius" are
// not valid CUE identifiers, so the path is built from a string selector.
func lookup(v cue.Value, name string) (cue.Value, bool) {
	f := v.LookupPath(cue.MakePath(cue.Str(name)))
	return f, f.Exists()
}

// fields reads typed scalar fields from a struct, logging values of the
// wrong type and treating them as absent.
type fields struct {
	v   cue.Value
	log zerolog.Logger
}

func (r fields) wrongType(name string, f cue.Value, want string) {
	r.log.Warn().
		Str("option", name).
		Int("line", f.Pos().Line()).
		Msgf("%q must be %s, ignoring", name, want)
}

func (r fields) boolean(name string) (bool, bool) {
	f, ok := lookup(r.v, name)
	if !ok {
		return false, false
	}
	b, err := f.Bool()
	if err != nil {
		r.wrongType(name, f, "a boolean")
		return false, false
	}
	return b, true
}

func (r fields) float(name string) (float64, bool) {
	f, ok := lookup(r.v, name)
	if !ok {
		return 0, false
	}
	x, err := f.Float64()
	if err != nil {
		r.wrongType(name, f, "a number")
		return 0, false
	}
	return x, true
}

func (r fields) integer(name string) (int, bool) {
	f, ok := lookup(r.v, name)
	if !ok {
		return 0, false
	}
	i, err := f.Int64()
	if err != nil {
		r.wrongType(name, f, "an integer")
		return 0, false
	}
	return int(i), true
}

func (r fields) str(name string) (string, bool) {
	f, ok := lookup(r.v, name)
	if !ok {
		return "", false
	}
	s, err := f.String()
	if err != nil {
		r.wrongType(name, f, "a string")
		return "", false
	}
	return s, true
}

// stringOrList returns the elements of a value that is either a single
// string or a list. List elements are returned unchecked.
func stringOrList(v cue.Value) ([]cue.Value, error) {
	switch v.Kind() {
	case cue.StringKind:
		return []cue.Value{v}, nil
	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, err
		}
		var elems []cue.Value
		for iter.Next() {
			elems = append(elems, iter.Value())
		}
		return elems, nil
	}
	return nil, fmt.Errorf("must be a string or a list, got %s", v.Kind())
}
