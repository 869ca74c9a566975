package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/require"
)

// MustCompileCUE compiles src and fails the test on error.
func MustCompileCUE(t *testing.T, src string) cue.Value {
	t.Helper()
	v := cuecontext.New().CompileString(src, cue.Filename("test.cue"))
	require.NoError(t, v.Err(), "compiling CUE fixture")
	return v
}

// Field returns a field of a compiled fixture, following a CUE path such as
// "animations" or `"corner-radius"`.
func Field(t *testing.T, v cue.Value, path string) cue.Value {
	t.Helper()
	f := v.LookupPath(cue.ParsePath(path))
	require.True(t, f.Exists(), "field %s not found", path)
	return f
}

// WriteFile writes content to name inside dir and returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
