package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("void main() {}"), 0644))
}

func TestResolveSearchOrder(t *testing.T) {
	base := t.TempDir()
	xdgHome := t.TempDir()
	r := &XDGResolver{ConfigDirs: []string{xdgHome}}

	writeFile(t, filepath.Join(xdgHome, AppName, "shaders", "dim.glsl"))
	got, ok := r.Resolve("shaders", "dim.glsl", base)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(xdgHome, AppName, "shaders", "dim.glsl"), got)

	// A file next to the config wins over the XDG directory.
	writeFile(t, filepath.Join(base, "dim.glsl"))
	got, ok = r.Resolve("shaders", "dim.glsl", base)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(base, "dim.glsl"), got)
}

func TestResolveAbsoluteAndMissing(t *testing.T) {
	dir := t.TempDir()
	abs := filepath.Join(dir, "grey.glsl")
	r := &XDGResolver{}

	_, ok := r.Resolve("shaders", abs, "")
	assert.False(t, ok)

	writeFile(t, abs)
	got, ok := r.Resolve("shaders", abs, "")
	assert.True(t, ok)
	assert.Equal(t, abs, got)

	_, ok = r.Resolve("shaders", "", dir)
	assert.False(t, ok)

	_, ok = r.Resolve("shaders", "nope.glsl", dir)
	assert.False(t, ok)
}
