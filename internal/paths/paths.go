// Package paths locates auxiliary files (shaders, included snippets)
// referenced from a configuration file.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// AppName is the directory name used under the XDG config directories.
const AppName = "winrule"

// Resolver turns a configured relative path into an absolute one.
type Resolver interface {
	// Resolve returns the absolute path of file within category, searching
	// baseDir first. ok is false when nothing exists.
	Resolve(category, file, baseDir string) (string, bool)
}

// XDGResolver searches, in order: absolute paths as-is, baseDir,
// $XDG_CONFIG_HOME/winrule/<category> and each $XDG_CONFIG_DIRS entry.
type XDGResolver struct {
	// ConfigDirs overrides the XDG search list, mainly for tests.
	ConfigDirs []string
}

// NewXDGResolver returns a resolver backed by the user's XDG directories.
func NewXDGResolver() *XDGResolver {
	dirs := append([]string{xdg.ConfigHome}, xdg.ConfigDirs...)
	return &XDGResolver{ConfigDirs: dirs}
}

func (r *XDGResolver) Resolve(category, file, baseDir string) (string, bool) {
	if file == "" {
		return "", false
	}
	if filepath.IsAbs(file) {
		return file, exists(file)
	}

	candidates := make([]string, 0, len(r.ConfigDirs)+1)
	if baseDir != "" {
		candidates = append(candidates, filepath.Join(baseDir, file))
	}
	for _, dir := range r.ConfigDirs {
		candidates = append(candidates, filepath.Join(dir, AppName, category, file))
	}

	for _, c := range candidates {
		if exists(c) {
			abs, err := filepath.Abs(c)
			if err != nil {
				return c, true
			}
			return abs, true
		}
	}
	return "", false
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
