package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/winrule/internal/compiler"
	"github.com/roach88/winrule/internal/config"
)

// LoadResult contains a loaded configuration.
type LoadResult struct {
	Value cue.Value // The unified CUE value of every file
	Dir   string    // Directory the files live in; the base for relative shader paths
	Files []string  // CUE files that were loaded
}

// LoadError represents an error that occurred before compilation started.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error code constants for failures outside the compiler. Compiler errors
// keep their own codes.
const (
	ErrCodeGeneric     = "E000" // Generic/unknown error
	ErrCodeScanError   = "E003" // Directory scan error
	ErrCodeNoFiles     = "E004" // No CUE files found
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeLoadFailed  = "E006" // CUE load failed
	ErrCodeWriteFailed = "E007" // File write error
)

// LoadConfig loads a configuration file, or every .cue file directly inside
// a directory, into one CUE value.
func LoadConfig(path string) (*LoadResult, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("configuration not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing configuration: %v", err)}
	}

	dir, files := filepath.Dir(path), []string{filepath.Base(path)}
	if info.IsDir() {
		dir = path
		files, err = FindCUEFiles(dir)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
		}
		if len(files) == 0 {
			return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
		}
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		absDir = dir
	}

	instances := load.Instances(files, &load.Config{Dir: absDir})
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}

	// Build errors are left on the value; Compile reports them with positions.
	return &LoadResult{
		Value: cuecontext.New().BuildInstance(inst),
		Dir:   absDir,
		Files: files,
	}, nil
}

// FindCUEFiles returns the names of the .cue files directly inside dir,
// sorted.
func FindCUEFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".cue" {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// compileConfig loads and compiles the configuration at path with settings
// from the environment. The caller owns the result and must Close it.
func compileConfig(path string, ids compiler.LoadIDGenerator) (*compiler.Result, *LoadResult, error) {
	loaded, err := LoadConfig(path)
	if err != nil {
		return nil, nil, err
	}
	settings, err := config.Load()
	if err != nil {
		return nil, loaded, &LoadError{Code: ErrCodeGeneric, Message: err.Error()}
	}
	res, err := compiler.Compile(loaded.Value, compiler.Config{
		Settings:   settings,
		IncludeDir: loaded.Dir,
		IDs:        ids,
	})
	if err != nil {
		return nil, loaded, err
	}
	return res, loaded, nil
}

// describeError extracts an error code, message and line from a load or
// compile error.
func describeError(err error) CLIError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return CLIError{Code: compileErr.Code, Message: compileErr.Message, Line: compileErr.Line()}
	}
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		line := 0
		if loadErr.Pos.IsValid() {
			line = loadErr.Pos.Line()
		}
		return CLIError{Code: loadErr.Code, Message: loadErr.Message, Line: line}
	}
	return CLIError{Code: ErrCodeGeneric, Message: err.Error()}
}

// errorPosition returns "file:line:col" for positioned errors, or "".
func errorPosition(err error) string {
	var pos token.Pos
	var compileErr *compiler.CompileError
	var loadErr *LoadError
	switch {
	case errors.As(err, &compileErr):
		pos = compileErr.Pos
	case errors.As(err, &loadErr):
		pos = loadErr.Pos
	}
	if !pos.IsValid() {
		return ""
	}
	return fmt.Sprintf("%s:%d:%d", pos.Filename(), pos.Line(), pos.Column())
}
