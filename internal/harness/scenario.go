package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Config is the inline CUE configuration.
	Config string `yaml:"config,omitempty"`

	// ConfigFile is a CUE file to compile instead of Config. Relative paths
	// are resolved against the scenario file's directory.
	ConfigFile string `yaml:"config_file,omitempty"`

	// Assertions validate the compile result.
	Assertions []Assertion `yaml:"assertions"`

	// LoadID is an optional fixed load ID. Defaults to "test-load-default"
	// so golden summaries are stable.
	LoadID string `yaml:"load_id,omitempty"`

	// dir is the directory the scenario was loaded from.
	dir string
}

// Assertion validates one aspect of the compile result.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Value is the expected mode (used by mode).
	Value string `yaml:"value,omitempty"`

	// Count is the expected number (used by rule_count, log_count,
	// legacy_count).
	Count int `yaml:"count,omitempty"`

	// Triggers are trigger names (used by bound, unbound).
	Triggers []string `yaml:"triggers,omitempty"`

	// Generated optionally checks the origin of bound scripts (used by bound).
	Generated *bool `yaml:"generated,omitempty"`

	// Options are the expected problem options (used by problems).
	Options []string `yaml:"options,omitempty"`

	// Event is the log event name (used by log_count).
	Event string `yaml:"event,omitempty"`

	// Option is the legacy list name (used by legacy_count).
	Option string `yaml:"option,omitempty"`

	// Code is the expected error code (used by fatal).
	Code string `yaml:"code,omitempty"`
}

// Assertion type constants.
const (
	AssertMode        = "mode"
	AssertRuleCount   = "rule_count"
	AssertBound       = "bound"
	AssertUnbound     = "unbound"
	AssertProblems    = "problems"
	AssertLogCount    = "log_count"
	AssertLegacyCount = "legacy_count"
	AssertFatal       = "fatal"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict decoding catches typos like "assertion:" vs "assertions:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	scenario.dir = filepath.Dir(path)

	if scenario.ConfigFile != "" && !filepath.IsAbs(scenario.ConfigFile) {
		scenario.ConfigFile = filepath.Join(scenario.dir, scenario.ConfigFile)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadScenarios loads every *.yaml file in dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(p), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	switch {
	case s.Config == "" && s.ConfigFile == "":
		return fmt.Errorf("one of config or config_file is required")
	case s.Config != "" && s.ConfigFile != "":
		return fmt.Errorf("config and config_file are mutually exclusive")
	}
	if s.ConfigFile != "" {
		if _, err := os.Stat(s.ConfigFile); err != nil {
			return fmt.Errorf("config file not found: %s", s.ConfigFile)
		}
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}
	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertMode:
		if a.Value != "unified" && a.Value != "legacy" {
			return fmt.Errorf("assertions[%d]: value must be \"unified\" or \"legacy\" for mode", index)
		}
	case AssertRuleCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for rule_count", index)
		}
	case AssertBound, AssertUnbound:
		if len(a.Triggers) == 0 {
			return fmt.Errorf("assertions[%d]: triggers list is required for %s", index, a.Type)
		}
	case AssertProblems:
		// An empty list asserts that nothing was recorded.
	case AssertLogCount:
		if a.Event == "" {
			return fmt.Errorf("assertions[%d]: event is required for log_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for log_count", index)
		}
	case AssertLegacyCount:
		if a.Option == "" {
			return fmt.Errorf("assertions[%d]: option is required for legacy_count", index)
		}
	case AssertFatal:
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for fatal", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
