// Package harness runs conformance scenarios against the configuration
// compiler.
//
// A scenario is a configuration plus a list of assertions about what it
// compiles to: which mode was selected, which triggers ended up bound, which
// problems were recorded, which log events were emitted. Scenarios make the
// compatibility rules executable: each one pins down one behavior a user can
// observe through their configuration file.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	config: |
//	  rules: [{match: "focused", opacity: 0.9}]
//	  "shadow-exclude": ["focused"]
//	assertions:
//	  - type: mode
//	    value: unified
//	  - type: log_count
//	    event: both_styles
//	    count: 1
//
// Instead of inline config, config_file names a CUE file relative to the
// scenario file.
//
// # Assertion Types
//
//   - mode: the configuration compiled in "unified" or "legacy" mode
//   - rule_count: the unified rule list has exactly count rules
//   - bound: every listed trigger has a default animation; generated
//     additionally checks whether those scripts were synthesized
//   - unbound: none of the listed triggers has a default animation
//   - problems: the recorded problems are exactly options, in order
//   - log_count: exactly count log lines carry the given event
//   - legacy_count: the legacy list option holds exactly count entries
//   - fatal: compilation failed with the given error code
//
// # Golden Files
//
// RunWithGolden compares the JSON summary of a compiled scenario against
// testdata/golden/<name>.golden. Regenerate with:
//
//	go test ./internal/harness -update
//
// # Logging
//
// Run redirects the global logger for the duration of the scenario, so
// scenarios must not run in parallel.
package harness
