package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// JSON returns the indented JSON encoding of s with a trailing newline.
func (s *Summary) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// WriteText writes a human-readable rendering of s.
func (s *Summary) WriteText(w io.Writer) error {
	var b strings.Builder

	fmt.Fprintf(&b, "✓ Compiled configuration (%s mode, load %s)\n", s.Mode, s.LoadID)
	fmt.Fprintf(&b, "  %d rule(s), %d script(s)\n\n", len(s.Rules), len(s.Scripts))

	if len(s.Rules) > 0 {
		fmt.Fprintln(&b, "Rules:")
		for i, r := range s.Rules {
			fmt.Fprintf(&b, "  [%d] %s\n", i, r.Match)
			if len(r.Options) > 0 {
				fmt.Fprintf(&b, "      %s\n", formatOptions(r.Options))
			}
			for _, bd := range r.Animations {
				fmt.Fprintf(&b, "      %s → script %d\n", bd.Trigger, bd.Script)
			}
		}
		fmt.Fprintln(&b)
	}

	if len(s.Animations) > 0 {
		fmt.Fprintln(&b, "Animations:")
		for _, bd := range s.Animations {
			fmt.Fprintf(&b, "  %s → script %d\n", bd.Trigger, bd.Script)
		}
		fmt.Fprintln(&b)
	}

	if len(s.Scripts) > 0 {
		fmt.Fprintln(&b, "Scripts:")
		for _, sc := range s.Scripts {
			origin := fmt.Sprintf("line %d", sc.Line)
			if sc.Generated {
				origin = "generated"
			}
			fmt.Fprintf(&b, "  %d (%s): %s\n", sc.ID, origin, strings.Join(sc.Outputs, ", "))
			if len(sc.Suppressions) > 0 {
				fmt.Fprintf(&b, "      suppresses %s\n", strings.Join(sc.Suppressions, ", "))
			}
		}
		fmt.Fprintln(&b)
	}

	if len(s.Legacy) > 0 {
		fmt.Fprintln(&b, "Legacy lists:")
		for _, l := range s.Legacy {
			fmt.Fprintf(&b, "  %s: %d entr%s\n", l.Option, len(l.Entries), plural(len(l.Entries), "y", "ies"))
		}
		fmt.Fprintln(&b)
	}

	if len(s.Wintypes) > 0 {
		fmt.Fprintln(&b, "Window types:")
		for _, name := range sortedKeys(s.Wintypes) {
			fmt.Fprintf(&b, "  %s: %s\n", name, formatOptions(s.Wintypes[name]))
		}
		fmt.Fprintln(&b)
	}

	if len(s.Problems) > 0 {
		fmt.Fprintf(&b, "⚠ %d problem(s): %s\n", len(s.Problems), strings.Join(s.Problems, ", "))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func formatOptions(m map[string]any) string {
	parts := make([]string, 0, len(m))
	for _, k := range sortedKeys(m) {
		parts = append(parts, fmt.Sprintf("%s=%v", k, m[k]))
	}
	return strings.Join(parts, " ")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
