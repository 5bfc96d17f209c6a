package model

import "strings"

// SplitOptions expands the newline-joined option list from an edit panel into
// the values stored in a JSON Schema enum. Blank lines are dropped.
func SplitOptions(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	lines := strings.Split(raw, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// JoinOptions is the inverse of SplitOptions.
func JoinOptions(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return strings.Join(values, "\n")
}
