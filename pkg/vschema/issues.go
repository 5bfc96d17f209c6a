package vschema

import (
	"fmt"
	"strings"
)

// Issue codes produced by validation. Kept as string constants so callers can
// switch on them and map them to their own messages.
const (
	CodeInvalidType      = "invalid_type"
	CodeRequired         = "required"
	CodeTooSmall         = "too_small"
	CodeTooBig           = "too_big"
	CodeTooShort         = "too_short"
	CodeTooLong          = "too_long"
	CodePattern          = "pattern"
	CodeInvalidEnum      = "invalid_enum"
	CodeInvalidDate      = "invalid_date"
	CodeDateBeforeMin    = "date_before_minimum"
	CodeDateAfterMax     = "date_after_maximum"
	CodeUnknownComponent = "unknown_component"
)

// Issue is a single validation entry, addressed by a JSON Pointer path.
type Issue struct {
	Path    string         `json:"path"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Params  map[string]any `json:"params,omitempty"`
}

// FieldPath renders the issue path as a dotted field reference ("a.b.c").
// The root path renders as an empty string.
func (i Issue) FieldPath() string {
	trimmed := strings.TrimPrefix(i.Path, "/")
	if trimmed == "" {
		return ""
	}
	parts := strings.Split(trimmed, "/")
	for idx, part := range parts {
		part = strings.ReplaceAll(part, "~1", "/")
		parts[idx] = strings.ReplaceAll(part, "~0", "~")
	}
	return strings.Join(parts, ".")
}

// Issues is a collection of validation entries. It implements error so parse
// helpers can return it through error results, but validation APIs hand it
// back as plain data.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	var b strings.Builder
	shown := len(iss)
	if shown > maxShown {
		shown = maxShown
	}
	for idx := 0; idx < shown; idx++ {
		if idx > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s at %s", iss[idx].Code, iss[idx].Path)
	}
	if len(iss) > shown {
		fmt.Fprintf(&b, "; ... (total %d)", len(iss))
	}
	return b.String()
}

// IssueAt builds an issue at the given pointer path.
func IssueAt(path, code, message string) Issue {
	return Issue{Path: path, Code: code, Message: message}
}

func childPath(parent, key string) string {
	escaped := strings.ReplaceAll(key, "~", "~0")
	escaped = strings.ReplaceAll(escaped, "/", "~1")
	return parent + "/" + escaped
}
