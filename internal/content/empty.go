// Package content cleans rich-text fields coming from the issue tracker.
package content

import "strings"

// Placeholder is the sentinel the tracker uses for fields it has no value for.
const Placeholder = "No disponible"

var emptyMarkup = map[string]bool{
	"<div></div>": true,
	"<br>":        true,
	"<br/>":       true,
	"<br />":      true,
}

// IsEmpty reports whether value carries no meaningful content.
func IsEmpty(value string) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || emptyMarkup[strings.ToLower(trimmed)] {
		return true
	}
	return strings.EqualFold(trimmed, Placeholder)
}

// IsEmptyPtr is IsEmpty for optional fields; nil is empty.
func IsEmptyPtr(value *string) bool {
	return value == nil || IsEmpty(*value)
}
