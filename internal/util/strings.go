package util

import (
	"fmt"
	"strings"
)

// TrimAndLower trims whitespace and converts to lowercase
func TrimAndLower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// TrimEmptyCheck trims whitespace and checks if non-empty
func TrimEmptyCheck(s string) (string, bool) {
	trimmed := strings.TrimSpace(s)
	return trimmed, trimmed != ""
}

// TrimWithDefault trims whitespace and returns default if empty
func TrimWithDefault(s, defaultValue string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return defaultValue
	}
	return trimmed
}

// SplitKeyValue splits "key=value" at the first '='. The key is trimmed and
// must not be empty; the value is kept as is and may be empty.
func SplitKeyValue(s string) (string, string, error) {
	key, value, found := strings.Cut(s, "=")
	if !found {
		return "", "", fmt.Errorf("expected key=value, got %q", s)
	}
	key, ok := TrimEmptyCheck(key)
	if !ok {
		return "", "", fmt.Errorf("empty key in %q", s)
	}
	return key, value, nil
}
