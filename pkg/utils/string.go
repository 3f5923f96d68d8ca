// Package utils provides common utility functions.
package utils

import (
	"strings"
	"unicode/utf8"
)

// StringHelper provides string utility functions.
type StringHelper struct{}

// NewStringHelper creates a new string helper.
func NewStringHelper() *StringHelper {
	return &StringHelper{}
}

// TrimWhitespace removes leading and trailing whitespace.
func (s *StringHelper) TrimWhitespace(str string) string {
	return strings.TrimSpace(str)
}

// NormalizeWhitespace replaces multiple whitespace with single space.
func (s *StringHelper) NormalizeWhitespace(str string) string {
	return strings.Join(strings.Fields(str), " ")
}

// JoinNonEmpty trims every part and joins the non-blank ones with sep.
func (s *StringHelper) JoinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))

	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}

	return strings.Join(kept, sep)
}

// TruncateRunes cuts str to at most maxRunes characters without splitting a
// multi-byte character. No ellipsis is appended.
func (s *StringHelper) TruncateRunes(str string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}

	if utf8.RuneCountInString(str) <= maxRunes {
		return str
	}

	count := 0
	for i := range str {
		if count == maxRunes {
			return str[:i]
		}
		count++
	}

	return str
}

// SafeFileName replaces spaces and path separators with underscores.
func (s *StringHelper) SafeFileName(name string) string {
	return strings.NewReplacer(" ", "_", "/", "_").Replace(strings.TrimSpace(name))
}
