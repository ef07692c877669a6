// File: stringx.go
// Title: String Utility Functions
// Description: Unicode-aware helpers shared by the CLI, the REPL and the
//              history listing: blank checks, truncation for log fields and
//              table cells, padding, and the caret marker that points at a
//              failure position under an echoed expression.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core utilities
// - 2026-10-19 v0.2.0: Reduced to display helpers, added Marker

package stringx

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// IsBlank returns true if the string is empty or contains only whitespace.
func IsBlank(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// FirstNonBlank returns the first argument that is not blank, or "".
func FirstNonBlank(values ...string) string {
	for _, v := range values {
		if !IsBlank(v) {
			return v
		}
	}
	return ""
}

// Truncate shortens s to at most maxLen runes, ending in ellipsis when
// something was cut. Multi-byte characters are never split.
func Truncate(s string, maxLen int, ellipsis string) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}

	ellipsisLen := utf8.RuneCountInString(ellipsis)
	if ellipsisLen >= maxLen {
		return string([]rune(s)[:maxLen])
	}
	return string([]rune(s)[:maxLen-ellipsisLen]) + ellipsis
}

// PadRight pads s with pad up to width runes. Longer strings are returned
// unchanged.
func PadRight(s string, width int, pad rune) string {
	count := utf8.RuneCountInString(s)
	if count >= width {
		return s
	}
	return s + strings.Repeat(string(pad), width-count)
}

// Marker returns a line that places '^' under the character at index pos
// of the line it is printed below, with prefix columns of offset. Tabs in
// the echoed text are kept so the caret lines up in terminals.
func Marker(text string, pos, offset int) string {
	if pos < 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", offset))
	for i, r := range []rune(text) {
		if i >= pos {
			break
		}
		if r == '\t' {
			sb.WriteRune('\t')
		} else {
			sb.WriteRune(' ')
		}
	}
	if n := utf8.RuneCountInString(text); pos > n {
		sb.WriteString(strings.Repeat(" ", pos-n))
	}
	sb.WriteByte('^')
	return sb.String()
}
