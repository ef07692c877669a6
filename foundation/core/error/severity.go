// File: severity.go
// Title: Error Severity Levels
// Description: Defines severity levels for errors. Malformed expressions are
//              user mistakes and rank low; storage, config and internal
//              failures rank higher so the logger can pick a level for them.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with severity levels
// - 2026-10-19 v0.2.0: Severity mapping for lexer and parser codes

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow indicates a user input problem, such as a malformed expression
	SeverityLow Severity = iota

	// SeverityMedium indicates a failure that affects one operation only
	SeverityMedium

	// SeverityHigh indicates a failure of a backing resource (database, network)
	SeverityHigh

	// SeverityCritical indicates the process cannot continue
	SeverityCritical
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ShouldAlert returns true if this severity level should trigger alerts
func (s Severity) ShouldAlert() bool {
	return s >= SeverityHigh
}

// GetSeverityFromCode returns the default severity for an error code
func GetSeverityFromCode(code Code) Severity {
	if code.IsSyntax() {
		return SeverityLow
	}
	switch code {
	case CodeInvalidInput, CodeInvalidLength, CodeNotFound:
		return SeverityLow
	case CodeConfigError, CodeMissingConfig, CodeInvalidConfig:
		return SeverityMedium
	case CodeDatabaseError, CodeNetworkError:
		return SeverityHigh
	case CodeInternal:
		return SeverityCritical
	default:
		return SeverityMedium
	}
}
