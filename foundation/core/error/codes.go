// File: codes.go
// Title: Error Code Definitions
// Description: Defines the error codes used across mathcfg. Every lexical and
//              syntactic failure kind has its own code so callers (CLI, REPL,
//              WebSocket clients, history store) can classify failures without
//              inspecting message text.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core error codes
// - 2026-10-19 v0.2.0: Lexer and parser codes, dropped service codes

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown       Code = "UNKNOWN"
	CodeInternal      Code = "INTERNAL"
	CodeNotFound      Code = "NOT_FOUND"
	CodeInvalidInput  Code = "INVALID_INPUT"
	CodeInvalidLength Code = "INVALID_LENGTH"

	// Lexical analysis
	CodeUnexpectedChar Code = "LEX_UNEXPECTED_CHAR"
	CodeNumberOverflow Code = "LEX_NUMBER_OVERFLOW"

	// Syntactic analysis
	CodeUnexpectedToken  Code = "PARSE_UNEXPECTED_TOKEN"
	CodeUnmatchedParen   Code = "PARSE_UNMATCHED_PAREN"
	CodeExpectedOperator Code = "PARSE_EXPECTED_OPERATOR"
	CodeTrailingInput    Code = "PARSE_TRAILING_INPUT"
	CodeEmptyInput       Code = "PARSE_EMPTY_INPUT"
	CodeNestingTooDeep   Code = "PARSE_NESTING_TOO_DEEP"

	// Configuration
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeMissingConfig Code = "MISSING_CONFIG"
	CodeInvalidConfig Code = "INVALID_CONFIG"

	// Storage and network
	CodeDatabaseError Code = "DATABASE_ERROR"
	CodeNetworkError  Code = "NETWORK_ERROR"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid checks if the error code is a known valid code
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeNotFound, CodeInvalidInput, CodeInvalidLength,
		CodeUnexpectedChar, CodeNumberOverflow,
		CodeUnexpectedToken, CodeUnmatchedParen, CodeExpectedOperator,
		CodeTrailingInput, CodeEmptyInput, CodeNestingTooDeep,
		CodeConfigError, CodeMissingConfig, CodeInvalidConfig,
		CodeDatabaseError, CodeNetworkError:
		return true
	default:
		return false
	}
}

// IsSyntax reports whether the code describes a failure of the
// expression itself (lexical or syntactic) rather than of the system.
func (c Code) IsSyntax() bool {
	switch c {
	case CodeUnexpectedChar, CodeNumberOverflow,
		CodeUnexpectedToken, CodeUnmatchedParen, CodeExpectedOperator,
		CodeTrailingInput, CodeEmptyInput, CodeNestingTooDeep:
		return true
	default:
		return false
	}
}
