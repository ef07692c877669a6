// Package error provides the structured error type shared by all mathcfg
// packages.
//
// Package: error
// Title: mathcfg Error Handling
// Description: Errors carry a Code, a Severity, details and the operation
//              and request that produced them. Lexer and parser failures keep
//              their own typed errors; this package wraps them at package
//              boundaries without hiding them from errors.As.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Usage:
//
//	err := mdwerror.New("history store unavailable").
//		WithCode(mdwerror.CodeDatabaseError).
//		WithDetail("path", path)
//
//	if mdwerror.HasCode(err, mdwerror.CodeUnmatchedParen) {
//		// re-prompt the user
//	}
package error
