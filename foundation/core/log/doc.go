// Package log provides structured, leveled logging for mathcfg.
//
// Package: log
// Title: mathcfg Structured Logging
// Description: A small structured logger with persistent context fields,
//              request IDs, JSON/text/console output and integration with
//              the foundation error type. Loggers are immutable; every With*
//              call returns a derived copy.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Usage:
//
//	logger := mdwlog.NewWithConfig(mdwlog.Config{
//		Level:  mdwlog.LevelDebug,
//		Format: mdwlog.FormatConsole,
//		Name:   "mathcfg",
//	})
//	logger.WithRequestID(id).Debug("expression parsed", mdwlog.Fields{"nodes": 7})
package log
