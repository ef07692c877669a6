// File: doc.go
// Title: Package Documentation
// Description: Documentation for the string helpers.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19

// Package stringx provides the small set of Unicode-aware string helpers
// used when echoing expressions back to users.
//
//	fmt.Println("> " + input)
//	fmt.Println(stringx.Marker(input, pos, 2))
package stringx
