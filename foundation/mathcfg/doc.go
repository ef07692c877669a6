// File: doc.go
// Title: Package Documentation
// Description: Documentation for the expression engine.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19

// Package mathcfg parses arithmetic expressions over non-negative integers
// into parse trees of a four-level precedence grammar.
//
// The sub-packages hold the pieces: parser (lexer and recursive descent
// parser with typed errors) and tree (nodes, traversal, validation,
// rendering and export). Engine combines them for applications:
//
//	engine, err := mathcfg.NewEngine(mathcfg.Options{Logger: logger})
//	if err != nil {
//		return err
//	}
//	res, err := engine.Parse("(2/3)+4")
//	if err != nil {
//		if pos, ok := res.Locate(err); ok {
//			fmt.Println(stringx.Marker(res.Input, pos, 0))
//		}
//		return err
//	}
//	fmt.Print(tree.RenderString(res.Tree, tree.RenderOptions{}))
//
// Engine failures are *error.Error values from foundation/core/error whose
// code names the failure kind; the *parser.LexError or *parser.ParseError
// stays reachable through errors.As and errors.Is.
package mathcfg
