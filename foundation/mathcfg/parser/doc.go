// File: doc.go
// Title: Package Documentation
// Description: Documentation for the expression lexer and parser.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19

// Package parser turns arithmetic expressions over unsigned 32-bit integers
// into parse trees.
//
// Tokenize scans the input into Number, Plus, Minus, Star, Slash, LeftParen
// and RightParen tokens. Parse applies the grammar
//
//	Expr         := MultiDivExpr ( ('+' | '-') Expr )?
//	MultiDivExpr := DivExpr ( '*' MultiDivExpr )?
//	DivExpr      := Term ( '/' DivExpr )?
//	Term         := Number | '(' Expr ')'
//
// and returns the tree rooted at Expr. Precedence follows from the layering
// of the rules; operator chains of the same precedence nest to the right, so
// "1+2+3" yields Expr(MultiDivExpr(..1..), Plus, Expr(..2.., Plus, Expr(..3..))).
//
// Failures are *LexError or *ParseError values. Match a failure kind with
// errors.Is against the Err* sentinels:
//
//	tokens, err := parser.Tokenize("(2/3)+4")
//	if err != nil {
//		return err
//	}
//	root, err := parser.Parse(tokens)
//	if errors.Is(err, parser.ErrUnmatchedParen) {
//		// ...
//	}
package parser
