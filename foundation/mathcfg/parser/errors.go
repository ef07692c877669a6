// File: errors.go
// Title: Lexer and Parser Errors
// Description: The two error taxonomies of expression processing. A LexError
//              reports the first character the tokenizer cannot accept; a
//              ParseError reports the first syntactic failure. Both match
//              their kind sentinels with errors.Is and report a foundation
//              error code.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19

package parser

import (
	"errors"
	"fmt"

	mdwerror "github.com/msto63/mathcfg/foundation/core/error"
	mdwtree "github.com/msto63/mathcfg/foundation/mathcfg/tree"
)

// LexErrorKind classifies tokenizer failures
type LexErrorKind int

const (
	// UnexpectedChar: a character outside the token alphabet
	UnexpectedChar LexErrorKind = iota
	// NumberOverflow: a digit run does not fit in 32 bits
	NumberOverflow
)

func (k LexErrorKind) String() string {
	switch k {
	case UnexpectedChar:
		return "UnexpectedChar"
	case NumberOverflow:
		return "NumberOverflow"
	default:
		return "LexErrorKind(" + fmt.Sprint(int(k)) + ")"
	}
}

// LexError is returned by the tokenizer. Position is the character index of
// the offending character or of the first digit of an overflowing number.
type LexError struct {
	Kind     LexErrorKind
	Char     rune
	Position int
	Text     string
}

// Error implements the error interface
func (e *LexError) Error() string {
	switch e.Kind {
	case UnexpectedChar:
		return fmt.Sprintf("unexpected character %q at position %d", e.Char, e.Position)
	case NumberOverflow:
		return fmt.Sprintf("number %s at position %d exceeds %d", e.Text, e.Position, uint32(1<<32-1))
	default:
		return fmt.Sprintf("lexical error at position %d", e.Position)
	}
}

// Is matches sentinels of the same kind
func (e *LexError) Is(target error) bool {
	t, ok := target.(*LexError)
	return ok && t.Kind == e.Kind
}

// Code returns the foundation error code for the failure
func (e *LexError) Code() mdwerror.Code {
	if e.Kind == NumberOverflow {
		return mdwerror.CodeNumberOverflow
	}
	return mdwerror.CodeUnexpectedChar
}

// ParseErrorKind classifies parser failures
type ParseErrorKind int

const (
	// UnexpectedToken: a term was required but neither a number nor '(' was found
	UnexpectedToken ParseErrorKind = iota
	// UnmatchedParen: a '(' sub-expression is not followed by ')'
	UnmatchedParen
	// ExpectedOperator: strict mode found an operand where an operator was required
	ExpectedOperator
	// TrailingInput: tokens remain after a complete expression
	TrailingInput
	// EmptyInput: the token sequence is empty
	EmptyInput
	// NestingTooDeep: the rule activation depth exceeded the configured limit
	NestingTooDeep
)

func (k ParseErrorKind) String() string {
	switch k {
	case UnexpectedToken:
		return "UnexpectedToken"
	case UnmatchedParen:
		return "UnmatchedParen"
	case ExpectedOperator:
		return "ExpectedOperator"
	case TrailingInput:
		return "TrailingInput"
	case EmptyInput:
		return "EmptyInput"
	case NestingTooDeep:
		return "NestingTooDeep"
	default:
		return "ParseErrorKind(" + fmt.Sprint(int(k)) + ")"
	}
}

// ParseError is returned by the parser. Position is a token index: the
// offending token, or the opening '(' for UnmatchedParen. Found is nil when
// the failure happened at end of input.
type ParseError struct {
	Kind     ParseErrorKind
	Position int
	Rule     mdwtree.Kind
	Expected string
	Found    *Token
}

func describe(tok *Token) string {
	if tok == nil {
		return "end of input"
	}
	return fmt.Sprintf("%s at character %d", tok, tok.Position)
}

// Error implements the error interface
func (e *ParseError) Error() string {
	switch e.Kind {
	case UnexpectedToken:
		return fmt.Sprintf("expected %s at token %d, found %s", e.Expected, e.Position, describe(e.Found))
	case UnmatchedParen:
		return fmt.Sprintf("unmatched '(' at token %d: expected ')', found %s", e.Position, describe(e.Found))
	case ExpectedOperator:
		return fmt.Sprintf("%s: expected operator at token %d, found %s", e.Rule, e.Position, describe(e.Found))
	case TrailingInput:
		return fmt.Sprintf("trailing input at token %d: %s", e.Position, describe(e.Found))
	case EmptyInput:
		return "empty input"
	case NestingTooDeep:
		return fmt.Sprintf("expression nesting exceeds maximum depth at token %d", e.Position)
	default:
		return fmt.Sprintf("parse error at token %d", e.Position)
	}
}

// Is matches sentinels of the same kind
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	return ok && t.Kind == e.Kind
}

// Code returns the foundation error code for the failure
func (e *ParseError) Code() mdwerror.Code {
	switch e.Kind {
	case UnexpectedToken:
		return mdwerror.CodeUnexpectedToken
	case UnmatchedParen:
		return mdwerror.CodeUnmatchedParen
	case ExpectedOperator:
		return mdwerror.CodeExpectedOperator
	case TrailingInput:
		return mdwerror.CodeTrailingInput
	case EmptyInput:
		return mdwerror.CodeEmptyInput
	case NestingTooDeep:
		return mdwerror.CodeNestingTooDeep
	default:
		return mdwerror.CodeUnknown
	}
}

// Sentinels for errors.Is
var (
	ErrUnexpectedChar   = &LexError{Kind: UnexpectedChar}
	ErrNumberOverflow   = &LexError{Kind: NumberOverflow}
	ErrUnexpectedToken  = &ParseError{Kind: UnexpectedToken}
	ErrUnmatchedParen   = &ParseError{Kind: UnmatchedParen}
	ErrExpectedOperator = &ParseError{Kind: ExpectedOperator}
	ErrTrailingInput    = &ParseError{Kind: TrailingInput}
	ErrEmptyInput       = &ParseError{Kind: EmptyInput}
	ErrNestingTooDeep   = &ParseError{Kind: NestingTooDeep}
)

// KindOf returns the kind name of the first lexer or parser error in err's
// chain, or "" if there is none
func KindOf(err error) string {
	var lexErr *LexError
	if errors.As(err, &lexErr) {
		return lexErr.Kind.String()
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Kind.String()
	}
	return ""
}
