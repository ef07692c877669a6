// File: lexer.go
// Title: Expression Lexer
// Description: Single-pass scanner that turns an expression string into
//              tokens. Spaces and tabs separate tokens; digit runs become one
//              Number token; every other character outside the token alphabet
//              stops the scan with a LexError.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19

package parser

import (
	"io"
	"strconv"
)

// Lexer scans an expression one token at a time
type Lexer struct {
	input []rune // Input characters
	pos   int    // Index of the next unread character
	err   error  // Sticky error after a failed scan
}

var singleCharTokens = map[rune]TokenType{
	'+': TokenPlus,
	'-': TokenMinus,
	'*': TokenStar,
	'/': TokenSlash,
	'(': TokenLeftParen,
	')': TokenRightParen,
}

// NewLexer creates a new lexer for the given input
func NewLexer(input string) *Lexer {
	return &Lexer{input: []rune(input)}
}

// Next returns the next token. It returns io.EOF at the end of the input
// and keeps returning the first LexError once one occurred.
func (l *Lexer) Next() (Token, error) {
	if l.err != nil {
		return Token{}, l.err
	}

	l.skipWhitespace()
	if l.pos >= len(l.input) {
		return Token{}, io.EOF
	}

	start := l.pos
	ch := l.input[l.pos]

	if tt, ok := singleCharTokens[ch]; ok {
		l.pos++
		return Operator(tt, start), nil
	}
	if isDigit(ch) {
		return l.readNumber()
	}

	l.err = &LexError{Kind: UnexpectedChar, Char: ch, Position: start, Text: string(ch)}
	return Token{}, l.err
}

// Position returns the index of the next unread character
func (l *Lexer) Position() int {
	return l.pos
}

// readNumber consumes the maximal digit run at the current position
func (l *Lexer) readNumber() (Token, error) {
	start := l.pos
	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.pos++
	}
	text := string(l.input[start:l.pos])

	// the run holds only ASCII digits, so a range error is the only failure
	value, err := strconv.ParseUint(text, 10, 32)
	if err != nil {
		l.err = &LexError{Kind: NumberOverflow, Char: l.input[start], Position: start, Text: text}
		return Token{}, l.err
	}
	return Number(uint32(value), start), nil
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) && (l.input[l.pos] == ' ' || l.input[l.pos] == '\t') {
		l.pos++
	}
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

// Tokenize scans the whole input. No tokens are returned on failure.
func Tokenize(input string) ([]Token, error) {
	l := NewLexer(input)
	tokens := make([]Token, 0, len(input)/2+1)
	for {
		tok, err := l.Next()
		if err == io.EOF {
			return tokens, nil
		}
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
}
