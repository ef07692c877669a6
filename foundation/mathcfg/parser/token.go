// File: token.go
// Title: Lexical Tokens
// Description: Defines the tokens of arithmetic expressions: unsigned integer
//              literals, the four binary operators and parentheses.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19

package parser

import (
	"fmt"

	mdwtree "github.com/msto63/mathcfg/foundation/mathcfg/tree"
)

// TokenType represents the type of a lexical token
type TokenType int

const (
	TokenNumber     TokenType = iota // 123
	TokenPlus                        // +
	TokenMinus                       // -
	TokenStar                        // *
	TokenSlash                       // /
	TokenLeftParen                   // (
	TokenRightParen                  // )
)

// String returns a string representation of the token type
func (tt TokenType) String() string {
	switch tt {
	case TokenNumber:
		return "NUMBER"
	case TokenPlus:
		return "PLUS"
	case TokenMinus:
		return "MINUS"
	case TokenStar:
		return "STAR"
	case TokenSlash:
		return "SLASH"
	case TokenLeftParen:
		return "LEFT_PAREN"
	case TokenRightParen:
		return "RIGHT_PAREN"
	default:
		return "UNKNOWN"
	}
}

// Token is a lexical token. Value is only set for TokenNumber; Position is
// the character index of the token's first character in the input.
type Token struct {
	Type     TokenType
	Value    uint32
	Position int
}

// String returns a string representation of the token
func (t Token) String() string {
	if t.Type == TokenNumber {
		return fmt.Sprintf("NUMBER(%d)", t.Value)
	}
	return t.Type.String()
}

// Lexeme returns the source text of the token
func (t Token) Lexeme() string {
	if t.Type == TokenNumber {
		return fmt.Sprintf("%d", t.Value)
	}
	return t.Symbol().Kind.Lexeme()
}

// Symbol returns the terminal grammar symbol matched by the token
func (t Token) Symbol() mdwtree.Symbol {
	switch t.Type {
	case TokenNumber:
		return mdwtree.Number(t.Value)
	case TokenPlus:
		return mdwtree.Of(mdwtree.KindPlus)
	case TokenMinus:
		return mdwtree.Of(mdwtree.KindMinus)
	case TokenStar:
		return mdwtree.Of(mdwtree.KindStar)
	case TokenSlash:
		return mdwtree.Of(mdwtree.KindSlash)
	case TokenLeftParen:
		return mdwtree.Of(mdwtree.KindLeftParen)
	default:
		return mdwtree.Of(mdwtree.KindRightParen)
	}
}

// Number creates a number token
func Number(value uint32, pos int) Token {
	return Token{Type: TokenNumber, Value: value, Position: pos}
}

// Operator creates a token for an operator or parenthesis
func Operator(tt TokenType, pos int) Token {
	return Token{Type: tt, Position: pos}
}
