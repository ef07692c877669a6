// File: symbol.go
// Title: Grammar Symbols
// Description: Defines the grammar symbols realized by parse tree nodes: the
//              four non-terminals of the arithmetic grammar and the seven
//              terminals matched directly against tokens.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19

package tree

import (
	"fmt"
	"strconv"
)

// Kind identifies a grammar symbol
type Kind int

const (
	// Non-terminals, lowest precedence first
	KindExpr Kind = iota
	KindMultiDivExpr
	KindDivExpr
	KindTerm

	// Terminals
	KindNumber
	KindPlus
	KindMinus
	KindStar
	KindSlash
	KindLeftParen
	KindRightParen
)

var kindNames = [...]string{
	KindExpr:         "Expr",
	KindMultiDivExpr: "MultiDivExpr",
	KindDivExpr:      "DivExpr",
	KindTerm:         "Term",
	KindNumber:       "Number",
	KindPlus:         "Plus",
	KindMinus:        "Minus",
	KindStar:         "Star",
	KindSlash:        "Slash",
	KindLeftParen:    "LeftParen",
	KindRightParen:   "RightParen",
}

// String returns the symbol name
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// IsTerminal reports whether the kind is matched directly against a token
func (k Kind) IsTerminal() bool {
	return k >= KindNumber && k <= KindRightParen
}

// Lexeme returns the source text of an operator or parenthesis terminal
func (k Kind) Lexeme() string {
	switch k {
	case KindPlus:
		return "+"
	case KindMinus:
		return "-"
	case KindStar:
		return "*"
	case KindSlash:
		return "/"
	case KindLeftParen:
		return "("
	case KindRightParen:
		return ")"
	default:
		return ""
	}
}

// ParseKind returns the kind with the given name
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown symbol %q", name)
}

// Symbol is the grammar symbol realized at a node. Value is only meaningful
// for KindNumber.
type Symbol struct {
	Kind  Kind
	Value uint32
}

// Number returns the symbol of a number literal
func Number(v uint32) Symbol {
	return Symbol{Kind: KindNumber, Value: v}
}

// Of returns the symbol of a kind that carries no value
func Of(k Kind) Symbol {
	return Symbol{Kind: k}
}

// IsTerminal reports whether the symbol is a terminal
func (s Symbol) IsTerminal() bool {
	return s.Kind.IsTerminal()
}

// String renders the symbol, e.g. "Expr", "Plus" or "Number(42)"
func (s Symbol) String() string {
	if s.Kind == KindNumber {
		return fmt.Sprintf("Number(%d)", s.Value)
	}
	return s.Kind.String()
}
