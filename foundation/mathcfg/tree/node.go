// File: node.go
// Title: Parse Tree Nodes
// Description: Defines the parse tree produced by the parser. A node owns its
//              children exclusively; nodes are built bottom-up and are not
//              modified after construction.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19

package tree

import (
	"fmt"
	"strconv"
	"strings"
)

// Node is a parse tree node. Terminal nodes have no children; the children
// of a non-terminal are the right-hand side of the production chosen at it.
type Node struct {
	Symbol   Symbol
	Children []*Node
}

// NewTerminal creates a leaf node for a terminal symbol
func NewTerminal(sym Symbol) *Node {
	return &Node{Symbol: sym}
}

// NewNonTerminal creates a node for a non-terminal with the given children
func NewNonTerminal(kind Kind, children ...*Node) *Node {
	return &Node{Symbol: Of(kind), Children: children}
}

// IsTerminal reports whether the node realizes a terminal symbol
func (n *Node) IsTerminal() bool {
	return n.Symbol.IsTerminal()
}

// Child returns the i-th child or nil if there is none
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// String renders the subtree in compact form, for example
// Expr(MultiDivExpr(DivExpr(Number(1))), Plus, Expr(...)).
func (n *Node) String() string {
	var sb strings.Builder
	n.writeCompact(&sb)
	return sb.String()
}

func (n *Node) writeCompact(sb *strings.Builder) {
	sb.WriteString(n.Symbol.String())
	if len(n.Children) == 0 {
		return
	}
	sb.WriteByte('(')
	for i, c := range n.Children {
		if i > 0 {
			sb.WriteString(", ")
		}
		c.writeCompact(sb)
	}
	sb.WriteByte(')')
}

// Equal reports whether two subtrees have the same shape and symbols
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.Symbol != other.Symbol || len(n.Children) != len(other.Children) {
		return false
	}
	for i := range n.Children {
		if !n.Children[i].Equal(other.Children[i]) {
			return false
		}
	}
	return true
}

// Numbers returns the values of all Number terminals, left to right
func (n *Node) Numbers() []uint32 {
	var nums []uint32
	for _, t := range n.Terminals() {
		if t.Kind == KindNumber {
			nums = append(nums, t.Value)
		}
	}
	return nums
}

// Terminals returns the terminal symbols of the subtree, left to right
func (n *Node) Terminals() []Symbol {
	var syms []Symbol
	Walk(n, VisitorFunc(func(node *Node, _ int) bool {
		if node.IsTerminal() {
			syms = append(syms, node.Symbol)
		}
		return true
	}))
	return syms
}

// Count returns the number of nodes in the subtree
func (n *Node) Count() int {
	count := 0
	Walk(n, VisitorFunc(func(*Node, int) bool {
		count++
		return true
	}))
	return count
}

// Depth returns the number of nodes on the longest root-to-leaf path
func (n *Node) Depth() int {
	max := 0
	Walk(n, VisitorFunc(func(_ *Node, depth int) bool {
		if depth+1 > max {
			max = depth + 1
		}
		return true
	}))
	return max
}

// Source reconstructs the expression text from the terminals, with
// single spaces around binary operators.
func (n *Node) Source() string {
	var sb strings.Builder
	for _, t := range n.Terminals() {
		switch t.Kind {
		case KindNumber:
			sb.WriteString(strconv.FormatUint(uint64(t.Value), 10))
		case KindLeftParen, KindRightParen:
			sb.WriteString(t.Kind.Lexeme())
		default:
			sb.WriteString(" " + t.Kind.Lexeme() + " ")
		}
	}
	return sb.String()
}

// Validate checks the structural invariants of the subtree: terminals are
// leaves and every non-terminal matches one production of the grammar.
func (n *Node) Validate() error {
	var err error
	Walk(n, VisitorFunc(func(node *Node, depth int) bool {
		if err != nil {
			return false
		}
		err = node.validateProduction()
		if err != nil {
			err = fmt.Errorf("depth %d: %w", depth, err)
			return false
		}
		return true
	}))
	return err
}

func (n *Node) validateProduction() error {
	kids := n.Children
	if n.IsTerminal() {
		if len(kids) != 0 {
			return fmt.Errorf("terminal %s has %d children", n.Symbol, len(kids))
		}
		return nil
	}
	for i, c := range kids {
		if c == nil {
			return fmt.Errorf("%s: child %d is nil", n.Symbol, i)
		}
	}

	switch n.Symbol.Kind {
	case KindExpr:
		return checkChain(n.Symbol.Kind, kids, KindMultiDivExpr, KindPlus, KindMinus)
	case KindMultiDivExpr:
		return checkChain(n.Symbol.Kind, kids, KindDivExpr, KindStar)
	case KindDivExpr:
		if len(kids) == 0 {
			return fmt.Errorf("DivExpr has no children")
		}
		if k := kids[0].Symbol.Kind; k != KindNumber && k != KindTerm {
			return fmt.Errorf("DivExpr: operand is %s, want Number or Term", k)
		}
		if len(kids) == 1 {
			return nil
		}
		if len(kids) != 3 || kids[1].Symbol.Kind != KindSlash || kids[2].Symbol.Kind != KindDivExpr {
			return fmt.Errorf("DivExpr: invalid production %s", kindsOf(kids))
		}
		return nil
	case KindTerm:
		if len(kids) != 3 ||
			kids[0].Symbol.Kind != KindLeftParen ||
			kids[1].Symbol.Kind != KindExpr ||
			kids[2].Symbol.Kind != KindRightParen {
			return fmt.Errorf("Term: invalid production %s", kindsOf(kids))
		}
		return nil
	default:
		return fmt.Errorf("unknown symbol %s", n.Symbol)
	}
}

// checkChain validates "head" or "head op self" productions
func checkChain(self Kind, kids []*Node, head Kind, ops ...Kind) error {
	if len(kids) == 0 || kids[0].Symbol.Kind != head {
		return fmt.Errorf("%s: invalid production %s", self, kindsOf(kids))
	}
	if len(kids) == 1 {
		return nil
	}
	if len(kids) != 3 || kids[2].Symbol.Kind != self {
		return fmt.Errorf("%s: invalid production %s", self, kindsOf(kids))
	}
	for _, op := range ops {
		if kids[1].Symbol.Kind == op {
			return nil
		}
	}
	return fmt.Errorf("%s: unexpected operator %s", self, kids[1].Symbol)
}

func kindsOf(kids []*Node) string {
	names := make([]string, len(kids))
	for i, k := range kids {
		names[i] = k.Symbol.Kind.String()
	}
	return "[" + strings.Join(names, " ") + "]"
}
