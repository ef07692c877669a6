// File: visitor.go
// Title: Parse Tree Traversal
// Description: Depth-first, left-to-right traversal of parse trees. The walk
//              uses an explicit stack so very deep trees do not grow the
//              goroutine stack.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19

package tree

// Visitor is called for every node in pre-order. depth is 0 for the root.
// Returning false skips the node's children.
type Visitor interface {
	Visit(node *Node, depth int) bool
}

// VisitorFunc adapts a function to the Visitor interface
type VisitorFunc func(node *Node, depth int) bool

// Visit calls f(node, depth)
func (f VisitorFunc) Visit(node *Node, depth int) bool {
	return f(node, depth)
}

type frame struct {
	node  *Node
	depth int
}

// Walk traverses the tree rooted at root in pre-order
func Walk(root *Node, v Visitor) {
	if root == nil {
		return
	}
	stack := []frame{{node: root}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !v.Visit(top.node, top.depth) {
			continue
		}
		for i := len(top.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: top.node.Children[i], depth: top.depth + 1})
		}
	}
}

// Counter tallies nodes by kind
type Counter struct {
	ByKind map[Kind]int
}

// NewCounter creates an empty Counter
func NewCounter() *Counter {
	return &Counter{ByKind: make(map[Kind]int)}
}

// Visit implements Visitor
func (c *Counter) Visit(node *Node, _ int) bool {
	c.ByKind[node.Symbol.Kind]++
	return true
}
