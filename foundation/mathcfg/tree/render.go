// File: render.go
// Title: Parse Tree Rendering
// Description: Renders a parse tree as a nested, indented listing with one
//              line per node: "Symbol(child-count)" for non-terminals and the
//              bare symbol for terminals. Optional lipgloss styles color the
//              symbol classes for terminal output.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19

package tree

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles colors the symbol classes in rendered output
type Styles struct {
	NonTerminal lipgloss.Style
	Number      lipgloss.Style
	Operator    lipgloss.Style
	Paren       lipgloss.Style
	Count       lipgloss.Style
	Depth       lipgloss.Style
}

// DefaultStyles returns the color scheme used by the CLI and the REPL
func DefaultStyles() *Styles {
	return &Styles{
		NonTerminal: lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED")).Bold(true),
		Number:      lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")),
		Operator:    lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
		Paren:       lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		Count:       lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		Depth:       lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Italic(true),
	}
}

// RenderOptions configures Render
type RenderOptions struct {
	// Indent is repeated once per depth level (default two spaces)
	Indent string

	// ShowDepth prefixes every line with the node depth
	ShowDepth bool

	// Styles enables colored output when non-nil
	Styles *Styles
}

// Render writes the indented listing of the tree rooted at root
func Render(w io.Writer, root *Node, opts RenderOptions) error {
	if opts.Indent == "" {
		opts.Indent = "  "
	}

	var werr error
	Walk(root, VisitorFunc(func(node *Node, depth int) bool {
		_, werr = io.WriteString(w, renderLine(node, depth, opts)+"\n")
		return werr == nil
	}))
	return werr
}

// RenderString returns the listing produced by Render
func RenderString(root *Node, opts RenderOptions) string {
	var sb strings.Builder
	_ = Render(&sb, root, opts)
	return sb.String()
}

func renderLine(node *Node, depth int, opts RenderOptions) string {
	var sb strings.Builder
	if opts.ShowDepth {
		sb.WriteString(style(opts.Styles, func(s *Styles) lipgloss.Style { return s.Depth }, fmt.Sprintf("[%d] ", depth)))
	}
	sb.WriteString(strings.Repeat(opts.Indent, depth))

	label := node.Symbol.String()
	switch kind := node.Symbol.Kind; {
	case !kind.IsTerminal():
		sb.WriteString(style(opts.Styles, func(s *Styles) lipgloss.Style { return s.NonTerminal }, label))
		sb.WriteString(style(opts.Styles, func(s *Styles) lipgloss.Style { return s.Count }, fmt.Sprintf("(%d)", len(node.Children))))
	case kind == KindNumber:
		sb.WriteString(style(opts.Styles, func(s *Styles) lipgloss.Style { return s.Number }, label))
	case kind == KindLeftParen || kind == KindRightParen:
		sb.WriteString(style(opts.Styles, func(s *Styles) lipgloss.Style { return s.Paren }, label))
	default:
		sb.WriteString(style(opts.Styles, func(s *Styles) lipgloss.Style { return s.Operator }, label))
	}
	return sb.String()
}

func style(s *Styles, pick func(*Styles) lipgloss.Style, text string) string {
	if s == nil {
		return text
	}
	return pick(s).Render(text)
}
