// File: parser.go
// Title: Expression Parser
// Description: Recursive descent parser for the four-level arithmetic grammar
//
//                Expr         := MultiDivExpr ( ('+' | '-') Expr )?
//                MultiDivExpr := DivExpr ( '*' MultiDivExpr )?
//                DivExpr      := Term ( '/' DivExpr )?
//                Term         := Number | '(' Expr ')'
//
//              Each rule takes a token index and returns its node together
//              with the index following it. Look-ahead reads a token without
//              moving the cursor; a rule whose operator is not next returns
//              its single-child node and leaves the token to its caller.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19

package parser

import (
	"fmt"
	"slices"

	mdwlog "github.com/msto63/mathcfg/foundation/core/log"
	mdwtree "github.com/msto63/mathcfg/foundation/mathcfg/tree"
)

// DefaultMaxDepth is the default limit of nested rule activations
const DefaultMaxDepth = 4096

// Options configures parser behavior
type Options struct {
	Logger *mdwlog.Logger

	// MaxDepth limits nested rule activations; deeper input fails with
	// NestingTooDeep instead of exhausting the stack
	MaxDepth int

	// RequireOperator rejects an operand directly following a complete
	// operand with ExpectedOperator instead of reporting TrailingInput
	RequireOperator bool
}

// Parser builds parse trees from token sequences. A Parser holds no per-call
// state and may be shared between goroutines.
type Parser struct {
	logger  *mdwlog.Logger
	options Options
}

// New creates a new parser with the given options
func New(opts Options) (*Parser, error) {
	if opts.Logger == nil {
		opts.Logger = mdwlog.GetDefault()
	}
	if opts.MaxDepth < 0 {
		return nil, fmt.Errorf("max depth must not be negative: %d", opts.MaxDepth)
	}
	if opts.MaxDepth == 0 {
		opts.MaxDepth = DefaultMaxDepth
	}

	return &Parser{
		logger:  opts.Logger.WithField("component", "mathcfg-parser"),
		options: opts,
	}, nil
}

var defaultParser, _ = New(Options{Logger: mdwlog.NewNop()})

// Parse parses tokens with default options
func Parse(tokens []Token) (*mdwtree.Node, error) {
	return defaultParser.Parse(tokens)
}

// Parse parses a complete token sequence into a tree rooted at an Expr node
func (p *Parser) Parse(tokens []Token) (*mdwtree.Node, error) {
	if len(tokens) == 0 {
		p.logger.Debug("Parsing rejected empty input")
		return nil, &ParseError{Kind: EmptyInput, Rule: mdwtree.KindExpr, Expected: "expression"}
	}

	p.logger.Debug("Starting expression parsing", mdwlog.Fields{
		"tokens": len(tokens),
	})

	c := &cursor{parser: p, tokens: tokens, trace: p.logger.IsLevelEnabled(mdwlog.LevelTrace)}
	root, next, err := c.parseExpr(0)
	if err == nil && next < len(tokens) {
		tok := tokens[next]
		err = &ParseError{Kind: TrailingInput, Position: next, Rule: mdwtree.KindExpr, Expected: "end of input", Found: &tok}
	}
	if err != nil {
		p.logger.Warn("Expression parsing failed", mdwlog.Fields{
			"tokens": len(tokens),
			"error":  err.Error(),
		})
		return nil, err
	}

	p.logger.Debug("Expression parsing completed successfully", mdwlog.Fields{
		"tokens": len(tokens),
		"nodes":  root.Count(),
	})
	return root, nil
}

// cursor carries the state of one Parse call
type cursor struct {
	parser *Parser
	tokens []Token
	depth  int
	trace  bool
}

// peek returns the token at pos without consuming it; ok is false at end
// of input
func (c *cursor) peek(pos int) (Token, bool) {
	if pos >= len(c.tokens) {
		return Token{}, false
	}
	return c.tokens[pos], true
}

// enter records a rule activation and enforces the depth limit
func (c *cursor) enter(rule mdwtree.Kind, pos int) error {
	c.depth++
	if c.trace {
		c.parser.logger.Trace("Entering rule", mdwlog.Fields{
			"rule":     rule.String(),
			"position": pos,
			"depth":    c.depth,
		})
	}
	if c.depth > c.parser.options.MaxDepth {
		return &ParseError{Kind: NestingTooDeep, Position: pos, Rule: rule}
	}
	return nil
}

func (c *cursor) leave() {
	c.depth--
}

type ruleFunc func(pos int) (*mdwtree.Node, int, error)

func (c *cursor) parseExpr(pos int) (*mdwtree.Node, int, error) {
	return c.parseChain(mdwtree.KindExpr, pos, c.parseMultiDivExpr, c.parseExpr, TokenPlus, TokenMinus)
}

func (c *cursor) parseMultiDivExpr(pos int) (*mdwtree.Node, int, error) {
	return c.parseChain(mdwtree.KindMultiDivExpr, pos, c.parseDivExpr, c.parseMultiDivExpr, TokenStar)
}

func (c *cursor) parseDivExpr(pos int) (*mdwtree.Node, int, error) {
	return c.parseChain(mdwtree.KindDivExpr, pos, c.parseTerm, c.parseDivExpr, TokenSlash)
}

// parseChain implements "kind := operand ( op kind )?". The tail is the same
// rule, so operator chains lean to the right.
func (c *cursor) parseChain(kind mdwtree.Kind, pos int, operand, tail ruleFunc, ops ...TokenType) (*mdwtree.Node, int, error) {
	if err := c.enter(kind, pos); err != nil {
		return nil, pos, err
	}
	defer c.leave()

	head, next, err := operand(pos)
	if err != nil {
		return nil, pos, err
	}

	tok, ok := c.peek(next)
	if !ok {
		return mdwtree.NewNonTerminal(kind, head), next, nil
	}

	if slices.Contains(ops, tok.Type) {
		rest, after, err := tail(next + 1)
		if err != nil {
			return nil, pos, err
		}
		return mdwtree.NewNonTerminal(kind, head, mdwtree.NewTerminal(tok.Symbol()), rest), after, nil
	}

	if c.parser.options.RequireOperator && (tok.Type == TokenNumber || tok.Type == TokenLeftParen) {
		return nil, pos, &ParseError{
			Kind:     ExpectedOperator,
			Position: next,
			Rule:     kind,
			Expected: "operator",
			Found:    &tok,
		}
	}

	// fall through: the look-ahead belongs to a caller
	return mdwtree.NewNonTerminal(kind, head), next, nil
}

// parseTerm returns a bare Number leaf or a Term node for a parenthesised
// sub-expression
func (c *cursor) parseTerm(pos int) (*mdwtree.Node, int, error) {
	if err := c.enter(mdwtree.KindTerm, pos); err != nil {
		return nil, pos, err
	}
	defer c.leave()

	tok, ok := c.peek(pos)
	if !ok {
		return nil, pos, &ParseError{Kind: UnexpectedToken, Position: pos, Rule: mdwtree.KindTerm, Expected: "number or '('"}
	}

	switch tok.Type {
	case TokenNumber:
		return mdwtree.NewTerminal(tok.Symbol()), pos + 1, nil

	case TokenLeftParen:
		inner, next, err := c.parseExpr(pos + 1)
		if err != nil {
			return nil, pos, err
		}
		closing, ok := c.peek(next)
		if !ok || closing.Type != TokenRightParen {
			perr := &ParseError{Kind: UnmatchedParen, Position: pos, Rule: mdwtree.KindTerm, Expected: "')'"}
			if ok {
				perr.Found = &closing
			}
			return nil, pos, perr
		}
		return mdwtree.NewNonTerminal(mdwtree.KindTerm,
			mdwtree.NewTerminal(tok.Symbol()),
			inner,
			mdwtree.NewTerminal(closing.Symbol()),
		), next + 1, nil

	default:
		return nil, pos, &ParseError{Kind: UnexpectedToken, Position: pos, Rule: mdwtree.KindTerm, Expected: "number or '('", Found: &tok}
	}
}
