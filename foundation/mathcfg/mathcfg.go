// File: mathcfg.go
// Title: Expression Engine
// Description: High-level entry point used by the CLI, the REPL and the
//              WebSocket service. The engine trims and length-checks the
//              input, tokenizes and parses it, tags the call with a request
//              ID, measures it, logs the outcome and wraps failures in
//              foundation errors that keep the lexer/parser error reachable.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19

package mathcfg

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	mdwerror "github.com/msto63/mathcfg/foundation/core/error"
	mdwlog "github.com/msto63/mathcfg/foundation/core/log"
	mdwparser "github.com/msto63/mathcfg/foundation/mathcfg/parser"
	mdwtree "github.com/msto63/mathcfg/foundation/mathcfg/tree"
	mdwstringx "github.com/msto63/mathcfg/foundation/utils/stringx"
)

// DefaultMaxInputLength is the default input limit in characters
const DefaultMaxInputLength = 4096

// Engine tokenizes and parses expressions
type Engine struct {
	parser  *mdwparser.Parser
	logger  *mdwlog.Logger
	options Options
}

// Options configures the engine behavior
type Options struct {
	// Logger for engine operations (optional, defaults to default logger)
	Logger *mdwlog.Logger

	// MaxInputLength limits the trimmed input length in characters (default: 4096)
	MaxInputLength int

	// MaxDepth limits parser rule nesting (default: parser.DefaultMaxDepth)
	MaxDepth int

	// RequireOperator reports ExpectedOperator for "2 3" instead of TrailingInput
	RequireOperator bool
}

// Result is the outcome of one Parse call. On failure Tree is nil and
// Tokens holds whatever the lexer produced before the parser ran.
type Result struct {
	Input     string
	Tokens    []mdwparser.Token
	Tree      *mdwtree.Node
	RequestID string
	Duration  time.Duration
}

// NewEngine creates a new engine. Only the first Options value is used.
func NewEngine(opts ...Options) (*Engine, error) {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.Logger == nil {
		o.Logger = mdwlog.GetDefault()
	}
	if o.MaxInputLength == 0 {
		o.MaxInputLength = DefaultMaxInputLength
	}
	if o.MaxInputLength < 0 {
		return nil, mdwerror.Newf("max input length must not be negative: %d", o.MaxInputLength).
			WithCode(mdwerror.CodeInvalidConfig)
	}

	logger := o.Logger.WithField("component", "mathcfg-engine")

	p, err := mdwparser.New(mdwparser.Options{
		Logger:          o.Logger,
		MaxDepth:        o.MaxDepth,
		RequireOperator: o.RequireOperator,
	})
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to initialize parser").WithCode(mdwerror.CodeInvalidConfig)
	}

	logger.Debug("Expression engine initialized", mdwlog.Fields{
		"maxInputLength":  o.MaxInputLength,
		"requireOperator": o.RequireOperator,
	})

	return &Engine{parser: p, logger: logger, options: o}, nil
}

// Options returns the effective options
func (e *Engine) Options() Options {
	return e.options
}

// Tokenize trims the input and returns its tokens
func (e *Engine) Tokenize(input string) ([]mdwparser.Token, error) {
	input = strings.TrimSpace(input)
	requestID := uuid.NewString()

	if err := e.checkLength(input); err != nil {
		return nil, err.WithOperation("tokenize").WithRequestID(requestID)
	}

	tokens, err := mdwparser.Tokenize(input)
	if err != nil {
		return nil, e.wrap(err, "tokenize", input, requestID)
	}
	e.logger.WithRequestID(requestID).Debug("Expression tokenized", mdwlog.Fields{
		"tokens": len(tokens),
	})
	return tokens, nil
}

// Parse trims, tokenizes and parses the input. The returned Result is never
// nil, so callers can record failed attempts as well.
func (e *Engine) Parse(input string) (*Result, error) {
	res := &Result{
		Input:     strings.TrimSpace(input),
		RequestID: uuid.NewString(),
	}
	logger := e.logger.WithRequestID(res.RequestID)
	timer := logger.StartTimer("parse").WithField("input", mdwstringx.Truncate(res.Input, 80, "..."))

	if err := e.checkLength(res.Input); err != nil {
		res.Duration = timer.StopWithError(err)
		return res, err.WithOperation("parse").WithRequestID(res.RequestID)
	}

	tokens, err := mdwparser.Tokenize(res.Input)
	if err != nil {
		res.Duration = timer.StopWithError(err)
		return res, e.wrap(err, "tokenize", res.Input, res.RequestID)
	}
	res.Tokens = tokens
	timer.WithField("tokens", len(tokens))

	root, err := e.parser.Parse(tokens)
	if err != nil {
		res.Duration = timer.StopWithError(err)
		return res, e.wrap(err, "parse", res.Input, res.RequestID)
	}
	res.Tree = root
	res.Duration = timer.WithField("nodes", root.Count()).Stop()
	return res, nil
}

func (e *Engine) checkLength(input string) *mdwerror.Error {
	if n := utf8.RuneCountInString(input); n > e.options.MaxInputLength {
		return mdwerror.Newf("input exceeds maximum length: %d > %d", n, e.options.MaxInputLength).
			WithCode(mdwerror.CodeInvalidLength).
			WithDetail("length", n).
			WithDetail("max", e.options.MaxInputLength)
	}
	return nil
}

func (e *Engine) wrap(err error, op, input, requestID string) error {
	werr := mdwerror.Wrap(err, fmt.Sprintf("%s failed", op)).
		WithOperation(op).
		WithRequestID(requestID).
		WithDetail("input", mdwstringx.Truncate(input, 80, "...")).
		WithDetail("kind", mdwparser.KindOf(err))
	return werr
}

// Locate returns the character index in r.Input that a failure of this
// Parse call points at. It returns false for errors without a position.
func (r *Result) Locate(err error) (int, bool) {
	var lexErr *mdwparser.LexError
	if errors.As(err, &lexErr) {
		return lexErr.Position, true
	}

	var parseErr *mdwparser.ParseError
	if !errors.As(err, &parseErr) {
		return 0, false
	}
	switch {
	case parseErr.Kind == mdwparser.UnmatchedParen && parseErr.Position < len(r.Tokens):
		return r.Tokens[parseErr.Position].Position, true
	case parseErr.Found != nil:
		return parseErr.Found.Position, true
	default:
		return utf8.RuneCountInString(r.Input), true
	}
}

// Succeeded reports whether the call produced a tree
func (r *Result) Succeeded() bool {
	return r.Tree != nil
}
