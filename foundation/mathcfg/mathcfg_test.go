// File: mathcfg_test.go
// Title: Expression Engine Tests
// Description: Tests for trimming, length limits, request metadata, error
//              wrapping and failure positions of the engine.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19

package mathcfg

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	mdwerror "github.com/msto63/mathcfg/foundation/core/error"
	mdwlog "github.com/msto63/mathcfg/foundation/core/log"
	mdwparser "github.com/msto63/mathcfg/foundation/mathcfg/parser"
)

func newTestEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = mdwlog.NewNop()
	}
	engine, err := NewEngine(opts)
	if err != nil {
		t.Fatalf("NewEngine() failed: %v", err)
	}
	return engine
}

func TestEngine_Parse(t *testing.T) {
	engine := newTestEngine(t, Options{})

	res, err := engine.Parse("  2 + 3 * 4\t")
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if res.Input != "2 + 3 * 4" {
		t.Errorf("Input = %q, want trimmed", res.Input)
	}
	if len(res.Tokens) != 5 {
		t.Errorf("Tokens = %v, want 5 tokens", res.Tokens)
	}
	if !res.Succeeded() || res.Tree.Source() != "2 + 3 * 4" {
		t.Errorf("Tree = %v", res.Tree)
	}
	if _, err := uuid.Parse(res.RequestID); err != nil {
		t.Errorf("RequestID %q is not a UUID: %v", res.RequestID, err)
	}
	if res.Duration <= 0 {
		t.Errorf("Duration = %v, want > 0", res.Duration)
	}

	other, _ := engine.Parse("1")
	if other.RequestID == res.RequestID {
		t.Error("Request IDs should be unique per call")
	}
}

func TestEngine_ParseErrors(t *testing.T) {
	engine := newTestEngine(t, Options{})

	tests := []struct {
		name     string
		input    string
		sentinel error
		code     mdwerror.Code
		position int
		kind     string
	}{
		{"Empty", "   ", mdwparser.ErrEmptyInput, mdwerror.CodeEmptyInput, 0, "EmptyInput"},
		{"Unexpected char", "2 + x", mdwparser.ErrUnexpectedChar, mdwerror.CodeUnexpectedChar, 4, "UnexpectedChar"},
		{"Overflow", "99999999999", mdwparser.ErrNumberOverflow, mdwerror.CodeNumberOverflow, 0, "NumberOverflow"},
		{"Unmatched paren", "1 + (2 * 3", mdwparser.ErrUnmatchedParen, mdwerror.CodeUnmatchedParen, 4, "UnmatchedParen"},
		{"Dangling operator", "2 +", mdwparser.ErrUnexpectedToken, mdwerror.CodeUnexpectedToken, 3, "UnexpectedToken"},
		{"Trailing input", "2 3", mdwparser.ErrTrailingInput, mdwerror.CodeTrailingInput, 2, "TrailingInput"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := engine.Parse(tt.input)
			if err == nil {
				t.Fatal("Expected error")
			}
			if res == nil || res.Tree != nil {
				t.Fatalf("Expected result without tree, got %+v", res)
			}
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", err, tt.sentinel)
			}
			if got := mdwerror.GetCode(err); got != tt.code {
				t.Errorf("GetCode() = %s, want %s", got, tt.code)
			}
			if got := mdwerror.GetSeverity(err); got != mdwerror.SeverityLow {
				t.Errorf("GetSeverity() = %s, want low", got)
			}

			var mdwErr *mdwerror.Error
			if !errors.As(err, &mdwErr) {
				t.Fatalf("Expected *mdwerror.Error, got %T", err)
			}
			if mdwErr.RequestID() != res.RequestID {
				t.Errorf("RequestID = %q, want %q", mdwErr.RequestID(), res.RequestID)
			}
			if mdwErr.Details()["kind"] != tt.kind {
				t.Errorf("kind detail = %v, want %s", mdwErr.Details()["kind"], tt.kind)
			}

			pos, ok := res.Locate(err)
			if !ok || pos != tt.position {
				t.Errorf("Locate() = %d, %v, want %d", pos, ok, tt.position)
			}
		})
	}
}

func TestEngine_MaxInputLength(t *testing.T) {
	engine := newTestEngine(t, Options{MaxInputLength: 5})

	if _, err := engine.Parse("1+2+3"); err != nil {
		t.Errorf("Input at the limit failed: %v", err)
	}

	res, err := engine.Parse("1+2+34")
	if !mdwerror.HasCode(err, mdwerror.CodeInvalidLength) {
		t.Fatalf("Expected INVALID_LENGTH, got %v", err)
	}
	if res.Tokens != nil {
		t.Error("Input over the limit should not be tokenized")
	}
	if _, ok := res.Locate(err); ok {
		t.Error("Length errors have no position")
	}

	if _, err := engine.Tokenize(strings.Repeat("1", 6)); !mdwerror.HasCode(err, mdwerror.CodeInvalidLength) {
		t.Errorf("Tokenize() expected INVALID_LENGTH, got %v", err)
	}

	if _, err := NewEngine(Options{MaxInputLength: -1}); err == nil {
		t.Error("Expected error for negative MaxInputLength")
	}
}

func TestEngine_Tokenize(t *testing.T) {
	engine := newTestEngine(t, Options{})

	tokens, err := engine.Tokenize(" 123+456 ")
	if err != nil {
		t.Fatalf("Tokenize() failed: %v", err)
	}
	if len(tokens) != 3 || tokens[0].Value != 123 || tokens[2].Value != 456 {
		t.Errorf("Tokenize() = %v", tokens)
	}

	_, err = engine.Tokenize("1 ? 2")
	if !errors.Is(err, mdwparser.ErrUnexpectedChar) || !mdwerror.HasCode(err, mdwerror.CodeUnexpectedChar) {
		t.Errorf("Tokenize() error = %v", err)
	}
}

func TestEngine_RequireOperator(t *testing.T) {
	engine := newTestEngine(t, Options{RequireOperator: true})

	_, err := engine.Parse("2 3")
	if !mdwerror.HasCode(err, mdwerror.CodeExpectedOperator) {
		t.Errorf("Expected PARSE_EXPECTED_OPERATOR, got %v", err)
	}
}

func TestEngine_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := mdwlog.NewWithConfig(mdwlog.Config{
		Level:  mdwlog.LevelDebug,
		Format: mdwlog.FormatText,
		Output: &buf,
	})
	engine := newTestEngine(t, Options{Logger: logger})

	ok, _ := engine.Parse("1+1")
	if !strings.Contains(buf.String(), "parse completed") || !strings.Contains(buf.String(), "req="+ok.RequestID) {
		t.Errorf("Missing success log:\n%s", buf.String())
	}

	buf.Reset()
	engine.Parse("1+")
	if !strings.Contains(buf.String(), "[WRN]") || !strings.Contains(buf.String(), "parse failed") {
		t.Errorf("Missing failure log:\n%s", buf.String())
	}
}
