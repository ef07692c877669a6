// File: parser_test.go
// Title: Expression Parser Unit Tests
// Description: Tests for tree shapes (precedence, right-leaning chains,
//              parentheses), failure kinds and positions, strict operator
//              mode, the nesting limit and the number-order property.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19

package parser

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	mdwerror "github.com/msto63/mathcfg/foundation/core/error"
	mdwlog "github.com/msto63/mathcfg/foundation/core/log"
	mdwtree "github.com/msto63/mathcfg/foundation/mathcfg/tree"
)

func mustParse(t *testing.T, input string) *mdwtree.Node {
	t.Helper()
	tokens, err := Tokenize(input)
	if err != nil {
		t.Fatalf("Tokenize(%q) failed: %v", input, err)
	}
	root, err := Parse(tokens)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", input, err)
	}
	return root
}

func TestParser_Shapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Single number",
			input: "3",
			want:  "Expr(MultiDivExpr(DivExpr(Number(3))))",
		},
		{
			name:  "Right-leaning addition chain",
			input: "1+2+3",
			want: "Expr(MultiDivExpr(DivExpr(Number(1))), Plus, " +
				"Expr(MultiDivExpr(DivExpr(Number(2))), Plus, " +
				"Expr(MultiDivExpr(DivExpr(Number(3))))))",
		},
		{
			name:  "Multiplication binds tighter",
			input: "2 + 3 * 4",
			want: "Expr(MultiDivExpr(DivExpr(Number(2))), Plus, " +
				"Expr(MultiDivExpr(DivExpr(Number(3)), Star, MultiDivExpr(DivExpr(Number(4))))))",
		},
		{
			name:  "Parenthesised division",
			input: "(2/3)+4",
			want: "Expr(MultiDivExpr(DivExpr(Term(LeftParen, " +
				"Expr(MultiDivExpr(DivExpr(Number(2), Slash, DivExpr(Number(3))))), " +
				"RightParen))), Plus, Expr(MultiDivExpr(DivExpr(Number(4)))))",
		},
		{
			name:  "Subtraction",
			input: "7-2",
			want:  "Expr(MultiDivExpr(DivExpr(Number(7))), Minus, Expr(MultiDivExpr(DivExpr(Number(2)))))",
		},
		{
			name:  "Division chain leans right",
			input: "8/4/2",
			want:  "Expr(MultiDivExpr(DivExpr(Number(8), Slash, DivExpr(Number(4), Slash, DivExpr(Number(2))))))",
		},
		{
			name:  "Division binds tighter than multiplication",
			input: "6*4/2",
			want:  "Expr(MultiDivExpr(DivExpr(Number(6)), Star, MultiDivExpr(DivExpr(Number(4), Slash, DivExpr(Number(2))))))",
		},
		{
			name:  "Nested parentheses",
			input: "((5))",
			want: "Expr(MultiDivExpr(DivExpr(Term(LeftParen, " +
				"Expr(MultiDivExpr(DivExpr(Term(LeftParen, Expr(MultiDivExpr(DivExpr(Number(5)))), RightParen)))), " +
				"RightParen))))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := mustParse(t, tt.input)
			if got := root.String(); got != tt.want {
				t.Errorf("Parse(%q)\n got: %s\nwant: %s", tt.input, got, tt.want)
			}
			if err := root.Validate(); err != nil {
				t.Errorf("Validate() failed: %v", err)
			}
		})
	}
}

func TestParser_ParenthesisRoundTrip(t *testing.T) {
	root := mustParse(t, "(2/3)+4")

	term := root.Child(0).Child(0).Child(0)
	if term.Symbol.Kind != mdwtree.KindTerm {
		t.Fatalf("Expected Term, got %s", term.Symbol)
	}
	if len(term.Children) != 3 {
		t.Fatalf("Term has %d children, want 3", len(term.Children))
	}

	standalone := mustParse(t, "2/3")
	if !term.Child(1).Equal(standalone) {
		t.Errorf("Wrapped expression %s differs from standalone %s", term.Child(1), standalone)
	}
}

func TestParser_Precedence(t *testing.T) {
	root := mustParse(t, "2 + 3 * 4")

	if len(root.Children) != 3 || root.Child(1).Symbol.Kind != mdwtree.KindPlus {
		t.Fatalf("Root children = %s", root)
	}
	tail := root.Child(2).Child(0)
	if tail.Symbol.Kind != mdwtree.KindMultiDivExpr || len(tail.Children) != 3 {
		t.Fatalf("Tail MultiDivExpr = %s", tail)
	}
	if tail.Child(1).Symbol.Kind != mdwtree.KindStar {
		t.Errorf("Expected Star, got %s", tail.Child(1).Symbol)
	}
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		sentinel error
		position int
		found    bool
		code     mdwerror.Code
	}{
		{"Empty input", "", ErrEmptyInput, 0, false, mdwerror.CodeEmptyInput},
		{"Whitespace only", "   ", ErrEmptyInput, 0, false, mdwerror.CodeEmptyInput},
		{"Unmatched paren", "(2+3", ErrUnmatchedParen, 0, false, mdwerror.CodeUnmatchedParen},
		{"Inner unmatched paren", "1*(2", ErrUnmatchedParen, 2, false, mdwerror.CodeUnmatchedParen},
		{"Paren closed by number", "(2 3", ErrUnmatchedParen, 0, true, mdwerror.CodeUnmatchedParen},
		{"Dangling operator", "2+", ErrUnexpectedToken, 2, false, mdwerror.CodeUnexpectedToken},
		{"Leading operator", "*2", ErrUnexpectedToken, 0, true, mdwerror.CodeUnexpectedToken},
		{"Empty parentheses", "()", ErrUnexpectedToken, 1, true, mdwerror.CodeUnexpectedToken},
		{"Double operator", "1+*2", ErrUnexpectedToken, 2, true, mdwerror.CodeUnexpectedToken},
		{"Trailing number", "2 3", ErrTrailingInput, 1, true, mdwerror.CodeTrailingInput},
		{"Stray closing paren", "2)", ErrTrailingInput, 1, true, mdwerror.CodeTrailingInput},
		{"Trailing group", "1+2(3)", ErrTrailingInput, 3, true, mdwerror.CodeTrailingInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			if err != nil {
				t.Fatalf("Tokenize(%q) failed: %v", tt.input, err)
			}
			root, err := Parse(tokens)
			if err == nil {
				t.Fatalf("Parse(%q) = %s, want error", tt.input, root)
			}
			if root != nil {
				t.Errorf("Expected no tree on failure, got %s", root)
			}
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", err, tt.sentinel)
			}

			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("Expected *ParseError, got %T", err)
			}
			if parseErr.Position != tt.position {
				t.Errorf("Position = %d, want %d", parseErr.Position, tt.position)
			}
			if (parseErr.Found != nil) != tt.found {
				t.Errorf("Found = %v, want present=%v", parseErr.Found, tt.found)
			}
			if parseErr.Code() != tt.code {
				t.Errorf("Code() = %s, want %s", parseErr.Code(), tt.code)
			}
		})
	}
}

func TestParser_ErrorMessages(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "empty input"},
		{"2+", "expected number or '(' at token 2, found end of input"},
		{"(2+3", "unmatched '(' at token 0: expected ')', found end of input"},
		{"2 3", "trailing input at token 1: NUMBER(3) at character 2"},
	}

	for _, tt := range tests {
		tokens, _ := Tokenize(tt.input)
		_, err := Parse(tokens)
		if err == nil || err.Error() != tt.want {
			t.Errorf("Parse(%q) error = %v, want %q", tt.input, err, tt.want)
		}
	}
}

func TestParser_RequireOperator(t *testing.T) {
	p, err := New(Options{Logger: mdwlog.NewNop(), RequireOperator: true})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	tokens, _ := Tokenize("2 3")
	_, err = p.Parse(tokens)
	if !errors.Is(err, ErrExpectedOperator) {
		t.Fatalf("Expected ExpectedOperator, got %v", err)
	}
	var parseErr *ParseError
	errors.As(err, &parseErr)
	if parseErr.Position != 1 || parseErr.Rule != mdwtree.KindDivExpr {
		t.Errorf("Got position %d rule %s, want 1 DivExpr", parseErr.Position, parseErr.Rule)
	}

	// closing parentheses and end of input still fall through
	tokens, _ = Tokenize("(1+2)*3")
	if _, err := p.Parse(tokens); err != nil {
		t.Errorf("Strict parse of valid input failed: %v", err)
	}

	tokens, _ = Tokenize("2)")
	if _, err := p.Parse(tokens); !errors.Is(err, ErrTrailingInput) {
		t.Errorf("Expected TrailingInput for stray ')', got %v", err)
	}
}

func TestParser_MaxDepth(t *testing.T) {
	p, err := New(Options{Logger: mdwlog.NewNop(), MaxDepth: 40})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	// every parenthesis level costs four rule activations
	shallow := strings.Repeat("(", 8) + "1" + strings.Repeat(")", 8)
	tokens, _ := Tokenize(shallow)
	if _, err := p.Parse(tokens); err != nil {
		t.Errorf("Parse of 8 levels failed: %v", err)
	}

	deep := strings.Repeat("(", 20) + "1" + strings.Repeat(")", 20)
	tokens, _ = Tokenize(deep)
	if _, err := p.Parse(tokens); !errors.Is(err, ErrNestingTooDeep) {
		t.Errorf("Expected NestingTooDeep, got %v", err)
	}

	chain := "1" + strings.Repeat("+1", 50)
	tokens, _ = Tokenize(chain)
	if _, err := p.Parse(tokens); !errors.Is(err, ErrNestingTooDeep) {
		t.Errorf("Expected NestingTooDeep for long chain, got %v", err)
	}

	if _, err := New(Options{MaxDepth: -1}); err == nil {
		t.Error("Expected error for negative max depth")
	}
}

func TestParser_DefaultDepthAllowsDeepInput(t *testing.T) {
	input := strings.Repeat("(", 500) + "1" + strings.Repeat(")", 500)
	root := mustParse(t, input)
	if got := root.Numbers(); !reflect.DeepEqual(got, []uint32{1}) {
		t.Errorf("Numbers() = %v", got)
	}
}

func TestParser_NumbersInOrder(t *testing.T) {
	tests := []struct {
		input string
		want  []uint32
	}{
		{"3", []uint32{3}},
		{"123+456", []uint32{123, 456}},
		{"1 + 2 * 3 / 4 - 5", []uint32{1, 2, 3, 4, 5}},
		{"(10 - (20 * 30)) / (40 + 50)", []uint32{10, 20, 30, 40, 50}},
		{"((((0))))*4294967295", []uint32{0, 4294967295}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			root := mustParse(t, tt.input)
			if got := root.Numbers(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Numbers() = %v, want %v", got, tt.want)
			}
			if err := root.Validate(); err != nil {
				t.Errorf("Validate() failed: %v", err)
			}
		})
	}
}

func TestParser_TraceLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := mdwlog.NewWithConfig(mdwlog.Config{
		Level:  mdwlog.LevelTrace,
		Format: mdwlog.FormatText,
		Output: &buf,
	})
	p, _ := New(Options{Logger: logger})

	tokens, _ := Tokenize("1")
	if _, err := p.Parse(tokens); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	out := buf.String()
	for _, rule := range []string{"rule=Expr", "rule=MultiDivExpr", "rule=DivExpr", "rule=Term"} {
		if !strings.Contains(out, rule) {
			t.Errorf("Trace output missing %q:\n%s", rule, out)
		}
	}
	if !strings.Contains(out, "Expression parsing completed successfully") {
		t.Errorf("Missing completion message:\n%s", out)
	}
}
