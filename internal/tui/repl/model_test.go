package repl

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	mdwerror "github.com/msto63/mathcfg/foundation/core/error"
	mdwlog "github.com/msto63/mathcfg/foundation/core/log"
	"github.com/msto63/mathcfg/foundation/mathcfg"
	"github.com/msto63/mathcfg/internal/history"
)

func newTestModel(t *testing.T, opts Options) Model {
	t.Helper()
	if opts.Engine == nil {
		engine, err := mathcfg.NewEngine(mathcfg.Options{Logger: mdwlog.NewNop()})
		if err != nil {
			t.Fatalf("NewEngine() error = %v", err)
		}
		opts.Engine = engine
	}
	m, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model)
}

func send(m Model, msg tea.Msg) (Model, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func submit(m Model, line string) (Model, tea.Cmd) {
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(line)})
	return send(m, tea.KeyMsg{Type: tea.KeyEnter})
}

func TestNew_RequiresEngine(t *testing.T) {
	if _, err := New(Options{}); !mdwerror.HasCode(err, mdwerror.CodeInvalidConfig) {
		t.Errorf("New() error = %v, want INVALID_CONFIG", err)
	}
}

func TestModel_ParseSuccess(t *testing.T) {
	m := newTestModel(t, Options{ShowTokens: true})

	m, cmd := submit(m, "  1+2 ")
	if cmd != nil {
		t.Error("no history store, expected no command")
	}
	entries := m.Entries()
	if len(entries) != 1 {
		t.Fatalf("Entries() = %d, want 1", len(entries))
	}
	e := entries[0]
	if e.Input != "1+2" || e.Failed {
		t.Errorf("entry = %+v", e)
	}
	for _, want := range []string{"tokens: NUMBER(1) PLUS NUMBER(2)", "Expr(3)", "      Number(1)", "  Plus"} {
		if !strings.Contains(e.Output, want) {
			t.Errorf("Output missing %q:\n%s", want, e.Output)
		}
	}
	if m.input.Value() != "" {
		t.Errorf("input not reset: %q", m.input.Value())
	}
	if !strings.Contains(m.View(), "1 ok") {
		t.Error("footer should count the successful parse")
	}
}

func TestModel_ParseError(t *testing.T) {
	m := newTestModel(t, Options{})

	m, _ = submit(m, "2 +")
	e := m.Entries()[0]
	if !e.Failed {
		t.Fatalf("entry should be marked failed: %+v", e)
	}
	// prompt width 2, caret under end of input at index 3
	if !strings.Contains(e.Output, "     ^") {
		t.Errorf("caret missing:\n%q", e.Output)
	}
	if !strings.Contains(e.Output, "[PARSE_UNEXPECTED_TOKEN]") {
		t.Errorf("code missing:\n%s", e.Output)
	}
	if strings.Contains(e.Output, "parse failed:") {
		t.Errorf("wrapping prefix leaked:\n%s", e.Output)
	}
	if !strings.Contains(m.View(), "1 failed") {
		t.Error("footer should count the failed parse")
	}
}

func TestModel_BlankAndClear(t *testing.T) {
	m := newTestModel(t, Options{})

	m, cmd := submit(m, "   ")
	if len(m.Entries()) != 0 || cmd != nil {
		t.Errorf("blank line produced entries %v", m.Entries())
	}

	m, _ = submit(m, "7")
	m, _ = submit(m, "(")
	if len(m.Entries()) != 2 {
		t.Fatalf("Entries() = %d, want 2", len(m.Entries()))
	}

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyCtrlL})
	if len(m.Entries()) != 0 {
		t.Errorf("ctrl+l left %d entries", len(m.Entries()))
	}
}

func TestModel_Recall(t *testing.T) {
	m := newTestModel(t, Options{})
	m, _ = submit(m, "1")
	m, _ = submit(m, "2*3")

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyUp})
	if got := m.input.Value(); got != "2*3" {
		t.Errorf("first up = %q, want 2*3", got)
	}
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyUp})
	if got := m.input.Value(); got != "1" {
		t.Errorf("second up = %q, want 1", got)
	}
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyDown})
	if got := m.input.Value(); got != "" {
		t.Errorf("down past the end = %q, want empty", got)
	}
}

func TestModel_Quit(t *testing.T) {
	tests := []struct {
		name string
		msg  func(Model) (Model, tea.Cmd)
	}{
		{"esc", func(m Model) (Model, tea.Cmd) { return send(m, tea.KeyMsg{Type: tea.KeyEsc}) }},
		{"ctrl+c", func(m Model) (Model, tea.Cmd) { return send(m, tea.KeyMsg{Type: tea.KeyCtrlC}) }},
		{"exit", func(m Model) (Model, tea.Cmd) { return submit(m, "exit") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, cmd := tt.msg(newTestModel(t, Options{}))
			if cmd == nil {
				t.Fatal("expected quit command")
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Error("command is not tea.Quit")
			}
			if m.View() != "" {
				t.Error("View() should be empty after quitting")
			}
		})
	}
}

func TestModel_RecordsHistory(t *testing.T) {
	store, err := history.NewSQLiteStore(history.Config{
		Path:   filepath.Join(t.TempDir(), "history.db"),
		Logger: mdwlog.NewNop(),
	})
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	defer store.Close()

	m := newTestModel(t, Options{History: store})
	m, cmd := submit(m, "(1")
	if cmd == nil {
		t.Fatal("expected history command")
	}
	msg := cmd()
	if rec, ok := msg.(recordedMsg); !ok || rec.err != nil {
		t.Fatalf("record message = %#v", msg)
	}
	m, _ = send(m, msg)
	if len(m.Entries()) != 1 {
		t.Errorf("successful record should not add entries: %d", len(m.Entries()))
	}

	entries, err := store.List(context.Background(), history.Filter{Source: history.SourceREPL})
	if err != nil || len(entries) != 1 {
		t.Fatalf("List() = %v, %v", entries, err)
	}
	if entries[0].Input != "(1" || entries[0].ErrorCode != mdwerror.CodeUnmatchedParen.String() {
		t.Errorf("entry = %+v", entries[0])
	}
}

func TestModel_RecordFailureShown(t *testing.T) {
	m := newTestModel(t, Options{})
	m, _ = send(m, recordedMsg{err: mdwerror.New("disk full")})
	entries := m.Entries()
	if len(entries) != 1 || !strings.Contains(entries[0].Output, "[history] disk full") {
		t.Errorf("Entries() = %+v", entries)
	}
}
