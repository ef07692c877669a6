package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	mdwerror "github.com/msto63/mathcfg/foundation/core/error"
	mdwlog "github.com/msto63/mathcfg/foundation/core/log"
	"github.com/msto63/mathcfg/foundation/mathcfg"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(Config{
		Path:   filepath.Join(t.TempDir(), "nested", "history.db"),
		Logger: mdwlog.NewNop(),
	})
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func parseAndRecord(t *testing.T, store Store, engine *mathcfg.Engine, input, source string) *Entry {
	t.Helper()
	res, err := engine.Parse(input)
	entry := EntryFromResult(res, err, source)
	if err := store.Record(context.Background(), entry); err != nil {
		t.Fatalf("Record(%q) error = %v", input, err)
	}
	return entry
}

func TestNewSQLiteStore_EmptyPath(t *testing.T) {
	if _, err := NewSQLiteStore(Config{}); !mdwerror.HasCode(err, mdwerror.CodeInvalidConfig) {
		t.Errorf("NewSQLiteStore() error = %v, want INVALID_CONFIG", err)
	}
}

func TestEntryFromResult(t *testing.T) {
	engine, _ := mathcfg.NewEngine(mathcfg.Options{Logger: mdwlog.NewNop()})

	res, err := engine.Parse("1 + 2")
	ok := EntryFromResult(res, err, SourceCLI)
	if !ok.Success || ok.TokenCount != 3 || ok.NodeCount != 9 || ok.RequestID != res.RequestID {
		t.Errorf("Success entry = %+v", ok)
	}
	if ok.ErrorCode != "" || ok.Error != "" {
		t.Errorf("Success entry has error fields: %+v", ok)
	}

	res, err = engine.Parse("(1 + 2")
	failed := EntryFromResult(res, err, SourceREPL)
	if failed.Success || failed.ErrorCode != string(mdwerror.CodeUnmatchedParen) || failed.ErrorKind != "UnmatchedParen" {
		t.Errorf("Failure entry = %+v", failed)
	}
	if failed.TokenCount != 4 || failed.NodeCount != 0 || failed.Source != SourceREPL {
		t.Errorf("Failure entry counts = %+v", failed)
	}
}

func TestSQLiteStore_RecordAndList(t *testing.T) {
	store := newTestStore(t)
	engine, _ := mathcfg.NewEngine(mathcfg.Options{Logger: mdwlog.NewNop()})
	ctx := context.Background()

	first := parseAndRecord(t, store, engine, "1+2", SourceCLI)
	parseAndRecord(t, store, engine, "2 3", SourceREPL)
	parseAndRecord(t, store, engine, "(4*5)/6", SourceWebSocket)
	parseAndRecord(t, store, engine, "7 % 2", SourceCLI)

	if first.ID == "" || first.Timestamp.IsZero() {
		t.Errorf("Record() should assign ID and timestamp: %+v", first)
	}

	all, err := store.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("List() returned %d entries, want 4", len(all))
	}
	if all[0].Input != "7 % 2" || all[3].Input != "1+2" {
		t.Errorf("List() order = %q ... %q, want newest first", all[0].Input, all[3].Input)
	}
	if all[3].ID != first.ID || all[3].RequestID != first.RequestID || all[3].NodeCount != first.NodeCount {
		t.Errorf("Round trip mismatch: %+v vs %+v", all[3], first)
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"succeeded", Filter{Status: StatusSucceeded}, []string{"(4*5)/6", "1+2"}},
		{"failed", Filter{Status: StatusFailed}, []string{"7 % 2", "2 3"}},
		{"source", Filter{Source: SourceCLI}, []string{"7 % 2", "1+2"}},
		{"error code", Filter{ErrorCode: string(mdwerror.CodeTrailingInput)}, []string{"2 3"}},
		{"contains", Filter{Contains: "*"}, []string{"(4*5)/6"}},
		{"contains escapes wildcard", Filter{Contains: "%"}, []string{"7 % 2"}},
		{"limit", Filter{Limit: 1}, []string{"7 % 2"}},
		{"offset", Filter{Limit: 2, Offset: 1}, []string{"(4*5)/6", "2 3"}},
		{"offset without limit", Filter{Offset: 3}, []string{"1+2"}},
		{"since future", Filter{Since: time.Now().Add(time.Hour)}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := store.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			var got []string
			for _, e := range entries {
				got = append(got, e.Input)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("List() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("List()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSQLiteStore_Stats(t *testing.T) {
	store := newTestStore(t)
	engine, _ := mathcfg.NewEngine(mathcfg.Options{Logger: mdwlog.NewNop()})
	ctx := context.Background()

	empty, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if empty.Total != 0 || !empty.Last.IsZero() {
		t.Errorf("Empty stats = %+v", empty)
	}

	parseAndRecord(t, store, engine, "1", SourceCLI)
	parseAndRecord(t, store, engine, "1+", SourceCLI)
	parseAndRecord(t, store, engine, "2+", SourceREPL)
	parseAndRecord(t, store, engine, "x", SourceWebSocket)

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Total != 4 || stats.Succeeded != 1 || stats.Failed != 3 {
		t.Errorf("Counts = %d/%d/%d, want 4/1/3", stats.Total, stats.Succeeded, stats.Failed)
	}
	if stats.ByErrorCode[string(mdwerror.CodeUnexpectedToken)] != 2 || stats.ByErrorCode[string(mdwerror.CodeUnexpectedChar)] != 1 {
		t.Errorf("ByErrorCode = %v", stats.ByErrorCode)
	}
	if stats.BySource[SourceCLI] != 2 || stats.BySource[SourceREPL] != 1 || stats.BySource[SourceWebSocket] != 1 {
		t.Errorf("BySource = %v", stats.BySource)
	}
	if stats.First.IsZero() || stats.Last.Before(stats.First) {
		t.Errorf("First/Last = %v/%v", stats.First, stats.Last)
	}
}

func TestSQLiteStore_Prune(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	old := &Entry{Input: "1", Success: true, Timestamp: time.Now().Add(-48 * time.Hour)}
	recent := &Entry{Input: "2", Success: true}
	for _, e := range []*Entry{old, recent} {
		if err := store.Record(ctx, e); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	deleted, err := store.Prune(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("Prune() deleted %d, want 1", deleted)
	}

	entries, _ := store.List(ctx, Filter{})
	if len(entries) != 1 || entries[0].Input != "2" {
		t.Errorf("Remaining entries = %+v", entries)
	}
	if entries[0].Source != SourceCLI {
		t.Errorf("Default source = %q, want cli", entries[0].Source)
	}
}

func TestSQLiteStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	store, err := NewSQLiteStore(Config{Path: path, Logger: mdwlog.NewNop()})
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	if err := store.Record(ctx, &Entry{Input: "42", Success: true}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	store.Close()

	reopened, err := NewSQLiteStore(Config{Path: path, Logger: mdwlog.NewNop()})
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	entries, err := reopened.List(ctx, Filter{})
	if err != nil || len(entries) != 1 || entries[0].Input != "42" {
		t.Errorf("List() after reopen = %v, %v", entries, err)
	}
}

func TestSQLiteStore_Ping(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Ping(ctx); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
	store.Close()
	if err := store.Ping(ctx); !mdwerror.HasCode(err, mdwerror.CodeDatabaseError) {
		t.Errorf("Ping() after Close = %v, want DATABASE_ERROR", err)
	}
}
