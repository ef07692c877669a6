package history

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	mdwerror "github.com/msto63/mathcfg/foundation/core/error"
	mdwlog "github.com/msto63/mathcfg/foundation/core/log"
)

// Entry is one recorded parse attempt
type Entry struct {
	ID         string        `json:"id"`
	Timestamp  time.Time     `json:"timestamp"`
	Source     string        `json:"source"`
	RequestID  string        `json:"request_id,omitempty"`
	Input      string        `json:"input"`
	Success    bool          `json:"success"`
	ErrorCode  string        `json:"error_code,omitempty"`
	ErrorKind  string        `json:"error_kind,omitempty"`
	Error      string        `json:"error,omitempty"`
	TokenCount int           `json:"token_count"`
	NodeCount  int           `json:"node_count"`
	Duration   time.Duration `json:"duration"`
}

// Status selects entries by outcome
type Status int

const (
	StatusAll Status = iota
	StatusSucceeded
	StatusFailed
)

// Filter defines criteria for listing entries
type Filter struct {
	Status    Status
	Source    string
	ErrorCode string
	Contains  string
	Since     time.Time
	Limit     int
	Offset    int
}

// Stats summarizes the recorded history
type Stats struct {
	Total       int64            `json:"total"`
	Succeeded   int64            `json:"succeeded"`
	Failed      int64            `json:"failed"`
	ByErrorCode map[string]int64 `json:"by_error_code"`
	BySource    map[string]int64 `json:"by_source"`
	AvgDuration time.Duration    `json:"avg_duration"`
	First       time.Time        `json:"first,omitempty"`
	Last        time.Time        `json:"last,omitempty"`
}

// Store defines the interface for parse history persistence
type Store interface {
	Record(ctx context.Context, entry *Entry) error
	List(ctx context.Context, filter Filter) ([]*Entry, error)
	Stats(ctx context.Context) (*Stats, error)
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	logger *mdwlog.Logger
}

// Config holds configuration for the SQLite store
type Config struct {
	Path   string
	Logger *mdwlog.Logger
}

// NewSQLiteStore opens (and if needed creates) the history database
func NewSQLiteStore(cfg Config) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, mdwerror.New("history path is empty").WithCode(mdwerror.CodeInvalidConfig)
	}
	if cfg.Logger == nil {
		cfg.Logger = mdwlog.GetDefault()
	}

	// Ensure directory exists
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, mdwerror.Wrap(err, "failed to create history directory").WithCode(mdwerror.CodeDatabaseError)
	}

	// Open database with WAL mode
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to open history database").WithCode(mdwerror.CodeDatabaseError)
	}

	store := &SQLiteStore{
		db:     db,
		logger: cfg.Logger.WithField("component", "history"),
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, mdwerror.Wrap(err, "failed to initialize history schema").WithCode(mdwerror.CodeDatabaseError)
	}

	store.logger.Debug("History store opened", mdwlog.Fields{"path": cfg.Path})
	return store, nil
}

// initSchema creates the necessary tables
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS parses (
		id TEXT PRIMARY KEY,
		timestamp DATETIME NOT NULL,
		source TEXT NOT NULL,
		request_id TEXT,
		input TEXT NOT NULL,
		success INTEGER NOT NULL,
		error_code TEXT,
		error_kind TEXT,
		error TEXT,
		token_count INTEGER NOT NULL DEFAULT 0,
		node_count INTEGER NOT NULL DEFAULT 0,
		duration_ns INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_parses_timestamp ON parses(timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_parses_success ON parses(success);
	CREATE INDEX IF NOT EXISTS idx_parses_error_code ON parses(error_code);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Record stores an entry, assigning ID and timestamp when missing
func (s *SQLiteStore) Record(ctx context.Context, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	entry.Timestamp = entry.Timestamp.UTC()
	if entry.Source == "" {
		entry.Source = SourceCLI
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO parses (id, timestamp, source, request_id, input, success, error_code, error_kind, error,
			token_count, node_count, duration_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.Timestamp, entry.Source, nullString(entry.RequestID), entry.Input, entry.Success,
		nullString(entry.ErrorCode), nullString(entry.ErrorKind), nullString(entry.Error),
		entry.TokenCount, entry.NodeCount, int64(entry.Duration))
	if err != nil {
		return mdwerror.Wrap(err, "failed to insert history entry").WithCode(mdwerror.CodeDatabaseError)
	}

	s.logger.Trace("History entry recorded", mdwlog.Fields{"id": entry.ID, "success": entry.Success})
	return nil
}

// List returns entries matching the filter, newest first
func (s *SQLiteStore) List(ctx context.Context, filter Filter) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, timestamp, source, request_id, input, success, error_code, error_kind, error,
		token_count, node_count, duration_ns FROM parses WHERE 1=1`
	var args []interface{}

	switch filter.Status {
	case StatusSucceeded:
		query += " AND success = 1"
	case StatusFailed:
		query += " AND success = 0"
	}
	if filter.Source != "" {
		query += " AND source = ?"
		args = append(args, filter.Source)
	}
	if filter.ErrorCode != "" {
		query += " AND error_code = ?"
		args = append(args, filter.ErrorCode)
	}
	if filter.Contains != "" {
		query += ` AND input LIKE ? ESCAPE '\'`
		args = append(args, "%"+escapeLike(filter.Contains)+"%")
	}
	if !filter.Since.IsZero() {
		query += " AND timestamp >= ?"
		args = append(args, filter.Since.UTC())
	}

	query += " ORDER BY timestamp DESC, rowid DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	} else if filter.Offset > 0 {
		query += " LIMIT -1"
	}
	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to query history").WithCode(mdwerror.CodeDatabaseError)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var entry Entry
		var requestID, errorCode, errorKind, errText sql.NullString
		var durationNS int64

		if err := rows.Scan(&entry.ID, &entry.Timestamp, &entry.Source, &requestID, &entry.Input, &entry.Success,
			&errorCode, &errorKind, &errText, &entry.TokenCount, &entry.NodeCount, &durationNS); err != nil {
			return nil, mdwerror.Wrap(err, "failed to scan history entry").WithCode(mdwerror.CodeDatabaseError)
		}

		entry.RequestID = requestID.String
		entry.ErrorCode = errorCode.String
		entry.ErrorKind = errorKind.String
		entry.Error = errText.String
		entry.Duration = time.Duration(durationNS)
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, mdwerror.Wrap(err, "failed to read history").WithCode(mdwerror.CodeDatabaseError)
	}

	return entries, nil
}

// Stats returns aggregate counts over all entries
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &Stats{
		ByErrorCode: make(map[string]int64),
		BySource:    make(map[string]int64),
	}

	var avg sql.NullFloat64
	var succeeded sql.NullInt64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*), SUM(success), AVG(duration_ns) FROM parses`).
		Scan(&stats.Total, &succeeded, &avg)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to compute history stats").WithCode(mdwerror.CodeDatabaseError)
	}
	stats.Succeeded = succeeded.Int64
	stats.Failed = stats.Total - stats.Succeeded
	if avg.Valid {
		stats.AvgDuration = time.Duration(avg.Float64)
	}

	if err := s.countBy(ctx, `SELECT error_code, COUNT(*) FROM parses WHERE success = 0 GROUP BY error_code`, stats.ByErrorCode); err != nil {
		return nil, err
	}
	if err := s.countBy(ctx, `SELECT source, COUNT(*) FROM parses GROUP BY source`, stats.BySource); err != nil {
		return nil, err
	}

	if stats.Total > 0 {
		// MIN/MAX lose the column type, so read the boundary rows instead
		s.db.QueryRowContext(ctx, `SELECT timestamp FROM parses ORDER BY timestamp ASC LIMIT 1`).Scan(&stats.First)
		s.db.QueryRowContext(ctx, `SELECT timestamp FROM parses ORDER BY timestamp DESC LIMIT 1`).Scan(&stats.Last)
	}

	return stats, nil
}

func (s *SQLiteStore) countBy(ctx context.Context, query string, into map[string]int64) error {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return mdwerror.Wrap(err, "failed to compute history stats").WithCode(mdwerror.CodeDatabaseError)
	}
	defer rows.Close()

	for rows.Next() {
		var key sql.NullString
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return mdwerror.Wrap(err, "failed to scan history stats").WithCode(mdwerror.CodeDatabaseError)
		}
		into[key.String] = count
	}
	return rows.Err()
}

// Prune deletes entries older than the given age
func (s *SQLiteStore) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-olderThan).UTC()

	result, err := s.db.ExecContext(ctx, `DELETE FROM parses WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, mdwerror.Wrap(err, "failed to prune history").WithCode(mdwerror.CodeDatabaseError)
	}
	deleted, _ := result.RowsAffected()

	s.logger.Debug("History pruned", mdwlog.Fields{"deleted": deleted, "cutoff": cutoff})
	return deleted, nil
}

// Ping checks that the database is reachable
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return mdwerror.Wrap(err, "history database unreachable").WithCode(mdwerror.CodeDatabaseError)
	}
	return nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
