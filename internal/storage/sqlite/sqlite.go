package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite driver

	"shellemu/internal/storage"
)

// Store реализует storage.ErrorStore поверх SQLite.
type Store struct {
	db *sql.DB
}

// Open инициализирует соединение и выполняет миграции.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}
	dsn := fmt.Sprintf("file:%s?_journal=WAL&_busy_timeout=5000&_sync=FULL", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func migrate(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS error_records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			ts DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			user TEXT NOT NULL,
			command TEXT NOT NULL,
			error TEXT NOT NULL,
			session_id TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_error_records_ts ON error_records(ts);`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Append сохраняет запись об ошибке.
func (s *Store) Append(ctx context.Context, rec storage.ErrorRecord) error {
	ts := rec.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO error_records(ts, user, command, error, session_id) VALUES(?,?,?,?,?)`,
		ts.UTC(), rec.User, rec.Command, rec.Error, rec.SessionID)
	if err != nil {
		return fmt.Errorf("insert error record: %w", err)
	}
	return nil
}

// Recent возвращает последние записи, новые первыми.
func (s *Store) Recent(ctx context.Context, limit int) ([]storage.ErrorRecord, error) {
	limit = storage.ClampLimit(limit)
	rows, err := s.db.QueryContext(ctx, `
SELECT ts, user, command, error, COALESCE(session_id, '')
FROM error_records
ORDER BY id DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query error records: %w", err)
	}
	defer rows.Close()

	records := make([]storage.ErrorRecord, 0, limit)
	for rows.Next() {
		var rec storage.ErrorRecord
		var ts string
		if err := rows.Scan(&ts, &rec.User, &rec.Command, &rec.Error, &rec.SessionID); err != nil {
			return nil, fmt.Errorf("scan error record: %w", err)
		}
		parsedTS, err := parseSQLiteTS(ts)
		if err != nil {
			return nil, fmt.Errorf("parse error record timestamp: %w", err)
		}
		rec.Time = parsedTS.Local()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate error records: %w", err)
	}
	return records, nil
}

func parseSQLiteTS(v string) (time.Time, error) {
	layouts := []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02 15:04:05",
	}
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, v); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported sqlite time format: %q", v)
}

// Close закрывает соединение.
func (s *Store) Close() error {
	return s.db.Close()
}
