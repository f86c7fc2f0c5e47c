package csvstore

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"shellemu/internal/storage"
)

// TimeLayout соответствует ISO-8601 с микросекундами, без зоны.
const TimeLayout = "2006-01-02T15:04:05.000000"

// Store реализует storage.ErrorStore поверх CSV-файла.
type Store struct {
	path string
}

// New создает хранилище; файл появляется при первой записи.
func New(path string) *Store {
	return &Store{path: path}
}

// Append дописывает строку; заголовок пишется, только если файла еще нет.
func (s *Store) Append(ctx context.Context, rec storage.ErrorRecord) error {
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create error store dir: %w", err)
		}
	}
	_, statErr := os.Stat(s.path)
	exists := statErr == nil

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) // #nosec G304 -- путь задается конфигурацией оператора.
	if err != nil {
		return fmt.Errorf("open error store: %w", err)
	}

	ts := rec.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	w := csv.NewWriter(f)
	if !exists {
		_ = w.Write(storage.Header)
	}
	_ = w.Write([]string{ts.Format(TimeLayout), rec.User, rec.Command, rec.Error})
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("write error record: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("sync error store: %w", err)
	}
	return f.Close()
}

// Recent читает файл целиком и возвращает последние limit записей.
func (s *Store) Recent(ctx context.Context, limit int) ([]storage.ErrorRecord, error) {
	limit = storage.ClampLimit(limit)
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []storage.ErrorRecord{}, nil
		}
		return nil, fmt.Errorf("open error store: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(storage.Header)
	var all []storage.ErrorRecord
	first := true
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read error store: %w", err)
		}
		if first {
			first = false
			if row[0] == storage.Header[0] {
				continue
			}
		}
		ts, err := time.ParseInLocation(TimeLayout, row[0], time.Local)
		if err != nil {
			return nil, fmt.Errorf("parse error record timestamp: %w", err)
		}
		all = append(all, storage.ErrorRecord{Time: ts, User: row[1], Command: row[2], Error: row[3]})
	}

	out := make([]storage.ErrorRecord, 0, limit)
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, all[i])
	}
	return out, nil
}

func (s *Store) Close() error { return nil }
