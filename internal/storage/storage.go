package storage

import (
	"context"
	"time"
)

// Header задает колонки хранилища ошибок в порядке записи.
var Header = []string{"timestamp", "user", "command", "error"}

// ErrorRecord фиксирует неудачную попытку выполнить команду.
type ErrorRecord struct {
	Time      time.Time
	User      string
	Command   string
	Error     string
	SessionID string
}

// ErrorStore описывает append-only хранилище записей об ошибках.
type ErrorStore interface {
	Append(ctx context.Context, rec ErrorRecord) error
	// Recent возвращает последние записи, новые первыми.
	Recent(ctx context.Context, limit int) ([]ErrorRecord, error)
	Close() error
}

// ClampLimit приводит limit к диапазону выборки хранилищ.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	if limit > 200 {
		return 200
	}
	return limit
}
