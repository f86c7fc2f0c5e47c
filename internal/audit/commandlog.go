package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// TimeLayout формат метки времени в журнале команд.
const TimeLayout = "2006-01-02 15:04:05"

// Status результат попытки выполнить команду.
type Status string

const (
	StatusOK    Status = "OK"
	StatusError Status = "ERROR"
)

// Entry одна строка журнала команд.
type Entry struct {
	Time   time.Time
	User   string
	Status Status
	Raw    string
}

// Line форматирует запись без завершающего перевода строки.
func (e Entry) Line() string {
	return fmt.Sprintf("[%s] USER=%s %s: %s", e.Time.Format(TimeLayout), e.User, e.Status, e.Raw)
}

// CommandLog дописывает записи в текстовый журнал; файл никогда не усекается.
type CommandLog struct {
	path string
}

// NewCommandLog создает журнал по пути path.
func NewCommandLog(path string) *CommandLog {
	return &CommandLog{path: path}
}

// Record дописывает запись и сбрасывает ее на диск до возврата.
func (l *CommandLog) Record(e Entry) error {
	if dir := filepath.Dir(l.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) // #nosec G304 -- путь задается конфигурацией оператора.
	if err != nil {
		return fmt.Errorf("open command log: %w", err)
	}
	if _, err := f.WriteString(e.Line() + "\n"); err != nil {
		_ = f.Close()
		return fmt.Errorf("write command log: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("sync command log: %w", err)
	}
	return f.Close()
}
