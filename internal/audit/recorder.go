package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"shellemu/internal/storage"
)

// Recorder ведет журнал команд и хранилище ошибок.
type Recorder struct {
	Log       *CommandLog
	Errors    storage.ErrorStore
	User      string
	SessionID string
	Logger    *slog.Logger

	// Now подменяется в тестах.
	Now func() time.Time
}

// Record фиксирует одну попытку. При failed=true дополнительно пишет запись об ошибке.
// Возвращает объединенную ошибку записи; сама команда от нее не зависит.
func (r *Recorder) Record(ctx context.Context, raw string, failed bool, detail string) error {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	ts := now()

	status := StatusOK
	if failed {
		status = StatusError
	}

	var errs []error
	if r.Log != nil {
		if err := r.Log.Record(Entry{Time: ts, User: r.User, Status: status, Raw: raw}); err != nil {
			errs = append(errs, err)
		}
	}
	if failed && r.Errors != nil {
		rec := storage.ErrorRecord{Time: ts, User: r.User, Command: raw, Error: detail, SessionID: r.SessionID}
		if err := r.Errors.Append(ctx, rec); err != nil {
			errs = append(errs, fmt.Errorf("append error record: %w", err))
		}
	}

	err := errors.Join(errs...)
	if err != nil && r.Logger != nil {
		r.Logger.Warn("audit write failed", "command", raw, "status", string(status), "err", err)
	}
	return err
}
