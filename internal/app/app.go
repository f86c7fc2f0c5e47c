package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"shellemu/internal/audit"
	"shellemu/internal/config"
	"shellemu/internal/core"
	"shellemu/internal/modules/builtin"
	"shellemu/internal/shell"
	"shellemu/internal/storage"
	"shellemu/internal/storage/csvstore"
	"shellemu/internal/storage/sqlite"
)

// App агрегирует зависимости ядра.
type App struct {
	Registry  *core.Registry
	Session   *shell.Session
	Runner    *shell.ScriptRunner
	State     *shell.RunState
	Store     storage.ErrorStore
	Config    config.Config
	Logger    *slog.Logger
	SessionID string
}

// NewApp строит приложение: реестр команд, журналы, сессию и исполнитель скриптов.
func NewApp(ctx context.Context, cfg config.Config, lg *slog.Logger) (*App, error) {
	if lg == nil {
		lg = slog.Default()
	}
	sessionID := uuid.NewString()
	lg = lg.With("session", sessionID)

	r := core.NewRegistry()
	paths := builtin.Paths{VFS: cfg.VFS, Log: cfg.Log, Script: cfg.Script}
	if err := builtin.Register(ctx, r, paths); err != nil {
		return nil, fmt.Errorf("register builtin commands: %w", err)
	}

	st, err := OpenErrorStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("open error store: %w", err)
	}

	rec := &audit.Recorder{
		Log:       audit.NewCommandLog(cfg.Log),
		Errors:    st,
		User:      audit.CurrentUser(),
		SessionID: sessionID,
		Logger:    lg,
	}
	pipeline := shell.NewPipeline(core.NewDispatcher(r), rec, lg)

	state := shell.NewRunState()
	state.Watch(func(mode shell.Mode, line int) {
		lg.Debug("script state changed", "mode", mode.String(), "line", line)
	})

	lg.Debug("app initialized", "commands", r.Names(), "log", cfg.Log, "error_store", cfg.ErrorLogPath())
	return &App{
		Registry:  r,
		Session:   shell.NewSession(pipeline, state),
		Runner:    shell.NewScriptRunner(pipeline, state, r.Names(), lg),
		State:     state,
		Store:     st,
		Config:    cfg,
		Logger:    lg,
		SessionID: sessionID,
	}, nil
}

// OpenErrorStore открывает хранилище ошибок согласно error_store.driver.
func OpenErrorStore(cfg config.Config) (storage.ErrorStore, error) {
	path := cfg.ErrorLogPath()
	switch cfg.ErrorStore.Driver {
	case "sqlite":
		return sqlite.Open(path)
	case "csv", "":
		return csvstore.New(path), nil
	default:
		return nil, fmt.Errorf("unsupported error store driver %q", cfg.ErrorStore.Driver)
	}
}

// RunStartupScript выполняет настроенный стартовый скрипт, если файл существует.
// ran=false означает, что скрипт не задан или отсутствует.
func (a *App) RunStartupScript(ctx context.Context, out io.Writer) (report shell.ScriptReport, ran bool, err error) {
	path := a.Config.Script
	if path == "" {
		return report, false, nil
	}
	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		a.Logger.Debug("startup script not found", "path", path)
		return report, false, nil
	}
	report, err = a.Runner.Run(ctx, path, out)
	return report, true, err
}

// Close высвобождает ресурсы приложения.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
