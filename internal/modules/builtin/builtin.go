package builtin

import (
	"context"
	"fmt"

	"shellemu/internal/core"
)

// Paths передает обработчикам разрешенные пути конфигурации.
type Paths struct {
	VFS    string
	Log    string
	Script string
}

// Register добавляет в реестр встроенные команды echo, pwd, info (wtf) и exit.
func Register(ctx context.Context, r *core.Registry, paths Paths) error {
	handlers := []core.Handler{
		&Echo{},
		&Pwd{},
		&Info{Paths: paths},
		&Exit{},
	}
	for _, h := range handlers {
		if err := r.Register(ctx, h); err != nil {
			return fmt.Errorf("register %s: %w", h.Name(), err)
		}
	}
	if err := r.Alias("wtf", "info"); err != nil {
		return fmt.Errorf("alias wtf: %w", err)
	}
	return nil
}
