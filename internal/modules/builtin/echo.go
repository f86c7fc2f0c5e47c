package builtin

import (
	"context"
	"os"
	"strings"

	"shellemu/internal/core"
)

// Echo печатает аргументы через один пробел.
type Echo struct{}

func (e *Echo) Name() string { return "echo" }

func (e *Echo) Execute(ctx context.Context, args []string) (core.Outcome, error) {
	return core.Ok(strings.Join(args, " ")), nil
}

// Pwd печатает текущий рабочий каталог; аргументы игнорируются.
type Pwd struct {
	// Getwd подменяется в тестах.
	Getwd func() (string, error)
}

func (p *Pwd) Name() string { return "pwd" }

func (p *Pwd) Execute(ctx context.Context, args []string) (core.Outcome, error) {
	getwd := p.Getwd
	if getwd == nil {
		getwd = os.Getwd
	}
	dir, err := getwd()
	if err != nil || dir == "" {
		dir = os.Getenv("PWD")
	}
	if dir == "" {
		dir = "."
	}
	return core.Ok(dir), nil
}

// Exit подтверждает завершение; остановку выполняет фронтенд.
type Exit struct{}

func (e *Exit) Name() string { return "exit" }

func (e *Exit) Execute(ctx context.Context, args []string) (core.Outcome, error) {
	text := "exit"
	if len(args) > 0 {
		text += " " + strings.Join(args, " ")
	}
	return core.Outcome{Succeeded: true, Text: text, Terminate: true}, nil
}
