package shell

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"shellemu/internal/core"
	"shellemu/internal/tokenizer"
)

// Auditor фиксирует каждую попытку выполнить команду.
type Auditor interface {
	Record(ctx context.Context, raw string, failed bool, detail string) error
}

// Result описывает прохождение одной строки через конвейер.
type Result struct {
	Outcome core.Outcome
	// Skipped выставляется для пустого ввода: ничего не выполнялось и не журналировалось.
	Skipped bool
	// Warning содержит ошибку записи журнала; на результат команды она не влияет.
	Warning error
}

// Render возвращает текст для вывода пользователю вместе с предупреждениями.
func (r Result) Render() string {
	if r.Warning == nil {
		return r.Outcome.Text
	}
	var b strings.Builder
	b.WriteString(r.Outcome.Text)
	for _, line := range strings.Split(r.Warning.Error(), "\n") {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("warning: " + line)
	}
	return b.String()
}

// Pipeline прогоняет сырую строку через токенизатор, диспетчер и журнал.
type Pipeline struct {
	dispatcher *core.Dispatcher
	auditor    Auditor
	logger     *slog.Logger
}

// NewPipeline создает конвейер; auditor может быть nil.
func NewPipeline(dispatcher *core.Dispatcher, auditor Auditor, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{dispatcher: dispatcher, auditor: auditor, logger: logger}
}

// Execute выполняет одну строку. Ровно одна запись журнала на непустой ввод.
func (p *Pipeline) Execute(ctx context.Context, raw string) Result {
	tokens, err := tokenizer.Tokenize(raw)
	if err != nil {
		out := core.Outcome{
			Succeeded:   false,
			ErrorDetail: err.Error(),
			Text:        fmt.Sprintf("parse error: %v\nexample: echo \"text\"", err),
		}
		return p.finish(ctx, raw, out)
	}
	if len(tokens) == 0 {
		return Result{Outcome: core.Outcome{Succeeded: true}, Skipped: true}
	}
	return p.finish(ctx, raw, p.dispatcher.Dispatch(ctx, tokens))
}

func (p *Pipeline) finish(ctx context.Context, raw string, out core.Outcome) Result {
	p.logger.Debug("command executed", "command", raw, "ok", out.Succeeded, "terminate", out.Terminate)
	res := Result{Outcome: out}
	if p.auditor != nil {
		res.Warning = p.auditor.Record(ctx, raw, !out.Succeeded, out.ErrorDetail)
	}
	return res
}
