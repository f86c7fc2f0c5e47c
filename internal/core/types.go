package core

import "context"

// Outcome описывает результат выполнения одной команды.
type Outcome struct {
	Succeeded   bool   `json:"succeeded"`
	Text        string `json:"text,omitempty"`
	Terminate   bool   `json:"terminate,omitempty"`
	ErrorDetail string `json:"error,omitempty"`
}

// Handler определяет контракт встроенной команды.
type Handler interface {
	Name() string
	Execute(ctx context.Context, args []string) (Outcome, error)
}

// Initializer реализуют обработчики, которым нужна подготовка при регистрации.
type Initializer interface {
	Init(ctx context.Context) error
}

// HandlerFunc позволяет зарегистрировать функцию как обработчик.
type HandlerFunc struct {
	CommandName string
	Fn          func(ctx context.Context, args []string) (Outcome, error)
}

func (h HandlerFunc) Name() string { return h.CommandName }

func (h HandlerFunc) Execute(ctx context.Context, args []string) (Outcome, error) {
	return h.Fn(ctx, args)
}

// Ok строит успешный результат с текстом.
func Ok(text string) Outcome {
	return Outcome{Succeeded: true, Text: text}
}
