package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	errHandlerExists    = errors.New("handler already registered")
	errUnknownCommand   = errors.New("unknown command")
	errInvalidArguments = errors.New("invalid arguments")
)

// Registry хранит зарегистрированные команды. Имена нечувствительны к регистру.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry создает пустой реестр команд.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register добавляет обработчик; имя должно быть уникальным.
func (r *Registry) Register(ctx context.Context, h Handler) error {
	if h == nil {
		return fmt.Errorf("handler is nil: %w", errInvalidArguments)
	}
	name := strings.ToLower(strings.TrimSpace(h.Name()))
	if name == "" {
		return fmt.Errorf("handler name is empty: %w", errInvalidArguments)
	}
	if _, exists := r.handlers[name]; exists {
		return fmt.Errorf("%s: %w", name, errHandlerExists)
	}
	if in, ok := h.(Initializer); ok {
		if err := in.Init(ctx); err != nil {
			return fmt.Errorf("init %s: %w", name, err)
		}
	}
	r.handlers[name] = h
	return nil
}

// Alias регистрирует дополнительное имя для уже известной команды.
func (r *Registry) Alias(alias, target string) error {
	alias = strings.ToLower(strings.TrimSpace(alias))
	if alias == "" {
		return fmt.Errorf("alias is empty: %w", errInvalidArguments)
	}
	h, ok := r.Lookup(target)
	if !ok {
		return fmt.Errorf("%s: %w", target, errUnknownCommand)
	}
	if _, exists := r.handlers[alias]; exists {
		return fmt.Errorf("%s: %w", alias, errHandlerExists)
	}
	r.handlers[alias] = h
	return nil
}

// Lookup ищет обработчик по имени без учета регистра.
func (r *Registry) Lookup(name string) (Handler, bool) {
	h, ok := r.handlers[strings.ToLower(name)]
	return h, ok
}

// Names возвращает отсортированный список имен, включая псевдонимы.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatcher сопоставляет токены команде и вызывает ее обработчик.
type Dispatcher struct {
	registry *Registry
}

// NewDispatcher создает диспетчер поверх реестра.
func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Dispatch выполняет команду tokens[0] с аргументами tokens[1:].
// Пустая последовательность дает успешный пустой результат.
func (d *Dispatcher) Dispatch(ctx context.Context, tokens []string) Outcome {
	if len(tokens) == 0 {
		return Outcome{Succeeded: true}
	}
	name := strings.ToLower(tokens[0])
	h, ok := d.registry.Lookup(name)
	if !ok {
		err := fmt.Errorf("%w: %s", errUnknownCommand, name)
		return Outcome{
			Succeeded:   false,
			ErrorDetail: err.Error(),
			Text:        fmt.Sprintf("%s\nsupported commands: %s", err, strings.Join(d.registry.Names(), ", ")),
		}
	}

	out, err := h.Execute(ctx, tokens[1:])
	if err != nil {
		out.Succeeded = false
		out.ErrorDetail = err.Error()
		if out.Text == "" {
			out.Text = fmt.Sprintf("%s: %v", name, err)
		}
	}
	return out
}
