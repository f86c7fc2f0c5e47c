package shell

import "context"

// Reply ответ интерактивному фронтенду.
type Reply struct {
	Text      string
	Succeeded bool
	// Terminate просит фронтенд завершить работу после короткой паузы.
	Terminate bool
	// Ignored выставляется, если ввод отброшен из-за выполняющегося скрипта.
	Ignored bool
}

// Session интерактивная точка входа поверх общего конвейера.
type Session struct {
	pipeline *Pipeline
	state    *RunState
}

// NewSession создает сессию, разделяющую состояние со ScriptRunner.
func NewSession(pipeline *Pipeline, state *RunState) *Session {
	return &Session{pipeline: pipeline, state: state}
}

// State возвращает состояние скрипта только для чтения.
func (s *Session) State() *RunState { return s.state }

// SubmitLine выполняет строку пользователя. Пока скрипт выполняется, ввод игнорируется.
func (s *Session) SubmitLine(ctx context.Context, raw string) Reply {
	if s.state.Mode() == Running {
		return Reply{Ignored: true}
	}
	res := s.pipeline.Execute(ctx, raw)
	return Reply{
		Text:      res.Render(),
		Succeeded: res.Outcome.Succeeded,
		Terminate: res.Outcome.Terminate,
	}
}
