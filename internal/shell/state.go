package shell

import "sync"

// Mode состояние выполнения стартового скрипта.
type Mode int

const (
	Idle Mode = iota
	Running
	Halted
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Halted:
		return "halted"
	default:
		return "unknown"
	}
}

// RunState хранит состояние скрипта. Пишет только ScriptRunner, остальные читают.
type RunState struct {
	mu    sync.RWMutex
	mode  Mode
	line  int
	watch func(mode Mode, line int)
}

// NewRunState создает состояние в режиме Idle.
func NewRunState() *RunState {
	return &RunState{}
}

// Mode возвращает текущий режим.
func (s *RunState) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// Line возвращает номер обрабатываемой строки (с 1), 0 вне скрипта.
func (s *RunState) Line() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.line
}

// Watch задает callback, вызываемый после каждой смены состояния.
func (s *RunState) Watch(fn func(mode Mode, line int)) {
	s.mu.Lock()
	s.watch = fn
	s.mu.Unlock()
}

func (s *RunState) set(mode Mode, line int) {
	s.mu.Lock()
	changed := s.mode != mode
	s.mode = mode
	s.line = line
	watch := s.watch
	s.mu.Unlock()

	if changed && watch != nil {
		watch(mode, line)
	}
}
