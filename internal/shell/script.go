package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	commentMarker = "#"
	exitCommand   = "exit"
)

var (
	ErrScriptRead    = errors.New("cannot read script")
	errScriptRunning = errors.New("script already running")
)

// HaltReason причина досрочной остановки скрипта.
type HaltReason int

const (
	HaltNone HaltReason = iota
	// HaltUnsupported первое слово строки не входит в список поддерживаемых команд.
	HaltUnsupported
	// HaltExit строка содержит exit.
	HaltExit
)

func (r HaltReason) String() string {
	switch r {
	case HaltUnsupported:
		return "unsupported_command"
	case HaltExit:
		return "exit"
	default:
		return "none"
	}
}

// ScriptReport итог выполнения скрипта.
type ScriptReport struct {
	Path     string
	Executed int
	Reason   HaltReason
	HaltLine int
	// Terminate выставляется, если выполненная команда запросила завершение.
	Terminate bool
}

// Halted сообщает, был ли скрипт остановлен досрочно.
func (r ScriptReport) Halted() bool { return r.Reason != HaltNone }

// ScriptRunner построчно выполняет скрипт через общий конвейер.
type ScriptRunner struct {
	pipeline  *Pipeline
	state     *RunState
	supported map[string]struct{}
	logger    *slog.Logger
}

// NewScriptRunner создает исполнитель. supported задает список имен, допустимых
// первым словом строки; он не зависит от реестра диспетчера.
func NewScriptRunner(pipeline *Pipeline, state *RunState, supported []string, logger *slog.Logger) *ScriptRunner {
	if logger == nil {
		logger = slog.Default()
	}
	set := make(map[string]struct{}, len(supported))
	for _, name := range supported {
		set[strings.ToLower(name)] = struct{}{}
	}
	return &ScriptRunner{pipeline: pipeline, state: state, supported: set, logger: logger}
}

// Run выполняет скрипт path, печатая строки, результаты и уведомления в out.
// Ошибка чтения возвращается до перехода в Running; строки при этом не выполняются.
func (r *ScriptRunner) Run(ctx context.Context, path string, out io.Writer) (ScriptReport, error) {
	report := ScriptReport{Path: path}
	if r.state.Mode() == Running {
		return report, errScriptRunning
	}
	data, err := os.ReadFile(path) // #nosec G304 -- путь к скрипту задается оператором.
	if err != nil {
		r.logger.Warn("script read failed", "path", path, "err", err)
		return report, fmt.Errorf("%w: %w", ErrScriptRead, err)
	}

	r.state.set(Running, 0)
	r.logger.Info("script started", "path", path)
	fmt.Fprintf(out, "running script: %s\n", path)

	for i, line := range strings.Split(string(data), "\n") {
		num := i + 1
		r.state.set(Running, num)

		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, commentMarker) {
			continue
		}

		fmt.Fprintf(out, "> %s\n", line)
		res := r.pipeline.Execute(ctx, line)
		report.Executed++
		fmt.Fprintln(out, res.Render())

		first := strings.ToLower(strings.Fields(line)[0])
		if _, ok := r.supported[first]; !ok {
			fmt.Fprintf(out, "script halted at line %d: unsupported command %q\n", num, first)
			report.Reason, report.HaltLine = HaltUnsupported, num
			break
		}
		// совпадение по подстроке с учетом регистра: "echo please exit" тоже останавливает скрипт,
		// "echo EXIT" нет; сама команда EXIT ловится через Terminate
		if strings.Contains(line, exitCommand) || res.Outcome.Terminate {
			report.Reason, report.HaltLine = HaltExit, num
			report.Terminate = res.Outcome.Terminate
			break
		}
	}

	if report.Halted() {
		r.state.set(Halted, report.HaltLine)
		fmt.Fprintf(out, "script stopped at line %d\n", report.HaltLine)
	} else {
		fmt.Fprintln(out, "script finished")
	}
	r.logger.Info("script done", "path", path, "executed", report.Executed, "halt", report.Reason.String(), "line", report.HaltLine)
	r.state.set(Idle, 0)
	return report, nil
}
