package shell

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func newRunner(env *testEnv) *ScriptRunner {
	return NewScriptRunner(env.pipeline, env.state, env.registry.Names(), nil)
}

func TestScriptHaltsOnUnsupportedCommand(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeScript(t,
		"# startup",
		`echo "hi"`,
		"pwd",
		"badcmd",
		`echo "never"`,
	)
	var out bytes.Buffer

	report, err := newRunner(env).Run(context.Background(), path, &out)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Reason != HaltUnsupported || report.HaltLine != 4 || report.Executed != 3 {
		t.Fatalf("unexpected report: %#v", report)
	}
	if strings.Contains(out.String(), "never") {
		t.Fatalf("line after halt must not run:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "script halted at line 4") || !strings.Contains(out.String(), "script stopped at line 4") {
		t.Fatalf("missing halt notice:\n%s", out.String())
	}

	lines := env.logLines(t)
	if len(lines) != 3 {
		t.Fatalf("expected 3 log entries, got %v", lines)
	}
	if !strings.HasSuffix(lines[2], "ERROR: badcmd") {
		t.Fatalf("badcmd must be logged as ERROR: %v", lines)
	}
	for _, l := range lines {
		if strings.Contains(l, "never") {
			t.Fatalf("halted line logged: %v", lines)
		}
	}
	if env.state.Mode() != Idle {
		t.Fatalf("state must return to idle, got %v", env.state.Mode())
	}
}

func TestScriptHaltLineIsPhysical(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeScript(t, `echo "hi"`, "pwd", "badcmd", `echo "never"`)
	report, err := newRunner(env).Run(context.Background(), path, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.HaltLine != 3 {
		t.Fatalf("expected halt at line 3, got %d", report.HaltLine)
	}
}

func TestScriptStopsAfterExit(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeScript(t, "echo a", "exit", "echo b")
	var out bytes.Buffer

	report, err := newRunner(env).Run(context.Background(), path, &out)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Reason != HaltExit || report.HaltLine != 2 || !report.Terminate {
		t.Fatalf("unexpected report: %#v", report)
	}
	lines := env.logLines(t)
	if len(lines) != 2 || !strings.HasSuffix(lines[1], "OK: exit") {
		t.Fatalf("unexpected log: %v", lines)
	}
	if strings.Contains(out.String(), "> echo b") {
		t.Fatalf("echo b must not run:\n%s", out.String())
	}
}

func TestScriptExitSubstringStops(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeScript(t, `echo "please exit now"`, "echo b")

	report, err := newRunner(env).Run(context.Background(), path, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Reason != HaltExit || report.Terminate {
		t.Fatalf("substring match stops without terminate: %#v", report)
	}
	if n := len(env.logLines(t)); n != 1 {
		t.Fatalf("expected one log entry, got %d", n)
	}
}

func TestScriptExitSubstringIsCaseSensitive(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeScript(t, "echo EXIT", "echo Exit code", "echo b")

	report, err := newRunner(env).Run(context.Background(), path, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Halted() || report.Executed != 3 {
		t.Fatalf("upper-case exit inside arguments must not stop the script: %#v", report)
	}
	if n := len(env.logLines(t)); n != 3 {
		t.Fatalf("expected 3 log entries, got %d", n)
	}
}

func TestScriptUpperCaseExitCommandStops(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeScript(t, "echo a", "EXIT", "echo b")
	var out bytes.Buffer

	report, err := newRunner(env).Run(context.Background(), path, &out)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Reason != HaltExit || report.HaltLine != 2 || !report.Terminate {
		t.Fatalf("unexpected report: %#v", report)
	}
	if strings.Contains(out.String(), "> echo b") {
		t.Fatalf("echo b must not run:\n%s", out.String())
	}
}

func TestScriptCompletesNormally(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeScript(t, "", "  # comment", "echo one", "   ", "WTF")
	var out bytes.Buffer

	report, err := newRunner(env).Run(context.Background(), path, &out)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Halted() || report.Executed != 2 {
		t.Fatalf("unexpected report: %#v", report)
	}
	if !strings.HasSuffix(out.String(), "script finished\n") {
		t.Fatalf("missing completion notice:\n%s", out.String())
	}
	if n := len(env.logLines(t)); n != 2 {
		t.Fatalf("blank and comment lines must not be logged, got %d entries", n)
	}
}

func TestScriptWhitelistIsIndependent(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeScript(t, "pwd", "echo a", "echo b")
	runner := NewScriptRunner(env.pipeline, env.state, []string{"pwd"}, nil)

	report, err := runner.Run(context.Background(), path, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Reason != HaltUnsupported || report.HaltLine != 2 {
		t.Fatalf("unexpected report: %#v", report)
	}
	lines := env.logLines(t)
	if len(lines) != 2 || !strings.HasSuffix(lines[1], "OK: echo a") {
		t.Fatalf("echo a still dispatches successfully before the halt: %v", lines)
	}
}

func TestScriptQuotedFirstWordHalts(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeScript(t, `"echo" hi`, "echo later")

	report, err := newRunner(env).Run(context.Background(), path, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Reason != HaltUnsupported || report.HaltLine != 1 {
		t.Fatalf("unexpected report: %#v", report)
	}
}

func TestScriptReadFailure(t *testing.T) {
	env := newTestEnv(t)
	var seen []Mode
	env.state.Watch(func(mode Mode, line int) { seen = append(seen, mode) })
	var out bytes.Buffer

	_, err := newRunner(env).Run(context.Background(), filepath.Join(env.dir, "missing.txt"), &out)
	if !errors.Is(err, ErrScriptRead) {
		t.Fatalf("expected ErrScriptRead, got %v", err)
	}
	if len(seen) != 0 {
		t.Fatalf("state must never leave idle, saw %v", seen)
	}
	if out.Len() != 0 || len(env.logLines(t)) != 0 {
		t.Fatalf("no lines may be processed")
	}
}

func TestScriptStateTransitions(t *testing.T) {
	env := newTestEnv(t)
	runner := newRunner(env)
	var seen []string
	env.state.Watch(func(mode Mode, line int) { seen = append(seen, mode.String()) })

	if _, err := runner.Run(context.Background(), env.writeScript(t, "echo a"), &bytes.Buffer{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := strings.Join(seen, ","); got != "running,idle" {
		t.Fatalf("normal run transitions: %s", got)
	}

	seen = nil
	if _, err := runner.Run(context.Background(), env.writeScript(t, "nope"), &bytes.Buffer{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := strings.Join(seen, ","); got != "running,halted,idle" {
		t.Fatalf("halted run transitions: %s", got)
	}
}
