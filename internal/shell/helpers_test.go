package shell

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shellemu/internal/audit"
	"shellemu/internal/core"
	"shellemu/internal/modules/builtin"
	"shellemu/internal/storage/csvstore"
)

type testEnv struct {
	registry *core.Registry
	pipeline *Pipeline
	state    *RunState
	logPath  string
	errPath  string
	dir      string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	r := core.NewRegistry()
	if err := builtin.Register(context.Background(), r, builtin.Paths{VFS: "vfs.tar", Log: "commits.log"}); err != nil {
		t.Fatalf("register builtins: %v", err)
	}
	env := &testEnv{
		registry: r,
		state:    NewRunState(),
		logPath:  filepath.Join(dir, "logs", "commits.log"),
		errPath:  filepath.Join(dir, "logs", "shell_errors.csv"),
		dir:      dir,
	}
	rec := &audit.Recorder{
		Log:    audit.NewCommandLog(env.logPath),
		Errors: csvstore.New(env.errPath),
		User:   "tester",
	}
	env.pipeline = NewPipeline(core.NewDispatcher(r), rec, nil)
	return env
}

// logLines возвращает строки журнала команд; отсутствующий файл дает nil.
func (e *testEnv) logLines(t *testing.T) []string {
	t.Helper()
	return readLines(t, e.logPath)
}

// errorRows возвращает строки CSV без заголовка.
func (e *testEnv) errorRows(t *testing.T) []string {
	t.Helper()
	lines := readLines(t, e.errPath)
	if len(lines) == 0 {
		return nil
	}
	if lines[0] != "timestamp,user,command,error" {
		t.Fatalf("unexpected csv header: %q", lines[0])
	}
	return lines[1:]
}

func (e *testEnv) writeScript(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(e.dir, "start_script.txt")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	text := strings.TrimSuffix(string(data), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
