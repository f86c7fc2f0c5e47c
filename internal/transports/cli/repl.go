package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"shellemu/internal/app"
	"shellemu/internal/modules/builtin"
)

const ignoredNotice = "script is running (line %d), input ignored"

// frontend интерактивный цикл поверх shell.Session.
type frontend struct {
	app   *app.App
	out   io.Writer
	style palette
	sleep func(time.Duration)
}

func newFrontend(a *app.App, out io.Writer) *frontend {
	return &frontend{
		app:   a,
		out:   out,
		style: newPalette(out, a.Config.Shell.Color),
		sleep: time.Sleep,
	}
}

// Run печатает баннер, выполняет стартовый скрипт и читает команды до exit или EOF.
func (f *frontend) Run(ctx context.Context, in io.Reader) error {
	f.banner(ctx)

	report, ran, err := f.app.RunStartupScript(ctx, f.out)
	if err != nil {
		fmt.Fprintln(f.out, f.style.Error(err.Error()))
	}
	if ran && report.Terminate {
		f.grace()
		return nil
	}

	if file, ok := in.(*os.File); ok && readline.IsTerminal(int(file.Fd())) {
		return f.interactive(ctx, file)
	}
	return f.plain(ctx, in)
}

func (f *frontend) banner(ctx context.Context) {
	cfg := f.app.Config
	fmt.Fprintln(f.out, f.style.Title(fmt.Sprintf("shellemu on %s", builtin.OSName(ctx))))
	fmt.Fprintln(f.out, f.style.Notice(fmt.Sprintf("vfs: %s\nlog: %s\nscript: %s", cfg.VFS, cfg.Log, cfg.Script)))
	fmt.Fprintln(f.out, f.style.Notice("commands: "+strings.Join(f.app.Registry.Names(), ", ")))
}

func (f *frontend) interactive(ctx context.Context, stdin *os.File) error {
	items := make([]readline.PrefixCompleterInterface, 0)
	for _, name := range f.app.Registry.Names() {
		items = append(items, readline.PcItem(name))
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          f.app.Config.Shell.Prompt,
		HistoryFile:     f.app.Config.Shell.HistoryFile,
		AutoComplete:    readline.NewPrefixCompleter(items...),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdin:           stdin,
		Stdout:          f.out,
	})
	if err != nil {
		return fmt.Errorf("init readline: %w", err)
	}
	defer rl.Close()

	for ctx.Err() == nil {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if f.submit(ctx, line) {
			return nil
		}
	}
	return nil
}

// plain читает ввод построчно, когда stdin не терминал; строки повторяются с приглашением.
func (f *frontend) plain(ctx context.Context, in io.Reader) error {
	sc := bufio.NewScanner(in)
	for ctx.Err() == nil && sc.Scan() {
		line := sc.Text()
		fmt.Fprintf(f.out, "%s%s\n", f.app.Config.Shell.Prompt, line)
		if f.submit(ctx, line) {
			return nil
		}
	}
	return sc.Err()
}

// submit передает строку в сессию и печатает ответ. Возвращает true, если нужно завершить работу.
func (f *frontend) submit(ctx context.Context, line string) bool {
	reply := f.app.Session.SubmitLine(ctx, line)
	if reply.Ignored {
		n := f.app.Session.State().Line()
		fmt.Fprintln(f.out, f.style.Notice(fmt.Sprintf(ignoredNotice, n)))
		return false
	}
	if reply.Text != "" {
		fmt.Fprintln(f.out, f.style.Result(reply.Text, reply.Succeeded))
	}
	if reply.Terminate {
		f.grace()
		return true
	}
	return false
}

func (f *frontend) grace() {
	if ms := f.app.Config.Shell.ExitGraceMS; ms > 0 {
		f.sleep(time.Duration(ms) * time.Millisecond)
	}
}
