package builtin

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v3/host"

	"shellemu/internal/core"
)

const banner = "shellemu: command interpreter emulator"

// Info выводит сведения об эмуляторе, узле и настроенных путях.
type Info struct {
	Paths Paths

	// HostInfo подменяется в тестах.
	HostInfo func(ctx context.Context) (*host.InfoStat, error)

	system string
}

func (i *Info) Name() string { return "info" }

// Init один раз определяет ОС и имя узла.
func (i *Info) Init(ctx context.Context) error {
	i.system = describeSystem(ctx, i.HostInfo)
	return nil
}

func (i *Info) Execute(ctx context.Context, args []string) (core.Outcome, error) {
	system := i.system
	if system == "" {
		system = describeSystem(ctx, i.HostInfo)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", banner)
	fmt.Fprintf(&b, "system: %s\n", system)
	fmt.Fprintf(&b, "vfs: %s\n", i.Paths.VFS)
	fmt.Fprintf(&b, "log: %s\n", i.Paths.Log)
	fmt.Fprintf(&b, "script: %s", i.Paths.Script)
	if len(args) > 0 {
		fmt.Fprintf(&b, "\nargs: %s", strings.Join(args, " "))
	}
	return core.Ok(b.String()), nil
}

// OSName возвращает название ОС для заголовка фронтенда.
func OSName(ctx context.Context) string {
	return describeSystem(ctx, nil)
}

func describeSystem(ctx context.Context, fetch func(context.Context) (*host.InfoStat, error)) string {
	if fetch == nil {
		fetch = host.InfoWithContext
	}
	info, err := fetch(ctx)
	if err != nil || info == nil {
		return runtime.GOOS
	}
	osName := info.OS
	if osName == "" {
		osName = runtime.GOOS
	}
	parts := []string{osName}
	if info.Platform != "" {
		platform := info.Platform
		if info.PlatformVersion != "" {
			platform += " " + info.PlatformVersion
		}
		parts = append(parts, "("+platform+")")
	}
	if info.Hostname != "" {
		parts = append(parts, "on "+info.Hostname)
	}
	return strings.Join(parts, " ")
}
