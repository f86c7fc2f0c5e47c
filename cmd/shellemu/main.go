package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"shellemu/internal/transports/cli"
	"shellemu/pkg/logger"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	lg := logger.New(os.Stderr, "")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.New(buildVersion())
	if err := root.ExecuteContext(ctx); err != nil {
		lg.Error("command failed", "err", err)
		stop()
		os.Exit(1)
	}
}

func buildVersion() string {
	v := version
	if commit != "" {
		v += " (" + commit + ")"
	}
	if date != "" {
		v += " " + date
	}
	return v
}
