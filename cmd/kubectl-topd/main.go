package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dverzolla/kubectl-topd/pkg/cli"
)

var (
	// overridden during build with ldflags
	version = "dev"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, version, os.Args)
	stop()
	os.Exit(code)
}
