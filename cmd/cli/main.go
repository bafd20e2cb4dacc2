// Package main is the entry point for the commission CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"commission-calc/cmd/cli/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
