package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"sermon-search/bootstrap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := bootstrap.Run(ctx); err != nil {
		os.Exit(1)
	}
}
