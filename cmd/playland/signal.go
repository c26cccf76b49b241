package main

import (
	"context"
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

func signalContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt, unix.SIGTERM)
}
