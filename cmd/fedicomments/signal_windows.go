//go:build windows

package main

import (
	"context"
	"os"
	"os/signal"
)

// shutdownSignals stop in-flight requests. Windows only delivers Interrupt.
var shutdownSignals = []os.Signal{os.Interrupt}

// notifyContext returns a context canceled on the first shutdown signal.
// Call stop to release the signal handler.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, shutdownSignals...)
}
