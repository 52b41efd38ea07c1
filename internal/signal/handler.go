// Package signal wires SIGINT and SIGTERM to context cancellation so a
// reconstruction run stops between commits instead of dying mid-write.
package signal

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// SetupSignalHandler registers for SIGINT and SIGTERM. On the first signal
// it calls onInterrupt (when non-nil) and cancels the context. The plan file
// was persisted at the previous checkpoint, so no further cleanup runs here.
// The watching goroutine deregisters and exits once the context is done.
func SetupSignalHandler(ctx context.Context, cancel context.CancelFunc, onInterrupt func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigCh)
		select {
		case <-sigCh:
			if onInterrupt != nil {
				onInterrupt()
			}
			cancel()
		case <-ctx.Done():
		}
	}()
}
