// Package signal ties process interrupts to context cancellation. Watch
// mode runs until the user interrupts it, and must tear down its
// filesystem watchers and restore the terminal on the way out; the rest
// of the program only ever sees a canceled context.
//
// Import rules:
//   - CAN import: std lib only
//   - MUST NOT import: internal packages (to avoid circular dependencies)
package signal

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
)

// Handler cancels its context on the first SIGINT or SIGTERM. It also
// remembers that a signal arrived, so main can exit with the
// conventional interrupt status instead of a plain failure.
type Handler struct {
	ctx         context.Context //nolint:containedctx // intentional: handler manages context lifecycle
	cancel      context.CancelFunc
	sigs        chan os.Signal
	interrupted atomic.Bool
	stopOnce    sync.Once
}

// NewHandler starts listening for SIGINT and SIGTERM. The first signal
// cancels the handler's context; callers must Stop the handler to
// release the signal registration.
//
// Usage:
//
//	h := signal.NewHandler(ctx)
//	defer h.Stop()
//	ctx = h.Context()
func NewHandler(parent context.Context) *Handler {
	ctx, cancel := context.WithCancel(parent)
	h := &Handler{
		ctx:    ctx,
		cancel: cancel,
		// Buffer of 1 ensures signal.Notify doesn't drop the first signal
		// if the handler is busy. See: https://pkg.go.dev/os/signal#Notify
		sigs: make(chan os.Signal, 1),
	}

	signal.Notify(h.sigs, syscall.SIGINT, syscall.SIGTERM)
	go h.wait()

	return h
}

// Context returns the cancellable context.
// Use this context for all operations that should be interruptible.
func (h *Handler) Context() context.Context {
	return h.ctx
}

// Interrupted reports whether a signal caused the cancellation, as
// opposed to a normal shutdown.
func (h *Handler) Interrupted() bool {
	return h.interrupted.Load()
}

// Stop releases the signal registration and cancels the context.
// Safe to call more than once.
func (h *Handler) Stop() {
	h.stopOnce.Do(func() {
		signal.Stop(h.sigs)
		close(h.sigs)
		h.cancel()
	})
}

// wait blocks for the first signal. Stop closes the channel after
// deregistering it, which unblocks the receive without marking an
// interrupt.
func (h *Handler) wait() {
	if _, ok := <-h.sigs; ok {
		h.interrupted.Store(true)
		h.cancel()
	}
}
