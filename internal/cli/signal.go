package cli

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// SignalContext is cancelled by SIGINT or SIGTERM and remembers which one arrived,
// so a command can tell an interrupted session from one that ended normally.
type SignalContext struct {
	context.Context

	cancel context.CancelFunc
	sigCh  chan os.Signal
	once   sync.Once

	mu  sync.Mutex
	sig os.Signal
}

// NewSignalContext starts listening for signals. Call Stop when done.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}
	signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sc.sigCh:
			sc.mu.Lock()
			sc.sig = sig
			sc.mu.Unlock()
			sc.cancel()
		case <-ctx.Done():
		}
		sc.release()
	}()
	return sc
}

// Stop cancels the context and restores default signal handling.
func (sc *SignalContext) Stop() {
	sc.cancel()
	sc.release()
}

func (sc *SignalContext) release() {
	sc.once.Do(func() { signal.Stop(sc.sigCh) })
}

// Signal returns the signal that cancelled the context, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sig
}
