package cli

import (
	"context"
	"os"
	"os/signal"
	"sync"
)

// notifyInterrupt is a test seam for signal.Notify.
var notifyInterrupt = func(c chan<- os.Signal) { signal.Notify(c, os.Interrupt) }

// interrupts routes Ctrl-C. Without a claim an interrupt cancels the command
// context; while a REPL holds a claim it is delivered to the claimant only.
type interrupts struct {
	mu      sync.Mutex
	claimed chan struct{}
	cancel  context.CancelFunc
}

func newInterrupts(cancel context.CancelFunc) *interrupts {
	return &interrupts{cancel: cancel}
}

// watch feeds os.Interrupt into r until ctx is done.
func (r *interrupts) watch(ctx context.Context) {
	sig := make(chan os.Signal, 1)
	notifyInterrupt(sig)
	go func() {
		defer signal.Stop(sig)
		for {
			select {
			case <-ctx.Done():
				return
			case <-sig:
				r.deliver()
			}
		}
	}()
}

func (r *interrupts) deliver() {
	r.mu.Lock()
	c := r.claimed
	r.mu.Unlock()

	if c == nil {
		r.cancel()
		return
	}
	select {
	case c <- struct{}{}:
	default:
	}
}

// Claim diverts interrupts to the returned channel until release is called.
func (r *interrupts) Claim() (<-chan struct{}, func()) {
	c := make(chan struct{}, 1)
	r.mu.Lock()
	r.claimed = c
	r.mu.Unlock()

	return c, func() {
		r.mu.Lock()
		if r.claimed == c {
			r.claimed = nil
		}
		r.mu.Unlock()
	}
}
