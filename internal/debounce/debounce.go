package debounce

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	ErrSuperseded = errors.New("debounce: superseded by a newer call")
	ErrStopped    = errors.New("debounce: stopped")
)

type pending struct {
	superseded chan struct{}
}

// Debouncer runs at most one call per key after a quiet period. A newer call
// for the same key cancels the one still waiting.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	pending map[string]*pending
	stop    chan struct{}
	stopped bool
}

func New(delay time.Duration) *Debouncer {
	return &Debouncer{
		delay:   delay,
		pending: make(map[string]*pending),
		stop:    make(chan struct{}),
	}
}

// Do blocks for the quiet period and then runs fn. It returns ErrSuperseded
// without running fn if another Do for key arrives first, and ctx.Err() if ctx
// ends while waiting.
func (d *Debouncer) Do(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return ErrStopped
	}
	if prev, ok := d.pending[key]; ok {
		close(prev.superseded)
	}
	me := &pending{superseded: make(chan struct{})}
	d.pending[key] = me
	d.mu.Unlock()

	timer := time.NewTimer(d.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-me.superseded:
		return ErrSuperseded
	case <-ctx.Done():
		d.release(key, me)
		return ctx.Err()
	case <-d.stop:
		return ErrStopped
	}

	d.mu.Lock()
	if d.pending[key] != me {
		d.mu.Unlock()
		return ErrSuperseded
	}
	delete(d.pending, key)
	d.mu.Unlock()

	return fn(ctx)
}

func (d *Debouncer) release(key string, me *pending) {
	d.mu.Lock()
	if d.pending[key] == me {
		delete(d.pending, key)
	}
	d.mu.Unlock()
}

// Stop cancels every waiting call. Later calls return ErrStopped.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.stopped = true
	close(d.stop)
	d.pending = make(map[string]*pending)
}
