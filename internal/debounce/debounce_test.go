package debounce

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_OnlyLastCallRuns(t *testing.T) {
	d := New(100 * time.Millisecond)
	defer d.Stop()

	var mu sync.Mutex
	var searched []string
	search := func(q string) func(context.Context) error {
		return func(context.Context) error {
			mu.Lock()
			searched = append(searched, q)
			mu.Unlock()
			return nil
		}
	}

	errs := make(chan error, 1)
	go func() {
		errs <- d.Do(context.Background(), "session-1", search("para"))
	}()

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, d.Do(context.Background(), "session-1", search("paracet")))
	assert.ErrorIs(t, <-errs, ErrSuperseded)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"paracet"}, searched)
}

func TestDo_KeysAreIndependent(t *testing.T) {
	d := New(30 * time.Millisecond)
	defer d.Stop()

	var calls atomic.Int32
	fn := func(context.Context) error {
		calls.Add(1)
		return nil
	}

	var wg sync.WaitGroup
	for _, key := range []string{"a", "b", "c"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, d.Do(context.Background(), key, fn))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(3), calls.Load())
}

func TestDo_ContextCancelled(t *testing.T) {
	d := New(time.Second)
	defer d.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := d.Do(ctx, "k", func(context.Context) error {
		t.Error("fn must not run")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStop(t *testing.T) {
	d := New(time.Second)

	errs := make(chan error, 1)
	go func() {
		errs <- d.Do(context.Background(), "k", func(context.Context) error { return nil })
	}()
	time.Sleep(10 * time.Millisecond)

	d.Stop()
	d.Stop()

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, ErrStopped)
	case <-time.After(time.Second):
		t.Fatal("waiting call not released by Stop")
	}
	assert.ErrorIs(t, d.Do(context.Background(), "k", nil), ErrStopped)
}
