// Package timing holds small scheduling helpers: a context-aware delay, a
// retriggerable delayed callback and a run-once memo. Retrigger and Memo
// key their tables by the rolling hash of a caller-supplied source text, so
// two call sites passing the same text share one entry.
package timing

import (
	"context"
	"sync"
	"time"

	"github.com/pthm/subpage/lib/hashutil"
)

// Delay blocks for d or until ctx is done, whichever comes first.
func Delay(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Retrigger runs a callback once its key has been quiet for the requested
// delay. Triggering a pending key again restarts its timer.
//
// The zero value is ready to use.
type Retrigger struct {
	mu     sync.Mutex
	timers map[int32]*time.Timer
}

// Trigger schedules fn to run after d, replacing any pending callback
// registered under the same source text.
func (r *Retrigger) Trigger(source string, d time.Duration, fn func()) {
	key := hashutil.Rolling32(source)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timers == nil {
		r.timers = make(map[int32]*time.Timer)
	}
	if t, ok := r.timers[key]; ok {
		t.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(d, func() {
		r.mu.Lock()
		if r.timers[key] == t {
			delete(r.timers, key)
		}
		r.mu.Unlock()
		fn()
	})
	r.timers[key] = t
}

// Pending reports how many callbacks are waiting to fire.
func (r *Retrigger) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.timers)
}

// Stop cancels every pending callback.
func (r *Retrigger) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, t := range r.timers {
		t.Stop()
		delete(r.timers, key)
	}
}

// Memo runs a function at most once per source text and remembers its
// result for the lifetime of the Memo.
//
// The zero value is ready to use.
type Memo[T any] struct {
	mu      sync.Mutex
	entries map[int32]*memoEntry[T]
}

type memoEntry[T any] struct {
	once sync.Once
	val  T
}

// Do returns the remembered result for source, calling fn the first time.
// Concurrent first calls block until the single execution completes.
func (m *Memo[T]) Do(source string, fn func() T) T {
	key := hashutil.Rolling32(source)

	m.mu.Lock()
	if m.entries == nil {
		m.entries = make(map[int32]*memoEntry[T])
	}
	e, ok := m.entries[key]
	if !ok {
		e = &memoEntry[T]{}
		m.entries[key] = e
	}
	m.mu.Unlock()

	e.once.Do(func() { e.val = fn() })
	return e.val
}
