package aggregates

import (
	"context"
	"errors"
	"sync"
	"time"
)

// UserLocker serializes work per key (one key per user). Lock blocks until the
// key is free or ctx ends; the returned func releases it.
type UserLocker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// LockerFunc adapts a function to UserLocker.
type LockerFunc func(ctx context.Context, key string) (func(), error)

func (f LockerFunc) Lock(ctx context.Context, key string) (func(), error) { return f(ctx, key) }

type memoryLocker struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
	wait    time.Duration
}

type lockEntry struct {
	slot chan struct{}
	refs int
}

// NewMemoryLocker returns an in-process keyed mutex. It only serializes callers
// inside one process; multi-replica deployments use the Redis locker.
func NewMemoryLocker() UserLocker {
	return NewMemoryLockerWithWait(0)
}

// NewMemoryLockerWithWait bounds how long Lock waits; 0 waits for ctx only.
func NewMemoryLockerWithWait(wait time.Duration) UserLocker {
	return &memoryLocker{entries: map[string]*lockEntry{}, wait: wait}
}

func (l *memoryLocker) Lock(ctx context.Context, key string) (func(), error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if l.wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.wait)
		defer cancel()
	}

	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &lockEntry{slot: make(chan struct{}, 1)}
		l.entries[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.slot <- struct{}{}:
	case <-ctx.Done():
		l.release(key, e)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, RetryableError("timed out waiting for lock on " + key)
		}
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.slot
			l.release(key, e)
		})
	}, nil
}

func (l *memoryLocker) release(key string, e *lockEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
}
