package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/common"
)

// keyedMutex is a registry of exclusive locks keyed by user id. Each lock is
// a one-slot channel so waiters can give up on a timeout or a context.
type keyedMutex struct {
	mu sync.Mutex
	m  map[int64]*lockEntry
}

type lockEntry struct {
	ch   chan struct{}
	refs int // holder plus waiters
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{m: make(map[int64]*lockEntry)}
}

func (k *keyedMutex) lock(ctx context.Context, key int64, timeout time.Duration) error {
	k.mu.Lock()
	e, ok := k.m[key]
	if !ok {
		e = &lockEntry{ch: make(chan struct{}, 1)}
		k.m[key] = e
	}
	e.refs++
	k.mu.Unlock()

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case e.ch <- struct{}{}:
		return nil
	case <-expired:
		k.release(key, e)
		return fmt.Errorf("%w: user %d is locked", common.ErrBusy, key)
	case <-ctx.Done():
		k.release(key, e)
		if errors.Is(ctx.Err(), context.Canceled) {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %w", common.ErrBusy, ctx.Err())
	}
}

func (k *keyedMutex) unlock(key int64) {
	k.mu.Lock()
	defer k.mu.Unlock()

	e, ok := k.m[key]
	if !ok {
		panic(fmt.Sprintf("memory: unlock of unlocked user %d", key))
	}
	<-e.ch
	e.refs--
	if e.refs == 0 {
		delete(k.m, key)
	}
}

func (k *keyedMutex) release(key int64, e *lockEntry) {
	k.mu.Lock()
	defer k.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(k.m, key)
	}
}

// size reports how many keys currently have a holder or waiter.
func (k *keyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.m)
}
