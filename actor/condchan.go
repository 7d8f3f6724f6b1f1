package actor

import (
	"context"
	"sync"
)

// condChan is a condition variable whose waiters can also give up when a context ends, which
// sync.Cond does not allow. Adapted from Jonas Jasas's CondChan package:
// https://gitlab.com/jonas.jasas/condchan
type (
	noCopy   struct{}
	condChan struct {
		L   sync.Locker
		ch  chan struct{}
		chL sync.RWMutex

		_ noCopy
	}
)

// go vet is looking for Lock and Unlock on the noCopy struct

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

func newCondChan(l sync.Locker) *condChan {
	return &condChan{
		L:  l,
		ch: make(chan struct{}),
	}
}

// waitContext atomically unlocks cc.L and suspends the caller until it is signalled or ctx is done.
// cc.L is locked again before returning; the error is ctx.Err() if the wait was abandoned.
func (cc *condChan) waitContext(ctx context.Context) error {
	cc.chL.RLock()
	ch := cc.ch
	cc.chL.RUnlock()

	cc.L.Unlock()
	defer cc.L.Lock()
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// broadcast wakes all waiters. The caller does not need to hold cc.L. Waiters capture the channel
// before releasing cc.L, so a broadcast issued after a waiter checked its condition is never lost.
func (cc *condChan) broadcast() {
	cc.chL.Lock()
	close(cc.ch)
	cc.ch = make(chan struct{})
	cc.chL.Unlock()
}
