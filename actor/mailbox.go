package actor

import (
	"context"
	"sync"

	"github.com/temporalio/s2s-streams/stream"
)

// mailbox is an unbounded FIFO of envelopes. Enqueueing never blocks, so two actors feeding each
// other can not deadlock on full mailboxes.
type mailbox struct {
	mu     sync.Mutex
	cond   *condChan
	queue  []*stream.Envelope
	closed bool
}

func newMailbox() *mailbox {
	mb := &mailbox{}
	mb.cond = newCondChan(&mb.mu)
	return mb
}

// push appends env and reports the new depth. It returns false if the mailbox is closed.
func (mb *mailbox) push(env *stream.Envelope) (int, bool) {
	mb.mu.Lock()
	if mb.closed {
		mb.mu.Unlock()
		return 0, false
	}
	mb.queue = append(mb.queue, env)
	depth := len(mb.queue)
	mb.mu.Unlock()
	mb.cond.broadcast()
	return depth, true
}

// pop removes the oldest envelope, waiting until one arrives. It fails with errMailboxClosed once
// the mailbox is closed and drained, or with the context's error.
func (mb *mailbox) pop(ctx context.Context) (*stream.Envelope, error) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	for len(mb.queue) == 0 {
		if mb.closed {
			return nil, errMailboxClosed
		}
		if err := mb.cond.waitContext(ctx); err != nil {
			return nil, err
		}
	}
	env := mb.queue[0]
	mb.queue[0] = nil
	mb.queue = mb.queue[1:]
	return env, nil
}

func (mb *mailbox) len() int {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	return len(mb.queue)
}

// close rejects further envelopes. Envelopes already queued can still be popped.
func (mb *mailbox) close() {
	mb.mu.Lock()
	mb.closed = true
	mb.mu.Unlock()
	mb.cond.broadcast()
}
