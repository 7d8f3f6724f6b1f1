package actor

import (
	"context"
	"errors"
	"strconv"

	"github.com/uber-go/tally/v4"
	"go.temporal.io/server/common/log"
	"go.temporal.io/server/common/log/tag"

	"github.com/temporalio/s2s-streams/config"
	"github.com/temporalio/s2s-streams/metrics"
	"github.com/temporalio/s2s-streams/stream"
)

type (
	// Receiver handles the messages of an actor that are not part of the stream protocol.
	Receiver interface {
		Receive(a *Actor, env *stream.Envelope) error
	}

	ReceiverFunc func(a *Actor, env *stream.Envelope) error

	// StreamAcceptor builds the manager consuming a stream offered to an actor. Returning an error
	// refuses the stream.
	StreamAcceptor interface {
		AcceptStream(a *Actor, open *stream.OpenStream) (*stream.Manager, error)
	}

	AcceptorFunc func(a *Actor, open *stream.OpenStream) (*stream.Manager, error)

	// Props describe how an actor reacts to what it receives. Either part may be nil.
	Props struct {
		Receiver Receiver
		Acceptor StreamAcceptor
	}

	// Actor processes its mailbox on a single goroutine. Stream managers owned by an actor are only
	// ever touched from that goroutine.
	Actor struct {
		system       *System
		address      string
		props        Props
		mailbox      *mailbox
		logger       log.Logger
		streamLogger log.Logger
		scope        tally.Scope
		settings     config.StreamSettings
		priority     stream.Priority
		warnDepth    int

		nextSlot stream.Slot
		// managers by inbound slot and by acknowledged outbound slot
		managers map[stream.Slot]*stream.Manager
		// managers by slot of a handshake that has not been acknowledged yet
		pending map[stream.Slot]*stream.Manager
		inbound map[stream.Slot]*stream.InboundPath
		// tracked holds every live manager with its tracker ID
		tracked  map[*stream.Manager]string
		seq      int
		deferred []func()
		done     chan struct{}
	}
)

func (f ReceiverFunc) Receive(a *Actor, env *stream.Envelope) error {
	return f(a, env)
}

func (f AcceptorFunc) AcceptStream(a *Actor, open *stream.OpenStream) (*stream.Manager, error) {
	return f(a, open)
}

func (a *Actor) Address() string { return a.address }
func (a *Actor) Ctrl() stream.Ref { return a }
func (a *Actor) System() *System { return a.system }
func (a *Actor) Logger() log.Logger { return a.logger }

// StreamLogger is the logger handed to managers created by this actor.
func (a *Actor) StreamLogger() log.Logger { return a.streamLogger }
func (a *Actor) Settings() config.StreamSettings { return a.settings }
func (a *Actor) DefaultPriority() stream.Priority { return a.priority }

// Done is closed once the actor's goroutine has exited.
func (a *Actor) Done() <-chan struct{} { return a.done }

func (a *Actor) Enqueue(dest stream.Ref, env *stream.Envelope) {
	a.system.deliver(dest, env)
}

func (a *Actor) EraseInboundPathsLater(m *stream.Manager, reason error) {
	a.deferred = append(a.deferred, func() {
		for _, slot := range m.InboundPaths() {
			a.eraseInboundPath(slot, reason, true)
		}
	})
}

func (a *Actor) EraseInboundPathLater(slot stream.Slot, reason error) {
	a.deferred = append(a.deferred, func() {
		a.eraseInboundPath(slot, reason, true)
	})
}

func (a *Actor) AssignNextSlotTo(m *stream.Manager) stream.Slot {
	slot := a.newSlot()
	a.managers[slot] = m
	a.track(m)
	return slot
}

func (a *Actor) AssignNextPendingSlotTo(m *stream.Manager) stream.Slot {
	slot := a.newSlot()
	a.pending[slot] = m
	a.track(m)
	return slot
}

// deliver is called from any goroutine.
func (a *Actor) deliver(env *stream.Envelope) bool {
	depth, ok := a.mailbox.push(env)
	if !ok {
		return false
	}
	metrics.MailboxDepth.WithLabelValues(a.address).Set(float64(depth))
	if depth == a.warnDepth {
		a.logger.Warn("mailbox depth reached warning threshold", tag.NewInt("depth", depth))
	}
	return true
}

func (a *Actor) newSlot() stream.Slot {
	for {
		a.nextSlot++
		slot := a.nextSlot
		if slot == stream.InvalidSlot {
			continue
		}
		_, active := a.managers[slot]
		_, pending := a.pending[slot]
		_, inbound := a.inbound[slot]
		if !active && !pending && !inbound {
			return slot
		}
	}
}

func (a *Actor) track(m *stream.Manager) {
	if _, ok := a.tracked[m]; ok {
		return
	}
	a.seq++
	id := a.address + "/" + m.Behavior().Role() + "-" + strconv.Itoa(a.seq)
	a.tracked[m] = id
	a.system.tracker.RegisterStream(id, a.address, m)
}

func (a *Actor) run(ctx context.Context) {
	defer close(a.done)
	defer a.shutdown()
	for {
		env, err := a.mailbox.pop(ctx)
		if err != nil {
			if !errors.Is(err, errMailboxClosed) {
				a.logger.Debug("actor loop interrupted", tag.Error(err))
			}
			return
		}
		metrics.MailboxDepth.WithLabelValues(a.address).Set(float64(a.mailbox.len()))
		a.step(env)
	}
}

func (a *Actor) step(env *stream.Envelope) {
	sw := a.scope.Timer(metrics.MessageProcessingLatency).Start()
	defer sw.Stop()
	a.scope.Counter(metrics.MessagesProcessed).Inc(1)

	a.dispatch(env)
	a.settle()
}

// settle runs the bookkeeping due after every message: deferred path removal, credit grants,
// stopping managers that have nothing left to do and releasing finished ones.
func (a *Actor) settle() {
	a.runDeferred()
	a.grantCredit()
	for a.stopFinished() {
		a.runDeferred()
	}
	a.releaseDone()
}

func (a *Actor) runDeferred() {
	for len(a.deferred) > 0 {
		actions := a.deferred
		a.deferred = nil
		for _, action := range actions {
			action()
		}
		a.scope.Counter(metrics.DeferredActionsRun).Inc(int64(len(actions)))
	}
}

// grantCredit acknowledges consumed batches unless the consuming manager is congested. Withheld
// credit is granted after a later message relieves the congestion.
func (a *Actor) grantCredit() {
	for _, path := range a.inbound {
		m := path.Manager
		if m.State() != stream.StateActive || path.OwedCredit() == 0 {
			continue
		}
		if m.Congested() {
			metrics.CreditWithheld.WithLabelValues(a.address).Inc()
			continue
		}
		path.EmitAckBatch(a)
	}
}

func (a *Actor) stopFinished() bool {
	stopped := false
	for m := range a.tracked {
		if m.State() != stream.StateActive || m.PendingHandshakes() > 0 || !m.Behavior().Done() {
			continue
		}
		m.Stop()
		stopped = true
	}
	return stopped
}

func (a *Actor) releaseDone() {
	for m, id := range a.tracked {
		if !m.Done() {
			a.system.tracker.UpdateStream(id, m)
			continue
		}
		for slot, owner := range a.managers {
			if owner == m {
				delete(a.managers, slot)
			}
		}
		for slot, owner := range a.pending {
			if owner == m {
				delete(a.pending, slot)
			}
		}
		delete(a.tracked, m)
		a.system.tracker.UnregisterStream(id)
		a.logger.Debug("released stream manager", tag.NewStringTag("stream", id))
	}
}

// eraseInboundPath removes a path from the path table. With notify set the producer is told to drop
// its end, gracefully for a nil reason.
func (a *Actor) eraseInboundPath(slot stream.Slot, reason error, notify bool) {
	path, ok := a.inbound[slot]
	if !ok {
		return
	}
	if notify {
		if reason == nil {
			path.EmitRegularShutdown(a)
		} else {
			path.EmitIrregularShutdown(a, reason)
		}
	}
	delete(a.inbound, slot)
	delete(a.managers, slot)
	metrics.InboundPathsOpen.WithLabelValues(a.address).Dec()

	m := path.Manager
	m.DeregisterInputPath(slot)
	if m.State() == stream.StateActive && m.NumInboundPaths() == 0 && !m.Continuous() {
		m.InputClosed(reason)
	}
}

// shutdown aborts whatever is still streaming when the actor stops.
func (a *Actor) shutdown() {
	for m := range a.tracked {
		if m.State() == stream.StateActive {
			m.Abort(ErrActorStopped)
		}
	}
	a.runDeferred()
	for m, id := range a.tracked {
		a.system.tracker.UnregisterStream(id)
		delete(a.tracked, m)
	}
	metrics.MailboxDepth.DeleteLabelValues(a.address)
	metrics.InboundPathsOpen.DeleteLabelValues(a.address)
	a.logger.Info("actor stopped")
}
