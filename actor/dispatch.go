package actor

import (
	"fmt"

	"go.temporal.io/server/common/log/tag"

	"github.com/temporalio/s2s-streams/metrics"
	"github.com/temporalio/s2s-streams/stream"
)

func (a *Actor) dispatch(env *stream.Envelope) {
	switch x := env.Content.(type) {
	case *stream.OpenStream:
		a.handleOpenStream(env, x)
	case *stream.UpstreamMsg:
		a.handleUpstream(x)
	case *stream.DownstreamMsg:
		a.handleDownstream(x)
	default:
		a.receive(env)
	}
}

func (a *Actor) receive(env *stream.Envelope) {
	var err error
	if a.props.Receiver == nil {
		err = fmt.Errorf("%w: %T", ErrUnexpectedMessage, env.Content)
	} else {
		err = a.props.Receiver.Receive(a, env)
	}
	if err == nil {
		return
	}
	a.logger.Warn("failed to handle message", tag.NewStringTag("type", fmt.Sprintf("%T", env.Content)), tag.Error(err))
	// never answer a response, two actors could bounce errors forever
	if _, isResponse := env.Content.(stream.Response); !isResponse && env.Sender != nil {
		a.Enqueue(env.Sender, &stream.Envelope{Sender: a, ID: env.ID, Content: stream.Response{Err: err}})
	}
}

// handleOpenStream accepts a handshake: it creates the inbound path, grants the initial credit and
// either forwards the handshake to the next stage or, at the end of the route, registers the
// requester as waiting for the stream's result. Streams whose route ends at a manager that does not
// terminate them are refused before any path exists.
func (a *Actor) handleOpenStream(env *stream.Envelope, open *stream.OpenStream) {
	if a.props.Acceptor == nil {
		a.refuseStream(open, fmt.Errorf("%w: %s does not accept streams", stream.ErrInvalidStreamState, a.address))
		return
	}
	m, err := a.props.Acceptor.AcceptStream(a, open)
	if err != nil {
		a.refuseStream(open, err)
		return
	}
	// the last hop of a route must terminate the stream
	if len(env.Stages) == 0 && !m.Out().Terminal() {
		err := fmt.Errorf("%w: stream route ends at %s %s, which does not terminate streams",
			stream.ErrInvalidStreamState, m.Behavior().Role(), a.address)
		m.Abort(err)
		a.refuseStream(open, err)
		return
	}

	slot := m.AssignNextSlot()
	path := stream.NewInboundPath(stream.Slots{Sender: open.Slot, Receiver: slot}, m, open.PrevStage, open.Priority)
	a.inbound[slot] = path
	m.RegisterInputPath(slot)
	metrics.InboundPathsOpen.WithLabelValues(a.address).Inc()
	path.EmitAckOpen(a, open.Original, a.settings.GetMaxCredit(), a.settings.GetMaxBatchSize())

	if n := len(env.Stages); n > 0 {
		next := env.Stages[n-1]
		if err := m.AddUnsafeOutboundPath(next, m.AssignNextPendingSlot(), env.Sender, env.Stages[:n-1], env.ID); err != nil {
			m.Abort(err)
		}
		return
	}
	if env.Sender != nil {
		if err := m.AddPromise(stream.NewResponsePromise(a, env.Sender, nil, env.ID)); err != nil {
			m.Abort(err)
		}
	}
}

func (a *Actor) refuseStream(open *stream.OpenStream, reason error) {
	a.logger.Warn("refusing stream", stream.SlotTag(open.Slot), tag.Error(reason))
	if open.PrevStage == nil {
		return
	}
	a.Enqueue(open.PrevStage, &stream.Envelope{Sender: a, Content: &stream.UpstreamMsg{
		Slots:   stream.Slots{Sender: stream.InvalidSlot, Receiver: open.Slot},
		Sender:  a,
		Content: &stream.ForcedDrop{Reason: reason},
	}})
}

func (a *Actor) handleUpstream(msg *stream.UpstreamMsg) {
	if ack, ok := msg.Content.(*stream.AckOpen); ok {
		a.handleAckOpen(msg, ack)
		return
	}
	m, ok := a.managers[msg.Slots.Receiver]
	if !ok {
		if m, pending := a.pending[msg.Slots.Receiver]; pending {
			a.handshakeRefused(msg, m)
			return
		}
		a.logger.Debug("ignoring upstream message for unknown slot", stream.SlotsTag(msg.Slots),
			tag.NewStringTag("type", fmt.Sprintf("%T", msg.Content)))
		return
	}
	if err := m.HandleUpstream(msg); err != nil {
		a.logger.Warn("failed to handle upstream message", stream.SlotsTag(msg.Slots), tag.Error(err))
	}
}

func (a *Actor) handleAckOpen(msg *stream.UpstreamMsg, ack *stream.AckOpen) {
	slot := msg.Slots.Sender
	m, ok := a.pending[slot]
	if !ok {
		a.logger.Warn("open-ack without pending handshake", stream.SlotsTag(msg.Slots))
		a.closeUnwanted(msg, ack.RebindTo)
		return
	}
	delete(a.pending, slot)
	if err := m.HandleUpstream(msg); err != nil {
		a.logger.Warn("failed to open outbound path", stream.SlotsTag(msg.Slots), tag.Error(err))
		a.closeUnwanted(msg, ack.RebindTo)
		m.Abort(fmt.Errorf("%w: %w", stream.ErrStreamAborted, err))
		return
	}
	a.managers[slot] = m
}

// handshakeRefused handles a drop for a handshake that was never acknowledged.
func (a *Actor) handshakeRefused(msg *stream.UpstreamMsg, m *stream.Manager) {
	delete(a.pending, msg.Slots.Receiver)
	reason := fmt.Errorf("%w: handshake refused by %s", stream.ErrStreamAborted, refAddress(msg.Sender))
	if x, ok := msg.Content.(*stream.ForcedDrop); ok && x.Reason != nil {
		reason = fmt.Errorf("%w: %w", stream.ErrStreamAborted, x.Reason)
	}
	m.Abort(reason)
}

// closeUnwanted tells an acceptor that the path it just opened has no producer.
func (a *Actor) closeUnwanted(msg *stream.UpstreamMsg, dest stream.Ref) {
	if dest == nil {
		return
	}
	a.Enqueue(dest, &stream.Envelope{Sender: a, Content: &stream.DownstreamMsg{
		Slots:   msg.Slots,
		Sender:  a,
		Content: &stream.ForcedClose{Reason: fmt.Errorf("%w: no pending handshake", stream.ErrInvalidStreamState)},
	}})
}

func (a *Actor) handleDownstream(msg *stream.DownstreamMsg) {
	slot := msg.Slots.Receiver
	path, ok := a.inbound[slot]
	if !ok {
		a.logger.Debug("ignoring downstream message for unknown slot", stream.SlotsTag(msg.Slots),
			tag.NewStringTag("type", fmt.Sprintf("%T", msg.Content)))
		if _, isBatch := msg.Content.(*stream.Batch); isBatch && msg.Sender != nil {
			a.Enqueue(msg.Sender, &stream.Envelope{Sender: a, Content: &stream.UpstreamMsg{
				Slots:   msg.Slots.Invert(),
				Sender:  a,
				Content: &stream.ForcedDrop{Reason: fmt.Errorf("%w: no inbound path", stream.ErrInvalidStreamState)},
			}})
		}
		return
	}
	m := path.Manager
	switch x := msg.Content.(type) {
	case *stream.Batch:
		path.Consumed(x)
		if err := m.HandleBatch(path, x); err != nil {
			m.Abort(fmt.Errorf("%w: %w", stream.ErrStreamAborted, err))
		}
	case *stream.Close:
		m.HandleClose(path, x)
		a.eraseInboundPath(slot, nil, false)
	case *stream.ForcedClose:
		m.HandleForcedClose(path, x)
		a.eraseInboundPath(slot, x.Reason, false)
	default:
		a.logger.Warn("unexpected downstream message", stream.SlotsTag(msg.Slots),
			tag.NewStringTag("type", fmt.Sprintf("%T", msg.Content)))
	}
}

func refAddress(ref stream.Ref) string {
	if ref == nil {
		return "unknown"
	}
	return ref.Address()
}
