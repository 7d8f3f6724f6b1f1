package stream

import (
	"fmt"

	"go.temporal.io/server/common/log/tag"

	"github.com/temporalio/s2s-streams/metrics"
)

// HandleBatch hands one batch from an inbound path to the behavior and pushes whatever it produced.
func (m *Manager) HandleBatch(path *InboundPath, b *Batch) error {
	if err := m.behavior.ProcessBatch(b); err != nil {
		m.logger.Warn("failed to process batch", SlotsTag(path.Slots), tag.NewInt64("batch-id", b.ID), tag.Error(err))
		return err
	}
	m.Push()
	return nil
}

// HandleClose acknowledges a graceful close of an inbound path. The owning actor releases the path.
func (m *Manager) HandleClose(path *InboundPath, _ *Close) {
	m.logger.Debug("inbound path closed", SlotsTag(path.Slots))
}

func (m *Manager) HandleForcedClose(path *InboundPath, x *ForcedClose) {
	m.logger.Info("inbound path closed with error", SlotsTag(path.Slots), tag.Error(x.Reason))
	m.Abort(x.Reason)
}

// HandleAckOpen materializes the outbound path requested by the handshake sent from slots.Sender.
// It returns false without touching any state if the scatterer refuses the path.
func (m *Manager) HandleAckOpen(slots Slots, x *AckOpen) bool {
	path := m.out.AddPath(slots.Invert(), x.RebindTo)
	if path == nil {
		m.logger.Warn("unable to add outbound path", SlotsTag(slots))
		return false
	}
	metrics.OutboundPathsOpened.Inc()
	path.OpenCredit = x.InitialDemand
	path.DesiredBatchSize = x.DesiredBatchSize
	// finalize zeroes the counter of a finished manager
	if _, pending := m.ledger.takeInFlight(slots.Sender); !pending {
		m.logger.Warn("open-ack for a slot without pending handshake", SlotsTag(slots))
	} else if m.pendingHandshakes > 0 {
		m.pendingHandshakes--
		metrics.PendingHandshakes.Dec()
	}
	m.logger.Debug("outbound path opened", SlotsTag(slots),
		tag.NewInt("initial-demand", x.InitialDemand),
		tag.NewInt("desired-batch-size", x.DesiredBatchSize))
	m.behavior.DownstreamDemand(path, x.InitialDemand)
	m.Push()
	return true
}

// HandleAckBatch replenishes credit on an outbound path. Acks for removed paths are ignored.
func (m *Manager) HandleAckBatch(slots Slots, x *AckBatch) {
	path := m.out.Path(slots.Receiver)
	if path == nil {
		return
	}
	path.OpenCredit += x.NewCapacity
	path.DesiredBatchSize = x.DesiredBatchSize
	path.NextAckID = x.AcknowledgedID + 1
	m.behavior.DownstreamDemand(path, x.NewCapacity)
	m.Push()
}

// HandleDrop removes an outbound path the consumer no longer wants.
func (m *Manager) HandleDrop(slots Slots, _ *Drop) {
	if m.out.RemovePath(slots.Receiver, nil, true) {
		metrics.OutboundPathsRemoved.WithLabelValues("drop").Inc()
	}
}

// HandleForcedDrop removes an outbound path with an error. Losing a live path that way is fatal to
// the whole stream; drops for paths that are already gone have no effect.
func (m *Manager) HandleForcedDrop(slots Slots, x *ForcedDrop) {
	if !m.out.RemovePath(slots.Receiver, x.Reason, true) {
		return
	}
	metrics.OutboundPathsRemoved.WithLabelValues("forced-drop").Inc()
	m.logger.Info("outbound path dropped with error", SlotsTag(slots), tag.Error(x.Reason))
	m.Abort(x.Reason)
}

// HandleUpstream dispatches an upstream control message to the matching handler.
func (m *Manager) HandleUpstream(msg *UpstreamMsg) error {
	switch x := msg.Content.(type) {
	case *AckOpen:
		if !m.HandleAckOpen(msg.Slots, x) {
			return fmt.Errorf("%w: outbound path %v rejected", ErrInvalidStreamState, msg.Slots)
		}
	case *AckBatch:
		m.HandleAckBatch(msg.Slots, x)
	case *Drop:
		m.HandleDrop(msg.Slots, x)
	case *ForcedDrop:
		m.HandleForcedDrop(msg.Slots, x)
	default:
		return fmt.Errorf("%w: unexpected upstream message %T", ErrInvalidStreamState, msg.Content)
	}
	return nil
}
