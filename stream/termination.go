package stream

import (
	"go.temporal.io/server/common/log/tag"

	"github.com/temporalio/s2s-streams/metrics"
)

// Stop shuts the stream down gracefully: the scatterer stops accepting elements and closes its paths
// once drained, upstream paths are dropped after the current message, and terminal promises receive
// the behavior's final result.
func (m *Manager) Stop() {
	if m.state != StateActive {
		m.logger.Debug("ignoring stop of a finished stream manager", tag.NewStringTag("state", m.state.String()))
		return
	}
	m.logger.Debug("stopping stream manager")
	m.state = StateStopped
	m.out.Close()
	m.behavior.OutputClosed(nil)
	m.finalize(nil)
	m.self.EraseInboundPathsLater(m, nil)
	if len(m.ledger.promises) > 0 {
		m.DeliverPromises(Response{Value: m.behavior.MakeFinalResult()})
	}
}

// Abort shuts the stream down with an error. Every requester still owed a response, whether it waits
// for the terminal result or for a handshake acknowledgement, receives reason exactly once.
func (m *Manager) Abort(reason error) {
	if m.state != StateActive {
		m.logger.Debug("ignoring abort of a finished stream manager",
			tag.NewStringTag("state", m.state.String()), tag.Error(reason))
		return
	}
	m.logger.Info("aborting stream manager", tag.Error(reason))
	m.state = StateAborted
	metrics.StreamAborts.WithLabelValues(m.behavior.Role()).Inc()
	if m.ledger.owesAny() {
		msg := Response{Err: reason}
		m.DeliverPromises(msg)
		if n := m.ledger.failInFlight(msg); n > 0 {
			metrics.PromisesDelivered.WithLabelValues(outcomeLabel(msg)).Add(float64(n))
		}
	}
	m.out.Abort(reason)
	m.behavior.OutputClosed(reason)
	m.finalize(reason)
	m.self.EraseInboundPathsLater(m, reason)
}

func (m *Manager) finalize(reason error) {
	m.behavior.Finalize(reason)
	metrics.StreamsActive.WithLabelValues(m.behavior.Role()).Dec()
	metrics.PendingHandshakes.Sub(float64(m.pendingHandshakes))
	m.pendingHandshakes = 0
}
