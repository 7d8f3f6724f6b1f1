package stream

import (
	"go.temporal.io/server/common/log"
	"go.temporal.io/server/common/log/tag"

	"github.com/temporalio/s2s-streams/metrics"
)

type (
	// Behavior is what distinguishes concrete stream roles (source, stage, sink). The Manager
	// implements the handshake, credit and termination protocol once against this interface.
	Behavior interface {
		// Role names the behavior in logs and metrics.
		Role() string
		// MakeHandshake builds the payload of an OpenStream message sent from slot.
		MakeHandshake(slot Slot) (any, error)
		// ProcessBatch consumes one batch arriving on an inbound path.
		ProcessBatch(b *Batch) error
		// GenerateMessages produces new elements for the scatterer and reports whether it produced any.
		GenerateMessages() bool
		// DownstreamDemand is called after a consumer granted amount more credit on path.
		DownstreamDemand(path *OutboundPath, amount int)
		// MakeFinalResult is delivered to terminal promises on a graceful stop.
		MakeFinalResult() any
		// Finalize runs exactly once when the manager stops or aborts.
		Finalize(reason error)
		InputClosed(reason error)
		OutputClosed(reason error)
		// Congested signals that inbound paths should stop granting credit.
		Congested() bool
		// Done reports that the behavior has nothing left to produce, so the manager may stop.
		Done() bool
	}

	// State of a manager's lifecycle. Managers are discarded once they leave StateActive.
	State int

	Manager struct {
		self       Actor
		out        Scatterer
		behavior   Behavior
		logger     log.Logger
		priority   Priority
		continuous bool
		state      State

		pendingHandshakes int
		inbound           pathRegistry
		ledger            promiseLedger
	}

	ManagerOption func(*Manager)
)

const (
	StateActive State = iota
	StateStopped
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateStopped:
		return "stopped"
	case StateAborted:
		return "aborted"
	}
	return "unknown"
}

// WithBehavior sets the concrete role. Without it the manager rejects every data-plane operation
// with ErrInvalidStreamState.
func WithBehavior(b Behavior) ManagerOption {
	return func(m *Manager) {
		m.behavior = b
	}
}

func WithContinuous(continuous bool) ManagerOption {
	return func(m *Manager) {
		m.continuous = continuous
	}
}

func WithLogger(logger log.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

func NewManager(self Actor, out Scatterer, priority Priority, opts ...ManagerOption) *Manager {
	m := &Manager{
		self:     self,
		out:      out,
		priority: priority,
		logger:   log.NewNoopLogger(),
		ledger:   newPromiseLedger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.behavior == nil {
		m.behavior = invalidBehavior{manager: m}
	}
	m.logger = log.With(m.logger,
		tag.NewStringTag("role", m.behavior.Role()),
		tag.NewStringTag("actor", self.Ctrl().Address()),
		PriorityTag(priority),
	)
	metrics.StreamsActive.WithLabelValues(m.behavior.Role()).Inc()
	return m
}

func (m *Manager) Self() Actor { return m.self }
func (m *Manager) Out() Scatterer { return m.out }
func (m *Manager) Behavior() Behavior { return m.behavior }
func (m *Manager) Logger() log.Logger { return m.logger }
func (m *Manager) Priority() Priority { return m.priority }
func (m *Manager) Continuous() bool { return m.continuous }
func (m *Manager) State() State { return m.state }
func (m *Manager) PendingHandshakes() int { return m.pendingHandshakes }

// InFlightPromises is the number of handshakes still waiting for an acknowledgement.
func (m *Manager) InFlightPromises() int { return len(m.ledger.inFlight) }

// Promises is the number of terminal promises not yet delivered.
func (m *Manager) Promises() int { return len(m.ledger.promises) }

// InboundPaths returns the slots of all registered inbound paths.
func (m *Manager) InboundPaths() []Slot { return m.inbound.snapshot() }

func (m *Manager) NumInboundPaths() int { return m.inbound.len() }

// Done reports whether the manager reached a terminal state and released its outbound paths.
func (m *Manager) Done() bool {
	return m.state != StateActive && m.out.NumPaths() == 0
}

// Push drives outbound progress: emit whatever credit allows, then let the behavior generate more,
// until a full pass produces nothing new.
func (m *Manager) Push() {
	for {
		m.out.EmitBatches()
		if !m.GenerateMessages() {
			return
		}
	}
}

func (m *Manager) GenerateMessages() bool {
	return m.behavior.GenerateMessages()
}

func (m *Manager) Congested() bool {
	return m.behavior.Congested()
}

// SendHandshake opens a path to dest on behalf of nobody.
func (m *Manager) SendHandshake(dest Ref, slot Slot) error {
	return m.SendHandshakeFor(dest, slot, nil, nil, 0)
}

// SendHandshakeFor opens a path to dest from slot. The client, forwarding stages and request id
// identify who is told about the outcome if the stream fails before it is acknowledged.
// If the behavior cannot build a handshake the error is returned and nothing is sent.
func (m *Manager) SendHandshakeFor(dest Ref, slot Slot, client Ref, stages []Ref, id MessageID) error {
	handshake, err := m.behavior.MakeHandshake(slot)
	if err != nil {
		m.logger.Error("unable to build stream handshake", SlotTag(slot), tag.Error(err))
		return err
	}
	m.pendingHandshakes++
	metrics.PendingHandshakes.Inc()
	m.ledger.addInFlight(slot, NewResponsePromise(m.self, client, stages, id))
	m.logger.Debug("sending stream handshake", SlotTag(slot), tag.NewStringTag("dest", dest.Address()))
	m.self.Enqueue(dest, &Envelope{
		Sender: client,
		ID:     id,
		Stages: stages,
		Content: &OpenStream{
			Slot:      slot,
			Handshake: handshake,
			PrevStage: m.self.Ctrl(),
			Original:  dest,
			Priority:  m.priority,
		},
	})
	return nil
}

// RegisterInputPath adds an inbound path owned by the actor's path table.
func (m *Manager) RegisterInputPath(slot Slot) {
	m.inbound.add(slot)
	m.logger.Debug("registered inbound path", SlotTag(slot))
}

// DeregisterInputPath removes an inbound path in O(1) after locating it. Unknown slots are ignored.
func (m *Manager) DeregisterInputPath(slot Slot) {
	if !m.inbound.remove(slot) {
		m.logger.Debug("deregistering unknown inbound path", SlotTag(slot))
		return
	}
	m.logger.Debug("deregistered inbound path", SlotTag(slot), tag.NewInt("remaining", m.inbound.len()))
}

// RemoveInputPath asks the owning actor to drop the inbound path at slot after the current message.
// A silent removal drops the path gracefully instead of forwarding reason upstream.
func (m *Manager) RemoveInputPath(slot Slot, reason error, silent bool) {
	if silent {
		m.self.EraseInboundPathLater(slot, nil)
	} else {
		m.self.EraseInboundPathLater(slot, reason)
	}
}

// AddPromise registers a requester waiting for the stream's terminal result. Only managers whose
// output is terminal produce results.
func (m *Manager) AddPromise(p *ResponsePromise) error {
	if !m.out.Terminal() {
		m.logger.Error("response promise added to a non-terminal stream manager", tag.Error(ErrInvalidStreamState))
		return ErrInvalidStreamState
	}
	m.ledger.add(p)
	return nil
}

// DeliverPromises fulfills all terminal promises with r. Calling it on an empty ledger is a no-op.
func (m *Manager) DeliverPromises(r Response) {
	n := m.ledger.deliverAll(r)
	if n > 0 {
		metrics.PromisesDelivered.WithLabelValues(outcomeLabel(r)).Add(float64(n))
	}
}

// AddUnsafeOutboundPath forwards a handshake to next and immediately lets the behavior produce
// messages, building a pipeline one hop at a time.
func (m *Manager) AddUnsafeOutboundPath(next Ref, slot Slot, origin Ref, stages []Ref, id MessageID) error {
	if m.out.Terminal() {
		m.logger.Error("outbound path requested from a terminal stream manager", tag.Error(ErrTerminalOutput))
		return ErrTerminalOutput
	}
	if err := m.SendHandshakeFor(next, slot, origin, stages, id); err != nil {
		return err
	}
	m.GenerateMessages()
	return nil
}

// AddOutboundPath allocates a pending slot and opens a path to next on behalf of nobody.
func (m *Manager) AddOutboundPath(next Ref) (Slot, error) {
	if m.out.Terminal() {
		m.logger.Error("outbound path requested from a terminal stream manager", tag.Error(ErrTerminalOutput))
		return InvalidSlot, ErrTerminalOutput
	}
	slot := m.AssignNextPendingSlot()
	if err := m.AddUnsafeOutboundPath(next, slot, nil, nil, 0); err != nil {
		return InvalidSlot, err
	}
	return slot, nil
}

func (m *Manager) AssignNextSlot() Slot {
	return m.self.AssignNextSlotTo(m)
}

func (m *Manager) AssignNextPendingSlot() Slot {
	return m.self.AssignNextPendingSlotTo(m)
}

func (m *Manager) InputClosed(reason error) {
	m.behavior.InputClosed(reason)
}

// invalidBehavior is used by managers constructed without a concrete role. A base manager cannot
// open streams or consume data, so those operations fail loudly.
type invalidBehavior struct {
	manager *Manager
}

func (b invalidBehavior) Role() string { return "base" }

func (b invalidBehavior) MakeHandshake(Slot) (any, error) {
	b.manager.logger.Error("MakeHandshake called on a base stream manager")
	return nil, ErrInvalidStreamState
}

func (b invalidBehavior) ProcessBatch(*Batch) error {
	b.manager.logger.Error("ProcessBatch called on a base stream manager")
	return ErrInvalidStreamState
}

func (b invalidBehavior) DownstreamDemand(*OutboundPath, int) {
	b.manager.logger.Error("DownstreamDemand called on a base stream manager")
}

func (invalidBehavior) GenerateMessages() bool { return false }
func (invalidBehavior) MakeFinalResult() any { return nil }
func (invalidBehavior) Finalize(error) {}
func (invalidBehavior) InputClosed(error) {}
func (invalidBehavior) OutputClosed(error) {}
func (invalidBehavior) Congested() bool { return false }
func (invalidBehavior) Done() bool { return false }

func outcomeLabel(r Response) string {
	if r.Err != nil {
		return "error"
	}
	return "result"
}
