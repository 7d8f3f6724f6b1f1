package stream

// InboundPath is one upstream producer feeding a manager. Paths live in the owning actor's path
// table; managers refer to them by slot only. Slots.Sender is the producer's slot, Slots.Receiver ours.
type InboundPath struct {
	Slots    Slots
	Manager  *Manager
	Upstream Ref
	Priority Priority

	// AssignedCredit is the credit granted to the producer and not yet used by batches.
	AssignedCredit   int
	DesiredBatchSize int
	// LastBatchID is the ID of the most recent batch received on this path.
	LastBatchID int64
	// owed is credit consumed by received batches and not yet granted back.
	owed int
}

func NewInboundPath(slots Slots, mgr *Manager, upstream Ref, priority Priority) *InboundPath {
	return &InboundPath{
		Slots:    slots,
		Manager:  mgr,
		Upstream: upstream,
		Priority: priority,
	}
}

// EmitAckOpen accepts the handshake that created this path and grants the initial credit.
func (p *InboundPath) EmitAckOpen(self Actor, rebindFrom Ref, initialDemand int, desiredBatchSize int) {
	p.AssignedCredit = initialDemand
	p.DesiredBatchSize = desiredBatchSize
	p.send(self, p.Slots, &AckOpen{
		RebindFrom:       rebindFrom,
		RebindTo:         self.Ctrl(),
		InitialDemand:    initialDemand,
		DesiredBatchSize: desiredBatchSize,
	})
}

// Consumed records a batch received on this path.
func (p *InboundPath) Consumed(b *Batch) {
	p.AssignedCredit -= b.Size
	p.owed += b.Size
	p.LastBatchID = b.ID
}

// OwedCredit is the credit that has been consumed and not yet granted back.
func (p *InboundPath) OwedCredit() int {
	return p.owed
}

// EmitAckBatch acknowledges every batch up to LastBatchID and grants back all consumed credit.
// It reports whether an ack was sent.
func (p *InboundPath) EmitAckBatch(self Actor) bool {
	if p.owed == 0 {
		return false
	}
	credit := p.owed
	p.owed = 0
	p.AssignedCredit += credit
	p.send(self, p.Slots.Invert(), &AckBatch{
		NewCapacity:      credit,
		DesiredBatchSize: p.DesiredBatchSize,
		AcknowledgedID:   p.LastBatchID,
	})
	return true
}

// EmitRegularShutdown tells the producer this path is no longer wanted.
func (p *InboundPath) EmitRegularShutdown(self Actor) {
	p.send(self, p.Slots.Invert(), &Drop{})
}

// EmitIrregularShutdown tells the producer this path failed with reason.
func (p *InboundPath) EmitIrregularShutdown(self Actor, reason error) {
	p.send(self, p.Slots.Invert(), &ForcedDrop{Reason: reason})
}

func (p *InboundPath) send(self Actor, slots Slots, content any) {
	self.Enqueue(p.Upstream, &Envelope{
		Sender: self.Ctrl(),
		Content: &UpstreamMsg{
			Slots:   slots,
			Sender:  self.Ctrl(),
			Content: content,
		},
	})
}
