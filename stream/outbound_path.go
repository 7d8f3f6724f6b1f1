package stream

// OutboundPath is one downstream consumer of a manager. Slots is stored in the orientation of the
// upstream messages arriving on it: Sender is the consumer's slot, Receiver is ours.
type OutboundPath struct {
	Slots  Slots
	Target Ref

	// OpenCredit is the number of elements the consumer currently accepts.
	OpenCredit       int
	DesiredBatchSize int
	NextBatchID      int64
	// NextAckID is the batch ID the consumer is expected to acknowledge next.
	NextAckID int64
	Closing   bool
}

func NewOutboundPath(slots Slots, target Ref) *OutboundPath {
	return &OutboundPath{
		Slots:            slots,
		Target:           target,
		DesiredBatchSize: 1,
		NextBatchID:      1,
		NextAckID:        1,
	}
}

// Clean reports whether every emitted batch has been acknowledged.
func (p *OutboundPath) Clean() bool {
	return p.NextAckID == p.NextBatchID
}

// EmitBatch sends size elements to the consumer and consumes the matching credit.
func (p *OutboundPath) EmitBatch(self Actor, size int, xs any) {
	batch := &Batch{Size: size, Xs: xs, ID: p.NextBatchID}
	p.NextBatchID++
	p.OpenCredit -= size
	p.send(self, batch)
}

func (p *OutboundPath) EmitRegularShutdown(self Actor) {
	p.send(self, &Close{})
}

func (p *OutboundPath) EmitIrregularShutdown(self Actor, reason error) {
	p.send(self, &ForcedClose{Reason: reason})
}

func (p *OutboundPath) send(self Actor, content any) {
	self.Enqueue(p.Target, &Envelope{
		Sender: self.Ctrl(),
		Content: &DownstreamMsg{
			Slots:   p.Slots.Invert(),
			Sender:  self.Ctrl(),
			Content: content,
		},
	})
}
