package stream

// ResponsePromise delivers a single Response back to whoever requested a stream. A promise with
// no requester silently discards its response.
type ResponsePromise struct {
	owner  Actor
	self   Ref
	source Ref
	stages []Ref
	id     MessageID
}

func NewResponsePromise(owner Actor, source Ref, stages []Ref, id MessageID) *ResponsePromise {
	return &ResponsePromise{
		owner:  owner,
		self:   owner.Ctrl(),
		source: source,
		stages: stages,
		id:     id,
	}
}

// Pending reports whether the promise still has somebody to deliver to.
func (p *ResponsePromise) Pending() bool {
	return p.source != nil
}

func (p *ResponsePromise) ID() MessageID {
	return p.id
}

// Stages is the forwarding context the stream request travelled with.
func (p *ResponsePromise) Stages() []Ref {
	return p.stages
}

// Deliver sends r straight to the requester. It reports whether anything was sent; a promise never
// delivers twice.
func (p *ResponsePromise) Deliver(r Response) bool {
	if !p.Pending() {
		return false
	}
	dest := p.source
	p.source = nil
	p.owner.Enqueue(dest, &Envelope{Sender: p.self, ID: p.id, Content: r})
	return true
}

// promiseLedger tracks what a manager owes to requesters.
type promiseLedger struct {
	// promises are fulfilled with the terminal result; only terminal managers have any.
	promises []*ResponsePromise
	// inFlight holds one promise per handshake that has not been acknowledged yet.
	inFlight map[Slot]*ResponsePromise
}

func newPromiseLedger() promiseLedger {
	return promiseLedger{inFlight: make(map[Slot]*ResponsePromise)}
}

func (l *promiseLedger) add(p *ResponsePromise) {
	l.promises = append(l.promises, p)
}

func (l *promiseLedger) addInFlight(slot Slot, p *ResponsePromise) {
	l.inFlight[slot] = p
}

// takeInFlight removes and returns the promise for slot.
func (l *promiseLedger) takeInFlight(slot Slot) (*ResponsePromise, bool) {
	p, ok := l.inFlight[slot]
	if ok {
		delete(l.inFlight, slot)
	}
	return p, ok
}

func (l *promiseLedger) owesAny() bool {
	return len(l.promises) > 0 || len(l.inFlight) > 0
}

// deliverAll fulfills and clears the terminal promises. It returns the number of responses sent.
func (l *promiseLedger) deliverAll(r Response) int {
	sent := 0
	for _, p := range l.promises {
		if p.Deliver(r) {
			sent++
		}
	}
	l.promises = nil
	return sent
}

// failInFlight delivers r to every in-flight promise and clears the table.
func (l *promiseLedger) failInFlight(r Response) int {
	sent := 0
	for slot, p := range l.inFlight {
		if p.Deliver(r) {
			sent++
		}
		delete(l.inFlight, slot)
	}
	return sent
}
