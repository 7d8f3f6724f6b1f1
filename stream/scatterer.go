package stream

// Scatterer is the outbound side of a manager. It owns the outbound paths and decides how buffered
// elements are distributed among them.
type Scatterer interface {
	// AddPath registers a new outbound path keyed by slots.Receiver. It returns nil if the path
	// cannot be added, e.g. because the slot is already taken or the scatterer is terminal.
	AddPath(slots Slots, target Ref) *OutboundPath
	// Path returns nil for unknown or already removed slots.
	Path(slot Slot) *OutboundPath
	// RemovePath reports whether a live path was removed. A silent removal does not notify the consumer.
	RemovePath(slot Slot, reason error, silent bool) bool
	// Close stops accepting new elements and closes every path once its buffered elements are sent.
	Close()
	// Abort closes every path immediately, telling consumers the reason.
	Abort(reason error)
	// Terminal reports whether this scatterer ends the stream instead of forwarding it.
	Terminal() bool
	// EmitBatches sends as many batches as the paths' credit allows.
	EmitBatches()
	// Capacity is the number of elements that can be buffered before the scatterer is congested.
	Capacity() int
	// Clean reports whether nothing is buffered and every emitted batch has been acknowledged.
	Clean() bool
	NumPaths() int
}
