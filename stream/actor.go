package stream

// Actor is the owning actor as seen by its stream managers. All calls happen on the actor's own goroutine.
type Actor interface {
	// Ctrl is the identity used as sender of control messages and responses.
	Ctrl() Ref
	Enqueue(dest Ref, env *Envelope)
	// EraseInboundPathsLater removes every inbound path of m once the current message has been processed.
	// A nil reason tells the upstream actors to drop their paths gracefully.
	EraseInboundPathsLater(m *Manager, reason error)
	// EraseInboundPathLater removes a single inbound path once the current message has been processed.
	EraseInboundPathLater(slot Slot, reason error)
	AssignNextSlotTo(m *Manager) Slot
	AssignNextPendingSlotTo(m *Manager) Slot
}
