package stream

import (
	"fmt"

	"go.temporal.io/server/common/log/tag"
)

// Slot identifies one endpoint of a stream path inside a single actor.
type Slot uint16

// InvalidSlot is never handed out by a slot allocator.
const InvalidSlot Slot = 0

// Slots identifies a directed path between two actors.
type Slots struct {
	Sender   Slot
	Receiver Slot
}

// Invert addresses the same path from the other side.
func (s Slots) Invert() Slots {
	return Slots{Sender: s.Receiver, Receiver: s.Sender}
}

func (s Slots) String() string {
	return fmt.Sprintf("%d->%d", s.Sender, s.Receiver)
}

func SlotTag(slot Slot) tag.ZapTag {
	return tag.NewInt("slot", int(slot))
}

func SlotsTag(slots Slots) tag.ZapTag {
	return tag.NewStringTag("slots", slots.String())
}
