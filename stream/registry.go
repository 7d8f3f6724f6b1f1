package stream

import "slices"

// pathRegistry is the unordered set of inbound paths feeding a manager. Paths are owned by the
// actor's path table; the registry only holds their slots.
type pathRegistry struct {
	slots []Slot
}

func (r *pathRegistry) add(slot Slot) {
	r.slots = append(r.slots, slot)
}

// remove swaps slot into the last position before truncating. Removing an unknown slot is a no-op.
func (r *pathRegistry) remove(slot Slot) bool {
	last := len(r.slots) - 1
	if last < 0 {
		return false
	}
	if r.slots[last] != slot {
		i := slices.Index(r.slots, slot)
		if i < 0 {
			return false
		}
		r.slots[i], r.slots[last] = r.slots[last], r.slots[i]
	}
	r.slots = r.slots[:last]
	return true
}

func (r *pathRegistry) contains(slot Slot) bool {
	return slices.Contains(r.slots, slot)
}

func (r *pathRegistry) len() int {
	return len(r.slots)
}

// snapshot returns a copy, so callers may deregister while iterating.
func (r *pathRegistry) snapshot() []Slot {
	return slices.Clone(r.slots)
}
