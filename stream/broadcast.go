package stream

import (
	"slices"

	"go.temporal.io/server/common/log"
	"go.temporal.io/server/common/log/tag"

	"github.com/temporalio/s2s-streams/metrics"
)

type (
	// BroadcastScatterer sends every element to every outbound path. Elements pushed while there is
	// no path yet stay buffered until the first path is acknowledged.
	BroadcastScatterer[T any] struct {
		self      Actor
		logger    log.Logger
		maxBuffer int
		buf       []T
		paths     map[Slot]*broadcastPath[T]
		// order keeps emission deterministic
		order   []Slot
		closing bool
	}

	broadcastPath[T any] struct {
		*OutboundPath
		cache []T
	}
)

func NewBroadcastScatterer[T any](self Actor, maxBuffer int, logger log.Logger) *BroadcastScatterer[T] {
	return &BroadcastScatterer[T]{
		self:      self,
		logger:    logger,
		maxBuffer: maxBuffer,
		paths:     make(map[Slot]*broadcastPath[T]),
	}
}

// Push buffers xs for all paths. Callers are expected to respect Capacity.
func (s *BroadcastScatterer[T]) Push(xs ...T) {
	s.buf = append(s.buf, xs...)
}

// Buffered is the number of elements not yet handed to any path.
func (s *BroadcastScatterer[T]) Buffered() int {
	return len(s.buf)
}

func (s *BroadcastScatterer[T]) AddPath(slots Slots, target Ref) *OutboundPath {
	if s.closing {
		s.logger.Warn("refusing outbound path on a closing scatterer", SlotsTag(slots))
		return nil
	}
	key := slots.Receiver
	if _, exists := s.paths[key]; exists {
		s.logger.Warn("refusing duplicate outbound path", SlotsTag(slots))
		return nil
	}
	path := &broadcastPath[T]{OutboundPath: NewOutboundPath(slots, target)}
	s.paths[key] = path
	s.order = append(s.order, key)
	return path.OutboundPath
}

func (s *BroadcastScatterer[T]) Path(slot Slot) *OutboundPath {
	if path, ok := s.paths[slot]; ok {
		return path.OutboundPath
	}
	return nil
}

func (s *BroadcastScatterer[T]) RemovePath(slot Slot, reason error, silent bool) bool {
	path, ok := s.paths[slot]
	if !ok {
		return false
	}
	if !silent {
		if reason == nil {
			path.EmitRegularShutdown(s.self)
		} else {
			path.EmitIrregularShutdown(s.self, reason)
		}
	}
	s.erase(slot)
	return true
}

func (s *BroadcastScatterer[T]) Close() {
	s.closing = true
	s.EmitBatches()
}

func (s *BroadcastScatterer[T]) Abort(reason error) {
	s.closing = true
	for _, slot := range s.order {
		s.paths[slot].EmitIrregularShutdown(s.self, reason)
	}
	clear(s.paths)
	s.order = nil
	s.buf = nil
}

func (s *BroadcastScatterer[T]) Terminal() bool {
	return false
}

func (s *BroadcastScatterer[T]) EmitBatches() {
	if len(s.paths) == 0 {
		return
	}
	if len(s.buf) > 0 {
		for _, path := range s.paths {
			path.cache = append(path.cache, s.buf...)
		}
		s.buf = nil
	}
	for _, slot := range slices.Clone(s.order) {
		path := s.paths[slot]
		for len(path.cache) > 0 && path.OpenCredit > 0 {
			n := min(len(path.cache), path.OpenCredit, max(path.DesiredBatchSize, 1))
			xs := slices.Clone(path.cache[:n])
			path.cache = path.cache[n:]
			path.EmitBatch(s.self, n, xs)
			metrics.BatchesEmitted.Inc()
			metrics.ElementsEmitted.Add(float64(n))
		}
		if s.closing && len(path.cache) == 0 {
			s.logger.Debug("closing drained outbound path", SlotsTag(path.Slots),
				tag.NewInt64("next-batch-id", path.NextBatchID))
			path.EmitRegularShutdown(s.self)
			s.erase(slot)
		}
	}
}

// Capacity accounts for the slowest path: elements are only freed once every path has sent them.
func (s *BroadcastScatterer[T]) Capacity() int {
	used := len(s.buf)
	largest := 0
	for _, path := range s.paths {
		largest = max(largest, len(path.cache))
	}
	return max(s.maxBuffer-used-largest, 0)
}

func (s *BroadcastScatterer[T]) Clean() bool {
	if len(s.buf) > 0 {
		return false
	}
	for _, path := range s.paths {
		if len(path.cache) > 0 || !path.Clean() {
			return false
		}
	}
	return true
}

func (s *BroadcastScatterer[T]) NumPaths() int {
	return len(s.paths)
}

func (s *BroadcastScatterer[T]) erase(slot Slot) {
	delete(s.paths, slot)
	if i := slices.Index(s.order, slot); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
}
