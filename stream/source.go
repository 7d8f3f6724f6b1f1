package stream

import (
	"go.temporal.io/server/common/log"
	"go.temporal.io/server/common/log/tag"

	"github.com/temporalio/s2s-streams/config"
)

type (
	// PullFunc returns up to demand new elements and reports whether the source is exhausted.
	PullFunc[T any] func(demand int) (xs []T, exhausted bool)

	// Source originates a stream from a PullFunc. It only pulls as much as its scatterer can buffer.
	Source[T any] struct {
		out       *BroadcastScatterer[T]
		pull      PullFunc[T]
		exhausted bool
		pulled    int
		logger    log.Logger
	}
)

func NewSource[T any](self Actor, pull PullFunc[T], settings config.StreamSettings, priority Priority, logger log.Logger) *Manager {
	out := NewBroadcastScatterer[T](self, settings.GetMaxBufferSize(), logger)
	return NewManager(self, out, priority,
		WithLogger(logger),
		WithBehavior(&Source[T]{out: out, pull: pull, logger: logger}),
	)
}

func (*Source[T]) Role() string { return "source" }

func (*Source[T]) MakeHandshake(Slot) (any, error) {
	return HandshakeFor[T](), nil
}

func (*Source[T]) ProcessBatch(*Batch) error {
	return ErrInvalidStreamState
}

func (s *Source[T]) GenerateMessages() bool {
	if s.exhausted {
		return false
	}
	demand := s.out.Capacity()
	if demand == 0 {
		return false
	}
	xs, exhausted := s.pull(demand)
	s.exhausted = exhausted
	s.pulled += len(xs)
	s.out.Push(xs...)
	if exhausted {
		s.logger.Debug("source exhausted", tag.NewInt("pulled", s.pulled))
	}
	return len(xs) > 0
}

func (*Source[T]) DownstreamDemand(*OutboundPath, int) {}
func (*Source[T]) MakeFinalResult() any { return nil }
func (*Source[T]) Finalize(error) {}
func (*Source[T]) InputClosed(error) {}
func (*Source[T]) OutputClosed(error) {}
func (*Source[T]) Congested() bool { return false }

// Done once the pull function is exhausted and every element has been acknowledged downstream.
func (s *Source[T]) Done() bool {
	return s.exhausted && s.out.Clean()
}

// Pulled is the number of elements taken from the pull function so far.
func (s *Source[T]) Pulled() int {
	return s.pulled
}

// SliceSource pulls the elements of xs in order.
func SliceSource[T any](xs []T) PullFunc[T] {
	return func(demand int) ([]T, bool) {
		n := min(demand, len(xs))
		chunk := xs[:n]
		xs = xs[n:]
		return chunk, len(xs) == 0
	}
}
