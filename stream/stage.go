package stream

import (
	"fmt"

	"go.temporal.io/server/common/log"

	"github.com/temporalio/s2s-streams/config"
)

type (
	// FlatMapFunc turns one input element into zero or more output elements.
	FlatMapFunc[In, Out any] func(In) ([]Out, error)

	// Stage transforms a stream. It withholds credit from its producers while its own buffer is full.
	Stage[In, Out any] struct {
		out    *BroadcastScatterer[Out]
		fn     FlatMapFunc[In, Out]
		closed bool
	}
)

func NewStage[In, Out any](self Actor, fn FlatMapFunc[In, Out], settings config.StreamSettings, priority Priority, logger log.Logger) *Manager {
	out := NewBroadcastScatterer[Out](self, settings.GetMaxBufferSize(), logger)
	return NewManager(self, out, priority,
		WithLogger(logger),
		WithBehavior(&Stage[In, Out]{out: out, fn: fn}),
	)
}

// MapFunc lifts a one-to-one transformation into a FlatMapFunc.
func MapFunc[In, Out any](fn func(In) (Out, error)) FlatMapFunc[In, Out] {
	return func(x In) ([]Out, error) {
		y, err := fn(x)
		if err != nil {
			return nil, err
		}
		return []Out{y}, nil
	}
}

func (*Stage[In, Out]) Role() string { return "stage" }

func (*Stage[In, Out]) MakeHandshake(Slot) (any, error) {
	return HandshakeFor[Out](), nil
}

func (s *Stage[In, Out]) ProcessBatch(b *Batch) error {
	xs, ok := b.Xs.([]In)
	if !ok {
		return fmt.Errorf("%w: batch of %T", ErrInvalidStreamState, b.Xs)
	}
	for _, x := range xs {
		ys, err := s.fn(x)
		if err != nil {
			return err
		}
		s.out.Push(ys...)
	}
	return nil
}

func (*Stage[In, Out]) GenerateMessages() bool { return false }
func (*Stage[In, Out]) DownstreamDemand(*OutboundPath, int) {}
func (*Stage[In, Out]) MakeFinalResult() any { return nil }
func (*Stage[In, Out]) Finalize(error) {}
func (*Stage[In, Out]) OutputClosed(error) {}

func (s *Stage[In, Out]) InputClosed(error) {
	s.closed = true
}

func (s *Stage[In, Out]) Congested() bool {
	return s.out.Capacity() == 0
}

// Done once all inputs are closed. Buffered elements are still drained by the closing scatterer.
func (s *Stage[In, Out]) Done() bool {
	return s.closed
}
