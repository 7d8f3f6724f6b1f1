package stream

import (
	"fmt"

	"go.temporal.io/server/common/log"
	"go.temporal.io/server/common/log/tag"
)

type (
	// FoldFunc merges one element into the accumulator.
	FoldFunc[T, R any] func(acc R, x T) (R, error)

	// Sink terminates a stream by folding every element into an accumulator. The accumulator is the
	// result delivered to whoever requested the stream.
	Sink[T, R any] struct {
		acc      R
		fold     FoldFunc[T, R]
		consumed int
		closed   bool
		logger   log.Logger
	}
)

func NewSink[T, R any](self Actor, init R, fold FoldFunc[T, R], priority Priority, logger log.Logger) *Manager {
	return NewManager(self, NewTerminalScatterer(logger), priority,
		WithLogger(logger),
		WithBehavior(&Sink[T, R]{acc: init, fold: fold, logger: logger}),
	)
}

func (*Sink[T, R]) Role() string { return "sink" }

func (*Sink[T, R]) MakeHandshake(Slot) (any, error) {
	return nil, ErrInvalidStreamState
}

func (s *Sink[T, R]) ProcessBatch(b *Batch) error {
	xs, ok := b.Xs.([]T)
	if !ok {
		return fmt.Errorf("%w: batch of %T", ErrInvalidStreamState, b.Xs)
	}
	for _, x := range xs {
		acc, err := s.fold(s.acc, x)
		if err != nil {
			return err
		}
		s.acc = acc
	}
	s.consumed += len(xs)
	return nil
}

func (*Sink[T, R]) GenerateMessages() bool { return false }
func (*Sink[T, R]) DownstreamDemand(*OutboundPath, int) {}
func (*Sink[T, R]) OutputClosed(error) {}
func (*Sink[T, R]) Congested() bool { return false }

func (s *Sink[T, R]) MakeFinalResult() any {
	return s.acc
}

func (s *Sink[T, R]) Finalize(reason error) {
	s.logger.Debug("sink finalized", tag.NewInt("consumed", s.consumed), tag.Error(reason))
}

func (s *Sink[T, R]) InputClosed(error) {
	s.closed = true
}

func (s *Sink[T, R]) Done() bool {
	return s.closed
}

// Result is the current accumulator.
func (s *Sink[T, R]) Result() R {
	return s.acc
}
