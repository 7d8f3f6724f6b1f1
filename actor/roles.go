package actor

import (
	"fmt"

	"github.com/temporalio/s2s-streams/stream"
)

// StartStream asks a source actor to open a new stream along the envelope's stages.
type StartStream struct {
	// Priority overrides the configured default priority when set.
	Priority string
}

// SourceReceiver answers StartStream by creating a source manager fed by a fresh pull function and
// sending its handshake to the first stage. The requester is answered by the last stage.
func SourceReceiver[T any](newPull func() stream.PullFunc[T]) ReceiverFunc {
	return func(a *Actor, env *stream.Envelope) error {
		start, ok := env.Content.(*StartStream)
		if !ok {
			return fmt.Errorf("%w: %T", ErrUnexpectedMessage, env.Content)
		}
		n := len(env.Stages)
		if n == 0 {
			return fmt.Errorf("%w: stream request without stages", stream.ErrInvalidStreamState)
		}
		priority := a.DefaultPriority()
		if start.Priority != "" {
			p, err := stream.ParsePriority(start.Priority)
			if err != nil {
				return err
			}
			priority = p
		}
		m := stream.NewSource(a, newPull(), a.Settings(), priority, a.StreamLogger())
		return m.AddUnsafeOutboundPath(env.Stages[n-1], m.AssignNextPendingSlot(), env.Sender, env.Stages[:n-1], env.ID)
	}
}

// StageAcceptor accepts streams of In and transforms them with fn.
func StageAcceptor[In, Out any](fn stream.FlatMapFunc[In, Out]) AcceptorFunc {
	return func(a *Actor, open *stream.OpenStream) (*stream.Manager, error) {
		if err := stream.CheckHandshake[In](open); err != nil {
			return nil, err
		}
		return stream.NewStage(a, fn, a.Settings(), open.Priority, a.StreamLogger()), nil
	}
}

// SinkAcceptor accepts streams of T and folds every element into a fresh copy of init.
func SinkAcceptor[T, R any](init R, fold stream.FoldFunc[T, R]) AcceptorFunc {
	return func(a *Actor, open *stream.OpenStream) (*stream.Manager, error) {
		if err := stream.CheckHandshake[T](open); err != nil {
			return nil, err
		}
		return stream.NewSink(a, init, fold, open.Priority, a.StreamLogger()), nil
	}
}
