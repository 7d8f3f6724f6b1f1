package actor

import (
	"context"
	"strconv"

	"github.com/temporalio/s2s-streams/stream"
)

const askPrefix = "$ask/"

// askRef is a temporary endpoint that accepts exactly one envelope.
type askRef struct {
	address string
	ch      chan *stream.Envelope
}

func (r *askRef) Address() string { return r.address }

func (r *askRef) deliver(env *stream.Envelope) bool {
	select {
	case r.ch <- env:
		return true
	default:
		return false
	}
}

// Ask sends content to dest from a temporary endpoint and waits for the answer. stages is the route
// the request travels after dest, last hop first; see Route. A Response answer is unwrapped into
// its value and error.
func (s *System) Ask(ctx context.Context, dest stream.Ref, content any, stages ...stream.Ref) (any, error) {
	if s.stopped.Load() {
		return nil, ErrActorStopped
	}
	id := stream.MessageID(s.askSeq.Add(1))
	ref := &askRef{
		address: askPrefix + strconv.FormatUint(uint64(id), 10),
		ch:      make(chan *stream.Envelope, 1),
	}
	s.register(ref.address, ref)
	defer s.unregister(ref.address)

	if err := s.Send(dest, &stream.Envelope{Sender: ref, ID: id, Stages: stages, Content: content}); err != nil {
		return nil, err
	}
	select {
	case env := <-ref.ch:
		if r, ok := env.Content.(stream.Response); ok {
			return r.Value, r.Err
		}
		return env.Content, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.ctx.Done():
		return nil, ErrActorStopped
	}
}

// Route turns hops listed in travel order into a forwarding stack.
func Route(hops ...stream.Ref) []stream.Ref {
	stages := make([]stream.Ref, len(hops))
	for i, hop := range hops {
		stages[len(hops)-1-i] = hop
	}
	return stages
}
