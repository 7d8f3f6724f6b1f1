package actor

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/uber-go/tally/v4"
	"go.temporal.io/server/common/log"
	"go.temporal.io/server/common/log/tag"

	"github.com/temporalio/s2s-streams/config"
	"github.com/temporalio/s2s-streams/logging"
	"github.com/temporalio/s2s-streams/metrics"
	"github.com/temporalio/s2s-streams/stream"
)

type (
	// endpoint is anything envelopes can be delivered to: actors and temporary ask endpoints.
	endpoint interface {
		deliver(env *stream.Envelope) bool
	}

	// System owns a set of actors and routes envelopes between them by address.
	System struct {
		config  config.StreamsConfig
		loggers logging.LoggerProvider
		logger  log.Logger
		scope   tally.Scope
		tracker *StreamTracker

		ctx    context.Context
		cancel context.CancelFunc
		wg     sync.WaitGroup

		mu        sync.RWMutex
		endpoints map[string]endpoint
		actors    map[string]*Actor

		askSeq  atomic.Uint64
		stopped atomic.Bool
	}

	ActorInfo struct {
		Address      string `json:"address"`
		MailboxDepth int    `json:"mailbox_depth"`
		Streams      int    `json:"streams"`
	}
)

func NewSystem(configProvider config.ConfigProvider, loggers logging.LoggerProvider, scope tally.Scope) *System {
	ctx, cancel := context.WithCancel(context.Background())
	return &System{
		config:    configProvider.GetStreamsConfig(),
		loggers:   loggers,
		logger:    loggers.Get(logging.ComponentSystem),
		scope:     scope,
		tracker:   NewStreamTracker(),
		ctx:       ctx,
		cancel:    cancel,
		endpoints: make(map[string]endpoint),
		actors:    make(map[string]*Actor),
	}
}

// Spawn starts an actor under name. Names are addresses and must be unique within the system.
func (s *System) Spawn(name string, props Props) (*Actor, error) {
	if s.stopped.Load() {
		return nil, ErrActorStopped
	}
	if name == "" || strings.HasPrefix(name, askPrefix) {
		return nil, fmt.Errorf("invalid actor name %q", name)
	}
	priority, err := stream.ParsePriority(s.config.Streams.GetDefaultPriority())
	if err != nil {
		return nil, err
	}

	actorTag := tag.NewStringTag("actor", name)
	a := &Actor{
		system:       s,
		address:      name,
		props:        props,
		mailbox:      newMailbox(),
		logger:       log.With(s.loggers.Get(logging.ComponentActor), actorTag),
		streamLogger: s.loggers.Get(logging.ComponentStream),
		scope:        s.scope.Tagged(map[string]string{"actor": metrics.SanitizeForPrometheus(name)}),
		settings:     s.config.Streams,
		priority:     priority,
		warnDepth:    s.config.Actors.GetMailboxWarnThreshold(),
		managers:     make(map[stream.Slot]*stream.Manager),
		pending:      make(map[stream.Slot]*stream.Manager),
		inbound:      make(map[stream.Slot]*stream.InboundPath),
		tracked:      make(map[*stream.Manager]string),
		done:         make(chan struct{}),
	}

	s.mu.Lock()
	if _, exists := s.endpoints[name]; exists {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}
	s.endpoints[name] = a
	s.actors[name] = a
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		a.run(s.ctx)
	}()
	s.logger.Debug("actor spawned", actorTag)
	return a, nil
}

// Lookup resolves an address to a reference.
func (s *System) Lookup(address string) (stream.Ref, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.actors[address]
	if !ok {
		return nil, false
	}
	return a, true
}

// Send delivers env to dest without waiting for it to be processed.
func (s *System) Send(dest stream.Ref, env *stream.Envelope) error {
	if dest == nil {
		return fmt.Errorf("%w: nil destination", ErrNoSuchActor)
	}
	s.mu.RLock()
	ep, ok := s.endpoints[dest.Address()]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoSuchActor, dest.Address())
	}
	if !ep.deliver(env) {
		return fmt.Errorf("%w: %s", ErrActorStopped, dest.Address())
	}
	return nil
}

// Tell sends content to dest on behalf of nobody.
func (s *System) Tell(dest stream.Ref, content any) error {
	return s.Send(dest, &stream.Envelope{Content: content})
}

// deliver is Send for messages produced by actors, which have nobody to report failures to.
func (s *System) deliver(dest stream.Ref, env *stream.Envelope) {
	if err := s.Send(dest, env); err != nil {
		metrics.DroppedEnvelopes.Inc()
		s.logger.Debug("dropping envelope", tag.NewStringTag("type", fmt.Sprintf("%T", env.Content)), tag.Error(err))
	}
}

// StopActor closes the mailbox of ref and waits until the actor processed what was queued.
func (s *System) StopActor(ref stream.Ref) error {
	s.mu.Lock()
	a, ok := s.actors[ref.Address()]
	if ok {
		delete(s.actors, ref.Address())
		delete(s.endpoints, ref.Address())
	}
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoSuchActor, ref.Address())
	}
	a.mailbox.close()
	<-a.done
	return nil
}

// Stop closes every mailbox and waits for all actors to exit. Streams still running are aborted
// with ErrActorStopped.
func (s *System) Stop() {
	if !s.stopped.CompareAndSwap(false, true) {
		return
	}
	s.mu.RLock()
	for _, a := range s.actors {
		a.mailbox.close()
	}
	s.mu.RUnlock()
	s.wg.Wait()
	s.cancel()
	s.logger.Info("actor system stopped")
}

func (s *System) Tracker() *StreamTracker {
	return s.tracker
}

// Actors lists the running actors ordered by address.
func (s *System) Actors() []ActorInfo {
	s.mu.RLock()
	actors := make([]*Actor, 0, len(s.actors))
	for _, a := range s.actors {
		actors = append(actors, a)
	}
	s.mu.RUnlock()

	streams := make(map[string]int)
	for _, info := range s.tracker.GetActiveStreams() {
		streams[info.Actor]++
	}
	infos := make([]ActorInfo, 0, len(actors))
	for _, a := range actors {
		infos = append(infos, ActorInfo{
			Address:      a.address,
			MailboxDepth: a.mailbox.len(),
			Streams:      streams[a.address],
		})
	}
	slices.SortFunc(infos, func(x, y ActorInfo) int {
		return strings.Compare(x.Address, y.Address)
	})
	return infos
}

func (s *System) register(address string, ep endpoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.endpoints[address] = ep
}

func (s *System) unregister(address string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.endpoints, address)
}
