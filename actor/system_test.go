package actor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/uber-go/tally/v4"
	"go.temporal.io/server/common/log"

	"github.com/temporalio/s2s-streams/config"
	"github.com/temporalio/s2s-streams/logging"
	"github.com/temporalio/s2s-streams/stream"
)

func TestSystemSuite(t *testing.T) {
	suite.Run(t, new(systemSuite))
}

type systemSuite struct {
	suite.Suite

	system *System
	scope  tally.TestScope
	ctx    context.Context
	cancel context.CancelFunc
}

func (s *systemSuite) SetupTest() {
	cfg := config.StreamsConfig{
		Streams: config.StreamSettings{
			MaxBatchSize:  3,
			MaxBufferSize: 8,
			MaxCredit:     4,
		},
	}
	s.scope = tally.NewTestScope("", nil)
	s.system = NewSystem(config.NewMockConfigProvider(cfg), logging.NewTestLoggerProvider(), s.scope)
	s.ctx, s.cancel = context.WithTimeout(context.Background(), 10*time.Second)
}

func (s *systemSuite) TearDownTest() {
	s.cancel()
	s.system.Stop()
}

func (s *systemSuite) spawn(name string, props Props) *Actor {
	a, err := s.system.Spawn(name, props)
	s.Require().NoError(err)
	return a
}

func (s *systemSuite) spawnSource(name string, n int) *Actor {
	return s.spawn(name, Props{Receiver: SourceReceiver(func() stream.PullFunc[int] {
		xs := make([]int, n)
		for i := range xs {
			xs[i] = i + 1
		}
		return stream.SliceSource(xs)
	})})
}

func (s *systemSuite) spawnSum(name string) *Actor {
	return s.spawn(name, Props{Acceptor: SinkAcceptor(0, func(acc, x int) (int, error) {
		return acc + x, nil
	})})
}

func double(x int) (int, error) {
	return 2 * x, nil
}

func (s *systemSuite) TestSourceToSink() {
	src := s.spawnSource("source", 100)
	sink := s.spawnSum("sink")

	res, err := s.system.Ask(s.ctx, src, &StartStream{}, Route(sink)...)
	s.Require().NoError(err)
	s.Equal(5050, res)
}

func (s *systemSuite) TestPipelineWithStages() {
	src := s.spawnSource("source", 100)
	first := s.spawn("double", Props{Acceptor: StageAcceptor(stream.MapFunc(double))})
	second := s.spawn("format", Props{Acceptor: StageAcceptor(func(x int) ([]string, error) {
		return []string{strconv.Itoa(x), "|"}, nil
	})})
	sink := s.spawn("length", Props{Acceptor: SinkAcceptor(0, func(acc int, x string) (int, error) {
		return acc + len(x), nil
	})})

	res, err := s.system.Ask(s.ctx, src, &StartStream{Priority: "high"}, Route(first, second, sink)...)
	s.Require().NoError(err)

	want := 0
	for i := 1; i <= 100; i++ {
		want += len(strconv.Itoa(2*i)) + 1
	}
	s.Equal(want, res)

	s.Eventually(func() bool {
		return s.system.Tracker().GetStreamCount() == 0
	}, 5*time.Second, 10*time.Millisecond, "all managers released")
	s.Positive(s.scope.Snapshot().Counters()["messages_processed+actor=double"].Value())
}

func (s *systemSuite) TestConcurrentStreams() {
	src := s.spawnSource("source", 50)
	stage := s.spawn("double", Props{Acceptor: StageAcceptor(stream.MapFunc(double))})
	sink := s.spawnSum("sink")

	results := make(chan any, 5)
	errs := make(chan error, 5)
	for range 5 {
		go func() {
			res, err := s.system.Ask(s.ctx, src, &StartStream{}, Route(stage, sink)...)
			results <- res
			errs <- err
		}()
	}
	for range 5 {
		s.NoError(<-errs)
		s.Equal(2550, <-results)
	}
}

func (s *systemSuite) TestStageFailureAbortsStream() {
	failure := errors.New("cannot process 7")
	src := s.spawnSource("source", 20)
	stage := s.spawn("picky", Props{Acceptor: StageAcceptor(stream.MapFunc(func(x int) (int, error) {
		if x == 7 {
			return 0, failure
		}
		return x, nil
	}))})
	sink := s.spawnSum("sink")

	_, err := s.system.Ask(s.ctx, src, &StartStream{}, Route(stage, sink)...)
	s.ErrorIs(err, stream.ErrStreamAborted)
	s.ErrorIs(err, failure)

	s.Eventually(func() bool {
		return s.system.Tracker().GetStreamCount() == 0
	}, 5*time.Second, 10*time.Millisecond, "aborted managers released")
}

func (s *systemSuite) TestHandshakeRefusedForElementType() {
	src := s.spawnSource("source", 10)
	sink := s.spawn("strings", Props{Acceptor: SinkAcceptor(0, func(acc int, x string) (int, error) {
		return acc + len(x), nil
	})})

	_, err := s.system.Ask(s.ctx, src, &StartStream{}, Route(sink)...)
	s.ErrorIs(err, stream.ErrStreamAborted)
	s.ErrorIs(err, stream.ErrInvalidStreamState)
}

func (s *systemSuite) TestStreamToActorWithoutAcceptor() {
	src := s.spawnSource("source", 10)
	plain := s.spawn("plain", Props{})

	_, err := s.system.Ask(s.ctx, src, &StartStream{}, Route(plain)...)
	s.ErrorIs(err, stream.ErrInvalidStreamState)
}

func (s *systemSuite) TestRouteEndingAtStageIsRefused() {
	src := s.spawnSource("source", 10)
	stage := s.spawn("double", Props{Acceptor: StageAcceptor(stream.MapFunc(double))})

	_, err := s.system.Ask(s.ctx, src, &StartStream{}, Route(stage)...)
	s.ErrorIs(err, stream.ErrStreamAborted)
	s.ErrorIs(err, stream.ErrInvalidStreamState)
	s.ErrorContains(err, "does not terminate streams")

	s.Eventually(func() bool {
		return s.system.Tracker().GetStreamCount() == 0
	}, 5*time.Second, 10*time.Millisecond, "refused source released")
}

func (s *systemSuite) TestReceiverErrorsAreAnswered() {
	src := s.spawnSource("source", 10)

	_, err := s.system.Ask(s.ctx, src, &StartStream{})
	s.ErrorIs(err, stream.ErrInvalidStreamState)

	_, err = s.system.Ask(s.ctx, src, "hello")
	s.ErrorIs(err, ErrUnexpectedMessage)

	_, err = s.system.Ask(s.ctx, src, &StartStream{Priority: "urgent"}, Route(src)...)
	s.Error(err)
}

func (s *systemSuite) TestAsk() {
	echo := s.spawn("echo", Props{Receiver: ReceiverFunc(func(a *Actor, env *stream.Envelope) error {
		a.Enqueue(env.Sender, &stream.Envelope{Sender: a, ID: env.ID, Content: env.Content})
		return nil
	})})
	silent := s.spawn("silent", Props{Receiver: ReceiverFunc(func(*Actor, *stream.Envelope) error {
		return nil
	})})

	res, err := s.system.Ask(s.ctx, echo, "ping")
	s.NoError(err)
	s.Equal("ping", res)

	ctx, cancel := context.WithTimeout(s.ctx, 50*time.Millisecond)
	defer cancel()
	_, err = s.system.Ask(ctx, silent, "ping")
	s.ErrorIs(err, context.DeadlineExceeded)

	_, err = s.system.Ask(s.ctx, testRef("nobody"), "ping")
	s.ErrorIs(err, ErrNoSuchActor)
}

func (s *systemSuite) TestSpawnAndStop() {
	a := s.spawn("worker", Props{})
	_, err := s.system.Spawn("worker", Props{})
	s.ErrorIs(err, ErrDuplicateName)
	_, err = s.system.Spawn("", Props{})
	s.Error(err)

	ref, ok := s.system.Lookup("worker")
	s.True(ok)
	s.Equal(a, ref)

	s.NoError(s.system.StopActor(a))
	<-a.Done()
	_, ok = s.system.Lookup("worker")
	s.False(ok)
	s.ErrorIs(s.system.Tell(a, "late"), ErrNoSuchActor)
	s.ErrorIs(s.system.StopActor(a), ErrNoSuchActor)

	s.system.Stop()
	_, err = s.system.Spawn("other", Props{})
	s.ErrorIs(err, ErrActorStopped)
	_, err = s.system.Ask(s.ctx, a, "ping")
	s.ErrorIs(err, ErrActorStopped)
}

func (s *systemSuite) TestDebugInfo() {
	s.spawn("b", Props{})
	s.spawn("a", Props{})

	rec := httptest.NewRecorder()
	HandleDebugInfo(rec, httptest.NewRequest("GET", "/debug", nil), s.system, log.NewTestLogger())

	s.Equal("application/json", rec.Header().Get("Content-Type"))
	var resp DebugResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	s.Equal(0, resp.StreamCount)
	s.Require().Len(resp.Actors, 2)
	s.Equal("a", resp.Actors[0].Address)
	s.Equal("b", resp.Actors[1].Address)
}

type testRef string

func (r testRef) Address() string { return string(r) }
