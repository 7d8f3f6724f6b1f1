package stream

import (
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.temporal.io/server/common/log"

	"github.com/temporalio/s2s-streams/metrics"
)

type testRef string

func (r testRef) Address() string { return string(r) }

type sentEnvelope struct {
	dest Ref
	env  *Envelope
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(managerSuite))
}

type managerSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	actor    *MockActor
	out      *MockScatterer
	behavior *MockBehavior
	sent     []sentEnvelope
}

func (s *managerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.actor = NewMockActor(s.ctrl)
	s.out = NewMockScatterer(s.ctrl)
	s.behavior = NewMockBehavior(s.ctrl)
	s.sent = nil

	s.actor.EXPECT().Ctrl().Return(testRef("self")).AnyTimes()
	s.actor.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Do(func(dest Ref, env *Envelope) {
		s.sent = append(s.sent, sentEnvelope{dest: dest, env: env})
	}).AnyTimes()
	s.behavior.EXPECT().Role().Return("test").AnyTimes()
}

func (s *managerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *managerSuite) newManager() *Manager {
	return NewManager(s.actor, s.out, PriorityNormal, WithBehavior(s.behavior), WithLogger(log.NewTestLogger()))
}

func (s *managerSuite) responses() map[Ref]Response {
	res := make(map[Ref]Response)
	for _, sent := range s.sent {
		if r, ok := sent.env.Content.(Response); ok {
			s.NotContains(res, sent.dest, "response delivered twice")
			res[sent.dest] = r
		}
	}
	return res
}

func (s *managerSuite) sendHandshake(m *Manager, slot Slot, client Ref, id MessageID) {
	s.behavior.EXPECT().MakeHandshake(slot).Return(Handshake{ElementType: "int"}, nil)
	s.Require().NoError(m.SendHandshakeFor(testRef("next"), slot, client, nil, id))
}

func (s *managerSuite) TestSendHandshake() {
	m := s.newManager()
	before := testutil.ToFloat64(metrics.PendingHandshakes)

	s.sendHandshake(m, 7, testRef("client"), 42)

	s.Equal(1, m.PendingHandshakes())
	s.Equal(1, m.InFlightPromises())
	s.Equal(before+1, testutil.ToFloat64(metrics.PendingHandshakes))
	s.Require().Len(s.sent, 1)
	s.Equal(testRef("next"), s.sent[0].dest)
	s.Equal(testRef("client"), s.sent[0].env.Sender)
	s.Equal(MessageID(42), s.sent[0].env.ID)
	open, ok := s.sent[0].env.Content.(*OpenStream)
	s.Require().True(ok)
	s.Equal(&OpenStream{
		Slot:      7,
		Handshake: Handshake{ElementType: "int"},
		PrevStage: testRef("self"),
		Original:  testRef("next"),
		Priority:  PriorityNormal,
	}, open)
}

func (s *managerSuite) TestSendHandshakeFailureChangesNothing() {
	m := s.newManager()
	before := testutil.ToFloat64(metrics.PendingHandshakes)
	failure := errors.New("no handshake")
	s.behavior.EXPECT().MakeHandshake(Slot(7)).Return(nil, failure)

	s.ErrorIs(m.SendHandshakeFor(testRef("next"), 7, testRef("client"), nil, 1), failure)

	s.Equal(0, m.PendingHandshakes())
	s.Equal(0, m.InFlightPromises())
	s.Equal(before, testutil.ToFloat64(metrics.PendingHandshakes))
	s.Empty(s.sent)

	// no messages are generated for a path that was never offered
	s.out.EXPECT().Terminal().Return(false)
	s.behavior.EXPECT().MakeHandshake(Slot(8)).Return(nil, failure)
	s.ErrorIs(m.AddUnsafeOutboundPath(testRef("next"), 8, testRef("client"), nil, 2), failure)
	s.Equal(0, m.PendingHandshakes())
	s.Empty(s.sent)
}

func (s *managerSuite) TestAckOpenAfterStopKeepsGaugeBalanced() {
	m := s.newManager()
	before := testutil.ToFloat64(metrics.PendingHandshakes)
	s.sendHandshake(m, 7, nil, 0)
	s.Equal(before+1, testutil.ToFloat64(metrics.PendingHandshakes))

	s.out.EXPECT().Close()
	s.behavior.EXPECT().OutputClosed(gomock.Nil())
	s.behavior.EXPECT().Finalize(gomock.Nil())
	s.actor.EXPECT().EraseInboundPathsLater(m, gomock.Nil())
	m.Stop()
	s.Equal(0, m.PendingHandshakes())
	s.Equal(before, testutil.ToFloat64(metrics.PendingHandshakes))

	path := NewOutboundPath(Slots{Sender: 3, Receiver: 7}, testRef("next"))
	s.out.EXPECT().AddPath(Slots{Sender: 3, Receiver: 7}, testRef("next")).Return(path)
	s.behavior.EXPECT().DownstreamDemand(path, 4)
	s.out.EXPECT().EmitBatches()
	s.behavior.EXPECT().GenerateMessages().Return(false)
	s.True(m.HandleAckOpen(Slots{Sender: 7, Receiver: 3}, &AckOpen{RebindTo: testRef("next"), InitialDemand: 4, DesiredBatchSize: 2}))

	s.Equal(0, m.PendingHandshakes())
	s.Equal(0, m.InFlightPromises())
	s.Equal(before, testutil.ToFloat64(metrics.PendingHandshakes))
}

func (s *managerSuite) TestAckOpenMaterializesPath() {
	m := s.newManager()
	s.sendHandshake(m, 7, testRef("client"), 1)

	path := NewOutboundPath(Slots{Sender: 3, Receiver: 7}, testRef("next"))
	gomock.InOrder(
		s.out.EXPECT().AddPath(Slots{Sender: 3, Receiver: 7}, testRef("next")).Return(path),
		s.behavior.EXPECT().DownstreamDemand(path, 10),
		s.out.EXPECT().EmitBatches(),
		s.behavior.EXPECT().GenerateMessages().Return(false),
	)

	ok := m.HandleAckOpen(Slots{Sender: 7, Receiver: 3}, &AckOpen{
		RebindFrom:       testRef("next"),
		RebindTo:         testRef("next"),
		InitialDemand:    10,
		DesiredBatchSize: 2,
	})

	s.True(ok)
	s.Equal(10, path.OpenCredit)
	s.Equal(2, path.DesiredBatchSize)
	s.Equal(0, m.PendingHandshakes())
	s.Equal(0, m.InFlightPromises())
	// the handshake was acknowledged, nobody is told anything yet
	s.Empty(s.responses())
}

func (s *managerSuite) TestAckOpenRejectedLeavesStateUntouched() {
	m := s.newManager()
	s.sendHandshake(m, 7, nil, 0)
	s.out.EXPECT().AddPath(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	s.False(m.HandleAckOpen(Slots{Sender: 7, Receiver: 3}, &AckOpen{RebindTo: testRef("next"), InitialDemand: 10}))
	s.Equal(1, m.PendingHandshakes())
	s.Equal(1, m.InFlightPromises())

	err := m.HandleUpstream(&UpstreamMsg{Slots: Slots{Sender: 7, Receiver: 3}, Content: &AckOpen{}})
	s.ErrorIs(err, ErrInvalidStreamState)
}

func (s *managerSuite) TestAckBatchReplenishesCredit() {
	m := s.newManager()
	path := NewOutboundPath(Slots{Sender: 3, Receiver: 7}, testRef("next"))
	path.OpenCredit = 1
	path.NextBatchID = 5

	gomock.InOrder(
		s.out.EXPECT().Path(Slot(7)).Return(path),
		s.behavior.EXPECT().DownstreamDemand(path, 4),
		s.out.EXPECT().EmitBatches(),
		s.behavior.EXPECT().GenerateMessages().Return(false),
	)
	s.NoError(m.HandleUpstream(&UpstreamMsg{
		Slots:   Slots{Sender: 3, Receiver: 7},
		Content: &AckBatch{NewCapacity: 4, DesiredBatchSize: 3, AcknowledgedID: 4},
	}))

	s.Equal(5, path.OpenCredit)
	s.Equal(3, path.DesiredBatchSize)
	s.Equal(int64(5), path.NextAckID)
	s.True(path.Clean())
}

func (s *managerSuite) TestAckBatchForRemovedPathIgnored() {
	m := s.newManager()
	s.out.EXPECT().Path(Slot(7)).Return(nil)

	m.HandleAckBatch(Slots{Sender: 3, Receiver: 7}, &AckBatch{NewCapacity: 4})
	s.Equal(StateActive, m.State())
}

func (s *managerSuite) TestDropRemovesSilently() {
	m := s.newManager()
	s.out.EXPECT().RemovePath(Slot(7), gomock.Nil(), true).Return(true)

	s.NoError(m.HandleUpstream(&UpstreamMsg{Slots: Slots{Sender: 3, Receiver: 7}, Content: &Drop{}}))
	s.Equal(StateActive, m.State())
}

func (s *managerSuite) TestForcedDropAbortsOnlyWhenPathRemoved() {
	m := s.newManager()
	reason := errors.New("consumer failed")

	s.out.EXPECT().RemovePath(Slot(8), reason, true).Return(false)
	m.HandleForcedDrop(Slots{Sender: 3, Receiver: 8}, &ForcedDrop{Reason: reason})
	s.Equal(StateActive, m.State())

	gomock.InOrder(
		s.out.EXPECT().RemovePath(Slot(7), reason, true).Return(true),
		s.out.EXPECT().Abort(reason),
		s.behavior.EXPECT().OutputClosed(reason),
		s.behavior.EXPECT().Finalize(reason),
		s.actor.EXPECT().EraseInboundPathsLater(m, reason),
	)
	m.HandleForcedDrop(Slots{Sender: 3, Receiver: 7}, &ForcedDrop{Reason: reason})
	s.Equal(StateAborted, m.State())

	// a redundant drop for the same path has no effect
	s.out.EXPECT().RemovePath(Slot(7), reason, true).Return(false)
	m.HandleForcedDrop(Slots{Sender: 3, Receiver: 7}, &ForcedDrop{Reason: reason})
}

func (s *managerSuite) TestAbortDeliversToEveryOwedPromise() {
	m := s.newManager()
	reason := errors.New("network failure")
	s.out.EXPECT().Terminal().Return(true)
	s.NoError(m.AddPromise(NewResponsePromise(s.actor, testRef("result-client"), nil, 1)))
	s.sendHandshake(m, 7, testRef("handshake-client"), 2)
	s.sendHandshake(m, 9, nil, 0)
	aborts := testutil.ToFloat64(metrics.StreamAborts.WithLabelValues("test"))

	s.out.EXPECT().Abort(reason).Times(1)
	s.behavior.EXPECT().OutputClosed(reason).Times(1)
	s.behavior.EXPECT().Finalize(reason).Times(1)
	s.actor.EXPECT().EraseInboundPathsLater(m, reason).Times(1)

	m.Abort(reason)
	m.Abort(reason)

	s.Equal(StateAborted, m.State())
	s.Equal(0, m.InFlightPromises())
	s.Equal(0, m.Promises())
	s.Equal(aborts+1, testutil.ToFloat64(metrics.StreamAborts.WithLabelValues("test")))
	res := s.responses()
	s.Len(res, 2)
	for _, client := range []Ref{testRef("result-client"), testRef("handshake-client")} {
		s.Require().Contains(res, client)
		s.EqualError(res[client].Err, "network failure")
		s.Nil(res[client].Value)
	}
}

func (s *managerSuite) TestStopWithoutPromises() {
	m := s.newManager()
	gomock.InOrder(
		s.out.EXPECT().Close(),
		s.behavior.EXPECT().OutputClosed(gomock.Nil()),
		s.behavior.EXPECT().Finalize(gomock.Nil()),
		s.actor.EXPECT().EraseInboundPathsLater(m, gomock.Nil()),
	)

	m.Stop()

	s.Equal(StateStopped, m.State())
	s.Empty(s.sent)

	// stopping or aborting a finished manager does nothing
	m.Stop()
	m.Abort(errors.New("late"))
	s.Equal(StateStopped, m.State())
}

func (s *managerSuite) TestStopDeliversFinalResult() {
	m := s.newManager()
	s.out.EXPECT().Terminal().Return(true)
	s.NoError(m.AddPromise(NewResponsePromise(s.actor, testRef("client"), nil, 11)))

	s.out.EXPECT().Close()
	s.behavior.EXPECT().OutputClosed(gomock.Nil())
	s.behavior.EXPECT().Finalize(gomock.Nil())
	s.actor.EXPECT().EraseInboundPathsLater(m, gomock.Nil())
	s.behavior.EXPECT().MakeFinalResult().Return(42)

	m.Stop()

	s.Require().Len(s.sent, 1)
	s.Equal(testRef("client"), s.sent[0].dest)
	s.Equal(testRef("self"), s.sent[0].env.Sender)
	s.Equal(MessageID(11), s.sent[0].env.ID)
	s.Equal(Response{Value: 42}, s.sent[0].env.Content)
	s.Equal(0, m.Promises())
}

func (s *managerSuite) TestDeliverPromisesTwiceIsNoop() {
	m := s.newManager()
	s.out.EXPECT().Terminal().Return(true)
	s.NoError(m.AddPromise(NewResponsePromise(s.actor, testRef("client"), nil, 1)))

	m.DeliverPromises(Response{Value: "done"})
	m.DeliverPromises(Response{Value: "again"})

	s.Len(s.sent, 1)
	s.Equal(Response{Value: "done"}, s.sent[0].env.Content)
}

func (s *managerSuite) TestAddPromiseRequiresTerminal() {
	m := s.newManager()
	s.out.EXPECT().Terminal().Return(false)

	err := m.AddPromise(NewResponsePromise(s.actor, testRef("client"), nil, 1))
	s.ErrorIs(err, ErrInvalidStreamState)
	s.Equal(0, m.Promises())
}

func (s *managerSuite) TestAddOutboundPath() {
	m := s.newManager()
	s.out.EXPECT().Terminal().Return(false).Times(2)
	s.actor.EXPECT().AssignNextPendingSlotTo(m).Return(Slot(4))
	s.behavior.EXPECT().MakeHandshake(Slot(4)).Return(Handshake{}, nil)
	s.behavior.EXPECT().GenerateMessages().Return(true)

	slot, err := m.AddOutboundPath(testRef("next"))
	s.NoError(err)
	s.Equal(Slot(4), slot)
	s.Equal(1, m.PendingHandshakes())

	s.out.EXPECT().Terminal().Return(true).Times(2)
	_, err = m.AddOutboundPath(testRef("next"))
	s.ErrorIs(err, ErrTerminalOutput)
	s.ErrorIs(m.AddUnsafeOutboundPath(testRef("next"), 5, nil, nil, 0), ErrTerminalOutput)
	s.Equal(1, m.PendingHandshakes())
}

func (s *managerSuite) TestPushRunsUntilNothingIsGenerated() {
	m := s.newManager()
	gomock.InOrder(
		s.out.EXPECT().EmitBatches(),
		s.behavior.EXPECT().GenerateMessages().Return(true),
		s.out.EXPECT().EmitBatches(),
		s.behavior.EXPECT().GenerateMessages().Return(true),
		s.out.EXPECT().EmitBatches(),
		s.behavior.EXPECT().GenerateMessages().Return(false),
	)
	m.Push()
}

func (s *managerSuite) TestHandleBatch() {
	m := s.newManager()
	path := NewInboundPath(Slots{Sender: 2, Receiver: 5}, m, testRef("upstream"), PriorityNormal)
	batch := &Batch{Size: 1, Xs: []int{1}, ID: 1}

	gomock.InOrder(
		s.behavior.EXPECT().ProcessBatch(batch).Return(nil),
		s.out.EXPECT().EmitBatches(),
		s.behavior.EXPECT().GenerateMessages().Return(false),
	)
	s.NoError(m.HandleBatch(path, batch))

	failure := errors.New("bad element")
	s.behavior.EXPECT().ProcessBatch(batch).Return(failure)
	s.ErrorIs(m.HandleBatch(path, batch), failure)
}

func (s *managerSuite) TestForcedCloseAborts() {
	m := s.newManager()
	path := NewInboundPath(Slots{Sender: 2, Receiver: 5}, m, testRef("upstream"), PriorityNormal)
	reason := errors.New("producer failed")

	s.out.EXPECT().Abort(reason)
	s.behavior.EXPECT().OutputClosed(reason)
	s.behavior.EXPECT().Finalize(reason)
	s.actor.EXPECT().EraseInboundPathsLater(m, reason)

	m.HandleForcedClose(path, &ForcedClose{Reason: reason})
	s.Equal(StateAborted, m.State())
}

func (s *managerSuite) TestInputPaths() {
	m := s.newManager()
	m.RegisterInputPath(3)
	m.RegisterInputPath(5)
	m.RegisterInputPath(9)
	m.DeregisterInputPath(3)
	m.DeregisterInputPath(4)
	s.ElementsMatch([]Slot{5, 9}, m.InboundPaths())

	reason := errors.New("gone")
	s.actor.EXPECT().EraseInboundPathLater(Slot(5), gomock.Nil())
	s.actor.EXPECT().EraseInboundPathLater(Slot(9), reason)
	m.RemoveInputPath(5, reason, true)
	m.RemoveInputPath(9, reason, false)
}

func (s *managerSuite) TestUnexpectedUpstreamMessage() {
	m := s.newManager()
	err := m.HandleUpstream(&UpstreamMsg{Content: &Batch{}})
	s.ErrorIs(err, ErrInvalidStreamState)
}

func (s *managerSuite) TestBaseManagerRejectsDataPlane() {
	m := NewManager(s.actor, s.out, PriorityHigh, WithLogger(log.NewTestLogger()))
	s.Equal("base", m.Behavior().Role())

	_, err := m.Behavior().MakeHandshake(1)
	s.ErrorIs(err, ErrInvalidStreamState)

	path := NewInboundPath(Slots{Sender: 2, Receiver: 5}, m, testRef("upstream"), PriorityHigh)
	s.ErrorIs(m.HandleBatch(path, &Batch{Size: 1, Xs: []int{1}, ID: 1}), ErrInvalidStreamState)
	s.False(m.Congested())
	s.False(m.GenerateMessages())
}
