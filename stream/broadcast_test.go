package stream

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/server/common/log"
)

// fakeActor records everything a manager or scatterer sends.
type fakeActor struct {
	sent     []sentEnvelope
	nextSlot Slot
	erased   []error
}

func (a *fakeActor) Ctrl() Ref { return testRef("self") }

func (a *fakeActor) Enqueue(dest Ref, env *Envelope) {
	a.sent = append(a.sent, sentEnvelope{dest: dest, env: env})
}

func (a *fakeActor) EraseInboundPathsLater(_ *Manager, reason error) {
	a.erased = append(a.erased, reason)
}

func (a *fakeActor) EraseInboundPathLater(_ Slot, reason error) {
	a.erased = append(a.erased, reason)
}

func (a *fakeActor) AssignNextSlotTo(*Manager) Slot {
	a.nextSlot++
	return a.nextSlot
}

func (a *fakeActor) AssignNextPendingSlotTo(m *Manager) Slot {
	return a.AssignNextSlotTo(m)
}

func (a *fakeActor) downstream() []*DownstreamMsg {
	var msgs []*DownstreamMsg
	for _, sent := range a.sent {
		if msg, ok := sent.env.Content.(*DownstreamMsg); ok {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}

func (a *fakeActor) batches() [][]int {
	var res [][]int
	for _, msg := range a.downstream() {
		if b, ok := msg.Content.(*Batch); ok {
			res = append(res, b.Xs.([]int))
		}
	}
	return res
}

func newTestBroadcast(self Actor, maxBuffer int) *BroadcastScatterer[int] {
	return NewBroadcastScatterer[int](self, maxBuffer, log.NewTestLogger())
}

func TestBroadcastBuffersUntilFirstPath(t *testing.T) {
	self := &fakeActor{}
	out := newTestBroadcast(self, 10)

	out.Push(1, 2, 3)
	out.EmitBatches()
	assert.Equal(t, 3, out.Buffered())
	assert.Equal(t, 7, out.Capacity())
	assert.False(t, out.Clean())
	assert.Empty(t, self.sent)

	path := out.AddPath(Slots{Sender: 4, Receiver: 1}, testRef("next"))
	require.NotNil(t, path)
	path.OpenCredit = 10
	path.DesiredBatchSize = 2
	out.EmitBatches()

	assert.Equal(t, [][]int{{1, 2}, {3}}, self.batches())
	assert.Equal(t, 7, path.OpenCredit)
	assert.Equal(t, int64(3), path.NextBatchID)
	assert.Equal(t, 10, out.Capacity())
	assert.False(t, out.Clean(), "batches not acknowledged yet")

	msgs := self.downstream()
	assert.Equal(t, Slots{Sender: 1, Receiver: 4}, msgs[0].Slots)
	assert.Equal(t, testRef("next"), self.sent[0].dest)

	path.NextAckID = 3
	assert.True(t, out.Clean())
}

func TestBroadcastRespectsCredit(t *testing.T) {
	self := &fakeActor{}
	out := newTestBroadcast(self, 10)
	fast := out.AddPath(Slots{Sender: 4, Receiver: 1}, testRef("fast"))
	slow := out.AddPath(Slots{Sender: 5, Receiver: 2}, testRef("slow"))
	fast.OpenCredit, fast.DesiredBatchSize = 10, 5
	slow.OpenCredit, slow.DesiredBatchSize = 1, 5

	out.Push(1, 2, 3, 4)
	out.EmitBatches()

	assert.Equal(t, [][]int{{1, 2, 3, 4}, {1}}, self.batches())
	assert.Equal(t, 0, slow.OpenCredit)
	// the slow path still holds three elements
	assert.Equal(t, 7, out.Capacity())

	slow.OpenCredit = 2
	out.EmitBatches()
	assert.Equal(t, [][]int{{1, 2, 3, 4}, {1}, {2, 3}}, self.batches())
	assert.Equal(t, 9, out.Capacity())
}

func TestBroadcastRejectsDuplicatePaths(t *testing.T) {
	out := newTestBroadcast(&fakeActor{}, 10)
	require.NotNil(t, out.AddPath(Slots{Sender: 4, Receiver: 1}, testRef("next")))
	assert.Nil(t, out.AddPath(Slots{Sender: 9, Receiver: 1}, testRef("other")))
	assert.NotNil(t, out.Path(1))
	assert.Nil(t, out.Path(4))
	assert.Equal(t, 1, out.NumPaths())
}

func TestBroadcastCloseDrainsBeforeClosing(t *testing.T) {
	self := &fakeActor{}
	out := newTestBroadcast(self, 10)
	path := out.AddPath(Slots{Sender: 4, Receiver: 1}, testRef("next"))
	path.DesiredBatchSize = 10
	out.Push(1, 2)

	out.Close()
	assert.Equal(t, 1, out.NumPaths(), "path still owes two elements")
	assert.Nil(t, out.AddPath(Slots{Sender: 5, Receiver: 2}, testRef("late")))

	path.OpenCredit = 5
	out.EmitBatches()
	assert.Equal(t, 0, out.NumPaths())
	msgs := self.downstream()
	require.Len(t, msgs, 2)
	assert.Equal(t, &Batch{Size: 2, Xs: []int{1, 2}, ID: 1}, msgs[0].Content)
	assert.Equal(t, &Close{}, msgs[1].Content)
}

func TestBroadcastAbort(t *testing.T) {
	self := &fakeActor{}
	out := newTestBroadcast(self, 10)
	out.AddPath(Slots{Sender: 4, Receiver: 1}, testRef("a"))
	out.AddPath(Slots{Sender: 5, Receiver: 2}, testRef("b"))
	out.Push(1, 2, 3)
	reason := errors.New("boom")

	out.Abort(reason)

	assert.Equal(t, 0, out.NumPaths())
	assert.Equal(t, 0, out.Buffered())
	msgs := self.downstream()
	require.Len(t, msgs, 2)
	for _, msg := range msgs {
		assert.Equal(t, &ForcedClose{Reason: reason}, msg.Content)
	}
}

func TestBroadcastRemovePath(t *testing.T) {
	self := &fakeActor{}
	out := newTestBroadcast(self, 10)
	out.AddPath(Slots{Sender: 4, Receiver: 1}, testRef("a"))
	out.AddPath(Slots{Sender: 5, Receiver: 2}, testRef("b"))
	out.AddPath(Slots{Sender: 6, Receiver: 3}, testRef("c"))

	assert.True(t, out.RemovePath(1, nil, true))
	assert.True(t, out.RemovePath(2, nil, false))
	assert.True(t, out.RemovePath(3, errors.New("bad"), false))
	assert.False(t, out.RemovePath(3, nil, false))

	msgs := self.downstream()
	require.Len(t, msgs, 2)
	assert.Equal(t, &Close{}, msgs[0].Content)
	assert.IsType(t, &ForcedClose{}, msgs[1].Content)
	assert.Equal(t, 0, out.NumPaths())
}

func TestTerminalScatterer(t *testing.T) {
	out := NewTerminalScatterer(log.NewTestLogger())
	assert.True(t, out.Terminal())
	assert.Nil(t, out.AddPath(Slots{Sender: 1, Receiver: 2}, testRef("next")))
	assert.False(t, out.RemovePath(2, nil, false))
	assert.True(t, out.Clean())
	assert.Equal(t, 0, out.NumPaths())
}

func TestAckOpenThroughBroadcast(t *testing.T) {
	self := &fakeActor{}
	out := newTestBroadcast(self, 10)
	m := NewManager(self, out, PriorityNormal, WithLogger(log.NewTestLogger()),
		WithBehavior(&Source[int]{out: out, pull: SliceSource([]int{1, 2, 3}), logger: log.NewTestLogger()}))

	require.NoError(t, m.SendHandshake(testRef("next"), 7))
	require.True(t, m.HandleAckOpen(Slots{Sender: 7, Receiver: 3}, &AckOpen{
		RebindTo:         testRef("next"),
		InitialDemand:    10,
		DesiredBatchSize: 2,
	}))

	path := out.Path(7)
	require.NotNil(t, path)
	assert.Equal(t, Slots{Sender: 3, Receiver: 7}, path.Slots)
	assert.Equal(t, 7, path.OpenCredit)
	assert.Equal(t, 0, m.PendingHandshakes())
	assert.Equal(t, 0, m.InFlightPromises())
	assert.Equal(t, [][]int{{1, 2}, {3}}, self.batches())
}
