package actor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally/v4"
	"go.temporal.io/server/common/log"

	"github.com/temporalio/s2s-streams/config"
	"github.com/temporalio/s2s-streams/logging"
	"github.com/temporalio/s2s-streams/stream"
)

func TestFormatDurationSeconds(t *testing.T) {
	cases := map[int]string{
		0:    "0s",
		59:   "59s",
		60:   "1m",
		61:   "1m1s",
		3600: "1h",
		3660: "1h1m",
		3601: "1h1s",
		3661: "1h1m1s",
	}
	for seconds, want := range cases {
		assert.Equal(t, want, formatDurationSeconds(seconds), "seconds=%d", seconds)
	}
}

func TestStreamTracker(t *testing.T) {
	system := NewSystem(config.NewMockConfigProvider(config.StreamsConfig{}), logging.NewTestLoggerProvider(), tally.NoopScope)
	defer system.Stop()
	a, err := system.Spawn("tracked", Props{})
	require.NoError(t, err)

	st := NewStreamTracker()
	m := stream.NewSink[int, int](a, 0, func(acc, x int) (int, error) { return acc + x, nil },
		stream.PriorityHigh, log.NewTestLogger())
	st.RegisterStream("tracked/sink-1", "tracked", m)
	st.RegisterStream("tracked/sink-0", "tracked", m)

	m.RegisterInputPath(3)
	st.UpdateStream("tracked/sink-1", m)
	st.UpdateStream("unknown", m)

	streams := st.GetActiveStreams()
	require.Len(t, streams, 2)
	assert.Equal(t, "tracked/sink-0", streams[0].ID)
	assert.Equal(t, 0, streams[0].InboundPaths)
	assert.Equal(t, StreamInfo{
		ID:            "tracked/sink-1",
		Actor:         "tracked",
		Role:          "sink",
		Priority:      "high",
		State:         "active",
		InboundPaths:  1,
		StartTime:     streams[1].StartTime,
		LastSeen:      streams[1].LastSeen,
		TotalDuration: "0s",
		IdleDuration:  "0s",
	}, streams[1])

	st.UnregisterStream("tracked/sink-0")
	assert.Equal(t, 1, st.GetStreamCount())
}
