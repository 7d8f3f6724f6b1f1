package actor

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/temporalio/s2s-streams/stream"
)

// StreamInfo is a snapshot of one stream manager, taken on its actor's goroutine.
type StreamInfo struct {
	ID                string    `json:"id"`
	Actor             string    `json:"actor"`
	Role              string    `json:"role"`
	Priority          string    `json:"priority"`
	State             string    `json:"state"`
	InboundPaths      int       `json:"inbound_paths"`
	OutboundPaths     int       `json:"outbound_paths"`
	PendingHandshakes int       `json:"pending_handshakes"`
	Promises          int       `json:"promises"`
	StartTime         time.Time `json:"start_time"`
	LastSeen          time.Time `json:"last_seen"`
	TotalDuration     string    `json:"total_duration"`
	IdleDuration      string    `json:"idle_duration"`
}

// StreamTracker tracks live stream managers across all actors of a system for debugging
type StreamTracker struct {
	mu      sync.RWMutex
	streams map[string]*StreamInfo
}

func NewStreamTracker() *StreamTracker {
	return &StreamTracker{
		streams: make(map[string]*StreamInfo),
	}
}

// RegisterStream adds a new live manager
func (st *StreamTracker) RegisterStream(id, actor string, m *stream.Manager) {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := time.Now()
	info := &StreamInfo{
		ID:        id,
		Actor:     actor,
		Role:      m.Behavior().Role(),
		Priority:  m.Priority().String(),
		StartTime: now,
		LastSeen:  now,
	}
	fillStreamInfo(info, m)
	st.streams[id] = info
}

// UpdateStream refreshes the snapshot of a manager. Must be called on the manager's actor goroutine.
func (st *StreamTracker) UpdateStream(id string, m *stream.Manager) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if info, exists := st.streams[id]; exists {
		info.LastSeen = time.Now()
		fillStreamInfo(info, m)
	}
}

func (st *StreamTracker) UnregisterStream(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()

	delete(st.streams, id)
}

// GetActiveStreams returns a copy of all live streams ordered by ID
func (st *StreamTracker) GetActiveStreams() []StreamInfo {
	st.mu.RLock()
	defer st.mu.RUnlock()

	now := time.Now()
	streams := make([]StreamInfo, 0, len(st.streams))
	for _, info := range st.streams {
		infoCopy := *info
		infoCopy.TotalDuration = formatDurationSeconds(int(now.Sub(info.StartTime).Seconds()))
		infoCopy.IdleDuration = formatDurationSeconds(int(now.Sub(info.LastSeen).Seconds()))
		streams = append(streams, infoCopy)
	}
	slices.SortFunc(streams, func(a, b StreamInfo) int {
		return strings.Compare(a.ID, b.ID)
	})
	return streams
}

func (st *StreamTracker) GetStreamCount() int {
	st.mu.RLock()
	defer st.mu.RUnlock()

	return len(st.streams)
}

func fillStreamInfo(info *StreamInfo, m *stream.Manager) {
	info.State = m.State().String()
	info.InboundPaths = m.NumInboundPaths()
	info.OutboundPaths = m.Out().NumPaths()
	info.PendingHandshakes = m.PendingHandshakes()
	info.Promises = m.Promises()
}

// formatDurationSeconds formats a duration in seconds to a readable string
func formatDurationSeconds(totalSeconds int) string {
	if totalSeconds < 60 {
		return fmt.Sprintf("%ds", totalSeconds)
	}

	minutes := totalSeconds / 60
	seconds := totalSeconds % 60
	if minutes < 60 {
		if seconds == 0 {
			return fmt.Sprintf("%dm", minutes)
		}
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	}

	hours := minutes / 60
	minutes = minutes % 60
	switch {
	case minutes == 0 && seconds == 0:
		return fmt.Sprintf("%dh", hours)
	case seconds == 0:
		return fmt.Sprintf("%dh%dm", hours, minutes)
	case minutes == 0:
		return fmt.Sprintf("%dh%ds", hours, seconds)
	default:
		return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
	}
}
