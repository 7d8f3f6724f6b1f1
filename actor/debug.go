package actor

import (
	"encoding/json"
	"net/http"
	"time"

	"go.temporal.io/server/common/log"
	"go.temporal.io/server/common/log/tag"
)

type DebugResponse struct {
	Timestamp     time.Time    `json:"timestamp"`
	ActiveStreams []StreamInfo `json:"active_streams"`
	StreamCount   int          `json:"stream_count"`
	Actors        []ActorInfo  `json:"actors"`
}

// HandleDebugInfo serves a JSON snapshot of the system's actors and live streams.
func HandleDebugInfo(w http.ResponseWriter, _ *http.Request, system *System, logger log.Logger) {
	w.Header().Set("Content-Type", "application/json")

	response := DebugResponse{
		Timestamp:     time.Now(),
		ActiveStreams: system.Tracker().GetActiveStreams(),
		StreamCount:   system.Tracker().GetStreamCount(),
		Actors:        system.Actors(),
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error("Failed to encode debug response", tag.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// NewDebugHandler serves HandleDebugInfo for system.
func NewDebugHandler(system *System, logger log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		HandleDebugInfo(w, r, system, logger)
	}
}
