package stream

import (
	"math"

	"go.temporal.io/server/common/log"
)

// TerminalScatterer is the outbound side of a sink: the stream ends here, so it never has paths.
type TerminalScatterer struct {
	logger log.Logger
}

func NewTerminalScatterer(logger log.Logger) *TerminalScatterer {
	return &TerminalScatterer{logger: logger}
}

func (s *TerminalScatterer) AddPath(slots Slots, _ Ref) *OutboundPath {
	s.logger.Warn("refusing outbound path on a terminal scatterer", SlotsTag(slots))
	return nil
}

func (*TerminalScatterer) Path(Slot) *OutboundPath { return nil }
func (*TerminalScatterer) RemovePath(Slot, error, bool) bool { return false }
func (*TerminalScatterer) Close() {}
func (*TerminalScatterer) Abort(error) {}
func (*TerminalScatterer) Terminal() bool { return true }
func (*TerminalScatterer) EmitBatches() {}
func (*TerminalScatterer) Capacity() int { return math.MaxInt32 }
func (*TerminalScatterer) Clean() bool { return true }
func (*TerminalScatterer) NumPaths() int { return 0 }
