package stream

import (
	"fmt"
	"strings"

	"go.temporal.io/server/common/log/tag"

	"github.com/temporalio/s2s-streams/collect"
)

// Priority is a scheduling hint attached to a stream when it is opened.
type Priority int

const (
	PriorityNormal Priority = iota
	PriorityHigh
)

var priorityNames = collect.MustStaticBiMap(map[Priority]string{
	PriorityNormal: "normal",
	PriorityHigh:   "high",
})

// ParsePriority accepts the names used in configuration files. An empty name means PriorityNormal.
func ParsePriority(name string) (Priority, error) {
	if name == "" {
		return PriorityNormal, nil
	}
	prio, ok := priorityNames.Inverse().GetExists(strings.ToLower(name))
	if !ok {
		return PriorityNormal, fmt.Errorf("unknown stream priority %q", name)
	}
	return prio, nil
}

func (p Priority) String() string {
	if name, ok := priorityNames.GetExists(p); ok {
		return name
	}
	return fmt.Sprintf("priority(%d)", int(p))
}

func PriorityTag(p Priority) tag.ZapTag {
	return tag.NewStringTag("priority", p.String())
}
