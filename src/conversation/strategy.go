package conversation

import (
	"strings"

	"github.com/mdhdoan/VIVI/pkg"
)

// DefaultMaxTurns is how many past turns are shown to the reasoning service
const DefaultMaxTurns = 5

type ContextStrategy interface {
	BuildContext(turns []pkg.MemoryTurn) string
	GetMaxTurns() int
}

// RecentTurnsStrategy renders the last N turns as "{timestamp}: {content}" lines, oldest first
type RecentTurnsStrategy struct {
	maxTurns int
}

func NewRecentTurnsStrategy() *RecentTurnsStrategy {
	return &RecentTurnsStrategy{maxTurns: DefaultMaxTurns}
}

func (s *RecentTurnsStrategy) GetMaxTurns() int {
	return s.maxTurns
}

func (s *RecentTurnsStrategy) BuildContext(turns []pkg.MemoryTurn) string {
	recent := trimTail(turns, s.maxTurns)

	lines := make([]string, 0, len(recent))
	for _, turn := range recent {
		lines = append(lines, turn.Timestamp+": "+turn.Content)
	}

	return strings.Join(lines, "\n")
}

// Helper function
func trimTail[T any](items []T, maxTurns int) []T {
	if maxTurns <= 0 {
		return items[:0]
	}
	if len(items) <= maxTurns {
		return items
	}
	return items[len(items)-maxTurns:]
}
