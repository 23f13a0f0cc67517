package conversation

import (
	"time"

	"github.com/mdhdoan/VIVI/pkg"
)

// TimestampLayout is the ISO-8601 layout of MemoryTurn.Timestamp
const TimestampLayout = "2006-01-02T15:04:05.000000-07:00"

// MemoryLog is the ordered, append-only record of completed turns.
// It has a single owner and is not safe for concurrent use.
type MemoryLog struct {
	turns []pkg.MemoryTurn
}

// NewMemoryLog creates a log holding a copy of turns
func NewMemoryLog(turns []pkg.MemoryTurn) *MemoryLog {
	return &MemoryLog{turns: append([]pkg.MemoryTurn{}, turns...)}
}

func (m *MemoryLog) Append(turn pkg.MemoryTurn) {
	m.turns = append(m.turns, turn)
}

// Recent returns at most the last n turns, oldest first
func (m *MemoryLog) Recent(n int) []pkg.MemoryTurn {
	return append([]pkg.MemoryTurn{}, trimTail(m.turns, n)...)
}

// Turns returns a copy of the whole log
func (m *MemoryLog) Turns() []pkg.MemoryTurn {
	return append([]pkg.MemoryTurn{}, m.turns...)
}

func (m *MemoryLog) Len() int {
	return len(m.turns)
}

// NewTurn encodes one exchange as a memory entry
func NewTurn(at time.Time, userInput, name, reply string) pkg.MemoryTurn {
	return pkg.MemoryTurn{
		Timestamp: at.Format(TimestampLayout),
		Content:   "User: " + userInput + "\n" + name + ": " + reply,
	}
}
