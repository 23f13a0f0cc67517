package conversation

import (
	"github.com/mdhdoan/VIVI/pkg"
)

// ContextBuilder derives the per-turn context bundle from the profile and memory.
// It has no side effects.
type ContextBuilder struct {
	strategy ContextStrategy
}

func NewContextBuilder(strategy ContextStrategy) *ContextBuilder {
	if strategy == nil {
		strategy = NewRecentTurnsStrategy()
	}
	return &ContextBuilder{strategy: strategy}
}

// Build assembles the bundle; the new user input is not part of memory yet
func (b *ContextBuilder) Build(profile *pkg.CharacterProfile, memory *MemoryLog, userInput string) pkg.ContextBundle {
	var turns []pkg.MemoryTurn
	if memory != nil {
		turns = memory.Recent(b.strategy.GetMaxTurns())
	}

	return pkg.ContextBundle{
		Name:               profile.Name,
		PersonalitySummary: profile.PersonalitySummary(),
		RecentMemoryText:   b.strategy.BuildContext(turns),
		UserInput:          userInput,
	}
}
