package pkg

import (
	"math/rand/v2"
	"strings"
)

// Built-in character defaults, used for every key missing from the source
const (
	DefaultCharacterName    = "VIVI"
	DefaultGreeting         = "Hello! I'm VIVI."
	DefaultFarewell         = "Bye for now!"
	DefaultFallbackResponse = "Hmm, interesting question..."
)

// NewCharacterProfile builds a profile from a possibly empty or partial source.
// It never fails.
func NewCharacterProfile(src CharacterSource) *CharacterProfile {
	profile := &CharacterProfile{
		Name:              stringOr(src.Name, DefaultCharacterName),
		Description:       stringOr(src.Description, ""),
		PersonalityTraits: src.PersonalityTraits,
		Greeting:          stringOr(src.Greeting, DefaultGreeting),
		Farewell:          stringOr(src.Farewell, DefaultFarewell),
		DefaultResponse:   stringOr(src.DefaultResponse, DefaultFallbackResponse),
		KnowledgeDomain:   src.KnowledgeDomain,
		AgileReminders:    src.AgileReminders,
	}

	if profile.PersonalityTraits == nil {
		profile.PersonalityTraits = []PersonalityTrait{}
	}
	if profile.KnowledgeDomain == nil {
		profile.KnowledgeDomain = []string{}
	}
	if profile.AgileReminders == nil {
		profile.AgileReminders = []string{}
	}

	return profile
}

// DefaultCharacterProfile returns a profile made only of built-in defaults
func DefaultCharacterProfile() *CharacterProfile {
	return NewCharacterProfile(CharacterSource{})
}

// PersonalitySummary joins every "trait: description" pair with "; ", in order
func (c *CharacterProfile) PersonalitySummary() string {
	parts := make([]string, 0, len(c.PersonalityTraits))
	for _, t := range c.PersonalityTraits {
		parts = append(parts, t.Trait+": "+t.Description)
	}
	return strings.Join(parts, "; ")
}

// Intro returns the line printed when the conversation starts
func (c *CharacterProfile) Intro() string {
	return c.Greeting
}

// Outro returns the line printed when the user ends the conversation
func (c *CharacterProfile) Outro() string {
	return c.Farewell
}

// RandomReminder picks one agile reminder, or "" when there are none
func (c *CharacterProfile) RandomReminder() string {
	if len(c.AgileReminders) == 0 {
		return ""
	}
	return c.AgileReminders[rand.IntN(len(c.AgileReminders))]
}

func stringOr(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}
