package pkg

// Core types shared by the conversation pipeline

// PersonalityTrait is a single named trait of a character
type PersonalityTrait struct {
	Trait       string `json:"trait"`
	Description string `json:"description"`
}

// CharacterProfile holds the static personality data and canned phrases of the agent.
// It is created once at startup and never modified afterwards.
type CharacterProfile struct {
	Name              string             `json:"name"`
	Description       string             `json:"description"`
	PersonalityTraits []PersonalityTrait `json:"personality_traits"`
	Greeting          string             `json:"greeting"`
	Farewell          string             `json:"farewell"`
	DefaultResponse   string             `json:"default_response"`
	KnowledgeDomain   []string           `json:"knowledge_domain"`
	AgileReminders    []string           `json:"agile_reminders"`
}

// CharacterSource is the loosely shaped character configuration as read from disk.
// A nil field means the key was absent and the built-in default applies.
type CharacterSource struct {
	Name              *string            `json:"name,omitempty"`
	Description       *string            `json:"description,omitempty"`
	PersonalityTraits []PersonalityTrait `json:"personality_traits,omitempty"`
	Greeting          *string            `json:"greeting,omitempty"`
	Farewell          *string            `json:"farewell,omitempty"`
	DefaultResponse   *string            `json:"default_response,omitempty"`
	KnowledgeDomain   []string           `json:"knowledge_domain,omitempty"`
	AgileReminders    []string           `json:"agile_reminders,omitempty"`
}

// MemoryTurn is one persisted user/agent exchange
type MemoryTurn struct {
	Timestamp string `json:"timestamp"` // ISO-8601, generation time
	Content   string `json:"content"`   // "User: <input>\n<name>: <reply>"
}

// ContextBundle is the per-turn input of the reasoning service
type ContextBundle struct {
	Name               string `json:"name"`
	PersonalitySummary string `json:"personality_summary"`
	RecentMemoryText   string `json:"recent_memory_text"`
	UserInput          string `json:"user_input"`
}
