package llm

import (
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/mdhdoan/VIVI/pkg"
)

func getPersonaTemplate() string {
	return `You are {name}, a friendly AI assistant with the following personality traits:
{personality}

Your recent memories include:
{memory}

User: {user_input}
AI:`
}

// createPersonaTemplate builds the single-message chat template filled from a context bundle
func createPersonaTemplate() prompt.ChatTemplate {
	return prompt.FromMessages(schema.FString,
		schema.UserMessage(getPersonaTemplate()),
	)
}

// templateVariables maps a context bundle onto the template placeholders
func templateVariables(bundle pkg.ContextBundle) map[string]any {
	return map[string]any{
		"name":        bundle.Name,
		"personality": bundle.PersonalitySummary,
		"memory":      bundle.RecentMemoryText,
		"user_input":  bundle.UserInput,
	}
}
