package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/ollama/ollama/api"

	appmodel "github.com/mdhdoan/VIVI/src/model"
)

// Supported reasoning providers
const (
	ProviderOllama   = "ollama"
	ProviderOpenAI   = "openai"
	ProviderDeepSeek = "deepseek"
	ProviderArk      = "ark"
)

// NewChatModel creates the chat model selected by config.Provider
func NewChatModel(ctx context.Context, config appmodel.LLMConfig) (model.BaseChatModel, error) {
	temperature := float32(config.Temperature)

	switch strings.ToLower(config.Provider) {
	case "", ProviderOllama:
		options := &api.Options{Temperature: temperature}
		if config.MaxTokens > 0 {
			options.NumPredict = config.MaxTokens
		}
		chatModel, err := ollama.NewChatModel(ctx, &ollama.ChatModelConfig{
			BaseURL: config.BaseURL,
			Model:   config.Model,
			Timeout: config.Timeout,
			Options: options,
		})
		if err != nil {
			return nil, fmt.Errorf("error creating ollama chat model: %w", err)
		}
		return chatModel, nil

	case ProviderOpenAI:
		modelConfig := &openai.ChatModelConfig{
			APIKey:      config.APIKey,
			BaseURL:     config.BaseURL,
			Model:       config.Model,
			Timeout:     config.Timeout,
			Temperature: &temperature,
		}
		if config.MaxTokens > 0 {
			maxTokens := config.MaxTokens
			modelConfig.MaxTokens = &maxTokens
		}
		chatModel, err := openai.NewChatModel(ctx, modelConfig)
		if err != nil {
			return nil, fmt.Errorf("error creating openai chat model: %w", err)
		}
		return chatModel, nil

	case ProviderDeepSeek:
		chatModel, err := deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
			APIKey:      config.APIKey,
			BaseURL:     config.BaseURL,
			Model:       config.Model,
			Timeout:     config.Timeout,
			MaxTokens:   config.MaxTokens,
			Temperature: temperature,
		})
		if err != nil {
			return nil, fmt.Errorf("error creating deepseek chat model: %w", err)
		}
		return chatModel, nil

	case ProviderArk:
		modelConfig := &ark.ChatModelConfig{
			APIKey:      config.APIKey,
			BaseURL:     config.BaseURL,
			Model:       config.Model,
			Temperature: &temperature,
		}
		if config.Timeout > 0 {
			timeout := config.Timeout
			modelConfig.Timeout = &timeout
		}
		if config.MaxTokens > 0 {
			maxTokens := config.MaxTokens
			modelConfig.MaxTokens = &maxTokens
		}
		chatModel, err := ark.NewChatModel(ctx, modelConfig)
		if err != nil {
			return nil, fmt.Errorf("error creating ark chat model: %w", err)
		}
		return chatModel, nil

	default:
		return nil, fmt.Errorf("unknown llm provider %q", config.Provider)
	}
}
