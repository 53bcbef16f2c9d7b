package models

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/adk/model"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/genai"
)

// Supported provider names.
const (
	ProviderGemini     = "gemini"
	ProviderOpenAI     = "openai"
	ProviderGrok       = "grok"
	ProviderOpenRouter = "openrouter"
)

// APIKeys holds credentials per provider.
type APIKeys struct {
	Google     string
	OpenAI     string
	XAI        string
	OpenRouter string
}

// NewLLM creates a model for the named provider. An empty provider is
// inferred from the model name.
func NewLLM(ctx context.Context, provider, modelName string, keys APIKeys) (model.LLM, error) {
	if strings.TrimSpace(modelName) == "" {
		return nil, fmt.Errorf("model name cannot be empty")
	}
	if provider == "" {
		provider = InferProvider(modelName)
	}

	switch strings.ToLower(provider) {
	case ProviderGemini:
		if keys.Google == "" {
			return nil, fmt.Errorf("gemini API key not configured")
		}
		return gemini.NewModel(ctx, modelName, &genai.ClientConfig{
			APIKey:  keys.Google,
			Backend: genai.BackendGeminiAPI,
		})
	case ProviderOpenAI:
		return NewOpenAIModel(ctx, modelName, &genai.ClientConfig{APIKey: keys.OpenAI})
	case ProviderGrok:
		return NewGrokModel(ctx, modelName, &genai.ClientConfig{APIKey: keys.XAI})
	case ProviderOpenRouter:
		return NewOpenRouterModel(ctx, modelName, &genai.ClientConfig{APIKey: keys.OpenRouter})
	default:
		return nil, fmt.Errorf("unknown provider: %s (allowed: gemini, openai, grok, openrouter)", provider)
	}
}

// InferProvider guesses the provider from a model name, defaulting to gemini.
func InferProvider(modelName string) string {
	lower := strings.ToLower(modelName)
	switch {
	case strings.Contains(lower, "/"):
		return ProviderOpenRouter
	case strings.HasPrefix(lower, "gpt-"), strings.HasPrefix(lower, "o1"), strings.HasPrefix(lower, "o3"), strings.HasPrefix(lower, "o4"):
		return ProviderOpenAI
	case strings.HasPrefix(lower, "grok"):
		return ProviderGrok
	default:
		return ProviderGemini
	}
}
