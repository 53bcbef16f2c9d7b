package models

import (
	"context"

	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// NewOpenRouterModel creates a model routed through OpenRouter. modelName is
// the OpenRouter slug, e.g. "meta-llama/llama-3.1-8b-instruct".
func NewOpenRouterModel(ctx context.Context, modelName string, cfg *genai.ClientConfig) (model.LLM, error) {
	return newOpenAICompatibleModel(modelName, cfg, "openrouter", openRouterBaseURL)
}
