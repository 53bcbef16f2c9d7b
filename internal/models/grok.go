package models

import (
	"context"

	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

const grokBaseURL = "https://api.x.ai/v1"

// NewGrokModel creates a model backed by xAI's OpenAI compatible endpoint
// (e.g., "grok-4-fast", "grok-3-mini").
func NewGrokModel(ctx context.Context, modelName string, cfg *genai.ClientConfig) (model.LLM, error) {
	return newOpenAICompatibleModel(modelName, cfg, "grok", grokBaseURL)
}
