// Package models provides adk model.LLM adapters for the supported model providers.
package models

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"runtime"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

const openaiBaseURL = "https://api.openai.com/v1"

// openaiModel wraps an OpenAI compatible chat completions client.
type openaiModel struct {
	client             *openai.Client
	name               string
	provider           string
	versionHeaderValue string
}

// NewOpenAIModel creates a model backed by the OpenAI chat completions API.
func NewOpenAIModel(ctx context.Context, modelName string, cfg *genai.ClientConfig) (model.LLM, error) {
	return newOpenAICompatibleModel(modelName, cfg, "openai", openaiBaseURL)
}

func newOpenAICompatibleModel(modelName string, cfg *genai.ClientConfig, provider, baseURL string) (*openaiModel, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if modelName == "" {
		return nil, fmt.Errorf("model name cannot be empty")
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(opts...)

	// Build the user agent once per model instead of per request.
	headerValue := fmt.Sprintf("moodtales-%s/%s go/%s",
		provider, "1.0.0", strings.TrimPrefix(runtime.Version(), "go"))

	return &openaiModel{
		name:               modelName,
		provider:           provider,
		client:             &client,
		versionHeaderValue: headerValue,
	}, nil
}

func (m *openaiModel) Name() string {
	return m.name
}

// GenerateContent issues a single chat completion. Streaming is not
// supported; the stream flag is ignored.
func (m *openaiModel) GenerateContent(ctx context.Context, req *model.LLMRequest, stream bool) iter.Seq2[*model.LLMResponse, error] {
	return func(yield func(*model.LLMResponse, error) bool) {
		resp, err := m.generate(ctx, req)
		yield(resp, err)
	}
}

func (m *openaiModel) generate(ctx context.Context, req *model.LLMRequest) (*model.LLMResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("request cannot be nil")
	}
	params, err := buildOpenAIParams(req, m.name)
	if err != nil {
		return nil, err
	}

	resp, err := m.client.Chat.Completions.New(ctx, *params, option.WithHeader("User-Agent", m.versionHeaderValue))
	if err != nil {
		slog.Error("failed to call llm API", "provider", m.provider, "model", m.name, "error", err.Error())
		return nil, fmt.Errorf("failed to call %s API: %w", m.provider, err)
	}

	if resp == nil || len(resp.Choices) == 0 {
		return &model.LLMResponse{}, nil
	}

	message := resp.Choices[0].Message
	content := &genai.Content{
		Role:  "model",
		Parts: []*genai.Part{},
	}
	if message.Content != "" {
		content.Parts = append(content.Parts, &genai.Part{Text: message.Content})
	}

	return &model.LLMResponse{
		Content:      content,
		TurnComplete: true,
	}, nil
}
