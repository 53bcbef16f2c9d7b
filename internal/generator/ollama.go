package generator

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/easeaico/moodtales/internal/story"
)

// DefaultOllamaHost is the address of a locally running ollama server.
const DefaultOllamaHost = "http://localhost:11434"

// ollamaAPI is the subset of *api.Client used here.
type ollamaAPI interface {
	Generate(ctx context.Context, req *api.GenerateRequest, fn api.GenerateResponseFunc) error
}

// OllamaGenerator continues prompts with a model served by ollama. Requests
// are sent in raw mode so the model sees the instruction without a chat
// template, as a plain causal language model would.
type OllamaGenerator struct {
	client ollamaAPI
	model  string
	settings
}

// NewOllamaGenerator connects to the ollama server at host.
func NewOllamaGenerator(host, modelName string, timeout time.Duration, opts ...Option) (*OllamaGenerator, error) {
	if host == "" {
		host = DefaultOllamaHost
	}
	// api.NewClient expects the base URL without the OpenAI-compatible /v1 suffix.
	host = strings.TrimSuffix(strings.TrimSuffix(host, "/"), "/v1")
	base, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ollama host %q: %w", host, err)
	}
	return newOllamaGenerator(api.NewClient(base, &http.Client{Timeout: timeout}), modelName, opts...)
}

func newOllamaGenerator(client ollamaAPI, modelName string, opts ...Option) (*OllamaGenerator, error) {
	if client == nil {
		return nil, fmt.Errorf("ollama client cannot be nil")
	}
	if strings.TrimSpace(modelName) == "" {
		return nil, fmt.Errorf("model name cannot be empty")
	}
	return &OllamaGenerator{client: client, model: modelName, settings: newSettings(opts)}, nil
}

// Generate issues one non-streaming request per requested sequence.
func (g *OllamaGenerator) Generate(ctx context.Context, prompt string, cfg story.GenerationConfig) ([]story.Sequence, error) {
	stream := false
	req := &api.GenerateRequest{
		Model:   g.model,
		Prompt:  g.preparePrompt(prompt, cfg),
		Raw:     true,
		Stream:  &stream,
		Options: ollamaOptions(cfg),
	}

	n := max(cfg.NumReturnSequences, 1)
	sequences := make([]story.Sequence, 0, n)
	for i := 0; i < n; i++ {
		var sb strings.Builder
		err := g.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
			sb.WriteString(resp.Response)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to call ollama: %w", err)
		}
		if strings.TrimSpace(sb.String()) == "" {
			return nil, fmt.Errorf("ollama model %s returned an empty story", g.model)
		}
		sequences = append(sequences, story.Sequence{Text: sb.String()})
	}

	g.logger.Debug("story generated", "model", g.model, "backend", "ollama", "sequences", len(sequences))
	return sequences, nil
}

func ollamaOptions(cfg story.GenerationConfig) map[string]any {
	opts := map[string]any{
		"num_predict":    cfg.MaxLength,
		"temperature":    cfg.EffectiveTemperature(),
		"top_p":          cfg.TopP,
		"repeat_penalty": cfg.RepetitionPenalty,
	}
	if stop := cfg.StopSequences(); len(stop) > 0 {
		opts["stop"] = stop
	}
	return opts
}
