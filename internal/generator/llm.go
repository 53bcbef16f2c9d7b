package generator

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/adk/model"
	"google.golang.org/genai"

	"github.com/easeaico/moodtales/internal/story"
	"github.com/easeaico/moodtales/internal/utils"
)

const storytellerInstruction = "You are a storyteller. Write the story the user asks for as plain prose, without titles or commentary."

// LLMGenerator generates stories with an adk model.LLM.
type LLMGenerator struct {
	model model.LLM
	settings
}

// NewLLMGenerator creates a generator over m.
func NewLLMGenerator(m model.LLM, opts ...Option) (*LLMGenerator, error) {
	if m == nil {
		return nil, fmt.Errorf("model cannot be nil")
	}
	return &LLMGenerator{model: m, settings: newSettings(opts)}, nil
}

// Generate issues one request per requested sequence.
func (g *LLMGenerator) Generate(ctx context.Context, prompt string, cfg story.GenerationConfig) ([]story.Sequence, error) {
	prompt = g.preparePrompt(prompt, cfg)
	req := &model.LLMRequest{
		Model:    g.model.Name(),
		Contents: []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		Config:   contentConfig(cfg),
	}

	n := max(cfg.NumReturnSequences, 1)
	sequences := make([]story.Sequence, 0, n)
	for i := 0; i < n; i++ {
		text, err := g.generateOnce(ctx, req)
		if err != nil {
			return nil, err
		}
		sequences = append(sequences, story.Sequence{Text: text})
	}

	g.logger.Debug("story generated", "model", g.model.Name(), "sequences", len(sequences))
	return sequences, nil
}

func (g *LLMGenerator) generateOnce(ctx context.Context, req *model.LLMRequest) (string, error) {
	var sb strings.Builder
	for resp, err := range g.model.GenerateContent(ctx, req, false) {
		if err != nil {
			return "", fmt.Errorf("failed to generate story: %w", err)
		}
		if resp == nil || resp.Content == nil {
			continue
		}
		sb.WriteString(utils.ExtractContentText(resp.Content))
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", fmt.Errorf("model %s returned an empty story", g.model.Name())
	}
	return sb.String(), nil
}

func contentConfig(cfg story.GenerationConfig) *genai.GenerateContentConfig {
	out := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(storytellerInstruction, genai.RoleUser),
		Temperature:       genai.Ptr(float32(cfg.EffectiveTemperature())),
		TopP:              genai.Ptr(float32(cfg.TopP)),
		MaxOutputTokens:   int32(cfg.MaxLength),
		StopSequences:     cfg.StopSequences(),
	}
	if p := cfg.FrequencyPenalty(); p > 0 {
		out.FrequencyPenalty = genai.Ptr(float32(p))
	}
	return out
}
