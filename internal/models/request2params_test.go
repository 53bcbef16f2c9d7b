package models

import (
	"context"
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

func TestBuildOpenAIParamsMapsSampling(t *testing.T) {
	req := &model.LLMRequest{
		Contents: []*genai.Content{genai.NewContentFromText("once upon a time", genai.RoleUser)},
		Config: &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText("be kind", genai.RoleUser),
			Temperature:       genai.Ptr[float32](0.5),
			TopP:              genai.Ptr[float32](0.9),
			MaxOutputTokens:   120,
			StopSequences:     []string{"<|endoftext|>"},
			FrequencyPenalty:  genai.Ptr[float32](0.25),
		},
	}

	params, err := buildOpenAIParams(req, "gpt-4o-mini")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if params.Model != "gpt-4o-mini" {
		t.Fatalf("expected model fallback, got %q", params.Model)
	}
	if len(params.Messages) != 2 {
		t.Fatalf("expected system and user messages, got %d", len(params.Messages))
	}
	if params.Messages[0].OfSystem == nil {
		t.Fatalf("expected first message to be system")
	}
	if params.Messages[1].OfUser == nil {
		t.Fatalf("expected second message to be user")
	}
	if got := params.Temperature.Value; got != 0.5 {
		t.Fatalf("expected temperature 0.5, got %v", got)
	}
	if got := params.MaxTokens.Value; got != 120 {
		t.Fatalf("expected max tokens 120, got %v", got)
	}
	if got := params.FrequencyPenalty.Value; got != 0.25 {
		t.Fatalf("expected frequency penalty 0.25, got %v", got)
	}
	if len(params.Stop.OfStringArray) != 1 || params.Stop.OfStringArray[0] != "<|endoftext|>" {
		t.Fatalf("unexpected stop sequences: %#v", params.Stop.OfStringArray)
	}
}

func TestBuildOpenAIParamsResponseSchema(t *testing.T) {
	schema := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"label": {Type: "string"},
		},
		Required: []string{"label"},
	}
	req := &model.LLMRequest{
		Model:    "grok-3-mini",
		Contents: []*genai.Content{genai.NewContentFromText("hi", genai.RoleUser)},
		Config:   &genai.GenerateContentConfig{ResponseJsonSchema: schema},
	}

	params, err := buildOpenAIParams(req, "ignored")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if params.Model != "grok-3-mini" {
		t.Fatalf("expected request model, got %q", params.Model)
	}
	format := params.ResponseFormat.OfJSONSchema
	if format == nil {
		t.Fatalf("expected json schema response format")
	}
	got, ok := format.JSONSchema.Schema.(map[string]any)
	if !ok {
		t.Fatalf("expected schema map, got %T", format.JSONSchema.Schema)
	}
	if got["type"] != "object" {
		t.Fatalf("expected object schema, got %v", got["type"])
	}
}

func TestBuildOpenAIParamsRejectsEmpty(t *testing.T) {
	if _, err := buildOpenAIParams(&model.LLMRequest{}, "gpt-4o"); err == nil {
		t.Fatalf("expected error for request without messages")
	}
}

func TestInferProvider(t *testing.T) {
	cases := map[string]string{
		"gpt-4o-mini":                      ProviderOpenAI,
		"grok-3-mini":                      ProviderGrok,
		"meta-llama/llama-3.1-8b-instruct": ProviderOpenRouter,
		"gemini-2.5-flash":                 ProviderGemini,
	}
	for name, want := range cases {
		if got := InferProvider(name); got != want {
			t.Fatalf("InferProvider(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestNewLLMRequiresKey(t *testing.T) {
	if _, err := NewLLM(context.Background(), ProviderGrok, "grok-3-mini", APIKeys{}); err == nil {
		t.Fatalf("expected error without API key")
	}
	if _, err := NewLLM(context.Background(), "unknown", "x", APIKeys{}); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}
