package app

import (
	"context"
	"errors"
	"testing"

	"github.com/easeaico/moodtales/internal/config"
	"github.com/easeaico/moodtales/internal/story"
)

func baseConfig() config.Config {
	return config.Config{
		ClassifierBackend: config.BackendLLM,
		ClassifierModel:   "grok-3-mini",
		ClassifierTopK:    3,
		GeneratorBackend:  config.BackendOllama,
		GeneratorModel:    "gpt2",
		OllamaHost:        "http://localhost:11434/v1",
		XAIAPIKey:         "test-key",
		Generation:        story.DefaultGenerationConfig(),
	}
}

func TestNewBuildsRouter(t *testing.T) {
	cfg := baseConfig()
	// Avoid fetching BPE ranks in tests.
	cfg.Generation.Truncation = false

	a, err := New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if a.Router == nil {
		t.Fatalf("expected router")
	}
	if got := a.Router.Config(); got != cfg.Generation {
		t.Fatalf("expected router config %+v, got %+v", cfg.Generation, got)
	}
	if err := a.Close(context.Background()); err != nil {
		t.Fatalf("expected no close error, got %v", err)
	}
}

func TestNewRejectsMissingKey(t *testing.T) {
	cfg := baseConfig()
	cfg.Generation.Truncation = false
	cfg.XAIAPIKey = ""

	if _, err := New(context.Background(), cfg, nil); err == nil {
		t.Fatalf("expected error for missing classifier key")
	}
}

func TestNewRejectsUnknownBackend(t *testing.T) {
	cfg := baseConfig()
	cfg.Generation.Truncation = false
	cfg.GeneratorBackend = "vllm"

	if _, err := New(context.Background(), cfg, nil); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestCloseRunsInReverseOrder(t *testing.T) {
	var order []int
	boom := errors.New("boom")
	a := &App{closers: []func(context.Context) error{
		func(context.Context) error { order = append(order, 1); return nil },
		func(context.Context) error { order = append(order, 2); return boom },
	}}

	if err := a.Close(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected joined close error, got %v", err)
	}
	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Fatalf("unexpected close order: %v", order)
	}
}
