// Package observability records story generations in Langfuse.
package observability

import (
	"context"
	"log/slog"
	"time"

	langfuse "github.com/henomis/langfuse-go"
	"github.com/henomis/langfuse-go/model"

	"github.com/easeaico/moodtales/internal/story"
)

// tracer is the subset of *langfuse.Langfuse used for generation spans.
type tracer interface {
	Trace(t *model.Trace) (*model.Trace, error)
	Generation(g *model.Generation, parentID *string) (*model.Generation, error)
	GenerationEnd(g *model.Generation) (*model.Generation, error)
	Flush(ctx context.Context)
}

// TracedGenerator records every call of the wrapped generator as a Langfuse
// generation. Tracing failures are logged and never fail the generation.
type TracedGenerator struct {
	next      story.Generator
	client    tracer
	modelName string
	logger    *slog.Logger
}

// NewTracedGenerator wraps next with a Langfuse client configured from the
// LANGFUSE_* environment variables. The client keeps ctx for its ingest
// requests, so cancellation of ctx is dropped to let Flush run on shutdown.
func NewTracedGenerator(ctx context.Context, next story.Generator, modelName string, logger *slog.Logger) *TracedGenerator {
	return newTracedGenerator(next, langfuse.New(context.WithoutCancel(ctx)), modelName, logger)
}

func newTracedGenerator(next story.Generator, client tracer, modelName string, logger *slog.Logger) *TracedGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &TracedGenerator{next: next, client: client, modelName: modelName, logger: logger}
}

// Generate delegates to the wrapped generator and records the exchange.
func (t *TracedGenerator) Generate(ctx context.Context, prompt string, cfg story.GenerationConfig) ([]story.Sequence, error) {
	gen := t.start(prompt, cfg)
	seqs, err := t.next.Generate(ctx, prompt, cfg)
	t.finish(gen, seqs, err)
	return seqs, err
}

// Flush sends queued events. Call it on shutdown.
func (t *TracedGenerator) Flush(ctx context.Context) {
	t.client.Flush(ctx)
}

func (t *TracedGenerator) start(prompt string, cfg story.GenerationConfig) *model.Generation {
	trace, err := t.client.Trace(&model.Trace{Name: "story"})
	if err != nil {
		t.logger.Warn("failed to create langfuse trace", "error", err.Error())
		return nil
	}

	now := time.Now()
	gen, err := t.client.Generation(&model.Generation{
		TraceID:   trace.ID,
		Name:      "generate-story",
		StartTime: &now,
		Model:     t.modelName,
		ModelParameters: model.M{
			"min_length":           cfg.MinLength,
			"max_length":           cfg.MaxLength,
			"temperature":          cfg.Temperature,
			"top_p":                cfg.TopP,
			"num_return_sequences": cfg.NumReturnSequences,
			"repetition_penalty":   cfg.RepetitionPenalty,
			"do_sample":            cfg.DoSample,
		},
		Input: prompt,
	}, nil)
	if err != nil {
		t.logger.Warn("failed to create langfuse generation", "error", err.Error())
		return nil
	}
	return gen
}

func (t *TracedGenerator) finish(gen *model.Generation, seqs []story.Sequence, genErr error) {
	if gen == nil {
		return
	}
	now := time.Now()
	gen.EndTime = &now
	if genErr != nil {
		gen.Level = model.ObservationLevel("ERROR")
		gen.Metadata = map[string]any{"error": genErr.Error()}
	} else {
		texts := make([]string, len(seqs))
		for i, s := range seqs {
			texts[i] = s.Text
		}
		gen.Output = texts
	}
	if _, err := t.client.GenerationEnd(gen); err != nil {
		t.logger.Warn("failed to end langfuse generation", "error", err.Error())
	}
}
