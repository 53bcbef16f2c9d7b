// Package story routes a detected emotion to a story instruction and asks a
// text generator to write the story.
package story

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/easeaico/moodtales/internal/emotion"
	"github.com/easeaico/moodtales/internal/prompt"
)

// Sequence is one text returned by a generator.
type Sequence struct {
	Text string `json:"text"`
}

// Generator writes text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, cfg GenerationConfig) ([]Sequence, error)
}

// Detection is the classified input and the instruction it resolved to.
type Detection struct {
	Input   string               `json:"input"`
	Label   emotion.EmotionLabel `json:"label"`
	Score   float64              `json:"score"`
	Prompt  string               `json:"prompt"`
	Matched bool                 `json:"matched"`
}

// GeneratedStory is the generator's first sequence for a detection.
type GeneratedStory struct {
	Label  emotion.EmotionLabel `json:"label"`
	Prompt string               `json:"prompt"`
	Text   string               `json:"text"`
}

// Router holds the classifier and generator handles together with the
// immutable prompt table and generation parameters. It keeps no per-request
// state and is safe for concurrent use when its collaborators are.
type Router struct {
	classifier emotion.Classifier
	generator  Generator
	table      *prompt.Table
	config     GenerationConfig
	logger     *slog.Logger
}

// Option customizes a Router.
type Option func(*Router)

// WithLogger sets the router logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRouter validates cfg and returns a Router. A nil table selects the
// default prompt table.
func NewRouter(classifier emotion.Classifier, generator Generator, table *prompt.Table, cfg GenerationConfig, opts ...Option) (*Router, error) {
	if classifier == nil {
		return nil, fmt.Errorf("classifier is required")
	}
	if generator == nil {
		return nil, fmt.Errorf("generator is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if table == nil {
		table = prompt.DefaultTable()
	}

	r := &Router{
		classifier: classifier,
		generator:  generator,
		table:      table,
		config:     cfg,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Detect classifies text and resolves the story instruction for its top
// emotion. Blank input returns ErrEmptyInput without calling the classifier.
func (r *Router) Detect(ctx context.Context, text string) (*Detection, error) {
	if strings.TrimSpace(text) == "" {
		routerRequestsTotal.WithLabelValues(stageClassify, statusEmptyInput).Inc()
		return nil, ErrEmptyInput
	}

	start := time.Now()
	scores, err := r.classifier.Classify(ctx, text)
	routerStageDuration.WithLabelValues(stageClassify).Observe(time.Since(start).Seconds())
	if err != nil {
		routerRequestsTotal.WithLabelValues(stageClassify, statusError).Inc()
		r.logger.Error("emotion classification failed", "error", err.Error())
		return nil, fmt.Errorf("%w: %w", ErrClassificationFailed, err)
	}
	if len(scores) == 0 {
		routerRequestsTotal.WithLabelValues(stageClassify, statusError).Inc()
		return nil, fmt.Errorf("%w: classifier returned no result", ErrClassificationFailed)
	}

	top := scores[0]
	label := emotion.NormalizeLabel(top.Label)
	if label == "" {
		routerRequestsTotal.WithLabelValues(stageClassify, statusError).Inc()
		return nil, fmt.Errorf("%w: classifier returned a blank label", ErrClassificationFailed)
	}

	instruction, matched := r.table.Lookup(label)
	if !matched {
		routerFallbackTotal.Inc()
	}
	routerRequestsTotal.WithLabelValues(stageClassify, statusSuccess).Inc()
	r.logger.Info("emotion detected", "label", label.String(), "score", top.Score, "matched", matched, "duration", time.Since(start))

	return &Detection{
		Input:   text,
		Label:   label,
		Score:   top.Score,
		Prompt:  instruction,
		Matched: matched,
	}, nil
}

// Generate asks the generator to write the story for d using the router's
// generation parameters and returns the first sequence verbatim.
func (r *Router) Generate(ctx context.Context, d *Detection) (*GeneratedStory, error) {
	if d == nil {
		return nil, fmt.Errorf("detection is required")
	}
	instruction := d.Prompt
	if instruction == "" {
		instruction, _ = r.table.Lookup(d.Label)
	}

	start := time.Now()
	sequences, err := r.generator.Generate(ctx, instruction, r.config)
	routerStageDuration.WithLabelValues(stageGenerate).Observe(time.Since(start).Seconds())
	if err != nil {
		routerRequestsTotal.WithLabelValues(stageGenerate, statusError).Inc()
		r.logger.Error("story generation failed", "label", d.Label.String(), "error", err.Error())
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	if len(sequences) == 0 {
		routerRequestsTotal.WithLabelValues(stageGenerate, statusError).Inc()
		return nil, fmt.Errorf("%w: generator returned no sequences", ErrGenerationFailed)
	}

	routerRequestsTotal.WithLabelValues(stageGenerate, statusSuccess).Inc()
	r.logger.Info("story generated", "label", d.Label.String(), "chars", len(sequences[0].Text), "duration", time.Since(start))

	return &GeneratedStory{
		Label:  d.Label,
		Prompt: instruction,
		Text:   sequences[0].Text,
	}, nil
}

// Tell detects the emotion of text and generates the story in one call.
func (r *Router) Tell(ctx context.Context, text string) (*GeneratedStory, error) {
	d, err := r.Detect(ctx, text)
	if err != nil {
		return nil, err
	}
	return r.Generate(ctx, d)
}

// Lookup resolves the story instruction for label.
func (r *Router) Lookup(label emotion.EmotionLabel) (string, bool) {
	return r.table.Lookup(label)
}

// Table returns the router's prompt table.
func (r *Router) Table() *prompt.Table {
	return r.table
}

// Config returns a copy of the generation parameters.
func (r *Router) Config() GenerationConfig {
	return r.config
}
