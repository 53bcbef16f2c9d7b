// Package app builds the story router from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/easeaico/moodtales/internal/config"
	"github.com/easeaico/moodtales/internal/emotion"
	"github.com/easeaico/moodtales/internal/emotion/hugot"
	"github.com/easeaico/moodtales/internal/generator"
	"github.com/easeaico/moodtales/internal/models"
	"github.com/easeaico/moodtales/internal/observability"
	"github.com/easeaico/moodtales/internal/prompt"
	"github.com/easeaico/moodtales/internal/story"
)

// App owns the router and the resources behind it.
type App struct {
	Router  *story.Router
	closers []func(context.Context) error
}

// Close releases model sessions and flushes traces.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// New builds the classifier, generator and router selected by cfg.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{}
	table := prompt.DefaultTable()

	classifier, err := a.newClassifier(ctx, cfg, table)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}

	gen, err := a.newGenerator(ctx, cfg, logger)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}

	router, err := story.NewRouter(classifier, gen, table, cfg.Generation, story.WithLogger(logger))
	if err != nil {
		_ = a.Close(ctx)
		return nil, fmt.Errorf("failed to create router: %w", err)
	}
	a.Router = router

	logger.Info("story router ready",
		"classifier_backend", cfg.ClassifierBackend,
		"classifier_model", cfg.ClassifierModel,
		"generator_backend", cfg.GeneratorBackend,
		"generator_model", cfg.GeneratorModel,
		"prompts", table.Len())
	return a, nil
}

func (a *App) newClassifier(ctx context.Context, cfg config.Config, table *prompt.Table) (emotion.Classifier, error) {
	switch cfg.ClassifierBackend {
	case config.BackendHugot:
		c, err := hugot.New(cfg.HugotModelPath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return c.Close() })
		return c, nil
	case config.BackendLLM:
		m, err := models.NewLLM(ctx, cfg.ClassifierProvider, cfg.ClassifierModel, cfg.APIKeys())
		if err != nil {
			return nil, fmt.Errorf("failed to create classifier model: %w", err)
		}
		instruction, err := prompt.BuildClassifierInstruction(table.Labels(), cfg.ClassifierTopK)
		if err != nil {
			return nil, err
		}
		return emotion.NewAnalyzer(m, instruction), nil
	default:
		return nil, fmt.Errorf("unknown classifier backend %q", cfg.ClassifierBackend)
	}
}

func (a *App) newGenerator(ctx context.Context, cfg config.Config, logger *slog.Logger) (story.Generator, error) {
	opts := []generator.Option{generator.WithLogger(logger)}
	if cfg.Generation.Truncation {
		tok, err := generator.NewTiktokenTokenizer(cfg.TokenizerEncoding)
		if err != nil {
			return nil, err
		}
		opts = append(opts, generator.WithTokenizer(tok))
	}

	var gen story.Generator
	switch cfg.GeneratorBackend {
	case config.BackendOllama:
		g, err := generator.NewOllamaGenerator(cfg.OllamaHost, cfg.GeneratorModel, cfg.OllamaTimeout, opts...)
		if err != nil {
			return nil, err
		}
		gen = g
	case config.BackendLLM:
		m, err := models.NewLLM(ctx, cfg.GeneratorProvider, cfg.GeneratorModel, cfg.APIKeys())
		if err != nil {
			return nil, fmt.Errorf("failed to create generator model: %w", err)
		}
		g, err := generator.NewLLMGenerator(m, opts...)
		if err != nil {
			return nil, err
		}
		gen = g
	default:
		return nil, fmt.Errorf("unknown generator backend %q", cfg.GeneratorBackend)
	}

	if cfg.LangfuseEnabled {
		traced := observability.NewTracedGenerator(ctx, gen, cfg.GeneratorModel, logger)
		a.closers = append(a.closers, func(ctx context.Context) error {
			traced.Flush(ctx)
			return nil
		})
		logger.Info("langfuse tracing enabled")
		return traced, nil
	}
	return gen, nil
}
