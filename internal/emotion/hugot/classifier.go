// Package hugot classifies emotion with a local Hugging Face model served by
// ONNX Runtime. It links against the hugot tokenizer library, so only the
// process wiring imports it.
package hugot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	khugot "github.com/knights-analytics/hugot"

	"github.com/easeaico/moodtales/internal/emotion"
)

// DefaultModel is the Hugging Face model the classifier expects to find,
// exported to ONNX, under its model path.
const DefaultModel = "j-hartmann/emotion-english-distilroberta-base"

type batchRunner func(texts []string) ([][]emotion.Score, error)

// Classifier runs a local text-classification pipeline.
type Classifier struct {
	mu      sync.Mutex
	run     batchRunner
	destroy func() error
}

// New loads the ONNX model in modelPath into an ONNX Runtime session. The
// session is expensive to create; build one per process and share it.
func New(modelPath string) (*Classifier, error) {
	modelPath = strings.TrimSpace(modelPath)
	if modelPath == "" {
		return nil, fmt.Errorf("model path is required")
	}

	session, err := khugot.NewORTSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create hugot session: %w", err)
	}

	pipeline, err := khugot.NewPipeline(session, khugot.TextClassificationConfig{
		ModelPath: modelPath,
		Name:      "emotion",
	})
	if err != nil {
		_ = session.Destroy()
		return nil, fmt.Errorf("failed to create classification pipeline: %w", err)
	}
	slog.Info("hugot classifier loaded", "model_path", modelPath)

	run := func(texts []string) ([][]emotion.Score, error) {
		out, err := pipeline.RunPipeline(texts)
		if err != nil {
			return nil, err
		}
		results := make([][]emotion.Score, 0, len(out.ClassificationOutputs))
		for _, row := range out.ClassificationOutputs {
			scores := make([]emotion.Score, 0, len(row))
			for _, c := range row {
				scores = append(scores, emotion.Score{Label: c.Label, Score: float64(c.Score)})
			}
			results = append(results, scores)
		}
		return results, nil
	}

	return newClassifier(run, session.Destroy), nil
}

func newClassifier(run batchRunner, destroy func() error) *Classifier {
	return &Classifier{run: run, destroy: destroy}
}

// Classify returns the ranked emotions for text.
func (c *Classifier) Classify(ctx context.Context, text string) ([]emotion.Score, error) {
	if c == nil {
		return nil, fmt.Errorf("hugot classifier not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.run == nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("hugot classifier not configured")
	}
	results, err := c.run([]string{text})
	c.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to run classification pipeline: %w", err)
	}
	if len(results) == 0 || len(results[0]) == 0 {
		return nil, fmt.Errorf("empty classification result")
	}

	scores := append([]emotion.Score(nil), results[0]...)
	emotion.SortScores(scores)
	return scores, nil
}

// Close releases the inference session.
func (c *Classifier) Close() error {
	if c == nil || c.destroy == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	err := c.destroy()
	c.destroy = nil
	c.run = nil
	return err
}
