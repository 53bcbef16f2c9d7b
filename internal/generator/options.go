// Package generator implements story.Generator over hosted and local language models.
package generator

import (
	"log/slog"

	"github.com/easeaico/moodtales/internal/story"
)

type settings struct {
	tokenizer Tokenizer
	logger    *slog.Logger
}

// Option configures a generator.
type Option func(*settings)

// WithTokenizer sets the tokenizer used for prompt truncation. Without one,
// prompts are passed through untruncated.
func WithTokenizer(tok Tokenizer) Option {
	return func(s *settings) {
		s.tokenizer = tok
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{logger: slog.Default()}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

func (s settings) preparePrompt(prompt string, cfg story.GenerationConfig) string {
	if !cfg.Truncation {
		return prompt
	}
	return Truncate(s.tokenizer, prompt, cfg.MaxLength)
}
