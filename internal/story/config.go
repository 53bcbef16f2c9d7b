package story

import (
	"errors"
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// GenerationConfig is the fixed set of sampling parameters sent with every
// generation request.
type GenerationConfig struct {
	MinLength          int     `envconfig:"MIN_LENGTH" default:"200" json:"min_length"`
	MaxLength          int     `envconfig:"MAX_LENGTH" default:"500" json:"max_length"`
	Temperature        float64 `envconfig:"TEMPERATURE" default:"0.7" json:"temperature"`
	TopP               float64 `envconfig:"TOP_P" default:"0.9" json:"top_p"`
	NumReturnSequences int     `envconfig:"NUM_RETURN_SEQUENCES" default:"1" json:"num_return_sequences"`
	RepetitionPenalty  float64 `envconfig:"REPETITION_PENALTY" default:"1.0" json:"repetition_penalty"`
	// TerminationToken ends generation; GPT-2's end-of-text token by default.
	TerminationToken string `envconfig:"TERMINATION_TOKEN" default:"<|endoftext|>" json:"termination_token"`
	DoSample         bool   `envconfig:"DO_SAMPLE" default:"true" json:"do_sample"`
	Truncation       bool   `envconfig:"TRUNCATION" default:"true" json:"truncation"`
}

// DefaultGenerationConfig returns the stock parameters.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		MinLength:          200,
		MaxLength:          500,
		Temperature:        0.7,
		TopP:               0.9,
		NumReturnSequences: 1,
		RepetitionPenalty:  1.0,
		TerminationToken:   "<|endoftext|>",
		DoSample:           true,
		Truncation:         true,
	}
}

// LoadGenerationConfig reads STORY_* overrides from the environment on top of
// the stock parameters.
func LoadGenerationConfig() (GenerationConfig, error) {
	var cfg GenerationConfig
	if err := envconfig.Process("story", &cfg); err != nil {
		return GenerationConfig{}, fmt.Errorf("failed to load generation config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return GenerationConfig{}, err
	}
	return cfg, nil
}

// Validate reports parameters no backend can honour.
func (c GenerationConfig) Validate() error {
	var errs []error
	if c.MinLength <= 0 {
		errs = append(errs, fmt.Errorf("min length must be positive, got %d", c.MinLength))
	}
	if c.MaxLength <= 0 {
		errs = append(errs, fmt.Errorf("max length must be positive, got %d", c.MaxLength))
	}
	if c.MaxLength > 0 && c.MinLength > c.MaxLength {
		errs = append(errs, fmt.Errorf("min length %d exceeds max length %d", c.MinLength, c.MaxLength))
	}
	if c.Temperature < 0 {
		errs = append(errs, fmt.Errorf("temperature must not be negative, got %v", c.Temperature))
	}
	if c.TopP <= 0 || c.TopP > 1 {
		errs = append(errs, fmt.Errorf("top p must be in (0, 1], got %v", c.TopP))
	}
	if c.NumReturnSequences < 1 {
		errs = append(errs, fmt.Errorf("num return sequences must be at least 1, got %d", c.NumReturnSequences))
	}
	if c.RepetitionPenalty <= 0 {
		errs = append(errs, fmt.Errorf("repetition penalty must be positive, got %v", c.RepetitionPenalty))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid generation config: %w", errors.Join(errs...))
	}
	return nil
}

// EffectiveTemperature is the temperature to send to a backend: zero (greedy
// decoding) when sampling is disabled.
func (c GenerationConfig) EffectiveTemperature() float64 {
	if !c.DoSample {
		return 0
	}
	return c.Temperature
}

// FrequencyPenalty converts the multiplicative repetition penalty into the
// additive frequency penalty used by chat completion APIs. Penalties at or
// below 1 disable it.
func (c GenerationConfig) FrequencyPenalty() float64 {
	if c.RepetitionPenalty <= 1 {
		return 0
	}
	p := c.RepetitionPenalty - 1
	if p > 2 {
		p = 2
	}
	return p
}

// StopSequences returns the termination token as a stop list.
func (c GenerationConfig) StopSequences() []string {
	if c.TerminationToken == "" {
		return nil
	}
	return []string{c.TerminationToken}
}
