// Package config loads configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/easeaico/moodtales/internal/models"
	"github.com/easeaico/moodtales/internal/story"
)

// Classifier and generator backends.
const (
	BackendLLM    = "llm"
	BackendHugot  = "hugot"
	BackendOllama = "ollama"
)

// Config holds runtime settings.
type Config struct {
	Environment string
	Port        string
	LogLevel    string

	SentryDSN string

	ClassifierBackend  string
	ClassifierProvider string
	ClassifierModel    string
	ClassifierTopK     int
	HugotModelPath     string

	GeneratorBackend  string
	GeneratorProvider string
	GeneratorModel    string
	OllamaHost        string
	OllamaTimeout     time.Duration

	// TokenizerEncoding names the tiktoken encoding used to truncate prompts.
	TokenizerEncoding string

	OpenAIAPIKey     string
	GoogleAPIKey     string
	XAIAPIKey        string
	OpenRouterAPIKey string

	LangfuseEnabled   bool
	LangfusePublicKey string
	LangfuseSecretKey string

	Generation story.GenerationConfig
}

// Load reads an optional .env file and the environment, then applies
// defaults. It does not validate; call Validate before use.
func Load(envFiles ...string) (Config, error) {
	loadDotEnv(envFiles...)

	cfg := Config{
		Environment:        getEnv("ENVIRONMENT", "development"),
		Port:               getEnv("PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		SentryDSN:          getEnv("SENTRY_DSN", ""),
		ClassifierBackend:  strings.ToLower(getEnv("CLASSIFIER_BACKEND", BackendLLM)),
		ClassifierProvider: strings.ToLower(getEnv("CLASSIFIER_PROVIDER", "")),
		ClassifierModel:    getEnv("CLASSIFIER_MODEL", "gemini-2.5-flash"),
		ClassifierTopK:     getEnvInt("CLASSIFIER_TOP_K", 3),
		HugotModelPath:     getEnv("HUGOT_MODEL_PATH", "./models/emotion-english-distilroberta-base"),
		GeneratorBackend:   strings.ToLower(getEnv("GENERATOR_BACKEND", BackendLLM)),
		GeneratorProvider:  strings.ToLower(getEnv("GENERATOR_PROVIDER", "")),
		GeneratorModel:     getEnv("GENERATOR_MODEL", "gemini-2.5-flash"),
		OllamaHost:         getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OllamaTimeout:      getEnvDuration("OLLAMA_TIMEOUT", 2*time.Minute),
		TokenizerEncoding:  getEnv("TOKENIZER_ENCODING", "r50k_base"),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		GoogleAPIKey:       os.Getenv("GOOGLE_API_KEY"),
		XAIAPIKey:          os.Getenv("XAI_API_KEY"),
		OpenRouterAPIKey:   os.Getenv("OPENROUTER_API_KEY"),
		LangfuseEnabled:    getEnvBool("LANGFUSE_ENABLED", false),
		LangfusePublicKey:  os.Getenv("LANGFUSE_PUBLIC_KEY"),
		LangfuseSecretKey:  os.Getenv("LANGFUSE_SECRET_KEY"),
	}

	gen, err := story.LoadGenerationConfig()
	if err != nil {
		return Config{}, err
	}
	cfg.Generation = gen

	return cfg, nil
}

// Validate reports every setting that would prevent the selected backends
// from starting.
func (c Config) Validate() error {
	var errs []error

	switch c.ClassifierBackend {
	case BackendLLM:
		if err := c.requireKey(c.ClassifierProvider, c.ClassifierModel); err != nil {
			errs = append(errs, fmt.Errorf("classifier: %w", err))
		}
	case BackendHugot:
		if c.HugotModelPath == "" {
			errs = append(errs, fmt.Errorf("HUGOT_MODEL_PATH is required for the hugot classifier"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown CLASSIFIER_BACKEND %q (allowed: llm, hugot)", c.ClassifierBackend))
	}
	if c.ClassifierTopK < 1 {
		errs = append(errs, fmt.Errorf("CLASSIFIER_TOP_K must be at least 1, got %d", c.ClassifierTopK))
	}

	switch c.GeneratorBackend {
	case BackendLLM:
		if err := c.requireKey(c.GeneratorProvider, c.GeneratorModel); err != nil {
			errs = append(errs, fmt.Errorf("generator: %w", err))
		}
	case BackendOllama:
		if c.OllamaHost == "" {
			errs = append(errs, fmt.Errorf("OLLAMA_HOST is required for the ollama generator"))
		}
		if c.GeneratorModel == "" {
			errs = append(errs, fmt.Errorf("GENERATOR_MODEL is required for the ollama generator"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown GENERATOR_BACKEND %q (allowed: llm, ollama)", c.GeneratorBackend))
	}

	if c.LangfuseEnabled && (c.LangfusePublicKey == "" || c.LangfuseSecretKey == "") {
		errs = append(errs, fmt.Errorf("LANGFUSE_PUBLIC_KEY and LANGFUSE_SECRET_KEY are required when LANGFUSE_ENABLED=true"))
	}

	if err := c.Generation.Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// APIKeys returns the provider credentials.
func (c Config) APIKeys() models.APIKeys {
	return models.APIKeys{
		Google:     c.GoogleAPIKey,
		OpenAI:     c.OpenAIAPIKey,
		XAI:        c.XAIAPIKey,
		OpenRouter: c.OpenRouterAPIKey,
	}
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsProduction reports whether the service runs in production.
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c Config) requireKey(provider, modelName string) error {
	if modelName == "" {
		return fmt.Errorf("model name is required")
	}
	if provider == "" {
		provider = models.InferProvider(modelName)
	}
	var key, name string
	switch provider {
	case models.ProviderGemini:
		key, name = c.GoogleAPIKey, "GOOGLE_API_KEY"
	case models.ProviderOpenAI:
		key, name = c.OpenAIAPIKey, "OPENAI_API_KEY"
	case models.ProviderGrok:
		key, name = c.XAIAPIKey, "XAI_API_KEY"
	case models.ProviderOpenRouter:
		key, name = c.OpenRouterAPIKey, "OPENROUTER_API_KEY"
	default:
		return fmt.Errorf("unknown provider %q", provider)
	}
	if key == "" {
		return fmt.Errorf("%s environment variable is required for %s model %s", name, provider, modelName)
	}
	return nil
}

// loadDotEnv loads .env files when present. Variables already set in the
// environment win.
func loadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			slog.Warn("failed to load env file", "file", f, "error", err.Error())
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}
