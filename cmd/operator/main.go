// Package main provides the operator CLI for configuration checks and
// one-off story runs.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/easeaico/moodtales/internal/app"
	"github.com/easeaico/moodtales/internal/config"
	"github.com/easeaico/moodtales/internal/emotion"
	"github.com/easeaico/moodtales/internal/prompt"
	"github.com/easeaico/moodtales/internal/story"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "validate":
		validateCmd()
	case "prompts":
		promptsCmd(os.Args[2:])
	case "classify":
		classifyCmd(os.Args[2:])
	case "generate":
		generateCmd(os.Args[2:])
	case "version":
		fmt.Printf("moodtales operator v%s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`moodtales operator - operations CLI

Usage:
  operator <command> [flags]

Commands:
  validate    Validate environment configuration
  prompts     List the emotion prompt table
  classify    Detect the emotion of a text and show the resolved prompt
  generate    Detect the emotion of a text and write the story
  version     Show version information
  help        Show this help message

Examples:
  operator validate
  operator prompts --label anger
  operator classify "I can't believe they lied to me"
  operator generate --json "The house felt empty after she left"`)
}

// validateCmd checks the environment the story service will start with.
func validateCmd() {
	fmt.Println("Validating configuration...")

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("  ✗ %v\n", err)
		os.Exit(1)
	}

	settings := []struct {
		name   string
		envVar string
		value  string
	}{
		{"Classifier Backend", "CLASSIFIER_BACKEND", cfg.ClassifierBackend},
		{"Classifier Model", "CLASSIFIER_MODEL", cfg.ClassifierModel},
		{"Hugot Model Path", "HUGOT_MODEL_PATH", cfg.HugotModelPath},
		{"Generator Backend", "GENERATOR_BACKEND", cfg.GeneratorBackend},
		{"Generator Model", "GENERATOR_MODEL", cfg.GeneratorModel},
		{"Ollama Host", "OLLAMA_HOST", cfg.OllamaHost},
		{"Google API Key", "GOOGLE_API_KEY", cfg.GoogleAPIKey},
		{"OpenAI API Key", "OPENAI_API_KEY", cfg.OpenAIAPIKey},
		{"xAI API Key", "XAI_API_KEY", cfg.XAIAPIKey},
		{"OpenRouter API Key", "OPENROUTER_API_KEY", cfg.OpenRouterAPIKey},
		{"Sentry DSN", "SENTRY_DSN", cfg.SentryDSN},
	}
	for _, s := range settings {
		if s.value == "" {
			fmt.Printf("  - %s (%s): not set\n", s.name, s.envVar)
			continue
		}
		display := s.value
		lower := strings.ToLower(s.envVar)
		if strings.Contains(lower, "key") || strings.Contains(lower, "dsn") {
			display = maskValue(s.value)
		}
		fmt.Printf("  ✓ %s (%s): %s\n", s.name, s.envVar, display)
	}

	gen := cfg.Generation
	fmt.Printf("\nGeneration: min_length=%d max_length=%d temperature=%v top_p=%v sequences=%d repetition_penalty=%v do_sample=%v truncation=%v\n",
		gen.MinLength, gen.MaxLength, gen.Temperature, gen.TopP, gen.NumReturnSequences,
		gen.RepetitionPenalty, gen.DoSample, gen.Truncation)

	if err := cfg.Validate(); err != nil {
		fmt.Println("\nConfiguration validation failed:")
		for _, line := range strings.Split(err.Error(), "\n") {
			fmt.Printf("  ✗ %s\n", line)
		}
		os.Exit(1)
	}

	fmt.Println("\nConfiguration is valid.")
}

// promptsCmd prints the prompt table, or the instruction for one label.
func promptsCmd(args []string) {
	fs := flag.NewFlagSet("prompts", flag.ExitOnError)
	label := fs.String("label", "", "Show the instruction for a single emotion label")
	_ = fs.Parse(args)

	table := prompt.DefaultTable()
	if *label != "" {
		instruction, matched := table.Lookup(emotion.NormalizeLabel(*label))
		if !matched {
			fmt.Printf("%s (fallback): %s\n", emotion.NormalizeLabel(*label), instruction)
			return
		}
		fmt.Printf("%s: %s\n", emotion.NormalizeLabel(*label), instruction)
		return
	}

	for _, l := range table.Labels() {
		instruction, _ := table.Lookup(l)
		fmt.Printf("%-14s %s\n", l, instruction)
	}
	fmt.Printf("\n%-14s %s\n", "(fallback)", table.Fallback())
}

// classifyCmd runs detection only.
func classifyCmd(args []string) {
	fs := flag.NewFlagSet("classify", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "Print the result as JSON")
	timeout := fs.Duration("timeout", time.Minute, "Request timeout")
	_ = fs.Parse(args)

	text := strings.Join(fs.Args(), " ")
	withRouter(*timeout, func(ctx context.Context, router *story.Router) error {
		d, err := router.Detect(ctx, text)
		if err != nil {
			return err
		}
		if *asJSON {
			return printJSON(d)
		}
		fmt.Printf("Detected Emotion: %s (score %.3f)\n", d.Label.Title(), d.Score)
		if !d.Matched {
			fmt.Println("No authored prompt for this emotion; using the fallback.")
		}
		fmt.Printf("Prompt: %s\n", d.Prompt)
		return nil
	})
}

// generateCmd runs detection and generation in one go.
func generateCmd(args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "Print the result as JSON")
	timeout := fs.Duration("timeout", 3*time.Minute, "Request timeout")
	_ = fs.Parse(args)

	text := strings.Join(fs.Args(), " ")
	withRouter(*timeout, func(ctx context.Context, router *story.Router) error {
		s, err := router.Tell(ctx, text)
		if err != nil {
			return err
		}
		if *asJSON {
			return printJSON(s)
		}
		fmt.Printf("Detected Emotion: %s\n\nGenerated Story:\n%s\n", s.Label.Title(), s.Text)
		return nil
	})
}

func withRouter(timeout time.Duration, fn func(context.Context, *story.Router) error) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	application, err := app.New(ctx, cfg, nil)
	if err != nil {
		log.Fatalf("failed to initialize story router: %v", err)
	}

	runErr := fn(ctx, application.Router)
	if err := application.Close(context.Background()); err != nil {
		log.Printf("failed to release resources: %v", err)
	}
	if runErr != nil {
		if errors.Is(runErr, story.ErrEmptyInput) {
			fmt.Println("⚠ Please enter a prompt to generate a story.")
			os.Exit(2)
		}
		log.Fatalf("%v", runErr)
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func maskValue(value string) string {
	if len(value) <= 8 {
		return "****"
	}
	return value[:4] + "****" + value[len(value)-4:]
}
