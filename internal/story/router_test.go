package story

import (
	"context"
	"errors"
	"testing"

	"github.com/easeaico/moodtales/internal/emotion"
	"github.com/easeaico/moodtales/internal/prompt"
)

type fakeClassifier struct {
	scores []emotion.Score
	err    error
	calls  int
	input  string
}

func (c *fakeClassifier) Classify(ctx context.Context, text string) ([]emotion.Score, error) {
	c.calls++
	c.input = text
	return c.scores, c.err
}

type fakeGenerator struct {
	sequences []Sequence
	err       error
	calls     int
	prompt    string
	cfg       GenerationConfig
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string, cfg GenerationConfig) ([]Sequence, error) {
	g.calls++
	g.prompt = prompt
	g.cfg = cfg
	return g.sequences, g.err
}

func newTestRouter(t *testing.T, c *fakeClassifier, g *fakeGenerator) *Router {
	t.Helper()
	r, err := NewRouter(c, g, prompt.DefaultTable(), DefaultGenerationConfig())
	if err != nil {
		t.Fatalf("NewRouter returned error: %v", err)
	}
	return r
}

func TestRouterBlankInputSkipsServices(t *testing.T) {
	c := &fakeClassifier{scores: []emotion.Score{{Label: "joy", Score: 1}}}
	g := &fakeGenerator{sequences: []Sequence{{Text: "story"}}}
	r := newTestRouter(t, c, g)

	for _, input := range []string{"", "   ", "\t\n", " \r\n "} {
		if _, err := r.Detect(context.Background(), input); !errors.Is(err, ErrEmptyInput) {
			t.Fatalf("Detect(%q): expected ErrEmptyInput, got %v", input, err)
		}
		if _, err := r.Tell(context.Background(), input); !errors.Is(err, ErrEmptyInput) {
			t.Fatalf("Tell(%q): expected ErrEmptyInput, got %v", input, err)
		}
	}
	if c.calls != 0 || g.calls != 0 {
		t.Fatalf("expected no service calls, got classifier=%d generator=%d", c.calls, g.calls)
	}
}

func TestRouterTellAngerScenario(t *testing.T) {
	input := "I lost my keys and I'm so frustrated"
	c := &fakeClassifier{scores: []emotion.Score{{Label: "anger", Score: 0.93}, {Label: "sadness", Score: 0.03}}}
	g := &fakeGenerator{sequences: []Sequence{{Text: "  Once upon a time<|endoftext|>"}, {Text: "second"}}}
	r := newTestRouter(t, c, g)

	s, err := r.Tell(context.Background(), input)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.input != input {
		t.Fatalf("classifier got %q, want raw input", c.input)
	}
	want, _ := prompt.DefaultTable().Lookup("anger")
	if g.prompt != want {
		t.Fatalf("generator got prompt %q, want %q", g.prompt, want)
	}
	if g.cfg != DefaultGenerationConfig() {
		t.Fatalf("generator got config %+v", g.cfg)
	}
	if g.cfg.MinLength != 200 || g.cfg.MaxLength != 500 || g.cfg.Temperature != 0.7 {
		t.Fatalf("unexpected generation constants: %+v", g.cfg)
	}
	if s.Text != "  Once upon a time<|endoftext|>" {
		t.Fatalf("expected first sequence verbatim, got %q", s.Text)
	}
	if s.Label != "anger" || s.Prompt != want {
		t.Fatalf("unexpected story metadata: %+v", s)
	}
}

func TestRouterDetectNormalizesLabel(t *testing.T) {
	c := &fakeClassifier{scores: []emotion.Score{{Label: " JOY ", Score: 0.8}}}
	r := newTestRouter(t, c, &fakeGenerator{})

	d, err := r.Detect(context.Background(), "what a day")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want, _ := prompt.DefaultTable().Lookup("joy")
	if d.Label != "joy" || !d.Matched || d.Prompt != want || d.Score != 0.8 {
		t.Fatalf("unexpected detection: %+v", d)
	}
}

func TestRouterUnknownLabelUsesFallback(t *testing.T) {
	c := &fakeClassifier{scores: []emotion.Score{{Label: "euphoria", Score: 0.7}}}
	g := &fakeGenerator{sequences: []Sequence{{Text: "story"}}}
	r := newTestRouter(t, c, g)

	d, err := r.Detect(context.Background(), "I feel on top of the world")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if d.Matched || d.Prompt != prompt.FallbackInstruction || d.Label != "euphoria" {
		t.Fatalf("unexpected detection: %+v", d)
	}

	if _, err := r.Generate(context.Background(), d); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if g.prompt != prompt.FallbackInstruction {
		t.Fatalf("expected fallback instruction, got %q", g.prompt)
	}
}

func TestRouterDetectDoesNotGenerate(t *testing.T) {
	c := &fakeClassifier{scores: []emotion.Score{{Label: "fear", Score: 0.6}}}
	g := &fakeGenerator{sequences: []Sequence{{Text: "story"}}}
	r := newTestRouter(t, c, g)

	if _, err := r.Detect(context.Background(), "a dark forest"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if g.calls != 0 {
		t.Fatalf("expected generation to wait for confirmation, got %d calls", g.calls)
	}
}

func TestRouterClassificationFailures(t *testing.T) {
	boom := errors.New("model unavailable")
	cases := map[string]*fakeClassifier{
		"error":       {err: boom},
		"empty":       {scores: nil},
		"blank label": {scores: []emotion.Score{{Label: "  ", Score: 1}}},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			g := &fakeGenerator{sequences: []Sequence{{Text: "story"}}}
			r := newTestRouter(t, c, g)

			_, err := r.Tell(context.Background(), "hello")
			if !errors.Is(err, ErrClassificationFailed) {
				t.Fatalf("expected ErrClassificationFailed, got %v", err)
			}
			if c.err != nil && !errors.Is(err, c.err) {
				t.Fatalf("expected cause to be wrapped, got %v", err)
			}
			if g.calls != 0 {
				t.Fatalf("expected no generation, got %d calls", g.calls)
			}
		})
	}
}

func TestRouterGenerationFailures(t *testing.T) {
	exhausted := errors.New("out of memory")
	cases := map[string]*fakeGenerator{
		"error": {err: exhausted},
		"empty": {sequences: []Sequence{}},
	}
	for name, g := range cases {
		t.Run(name, func(t *testing.T) {
			c := &fakeClassifier{scores: []emotion.Score{{Label: "hope", Score: 1}}}
			r := newTestRouter(t, c, g)

			_, err := r.Tell(context.Background(), "hello")
			if !errors.Is(err, ErrGenerationFailed) {
				t.Fatalf("expected ErrGenerationFailed, got %v", err)
			}
			if g.err != nil && !errors.Is(err, g.err) {
				t.Fatalf("expected cause to be wrapped, got %v", err)
			}
		})
	}
}

func TestRouterGenerateResolvesMissingPrompt(t *testing.T) {
	g := &fakeGenerator{sequences: []Sequence{{Text: "story"}}}
	r := newTestRouter(t, &fakeClassifier{}, g)

	if _, err := r.Generate(context.Background(), &Detection{Label: "Trust"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want, _ := prompt.DefaultTable().Lookup("trust")
	if g.prompt != want {
		t.Fatalf("expected table instruction, got %q", g.prompt)
	}
	if _, err := r.Generate(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil detection")
	}
}

func TestNewRouterValidation(t *testing.T) {
	if _, err := NewRouter(nil, &fakeGenerator{}, nil, DefaultGenerationConfig()); err == nil {
		t.Fatalf("expected error for nil classifier")
	}
	if _, err := NewRouter(&fakeClassifier{}, nil, nil, DefaultGenerationConfig()); err == nil {
		t.Fatalf("expected error for nil generator")
	}
	bad := DefaultGenerationConfig()
	bad.MaxLength = 0
	if _, err := NewRouter(&fakeClassifier{}, &fakeGenerator{}, nil, bad); err == nil {
		t.Fatalf("expected error for invalid config")
	}

	r, err := NewRouter(&fakeClassifier{}, &fakeGenerator{}, nil, DefaultGenerationConfig())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if r.Table().Len() != prompt.DefaultTable().Len() {
		t.Fatalf("expected default table")
	}
	if r.Config() != DefaultGenerationConfig() {
		t.Fatalf("unexpected config %+v", r.Config())
	}
}
