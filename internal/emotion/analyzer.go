package emotion

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"google.golang.org/adk/model"
	"google.golang.org/genai"

	"github.com/easeaico/moodtales/internal/utils"
)

// Analyzer classifies emotion with a general purpose LLM that is asked for
// structured JSON output.
type Analyzer struct {
	model       model.LLM
	instruction string
}

// NewAnalyzer returns an Analyzer that sends instruction as the system
// instruction of every request.
func NewAnalyzer(m model.LLM, instruction string) *Analyzer {
	return &Analyzer{model: m, instruction: instruction}
}

// Classify returns the ranked emotions for text.
func (a *Analyzer) Classify(ctx context.Context, text string) ([]Score, error) {
	if a == nil || a.model == nil {
		return nil, fmt.Errorf("emotion analyzer not configured")
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	req := &model.LLMRequest{
		Contents: []*genai.Content{
			genai.NewContentFromText(text, "user"),
		},
		Config: &genai.GenerateContentConfig{
			Temperature:        genai.Ptr[float32](0),
			ResponseMIMEType:   "application/json",
			ResponseJsonSchema: classificationSchema(),
		},
	}
	if a.instruction != "" {
		req.Config.SystemInstruction = genai.NewContentFromText(a.instruction, "system")
	}

	seq := a.model.GenerateContent(ctx, req, false)
	var resp *model.LLMResponse
	var err error
	seq(func(r *model.LLMResponse, e error) bool {
		resp = r
		err = e
		return false
	})
	if err != nil {
		return nil, fmt.Errorf("failed to classify emotion: %w", err)
	}
	if resp == nil {
		return nil, fmt.Errorf("empty classifier response")
	}

	text = strings.TrimSpace(utils.ExtractContentText(resp.Content))
	if text == "" {
		return nil, fmt.Errorf("empty classifier response")
	}

	output, err := utils.ParseClassification(text)
	if err != nil {
		return nil, err
	}

	scores := make([]Score, 0, len(output.Emotions))
	for _, e := range output.Emotions {
		scores = append(scores, Score{Label: e.Label, Score: e.Score})
	}
	SortScores(scores)
	return scores, nil
}

func classificationSchema() *jsonschema.Schema {
	zero, one := 0.0, 1.0
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"emotions": {
				Type:        "array",
				Description: "Detected emotions, strongest first.",
				Items: &jsonschema.Schema{
					Type: "object",
					Properties: map[string]*jsonschema.Schema{
						"label": {Type: "string", Description: "Lower-case emotion name."},
						"score": {Type: "number", Minimum: &zero, Maximum: &one},
					},
					Required: []string{"label", "score"},
				},
			},
		},
		Required: []string{"emotions"},
	}
}
