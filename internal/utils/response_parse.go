package utils

import (
	"encoding/json"
	"fmt"
	"strings"
)

// EmotionScore is one entry of the classifier's structured output.
type EmotionScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// ClassificationOutput is the structured response from the classifier model.
type ClassificationOutput struct {
	Emotions []EmotionScore `json:"emotions"`
}

// ParseClassification extracts and validates structured classifier output.
// Entries with a blank label are dropped and scores are clamped to [0,1].
func ParseClassification(raw string) (ClassificationOutput, error) {
	clean := strings.TrimSpace(raw)
	start := strings.Index(clean, "{")
	end := strings.LastIndex(clean, "}")
	if start >= 0 && end > start {
		clean = clean[start : end+1]
	}

	var output ClassificationOutput
	if err := json.Unmarshal([]byte(clean), &output); err != nil {
		return ClassificationOutput{}, fmt.Errorf("failed to parse classification output: %w", err)
	}

	emotions := make([]EmotionScore, 0, len(output.Emotions))
	for _, e := range output.Emotions {
		e.Label = strings.TrimSpace(e.Label)
		if e.Label == "" {
			continue
		}
		e.Score = clampScore(e.Score)
		emotions = append(emotions, e)
	}
	if len(emotions) == 0 {
		return ClassificationOutput{}, fmt.Errorf("missing emotions")
	}

	output.Emotions = emotions
	return output, nil
}

func clampScore(score float64) float64 {
	if score != score || score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
