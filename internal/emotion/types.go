// Package emotion classifies the emotion expressed by a piece of text.
package emotion

import (
	"context"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// EmotionLabel is a normalized emotion category.
type EmotionLabel string

// Score is one ranked classifier result.
type Score struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classifier returns emotion scores for text, best match first.
type Classifier interface {
	Classify(ctx context.Context, text string) ([]Score, error)
}

// NormalizeLabel trims and lower-cases a raw classifier label.
func NormalizeLabel(raw string) EmotionLabel {
	return EmotionLabel(strings.ToLower(strings.TrimSpace(raw)))
}

// String returns the label text.
func (l EmotionLabel) String() string {
	return string(l)
}

// Title returns the label with its first letter upper-cased, for display.
func (l EmotionLabel) Title() string {
	s := string(l)
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// SortScores orders scores by descending score, keeping the input order for ties.
func SortScores(scores []Score) {
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
}
