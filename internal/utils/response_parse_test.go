package utils

import "testing"

func TestParseClassification(t *testing.T) {
	got, err := ParseClassification(`{"emotions":[{"label":"anger","score":0.91},{"label":"sadness","score":0.05}]}`)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got.Emotions) != 2 {
		t.Fatalf("expected 2 emotions, got %d", len(got.Emotions))
	}
	if got.Emotions[0].Label != "anger" || got.Emotions[0].Score != 0.91 {
		t.Fatalf("unexpected first emotion: %+v", got.Emotions[0])
	}
}

func TestParseClassificationWithWrapper(t *testing.T) {
	got, err := ParseClassification("```json\n{\"emotions\":[{\"label\":\" Joy \",\"score\":1.4}]}\n```")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.Emotions[0].Label != "Joy" {
		t.Fatalf("expected trimmed label, got %q", got.Emotions[0].Label)
	}
	if got.Emotions[0].Score != 1 {
		t.Fatalf("expected clamped score, got %v", got.Emotions[0].Score)
	}
}

func TestParseClassificationDropsBlankLabels(t *testing.T) {
	got, err := ParseClassification(`{"emotions":[{"label":"  ","score":0.9},{"label":"fear","score":-2}]}`)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got.Emotions) != 1 || got.Emotions[0].Label != "fear" || got.Emotions[0].Score != 0 {
		t.Fatalf("unexpected emotions: %+v", got.Emotions)
	}
}

func TestParseClassificationEmpty(t *testing.T) {
	if _, err := ParseClassification(`{"emotions":[]}`); err == nil {
		t.Fatalf("expected error for empty emotions")
	}
}

func TestParseClassificationInvalid(t *testing.T) {
	if _, err := ParseClassification(`not json`); err == nil {
		t.Fatalf("expected error for invalid output")
	}
}
