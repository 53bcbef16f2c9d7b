package prompt

import (
	"strings"
	"testing"

	"github.com/easeaico/moodtales/internal/emotion"
)

func TestDefaultTableLookupKnownLabels(t *testing.T) {
	table := DefaultTable()
	if table.Len() != len(storyInstructions) {
		t.Fatalf("expected %d entries, got %d", len(storyInstructions), table.Len())
	}

	for label, want := range storyInstructions {
		got, matched := table.Lookup(label)
		if !matched {
			t.Fatalf("expected %q to match", label)
		}
		if got != want {
			t.Fatalf("unexpected instruction for %q: %q", label, got)
		}
	}
}

func TestDefaultTableLookupIsCaseInsensitive(t *testing.T) {
	table := DefaultTable()
	for _, raw := range []string{"ANGER", "Anger", " anger ", "aNgEr"} {
		got, matched := table.Lookup(emotion.EmotionLabel(raw))
		if !matched || got != storyInstructions["anger"] {
			t.Fatalf("lookup %q: got %q matched=%v", raw, got, matched)
		}
	}
}

func TestDefaultTableLookupUnknownUsesFallback(t *testing.T) {
	table := DefaultTable()
	for _, raw := range []string{"euphoria", "", "neutral", "   "} {
		got, matched := table.Lookup(emotion.EmotionLabel(raw))
		if matched {
			t.Fatalf("expected %q to miss", raw)
		}
		if got != FallbackInstruction {
			t.Fatalf("expected fallback for %q, got %q", raw, got)
		}
	}
}

func TestNewTableCustomFallback(t *testing.T) {
	table := NewTable(map[string]string{"Calm": "Write about calm seas."}, "Write anything.")

	got, matched := table.Lookup("calm")
	if !matched || got != "Write about calm seas." {
		t.Fatalf("unexpected lookup: %q %v", got, matched)
	}
	got, matched = table.Lookup("storm")
	if matched || got != "Write anything." {
		t.Fatalf("unexpected fallback: %q %v", got, matched)
	}
	if table.Fallback() != "Write anything." {
		t.Fatalf("unexpected fallback accessor: %q", table.Fallback())
	}
}

func TestNewTableEmptyFallbackDefaults(t *testing.T) {
	table := NewTable(nil, "")
	if table.Fallback() != FallbackInstruction {
		t.Fatalf("expected default fallback, got %q", table.Fallback())
	}
}

func TestTableLabelsSorted(t *testing.T) {
	labels := DefaultTable().Labels()
	if len(labels) != len(storyInstructions) {
		t.Fatalf("expected %d labels, got %d", len(storyInstructions), len(labels))
	}
	for i := 1; i < len(labels); i++ {
		if labels[i-1] >= labels[i] {
			t.Fatalf("labels not sorted at %d: %q >= %q", i, labels[i-1], labels[i])
		}
	}
}

func TestBuildClassifierInstruction(t *testing.T) {
	got, err := BuildClassifierInstruction([]emotion.EmotionLabel{"anger", "joy"}, 2)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	for _, want := range []string{"- anger", "- joy", "at most 2 emotions"} {
		if !strings.Contains(got, want) {
			t.Fatalf("instruction missing %q:\n%s", want, got)
		}
	}
}

func TestBuildClassifierInstructionDefaultsTopK(t *testing.T) {
	got, err := BuildClassifierInstruction(nil, 0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(got, "at most 3 emotions") {
		t.Fatalf("expected default top k, got:\n%s", got)
	}
	if strings.Contains(got, "Prefer these labels") {
		t.Fatalf("expected no label list without labels")
	}
}
