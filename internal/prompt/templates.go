package prompt

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/easeaico/moodtales/internal/emotion"
)

const classifierTemplateText = `You are an emotion classifier.
Read the user's text and rank the emotions it expresses.

{{- if .Labels}}
Prefer these labels when one of them fits:
{{- range .Labels}}
- {{.}}
{{- end}}
{{- end}}

Output requirements:
- Return at most {{.TopK}} emotions, strongest first
- Each emotion has a lower-case "label" and a "score" between 0 and 1
- Return a valid JSON object that matches the output schema
- Do not include any extra keys or text outside the JSON object`

var classifierTemplate = template.Must(template.New("classifier").Parse(classifierTemplateText))

// BuildClassifierInstruction renders the system instruction for an LLM-backed
// emotion classifier.
func BuildClassifierInstruction(labels []emotion.EmotionLabel, topK int) (string, error) {
	if topK <= 0 {
		topK = 3
	}

	data := struct {
		Labels []emotion.EmotionLabel
		TopK   int
	}{
		Labels: labels,
		TopK:   topK,
	}

	var buf bytes.Buffer
	if err := classifierTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to build classifier instruction: %w", err)
	}
	return buf.String(), nil
}
