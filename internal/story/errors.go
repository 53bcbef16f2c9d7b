package story

import "errors"

var (
	// ErrEmptyInput is returned for blank or whitespace-only prompts.
	ErrEmptyInput = errors.New("no input provided")
	// ErrClassificationFailed is returned when the classifier errors or has no result.
	ErrClassificationFailed = errors.New("emotion classification failed")
	// ErrGenerationFailed is returned when the generator errors or has no sequence.
	ErrGenerationFailed = errors.New("story generation failed")
)
