package gemini

import "errors"

// Error definitions for the gemini package.
var (
	// ErrEmptyPrompt is returned when Ask is given a blank prompt.
	ErrEmptyPrompt = errors.New("prompt cannot be empty")
)
