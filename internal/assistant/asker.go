package assistant

import "context"

// Asker is the text-in, text-out capability an external language model
// provides to the rest of the application.
type Asker interface {
	// Ask sends one prompt and returns the model's reply text. A single
	// call makes at most one model request: retry policy, if any, belongs
	// to the caller. Implementations bound the request with their own
	// timeout on top of ctx.
	//
	// The returned error is one of the sentinel errors in errors.go,
	// wrapped around the underlying cause.
	Ask(ctx context.Context, prompt string) (string, error)
}
