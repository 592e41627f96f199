// Package gemini provides an implementation of the assistant.Asker interface
// backed by Google's Gemini API.
//
// This package is an infrastructure adapter: it connects the application's
// reasoning surfaces (recurrence prediction, priority advice, summaries) to
// the external model service without exposing any API details to the core
// application. Prompt construction stays with the callers; this package only
// transports a finished prompt and classifies what came back.
//
// Replies are requested at temperature zero, every call is bounded by the
// configured request timeout, and a single Ask never retries. Failures are
// translated onto the assistant package's sentinel errors (ErrAskFailed,
// ErrEmptyReply, ErrContentBlocked, ErrTransientFailure) so callers can
// degrade without knowing which provider sits behind the interface.
package gemini
