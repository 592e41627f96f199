package assistant

import "errors"

// Common errors returned by Asker implementations
var (
	// ErrAskFailed is returned when a model request fails for any general reason
	ErrAskFailed = errors.New("language model request failed")

	// ErrEmptyReply is returned when the model answered with no usable text
	ErrEmptyReply = errors.New("empty reply from language model")

	// ErrContentBlocked is returned when the model refuses the prompt on safety grounds
	ErrContentBlocked = errors.New("prompt blocked by language model safety filters")

	// ErrTransientFailure is returned for timeouts and other temporary errors
	// that might resolve if the caller chooses to try again later
	ErrTransientFailure = errors.New("transient language model error")

	// ErrInvalidConfig is returned when an Asker is constructed with unusable settings
	ErrInvalidConfig = errors.New("invalid assistant configuration")
)
