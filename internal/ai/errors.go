package ai

import "errors"

var (
	// ErrUnavailable means no model is configured.
	ErrUnavailable       = errors.New("AI service unavailable")
	ErrTimeout           = errors.New("AI service timed out")
	ErrMalformedResponse = errors.New("malformed AI response")

	ErrNotTransaction = errors.New("message is not a transaction")
	ErrUnableToParse  = errors.New("unable to parse message")
	ErrMissingField   = errors.New("missing required field")
	ErrTypeNotAllowed = errors.New("transaction type not allowed")
)
