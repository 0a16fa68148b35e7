package extraction

import "errors"

var (
	// ErrNoEvent means the message does not describe a usable event.
	ErrNoEvent = errors.New("no event found in message")
	// ErrInvalidResponse means the model reply could not be decoded or validated.
	ErrInvalidResponse = errors.New("invalid extraction response")
)
