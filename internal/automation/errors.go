package automation

import "errors"

var (
	ErrExtraction  = errors.New("event extraction failed")
	ErrCorrelation = errors.New("calendar lookup failed")
	ErrInsert      = errors.New("event creation failed")
	ErrDelete      = errors.New("event deletion failed")
	ErrNoMailbox   = errors.New("mailbox not configured")
)
