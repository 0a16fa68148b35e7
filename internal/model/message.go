package model

import "time"

// MessageKind distinguishes the two mailbox queries the pipeline polls.
type MessageKind string

const (
	KindConfirmation MessageKind = "confirmation"
	KindCancellation MessageKind = "cancellation"
)

// Message is a fetched email reduced to what extraction needs.
type Message struct {
	ID         string    `json:"id"`
	ThreadID   string    `json:"thread_id,omitempty"`
	Subject    string    `json:"subject"`
	From       string    `json:"from"`
	Date       string    `json:"date"`
	Body       string    `json:"body"`
	Snippet    string    `json:"snippet,omitempty"`
	Calendars  []string  `json:"calendars,omitempty"` // raw text/calendar parts
	ReceivedAt time.Time `json:"received_at,omitempty"`
}
