package automation

import (
	"time"

	"mail-calendar-automation/internal/ledger"
	"mail-calendar-automation/internal/model"
)

const (
	DefaultMaxResults         = 10
	DefaultProcessedCacheSize = 1000
	DefaultProcessedCacheTTL  = 24 * time.Hour
)

// Options configures the pipeline.
type Options struct {
	ConfirmationQuery string
	CancellationQuery string
	MaxResults        int64
	// DryRun reports decisions without touching the calendar, the mailbox or the ledger.
	DryRun             bool
	ProcessedCacheSize int
	ProcessedCacheTTL  time.Duration
}

// Outcome is what happened to one message.
type Outcome struct {
	MessageID  string                 `json:"message_id"`
	Subject    string                 `json:"subject,omitempty"`
	Kind       model.MessageKind      `json:"kind"`
	Action     ledger.Action          `json:"action,omitempty"` // empty when nothing is recorded
	Descriptor *model.EventDescriptor `json:"descriptor,omitempty"`
	Event      *model.CalendarEvent   `json:"event,omitempty"`
	Score      float64                `json:"score,omitempty"`
	MarkedRead bool                   `json:"marked_read"`
	DryRun     bool                   `json:"dry_run,omitempty"`
	Error      string                 `json:"error,omitempty"`
	// Retry is set when the message was left unread so the next poll tries again.
	Retry bool `json:"retry,omitempty"`
}

// InboxOutput summarizes one poll.
type InboxOutput struct {
	Confirmations []Outcome `json:"confirmations"`
	Cancellations []Outcome `json:"cancellations"`
	// AlreadySeen counts messages skipped because this process already handled them.
	AlreadySeen int `json:"already_seen"`
}

// Processed returns the number of messages handled in the poll.
func (o InboxOutput) Processed() int {
	return len(o.Confirmations) + len(o.Cancellations)
}
