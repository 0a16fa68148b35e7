package ledger

import (
	"time"

	"mail-calendar-automation/internal/model"
)

// Action is what the pipeline did with a message.
type Action string

const (
	ActionCreated              Action = "created"
	ActionSkipped              Action = "skipped"
	ActionFailed               Action = "failed"
	ActionEventDeleted         Action = "event_deleted"
	ActionCancellationNotFound Action = "cancellation_not_found"
	ActionDeletionFailed       Action = "deletion_failed"
	ActionCancellationError    Action = "cancellation_error"
)

// Actions lists every known action in a stable order.
var Actions = []Action{
	ActionCreated,
	ActionSkipped,
	ActionFailed,
	ActionEventDeleted,
	ActionCancellationNotFound,
	ActionDeletionFailed,
	ActionCancellationError,
}

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	for _, known := range Actions {
		if a == known {
			return true
		}
	}
	return false
}

// Record is one audit entry.
type Record struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Action    Action    `json:"action"`

	MessageID string `json:"message_id,omitempty"`
	Subject   string `json:"subject,omitempty"`
	From      string `json:"from,omitempty"`

	// Descriptor is what extraction produced.
	Descriptor *model.EventDescriptor `json:"descriptor,omitempty"`
	// Event is the calendar entry created, matched or deleted.
	Event  *model.CalendarEvent `json:"event,omitempty"`
	Score  float64              `json:"score,omitempty"`
	Error  string               `json:"error,omitempty"`
	DryRun bool                 `json:"dry_run,omitempty"`
}

// Stats aggregates the ledger.
type Stats struct {
	Total                int            `json:"total"`
	Created              int            `json:"created"`
	Skipped              int            `json:"skipped"`
	Failed               int            `json:"failed"`
	Deleted              int            `json:"deleted"`
	CancellationNotFound int            `json:"cancellation_not_found"`
	DeletionFailed       int            `json:"deletion_failed"`
	CancellationError    int            `json:"cancellation_error"`
	ByDate               map[string]int `json:"by_date"`
}

func (s *Stats) add(a Action) {
	switch a {
	case ActionCreated:
		s.Created++
	case ActionSkipped:
		s.Skipped++
	case ActionFailed:
		s.Failed++
	case ActionEventDeleted:
		s.Deleted++
	case ActionCancellationNotFound:
		s.CancellationNotFound++
	case ActionDeletionFailed:
		s.DeletionFailed++
	case ActionCancellationError:
		s.CancellationError++
	}
}
