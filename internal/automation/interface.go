package automation

import (
	"context"

	"mail-calendar-automation/internal/model"
)

// UseCase turns booking emails into calendar changes.
type UseCase interface {
	// ProcessInbox polls confirmations then cancellations and handles every new message.
	ProcessInbox(ctx context.Context) (InboxOutput, error)
	// ProcessConfirmation creates the event a confirmation email announces unless it already exists.
	ProcessConfirmation(ctx context.Context, msg model.Message) (Outcome, error)
	// ProcessCancellation deletes the event a cancellation email refers to.
	ProcessCancellation(ctx context.Context, msg model.Message) (Outcome, error)
}

// Mailbox is the mail source the pipeline polls.
type Mailbox interface {
	ListMessageIDs(ctx context.Context, query string, max int64) ([]string, error)
	GetMessage(ctx context.Context, id string) (model.Message, error)
	MarkAsRead(ctx context.Context, id string) error
}
