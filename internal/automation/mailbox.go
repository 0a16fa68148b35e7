package automation

import (
	"context"
	"net/mail"

	"mail-calendar-automation/internal/model"
	"mail-calendar-automation/pkg/gmail"
)

type gmailMailbox struct {
	client *gmail.Client
}

// NewGmailMailbox adapts a Gmail client to Mailbox.
func NewGmailMailbox(client *gmail.Client) Mailbox {
	return &gmailMailbox{client: client}
}

func (m *gmailMailbox) ListMessageIDs(ctx context.Context, query string, max int64) ([]string, error) {
	return m.client.ListMessageIDs(ctx, query, max)
}

func (m *gmailMailbox) GetMessage(ctx context.Context, id string) (model.Message, error) {
	msg, err := m.client.GetMessage(ctx, id)
	if err != nil {
		return model.Message{}, err
	}
	return toModelMessage(msg), nil
}

func (m *gmailMailbox) MarkAsRead(ctx context.Context, id string) error {
	return m.client.MarkAsRead(ctx, id)
}

func toModelMessage(msg *gmail.Message) model.Message {
	out := model.Message{
		ID:        msg.ID,
		ThreadID:  msg.ThreadID,
		Subject:   msg.Subject,
		From:      msg.From,
		Date:      msg.Date,
		Body:      msg.Body,
		Snippet:   msg.Snippet,
		Calendars: msg.Calendars,
	}
	if t, err := mail.ParseDate(msg.Date); err == nil {
		out.ReceivedAt = t
	}
	return out
}
