package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// Client wraps the Gmail API service.
type Client struct {
	service *gmailapi.Service
	userID  string
}

// NewClientFromTokenSource creates a Gmail client authorized by ts.
func NewClientFromTokenSource(ctx context.Context, ts oauth2.TokenSource, userID string) (*Client, error) {
	svc, err := gmailapi.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}
	return &Client{service: svc, userID: defaultUser(userID)}, nil
}

// NewClientFromHTTP creates a Gmail client from a pre-configured HTTP client.
func NewClientFromHTTP(ctx context.Context, httpClient *http.Client, userID string) (*Client, error) {
	svc, err := gmailapi.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}
	return &Client{service: svc, userID: defaultUser(userID)}, nil
}

// ListMessageIDs returns at most max message ids matching the Gmail search query.
func (c *Client) ListMessageIDs(ctx context.Context, query string, max int64) ([]string, error) {
	if max <= 0 {
		max = DefaultMaxResults
	}
	resp, err := c.service.Users.Messages.List(c.userID).Q(query).MaxResults(max).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list messages for %q: %w", query, err)
	}

	ids := make([]string, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		ids = append(ids, m.Id)
		if int64(len(ids)) == max {
			break
		}
	}
	return ids, nil
}

// GetMessage fetches and decodes one message.
func (c *Client) GetMessage(ctx context.Context, id string) (*Message, error) {
	m, err := c.service.Users.Messages.Get(c.userID, id).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", id, err)
	}

	msg := &Message{ID: m.Id, ThreadID: m.ThreadId, Snippet: m.Snippet}
	if m.Payload == nil {
		return msg, nil
	}

	msg.Subject = header(m.Payload.Headers, "Subject")
	msg.From = header(m.Payload.Headers, "From")
	msg.Date = header(m.Payload.Headers, "Date")

	var body strings.Builder
	if len(m.Payload.Parts) > 0 {
		if err := c.walkParts(ctx, id, m.Payload.Parts, &body, msg); err != nil {
			return nil, err
		}
	} else if m.Payload.Body != nil && m.Payload.Body.Data != "" {
		text, err := decode(m.Payload.Body.Data)
		if err != nil {
			return nil, fmt.Errorf("message %s: %w", id, err)
		}
		if isCalendarPart(m.Payload) {
			msg.Calendars = append(msg.Calendars, text)
		} else {
			body.WriteString(text)
		}
	}

	msg.Body = truncate(body.String(), MaxBodyChars)
	return msg, nil
}

// MarkAsRead removes the UNREAD label.
func (c *Client) MarkAsRead(ctx context.Context, id string) error {
	req := &gmailapi.ModifyMessageRequest{RemoveLabelIds: []string{labelUnread}}
	if _, err := c.service.Users.Messages.Modify(c.userID, id, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to mark message %s as read: %w", id, err)
	}
	return nil
}

func (c *Client) walkParts(ctx context.Context, msgID string, parts []*gmailapi.MessagePart, body *strings.Builder, msg *Message) error {
	for _, p := range parts {
		switch {
		case isCalendarPart(p):
			text, err := c.partData(ctx, msgID, p)
			if err != nil {
				return err
			}
			if text != "" {
				msg.Calendars = append(msg.Calendars, text)
			}
		case p.MimeType == "text/plain" && p.Body != nil && p.Body.Data != "":
			text, err := decode(p.Body.Data)
			if err != nil {
				return fmt.Errorf("message %s: %w", msgID, err)
			}
			body.WriteString(text)
		case len(p.Parts) > 0:
			if err := c.walkParts(ctx, msgID, p.Parts, body, msg); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Client) partData(ctx context.Context, msgID string, p *gmailapi.MessagePart) (string, error) {
	if p.Body == nil {
		return "", nil
	}
	if p.Body.Data != "" {
		return decode(p.Body.Data)
	}
	if p.Body.AttachmentId == "" {
		return "", nil
	}
	att, err := c.service.Users.Messages.Attachments.Get(c.userID, msgID, p.Body.AttachmentId).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to get attachment of message %s: %w", msgID, err)
	}
	return decode(att.Data)
}

func isCalendarPart(p *gmailapi.MessagePart) bool {
	mime := strings.ToLower(p.MimeType)
	return mime == "text/calendar" || mime == "application/ics" ||
		strings.HasSuffix(strings.ToLower(p.Filename), ".ics")
}

func header(headers []*gmailapi.MessagePartHeader, name string) string {
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

func decode(data string) (string, error) {
	b, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		b, err = base64.RawURLEncoding.DecodeString(strings.TrimRight(data, "="))
		if err != nil {
			return "", fmt.Errorf("failed to decode body: %w", err)
		}
	}
	return string(b), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func defaultUser(id string) string {
	if id == "" {
		return DefaultUserID
	}
	return id
}
