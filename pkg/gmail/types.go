package gmail

const (
	DefaultUserID     = "me"
	DefaultMaxResults = 10
	// MaxBodyChars caps the decoded plain-text body handed to extraction.
	MaxBodyChars = 2000

	labelUnread = "UNREAD"
)

// Message is a decoded Gmail message.
type Message struct {
	ID        string
	ThreadID  string
	Subject   string
	From      string
	Date      string
	Body      string // concatenated text/plain parts, capped at MaxBodyChars runes
	Snippet   string
	Calendars []string // text/calendar parts and .ics attachments
}
