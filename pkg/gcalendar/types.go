package gcalendar

import "time"

const (
	DefaultCalendarID = "primary"
	defaultMaxResults = 250
)

// Reminder is an event reminder override.
type Reminder struct {
	Method  string // "email" or "popup"
	Minutes int64
}

// DefaultReminders are attached to every created event: an email a day
// before and a popup half an hour before.
var DefaultReminders = []Reminder{
	{Method: "email", Minutes: 24 * 60},
	{Method: "popup", Minutes: 30},
}

// CreateEventRequest is the input for creating a Google Calendar event.
type CreateEventRequest struct {
	CalendarID  string
	Summary     string
	Description string
	Location    string
	StartTime   time.Time
	EndTime     time.Time
	Timezone    string     // e.g. "Europe/Madrid"
	Reminders   []Reminder // nil uses the calendar defaults
}

// Event is a simplified representation of a Google Calendar event.
type Event struct {
	ID          string
	Summary     string
	Description string
	HtmlLink    string
	StartTime   time.Time
	EndTime     time.Time
	AllDay      bool
	Location    string
}

// ListEventsRequest is the input for listing Google Calendar events.
type ListEventsRequest struct {
	CalendarID string
	TimeMin    time.Time
	TimeMax    time.Time
	MaxResults int64
	// DateLocation interprets all-day dates. Defaults to UTC.
	DateLocation *time.Location
}
