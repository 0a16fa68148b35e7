package caldav

import (
	"net/http"
	"time"
)

const productID = "-//mail-calendar-automation//EN"

// Config locates the CalDAV calendar.
type Config struct {
	Endpoint     string // e.g. https://caldav.icloud.com/
	Username     string
	Password     string
	CalendarName string // empty picks the first calendar supporting VEVENT
	UserAgent    string
}

// Alarm is a VALARM relative to the event start.
type Alarm struct {
	Action string // "EMAIL" or "DISPLAY"
	Before time.Duration
}

// Event is a VEVENT stored as its own calendar object.
type Event struct {
	UID         string
	Path        string // object path, used for deletion
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	AllDay      bool
	Alarms      []Alarm
}

// basicAuthTransport adds credentials and a user agent to every request.
type basicAuthTransport struct {
	username  string
	password  string
	userAgent string
	next      http.RoundTripper
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if t.username != "" {
		req.SetBasicAuth(t.username, t.password)
	}
	if t.userAgent != "" {
		req.Header.Set("User-Agent", t.userAgent)
	}
	return t.next.RoundTrip(req)
}
