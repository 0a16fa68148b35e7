package model

import "time"

// DefaultTimeZone is used when neither the email nor the configuration names a zone.
const DefaultTimeZone = "Europe/Madrid"

// EventDescriptor is the calendar-independent description of an activity
// extracted from a message.
type EventDescriptor struct {
	Title       string    `json:"title"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end,omitempty"` // zero when unknown (cancellations)
	Location    string    `json:"location,omitempty"`
	TimeZone    string    `json:"time_zone,omitempty"` // IANA zone
	Description string    `json:"description,omitempty"`
}

// HasEnd reports whether the descriptor carries an end instant.
func (d EventDescriptor) HasEnd() bool {
	return !d.End.IsZero()
}

// CalendarEvent is an existing calendar entry as seen by the correlation engine.
type CalendarEvent struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end,omitempty"`
	AllDay   bool      `json:"all_day,omitempty"` // Start is the date at midnight in the default zone
	Location string    `json:"location,omitempty"`
	HTMLLink string    `json:"html_link,omitempty"`
	Ref      string    `json:"ref,omitempty"` // backend reference used for deletion
}
