package google

import (
	"context"
	"fmt"
	"time"

	"mail-calendar-automation/internal/calendar"
	"mail-calendar-automation/pkg/gcalendar"
)

// Client is the subset of gcalendar.Client the repository needs.
type Client interface {
	CreateEvent(ctx context.Context, req gcalendar.CreateEventRequest) (*gcalendar.Event, error)
	ListEvents(ctx context.Context, req gcalendar.ListEventsRequest) ([]gcalendar.Event, error)
	DeleteEvent(ctx context.Context, calendarID, eventID string) error
}

// Options configures the Google Calendar repository.
type Options struct {
	CalendarID      string
	DefaultTimeZone string
}

type implRepository struct {
	client     Client
	calendarID string
	zone       string
	loc        *time.Location
}

// New wraps a Google Calendar client as a calendar.Repository.
func New(client Client, opt Options) (calendar.Repository, error) {
	zone := opt.DefaultTimeZone
	if zone == "" {
		zone = "UTC"
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("invalid default timezone %q: %w", zone, err)
	}
	calID := opt.CalendarID
	if calID == "" {
		calID = gcalendar.DefaultCalendarID
	}
	return &implRepository{client: client, calendarID: calID, zone: zone, loc: loc}, nil
}
