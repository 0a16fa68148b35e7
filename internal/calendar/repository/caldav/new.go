package caldav

import (
	"context"
	"fmt"
	"time"

	"mail-calendar-automation/internal/calendar"
	pkgCaldav "mail-calendar-automation/pkg/caldav"
)

// Client is the subset of caldav.Client the repository needs.
type Client interface {
	ListEvents(ctx context.Context, start, end time.Time, loc *time.Location) ([]pkgCaldav.Event, error)
	PutEvent(ctx context.Context, ev pkgCaldav.Event) (pkgCaldav.Event, error)
	DeleteEvent(ctx context.Context, objectPath string) error
}

type implRepository struct {
	client Client
	loc    *time.Location
}

// New wraps a CalDAV client as a calendar.Repository. Naive and all-day
// values are read in defaultTimeZone.
func New(client Client, defaultTimeZone string) (calendar.Repository, error) {
	if defaultTimeZone == "" {
		defaultTimeZone = "UTC"
	}
	loc, err := time.LoadLocation(defaultTimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid default timezone %q: %w", defaultTimeZone, err)
	}
	return &implRepository{client: client, loc: loc}, nil
}
