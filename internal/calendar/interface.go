package calendar

import (
	"context"
	"time"

	"mail-calendar-automation/internal/model"
)

// Repository is the calendar a pipeline reconciles against. It satisfies
// correlation.WindowSource.
type Repository interface {
	// ListEvents returns events intersecting [start, end] ordered by start.
	ListEvents(ctx context.Context, start, end time.Time) ([]model.CalendarEvent, error)
	InsertEvent(ctx context.Context, d model.EventDescriptor) (model.CalendarEvent, error)
	DeleteEvent(ctx context.Context, ev model.CalendarEvent) error
}

// Refresher renews calendar credentials after an authorization failure.
type Refresher interface {
	Refresh(ctx context.Context) error
}
