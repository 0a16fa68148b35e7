package correlation

import (
	"context"
	"time"

	"mail-calendar-automation/internal/model"
)

// UseCase decides whether an extracted descriptor refers to an event that
// already exists on the calendar. It never mutates the calendar.
type UseCase interface {
	// FindDuplicate returns the first existing event that makes creating d redundant.
	FindDuplicate(ctx context.Context, d model.EventDescriptor) (Result, error)
	// FindCancellationTarget returns the existing event a cancellation of d should remove.
	FindCancellationTarget(ctx context.Context, d model.EventDescriptor) (Result, error)
}

// WindowSource lists calendar events whose interval intersects [windowStart, windowEnd].
// Errors are returned to the caller untouched.
type WindowSource interface {
	ListEvents(ctx context.Context, windowStart, windowEnd time.Time) ([]model.CalendarEvent, error)
}
