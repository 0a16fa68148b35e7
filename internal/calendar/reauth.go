package calendar

import (
	"context"
	"time"

	"mail-calendar-automation/internal/model"
	pkgLog "mail-calendar-automation/pkg/log"
)

type reauth struct {
	next      Repository
	refresher Refresher
	l         pkgLog.Logger
}

// WithReauth retries a call once after refreshing credentials when the
// calendar rejected them. Other failures pass through untouched.
func WithReauth(repo Repository, refresher Refresher, l pkgLog.Logger) Repository {
	if refresher == nil {
		return repo
	}
	return &reauth{next: repo, refresher: refresher, l: l}
}

func (r *reauth) ListEvents(ctx context.Context, start, end time.Time) ([]model.CalendarEvent, error) {
	events, err := r.next.ListEvents(ctx, start, end)
	if r.refreshed(ctx, err) {
		return r.next.ListEvents(ctx, start, end)
	}
	return events, err
}

func (r *reauth) InsertEvent(ctx context.Context, d model.EventDescriptor) (model.CalendarEvent, error) {
	ev, err := r.next.InsertEvent(ctx, d)
	if r.refreshed(ctx, err) {
		return r.next.InsertEvent(ctx, d)
	}
	return ev, err
}

func (r *reauth) DeleteEvent(ctx context.Context, ev model.CalendarEvent) error {
	err := r.next.DeleteEvent(ctx, ev)
	if r.refreshed(ctx, err) {
		return r.next.DeleteEvent(ctx, ev)
	}
	return err
}

// refreshed reports whether err called for a refresh and the refresh succeeded.
func (r *reauth) refreshed(ctx context.Context, err error) bool {
	if !IsAuth(err) {
		return false
	}
	r.l.Warnf(ctx, "calendar: credentials rejected, refreshing: %v", err)
	if rerr := r.refresher.Refresh(ctx); rerr != nil {
		r.l.Errorf(ctx, "calendar: credential refresh failed: %v", rerr)
		return false
	}
	return true
}
