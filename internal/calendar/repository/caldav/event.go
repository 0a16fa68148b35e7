package caldav

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/emersion/go-webdav"

	"mail-calendar-automation/internal/calendar"
	"mail-calendar-automation/internal/model"
	pkgCaldav "mail-calendar-automation/pkg/caldav"
)

// alarms mirror the reminders set on Google Calendar events.
var alarms = []pkgCaldav.Alarm{
	{Action: "EMAIL", Before: 24 * time.Hour},
	{Action: "DISPLAY", Before: 30 * time.Minute},
}

func (r *implRepository) ListEvents(ctx context.Context, start, end time.Time) ([]model.CalendarEvent, error) {
	items, err := r.client.ListEvents(ctx, start, end, r.loc)
	if err != nil {
		return nil, calendar.Unavailable("list", isAuthError(err), err)
	}

	events := make([]model.CalendarEvent, 0, len(items))
	for _, it := range items {
		events = append(events, toModel(it))
	}
	// CalDAV servers do not promise any order.
	slices.SortStableFunc(events, func(a, b model.CalendarEvent) int { return a.Start.Compare(b.Start) })
	return events, nil
}

func (r *implRepository) InsertEvent(ctx context.Context, d model.EventDescriptor) (model.CalendarEvent, error) {
	loc := r.loc
	if d.TimeZone != "" {
		if l, err := time.LoadLocation(d.TimeZone); err == nil {
			loc = l
		}
	}

	stored, err := r.client.PutEvent(ctx, pkgCaldav.Event{
		Summary:     d.Title,
		Description: d.Description,
		Location:    d.Location,
		Start:       d.Start.In(loc),
		End:         d.End.In(loc),
		Alarms:      alarms,
	})
	if err != nil {
		return model.CalendarEvent{}, calendar.Unavailable("insert", isAuthError(err), err)
	}
	return toModel(stored), nil
}

func (r *implRepository) DeleteEvent(ctx context.Context, ev model.CalendarEvent) error {
	if err := r.client.DeleteEvent(ctx, ev.Ref); err != nil {
		return calendar.Unavailable("delete", isAuthError(err), err)
	}
	return nil
}

func toModel(e pkgCaldav.Event) model.CalendarEvent {
	return model.CalendarEvent{
		ID:       e.UID,
		Title:    e.Summary,
		Start:    e.Start,
		End:      e.End,
		AllDay:   e.AllDay,
		Location: e.Location,
		Ref:      e.Path,
	}
}

func isAuthError(err error) bool {
	var httpErr *webdav.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code == http.StatusUnauthorized || httpErr.Code == http.StatusForbidden
	}
	return false
}
