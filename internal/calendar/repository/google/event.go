package google

import (
	"context"
	"time"

	"mail-calendar-automation/internal/calendar"
	"mail-calendar-automation/internal/model"
	"mail-calendar-automation/pkg/gcalendar"
)

func (r *implRepository) ListEvents(ctx context.Context, start, end time.Time) ([]model.CalendarEvent, error) {
	items, err := r.client.ListEvents(ctx, gcalendar.ListEventsRequest{
		CalendarID:   r.calendarID,
		TimeMin:      start,
		TimeMax:      end,
		DateLocation: r.loc,
	})
	if err != nil {
		return nil, calendar.Unavailable("list", gcalendar.IsAuthError(err), err)
	}

	events := make([]model.CalendarEvent, 0, len(items))
	for _, it := range items {
		events = append(events, toModel(it))
	}
	return events, nil
}

func (r *implRepository) InsertEvent(ctx context.Context, d model.EventDescriptor) (model.CalendarEvent, error) {
	zone := d.TimeZone
	if zone == "" {
		zone = r.zone
	}

	created, err := r.client.CreateEvent(ctx, gcalendar.CreateEventRequest{
		CalendarID:  r.calendarID,
		Summary:     d.Title,
		Description: d.Description,
		Location:    d.Location,
		StartTime:   d.Start,
		EndTime:     d.End,
		Timezone:    zone,
		Reminders:   gcalendar.DefaultReminders,
	})
	if err != nil {
		return model.CalendarEvent{}, calendar.Unavailable("insert", gcalendar.IsAuthError(err), err)
	}
	return toModel(*created), nil
}

func (r *implRepository) DeleteEvent(ctx context.Context, ev model.CalendarEvent) error {
	id := ev.Ref
	if id == "" {
		id = ev.ID
	}
	if err := r.client.DeleteEvent(ctx, r.calendarID, id); err != nil {
		return calendar.Unavailable("delete", gcalendar.IsAuthError(err), err)
	}
	return nil
}

func toModel(e gcalendar.Event) model.CalendarEvent {
	return model.CalendarEvent{
		ID:       e.ID,
		Title:    e.Summary,
		Start:    e.StartTime,
		End:      e.EndTime,
		AllDay:   e.AllDay,
		Location: e.Location,
		HTMLLink: e.HtmlLink,
		Ref:      e.ID,
	}
}
