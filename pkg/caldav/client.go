package caldav

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav/caldav"
	"github.com/google/uuid"
)

var ErrCalendarNotFound = errors.New("caldav calendar not found")

// Client reads and writes events of one CalDAV calendar.
type Client struct {
	dav          *caldav.Client
	calendarPath string
}

// New connects to cfg.Endpoint and discovers the calendar by name.
// httpClient may be nil.
func New(ctx context.Context, cfg Config, httpClient *http.Client) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("caldav endpoint is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	next := httpClient.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	authed := *httpClient
	authed.Transport = &basicAuthTransport{
		username:  cfg.Username,
		password:  cfg.Password,
		userAgent: cfg.UserAgent,
		next:      next,
	}

	dav, err := caldav.NewClient(&authed, cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create caldav client: %w", err)
	}

	c := &Client{dav: dav}
	c.calendarPath, err = c.findCalendar(ctx, cfg.CalendarName)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// CalendarPath returns the discovered calendar collection path.
func (c *Client) CalendarPath() string {
	return c.calendarPath
}

func (c *Client) findCalendar(ctx context.Context, name string) (string, error) {
	principal, err := c.dav.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to find principal path: %w", err)
	}
	homeSet, err := c.dav.FindCalendarHomeSet(ctx, principal)
	if err != nil {
		return "", fmt.Errorf("failed to find calendar home set: %w", err)
	}
	calendars, err := c.dav.FindCalendars(ctx, homeSet)
	if err != nil {
		return "", fmt.Errorf("failed to find calendars: %w", err)
	}

	for _, cal := range calendars {
		if name == "" && supportsEvents(cal) {
			return cal.Path, nil
		}
		if name != "" && cal.Name == name {
			return cal.Path, nil
		}
	}
	if name == "" {
		return "", fmt.Errorf("%w: no calendar supports VEVENT", ErrCalendarNotFound)
	}
	return "", fmt.Errorf("%w: %q", ErrCalendarNotFound, name)
}

func supportsEvents(cal caldav.Calendar) bool {
	if len(cal.SupportedComponentSet) == 0 {
		return true
	}
	for _, comp := range cal.SupportedComponentSet {
		if comp == ical.CompEvent {
			return true
		}
	}
	return false
}

// ListEvents returns the VEVENTs intersecting [start, end]. All-day dates are
// read at midnight in loc.
func (c *Client) ListEvents(ctx context.Context, start, end time.Time, loc *time.Location) ([]Event, error) {
	query := &caldav.CalendarQuery{
		CompRequest: caldav.CalendarCompRequest{
			Name:  ical.CompCalendar,
			Comps: []caldav.CalendarCompRequest{{Name: ical.CompEvent, AllProps: true}},
		},
		CompFilter: caldav.CompFilter{
			Name: ical.CompCalendar,
			Comps: []caldav.CompFilter{{
				Name:  ical.CompEvent,
				Start: start.UTC(),
				End:   end.UTC(),
			}},
		},
	}

	objects, err := c.dav.QueryCalendar(ctx, c.calendarPath, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query caldav calendar: %w", err)
	}

	var events []Event
	for _, obj := range objects {
		evs, err := eventsFromObject(obj, loc)
		if err != nil {
			return nil, err
		}
		events = append(events, evs...)
	}
	return events, nil
}

// PutEvent stores ev as a new calendar object and returns it with UID and Path set.
func (c *Client) PutEvent(ctx context.Context, ev Event) (Event, error) {
	if ev.UID == "" {
		ev.UID = uuid.NewString()
	}
	ev.Path = path.Join(c.calendarPath, ev.UID+".ics")

	if _, err := c.dav.PutCalendarObject(ctx, ev.Path, toCalendar(ev, time.Now().UTC())); err != nil {
		return Event{}, fmt.Errorf("failed to put caldav event: %w", err)
	}
	return ev, nil
}

// DeleteEvent removes the calendar object at objectPath.
func (c *Client) DeleteEvent(ctx context.Context, objectPath string) error {
	if err := c.dav.RemoveAll(ctx, objectPath); err != nil {
		return fmt.Errorf("failed to delete caldav event %s: %w", objectPath, err)
	}
	return nil
}

func toCalendar(ev Event, stamp time.Time) *ical.Calendar {
	vevent := ical.NewComponent(ical.CompEvent)
	vevent.Props.SetText(ical.PropUID, ev.UID)
	vevent.Props.SetText(ical.PropSummary, ev.Summary)
	vevent.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
	vevent.Props.SetDateTime(ical.PropDateTimeStart, ev.Start)
	vevent.Props.SetDateTime(ical.PropDateTimeEnd, ev.End)
	if ev.Description != "" {
		vevent.Props.SetText(ical.PropDescription, ev.Description)
	}
	if ev.Location != "" {
		vevent.Props.SetText(ical.PropLocation, ev.Location)
	}

	for _, a := range ev.Alarms {
		alarm := ical.NewComponent(ical.CompAlarm)
		alarm.Props.SetText(ical.PropAction, a.Action)
		trigger := ical.NewProp(ical.PropTrigger)
		trigger.Value = triggerValue(a.Before)
		alarm.Props.Set(trigger)
		alarm.Props.SetText(ical.PropDescription, ev.Summary)
		if a.Action == "EMAIL" {
			alarm.Props.SetText(ical.PropSummary, ev.Summary)
		}
		vevent.Children = append(vevent.Children, alarm)
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Children = append(cal.Children, vevent)
	return cal
}

func eventsFromObject(obj caldav.CalendarObject, loc *time.Location) ([]Event, error) {
	if obj.Data == nil {
		return nil, nil
	}
	if loc == nil {
		loc = time.UTC
	}

	var events []Event
	for _, e := range obj.Data.Events() {
		ev := Event{Path: obj.Path}
		ev.UID, _ = e.Props.Text(ical.PropUID)
		ev.Summary, _ = e.Props.Text(ical.PropSummary)
		ev.Description, _ = e.Props.Text(ical.PropDescription)
		ev.Location, _ = e.Props.Text(ical.PropLocation)

		start, err := e.DateTimeStart(loc)
		if err != nil {
			return nil, fmt.Errorf("caldav object %s: invalid DTSTART: %w", obj.Path, err)
		}
		ev.Start = start
		if p := e.Props.Get(ical.PropDateTimeStart); p != nil && p.ValueType() == ical.ValueDate {
			ev.AllDay = true
		}
		if end, err := e.DateTimeEnd(loc); err == nil {
			ev.End = end
		}
		if strings.TrimSpace(ev.UID) == "" {
			ev.UID = path.Base(strings.TrimSuffix(obj.Path, ".ics"))
		}
		events = append(events, ev)
	}
	return events, nil
}

// triggerValue formats a negative RFC 5545 duration in whole minutes.
func triggerValue(before time.Duration) string {
	return fmt.Sprintf("-PT%dM", int64(before/time.Minute))
}
