package caldav

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/emersion/go-webdav"

	"mail-calendar-automation/internal/calendar"
	"mail-calendar-automation/internal/model"
	pkgCaldav "mail-calendar-automation/pkg/caldav"
)

type mockClient struct {
	events  []pkgCaldav.Event
	put     pkgCaldav.Event
	deleted string
	loc     *time.Location
	err     error
}

func (m *mockClient) ListEvents(_ context.Context, _, _ time.Time, loc *time.Location) ([]pkgCaldav.Event, error) {
	m.loc = loc
	return m.events, m.err
}

func (m *mockClient) PutEvent(_ context.Context, ev pkgCaldav.Event) (pkgCaldav.Event, error) {
	m.put = ev
	if m.err != nil {
		return pkgCaldav.Event{}, m.err
	}
	ev.UID = "uid-1"
	ev.Path = "/cal/uid-1.ics"
	return ev, nil
}

func (m *mockClient) DeleteEvent(_ context.Context, path string) error {
	m.deleted = path
	return m.err
}

func TestListEventsSortsByStart(t *testing.T) {
	base := time.Date(2024, 1, 15, 14, 0, 0, 0, time.UTC)
	client := &mockClient{events: []pkgCaldav.Event{
		{UID: "late", Start: base.Add(time.Hour)},
		{UID: "early", Start: base},
	}}
	repo, err := New(client, "Europe/Madrid")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	events, err := repo.ListEvents(context.Background(), base.Add(-time.Hour), base.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 2 || events[0].ID != "early" || events[1].ID != "late" {
		t.Errorf("unexpected order: %+v", events)
	}
	if client.loc.String() != "Europe/Madrid" {
		t.Errorf("expected default zone, got %v", client.loc)
	}
}

func TestInsertAndDelete(t *testing.T) {
	client := &mockClient{}
	repo, _ := New(client, "Europe/Madrid")
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	ev, err := repo.InsertEvent(context.Background(), model.EventDescriptor{Title: "Yoga", Start: start, End: start.Add(time.Hour)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.ID != "uid-1" || ev.Ref != "/cal/uid-1.ics" {
		t.Errorf("unexpected event: %+v", ev)
	}
	if len(client.put.Alarms) != 2 || client.put.Start.Location().String() != "Europe/Madrid" {
		t.Errorf("unexpected put: %+v", client.put)
	}

	if err := repo.DeleteEvent(context.Background(), ev); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.deleted != "/cal/uid-1.ics" {
		t.Errorf("deleted %q", client.deleted)
	}
}

func TestErrors(t *testing.T) {
	client := &mockClient{err: fmt.Errorf("query: %w", &webdav.HTTPError{Code: http.StatusUnauthorized})}
	repo, _ := New(client, "")

	_, err := repo.ListEvents(context.Background(), time.Now(), time.Now())
	if !errors.Is(err, calendar.ErrUnavailable) || !calendar.IsAuth(err) {
		t.Errorf("expected auth unavailable error, got %v", err)
	}

	client.err = errors.New("connection refused")
	err = repo.DeleteEvent(context.Background(), model.CalendarEvent{Ref: "/x.ics"})
	if !errors.Is(err, calendar.ErrUnavailable) || calendar.IsAuth(err) {
		t.Errorf("expected transport unavailable error, got %v", err)
	}
}
