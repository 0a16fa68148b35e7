package ledger

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mail-calendar-automation/internal/model"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s := NewFileStore(filepath.Join(t.TempDir(), "events"), nil)
	s.now = func() time.Time { return time.Date(2025, 3, 15, 9, 30, 0, 0, time.UTC) }
	return s
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Team Sync", "team-sync"},
		{"Pádel", "padel"},
		{"CLASE DE YOGA: nivel 2!", "clase-de-yoga-nivel-2"},
		{"  spaced   out  ", "-spaced-out-"},
		{"", untitledSlug},
		{"***", untitledSlug},
		{"a very long title that keeps going and going", "a-very-long-title-that-keeps-g"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slug(tt.in), "Slug(%q)", tt.in)
	}
}

func TestRecord_FileNames(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	desc := &model.EventDescriptor{Title: "Pádel"}
	ev := &model.CalendarEvent{ID: "evt123", Title: "Pádel"}

	tests := []struct {
		r    Record
		want string
	}{
		{Record{Action: ActionCreated, Event: ev}, "created-2025-03-15-padel-evt123.json"},
		{Record{Action: ActionSkipped, Descriptor: desc}, "skipped-2025-03-15-padel.json"},
		{Record{Action: ActionFailed, Descriptor: desc}, "failed-2025-03-15-padel.json"},
		{Record{Action: ActionEventDeleted, Event: ev}, "deleted-2025-03-15-padel-evt123.json"},
		{Record{Action: ActionCancellationNotFound, Descriptor: desc}, "cancel-not-found-2025-03-15-padel.json"},
		{Record{Action: ActionDeletionFailed, Event: ev}, "delete-failed-2025-03-15-padel.json"},
		{Record{Action: ActionCancellationError}, "cancel-error-2025-03-15-1742031000000.json"},
		{Record{Action: ActionEventDeleted}, "deleted-2025-03-15-untitled-event-unknown.json"},
	}

	for _, tt := range tests {
		name, err := s.Record(ctx, tt.r)
		require.NoError(t, err)
		assert.Equal(t, tt.want, name)
	}
}

func TestRecord_Contents(t *testing.T) {
	s := newTestStore(t)

	name, err := s.Record(context.Background(), Record{
		Action:     ActionSkipped,
		MessageID:  "m1",
		Descriptor: &model.EventDescriptor{Title: "YOGA"},
		Event:      &model.CalendarEvent{ID: "e1", Title: "Yoga"},
		Score:      0.92,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(s.Dir(), name))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "\n  \"id\""), "record is indented")

	var got Record
	require.NoError(t, json.Unmarshal(data, &got))
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, ActionSkipped, got.Action)
	assert.Equal(t, "m1", got.MessageID)
	assert.Equal(t, 0.92, got.Score)
	assert.True(t, got.Timestamp.Equal(time.Date(2025, 3, 15, 9, 30, 0, 0, time.UTC)))
}

func TestRecord_NameCollision(t *testing.T) {
	s := newTestStore(t)
	r := Record{Action: ActionSkipped, Descriptor: &model.EventDescriptor{Title: "YOGA"}}

	first, err := s.Record(context.Background(), r)
	require.NoError(t, err)
	second, err := s.Record(context.Background(), r)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasPrefix(second, "skipped-2025-03-15-yoga-"))
}

func TestRecord_UnknownAction(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Record(context.Background(), Record{Action: "teleported"})
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Total)

	for _, r := range []Record{
		{Action: ActionCreated, Event: &model.CalendarEvent{ID: "a", Title: "A"}},
		{Action: ActionCreated, Event: &model.CalendarEvent{ID: "b", Title: "B"}},
		{Action: ActionSkipped, Descriptor: &model.EventDescriptor{Title: "C"}},
		{Action: ActionCancellationNotFound, Descriptor: &model.EventDescriptor{Title: "D"}},
		{Action: ActionDeletionFailed, Event: &model.CalendarEvent{Title: "E"}},
	} {
		_, err := s.Record(ctx, r)
		require.NoError(t, err)
	}
	s.now = func() time.Time { return time.Date(2025, 3, 16, 8, 0, 0, 0, time.UTC) }
	_, err = s.Record(ctx, Record{Action: ActionCancellationError})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "notes.txt"), []byte("x"), 0o644))

	stats, err = s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, stats.Total)
	assert.Equal(t, 2, stats.Created)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 1, stats.CancellationNotFound)
	assert.Equal(t, 1, stats.DeletionFailed)
	assert.Equal(t, 1, stats.CancellationError)
	assert.Equal(t, map[string]int{"2025-03-15": 5, "2025-03-16": 1}, stats.ByDate)
}
