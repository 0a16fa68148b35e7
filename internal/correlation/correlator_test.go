package correlation_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mail-calendar-automation/internal/correlation"
	"mail-calendar-automation/internal/model"
	pkgLog "mail-calendar-automation/pkg/log"
)

type fakeSource struct {
	events []model.CalendarEvent
	err    error

	calls    int
	gotStart time.Time
	gotEnd   time.Time
}

func (f *fakeSource) ListEvents(_ context.Context, start, end time.Time) ([]model.CalendarEvent, error) {
	f.calls++
	f.gotStart, f.gotEnd = start, end
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

// timeOnly scores purely on the start-time tiers so selection can be tested
// against exact, hand-picked scores.
func timeOnly(threshold float64, sel correlation.Selection, tiers ...correlation.Tier) correlation.Policy {
	return correlation.Policy{
		Name: "time-only",
		Scorer: correlation.Scorer{
			Weights: correlation.Weights{Time: 1},
			Tiers:   tiers,
		},
		Threshold: threshold,
		Selection: sel,
		HalfWidth: time.Hour,
	}
}

func TestEvaluate_FirstVersusBest(t *testing.T) {
	start := time.Date(2024, 1, 15, 14, 0, 0, 0, time.UTC)
	d := model.EventDescriptor{Title: "x", Start: start}
	tiers := []correlation.Tier{
		{MaxMinutes: 10, Score: 0.95},
		{MaxMinutes: 20, Score: 0.73},
		{MaxMinutes: 30, Score: 0.72},
	}
	// Given out of order; ascending start order scores 0.72, 0.95, 0.73.
	candidates := []model.CalendarEvent{
		{ID: "c", Start: start.Add(15 * time.Minute)},
		{ID: "a", Start: start.Add(-25 * time.Minute)},
		{ID: "b", Start: start.Add(5 * time.Minute)},
	}

	first := correlation.Evaluate(d, candidates, timeOnly(0.7, correlation.SelectFirst, tiers...))
	require.True(t, first.Found())
	assert.Equal(t, "a", first.Event.ID)
	assert.InDelta(t, 0.72, first.Score, 1e-9)

	best := correlation.Evaluate(d, candidates, timeOnly(0.8, correlation.SelectBest, tiers...))
	require.True(t, best.Found())
	assert.Equal(t, "b", best.Event.ID)
	assert.InDelta(t, 0.95, best.Score, 1e-9)

	// Evaluate must not reorder the caller's slice.
	assert.Equal(t, "c", candidates[0].ID)
}

func TestEvaluate_ThresholdIsExclusive(t *testing.T) {
	start := time.Date(2024, 1, 15, 14, 0, 0, 0, time.UTC)
	d := model.EventDescriptor{Title: "x", Start: start}
	candidates := []model.CalendarEvent{{ID: "only", Start: start}}

	res := correlation.Evaluate(d, candidates,
		timeOnly(0.7, correlation.SelectFirst, correlation.Tier{MaxMinutes: 10, Score: 0.7}))
	assert.False(t, res.Found())

	res = correlation.Evaluate(d, candidates,
		timeOnly(0.8, correlation.SelectBest, correlation.Tier{MaxMinutes: 10, Score: 0.8}))
	assert.False(t, res.Found())
}

func TestEvaluate_PresetScoreOnThresholdDoesNotMatch(t *testing.T) {
	start := time.Date(2024, 1, 15, 14, 0, 0, 0, time.UTC)

	t.Run("duplicate", func(t *testing.T) {
		// Title 1 of 4 words (0.25*0.4), both locations empty (0.2), same start (0.4).
		d := model.EventDescriptor{Title: "a b c d", Start: start, End: start.Add(time.Hour)}
		c := model.CalendarEvent{ID: "near", Title: "a x y z", Start: start}

		p := correlation.DuplicatePolicy()
		assert.Equal(t, 0.7, p.Score(d, c))
		assert.False(t, correlation.Evaluate(d, []model.CalendarEvent{c}, p).Found())
	})

	t.Run("cancellation", func(t *testing.T) {
		// Title 3 of 5 words (0.6*0.5), both locations empty (0.2), same start (0.3).
		d := model.EventDescriptor{Title: "a b c d e", Start: start}
		c := model.CalendarEvent{ID: "near", Title: "a b c x y", Start: start}

		p := correlation.CancellationPolicy()
		assert.Equal(t, 0.8, p.Score(d, c))
		assert.False(t, correlation.Evaluate(d, []model.CalendarEvent{c}, p).Found())
	})
}

func TestEvaluate_BestKeepsFirstOnTie(t *testing.T) {
	start := time.Date(2024, 1, 15, 14, 0, 0, 0, time.UTC)
	d := model.EventDescriptor{Title: "x", Start: start}
	candidates := []model.CalendarEvent{
		{ID: "late", Start: start.Add(5 * time.Minute)},
		{ID: "early", Start: start.Add(-5 * time.Minute)},
		{ID: "same-start-later-in-source", Start: start.Add(-5 * time.Minute)},
	}

	res := correlation.Evaluate(d, candidates,
		timeOnly(0.8, correlation.SelectBest, correlation.Tier{MaxMinutes: 10, Score: 0.9}))
	require.True(t, res.Found())
	assert.Equal(t, "early", res.Event.ID)
}

func TestEvaluate_Deterministic(t *testing.T) {
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	d := model.EventDescriptor{Title: "Clase de yoga", Start: start, Location: "Centro"}
	candidates := []model.CalendarEvent{
		{ID: "1", Title: "Yoga", Start: start.Add(20 * time.Minute), Location: "Centro"},
		{ID: "2", Title: "Clase de yoga", Start: start.Add(-10 * time.Minute)},
		{ID: "3", Title: "Pilates", Start: start},
	}

	for _, p := range []correlation.Policy{correlation.DuplicatePolicy(), correlation.CancellationPolicy()} {
		assert.Equal(t, correlation.Evaluate(d, candidates, p), correlation.Evaluate(d, candidates, p))
	}
}

func TestEvaluate_Empty(t *testing.T) {
	d := model.EventDescriptor{Title: "x", Start: time.Now()}
	assert.Equal(t, correlation.NoMatch, correlation.Evaluate(d, nil, correlation.DuplicatePolicy()))
}

func TestWindow(t *testing.T) {
	start := time.Date(2024, 1, 15, 14, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 15, 15, 0, 0, 0, time.UTC)

	from, to := correlation.Window(model.EventDescriptor{Start: start, End: end}, correlation.DuplicatePolicy())
	assert.Equal(t, time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, 1, 15, 17, 0, 0, 0, time.UTC), to)

	from, to = correlation.Window(model.EventDescriptor{Start: start}, correlation.CancellationPolicy())
	assert.Equal(t, time.Date(2024, 1, 15, 2, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, 1, 16, 2, 0, 0, 0, time.UTC), to)

	// The cancellation window ignores the end even when known.
	from, to = correlation.Window(model.EventDescriptor{Start: start, End: end}, correlation.CancellationPolicy())
	assert.Equal(t, time.Date(2024, 1, 15, 2, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, 1, 16, 2, 0, 0, 0, time.UTC), to)
}

func TestValidateDescriptor(t *testing.T) {
	start := time.Date(2024, 1, 15, 14, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		d       model.EventDescriptor
		p       correlation.Policy
		wantErr bool
	}{
		{name: "valid creation", d: model.EventDescriptor{Title: "Yoga", Start: start, End: start.Add(time.Hour)}, p: correlation.DuplicatePolicy()},
		{name: "valid cancellation without end", d: model.EventDescriptor{Title: "Yoga", Start: start}, p: correlation.CancellationPolicy()},
		{name: "blank title", d: model.EventDescriptor{Title: "  ", Start: start, End: start.Add(time.Hour)}, p: correlation.DuplicatePolicy(), wantErr: true},
		{name: "missing start", d: model.EventDescriptor{Title: "Yoga"}, p: correlation.CancellationPolicy(), wantErr: true},
		{name: "creation without end", d: model.EventDescriptor{Title: "Yoga", Start: start}, p: correlation.DuplicatePolicy(), wantErr: true},
		{name: "end equals start", d: model.EventDescriptor{Title: "Yoga", Start: start, End: start}, p: correlation.DuplicatePolicy(), wantErr: true},
		{name: "cancellation end before start", d: model.EventDescriptor{Title: "Yoga", Start: start, End: start.Add(-time.Minute)}, p: correlation.CancellationPolicy(), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := correlation.ValidateDescriptor(tt.d, tt.p)
			if tt.wantErr {
				assert.ErrorIs(t, err, correlation.ErrInvalidDescriptor)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPolicyValidate(t *testing.T) {
	assert.NoError(t, correlation.DuplicatePolicy().Validate())
	assert.NoError(t, correlation.CancellationPolicy().Validate())

	bad := correlation.DuplicatePolicy()
	bad.Weights.Title = 0.9
	assert.ErrorIs(t, bad.Validate(), correlation.ErrInvalidPolicy)

	bad = correlation.CancellationPolicy()
	bad.Tiers = []correlation.Tier{{MaxMinutes: 60, Score: 1}, {MaxMinutes: 15, Score: 0.5}}
	assert.ErrorIs(t, bad.Validate(), correlation.ErrInvalidPolicy)

	bad = correlation.CancellationPolicy()
	bad.HalfWidth = 0
	assert.ErrorIs(t, bad.Validate(), correlation.ErrInvalidPolicy)
}

func TestFindDuplicate_SuppressesPadel(t *testing.T) {
	src := &fakeSource{events: []model.CalendarEvent{
		{ID: "evt-1", Title: "Pádel", Start: time.Date(2024, 3, 1, 10, 15, 0, 0, time.UTC)},
	}}
	uc := correlation.New(src, pkgLog.NewNop())

	res, err := uc.FindDuplicate(context.Background(), model.EventDescriptor{
		Title: "PÁDEL",
		Start: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.True(t, res.Found())
	assert.Equal(t, "evt-1", res.Event.ID)
	assert.InDelta(t, 1.0, res.Score, 1e-9)

	assert.Equal(t, 1, src.calls)
	assert.Equal(t, time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC), src.gotStart)
	assert.Equal(t, time.Date(2024, 3, 1, 13, 0, 0, 0, time.UTC), src.gotEnd)
}

func TestFindDuplicate_RejectsBeforeQuery(t *testing.T) {
	src := &fakeSource{}
	uc := correlation.New(src, pkgLog.NewNop())
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	_, err := uc.FindDuplicate(context.Background(), model.EventDescriptor{Title: "Yoga", Start: start, End: start})
	assert.ErrorIs(t, err, correlation.ErrInvalidDescriptor)
	assert.Zero(t, src.calls)
}

func TestFindCancellationTarget(t *testing.T) {
	start := time.Date(2024, 1, 15, 14, 0, 0, 0, time.UTC)
	src := &fakeSource{events: []model.CalendarEvent{
		{ID: "other", Title: "Reunión equipo", Start: start.Add(-2 * time.Hour)},
		{ID: "target", Title: "Clase de Yoga", Start: start, Location: "Centro Zen"},
		{ID: "near", Title: "Yoga", Start: start.Add(30 * time.Minute), Location: "Centro Zen"},
	}}
	uc := correlation.New(src, pkgLog.NewNop())

	res, err := uc.FindCancellationTarget(context.Background(), model.EventDescriptor{
		Title:    "clase de yoga",
		Start:    start,
		Location: "centro zen",
	})
	require.NoError(t, err)
	require.True(t, res.Found())
	assert.Equal(t, "target", res.Event.ID)
	assert.Equal(t, time.Date(2024, 1, 15, 2, 0, 0, 0, time.UTC), src.gotStart)
	assert.Equal(t, time.Date(2024, 1, 16, 2, 0, 0, 0, time.UTC), src.gotEnd)
}

func TestFindCancellationTarget_NoMatch(t *testing.T) {
	start := time.Date(2024, 1, 15, 14, 0, 0, 0, time.UTC)
	src := &fakeSource{events: []model.CalendarEvent{
		{ID: "other", Title: "Dentista", Start: start.Add(3 * time.Hour)},
	}}
	uc := correlation.New(src, pkgLog.NewNop())

	res, err := uc.FindCancellationTarget(context.Background(), model.EventDescriptor{Title: "Yoga", Start: start})
	require.NoError(t, err)
	assert.False(t, res.Found())
}

func TestFindCancellationTarget_PropagatesSourceError(t *testing.T) {
	srcErr := errors.New("calendar down")
	src := &fakeSource{err: srcErr}
	uc := correlation.New(src, pkgLog.NewNop())

	_, err := uc.FindCancellationTarget(context.Background(), model.EventDescriptor{
		Title: "Yoga",
		Start: time.Date(2024, 1, 15, 14, 0, 0, 0, time.UTC),
	})
	assert.Same(t, srcErr, err)
	assert.Equal(t, 1, src.calls)
}

func TestNewWithPolicies(t *testing.T) {
	_, err := correlation.NewWithPolicies(&fakeSource{}, correlation.DuplicatePolicy(), correlation.CancellationPolicy(), pkgLog.NewNop())
	assert.NoError(t, err)

	bad := correlation.CancellationPolicy()
	bad.Threshold = 1.5
	_, err = correlation.NewWithPolicies(&fakeSource{}, correlation.DuplicatePolicy(), bad, pkgLog.NewNop())
	assert.ErrorIs(t, err, correlation.ErrInvalidPolicy)
}
