package correlation

import (
	"context"
	"slices"

	"mail-calendar-automation/internal/model"
)

// Evaluate scores candidates in ascending start order and applies p's selection rule.
// It is pure: the same inputs always give the same Result.
func Evaluate(d model.EventDescriptor, candidates []model.CalendarEvent, p Policy) Result {
	ordered := slices.Clone(candidates)
	slices.SortStableFunc(ordered, func(a, b model.CalendarEvent) int {
		return a.Start.Compare(b.Start)
	})

	best := NoMatch
	for i := range ordered {
		score := p.Score(d, ordered[i])
		if score <= p.Threshold {
			continue
		}
		if !best.Found() || score > best.Score {
			best = Result{Event: &ordered[i], Score: score}
		}
		if p.Selection == SelectFirst {
			break
		}
	}
	return best
}

func (uc *usecase) FindDuplicate(ctx context.Context, d model.EventDescriptor) (Result, error) {
	return uc.correlate(ctx, d, uc.duplicate)
}

func (uc *usecase) FindCancellationTarget(ctx context.Context, d model.EventDescriptor) (Result, error) {
	return uc.correlate(ctx, d, uc.cancellation)
}

func (uc *usecase) correlate(ctx context.Context, d model.EventDescriptor, p Policy) (Result, error) {
	if err := ValidateDescriptor(d, p); err != nil {
		return NoMatch, err
	}

	start, end := Window(d, p)
	candidates, err := uc.source.ListEvents(ctx, start, end)
	if err != nil {
		return NoMatch, err
	}

	res := Evaluate(d, candidates, p)
	if res.Found() {
		uc.l.Infof(ctx, "correlation.%s: %q matched %q (id=%s, score=%.2f) among %d candidates",
			p.Name, d.Title, res.Event.Title, res.Event.ID, res.Score, len(candidates))
	} else {
		uc.l.Debugf(ctx, "correlation.%s: no match for %q among %d candidates", p.Name, d.Title, len(candidates))
	}
	return res, nil
}
