package calendar

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"mail-calendar-automation/internal/model"
)

type rateLimited struct {
	next    Repository
	limiter *rate.Limiter
}

// WithRateLimit makes every call wait for limiter first. A nil limiter returns repo unchanged.
func WithRateLimit(repo Repository, limiter *rate.Limiter) Repository {
	if limiter == nil {
		return repo
	}
	return &rateLimited{next: repo, limiter: limiter}
}

// NewLimiter allows perSecond calls per second with a burst of the same size.
// perSecond <= 0 disables limiting.
func NewLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

func (r *rateLimited) ListEvents(ctx context.Context, start, end time.Time) ([]model.CalendarEvent, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, Unavailable("list", false, err)
	}
	return r.next.ListEvents(ctx, start, end)
}

func (r *rateLimited) InsertEvent(ctx context.Context, d model.EventDescriptor) (model.CalendarEvent, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return model.CalendarEvent{}, Unavailable("insert", false, err)
	}
	return r.next.InsertEvent(ctx, d)
}

func (r *rateLimited) DeleteEvent(ctx context.Context, ev model.CalendarEvent) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return Unavailable("delete", false, err)
	}
	return r.next.DeleteEvent(ctx, ev)
}
