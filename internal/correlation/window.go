package correlation

import (
	"fmt"
	"strings"
	"time"

	"mail-calendar-automation/internal/model"
)

// Window returns the interval whose events are scored against d.
func Window(d model.EventDescriptor, p Policy) (time.Time, time.Time) {
	lo, hi := d.Start, d.Start
	if p.SpanEnd && d.HasEnd() {
		if d.End.Before(lo) {
			lo = d.End
		}
		if d.End.After(hi) {
			hi = d.End
		}
	}
	return lo.Add(-p.HalfWidth), hi.Add(p.HalfWidth)
}

// ValidateDescriptor rejects descriptors the correlator must never see.
func ValidateDescriptor(d model.EventDescriptor, p Policy) error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("%w: missing title", ErrInvalidDescriptor)
	}
	if d.Start.IsZero() {
		return fmt.Errorf("%w: missing start", ErrInvalidDescriptor)
	}
	if p.RequireEnd && !d.HasEnd() {
		return fmt.Errorf("%w: missing end", ErrInvalidDescriptor)
	}
	if d.HasEnd() && !d.End.After(d.Start) {
		return fmt.Errorf("%w: end %s is not after start %s", ErrInvalidDescriptor,
			d.End.Format(time.RFC3339), d.Start.Format(time.RFC3339))
	}
	return nil
}
