package extraction

import (
	"fmt"
	"time"

	"mail-calendar-automation/internal/model"
	pkgLog "mail-calendar-automation/pkg/log"
)

// DefaultDuration is the length given to invites that carry no end.
const DefaultDuration = time.Hour

type extractor struct {
	gen             Generator
	loc             *time.Location
	defaultDuration time.Duration
	now             func() time.Time
	l               pkgLog.Logger
}

// New creates an Extractor. gen may be nil, in which case only calendar
// invites attached to the message are understood.
func New(gen Generator, opt Options, l pkgLog.Logger) (Extractor, error) {
	tz := opt.DefaultTimeZone
	if tz == "" {
		tz = model.DefaultTimeZone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid default timezone %q: %w", tz, err)
	}

	if opt.DefaultDuration <= 0 {
		opt.DefaultDuration = DefaultDuration
	}
	if opt.Now == nil {
		opt.Now = time.Now
	}
	if l == nil {
		l = pkgLog.NewNop()
	}

	return &extractor{
		gen:             gen,
		loc:             loc,
		defaultDuration: opt.DefaultDuration,
		now:             opt.Now,
		l:               l,
	}, nil
}
