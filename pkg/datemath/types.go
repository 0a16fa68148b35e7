package datemath

import "time"

// ParseResult holds the result of parsing a date or date-time string.
type ParseResult struct {
	Time     time.Time
	IsAllDay bool // the input had no time of day
	HadZone  bool // the input carried its own offset
}

// naiveLayouts are tried, in order, for date-times without an offset.
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05.000",
}
