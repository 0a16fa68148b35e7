package correlation

import (
	"time"

	"mail-calendar-automation/internal/model"
)

// Weights of the three similarity factors. They are expected to sum to 1.
type Weights struct {
	Title    float64 `json:"title"`
	Location float64 `json:"location"`
	Time     float64 `json:"time"`
}

// Tier maps a start-time difference of at most MaxMinutes to Score.
type Tier struct {
	MaxMinutes float64 `json:"max_minutes"`
	Score      float64 `json:"score"`
}

// Selection is the rule used to pick one candidate among those above the threshold.
type Selection int

const (
	// SelectFirst takes the earliest qualifying candidate and stops scanning.
	SelectFirst Selection = iota
	// SelectBest takes the strictly highest qualifying score; ties keep the earlier candidate.
	SelectBest
)

func (s Selection) String() string {
	switch s {
	case SelectFirst:
		return "first"
	case SelectBest:
		return "best"
	default:
		return "unknown"
	}
}

// Scorer combines title, location and time similarity into one value in [0,1].
type Scorer struct {
	Weights    Weights
	Tiers      []Tier // ascending by MaxMinutes
	Normalizer Normalizer
}

// Policy is everything that differs between the two correlation modes.
type Policy struct {
	Name string
	Scorer
	Threshold  float64 // a candidate qualifies only when score > Threshold
	Selection  Selection
	HalfWidth  time.Duration
	SpanEnd    bool // pad around both start and end instead of start only
	RequireEnd bool
}

// Result is NoMatch when Event is nil.
type Result struct {
	Event *model.CalendarEvent `json:"event,omitempty"`
	Score float64              `json:"score"`
}

// NoMatch is the zero Result.
var NoMatch = Result{}

// Found reports whether a candidate was selected.
func (r Result) Found() bool {
	return r.Event != nil
}
