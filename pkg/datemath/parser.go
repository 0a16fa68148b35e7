package datemath

import (
	"fmt"
	"strings"
	"time"
)

// Parser interprets date strings in a fixed IANA zone.
type Parser struct {
	location *time.Location
}

// NewParser creates a new date parser for the given IANA timezone string.
// e.g. "Europe/Madrid"
func NewParser(timezone string) (*Parser, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return &Parser{location: loc}, nil
}

// NewParserIn creates a parser for an already loaded location.
func NewParserIn(loc *time.Location) *Parser {
	if loc == nil {
		loc = time.UTC
	}
	return &Parser{location: loc}
}

// Location returns the parser's zone.
func (p *Parser) Location() *time.Location {
	return p.location
}

// Parse reads an RFC 3339 instant, a naive date-time interpreted in the
// parser's zone, or a bare date (midnight in the parser's zone).
func (p *Parser) Parse(value string) (ParseResult, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return ParseResult{}, fmt.Errorf("empty date")
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return ParseResult{Time: t, HadZone: true}, nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, value, p.location); err == nil {
			return ParseResult{Time: t}, nil
		}
	}
	if t, err := time.ParseInLocation(time.DateOnly, value, p.location); err == nil {
		return ParseResult{Time: t, IsAllDay: true}, nil
	}

	return ParseResult{}, fmt.Errorf("unrecognized date %q", value)
}

// StartOfDay returns midnight at the start of the given day in the parser's timezone.
func (p *Parser) StartOfDay(t time.Time) time.Time {
	t = t.In(p.location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, p.location)
}

// EndOfDay returns 23:59:59 at the end of the given start-of-day time.
func (p *Parser) EndOfDay(startOfDay time.Time) time.Time {
	return startOfDay.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
}
