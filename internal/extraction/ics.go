package extraction

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
)

const (
	icsDateLayout     = "20060102"
	icsDateTimeLayout = "20060102T150405"
	icsUTCLayout      = "20060102T150405Z"
)

var icsDuration = regexp.MustCompile(`^([+-])?P(?:(\d+)W)?(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// icsEvent is the first VEVENT of an invite.
type icsEvent struct {
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	AllDay      bool
	Cancelled   bool
	// TimeZone is the DTSTART TZID when it names a known zone.
	TimeZone string
}

// parseInvite reads the first VEVENT of a text/calendar payload. Floating
// times and dates are placed in loc.
func parseInvite(raw string, loc *time.Location) (icsEvent, error) {
	cal, err := ical.ParseCalendar(strings.NewReader(raw))
	if err != nil {
		return icsEvent{}, fmt.Errorf("failed to parse calendar: %w", err)
	}

	events := cal.Events()
	if len(events) == 0 {
		return icsEvent{}, ErrNoEvent
	}
	ve := events[0]

	var out icsEvent
	for _, p := range cal.CalendarProperties {
		if strings.EqualFold(p.IANAToken, "METHOD") && strings.EqualFold(strings.TrimSpace(p.Value), "CANCEL") {
			out.Cancelled = true
		}
	}
	if p := ve.GetProperty(ical.ComponentPropertyStatus); p != nil && strings.EqualFold(strings.TrimSpace(p.Value), "CANCELLED") {
		out.Cancelled = true
	}

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Summary = strings.TrimSpace(p.Value)
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		out.Description = strings.TrimSpace(p.Value)
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		out.Location = strings.TrimSpace(p.Value)
	}

	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil {
		return icsEvent{}, fmt.Errorf("%w: invite has no DTSTART", ErrNoEvent)
	}
	out.Start, out.AllDay, err = icsTime(dtStart.Value, dtStart.ICalParameters, loc)
	if err != nil {
		return icsEvent{}, err
	}
	if zone := icsZone(dtStart.ICalParameters); zone != nil {
		out.TimeZone = zone.String()
	}

	if dtEnd := ve.GetProperty(ical.ComponentPropertyDtEnd); dtEnd != nil {
		if out.End, _, err = icsTime(dtEnd.Value, dtEnd.ICalParameters, loc); err != nil {
			return icsEvent{}, err
		}
	} else if dur := ve.GetProperty(ical.ComponentPropertyDuration); dur != nil {
		d, err := parseICSDuration(dur.Value)
		if err != nil {
			return icsEvent{}, err
		}
		out.End = out.Start.Add(d)
	}

	return out, nil
}

// icsTime reads a DTSTART/DTEND value. A date without time of day is all-day.
func icsTime(value string, params map[string][]string, loc *time.Location) (time.Time, bool, error) {
	value = strings.TrimSpace(value)

	allDay := !strings.Contains(value, "T")
	if vs := params["VALUE"]; len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		allDay = true
	}
	if allDay {
		t, err := time.ParseInLocation(icsDateLayout, value, loc)
		if err != nil {
			return time.Time{}, false, fmt.Errorf("invalid ics date %q: %w", value, err)
		}
		return t, true, nil
	}

	if strings.HasSuffix(value, "Z") {
		t, err := time.Parse(icsUTCLayout, value)
		if err != nil {
			return time.Time{}, false, fmt.Errorf("invalid ics time %q: %w", value, err)
		}
		return t, false, nil
	}

	zone := loc
	if l := icsZone(params); l != nil {
		zone = l
	}
	t, err := time.ParseInLocation(icsDateTimeLayout, value, zone)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid ics time %q: %w", value, err)
	}
	return t, false, nil
}

// icsZone loads the TZID parameter, or returns nil when it is absent or unknown.
func icsZone(params map[string][]string) *time.Location {
	tzs := params["TZID"]
	if len(tzs) == 0 {
		return nil
	}
	l, err := time.LoadLocation(strings.Trim(tzs[0], `"`))
	if err != nil {
		return nil
	}
	return l
}

func parseICSDuration(value string) (time.Duration, error) {
	m := icsDuration.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return 0, fmt.Errorf("invalid ics duration %q", value)
	}

	units := []time.Duration{7 * 24 * time.Hour, 24 * time.Hour, time.Hour, time.Minute, time.Second}
	var d time.Duration
	for i, unit := range units {
		if m[i+2] == "" {
			continue
		}
		n, _ := strconv.Atoi(m[i+2])
		d += time.Duration(n) * unit
	}
	if m[1] == "-" {
		d = -d
	}
	return d, nil
}
