package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"mail-calendar-automation/internal/model"
	"mail-calendar-automation/pkg/datemath"
)

func (e *extractor) ExtractEvent(ctx context.Context, msg model.Message) (model.EventDescriptor, error) {
	return e.extract(ctx, msg, kindConfirmation)
}

func (e *extractor) ExtractCancellation(ctx context.Context, msg model.Message) (model.EventDescriptor, error) {
	return e.extract(ctx, msg, kindCancellation)
}

func (e *extractor) extract(ctx context.Context, msg model.Message, k kind) (model.EventDescriptor, error) {
	for i, raw := range msg.Calendars {
		inv, err := parseInvite(raw, e.loc)
		if err != nil {
			e.l.Warnf(ctx, "extraction: message %s invite %d unreadable: %v", msg.ID, i, err)
			continue
		}
		if k == kindConfirmation && inv.Cancelled {
			return model.EventDescriptor{}, fmt.Errorf("%w: invite in message %s is a cancellation", ErrNoEvent, msg.ID)
		}
		d, err := e.fromInvite(inv, k)
		if err != nil {
			e.l.Warnf(ctx, "extraction: message %s invite %d rejected: %v", msg.ID, i, err)
			return model.EventDescriptor{}, err
		}
		e.l.Infof(ctx, "extraction: %s from invite in message %s: %q at %s", k, msg.ID, d.Title, d.Start.Format(time.RFC3339))
		return d, nil
	}

	if e.gen == nil {
		return model.EventDescriptor{}, fmt.Errorf("%w: message %s has no invite", ErrNoEvent, msg.ID)
	}

	system := ConfirmationSystemPrompt
	if k == kindCancellation {
		system = CancellationSystemPrompt
	}
	prompt := BuildPrompt(msg, e.now().In(e.loc).Format(time.DateOnly))

	text, err := e.gen.GenerateText(ctx, system, prompt, true)
	if err != nil {
		return model.EventDescriptor{}, fmt.Errorf("failed to generate %s extraction: %w", k, err)
	}

	cleaned := sanitizeJSONResponse(text)
	var raw rawEvent
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		e.l.Errorf(ctx, "extraction: failed to parse model response. Raw=%q Cleaned=%q", text, cleaned)
		return model.EventDescriptor{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	d, err := e.toDescriptor(raw, k)
	if err != nil {
		if !errors.Is(err, ErrNoEvent) {
			e.l.Warnf(ctx, "extraction: message %s rejected: %v", msg.ID, err)
		}
		return model.EventDescriptor{}, err
	}

	e.l.Infof(ctx, "extraction: %s from model for message %s: %q at %s", k, msg.ID, d.Title, d.Start.Format(time.RFC3339))
	return d, nil
}

// fromInvite validates an invite. SUMMARY is required, and a DTEND must fall
// after DTSTART. Only a missing end gets the default duration, or one day for
// all-day invites; cancellations keep it unset.
func (e *extractor) fromInvite(inv icsEvent, k kind) (model.EventDescriptor, error) {
	if inv.Summary == "" {
		return model.EventDescriptor{}, fmt.Errorf("%w: invite has no SUMMARY", ErrInvalidResponse)
	}

	zone := inv.TimeZone
	if zone == "" {
		zone = e.loc.String()
	}
	d := model.EventDescriptor{
		Title:       inv.Summary,
		Start:       inv.Start,
		End:         inv.End,
		Location:    inv.Location,
		TimeZone:    zone,
		Description: inv.Description,
	}

	switch {
	case d.HasEnd() && !d.End.After(d.Start):
		return model.EventDescriptor{}, fmt.Errorf("%w: invite end %s is not after start %s", ErrInvalidResponse,
			d.End.Format(time.RFC3339), d.Start.Format(time.RFC3339))
	case d.HasEnd(), k == kindCancellation:
	case inv.AllDay:
		d.End = d.Start.AddDate(0, 0, 1)
	default:
		d.End = d.Start.Add(e.defaultDuration)
	}

	if k == kindConfirmation && d.Description == "" {
		d.Description = defaultDescription(d.Title)
	}
	return d, nil
}

// toDescriptor validates a model reply. Confirmations need title, start and
// an end after start; cancellations need title and start.
func (e *extractor) toDescriptor(raw rawEvent, k kind) (model.EventDescriptor, error) {
	title := cleanTitle(raw.Title)
	startValue := strings.TrimSpace(raw.StartDateTime)
	endValue := strings.TrimSpace(raw.EndDateTime)

	if title == "" && startValue == "" {
		return model.EventDescriptor{}, ErrNoEvent
	}
	if title == "" {
		return model.EventDescriptor{}, fmt.Errorf("%w: missing title", ErrInvalidResponse)
	}
	if startValue == "" {
		return model.EventDescriptor{}, fmt.Errorf("%w: missing startDateTime", ErrInvalidResponse)
	}
	if k == kindConfirmation && endValue == "" {
		return model.EventDescriptor{}, fmt.Errorf("%w: missing endDateTime", ErrInvalidResponse)
	}

	loc := e.loc
	if tz := strings.TrimSpace(raw.TimeZone); tz != "" {
		if l, err := time.LoadLocation(tz); err == nil {
			loc = l
		}
	}
	parser := datemath.NewParserIn(loc)

	start, err := parser.Parse(startValue)
	if err != nil {
		return model.EventDescriptor{}, fmt.Errorf("%w: startDateTime: %v", ErrInvalidResponse, err)
	}

	d := model.EventDescriptor{
		Title:       title,
		Start:       start.Time,
		Location:    strings.TrimSpace(raw.Location),
		TimeZone:    loc.String(),
		Description: strings.TrimSpace(raw.Description),
	}

	if endValue != "" {
		end, err := parser.Parse(endValue)
		if err != nil {
			return model.EventDescriptor{}, fmt.Errorf("%w: endDateTime: %v", ErrInvalidResponse, err)
		}
		if !end.Time.After(start.Time) {
			return model.EventDescriptor{}, fmt.Errorf("%w: endDateTime %s is not after startDateTime %s", ErrInvalidResponse, endValue, startValue)
		}
		d.End = end.Time
	}

	if k == kindConfirmation && d.Description == "" {
		d.Description = defaultDescription(title)
	}
	return d, nil
}

func defaultDescription(title string) string {
	return "Event created automatically from email: " + title
}
