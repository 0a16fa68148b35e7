package http

import (
	"strings"
	"time"

	"mail-calendar-automation/internal/correlation"
	"mail-calendar-automation/internal/model"
	"mail-calendar-automation/pkg/datemath"
	"mail-calendar-automation/pkg/response"
)

// --- Request DTOs ---

type descriptorReq struct {
	Title    string `json:"title"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Location string `json:"location"`
	TimeZone string `json:"time_zone"`
}

func (r descriptorReq) validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return errTitleMissing
	}
	if strings.TrimSpace(r.Start) == "" {
		return errStartMissing
	}
	return nil
}

// toDescriptor reads naive date-times in the request zone, or def when none is given.
func (r descriptorReq) toDescriptor(def *time.Location) (model.EventDescriptor, error) {
	loc := def
	if r.TimeZone != "" {
		l, err := time.LoadLocation(r.TimeZone)
		if err != nil {
			return model.EventDescriptor{}, err
		}
		loc = l
	}
	parser := datemath.NewParserIn(loc)

	start, err := parser.Parse(r.Start)
	if err != nil {
		return model.EventDescriptor{}, err
	}
	d := model.EventDescriptor{
		Title:    r.Title,
		Start:    start.Time,
		Location: r.Location,
		TimeZone: loc.String(),
	}
	if strings.TrimSpace(r.End) != "" {
		end, err := parser.Parse(r.End)
		if err != nil {
			return model.EventDescriptor{}, err
		}
		d.End = end.Time
	}
	return d, nil
}

// messageReq is a captured email, as produced by the replay tooling.
type messageReq struct {
	ID        string   `json:"id"`
	Subject   string   `json:"subject"`
	From      string   `json:"from"`
	Date      string   `json:"date"`
	Body      string   `json:"body"`
	Snippet   string   `json:"snippet"`
	Calendars []string `json:"calendars"`
}

func (r messageReq) toMessage() model.Message {
	return model.Message{
		ID:        r.ID,
		Subject:   r.Subject,
		From:      r.From,
		Date:      r.Date,
		Body:      r.Body,
		Snippet:   r.Snippet,
		Calendars: r.Calendars,
	}
}

// --- Response DTOs ---

type eventResp struct {
	ID       string            `json:"id"`
	Title    string            `json:"title"`
	Start    response.DateTime `json:"start"`
	End      response.DateTime `json:"end"`
	AllDay   bool              `json:"all_day,omitempty"`
	Location string            `json:"location,omitempty"`
	HTMLLink string            `json:"html_link,omitempty"`
}

type correlationResp struct {
	Found bool       `json:"found"`
	Score float64    `json:"score"`
	Event *eventResp `json:"event,omitempty"`
}

func (h *handler) newCorrelationResp(res correlation.Result) correlationResp {
	if !res.Found() {
		return correlationResp{}
	}
	ev := res.Event
	return correlationResp{
		Found: true,
		Score: res.Score,
		Event: &eventResp{
			ID:       ev.ID,
			Title:    ev.Title,
			Start:    response.DateTime(ev.Start.In(h.loc)),
			End:      response.DateTime(ev.End.In(h.loc)),
			AllDay:   ev.AllDay,
			Location: ev.Location,
			HTMLLink: ev.HTMLLink,
		},
	}
}
