package extraction

import "time"

// Options configures the extractor.
type Options struct {
	DefaultTimeZone string
	// DefaultDuration is used when an invite has a start but no end.
	DefaultDuration time.Duration
	// Now is used to tell the model the current date. Defaults to time.Now.
	Now func() time.Time
}

// rawEvent is the JSON object the model is asked to return.
type rawEvent struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	StartDateTime string `json:"startDateTime"`
	EndDateTime   string `json:"endDateTime"`
	Location      string `json:"location"`
	TimeZone      string `json:"timeZone"`
}

type kind int

const (
	kindConfirmation kind = iota
	kindCancellation
)

func (k kind) String() string {
	if k == kindCancellation {
		return "cancellation"
	}
	return "confirmation"
}
