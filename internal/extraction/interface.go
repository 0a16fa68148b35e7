package extraction

import (
	"context"

	"mail-calendar-automation/internal/model"
)

// Extractor turns an email into an event descriptor.
type Extractor interface {
	// ExtractEvent returns a descriptor with title, start and end for a confirmation email.
	ExtractEvent(ctx context.Context, msg model.Message) (model.EventDescriptor, error)
	// ExtractCancellation returns the descriptor of the event a cancellation email refers to.
	// End may be zero.
	ExtractCancellation(ctx context.Context, msg model.Message) (model.EventDescriptor, error)
}

// Generator is a text model. llmprovider.Manager and gemini.Client satisfy it.
type Generator interface {
	GenerateText(ctx context.Context, systemInstruction, prompt string, jsonOutput bool) (string, error)
}
