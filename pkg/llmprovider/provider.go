package llmprovider

import "context"

// Provider is one model that can answer a single-turn prompt.
type Provider interface {
	// GenerateText returns the reply text. jsonOutput asks the model for a JSON object.
	GenerateText(ctx context.Context, systemInstruction, prompt string, jsonOutput bool) (string, error)

	// Name returns the provider name (e.g., "qwen", "gemini")
	Name() string

	// Model returns the model being used
	Model() string
}
