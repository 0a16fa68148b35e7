package llmprovider

import "context"

// TextClient is what the gemini and deepseek clients have in common.
type TextClient interface {
	GenerateText(ctx context.Context, systemInstruction, prompt string, jsonOutput bool) (string, error)
	Model() string
}

type namedProvider struct {
	name   string
	client TextClient
}

// NewProvider names a client so the manager can report which one answered.
func NewProvider(name string, client TextClient) Provider {
	return &namedProvider{name: name, client: client}
}

func (p *namedProvider) GenerateText(ctx context.Context, systemInstruction, prompt string, jsonOutput bool) (string, error) {
	text, err := p.client.GenerateText(ctx, systemInstruction, prompt, jsonOutput)
	if err != nil {
		return "", &ProviderError{Provider: p.name, Err: err}
	}
	return text, nil
}

func (p *namedProvider) Name() string {
	return p.name
}

func (p *namedProvider) Model() string {
	return p.client.Model()
}
