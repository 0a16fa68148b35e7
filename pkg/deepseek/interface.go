package deepseek

import "context"

// IDeepSeek defines the interface for an OpenAI-compatible chat completion client
type IDeepSeek interface {
	CreateChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	GenerateText(ctx context.Context, systemInstruction, prompt string, jsonOutput bool) (string, error)
	Model() string
}
