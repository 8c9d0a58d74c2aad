package driven

import (
	"context"
	"errors"
)

// ErrProbeFailed wraps every failure of a model availability probe: transport
// errors, non-2xx statuses, and bodies in neither known shape.
var ErrProbeFailed = errors.New("model probe failed")

// ModelProber asks an AI server which model names it currently serves.
type ModelProber interface {
	ListModels(ctx context.Context, endpointURL, token string) ([]string, error)
}

// ChatRequest is a single-turn prompt addressed to a specific model.
type ChatRequest struct {
	EndpointURL  string
	Token        string
	Model        string
	SystemPrompt string
	Message      string
}

// ChatClient sends a single-turn prompt and returns the trimmed answer text.
type ChatClient interface {
	Chat(ctx context.Context, req ChatRequest) (string, error)
}

// AIClient is the combined outbound port implemented by the AI server adapter.
type AIClient interface {
	ModelProber
	ChatClient
}
