package model

// ModelAPI selects the wire dialect spoken by an AI server.
type ModelAPI string

const (
	// ModelAPIOllama lists models via /api/tags and chats via /api/generate.
	ModelAPIOllama ModelAPI = "ollama"
	// ModelAPIOpenAI lists models via /api/models and chats via /api/chat/completions.
	ModelAPIOpenAI ModelAPI = "openai"
)

// Valid reports whether a is a known dialect.
func (a ModelAPI) Valid() bool {
	return a == ModelAPIOllama || a == ModelAPIOpenAI
}
