package genquiz

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai/jsonschema"
)

// Completion is a single prompt sent to a generative text service
type Completion struct {
	System string
	Prompt string

	// Schema, when set, asks the service for structured JSON output of that shape
	Schema     *jsonschema.Definition
	SchemaName string
}

// Completer submits a prompt and returns the raw response text
type Completer interface {
	Complete(ctx context.Context, c Completion) (string, error)
}

// NewCompleter builds the backend selected in the config
func NewCompleter(cfg *Config) (Completer, error) {
	switch cfg.Provider {
	case ProviderOpenAI:
		return NewOpenAIBackend(cfg.APIKey, cfg.BaseURL, cfg.Model), nil
	case ProviderGemini:
		return NewGeminiBackend(cfg.APIKey, cfg.Model), nil
	}
	return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
}
