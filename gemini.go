package genquiz

import (
	"context"
	"fmt"
	"sync"

	"github.com/sashabaranov/go-openai/jsonschema"
	"google.golang.org/genai"
)

// GeminiBackend talks to the Gemini API
type GeminiBackend struct {
	apiKey string
	model  string

	once    sync.Once
	client  *genai.Client
	initErr error
}

// NewGeminiBackend creates a backend. The client is built on first use so a
// missing key only surfaces as a failed call.
func NewGeminiBackend(apiKey, model string) *GeminiBackend {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiBackend{apiKey: apiKey, model: model}
}

func (b *GeminiBackend) connect(ctx context.Context) (*genai.Client, error) {
	b.once.Do(func() {
		b.client, b.initErr = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  b.apiKey,
			Backend: genai.BackendGeminiAPI,
		})
	})
	return b.client, b.initErr
}

// Complete sends the prompt to generateContent and returns the response text
func (b *GeminiBackend) Complete(ctx context.Context, c Completion) (string, error) {
	client, err := b.connect(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", err)
	}

	var config *genai.GenerateContentConfig
	if c.System != "" || c.Schema != nil {
		config = &genai.GenerateContentConfig{}
	}
	if c.System != "" {
		config.SystemInstruction = genai.NewContentFromText(c.System, genai.RoleUser)
	}
	if c.Schema != nil {
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = toGenaiSchema(c.Schema)
	}

	result, err := client.Models.GenerateContent(ctx, b.model, genai.Text(c.Prompt), config)
	if err != nil {
		return "", fmt.Errorf("generate content failed: %w", err)
	}

	text := result.Text()
	VerboseLog("Received %d bytes from %s", len(text), b.model)
	return text, nil
}

var genaiTypes = map[jsonschema.DataType]genai.Type{
	jsonschema.Object:  genai.TypeObject,
	jsonschema.Array:   genai.TypeArray,
	jsonschema.String:  genai.TypeString,
	jsonschema.Integer: genai.TypeInteger,
	jsonschema.Number:  genai.TypeNumber,
	jsonschema.Boolean: genai.TypeBoolean,
}

// toGenaiSchema converts the shared schema definition into Gemini's schema type
func toGenaiSchema(d *jsonschema.Definition) *genai.Schema {
	if d == nil {
		return nil
	}
	s := &genai.Schema{
		Type:        genaiTypes[d.Type],
		Description: d.Description,
		Enum:        d.Enum,
		Required:    d.Required,
	}
	if d.Items != nil {
		s.Items = toGenaiSchema(d.Items)
	}
	if len(d.Properties) > 0 {
		s.Properties = make(map[string]*genai.Schema, len(d.Properties))
		for name, prop := range d.Properties {
			s.Properties[name] = toGenaiSchema(&prop)
		}
		s.PropertyOrdering = d.Required
	}
	return s
}
