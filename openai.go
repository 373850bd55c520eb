package genquiz

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

// wrapperKey holds the question array inside the object root OpenAI requires
const wrapperKey = "questions"

// OpenAIBackend talks to any OpenAI-compatible chat completion endpoint
type OpenAIBackend struct {
	client *openai.Client
	model  string
}

// NewOpenAIBackend creates a backend. An empty baseURL uses api.openai.com.
func NewOpenAIBackend(apiKey, baseURL, model string) *OpenAIBackend {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAIBackend{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

// Complete sends the prompt as a chat completion and returns the first choice
func (b *OpenAIBackend) Complete(ctx context.Context, c Completion) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if c.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: c.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: c.Prompt,
	})

	req := openai.ChatCompletionRequest{
		Model:    b.model,
		Messages: messages,
	}

	if c.Schema != nil {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   c.SchemaName,
				Schema: objectRoot(c.Schema),
				Strict: true,
			},
		}
	}

	resp, err := b.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	VerboseLog("Received response from %s with %d choices", b.model, len(resp.Choices))

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from %s", b.model)
	}
	return resp.Choices[0].Message.Content, nil
}

// objectRoot wraps an array schema in an object, since structured outputs must
// have an object at the top level
func objectRoot(schema *jsonschema.Definition) *jsonschema.Definition {
	if schema.Type != jsonschema.Array {
		return schema
	}
	return &jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			wrapperKey: *schema,
		},
		Required:             []string{wrapperKey},
		AdditionalProperties: false,
	}
}
