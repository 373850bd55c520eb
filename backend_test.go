package genquiz

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestObjectRootWrapsArrays(t *testing.T) {
	root := objectRoot(QuestionSchema)

	assert.Equal(t, jsonschema.Object, root.Type)
	assert.Equal(t, []string{wrapperKey}, root.Required)
	assert.Equal(t, jsonschema.Array, root.Properties[wrapperKey].Type)

	obj := &jsonschema.Definition{Type: jsonschema.Object}
	assert.Same(t, obj, objectRoot(obj))
}

func TestOpenAIBackendComplete(t *testing.T) {
	questions := sampleQuestions(3)

	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		data, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(data, &body))

		content, err := json.Marshal(map[string]any{wrapperKey: questions})
		require.NoError(t, err)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": string(content)},
			}},
		})
	}))
	defer srv.Close()

	backend := NewOpenAIBackend("sk-test", srv.URL, "")
	qm := NewQuestionMaker(backend, "")

	got, err := qm.GenerateQuestions(context.Background(), romeConfig())
	require.NoError(t, err)
	assert.Equal(t, questions, got)

	assert.Equal(t, DefaultOpenAIModel, body["model"])
	format, ok := body["response_format"].(map[string]any)
	require.True(t, ok, "structured output requested")
	assert.Equal(t, "json_schema", format["type"])
}

func TestOpenAIBackendErrorIsGenerationFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	_, err := NewQuestionMaker(NewOpenAIBackend("", srv.URL, ""), "").GenerateQuestions(context.Background(), romeConfig())
	assert.ErrorIs(t, err, ErrGeneration)
}

func TestToGenaiSchema(t *testing.T) {
	s := toGenaiSchema(QuestionSchema)

	assert.Equal(t, genai.TypeArray, s.Type)
	require.NotNil(t, s.Items)
	assert.Equal(t, genai.TypeObject, s.Items.Type)
	assert.Equal(t, genai.TypeInteger, s.Items.Properties["correctAnswerIndex"].Type)
	assert.Equal(t, genai.TypeString, s.Items.Properties["options"].Items.Type)
	assert.Equal(t, QuestionSchema.Items.Required, s.Items.Required)
	assert.Nil(t, toGenaiSchema(nil))
}
