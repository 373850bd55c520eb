package genquiz

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GENQUIZ_PROVIDER", "GENQUIZ_MODEL", "GENQUIZ_API_KEY", "API_KEY", "GEMINI_API_KEY",
		"OPENAI_API_KEY", "GENQUIZ_BASE_URL", "PORT", "GENQUIZ_SESSION_SECRET",
		"GENQUIZ_QUESTION_TIME", "GENQUIZ_LLM_LOG_DIR", "GENQUIZ_VERBOSE",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.Equal(t, DefaultGeminiModel, cfg.Model)
	assert.Empty(t, cfg.APIKey, "a missing credential is an empty string")
	assert.Equal(t, "8180", cfg.Port)
	assert.Equal(t, DefaultQuestionTime, cfg.QuestionTime)
	assert.Equal(t, 30, cfg.QuestionSeconds())
}

func TestLoadConfigFromEnv(t *testing.T) {
	clearConfigEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("GENQUIZ_PROVIDER", "OpenAI")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GENQUIZ_QUESTION_TIME", "45s")
	t.Setenv("PORT", "9000")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, DefaultOpenAIModel, cfg.Model)
	assert.Equal(t, "sk-test", cfg.APIKey)
	assert.Equal(t, 45*time.Second, cfg.QuestionTime)
	assert.Equal(t, "9000", cfg.Port)
}

func TestLoadConfigFile(t *testing.T) {
	clearConfigEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "genquiz.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider: openai\nmodel: gpt-4o\nbase_url: http://localhost:11434/v1\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, "http://localhost:11434/v1", cfg.BaseURL)
}

func TestLoadConfigUnknownProvider(t *testing.T) {
	clearConfigEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("GENQUIZ_PROVIDER", "carrier-pigeon")

	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestNewCompleterSelectsBackend(t *testing.T) {
	c, err := NewCompleter(&Config{Provider: ProviderOpenAI, Model: "gpt-4o"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIBackend{}, c)

	c, err = NewCompleter(&Config{Provider: ProviderGemini})
	require.NoError(t, err)
	assert.IsType(t, &GeminiBackend{}, c)

	_, err = NewCompleter(&Config{Provider: "other"})
	assert.Error(t, err)
}
