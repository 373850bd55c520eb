package genquiz

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	DefaultGeminiModel = "gemini-2.0-flash"
	DefaultOpenAIModel = "gpt-4o-mini"

	DefaultQuestionTime = 30 * time.Second
)

// Config holds everything the binaries read from the environment
type Config struct {
	Provider      string        `mapstructure:"provider"`
	Model         string        `mapstructure:"model"`
	APIKey        string        `mapstructure:"api_key"`
	BaseURL       string        `mapstructure:"base_url"`
	Port          string        `mapstructure:"port"`
	SessionSecret string        `mapstructure:"session_secret"`
	QuestionTime  time.Duration `mapstructure:"question_time"`
	LLMLogDir     string        `mapstructure:"llm_log_dir"`
	Verbose       bool          `mapstructure:"verbose"`
}

// LoadConfig reads an optional .env file, an optional config file and the process
// environment. A missing API key is not an error: every remote call will fail instead.
func LoadConfig(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		VerboseLog("No .env file found, using environment variables")
	}

	vip := viper.New()

	vip.SetDefault("provider", ProviderGemini)
	vip.SetDefault("port", "8180")
	vip.SetDefault("session_secret", "genquiz-dev-secret")
	vip.SetDefault("question_time", DefaultQuestionTime)

	vip.BindEnv("provider", "GENQUIZ_PROVIDER")
	vip.BindEnv("model", "GENQUIZ_MODEL")
	vip.BindEnv("api_key", "GENQUIZ_API_KEY", "API_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY")
	vip.BindEnv("base_url", "GENQUIZ_BASE_URL")
	vip.BindEnv("port", "PORT")
	vip.BindEnv("session_secret", "GENQUIZ_SESSION_SECRET")
	vip.BindEnv("question_time", "GENQUIZ_QUESTION_TIME")
	vip.BindEnv("llm_log_dir", "GENQUIZ_LLM_LOG_DIR")
	vip.BindEnv("verbose", "GENQUIZ_VERBOSE")

	if configPath != "" {
		vip.SetConfigFile(configPath)
		if err := vip.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
			}
			Log().Warnf("Config file %s not found, using environment", configPath)
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize applies provider defaults and rejects unknown providers. Call it again
// after overriding fields.
func (c *Config) Normalize() error {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	switch c.Provider {
	case ProviderGemini:
		if c.Model == "" {
			c.Model = DefaultGeminiModel
		}
	case ProviderOpenAI:
		if c.Model == "" {
			c.Model = DefaultOpenAIModel
		}
	default:
		return fmt.Errorf("unknown provider %q (want %s or %s)", c.Provider, ProviderGemini, ProviderOpenAI)
	}
	if c.QuestionTime < time.Second {
		c.QuestionTime = DefaultQuestionTime
	}
	return nil
}

// QuestionSeconds is the countdown start value for each question
func (c *Config) QuestionSeconds() int {
	return int(c.QuestionTime / time.Second)
}
