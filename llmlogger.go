package genquiz

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// LLMLogger writes a transcript of every prompt and response exchanged for one quiz
type LLMLogger struct {
	file   *os.File
	mu     sync.Mutex
	quizID string
}

// NewLLMLogger creates <dir>/<quizID>.log and writes the quiz parameters as a header
func NewLLMLogger(dir, quizID string, cfg QuizConfig) (*LLMLogger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	filename := filepath.Join(dir, fmt.Sprintf("%s.log", quizID))
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	ll := &LLMLogger{
		file:   file,
		quizID: quizID,
	}

	ll.Logf("=== Quiz Generation Log ===\n")
	ll.Logf("Quiz ID: %s\n", quizID)
	ll.Logf("Topic: %s\n", cfg.Topic)
	ll.Logf("Number of Questions: %d\n", cfg.Count)
	ll.Logf("Difficulty: %s\n", cfg.Difficulty)
	ll.Logf("Started: %s\n", time.Now().Format(time.RFC3339))
	ll.Logf("========================\n\n")

	return ll, nil
}

// Logf writes a timestamped entry. A nil logger discards it.
func (ll *LLMLogger) Logf(format string, args ...interface{}) {
	if ll == nil {
		return
	}
	ll.mu.Lock()
	defer ll.mu.Unlock()
	ll.writef(format, args...)
}

func (ll *LLMLogger) writef(format string, args ...interface{}) {
	if ll.file == nil {
		return
	}
	timestamp := time.Now().Format("15:04:05.000")
	fmt.Fprintf(ll.file, "[%s] %s", timestamp, fmt.Sprintf(format, args...))
	ll.file.Sync()
}

// LogLLMRequest logs an outbound prompt
func (ll *LLMLogger) LogLLMRequest(module, prompt string) {
	ll.Logf("=== LLM REQUEST (%s) ===\n", module)
	ll.Logf("Prompt:\n%s\n", prompt)
	ll.Logf("=====================\n\n")
}

// LogLLMResponse logs the raw response text
func (ll *LLMLogger) LogLLMResponse(module, response string) {
	ll.Logf("=== LLM RESPONSE (%s) ===\n", module)
	ll.Logf("Response:\n%s\n", response)
	ll.Logf("======================\n\n")
}

// LogQuestionResult logs whether a parsed question was kept
func (ll *LLMLogger) LogQuestionResult(questionID, action, reason string) {
	ll.Logf("Question %s: %s - %s\n", questionID, action, reason)
}

// Close finishes the transcript
func (ll *LLMLogger) Close() error {
	if ll == nil {
		return nil
	}
	ll.mu.Lock()
	defer ll.mu.Unlock()

	if ll.file == nil {
		return nil
	}
	ll.writef("=== Quiz %s complete at %s ===\n", ll.quizID, time.Now().Format(time.RFC3339))
	err := ll.file.Close()
	ll.file = nil
	return err
}
