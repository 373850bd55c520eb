package genquiz

import (
	"context"
	"fmt"
	"strings"
)

const (
	// FallbackFeedback replaces the generated remark whenever it cannot be fetched
	FallbackFeedback = "Great job! Check your results below."

	// PendingFeedback is shown while the remark is still being generated
	PendingFeedback = "Generating feedback..."

	MaxFeedbackRunes = 280
)

// FeedbackWriter asks the generative backend for a short performance remark
type FeedbackWriter struct {
	backend Completer
}

// NewFeedbackWriter creates a feedback writer
func NewFeedbackWriter(backend Completer) *FeedbackWriter {
	return &FeedbackWriter{backend: backend}
}

// GetFeedback returns free text commenting on score out of total
func (fw *FeedbackWriter) GetFeedback(ctx context.Context, score, total int, topic string) (string, error) {
	prompt := buildFeedbackPrompt(score, total, topic)
	VerboseLog("Requesting feedback: %s", prompt)

	text, err := fw.backend.Complete(ctx, Completion{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFeedback, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: empty response", ErrFeedback)
	}
	return truncateRunes(text, MaxFeedbackRunes), nil
}

func buildFeedbackPrompt(score, total int, topic string) string {
	return fmt.Sprintf("The user scored %d out of %d on a quiz about %q. Provide a very short, encouraging, and witty piece of feedback (max 2 sentences).", score, total, topic)
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return strings.TrimSpace(string(r[:max-1])) + "…"
}
