package genquiz

import (
	"context"
	"time"
)

// QuizService is what the state machine and results view need from the
// generative service
type QuizService interface {
	GenerateQuiz(ctx context.Context, cfg QuizConfig) ([]Question, error)
	GetFeedback(ctx context.Context, score, total int, topic string) (string, error)
}

// Service combines the question maker and feedback writer over one backend
type Service struct {
	maker    *QuestionMaker
	feedback *FeedbackWriter
}

// NewService creates a service over the given backend
func NewService(backend Completer, llmLogDir string) *Service {
	return &Service{
		maker:    NewQuestionMaker(backend, llmLogDir),
		feedback: NewFeedbackWriter(backend),
	}
}

// NewServiceFromConfig builds the backend selected by cfg and wraps it
func NewServiceFromConfig(cfg *Config) (*Service, error) {
	backend, err := NewCompleter(cfg)
	if err != nil {
		return nil, err
	}
	return NewService(backend, cfg.LLMLogDir), nil
}

// GenerateQuiz implements QuizService
func (s *Service) GenerateQuiz(ctx context.Context, cfg QuizConfig) ([]Question, error) {
	return s.maker.GenerateQuestions(ctx, cfg)
}

// GetFeedback implements QuizService
func (s *Service) GetFeedback(ctx context.Context, score, total int, topic string) (string, error) {
	return s.feedback.GetFeedback(ctx, score, total, topic)
}

// FeedbackTimeout bounds the feedback request so the results never wait forever
const FeedbackTimeout = 30 * time.Second

// FetchFeedback asks for the remark once and substitutes FallbackFeedback on any error
func FetchFeedback(ctx context.Context, svc QuizService, res Results, topic string) string {
	ctx, cancel := context.WithTimeout(ctx, FeedbackTimeout)
	defer cancel()

	text, err := svc.GetFeedback(ctx, res.CorrectCount, res.Total, topic)
	if err != nil {
		Log().WithError(err).Warn("Feedback request failed, using fallback")
		return FallbackFeedback
	}
	return text
}
