package genquiz

import (
	"context"
	"fmt"

	"github.com/stretchr/testify/mock"
)

// MockCompleter implements Completer
type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Complete(ctx context.Context, c Completion) (string, error) {
	args := m.Called(ctx, c)
	return args.String(0), args.Error(1)
}

// MockQuizService implements QuizService
type MockQuizService struct {
	mock.Mock
}

func (m *MockQuizService) GenerateQuiz(ctx context.Context, cfg QuizConfig) ([]Question, error) {
	args := m.Called(ctx, cfg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Question), args.Error(1)
}

func (m *MockQuizService) GetFeedback(ctx context.Context, score, total int, topic string) (string, error) {
	args := m.Called(ctx, score, total, topic)
	return args.String(0), args.Error(1)
}

func sampleQuestions(n int) []Question {
	questions := make([]Question, n)
	for i := range questions {
		questions[i] = Question{
			ID:                 fmt.Sprintf("q%d", i+1),
			Question:           fmt.Sprintf("Question %d?", i+1),
			Options:            []string{"A", "B", "C", "D"},
			CorrectAnswerIndex: i % OptionsPerQuestion,
			Explanation:        fmt.Sprintf("Because %d.", i+1),
		}
	}
	return questions
}

func romeConfig() QuizConfig {
	return QuizConfig{Topic: "Rome", Difficulty: DifficultyEasy, Count: 3}
}
