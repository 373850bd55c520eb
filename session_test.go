package genquiz

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSessionStartSuccess(t *testing.T) {
	svc := new(MockQuizService)
	svc.On("GenerateQuiz", mock.Anything, romeConfig()).Return(sampleQuestions(3), nil).Once()

	var statuses []QuizStatus
	s := NewSession(svc)
	s.OnChange = func(st QuizStatus) { statuses = append(statuses, st) }

	require.NoError(t, s.Start(context.Background(), romeConfig()))

	assert.Equal(t, StatusPlaying, s.Status())
	assert.Len(t, s.Questions(), 3)
	assert.Empty(t, s.Error())
	require.NotNil(t, s.Config())
	assert.Equal(t, "Rome", s.Config().Topic)
	assert.Equal(t, []QuizStatus{StatusLoading, StatusPlaying}, statuses)
	svc.AssertNumberOfCalls(t, "GenerateQuiz", 1)
}

func TestSessionStartFailures(t *testing.T) {
	tests := []struct {
		name      string
		questions []Question
		err       error
		wantCause error
	}{
		{"empty result", []Question{}, nil, ErrNoQuestions},
		{"nil result", nil, nil, ErrNoQuestions},
		{"generation error", nil, ErrGeneration, ErrGeneration},
		{"parse error", nil, ErrParse, ErrParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockQuizService)
			if tt.questions == nil {
				svc.On("GenerateQuiz", mock.Anything, mock.Anything).Return(nil, tt.err).Once()
			} else {
				svc.On("GenerateQuiz", mock.Anything, mock.Anything).Return(tt.questions, tt.err).Once()
			}

			s := NewSession(svc)
			err := s.Start(context.Background(), romeConfig())

			assert.NoError(t, err, "generation failures are reported, not returned")
			assert.Equal(t, StatusIdle, s.Status())
			assert.Equal(t, GenerationErrorMessage, s.Error())
			assert.ErrorIs(t, s.LastErr(), tt.wantCause)
			assert.Empty(t, s.Questions())
			svc.AssertNumberOfCalls(t, "GenerateQuiz", 1)
		})
	}
}

func TestSessionStartClearsPreviousError(t *testing.T) {
	svc := new(MockQuizService)
	svc.On("GenerateQuiz", mock.Anything, mock.Anything).Return(nil, errors.New("boom")).Once()
	svc.On("GenerateQuiz", mock.Anything, mock.Anything).Return(sampleQuestions(3), nil).Once()

	s := NewSession(svc)
	require.NoError(t, s.Start(context.Background(), romeConfig()))
	require.NotEmpty(t, s.Error())

	require.NoError(t, s.Start(context.Background(), romeConfig()))
	assert.Empty(t, s.Error())
	assert.Equal(t, StatusPlaying, s.Status())
	svc.AssertNumberOfCalls(t, "GenerateQuiz", 2)
}

func TestSessionStartRejectsMisuse(t *testing.T) {
	svc := new(MockQuizService)
	s := NewSession(svc)

	err := s.Start(context.Background(), QuizConfig{Topic: "", Difficulty: DifficultyEasy, Count: 3})
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Equal(t, StatusIdle, s.Status())
	assert.Nil(t, s.Config())

	svc.On("GenerateQuiz", mock.Anything, mock.Anything).Return(sampleQuestions(3), nil).Once()
	require.NoError(t, s.Start(context.Background(), romeConfig()))

	err = s.Start(context.Background(), romeConfig())
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StatusPlaying, s.Status())
	svc.AssertNumberOfCalls(t, "GenerateQuiz", 1)
}

func TestSessionFinishAndReset(t *testing.T) {
	svc := new(MockQuizService)
	svc.On("GenerateQuiz", mock.Anything, mock.Anything).Return(sampleQuestions(3), nil).Once()

	s := NewSession(svc)
	assert.ErrorIs(t, s.Finish(nil), ErrInvalidTransition)

	require.NoError(t, s.Start(context.Background(), romeConfig()))
	answers := []UserAnswer{
		{QuestionID: "q1", SelectedOptionIndex: 0, IsCorrect: true},
		{QuestionID: "q2", SelectedOptionIndex: 0, IsCorrect: false},
		{QuestionID: "q3", SelectedOptionIndex: TimeoutAnswer, IsCorrect: false},
	}
	require.NoError(t, s.Finish(answers))
	assert.Equal(t, StatusFinished, s.Status())
	assert.Equal(t, answers, s.Answers())

	s.Reset()
	assert.Equal(t, StatusIdle, s.Status())
	assert.Empty(t, s.Questions())
	assert.Empty(t, s.Answers())
	assert.Nil(t, s.Config())
	assert.Empty(t, s.Error())
}

func TestSessionDismissError(t *testing.T) {
	svc := new(MockQuizService)
	svc.On("GenerateQuiz", mock.Anything, mock.Anything).Return([]Question{}, nil)

	s := NewSession(svc)
	require.NoError(t, s.Start(context.Background(), romeConfig()))
	require.NotEmpty(t, s.Error())

	s.DismissError()
	assert.Empty(t, s.Error())
	assert.Equal(t, StatusIdle, s.Status())
}

func TestSessionResetWhileLoadingDropsResult(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})

	svc := new(MockQuizService)
	svc.On("GenerateQuiz", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(sampleQuestions(3), nil).Once()

	s := NewSession(svc)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, s.Start(context.Background(), romeConfig()))
	}()

	<-entered
	assert.Equal(t, StatusLoading, s.Status())
	s.Reset()
	close(release)
	wg.Wait()

	assert.Equal(t, StatusIdle, s.Status())
	assert.Empty(t, s.Questions())
}

func TestSessionStartAsync(t *testing.T) {
	release := make(chan struct{})
	svc := new(MockQuizService)
	svc.On("GenerateQuiz", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { <-release }).
		Return(sampleQuestions(3), nil).Once()

	changed := make(chan QuizStatus, 4)
	s := NewSession(svc)
	s.OnChange = func(st QuizStatus) { changed <- st }

	require.NoError(t, s.StartAsync(context.Background(), romeConfig()))
	assert.Equal(t, StatusLoading, s.Status())
	assert.ErrorIs(t, s.StartAsync(context.Background(), romeConfig()), ErrInvalidTransition)

	close(release)
	assert.Equal(t, StatusLoading, <-changed)
	assert.Equal(t, StatusPlaying, <-changed)
	assert.Len(t, s.Questions(), 3)
	svc.AssertNumberOfCalls(t, "GenerateQuiz", 1)
}
