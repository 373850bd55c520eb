package genquiz

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBuildFeedbackPrompt(t *testing.T) {
	prompt := buildFeedbackPrompt(4, 5, "Rome")

	assert.Contains(t, prompt, "scored 4 out of 5")
	assert.Contains(t, prompt, `"Rome"`)
	assert.Contains(t, prompt, "max 2 sentences")
}

func TestGetFeedback(t *testing.T) {
	backend := new(MockCompleter)
	backend.On("Complete", mock.Anything, mock.MatchedBy(func(c Completion) bool {
		return c.Schema == nil && strings.Contains(c.Prompt, "scored 2 out of 3")
	})).Return("  Veni, vidi, almost vici!  ", nil).Once()

	text, err := NewFeedbackWriter(backend).GetFeedback(context.Background(), 2, 3, "Rome")

	require.NoError(t, err)
	assert.Equal(t, "Veni, vidi, almost vici!", text)
	backend.AssertExpectations(t)
}

func TestGetFeedbackErrors(t *testing.T) {
	backend := new(MockCompleter)
	backend.On("Complete", mock.Anything, mock.Anything).Return("", errors.New("quota exceeded")).Once()
	_, err := NewFeedbackWriter(backend).GetFeedback(context.Background(), 1, 3, "Rome")
	assert.ErrorIs(t, err, ErrFeedback)

	backend = new(MockCompleter)
	backend.On("Complete", mock.Anything, mock.Anything).Return("   ", nil).Once()
	_, err = NewFeedbackWriter(backend).GetFeedback(context.Background(), 1, 3, "Rome")
	assert.ErrorIs(t, err, ErrFeedback)
}

func TestGetFeedbackIsCapped(t *testing.T) {
	backend := new(MockCompleter)
	backend.On("Complete", mock.Anything, mock.Anything).Return(strings.Repeat("ab ", 500), nil)

	text, err := NewFeedbackWriter(backend).GetFeedback(context.Background(), 3, 3, "Rome")

	require.NoError(t, err)
	assert.LessOrEqual(t, utf8.RuneCountInString(text), MaxFeedbackRunes)
}

func TestFetchFeedbackFallback(t *testing.T) {
	res := Results{CorrectCount: 1, Total: 3}

	svc := new(MockQuizService)
	svc.On("GetFeedback", mock.Anything, 1, 3, "Rome").Return("", ErrFeedback).Once()
	assert.Equal(t, FallbackFeedback, FetchFeedback(context.Background(), svc, res, "Rome"))

	svc = new(MockQuizService)
	svc.On("GetFeedback", mock.Anything, 1, 3, "Rome").Return("Keep marching, legionary.", nil).Once()
	assert.Equal(t, "Keep marching, legionary.", FetchFeedback(context.Background(), svc, res, "Rome"))
	svc.AssertNumberOfCalls(t, "GetFeedback", 1)
}
