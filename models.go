package genquiz

import (
	"fmt"
	"strings"
)

// Difficulty is the requested difficulty of a generated quiz
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists the accepted difficulty levels in display order
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

const (
	MinQuestions = 3
	MaxQuestions = 15

	DefaultQuestions  = 5
	DefaultDifficulty = DifficultyMedium

	// OptionsPerQuestion is the number of choices every question carries
	OptionsPerQuestion = 4

	// TimeoutAnswer is the selected option recorded when the countdown expires
	TimeoutAnswer = -1
)

// PresetTopics are offered on the setup screen
var PresetTopics = []string{
	"JavaScript",
	"Space Exploration",
	"World History",
	"Animal Kingdom",
	"Pop Culture",
	"Artificial Intelligence",
}

// ParseDifficulty converts user input into a Difficulty
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d, nil
	}
	return "", fmt.Errorf("%w: unknown difficulty %q", ErrInvalidConfig, s)
}

// QuizConfig is what the user picks on the setup screen
type QuizConfig struct {
	Topic      string     `json:"topic"`
	Difficulty Difficulty `json:"difficulty"`
	Count      int        `json:"count"`
}

// Validate checks the topic, difficulty and question count
func (c QuizConfig) Validate() error {
	if strings.TrimSpace(c.Topic) == "" {
		return fmt.Errorf("%w: topic is required", ErrInvalidConfig)
	}
	if _, err := ParseDifficulty(string(c.Difficulty)); err != nil {
		return err
	}
	if c.Count < MinQuestions || c.Count > MaxQuestions {
		return fmt.Errorf("%w: question count %d outside [%d,%d]", ErrInvalidConfig, c.Count, MinQuestions, MaxQuestions)
	}
	return nil
}

// Question represents a single quiz question with multiple choice answers
type Question struct {
	ID                 string   `json:"id"`
	Question           string   `json:"question"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correctAnswerIndex"` // 0-based index
	Explanation        string   `json:"explanation"`
}

// IsCorrect reports whether the selected option is the right one
func (q Question) IsCorrect(selected int) bool {
	return selected == q.CorrectAnswerIndex
}

// CorrectOption returns the text of the right answer
func (q Question) CorrectOption() string {
	if q.CorrectAnswerIndex < 0 || q.CorrectAnswerIndex >= len(q.Options) {
		return ""
	}
	return q.Options[q.CorrectAnswerIndex]
}

func (q Question) valid() error {
	if strings.TrimSpace(q.Question) == "" {
		return fmt.Errorf("empty question text")
	}
	if len(q.Options) != OptionsPerQuestion {
		return fmt.Errorf("expected %d options, got %d", OptionsPerQuestion, len(q.Options))
	}
	if q.CorrectAnswerIndex < 0 || q.CorrectAnswerIndex >= len(q.Options) {
		return fmt.Errorf("correct answer index %d out of range", q.CorrectAnswerIndex)
	}
	return nil
}

// UserAnswer is the recorded response to one question
type UserAnswer struct {
	QuestionID          string `json:"questionId"`
	SelectedOptionIndex int    `json:"selectedOptionIndex"` // TimeoutAnswer when the timer ran out
	IsCorrect           bool   `json:"isCorrect"`
}

// TimedOut reports whether the answer was forced by the countdown
func (a UserAnswer) TimedOut() bool {
	return a.SelectedOptionIndex == TimeoutAnswer
}

// QuizStatus governs which view is active
type QuizStatus string

const (
	StatusIdle     QuizStatus = "idle"
	StatusLoading  QuizStatus = "loading"
	StatusPlaying  QuizStatus = "playing"
	StatusFinished QuizStatus = "finished"
)
