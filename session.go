package genquiz

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// GenerationTimeout bounds a single quiz generation request
const GenerationTimeout = 2 * time.Minute

// Session is the quiz state machine: idle -> loading -> playing -> finished -> idle.
// It owns the config, questions and answers of one quiz.
type Session struct {
	mu sync.RWMutex

	service QuizService

	status    QuizStatus
	config    *QuizConfig
	questions []Question
	answers   []UserAnswer
	errMsg    string
	lastErr   error

	// epoch changes on every Start and Reset so a late generation result for
	// a discarded quiz is dropped
	epoch uint64

	// OnChange is called outside the lock after every status change
	OnChange func(QuizStatus)
}

// NewSession creates an idle session backed by service
func NewSession(service QuizService) *Session {
	return &Session{
		service: service,
		status:  StatusIdle,
	}
}

// Start validates cfg, enters loading and makes exactly one generation request.
// Generation failures are recorded as the user-visible error and return the
// session to idle; they are not returned. Only misuse (bad config, wrong
// status) yields an error, and then nothing changes.
func (s *Session) Start(ctx context.Context, cfg QuizConfig) error {
	epoch, err := s.begin(cfg)
	if err != nil {
		return err
	}
	s.generate(ctx, cfg, epoch)
	return nil
}

// StartAsync is Start with the generation request running in the background.
// The session is already loading when it returns.
func (s *Session) StartAsync(ctx context.Context, cfg QuizConfig) error {
	epoch, err := s.begin(cfg)
	if err != nil {
		return err
	}
	go s.generate(ctx, cfg, epoch)
	return nil
}

func (s *Session) begin(cfg QuizConfig) (uint64, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	if s.status != StatusIdle {
		status := s.status
		s.mu.Unlock()
		return 0, fmt.Errorf("%w: start from %s", ErrInvalidTransition, status)
	}
	s.epoch++
	epoch := s.epoch
	s.status = StatusLoading
	s.config = &cfg
	s.errMsg = ""
	s.lastErr = nil
	s.mu.Unlock()
	s.notify(StatusLoading)
	return epoch, nil
}

func (s *Session) generate(ctx context.Context, cfg QuizConfig, epoch uint64) {
	ctx, cancel := context.WithTimeout(ctx, GenerationTimeout)
	defer cancel()

	questions, err := s.service.GenerateQuiz(ctx, cfg)
	if err == nil && len(questions) == 0 {
		err = ErrNoQuestions
	}

	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		VerboseLog("Discarding generation result for %q", cfg.Topic)
		return
	}
	if err != nil {
		Log().WithError(err).WithField("topic", cfg.Topic).Error("Quiz generation failed")
		s.status = StatusIdle
		s.errMsg = GenerationErrorMessage
		s.lastErr = err
		s.mu.Unlock()
		s.notify(StatusIdle)
		return
	}
	s.questions = questions
	s.status = StatusPlaying
	s.mu.Unlock()
	s.notify(StatusPlaying)
}

// Finish stores the answers and enters finished
func (s *Session) Finish(answers []UserAnswer) error {
	s.mu.Lock()
	if s.status != StatusPlaying {
		status := s.status
		s.mu.Unlock()
		return fmt.Errorf("%w: finish from %s", ErrInvalidTransition, status)
	}
	s.answers = append([]UserAnswer(nil), answers...)
	s.status = StatusFinished
	s.mu.Unlock()
	s.notify(StatusFinished)
	return nil
}

// Reset discards the quiz and returns to idle
func (s *Session) Reset() {
	s.mu.Lock()
	s.epoch++
	s.status = StatusIdle
	s.config = nil
	s.questions = nil
	s.answers = nil
	s.errMsg = ""
	s.lastErr = nil
	s.mu.Unlock()
	s.notify(StatusIdle)
}

// DismissError clears the error banner
func (s *Session) DismissError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = ""
}

func (s *Session) notify(status QuizStatus) {
	if s.OnChange != nil {
		s.OnChange(status)
	}
}

// Status returns the current status
func (s *Session) Status() QuizStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Config returns a copy of the active config, or nil
func (s *Session) Config() *QuizConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.config == nil {
		return nil
	}
	cfg := *s.config
	return &cfg
}

// Questions returns the generated questions
func (s *Session) Questions() []Question {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Question(nil), s.questions...)
}

// Answers returns the answers handed to Finish
func (s *Session) Answers() []UserAnswer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]UserAnswer(nil), s.answers...)
}

// Error returns the user-visible error message, empty when none
func (s *Session) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

// LastErr returns the underlying cause of the last generation failure
func (s *Session) LastErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Results scores the finished quiz
func (s *Session) Results() Results {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Score(s.questions, s.answers)
}
