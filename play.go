package genquiz

import (
	"fmt"
	"sync"
	"time"
)

// PlayHooks are notified as the quiz is played. They are called outside the
// Play lock, possibly from the countdown goroutine.
type PlayHooks struct {
	OnTick   func(index, timeLeft int)
	OnAnswer func(index int, answer UserAnswer)
	OnFinish func(answers []UserAnswer)
}

// PlayState is a snapshot for rendering the current question
type PlayState struct {
	Index    int
	Total    int
	Question Question
	Selected int // TimeoutAnswer until answered
	Answered bool
	TimeLeft int
	Correct  int
	Finished bool
}

// IsLast reports whether the current question is the final one
func (ps PlayState) IsLast() bool {
	return ps.Index == ps.Total-1
}

// Progress is the 1-based position as a percentage of the quiz
func (ps PlayState) Progress() int {
	if ps.Total == 0 {
		return 0
	}
	return (ps.Index + 1) * 100 / ps.Total
}

// Play walks through the questions one at a time, accepting one answer per
// question and running a countdown that forces a timeout answer at zero.
type Play struct {
	mu sync.Mutex

	questions []Question
	seconds   int
	interval  time.Duration
	hooks     PlayHooks

	index    int
	selected int
	answered bool
	timeLeft int
	answers  []UserAnswer
	finished bool
	running  bool
	closed   bool

	stop chan struct{}
	done chan struct{}
}

// NewPlay prepares a play-through. seconds <= 0 uses the default question time.
// The countdown does not run until Start.
func NewPlay(questions []Question, seconds int, hooks PlayHooks) *Play {
	if seconds <= 0 {
		seconds = int(DefaultQuestionTime / time.Second)
	}
	return &Play{
		questions: questions,
		seconds:   seconds,
		interval:  time.Second,
		hooks:     hooks,
		selected:  TimeoutAnswer,
		timeLeft:  seconds,
		answers:   make([]UserAnswer, 0, len(questions)),
	}
}

// SetInterval changes the countdown period; it must be called before Start
func (p *Play) SetInterval(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.interval = d
}

// Start begins the countdown for the current question
func (p *Play) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running || p.closed || p.finished || len(p.questions) == 0 {
		return
	}
	p.running = true
	if !p.answered {
		p.startCountdownLocked()
	}
}

func (p *Play) startCountdownLocked() {
	stop := make(chan struct{})
	done := make(chan struct{})
	p.stop, p.done = stop, done
	go p.countdown(p.index, p.interval, stop, done)
}

func (p *Play) countdown(index int, interval time.Duration, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !p.tick(index) {
				return
			}
		}
	}
}

// stopCountdownLocked signals the running countdown and returns its done
// channel; the caller may wait on it once the lock is released
func (p *Play) stopCountdownLocked() <-chan struct{} {
	if p.stop != nil {
		close(p.stop)
	}
	done := p.done
	p.stop, p.done = nil, nil
	return done
}

// Tick advances the countdown of the current question by one step
func (p *Play) Tick() {
	p.mu.Lock()
	index := p.index
	p.mu.Unlock()
	p.tick(index)
}

// tick decrements the timer of question index. It reports whether the
// countdown should keep running.
func (p *Play) tick(index int) bool {
	p.mu.Lock()
	if p.closed || p.finished || p.answered || p.index != index {
		p.mu.Unlock()
		return false
	}

	p.timeLeft--
	timeLeft := p.timeLeft
	if timeLeft > 0 {
		p.mu.Unlock()
		if p.hooks.OnTick != nil {
			p.hooks.OnTick(index, timeLeft)
		}
		return true
	}

	// timed out: the countdown exits on its own once the hooks below return.
	// done stays set so Close still waits for them.
	if p.stop != nil {
		close(p.stop)
	}
	p.stop = nil
	answer := p.recordLocked(TimeoutAnswer)
	p.mu.Unlock()

	if p.hooks.OnTick != nil {
		p.hooks.OnTick(index, 0)
	}
	if p.hooks.OnAnswer != nil {
		p.hooks.OnAnswer(index, answer)
	}
	return false
}

// Answer records option for the current question. It returns false without
// recording anything when the question is already answered, the quiz is over
// or option is not a valid index.
func (p *Play) Answer(option int) (UserAnswer, bool) {
	p.mu.Lock()
	if p.closed || p.finished || p.answered || len(p.questions) == 0 {
		p.mu.Unlock()
		return UserAnswer{}, false
	}
	if option < 0 || option >= len(p.questions[p.index].Options) {
		p.mu.Unlock()
		return UserAnswer{}, false
	}
	index := p.index
	answer := p.recordLocked(option)
	p.stopCountdownLocked()
	p.mu.Unlock()

	if p.hooks.OnAnswer != nil {
		p.hooks.OnAnswer(index, answer)
	}
	return answer, true
}

func (p *Play) recordLocked(option int) UserAnswer {
	q := p.questions[p.index]
	answer := UserAnswer{
		QuestionID:          q.ID,
		SelectedOptionIndex: option,
		IsCorrect:           q.IsCorrect(option),
	}
	p.selected = option
	p.answered = true
	p.answers = append(p.answers, answer)
	return answer
}

// Next moves to the following question, or finishes the quiz after the last
// one and hands every answer to OnFinish. The current question must be answered.
func (p *Play) Next() error {
	p.mu.Lock()
	if p.closed || p.finished {
		p.mu.Unlock()
		return fmt.Errorf("%w: quiz is over", ErrInvalidTransition)
	}
	if !p.answered {
		p.mu.Unlock()
		return fmt.Errorf("%w: question %d is unanswered", ErrInvalidTransition, p.index+1)
	}

	if p.index < len(p.questions)-1 {
		p.index++
		p.selected = TimeoutAnswer
		p.answered = false
		p.timeLeft = p.seconds
		if p.running {
			p.startCountdownLocked()
		}
		index, timeLeft := p.index, p.timeLeft
		p.mu.Unlock()
		if p.hooks.OnTick != nil {
			p.hooks.OnTick(index, timeLeft)
		}
		return nil
	}

	p.finished = true
	answers := append([]UserAnswer(nil), p.answers...)
	p.mu.Unlock()

	if p.hooks.OnFinish != nil {
		p.hooks.OnFinish(answers)
	}
	return nil
}

// Close stops the countdown and waits for it to exit. No tick or timeout is
// delivered afterwards. Close must not be called from a hook.
func (p *Play) Close() {
	p.mu.Lock()
	p.closed = true
	done := p.stopCountdownLocked()
	p.mu.Unlock()

	if done != nil {
		<-done
	}
}

// State returns a snapshot of the current question
func (p *Play) State() PlayState {
	p.mu.Lock()
	defer p.mu.Unlock()

	ps := PlayState{
		Index:    p.index,
		Total:    len(p.questions),
		Selected: p.selected,
		Answered: p.answered,
		TimeLeft: p.timeLeft,
		Finished: p.finished,
	}
	if p.index < len(p.questions) {
		ps.Question = p.questions[p.index]
	}
	for _, a := range p.answers {
		if a.IsCorrect {
			ps.Correct++
		}
	}
	return ps
}

// Answers returns the answers recorded so far
func (p *Play) Answers() []UserAnswer {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]UserAnswer(nil), p.answers...)
}
