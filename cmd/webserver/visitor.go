package main

import (
	"context"
	"sync"
	"time"

	"genquiz"
)

// event is pushed to the browser over the websocket
type event struct {
	Type     string             `json:"type"`
	Status   genquiz.QuizStatus `json:"status,omitempty"`
	Index    int                `json:"index"`
	TimeLeft int                `json:"time_left,omitempty"`
	Correct  bool               `json:"correct,omitempty"`
}

// visitor is one browser's quiz: the state machine, the play-through of the
// current questions and the results feedback
type visitor struct {
	id      string
	service genquiz.QuizService
	seconds int
	session *genquiz.Session

	mu              sync.Mutex
	play            *genquiz.Play
	feedback        string
	feedbackStarted bool
	lastSeen        time.Time
	subs            map[chan event]struct{}
}

func newVisitor(id string, service genquiz.QuizService, seconds int) *visitor {
	v := &visitor{
		id:       id,
		service:  service,
		seconds:  seconds,
		session:  genquiz.NewSession(service),
		lastSeen: time.Now(),
		subs:     make(map[chan event]struct{}),
	}
	v.session.OnChange = v.statusChanged
	return v
}

func (v *visitor) statusChanged(status genquiz.QuizStatus) {
	// notifications run outside the session lock; a reset can overtake one
	if v.session.Status() != status {
		return
	}

	switch status {
	case genquiz.StatusPlaying:
		v.startPlay()
	case genquiz.StatusFinished:
		v.startFeedback()
	case genquiz.StatusIdle:
		v.clear()
	}
	v.publish(event{Type: "status", Status: status})
}

func (v *visitor) startPlay() {
	p := genquiz.NewPlay(v.session.Questions(), v.seconds, genquiz.PlayHooks{
		OnTick: func(index, timeLeft int) {
			v.publish(event{Type: "tick", Index: index, TimeLeft: timeLeft})
		},
		OnAnswer: func(index int, a genquiz.UserAnswer) {
			v.publish(event{Type: "answer", Index: index, Correct: a.IsCorrect})
		},
		OnFinish: func(answers []genquiz.UserAnswer) {
			if err := v.session.Finish(answers); err != nil {
				genquiz.Log().WithError(err).WithField("visitor", v.id).Warn("Finish rejected")
			}
		},
	})

	v.mu.Lock()
	old := v.play
	v.play = p
	v.mu.Unlock()

	if old != nil {
		old.Close()
	}

	// a reset that ran before p was installed found nothing to tear down
	if v.session.Status() != genquiz.StatusPlaying {
		v.mu.Lock()
		if v.play == p {
			v.play = nil
		}
		v.mu.Unlock()
		p.Close()
		return
	}
	p.Start()
}

func (v *visitor) startFeedback() {
	v.mu.Lock()
	if v.feedbackStarted {
		v.mu.Unlock()
		return
	}
	v.feedbackStarted = true
	v.feedback = ""
	v.mu.Unlock()

	topic := ""
	if cfg := v.session.Config(); cfg != nil {
		topic = cfg.Topic
	}
	results := v.session.Results()

	go func() {
		text := genquiz.FetchFeedback(context.Background(), v.service, results, topic)

		v.mu.Lock()
		// a reset while fetching clears feedbackStarted; drop the stale text
		if v.feedbackStarted {
			v.feedback = text
		}
		v.mu.Unlock()
		v.publish(event{Type: "feedback"})
	}()
}

// clear tears down the play-through and feedback of a discarded quiz
func (v *visitor) clear() {
	v.mu.Lock()
	p := v.play
	v.play = nil
	v.feedback = ""
	v.feedbackStarted = false
	v.mu.Unlock()

	if p != nil {
		p.Close()
	}
}

func (v *visitor) currentPlay() *genquiz.Play {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.play
}

func (v *visitor) feedbackText() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.feedback == "" {
		return genquiz.PendingFeedback
	}
	return v.feedback
}

func (v *visitor) subscribe() chan event {
	ch := make(chan event, 16)
	v.mu.Lock()
	v.subs[ch] = struct{}{}
	v.mu.Unlock()
	return ch
}

func (v *visitor) unsubscribe(ch chan event) {
	v.mu.Lock()
	delete(v.subs, ch)
	v.mu.Unlock()
}

// publish never blocks: a slow browser misses ticks, not the quiz
func (v *visitor) publish(e event) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for ch := range v.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

func (v *visitor) touch() {
	v.mu.Lock()
	v.lastSeen = time.Now()
	v.mu.Unlock()
}

func (v *visitor) lastSeenBefore(t time.Time) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastSeen.Before(t) && len(v.subs) == 0
}

func (v *visitor) close() {
	v.clear()
}
