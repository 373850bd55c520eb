package main

import (
	"context"
	"encoding/json"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"genquiz"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	cookieName = "genquiz-session"
	visitorKey = "visitor_id"
)

// Server renders the quiz for each browser from its own in-memory session
type Server struct {
	service   genquiz.QuizService
	store     sessions.Store
	templates map[genquiz.QuizStatus]*template.Template
	seconds   int

	mu       sync.RWMutex
	visitors map[string]*visitor
}

// NewServer creates a server. seconds is the countdown per question.
func NewServer(service genquiz.QuizService, store sessions.Store, templates map[genquiz.QuizStatus]*template.Template, seconds int) *Server {
	return &Server{
		service:   service,
		store:     store,
		templates: templates,
		seconds:   seconds,
		visitors:  make(map[string]*visitor),
	}
}

// Routes builds the HTTP handler
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleHome)
	r.Post("/quiz", s.handleStart)
	r.Post("/quiz/answer", s.handleAnswer)
	r.Post("/quiz/next", s.handleNext)
	r.Post("/quiz/reset", s.handleReset)
	r.Get("/quiz/feedback", s.handleFeedback)
	r.Post("/error/dismiss", s.handleDismiss)
	r.Get("/ws", s.handleWS)

	return r
}

// visitorFor finds or creates the visitor behind the session cookie
func (s *Server) visitorFor(w http.ResponseWriter, r *http.Request) *visitor {
	session, err := s.store.Get(r, cookieName)
	if err != nil {
		genquiz.VerboseLog("Discarding unreadable session cookie: %v", err)
	}

	id, _ := session.Values[visitorKey].(string)

	s.mu.Lock()
	v, ok := s.visitors[id]
	if !ok {
		id = uuid.NewString()
		v = newVisitor(id, s.service, s.seconds)
		s.visitors[id] = v
	}
	s.mu.Unlock()

	v.touch()

	if !ok {
		session.Values[visitorKey] = id
		if err := session.Save(r, w); err != nil {
			genquiz.Log().WithError(err).Warn("Session save error")
		}
	}
	return v
}

func (s *Server) evictIdle(every, maxIdle time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for range ticker.C {
		s.evictOlderThan(time.Now().Add(-maxIdle))
	}
}

func (s *Server) evictOlderThan(cutoff time.Time) int {
	s.mu.Lock()
	var stale []*visitor
	for id, v := range s.visitors {
		if v.lastSeenBefore(cutoff) {
			stale = append(stale, v)
			delete(s.visitors, id)
		}
	}
	s.mu.Unlock()

	for _, v := range stale {
		v.close()
	}
	if len(stale) > 0 {
		genquiz.VerboseLog("Evicted %d idle sessions", len(stale))
	}
	return len(stale)
}

type pageData struct {
	Status       genquiz.QuizStatus
	Error        string
	Topic        string
	Presets      []string
	Difficulties []genquiz.Difficulty
	Default      genquiz.QuizConfig
	MinQuestions int
	MaxQuestions int
	Play         genquiz.PlayState
	Results      genquiz.Results
	Feedback     string
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	v := s.visitorFor(w, r)
	status := v.session.Status()

	data := pageData{
		Error:        v.session.Error(),
		Presets:      genquiz.PresetTopics,
		Difficulties: genquiz.Difficulties,
		Default:      genquiz.QuizConfig{Difficulty: genquiz.DefaultDifficulty, Count: genquiz.DefaultQuestions},
		MinQuestions: genquiz.MinQuestions,
		MaxQuestions: genquiz.MaxQuestions,
	}
	if cfg := v.session.Config(); cfg != nil {
		data.Topic = cfg.Topic
	}

	switch status {
	case genquiz.StatusPlaying:
		p := v.currentPlay()
		if p == nil {
			// questions arrived but the play-through is still being set up
			status = genquiz.StatusLoading
			break
		}
		data.Play = p.State()
	case genquiz.StatusFinished:
		data.Results = v.session.Results()
		data.Feedback = v.feedbackText()
	}

	data.Status = status

	tmpl, ok := s.templates[status]
	if !ok {
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	if err := tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		genquiz.Log().WithError(err).WithField("status", status).Error("Template error")
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	difficulty, err := genquiz.ParseDifficulty(r.FormValue("difficulty"))
	if err != nil {
		http.Error(w, "Invalid difficulty", http.StatusBadRequest)
		return
	}
	count, err := strconv.Atoi(r.FormValue("count"))
	if err != nil {
		count = genquiz.DefaultQuestions
	}

	cfg := genquiz.QuizConfig{
		Topic:      strings.TrimSpace(r.FormValue("topic")),
		Difficulty: difficulty,
		Count:      count,
	}
	if err := cfg.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	v := s.visitorFor(w, r)
	// the request context ends with this response; generation outlives it
	if err := v.session.StartAsync(context.Background(), cfg); err != nil {
		genquiz.Log().WithError(err).WithField("visitor", v.id).Warn("Start rejected")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}
	option, err := strconv.Atoi(r.FormValue("option"))
	if err != nil {
		http.Error(w, "Invalid answer", http.StatusBadRequest)
		return
	}

	v := s.visitorFor(w, r)
	if p := v.currentPlay(); p != nil {
		if _, ok := p.Answer(option); !ok {
			genquiz.VerboseLog("Ignored answer %d from %s", option, v.id)
		}
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	v := s.visitorFor(w, r)
	if p := v.currentPlay(); p != nil {
		if err := p.Next(); err != nil {
			genquiz.VerboseLog("Next rejected for %s: %v", v.id, err)
		}
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	v := s.visitorFor(w, r)
	v.session.Reset()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleDismiss(w http.ResponseWriter, r *http.Request) {
	v := s.visitorFor(w, r)
	v.session.DismissError()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	v := s.visitorFor(w, r)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":   string(v.session.Status()),
		"feedback": v.feedbackText(),
	})
}
