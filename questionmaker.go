package genquiz

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const questionMakerSystem = "You are an expert quiz question generator. Generate high-quality multiple choice questions with exactly 4 options each."

// QuestionMaker turns a QuizConfig into questions using a generative backend
type QuestionMaker struct {
	backend Completer
	logDir  string
}

// NewQuestionMaker creates a question maker. When logDir is non-empty every
// exchange is written to a per-quiz transcript there.
func NewQuestionMaker(backend Completer, logDir string) *QuestionMaker {
	return &QuestionMaker{
		backend: backend,
		logDir:  logDir,
	}
}

// GenerateQuestions makes exactly one request for cfg.Count questions
func (qm *QuestionMaker) GenerateQuestions(ctx context.Context, cfg QuizConfig) ([]Question, error) {
	quizID := uuid.NewString()
	log := Log().WithField("quiz_id", quizID)
	log.Infof("Generating %d %s questions for topic: %s", cfg.Count, cfg.Difficulty, cfg.Topic)

	var transcript *LLMLogger
	if qm.logDir != "" {
		l, err := NewLLMLogger(qm.logDir, quizID, cfg)
		if err != nil {
			log.WithError(err).Warn("Failed to create LLM transcript, continuing without it")
		} else {
			transcript = l
			defer transcript.Close()
		}
	}

	prompt := buildQuizPrompt(cfg)
	transcript.LogLLMRequest("QuestionMaker", prompt)

	raw, err := qm.backend.Complete(ctx, Completion{
		System:     questionMakerSystem,
		Prompt:     prompt,
		Schema:     QuestionSchema,
		SchemaName: questionSchemaName,
	})
	if err != nil {
		log.WithError(err).Error("Question generation request failed")
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	transcript.LogLLMResponse("QuestionMaker", raw)

	questions, err := parseQuestions(raw)
	if err != nil {
		log.WithError(err).Error("Failed to parse generated questions")
		return nil, err
	}

	parsed := len(questions)
	questions = sanitizeQuestions(questions, cfg.Count, transcript)
	if len(questions) == 0 {
		log.Error("No usable questions in the response")
		return nil, fmt.Errorf("%w: %d parsed, none usable", ErrNoQuestions, parsed)
	}
	if len(questions) < cfg.Count {
		log.Warnf("Requested %d questions, got %d usable", cfg.Count, len(questions))
	}

	log.Infof("Generated %d questions", len(questions))
	return questions, nil
}

func buildQuizPrompt(cfg QuizConfig) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Generate a %d-question multiple choice quiz about %q with %s difficulty.\n", cfg.Count, cfg.Topic, cfg.Difficulty))
	sb.WriteString("For each question, provide 4 options, the correct answer index (0-3), and a clear, educational explanation.\n\n")

	sb.WriteString("Requirements:\n")
	sb.WriteString("- Each question must have exactly 4 multiple choice options\n")
	sb.WriteString("- Give every question an id that is unique within the quiz\n")
	sb.WriteString("- Incorrect options should be plausible but clearly wrong\n")
	sb.WriteString("- Avoid questions where the answer is given away in the question text\n")
	sb.WriteString("- Return only JSON matching the requested schema\n")

	return sb.String()
}

// parseQuestions accepts either a bare JSON array or an object wrapping the array
// under "questions", optionally inside a Markdown code fence.
func parseQuestions(raw string) ([]Question, error) {
	clean := strings.TrimSpace(raw)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)

	if clean == "" {
		return nil, fmt.Errorf("%w: empty response", ErrParse)
	}

	data := []byte(clean)
	if bytes.HasPrefix(data, []byte("{")) {
		var wrapped map[string]json.RawMessage
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
		inner, ok := wrapped[wrapperKey]
		if !ok {
			return nil, fmt.Errorf("%w: object response without %q", ErrParse, wrapperKey)
		}
		data = inner
	}

	var questions []Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return questions, nil
}

// sanitizeQuestions drops malformed questions, repairs missing or duplicate IDs
// and truncates to the requested count.
func sanitizeQuestions(questions []Question, limit int, transcript *LLMLogger) []Question {
	seen := make(map[string]bool, len(questions))
	kept := make([]Question, 0, len(questions))

	for _, q := range questions {
		if err := q.valid(); err != nil {
			VerboseLog("Dropping question %q: %v", q.ID, err)
			transcript.LogQuestionResult(q.ID, "reject", err.Error())
			continue
		}
		q.ID = strings.TrimSpace(q.ID)
		if q.ID == "" || seen[q.ID] {
			q.ID = uuid.NewString()
		}
		seen[q.ID] = true
		transcript.LogQuestionResult(q.ID, "accept", "")
		kept = append(kept, q)
	}

	if limit > 0 && len(kept) > limit {
		kept = kept[:limit]
	}
	return kept
}
