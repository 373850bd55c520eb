package genquiz

import (
	"math"

	"github.com/samber/lo"
)

// Rank is the cosmetic title earned by a score
type Rank string

const (
	RankGrandmaster Rank = "Grandmaster"
	RankScholar     Rank = "Scholar"
	RankApprentice  Rank = "Apprentice"
	RankNovice      Rank = "Novice"
)

// RankFor maps a percentage to a rank, highest threshold first
func RankFor(score int) Rank {
	switch {
	case score >= 90:
		return RankGrandmaster
	case score >= 70:
		return RankScholar
	case score >= 50:
		return RankApprentice
	default:
		return RankNovice
	}
}

// ReviewItem pairs a question with the answer given to it
type ReviewItem struct {
	Number   int
	Question Question
	Answer   *UserAnswer
}

// Correct reports whether the question was answered correctly
func (ri ReviewItem) Correct() bool {
	return ri.Answer != nil && ri.Answer.IsCorrect
}

// TimedOut reports whether the countdown expired on this question
func (ri ReviewItem) TimedOut() bool {
	return ri.Answer != nil && ri.Answer.TimedOut()
}

// SelectedOption is the text the user picked, empty on timeout or no answer
func (ri ReviewItem) SelectedOption() string {
	if ri.Answer == nil {
		return ""
	}
	i := ri.Answer.SelectedOptionIndex
	if i < 0 || i >= len(ri.Question.Options) {
		return ""
	}
	return ri.Question.Options[i]
}

// Results summarises a finished quiz
type Results struct {
	CorrectCount    int
	Total           int
	ScorePercentage int
	Rank            Rank
	Review          []ReviewItem
}

// Score aggregates answers against the questions they belong to
func Score(questions []Question, answers []UserAnswer) Results {
	correct := lo.CountBy(answers, func(a UserAnswer) bool { return a.IsCorrect })

	percentage := 0
	if len(questions) > 0 {
		percentage = int(math.Round(100 * float64(correct) / float64(len(questions))))
	}

	review := lo.Map(questions, func(q Question, i int) ReviewItem {
		item := ReviewItem{Number: i + 1, Question: q}
		if a, ok := lo.Find(answers, func(a UserAnswer) bool { return a.QuestionID == q.ID }); ok {
			item.Answer = &a
		}
		return item
	})

	return Results{
		CorrectCount:    correct,
		Total:           len(questions),
		ScorePercentage: percentage,
		Rank:            RankFor(percentage),
		Review:          review,
	}
}
