package grader

import (
	"math"
	"strings"

	"challenge-quiz-service/internal/domain"
)

// DefaultPassingScore applies when a quiz does not set its own threshold.
const DefaultPassingScore = 70

// Verdict is the grading outcome for one question position.
type Verdict struct {
	Index   int    `json:"questionIndex"`
	Prompt  string `json:"question"`
	Answer  string `json:"answer"`
	Correct bool   `json:"correct"`
	Awarded int    `json:"awarded"`
}

// Result aggregates per-question verdicts with the raw score totals.
type Result struct {
	Verdicts   []Verdict
	TotalScore int
	MaxScore   int
}

// Grade scores answers against the quiz questions by position. It is pure
// and never fails: missing answers grade as incorrect and answers beyond
// the question count are ignored.
func Grade(quiz domain.Quiz, answers []string) Result {
	result := Result{Verdicts: make([]Verdict, 0, len(quiz.Questions))}
	for i, q := range quiz.Questions {
		answer, present := "", false
		if i < len(answers) {
			answer, present = answers[i], true
		}

		correct := present && isCorrect(q, answer)
		awarded := 0
		if correct {
			awarded = points(q)
		}

		result.Verdicts = append(result.Verdicts, Verdict{
			Index:   i,
			Prompt:  q.Text,
			Answer:  answer,
			Correct: correct,
			Awarded: awarded,
		})
		result.TotalScore += awarded
		result.MaxScore += points(q)
	}
	return result
}

func isCorrect(q domain.Question, answer string) bool {
	switch q.Kind {
	case domain.MultipleChoice:
		// First option flagged correct wins; ambiguous authoring is the
		// quiz author's problem, not the grader's.
		for _, opt := range q.Options {
			if opt.IsCorrect {
				return answer == opt.Text
			}
		}
		return false
	case domain.FreeText:
		if answer == "" || q.CorrectAnswer == "" {
			return false
		}
		return normalize(answer) == normalize(q.CorrectAnswer)
	case domain.Boolean:
		// Deliberately exact: "True" does not match "true". Free-text
		// normalization does not apply here.
		return answer == q.CorrectAnswer
	default:
		return false
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func points(q domain.Question) int {
	if q.Points <= 0 {
		return 1
	}
	return q.Points
}

// Percentage converts a raw score into a rounded 0-100 value. An empty
// quiz has no gradable content, so its percentage is zero.
func Percentage(total, max int) int {
	if max == 0 {
		return 0
	}
	return int(math.Round(float64(total) / float64(max) * 100))
}

// PassingScore returns the quiz threshold, falling back to the default
// when unset.
func PassingScore(quiz domain.Quiz) int {
	if quiz.PassingScore == 0 {
		return DefaultPassingScore
	}
	return quiz.PassingScore
}
