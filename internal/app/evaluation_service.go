package app

import (
	"context"
	"fmt"
	"time"

	"challenge-quiz-service/internal/domain"
	"challenge-quiz-service/internal/grader"
)

// ProblemRepository resolves posted problems (from cache/backing store).
type ProblemRepository interface {
	FindProblem(ctx context.Context, id string) (domain.Problem, error)
}

// ResponseLedger persists at most one response per (problem, student) pair.
// Upsert must be a single atomic replace-or-insert on that key; callers
// rely on it to never leave duplicates behind under concurrent submissions.
type ResponseLedger interface {
	Upsert(ctx context.Context, resp domain.Response) (domain.Response, error)
	Get(ctx context.Context, problemID, studentID string) (domain.Response, error)
	TopByPercentage(ctx context.Context, problemID string, limit int) ([]domain.Response, error)
	TopByScore(ctx context.Context, problemID string, limit int) ([]domain.Response, error)
}

// Submission is one quiz attempt. StudentID comes from the verified token
// identity, never from the request body.
type Submission struct {
	ProblemID string
	StudentID string
	Answers   []string
	TimeSpent int // seconds, client-reported
}

// Result is the graded summary returned to the caller, including the full
// verdict sequence so clients can render feedback without a second fetch.
type Result struct {
	TotalScore int              `json:"score"`
	MaxScore   int              `json:"maxScore"`
	Percentage int              `json:"percentage"`
	Passed     bool             `json:"passed"`
	Verdicts   []grader.Verdict `json:"results"`
}

// defaultStandingsLimit bounds leaderboard reads when the caller does not
// ask for a specific size.
const defaultStandingsLimit = 10

// EvaluationService orchestrates a submission: resolve the quiz, grade,
// write through the ledger, and publish updated standings.
type EvaluationService struct {
	problems ProblemRepository
	ledger   ResponseLedger
	hub      *StandingsHub // optional; nil disables live updates
	now      func() time.Time
}

func NewEvaluationService(problems ProblemRepository, ledger ResponseLedger, hub *StandingsHub) *EvaluationService {
	return &EvaluationService{problems: problems, ledger: ledger, hub: hub, now: time.Now}
}

// NewEvaluationServiceWithClock is test-only for deterministic timestamps.
func NewEvaluationServiceWithClock(problems ProblemRepository, ledger ResponseLedger, hub *StandingsHub, now func() time.Time) *EvaluationService {
	return &EvaluationService{problems: problems, ledger: ledger, hub: hub, now: now}
}

// Submit grades one quiz attempt and stores the authoritative response for
// the (problem, student) pair, replacing any earlier attempt.
func (s *EvaluationService) Submit(ctx context.Context, sub Submission) (Result, error) {
	if sub.ProblemID == "" || sub.Answers == nil {
		return Result{}, domain.ErrInvalidInput
	}

	problem, err := s.problems.FindProblem(ctx, sub.ProblemID)
	if err != nil {
		return Result{}, err
	}
	if problem.Quiz == nil || !problem.Quiz.Enabled {
		return Result{}, domain.ErrQuizNotFound
	}

	if sub.StudentID == "" {
		return Result{}, domain.ErrUnauthorized
	}

	graded := grader.Grade(*problem.Quiz, sub.Answers)
	percentage := grader.Percentage(graded.TotalScore, graded.MaxScore)
	passed := percentage >= grader.PassingScore(*problem.Quiz)

	answers := make([]domain.GradedAnswer, len(graded.Verdicts))
	for i, v := range graded.Verdicts {
		answers[i] = domain.GradedAnswer{
			QuestionIndex: v.Index,
			Answer:        v.Answer,
			IsCorrect:     v.Correct,
			Points:        v.Awarded,
		}
	}

	_, err = s.ledger.Upsert(ctx, domain.Response{
		ProblemID:  sub.ProblemID,
		StudentID:  sub.StudentID,
		Answers:    answers,
		TotalScore: graded.TotalScore,
		MaxScore:   graded.MaxScore,
		Percentage: percentage,
		Passed:     passed,
		TimeSpent:  sub.TimeSpent,
	})
	if err != nil {
		return Result{}, fmt.Errorf("save quiz response: %w", err)
	}

	s.publishStandings(ctx, sub.ProblemID)

	return Result{
		TotalScore: graded.TotalScore,
		MaxScore:   graded.MaxScore,
		Percentage: percentage,
		Passed:     passed,
		Verdicts:   graded.Verdicts,
	}, nil
}

// Response returns the stored outcome for one (problem, student) pair.
func (s *EvaluationService) Response(ctx context.Context, problemID, studentID string) (domain.Response, error) {
	if problemID == "" {
		return domain.Response{}, domain.ErrInvalidInput
	}
	if studentID == "" {
		return domain.Response{}, domain.ErrUnauthorized
	}
	return s.ledger.Get(ctx, problemID, studentID)
}

// Standings returns the ordered scoreboard for a problem. orderBy accepts
// "score" for raw totals; anything else orders by percentage.
func (s *EvaluationService) Standings(ctx context.Context, problemID, orderBy string, limit int) (domain.Standings, error) {
	if problemID == "" {
		return domain.Standings{}, domain.ErrInvalidInput
	}
	if limit <= 0 {
		limit = defaultStandingsLimit
	}

	var (
		responses []domain.Response
		err       error
	)
	if orderBy == "score" {
		responses, err = s.ledger.TopByScore(ctx, problemID, limit)
	} else {
		responses, err = s.ledger.TopByPercentage(ctx, problemID, limit)
	}
	if err != nil {
		return domain.Standings{}, fmt.Errorf("load standings: %w", err)
	}

	entries := make([]domain.Standing, len(responses))
	for i, r := range responses {
		entries[i] = domain.Standing{
			StudentID:  r.StudentID,
			TotalScore: r.TotalScore,
			Percentage: r.Percentage,
			Passed:     r.Passed,
		}
	}
	return domain.Standings{ProblemID: problemID, Entries: entries, UpdatedAt: s.now()}, nil
}

func (s *EvaluationService) publishStandings(ctx context.Context, problemID string) {
	if s.hub == nil {
		return
	}
	standings, err := s.Standings(ctx, problemID, "", defaultStandingsLimit)
	if err != nil {
		// Live updates are best-effort; the submission already succeeded.
		return
	}
	s.hub.Publish(standings)
}
