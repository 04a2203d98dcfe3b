package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"challenge-quiz-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ResponseLedger stores quiz responses with a uniqueness constraint on
// (problem_id, student_id). The upsert is a single INSERT ... ON CONFLICT
// statement, so racing submissions for the same pair serialize inside
// Postgres and exactly one row survives.
type ResponseLedger struct {
	pool *pgxpool.Pool
}

func NewResponseLedger(pool *pgxpool.Pool) *ResponseLedger {
	return &ResponseLedger{pool: pool}
}

const responseColumns = `problem_id, student_id, answers, total_score, max_score, percentage, passed, time_spent, created_at, updated_at`

const upsertResponseSQL = `
INSERT INTO quiz_responses (problem_id, student_id, answers, total_score, max_score, percentage, passed, time_spent)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (problem_id, student_id) DO UPDATE SET
    answers     = EXCLUDED.answers,
    total_score = EXCLUDED.total_score,
    max_score   = EXCLUDED.max_score,
    percentage  = EXCLUDED.percentage,
    passed      = EXCLUDED.passed,
    time_spent  = EXCLUDED.time_spent,
    updated_at  = now()
RETURNING ` + responseColumns

func (l *ResponseLedger) Upsert(ctx context.Context, resp domain.Response) (domain.Response, error) {
	answers, err := json.Marshal(resp.Answers)
	if err != nil {
		return domain.Response{}, fmt.Errorf("marshal answers: %w", err)
	}
	row := l.pool.QueryRow(ctx, upsertResponseSQL,
		resp.ProblemID, resp.StudentID, answers,
		resp.TotalScore, resp.MaxScore, resp.Percentage, resp.Passed, resp.TimeSpent)
	stored, err := scanResponse(row)
	if err != nil {
		return domain.Response{}, fmt.Errorf("upsert response: %w", err)
	}
	return stored, nil
}

func (l *ResponseLedger) Get(ctx context.Context, problemID, studentID string) (domain.Response, error) {
	row := l.pool.QueryRow(ctx,
		`SELECT `+responseColumns+` FROM quiz_responses WHERE problem_id=$1 AND student_id=$2`,
		problemID, studentID)
	resp, err := scanResponse(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Response{}, domain.ErrResponseNotFound
	}
	if err != nil {
		return domain.Response{}, fmt.Errorf("load response: %w", err)
	}
	return resp, nil
}

func (l *ResponseLedger) TopByPercentage(ctx context.Context, problemID string, limit int) ([]domain.Response, error) {
	return l.rank(ctx, problemID, limit, `percentage DESC, total_score DESC, student_id ASC`)
}

func (l *ResponseLedger) TopByScore(ctx context.Context, problemID string, limit int) ([]domain.Response, error) {
	return l.rank(ctx, problemID, limit, `total_score DESC, percentage DESC, student_id ASC`)
}

func (l *ResponseLedger) rank(ctx context.Context, problemID string, limit int, order string) ([]domain.Response, error) {
	rows, err := l.pool.Query(ctx,
		`SELECT `+responseColumns+` FROM quiz_responses WHERE problem_id=$1 ORDER BY `+order+` LIMIT $2`,
		problemID, limit)
	if err != nil {
		return nil, fmt.Errorf("rank responses: %w", err)
	}
	defer rows.Close()

	var responses []domain.Response
	for rows.Next() {
		resp, err := scanResponse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		responses = append(responses, resp)
	}
	return responses, rows.Err()
}

func scanResponse(row pgx.Row) (domain.Response, error) {
	var (
		resp domain.Response
		raw  []byte
	)
	err := row.Scan(&resp.ProblemID, &resp.StudentID, &raw,
		&resp.TotalScore, &resp.MaxScore, &resp.Percentage, &resp.Passed,
		&resp.TimeSpent, &resp.CreatedAt, &resp.UpdatedAt)
	if err != nil {
		return domain.Response{}, err
	}
	if err := json.Unmarshal(raw, &resp.Answers); err != nil {
		return domain.Response{}, fmt.Errorf("unmarshal answers: %w", err)
	}
	return resp, nil
}
