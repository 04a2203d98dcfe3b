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

// ProblemRepository loads problem JSONB from Postgres. The embedded quiz
// definition travels inside the document, same as the upstream store.
type ProblemRepository struct {
	pool *pgxpool.Pool
}

func NewProblemRepository(pool *pgxpool.Pool) *ProblemRepository {
	return &ProblemRepository{pool: pool}
}

func (r *ProblemRepository) FindProblem(ctx context.Context, id string) (domain.Problem, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx, `SELECT data FROM problems WHERE id=$1`, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Problem{}, domain.ErrProblemNotFound
	}
	if err != nil {
		return domain.Problem{}, fmt.Errorf("load problem: %w", err)
	}
	var problem domain.Problem
	if err := json.Unmarshal(raw, &problem); err != nil {
		return domain.Problem{}, fmt.Errorf("unmarshal problem: %w", err)
	}
	problem.ID = id
	return problem, nil
}
