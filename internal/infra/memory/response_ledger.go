package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"challenge-quiz-service/internal/domain"
)

type ledgerKey struct {
	problemID string
	studentID string
}

// ResponseLedger is an in-memory implementation of app.ResponseLedger.
// A single mutex over the composite-key map makes each upsert atomic, so
// concurrent submissions for the same pair can never produce two records.
type ResponseLedger struct {
	mu        sync.RWMutex
	responses map[ledgerKey]domain.Response
	clock     func() time.Time
}

func NewResponseLedger() *ResponseLedger {
	return &ResponseLedger{
		responses: make(map[ledgerKey]domain.Response),
		clock:     time.Now,
	}
}

// NewResponseLedgerWithClock is test-only for deterministic timestamps.
func NewResponseLedgerWithClock(now func() time.Time) *ResponseLedger {
	return &ResponseLedger{
		responses: make(map[ledgerKey]domain.Response),
		clock:     now,
	}
}

// Upsert replaces or inserts the response for its (problem, student) pair.
// The first write's creation time survives resubmissions.
func (l *ResponseLedger) Upsert(_ context.Context, resp domain.Response) (domain.Response, error) {
	key := ledgerKey{problemID: resp.ProblemID, studentID: resp.StudentID}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	if existing, ok := l.responses[key]; ok {
		resp.CreatedAt = existing.CreatedAt
	} else {
		resp.CreatedAt = now
	}
	resp.UpdatedAt = now
	l.responses[key] = resp
	return resp, nil
}

func (l *ResponseLedger) Get(_ context.Context, problemID, studentID string) (domain.Response, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	resp, ok := l.responses[ledgerKey{problemID: problemID, studentID: studentID}]
	if !ok {
		return domain.Response{}, domain.ErrResponseNotFound
	}
	return resp, nil
}

func (l *ResponseLedger) TopByPercentage(_ context.Context, problemID string, limit int) ([]domain.Response, error) {
	return l.top(problemID, limit, func(a, b domain.Response) bool {
		if a.Percentage != b.Percentage {
			return a.Percentage > b.Percentage
		}
		if a.TotalScore != b.TotalScore {
			return a.TotalScore > b.TotalScore
		}
		return a.StudentID < b.StudentID
	}), nil
}

func (l *ResponseLedger) TopByScore(_ context.Context, problemID string, limit int) ([]domain.Response, error) {
	return l.top(problemID, limit, func(a, b domain.Response) bool {
		if a.TotalScore != b.TotalScore {
			return a.TotalScore > b.TotalScore
		}
		if a.Percentage != b.Percentage {
			return a.Percentage > b.Percentage
		}
		return a.StudentID < b.StudentID
	}), nil
}

func (l *ResponseLedger) top(problemID string, limit int, less func(a, b domain.Response) bool) []domain.Response {
	l.mu.RLock()
	matches := make([]domain.Response, 0)
	for key, resp := range l.responses {
		if key.problemID == problemID {
			matches = append(matches, resp)
		}
	}
	l.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool { return less(matches[i], matches[j]) })
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// Count reports stored responses for a problem (test hook for the
// one-response-per-pair property).
func (l *ResponseLedger) Count(problemID string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	n := 0
	for key := range l.responses {
		if key.problemID == problemID {
			n++
		}
	}
	return n
}
