package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"challenge-quiz-service/internal/domain"
)

func TestUpsertKeepsOneRecordPerPair(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	current := base
	ledger := NewResponseLedgerWithClock(func() time.Time { return current })

	first, err := ledger.Upsert(ctx, domain.Response{ProblemID: "p1", StudentID: "s1", TotalScore: 3})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	current = base.Add(time.Hour)
	second, err := ledger.Upsert(ctx, domain.Response{ProblemID: "p1", StudentID: "s1", TotalScore: 5})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if n := ledger.Count("p1"); n != 1 {
		t.Fatalf("expected one record, got %d", n)
	}
	if second.TotalScore != 5 {
		t.Fatalf("expected replacement content, got %+v", second)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("expected creation time to survive resubmission")
	}
	if !second.UpdatedAt.After(second.CreatedAt) {
		t.Fatalf("expected update time to advance, got %+v", second)
	}
}

func TestConcurrentUpsertsNeverDuplicate(t *testing.T) {
	ctx := context.Background()
	ledger := NewResponseLedger()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(score int) {
			defer wg.Done()
			_, _ = ledger.Upsert(ctx, domain.Response{
				ProblemID: "p1", StudentID: "s1", TotalScore: score,
			})
		}(i)
	}
	wg.Wait()

	if n := ledger.Count("p1"); n != 1 {
		t.Fatalf("expected exactly one record after concurrent upserts, got %d", n)
	}
	if _, err := ledger.Get(ctx, "p1", "s1"); err != nil {
		t.Fatalf("expected a stored response: %v", err)
	}
}

func TestGetMissingResponse(t *testing.T) {
	ledger := NewResponseLedger()
	if _, err := ledger.Get(context.Background(), "p1", "s1"); err != domain.ErrResponseNotFound {
		t.Fatalf("expected response-not-found, got %v", err)
	}
}

func TestRankingOrdersAndLimits(t *testing.T) {
	ctx := context.Background()
	ledger := NewResponseLedger()

	seed := []domain.Response{
		{ProblemID: "p1", StudentID: "alice", TotalScore: 8, Percentage: 80},
		{ProblemID: "p1", StudentID: "bob", TotalScore: 9, Percentage: 60}, // big quiz, low percent
		{ProblemID: "p1", StudentID: "carol", TotalScore: 5, Percentage: 100},
		{ProblemID: "p2", StudentID: "dave", TotalScore: 100, Percentage: 100},
	}
	for _, resp := range seed {
		if _, err := ledger.Upsert(ctx, resp); err != nil {
			t.Fatalf("seed upsert: %v", err)
		}
	}

	byPct, err := ledger.TopByPercentage(ctx, "p1", 0)
	if err != nil {
		t.Fatalf("rank by percentage: %v", err)
	}
	if len(byPct) != 3 || byPct[0].StudentID != "carol" || byPct[2].StudentID != "bob" {
		t.Fatalf("unexpected percentage order: %+v", byPct)
	}

	byScore, err := ledger.TopByScore(ctx, "p1", 2)
	if err != nil {
		t.Fatalf("rank by score: %v", err)
	}
	if len(byScore) != 2 || byScore[0].StudentID != "bob" || byScore[1].StudentID != "alice" {
		t.Fatalf("unexpected score order: %+v", byScore)
	}
}
