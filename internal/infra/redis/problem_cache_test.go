package redis

import (
	"context"
	"testing"
	"time"

	"challenge-quiz-service/internal/domain"
	"challenge-quiz-service/internal/infra/memory"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestProblemCacheCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	source := &countingSource{
		ProblemSource: memory.NewStaticProblemRepository(map[string]domain.Problem{
			"p1": sampleProblem(),
		}),
	}
	cache := NewProblemCache(client, source, time.Minute)

	problem, err := cache.FindProblem(context.Background(), "p1")
	if err != nil {
		t.Fatalf("find problem: %v", err)
	}
	if source.calls != 1 {
		t.Fatalf("expected source called once, got %d", source.calls)
	}
	if problem.Quiz == nil || len(problem.Quiz.Questions) != 1 {
		t.Fatalf("expected quiz to survive the round trip, got %+v", problem)
	}
	if !mr.Exists("problem:p1") {
		t.Fatalf("expected redis key to be set")
	}

	// Second call should hit cache, source not incremented.
	if _, err := cache.FindProblem(context.Background(), "p1"); err != nil {
		t.Fatalf("find problem: %v", err)
	}
	if source.calls != 1 {
		t.Fatalf("expected cache hit, source calls=%d", source.calls)
	}
}

func TestProblemCachePropagatesNotFound(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewProblemCache(client, memory.NewStaticProblemRepository(nil), time.Minute)

	if _, err := cache.FindProblem(context.Background(), "missing"); err != domain.ErrProblemNotFound {
		t.Fatalf("expected problem-not-found, got %v", err)
	}
}

type countingSource struct {
	ProblemSource
	calls int
}

func (s *countingSource) FindProblem(ctx context.Context, id string) (domain.Problem, error) {
	s.calls++
	return s.ProblemSource.FindProblem(ctx, id)
}

func sampleProblem() domain.Problem {
	return domain.Problem{
		ID:    "p1",
		Title: "Optimize the supply chain",
		Quiz: &domain.Quiz{
			Enabled: true,
			Questions: []domain.Question{
				{
					Text: "What is 2 + 2?",
					Kind: domain.MultipleChoice,
					Options: []domain.Option{
						{Text: "3"},
						{Text: "4", IsCorrect: true},
						{Text: "5"},
					},
					Points: 1,
				},
			},
		},
	}
}
