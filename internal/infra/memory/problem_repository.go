package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"challenge-quiz-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// ProblemSource fetches problems from a backing store (e.g., document DB).
type ProblemSource interface {
	FindProblem(ctx context.Context, id string) (domain.Problem, error)
}

// ProblemCache caches problems with TTL to avoid repeated store hits. Quiz
// grading reads the whole embedded quiz per submission, so the cached unit
// is the full problem document.
type ProblemCache struct {
	source ProblemSource
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedProblem
}

type cachedProblem struct {
	problem   domain.Problem
	expiresAt time.Time
}

func NewProblemCache(source ProblemSource, ttl time.Duration) *ProblemCache {
	return &ProblemCache{
		source: source,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedProblem),
	}
}

func (c *ProblemCache) FindProblem(ctx context.Context, id string) (domain.Problem, error) {
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.cache[id]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.problem, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(id, func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.cache[id]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.problem, nil
		}
		c.mu.RUnlock()

		problem, err := c.source.FindProblem(ctx, id)
		if err != nil {
			return domain.Problem{}, err
		}

		c.mu.Lock()
		c.cache[id] = cachedProblem{
			problem:   problem,
			expiresAt: now.Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return problem, nil
	})
	if err != nil {
		return domain.Problem{}, err
	}
	return result.(domain.Problem), nil
}

func (c *ProblemCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

// StaticProblemRepository is a map-backed source (useful for tests/demos).
type StaticProblemRepository struct {
	problems map[string]domain.Problem
}

func NewStaticProblemRepository(problems map[string]domain.Problem) *StaticProblemRepository {
	return &StaticProblemRepository{problems: problems}
}

func (r *StaticProblemRepository) FindProblem(_ context.Context, id string) (domain.Problem, error) {
	if problem, ok := r.problems[id]; ok {
		return problem, nil
	}
	return domain.Problem{}, domain.ErrProblemNotFound
}
