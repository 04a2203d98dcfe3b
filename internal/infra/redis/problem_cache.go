package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"challenge-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// ProblemSource fetches problems from a backing store (e.g., document DB).
type ProblemSource interface {
	FindProblem(ctx context.Context, id string) (domain.Problem, error)
}

// ProblemCache keeps whole problem documents in Redis and falls back to a
// source on cache miss. Questions are matched by position, so the quiz is
// cached as one JSON blob rather than per-question hash fields.
type ProblemCache struct {
	client *redis.Client
	source ProblemSource
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewProblemCache(client *redis.Client, source ProblemSource, ttl time.Duration) *ProblemCache {
	return &ProblemCache{
		client: client,
		source: source,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *ProblemCache) FindProblem(ctx context.Context, id string) (domain.Problem, error) {
	key := c.key(id)

	if problem, ok := c.fromCache(ctx, key); ok {
		return problem, nil
	}

	result, err, _ := c.sf.Do(id, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if problem, ok := c.fromCache(ctx, key); ok {
			return problem, nil
		}

		problem, err := c.source.FindProblem(ctx, id)
		if err != nil {
			return domain.Problem{}, err
		}

		if data, err := json.Marshal(problem); err == nil {
			_ = c.client.Set(ctx, key, data, c.ttlWithJitter()).Err()
		}
		return problem, nil
	})
	if err != nil {
		return domain.Problem{}, err
	}
	return result.(domain.Problem), nil
}

func (c *ProblemCache) fromCache(ctx context.Context, key string) (domain.Problem, bool) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return domain.Problem{}, false
	}
	var problem domain.Problem
	if err := json.Unmarshal(raw, &problem); err != nil {
		return domain.Problem{}, false
	}
	return problem, true
}

func (c *ProblemCache) key(id string) string {
	return "problem:" + id
}

func (c *ProblemCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
