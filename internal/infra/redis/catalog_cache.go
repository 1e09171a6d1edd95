package redis

import (
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"quizroom-service/internal/domain"
	"quizroom-service/internal/infra/memory"
)

// CatalogCache caches filtered catalog lookups in Redis (hash per filter
// combination) and falls back to a loader on cache miss.
// Questions are stored as: HSET catalog:{filterKey} {questionID} {questionJSON}
type CatalogCache struct {
	client *redis.Client
	loader memory.QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group

	mu  sync.Mutex // guards rnd
	rnd *rand.Rand
}

func NewCatalogCache(client *redis.Client, loader memory.QuestionLoader, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Questions implements app.CatalogProvider. Results are copied so callers may
// shuffle them freely; singleflight hands the same slice to every waiter.
func (c *CatalogCache) Questions(ctx context.Context, filters domain.Filters) ([]domain.Question, error) {
	key := c.key(filters)

	cached, err := c.client.HGetAll(ctx, key).Result()
	if err == nil && len(cached) > 0 {
		return decodeQuestions(cached), nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		cached, err := c.client.HGetAll(ctx, key).Result()
		if err == nil && len(cached) > 0 {
			return decodeQuestions(cached), nil
		}

		questions, err := c.loader.LoadQuestions(ctx, filters)
		if err != nil {
			return nil, err
		}
		if len(questions) == 0 {
			return questions, nil
		}

		ttl := c.ttlWithJitter()
		pipe := c.client.Pipeline()
		for _, q := range questions {
			data, err := json.Marshal(q)
			if err != nil {
				continue
			}
			pipe.HSet(ctx, key, q.ID, data)
		}
		if ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		_, _ = pipe.Exec(ctx)

		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return copyQuestions(result.([]domain.Question)), nil
}

func copyQuestions(qs []domain.Question) []domain.Question {
	out := make([]domain.Question, len(qs))
	copy(out, qs)
	return out
}

func (c *CatalogCache) key(filters domain.Filters) string {
	return "catalog:" + memory.FilterKey(filters)
}

func decodeQuestions(cached map[string]string) []domain.Question {
	questions := make([]domain.Question, 0, len(cached))
	for id, raw := range cached {
		var q domain.Question
		if err := json.Unmarshal([]byte(raw), &q); err != nil {
			log.Printf("dropping corrupt cached question %s: %v", id, err)
			continue
		}
		questions = append(questions, q)
	}
	return questions
}

func (c *CatalogCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
