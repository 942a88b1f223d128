// Package redis caches the attempt path's answer lookups in Redis so a burst
// of attempts against the same answer hits the database once per TTL window.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"campus-quiz-service/internal/domain"
)

// AnswerLoader fetches an answer from the backing store on cache miss.
type AnswerLoader interface {
	AnswerByID(ctx context.Context, id string) (domain.Answer, error)
}

// AnswerCache stores answers as JSON under "answer:{id}" and falls back to
// the loader on cache miss. Concurrent misses for the same id are collapsed
// with singleflight.
type AnswerCache struct {
	client *redis.Client
	loader AnswerLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewAnswerCache(client *redis.Client, loader AnswerLoader, ttl time.Duration) *AnswerCache {
	return &AnswerCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *AnswerCache) AnswerByID(ctx context.Context, id string) (domain.Answer, error) {
	key := c.key(id)

	raw, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var answer domain.Answer
		if err := json.Unmarshal(raw, &answer); err == nil {
			return answer, nil
		}
		// corrupt entry, fall through to reload
	} else if !errors.Is(err, redis.Nil) {
		// Redis being down must not break attempts; read through instead.
		return c.loader.AnswerByID(ctx, id)
	}

	result, err, _ := c.sf.Do(id, func() (interface{}, error) {
		// Re-check in case another goroutine filled the key.
		raw, err := c.client.Get(ctx, key).Bytes()
		if err == nil {
			var answer domain.Answer
			if err := json.Unmarshal(raw, &answer); err == nil {
				return answer, nil
			}
		}

		answer, err := c.loader.AnswerByID(ctx, id)
		if err != nil {
			return domain.Answer{}, err
		}

		if data, err := json.Marshal(answer); err == nil {
			_ = c.client.Set(ctx, key, data, c.ttlWithJitter()).Err()
		}
		return answer, nil
	})
	if err != nil {
		return domain.Answer{}, err
	}
	return result.(domain.Answer), nil
}

// Invalidate deletes the cached entries for the given answer ids.
func (c *AnswerCache) Invalidate(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, c.key(id))
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *AnswerCache) key(id string) string {
	return "answer:" + id
}

func (c *AnswerCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
