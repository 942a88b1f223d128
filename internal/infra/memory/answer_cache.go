package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"campus-quiz-service/internal/domain"
)

// AnswerLoader fetches an answer from the backing store on cache miss.
type AnswerLoader interface {
	AnswerByID(ctx context.Context, id string) (domain.Answer, error)
}

// AnswerCache caches answers by id with TTL to keep the attempt hot path off
// the database.
type AnswerCache struct {
	loader AnswerLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedAnswer
}

type cachedAnswer struct {
	answer    domain.Answer
	expiresAt time.Time
}

func NewAnswerCache(loader AnswerLoader, ttl time.Duration) *AnswerCache {
	return &AnswerCache{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedAnswer),
	}
}

func (c *AnswerCache) AnswerByID(ctx context.Context, id string) (domain.Answer, error) {
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.cache[id]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.answer, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(id, func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.cache[id]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.answer, nil
		}
		c.mu.RUnlock()

		answer, err := c.loader.AnswerByID(ctx, id)
		if err != nil {
			return domain.Answer{}, err
		}

		c.mu.Lock()
		c.cache[id] = cachedAnswer{
			answer:    answer,
			expiresAt: now.Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return answer, nil
	})
	if err != nil {
		return domain.Answer{}, err
	}
	return result.(domain.Answer), nil
}

// Invalidate drops the entries for the given answer ids, e.g. after the
// preferred answer of their question changed.
func (c *AnswerCache) Invalidate(_ context.Context, ids ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		delete(c.cache, id)
	}
	return nil
}

func (c *AnswerCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
