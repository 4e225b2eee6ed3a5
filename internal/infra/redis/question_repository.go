package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"feud-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// QuestionLoader fetches question banks from a backing store.
type QuestionLoader interface {
	LoadQuestionSet(ctx context.Context, setID string) ([]domain.Question, error)
}

// QuestionRepository caches question banks in Redis as JSON blobs
// (SET questions:{setID} with TTL) and falls back to a loader on cache miss.
type QuestionRepository struct {
	client *redis.Client
	loader QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewQuestionRepository(client *redis.Client, loader QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuestionRepository) GetQuestionSet(ctx context.Context, setID string) ([]domain.Question, error) {
	key := r.key(setID)

	if raw, err := r.client.Get(ctx, key).Bytes(); err == nil && len(raw) > 0 {
		var questions []domain.Question
		if err := json.Unmarshal(raw, &questions); err == nil {
			return questions, nil
		}
		// A corrupt cache entry falls through to the loader.
	}

	result, err, _ := r.sf.Do(setID, func() (interface{}, error) {
		// Re-check the cache in case another goroutine filled it.
		if raw, err := r.client.Get(ctx, key).Bytes(); err == nil && len(raw) > 0 {
			var questions []domain.Question
			if err := json.Unmarshal(raw, &questions); err == nil {
				return questions, nil
			}
		}

		questions, err := r.loader.LoadQuestionSet(ctx, setID)
		if err != nil {
			return nil, err
		}

		if raw, err := json.Marshal(questions); err == nil {
			_ = r.client.Set(ctx, key, raw, r.ttlWithJitter()).Err()
		}
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (r *QuestionRepository) key(setID string) string {
	return "questions:" + setID
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
