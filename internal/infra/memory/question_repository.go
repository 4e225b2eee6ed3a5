package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"feud-quiz-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// QuestionLoader fetches question banks from a backing store.
type QuestionLoader interface {
	LoadQuestionSet(ctx context.Context, setID string) ([]domain.Question, error)
}

// QuestionRepository caches question banks with TTL to avoid repeated DB
// hits at game creation.
type QuestionRepository struct {
	loader QuestionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedSet
}

type cachedSet struct {
	questions []domain.Question
	expiresAt time.Time
}

func NewQuestionRepository(loader QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedSet),
	}
}

func (r *QuestionRepository) GetQuestionSet(ctx context.Context, setID string) ([]domain.Question, error) {
	now := r.clock()

	r.mu.RLock()
	if entry, ok := r.cache[setID]; ok && entry.expiresAt.After(now) {
		r.mu.RUnlock()
		return entry.questions, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(setID, func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.cache[setID]; ok && entry.expiresAt.After(now) {
			r.mu.RUnlock()
			return entry.questions, nil
		}
		r.mu.RUnlock()

		questions, err := r.loader.LoadQuestionSet(ctx, setID)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.cache[setID] = cachedSet{
			questions: questions,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticQuestionLoader is a simple loader backed by an in-memory map
// (useful for tests/demos and when postgres is not configured).
type StaticQuestionLoader struct {
	sets map[string][]domain.Question
}

func NewStaticQuestionLoader(sets map[string][]domain.Question) *StaticQuestionLoader {
	return &StaticQuestionLoader{sets: sets}
}

func (l *StaticQuestionLoader) LoadQuestionSet(_ context.Context, setID string) ([]domain.Question, error) {
	if questions, ok := l.sets[setID]; ok {
		return questions, nil
	}
	return nil, domain.ErrQuestionSetNotFound
}
