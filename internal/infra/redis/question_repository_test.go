package redis

import (
	"context"
	"testing"
	"time"

	"feud-quiz-service/internal/domain"
	"feud-quiz-service/internal/infra/memory"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestQuestionRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)

	loader := &countingLoader{
		QuestionLoader: memory.NewStaticQuestionLoader(map[string][]domain.Question{
			"set-1": sampleQuestions(),
		}),
	}
	repo := NewQuestionRepository(client, loader, time.Minute)

	if _, err := repo.GetQuestionSet(context.Background(), "set-1"); err != nil {
		t.Fatalf("get question set: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}

	// Second call should hit the redis blob, loader not incremented.
	if _, err := repo.GetQuestionSet(context.Background(), "set-1"); err != nil {
		t.Fatalf("get question set 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}

	if !mr.Exists("questions:set-1") {
		t.Fatal("expected cached blob under questions:set-1")
	}
}

func TestQuestionRepositoryCorruptEntryFallsBack(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)
	mr.Set("questions:set-1", "{not json")

	loader := &countingLoader{
		QuestionLoader: memory.NewStaticQuestionLoader(map[string][]domain.Question{
			"set-1": sampleQuestions(),
		}),
	}
	repo := NewQuestionRepository(client, loader, time.Minute)

	questions, err := repo.GetQuestionSet(context.Background(), "set-1")
	if err != nil {
		t.Fatalf("get question set: %v", err)
	}
	if len(questions) != 1 || loader.calls != 1 {
		t.Fatalf("expected loader fallback, got %d questions, %d calls", len(questions), loader.calls)
	}
}

type countingLoader struct {
	memory.QuestionLoader
	calls int
}

func (l *countingLoader) LoadQuestionSet(ctx context.Context, setID string) ([]domain.Question, error) {
	l.calls++
	return l.QuestionLoader.LoadQuestionSet(ctx, setID)
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{
			ID:    "q1",
			Level: domain.LevelBeginner,
			Text:  "Name a popular breakfast food",
			Answers: []domain.Answer{
				{ID: "a1", Text: "Eggs", Score: 50},
				{ID: "a2", Text: "Bacon", Score: 40},
				{ID: "a3", Text: "Cereal", Score: 30},
			},
		},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
