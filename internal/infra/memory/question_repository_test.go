package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"feud-quiz-service/internal/domain"
)

func TestQuestionRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		QuestionLoader: NewStaticQuestionLoader(map[string][]domain.Question{
			"set-1": sampleQuestions(),
		}),
	}
	repo := NewQuestionRepository(loader, time.Minute)

	if _, err := repo.GetQuestionSet(context.Background(), "set-1"); err != nil {
		t.Fatalf("get question set: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.GetQuestionSet(context.Background(), "set-1"); err != nil {
		t.Fatalf("get question set 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestQuestionRepositoryExpiry(t *testing.T) {
	loader := &countingLoader{
		QuestionLoader: NewStaticQuestionLoader(map[string][]domain.Question{
			"set-1": sampleQuestions(),
		}),
	}
	repo := NewQuestionRepository(loader, time.Minute)

	now := time.Now()
	repo.clock = func() time.Time { return now }

	_, _ = repo.GetQuestionSet(context.Background(), "set-1")

	// Jitter adds at most 10%, so two minutes is safely past expiry.
	now = now.Add(2 * time.Minute)
	_, _ = repo.GetQuestionSet(context.Background(), "set-1")
	if loader.calls != 2 {
		t.Fatalf("expected reload after expiry, got %d calls", loader.calls)
	}
}

func TestStaticLoaderUnknownSet(t *testing.T) {
	repo := NewQuestionRepository(NewStaticQuestionLoader(nil), time.Minute)
	_, err := repo.GetQuestionSet(context.Background(), "missing")
	if !errors.Is(err, domain.ErrQuestionSetNotFound) {
		t.Fatalf("expected question set not found, got %v", err)
	}
}

type countingLoader struct {
	QuestionLoader
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
