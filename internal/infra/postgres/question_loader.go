package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"feud-quiz-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// QuestionLoader loads question-bank JSONB from Postgres.
type QuestionLoader struct {
	pool *pgxpool.Pool
}

func NewQuestionLoader(pool *pgxpool.Pool) *QuestionLoader {
	return &QuestionLoader{pool: pool}
}

func (l *QuestionLoader) LoadQuestionSet(ctx context.Context, setID string) ([]domain.Question, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM question_sets WHERE id=$1`, setID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrQuestionSetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load question set: %w", err)
	}
	var questions []domain.Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, fmt.Errorf("unmarshal question set: %w", err)
	}
	return questions, nil
}
