package app_test

import (
	"errors"
	"fmt"
	"testing"

	"feud-quiz-service/internal/app"
	"feud-quiz-service/internal/domain"
)

func testBank() []domain.Question {
	bank := make([]domain.Question, 0, 19)
	add := func(level domain.QuestionLevel, n int) {
		for i := 0; i < n; i++ {
			bank = append(bank, domain.Question{
				Text:  fmt.Sprintf("%s question %d", level, i+1),
				Level: level,
				Answers: []domain.Answer{
					{Text: "first", Score: 50},
					{Text: "second", Score: 40},
					{Text: "third", Score: 30},
				},
			})
		}
	}
	add(domain.LevelBeginner, 6)
	add(domain.LevelIntermediate, 7)
	add(domain.LevelAdvanced, 6)
	return bank
}

func TestPrepareQuestionsShape(t *testing.T) {
	tossUp, ordered, err := app.PrepareQuestions(testBank())
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}

	if tossUp.Round != 0 || tossUp.TeamAssignment != domain.NoTeam || tossUp.Number != 1 {
		t.Fatalf("toss-up stamped wrong: %+v", tossUp)
	}
	if tossUp.Level != domain.LevelIntermediate {
		t.Fatalf("toss-up must come from the intermediate pool, got %q", tossUp.Level)
	}
	if len(ordered) != 18 {
		t.Fatalf("expected 18 ordered questions, got %d", len(ordered))
	}

	// Each round holds two blocks of three: team1 ordinals 1-3 then team2.
	for r := 1; r <= 3; r++ {
		for _, team := range domain.TeamKeys {
			for n := 1; n <= 3; n++ {
				found := false
				for i := range ordered {
					q := &ordered[i]
					if q.Round == r && q.TeamAssignment == team && q.Number == n {
						found = true
						break
					}
				}
				if !found {
					t.Fatalf("missing question round=%d team=%s number=%d", r, team, n)
				}
			}
		}
	}
}

func TestPrepareQuestionsMapsLevelsToRounds(t *testing.T) {
	_, ordered, err := app.PrepareQuestions(testBank())
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	want := map[int]domain.QuestionLevel{
		1: domain.LevelBeginner,
		2: domain.LevelIntermediate,
		3: domain.LevelAdvanced,
	}
	for i := range ordered {
		if ordered[i].Level != want[ordered[i].Round] {
			t.Fatalf("round %d got level %q", ordered[i].Round, ordered[i].Level)
		}
	}
}

func TestPrepareQuestionsAssignsIDsAndHidesAnswers(t *testing.T) {
	tossUp, ordered, err := app.PrepareQuestions(testBank())
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	check := func(q *domain.Question) {
		if q.ID == "" {
			t.Fatalf("question %q missing id", q.Text)
		}
		for _, a := range q.Answers {
			if a.ID == "" {
				t.Fatalf("answer %q missing id", a.Text)
			}
			if a.Revealed {
				t.Fatalf("answer %q should start hidden", a.Text)
			}
		}
	}
	check(&tossUp)
	for i := range ordered {
		check(&ordered[i])
	}
}

func TestPrepareQuestionsRejectsWrongAnswerCount(t *testing.T) {
	bank := testBank()
	bank[0].Answers = bank[0].Answers[:2]
	_, _, err := app.PrepareQuestions(bank)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPrepareQuestionsRejectsShortBank(t *testing.T) {
	_, _, err := app.PrepareQuestions(testBank()[:10])
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
