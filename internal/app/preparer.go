package app

import (
	"fmt"

	"feud-quiz-service/internal/domain"
	"github.com/google/uuid"
)

// Question-set shape: three rounds of six boards (three per team) plus one
// toss-up, drawn from a 19-question bank.
const (
	questionsPerTeamPerRound = 3
	bankBeginnerCount        = 6
	bankIntermediateCount    = 7 // one becomes the toss-up
	bankAdvancedCount        = 6
)

// PrepareQuestions turns a raw question bank into the ordered sequence the
// state machine consumes: difficulty levels map onto rounds (beginner=1,
// intermediate=2, advanced=3), one intermediate question is pulled out as
// the round-0 toss-up, and each round's six boards alternate between the
// teams in blocks of three with ordinals 1..3.
func PrepareQuestions(bank []domain.Question) (tossUp domain.Question, ordered []domain.Question, err error) {
	byLevel := map[domain.QuestionLevel][]domain.Question{}
	for _, q := range bank {
		if len(q.Answers) != 3 {
			return tossUp, nil, fmt.Errorf("question %q must have exactly 3 answers: %w", q.Text, domain.ErrValidation)
		}
		byLevel[q.Level] = append(byLevel[q.Level], q)
	}

	if len(byLevel[domain.LevelBeginner]) < bankBeginnerCount ||
		len(byLevel[domain.LevelIntermediate]) < bankIntermediateCount ||
		len(byLevel[domain.LevelAdvanced]) < bankAdvancedCount {
		return tossUp, nil, fmt.Errorf("bank needs %d beginner, %d intermediate and %d advanced questions: %w",
			bankBeginnerCount, bankIntermediateCount, bankAdvancedCount, domain.ErrValidation)
	}

	intermediate := byLevel[domain.LevelIntermediate]
	tossUp = stamp(intermediate[0], 0, domain.NoTeam, 1)

	rounds := [3][]domain.Question{
		byLevel[domain.LevelBeginner][:bankBeginnerCount],
		intermediate[1 : 1+bankBeginnerCount],
		byLevel[domain.LevelAdvanced][:bankAdvancedCount],
	}

	ordered = make([]domain.Question, 0, 18)
	for r, block := range rounds {
		round := r + 1
		for i, q := range block {
			team := domain.Team1
			if i >= questionsPerTeamPerRound {
				team = domain.Team2
			}
			ordered = append(ordered, stamp(q, round, team, i%questionsPerTeamPerRound+1))
		}
	}
	return tossUp, ordered, nil
}

// stamp tags a bank question for play and resets its reveal state.
func stamp(q domain.Question, round int, team domain.TeamKey, number int) domain.Question {
	q.Round = round
	q.TeamAssignment = team
	q.Number = number
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	answers := make([]domain.Answer, len(q.Answers))
	for i, a := range q.Answers {
		a.Revealed = false
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		answers[i] = a
	}
	q.Answers = answers
	return q
}
