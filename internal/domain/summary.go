package domain

// TeamRoundScore is one team's line in a round summary.
type TeamRoundScore struct {
	RoundScore int    `json:"roundScore"`
	TotalScore int    `json:"totalScore"`
	TeamName   string `json:"teamName"`
}

// RoundSummaryTeams holds both teams' lines.
type RoundSummaryTeams struct {
	Team1 TeamRoundScore `json:"team1"`
	Team2 TeamRoundScore `json:"team2"`
}

// RoundQuestions lists the round's boards per team, for the summary screen.
type RoundQuestions struct {
	Team1 []Question `json:"team1"`
	Team2 []Question `json:"team2"`
}

// RoundSummary is a read-only projection of both teams' scores for the
// round just played; computed on demand, never stored.
type RoundSummary struct {
	Round             int               `json:"round"`
	TossUpWinner      *TossUpWinner     `json:"tossUpWinner,omitempty"`
	TossUpAnswers     []TossUpAnswer    `json:"tossUpAnswers,omitempty"`
	TeamScores        RoundSummaryTeams `json:"teamScores"`
	QuestionsAnswered RoundQuestions    `json:"questionsAnswered"`
}

// BuildRoundSummary projects the current round's scores. For a game sitting
// in round-summary the running round score is folded into the total when it
// has not been persisted into the per-round array yet.
func (g *Game) BuildRoundSummary() RoundSummary {
	if g.CurrentRound == 0 {
		return g.buildTossUpSummary()
	}

	round := g.CurrentRound
	includeRunning := g.Status == StatusRoundSummary

	line := func(k TeamKey) TeamRoundScore {
		t := g.Team(k)
		total := t.TotalRoundScore()
		if includeRunning && t.RoundScores[round-1] == 0 {
			total += t.CurrentRoundScore
		}
		return TeamRoundScore{
			RoundScore: t.CurrentRoundScore,
			TotalScore: total,
			TeamName:   t.Name,
		}
	}

	return RoundSummary{
		Round: round,
		TeamScores: RoundSummaryTeams{
			Team1: line(Team1),
			Team2: line(Team2),
		},
		QuestionsAnswered: RoundQuestions{
			Team1: g.roundQuestions(Team1, round),
			Team2: g.roundQuestions(Team2, round),
		},
	}
}

// buildTossUpSummary is the round-0 variant carrying both teams' toss-up
// attempts and the recorded winner.
func (g *Game) buildTossUpSummary() RoundSummary {
	line := func(k TeamKey) TeamRoundScore {
		t := g.Team(k)
		score := 0
		for _, a := range g.State.TossUpAnswers {
			if a.TeamID == t.ID {
				score = a.Score
				break
			}
		}
		return TeamRoundScore{
			RoundScore: score,
			TotalScore: t.TotalRoundScore(),
			TeamName:   t.Name,
		}
	}

	return RoundSummary{
		Round:         0,
		TossUpWinner:  g.TossUpWinner,
		TossUpAnswers: append([]TossUpAnswer(nil), g.State.TossUpAnswers...),
		TeamScores: RoundSummaryTeams{
			Team1: line(Team1),
			Team2: line(Team2),
		},
		QuestionsAnswered: RoundQuestions{
			Team1: []Question{},
			Team2: []Question{},
		},
	}
}

func (g *Game) roundQuestions(team TeamKey, round int) []Question {
	out := []Question{}
	for i := range g.Questions {
		q := &g.Questions[i]
		if q.TeamAssignment == team && q.Round == round {
			out = append(out, cloneQuestion(q))
		}
	}
	return out
}
