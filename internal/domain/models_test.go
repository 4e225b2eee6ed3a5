package domain

import "testing"

func testGame() *Game {
	g := &Game{
		ID:     "g1",
		Code:   "ABC123",
		Status: StatusWaiting,
		Teams: [2]Team{
			{ID: "t1", Key: Team1, Name: "Red", Members: []string{}},
			{ID: "t2", Key: Team2, Name: "Blue", Members: []string{}},
		},
		Players: []Player{},
		State: GameState{
			QuestionsAnswered: map[TeamKey]int{Team1: 0, Team2: 0},
			TossUpAnswers:     []TossUpAnswer{},
			TossUpSubmitted:   map[TeamKey]bool{},
		},
	}
	return g
}

func TestSetTurnProjections(t *testing.T) {
	g := testGame()

	g.SetTurn(Team2)
	if g.State.CurrentTurn != Team2 {
		t.Fatalf("expected turn team2, got %q", g.State.CurrentTurn)
	}
	if g.Teams[0].Active || !g.Teams[1].Active {
		t.Fatalf("active flags out of sync: %v %v", g.Teams[0].Active, g.Teams[1].Active)
	}
	if g.ActiveTeamID != "t2" {
		t.Fatalf("expected activeTeamId t2, got %q", g.ActiveTeamID)
	}

	g.SetTurn(NoTeam)
	if g.Teams[0].Active || g.Teams[1].Active || g.ActiveTeamID != "" {
		t.Fatal("clearing the turn must clear both projections")
	}
	if g.ActiveTeam() != nil {
		t.Fatal("expected no active team")
	}
}

func TestWinnerIgnoresTossUpScore(t *testing.T) {
	g := testGame()
	// Team 1 won 50 toss-up points, which live only in Score.
	g.Teams[0].Score = 50
	g.Teams[0].RoundScores = [3]int{100, 0, 0}
	g.Teams[1].RoundScores = [3]int{0, 120, 0}

	w := g.Winner()
	if w == nil || w.Key != Team2 {
		t.Fatalf("expected team2 to win on round totals, got %+v", w)
	}
}

func TestWinnerTieIsNil(t *testing.T) {
	g := testGame()
	g.Teams[0].RoundScores = [3]int{100, 0, 0}
	g.Teams[1].RoundScores = [3]int{0, 100, 0}
	if w := g.Winner(); w != nil {
		t.Fatalf("expected nil on tie, got %+v", w)
	}
}

func TestQuestionSlotRecordKeepsFirstAttempt(t *testing.T) {
	var s QuestionSlot
	s.Record(true, 100)
	if s.FirstAttemptCorrect == nil || !*s.FirstAttemptCorrect || s.PointsEarned != 100 {
		t.Fatalf("first record not stored: %+v", s)
	}

	// A later record may change points but never the first-attempt flag.
	s.Record(false, 0)
	if !*s.FirstAttemptCorrect {
		t.Fatal("first-attempt flag must be write-once")
	}
	if s.PointsEarned != 0 {
		t.Fatalf("points should track latest value, got %d", s.PointsEarned)
	}

	s.Override(false, 40)
	if *s.FirstAttemptCorrect || s.PointsEarned != 40 {
		t.Fatalf("override must replace both fields: %+v", s)
	}
}

func TestQuestionDataSlotBounds(t *testing.T) {
	var d QuestionData
	if d.Slot(Team1, 0, 1) != nil || d.Slot(Team2, 1, 4) != nil || d.Slot(NoTeam, 1, 1) != nil {
		t.Fatal("out-of-range slots must be nil")
	}
	if d.Slot(Team1, 3, 3) == nil {
		t.Fatal("expected a slot for round 3 question 3")
	}
}

func TestCloneIsDeep(t *testing.T) {
	g := testGame()
	g.Questions = []Question{{
		ID: "q1", Round: 1, TeamAssignment: Team1, Number: 1,
		Answers: []Answer{{ID: "a1", Text: "Eggs", Score: 50}},
	}}
	tossUp := Question{ID: "q0", Answers: []Answer{{ID: "a0", Text: "Stretch", Score: 20}}}
	g.State.TossUpQuestion = &tossUp
	g.Players = []Player{{ID: "p1", Name: "Alice"}}
	correct := true
	g.State.QuestionData.Team1[0][0] = QuestionSlot{FirstAttemptCorrect: &correct, PointsEarned: 50}

	c := g.Clone()
	c.Questions[0].Answers[0].Revealed = true
	c.Players[0].Name = "Mallory"
	c.State.TossUpQuestion.Answers[0].Revealed = true
	*c.State.QuestionData.Team1[0][0].FirstAttemptCorrect = false
	c.State.QuestionsAnswered[Team1] = 3

	if g.Questions[0].Answers[0].Revealed {
		t.Fatal("clone shares question answers with the original")
	}
	if g.Players[0].Name != "Alice" {
		t.Fatal("clone shares players with the original")
	}
	if g.State.TossUpQuestion.Answers[0].Revealed {
		t.Fatal("clone shares the toss-up board with the original")
	}
	if !*g.State.QuestionData.Team1[0][0].FirstAttemptCorrect {
		t.Fatal("clone shares slot pointers with the original")
	}
	if g.State.QuestionsAnswered[Team1] != 0 {
		t.Fatal("clone shares the questions-answered map")
	}
}

func TestBuildRoundSummaryFoldsRunningScore(t *testing.T) {
	g := testGame()
	g.CurrentRound = 2
	g.Status = StatusRoundSummary
	g.Teams[0].RoundScores = [3]int{100, 0, 0}
	g.Teams[0].CurrentRoundScore = 80
	g.Teams[1].RoundScores = [3]int{40, 0, 0}
	g.Teams[1].CurrentRoundScore = 60

	s := g.BuildRoundSummary()
	if s.Round != 2 {
		t.Fatalf("expected round 2, got %d", s.Round)
	}
	if s.TeamScores.Team1.RoundScore != 80 || s.TeamScores.Team1.TotalScore != 180 {
		t.Fatalf("team1 line wrong: %+v", s.TeamScores.Team1)
	}
	if s.TeamScores.Team2.RoundScore != 60 || s.TeamScores.Team2.TotalScore != 100 {
		t.Fatalf("team2 line wrong: %+v", s.TeamScores.Team2)
	}
}

func TestBuildRoundSummaryAfterPersistDoesNotDoubleCount(t *testing.T) {
	g := testGame()
	g.CurrentRound = 1
	g.Status = StatusRoundSummary
	g.Teams[0].RoundScores = [3]int{80, 0, 0}
	g.Teams[0].CurrentRoundScore = 80

	s := g.BuildRoundSummary()
	if s.TeamScores.Team1.TotalScore != 80 {
		t.Fatalf("persisted round must not be folded twice, got %d", s.TeamScores.Team1.TotalScore)
	}
}

func TestBuildTossUpSummary(t *testing.T) {
	g := testGame()
	g.CurrentRound = 0
	g.Status = StatusRoundSummary
	g.TossUpWinner = &TossUpWinner{TeamID: "t2", TeamName: "Blue"}
	g.State.TossUpAnswers = []TossUpAnswer{
		{TeamID: "t1", TeamName: "Red", Score: 20},
		{TeamID: "t2", TeamName: "Blue", Score: 50},
	}

	s := g.BuildRoundSummary()
	if s.Round != 0 {
		t.Fatalf("expected round 0, got %d", s.Round)
	}
	if s.TossUpWinner == nil || s.TossUpWinner.TeamID != "t2" {
		t.Fatalf("expected blue to be recorded as winner, got %+v", s.TossUpWinner)
	}
	if s.TeamScores.Team1.RoundScore != 20 || s.TeamScores.Team2.RoundScore != 50 {
		t.Fatalf("toss-up lines wrong: %+v", s.TeamScores)
	}
	if len(s.TossUpAnswers) != 2 {
		t.Fatalf("expected both attempts in the summary, got %d", len(s.TossUpAnswers))
	}
}
