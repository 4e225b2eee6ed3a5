package domain

import "time"

// GameStatus is the lifecycle state of a game.
type GameStatus string

const (
	StatusWaiting      GameStatus = "waiting"
	StatusActive       GameStatus = "active"
	StatusRoundSummary GameStatus = "round-summary"
	StatusFinished     GameStatus = "finished"
)

// TeamKey names one of the two fixed team slots. The empty key means
// "no team", used for the pre-buzz toss-up and round summaries.
type TeamKey string

const (
	NoTeam TeamKey = ""
	Team1  TeamKey = "team1"
	Team2  TeamKey = "team2"
)

// TeamKeys lists the two slots in board order.
var TeamKeys = [2]TeamKey{Team1, Team2}

// Other returns the opposing slot.
func (k TeamKey) Other() TeamKey {
	if k == Team1 {
		return Team2
	}
	return Team1
}

// Valid reports whether k names an actual team slot.
func (k TeamKey) Valid() bool {
	return k == Team1 || k == Team2
}

func (k TeamKey) index() int {
	if k == Team2 {
		return 1
	}
	return 0
}

// Answer is one of the three scored answers on a question board.
// Revealed only moves false -> true outside an explicit game reset.
type Answer struct {
	ID       string `json:"id"`
	Text     string `json:"answer"`
	Score    int    `json:"score"`
	Revealed bool   `json:"revealed"`
}

// QuestionLevel tags bank questions by difficulty; the preparer maps
// levels onto rounds.
type QuestionLevel string

const (
	LevelBeginner     QuestionLevel = "beginner"
	LevelIntermediate QuestionLevel = "intermediate"
	LevelAdvanced     QuestionLevel = "advanced"
)

// Question is a single board with exactly three answers. Round,
// TeamAssignment and Number are stamped by the preparer; bank questions
// carry only Level, Category, Text and Answers.
type Question struct {
	ID             string        `json:"id"`
	Round          int           `json:"round"`
	TeamAssignment TeamKey       `json:"teamAssignment"`
	Number         int           `json:"questionNumber"` // 1..3 within the team's block
	Category       string        `json:"questionCategory,omitempty"`
	Level          QuestionLevel `json:"questionLevel,omitempty"`
	Text           string        `json:"question"`
	Answers        []Answer      `json:"answers"`
}

// AllRevealed reports whether every answer on the board is face up.
func (q *Question) AllRevealed() bool {
	for i := range q.Answers {
		if !q.Answers[i].Revealed {
			return false
		}
	}
	return true
}

// RevealAll flips every answer face up.
func (q *Question) RevealAll() {
	for i := range q.Answers {
		q.Answers[i].Revealed = true
	}
}

func (q *Question) hideAll() {
	for i := range q.Answers {
		q.Answers[i].Revealed = false
	}
}

// Team is one of the game's two competing teams. Active is a projection
// of GameState.CurrentTurn, never set independently.
type Team struct {
	ID                string   `json:"id"`
	Key               TeamKey  `json:"key"`
	Name              string   `json:"name"`
	Score             int      `json:"score"`
	Active            bool     `json:"active"`
	Members           []string `json:"members"`
	RoundScores       [3]int   `json:"roundScores"`
	CurrentRoundScore int      `json:"currentRoundScore"`
}

// TotalRoundScore sums the three persisted per-round scores. The toss-up
// is excluded by construction: it is never written to RoundScores.
func (t *Team) TotalRoundScore() int {
	sum := 0
	for _, s := range t.RoundScores {
		sum += s
	}
	return sum
}

// Player is an anonymous participant created on join and removed only by
// registry cleanup.
type Player struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	GameCode  string `json:"gameCode"`
	Connected bool   `json:"connected"`
	TeamID    string `json:"teamId,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
}

// TossUpAnswer records one team's single toss-up attempt.
type TossUpAnswer struct {
	TeamID     string `json:"teamId"`
	TeamName   string `json:"teamName"`
	PlayerName string `json:"playerName"`
	Answer     string `json:"answer"`
	Score      int    `json:"score"`
	AnswerID   string `json:"matchedAnswerId,omitempty"`
}

// TossUpWinner is the team that takes first turn in every later round.
type TossUpWinner struct {
	TeamID   string `json:"teamId"`
	TeamName string `json:"teamName"`
}

// QuestionSlot is the per-question scoreboard record. FirstAttemptCorrect
// stays nil until the first attempt; PointsEarned may be changed later by
// host overrides.
type QuestionSlot struct {
	FirstAttemptCorrect *bool `json:"firstAttemptCorrect"`
	PointsEarned        int   `json:"pointsEarned"`
}

// Record stores an attempt outcome. The first-attempt flag is written at
// most once; points always track the latest value.
func (s *QuestionSlot) Record(correct bool, points int) {
	if s.FirstAttemptCorrect == nil {
		c := correct
		s.FirstAttemptCorrect = &c
	}
	s.PointsEarned = points
}

// Override replaces both the outcome and the points, host correction path.
func (s *QuestionSlot) Override(correct bool, points int) {
	c := correct
	s.FirstAttemptCorrect = &c
	s.PointsEarned = points
}

// QuestionData is the team x round x ordinal matrix behind the scoreboard.
type QuestionData struct {
	Team1 [3][3]QuestionSlot `json:"team1"`
	Team2 [3][3]QuestionSlot `json:"team2"`
}

// Slot returns the record for a team's question, or nil when round or
// number fall outside 1..3.
func (d *QuestionData) Slot(team TeamKey, round, number int) *QuestionSlot {
	if round < 1 || round > 3 || number < 1 || number > 3 {
		return nil
	}
	switch team {
	case Team1:
		return &d.Team1[round-1][number-1]
	case Team2:
		return &d.Team2[round-1][number-1]
	}
	return nil
}

// RoundScore holds both teams' persisted score for one round.
type RoundScore struct {
	Team1 int `json:"team1"`
	Team2 int `json:"team2"`
}

// Set writes one team's entry.
func (r *RoundScore) Set(k TeamKey, v int) {
	if k == Team1 {
		r.Team1 = v
	} else if k == Team2 {
		r.Team2 = v
	}
}

// GameState is the embedded turn/score bookkeeping. CurrentTurn is the one
// canonical turn field; Team.Active and Game.ActiveTeamID are projections.
type GameState struct {
	CurrentTurn       TeamKey          `json:"currentTurn"`
	QuestionsAnswered map[TeamKey]int  `json:"questionsAnswered"`
	RoundScores       [3]RoundScore    `json:"roundScores"`
	TossUpQuestion    *Question        `json:"tossUpQuestion,omitempty"`
	TossUpAnswers     []TossUpAnswer   `json:"tossUpAnswers"`
	TossUpSubmitted   map[TeamKey]bool `json:"tossUpSubmittedTeams"`
	AwaitingAnswer    bool             `json:"awaitingAnswer"`
	CanAdvance        bool             `json:"canAdvance"`
	QuestionData      QuestionData     `json:"questionData"`
}

// Game is the aggregate root for one running competition.
type Game struct {
	ID                   string        `json:"id"`
	Code                 string        `json:"code"`
	Status               GameStatus    `json:"status"`
	CurrentRound         int           `json:"currentRound"`
	CurrentQuestionIndex int           `json:"currentQuestionIndex"`
	Questions            []Question    `json:"questions"`
	Teams                [2]Team       `json:"teams"`
	Players              []Player      `json:"players"`
	HostID               string        `json:"hostId,omitempty"`
	CreatedAt            time.Time     `json:"createdAt"`
	BuzzedTeamID         string        `json:"buzzedTeamId,omitempty"`
	ActiveTeamID         string        `json:"activeTeamId,omitempty"`
	TossUpWinner         *TossUpWinner `json:"tossUpWinner,omitempty"`
	State                GameState     `json:"gameState"`
}

// Team returns the team occupying slot k.
func (g *Game) Team(k TeamKey) *Team {
	return &g.Teams[k.index()]
}

// TeamByID looks a team up by its id, nil when unknown.
func (g *Game) TeamByID(id string) *Team {
	for i := range g.Teams {
		if g.Teams[i].ID == id {
			return &g.Teams[i]
		}
	}
	return nil
}

// PlayerByID looks a player up by id, nil when unknown.
func (g *Game) PlayerByID(id string) *Player {
	for i := range g.Players {
		if g.Players[i].ID == id {
			return &g.Players[i]
		}
	}
	return nil
}

// CurrentQuestion resolves the board in play: the toss-up during round 0,
// otherwise the question at the current index.
func (g *Game) CurrentQuestion() *Question {
	if g.CurrentRound == 0 && g.State.TossUpQuestion != nil {
		return g.State.TossUpQuestion
	}
	if g.CurrentQuestionIndex >= 0 && g.CurrentQuestionIndex < len(g.Questions) {
		return &g.Questions[g.CurrentQuestionIndex]
	}
	return nil
}

// QuestionIndex finds the position of a team's question in the ordered set,
// -1 when absent.
func (g *Game) QuestionIndex(team TeamKey, round, number int) int {
	for i := range g.Questions {
		q := &g.Questions[i]
		if q.TeamAssignment == team && q.Round == round && q.Number == number {
			return i
		}
	}
	return -1
}

// SetTurn writes the canonical turn field and recomputes the Active and
// ActiveTeamID projections.
func (g *Game) SetTurn(k TeamKey) {
	g.State.CurrentTurn = k
	g.ActiveTeamID = ""
	for i := range g.Teams {
		g.Teams[i].Active = k.Valid() && g.Teams[i].Key == k
		if g.Teams[i].Active {
			g.ActiveTeamID = g.Teams[i].ID
		}
	}
}

// ActiveTeam returns the team holding the turn, nil when no team is active.
func (g *Game) ActiveTeam() *Team {
	for i := range g.Teams {
		if g.Teams[i].Active {
			return &g.Teams[i]
		}
	}
	return nil
}

// Winner returns the team with the larger three-round total, nil on a tie.
// The toss-up score never enters RoundScores, so it cannot tip the result.
func (g *Game) Winner() *Team {
	t1, t2 := g.Team(Team1), g.Team(Team2)
	switch {
	case t1.TotalRoundScore() > t2.TotalRoundScore():
		return t1
	case t2.TotalRoundScore() > t1.TotalRoundScore():
		return t2
	}
	return nil
}

// HideAllAnswers resets every reveal flag, including the toss-up board.
// Only the reset transition calls this.
func (g *Game) HideAllAnswers() {
	for i := range g.Questions {
		g.Questions[i].hideAll()
	}
	if g.State.TossUpQuestion != nil {
		g.State.TossUpQuestion.hideAll()
	}
}

// Clone deep-copies the aggregate for use in event payloads, so snapshots
// handed to subscribers never alias live state.
func (g *Game) Clone() *Game {
	c := *g

	c.Questions = make([]Question, len(g.Questions))
	for i := range g.Questions {
		c.Questions[i] = cloneQuestion(&g.Questions[i])
	}
	c.Players = append([]Player(nil), g.Players...)
	for i := range g.Teams {
		c.Teams[i].Members = append([]string(nil), g.Teams[i].Members...)
	}
	if g.TossUpWinner != nil {
		w := *g.TossUpWinner
		c.TossUpWinner = &w
	}

	if g.State.TossUpQuestion != nil {
		q := cloneQuestion(g.State.TossUpQuestion)
		c.State.TossUpQuestion = &q
	}
	c.State.TossUpAnswers = append([]TossUpAnswer(nil), g.State.TossUpAnswers...)
	c.State.QuestionsAnswered = make(map[TeamKey]int, len(g.State.QuestionsAnswered))
	for k, v := range g.State.QuestionsAnswered {
		c.State.QuestionsAnswered[k] = v
	}
	c.State.TossUpSubmitted = make(map[TeamKey]bool, len(g.State.TossUpSubmitted))
	for k, v := range g.State.TossUpSubmitted {
		c.State.TossUpSubmitted[k] = v
	}
	c.State.QuestionData = cloneQuestionData(&g.State.QuestionData)

	return &c
}

func cloneQuestion(q *Question) Question {
	c := *q
	c.Answers = append([]Answer(nil), q.Answers...)
	return c
}

func cloneQuestionData(d *QuestionData) QuestionData {
	c := *d
	for r := 0; r < 3; r++ {
		for n := 0; n < 3; n++ {
			if p := d.Team1[r][n].FirstAttemptCorrect; p != nil {
				v := *p
				c.Team1[r][n].FirstAttemptCorrect = &v
			}
			if p := d.Team2[r][n].FirstAttemptCorrect; p != nil {
				v := *p
				c.Team2[r][n].FirstAttemptCorrect = &v
			}
		}
	}
	return c
}
