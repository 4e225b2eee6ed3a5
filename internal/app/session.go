package app

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"feud-quiz-service/internal/domain"
	"github.com/google/uuid"
)

// Session owns one game aggregate. Every mutation runs under the session
// mutex, which is what serializes commands per game code: buzzes and
// toss-up submissions resolve in lock-acquisition order. Delayed
// continuations re-fetch the session by code and carry the epoch they were
// scheduled under; a reset bumps the epoch so superseded continuations
// no-op instead of racing the fresh state.
type Session struct {
	mu          sync.Mutex
	game        *domain.Game
	now         func() time.Time
	epoch       uint64
	subscribers map[chan Event]struct{}
}

// TeamSetup carries host-provided team names and member rosters.
type TeamSetup struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

// OverrideRequest is a host correction to a previously scored attempt.
type OverrideRequest struct {
	TeamID         string `json:"teamId"`
	Round          int    `json:"round"`
	QuestionNumber int    `json:"questionNumber"`
	IsCorrect      bool   `json:"isCorrect"`
	PointsAwarded  int    `json:"pointsAwarded"`
	AnswerIndex    *int   `json:"answerIndex,omitempty"`
}

// submitDirectives tells the service which delayed continuations to
// schedule after a submission; the epoch pins them to the current game run.
type submitDirectives struct {
	Epoch           uint64
	TossUpFinal     bool
	RevealRemaining bool
	EnableAdvance   bool
}

// NewSession wraps a freshly created game.
func NewSession(game *domain.Game) *Session {
	return NewSessionWithClock(game, time.Now)
}

// NewSessionWithClock allows deterministic timestamps in tests.
func NewSessionWithClock(game *domain.Game, now func() time.Time) *Session {
	game.CreatedAt = now()
	return &Session{
		game:        game,
		now:         now,
		subscribers: make(map[chan Event]struct{}),
	}
}

// Code returns the game code.
func (s *Session) Code() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Code
}

// CreatedAt reports when the game was created, for age-based cleanup.
func (s *Session) CreatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.CreatedAt
}

// Snapshot returns a deep copy of the aggregate.
func (s *Session) Snapshot() *domain.Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Clone()
}

// Subscribe returns a channel receiving every event broadcast to this
// game. The caller must invoke cancel to avoid leaks.
func (s *Session) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 32)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) broadcastLocked(eventType string, payload any) {
	ev := Event{Type: eventType, Payload: payload}
	for ch := range s.subscribers {
		select {
		case ch <- ev:
		default:
			// Drop the oldest pending event rather than block the mutation
			// path on a slow subscriber.
			select {
			case <-ch:
			default:
			}
			ch <- ev
		}
	}
}

func (s *Session) snapshotLocked() *domain.Game {
	return s.game.Clone()
}

func (s *Session) requireHostLocked(hostID string) error {
	if s.game.HostID == "" || s.game.HostID != hostID {
		return fmt.Errorf("host-only command: %w", domain.ErrUnauthorized)
	}
	return nil
}

// HostJoin binds the host connection and optionally renames the teams.
func (s *Session) HostJoin(hostID string, teams []TeamSetup) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.game
	g.HostID = hostID
	if len(teams) == 2 {
		for i := range g.Teams {
			if name := strings.TrimSpace(teams[i].Name); name != "" {
				g.Teams[i].Name = name
			}
			members := make([]string, 0, len(teams[i].Members))
			for _, m := range teams[i].Members {
				if m = strings.TrimSpace(m); m != "" {
					members = append(members, m)
				}
			}
			g.Teams[i].Members = members
		}
	}

	snap := s.snapshotLocked()
	s.broadcastLocked(EventHostJoined, GameSnapshotPayload{
		Game:            snap,
		CurrentQuestion: snap.CurrentQuestion(),
		ActiveTeam:      snap.State.CurrentTurn,
	})
}

// AddPlayer registers a new player against the game, the REST join path.
func (s *Session) AddPlayer(name string) (domain.Player, error) {
	name = strings.TrimSpace(name)
	if len(name) < 2 || len(name) > 20 {
		return domain.Player{}, fmt.Errorf("player name must be 2-20 characters: %w", domain.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	player := domain.Player{
		ID:        uuid.NewString(),
		Name:      name,
		GameCode:  s.game.Code,
		Connected: true,
	}
	s.game.Players = append(s.game.Players, player)
	return player, nil
}

// PlayerJoin attaches a previously registered player to the live channel.
func (s *Session) PlayerJoin(playerID, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.game.PlayerByID(playerID)
	if p == nil {
		return domain.ErrPlayerNotFound
	}
	p.Connected = true
	p.SessionID = sessionID

	s.broadcastLocked(EventPlayerJoined, PlayerJoinedPayload{
		Player:       *p,
		TotalPlayers: len(s.game.Players),
	})
	return nil
}

// JoinTeam assigns a player to one of the two teams.
func (s *Session) JoinTeam(playerID, teamID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.game.PlayerByID(playerID)
	if p == nil {
		return domain.ErrPlayerNotFound
	}
	if s.game.TeamByID(teamID) == nil {
		return domain.ErrTeamNotFound
	}
	p.TeamID = teamID

	s.broadcastLocked(EventTeamUpdated, TeamUpdatedPayload{
		PlayerID: playerID,
		TeamID:   teamID,
		Game:     s.snapshotLocked(),
	})
	return nil
}

// Players returns a copy of the player roster.
func (s *Session) Players() []domain.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Player(nil), s.game.Players...)
}

// MarkDisconnected flags players on a dropped connection and releases the
// host slot if the host dropped.
func (s *Session) MarkDisconnected(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.game.Players {
		if s.game.Players[i].SessionID == sessionID {
			s.game.Players[i].Connected = false
		}
	}
	if s.game.HostID == sessionID {
		s.game.HostID = ""
	}
}

// Start moves the game from waiting to active and arms the round-0 toss-up.
func (s *Session) Start(hostID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireHostLocked(hostID); err != nil {
		return err
	}
	if s.game.Status != domain.StatusWaiting {
		return fmt.Errorf("game already started: %w", domain.ErrInvalidState)
	}
	if len(s.game.Players) < 2 {
		return fmt.Errorf("at least two players required to start: %w", domain.ErrValidation)
	}

	s.startLocked()
	return nil
}

// startLocked performs the start transition without preconditions; reset
// reuses it to fold straight back into a running game.
func (s *Session) startLocked() {
	g := s.game
	g.Status = domain.StatusActive
	g.CurrentRound = 0
	g.SetTurn(domain.NoTeam) // nobody is active until a buzz
	g.State.AwaitingAnswer = true
	g.State.CanAdvance = false
	if idx := g.QuestionIndex(domain.Team1, 1, 1); idx >= 0 {
		g.CurrentQuestionIndex = idx
	}

	snap := s.snapshotLocked()
	s.broadcastLocked(EventGameStarted, GameSnapshotPayload{
		Game:            snap,
		CurrentQuestion: snap.CurrentQuestion(),
		ActiveTeam:      snap.State.CurrentTurn,
	})
}

// Buzz resolves the toss-up race first-come-first-served. A losing buzz
// reports tooLate and broadcasts buzz-too-late; it is not an error.
func (s *Session) Buzz(playerID string) (tooLate bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.game
	p := g.PlayerByID(playerID)
	if p == nil {
		return false, domain.ErrPlayerNotFound
	}
	if g.Status != domain.StatusActive || g.CurrentRound != 0 {
		return false, fmt.Errorf("buzzing is only allowed during the active toss-up: %w", domain.ErrInvalidState)
	}
	team := g.TeamByID(p.TeamID)
	if team == nil {
		return false, fmt.Errorf("player has not joined a team: %w", domain.ErrTeamNotFound)
	}

	if g.BuzzedTeamID != "" {
		s.broadcastLocked(EventBuzzTooLate, BuzzTooLatePayload{
			PlayerID: p.ID,
			TeamID:   p.TeamID,
			Message:  "another team already buzzed",
		})
		return true, nil
	}

	g.BuzzedTeamID = team.ID
	g.SetTurn(team.Key)

	s.broadcastLocked(EventBuzzerPressed, BuzzerPressedPayload{
		Game:       s.snapshotLocked(),
		PlayerID:   p.ID,
		PlayerName: p.Name,
		TeamID:     team.ID,
		TeamName:   team.Name,
	})
	return false, nil
}

// SubmitAnswer applies a player's single attempt and reports which delayed
// continuations the caller should schedule.
func (s *Session) SubmitAnswer(playerID, text string) (submitDirectives, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.game
	d := submitDirectives{Epoch: s.epoch}

	p := g.PlayerByID(playerID)
	if p == nil {
		return d, domain.ErrPlayerNotFound
	}
	if g.Status != domain.StatusActive {
		return d, fmt.Errorf("answers are only accepted while the game is active: %w", domain.ErrInvalidState)
	}
	team := g.TeamByID(p.TeamID)
	if team == nil {
		return d, fmt.Errorf("player has not joined a team: %w", domain.ErrTeamNotFound)
	}
	if strings.TrimSpace(text) == "" {
		return d, fmt.Errorf("answer text required: %w", domain.ErrValidation)
	}

	if g.CurrentRound == 0 {
		return s.submitTossUpLocked(p, team, text)
	}
	return s.submitRoundAnswerLocked(p, team, text)
}

func (s *Session) submitTossUpLocked(p *domain.Player, team *domain.Team, text string) (submitDirectives, error) {
	g := s.game
	d := submitDirectives{Epoch: s.epoch}

	q := g.State.TossUpQuestion
	if q == nil {
		return d, fmt.Errorf("no toss-up question loaded: %w", domain.ErrInvalidState)
	}
	if g.State.TossUpSubmitted[team.Key] {
		return d, fmt.Errorf("your team has already answered the toss-up: %w", domain.ErrAlreadyActed)
	}

	matched := domain.MatchAnswer(text, q.Answers)
	score := 0
	var matchedCopy *domain.Answer
	var answerID string
	if matched != nil {
		matched.Revealed = true
		score = matched.Score // toss-up uses the base score, multiplier x1
		team.Score += score
		answerID = matched.ID
		mc := *matched
		matchedCopy = &mc
	}

	g.State.TossUpAnswers = append(g.State.TossUpAnswers, domain.TossUpAnswer{
		TeamID:     team.ID,
		TeamName:   team.Name,
		PlayerName: p.Name,
		Answer:     text,
		Score:      score,
		AnswerID:   answerID,
	})
	g.State.TossUpSubmitted[team.Key] = true

	outcome := AnswerOutcomePayload{
		Game:          s.snapshotLocked(),
		IsCorrect:     matched != nil,
		PointsAwarded: score,
		MatchedAnswer: matchedCopy,
		PlayerName:    p.Name,
		TeamID:        team.ID,
		TeamName:      team.Name,
		SubmittedText: text,
		TossUp:        true,
	}
	if matched != nil {
		s.broadcastLocked(EventAnswerCorrect, outcome)
	} else {
		s.broadcastLocked(EventAnswerIncorrect, outcome)
	}

	if len(g.State.TossUpAnswers) >= 2 {
		// Both teams have answered; the reveal and winner decision run
		// after the toss-up reveal delay.
		d.TossUpFinal = true
		return d, nil
	}

	// First submission flips the turn so the other team gets its attempt.
	g.SetTurn(team.Key.Other())
	other := g.Team(team.Key.Other())

	snap := s.snapshotLocked()
	s.broadcastLocked(EventTurnChanged, TurnChangedPayload{
		Game:            snap,
		NewActiveTeam:   other.Key,
		TeamName:        other.Name,
		CurrentQuestion: snap.CurrentQuestion(),
	})
	return d, nil
}

func (s *Session) submitRoundAnswerLocked(p *domain.Player, team *domain.Team, text string) (submitDirectives, error) {
	g := s.game
	d := submitDirectives{Epoch: s.epoch}

	if !team.Active {
		return d, fmt.Errorf("it's not your team's turn: %w", domain.ErrInvalidState)
	}
	q := g.CurrentQuestion()
	if q == nil {
		return d, fmt.Errorf("no question in play: %w", domain.ErrInvalidState)
	}
	if q.AllRevealed() {
		// Single-attempt rule: a fully revealed board has been played.
		return d, fmt.Errorf("this question has already been answered: %w", domain.ErrAlreadyActed)
	}

	number := g.State.QuestionsAnswered[team.Key] + 1
	slot := g.State.QuestionData.Slot(team.Key, g.CurrentRound, number)

	matched := domain.MatchAnswer(text, q.Answers)
	outcome := AnswerOutcomePayload{
		PlayerName:    p.Name,
		TeamID:        team.ID,
		TeamName:      team.Name,
		SubmittedText: text,
	}

	if matched != nil {
		matched.Revealed = true
		points := matched.Score * g.CurrentRound

		team.Score += points
		team.CurrentRoundScore += points
		if slot != nil {
			slot.Record(true, points)
		}

		mc := *matched
		outcome.IsCorrect = true
		outcome.PointsAwarded = points
		outcome.MatchedAnswer = &mc
		outcome.Game = s.snapshotLocked()
		s.broadcastLocked(EventAnswerCorrect, outcome)

		d.RevealRemaining = true
		return d, nil
	}

	q.RevealAll()
	if slot != nil {
		slot.Record(false, 0)
	}

	outcome.AllCardsRevealed = true
	outcome.Game = s.snapshotLocked()
	s.broadcastLocked(EventAnswerIncorrect, outcome)

	d.EnableAdvance = true
	return d, nil
}

// CompleteTossUp is the delayed continuation after the second toss-up
// submission: reveal the board, decide the winner (higher score, tie broken
// by who buzzed first) and fold into the round-0 summary.
func (s *Session) CompleteTossUp(epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.game
	if epoch != s.epoch || g.Status != domain.StatusActive || g.CurrentRound != 0 {
		return
	}
	if q := g.State.TossUpQuestion; q != nil {
		q.RevealAll()
		snap := s.snapshotLocked()
		s.broadcastLocked(EventRemainingCardsRevealed, BoardPayload{
			Game:            snap,
			CurrentQuestion: snap.CurrentQuestion(),
		})
	}

	answers := g.State.TossUpAnswers
	winnerID := g.BuzzedTeamID
	if len(answers) == 2 {
		switch {
		case answers[0].Score > answers[1].Score:
			winnerID = answers[0].TeamID
		case answers[1].Score > answers[0].Score:
			winnerID = answers[1].TeamID
		}
		// Equal scores fall back to the team that buzzed first.
	}
	if winner := g.TeamByID(winnerID); winner != nil {
		g.TossUpWinner = &domain.TossUpWinner{TeamID: winner.ID, TeamName: winner.Name}
	}

	g.Status = domain.StatusRoundSummary
	g.SetTurn(domain.NoTeam)

	s.broadcastLocked(EventRoundComplete, RoundCompletePayload{
		Game:           s.snapshotLocked(),
		RoundSummary:   g.BuildRoundSummary(),
		IsGameFinished: false,
	})
}

// RevealRemaining is the delayed continuation after a correct answer. It
// reports whether the advance-unlock continuation should follow.
func (s *Session) RevealRemaining(epoch uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.game
	if epoch != s.epoch || g.Status != domain.StatusActive {
		return false
	}
	if q := g.CurrentQuestion(); q != nil {
		q.RevealAll()
		snap := s.snapshotLocked()
		s.broadcastLocked(EventRemainingCardsRevealed, BoardPayload{
			Game:            snap,
			CurrentQuestion: snap.CurrentQuestion(),
		})
	}
	return true
}

// EnableAdvance is the delayed continuation that unlocks the host's
// advance command once the board has been on screen long enough.
func (s *Session) EnableAdvance(epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.game
	if epoch != s.epoch || g.Status != domain.StatusActive {
		return
	}
	g.State.CanAdvance = true

	snap := s.snapshotLocked()
	s.broadcastLocked(EventQuestionComplete, BoardPayload{
		Game:            snap,
		CurrentQuestion: snap.CurrentQuestion(),
	})
}

// Advance moves the game past a completed question: next question, turn
// switch, round summary or game over. Calling it while CanAdvance is false
// leaves the game untouched.
func (s *Session) Advance(hostID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireHostLocked(hostID); err != nil {
		return err
	}
	g := s.game
	if g.Status != domain.StatusActive {
		return fmt.Errorf("advance requires an active game: %w", domain.ErrInvalidState)
	}
	if !g.State.CanAdvance {
		return fmt.Errorf("question is not complete yet: %w", domain.ErrInvalidState)
	}
	cur := g.State.CurrentTurn
	if !cur.Valid() {
		return fmt.Errorf("no team holds the turn: %w", domain.ErrInvalidState)
	}
	g.State.CanAdvance = false

	other := cur.Other()
	g.State.QuestionsAnswered[cur]++

	if g.State.QuestionsAnswered[cur] < 3 {
		// Same team continues with its next question.
		if idx := g.QuestionIndex(cur, g.CurrentRound, g.State.QuestionsAnswered[cur]+1); idx >= 0 {
			g.CurrentQuestionIndex = idx
		}
		snap := s.snapshotLocked()
		s.broadcastLocked(EventNextQuestion, BoardPayload{
			Game:            snap,
			CurrentQuestion: snap.CurrentQuestion(),
			SameTeam:        true,
		})
		return nil
	}

	if g.State.QuestionsAnswered[other] < 3 {
		// Turn switches to the other team at its lowest unanswered ordinal.
		g.SetTurn(other)
		if idx := g.QuestionIndex(other, g.CurrentRound, g.State.QuestionsAnswered[other]+1); idx >= 0 {
			g.CurrentQuestionIndex = idx
		}
		otherTeam := g.Team(other)
		snap := s.snapshotLocked()
		s.broadcastLocked(EventTurnChanged, TurnChangedPayload{
			Game:            snap,
			NewActiveTeam:   other,
			TeamName:        otherTeam.Name,
			CurrentQuestion: snap.CurrentQuestion(),
		})
		return nil
	}

	// Both teams are done with the round.
	if g.CurrentRound < 3 {
		g.Status = domain.StatusRoundSummary
		g.SetTurn(domain.NoTeam)
		s.broadcastLocked(EventRoundComplete, RoundCompletePayload{
			Game:           s.snapshotLocked(),
			RoundSummary:   g.BuildRoundSummary(),
			IsGameFinished: false,
		})
		return nil
	}

	s.persistRoundScoresLocked()
	g.Status = domain.StatusFinished
	g.SetTurn(domain.NoTeam)
	s.broadcastLocked(EventGameOver, GameOverPayload{
		Game:         s.snapshotLocked(),
		Winner:       s.winnerCopyLocked(),
		RoundSummary: g.BuildRoundSummary(),
	})
	return nil
}

// ContinueToNextRound leaves the round summary: persists the running round
// scores and either starts the next round or finishes the game.
func (s *Session) ContinueToNextRound(hostID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireHostLocked(hostID); err != nil {
		return err
	}
	g := s.game
	if g.Status != domain.StatusRoundSummary {
		return fmt.Errorf("not at a round summary: %w", domain.ErrInvalidState)
	}

	s.persistRoundScoresLocked()

	if g.CurrentRound < 3 {
		s.startNewRoundLocked()
		snap := s.snapshotLocked()
		s.broadcastLocked(EventRoundStarted, GameSnapshotPayload{
			Game:            snap,
			CurrentQuestion: snap.CurrentQuestion(),
			ActiveTeam:      snap.State.CurrentTurn,
			Round:           snap.CurrentRound,
		})
		return nil
	}

	g.Status = domain.StatusFinished
	g.SetTurn(domain.NoTeam)
	s.broadcastLocked(EventGameOver, GameOverPayload{
		Game:         s.snapshotLocked(),
		Winner:       s.winnerCopyLocked(),
		RoundSummary: g.BuildRoundSummary(),
	})
	return nil
}

func (s *Session) startNewRoundLocked() {
	g := s.game
	g.CurrentRound++
	g.State.QuestionsAnswered = map[domain.TeamKey]int{domain.Team1: 0, domain.Team2: 0}
	g.State.CanAdvance = false
	g.State.AwaitingAnswer = true

	// The toss-up winner starts every round.
	start := domain.Team1
	if g.TossUpWinner != nil {
		if t := g.TeamByID(g.TossUpWinner.TeamID); t != nil {
			start = t.Key
		}
	}
	g.SetTurn(start)

	for i := range g.Teams {
		g.Teams[i].CurrentRoundScore = 0
	}
	if idx := g.QuestionIndex(start, g.CurrentRound, 1); idx >= 0 {
		g.CurrentQuestionIndex = idx
	}
	g.Status = domain.StatusActive
}

// persistRoundScoresLocked copies the running round scores into the
// per-round arrays. A round-0 (toss-up) summary persists nothing; the
// toss-up never counts toward the final total.
func (s *Session) persistRoundScoresLocked() {
	g := s.game
	r := g.CurrentRound
	if r < 1 || r > 3 {
		return
	}
	for _, k := range domain.TeamKeys {
		t := g.Team(k)
		t.RoundScores[r-1] = t.CurrentRoundScore
		g.State.RoundScores[r-1].Set(k, t.CurrentRoundScore)
	}
}

// ForceNextQuestion is the host override that burns the current board:
// reveal everything, record a first-attempt miss, and wait for advance.
func (s *Session) ForceNextQuestion(hostID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireHostLocked(hostID); err != nil {
		return err
	}
	g := s.game
	if g.Status != domain.StatusActive {
		return fmt.Errorf("no active question to force: %w", domain.ErrInvalidState)
	}
	q := g.CurrentQuestion()
	if q == nil {
		return fmt.Errorf("no question in play: %w", domain.ErrInvalidState)
	}

	q.RevealAll()
	if cur := g.State.CurrentTurn; cur.Valid() {
		number := g.State.QuestionsAnswered[cur] + 1
		if slot := g.State.QuestionData.Slot(cur, g.CurrentRound, number); slot != nil {
			slot.Record(false, 0)
		}
	}
	g.State.CanAdvance = true

	snap := s.snapshotLocked()
	s.broadcastLocked(EventRemainingCardsRevealed, BoardPayload{
		Game:            snap,
		CurrentQuestion: snap.CurrentQuestion(),
		ByHost:          true,
	})
	s.broadcastLocked(EventQuestionComplete, BoardPayload{
		Game:            snap,
		CurrentQuestion: snap.CurrentQuestion(),
		ByHost:          true,
	})
	return nil
}

// ForceRoundSummary is the host override that cuts straight to the summary.
func (s *Session) ForceRoundSummary(hostID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireHostLocked(hostID); err != nil {
		return err
	}
	g := s.game
	if g.Status != domain.StatusActive {
		return fmt.Errorf("game is not active: %w", domain.ErrInvalidState)
	}

	g.Status = domain.StatusRoundSummary
	g.SetTurn(domain.NoTeam)

	s.broadcastLocked(EventRoundComplete, RoundCompletePayload{
		Game:           s.snapshotLocked(),
		RoundSummary:   g.BuildRoundSummary(),
		IsGameFinished: g.CurrentRound >= 3,
		ByHost:         true,
	})
	return nil
}

// OverrideAnswer applies a host score correction: the delta between the
// recorded points and the new value hits the team total and the running
// round score, and the slot outcome may flip. Pending reveal/advance
// continuations remain valid after a score correction, so the epoch is
// left alone.
func (s *Session) OverrideAnswer(hostID string, req OverrideRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireHostLocked(hostID); err != nil {
		return err
	}
	g := s.game
	team := g.TeamByID(req.TeamID)
	if team == nil {
		return domain.ErrTeamNotFound
	}
	slot := g.State.QuestionData.Slot(team.Key, req.Round, req.QuestionNumber)
	if slot == nil {
		return fmt.Errorf("round and question number must be 1-3: %w", domain.ErrValidation)
	}

	diff := req.PointsAwarded - slot.PointsEarned
	team.Score += diff
	team.CurrentRoundScore += diff
	slot.Override(req.IsCorrect, req.PointsAwarded)

	if req.AnswerIndex != nil {
		if idx := g.QuestionIndex(team.Key, req.Round, req.QuestionNumber); idx >= 0 {
			q := &g.Questions[idx]
			if ai := *req.AnswerIndex; ai >= 0 && ai < len(q.Answers) {
				q.Answers[ai].Revealed = true
			}
		}
	}

	s.broadcastLocked(EventAnswerOverridden, AnswerOverriddenPayload{
		Game:           s.snapshotLocked(),
		TeamID:         team.ID,
		TeamName:       team.Name,
		Round:          req.Round,
		QuestionNumber: req.QuestionNumber,
		PointsAwarded:  req.PointsAwarded,
		IsCorrect:      req.IsCorrect,
	})
	return nil
}

// Reset wipes scores, reveals and toss-up state, invalidates every pending
// continuation, and immediately restarts so players need not rejoin. The
// restart skips the waiting-status and player-count preconditions.
func (s *Session) Reset(hostID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireHostLocked(hostID); err != nil {
		return err
	}
	s.epoch++

	g := s.game
	g.Status = domain.StatusWaiting
	g.CurrentRound = 0
	g.CurrentQuestionIndex = 0
	g.BuzzedTeamID = ""
	g.TossUpWinner = nil
	g.SetTurn(domain.NoTeam)

	g.State.QuestionsAnswered = map[domain.TeamKey]int{domain.Team1: 0, domain.Team2: 0}
	g.State.RoundScores = [3]domain.RoundScore{}
	g.State.AwaitingAnswer = false
	g.State.CanAdvance = false
	g.State.QuestionData = domain.QuestionData{}
	g.State.TossUpAnswers = []domain.TossUpAnswer{}
	g.State.TossUpSubmitted = make(map[domain.TeamKey]bool)

	for i := range g.Teams {
		g.Teams[i].Score = 0
		g.Teams[i].RoundScores = [3]int{}
		g.Teams[i].CurrentRoundScore = 0
	}
	g.HideAllAnswers()

	s.broadcastLocked(EventGameReset, GameResetPayload{
		Game:    s.snapshotLocked(),
		Message: "Game has been reset by the host",
	})

	s.startLocked()
	return nil
}

func (s *Session) winnerCopyLocked() *domain.Team {
	w := s.game.Winner()
	if w == nil {
		return nil
	}
	c := *w
	c.Members = append([]string(nil), w.Members...)
	return &c
}
