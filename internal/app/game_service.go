package app

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"feud-quiz-service/internal/domain"
	"github.com/google/uuid"
)

// GameRegistry abstracts how game sessions are stored (in-memory, Redis-
// backed, etc). It is constructed at startup and injected here; there is
// no package-level registry.
type GameRegistry interface {
	// Register stores a session under its code; false means the code is taken.
	Register(code string, sess *Session) bool
	Get(code string) (*Session, bool)
	Delete(code string)
	Count() int
}

// QuestionSetRepository loads question banks (from cache/backing store).
type QuestionSetRepository interface {
	GetQuestionSet(ctx context.Context, setID string) ([]domain.Question, error)
}

// Timing holds the delayed-continuation intervals. Tests shrink them.
type Timing struct {
	RevealDelay       time.Duration // correct answer -> reveal remaining cards
	AdvanceDelay      time.Duration // board revealed -> host may advance
	TossUpRevealDelay time.Duration // second toss-up answer -> reveal + winner
}

// DefaultTiming mirrors the pacing of the original game.
func DefaultTiming() Timing {
	return Timing{
		RevealDelay:       2 * time.Second,
		AdvanceDelay:      3 * time.Second,
		TossUpRevealDelay: 2 * time.Second,
	}
}

// TeamNames carries optional host-chosen names at game creation.
type TeamNames struct {
	Team1 string `json:"team1"`
	Team2 string `json:"team2"`
}

// GameService contains the quiz orchestration use cases. All game state
// lives inside the registry's sessions; the service is stateless apart
// from configuration.
type GameService struct {
	games     GameRegistry
	questions QuestionSetRepository
	setID     string
	timing    Timing
}

func NewGameService(games GameRegistry, questions QuestionSetRepository, setID string, timing Timing) *GameService {
	return &GameService{games: games, questions: questions, setID: setID, timing: timing}
}

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func generateGameCode() string {
	var b strings.Builder
	for i := 0; i < 6; i++ {
		b.WriteByte(codeAlphabet[rand.Intn(len(codeAlphabet))])
	}
	return b.String()
}

// CreateGame loads and prepares a question set, builds the aggregate and
// registers it under a fresh code.
func (s *GameService) CreateGame(ctx context.Context, names TeamNames) (code, gameID string, err error) {
	bank, err := s.questions.GetQuestionSet(ctx, s.setID)
	if err != nil {
		return "", "", err
	}
	tossUp, ordered, err := PrepareQuestions(bank)
	if err != nil {
		return "", "", err
	}

	// The random code space is large enough that collisions are rare;
	// retry a handful of times rather than coordinate.
	for attempt := 0; attempt < 10; attempt++ {
		code = generateGameCode()
		game := newGame(code, names, tossUp, ordered)
		if s.games.Register(code, NewSession(game)) {
			return code, game.ID, nil
		}
	}
	return "", "", fmt.Errorf("could not allocate a unique game code: %w", domain.ErrValidation)
}

func newGame(code string, names TeamNames, tossUp domain.Question, ordered []domain.Question) *domain.Game {
	name1, name2 := names.Team1, names.Team2
	if name1 == "" {
		name1 = "Team 1"
	}
	if name2 == "" {
		name2 = "Team 2"
	}

	tq := tossUp
	return &domain.Game{
		ID:        uuid.NewString(),
		Code:      code,
		Status:    domain.StatusWaiting,
		Questions: ordered,
		Teams: [2]domain.Team{
			{ID: uuid.NewString() + "_team1", Key: domain.Team1, Name: name1, Members: []string{}},
			{ID: uuid.NewString() + "_team2", Key: domain.Team2, Name: name2, Members: []string{}},
		},
		Players: []domain.Player{},
		State: domain.GameState{
			CurrentTurn:       domain.NoTeam,
			QuestionsAnswered: map[domain.TeamKey]int{domain.Team1: 0, domain.Team2: 0},
			TossUpQuestion:    &tq,
			TossUpAnswers:     []domain.TossUpAnswer{},
			TossUpSubmitted:   make(map[domain.TeamKey]bool),
		},
	}
}

// JoinGame registers a new player against an existing game.
func (s *GameService) JoinGame(code, playerName string) (domain.Player, *domain.Game, error) {
	sess, ok := s.games.Get(code)
	if !ok {
		return domain.Player{}, nil, domain.ErrGameNotFound
	}
	player, err := sess.AddPlayer(playerName)
	if err != nil {
		return domain.Player{}, nil, err
	}
	return player, sess.Snapshot(), nil
}

// Subscribe attaches a consumer to a game's event channel.
func (s *GameService) Subscribe(code string) (<-chan Event, func(), error) {
	sess, ok := s.games.Get(code)
	if !ok {
		return nil, nil, domain.ErrGameNotFound
	}
	ch, cancel := sess.Subscribe()
	return ch, cancel, nil
}

// Snapshot returns a deep copy of a game aggregate.
func (s *GameService) Snapshot(code string) (*domain.Game, error) {
	sess, ok := s.games.Get(code)
	if !ok {
		return nil, domain.ErrGameNotFound
	}
	return sess.Snapshot(), nil
}

// HostJoin binds a host connection to the game.
func (s *GameService) HostJoin(code, hostID string, teams []TeamSetup) error {
	sess, ok := s.games.Get(code)
	if !ok {
		return domain.ErrGameNotFound
	}
	sess.HostJoin(hostID, teams)
	return nil
}

// PlayerJoin attaches a registered player to the live game channel.
func (s *GameService) PlayerJoin(code, playerID, sessionID string) error {
	sess, ok := s.games.Get(code)
	if !ok {
		return domain.ErrGameNotFound
	}
	return sess.PlayerJoin(playerID, sessionID)
}

// JoinTeam assigns a player to a team.
func (s *GameService) JoinTeam(code, playerID, teamID string) error {
	sess, ok := s.games.Get(code)
	if !ok {
		return domain.ErrGameNotFound
	}
	return sess.JoinTeam(playerID, teamID)
}

// Players lists the roster for a game.
func (s *GameService) Players(code string) ([]domain.Player, error) {
	sess, ok := s.games.Get(code)
	if !ok {
		return nil, domain.ErrGameNotFound
	}
	return sess.Players(), nil
}

// StartGame begins play (host-only, needs at least two players).
func (s *GameService) StartGame(code, hostID string) error {
	sess, ok := s.games.Get(code)
	if !ok {
		return domain.ErrGameNotFound
	}
	return sess.Start(hostID)
}

// Buzz resolves a toss-up buzz in arrival order.
func (s *GameService) Buzz(code, playerID string) (tooLate bool, err error) {
	sess, ok := s.games.Get(code)
	if !ok {
		return false, domain.ErrGameNotFound
	}
	return sess.Buzz(playerID)
}

// SubmitAnswer applies a player's attempt and schedules whatever delayed
// continuations the transition calls for. Continuations re-fetch the
// session by code when they fire; they never hold a game reference across
// the delay.
func (s *GameService) SubmitAnswer(code, playerID, text string) error {
	sess, ok := s.games.Get(code)
	if !ok {
		return domain.ErrGameNotFound
	}
	d, err := sess.SubmitAnswer(playerID, text)
	if err != nil {
		return err
	}

	switch {
	case d.TossUpFinal:
		s.after(s.timing.TossUpRevealDelay, code, func(sess *Session) {
			sess.CompleteTossUp(d.Epoch)
		})
	case d.RevealRemaining:
		s.after(s.timing.RevealDelay, code, func(sess *Session) {
			if sess.RevealRemaining(d.Epoch) {
				s.after(s.timing.AdvanceDelay, code, func(sess *Session) {
					sess.EnableAdvance(d.Epoch)
				})
			}
		})
	case d.EnableAdvance:
		s.after(s.timing.AdvanceDelay, code, func(sess *Session) {
			sess.EnableAdvance(d.Epoch)
		})
	}
	return nil
}

func (s *GameService) after(delay time.Duration, code string, fn func(*Session)) {
	time.AfterFunc(delay, func() {
		if sess, ok := s.games.Get(code); ok {
			fn(sess)
		}
	})
}

// AdvanceQuestion moves the game past a completed question (host-only).
func (s *GameService) AdvanceQuestion(code, hostID string) error {
	sess, ok := s.games.Get(code)
	if !ok {
		return domain.ErrGameNotFound
	}
	return sess.Advance(hostID)
}

// ContinueToNextRound leaves a round summary (host-only).
func (s *GameService) ContinueToNextRound(code, hostID string) error {
	sess, ok := s.games.Get(code)
	if !ok {
		return domain.ErrGameNotFound
	}
	return sess.ContinueToNextRound(hostID)
}

// ForceNextQuestion burns the current board (host override).
func (s *GameService) ForceNextQuestion(code, hostID string) error {
	sess, ok := s.games.Get(code)
	if !ok {
		return domain.ErrGameNotFound
	}
	return sess.ForceNextQuestion(hostID)
}

// ForceRoundSummary cuts straight to the summary (host override).
func (s *GameService) ForceRoundSummary(code, hostID string) error {
	sess, ok := s.games.Get(code)
	if !ok {
		return domain.ErrGameNotFound
	}
	return sess.ForceRoundSummary(hostID)
}

// OverrideAnswer applies a host score correction.
func (s *GameService) OverrideAnswer(code, hostID string, req OverrideRequest) error {
	sess, ok := s.games.Get(code)
	if !ok {
		return domain.ErrGameNotFound
	}
	return sess.OverrideAnswer(hostID, req)
}

// ResetGame wipes and restarts a game in place (host-only).
func (s *GameService) ResetGame(code, hostID string) error {
	sess, ok := s.games.Get(code)
	if !ok {
		return domain.ErrGameNotFound
	}
	return sess.Reset(hostID)
}

// Disconnect marks a dropped connection's players as offline.
func (s *GameService) Disconnect(code, sessionID string) {
	if sess, ok := s.games.Get(code); ok {
		sess.MarkDisconnected(sessionID)
	}
}

// Stats reports how many games the registry currently holds.
func (s *GameService) Stats() int {
	return s.games.Count()
}
