package app

import "feud-quiz-service/internal/domain"

// Event is a typed outcome fanned out to every subscriber of a game
// channel. Payloads embed deep-copied game snapshots, so consumers never
// observe in-place mutation.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Outbound event types.
const (
	EventHostJoined             = "host-joined"
	EventGameStarted            = "game-started"
	EventBuzzerPressed          = "buzzer-pressed"
	EventBuzzTooLate            = "buzz-too-late"
	EventAnswerCorrect          = "answer-correct"
	EventAnswerIncorrect        = "answer-incorrect"
	EventRemainingCardsRevealed = "remaining-cards-revealed"
	EventTurnChanged            = "turn-changed"
	EventQuestionComplete       = "question-complete"
	EventNextQuestion           = "next-question"
	EventRoundComplete          = "round-complete"
	EventRoundStarted           = "round-started"
	EventGameOver               = "game-over"
	EventAnswerOverridden       = "answer-overridden"
	EventGameReset              = "game-reset"
	EventTeamUpdated            = "team-updated"
	EventPlayerJoined           = "player-joined"
)

// GameSnapshotPayload covers events whose payload is the game plus the
// board in play: host-joined, game-started, round-started.
type GameSnapshotPayload struct {
	Game            *domain.Game     `json:"game"`
	CurrentQuestion *domain.Question `json:"currentQuestion,omitempty"`
	ActiveTeam      domain.TeamKey   `json:"activeTeam"`
	Round           int              `json:"round,omitempty"`
}

// BuzzerPressedPayload announces the buzz race winner.
type BuzzerPressedPayload struct {
	Game       *domain.Game `json:"game"`
	PlayerID   string       `json:"playerId"`
	PlayerName string       `json:"playerName"`
	TeamID     string       `json:"teamId"`
	TeamName   string       `json:"teamName"`
}

// BuzzTooLatePayload rejects a buzz that lost the race.
type BuzzTooLatePayload struct {
	PlayerID string `json:"playerId"`
	TeamID   string `json:"teamId,omitempty"`
	Message  string `json:"message"`
}

// AnswerOutcomePayload is shared by answer-correct and answer-incorrect.
type AnswerOutcomePayload struct {
	Game             *domain.Game   `json:"game"`
	IsCorrect        bool           `json:"isCorrect"`
	PointsAwarded    int            `json:"pointsAwarded"`
	MatchedAnswer    *domain.Answer `json:"matchingAnswer,omitempty"`
	PlayerName       string         `json:"playerName"`
	TeamID           string         `json:"teamId"`
	TeamName         string         `json:"teamName"`
	SubmittedText    string         `json:"submittedText"`
	TossUp           bool           `json:"tossUp,omitempty"`
	AllCardsRevealed bool           `json:"allCardsRevealed"`
}

// BoardPayload covers remaining-cards-revealed, question-complete and
// next-question.
type BoardPayload struct {
	Game            *domain.Game     `json:"game"`
	CurrentQuestion *domain.Question `json:"currentQuestion,omitempty"`
	SameTeam        bool             `json:"sameTeam,omitempty"`
	ByHost          bool             `json:"byHost,omitempty"`
}

// TurnChangedPayload announces the new turn holder.
type TurnChangedPayload struct {
	Game            *domain.Game     `json:"game"`
	NewActiveTeam   domain.TeamKey   `json:"newActiveTeam"`
	TeamName        string           `json:"teamName"`
	CurrentQuestion *domain.Question `json:"currentQuestion,omitempty"`
}

// RoundCompletePayload carries the on-demand round summary.
type RoundCompletePayload struct {
	Game           *domain.Game        `json:"game"`
	RoundSummary   domain.RoundSummary `json:"roundSummary"`
	IsGameFinished bool                `json:"isGameFinished"`
	ByHost         bool                `json:"byHost,omitempty"`
}

// GameOverPayload carries the winner; nil means a tie.
type GameOverPayload struct {
	Game         *domain.Game        `json:"game"`
	Winner       *domain.Team        `json:"winner"`
	RoundSummary domain.RoundSummary `json:"roundSummary"`
}

// AnswerOverriddenPayload reports a host score correction.
type AnswerOverriddenPayload struct {
	Game           *domain.Game `json:"game"`
	TeamID         string       `json:"teamId"`
	TeamName       string       `json:"teamName"`
	Round          int          `json:"round"`
	QuestionNumber int          `json:"questionNumber"`
	PointsAwarded  int          `json:"pointsAwarded"`
	IsCorrect      bool         `json:"isCorrect"`
}

// GameResetPayload announces a host reset; game-started follows it.
type GameResetPayload struct {
	Game    *domain.Game `json:"game"`
	Message string       `json:"message"`
}

// TeamUpdatedPayload reports a player picking a team.
type TeamUpdatedPayload struct {
	PlayerID string       `json:"playerId"`
	TeamID   string       `json:"teamId"`
	Game     *domain.Game `json:"game"`
}

// PlayerJoinedPayload announces a player entering the game channel.
type PlayerJoinedPayload struct {
	Player       domain.Player `json:"player"`
	TotalPlayers int           `json:"totalPlayers"`
}
