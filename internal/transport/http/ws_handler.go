package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"feud-quiz-service/internal/app"
	"feud-quiz-service/internal/domain"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// WSHandler is the inbound command surface: every mutating command is
// handled synchronously against the in-memory game, and the resulting
// typed events fan out to every channel subscriber. Rejections go back to
// the sender only.
type WSHandler struct {
	service  *app.GameService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GameService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type gamePayload struct {
	GameCode string `json:"gameCode"`
}

type hostJoinPayload struct {
	GameCode string          `json:"gameCode"`
	Teams    []app.TeamSetup `json:"teams,omitempty"`
}

type playerPayload struct {
	GameCode string `json:"gameCode"`
	PlayerID string `json:"playerId"`
}

type joinTeamPayload struct {
	GameCode string `json:"gameCode"`
	PlayerID string `json:"playerId"`
	TeamID   string `json:"teamId"`
}

type submitAnswerPayload struct {
	GameCode string `json:"gameCode"`
	PlayerID string `json:"playerId"`
	Answer   string `json:"answer"`
}

type overridePayload struct {
	GameCode string `json:"gameCode"`
	app.OverrideRequest
}

type rejectionPayload struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type playersListPayload struct {
	Players      []domain.Player `json:"players"`
	TotalPlayers int             `json:"totalPlayers"`
}

type audienceJoinedPayload struct {
	Game *domain.Game `json:"game"`
}

// ServeWS upgrades the request and runs the per-connection command loop.
// Each connection gets a session id that doubles as the host identity for
// host-only commands.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	sessionID := uuid.NewString()

	send := make(chan app.Event, 32)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for ev := range send {
			if err := conn.WriteJSON(ev); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	// One game channel per connection; joining again re-subscribes.
	var (
		joinedCode string
		cancelSub  func()
	)
	subscribe := func(code string) error {
		updates, cancel, err := h.service.Subscribe(code)
		if err != nil {
			return err
		}
		if cancelSub != nil {
			cancelSub()
		}
		joinedCode = code
		cancelSub = cancel
		go func() {
			for {
				select {
				case ev, ok := <-updates:
					if !ok {
						return
					}
					select {
					case send <- ev:
					case <-closeSignals:
						return
					}
				case <-closeSignals:
					return
				}
			}
		}()
		return nil
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		h.dispatch(inbound, sessionID, send, subscribe)
	}

	close(closeSignals)
	if cancelSub != nil {
		cancelSub()
	}
	if joinedCode != "" {
		h.service.Disconnect(joinedCode, sessionID)
	}
	close(send)
	<-writerDone
}

func (h *WSHandler) dispatch(inbound inboundMessage, sessionID string, send chan<- app.Event, subscribe func(string) error) {
	reject := func(err error) {
		send <- rejection(inbound.Type, err)
	}

	switch inbound.Type {
	case "host-join":
		var p hostJoinPayload
		if err := decode(inbound.Payload, &p); err != nil || p.GameCode == "" {
			reject(domain.ErrValidation)
			return
		}
		code := normalizeCode(p.GameCode)
		if err := subscribe(code); err != nil {
			reject(err)
			return
		}
		if err := h.service.HostJoin(code, sessionID, p.Teams); err != nil {
			reject(err)
		}

	case "player-join":
		var p playerPayload
		if err := decode(inbound.Payload, &p); err != nil || p.GameCode == "" || p.PlayerID == "" {
			reject(domain.ErrValidation)
			return
		}
		code := normalizeCode(p.GameCode)
		if err := subscribe(code); err != nil {
			reject(err)
			return
		}
		if err := h.service.PlayerJoin(code, p.PlayerID, sessionID); err != nil {
			reject(err)
		}

	case "audience-join":
		var p gamePayload
		if err := decode(inbound.Payload, &p); err != nil || p.GameCode == "" {
			reject(domain.ErrValidation)
			return
		}
		code := normalizeCode(p.GameCode)
		snapshot, err := h.service.Snapshot(code)
		if err != nil {
			reject(err)
			return
		}
		if err := subscribe(code); err != nil {
			reject(err)
			return
		}
		send <- app.Event{Type: "audience-joined", Payload: audienceJoinedPayload{Game: snapshot}}

	case "get-players":
		var p gamePayload
		if err := decode(inbound.Payload, &p); err != nil || p.GameCode == "" {
			reject(domain.ErrValidation)
			return
		}
		players, err := h.service.Players(normalizeCode(p.GameCode))
		if err != nil {
			reject(err)
			return
		}
		send <- app.Event{Type: "players-list", Payload: playersListPayload{
			Players:      players,
			TotalPlayers: len(players),
		}}

	case "join-team":
		var p joinTeamPayload
		if err := decode(inbound.Payload, &p); err != nil || p.GameCode == "" || p.PlayerID == "" || p.TeamID == "" {
			reject(domain.ErrValidation)
			return
		}
		if err := h.service.JoinTeam(normalizeCode(p.GameCode), p.PlayerID, p.TeamID); err != nil {
			reject(err)
		}

	case "player-buzz":
		var p playerPayload
		if err := decode(inbound.Payload, &p); err != nil || p.GameCode == "" || p.PlayerID == "" {
			reject(domain.ErrValidation)
			return
		}
		// A losing buzz is announced on the channel, not rejected.
		if _, err := h.service.Buzz(normalizeCode(p.GameCode), p.PlayerID); err != nil {
			reject(err)
		}

	case "submit-answer":
		var p submitAnswerPayload
		if err := decode(inbound.Payload, &p); err != nil || p.GameCode == "" || p.PlayerID == "" {
			reject(domain.ErrValidation)
			return
		}
		if err := h.service.SubmitAnswer(normalizeCode(p.GameCode), p.PlayerID, p.Answer); err != nil {
			reject(err)
		}

	case "start-game":
		h.hostCommand(inbound, sessionID, reject, h.service.StartGame)
	case "advance-question":
		h.hostCommand(inbound, sessionID, reject, h.service.AdvanceQuestion)
	case "continue-to-next-round":
		h.hostCommand(inbound, sessionID, reject, h.service.ContinueToNextRound)
	case "force-next-question":
		h.hostCommand(inbound, sessionID, reject, h.service.ForceNextQuestion)
	case "force-round-summary":
		h.hostCommand(inbound, sessionID, reject, h.service.ForceRoundSummary)
	case "reset-game":
		h.hostCommand(inbound, sessionID, reject, h.service.ResetGame)

	case "override-answer":
		var p overridePayload
		if err := decode(inbound.Payload, &p); err != nil || p.GameCode == "" || p.TeamID == "" {
			reject(domain.ErrValidation)
			return
		}
		if err := h.service.OverrideAnswer(normalizeCode(p.GameCode), sessionID, p.OverrideRequest); err != nil {
			reject(err)
		}

	default:
		reject(domain.ErrValidation)
	}
}

func (h *WSHandler) hostCommand(inbound inboundMessage, sessionID string, reject func(error), fn func(code, hostID string) error) {
	var p gamePayload
	if err := decode(inbound.Payload, &p); err != nil || p.GameCode == "" {
		reject(domain.ErrValidation)
		return
	}
	if err := fn(normalizeCode(p.GameCode), sessionID); err != nil {
		reject(err)
	}
}

func decode(raw json.RawMessage, dst any) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return domain.ErrValidation
	}
	return nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// rejection maps an error to the sender-only event carrying its reason
// code. Answer submissions use the answer-rejected type; everything else
// reports a generic error event.
func rejection(commandType string, err error) app.Event {
	eventType := "error"
	if commandType == "submit-answer" {
		eventType = "answer-rejected"
	}
	return app.Event{Type: eventType, Payload: rejectionPayload{
		Reason:  reasonCode(err),
		Message: err.Error(),
	}}
}

func reasonCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrGameNotFound),
		errors.Is(err, domain.ErrPlayerNotFound),
		errors.Is(err, domain.ErrTeamNotFound),
		errors.Is(err, domain.ErrQuestionSetNotFound):
		return "not-found"
	case errors.Is(err, domain.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, domain.ErrAlreadyActed):
		return "already-acted"
	case errors.Is(err, domain.ErrInvalidState):
		return "invalid-state"
	case errors.Is(err, domain.ErrValidation):
		return "validation-failed"
	}
	return "internal"
}
