package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"feud-quiz-service/internal/app"
	"feud-quiz-service/internal/domain"
)

// RESTHandler serves the small JSON API that exists alongside the
// websocket: game creation, the player join handshake and a stats page.
type RESTHandler struct {
	service *app.GameService
}

func NewRESTHandler(service *app.GameService) *RESTHandler {
	return &RESTHandler{service: service}
}

type createGameRequest struct {
	TeamNames app.TeamNames `json:"teamNames"`
}

type createGameResponse struct {
	GameCode string `json:"gameCode"`
	GameID   string `json:"gameId"`
	Success  bool   `json:"success"`
}

type joinGameRequest struct {
	GameCode   string `json:"gameCode"`
	PlayerName string `json:"playerName"`
}

type joinGameResponse struct {
	PlayerID string       `json:"playerId"`
	Game     *domain.Game `json:"game"`
	Success  bool         `json:"success"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Success bool   `json:"success"`
}

type statsResponse struct {
	Message     string `json:"message"`
	Status      string `json:"status"`
	ActiveGames int    `json:"activeGames"`
	Timestamp   string `json:"timestamp"`
}

func (h *RESTHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req createGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	code, gameID, err := h.service.CreateGame(r.Context(), req.TeamNames)
	if err != nil {
		log.Printf("create game failed: %v", err)
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, createGameResponse{GameCode: code, GameID: gameID, Success: true})
}

func (h *RESTHandler) JoinGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req joinGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	player, game, err := h.service.JoinGame(normalizeCode(req.GameCode), req.PlayerName)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, joinGameResponse{PlayerID: player.ID, Game: game, Success: true})
}

func (h *RESTHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statsResponse{
		Message:     "quiz game server is running",
		Status:      "ok",
		ActiveGames: h.service.Stats(),
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrGameNotFound),
		errors.Is(err, domain.ErrPlayerNotFound),
		errors.Is(err, domain.ErrTeamNotFound),
		errors.Is(err, domain.ErrQuestionSetNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidState), errors.Is(err, domain.ErrAlreadyActed):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message, Success: false})
}
