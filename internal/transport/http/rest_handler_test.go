package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"feud-quiz-service/internal/app"
	"feud-quiz-service/internal/domain"
	"feud-quiz-service/internal/infra/memory"
)

func newRESTServer(t *testing.T) *httptest.Server {
	t.Helper()
	registry := memory.NewGameRegistry()
	repo := memory.NewQuestionRepository(memory.NewStaticQuestionLoader(map[string][]domain.Question{
		"set-1": sampleBank(),
	}), time.Minute)
	service := app.NewGameService(registry, repo, "set-1", app.DefaultTiming())

	rest := NewRESTHandler(service)
	mux := http.NewServeMux()
	mux.HandleFunc("/api/create-game", rest.CreateGame)
	mux.HandleFunc("/api/join-game", rest.JoinGame)
	mux.HandleFunc("/", rest.Stats)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestCreateAndJoinGame(t *testing.T) {
	server := newRESTServer(t)

	resp := postJSON(t, server.URL+"/api/create-game", map[string]any{
		"teamNames": map[string]string{"team1": "Red", "team2": "Blue"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create status %d", resp.StatusCode)
	}
	var created struct {
		GameCode string `json:"gameCode"`
		GameID   string `json:"gameId"`
		Success  bool   `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create: %v", err)
	}
	if !created.Success || len(created.GameCode) != 6 || created.GameID == "" {
		t.Fatalf("unexpected create response: %+v", created)
	}

	resp = postJSON(t, server.URL+"/api/join-game", map[string]any{
		"gameCode":   created.GameCode,
		"playerName": "Alice",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("join status %d", resp.StatusCode)
	}
	var joined struct {
		PlayerID string       `json:"playerId"`
		Game     *domain.Game `json:"game"`
		Success  bool         `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&joined); err != nil {
		t.Fatalf("decode join: %v", err)
	}
	if !joined.Success || joined.PlayerID == "" {
		t.Fatalf("unexpected join response: %+v", joined)
	}
	if joined.Game == nil || len(joined.Game.Players) != 1 {
		t.Fatalf("expected the roster in the join response, got %+v", joined.Game)
	}

	// Codes are case-insensitive on the wire.
	resp = postJSON(t, server.URL+"/api/join-game", map[string]any{
		"gameCode":   "  " + strings.ToLower(created.GameCode) + " ",
		"playerName": "Bob",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("lowercase join status %d", resp.StatusCode)
	}
}

func TestJoinGameErrors(t *testing.T) {
	server := newRESTServer(t)

	resp := postJSON(t, server.URL+"/api/join-game", map[string]any{
		"gameCode":   "ZZZZZZ",
		"playerName": "Alice",
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown code, got %d", resp.StatusCode)
	}

	created := struct {
		GameCode string `json:"gameCode"`
	}{}
	resp = postJSON(t, server.URL+"/api/create-game", map[string]any{})
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create: %v", err)
	}

	resp = postJSON(t, server.URL+"/api/join-game", map[string]any{
		"gameCode":   created.GameCode,
		"playerName": "A",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for a short name, got %d", resp.StatusCode)
	}
}

func TestStatsEndpoint(t *testing.T) {
	server := newRESTServer(t)

	postJSON(t, server.URL+"/api/create-game", map[string]any{})

	resp, err := http.Get(server.URL + "/")
	if err != nil {
		t.Fatalf("get stats: %v", err)
	}
	defer resp.Body.Close()

	var stats struct {
		Status      string `json:"status"`
		ActiveGames int    `json:"activeGames"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.Status != "ok" || stats.ActiveGames != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}
