package redis

import (
	"testing"
	"time"

	"feud-quiz-service/internal/app"
	"feud-quiz-service/internal/domain"
	miniredis "github.com/alicebob/miniredis/v2"
)

func newSessionAt(code string, createdAt time.Time) *app.Session {
	game := &domain.Game{Code: code}
	return app.NewSessionWithClock(game, func() time.Time { return createdAt })
}

func TestGameRegistryMarksLiveness(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	r := NewGameRegistry(newClient(mr), time.Hour)

	if !r.Register("ABC123", newSessionAt("ABC123", time.Now())) {
		t.Fatal("register should succeed")
	}
	if r.Register("ABC123", newSessionAt("ABC123", time.Now())) {
		t.Fatal("duplicate code must be rejected")
	}
	if !mr.Exists("game:session:ABC123") {
		t.Fatal("expected liveness key in redis")
	}

	if _, ok := r.Get("ABC123"); !ok {
		t.Fatal("get should resolve a registered game")
	}
	if r.Count() != 1 {
		t.Fatalf("expected count 1, got %d", r.Count())
	}

	r.Delete("ABC123")
	if mr.Exists("game:session:ABC123") {
		t.Fatal("delete must remove the liveness key")
	}
}

func TestGameRegistrySweep(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	r := NewGameRegistry(newClient(mr), time.Hour)
	r.Register("OLD111", newSessionAt("OLD111", time.Now().Add(-2*time.Hour)))
	r.Register("NEW222", newSessionAt("NEW222", time.Now()))

	if removed := r.Sweep(time.Hour); removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}
	if _, ok := r.Get("OLD111"); ok {
		t.Fatal("expired game survived the sweep")
	}
	if mr.Exists("game:session:OLD111") {
		t.Fatal("sweep must drop the liveness key")
	}
	if _, ok := r.Get("NEW222"); !ok {
		t.Fatal("fresh game was swept")
	}
}
