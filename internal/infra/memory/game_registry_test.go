package memory

import (
	"testing"
	"time"

	"feud-quiz-service/internal/app"
	"feud-quiz-service/internal/domain"
)

func newSessionAt(code string, createdAt time.Time) *app.Session {
	game := &domain.Game{Code: code}
	return app.NewSessionWithClock(game, func() time.Time { return createdAt })
}

func TestGameRegistryLifecycle(t *testing.T) {
	r := NewGameRegistry()

	sess := newSessionAt("ABC123", time.Now())
	if !r.Register("ABC123", sess) {
		t.Fatal("first register should succeed")
	}
	if r.Register("ABC123", sess) {
		t.Fatal("duplicate code must be rejected")
	}

	got, ok := r.Get("ABC123")
	if !ok || got.Code() != "ABC123" {
		t.Fatalf("get returned %v %v", got, ok)
	}
	if r.Count() != 1 {
		t.Fatalf("expected count 1, got %d", r.Count())
	}

	r.Delete("ABC123")
	if _, ok := r.Get("ABC123"); ok {
		t.Fatal("deleted game still resolvable")
	}
	if r.Count() != 0 {
		t.Fatalf("expected count 0, got %d", r.Count())
	}
}

func TestGameRegistrySweepRemovesExpired(t *testing.T) {
	r := NewGameRegistry()

	r.Register("OLD111", newSessionAt("OLD111", time.Now().Add(-2*time.Hour)))
	r.Register("NEW222", newSessionAt("NEW222", time.Now()))

	if removed := r.Sweep(time.Hour); removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}
	if _, ok := r.Get("OLD111"); ok {
		t.Fatal("expired game survived the sweep")
	}
	if _, ok := r.Get("NEW222"); !ok {
		t.Fatal("fresh game was swept")
	}
}
