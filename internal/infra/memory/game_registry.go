package memory

import (
	"context"
	"log"
	"sync"
	"time"

	"feud-quiz-service/internal/app"
)

// GameRegistry is an in-memory implementation of app.GameRegistry. The
// registry map is the sole shared mutable resource between handlers; it is
// guarded here, while each session serializes its own mutations.
type GameRegistry struct {
	mu    sync.RWMutex
	games map[string]*app.Session
}

func NewGameRegistry() *GameRegistry {
	return &GameRegistry{
		games: make(map[string]*app.Session),
	}
}

func (r *GameRegistry) Register(code string, sess *app.Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.games[code]; ok {
		return false
	}
	r.games[code] = sess
	return true
}

func (r *GameRegistry) Get(code string) (*app.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.games[code]
	return sess, ok
}

func (r *GameRegistry) Delete(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.games, code)
}

func (r *GameRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}

// Sweep removes games older than the retention window and reports how many
// were dropped.
func (r *GameRegistry) Sweep(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for code, sess := range r.games {
		if sess.CreatedAt().Before(cutoff) {
			delete(r.games, code)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep on a ticker until the context is canceled.
func (r *GameRegistry) StartSweeper(ctx context.Context, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := r.Sweep(maxAge); n > 0 {
					log.Printf("cleaned up %d expired games", n)
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}
