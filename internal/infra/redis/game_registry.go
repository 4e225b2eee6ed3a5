package redis

import (
	"context"
	"log"
	"sync"
	"time"

	"feud-quiz-service/internal/app"
	"github.com/redis/go-redis/v9"
)

// GameRegistry is a Redis-aware implementation of app.GameRegistry.
// Notes:
//   - Game sessions stay in a local in-process map so the per-session lock
//     and broadcast wiring keep working unchanged.
//   - Redis marks game liveness (and could be extended to route cross-
//     instance pub/sub); losing a key is harmless because the map is the
//     source of truth.
type GameRegistry struct {
	client *redis.Client
	ttl    time.Duration
	mu     sync.RWMutex
	games  map[string]*app.Session
}

func NewGameRegistry(client *redis.Client, ttl time.Duration) *GameRegistry {
	return &GameRegistry{
		client: client,
		ttl:    ttl,
		games:  make(map[string]*app.Session),
	}
}

func (r *GameRegistry) Register(code string, sess *app.Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.games[code]; ok {
		return false
	}
	r.games[code] = sess
	// best-effort liveness marker
	_ = r.client.Set(context.Background(), r.key(code), "1", r.ttl).Err()
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
	if _, ok := r.games[code]; !ok {
		return
	}
	delete(r.games, code)
	_ = r.client.Del(context.Background(), r.key(code)).Err()
}

func (r *GameRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}

// Sweep removes games older than the retention window.
func (r *GameRegistry) Sweep(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for code, sess := range r.games {
		if sess.CreatedAt().Before(cutoff) {
			delete(r.games, code)
			_ = r.client.Del(context.Background(), r.key(code)).Err()
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

func (r *GameRegistry) key(code string) string {
	return "game:session:" + code
}
