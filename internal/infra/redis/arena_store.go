package redis

import (
	"context"
	"sync"
	"time"

	"learnhub-service/internal/app"
	"learnhub-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// ArenaStore is a Redis-aware implementation of app.ArenaRepository.
// Notes:
//   - It keeps a local in-memory map of arenas to reuse the in-process
//     broadcast and bot logic.
//   - Redis marks arena liveness so dashboards (or future cross-instance
//     routing) can see which matches exist.
type ArenaStore struct {
	client *redis.Client
	ttl    time.Duration
	mu     sync.RWMutex
	arenas map[string]*app.Arena
}

func NewArenaStore(client *redis.Client, ttl time.Duration) *ArenaStore {
	return &ArenaStore{
		client: client,
		ttl:    ttl,
		arenas: make(map[string]*app.Arena),
	}
}

func (s *ArenaStore) GetOrCreate(arenaID string, quiz domain.Quiz) *app.Arena {
	s.mu.Lock()
	defer s.mu.Unlock()
	if arena, ok := s.arenas[arenaID]; ok {
		return arena
	}
	arena := app.NewArena(arenaID, quiz)
	s.arenas[arenaID] = arena
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(arenaID), "1", s.ttl).Err()
	return arena
}

func (s *ArenaStore) Get(arenaID string) (*app.Arena, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	arena, ok := s.arenas[arenaID]
	return arena, ok
}

func (s *ArenaStore) DeleteIfEmpty(arenaID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	arena, ok := s.arenas[arenaID]
	if !ok {
		return
	}
	if arena.IsEmpty() {
		delete(s.arenas, arenaID)
		_ = s.client.Del(context.Background(), s.key(arenaID)).Err()
	}
}

func (s *ArenaStore) key(arenaID string) string {
	return "arena:live:" + arenaID
}
