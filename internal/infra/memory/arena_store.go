package memory

import (
	"sync"

	"learnhub-service/internal/app"
	"learnhub-service/internal/domain"
)

// ArenaStore is an in-memory implementation of app.ArenaRepository.
type ArenaStore struct {
	mu     sync.RWMutex
	arenas map[string]*app.Arena
}

func NewArenaStore() *ArenaStore {
	return &ArenaStore{
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
	}
}
