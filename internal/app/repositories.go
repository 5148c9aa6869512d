package app

import (
	"context"

	"learnhub-service/internal/domain"
)

// QuizRepository loads quiz content (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// CatalogRepository additionally serves the gamification definitions used to
// seed the game service at startup.
type CatalogRepository interface {
	QuizRepository
	ListMissions(ctx context.Context) ([]domain.Mission, error)
	ListItems(ctx context.Context) ([]domain.StoreItem, error)
}

// ArenaRepository abstracts how arena matches are stored (in-memory, with an
// optional Redis liveness marker).
type ArenaRepository interface {
	GetOrCreate(arenaID string, quiz domain.Quiz) *Arena
	Get(arenaID string) (*Arena, bool)
	DeleteIfEmpty(arenaID string)
}
