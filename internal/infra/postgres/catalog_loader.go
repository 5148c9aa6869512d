package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"learnhub-service/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// CatalogLoader loads quiz, mission and store-item JSONB from Postgres.
type CatalogLoader struct {
	pool *pgxpool.Pool
}

func NewCatalogLoader(pool *pgxpool.Pool) *CatalogLoader {
	return &CatalogLoader{pool: pool}
}

func (l *CatalogLoader) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM quizzes WHERE id=$1`, quizID).Scan(&raw)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("load quiz: %w", err)
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("unmarshal quiz: %w", err)
	}
	return quiz, nil
}

func (l *CatalogLoader) LoadMissions(ctx context.Context) ([]domain.Mission, error) {
	rows, err := l.pool.Query(ctx, `SELECT data FROM missions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load missions: %w", err)
	}
	defer rows.Close()

	var missions []domain.Mission
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan mission: %w", err)
		}
		var mission domain.Mission
		if err := json.Unmarshal(raw, &mission); err != nil {
			return nil, fmt.Errorf("unmarshal mission: %w", err)
		}
		missions = append(missions, mission)
	}
	return missions, rows.Err()
}

func (l *CatalogLoader) LoadItems(ctx context.Context) ([]domain.StoreItem, error) {
	rows, err := l.pool.Query(ctx, `SELECT data FROM store_items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load store items: %w", err)
	}
	defer rows.Close()

	var items []domain.StoreItem
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan store item: %w", err)
		}
		var item domain.StoreItem
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, fmt.Errorf("unmarshal store item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
