package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"learnhub-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// CatalogLoader fetches content from a backing store (e.g., Postgres).
type CatalogLoader interface {
	LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
	LoadMissions(ctx context.Context) ([]domain.Mission, error)
	LoadItems(ctx context.Context) ([]domain.StoreItem, error)
}

// CatalogRepository caches quizzes with TTL to avoid repeated backing-store
// hits. Mission and item definitions are read once at startup and passed
// through uncached.
type CatalogRepository struct {
	loader CatalogLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedQuiz
}

type cachedQuiz struct {
	quiz      domain.Quiz
	expiresAt time.Time
}

func NewCatalogRepository(loader CatalogLoader, ttl time.Duration) *CatalogRepository {
	return &CatalogRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedQuiz),
	}
}

func (r *CatalogRepository) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	now := r.clock()

	r.mu.RLock()
	if entry, ok := r.cache[quizID]; ok && entry.expiresAt.After(now) {
		r.mu.RUnlock()
		return entry.quiz, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(quizID, func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.cache[quizID]; ok && entry.expiresAt.After(now) {
			r.mu.RUnlock()
			return entry.quiz, nil
		}
		r.mu.RUnlock()

		quiz, err := r.loader.LoadQuiz(ctx, quizID)
		if err != nil {
			return domain.Quiz{}, err
		}

		r.mu.Lock()
		r.cache[quizID] = cachedQuiz{
			quiz:      quiz,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

func (r *CatalogRepository) ListMissions(ctx context.Context) ([]domain.Mission, error) {
	return r.loader.LoadMissions(ctx)
}

func (r *CatalogRepository) ListItems(ctx context.Context) ([]domain.StoreItem, error) {
	return r.loader.LoadItems(ctx)
}

func (r *CatalogRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticCatalog is a loader backed by in-memory content (useful for demos
// and tests, and the default when no Postgres is configured).
type StaticCatalog struct {
	quizzes  map[string]domain.Quiz
	missions []domain.Mission
	items    []domain.StoreItem
}

func NewStaticCatalog(quizzes map[string]domain.Quiz, missions []domain.Mission, items []domain.StoreItem) *StaticCatalog {
	return &StaticCatalog{quizzes: quizzes, missions: missions, items: items}
}

func (l *StaticCatalog) LoadQuiz(_ context.Context, quizID string) (domain.Quiz, error) {
	if quiz, ok := l.quizzes[quizID]; ok {
		return quiz, nil
	}
	return domain.Quiz{}, domain.ErrQuizNotFound
}

func (l *StaticCatalog) LoadMissions(_ context.Context) ([]domain.Mission, error) {
	return append([]domain.Mission(nil), l.missions...), nil
}

func (l *StaticCatalog) LoadItems(_ context.Context) ([]domain.StoreItem, error) {
	return append([]domain.StoreItem(nil), l.items...), nil
}
