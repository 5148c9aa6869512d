package memory

import (
	"testing"

	"learnhub-service/internal/domain"
)

func TestArenaStoreLifecycle(t *testing.T) {
	store := NewArenaStore()

	arena := store.GetOrCreate("arena-1", domain.Quiz{ID: "quiz-1"})
	if arena == nil {
		t.Fatalf("expected arena")
	}
	if _, ok := store.Get("arena-1"); !ok {
		t.Fatalf("expected arena present")
	}

	store.DeleteIfEmpty("arena-1")
	if _, ok := store.Get("arena-1"); ok {
		t.Fatalf("expected arena removed when empty")
	}
}
