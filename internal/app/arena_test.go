package app

import (
	"math/rand"
	"testing"
	"time"

	"learnhub-service/internal/domain"
)

func arenaQuiz() domain.Quiz {
	return domain.Quiz{
		ID: "quiz-1",
		Questions: []domain.Question{
			{ID: "q1", Kind: domain.KindMultipleChoice, CorrectChoice: "B", Options: []string{"A", "B"}, Points: 10},
			{ID: "q2", Kind: domain.KindTrueFalse, CorrectChoice: "true", Points: 5},
		},
	}
}

func TestArenaJoinAndScoring(t *testing.T) {
	now := time.Date(2025, time.March, 5, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		now = now.Add(time.Second)
		return now
	}
	arena := NewArenaWithClock("arena-1", arenaQuiz(), clock, rand.New(rand.NewSource(1)))

	arena.Join("u1", "Alice")
	arena.Join("u2", "Bob")

	board, correct, awarded, err := arena.SubmitAnswer("u2", 0, domain.Answer{Choice: "B"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !correct || awarded != 10 {
		t.Fatalf("expected correct answer worth 10, got correct=%v awarded=%d", correct, awarded)
	}
	if len(board.Entries) != 2 || board.Entries[0].UserID != "u2" || board.Entries[0].Score != 10 {
		t.Fatalf("expected Bob leading with 10, got %+v", board.Entries)
	}

	if _, _, _, err := arena.SubmitAnswer("ghost", 0, domain.Answer{Choice: "B"}); err != domain.ErrParticipantNotFound {
		t.Fatalf("expected participant error, got %v", err)
	}
	if _, _, _, err := arena.SubmitAnswer("u1", 9, domain.Answer{}); err != domain.ErrQuestionNotFound {
		t.Fatalf("expected question error, got %v", err)
	}
}

func TestArenaSubscribeReceivesUpdates(t *testing.T) {
	arena := NewArena("arena-1", arenaQuiz())
	arena.Join("u1", "Alice")

	updates, cancel := arena.Subscribe()
	defer cancel()

	<-updates // initial snapshot

	if _, _, _, err := arena.SubmitAnswer("u1", 0, domain.Answer{Choice: "B"}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	update := <-updates
	if len(update.Entries) != 1 || update.Entries[0].Score != 10 {
		t.Fatalf("expected updated score 10, got %+v", update.Entries)
	}
}

func TestArenaBotsScoreTheQuiz(t *testing.T) {
	arena := NewArenaWithClock("arena-1", arenaQuiz(), time.Now, rand.New(rand.NewSource(7)))
	arena.Join("u1", "Alice")

	arena.StartBots(BotConfig{Count: 2, Accuracy: 1.0}) // zero delays, always correct

	deadline := time.Now().Add(2 * time.Second)
	for {
		board := arena.Join("u1", "Alice") // snapshot via refresh
		botsDone := 0
		for _, entry := range board.Entries {
			if entry.Bot && entry.Score == 15 {
				botsDone++
			}
		}
		if botsDone == 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("bots did not finish scoring in time: %+v", board.Entries)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestArenaEmptyIgnoresBots(t *testing.T) {
	arena := NewArena("arena-1", arenaQuiz())
	arena.Join("u1", "Alice")
	arena.StartBots(BotConfig{Count: 1, Accuracy: 0})

	if arena.IsEmpty() {
		t.Fatalf("arena with a human must not be empty")
	}
	arena.Leave("u1")
	if !arena.IsEmpty() {
		t.Fatalf("bots alone must not keep the arena alive")
	}
}
