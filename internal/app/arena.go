package app

import (
	"math/rand"
	"sort"
	"strconv"
	"sync"
	"time"

	"learnhub-service/internal/domain"
)

// BotConfig controls the simulated opponents in an arena match. Opponents
// are local: they answer on random delays with a fixed accuracy. There is no
// networking between players.
type BotConfig struct {
	Count    int
	Accuracy float64 // probability a bot answers correctly, in [0, 1]
	MinDelay time.Duration
	MaxDelay time.Duration
	Names    []string
}

// Arena holds the scoreboard for one simulated multiplayer match: the human
// player plus bot participants, with subscriber fan-out for live updates.
type Arena struct {
	id   string
	quiz domain.Quiz
	now  func() time.Time
	rnd  *rand.Rand

	mu           sync.RWMutex
	participants map[string]*domain.Participant
	subscribers  map[chan domain.Scoreboard]struct{}
	botsStarted  bool
}

// NewArena creates an arena for the given quiz.
func NewArena(id string, quiz domain.Quiz) *Arena {
	return NewArenaWithClock(id, quiz, time.Now, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewArenaWithClock is test-only for deterministic timestamps and bot rolls.
func NewArenaWithClock(id string, quiz domain.Quiz, now func() time.Time, rnd *rand.Rand) *Arena {
	return &Arena{
		id:           id,
		quiz:         quiz,
		now:          now,
		rnd:          rnd,
		participants: make(map[string]*domain.Participant),
		subscribers:  make(map[chan domain.Scoreboard]struct{}),
	}
}

// Quiz returns the quiz this arena plays.
func (a *Arena) Quiz() domain.Quiz {
	return a.quiz
}

// Join registers or refreshes a participant and returns the standings.
func (a *Arena) Join(userID, displayName string) domain.Scoreboard {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()
	if participant, ok := a.participants[userID]; ok {
		participant.DisplayName = displayName
		participant.LastUpdated = now
	} else {
		a.participants[userID] = &domain.Participant{
			UserID:      userID,
			DisplayName: displayName,
			LastUpdated: now,
		}
	}
	return a.broadcastLocked()
}

// SubmitAnswer scores the participant's answer for the question at index
// against the arena's quiz and updates the standings.
func (a *Arena) SubmitAnswer(userID string, index int, answer domain.Answer) (domain.Scoreboard, bool, int, error) {
	if index < 0 || index >= len(a.quiz.Questions) {
		return domain.Scoreboard{}, false, 0, domain.ErrQuestionNotFound
	}
	question := a.quiz.Questions[index]
	correct := evaluate(question, answer)
	awarded := 0
	if correct {
		awarded = questionPoints(question)
	}
	board, err := a.applyScore(userID, awarded)
	return board, correct, awarded, err
}

func (a *Arena) applyScore(userID string, awarded int) (domain.Scoreboard, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	participant, ok := a.participants[userID]
	if !ok {
		return domain.Scoreboard{}, domain.ErrParticipantNotFound
	}
	participant.Score += awarded
	participant.LastUpdated = a.now()
	return a.broadcastLocked(), nil
}

// Leave removes a participant from the arena.
func (a *Arena) Leave(userID string) domain.Scoreboard {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.participants, userID)
	return a.broadcastLocked()
}

// IsEmpty reports whether no human participants remain. Bots alone do not
// keep an arena alive.
func (a *Arena) IsEmpty() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, p := range a.participants {
		if !p.Bot {
			return false
		}
	}
	return true
}

// StartBots seeds the simulated opponents and sets them answering the quiz
// question by question on randomized delays. Safe to call once per arena;
// later calls are no-ops.
func (a *Arena) StartBots(cfg BotConfig) {
	a.mu.Lock()
	if a.botsStarted || cfg.Count <= 0 {
		a.mu.Unlock()
		return
	}
	a.botsStarted = true

	now := a.now()
	bots := make([]string, 0, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		id := botID(i)
		name := botName(cfg.Names, i)
		a.participants[id] = &domain.Participant{
			UserID:      id,
			DisplayName: name,
			Bot:         true,
			LastUpdated: now,
		}
		bots = append(bots, id)
	}
	a.broadcastLocked()
	a.mu.Unlock()

	for _, id := range bots {
		go a.runBot(id, cfg)
	}
}

func (a *Arena) runBot(botID string, cfg BotConfig) {
	for _, question := range a.quiz.Questions {
		time.Sleep(a.botDelay(cfg))

		a.mu.Lock()
		if _, ok := a.participants[botID]; !ok {
			a.mu.Unlock()
			return
		}
		correct := a.rnd.Float64() < cfg.Accuracy
		a.mu.Unlock()

		awarded := 0
		if correct {
			awarded = questionPoints(question)
		}
		if _, err := a.applyScore(botID, awarded); err != nil {
			return
		}
	}
}

func (a *Arena) botDelay(cfg BotConfig) time.Duration {
	if cfg.MaxDelay <= cfg.MinDelay {
		return cfg.MinDelay
	}
	a.mu.Lock()
	jitter := time.Duration(a.rnd.Int63n(int64(cfg.MaxDelay - cfg.MinDelay)))
	a.mu.Unlock()
	return cfg.MinDelay + jitter
}

// Subscribe returns a channel that receives scoreboard updates. The caller
// must invoke the returned cancel function to avoid leaks.
func (a *Arena) Subscribe() (<-chan domain.Scoreboard, func()) {
	ch := make(chan domain.Scoreboard, 8)

	a.mu.Lock()
	a.subscribers[ch] = struct{}{}
	initial := a.snapshotLocked()
	a.mu.Unlock()

	ch <- initial

	cancel := func() {
		a.mu.Lock()
		if _, ok := a.subscribers[ch]; ok {
			delete(a.subscribers, ch)
			close(ch)
		}
		a.mu.Unlock()
	}
	return ch, cancel
}

func (a *Arena) broadcastLocked() domain.Scoreboard {
	board := a.snapshotLocked()
	for ch := range a.subscribers {
		select {
		case ch <- board:
		default:
			// Drop the stale update so a slow subscriber cannot block the
			// broadcast.
			select {
			case <-ch:
			default:
			}
			ch <- board
		}
	}
	return board
}

func (a *Arena) snapshotLocked() domain.Scoreboard {
	entries := make([]domain.ScoreboardEntry, 0, len(a.participants))
	for _, participant := range a.participants {
		entries = append(entries, domain.ScoreboardEntry{
			UserID:      participant.UserID,
			DisplayName: participant.DisplayName,
			Score:       participant.Score,
			Bot:         participant.Bot,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		// Tie-break by who reached the score earlier, then name.
		pi := a.participants[entries[i].UserID]
		pj := a.participants[entries[j].UserID]
		if pi != nil && pj != nil && !pi.LastUpdated.Equal(pj.LastUpdated) {
			return pi.LastUpdated.Before(pj.LastUpdated)
		}
		return entries[i].DisplayName < entries[j].DisplayName
	})

	return domain.Scoreboard{
		ArenaID:   a.id,
		Entries:   entries,
		UpdatedAt: a.now(),
	}
}

func botID(i int) string {
	return "bot-" + strconv.Itoa(i+1)
}

func botName(names []string, i int) string {
	if i < len(names) {
		return names[i]
	}
	defaults := []string{"Nova", "Pixel", "Echo", "Sage", "Comet", "Rune"}
	return defaults[i%len(defaults)]
}
