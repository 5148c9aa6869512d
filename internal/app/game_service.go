package app

import (
	"context"
	"sync"
	"time"

	"learnhub-service/internal/domain"
)

// GameService is the single source of truth for the session's currency
// balance, missions and store items. It is constructed once, handed to the
// transports by reference, and guarded by a mutex because the websocket
// handlers and the mission sweeper touch it from different goroutines.
type GameService struct {
	mu  sync.Mutex
	now func() time.Time

	balance int

	missions     map[string]*domain.Mission
	missionOrder []string

	items     map[string]*domain.StoreItem
	itemOrder []string

	balanceHooks          []func(old, new int)
	missionCompletedHooks []func(domain.Mission)
}

// NewGameService seeds the store with mission and item definitions. Missions
// without an expiry get one computed from their period.
func NewGameService(missions []domain.Mission, items []domain.StoreItem) *GameService {
	return NewGameServiceWithClock(missions, items, time.Now)
}

// NewGameServiceWithClock allows deterministic time in tests.
func NewGameServiceWithClock(missions []domain.Mission, items []domain.StoreItem, now func() time.Time) *GameService {
	s := &GameService{
		now:      now,
		missions: make(map[string]*domain.Mission, len(missions)),
		items:    make(map[string]*domain.StoreItem, len(items)),
	}
	for _, m := range missions {
		mission := m
		if mission.Status == "" {
			mission.Status = domain.MissionActive
		}
		if mission.ExpiresAt.IsZero() {
			mission.ExpiresAt = nextBoundary(mission.Period, now())
		}
		s.missions[mission.ID] = &mission
		s.missionOrder = append(s.missionOrder, mission.ID)
	}
	for _, it := range items {
		item := it
		s.items[item.ID] = &item
		s.itemOrder = append(s.itemOrder, item.ID)
	}
	return s
}

// OnBalanceChange registers a hook invoked at the point of every balance
// mutation. Hooks run synchronously under the service lock; keep them cheap.
func (s *GameService) OnBalanceChange(fn func(old, new int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balanceHooks = append(s.balanceHooks, fn)
}

// OnMissionCompleted registers a hook invoked when a mission reaches its
// target.
func (s *GameService) OnMissionCompleted(fn func(domain.Mission)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.missionCompletedHooks = append(s.missionCompletedHooks, fn)
}

// GrantCurrency adds to the balance unconditionally. Negative amounts are
// ignored.
func (s *GameService) GrantCurrency(amount int) {
	if amount <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grantLocked(amount)
}

func (s *GameService) grantLocked(amount int) {
	old := s.balance
	s.balance += amount
	for _, fn := range s.balanceHooks {
		fn(old, s.balance)
	}
}

// SpendCurrency decrements the balance and reports success. When the balance
// is insufficient it returns false and leaves the balance unchanged; this is
// the sole gate for purchases.
func (s *GameService) SpendCurrency(amount int) bool {
	if amount <= 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spendLocked(amount)
}

func (s *GameService) spendLocked(amount int) bool {
	if s.balance < amount {
		return false
	}
	old := s.balance
	s.balance -= amount
	for _, fn := range s.balanceHooks {
		fn(old, s.balance)
	}
	return true
}

// Balance returns the current currency balance.
func (s *GameService) Balance() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balance
}

// AdvanceMissionProgress increases progress on an active mission, clamped to
// its target. Reaching the target flips the mission to completed. No-op for
// unknown or non-active missions. Calls are not idempotent: callers invoke
// this exactly once per qualifying event.
func (s *GameService) AdvanceMissionProgress(missionID string, delta int) {
	if delta <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	mission, ok := s.missions[missionID]
	if !ok || mission.Status != domain.MissionActive {
		return
	}
	mission.Progress += delta
	if mission.Progress >= mission.Target {
		mission.Progress = mission.Target
		mission.Status = domain.MissionCompleted
		for _, fn := range s.missionCompletedHooks {
			fn(*mission)
		}
	}
}

// ClaimMissionReward grants the reward for a completed mission and marks it
// claimed. The completed -> claimed transition is one-way, so a reward can
// never be granted twice for the same completion.
func (s *GameService) ClaimMissionReward(missionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	mission, ok := s.missions[missionID]
	if !ok || mission.Status != domain.MissionCompleted {
		return false
	}
	mission.Status = domain.MissionClaimed
	s.grantLocked(mission.Reward)
	return true
}

// PurchaseItem attempts to buy a store item. It fails without side effects
// when the item is unknown, already owned, or the balance cannot cover the
// price. Spending and marking ownership happen under one lock acquisition.
func (s *GameService) PurchaseItem(itemID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[itemID]
	if !ok || item.Owned {
		return false
	}
	if !s.spendLocked(item.Price) {
		return false
	}
	item.Owned = true
	return true
}

// Missions returns the missions in definition order.
func (s *GameService) Missions() []domain.Mission {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Mission, 0, len(s.missionOrder))
	for _, id := range s.missionOrder {
		out = append(out, *s.missions[id])
	}
	return out
}

// Items returns the store items in definition order.
func (s *GameService) Items() []domain.StoreItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.StoreItem, 0, len(s.itemOrder))
	for _, id := range s.itemOrder {
		out = append(out, *s.items[id])
	}
	return out
}

// SweepExpired resets every mission whose period has lapsed: progress back to
// zero, status back to active, expiry moved to the next period boundary.
// Completed-but-unclaimed rewards are forfeited with the period.
func (s *GameService) SweepExpired(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, mission := range s.missions {
		if now.Before(mission.ExpiresAt) {
			continue
		}
		mission.Progress = 0
		mission.Status = domain.MissionActive
		mission.ExpiresAt = nextBoundary(mission.Period, now)
	}
}

// StartSweeper runs SweepExpired on the given interval until ctx is done.
func (s *GameService) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.SweepExpired(s.now())
			case <-ctx.Done():
				return
			}
		}
	}()
}

// nextBoundary computes when the current period ends: midnight after now for
// daily missions, the start of the next ISO week (Monday 00:00) for weekly.
func nextBoundary(period domain.MissionPeriod, now time.Time) time.Time {
	year, month, day := now.Date()
	midnight := time.Date(year, month, day, 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	if period != domain.PeriodWeekly {
		return midnight
	}
	// Walk forward to the next Monday midnight.
	for midnight.Weekday() != time.Monday {
		midnight = midnight.AddDate(0, 0, 1)
	}
	return midnight
}
