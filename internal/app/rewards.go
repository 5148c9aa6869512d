package app

import "learnhub-service/internal/domain"

// RewardRules is the orchestrating caller between the quiz session engine
// and the game service. The engine stays free of gamification concerns; the
// transport hands finalized results here.
type RewardRules struct {
	CompletionMissionID string
	PerfectMissionID    string
	StreakMissionID     string
	CompletionBonus     int
}

// RewardOutcome summarizes what a completion earned, for the client payload.
type RewardOutcome struct {
	MissionsAdvanced []string `json:"missionsAdvanced"`
	BonusGranted     int      `json:"bonusGranted"`
}

// Apply grants quiz-completion rewards in a fixed order: the completion
// mission first, the perfect-score mission only on a 100% result, the
// correct-answer streak mission, then the flat bonus. The order keeps reward
// application reproducible across call sites.
func (r RewardRules) Apply(game *GameService, result domain.QuizResult) RewardOutcome {
	outcome := RewardOutcome{}
	if game == nil {
		return outcome
	}
	if r.CompletionMissionID != "" {
		game.AdvanceMissionProgress(r.CompletionMissionID, 1)
		outcome.MissionsAdvanced = append(outcome.MissionsAdvanced, r.CompletionMissionID)
	}
	if r.PerfectMissionID != "" && result.Percentage == 100 && result.TotalPossible > 0 {
		game.AdvanceMissionProgress(r.PerfectMissionID, 1)
		outcome.MissionsAdvanced = append(outcome.MissionsAdvanced, r.PerfectMissionID)
	}
	if r.StreakMissionID != "" && result.Correct > 0 {
		game.AdvanceMissionProgress(r.StreakMissionID, result.Correct)
		outcome.MissionsAdvanced = append(outcome.MissionsAdvanced, r.StreakMissionID)
	}
	if r.CompletionBonus > 0 {
		game.GrantCurrency(r.CompletionBonus)
		outcome.BonusGranted = r.CompletionBonus
	}
	return outcome
}
