package cli

import "learnhub-service/internal/domain"

const (
	missionIDComplete = "daily-complete-quiz"
	missionIDPerfect  = "weekly-perfect-score"
	missionIDStreak   = "daily-answer-streak"
)

// sampleQuizzes provides a minimal catalog; swap the static loader for the
// Postgres-backed one in production.
func sampleQuizzes() map[string]domain.Quiz {
	return map[string]domain.Quiz{
		"go-basics": {
			ID:           "go-basics",
			Title:        "Go Basics",
			TimeLimitSec: 120,
			Questions: []domain.Question{
				{
					ID:            "q1",
					Kind:          domain.KindMultipleChoice,
					Prompt:        "Which keyword declares a new variable with inferred type?",
					Options:       []string{"var", ":=", "let", "def"},
					CorrectChoice: ":=",
					Points:        10,
					TimeLimitSec:  30,
				},
				{
					ID:            "q2",
					Kind:          domain.KindTrueFalse,
					Prompt:        "A nil map can be written to without panicking.",
					Options:       []string{"true", "false"},
					CorrectChoice: "false",
					Points:        5,
				},
				{
					ID:            "q3",
					Kind:          domain.KindFillBlank,
					Prompt:        "The built-in that returns the number of elements in a slice is ____.",
					CorrectChoice: "len",
					Points:        10,
				},
				{
					ID:           "q4",
					Kind:         domain.KindMatching,
					Prompt:       "Order the stages: match each keyword to its slot.",
					Options:      []string{"package", "import", "func"},
					CorrectOrder: []string{"package", "import", "func"},
					Points:       15,
				},
			},
		},
		"world-capitals": {
			ID:    "world-capitals",
			Title: "World Capitals",
			Questions: []domain.Question{
				{
					ID:            "q1",
					Kind:          domain.KindMultipleChoice,
					Prompt:        "What is the capital of Japan?",
					Options:       []string{"Osaka", "Tokyo", "Kyoto"},
					CorrectChoice: "Tokyo",
					Points:        10,
				},
				{
					ID:            "q2",
					Kind:          domain.KindFillBlank,
					Prompt:        "The capital of France is ____.",
					CorrectChoice: "Paris",
					Points:        10,
				},
			},
		},
	}
}

func sampleMissions() []domain.Mission {
	return []domain.Mission{
		{
			ID:          missionIDComplete,
			Title:       "Daily Learner",
			Description: "Complete 3 quizzes today",
			Period:      domain.PeriodDaily,
			Reward:      50,
			Target:      3,
		},
		{
			ID:          missionIDStreak,
			Title:       "Sharp Mind",
			Description: "Answer 10 questions correctly today",
			Period:      domain.PeriodDaily,
			Reward:      30,
			Target:      10,
		},
		{
			ID:          missionIDPerfect,
			Title:       "Perfectionist",
			Description: "Finish a quiz with a perfect score this week",
			Period:      domain.PeriodWeekly,
			Reward:      150,
			Target:      1,
		},
	}
}

func sampleStoreItems() []domain.StoreItem {
	return []domain.StoreItem{
		{ID: "avatar-astronaut", Name: "Astronaut Avatar", Description: "A spacefaring profile look", Price: 200, Category: "avatar"},
		{ID: "theme-midnight", Name: "Midnight Theme", Description: "Dark UI theme", Price: 150, Category: "theme"},
		{ID: "badge-founder", Name: "Founder Badge", Description: "Show you were here early", Price: 500, Category: "badge"},
	}
}
