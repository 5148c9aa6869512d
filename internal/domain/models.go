package domain

import "time"

// QuestionKind discriminates the supported question formats. Scoring
// switches exhaustively on it; unknown kinds never score.
type QuestionKind string

const (
	KindMultipleChoice QuestionKind = "multiple-choice"
	KindTrueFalse      QuestionKind = "true-false"
	KindFillBlank      QuestionKind = "fill-blank"
	KindMatching       QuestionKind = "matching"
)

// Question models a single quiz question. CorrectChoice carries the expected
// value for choice-style and fill-blank kinds; CorrectOrder carries the
// expected right-column ordering for matching kinds.
type Question struct {
	ID            string       `json:"id"`
	Kind          QuestionKind `json:"kind"`
	Prompt        string       `json:"prompt"`
	Options       []string     `json:"options,omitempty"`
	CorrectChoice string       `json:"correctChoice,omitempty"`
	CorrectOrder  []string     `json:"correctOrder,omitempty"`
	Points        int          `json:"points"` // defaults to 1 if zero
	TimeLimitSec  int          `json:"timeLimitSec,omitempty"`
}

// Answer is a submitted answer. Choice is read for multiple-choice,
// true-false and fill-blank questions; Order for matching questions.
type Answer struct {
	Choice string   `json:"choice,omitempty"`
	Order  []string `json:"order,omitempty"`
}

// Quiz is an ordered collection of questions with an optional whole-quiz
// time limit in seconds (zero means untimed).
type Quiz struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Questions    []Question `json:"questions"`
	TimeLimitSec int        `json:"timeLimitSec,omitempty"`
}

// QuizResult is the finalized outcome of one quiz attempt.
type QuizResult struct {
	QuizID        string `json:"quizId"`
	Score         int    `json:"score"`
	TotalPossible int    `json:"totalPossible"`
	Percentage    int    `json:"percentage"`
	Answered      int    `json:"answered"`
	Correct       int    `json:"correct"`
}

// MissionPeriod is the reset cadence of a mission.
type MissionPeriod string

const (
	PeriodDaily  MissionPeriod = "daily"
	PeriodWeekly MissionPeriod = "weekly"
)

// MissionStatus tracks the one-way active -> completed -> claimed lifecycle
// within a single period.
type MissionStatus string

const (
	MissionActive    MissionStatus = "active"
	MissionCompleted MissionStatus = "completed"
	MissionClaimed   MissionStatus = "claimed"
)

// Mission is a time-boxed objective with a currency reward. Progress stays
// clamped to [0, Target].
type Mission struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Period      MissionPeriod `json:"period"`
	Reward      int           `json:"reward"`
	Progress    int           `json:"progress"`
	Target      int           `json:"target"`
	Status      MissionStatus `json:"status"`
	ExpiresAt   time.Time     `json:"expiresAt"`
}

// StoreItem is a one-time purchasable unlock gated by the currency balance.
// Owned never reverts once set.
type StoreItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	Category    string `json:"category"`
	Owned       bool   `json:"owned"`
}

// ChatMessage is one turn of the assistant conversation.
type ChatMessage struct {
	Role string `json:"role"` // "user" or "assistant"
	Text string `json:"text"`
}

// Participant represents an arena player (human or simulated) and their
// accumulated score.
type Participant struct {
	UserID      string
	DisplayName string
	Score       int
	Bot         bool
	LastUpdated time.Time
}

// ScoreboardEntry is a snapshot-friendly view of a participant.
type ScoreboardEntry struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Score       int    `json:"score"`
	Bot         bool   `json:"bot"`
}

// Scoreboard captures the ordered standings for an arena match.
type Scoreboard struct {
	ArenaID   string            `json:"arenaId"`
	Entries   []ScoreboardEntry `json:"entries"`
	UpdatedAt time.Time         `json:"updatedAt"`
}
