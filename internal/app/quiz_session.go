package app

import (
	"math"
	"strings"
	"sync"
	"time"

	"learnhub-service/internal/domain"
)

// SessionState is the lifecycle of a quiz attempt.
type SessionState int

const (
	SessionNotStarted SessionState = iota
	SessionInProgress
	SessionCompleted
)

type recordedAnswer struct {
	Correct       bool
	PointsAwarded int
}

// QuizSession drives a single quiz attempt from the first question to a
// final score. It knows nothing about rewards; on completion it reports the
// result through one callback and the orchestrating caller takes it from
// there.
type QuizSession struct {
	mu         sync.Mutex
	quiz       domain.Quiz
	state      SessionState
	current    int
	answers    []*recordedAnswer
	remaining  int // seconds left on the whole-quiz countdown, 0 when untimed
	paused     bool
	exited     bool
	result     domain.QuizResult
	done       chan struct{}
	onComplete func(domain.QuizResult)
}

// NewQuizSession creates a session in the NotStarted state. onComplete may
// be nil; it fires exactly once, and never on the exit path.
func NewQuizSession(quiz domain.Quiz, onComplete func(domain.QuizResult)) *QuizSession {
	return &QuizSession{
		quiz:       quiz,
		answers:    make([]*recordedAnswer, len(quiz.Questions)),
		done:       make(chan struct{}),
		onComplete: onComplete,
	}
}

// Start moves the session to InProgress and begins the countdown when the
// quiz carries a time limit. An empty question set completes immediately
// with a zero total.
func (s *QuizSession) Start() {
	s.mu.Lock()
	if s.state != SessionNotStarted {
		s.mu.Unlock()
		return
	}
	if len(s.quiz.Questions) == 0 {
		result, fire := s.finalizeLocked()
		s.mu.Unlock()
		if fire && s.onComplete != nil {
			s.onComplete(result)
		}
		return
	}
	s.state = SessionInProgress
	s.remaining = s.quiz.TimeLimitSec
	timed := s.remaining > 0
	s.mu.Unlock()

	if timed {
		go s.runCountdown()
	}
}

func (s *QuizSession) runCountdown() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if s.tick() {
				return
			}
		case <-s.done:
			return
		}
	}
}

// tick advances the countdown by one second and reports whether the session
// is finished. Split out so tests can drive time deterministically.
func (s *QuizSession) tick() bool {
	s.mu.Lock()
	if s.state != SessionInProgress {
		s.mu.Unlock()
		return true
	}
	if s.paused {
		s.mu.Unlock()
		return false
	}
	s.remaining--
	if s.remaining > 0 {
		s.mu.Unlock()
		return false
	}
	result, fire := s.finalizeLocked()
	s.mu.Unlock()
	if fire && s.onComplete != nil {
		s.onComplete(result)
	}
	return true
}

// SubmitAnswer records the answer for the question at index. Each question
// accepts exactly one submission.
func (s *QuizSession) SubmitAnswer(index int, answer domain.Answer) (bool, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case SessionNotStarted:
		return false, 0, domain.ErrSessionNotStarted
	case SessionCompleted:
		return false, 0, domain.ErrSessionFinished
	}
	if index < 0 || index >= len(s.quiz.Questions) {
		return false, 0, domain.ErrQuestionNotFound
	}
	if s.answers[index] != nil {
		return false, 0, domain.ErrAlreadyAnswered
	}

	question := s.quiz.Questions[index]
	correct := evaluate(question, answer)
	awarded := 0
	if correct {
		awarded = questionPoints(question)
	}
	s.answers[index] = &recordedAnswer{Correct: correct, PointsAwarded: awarded}
	return correct, awarded, nil
}

// Advance moves to the next question, or finalizes the attempt when the
// cursor is on the last one.
func (s *QuizSession) Advance() error {
	s.mu.Lock()
	switch s.state {
	case SessionNotStarted:
		s.mu.Unlock()
		return domain.ErrSessionNotStarted
	case SessionCompleted:
		s.mu.Unlock()
		return domain.ErrSessionFinished
	}
	if s.current < len(s.quiz.Questions)-1 {
		s.current++
		s.mu.Unlock()
		return nil
	}
	result, fire := s.finalizeLocked()
	s.mu.Unlock()
	if fire && s.onComplete != nil {
		s.onComplete(result)
	}
	return nil
}

// Complete force-finalizes the attempt (the timeout path); unanswered
// questions contribute zero.
func (s *QuizSession) Complete() {
	s.mu.Lock()
	if s.state == SessionCompleted {
		s.mu.Unlock()
		return
	}
	result, fire := s.finalizeLocked()
	s.mu.Unlock()
	if fire && s.onComplete != nil {
		s.onComplete(result)
	}
}

// Exit abandons the attempt: timers stop, state is discarded, and the
// completion callback never fires. No partial rewards.
func (s *QuizSession) Exit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == SessionCompleted {
		return
	}
	s.exited = true
	s.state = SessionCompleted
	close(s.done)
}

// Pause freezes the countdown without touching the cursor or answers.
func (s *QuizSession) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == SessionInProgress {
		s.paused = true
	}
}

// Resume unfreezes the countdown.
func (s *QuizSession) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == SessionInProgress {
		s.paused = false
	}
}

// State returns the current lifecycle state.
func (s *QuizSession) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CurrentIndex returns the question cursor.
func (s *QuizSession) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// CurrentQuestion returns the question under the cursor.
func (s *QuizSession) CurrentQuestion() (domain.Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != SessionInProgress || s.current >= len(s.quiz.Questions) {
		return domain.Question{}, false
	}
	return s.quiz.Questions[s.current], true
}

// Remaining returns the seconds left on the whole-quiz countdown.
func (s *QuizSession) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining
}

// Result returns the finalized result. Valid only after completion; the
// exit path leaves a zero result.
func (s *QuizSession) Result() domain.QuizResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// finalizeLocked computes the totals and marks the session completed. It
// reports whether the caller should fire the completion callback, which must
// happen after the lock is released.
func (s *QuizSession) finalizeLocked() (domain.QuizResult, bool) {
	if s.state == SessionCompleted {
		return s.result, false
	}
	s.state = SessionCompleted
	select {
	case <-s.done:
	default:
		close(s.done)
	}

	result := domain.QuizResult{QuizID: s.quiz.ID}
	for i, question := range s.quiz.Questions {
		result.TotalPossible += questionPoints(question)
		if answer := s.answers[i]; answer != nil {
			result.Answered++
			result.Score += answer.PointsAwarded
			if answer.Correct {
				result.Correct++
			}
		}
	}
	if result.TotalPossible > 0 {
		result.Percentage = int(math.Round(100 * float64(result.Score) / float64(result.TotalPossible)))
	}
	s.result = result
	return result, true
}

// evaluate checks a submission against the question by structural equality.
// Matching questions require order-sensitive equality, never set equality.
func evaluate(question domain.Question, answer domain.Answer) bool {
	switch question.Kind {
	case domain.KindMultipleChoice, domain.KindTrueFalse:
		return answer.Choice == question.CorrectChoice
	case domain.KindFillBlank:
		return strings.EqualFold(strings.TrimSpace(answer.Choice), strings.TrimSpace(question.CorrectChoice))
	case domain.KindMatching:
		if len(answer.Order) != len(question.CorrectOrder) {
			return false
		}
		for i := range answer.Order {
			if answer.Order[i] != question.CorrectOrder[i] {
				return false
			}
		}
		return true
	}
	return false
}

func questionPoints(question domain.Question) int {
	if question.Points > 0 {
		return question.Points
	}
	return 1
}
