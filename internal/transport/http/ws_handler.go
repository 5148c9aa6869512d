package http

import (
	"encoding/json"
	"log"
	"net/http"

	"learnhub-service/internal/app"
	"learnhub-service/internal/domain"
	"github.com/gorilla/websocket"
)

// WSHandler drives one solo quiz attempt per websocket connection.
type WSHandler struct {
	quizzes  app.QuizRepository
	game     *app.GameService
	rules    app.RewardRules
	upgrader websocket.Upgrader
}

func NewWSHandler(quizzes app.QuizRepository, game *app.GameService, rules app.RewardRules) *WSHandler {
	return &WSHandler{
		quizzes: quizzes,
		game:    game,
		rules:   rules,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type startPayload struct {
	QuizID string `json:"quizId"`
}

type answerPayload struct {
	Index  int      `json:"index"`
	Choice string   `json:"choice,omitempty"`
	Order  []string `json:"order,omitempty"`
}

type answerResult struct {
	Index   int  `json:"index"`
	Correct bool `json:"correct"`
	Awarded int  `json:"awarded"`
}

type questionView struct {
	Index        int                 `json:"index"`
	Total        int                 `json:"total"`
	Kind         domain.QuestionKind `json:"kind"`
	Prompt       string              `json:"prompt"`
	Options      []string            `json:"options,omitempty"`
	Points       int                 `json:"points"`
	TimeLimitSec int                 `json:"timeLimitSec,omitempty"`
	RemainingSec int                 `json:"remainingSec,omitempty"`
}

type completedPayload struct {
	Result  domain.QuizResult `json:"result"`
	Rewards app.RewardOutcome `json:"rewards"`
	Balance int               `json:"balance"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and wires them into the quiz
// session use cases. All outbound traffic funnels through a single writer
// goroutine; session completions (which can fire from the countdown
// goroutine) reach it via a buffered channel so teardown never races a send.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], 16)
	completions := make(chan completedPayload, 4)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	pumpDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(pumpDone)
		for {
			select {
			case payload := <-completions:
				select {
				case send <- outboundMessage[any]{Type: "completed", Payload: payload}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	var session *app.QuizSession
	var quiz domain.Quiz

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "start":
			var payload startPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid start payload"}}
				continue
			}
			loaded, err := h.quizzes.GetQuiz(r.Context(), payload.QuizID)
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			if session != nil {
				session.Exit()
			}
			quiz = loaded
			session = app.NewQuizSession(quiz, func(result domain.QuizResult) {
				outcome := h.rules.Apply(h.game, result)
				// Buffered; a session completes at most once.
				select {
				case completions <- completedPayload{Result: result, Rewards: outcome, Balance: h.game.Balance()}:
				default:
				}
			})
			session.Start()
			if question, ok := session.CurrentQuestion(); ok {
				send <- outboundMessage[any]{Type: "question", Payload: h.questionView(session, quiz, question)}
			}
		case "answer":
			if session == nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: domain.ErrSessionNotStarted.Error()}}
				continue
			}
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}}
				continue
			}
			correct, awarded, err := session.SubmitAnswer(payload.Index, domain.Answer{Choice: payload.Choice, Order: payload.Order})
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			send <- outboundMessage[any]{Type: "answerResult", Payload: answerResult{
				Index:   payload.Index,
				Correct: correct,
				Awarded: awarded,
			}}
		case "advance":
			if session == nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: domain.ErrSessionNotStarted.Error()}}
				continue
			}
			if err := session.Advance(); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			if question, ok := session.CurrentQuestion(); ok {
				send <- outboundMessage[any]{Type: "question", Payload: h.questionView(session, quiz, question)}
			}
		case "pause":
			if session != nil {
				session.Pause()
			}
		case "resume":
			if session != nil {
				session.Resume()
			}
		case "exit":
			if session != nil {
				session.Exit()
				session = nil
				send <- outboundMessage[any]{Type: "exited", Payload: struct{}{}}
			}
		default:
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
	}

	if session != nil && session.State() != app.SessionCompleted {
		// Dropping the connection mid-attempt is an exit: no partial rewards.
		session.Exit()
	}

	close(closeSignals)
	<-pumpDone
	close(send)
	<-writerDone
}

// questionView shapes a question for the client without leaking the correct
// answer.
func (h *WSHandler) questionView(session *app.QuizSession, quiz domain.Quiz, question domain.Question) questionView {
	return questionView{
		Index:        session.CurrentIndex(),
		Total:        len(quiz.Questions),
		Kind:         question.Kind,
		Prompt:       question.Prompt,
		Options:      question.Options,
		Points:       question.Points,
		TimeLimitSec: question.TimeLimitSec,
		RemainingSec: session.Remaining(),
	}
}
