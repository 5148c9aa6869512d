package http

import (
	"encoding/json"
	"log"
	"net/http"

	"learnhub-service/internal/app"
	"learnhub-service/internal/domain"
	"github.com/gorilla/websocket"
)

// ArenaHandler serves the simulated multiplayer mode: one human per
// connection playing against locally simulated opponents on a shared
// scoreboard.
type ArenaHandler struct {
	arenas   app.ArenaRepository
	quizzes  app.QuizRepository
	bots     app.BotConfig
	upgrader websocket.Upgrader
}

func NewArenaHandler(arenas app.ArenaRepository, quizzes app.QuizRepository, bots app.BotConfig) *ArenaHandler {
	return &ArenaHandler{
		arenas:  arenas,
		quizzes: quizzes,
		bots:    bots,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type arenaAnswerResult struct {
	Index   int  `json:"index"`
	Correct bool `json:"correct"`
	Awarded int  `json:"awarded"`
}

// ServeWS joins the caller to an arena and streams scoreboard updates.
func (h *ArenaHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	arenaID := r.URL.Query().Get("arenaId")
	quizID := r.URL.Query().Get("quizId")
	userID := r.URL.Query().Get("userId")
	displayName := r.URL.Query().Get("name")
	if arenaID == "" || quizID == "" || userID == "" || displayName == "" {
		http.Error(w, "missing arenaId, quizId, userId, or name", http.StatusBadRequest)
		return
	}

	quiz, err := h.quizzes.GetQuiz(r.Context(), quizID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	conn, upgradeErr := h.upgrader.Upgrade(w, r, nil)
	if upgradeErr != nil {
		log.Printf("arena ws upgrade failed: %v", upgradeErr)
		return
	}
	defer conn.Close()

	arena := h.arenas.GetOrCreate(arenaID, quiz)
	joined := arena.Join(userID, displayName)
	arena.StartBots(h.bots)

	updates, cancel := arena.Subscribe()
	defer cancel()
	defer func() {
		arena.Leave(userID)
		h.arenas.DeleteIfEmpty(arenaID)
	}()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("arena ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "scoreboard", Payload: update}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "joined", Payload: joined}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}}
				continue
			}
			_, correct, awarded, err := arena.SubmitAnswer(userID, payload.Index, domain.Answer{
				Choice: payload.Choice,
				Order:  payload.Order,
			})
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			send <- outboundMessage[any]{Type: "answerResult", Payload: arenaAnswerResult{
				Index:   payload.Index,
				Correct: correct,
				Awarded: awarded,
			}}
		default:
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}
