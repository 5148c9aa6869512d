package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"learnhub-service/internal/app"
	"learnhub-service/internal/domain"
	"learnhub-service/internal/infra/memory"
	"github.com/gorilla/websocket"
)

func TestWebSocketQuizFlow(t *testing.T) {
	catalog := memory.NewCatalogRepository(memory.NewStaticCatalog(sampleQuizzes(), nil, nil), time.Minute)
	game := app.NewGameService([]domain.Mission{
		{ID: "m-complete", Period: domain.PeriodDaily, Reward: 50, Target: 3},
		{ID: "m-perfect", Period: domain.PeriodWeekly, Reward: 150, Target: 1},
	}, nil)
	rules := app.RewardRules{
		CompletionMissionID: "m-complete",
		PerfectMissionID:    "m-perfect",
		CompletionBonus:     25,
	}
	wsHandler := NewWSHandler(catalog, game, rules)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/quiz", wsHandler.ServeWS)
	server := httptest.NewServer(mux)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws/quiz"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	writeMsg(conn, t, "start", map[string]any{"quizId": "quiz-1"})

	msgType, payload := readNext(conn, t, "question")
	if msgType != "question" {
		t.Fatalf("expected question, got %s", msgType)
	}
	if payload["prompt"] == "" {
		t.Fatalf("expected question prompt, got %v", payload)
	}
	if _, leaked := payload["correctChoice"]; leaked {
		t.Fatalf("question payload must not carry the correct answer")
	}

	// Answer both questions correctly and advance through to completion.
	writeMsg(conn, t, "answer", map[string]any{"index": 0, "choice": "B"})
	readNext(conn, t, "answerResult")
	writeMsg(conn, t, "advance", nil)
	readNext(conn, t, "question")

	writeMsg(conn, t, "answer", map[string]any{"index": 1, "choice": "true"})
	readNext(conn, t, "answerResult")
	writeMsg(conn, t, "advance", nil)

	_, completed := readNext(conn, t, "completed")
	result, ok := completed["result"].(map[string]any)
	if !ok {
		t.Fatalf("expected result in completed payload, got %v", completed)
	}
	if result["percentage"].(float64) != 100 {
		t.Fatalf("expected perfect score, got %v", result)
	}
	if completed["balance"].(float64) != 25 {
		t.Fatalf("expected completion bonus in balance, got %v", completed["balance"])
	}

	// Both missions advanced: completion and perfect score.
	advanced := 0
	for _, m := range game.Missions() {
		if m.Progress > 0 {
			advanced++
		}
	}
	if advanced != 2 {
		t.Fatalf("expected both missions advanced, got %d", advanced)
	}
}

func TestWebSocketRejectsDoubleAnswer(t *testing.T) {
	catalog := memory.NewCatalogRepository(memory.NewStaticCatalog(sampleQuizzes(), nil, nil), time.Minute)
	game := app.NewGameService(nil, nil)
	wsHandler := NewWSHandler(catalog, game, app.RewardRules{})

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/quiz", wsHandler.ServeWS)
	server := httptest.NewServer(mux)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws/quiz"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	writeMsg(conn, t, "start", map[string]any{"quizId": "quiz-1"})
	readNext(conn, t, "question")

	writeMsg(conn, t, "answer", map[string]any{"index": 0, "choice": "A"})
	readNext(conn, t, "answerResult")
	writeMsg(conn, t, "answer", map[string]any{"index": 0, "choice": "B"})

	msgType, payload := readNext(conn, t, "error")
	if msgType != "error" || payload["message"] != domain.ErrAlreadyAnswered.Error() {
		t.Fatalf("expected already-answered error, got %s %v", msgType, payload)
	}
}

func writeMsg(conn *websocket.Conn, t *testing.T, msgType string, payload map[string]any) {
	t.Helper()
	msg := map[string]any{"type": msgType}
	if payload != nil {
		msg["payload"] = payload
	} else {
		msg["payload"] = map[string]any{}
	}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write %s: %v", msgType, err)
	}
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s", expect, msg.Type)
	}
	return msg.Type, msg.Payload
}

func sampleQuizzes() map[string]domain.Quiz {
	return map[string]domain.Quiz{
		"quiz-1": {
			ID: "quiz-1",
			Questions: []domain.Question{
				{
					ID:            "q1",
					Kind:          domain.KindMultipleChoice,
					Prompt:        "Pick B",
					Options:       []string{"A", "B"},
					CorrectChoice: "B",
					Points:        10,
				},
				{
					ID:            "q2",
					Kind:          domain.KindTrueFalse,
					Prompt:        "True?",
					CorrectChoice: "true",
					Points:        5,
				},
			},
		},
	}
}
