package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"learnhub-service/internal/app"
	"learnhub-service/internal/infra/memory"
	"github.com/gorilla/websocket"
)

func TestArenaWebSocketFlow(t *testing.T) {
	catalog := memory.NewCatalogRepository(memory.NewStaticCatalog(sampleQuizzes(), nil, nil), time.Minute)
	arenas := memory.NewArenaStore()
	handler := NewArenaHandler(arenas, catalog, app.BotConfig{Count: 1, Accuracy: 1.0})

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/arena", handler.ServeWS)
	server := httptest.NewServer(mux)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws/arena?arenaId=a1&quizId=quiz-1&userId=u1&name=Alice"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	msgType, payload := readNext(conn, t, "joined")
	if msgType != "joined" || payload == nil {
		t.Fatalf("expected joined payload, got %s %v", msgType, payload)
	}

	writeMsg(conn, t, "answer", map[string]any{"index": 0, "choice": "B"})

	// Expect an answerResult and at least one scoreboard update.
	answerSeen := false
	scoreboardSeen := false
	for i := 0; i < 5; i++ {
		typ, _ := readNext(conn, t, "")
		switch typ {
		case "answerResult":
			answerSeen = true
		case "scoreboard":
			scoreboardSeen = true
		}
		if answerSeen && scoreboardSeen {
			break
		}
	}
	if !answerSeen || !scoreboardSeen {
		t.Fatalf("expected answerResult and scoreboard, got answerResult=%v scoreboard=%v", answerSeen, scoreboardSeen)
	}
}

func TestArenaRequiresIdentity(t *testing.T) {
	catalog := memory.NewCatalogRepository(memory.NewStaticCatalog(sampleQuizzes(), nil, nil), time.Minute)
	handler := NewArenaHandler(memory.NewArenaStore(), catalog, app.BotConfig{})

	req := httptest.NewRequest(http.MethodGet, "/ws/arena?arenaId=a1", nil)
	rec := httptest.NewRecorder()
	handler.ServeWS(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing identity, got %d", rec.Code)
	}
}
