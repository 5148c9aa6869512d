package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"learnhub-service/internal/app"
	"learnhub-service/internal/chat"
	"learnhub-service/internal/domain"
)

// ChatSender is the outbound chat-completion collaborator.
type ChatSender interface {
	Send(ctx context.Context, history []domain.ChatMessage) (string, error)
}

// APIHandler exposes the gamification state and the chat assistant over
// plain JSON endpoints.
type APIHandler struct {
	game      *app.GameService
	assistant ChatSender
}

func NewAPIHandler(game *app.GameService, assistant ChatSender) *APIHandler {
	return &APIHandler{game: game, assistant: assistant}
}

// Register attaches the API routes to the mux.
func (h *APIHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/state", h.handleState)
	mux.HandleFunc("/api/store/purchase", h.handlePurchase)
	mux.HandleFunc("/api/missions/claim", h.handleClaim)
	mux.HandleFunc("/api/chat", h.handleChat)
}

type stateResponse struct {
	Balance  int                `json:"balance"`
	Missions []domain.Mission   `json:"missions"`
	Items    []domain.StoreItem `json:"items"`
}

func (h *APIHandler) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, stateResponse{
		Balance:  h.game.Balance(),
		Missions: h.game.Missions(),
		Items:    h.game.Items(),
	})
}

type purchaseRequest struct {
	ItemID string `json:"itemId"`
}

type purchaseResponse struct {
	Purchased bool   `json:"purchased"`
	Balance   int    `json:"balance"`
	Message   string `json:"message,omitempty"`
}

func (h *APIHandler) handlePurchase(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ItemID == "" {
		http.Error(w, "invalid purchase payload", http.StatusBadRequest)
		return
	}
	resp := purchaseResponse{Purchased: h.game.PurchaseItem(req.ItemID)}
	resp.Balance = h.game.Balance()
	if !resp.Purchased {
		resp.Message = "not enough coins"
	}
	writeJSON(w, resp)
}

type claimRequest struct {
	MissionID string `json:"missionId"`
}

type claimResponse struct {
	Claimed bool `json:"claimed"`
	Balance int  `json:"balance"`
}

func (h *APIHandler) handleClaim(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req claimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.MissionID == "" {
		http.Error(w, "invalid claim payload", http.StatusBadRequest)
		return
	}
	writeJSON(w, claimResponse{
		Claimed: h.game.ClaimMissionReward(req.MissionID),
		Balance: h.game.Balance(),
	})
}

type chatRequest struct {
	Messages []domain.ChatMessage `json:"messages"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

func (h *APIHandler) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Messages) == 0 {
		http.Error(w, "invalid chat payload", http.StatusBadRequest)
		return
	}
	reply, err := h.assistant.Send(r.Context(), req.Messages)
	if err != nil {
		// Collaborator failures surface as the fixed fallback, never as an
		// HTTP error.
		log.Printf("chat completion failed: %v", err)
		reply = chat.FallbackReply
	}
	writeJSON(w, chatResponse{Reply: reply})
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("write json response: %v", err)
	}
}
