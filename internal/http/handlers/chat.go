package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/clinicassist/appointment-agent/internal/agent"
	"github.com/clinicassist/appointment-agent/internal/session"
	"github.com/clinicassist/appointment-agent/pkg/logging"
)

// Engine runs one booking dialogue turn over a conversation state.
type Engine interface {
	Invoke(ctx context.Context, st *agent.State)
}

// ChatHandler exposes the booking dialogue over HTTP. One POST is one turn.
type ChatHandler struct {
	engine Engine
	store  session.Store
	logger *logging.Logger

	// mu guards locks; each session gets its own mutex so concurrent turns
	// for the same conversation serialize instead of clobbering state.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewChatHandler creates the chat API handler.
func NewChatHandler(engine Engine, store session.Store, logger *logging.Logger) *ChatHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &ChatHandler{
		engine: engine,
		store:  store,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatResponse struct {
	SessionID string   `json:"session_id"`
	Replies   []string `json:"replies"`
	Booked    bool     `json:"booked"`
	Awaiting  bool     `json:"awaiting_user_response"`
}

// HandleChat processes one conversation turn. An empty session_id starts a
// new conversation; an empty message on a new conversation returns just the
// opening greeting.
func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	req.Message = strings.TrimSpace(req.Message)
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	} else if req.Message == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	lock := h.sessionLock(req.SessionID)
	lock.Lock()
	defer lock.Unlock()

	st, err := h.store.Load(r.Context(), req.SessionID)
	switch {
	case errors.Is(err, session.ErrNotFound):
		st = agent.NewState()
		st.SeedGreeting()
	case err != nil:
		h.logger.Error("session load failed", "error", err, "session_id", req.SessionID)
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}

	if req.Message != "" {
		st.BeginTurn(req.Message)
		h.engine.Invoke(r.Context(), st)
	}

	replies := st.FlushReplies()
	if err := h.store.Save(r.Context(), req.SessionID, st); err != nil {
		h.logger.Error("session save failed", "error", err, "session_id", req.SessionID)
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(chatResponse{
		SessionID: req.SessionID,
		Replies:   replies,
		Booked:    st.Confirmed,
		Awaiting:  st.AwaitingUserResponse,
	})
}

// HandleReset deletes a conversation so the session id can start fresh.
func (h *ChatHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "session id is required", http.StatusBadRequest)
		return
	}
	if err := h.store.Delete(r.Context(), sessionID); err != nil {
		h.logger.Error("session delete failed", "error", err, "session_id", sessionID)
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleHealth reports service liveness.
func (h *ChatHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (h *ChatHandler) sessionLock(sessionID string) *sync.Mutex {
	h.mu.Lock()
	defer h.mu.Unlock()
	lock, ok := h.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		h.locks[sessionID] = lock
	}
	return lock
}
