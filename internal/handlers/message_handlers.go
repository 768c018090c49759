package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"moodchat/internal/auth"
	"moodchat/internal/database"
	"moodchat/pkg/logger"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"
)

const defaultHistoryLimit = 50

// MessageHandlers serves room message history. Clients fetch history
// over HTTP after joining; the websocket side never replays it.
type MessageHandlers struct {
	authService *auth.Service
	store       database.MessageRepository
	rooms       []string
}

func NewMessageHandlers(authService *auth.Service, store database.MessageRepository, rooms []string) *MessageHandlers {
	return &MessageHandlers{
		authService: authService,
		store:       store,
		rooms:       rooms,
	}
}

// GetRoomMessages handles GET /api/rooms/{room}/messages?limit=N.
func (h *MessageHandlers) GetRoomMessages(w http.ResponseWriter, r *http.Request) {
	if _, err := h.authService.VerifyToken(bearerToken(r)); err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	room := chi.URLParam(r, "room")
	if !lo.Contains(h.rooms, room) {
		http.Error(w, "unknown room", http.StatusNotFound)
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	messages, err := h.store.FindMessagesByRoom(r.Context(), room, limit)
	if err != nil {
		logger.Error("Error loading messages for room %s: %v", room, err)
		http.Error(w, "error loading messages", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(messages)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return r.URL.Query().Get("token")
}
