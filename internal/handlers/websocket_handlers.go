package handlers

import (
	"context"
	"net/http"

	"moodchat/internal/auth"
	"moodchat/internal/chat"
	"moodchat/internal/config"
	ws "moodchat/internal/websocket"
	"moodchat/pkg/logger"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

type WebSocketHandlers struct {
	authService *auth.Service
	controller  *chat.Controller
	cfg         config.ChatConfig
	upgrader    websocket.Upgrader
}

func NewWebSocketHandlers(authService *auth.Service, controller *chat.Controller, cfg config.ChatConfig) *WebSocketHandlers {
	return &WebSocketHandlers{
		authService: authService,
		controller:  controller,
		cfg:         cfg,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // Configure for production
		},
	}
}

// HandleWebSocket authenticates the connection attempt and hands the
// upgraded connection to the chat core. The credential is presented
// once, here; no event from an unverified connection is ever
// processed.
func (h *WebSocketHandlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	identity, err := h.authService.VerifyToken(tokenStr)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("Upgrade error: %v", err)
		return
	}

	sess, err := h.controller.Connect(identity)
	if err != nil {
		conn.Close()
		return
	}

	limiter := rate.NewLimiter(rate.Limit(h.cfg.MessageRate), h.cfg.MessageBurst)
	client := ws.NewClient(conn, sess, h.controller, limiter)

	// The request context dies when this handler returns; in-flight
	// submissions must outlive it, so the pumps run on their own
	// context. Disconnection is signalled through the read loop.
	go client.WritePump()
	go client.ReadPump(context.Background())
}
