package handlers

import (
	"net/http"

	"github.com/dom/haikyu-team-builder/internal/service"
	"github.com/dom/haikyu-team-builder/internal/websocket"
	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = ws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

type WebSocketHandler struct {
	hub            *websocket.Hub
	builderService *service.BuilderService
	logger         *zap.Logger
}

func NewWebSocketHandler(hub *websocket.Hub, builderService *service.BuilderService, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:            hub,
		builderService: builderService,
		logger:         logger,
	}
}

// Handle subscribes the connection to ?session= and sends its current state.
func (h *WebSocketHandler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(r.URL.Query().Get("session"))
	if err != nil {
		http.Error(w, "Session id required", http.StatusBadRequest)
		return
	}

	view, err := h.builderService.Get(r.Context(), sessionID)
	if err != nil {
		writeError(w, h.logger, "websocket.Handle", err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := websocket.NewClient(h.hub, conn, sessionID)
	h.hub.Register(client)

	if msg, err := websocket.NewMessage(websocket.MessageTypeState, view); err == nil {
		client.Send(msg)
	}

	go client.WritePump()
	go client.ReadPump()
}
