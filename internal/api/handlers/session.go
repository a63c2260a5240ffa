package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/dom/haikyu-team-builder/internal/service"
	"go.uber.org/zap"
)

type SessionHandler struct {
	builderService *service.BuilderService
	logger         *zap.Logger
}

func NewSessionHandler(builderService *service.BuilderService, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{builderService: builderService, logger: logger}
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	view, err := h.builderService.Create(r.Context())
	if err != nil {
		writeError(w, h.logger, "session.Create", err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		http.Error(w, "Invalid session id", http.StatusBadRequest)
		return
	}

	view, err := h.builderService.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, "session.Get", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Command applies one builder command. Rejected commands answer 422 with the
// rule that was broken and leave the session unchanged.
func (h *SessionHandler) Command(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		http.Error(w, "Invalid session id", http.StatusBadRequest)
		return
	}

	var req service.CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	view, err := h.builderService.Apply(r.Context(), id, req)
	if err != nil {
		writeError(w, h.logger, "session.Command", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		http.Error(w, "Invalid session id", http.StatusBadRequest)
		return
	}
	h.builderService.Close(id)
	w.WriteHeader(http.StatusNoContent)
}
