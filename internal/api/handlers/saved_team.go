package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/dom/haikyu-team-builder/internal/api/middleware"
	"github.com/dom/haikyu-team-builder/internal/domain"
	"github.com/dom/haikyu-team-builder/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SavedTeamHandler serves the device-scoped saved team list. Every route sits
// behind middleware.Device.
type SavedTeamHandler struct {
	savedTeamService *service.SavedTeamService
	logger           *zap.Logger
}

func NewSavedTeamHandler(savedTeamService *service.SavedTeamService, logger *zap.Logger) *SavedTeamHandler {
	return &SavedTeamHandler{savedTeamService: savedTeamService, logger: logger}
}

type SavedTeamsResponse struct {
	Teams []domain.SavedTeam `json:"teams"`
}

// SaveTeamRequest saves either a live session's team or an explicit court and
// bench.
type SaveTeamRequest struct {
	Name      string            `json:"name"`
	SessionID *uuid.UUID        `json:"sessionId,omitempty"`
	Court     *domain.TeamSlots `json:"court,omitempty"`
	Bench     domain.Bench      `json:"bench"`
}

type LoadTeamRequest struct {
	SessionID uuid.UUID `json:"sessionId"`
}

type ExportResponse struct {
	Key string `json:"key"`
}

type ImportRequest struct {
	Key       string     `json:"key"`
	Name      string     `json:"name,omitempty"`
	SessionID *uuid.UUID `json:"sessionId,omitempty"`
}

func (h *SavedTeamHandler) List(w http.ResponseWriter, r *http.Request) {
	deviceID, _ := middleware.GetDeviceID(r.Context())

	teams, err := h.savedTeamService.List(r.Context(), deviceID)
	if err != nil {
		writeError(w, h.logger, "savedTeam.List", err)
		return
	}
	writeJSON(w, http.StatusOK, SavedTeamsResponse{Teams: teams})
}

func (h *SavedTeamHandler) Save(w http.ResponseWriter, r *http.Request) {
	deviceID, _ := middleware.GetDeviceID(r.Context())

	var req SaveTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var (
		saved *domain.SavedTeam
		err   error
	)
	switch {
	case req.SessionID != nil:
		saved, err = h.savedTeamService.SaveSession(r.Context(), deviceID, *req.SessionID, req.Name)
	case req.Court != nil:
		saved, err = h.savedTeamService.Save(r.Context(), deviceID, req.Name, *req.Court, req.Bench)
	default:
		http.Error(w, "sessionId or court is required", http.StatusBadRequest)
		return
	}
	if err != nil {
		writeError(w, h.logger, "savedTeam.Save", err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (h *SavedTeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	deviceID, _ := middleware.GetDeviceID(r.Context())
	index, ok := intParam(r, "index")
	if !ok {
		http.Error(w, "Invalid index", http.StatusBadRequest)
		return
	}

	if err := h.savedTeamService.Delete(r.Context(), deviceID, index); err != nil {
		writeError(w, h.logger, "savedTeam.Delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Load replaces a session's team with the saved snapshot.
func (h *SavedTeamHandler) Load(w http.ResponseWriter, r *http.Request) {
	deviceID, _ := middleware.GetDeviceID(r.Context())
	index, ok := intParam(r, "index")
	if !ok {
		http.Error(w, "Invalid index", http.StatusBadRequest)
		return
	}

	var req LoadTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	view, err := h.savedTeamService.Load(r.Context(), deviceID, index, req.SessionID)
	if err != nil {
		writeError(w, h.logger, "savedTeam.Load", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *SavedTeamHandler) Export(w http.ResponseWriter, r *http.Request) {
	deviceID, _ := middleware.GetDeviceID(r.Context())
	index, ok := intParam(r, "index")
	if !ok {
		http.Error(w, "Invalid index", http.StatusBadRequest)
		return
	}

	key, err := h.savedTeamService.Export(r.Context(), deviceID, index)
	if err != nil {
		writeError(w, h.logger, "savedTeam.Export", err)
		return
	}
	writeJSON(w, http.StatusOK, ExportResponse{Key: key})
}

// Import decodes a team key. Characters missing from the roster are reported
// in the response rather than failing the request.
func (h *SavedTeamHandler) Import(w http.ResponseWriter, r *http.Request) {
	deviceID, _ := middleware.GetDeviceID(r.Context())

	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.savedTeamService.Import(r.Context(), deviceID, req.Key, service.ImportOptions{
		Name:      req.Name,
		SessionID: req.SessionID,
	})
	if err != nil {
		writeError(w, h.logger, "savedTeam.Import", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
