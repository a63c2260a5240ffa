package handlers

import (
	"net/http"

	"github.com/dom/haikyu-team-builder/internal/domain"
	"github.com/dom/haikyu-team-builder/internal/service"
	"go.uber.org/zap"
)

type RosterHandler struct {
	rosterService *service.RosterService
	logger        *zap.Logger
}

func NewRosterHandler(rosterService *service.RosterService, logger *zap.Logger) *RosterHandler {
	return &RosterHandler{rosterService: rosterService, logger: logger}
}

type CharactersResponse struct {
	Characters []*domain.Character `json:"characters"`
}

type BondsResponse struct {
	Bonds []*domain.Bond `json:"bonds"`
}

type BondLinksResponse struct {
	Links []*domain.CharacterBondLink `json:"links"`
}

// GetAll lists the roster, optionally filtered by ?position=, ?school= and
// ?search=. "ALL" disables a filter.
func (h *RosterHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	characters, err := h.rosterService.GetCharacters(r.Context(), service.CharacterFilter{
		Position: q.Get("position"),
		School:   q.Get("school"),
		Search:   q.Get("search"),
	})
	if err != nil {
		writeError(w, h.logger, "roster.GetAll", err)
		return
	}
	writeJSON(w, http.StatusOK, CharactersResponse{Characters: characters})
}

func (h *RosterHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(r, "id")
	if !ok {
		http.Error(w, "Invalid character id", http.StatusBadRequest)
		return
	}

	character, err := h.rosterService.GetCharacter(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, "roster.Get", err)
		return
	}
	writeJSON(w, http.StatusOK, character)
}

func (h *RosterHandler) GetBonds(w http.ResponseWriter, r *http.Request) {
	bonds, err := h.rosterService.GetBonds(r.Context())
	if err != nil {
		writeError(w, h.logger, "roster.GetBonds", err)
		return
	}
	writeJSON(w, http.StatusOK, BondsResponse{Bonds: bonds})
}

func (h *RosterHandler) GetBondLinks(w http.ResponseWriter, r *http.Request) {
	links, err := h.rosterService.GetBondLinks(r.Context())
	if err != nil {
		writeError(w, h.logger, "roster.GetBondLinks", err)
		return
	}
	writeJSON(w, http.StatusOK, BondLinksResponse{Links: links})
}

// Reload drops the cached roster and fetches it again.
func (h *RosterHandler) Reload(w http.ResponseWriter, r *http.Request) {
	roster, err := h.rosterService.Reload(r.Context())
	if err != nil {
		writeError(w, h.logger, "roster.Reload", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"characters": len(roster.Characters),
		"bonds":      len(roster.Bonds),
		"links":      len(roster.Links),
	})
}
