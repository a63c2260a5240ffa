package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/dom/haikyu-team-builder/internal/domain"
	"github.com/dom/haikyu-team-builder/internal/service"
	"go.uber.org/zap"
)

// AdminHandler serves character maintenance: records, bond memberships,
// skills, stat bonds and the image host listing.
type AdminHandler struct {
	characterService *service.CharacterService
	imageService     *service.ImageService
	logger           *zap.Logger
}

func NewAdminHandler(characterService *service.CharacterService, imageService *service.ImageService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		characterService: characterService,
		imageService:     imageService,
		logger:           logger,
	}
}

type BondIDsRequest struct {
	BondIDs []int64 `json:"bondIds"`
}

type BondIDsResponse struct {
	CharacterID int64   `json:"characterId"`
	BondIDs     []int64 `json:"bondIds"`
}

type SkillsResponse struct {
	Skills []*domain.Skill `json:"skills"`
}

type StatsBondsResponse struct {
	StatsBonds []*domain.CharacterStatsBond `json:"statsBonds"`
}

type ImagesResponse struct {
	Images []service.StoredImage `json:"images"`
}

func (h *AdminHandler) CreateCharacter(w http.ResponseWriter, r *http.Request) {
	var req service.CharacterInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if service.IsBadRequest(err) {
			writeError(w, h.logger, "admin.CreateCharacter", err)
			return
		}
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	character, err := h.characterService.Create(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, "admin.CreateCharacter", err)
		return
	}
	writeJSON(w, http.StatusCreated, character)
}

func (h *AdminHandler) UpdateCharacter(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(r, "id")
	if !ok {
		http.Error(w, "Invalid character id", http.StatusBadRequest)
		return
	}

	var req service.CharacterInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if service.IsBadRequest(err) {
			writeError(w, h.logger, "admin.UpdateCharacter", err)
			return
		}
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	character, err := h.characterService.Update(r.Context(), id, req)
	if err != nil {
		writeError(w, h.logger, "admin.UpdateCharacter", err)
		return
	}
	writeJSON(w, http.StatusOK, character)
}

func (h *AdminHandler) GetBonds(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(r, "id")
	if !ok {
		http.Error(w, "Invalid character id", http.StatusBadRequest)
		return
	}

	ids, err := h.characterService.GetBondIDs(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, "admin.GetBonds", err)
		return
	}
	writeJSON(w, http.StatusOK, BondIDsResponse{CharacterID: id, BondIDs: ids})
}

func (h *AdminHandler) SetBonds(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(r, "id")
	if !ok {
		http.Error(w, "Invalid character id", http.StatusBadRequest)
		return
	}

	var req BondIDsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.characterService.SetBonds(r.Context(), id, req.BondIDs); err != nil {
		writeError(w, h.logger, "admin.SetBonds", err)
		return
	}

	ids, err := h.characterService.GetBondIDs(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, "admin.SetBonds", err)
		return
	}
	writeJSON(w, http.StatusOK, BondIDsResponse{CharacterID: id, BondIDs: ids})
}

func (h *AdminHandler) GetSkills(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(r, "id")
	if !ok {
		http.Error(w, "Invalid character id", http.StatusBadRequest)
		return
	}

	skills, err := h.characterService.GetSkills(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, "admin.GetSkills", err)
		return
	}
	writeJSON(w, http.StatusOK, SkillsResponse{Skills: skills})
}

func (h *AdminHandler) GetStatsBonds(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(r, "id")
	if !ok {
		http.Error(w, "Invalid character id", http.StatusBadRequest)
		return
	}

	statsBonds, err := h.characterService.GetStatsBonds(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, "admin.GetStatsBonds", err)
		return
	}
	writeJSON(w, http.StatusOK, StatsBondsResponse{StatsBonds: statsBonds})
}

func (h *AdminHandler) ListImages(w http.ResponseWriter, r *http.Request) {
	images, err := h.imageService.ListImages(r.Context())
	if err != nil {
		h.logger.Error("failed to list images", zap.String("handler", "admin.ListImages"), zap.Error(err))
		http.Error(w, "Failed to list images", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, ImagesResponse{Images: images})
}
