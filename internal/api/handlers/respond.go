package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dom/haikyu-team-builder/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError logs err and maps it to a status code. Builder rule violations
// are 422, malformed input 400, unknown records 404, anything else 500.
func writeError(w http.ResponseWriter, logger *zap.Logger, handler string, err error) {
	switch {
	case service.IsRejection(err):
		logger.Debug("request rejected", zap.String("handler", handler), zap.Error(err))
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case service.IsBadRequest(err):
		logger.Debug("bad request", zap.String("handler", handler), zap.Error(err))
		http.Error(w, err.Error(), http.StatusBadRequest)
	case service.IsNotFound(err):
		logger.Debug("not found", zap.String("handler", handler), zap.Error(err))
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		logger.Error("request failed", zap.String("handler", handler), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func int64Param(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil
}

func intParam(r *http.Request, name string) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, name))
	return n, err == nil
}

func uuidParam(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	return id, err == nil
}
