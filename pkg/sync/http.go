package sync

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/asha-care/platform/pkg/common/logger"
	"github.com/asha-care/platform/pkg/gateway/middleware"
	"github.com/gorilla/mux"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("", h.handleSync).Methods(http.MethodPost)
	r.HandleFunc("/latest", h.handlePull).Methods(http.MethodGet)
	r.HandleFunc("/status", h.handleStatus).Methods(http.MethodGet)
}

// handleSync returns 200 even when individual items failed; their errors ride
// in-band in the per-kind results. Only a store failure turns into a 500, and
// the partial results still accompany it so the client knows what committed.
func (h *Handler) handleSync(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var batch Batch
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	res, err := h.service.Sync(r.Context(), claims.UserID, batch)
	if err != nil {
		logger.Log.WithError(err).Error("sync batch failed")
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error":     err.Error(),
			"results":   res,
			"timestamp": time.Now().UTC(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "Sync completed",
		"results":   res,
		"timestamp": time.Now().UTC(),
	})
}

func (h *Handler) handlePull(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var since time.Time
	if raw := r.URL.Query().Get("since"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			http.Error(w, "invalid since timestamp", http.StatusBadRequest)
			return
		}
		since = t
	}

	res, err := h.service.Pull(r.Context(), claims.UserID, since)
	if err != nil {
		logger.Log.WithError(err).Error("incremental pull failed")
		http.Error(w, "failed to pull changes", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	summary, err := h.service.PendingSummary(r.Context(), claims.UserID)
	if err != nil {
		logger.Log.WithError(err).Error("sync status failed")
		http.Error(w, "failed to compute sync status", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"pending": summary})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
