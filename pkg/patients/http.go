package patients

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/asha-care/platform/pkg/common/logger"
	"github.com/asha-care/platform/pkg/gateway/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("", h.handleList).Methods(http.MethodGet)
	r.HandleFunc("", h.handleCreate).Methods(http.MethodPost)
	r.HandleFunc("/{id}", h.handleGet).Methods(http.MethodGet)
	r.HandleFunc("/{id}", h.handleUpdate).Methods(http.MethodPut)
	r.HandleFunc("/{id}", h.handleDelete).Methods(http.MethodDelete)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	q := ListQuery{
		Search:    r.URL.Query().Get("search"),
		Gender:    r.URL.Query().Get("gender"),
		SortBy:    r.URL.Query().Get("sort_by"),
		SortOrder: r.URL.Query().Get("sort_order"),
		Page:      parseIntParam(r, "page", 1),
		PerPage:   parseIntParam(r, "per_page", 20),
	}
	if v := r.URL.Query().Get("min_age"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			q.MinAge = &n
		}
	}
	if v := r.URL.Query().Get("max_age"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			q.MaxAge = &n
		}
	}
	if v := r.URL.Query().Get("pregnancy"); v != "" {
		pregnant := v == "true"
		q.Pregnancy = &pregnant
	}

	items, total, err := h.service.List(r.Context(), claims.UserID, q)
	if err != nil {
		logger.Log.WithError(err).Error("failed to list patients")
		http.Error(w, "failed to list patients", http.StatusInternalServerError)
		return
	}

	pages := total / int64(q.PerPage)
	if total%int64(q.PerPage) != 0 {
		pages++
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"patients":     items,
		"total":        total,
		"pages":        pages,
		"current_page": q.Page,
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	patient, err := h.service.Create(r.Context(), claims.UserID, req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Patient created successfully",
		"patient": patient,
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid patient id", http.StatusBadRequest)
		return
	}

	detail, err := h.service.Get(r.Context(), claims.UserID, id)
	if err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			http.Error(w, "Patient not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to get patient")
		http.Error(w, "failed to get patient", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid patient id", http.StatusBadRequest)
		return
	}

	var req UpdatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	patient, err := h.service.Update(r.Context(), claims.UserID, id, req)
	if err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			http.Error(w, "Patient not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Patient updated successfully",
		"patient": patient,
	})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid patient id", http.StatusBadRequest)
		return
	}

	if err := h.service.Delete(r.Context(), claims.UserID, id); err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			http.Error(w, "Patient not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to delete patient")
		http.Error(w, "failed to delete patient", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "Patient deleted successfully"})
}

func parseIntParam(r *http.Request, name string, fallback int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
