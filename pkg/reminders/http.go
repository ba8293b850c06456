package reminders

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/asha-care/platform/pkg/common/logger"
	"github.com/asha-care/platform/pkg/common/models"
	"github.com/asha-care/platform/pkg/gateway/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// reminderView decorates a reminder with its derived schedule flags.
type reminderView struct {
	models.Reminder
	IsOverdue  bool `json:"is_overdue"`
	IsDueToday bool `json:"is_due_today"`
	IsUpcoming bool `json:"is_upcoming"`
}

func viewOf(rem models.Reminder, now time.Time) reminderView {
	return reminderView{
		Reminder:   rem,
		IsOverdue:  rem.IsOverdue(now),
		IsDueToday: rem.IsDueToday(now),
		IsUpcoming: rem.IsUpcoming(now, 7),
	}
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("", h.handleList).Methods(http.MethodGet)
	r.HandleFunc("", h.handleCreate).Methods(http.MethodPost)
	r.HandleFunc("/{id}", h.handleUpdate).Methods(http.MethodPut)
	r.HandleFunc("/{id}", h.handleDelete).Methods(http.MethodDelete)
	r.HandleFunc("/{id}/complete", h.handleComplete).Methods(http.MethodPost)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.PatientID == uuid.Nil {
		http.Error(w, "patient_id is required", http.StatusBadRequest)
		return
	}

	rem, err := h.service.Create(r.Context(), claims.UserID, req)
	if err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			http.Error(w, "Patient not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":  "Reminder created successfully",
		"reminder": viewOf(rem, time.Now()),
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	f := ListFilter{
		Type:   r.URL.Query().Get("reminder_type"),
		Status: r.URL.Query().Get("status"),
	}
	if raw := r.URL.Query().Get("patient_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, "invalid patient_id", http.StatusBadRequest)
			return
		}
		f.PatientID = &id
	}

	items, err := h.service.List(r.Context(), claims.UserID, f)
	if err != nil {
		logger.Log.WithError(err).Error("failed to list reminders")
		http.Error(w, "failed to list reminders", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	views := make([]reminderView, 0, len(items))
	for _, rem := range items {
		views = append(views, viewOf(rem, now))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"reminders": views})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid reminder id", http.StatusBadRequest)
		return
	}

	var req UpdateReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	rem, err := h.service.Update(r.Context(), claims.UserID, id, req)
	if err != nil {
		if errors.Is(err, ErrReminderNotFound) {
			http.Error(w, "Reminder not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Reminder updated successfully",
		"reminder": viewOf(rem, time.Now()),
	})
}

func (h *Handler) handleComplete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid reminder id", http.StatusBadRequest)
		return
	}

	rem, err := h.service.Complete(r.Context(), claims.UserID, id)
	if err != nil {
		if errors.Is(err, ErrReminderNotFound) {
			http.Error(w, "Reminder not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to complete reminder")
		http.Error(w, "failed to complete reminder", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Reminder marked as completed",
		"reminder": viewOf(rem, time.Now()),
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
		http.Error(w, "invalid reminder id", http.StatusBadRequest)
		return
	}

	if err := h.service.Delete(r.Context(), claims.UserID, id); err != nil {
		if errors.Is(err, ErrReminderNotFound) {
			http.Error(w, "Reminder not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to delete reminder")
		http.Error(w, "failed to delete reminder", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "Reminder deleted successfully"})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
