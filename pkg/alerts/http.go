package alerts

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/pregnancy", h.handlePregnancy).Methods(http.MethodPost)
}

func (h *Handler) handlePregnancy(w http.ResponseWriter, r *http.Request) {
	var raw map[string]*float64
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	input, err := validateMaternalInput(raw)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	risk := PredictMaternalRisk(input)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"prediction": risk,
		"input_data": input,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
