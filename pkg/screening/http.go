package screening

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/mirai-health/screening/pkg/common/logger"
	"github.com/mirai-health/screening/pkg/common/models"
	"github.com/mirai-health/screening/pkg/screening/features"
)

type HTTPHandler struct {
	service *Service
	maxBody int64
}

func NewHTTPHandler(service *Service, maxBody int64) *HTTPHandler {
	return &HTTPHandler{service: service, maxBody: maxBody}
}

func (h *HTTPHandler) Register(router *mux.Router) {
	router.HandleFunc("/predict", h.handlePredict).Methods(http.MethodPost)
	router.HandleFunc("/stages", h.handleStages).Methods(http.MethodGet)
}

func (h *HTTPHandler) handlePredict(w http.ResponseWriter, r *http.Request) {
	if h.maxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	}

	var attrs models.PatientAttributes
	if err := json.NewDecoder(r.Body).Decode(&attrs); err != nil {
		logger.Log.WithError(err).Warn("invalid screening payload")
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(attrs) == 0 {
		writeError(w, http.StatusBadRequest, "no JSON payload received")
		return
	}

	resp, err := h.service.Predict(r.Context(), attrs)
	if err != nil {
		if features.IsValidationError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		logger.Log.WithError(err).Error("screening prediction failed")
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Prediction failed: %s", err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *HTTPHandler) handleStages(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.service.Stages())
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
