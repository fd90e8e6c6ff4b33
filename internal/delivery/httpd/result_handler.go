package httpd

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/khushhal7/EduSync-Backend/internal/models"
)

func (h *Handler) CreateResult(w http.ResponseWriter, r *http.Request) {
	var req models.CreateResultRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	result, err := h.resultService.Submit(r.Context(), &req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (h *Handler) GetResultByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid result ID format.")
		return
	}

	result, err := h.resultService.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) GetResultsForUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if _, err := uuid.Parse(userID); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid user ID format.")
		return
	}

	results, err := h.resultService.GetByUser(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if results == nil {
		results = []models.ResultWithDetails{}
	}

	writeJSON(w, http.StatusOK, results)
}

func (h *Handler) GetResultsForAssessment(w http.ResponseWriter, r *http.Request) {
	assessmentID := chi.URLParam(r, "assessmentId")
	if _, err := uuid.Parse(assessmentID); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid assessment ID format.")
		return
	}

	results, err := h.resultService.GetByAssessment(r.Context(), assessmentID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if results == nil {
		results = []models.ResultWithDetails{}
	}

	writeJSON(w, http.StatusOK, results)
}
