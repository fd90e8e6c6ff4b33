package httpd

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/khushhal7/EduSync-Backend/internal/apperror"
	"github.com/khushhal7/EduSync-Backend/internal/models"
	"github.com/rs/zerolog"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, models.MessageResponse{Message: message})
}

// writeError переводит ошибки сервисного слоя в HTTP-статусы.
func writeError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		switch {
		case errors.Is(appErr, apperror.ErrNotFound):
			writeMessage(w, http.StatusNotFound, appErr.Message)
		case errors.Is(appErr, apperror.ErrForbidden):
			writeMessage(w, http.StatusForbidden, appErr.Message)
		case errors.Is(appErr, apperror.ErrInvalidArgument),
			errors.Is(appErr, apperror.ErrPayloadTooLarge),
			errors.Is(appErr, apperror.ErrInvalidToken):
			writeMessage(w, http.StatusBadRequest, appErr.Message)
		case errors.Is(appErr, apperror.ErrUnauthorized):
			writeMessage(w, http.StatusUnauthorized, appErr.Message)
		default:
			logger.Error().Err(err).Msg("unhandled service error")
			writeMessage(w, http.StatusInternalServerError, "An internal server error occurred.")
		}
		return
	}

	logger.Error().Err(err).Msg("unexpected error")
	writeMessage(w, http.StatusInternalServerError, "An internal server error occurred.")
}

func decodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
