package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"gramm/internal/models"
	"gramm/internal/observability"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse is the standard error body
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// WriteError sends a JSON error body with the given status
func WriteError(w http.ResponseWriter, message string, statusCode int) {
	writeSuccess(w, ErrorResponse{Error: message}, statusCode)
}

func writeSuccess(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind models.Kind) int {
	switch kind {
	case models.KindValidation, models.KindInvalidToken:
		return http.StatusBadRequest
	case models.KindNotFound:
		return http.StatusNotFound
	case models.KindExpired:
		return http.StatusGone
	case models.KindConflict:
		return http.StatusConflict
	case models.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError reports err according to its kind. Internal errors are
// logged and hidden from the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	kind := models.KindOf(err)
	status := StatusFor(kind)

	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		writeSuccess(w, ErrorResponse{Error: ve.Message, Field: ve.Field}, status)
	case kind == models.KindInternal:
		slog.ErrorContext(r.Context(), "request failed",
			slog.String("request_id", observability.ExtractRequestID(r.Context())),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		WriteError(w, "Internal server error", status)
	case errors.Is(err, models.ErrUnauthorized):
		WriteError(w, models.ErrUnauthorized.Error(), status)
	default:
		WriteError(w, err.Error(), status)
	}
}

// writeValidatorError reports the first field rejected by the struct validator.
func writeValidatorError(w http.ResponseWriter, err error) {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		message := "Invalid value"
		switch fe.Tag() {
		case "required":
			message = "This field is required"
		case "email":
			message = "Enter a valid email address"
		case "max":
			message = "Ensure this value has at most " + fe.Param() + " characters"
		}
		writeSuccess(w, ErrorResponse{Error: message, Field: fe.Field()}, http.StatusBadRequest)
		return
	}
	WriteError(w, "Invalid data", http.StatusBadRequest)
}
