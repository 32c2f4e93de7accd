package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"gramm/internal/observability"
	"gramm/internal/service"
)

func writeWebhook(w http.ResponseWriter, message string, status int) {
	observability.WebhookCalls.WithLabelValues(strconv.Itoa(status)).Inc()
	writeSuccess(w, MessageResponse{Message: message}, status)
}

// ThumbnailWebhook receives the path of a rendered thumbnail and stores it
// in place of the original image path.
func (h *Handlers) ThumbnailWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var event service.ThumbnailEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeWebhook(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	err := h.ThumbnailService.Apply(r.Context(), event)
	if err == nil {
		writeWebhook(w, service.MessageThumbnailSet, http.StatusOK)
		return
	}

	var rejected *service.WebhookError
	if errors.As(err, &rejected) {
		writeWebhook(w, rejected.Message, http.StatusBadRequest)
		return
	}

	observability.WebhookCalls.WithLabelValues(strconv.Itoa(http.StatusInternalServerError)).Inc()
	writeServiceError(w, r, err)
}
