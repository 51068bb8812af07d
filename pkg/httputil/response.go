package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"zokoai-middleware/internal/models"
)

// RespondJSON writes a JSON response with the given status code and payload.
func RespondJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// Headers are already out; nothing left to do but log.
		slog.Error("encoding JSON response failed", "error", err)
	}
}

// RespondError writes the fixed-shape error body {"detail": detail}.
// detail is a string for every fault except validation faults, which pass
// a []models.FieldError.
func RespondError(w http.ResponseWriter, statusCode int, detail any) {
	RespondJSON(w, statusCode, models.ErrorResponse{Detail: detail})
}
