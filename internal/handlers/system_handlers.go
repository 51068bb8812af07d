package handlers

import (
	"log/slog"
	"net/http"

	"zokoai-middleware/internal/models"
	"zokoai-middleware/internal/store"
	"zokoai-middleware/pkg/httputil"
)

// SystemHandlers serves the liveness probe and the store diagnostics
// endpoint.
type SystemHandlers struct {
	store store.Store
	log   *slog.Logger
}

func NewSystemHandlers(st store.Store) *SystemHandlers {
	return &SystemHandlers{
		store: st,
		log:   slog.With("component", "system-handler"),
	}
}

// HandleHealth is the liveness probe. No auth, no rate limit.
func (h *SystemHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, models.HealthResponse{Status: "ok"})
}

// HandleStoreDiagnostics exercises the history store write path with a
// throwaway system message.
func (h *SystemHandlers) HandleStoreDiagnostics(w http.ResponseWriter, r *http.Request) {
	if err := h.store.AppendMessage(r.Context(), "test-chat", models.RoleSystem, "ping"); err != nil {
		h.log.Error("store diagnostics write failed", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, models.DiagnosticsResponse{Message: "store OK"})
}
