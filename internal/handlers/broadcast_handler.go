package handlers

import (
	"log/slog"
	"net/http"

	"zokoai-middleware/internal/models"
	"zokoai-middleware/internal/services"
	"zokoai-middleware/pkg/httputil"
)

// BroadcastHandler triggers the promotional fan-out.
type BroadcastHandler struct {
	broadcasts *services.BroadcastService
	log        *slog.Logger
}

func NewBroadcastHandler(bs *services.BroadcastService) *BroadcastHandler {
	return &BroadcastHandler{
		broadcasts: bs,
		log:        slog.With("component", "broadcast-handler"),
	}
}

// HandleTriggerBroadcast runs the promo broadcast synchronously to
// completion. Individual send failures are absorbed by the service; only a
// failure to enumerate recipients surfaces here.
func (h *BroadcastHandler) HandleTriggerBroadcast(w http.ResponseWriter, r *http.Request) {
	if err := h.broadcasts.BroadcastPromo(r.Context()); err != nil {
		h.log.Error("broadcast failed", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, models.StatusResponse{Status: "broadcast_sent"})
}
