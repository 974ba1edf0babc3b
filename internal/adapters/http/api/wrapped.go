package api

import (
	"net/http"

	"github.com/okian/wrapped/pkg/logger"
)

// WrappedHandler serves the wrapped view.
type WrappedHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewWrappedHandler creates a new wrapped handler.
func NewWrappedHandler(deps Dependencies, l logger.Logger) *WrappedHandler {
	return &WrappedHandler{deps: deps, logger: l}
}

// HandleGetWrapped handles GET /api/wrapped/{identifier} requests.
func (h *WrappedHandler) HandleGetWrapped(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := pathIdentifier(r)

	view, err := h.deps.Wrapped(ctx, id)
	if err != nil {
		status, msg, detail := statusFor(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error(ctx, "wrapped request failed",
				logger.String("identifier", id),
				logger.String("request_id", w.Header().Get(requestIDHeader)),
				logger.Int("status", status),
				logger.Error(err),
			)
		}
		writeError(w, status, msg, detail)
		return
	}
	writeSuccess(w, "Wrapped data fetched successfully", view)
}
