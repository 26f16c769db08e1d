package rest

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/heartmarshall/carehome-backend/internal/domain"
	"github.com/heartmarshall/carehome-backend/internal/service/delivery"
)

// DrainSecretHeader authenticates scheduler calls to the drain endpoint.
const DrainSecretHeader = "X-Drain-Secret"

type drainer interface {
	Drain(ctx context.Context, batchSize int) (delivery.Report, error)
}

// DrainHandler exposes one drain pass over HTTP for an external scheduler.
type DrainHandler struct {
	svc    drainer
	secret string
	log    *slog.Logger
}

// NewDrainHandler creates a DrainHandler. An empty secret disables the header check.
func NewDrainHandler(svc drainer, secret string, logger *slog.Logger) *DrainHandler {
	return &DrainHandler{svc: svc, secret: secret, log: logger.With("handler", "drain")}
}

// Drain handles POST /api/notifications/drain?batch=N.
func (h *DrainHandler) Drain(w http.ResponseWriter, r *http.Request) {
	if h.secret != "" {
		got := r.Header.Get(DrainSecretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.secret)) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
	}

	report, err := h.svc.Drain(r.Context(), parseBatch(r.URL.Query().Get("batch")))
	switch {
	case errors.Is(err, domain.ErrNotConfigured):
		writeError(w, http.StatusInternalServerError, "email provider is not configured")
	case err != nil:
		h.log.ErrorContext(r.Context(), "drain failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "drain failed")
	default:
		writeJSON(w, http.StatusOK, report)
	}
}

// parseBatch returns 0 (use the default) for a missing or malformed value.
func parseBatch(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
