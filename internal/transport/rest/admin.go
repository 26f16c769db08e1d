package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/heartmarshall/carehome-backend/internal/domain"
	"github.com/heartmarshall/carehome-backend/pkg/ctxutil"
)

type profileGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Profile, error)
}

type queueStatsProvider interface {
	QueueStats(ctx context.Context) (domain.NotificationQueueStats, error)
}

// AdminHandler serves operator endpoints restricted to business owners.
type AdminHandler struct {
	profiles profileGetter
	queue    queueStatsProvider
	log      *slog.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(profiles profileGetter, queue queueStatsProvider, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		profiles: profiles,
		queue:    queue,
		log:      logger.With("handler", "admin"),
	}
}

// QueueStats returns notification queue counts by status and channel.
// GET /api/admin/notifications/stats
func (h *AdminHandler) QueueStats(w http.ResponseWriter, r *http.Request) {
	if !h.requireOwner(w, r) {
		return
	}

	stats, err := h.queue.QueueStats(r.Context())
	if err != nil {
		h.log.ErrorContext(r.Context(), "get queue stats", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (h *AdminHandler) requireOwner(w http.ResponseWriter, r *http.Request) bool {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return false
	}

	profile, err := h.profiles.GetByID(r.Context(), userID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusForbidden, "business owner access required")
		return false
	case err != nil:
		h.log.ErrorContext(r.Context(), "load profile", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return false
	}

	if profile.Role != domain.RoleBusinessOwner || !profile.IsActive {
		writeError(w, http.StatusForbidden, "business owner access required")
		return false
	}
	return true
}
