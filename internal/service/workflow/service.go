// Package workflow turns workflow events into queued notifications and an
// audit entry.
//
// Dispatch is the entry point. Recipient resolution, queueing and auditing are
// best-effort: each reports an Outcome instead of an error, so a caller's
// primary action never fails because of notification infrastructure.
package workflow

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/carehome-backend/internal/domain"
)

type careHomeRepo interface {
	GetCareHome(ctx context.Context, id uuid.UUID) (domain.CareHome, error)
	ListManagerIDs(ctx context.Context, careHomeID uuid.UUID) ([]uuid.UUID, error)
	GetClient(ctx context.Context, id uuid.UUID) (domain.Client, error)
}

type profileRepo interface {
	ListActiveIDsByRole(ctx context.Context, role domain.Role) ([]uuid.UUID, error)
}

type queueRepo interface {
	InsertBatch(ctx context.Context, items []domain.NotificationQueueItem) (int, error)
}

type auditRepo interface {
	Log(ctx context.Context, event domain.AuditEvent) error
}

type realtimePublisher interface {
	PublishNotification(ctx context.Context, item domain.NotificationQueueItem) error
}

type metricsRecorder interface {
	EventDispatched(eventType, result string)
	NotificationsQueued(channel string, n int)
}

// Service dispatches workflow events.
type Service struct {
	homes    careHomeRepo
	profiles profileRepo
	queue    queueRepo
	audit    auditRepo
	realtime realtimePublisher
	metrics  metricsRecorder
	clock    clockwork.Clock
	log      *slog.Logger
}

// NewService creates a new workflow service.
func NewService(
	log *slog.Logger,
	clock clockwork.Clock,
	homes careHomeRepo,
	profiles profileRepo,
	queue queueRepo,
	audit auditRepo,
	realtime realtimePublisher,
	metrics metricsRecorder,
) *Service {
	return &Service{
		homes:    homes,
		profiles: profiles,
		queue:    queue,
		audit:    audit,
		realtime: realtime,
		metrics:  metrics,
		clock:    clock,
		log:      log.With("service", "workflow"),
	}
}
