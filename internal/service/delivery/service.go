// Package delivery drains queued email notifications through the email provider.
package delivery

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/carehome-backend/internal/domain"
	"github.com/heartmarshall/carehome-backend/internal/provider"
)

const (
	DefaultBatchSize = 25
	DefaultMaxBatch  = 100
	DefaultSendDelay = 500 * time.Millisecond
	DefaultSubject   = "Care home notification"

	bookkeepingTimeout = 5 * time.Second

	errRecipientEmailNotFound = "recipient email not found"
)

type queueRepo interface {
	RequeueStale(ctx context.Context, channel domain.Channel, cutoff time.Time) (int, error)
	ClaimQueued(ctx context.Context, channel domain.Channel, limit int) ([]domain.NotificationQueueItem, error)
	MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
	Release(ctx context.Context, ids []uuid.UUID) (int, error)
	Stats(ctx context.Context) (domain.NotificationQueueStats, error)
}

type emailDirectory interface {
	EmailsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

type emailSender interface {
	Send(ctx context.Context, msg provider.EmailMessage) (provider.SendResult, error)
}

type metricsRecorder interface {
	EmailDelivered(status string)
	DrainCompleted(d time.Duration, failed bool)
}

// Options tunes a drain pass. Zero values fall back to the package defaults;
// StaleAfter of zero disables requeueing of abandoned claims.
//
// MaxRunTime bounds one pass so that its claims never outlive StaleAfter.
// With requeueing enabled it is forced below StaleAfter.
type Options struct {
	From           string
	DefaultSubject string
	SendDelay      time.Duration
	BatchSize      int
	MaxBatchSize   int
	StaleAfter     time.Duration
	MaxRunTime     time.Duration
}

func (o Options) withDefaults() Options {
	if o.DefaultSubject == "" {
		o.DefaultSubject = DefaultSubject
	}
	if o.SendDelay < 0 {
		o.SendDelay = 0
	}
	if o.MaxBatchSize <= 0 {
		o.MaxBatchSize = DefaultMaxBatch
	}
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.BatchSize > o.MaxBatchSize {
		o.BatchSize = o.MaxBatchSize
	}
	if o.MaxRunTime < 0 {
		o.MaxRunTime = 0
	}
	if o.StaleAfter > 0 && (o.MaxRunTime == 0 || o.MaxRunTime >= o.StaleAfter) {
		o.MaxRunTime = o.StaleAfter / 2
	}
	return o
}

// Service delivers queued email notifications. A nil sender means the
// provider is not configured and every drain fails with domain.ErrNotConfigured.
type Service struct {
	queue   queueRepo
	emails  emailDirectory
	sender  emailSender
	metrics metricsRecorder
	clock   clockwork.Clock
	opts    Options
	log     *slog.Logger
}

// NewService creates a new delivery service.
func NewService(
	log *slog.Logger,
	clock clockwork.Clock,
	queue queueRepo,
	emails emailDirectory,
	sender emailSender,
	metrics metricsRecorder,
	opts Options,
) *Service {
	return &Service{
		queue:   queue,
		emails:  emails,
		sender:  sender,
		metrics: metrics,
		clock:   clock,
		opts:    opts.withDefaults(),
		log:     log.With("service", "delivery"),
	}
}

// Configured reports whether an email provider is wired.
func (s *Service) Configured() bool {
	return s.sender != nil
}

// ClampBatch returns the batch size a drain with the requested size will use.
func (s *Service) ClampBatch(requested int) int {
	switch {
	case requested <= 0:
		return s.opts.BatchSize
	case requested > s.opts.MaxBatchSize:
		return s.opts.MaxBatchSize
	default:
		return requested
	}
}

// QueueStats returns row counts by status and channel.
func (s *Service) QueueStats(ctx context.Context) (domain.NotificationQueueStats, error) {
	return s.queue.Stats(ctx)
}
