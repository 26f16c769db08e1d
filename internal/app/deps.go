package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/carehome-backend/internal/adapter/broker/natsbus"
	"github.com/heartmarshall/carehome-backend/internal/adapter/postgres"
	auditrepo "github.com/heartmarshall/carehome-backend/internal/adapter/postgres/audit"
	carehomerepo "github.com/heartmarshall/carehome-backend/internal/adapter/postgres/carehome"
	notificationrepo "github.com/heartmarshall/carehome-backend/internal/adapter/postgres/notification"
	profilerepo "github.com/heartmarshall/carehome-backend/internal/adapter/postgres/profile"
	"github.com/heartmarshall/carehome-backend/internal/adapter/provider/resend"
	"github.com/heartmarshall/carehome-backend/internal/config"
	"github.com/heartmarshall/carehome-backend/internal/domain"
	"github.com/heartmarshall/carehome-backend/internal/metrics"
	"github.com/heartmarshall/carehome-backend/internal/service/delivery"
	"github.com/heartmarshall/carehome-backend/internal/service/workflow"
)

type notificationPublisher interface {
	PublishNotification(ctx context.Context, item domain.NotificationQueueItem) error
}

// deps holds the long-lived collaborators shared by the server and the drain job.
type deps struct {
	pool     *pgxpool.Pool
	bus      *natsbus.Publisher // nil when NATS is not configured
	metrics  *metrics.Metrics
	profiles *profilerepo.Repo
	workflow *workflow.Service
	delivery *delivery.Service
}

func newDeps(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*deps, error) {
	pool, err := postgres.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	d := &deps{pool: pool}

	var realtime notificationPublisher = natsbus.Noop{}
	if cfg.NATS.URL != "" {
		bus, err := natsbus.Connect(cfg.NATS, logger)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("realtime bus: %w", err)
		}
		d.bus = bus
		realtime = bus
	} else {
		logger.Info("nats url not set, in-app realtime publishing disabled")
	}

	d.assemble(cfg, realtime, logger)
	return d, nil
}

// assemble builds repositories and services on top of d.pool.
func (d *deps) assemble(cfg *config.Config, realtime notificationPublisher, logger *slog.Logger) {
	clock := clockwork.NewRealClock()
	homes := carehomerepo.New(d.pool)
	queue := notificationrepo.New(d.pool)
	d.metrics = metrics.New()
	d.profiles = profilerepo.New(d.pool)

	d.workflow = workflow.NewService(
		logger, clock, homes, d.profiles, queue, auditrepo.New(d.pool), realtime, d.metrics,
	)

	opts := delivery.Options{
		From:           cfg.Email.From,
		DefaultSubject: cfg.Email.DefaultSubject,
		SendDelay:      cfg.Email.SendDelay,
		BatchSize:      cfg.Drain.BatchSize,
		MaxBatchSize:   cfg.Drain.MaxBatchSize,
		StaleAfter:     cfg.Drain.StaleAfter,
		MaxRunTime:     cfg.Drain.JobTimeout,
	}
	if cfg.Email.Configured() {
		d.delivery = delivery.NewService(logger, clock, queue, d.profiles,
			resend.NewClient(cfg.Email, logger), d.metrics, opts)
	} else {
		logger.Warn("email api key not set, drain is disabled")
		d.delivery = delivery.NewService(logger, clock, queue, d.profiles, nil, d.metrics, opts)
	}
}

func (d *deps) Close(logger *slog.Logger) {
	if d.bus != nil {
		if err := d.bus.Close(); err != nil {
			logger.Warn("close nats", slog.String("error", err.Error()))
		}
	}
	d.pool.Close()
}
