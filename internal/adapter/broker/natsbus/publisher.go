// Package natsbus publishes in-app notifications to NATS so connected clients
// receive them without polling the queue.
package natsbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/heartmarshall/carehome-backend/internal/config"
	"github.com/heartmarshall/carehome-backend/internal/domain"
)

// conn is the subset of *nats.Conn used by Publisher.
type conn interface {
	Publish(subj string, data []byte) error
	IsConnected() bool
	Drain() error
}

// Message is the JSON body published for each in-app notification.
type Message struct {
	ID                uuid.UUID      `json:"id"`
	RecipientID       uuid.UUID      `json:"recipientId"`
	Subject           string         `json:"subject"`
	Payload           map[string]any `json:"payload"`
	RelatedEntityType *string        `json:"relatedEntityType,omitempty"`
	RelatedEntityID   *string        `json:"relatedEntityId,omitempty"`
	CreatedBy         uuid.UUID      `json:"createdBy"`
	CreatedAt         time.Time      `json:"createdAt"`
}

// Publisher publishes notifications to <prefix>.<recipientId>.
type Publisher struct {
	nc     conn
	prefix string
	log    *slog.Logger
}

// Connect dials NATS. Reconnects are unlimited; connection state changes are logged.
func Connect(cfg config.NATSConfig, logger *slog.Logger) (*Publisher, error) {
	log := logger.With("adapter", "natsbus")

	opts := []nats.Option{
		nats.Name("carehome-notifications"),
		nats.Timeout(cfg.ConnectWait),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(cfg.ConnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn("nats disconnected", slog.Any("error", err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("nats reconnected", slog.String("url", nc.ConnectedUrl()))
		}),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			log.Error("nats error", slog.Any("error", err))
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}

	log.Info("nats connected", slog.String("url", nc.ConnectedUrl()))
	return newPublisher(nc, cfg.SubjectPrefix, log), nil
}

func newPublisher(nc conn, prefix string, log *slog.Logger) *Publisher {
	return &Publisher{nc: nc, prefix: prefix, log: log}
}

// Subject returns the subject a recipient's notifications are published on.
func (p *Publisher) Subject(recipientID uuid.UUID) string {
	return p.prefix + "." + recipientID.String()
}

// PublishNotification publishes one queue row.
func (p *Publisher) PublishNotification(ctx context.Context, item domain.NotificationQueueItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(Message{
		ID:                item.ID,
		RecipientID:       item.RecipientID,
		Subject:           item.Subject,
		Payload:           item.Payload,
		RelatedEntityType: item.RelatedEntityType,
		RelatedEntityID:   item.RelatedEntityID,
		CreatedBy:         item.CreatedBy,
		CreatedAt:         item.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("natsbus: encode notification %s: %w", item.ID, err)
	}

	if err := p.nc.Publish(p.Subject(item.RecipientID), data); err != nil {
		return fmt.Errorf("natsbus: publish notification %s: %w", item.ID, err)
	}
	return nil
}

// Ping reports whether the connection is currently up.
func (p *Publisher) Ping(_ context.Context) error {
	if !p.nc.IsConnected() {
		return fmt.Errorf("natsbus: not connected")
	}
	return nil
}

// Close flushes pending messages and closes the connection.
func (p *Publisher) Close() error {
	return p.nc.Drain()
}

// Noop discards every notification. It is used when no NATS URL is configured.
type Noop struct{}

// PublishNotification implements the publisher contract and does nothing.
func (Noop) PublishNotification(context.Context, domain.NotificationQueueItem) error { return nil }
