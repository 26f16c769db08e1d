package workflow

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/carehome-backend/internal/domain"
)

// QueueRequest describes the notifications to queue for one event.
// Channels defaults to domain.DefaultChannels().
type QueueRequest struct {
	Recipients []uuid.UUID
	ActorID    uuid.UUID
	Subject    string
	Body       string
	Payload    map[string]any
	Channels   []domain.Channel
}

// QueueNotifications writes one queued row per recipient and channel in a
// single batch. An empty recipient list writes nothing. Inserted in-app rows
// are then pushed to the realtime bus.
func (s *Service) QueueNotifications(ctx context.Context, req QueueRequest) Outcome {
	if len(req.Recipients) == 0 {
		s.log.DebugContext(ctx, "no recipients, nothing queued")
		return skipped(OpQueueNotifications)
	}

	channels := req.Channels
	if len(channels) == 0 {
		channels = domain.DefaultChannels()
	}

	relatedType := stringField(req.Payload, "entityType")
	relatedID := stringField(req.Payload, "entityId")
	// CreatedAt is what realtime subscribers see; the stored value comes from the database.
	now := s.clock.Now().UTC()

	items := make([]domain.NotificationQueueItem, 0, len(req.Recipients)*len(channels))
	for _, recipient := range req.Recipients {
		for _, ch := range channels {
			items = append(items, domain.NotificationQueueItem{
				RecipientID:       recipient,
				Channel:           ch,
				Status:            domain.NotificationStatusQueued,
				Subject:           req.Subject,
				Payload:           rowPayload(req.Payload, req.Subject, req.Body, ch),
				RelatedEntityType: relatedType,
				RelatedEntityID:   relatedID,
				CreatedBy:         req.ActorID,
				CreatedAt:         now,
			})
		}
	}

	n, err := s.queue.InsertBatch(ctx, items)
	if err != nil {
		s.log.ErrorContext(ctx, "queue notifications failed",
			slog.Int("rows", len(items)),
			slog.String("error", err.Error()),
		)
		return failed(OpQueueNotifications, err)
	}

	perChannel := make(map[domain.Channel]int, len(channels))
	for _, it := range items {
		perChannel[it.Channel]++
	}
	for ch, count := range perChannel {
		s.metrics.NotificationsQueued(string(ch), count)
	}

	s.publishInApp(ctx, items)

	s.log.InfoContext(ctx, "notifications queued",
		slog.Int("recipients", len(req.Recipients)),
		slog.Int("rows", n),
	)
	return succeeded(OpQueueNotifications, n)
}

func (s *Service) publishInApp(ctx context.Context, items []domain.NotificationQueueItem) {
	for _, it := range items {
		if it.Channel != domain.ChannelInApp {
			continue
		}
		if err := s.realtime.PublishNotification(ctx, it); err != nil {
			s.log.WarnContext(ctx, "realtime publish failed",
				slog.String("notification_id", it.ID.String()),
				slog.String("error", err.Error()),
			)
		}
	}
}

// rowPayload copies the event payload and adds the fields that make a row
// self-describing.
func rowPayload(base map[string]any, subject, body string, ch domain.Channel) map[string]any {
	p := make(map[string]any, len(base)+3)
	for k, v := range base {
		p[k] = v
	}
	p["subject"] = subject
	p["body"] = body
	p["channel"] = string(ch)
	return p
}

// stringField returns payload[key] if it is a non-empty string.
func stringField(payload map[string]any, key string) *string {
	s, ok := payload[key].(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}
