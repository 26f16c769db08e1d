package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/carehome-backend/internal/domain"
)

// DispatchResult is returned for every accepted event. Outcomes describe the
// best-effort fan-out and never turn an accepted event into an error.
type DispatchResult struct {
	Processed  bool
	Recipients int
	Outcomes   []Outcome
}

// Dispatch validates and enriches the event, then resolves recipients and
// concurrently queues notifications and records the audit event.
//
// Only invalid or unroutable events return an error, and they do so before
// any write. Fan-out is detached from ctx cancellation so a client that
// disconnects mid-request cannot leave it half done.
func (s *Service) Dispatch(ctx context.Context, event domain.WorkflowEvent, actorID uuid.UUID) (DispatchResult, error) {
	if event == nil {
		return DispatchResult{}, domain.NewValidationError("type", "is required")
	}
	eventType := event.Type().String()

	msg, err := s.prepare(ctx, event)
	if err != nil {
		s.metrics.EventDispatched(eventType, "rejected")
		return DispatchResult{}, err
	}

	fanCtx := context.WithoutCancel(ctx)

	res := s.ResolveRecipients(fanCtx, msg.CareHomeID, actorID)

	careHomeID := msg.CareHomeID
	var (
		queued, audited Outcome
		g               errgroup.Group
	)
	g.Go(func() error {
		queued = s.QueueNotifications(fanCtx, QueueRequest{
			Recipients: res.Recipients,
			ActorID:    actorID,
			Subject:    msg.Subject,
			Body:       msg.Body,
			Payload:    msg.Payload,
			Channels:   domain.DefaultChannels(),
		})
		return nil
	})
	g.Go(func() error {
		audited = s.RecordAudit(fanCtx, AuditInput{
			ActorID:     actorID,
			CareHomeID:  &careHomeID,
			EntityType:  msg.EntityType,
			EntityID:    msg.EntityID,
			Description: msg.AuditDescription,
			Metadata:    msg.Payload,
		})
		return nil
	})
	_ = g.Wait()

	outcomes := append(res.Outcomes, queued, audited)

	result := "processed"
	for _, o := range outcomes {
		if o.Failed() {
			result = "degraded"
			break
		}
	}
	s.metrics.EventDispatched(eventType, result)

	attrs := []any{
		slog.String("event_type", eventType),
		slog.String("entity_id", msg.EntityID),
		slog.String("actor_id", actorID.String()),
		slog.Int("recipients", len(res.Recipients)),
	}
	for _, o := range outcomes {
		attrs = append(attrs, slog.Any(o.Op, o))
	}
	s.log.InfoContext(ctx, "workflow event dispatched", attrs...)

	return DispatchResult{
		Processed:  true,
		Recipients: len(res.Recipients),
		Outcomes:   outcomes,
	}, nil
}

// prepare validates the event and builds its message. It performs reads only.
func (s *Service) prepare(ctx context.Context, event domain.WorkflowEvent) (message, error) {
	if err := event.Validate(); err != nil {
		return message{}, err
	}

	switch e := event.(type) {
	case domain.IncidentCreated:
		return s.composeIncident(ctx, e), nil
	case domain.CarePlanCreated:
		return s.composeCarePlan(ctx, e)
	default:
		return message{}, fmt.Errorf("%s: %w", event.Type(), domain.ErrUnsupportedEvent)
	}
}
