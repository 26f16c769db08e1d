package workflow

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/carehome-backend/internal/domain"
)

// AuditInput describes the audit event written for a dispatched workflow event.
type AuditInput struct {
	ActorID     uuid.UUID
	CareHomeID  *uuid.UUID
	EntityType  string
	EntityID    string
	Description string
	Metadata    map[string]any
}

// RecordAudit writes one audit event with action "created".
func (s *Service) RecordAudit(ctx context.Context, in AuditInput) Outcome {
	err := s.audit.Log(ctx, domain.AuditEvent{
		ActorID:     in.ActorID,
		CareHomeID:  in.CareHomeID,
		EntityType:  in.EntityType,
		EntityID:    in.EntityID,
		Action:      domain.AuditActionCreated,
		Description: in.Description,
		Metadata:    in.Metadata,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "audit event failed",
			slog.String("entity_type", in.EntityType),
			slog.String("entity_id", in.EntityID),
			slog.String("error", err.Error()),
		)
		return failed(OpRecordAudit, err)
	}
	return succeeded(OpRecordAudit, 1)
}
