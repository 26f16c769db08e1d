// Package audit implements the audit event repository using PostgreSQL.
// It provides append-only operations for audit events.
package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	postgres "github.com/heartmarshall/carehome-backend/internal/adapter/postgres"
	"github.com/heartmarshall/carehome-backend/internal/domain"
)

const table = "audit_events"

var columns = []string{
	"id", "actor_id", "care_home_id", "entity_type", "entity_id",
	"action", "description", "metadata", "created_at",
}

// Repo provides audit event persistence backed by PostgreSQL.
type Repo struct {
	q postgres.Querier
}

// New creates a new audit repository.
func New(q postgres.Querier) *Repo {
	return &Repo{q: q}
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts an audit event and returns it with the id and created_at
// assigned by the database.
func (r *Repo) Create(ctx context.Context, event domain.AuditEvent) (domain.AuditEvent, error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}

	metadata, err := json.Marshal(nonNilMap(event.Metadata))
	if err != nil {
		return domain.AuditEvent{}, fmt.Errorf("audit_event marshal metadata: %w", err)
	}

	query, args, err := postgres.Builder().
		Insert(table).
		Columns("id", "actor_id", "care_home_id", "entity_type", "entity_id", "action", "description", "metadata").
		Values(event.ID, event.ActorID, event.CareHomeID, event.EntityType, event.EntityID,
			string(event.Action), event.Description, metadata).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return domain.AuditEvent{}, fmt.Errorf("build audit insert: %w", err)
	}

	if err := r.q.QueryRow(ctx, query, args...).Scan(&event.CreatedAt); err != nil {
		return domain.AuditEvent{}, postgres.MapError(err, "audit_event", event.ID)
	}
	return event, nil
}

// Log creates an audit event without returning it.
func (r *Repo) Log(ctx context.Context, event domain.AuditEvent) error {
	_, err := r.Create(ctx, event)
	return err
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// ListByEntity returns the history of an entity, newest first.
func (r *Repo) ListByEntity(ctx context.Context, entityType, entityID string, limit int) ([]domain.AuditEvent, error) {
	query, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where("entity_type = ?", entityType).
		Where("entity_id = ?", entityID).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build audit list query: %w", err)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "audit_events", entityID)
	}
	defer rows.Close()

	events := make([]domain.AuditEvent, 0)
	for rows.Next() {
		var (
			ev       domain.AuditEvent
			action   string
			metadata []byte
		)
		err := rows.Scan(&ev.ID, &ev.ActorID, &ev.CareHomeID, &ev.EntityType, &ev.EntityID,
			&action, &ev.Description, &metadata, &ev.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		ev.Action = domain.AuditAction(action)
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &ev.Metadata); err != nil {
				return nil, fmt.Errorf("audit_event %s unmarshal metadata: %w", ev.ID, err)
			}
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "audit_events", entityID)
	}
	return events, nil
}

func nonNilMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
