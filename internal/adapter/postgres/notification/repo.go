// Package notification implements the notification queue repository using PostgreSQL.
//
// Rows move queued -> sending -> sent|failed. The queued -> sending transition
// is a single UPDATE over rows locked with FOR UPDATE SKIP LOCKED, so concurrent
// drains never claim the same row.
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/carehome-backend/internal/adapter/postgres"
	"github.com/heartmarshall/carehome-backend/internal/domain"
)

const table = "notification_queue"

const claimSQL = `
WITH picked AS (
	SELECT id
	FROM notification_queue
	WHERE channel = $1 AND status = 'queued'
	ORDER BY created_at ASC, id ASC
	LIMIT $2
	FOR UPDATE SKIP LOCKED
)
UPDATE notification_queue q
SET status = 'sending', claimed_at = now(), updated_at = now(), error_message = NULL
FROM picked
WHERE q.id = picked.id
RETURNING q.id, q.recipient_id, q.channel, q.status, q.subject, q.payload,
	q.related_entity_type, q.related_entity_id, q.created_by,
	q.created_at, q.claimed_at, q.sent_at, q.error_message`

// Repo provides notification queue persistence backed by PostgreSQL.
type Repo struct {
	q postgres.Querier
}

// New creates a new notification queue repository.
func New(q postgres.Querier) *Repo {
	return &Repo{q: q}
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// InsertBatch writes all items in one multi-row INSERT and returns the number
// of rows written. Items without an ID get one generated.
func (r *Repo) InsertBatch(ctx context.Context, items []domain.NotificationQueueItem) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	ins := postgres.Builder().
		Insert(table).
		Columns("id", "recipient_id", "channel", "status", "subject", "payload",
			"related_entity_type", "related_entity_id", "created_by")

	for i := range items {
		it := &items[i]
		if it.ID == uuid.Nil {
			it.ID = uuid.New()
		}
		if it.Status == "" {
			it.Status = domain.NotificationStatusQueued
		}
		payload, err := marshalPayload(it.Payload)
		if err != nil {
			return 0, fmt.Errorf("notification %s marshal payload: %w", it.ID, err)
		}
		ins = ins.Values(it.ID, it.RecipientID, string(it.Channel), string(it.Status), it.Subject, payload,
			it.RelatedEntityType, it.RelatedEntityID, it.CreatedBy)
	}

	query, args, err := ins.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build notification insert: %w", err)
	}

	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return 0, postgres.MapError(err, "notifications", fmt.Sprintf("(%d rows)", len(items)))
	}
	return int(tag.RowsAffected()), nil
}

// ClaimQueued atomically moves up to limit queued rows of the channel to
// sending and returns them oldest first.
func (r *Repo) ClaimQueued(ctx context.Context, channel domain.Channel, limit int) ([]domain.NotificationQueueItem, error) {
	rows, err := r.q.Query(ctx, claimSQL, string(channel), limit)
	if err != nil {
		return nil, postgres.MapError(err, "notifications", "claim")
	}

	items, err := scanItems(rows)
	if err != nil {
		return nil, fmt.Errorf("notifications claim: %w", err)
	}

	// UPDATE ... RETURNING does not preserve the CTE order.
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ID.String() < items[j].ID.String()
	})
	return items, nil
}

// MarkSent records a successful delivery and clears any previous error.
// Only a row still in sending is updated; otherwise domain.ErrConflict is
// returned because the claim was requeued or finished by another drain.
func (r *Repo) MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error {
	query, args, err := postgres.Builder().
		Update(table).
		Set("status", string(domain.NotificationStatusSent)).
		Set("sent_at", sentAt).
		Set("error_message", nil).
		Set("updated_at", sq.Expr("now()")).
		Where("id = ?", id).
		Where("status = ?", string(domain.NotificationStatusSending)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark sent: %w", err)
	}
	return r.execFinish(ctx, query, args, id)
}

// MarkFailed records a failed delivery with its error message. The same
// sending guard as MarkSent applies.
func (r *Repo) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	query, args, err := postgres.Builder().
		Update(table).
		Set("status", string(domain.NotificationStatusFailed)).
		Set("error_message", errMsg).
		Set("updated_at", sq.Expr("now()")).
		Where("id = ?", id).
		Where("status = ?", string(domain.NotificationStatusSending)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark failed: %w", err)
	}
	return r.execFinish(ctx, query, args, id)
}

// Release returns claimed rows that were never attempted back to queued.
func (r *Repo) Release(ctx context.Context, ids []uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query, args, err := postgres.Builder().
		Update(table).
		Set("status", string(domain.NotificationStatusQueued)).
		Set("claimed_at", nil).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": ids}).
		Where("status = ?", string(domain.NotificationStatusSending)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build release: %w", err)
	}

	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return 0, postgres.MapError(err, "notifications", "release")
	}
	return int(tag.RowsAffected()), nil
}

// RequeueStale moves rows of the channel that were claimed before cutoff and
// never finished back to queued, so a crashed drain cannot strand them.
func (r *Repo) RequeueStale(ctx context.Context, channel domain.Channel, cutoff time.Time) (int, error) {
	query, args, err := postgres.Builder().
		Update(table).
		Set("status", string(domain.NotificationStatusQueued)).
		Set("claimed_at", nil).
		Set("updated_at", sq.Expr("now()")).
		Where("channel = ?", string(channel)).
		Where("status = ?", string(domain.NotificationStatusSending)).
		Where("claimed_at < ?", cutoff).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build requeue stale: %w", err)
	}

	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return 0, postgres.MapError(err, "notifications", "requeue stale")
	}
	return int(tag.RowsAffected()), nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// Stats returns row counts grouped by status and channel.
func (r *Repo) Stats(ctx context.Context) (domain.NotificationQueueStats, error) {
	query, args, err := postgres.Builder().
		Select("status", "channel", "count(*)").
		From(table).
		GroupBy("status", "channel").
		ToSql()
	if err != nil {
		return domain.NotificationQueueStats{}, fmt.Errorf("build stats: %w", err)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return domain.NotificationQueueStats{}, postgres.MapError(err, "notifications", "stats")
	}
	defer rows.Close()

	stats := domain.NotificationQueueStats{ByChannel: make(map[domain.Channel]int)}
	for rows.Next() {
		var (
			status, channel string
			n               int64
		)
		if err := rows.Scan(&status, &channel, &n); err != nil {
			return domain.NotificationQueueStats{}, fmt.Errorf("scan stats: %w", err)
		}
		count := int(n)
		switch domain.NotificationStatus(status) {
		case domain.NotificationStatusQueued:
			stats.Queued += count
		case domain.NotificationStatusSending:
			stats.Sending += count
		case domain.NotificationStatusSent:
			stats.Sent += count
		case domain.NotificationStatusFailed:
			stats.Failed += count
		case domain.NotificationStatusCancelled:
			stats.Cancelled += count
		}
		stats.ByChannel[domain.Channel(channel)] += count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return domain.NotificationQueueStats{}, postgres.MapError(err, "notifications", "stats")
	}
	return stats, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// execFinish applies a terminal status update guarded on status = sending.
func (r *Repo) execFinish(ctx context.Context, query string, args []any, id uuid.UUID) error {
	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "notification", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("notification %s is no longer sending: %w", id, domain.ErrConflict)
	}
	return nil
}

func scanItems(rows pgx.Rows) ([]domain.NotificationQueueItem, error) {
	defer rows.Close()

	items := make([]domain.NotificationQueueItem, 0)
	for rows.Next() {
		var (
			it              domain.NotificationQueueItem
			channel, status string
			payload         []byte
		)
		err := rows.Scan(
			&it.ID, &it.RecipientID, &channel, &status, &it.Subject, &payload,
			&it.RelatedEntityType, &it.RelatedEntityID, &it.CreatedBy,
			&it.CreatedAt, &it.ClaimedAt, &it.SentAt, &it.ErrorMessage,
		)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		it.Channel = domain.Channel(channel)
		it.Status = domain.NotificationStatus(status)

		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &it.Payload); err != nil {
				return nil, fmt.Errorf("notification %s unmarshal payload: %w", it.ID, err)
			}
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func marshalPayload(p map[string]any) ([]byte, error) {
	if p == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(p)
}
