// Package profile implements read access to application user profiles.
package profile

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/carehome-backend/internal/adapter/postgres"
	"github.com/heartmarshall/carehome-backend/internal/domain"
)

// Repo provides profile persistence backed by PostgreSQL.
type Repo struct {
	q postgres.Querier
}

// New creates a new profile repository.
func New(q postgres.Querier) *Repo {
	return &Repo{q: q}
}

// GetByID returns a single profile.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.Profile, error) {
	query, args, err := postgres.Builder().
		Select("id", "role", "is_active", "email", "first_name", "last_name", "created_at").
		From("profiles").
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return domain.Profile{}, fmt.Errorf("build profile query: %w", err)
	}

	var (
		p    domain.Profile
		role string
	)
	err = r.q.QueryRow(ctx, query, args...).
		Scan(&p.ID, &role, &p.IsActive, &p.Email, &p.FirstName, &p.LastName, &p.CreatedAt)
	if err != nil {
		return domain.Profile{}, postgres.MapError(err, "profile", id)
	}
	p.Role = domain.Role(role)
	return p, nil
}

// ListActiveIDsByRole returns ids of active profiles holding role, across all care homes.
func (r *Repo) ListActiveIDsByRole(ctx context.Context, role domain.Role) ([]uuid.UUID, error) {
	query, args, err := postgres.Builder().
		Select("id").
		From("profiles").
		Where("role = ?", string(role)).
		Where("is_active = ?", true).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build profiles by role query: %w", err)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "profiles", role)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan profile id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "profiles", role)
	}
	return ids, nil
}

// EmailsByIDs resolves the email address of every given profile in one query.
// Profiles without an email are absent from the result.
func (r *Repo) EmailsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	emails := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return emails, nil
	}

	query, args, err := postgres.Builder().
		Select("id", "email").
		From("profiles").
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build profile emails query: %w", err)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "profiles", fmt.Sprintf("(%d ids)", len(ids)))
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id    uuid.UUID
			email *string
		)
		if err := rows.Scan(&id, &email); err != nil {
			return nil, fmt.Errorf("scan profile email: %w", err)
		}
		if email == nil || strings.TrimSpace(*email) == "" {
			continue
		}
		emails[id] = strings.TrimSpace(*email)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "profiles", fmt.Sprintf("(%d ids)", len(ids)))
	}
	return emails, nil
}
