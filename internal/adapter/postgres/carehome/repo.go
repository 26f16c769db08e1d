// Package carehome implements read access to care homes, their manager
// assignments and their clients.
package carehome

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	postgres "github.com/heartmarshall/carehome-backend/internal/adapter/postgres"
	"github.com/heartmarshall/carehome-backend/internal/domain"
)

// Repo provides care home persistence backed by PostgreSQL.
type Repo struct {
	q postgres.Querier
}

// New creates a new care home repository.
func New(q postgres.Querier) *Repo {
	return &Repo{q: q}
}

// GetCareHome returns the care home with the given id.
func (r *Repo) GetCareHome(ctx context.Context, id uuid.UUID) (domain.CareHome, error) {
	query, args, err := postgres.Builder().
		Select("id", "name").
		From("care_homes").
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return domain.CareHome{}, fmt.Errorf("build care_home query: %w", err)
	}

	var home domain.CareHome
	if err := r.q.QueryRow(ctx, query, args...).Scan(&home.ID, &home.Name); err != nil {
		return domain.CareHome{}, postgres.MapError(err, "care_home", id)
	}
	return home, nil
}

// ListManagerIDs returns the profile ids assigned as managers of the care home.
// An unknown care home yields an empty slice.
func (r *Repo) ListManagerIDs(ctx context.Context, careHomeID uuid.UUID) ([]uuid.UUID, error) {
	query, args, err := postgres.Builder().
		Select("manager_id").
		From("care_home_managers").
		Where("care_home_id = ?", careHomeID).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build care_home_managers query: %w", err)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "care_home_managers", careHomeID)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan manager id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "care_home_managers", careHomeID)
	}
	return ids, nil
}

// GetClient returns the client with the given id.
func (r *Repo) GetClient(ctx context.Context, id uuid.UUID) (domain.Client, error) {
	query, args, err := postgres.Builder().
		Select("id", "first_name", "last_name", "preferred_name", "care_home_id").
		From("clients").
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return domain.Client{}, fmt.Errorf("build client query: %w", err)
	}

	var c domain.Client
	err = r.q.QueryRow(ctx, query, args...).Scan(&c.ID, &c.FirstName, &c.LastName, &c.PreferredName, &c.CareHomeID)
	if err != nil {
		return domain.Client{}, postgres.MapError(err, "client", id)
	}
	return c, nil
}
