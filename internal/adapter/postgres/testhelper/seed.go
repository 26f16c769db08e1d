package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/carehome-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedCareHome creates a care home with a unique name.
func SeedCareHome(t *testing.T, pool *pgxpool.Pool) domain.CareHome {
	t.Helper()

	home := domain.CareHome{ID: uuid.New(), Name: "Sunrise " + uniqueSuffix()}
	_, err := pool.Exec(context.Background(),
		`INSERT INTO care_homes (id, name) VALUES ($1, $2)`, home.ID, home.Name)
	if err != nil {
		t.Fatalf("testhelper: SeedCareHome: %v", err)
	}
	return home
}

// SeedProfile creates an active profile with the given role and an email
// derived from a unique suffix.
func SeedProfile(t *testing.T, pool *pgxpool.Pool, role domain.Role) domain.Profile {
	t.Helper()

	suffix := uniqueSuffix()
	email := string(role) + "-" + suffix + "@example.com"
	p := domain.Profile{
		ID:        uuid.New(),
		Role:      role,
		IsActive:  true,
		Email:     &email,
		FirstName: "Test",
		LastName:  suffix,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO profiles (id, role, is_active, email, first_name, last_name, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, string(p.Role), p.IsActive, p.Email, p.FirstName, p.LastName, p.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedProfile: %v", err)
	}
	return p
}

// AssignManager links a manager profile to a care home.
func AssignManager(t *testing.T, pool *pgxpool.Pool, careHomeID, managerID uuid.UUID) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO care_home_managers (care_home_id, manager_id) VALUES ($1, $2)`, careHomeID, managerID)
	if err != nil {
		t.Fatalf("testhelper: AssignManager: %v", err)
	}
}

// SeedClient creates a client living in the given care home.
func SeedClient(t *testing.T, pool *pgxpool.Pool, careHomeID *uuid.UUID, preferredName *string) domain.Client {
	t.Helper()

	c := domain.Client{
		ID:            uuid.New(),
		FirstName:     "Jane",
		LastName:      "Doe",
		PreferredName: preferredName,
		CareHomeID:    careHomeID,
	}
	_, err := pool.Exec(context.Background(),
		`INSERT INTO clients (id, first_name, last_name, preferred_name, care_home_id) VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.FirstName, c.LastName, c.PreferredName, c.CareHomeID,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedClient: %v", err)
	}
	return c
}
