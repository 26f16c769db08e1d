package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is a profile's position in the organisation.
type Role string

const (
	RoleBusinessOwner Role = "business_owner"
	RoleManager       Role = "manager"
	RoleStaff         Role = "staff"
)

func (r Role) String() string { return string(r) }

func (r Role) IsValid() bool {
	switch r {
	case RoleBusinessOwner, RoleManager, RoleStaff:
		return true
	}
	return false
}

// CareHome is a managed residential facility.
type CareHome struct {
	ID   uuid.UUID
	Name string
}

// Client is a resident of a care home.
type Client struct {
	ID            uuid.UUID
	FirstName     string
	LastName      string
	PreferredName *string
	CareHomeID    *uuid.UUID
}

// DisplayName returns the name staff use for the client, or "" when unknown.
func (c Client) DisplayName() string {
	if p := OptionalString(c.PreferredName); p != "" {
		return p
	}
	return strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
}

// Profile is an application user.
type Profile struct {
	ID        uuid.UUID
	Role      Role
	IsActive  bool
	Email     *string
	FirstName string
	LastName  string
	CreatedAt time.Time
}

// AuditAction is the kind of change an audit event records.
type AuditAction string

const (
	AuditActionCreated AuditAction = "created"
)

func (a AuditAction) String() string { return string(a) }

// AuditEvent is an append-only record of a significant action.
type AuditEvent struct {
	ID          uuid.UUID
	ActorID     uuid.UUID
	CareHomeID  *uuid.UUID
	EntityType  string
	EntityID    string
	Action      AuditAction
	Description string
	Metadata    map[string]any
	CreatedAt   time.Time
}
