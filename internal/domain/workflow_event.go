package domain

import (
	"strings"

	"github.com/google/uuid"
)

// EventType is the wire tag of a workflow event.
type EventType string

const (
	EventTypeIncidentCreated EventType = "incident.created"
	EventTypeCarePlanCreated EventType = "care_plan.created"
)

func (t EventType) String() string { return string(t) }

func (t EventType) IsValid() bool {
	switch t {
	case EventTypeIncidentCreated, EventTypeCarePlanCreated:
		return true
	}
	return false
}

// WorkflowEvent is a domain happening that fans out into notifications and
// an audit entry. The set of variants is closed to this package.
type WorkflowEvent interface {
	Type() EventType
	Validate() error

	workflowEvent()
}

// IncidentCreated is emitted after an incident has been logged for a care home.
type IncidentCreated struct {
	IncidentID   uuid.UUID
	CareHomeID   uuid.UUID
	IncidentType string
	Severity     string
	ClientName   *string
	ReporterName *string
	IncidentDate string
}

func (IncidentCreated) Type() EventType { return EventTypeIncidentCreated }
func (IncidentCreated) workflowEvent()  {}

// Validate checks that the identifiers needed for routing are present.
func (e IncidentCreated) Validate() error {
	var errs []FieldError
	if e.IncidentID == uuid.Nil {
		errs = append(errs, FieldError{Field: "incidentId", Message: "is required"})
	}
	if e.CareHomeID == uuid.Nil {
		errs = append(errs, FieldError{Field: "careHomeId", Message: "is required"})
	}
	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}

// CarePlanCreated is emitted after a care plan has been created for a client.
// CareHomeID is optional; the client's own care home takes precedence.
type CarePlanCreated struct {
	CarePlanID  uuid.UUID
	ClientID    uuid.UUID
	CareHomeID  *uuid.UUID
	Title       string
	ClientName  *string
	CreatorName *string
	StartDate   string
	ReviewDate  *string
}

func (CarePlanCreated) Type() EventType { return EventTypeCarePlanCreated }
func (CarePlanCreated) workflowEvent()  {}

// Validate checks that the identifiers needed for routing are present.
func (e CarePlanCreated) Validate() error {
	var errs []FieldError
	if e.CarePlanID == uuid.Nil {
		errs = append(errs, FieldError{Field: "carePlanId", Message: "is required"})
	}
	if e.ClientID == uuid.Nil {
		errs = append(errs, FieldError{Field: "clientId", Message: "is required"})
	}
	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}

// Display fallbacks used when a lookup misses.
const (
	FallbackCareHomeName = "Care Home"
	FallbackClientName   = "Resident"
)

// OptionalString returns the trimmed value of s, or "" if s is nil.
func OptionalString(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
