package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/carehome-backend/internal/domain"
)

// Entity types recorded on queue rows and audit events.
const (
	EntityTypeIncident = "incident"
	EntityTypeCarePlan = "care_plan"
)

// message is an enriched event ready for fan-out.
type message struct {
	CareHomeID       uuid.UUID
	EntityType       string
	EntityID         string
	Subject          string
	Body             string
	AuditDescription string
	Payload          map[string]any
}

func (s *Service) composeIncident(ctx context.Context, e domain.IncidentCreated) message {
	homeName := s.careHomeName(ctx, e.CareHomeID)
	link := "/incidents/" + e.IncidentID.String()

	payload := map[string]any{
		"eventType":    e.Type().String(),
		"entityType":   EntityTypeIncident,
		"entityId":     e.IncidentID.String(),
		"incidentId":   e.IncidentID.String(),
		"careHomeId":   e.CareHomeID.String(),
		"careHomeName": homeName,
		"incidentType": e.IncidentType,
		"severity":     e.Severity,
		"incidentDate": e.IncidentDate,
		"link":         link,
	}
	putOptional(payload, "clientName", e.ClientName)
	putOptional(payload, "reporterName", e.ReporterName)

	var b strings.Builder
	fmt.Fprintf(&b, "A new incident has been reported at %s.\n", homeName)
	writeLine(&b, "Type", e.IncidentType)
	writeLine(&b, "Severity", e.Severity)
	writeLine(&b, "Client", domain.OptionalString(e.ClientName))
	writeLine(&b, "Reported by", domain.OptionalString(e.ReporterName))
	writeLine(&b, "Date", e.IncidentDate)
	fmt.Fprintf(&b, "View incident: %s", link)

	return message{
		CareHomeID:       e.CareHomeID,
		EntityType:       EntityTypeIncident,
		EntityID:         e.IncidentID.String(),
		Subject:          "New incident reported at " + homeName,
		Body:             b.String(),
		AuditDescription: incidentDescription(e),
		Payload:          payload,
	}
}

func (s *Service) composeCarePlan(ctx context.Context, e domain.CarePlanCreated) (message, error) {
	careHomeID, clientName := s.carePlanContext(ctx, e)
	if careHomeID == uuid.Nil {
		return message{}, fmt.Errorf("care plan %s: no care home for client %s: %w",
			e.CarePlanID, e.ClientID, domain.ErrIncompleteContext)
	}

	homeName := s.careHomeName(ctx, careHomeID)
	title := strings.TrimSpace(e.Title)
	if title == "" {
		title = "Care plan"
	}
	link := "/care-plans/" + e.CarePlanID.String()

	payload := map[string]any{
		"eventType":    e.Type().String(),
		"entityType":   EntityTypeCarePlan,
		"entityId":     e.CarePlanID.String(),
		"carePlanId":   e.CarePlanID.String(),
		"clientId":     e.ClientID.String(),
		"clientName":   clientName,
		"careHomeId":   careHomeID.String(),
		"careHomeName": homeName,
		"title":        title,
		"startDate":    e.StartDate,
		"link":         link,
	}
	putOptional(payload, "reviewDate", e.ReviewDate)
	putOptional(payload, "creatorName", e.CreatorName)

	var b strings.Builder
	fmt.Fprintf(&b, "A new care plan %q has been created for %s at %s.\n", title, clientName, homeName)
	writeLine(&b, "Start date", e.StartDate)
	writeLine(&b, "Review date", domain.OptionalString(e.ReviewDate))
	writeLine(&b, "Created by", domain.OptionalString(e.CreatorName))
	fmt.Fprintf(&b, "View care plan: %s", link)

	return message{
		CareHomeID:       careHomeID,
		EntityType:       EntityTypeCarePlan,
		EntityID:         e.CarePlanID.String(),
		Subject:          "New care plan created for " + clientName,
		Body:             b.String(),
		AuditDescription: fmt.Sprintf("Care plan created: %s", title),
		Payload:          payload,
	}, nil
}

// carePlanContext resolves the care home and display name of the plan's
// client. The client record wins over values carried on the event.
func (s *Service) carePlanContext(ctx context.Context, e domain.CarePlanCreated) (uuid.UUID, string) {
	var careHomeID uuid.UUID
	if e.CareHomeID != nil {
		careHomeID = *e.CareHomeID
	}
	name := domain.OptionalString(e.ClientName)

	client, err := s.homes.GetClient(ctx, e.ClientID)
	if err != nil {
		s.log.WarnContext(ctx, "client lookup failed, using event values",
			slog.String("client_id", e.ClientID.String()),
			slog.String("error", err.Error()),
		)
	} else {
		if client.CareHomeID != nil && *client.CareHomeID != uuid.Nil {
			careHomeID = *client.CareHomeID
		}
		if dn := client.DisplayName(); dn != "" {
			name = dn
		}
	}

	if name == "" {
		name = domain.FallbackClientName
	}
	return careHomeID, name
}

// careHomeName returns the display name of the care home, or the fallback
// when the lookup fails or the name is blank.
func (s *Service) careHomeName(ctx context.Context, id uuid.UUID) string {
	home, err := s.homes.GetCareHome(ctx, id)
	if err != nil {
		s.log.WarnContext(ctx, "care home lookup failed, using fallback name",
			slog.String("care_home_id", id.String()),
			slog.String("error", err.Error()),
		)
		return domain.FallbackCareHomeName
	}
	if name := strings.TrimSpace(home.Name); name != "" {
		return name
	}
	return domain.FallbackCareHomeName
}

func incidentDescription(e domain.IncidentCreated) string {
	desc := "Incident reported"
	if t := strings.TrimSpace(e.IncidentType); t != "" {
		desc += ": " + t
	}
	if sev := strings.TrimSpace(e.Severity); sev != "" {
		desc += " (" + sev + ")"
	}
	return desc
}

func putOptional(m map[string]any, key string, v *string) {
	if s := domain.OptionalString(v); s != "" {
		m[key] = s
	}
}

func writeLine(b *strings.Builder, label, value string) {
	if value = strings.TrimSpace(value); value != "" {
		fmt.Fprintf(b, "%s: %s\n", label, value)
	}
}
