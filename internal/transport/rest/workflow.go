package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/carehome-backend/internal/domain"
	"github.com/heartmarshall/carehome-backend/internal/service/workflow"
	"github.com/heartmarshall/carehome-backend/pkg/ctxutil"
)

const maxEventBody = 64 << 10

type dispatcher interface {
	Dispatch(ctx context.Context, event domain.WorkflowEvent, actorID uuid.UUID) (workflow.DispatchResult, error)
}

// WorkflowHandler accepts workflow events from the application.
type WorkflowHandler struct {
	svc dispatcher
	log *slog.Logger
}

// NewWorkflowHandler creates a WorkflowHandler.
func NewWorkflowHandler(svc dispatcher, logger *slog.Logger) *WorkflowHandler {
	return &WorkflowHandler{svc: svc, log: logger.With("handler", "workflow")}
}

// eventDetails holds the descriptive fields of an event. Clients may send
// them at the top level or nested under "details".
type eventDetails struct {
	IncidentType string  `json:"incidentType"`
	Severity     string  `json:"severity"`
	IncidentDate string  `json:"incidentDate"`
	ReporterName *string `json:"reporterName"`
	Title        string  `json:"title"`
	StartDate    string  `json:"startDate"`
	ReviewDate   *string `json:"reviewDate"`
	CreatorName  *string `json:"creatorName"`
	ClientName   *string `json:"clientName"`
}

type eventRequest struct {
	Type       string        `json:"type"`
	IncidentID string        `json:"incidentId"`
	CarePlanID string        `json:"carePlanId"`
	ClientID   string        `json:"clientId"`
	CareHomeID string        `json:"careHomeId"`
	Details    *eventDetails `json:"details"`
	eventDetails
}

type eventResponse struct {
	Processed bool `json:"processed"`
}

// Submit handles POST /api/workflow/events.
func (h *WorkflowHandler) Submit(w http.ResponseWriter, r *http.Request) {
	actorID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req eventRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxEventBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	event, err := req.toEvent()
	if err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	if _, err := h.svc.Dispatch(r.Context(), event, actorID); err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, eventResponse{Processed: true})
}

func (req eventRequest) toEvent() (domain.WorkflowEvent, error) {
	d := req.eventDetails
	if req.Details != nil {
		d = mergeDetails(d, *req.Details)
	}

	var errs []domain.FieldError
	parseID := func(field, raw string) uuid.UUID {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return uuid.Nil
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			errs = append(errs, domain.FieldError{Field: field, Message: "must be a UUID"})
			return uuid.Nil
		}
		return id
	}

	var event domain.WorkflowEvent
	switch domain.EventType(strings.TrimSpace(req.Type)) {
	case domain.EventTypeIncidentCreated:
		event = domain.IncidentCreated{
			IncidentID:   parseID("incidentId", req.IncidentID),
			CareHomeID:   parseID("careHomeId", req.CareHomeID),
			IncidentType: d.IncidentType,
			Severity:     d.Severity,
			ClientName:   d.ClientName,
			ReporterName: d.ReporterName,
			IncidentDate: d.IncidentDate,
		}
	case domain.EventTypeCarePlanCreated:
		e := domain.CarePlanCreated{
			CarePlanID:  parseID("carePlanId", req.CarePlanID),
			ClientID:    parseID("clientId", req.ClientID),
			Title:       d.Title,
			ClientName:  d.ClientName,
			CreatorName: d.CreatorName,
			StartDate:   d.StartDate,
			ReviewDate:  d.ReviewDate,
		}
		if id := parseID("careHomeId", req.CareHomeID); id != uuid.Nil {
			e.CareHomeID = &id
		}
		event = e
	case "":
		return nil, domain.NewValidationError("type", "is required")
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedEvent, req.Type)
	}

	if len(errs) > 0 {
		return nil, domain.NewValidationErrors(errs)
	}
	return event, nil
}

// mergeDetails fills blanks in top with values from nested.
func mergeDetails(top, nested eventDetails) eventDetails {
	pick := func(a, b string) string {
		if a != "" {
			return a
		}
		return b
	}
	pickPtr := func(a, b *string) *string {
		if a != nil {
			return a
		}
		return b
	}
	return eventDetails{
		IncidentType: pick(top.IncidentType, nested.IncidentType),
		Severity:     pick(top.Severity, nested.Severity),
		IncidentDate: pick(top.IncidentDate, nested.IncidentDate),
		ReporterName: pickPtr(top.ReporterName, nested.ReporterName),
		Title:        pick(top.Title, nested.Title),
		StartDate:    pick(top.StartDate, nested.StartDate),
		ReviewDate:   pickPtr(top.ReviewDate, nested.ReviewDate),
		CreatorName:  pickPtr(top.CreatorName, nested.CreatorName),
		ClientName:   pickPtr(top.ClientName, nested.ClientName),
	}
}
