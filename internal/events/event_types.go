package events

import (
	"time"

	"github.com/fuelcard/reclamation-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketAssigned      EventType = "ticket_assigned"
	EventTicketClaimed       EventType = "ticket_claimed"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketUpdateAdded   EventType = "ticket_update_added"
	EventTicketDeleted       EventType = "ticket_deleted"
)

// Actor identifies who triggered an event. A nil UserID means the system
// itself (e.g. automatic assignment at creation).
type Actor struct {
	UserID *string     `json:"user_id,omitempty"`
	Role   domain.Role `json:"role,omitempty"`
}

// Event represents a domain event emitted by services after the state
// change has been committed.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	ReporterID   string                `json:"reporter_id"`
	ProblemType  domain.ProblemType    `json:"problem_type"`
	AssignedTeam domain.Team           `json:"assigned_team"`
	Priority     domain.TicketPriority `json:"priority"`
}

// TicketAssignedPayload payload for the auto-assignment at creation.
type TicketAssignedPayload struct {
	SpecialistID    string      `json:"specialist_id"`
	SpecialistEmail string      `json:"specialist_email"`
	Team            domain.Team `json:"team"`
}

// TicketClaimedPayload payload for a successful take-charge.
type TicketClaimedPayload struct {
	SpecialistID        string    `json:"specialist_id"`
	ReporterID          string    `json:"reporter_id"`
	EstimatedResolution time.Time `json:"estimated_resolution"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	Message   string              `json:"message,omitempty"`
}

// TicketUpdateAddedPayload payload.
type TicketUpdateAddedPayload struct {
	UpdateID       string `json:"update_id"`
	IsInternalNote bool   `json:"is_internal_note"`
}

// TicketDeletedPayload payload.
type TicketDeletedPayload struct {
	ReporterID string `json:"reporter_id"`
}
