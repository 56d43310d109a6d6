package dto

import (
	"time"

	"github.com/fuelcard/reclamation-service/internal/domain"
	"github.com/fuelcard/reclamation-service/internal/service"
	"github.com/fuelcard/reclamation-service/internal/sla"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	ProblemType      domain.ProblemType    `json:"problem_type"`
	CardType         *domain.CardType      `json:"card_type"`
	CardNumber       string                `json:"card_number"`
	StationID        *string               `json:"station_id"`
	Description      string                `json:"description"`
	IncidentAt       time.Time             `json:"incident_at"`
	Priority         domain.TicketPriority `json:"priority"`
	ContactMethod    domain.ContactMethod  `json:"contact_method"`
	RequiresCallback bool                  `json:"requires_callback"`
}

// UpdateTicketRequest payload for content edits. Omitted fields keep
// their current values.
type UpdateTicketRequest struct {
	CardType         *domain.CardType       `json:"card_type"`
	CardNumber       *string                `json:"card_number"`
	StationID        *string                `json:"station_id"`
	ClearStation     bool                   `json:"clear_station"`
	Description      *string                `json:"description"`
	IncidentAt       *time.Time             `json:"incident_at"`
	Priority         *domain.TicketPriority `json:"priority"`
	ContactMethod    *domain.ContactMethod  `json:"contact_method"`
	RequiresCallback *bool                  `json:"requires_callback"`
}

// ChangeStatusRequest payload.
type ChangeStatusRequest struct {
	Status  domain.TicketStatus `json:"status"`
	Message string              `json:"message"`
}

// CreateUpdateRequest payload for comments and internal notes.
type CreateUpdateRequest struct {
	Message        string `json:"message"`
	IsInternalNote bool   `json:"is_internal_note"`
}

// TicketSummary response.
type TicketSummary struct {
	ID                   string                `json:"id"`
	ReporterID           string                `json:"reporter_id"`
	ProblemType          domain.ProblemType    `json:"problem_type"`
	StationID            *string               `json:"station_id"`
	Status               domain.TicketStatus   `json:"status"`
	Priority             domain.TicketPriority `json:"priority"`
	AssignedTeam         domain.Team           `json:"assigned_team"`
	AssignedSpecialistID *string               `json:"assigned_specialist_id"`
	EstimatedResolution  *time.Time            `json:"estimated_resolution"`
	Overdue              bool                  `json:"overdue"`
	CreatedAt            time.Time             `json:"created_at"`
	UpdatedAt            time.Time             `json:"updated_at"`
}

// TicketDetailResponse provides full reclamation info.
type TicketDetailResponse struct {
	ID                   string                 `json:"id"`
	ReporterID           string                 `json:"reporter_id"`
	ProblemType          domain.ProblemType     `json:"problem_type"`
	CardType             *domain.CardType       `json:"card_type"`
	CardNumber           string                 `json:"card_number"`
	StationID            *string                `json:"station_id"`
	Description          string                 `json:"description"`
	IncidentAt           time.Time              `json:"incident_at"`
	Status               domain.TicketStatus    `json:"status"`
	Priority             domain.TicketPriority  `json:"priority"`
	AssignedTeam         domain.Team            `json:"assigned_team"`
	AssignedSpecialistID *string                `json:"assigned_specialist_id"`
	ContactMethod        domain.ContactMethod   `json:"contact_method"`
	RequiresCallback     bool                   `json:"requires_callback"`
	EstimatedResolution  *time.Time             `json:"estimated_resolution"`
	SLAProgress          int                    `json:"sla_progress"`
	Overdue              bool                   `json:"overdue"`
	CreatedAt            time.Time              `json:"created_at"`
	UpdatedAt            time.Time              `json:"updated_at"`
	Updates              []TicketUpdateResponse `json:"updates"`
}

// TicketUpdateResponse represents one audit trail entry.
type TicketUpdateResponse struct {
	ID             string               `json:"id"`
	AuthorID       *string              `json:"author_id"`
	Message        string               `json:"message"`
	IsStatusChange bool                 `json:"is_status_change"`
	NewStatus      *domain.TicketStatus `json:"new_status,omitempty"`
	IsInternalNote bool                 `json:"is_internal_note"`
	CreatedAt      time.Time            `json:"created_at"`
}

// UnclaimedResponse is the specialist dashboard payload.
type UnclaimedResponse struct {
	Tickets    []TicketSummary `json:"tickets"`
	Total      int             `json:"total"`
	Open       int             `json:"open"`
	InProgress int             `json:"in_progress"`
}

// NewTicketSummary maps a domain ticket to its list representation.
func NewTicketSummary(t domain.Ticket, now time.Time) TicketSummary {
	return TicketSummary{
		ID:                   t.ID,
		ReporterID:           t.ReporterID,
		ProblemType:          t.ProblemType,
		StationID:            t.StationID,
		Status:               t.Status,
		Priority:             t.Priority,
		AssignedTeam:         t.AssignedTeam,
		AssignedSpecialistID: t.AssignedSpecialistID,
		EstimatedResolution:  t.EstimatedResolution,
		Overdue:              isOverdue(t, now),
		CreatedAt:            t.CreatedAt,
		UpdatedAt:            t.UpdatedAt,
	}
}

// NewTicketSummaries maps a slice of tickets.
func NewTicketSummaries(tickets []domain.Ticket, now time.Time) []TicketSummary {
	out := make([]TicketSummary, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, NewTicketSummary(t, now))
	}
	return out
}

// NewTicketDetail maps a ticket with its audit trail.
func NewTicketDetail(t *domain.Ticket, trail []domain.TicketUpdate, now time.Time) TicketDetailResponse {
	updates := make([]TicketUpdateResponse, 0, len(trail))
	for _, entry := range trail {
		updates = append(updates, TicketUpdateResponse{
			ID:             entry.ID,
			AuthorID:       entry.AuthorID,
			Message:        entry.Message,
			IsStatusChange: entry.IsStatusChange,
			NewStatus:      entry.NewStatus,
			IsInternalNote: entry.IsInternalNote,
			CreatedAt:      entry.CreatedAt,
		})
	}
	progress := 0
	if t.EstimatedResolution != nil {
		progress = sla.Progress(now, *t.EstimatedResolution, sla.DurationFor(t.ProblemType))
	}
	return TicketDetailResponse{
		ID:                   t.ID,
		ReporterID:           t.ReporterID,
		ProblemType:          t.ProblemType,
		CardType:             t.CardType,
		CardNumber:           t.CardNumber,
		StationID:            t.StationID,
		Description:          t.Description,
		IncidentAt:           t.IncidentAt,
		Status:               t.Status,
		Priority:             t.Priority,
		AssignedTeam:         t.AssignedTeam,
		AssignedSpecialistID: t.AssignedSpecialistID,
		ContactMethod:        t.ContactMethod,
		RequiresCallback:     t.RequiresCallback,
		EstimatedResolution:  t.EstimatedResolution,
		SLAProgress:          progress,
		Overdue:              isOverdue(*t, now),
		CreatedAt:            t.CreatedAt,
		UpdatedAt:            t.UpdatedAt,
		Updates:              updates,
	}
}

// NewUnclaimedResponse maps the dashboard listing.
func NewUnclaimedResponse(tickets []domain.Ticket, stats service.UnclaimedStats, now time.Time) UnclaimedResponse {
	return UnclaimedResponse{
		Tickets:    NewTicketSummaries(tickets, now),
		Total:      stats.Total,
		Open:       stats.Open,
		InProgress: stats.InProgress,
	}
}

func isOverdue(t domain.Ticket, now time.Time) bool {
	if t.EstimatedResolution == nil {
		return false
	}
	return sla.IsOverdue(now, *t.EstimatedResolution, t.Status)
}
