package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/fuelcard/reclamation-service/internal/authz"
	"github.com/fuelcard/reclamation-service/internal/domain"
	"github.com/fuelcard/reclamation-service/internal/events"
	"github.com/fuelcard/reclamation-service/internal/repository"
	"github.com/fuelcard/reclamation-service/internal/routing"
	"github.com/fuelcard/reclamation-service/internal/sla"
	apperrors "github.com/fuelcard/reclamation-service/pkg/util"
)

// ClaimCache records who claimed a ticket, best effort.
type ClaimCache interface {
	SetClaim(ctx context.Context, ticketID, specialistName string)
	GetClaim(ctx context.Context, ticketID string) string
}

// TicketService is the lifecycle engine: it validates transitions,
// routes new tickets, drives assignment and the audit trail, and emits
// events once state is committed.
type TicketService struct {
	tickets     repository.TicketRepository
	updates     repository.TicketUpdateRepository
	stations    repository.StationRepository
	assignments *AssignmentService
	dispatcher  events.Dispatcher
	claims      ClaimCache
	logger      *zap.Logger
	now         func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	UpdateRepo  repository.TicketUpdateRepository
	StationRepo repository.StationRepository
	Assignments *AssignmentService
	Dispatcher  events.Dispatcher
	ClaimCache  ClaimCache
	Logger      *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:     deps.TicketRepo,
		updates:     deps.UpdateRepo,
		stations:    deps.StationRepo,
		assignments: deps.Assignments,
		dispatcher:  deps.Dispatcher,
		claims:      deps.ClaimCache,
		logger:      logger,
		now:         time.Now,
	}
}

// TicketCreateInput describes the reclamation form payload.
type TicketCreateInput struct {
	ProblemType      domain.ProblemType
	CardType         *domain.CardType
	CardNumber       string
	StationID        *string
	Description      string
	IncidentAt       time.Time
	Priority         domain.TicketPriority
	ContactMethod    domain.ContactMethod
	RequiresCallback bool
}

// TicketEditInput carries the content fields a direct edit may touch.
// Status, team and specialist are not here on purpose.
type TicketEditInput struct {
	CardType         *domain.CardType
	CardNumber       *string
	StationID        *string
	ClearStation     bool
	Description      *string
	IncidentAt       *time.Time
	Priority         *domain.TicketPriority
	ContactMethod    *domain.ContactMethod
	RequiresCallback *bool
}

// TicketListFilter narrows listings within the actor's visibility scope.
type TicketListFilter struct {
	Statuses []domain.TicketStatus
	Limit    int
	Offset   int
}

// UnclaimedStats summarizes a specialist's team backlog.
type UnclaimedStats struct {
	Total      int
	Open       int
	InProgress int
}

// Status transitions the engine permits. OPEN moves to IN_PROGRESS only
// through TakeCharge; UpdateStatus refuses that edge explicitly.
var statusTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusOpen:       {domain.TicketStatusInProgress, domain.TicketStatusRejected},
	domain.TicketStatusInProgress: {domain.TicketStatusResolved, domain.TicketStatusRejected},
	domain.TicketStatusResolved:   {},
	domain.TicketStatusRejected:   {},
}

func isValidTransition(current, next domain.TicketStatus) bool {
	for _, candidate := range statusTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// CreateTicket files a reclamation: routes it to a team, estimates the
// resolution deadline and attempts an automatic specialist assignment.
// The specialist may be pre-populated while the status stays OPEN; the
// ticket enters IN_PROGRESS only through TakeCharge.
func (s *TicketService) CreateTicket(ctx context.Context, actor *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if !actor.CanCreateTicket() {
		return nil, apperrors.NewPermissionDenied("role may not create reclamations")
	}
	if !input.ProblemType.Valid() {
		return nil, apperrors.NewValidationError("unknown problem type", map[string]any{"problem_type": input.ProblemType})
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, apperrors.NewValidationError("description required", nil)
	}
	if input.Priority == "" {
		input.Priority = domain.TicketPriorityMedium
	}
	if !input.Priority.Valid() {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": input.Priority})
	}
	if input.ContactMethod == "" {
		input.ContactMethod = domain.ContactEmail
	}
	if !input.ContactMethod.Valid() {
		return nil, apperrors.NewValidationError("unknown contact method", map[string]any{"contact_method": input.ContactMethod})
	}
	if input.StationID != nil {
		if _, err := s.stations.GetByID(ctx, *input.StationID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("station", map[string]any{"station_id": *input.StationID})
			}
			return nil, apperrors.MapError(err)
		}
	}

	now := s.now()
	estimated := sla.Estimate(now, input.ProblemType)
	ticket := &domain.Ticket{
		ReporterID:          actor.ID,
		ProblemType:         input.ProblemType,
		CardType:            input.CardType,
		CardNumber:          strings.TrimSpace(input.CardNumber),
		StationID:           input.StationID,
		Description:         strings.TrimSpace(input.Description),
		IncidentAt:          input.IncidentAt,
		Status:              domain.TicketStatusOpen,
		Priority:            input.Priority,
		AssignedTeam:        routing.TeamFor(input.ProblemType),
		ContactMethod:       input.ContactMethod,
		RequiresCallback:    input.RequiresCallback,
		EstimatedResolution: &estimated,
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    userActor(actor),
		Payload: events.TicketCreatedPayload{
			ReporterID:   ticket.ReporterID,
			ProblemType:  ticket.ProblemType,
			AssignedTeam: ticket.AssignedTeam,
			Priority:     ticket.Priority,
		},
	})

	s.autoAssign(ctx, ticket)
	return ticket, nil
}

// autoAssign is best effort: no eligible specialist, or a lost race on
// the assignment update, leaves the ticket unclaimed for the whole team.
func (s *TicketService) autoAssign(ctx context.Context, ticket *domain.Ticket) {
	specialist, err := s.assignments.SelectSpecialist(ctx, ticket.AssignedTeam)
	if err != nil {
		s.logger.Error("auto-assignment lookup failed",
			zap.String("ticket_id", ticket.ID),
			zap.String("team", string(ticket.AssignedTeam)),
			zap.Error(err))
		return
	}
	if specialist == nil {
		s.logger.Warn("no specialist available for team",
			zap.String("ticket_id", ticket.ID),
			zap.String("team", string(ticket.AssignedTeam)))
		return
	}

	if err := s.tickets.AssignSpecialist(ctx, ticket.ID, specialist.ID); err != nil {
		s.logger.Error("auto-assignment failed",
			zap.String("ticket_id", ticket.ID),
			zap.String("specialist_id", specialist.ID),
			zap.Error(err))
		return
	}
	ticket.AssignedSpecialistID = &specialist.ID

	entry := &domain.TicketUpdate{
		TicketID: ticket.ID,
		AuthorID: nil, // system-generated
		Message:  fmt.Sprintf("Automatically assigned to %s", specialist.Name),
	}
	if err := s.updates.Create(ctx, entry); err != nil {
		s.logger.Error("auto-assignment audit entry failed",
			zap.String("ticket_id", ticket.ID),
			zap.Error(err))
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		Actor:    events.Actor{},
		Payload: events.TicketAssignedPayload{
			SpecialistID:    specialist.ID,
			SpecialistEmail: specialist.Email,
			Team:            ticket.AssignedTeam,
		},
	})
}

// TakeCharge claims an OPEN ticket for the acting specialist. Exactly one
// caller wins; the rest get a conflict naming the winner when known.
func (s *TicketService) TakeCharge(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	eligible := actor != nil && (actor.IsAdmin() || (actor.IsSpecialist() && actor.OnTeam(ticket.AssignedTeam)))
	if !eligible {
		return nil, apperrors.NewPermissionDenied("reclamation is not assigned to your team")
	}
	switch ticket.Status {
	case domain.TicketStatusOpen:
		// proceed
	case domain.TicketStatusInProgress:
		return nil, s.conflictAlreadyTaken(ctx, ticket)
	default:
		return nil, apperrors.NewInvalidTransition("reclamation is closed", map[string]any{"status": ticket.Status})
	}
	if !authz.Can(actor, ticket, authz.ActionTakeCharge) {
		// open but provisionally assigned to someone else
		return nil, apperrors.NewPermissionDenied("reclamation is reserved for its assigned specialist")
	}

	estimated := sla.Estimate(s.now(), ticket.ProblemType)
	claimed, err := s.tickets.Claim(ctx, ticket.ID, actor.ID, estimated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// someone else won between the read and the conditional write
			return nil, s.conflictAlreadyTaken(ctx, ticket)
		}
		return nil, apperrors.MapError(err)
	}
	if s.claims != nil {
		s.claims.SetClaim(ctx, claimed.ID, actor.Name)
	}

	newStatus := domain.TicketStatusInProgress
	entry := &domain.TicketUpdate{
		TicketID:       claimed.ID,
		AuthorID:       &actor.ID,
		Message:        fmt.Sprintf("Taken in charge by %s - estimated resolution %s", actor.Name, estimated.Format("02/01/2006")),
		IsStatusChange: true,
		NewStatus:      &newStatus,
	}
	if err := s.updates.Create(ctx, entry); err != nil {
		s.logger.Error("take-charge audit entry failed", zap.String("ticket_id", claimed.ID), zap.Error(err))
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketClaimed,
		TicketID: claimed.ID,
		Actor:    userActor(actor),
		Payload: events.TicketClaimedPayload{
			SpecialistID:        actor.ID,
			ReporterID:          claimed.ReporterID,
			EstimatedResolution: estimated,
		},
	})
	return claimed, nil
}

func (s *TicketService) conflictAlreadyTaken(ctx context.Context, ticket *domain.Ticket) error {
	details := map[string]any{"ticket_id": ticket.ID}
	if s.claims != nil {
		if name := s.claims.GetClaim(ctx, ticket.ID); name != "" {
			details["taken_by"] = name
		}
	}
	return apperrors.NewConflict("reclamation already taken in charge", details)
}

// UpdateStatus moves a ticket to RESOLVED or REJECTED. OPEN to
// IN_PROGRESS is reserved for TakeCharge.
func (s *TicketService) UpdateStatus(ctx context.Context, actor *domain.User, ticketID string, newStatus domain.TicketStatus, message string) (*domain.Ticket, error) {
	if !newStatus.Valid() {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": newStatus})
	}
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !authz.CanChangeStatus(actor, ticket) {
		return nil, apperrors.NewPermissionDenied("not allowed to change status")
	}
	if newStatus == domain.TicketStatusInProgress {
		return nil, apperrors.NewInvalidTransition("status becomes IN_PROGRESS through take-charge only", nil)
	}
	if !isValidTransition(ticket.Status, newStatus) {
		return nil, apperrors.NewInvalidTransition(
			fmt.Sprintf("cannot move from %s to %s", ticket.Status, newStatus),
			map[string]any{"from": ticket.Status, "to": newStatus},
		)
	}

	oldStatus := ticket.Status
	if err := s.tickets.ChangeStatus(ctx, ticket.ID, oldStatus, newStatus); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewConflict("reclamation changed concurrently", map[string]any{"ticket_id": ticket.ID})
		}
		return nil, apperrors.MapError(err)
	}
	ticket.Status = newStatus

	if strings.TrimSpace(message) == "" {
		message = fmt.Sprintf("Status changed to %s", newStatus)
	}
	entry := &domain.TicketUpdate{
		TicketID:       ticket.ID,
		AuthorID:       &actor.ID,
		Message:        message,
		IsStatusChange: true,
		NewStatus:      &newStatus,
	}
	if err := s.updates.Create(ctx, entry); err != nil {
		s.logger.Error("status-change audit entry failed", zap.String("ticket_id", ticket.ID), zap.Error(err))
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Actor:    userActor(actor),
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
			Message:   message,
		},
	})
	return ticket, nil
}

// UpdateContent edits the reclamation's content fields. The assigned team
// never changes after creation, whatever the edit.
func (s *TicketService) UpdateContent(ctx context.Context, actor *domain.User, ticketID string, input TicketEditInput) (*domain.Ticket, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, ticket, authz.ActionUpdate) {
		return nil, apperrors.NewPermissionDenied("not allowed to edit this reclamation")
	}

	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": *input.Priority})
		}
		ticket.Priority = *input.Priority
	}
	if input.CardType != nil {
		ticket.CardType = input.CardType
	}
	if input.CardNumber != nil {
		ticket.CardNumber = strings.TrimSpace(*input.CardNumber)
	}
	if input.ClearStation {
		ticket.StationID = nil
	} else if input.StationID != nil {
		if _, err := s.stations.GetByID(ctx, *input.StationID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("station", map[string]any{"station_id": *input.StationID})
			}
			return nil, apperrors.MapError(err)
		}
		ticket.StationID = input.StationID
	}
	if input.Description != nil {
		if strings.TrimSpace(*input.Description) == "" {
			return nil, apperrors.NewValidationError("description required", nil)
		}
		ticket.Description = strings.TrimSpace(*input.Description)
	}
	if input.IncidentAt != nil {
		ticket.IncidentAt = *input.IncidentAt
	}
	if input.ContactMethod != nil {
		if !input.ContactMethod.Valid() {
			return nil, apperrors.NewValidationError("unknown contact method", map[string]any{"contact_method": *input.ContactMethod})
		}
		ticket.ContactMethod = *input.ContactMethod
	}
	if input.RequiresCallback != nil {
		ticket.RequiresCallback = *input.RequiresCallback
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("reclamation", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// Delete removes a reclamation and, through the store's cascade, its
// audit trail.
func (s *TicketService) Delete(ctx context.Context, actor *domain.User, ticketID string) error {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return err
	}
	if !authz.Can(actor, ticket, authz.ActionDelete) {
		return apperrors.NewPermissionDenied("not allowed to delete this reclamation")
	}
	if err := s.tickets.Delete(ctx, ticket.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("reclamation", map[string]any{"ticket_id": ticketID})
		}
		return apperrors.MapError(err)
	}
	s.publish(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: ticket.ID,
		Actor:    userActor(actor),
		Payload:  events.TicketDeletedPayload{ReporterID: ticket.ReporterID},
	})
	return nil
}

// AddUpdate appends a comment or internal note to the audit trail.
func (s *TicketService) AddUpdate(ctx context.Context, actor *domain.User, ticketID, message string, internalNote bool) (*domain.TicketUpdate, error) {
	if strings.TrimSpace(message) == "" {
		return nil, apperrors.NewValidationError("message required", nil)
	}
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	action := authz.ActionUpdate
	if internalNote {
		action = authz.ActionViewInternalNotes
	}
	if !authz.Can(actor, ticket, action) {
		return nil, apperrors.NewPermissionDenied("not allowed to comment on this reclamation")
	}

	entry := &domain.TicketUpdate{
		TicketID:       ticket.ID,
		AuthorID:       &actor.ID,
		Message:        strings.TrimSpace(message),
		IsInternalNote: internalNote,
	}
	if err := s.updates.Create(ctx, entry); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketUpdateAdded,
		TicketID: ticket.ID,
		Actor:    userActor(actor),
		Payload: events.TicketUpdateAddedPayload{
			UpdateID:       entry.ID,
			IsInternalNote: entry.IsInternalNote,
		},
	})
	return entry, nil
}

// GetTicket returns a ticket and its visible audit trail. Internal notes
// are stripped unless the matrix grants VIEW_INTERNAL_NOTES.
func (s *TicketService) GetTicket(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, []domain.TicketUpdate, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, nil, err
	}
	if !authz.Can(actor, ticket, authz.ActionView) {
		return nil, nil, apperrors.NewPermissionDenied("not allowed to view this reclamation")
	}

	trail, err := s.updates.ListByTicket(ctx, ticket.ID, 0, 0)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	if !authz.Can(actor, ticket, authz.ActionViewInternalNotes) {
		visible := make([]domain.TicketUpdate, 0, len(trail))
		for _, entry := range trail {
			if entry.IsInternalNote {
				continue
			}
			visible = append(visible, entry)
		}
		trail = visible
	}
	return ticket, trail, nil
}

// ListTickets returns tickets within the actor's visibility scope:
// clients see their own, agents their station's, specialists their teams'
// and their own assignments, admins everything.
func (s *TicketService) ListTickets(ctx context.Context, actor *domain.User, filter TicketListFilter) ([]domain.Ticket, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	repoFilter := repository.TicketFilter{
		Statuses: filter.Statuses,
		Limit:    filter.Limit,
		Offset:   filter.Offset,
	}
	switch {
	case actor.IsAdmin():
		// unrestricted
	case actor.Role == domain.RoleClient:
		repoFilter.ReporterID = &actor.ID
	case actor.Role == domain.RoleAgent:
		if actor.AssignedStationID == nil {
			return []domain.Ticket{}, nil
		}
		repoFilter.StationID = actor.AssignedStationID
	case actor.IsSpecialist():
		repoFilter.TeamOrSpecialist = &repository.TeamOrSpecialistScope{
			SpecialistID: actor.ID,
			Teams:        actor.Teams,
		}
	default:
		return nil, apperrors.NewPermissionDenied("no reclamation access for role")
	}
	tickets, err := s.tickets.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// ListUnclaimed returns the actor's team backlog: non-terminal tickets
// with no owning specialist, plus summary counts.
func (s *TicketService) ListUnclaimed(ctx context.Context, actor *domain.User) ([]domain.Ticket, UnclaimedStats, error) {
	if actor == nil || !actor.IsSpecialist() {
		return nil, UnclaimedStats{}, apperrors.NewPermissionDenied("specialist role required")
	}
	unassigned := true
	tickets, err := s.tickets.ListWithFilter(ctx, repository.TicketFilter{
		AssignedTeams: actor.Teams,
		Statuses:      []domain.TicketStatus{domain.TicketStatusOpen, domain.TicketStatusInProgress},
		Unassigned:    &unassigned,
		Limit:         200,
	})
	if err != nil {
		return nil, UnclaimedStats{}, apperrors.MapError(err)
	}
	stats := UnclaimedStats{Total: len(tickets)}
	for _, t := range tickets {
		switch t.Status {
		case domain.TicketStatusOpen:
			stats.Open++
		case domain.TicketStatusInProgress:
			stats.InProgress++
		}
	}
	return tickets, stats, nil
}

func (s *TicketService) getTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("reclamation", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func userActor(user *domain.User) events.Actor {
	if user == nil {
		return events.Actor{}
	}
	return events.Actor{UserID: &user.ID, Role: user.Role}
}
