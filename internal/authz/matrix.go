// Package authz is the single authorization decision point for ticket
// operations. Every listing, detail, update, delete and status-change
// path goes through Can or CanChangeStatus; handlers and services must
// not re-implement these rules.
package authz

import "github.com/fuelcard/reclamation-service/internal/domain"

// Action identifies a gated ticket operation.
type Action string

const (
	ActionView              Action = "VIEW"
	ActionUpdate            Action = "UPDATE"
	ActionDelete            Action = "DELETE"
	ActionTakeCharge        Action = "TAKE_CHARGE"
	ActionViewInternalNotes Action = "VIEW_INTERNAL_NOTES"
)

// Can decides whether the actor may perform the action on the ticket.
// Rules are evaluated in priority order, first match wins:
//
//  1. superuser or ADMIN: everything
//  2. ticket owner: view, content update, delete while non-terminal
//  3. station agent at the ticket's station: view, update, internal notes
//  4. specialist on the assigned team: view, internal notes, take charge
//     while unclaimed (or already the provisional assignee); the owning
//     specialist additionally gets update and delete while non-terminal
func Can(actor *domain.User, ticket *domain.Ticket, action Action) bool {
	if actor == nil || ticket == nil {
		return false
	}

	if actor.IsAdmin() {
		return true
	}

	if ticket.ReporterID == actor.ID {
		switch action {
		case ActionView, ActionUpdate:
			return true
		case ActionDelete:
			return !ticket.Status.Terminal()
		}
		return false
	}

	if actor.Role == domain.RoleAgent && sameStation(actor, ticket) {
		switch action {
		case ActionView, ActionUpdate, ActionViewInternalNotes:
			return true
		}
		return false
	}

	if actor.IsSpecialist() && actor.OnTeam(ticket.AssignedTeam) {
		owning := ticket.AssignedSpecialistID != nil && *ticket.AssignedSpecialistID == actor.ID
		switch action {
		case ActionView, ActionViewInternalNotes:
			return true
		case ActionTakeCharge:
			// Auto-assignment at creation pre-populates the specialist
			// while the ticket stays OPEN; the provisional assignee may
			// still claim it.
			return ticket.Unclaimed() || owning
		case ActionUpdate:
			return ticket.Unclaimed() || owning
		case ActionDelete:
			return owning && !ticket.Status.Terminal()
		}
		return false
	}

	return false
}

// CanChangeStatus gates status transitions, which are narrower than
// content updates: the assigned specialist, a station agent at the
// ticket's station, or an administrator.
func CanChangeStatus(actor *domain.User, ticket *domain.Ticket) bool {
	if actor == nil || ticket == nil {
		return false
	}
	if actor.IsAdmin() {
		return true
	}
	if actor.Role == domain.RoleAgent && sameStation(actor, ticket) {
		return true
	}
	return actor.IsSpecialist() &&
		ticket.AssignedSpecialistID != nil &&
		*ticket.AssignedSpecialistID == actor.ID
}

func sameStation(actor *domain.User, ticket *domain.Ticket) bool {
	return actor.AssignedStationID != nil &&
		ticket.StationID != nil &&
		*actor.AssignedStationID == *ticket.StationID
}
