package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fuelcard/reclamation-service/internal/domain"
)

func strPtr(s string) *string { return &s }

func clientUser(id string) *domain.User {
	return &domain.User{ID: id, Role: domain.RoleClient, Active: true}
}

func techUser(id string) *domain.User {
	return &domain.User{ID: id, Role: domain.RoleTech, Teams: []domain.Team{domain.TeamTech}, Active: true}
}

func agentUser(id, stationID string) *domain.User {
	return &domain.User{ID: id, Role: domain.RoleAgent, Teams: []domain.Team{domain.TeamStation}, AssignedStationID: strPtr(stationID), Active: true}
}

func adminUser(id string) *domain.User {
	return &domain.User{ID: id, Role: domain.RoleAdmin, Active: true}
}

func openTechTicket(reporterID string) *domain.Ticket {
	return &domain.Ticket{
		ID:           "t-1",
		ReporterID:   reporterID,
		Status:       domain.TicketStatusOpen,
		AssignedTeam: domain.TeamTech,
	}
}

func TestAdminCanEverything(t *testing.T) {
	admin := adminUser("admin-1")
	ticket := openTechTicket("client-1")
	ticket.Status = domain.TicketStatusResolved

	for _, action := range []Action{ActionView, ActionUpdate, ActionDelete, ActionTakeCharge, ActionViewInternalNotes} {
		assert.True(t, Can(admin, ticket, action), string(action))
	}
	assert.True(t, CanChangeStatus(admin, ticket))
}

func TestSuperuserTreatedAsAdmin(t *testing.T) {
	super := &domain.User{ID: "s-1", Role: domain.RoleClient, Superuser: true, Active: true}
	ticket := openTechTicket("client-1")
	assert.True(t, Can(super, ticket, ActionDelete))
	assert.True(t, CanChangeStatus(super, ticket))
}

func TestOwnerPermissions(t *testing.T) {
	owner := clientUser("client-1")
	ticket := openTechTicket("client-1")

	assert.True(t, Can(owner, ticket, ActionView))
	assert.True(t, Can(owner, ticket, ActionUpdate))
	assert.True(t, Can(owner, ticket, ActionDelete))
	assert.False(t, Can(owner, ticket, ActionTakeCharge))
	assert.False(t, Can(owner, ticket, ActionViewInternalNotes))
	assert.False(t, CanChangeStatus(owner, ticket))
}

func TestOwnerCannotDeleteTerminalTicket(t *testing.T) {
	owner := clientUser("client-1")
	ticket := openTechTicket("client-1")

	ticket.Status = domain.TicketStatusResolved
	assert.False(t, Can(owner, ticket, ActionDelete))
	assert.True(t, Can(owner, ticket, ActionView))

	ticket.Status = domain.TicketStatusRejected
	assert.False(t, Can(owner, ticket, ActionDelete))
}

func TestStrangerClientSeesNothing(t *testing.T) {
	stranger := clientUser("client-2")
	ticket := openTechTicket("client-1")

	for _, action := range []Action{ActionView, ActionUpdate, ActionDelete, ActionTakeCharge, ActionViewInternalNotes} {
		assert.False(t, Can(stranger, ticket, action), string(action))
	}
}

func TestAgentScopedToStation(t *testing.T) {
	agent := agentUser("agent-1", "st-1")
	ticket := openTechTicket("client-1")
	ticket.StationID = strPtr("st-1")

	assert.True(t, Can(agent, ticket, ActionView))
	assert.True(t, Can(agent, ticket, ActionUpdate))
	assert.True(t, Can(agent, ticket, ActionViewInternalNotes))
	assert.False(t, Can(agent, ticket, ActionDelete))
	assert.True(t, CanChangeStatus(agent, ticket))

	// other station, no access
	ticket.StationID = strPtr("st-2")
	assert.False(t, Can(agent, ticket, ActionView))
	assert.False(t, CanChangeStatus(agent, ticket))

	// ticket without a station, no access either
	ticket.StationID = nil
	assert.False(t, Can(agent, ticket, ActionView))
}

func TestSpecialistOnAssignedTeam(t *testing.T) {
	specialist := techUser("tech-1")
	ticket := openTechTicket("client-1")

	assert.True(t, Can(specialist, ticket, ActionView))
	assert.True(t, Can(specialist, ticket, ActionViewInternalNotes))
	assert.True(t, Can(specialist, ticket, ActionTakeCharge))
	assert.True(t, Can(specialist, ticket, ActionUpdate))
	assert.False(t, Can(specialist, ticket, ActionDelete))
}

func TestSpecialistWrongTeamDenied(t *testing.T) {
	specialist := techUser("tech-1")
	ticket := openTechTicket("client-1")
	ticket.AssignedTeam = domain.TeamFinance

	for _, action := range []Action{ActionView, ActionUpdate, ActionTakeCharge, ActionViewInternalNotes} {
		assert.False(t, Can(specialist, ticket, action), string(action))
	}
}

func TestTakeChargeWhileClaimed(t *testing.T) {
	ticket := openTechTicket("client-1")
	ticket.AssignedSpecialistID = strPtr("tech-1")

	// the provisional assignee may still claim
	assert.True(t, Can(techUser("tech-1"), ticket, ActionTakeCharge))
	// a teammate may not
	assert.False(t, Can(techUser("tech-2"), ticket, ActionTakeCharge))
	// teammates keep read access
	assert.True(t, Can(techUser("tech-2"), ticket, ActionView))
	assert.False(t, Can(techUser("tech-2"), ticket, ActionUpdate))
}

func TestOwningSpecialistPermissions(t *testing.T) {
	owning := techUser("tech-1")
	ticket := openTechTicket("client-1")
	ticket.Status = domain.TicketStatusInProgress
	ticket.AssignedSpecialistID = strPtr("tech-1")

	assert.True(t, Can(owning, ticket, ActionUpdate))
	assert.True(t, Can(owning, ticket, ActionDelete))
	assert.True(t, CanChangeStatus(owning, ticket))

	ticket.Status = domain.TicketStatusResolved
	assert.False(t, Can(owning, ticket, ActionDelete))

	teammate := techUser("tech-2")
	assert.False(t, CanChangeStatus(teammate, ticket))
}

func TestNilActorOrTicket(t *testing.T) {
	assert.False(t, Can(nil, openTechTicket("client-1"), ActionView))
	assert.False(t, Can(clientUser("c"), nil, ActionView))
	assert.False(t, CanChangeStatus(nil, nil))
}
