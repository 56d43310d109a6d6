package domain

import "time"

// Role enumerates account roles across clients and internal operators.
type Role string

const (
	RoleClient  Role = "CLIENT"
	RoleAgent   Role = "AGENT"
	RoleTech    Role = "TECH"
	RoleFinance Role = "FINANCE"
	RoleSupport Role = "SUPPORT"
	RoleAdmin   Role = "ADMIN"
)

// Valid reports whether the role is a known value.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleAgent, RoleTech, RoleFinance, RoleSupport, RoleAdmin:
		return true
	}
	return false
}

// User is the domain model for every account: clients who file
// reclamations, station agents, team specialists and administrators.
// Teams is derived from the role at creation and not edited afterwards.
type User struct {
	ID                string
	Name              string
	Email             string
	Phone             string
	PasswordHash      string
	Role              Role
	Teams             []Team
	AssignedStationID *string
	Superuser         bool
	Active            bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsSpecialist reports whether the role qualifies the user to own tickets.
func (u *User) IsSpecialist() bool {
	switch u.Role {
	case RoleTech, RoleFinance, RoleSupport, RoleAgent:
		return true
	}
	return false
}

// OnTeam reports whether the user belongs to the given team.
func (u *User) OnTeam(team Team) bool {
	for _, t := range u.Teams {
		if t == team {
			return true
		}
	}
	return false
}

// CanCreateTicket reports whether the role may file reclamations.
func (u *User) CanCreateTicket() bool {
	return u.Role == RoleClient || u.Role == RoleAdmin
}

// IsAdmin reports whether the user has unrestricted access.
func (u *User) IsAdmin() bool {
	return u.Superuser || u.Role == RoleAdmin
}
