// Package routing maps problem types to responsible teams and roles to
// team memberships. Both tables are fixed at compile time; there is no
// runtime configuration.
package routing

import "github.com/fuelcard/reclamation-service/internal/domain"

var problemTypeToTeam = map[domain.ProblemType]domain.Team{
	domain.ProblemCardBlocked:    domain.TeamTech,
	domain.ProblemCardRejected:   domain.TeamTech,
	domain.ProblemStationIssue:   domain.TeamTech,
	domain.ProblemDamagedCard:    domain.TeamTech,
	domain.ProblemBalanceError:   domain.TeamFinance,
	domain.ProblemDoubleCharge:   domain.TeamFinance,
	domain.ProblemLimitIssue:     domain.TeamFinance,
	domain.ProblemPaymentRefused: domain.TeamFinance,
}

var roleToTeams = map[domain.Role][]domain.Team{
	domain.RoleTech:    {domain.TeamTech},
	domain.RoleFinance: {domain.TeamFinance},
	domain.RoleSupport: {domain.TeamSupport},
	domain.RoleAgent:   {domain.TeamStation},
}

// TeamFor returns the team responsible for a problem type. Types without
// an explicit mapping go to customer support.
func TeamFor(problemType domain.ProblemType) domain.Team {
	if team, ok := problemTypeToTeam[problemType]; ok {
		return team
	}
	return domain.TeamSupport
}

// TeamsForRole returns the teams a role belongs to. Clients and admins
// have none.
func TeamsForRole(role domain.Role) []domain.Team {
	teams, ok := roleToTeams[role]
	if !ok {
		return nil
	}
	out := make([]domain.Team, len(teams))
	copy(out, teams)
	return out
}
