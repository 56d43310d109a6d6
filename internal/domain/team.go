package domain

// Team is the organizational unit responsible for a class of problems.
type Team string

const (
	TeamTech    Team = "TECH"
	TeamFinance Team = "FINANCE"
	TeamSupport Team = "SUPPORT"
	TeamStation Team = "STATION"
)

// Valid reports whether the team is a known value.
func (t Team) Valid() bool {
	switch t {
	case TeamTech, TeamFinance, TeamSupport, TeamStation:
		return true
	}
	return false
}
