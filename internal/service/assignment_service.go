package service

import (
	"context"

	"github.com/fuelcard/reclamation-service/internal/domain"
	"github.com/fuelcard/reclamation-service/internal/repository"
	apperrors "github.com/fuelcard/reclamation-service/pkg/util"
)

// AssignmentService picks specialists for teams by current workload.
type AssignmentService struct {
	users repository.UserRepository
}

// NewAssignmentService creates the service.
func NewAssignmentService(users repository.UserRepository) *AssignmentService {
	return &AssignmentService{users: users}
}

// SelectSpecialist returns the least-loaded active specialist on the team,
// counting only OPEN and IN_PROGRESS tickets. Ties break on the lowest
// user id so repeated calls over an unchanged snapshot return the same
// specialist. A team with no eligible members yields nil, nil: the ticket
// simply stays unclaimed.
func (s *AssignmentService) SelectSpecialist(ctx context.Context, team domain.Team) (*domain.User, error) {
	candidates, err := s.users.ListSpecialistsByTeam(ctx, team)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	best := candidates[0]
	for _, candidate := range candidates[1:] {
		if candidate.ActiveTickets < best.ActiveTickets ||
			(candidate.ActiveTickets == best.ActiveTickets && candidate.User.ID < best.User.ID) {
			best = candidate
		}
	}
	user := best.User
	return &user, nil
}
