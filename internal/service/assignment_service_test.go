package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuelcard/reclamation-service/internal/domain"
	"github.com/fuelcard/reclamation-service/internal/repository"
)

func specialistLoad(id string, active int) repository.SpecialistLoad {
	return repository.SpecialistLoad{
		User:          domain.User{ID: id, Name: id, Role: domain.RoleTech, Teams: []domain.Team{domain.TeamTech}, Active: true},
		ActiveTickets: active,
	}
}

func TestSelectSpecialistPicksLeastLoaded(t *testing.T) {
	users := newFakeUserRepo()
	users.setLoads(domain.TeamTech,
		specialistLoad("tech-a", 3),
		specialistLoad("tech-b", 1),
		specialistLoad("tech-c", 2),
	)
	svc := NewAssignmentService(users)

	selected, err := svc.SelectSpecialist(context.Background(), domain.TeamTech)
	require.NoError(t, err)
	require.NotNil(t, selected)
	assert.Equal(t, "tech-b", selected.ID)
}

func TestSelectSpecialistTieBreaksOnLowestID(t *testing.T) {
	users := newFakeUserRepo()
	users.setLoads(domain.TeamTech,
		specialistLoad("tech-c", 2),
		specialistLoad("tech-a", 2),
		specialistLoad("tech-b", 2),
	)
	svc := NewAssignmentService(users)

	// deterministic over an unchanged snapshot
	for i := 0; i < 3; i++ {
		selected, err := svc.SelectSpecialist(context.Background(), domain.TeamTech)
		require.NoError(t, err)
		require.NotNil(t, selected)
		assert.Equal(t, "tech-a", selected.ID)
	}
}

func TestSelectSpecialistEmptyTeam(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAssignmentService(users)

	selected, err := svc.SelectSpecialist(context.Background(), domain.TeamFinance)
	require.NoError(t, err)
	assert.Nil(t, selected)
}
