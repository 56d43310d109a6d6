package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fuelcard/reclamation-service/internal/domain"
	"github.com/fuelcard/reclamation-service/internal/events"
	"github.com/fuelcard/reclamation-service/internal/repository"
)

// In-memory doubles mirroring the conditional-update semantics of the
// Postgres repositories, including ErrNoRows on failed preconditions.

type fakeTicketRepo struct {
	mu      sync.Mutex
	seq     int
	tickets map[string]*domain.Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[string]*domain.Ticket{}}
}

func (r *fakeTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	ticket.ID = fmt.Sprintf("ticket-%d", r.seq)
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	copied := *ticket
	r.tickets[ticket.ID] = &copied
	return nil
}

func (r *fakeTicketRepo) Update(ctx context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tickets[ticket.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.CardType = ticket.CardType
	stored.CardNumber = ticket.CardNumber
	stored.StationID = ticket.StationID
	stored.Description = ticket.Description
	stored.IncidentAt = ticket.IncidentAt
	stored.Priority = ticket.Priority
	stored.ContactMethod = ticket.ContactMethod
	stored.RequiresCallback = ticket.RequiresCallback
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *fakeTicketRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeTicketRepo) ListWithFilter(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Ticket
	for _, stored := range r.tickets {
		if filter.ReporterID != nil && stored.ReporterID != *filter.ReporterID {
			continue
		}
		if filter.StationID != nil && (stored.StationID == nil || *stored.StationID != *filter.StationID) {
			continue
		}
		if len(filter.AssignedTeams) > 0 && !containsTeam(filter.AssignedTeams, stored.AssignedTeam) {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, stored.Status) {
			continue
		}
		if filter.Unassigned != nil && *filter.Unassigned != (stored.AssignedSpecialistID == nil) {
			continue
		}
		if scope := filter.TeamOrSpecialist; scope != nil {
			owned := stored.AssignedSpecialistID != nil && *stored.AssignedSpecialistID == scope.SpecialistID
			if !owned && !containsTeam(scope.Teams, stored.AssignedTeam) {
				continue
			}
		}
		result = append(result, *stored)
	}
	return result, nil
}

func (r *fakeTicketRepo) Claim(ctx context.Context, ticketID, specialistID string, estimatedResolution time.Time) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tickets[ticketID]
	if !ok || stored.Status != domain.TicketStatusOpen {
		return nil, pgx.ErrNoRows
	}
	if stored.AssignedSpecialistID != nil && *stored.AssignedSpecialistID != specialistID {
		return nil, pgx.ErrNoRows
	}
	stored.Status = domain.TicketStatusInProgress
	stored.AssignedSpecialistID = &specialistID
	stored.EstimatedResolution = &estimatedResolution
	stored.UpdatedAt = time.Now()
	copied := *stored
	return &copied, nil
}

func (r *fakeTicketRepo) AssignSpecialist(ctx context.Context, ticketID, specialistID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tickets[ticketID]
	if !ok || stored.Status != domain.TicketStatusOpen || stored.AssignedSpecialistID != nil {
		return pgx.ErrNoRows
	}
	stored.AssignedSpecialistID = &specialistID
	return nil
}

func (r *fakeTicketRepo) ChangeStatus(ctx context.Context, ticketID string, from, to domain.TicketStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tickets[ticketID]
	if !ok || stored.Status != from {
		return pgx.ErrNoRows
	}
	stored.Status = to
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *fakeTicketRepo) Delete(ctx context.Context, ticketID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[ticketID]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.tickets, ticketID)
	return nil
}

func containsTeam(teams []domain.Team, team domain.Team) bool {
	for _, t := range teams {
		if t == team {
			return true
		}
	}
	return false
}

func containsStatus(statuses []domain.TicketStatus, status domain.TicketStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

type fakeUpdateRepo struct {
	mu      sync.Mutex
	seq     int
	entries []domain.TicketUpdate
}

func (r *fakeUpdateRepo) Create(ctx context.Context, update *domain.TicketUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	update.ID = fmt.Sprintf("update-%d", r.seq)
	update.CreatedAt = time.Now()
	r.entries = append(r.entries, *update)
	return nil
}

func (r *fakeUpdateRepo) ListByTicket(ctx context.Context, ticketID string, limit, offset int) ([]domain.TicketUpdate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.TicketUpdate
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].TicketID == ticketID {
			result = append(result, r.entries[i])
		}
	}
	return result, nil
}

func (r *fakeUpdateRepo) forTicket(ticketID string) []domain.TicketUpdate {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.TicketUpdate
	for _, entry := range r.entries {
		if entry.TicketID == ticketID {
			result = append(result, entry)
		}
	}
	return result
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
	loads map[domain.Team][]repository.SpecialistLoad
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users: map[string]*domain.User{},
		loads: map[domain.Team][]repository.SpecialistLoad{},
	}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", len(r.users)+1)
	}
	user.CreatedAt = time.Now()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, stored := range r.users {
		if stored.Email == email {
			copied := *stored
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) ListSpecialistsByTeam(ctx context.Context, team domain.Team) ([]repository.SpecialistLoad, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loads[team], nil
}

func (r *fakeUserRepo) setLoads(team domain.Team, loads ...repository.SpecialistLoad) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loads[team] = loads
}

type fakeStationRepo struct {
	mu       sync.Mutex
	stations map[string]*domain.Station
}

func newFakeStationRepo() *fakeStationRepo {
	return &fakeStationRepo{stations: map[string]*domain.Station{}}
}

func (r *fakeStationRepo) Create(ctx context.Context, station *domain.Station) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if station.ID == "" {
		station.ID = fmt.Sprintf("station-%d", len(r.stations)+1)
	}
	station.CreatedAt = time.Now()
	copied := *station
	r.stations[station.ID] = &copied
	return nil
}

func (r *fakeStationRepo) GetByID(ctx context.Context, id string) (*domain.Station, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.stations[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeStationRepo) List(ctx context.Context, limit, offset int) ([]domain.Station, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Station
	for _, stored := range r.stations {
		result = append(result, *stored)
	}
	return result, nil
}

type capturingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *capturingDispatcher) Publish(ctx context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *capturingDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {}

func (d *capturingDispatcher) byType(eventType events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var result []events.Event
	for _, event := range d.events {
		if event.Type == eventType {
			result = append(result, event)
		}
	}
	return result
}

type fakeClaimCache struct {
	mu     sync.Mutex
	claims map[string]string
}

func newFakeClaimCache() *fakeClaimCache {
	return &fakeClaimCache{claims: map[string]string{}}
}

func (c *fakeClaimCache) SetClaim(ctx context.Context, ticketID, specialistName string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.claims[ticketID] = specialistName
}

func (c *fakeClaimCache) GetClaim(ctx context.Context, ticketID string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.claims[ticketID]
}
