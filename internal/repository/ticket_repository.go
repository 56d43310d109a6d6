package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fuelcard/reclamation-service/internal/domain"
)

const ticketColumns = `id, reporter_id, problem_type, card_type, card_number, station_id,
               description, incident_at, status, priority, assigned_team, assigned_specialist_id,
               contact_method, requires_callback, estimated_resolution, created_at, updated_at`

// TicketFilter captures listing parameters.
type TicketFilter struct {
	ReporterID           *string
	StationID            *string
	AssignedSpecialistID *string
	AssignedTeams        []domain.Team
	Statuses             []domain.TicketStatus
	Unassigned           *bool
	TeamOrSpecialist     *TeamOrSpecialistScope
	Limit                int
	Offset               int
}

// TeamOrSpecialistScope matches tickets a specialist can see: assigned to
// them, or on one of their teams.
type TeamOrSpecialistScope struct {
	SpecialistID string
	Teams        []domain.Team
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	// Claim atomically moves an OPEN ticket to IN_PROGRESS for the
	// specialist. The conditional WHERE makes concurrent callers lose
	// with pgx.ErrNoRows instead of both winning.
	Claim(ctx context.Context, ticketID, specialistID string, estimatedResolution time.Time) (*domain.Ticket, error)
	// AssignSpecialist pre-populates the specialist on an OPEN ticket
	// without changing status (auto-assignment at creation).
	AssignSpecialist(ctx context.Context, ticketID, specialistID string) error
	// ChangeStatus performs a compare-and-set transition; pgx.ErrNoRows
	// means the ticket was not in the expected status anymore.
	ChangeStatus(ctx context.Context, ticketID string, from, to domain.TicketStatus) error
	Delete(ctx context.Context, ticketID string) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (reporter_id, problem_type, card_type, card_number, station_id,
            description, incident_at, status, priority, assigned_team, assigned_specialist_id,
            contact_method, requires_callback, estimated_resolution)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.ReporterID,
		ticket.ProblemType,
		ticket.CardType,
		ticket.CardNumber,
		ticket.StationID,
		ticket.Description,
		ticket.IncidentAt,
		ticket.Status,
		ticket.Priority,
		ticket.AssignedTeam,
		ticket.AssignedSpecialistID,
		ticket.ContactMethod,
		ticket.RequiresCallback,
		ticket.EstimatedResolution,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

// Update persists content fields. Status, assigned team and specialist are
// deliberately excluded: those move only through Claim, AssignSpecialist
// and ChangeStatus.
func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET card_type=$1, card_number=$2, station_id=$3, description=$4,
            incident_at=$5, priority=$6, contact_method=$7, requires_callback=$8, updated_at=NOW()
        WHERE id=$9`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.CardType,
		ticket.CardNumber,
		ticket.StationID,
		ticket.Description,
		ticket.IncidentAt,
		ticket.Priority,
		ticket.ContactMethod,
		ticket.RequiresCallback,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(ticketFields(&ticket)...); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := `SELECT ` + ticketColumns + ` FROM tickets`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.ReporterID != nil {
		args = append(args, *filter.ReporterID)
		clauses = append(clauses, fmt.Sprintf("reporter_id=$%d", len(args)))
	}
	if filter.StationID != nil {
		args = append(args, *filter.StationID)
		clauses = append(clauses, fmt.Sprintf("station_id=$%d", len(args)))
	}
	if filter.AssignedSpecialistID != nil {
		args = append(args, *filter.AssignedSpecialistID)
		clauses = append(clauses, fmt.Sprintf("assigned_specialist_id=$%d", len(args)))
	}
	if len(filter.AssignedTeams) > 0 {
		placeholders := make([]string, len(filter.AssignedTeams))
		for i, team := range filter.AssignedTeams {
			args = append(args, team)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("assigned_team IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.Unassigned != nil {
		if *filter.Unassigned {
			clauses = append(clauses, "assigned_specialist_id IS NULL")
		} else {
			clauses = append(clauses, "assigned_specialist_id IS NOT NULL")
		}
	}
	if scope := filter.TeamOrSpecialist; scope != nil {
		args = append(args, scope.SpecialistID)
		specialistPlaceholder := fmt.Sprintf("$%d", len(args))
		teamPlaceholders := make([]string, len(scope.Teams))
		for i, team := range scope.Teams {
			args = append(args, team)
			teamPlaceholders[i] = fmt.Sprintf("$%d", len(args))
		}
		teamClause := "FALSE"
		if len(teamPlaceholders) > 0 {
			teamClause = fmt.Sprintf("assigned_team IN (%s)", strings.Join(teamPlaceholders, ","))
		}
		clauses = append(clauses, fmt.Sprintf("(assigned_specialist_id=%s OR %s)", specialistPlaceholder, teamClause))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf("%s WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d",
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) Claim(ctx context.Context, ticketID, specialistID string, estimatedResolution time.Time) (*domain.Ticket, error) {
	// The provisional assignee from auto-assignment may claim their own
	// ticket; anyone else only while it is unclaimed.
	query := `
        UPDATE tickets
        SET status=$2, assigned_specialist_id=$3, estimated_resolution=$4, updated_at=NOW()
        WHERE id=$1 AND status=$5
          AND (assigned_specialist_id IS NULL OR assigned_specialist_id=$3)
        RETURNING ` + ticketColumns
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query,
		ticketID,
		domain.TicketStatusInProgress,
		specialistID,
		estimatedResolution,
		domain.TicketStatusOpen,
	).Scan(ticketFields(&ticket)...); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) AssignSpecialist(ctx context.Context, ticketID, specialistID string) error {
	const query = `
        UPDATE tickets SET assigned_specialist_id=$2, updated_at=NOW()
        WHERE id=$1 AND status=$3 AND assigned_specialist_id IS NULL`
	cmd, err := r.pool.Exec(ctx, query, ticketID, specialistID, domain.TicketStatusOpen)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) ChangeStatus(ctx context.Context, ticketID string, from, to domain.TicketStatus) error {
	const query = `
        UPDATE tickets SET status=$3, updated_at=NOW()
        WHERE id=$1 AND status=$2`
	cmd, err := r.pool.Exec(ctx, query, ticketID, from, to)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) Delete(ctx context.Context, ticketID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, ticketID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func ticketFields(t *domain.Ticket) []any {
	return []any{
		&t.ID,
		&t.ReporterID,
		&t.ProblemType,
		&t.CardType,
		&t.CardNumber,
		&t.StationID,
		&t.Description,
		&t.IncidentAt,
		&t.Status,
		&t.Priority,
		&t.AssignedTeam,
		&t.AssignedSpecialistID,
		&t.ContactMethod,
		&t.RequiresCallback,
		&t.EstimatedResolution,
		&t.CreatedAt,
		&t.UpdatedAt,
	}
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(ticketFields(&ticket)...); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
