package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fuelcard/reclamation-service/internal/domain"
)

// TicketUpdateRepository stores the append-only audit trail. There is no
// update or single-row delete on purpose; entries are immutable and
// removed only by the ticket's ON DELETE CASCADE.
type TicketUpdateRepository interface {
	Create(ctx context.Context, update *domain.TicketUpdate) error
	ListByTicket(ctx context.Context, ticketID string, limit, offset int) ([]domain.TicketUpdate, error)
}

type ticketUpdateRepository struct {
	pool *pgxpool.Pool
}

// NewTicketUpdateRepository builds repository.
func NewTicketUpdateRepository(pool *pgxpool.Pool) TicketUpdateRepository {
	return &ticketUpdateRepository{pool: pool}
}

func (r *ticketUpdateRepository) Create(ctx context.Context, update *domain.TicketUpdate) error {
	const query = `
        INSERT INTO ticket_updates (ticket_id, author_id, message, is_status_change, new_status, is_internal_note)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		update.TicketID,
		update.AuthorID,
		update.Message,
		update.IsStatusChange,
		update.NewStatus,
		update.IsInternalNote,
	).Scan(&update.ID, &update.CreatedAt)
}

func (r *ticketUpdateRepository) ListByTicket(ctx context.Context, ticketID string, limit, offset int) ([]domain.TicketUpdate, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, ticket_id, author_id, message, is_status_change, new_status, is_internal_note, created_at
        FROM ticket_updates WHERE ticket_id=$1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, ticketID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketUpdate
	for rows.Next() {
		var update domain.TicketUpdate
		if err := rows.Scan(
			&update.ID,
			&update.TicketID,
			&update.AuthorID,
			&update.Message,
			&update.IsStatusChange,
			&update.NewStatus,
			&update.IsInternalNote,
			&update.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, update)
	}
	return result, rows.Err()
}
