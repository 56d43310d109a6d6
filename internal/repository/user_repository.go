package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fuelcard/reclamation-service/internal/domain"
)

const userColumns = `id, name, email, phone, password_hash, role, teams, assigned_station_id,
               is_superuser, active, created_at, updated_at`

// SpecialistLoad pairs a specialist with their current active workload.
type SpecialistLoad struct {
	User          domain.User
	ActiveTickets int
}

// UserRepository defines persistence access for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// ListSpecialistsByTeam returns active specialist-eligible users on
	// the team with their count of OPEN/IN_PROGRESS tickets, ordered by
	// workload then id so selection is deterministic.
	ListSpecialistsByTeam(ctx context.Context, team domain.Team) ([]SpecialistLoad, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (name, email, phone, password_hash, role, teams, assigned_station_id, is_superuser, active)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		user.Name,
		user.Email,
		user.Phone,
		user.PasswordHash,
		user.Role,
		teamStrings(user.Teams),
		user.AssignedStationID,
		user.Superuser,
		user.Active,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET name=$1, email=$2, phone=$3, password_hash=$4, role=$5, teams=$6,
            assigned_station_id=$7, is_superuser=$8, active=$9, updated_at=NOW()
        WHERE id=$10`
	cmd, err := r.pool.Exec(ctx, query,
		user.Name,
		user.Email,
		user.Phone,
		user.PasswordHash,
		user.Role,
		teamStrings(user.Teams),
		user.AssignedStationID,
		user.Superuser,
		user.Active,
		user.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	var teams []string
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Phone,
		&user.PasswordHash,
		&user.Role,
		&teams,
		&user.AssignedStationID,
		&user.Superuser,
		&user.Active,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	user.Teams = teamValues(teams)
	return &user, nil
}

func (r *userRepository) ListSpecialistsByTeam(ctx context.Context, team domain.Team) ([]SpecialistLoad, error) {
	// Workload counts are a best-effort snapshot; concurrent creations
	// may both pick the same least-loaded specialist, the claim CAS is
	// the hard consistency point.
	const query = `
        SELECT u.id, u.name, u.email, u.phone, u.password_hash, u.role, u.teams, u.assigned_station_id,
               u.is_superuser, u.active, u.created_at, u.updated_at,
               COUNT(t.id) AS active_tickets
        FROM users u
        LEFT JOIN tickets t
               ON t.assigned_specialist_id = u.id AND t.status IN ($2, $3)
        WHERE u.active
          AND u.role IN ($4, $5, $6, $7)
          AND $1 = ANY(u.teams)
        GROUP BY u.id
        ORDER BY active_tickets ASC, u.id ASC`
	rows, err := r.pool.Query(ctx, query,
		team,
		domain.TicketStatusOpen,
		domain.TicketStatusInProgress,
		domain.RoleTech,
		domain.RoleFinance,
		domain.RoleSupport,
		domain.RoleAgent,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []SpecialistLoad
	for rows.Next() {
		var load SpecialistLoad
		var teams []string
		if err := rows.Scan(
			&load.User.ID,
			&load.User.Name,
			&load.User.Email,
			&load.User.Phone,
			&load.User.PasswordHash,
			&load.User.Role,
			&teams,
			&load.User.AssignedStationID,
			&load.User.Superuser,
			&load.User.Active,
			&load.User.CreatedAt,
			&load.User.UpdatedAt,
			&load.ActiveTickets,
		); err != nil {
			return nil, err
		}
		load.User.Teams = teamValues(teams)
		result = append(result, load)
	}
	return result, rows.Err()
}

func teamStrings(teams []domain.Team) []string {
	out := make([]string, len(teams))
	for i, t := range teams {
		out[i] = string(t)
	}
	return out
}

func teamValues(teams []string) []domain.Team {
	out := make([]domain.Team, len(teams))
	for i, t := range teams {
		out[i] = domain.Team(t)
	}
	return out
}
