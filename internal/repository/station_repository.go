package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fuelcard/reclamation-service/internal/domain"
)

// StationRepository holds station reference data.
type StationRepository interface {
	Create(ctx context.Context, station *domain.Station) error
	GetByID(ctx context.Context, id string) (*domain.Station, error)
	List(ctx context.Context, limit, offset int) ([]domain.Station, error)
}

type stationRepository struct {
	pool *pgxpool.Pool
}

// NewStationRepository instantiates the repository.
func NewStationRepository(pool *pgxpool.Pool) StationRepository {
	return &stationRepository{pool: pool}
}

func (r *stationRepository) Create(ctx context.Context, station *domain.Station) error {
	const query = `
        INSERT INTO stations (name, code, address, city, phone, manager_id)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		station.Name,
		station.Code,
		station.Address,
		station.City,
		station.Phone,
		station.ManagerID,
	).Scan(&station.ID, &station.CreatedAt, &station.UpdatedAt)
}

func (r *stationRepository) GetByID(ctx context.Context, id string) (*domain.Station, error) {
	const query = `
        SELECT id, name, code, address, city, phone, manager_id, created_at, updated_at
        FROM stations WHERE id=$1`
	var station domain.Station
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&station.ID,
		&station.Name,
		&station.Code,
		&station.Address,
		&station.City,
		&station.Phone,
		&station.ManagerID,
		&station.CreatedAt,
		&station.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &station, nil
}

func (r *stationRepository) List(ctx context.Context, limit, offset int) ([]domain.Station, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, name, code, address, city, phone, manager_id, created_at, updated_at
        FROM stations ORDER BY code ASC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Station
	for rows.Next() {
		var station domain.Station
		if err := rows.Scan(
			&station.ID,
			&station.Name,
			&station.Code,
			&station.Address,
			&station.City,
			&station.Phone,
			&station.ManagerID,
			&station.CreatedAt,
			&station.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, station)
	}
	return result, rows.Err()
}
