package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/fuelcard/reclamation-service/internal/domain"
	"github.com/fuelcard/reclamation-service/internal/repository"
	apperrors "github.com/fuelcard/reclamation-service/pkg/util"
)

// StationService manages the fuel station directory.
type StationService struct {
	stations repository.StationRepository
}

// NewStationService constructs the service.
func NewStationService(stations repository.StationRepository) *StationService {
	return &StationService{stations: stations}
}

// StationInput is the creation payload.
type StationInput struct {
	Name      string
	Code      string
	Address   string
	City      string
	Phone     string
	ManagerID *string
}

// Create registers a station. Admin only.
func (s *StationService) Create(ctx context.Context, actor *domain.User, input StationInput) (*domain.Station, error) {
	if actor == nil || !actor.IsAdmin() {
		return nil, apperrors.NewPermissionDenied("administrator role required")
	}
	name := strings.TrimSpace(input.Name)
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if name == "" || code == "" {
		return nil, apperrors.NewValidationError("name and code required", nil)
	}
	station := &domain.Station{
		Name:      name,
		Code:      code,
		Address:   strings.TrimSpace(input.Address),
		City:      strings.TrimSpace(input.City),
		Phone:     strings.TrimSpace(input.Phone),
		ManagerID: input.ManagerID,
	}
	if err := s.stations.Create(ctx, station); err != nil {
		return nil, apperrors.MapError(err)
	}
	return station, nil
}

// Get returns one station.
func (s *StationService) Get(ctx context.Context, id string) (*domain.Station, error) {
	station, err := s.stations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("station", map[string]any{"station_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return station, nil
}

// List returns the directory ordered by code.
func (s *StationService) List(ctx context.Context, limit, offset int) ([]domain.Station, error) {
	stations, err := s.stations.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return stations, nil
}
