package dto

import (
	"time"

	"github.com/fuelcard/reclamation-service/internal/domain"
)

// CreateStationRequest payload.
type CreateStationRequest struct {
	Name      string  `json:"name"`
	Code      string  `json:"code"`
	Address   string  `json:"address"`
	City      string  `json:"city"`
	Phone     string  `json:"phone"`
	ManagerID *string `json:"manager_id"`
}

// StationResponse public station representation.
type StationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	Phone     string    `json:"phone"`
	ManagerID *string   `json:"manager_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewStationResponse maps a domain station.
func NewStationResponse(s *domain.Station) StationResponse {
	return StationResponse{
		ID:        s.ID,
		Name:      s.Name,
		Code:      s.Code,
		Address:   s.Address,
		City:      s.City,
		Phone:     s.Phone,
		ManagerID: s.ManagerID,
		CreatedAt: s.CreatedAt,
	}
}
