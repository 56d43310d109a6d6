package dto

import (
	"time"

	"github.com/fuelcard/reclamation-service/internal/domain"
)

// UserRegisterRequest payload for client signup.
type UserRegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// UserLoginRequest payload for login.
type UserLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// CreateOperatorRequest is the admin payload for internal accounts.
type CreateOperatorRequest struct {
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Phone     string      `json:"phone"`
	Password  string      `json:"password"`
	Role      domain.Role `json:"role"`
	StationID *string     `json:"station_id"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// UserResponse public account representation.
type UserResponse struct {
	ID                string        `json:"id"`
	Name              string        `json:"name"`
	Email             string        `json:"email"`
	Phone             string        `json:"phone,omitempty"`
	Role              domain.Role   `json:"role"`
	Teams             []domain.Team `json:"teams"`
	AssignedStationID *string       `json:"assigned_station_id,omitempty"`
	Active            bool          `json:"active"`
	CreatedAt         time.Time     `json:"created_at"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(u *domain.User) UserResponse {
	teams := u.Teams
	if teams == nil {
		teams = []domain.Team{}
	}
	return UserResponse{
		ID:                u.ID,
		Name:              u.Name,
		Email:             u.Email,
		Phone:             u.Phone,
		Role:              u.Role,
		Teams:             teams,
		AssignedStationID: u.AssignedStationID,
		Active:            u.Active,
		CreatedAt:         u.CreatedAt,
	}
}
