package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fuelcard/reclamation-service/internal/auth"
	"github.com/fuelcard/reclamation-service/internal/domain"
	"github.com/fuelcard/reclamation-service/internal/repository"
	"github.com/fuelcard/reclamation-service/internal/routing"
	apperrors "github.com/fuelcard/reclamation-service/pkg/util"
)

// AuthService handles registration, login and password changes.
type AuthService struct {
	users      repository.UserRepository
	tokens     *auth.TokenManager
	bcryptCost int
}

// NewAuthService constructs the service.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager, bcryptCost int) *AuthService {
	return &AuthService{users: users, tokens: tokens, bcryptCost: bcryptCost}
}

// RegisterInput is the self-service signup payload. Self-registration
// always yields a CLIENT account; operator accounts are provisioned by
// an administrator through CreateOperator.
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// OperatorInput is the admin-side payload for creating internal accounts.
type OperatorInput struct {
	Name      string
	Email     string
	Phone     string
	Password  string
	Role      domain.Role
	StationID *string
}

// LoginResult carries the issued token alongside the authenticated user.
type LoginResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// Register creates a CLIENT account.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	user, err := s.buildUser(input.Name, input.Email, input.Phone, input.Password, domain.RoleClient)
	if err != nil {
		return nil, err
	}
	return s.persistNew(ctx, user)
}

// CreateOperator creates an internal account (agent, specialist or
// admin). Team membership is derived from the role and frozen there.
func (s *AuthService) CreateOperator(ctx context.Context, actor *domain.User, input OperatorInput) (*domain.User, error) {
	if actor == nil || !actor.IsAdmin() {
		return nil, apperrors.NewPermissionDenied("administrator role required")
	}
	if !input.Role.Valid() {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": input.Role})
	}
	user, err := s.buildUser(input.Name, input.Email, input.Phone, input.Password, input.Role)
	if err != nil {
		return nil, err
	}
	if input.Role == domain.RoleAgent {
		if input.StationID == nil {
			return nil, apperrors.NewValidationError("station required for agents", nil)
		}
		user.AssignedStationID = input.StationID
	}
	return s.persistNew(ctx, user)
}

func (s *AuthService) buildUser(name, email, phone, password string, role domain.Role) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return nil, apperrors.NewValidationError("name and email required", nil)
	}
	if len(password) < 8 {
		return nil, apperrors.NewValidationError("password must be at least 8 characters", nil)
	}
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &domain.User{
		Name:         name,
		Email:        email,
		Phone:        strings.TrimSpace(phone),
		PasswordHash: hash,
		Role:         role,
		Teams:        routing.TeamsForRole(role),
		Active:       true,
	}, nil
}

func (s *AuthService) persistNew(ctx context.Context, user *domain.User) (*domain.User, error) {
	if existing, err := s.users.GetByEmail(ctx, user.Email); err == nil && existing != nil {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"email": user.Email})
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Login verifies credentials and issues a JWT.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if !user.Active {
		return nil, apperrors.NewUnauthorized("account disabled")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	token, expiresAt, err := s.tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &LoginResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// ChangePassword rotates the actor's own password after verifying the
// current one.
func (s *AuthService) ChangePassword(ctx context.Context, actor *domain.User, current, next string) error {
	if actor == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := auth.ComparePassword(actor.PasswordHash, current); err != nil {
		return apperrors.NewUnauthorized("current password incorrect")
	}
	if len(next) < 8 {
		return apperrors.NewValidationError("password must be at least 8 characters", nil)
	}
	hash, err := auth.HashPassword(next, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	actor.PasswordHash = hash
	if err := s.users.Update(ctx, actor); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}
