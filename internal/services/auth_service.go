package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/internal/models"
	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/internal/repositories"
	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials deliberately does not distinguish "no such operator"
// from "wrong password".
var ErrInvalidCredentials = errors.New("invalid username or password")

// LoginRequest DTO
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse DTO
type AuthResponse struct {
	Operator    *models.Operator `json:"operator"`
	AccessToken string           `json:"access_token"`
}

// AuthService is the thin operator gate: a login that trades a bcrypt-checked
// password for a JWT, and a profile lookup. Everything downstream only ever
// consumes the resulting "caller is an operator" fact.
type AuthService interface {
	Login(req LoginRequest) (*AuthResponse, error)
	Profile(operatorID int64) (*models.Operator, error)
}

type authService struct {
	operatorRepo repositories.OperatorRepository
	jwtSecret    []byte
	jwtTTL       time.Duration
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(repo repositories.OperatorRepository, jwtSecret []byte, jwtTTL time.Duration) AuthService {
	return &authService{operatorRepo: repo, jwtSecret: jwtSecret, jwtTTL: jwtTTL}
}

func (s *authService) Login(req LoginRequest) (*AuthResponse, error) {
	operator, err := s.operatorRepo.FindByUsername(req.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up operator: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(operator.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateAccessToken(s.jwtSecret, operator.ID, operator.Username, s.jwtTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResponse{Operator: operator, AccessToken: token}, nil
}

func (s *authService) Profile(operatorID int64) (*models.Operator, error) {
	operator, err := s.operatorRepo.FindByID(operatorID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: operator %d", ErrNotFound, operatorID)
		}
		return nil, fmt.Errorf("failed to get operator profile: %w", err)
	}
	return operator, nil
}
