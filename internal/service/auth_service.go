package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/talentgate-labs/talentgate-api/internal/dto"
	"github.com/talentgate-labs/talentgate-api/internal/middleware"
	"github.com/talentgate-labs/talentgate-api/internal/repository"
)

// ErrInvalidCredentials covers both unknown accounts and wrong passwords so
// the response never reveals which one failed.
var ErrInvalidCredentials = errors.New("invalid email or password")

// AuthService authenticates candidates and recruiters and issues tokens.
type AuthService interface {
	CandidateLogin(ctx context.Context, payload dto.LoginRequest) (dto.TokenResponse, error)
	RecruiterLogin(ctx context.Context, payload dto.LoginRequest) (dto.TokenResponse, error)
}

type authService struct {
	candidates repository.CandidateRepository
	recruiters repository.RecruiterRepository
	validator  *validator.Validate
	secret     []byte
	ttl        time.Duration
	logger     zerolog.Logger
}

// NewAuthService constructs the authentication service.
func NewAuthService(candidates repository.CandidateRepository, recruiters repository.RecruiterRepository, validate *validator.Validate, secret string, ttl time.Duration, logger zerolog.Logger) AuthService {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}

	return &authService{
		candidates: candidates,
		recruiters: recruiters,
		validator:  validate,
		secret:     []byte(secret),
		ttl:        ttl,
		logger:     logger.With().Str("component", "auth_service").Logger(),
	}
}

func (s *authService) CandidateLogin(ctx context.Context, payload dto.LoginRequest) (dto.TokenResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TokenResponse{}, err
	}

	candidate, err := s.candidates.GetByEmail(ctx, normalizeEmail(payload.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TokenResponse{}, ErrInvalidCredentials
		}
		return dto.TokenResponse{}, err
	}

	if !candidate.CheckPassword(payload.Password) {
		return dto.TokenResponse{}, ErrInvalidCredentials
	}

	s.logger.Info().Uint("candidate_id", candidate.ID).Msg("candidate logged in")
	return s.issueToken(candidate.ID, candidate.Email, middleware.RoleCandidate)
}

func (s *authService) RecruiterLogin(ctx context.Context, payload dto.LoginRequest) (dto.TokenResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TokenResponse{}, err
	}

	recruiter, err := s.recruiters.GetByEmail(ctx, normalizeEmail(payload.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TokenResponse{}, ErrInvalidCredentials
		}
		return dto.TokenResponse{}, err
	}

	if !recruiter.CheckPassword(payload.Password) {
		return dto.TokenResponse{}, ErrInvalidCredentials
	}

	s.logger.Info().Uint("recruiter_id", recruiter.ID).Msg("recruiter logged in")
	return s.issueToken(recruiter.ID, recruiter.Email, middleware.RoleRecruiter)
}

func (s *authService) issueToken(userID uint, email, accountType string) (dto.TokenResponse, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"type":    accountType,
		"iat":     now.Unix(),
		"exp":     now.Add(s.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return dto.TokenResponse{}, err
	}

	return dto.TokenResponse{
		Token:     signed,
		TokenType: "Bearer",
		ExpiresIn: int(s.ttl.Seconds()),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
