package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/kyra/interntrack/internal/app/models"
	"github.com/kyra/interntrack/internal/app/models/dto"
	"github.com/kyra/interntrack/internal/pkg/apperrors"
	"github.com/kyra/interntrack/internal/pkg/auth"
	"github.com/rs/zerolog"
)

// AuthService turns verified credentials into a user row and an access token
type AuthService struct {
	verifier   IdentityVerifier
	tracker    *TrackerService
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(verifier IdentityVerifier, tracker *TrackerService, jwtService *auth.JWTService, logger zerolog.Logger) *AuthService {
	return &AuthService{
		verifier:   verifier,
		tracker:    tracker,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Login verifies the credentials, materializes the user and issues an access token
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	role, ok := models.ParseRole(req.Role)
	if !ok {
		return nil, fieldError("role", apperrors.ErrInvalidRole)
	}

	claim, err := s.verifier.Verify(ctx, req.Email, req.Password, role)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			s.logger.Warn().Str("email", req.Email).Str("role", string(role)).Msg("Credentials rejected")
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("identity verification failed: %w", err)
	}

	user, err := s.tracker.AuthenticateOrRegister(ctx, claim.Email, claim.Name, claim.Role)
	if err != nil {
		return nil, err
	}

	token, expiresIn, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   int64(expiresIn),
		},
		User: dto.NewUserResponse(user),
	}, nil
}
