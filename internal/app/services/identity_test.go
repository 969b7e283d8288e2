package services

import (
	"context"
	"testing"
	"time"

	"github.com/kyra/interntrack/internal/app/models"
	"github.com/kyra/interntrack/internal/app/models/dto"
	"github.com/kyra/interntrack/internal/app/repositories/inmem"
	"github.com/kyra/interntrack/internal/pkg/apperrors"
	"github.com/kyra/interntrack/internal/pkg/auth"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func demoVerifier(t *testing.T) *StaticVerifier {
	t.Helper()
	hash, err := auth.HashPassword("mentor123", bcrypt.MinCost)
	require.NoError(t, err)

	v, err := NewStaticVerifier([]StaticAccount{
		{Email: "student@example.com", Name: "Alice", Role: models.RoleStudent, Password: "student123"},
		{Email: "mentor@example.com", Name: "Dr. Jones", Role: models.RoleMentor, PasswordHash: hash},
	}, bcrypt.MinCost)
	require.NoError(t, err)
	return v
}

func TestStaticVerifier(t *testing.T) {
	v := demoVerifier(t)
	ctx := context.Background()

	claim, err := v.Verify(ctx, "student@example.com", "student123", models.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, &models.UserClaim{Email: "student@example.com", Name: "Alice", Role: models.RoleStudent}, claim)

	claim, err = v.Verify(ctx, " Mentor@Example.com ", "mentor123", models.RoleMentor)
	require.NoError(t, err)
	assert.Equal(t, "Dr. Jones", claim.Name)

	rejected := []struct {
		name     string
		email    string
		password string
		role     models.Role
	}{
		{name: "wrong password", email: "student@example.com", password: "nope", role: models.RoleStudent},
		{name: "wrong role", email: "student@example.com", password: "student123", role: models.RoleMentor},
		{name: "unknown email", email: "ghost@example.com", password: "student123", role: models.RoleStudent},
	}
	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			claim, err := v.Verify(ctx, tt.email, tt.password, tt.role)
			assert.Nil(t, claim)
			assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
		})
	}
}

func TestNewStaticVerifierRejectsBadAccounts(t *testing.T) {
	_, err := NewStaticVerifier([]StaticAccount{{Email: "a@example.com", Role: models.RoleStudent}}, bcrypt.MinCost)
	assert.Error(t, err)

	_, err = NewStaticVerifier([]StaticAccount{{Email: "a@example.com", Role: "Admin", Password: "x"}}, bcrypt.MinCost)
	assert.Error(t, err)

	_, err = NewStaticVerifier([]StaticAccount{{Role: models.RoleStudent, Password: "x"}}, bcrypt.MinCost)
	assert.Error(t, err)
}

func TestAuthServiceLogin(t *testing.T) {
	ctx := context.Background()
	db := inmem.NewDB()
	tracker := NewTrackerService(inmem.NewStore(db), TrackerOptions{}, zerolog.Nop())
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "secret", AccessTokenExp: time.Hour, TokenIssuer: "test"})
	svc := NewAuthService(demoVerifier(t), tracker, jwtService, zerolog.Nop())

	resp, err := svc.Login(ctx, &dto.LoginRequest{Email: "student@example.com", Password: "student123", Role: "student"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.Token.TokenType)
	assert.Equal(t, int64(3600), resp.Token.ExpiresIn)
	assert.Equal(t, "Alice", resp.User.Name)
	assert.Equal(t, 1, db.UserCount())

	claims, err := jwtService.ValidateAndExtractClaims(resp.Token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, models.RoleStudent, claims.Role)

	// second login reuses the row
	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "student@example.com", Password: "student123", Role: "Student"})
	require.NoError(t, err)
	assert.Equal(t, 1, db.UserCount())

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "student@example.com", Password: "bad", Role: "Student"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "student@example.com", Password: "student123", Role: "Admin"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}
