package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/kyra/interntrack/internal/app/models"
	"github.com/kyra/interntrack/internal/pkg/apperrors"
	"github.com/kyra/interntrack/internal/pkg/auth"
)

// IdentityVerifier checks credentials and vouches for who the caller is. Rejections are
// reported as apperrors.ErrInvalidCredentials.
type IdentityVerifier interface {
	Verify(ctx context.Context, email, password string, role models.Role) (*models.UserClaim, error)
}

// StaticAccount is one entry of a StaticVerifier directory. Either Password or PasswordHash
// must be set.
type StaticAccount struct {
	Email        string
	Name         string
	Role         models.Role
	Password     string
	PasswordHash string
}

// StaticVerifier verifies against a fixed directory of bcrypt-hashed accounts
type StaticVerifier struct {
	accounts map[string]StaticAccount
}

// NewStaticVerifier builds the directory, hashing any plain passwords with cost
func NewStaticVerifier(accounts []StaticAccount, cost int) (*StaticVerifier, error) {
	v := &StaticVerifier{accounts: make(map[string]StaticAccount, len(accounts))}

	for _, acc := range accounts {
		key := normalizeEmail(acc.Email)
		if key == "" {
			return nil, fmt.Errorf("static account without email")
		}
		if !acc.Role.Valid() {
			return nil, fmt.Errorf("static account %s: invalid role %q", acc.Email, acc.Role)
		}

		if acc.PasswordHash == "" {
			if acc.Password == "" {
				return nil, fmt.Errorf("static account %s: no password", acc.Email)
			}
			hash, err := auth.HashPassword(acc.Password, cost)
			if err != nil {
				return nil, fmt.Errorf("static account %s: failed to hash password: %w", acc.Email, err)
			}
			acc.PasswordHash = hash
		}
		acc.Password = ""
		acc.Email = strings.TrimSpace(acc.Email)
		v.accounts[key] = acc
	}

	return v, nil
}

// Verify implements IdentityVerifier
func (v *StaticVerifier) Verify(_ context.Context, email, password string, role models.Role) (*models.UserClaim, error) {
	acc, ok := v.accounts[normalizeEmail(email)]
	if !ok || acc.Role != role || !auth.CheckPassword(acc.PasswordHash, password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return &models.UserClaim{Email: acc.Email, Name: acc.Name, Role: acc.Role}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
