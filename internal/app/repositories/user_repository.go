package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kyra/interntrack/internal/app/models"
	"github.com/kyra/interntrack/internal/pkg/apperrors"
	"github.com/kyra/interntrack/internal/pkg/dberrors"
	"github.com/kyra/interntrack/internal/pkg/logger"
)

var userColumns = []string{"user_id", "name", "email", "mobile", "role", "org"}

// UserRepository handles user database operations
type UserRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
		sb: statementBuilder(),
	}
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	sql, args, err := r.sb.Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user by email query: %w", err)
	}

	user := &models.User{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&user.ID, &user.Name, &user.Email, &user.Mobile, &user.Role, &user.Organization)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Str("email", email).Msg("Error scanning user row")
		return nil, fmt.Errorf("error retrieving user: %w", dberrors.Classify(err))
	}

	return user, nil
}

// GetOrCreate inserts u unless a user with the same email exists, then returns the stored row.
// ON CONFLICT DO NOTHING makes the insert race-free against the unique email constraint.
func (r *UserRepository) GetOrCreate(ctx context.Context, u *models.User) (*models.User, bool, error) {
	sql, args, err := r.sb.Insert("users").
		Columns("name", "email", "mobile", "role", "org").
		Values(u.Name, u.Email, u.Mobile, string(u.Role), u.Organization).
		Suffix("ON CONFLICT (email) DO NOTHING RETURNING user_id").
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("failed to build create user query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	switch {
	case err == nil:
		created := *u
		created.ID = id
		logger.Info().Int64("userID", id).Str("email", u.Email).Str("role", string(u.Role)).Msg("User created")
		return &created, true, nil
	case errors.Is(err, pgx.ErrNoRows):
		// conflict: the email is already registered
		existing, err := r.GetByEmail(ctx, u.Email)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	default:
		logger.Error().Err(err).Str("email", u.Email).Msg("Error executing create user query")
		return nil, false, fmt.Errorf("error creating user: %w", dberrors.Classify(err))
	}
}

// Exists checks whether a user id is present
func (r *UserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	sql, args, err := r.sb.Select("1").
		From("users").
		Where(squirrel.Eq{"user_id": id}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build user exists query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		logger.Error().Err(err).Int64("userID", id).Msg("Error checking user existence")
		return false, fmt.Errorf("error checking user existence: %w", dberrors.Classify(err))
	}
	return exists, nil
}
