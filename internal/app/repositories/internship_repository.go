package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kyra/interntrack/internal/app/models"
	"github.com/kyra/interntrack/internal/pkg/apperrors"
	"github.com/kyra/interntrack/internal/pkg/dberrors"
	"github.com/kyra/interntrack/internal/pkg/logger"
)

// InternshipRepository handles internship database operations
type InternshipRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewInternshipRepository creates a new InternshipRepository
func NewInternshipRepository(db *pgxpool.Pool) *InternshipRepository {
	return &InternshipRepository{
		db: db,
		sb: statementBuilder(),
	}
}

// Create appends an internship row and sets its ID
func (r *InternshipRepository) Create(ctx context.Context, internship *models.Internship) error {
	sql, args, err := r.sb.Insert("internships").
		Columns("user_id", "company_name", "duration", "feedback", "msme_digitalized").
		Values(internship.UserID, internship.CompanyName, internship.Duration, internship.Feedback, internship.MSMEsDigitalized).
		Suffix("RETURNING internship_id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create internship query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&internship.ID); err != nil {
		if dberrors.IsForeignKeyError(err) {
			return apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Int64("userID", internship.UserID).Str("company", internship.CompanyName).Msg("Error executing create internship query")
		return fmt.Errorf("error creating internship: %w", dberrors.Classify(err))
	}

	return nil
}

// ListByUser returns a user's internships oldest first
func (r *InternshipRepository) ListByUser(ctx context.Context, userID int64) ([]models.Internship, error) {
	sql, args, err := r.sb.Select("internship_id", "user_id", "company_name", "duration", "feedback", "msme_digitalized").
		From("internships").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("internship_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list internships query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error executing list internships query")
		return nil, fmt.Errorf("error querying internships: %w", dberrors.Classify(err))
	}
	defer rows.Close()

	internships := []models.Internship{}
	for rows.Next() {
		var i models.Internship
		if err := rows.Scan(&i.ID, &i.UserID, &i.CompanyName, &i.Duration, &i.Feedback, &i.MSMEsDigitalized); err != nil {
			return nil, fmt.Errorf("error scanning internship row: %w", err)
		}
		internships = append(internships, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating internship rows: %w", dberrors.Classify(err))
	}

	return internships, nil
}
