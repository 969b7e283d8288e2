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

// FeedbackRepository handles feedback database operations
type FeedbackRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewFeedbackRepository creates a new FeedbackRepository
func NewFeedbackRepository(db *pgxpool.Pool) *FeedbackRepository {
	return &FeedbackRepository{
		db: db,
		sb: statementBuilder(),
	}
}

// Create appends a feedback row
func (r *FeedbackRepository) Create(ctx context.Context, feedback *models.Feedback) error {
	sql, args, err := r.sb.Insert("feedback").
		Columns("user_id", "rating", "comments").
		Values(feedback.UserID, feedback.Rating, feedback.Comments).
		Suffix("RETURNING feedback_id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create feedback query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&feedback.ID); err != nil {
		if dberrors.IsForeignKeyError(err) {
			return apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Int64("userID", feedback.UserID).Int("rating", feedback.Rating).Msg("Error executing create feedback query")
		return fmt.Errorf("error creating feedback: %w", dberrors.Classify(err))
	}

	return nil
}
