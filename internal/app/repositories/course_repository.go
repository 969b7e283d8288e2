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

// CourseRepository handles course progress database operations
type CourseRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
		sb: statementBuilder(),
	}
}

// Upsert writes the course row for (UserID, CourseName), replacing the module counts of an
// existing row. The course keeps its original ID on replace.
func (r *CourseRepository) Upsert(ctx context.Context, course *models.Course) error {
	sql, args, err := r.sb.Insert("courses").
		Columns("user_id", "course_name", "modules_completed", "total_modules").
		Values(course.UserID, course.CourseName, course.ModulesCompleted, course.TotalModules).
		Suffix(`ON CONFLICT ON CONSTRAINT courses_user_course_key DO UPDATE
			SET modules_completed = EXCLUDED.modules_completed,
			    total_modules = EXCLUDED.total_modules
			RETURNING course_id`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert course query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&course.ID); err != nil {
		if dberrors.IsForeignKeyError(err) {
			return apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Int64("userID", course.UserID).Str("course", course.CourseName).Msg("Error executing upsert course query")
		return fmt.Errorf("error upserting course: %w", dberrors.Classify(err))
	}

	return nil
}

// ListByUser returns a user's courses in creation order
func (r *CourseRepository) ListByUser(ctx context.Context, userID int64) ([]models.Course, error) {
	sql, args, err := r.sb.Select("course_id", "user_id", "course_name", "modules_completed", "total_modules").
		From("courses").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("course_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error executing list courses query")
		return nil, fmt.Errorf("error querying courses: %w", dberrors.Classify(err))
	}
	defer rows.Close()

	courses := []models.Course{}
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.ID, &c.UserID, &c.CourseName, &c.ModulesCompleted, &c.TotalModules); err != nil {
			return nil, fmt.Errorf("error scanning course row: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course rows: %w", dberrors.Classify(err))
	}

	return courses, nil
}
