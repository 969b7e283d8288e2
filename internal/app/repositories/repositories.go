package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kyra/interntrack/internal/app/models"
)

// UserStore persists users. Email is the natural key.
type UserStore interface {
	// GetByEmail returns apperrors.ErrUserNotFound when no user has that email.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetOrCreate returns the user with u.Email, inserting u when absent. created reports
	// whether an insert happened. Concurrent callers never produce duplicate rows.
	GetOrCreate(ctx context.Context, u *models.User) (user *models.User, created bool, err error)
	// Exists reports whether a user id is present; write paths check it before inserting.
	Exists(ctx context.Context, id int64) (bool, error)
}

// InternshipStore persists internships (append-only)
type InternshipStore interface {
	Create(ctx context.Context, internship *models.Internship) error
	ListByUser(ctx context.Context, userID int64) ([]models.Internship, error)
}

// CourseStore persists course progress, one row per (user, course name)
type CourseStore interface {
	Upsert(ctx context.Context, course *models.Course) error
	ListByUser(ctx context.Context, userID int64) ([]models.Course, error)
}

// FeedbackStore persists feedback (append-only)
type FeedbackStore interface {
	Create(ctx context.Context, feedback *models.Feedback) error
}

// MetricsStore runs the role-scoped aggregate and report queries
type MetricsStore interface {
	ByRole(ctx context.Context, role models.Role) (models.Metrics, error)
	ReportRows(ctx context.Context, role models.Role, limit int) ([]models.ReportRow, error)
}

// Store holds all the repository instances
type Store struct {
	Users       UserStore
	Internships InternshipStore
	Courses     CourseStore
	Feedback    FeedbackStore
	Metrics     MetricsStore
}

// NewRepositories initializes the Postgres-backed repositories
func NewRepositories(db *pgxpool.Pool) *Store {
	return &Store{
		Users:       NewUserRepository(db),
		Internships: NewInternshipRepository(db),
		Courses:     NewCourseRepository(db),
		Feedback:    NewFeedbackRepository(db),
		Metrics:     NewMetricsRepository(db),
	}
}

func statementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
