// Package inmem is a process-local Store used for development and tests. It mirrors the
// Postgres constraints: unique email, unique (user, course name), user references.
package inmem

import (
	"sync"

	"github.com/kyra/interntrack/internal/app/models"
	"github.com/kyra/interntrack/internal/app/repositories"
)

// DB holds every table behind one lock, like a single embedded database file.
type DB struct {
	mutex sync.RWMutex

	users       []models.User
	internships []models.Internship
	courses     []models.Course
	feedback    []models.Feedback

	nextUserID       int64
	nextInternshipID int64
	nextCourseID     int64
	nextFeedbackID   int64
}

// NewDB creates an empty database
func NewDB() *DB {
	return &DB{}
}

// NewStore wires every in-memory repository over db
func NewStore(db *DB) *repositories.Store {
	return &repositories.Store{
		Users:       &userRepository{db: db},
		Internships: &internshipRepository{db: db},
		Courses:     &courseRepository{db: db},
		Feedback:    &feedbackRepository{db: db},
		Metrics:     &metricsRepository{db: db},
	}
}

// caller holds the lock
func (db *DB) userByID(id int64) (models.User, bool) {
	for _, u := range db.users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}
