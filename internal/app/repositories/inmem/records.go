package inmem

import (
	"context"

	"github.com/kyra/interntrack/internal/app/models"
	"github.com/kyra/interntrack/internal/pkg/apperrors"
)

type internshipRepository struct {
	db *DB
}

func (repo *internshipRepository) Create(_ context.Context, internship *models.Internship) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.userByID(internship.UserID); !ok {
		return apperrors.ErrUserNotFound
	}
	repo.db.nextInternshipID++
	internship.ID = repo.db.nextInternshipID
	repo.db.internships = append(repo.db.internships, *internship)
	return nil
}

func (repo *internshipRepository) ListByUser(_ context.Context, userID int64) ([]models.Internship, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	internships := []models.Internship{}
	for _, i := range repo.db.internships {
		if i.UserID == userID {
			internships = append(internships, i)
		}
	}
	return internships, nil
}

type courseRepository struct {
	db *DB
}

func (repo *courseRepository) Upsert(_ context.Context, course *models.Course) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.userByID(course.UserID); !ok {
		return apperrors.ErrUserNotFound
	}
	for idx, c := range repo.db.courses {
		if c.UserID == course.UserID && c.CourseName == course.CourseName {
			course.ID = c.ID
			repo.db.courses[idx] = *course
			return nil
		}
	}
	repo.db.nextCourseID++
	course.ID = repo.db.nextCourseID
	repo.db.courses = append(repo.db.courses, *course)
	return nil
}

func (repo *courseRepository) ListByUser(_ context.Context, userID int64) ([]models.Course, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	courses := []models.Course{}
	for _, c := range repo.db.courses {
		if c.UserID == userID {
			courses = append(courses, c)
		}
	}
	return courses, nil
}

type feedbackRepository struct {
	db *DB
}

func (repo *feedbackRepository) Create(_ context.Context, feedback *models.Feedback) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.userByID(feedback.UserID); !ok {
		return apperrors.ErrUserNotFound
	}
	repo.db.nextFeedbackID++
	feedback.ID = repo.db.nextFeedbackID
	repo.db.feedback = append(repo.db.feedback, *feedback)
	return nil
}

// FeedbackCount is used by tests to assert append-only behaviour
func (db *DB) FeedbackCount() int {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	return len(db.feedback)
}

// CourseCount returns the number of course rows
func (db *DB) CourseCount() int {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	return len(db.courses)
}

// UserCount returns the number of user rows
func (db *DB) UserCount() int {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	return len(db.users)
}
