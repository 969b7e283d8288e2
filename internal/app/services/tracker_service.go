package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/kyra/interntrack/internal/app/models"
	"github.com/kyra/interntrack/internal/app/repositories"
	"github.com/kyra/interntrack/internal/pkg/apperrors"
	"github.com/kyra/interntrack/internal/pkg/cache"
	"github.com/kyra/interntrack/internal/pkg/validation"
	"github.com/rs/zerolog"
)

// DefaultReportLimit caps the number of rows FetchReportRows returns
const DefaultReportLimit = 100

// TrackerOptions tunes caching and report size
type TrackerOptions struct {
	CacheTTL    time.Duration
	ReportLimit int
}

// TrackerService is the access layer over the tracker store. Every operation returns a neutral
// value (nil, false, zero metrics) together with a non-nil error on failure.
//
// Reads are memoized for CacheTTL. Profile writes clear the whole profile bucket before returning;
// metrics and reports are never invalidated and may lag writes by up to CacheTTL.
type TrackerService struct {
	store       *repositories.Store
	profiles    *cache.Bucket[*models.UserProfile]
	metrics     *cache.Bucket[models.Metrics]
	reports     *cache.Bucket[[]models.ReportRow]
	reportLimit int
	logger      zerolog.Logger
}

// NewTrackerService creates a new TrackerService
func NewTrackerService(store *repositories.Store, opts TrackerOptions, logger zerolog.Logger) *TrackerService {
	if opts.ReportLimit <= 0 {
		opts.ReportLimit = DefaultReportLimit
	}
	return &TrackerService{
		store:       store,
		profiles:    cache.NewBucket[*models.UserProfile]("profiles", opts.CacheTTL),
		metrics:     cache.NewBucket[models.Metrics]("metrics", opts.CacheTTL),
		reports:     cache.NewBucket[[]models.ReportRow]("reports", opts.CacheTTL),
		reportLimit: opts.ReportLimit,
		logger:      logger,
	}
}

type registerInput struct {
	Email string `validate:"required,email"`
	Name  string `validate:"notblank"`
}

type internshipInput struct {
	Email            string `validate:"required,email"`
	CompanyName      string `validate:"notblank"`
	Duration         string `validate:"notblank"`
	MSMEsDigitalized int    `validate:"gte=0"`
}

type courseInput struct {
	Email            string `validate:"required,email"`
	CourseName       string `validate:"notblank"`
	ModulesCompleted int    `validate:"gte=0,ltefield=TotalModules"`
	TotalModules     int    `validate:"gte=1"`
}

// AuthenticateOrRegister returns the user with email, creating it with name and role on first
// sight. An existing user is returned unchanged even if name or role differ.
func (s *TrackerService) AuthenticateOrRegister(ctx context.Context, email, name string, role models.Role) (*models.User, error) {
	email = strings.TrimSpace(email)
	if err := validation.Struct(registerInput{Email: email, Name: name}); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, invalidRole(role)
	}

	user, created, err := s.store.Users.GetOrCreate(ctx, &models.User{
		Name:  strings.TrimSpace(name),
		Email: email,
		Role:  role,
	})
	if err != nil {
		return nil, s.queryError("AuthenticateOrRegister", err, map[string]interface{}{"email": email, "role": role})
	}

	if created {
		s.logger.Info().Str("email", email).Str("role", string(role)).Int64("userID", user.ID).Msg("Registered new user")
	}
	return user, nil
}

// GetUserProfile returns the user together with all their internships and courses.
// Unknown emails yield apperrors.ErrUserNotFound. Results are cached per email.
func (s *TrackerService) GetUserProfile(ctx context.Context, email string) (*models.UserProfile, error) {
	email = strings.TrimSpace(email)
	if profile, ok := s.profiles.Get(email); ok {
		return profile.Clone(), nil
	}

	user, err := s.store.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, s.queryError("GetUserProfile", err, map[string]interface{}{"email": email})
	}

	internships, err := s.store.Internships.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, s.queryError("GetUserProfile", err, map[string]interface{}{"email": email, "userID": user.ID})
	}
	courses, err := s.store.Courses.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, s.queryError("GetUserProfile", err, map[string]interface{}{"email": email, "userID": user.ID})
	}

	if internships == nil {
		internships = []models.Internship{}
	}
	if courses == nil {
		courses = []models.Course{}
	}

	profile := &models.UserProfile{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Role:        user.Role,
		Internships: internships,
		Courses:     courses,
	}
	s.profiles.Set(email, profile)
	return profile.Clone(), nil
}

// LogInternship appends an internship for email, creating a Student user named after the email's
// local part when none exists.
func (s *TrackerService) LogInternship(ctx context.Context, email, company, duration, feedback string, msmesDigitalized int) (bool, error) {
	email = strings.TrimSpace(email)
	if err := validation.Struct(internshipInput{
		Email:            email,
		CompanyName:      company,
		Duration:         duration,
		MSMEsDigitalized: msmesDigitalized,
	}); err != nil {
		return false, err
	}

	fields := map[string]interface{}{"email": email, "company": company}

	user, created, err := s.store.Users.GetOrCreate(ctx, &models.User{
		Name:  nameFromEmail(email),
		Email: email,
		Role:  models.RoleStudent,
	})
	if err != nil {
		return false, s.queryError("LogInternship", err, fields)
	}
	if created {
		s.logger.Info().Str("email", email).Int64("userID", user.ID).Msg("Created student while logging internship")
	}

	internship := &models.Internship{
		UserID:           user.ID,
		CompanyName:      strings.TrimSpace(company),
		Duration:         strings.TrimSpace(duration),
		Feedback:         feedback,
		MSMEsDigitalized: msmesDigitalized,
	}
	if err := s.store.Internships.Create(ctx, internship); err != nil {
		return false, s.queryError("LogInternship", err, fields)
	}

	s.invalidateProfiles("LogInternship")
	return true, nil
}

// LogCourseProgress records progress on a course for an existing user, replacing any earlier
// record for the same course name.
func (s *TrackerService) LogCourseProgress(ctx context.Context, email, courseName string, modulesCompleted, totalModules int) (bool, error) {
	email = strings.TrimSpace(email)
	if err := validation.Struct(courseInput{
		Email:            email,
		CourseName:       courseName,
		ModulesCompleted: modulesCompleted,
		TotalModules:     totalModules,
	}); err != nil {
		return false, err
	}

	fields := map[string]interface{}{"email": email, "course": courseName}

	user, err := s.store.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return false, apperrors.ErrUserNotFound
		}
		return false, s.queryError("LogCourseProgress", err, fields)
	}

	course := &models.Course{
		UserID:           user.ID,
		CourseName:       strings.TrimSpace(courseName),
		ModulesCompleted: modulesCompleted,
		TotalModules:     totalModules,
	}
	if err := s.store.Courses.Upsert(ctx, course); err != nil {
		return false, s.queryError("LogCourseProgress", err, fields)
	}

	s.invalidateProfiles("LogCourseProgress")
	return true, nil
}

// LogFeedback appends a rating in [1,5] with free-text comments for an existing user
func (s *TrackerService) LogFeedback(ctx context.Context, userID int64, rating int, comments string) (bool, error) {
	if rating < models.MinRating || rating > models.MaxRating {
		return false, fieldError("rating", apperrors.ErrInvalidRating)
	}

	fields := map[string]interface{}{"userID": userID, "rating": rating}

	exists, err := s.store.Users.Exists(ctx, userID)
	if err != nil {
		return false, s.queryError("LogFeedback", err, fields)
	}
	if !exists {
		return false, apperrors.ErrUserNotFound
	}

	fb := &models.Feedback{UserID: userID, Rating: rating, Comments: comments}
	if err := s.store.Feedback.Create(ctx, fb); err != nil {
		// the user can still vanish between the lookup and the insert
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return false, apperrors.ErrUserNotFound
		}
		return false, s.queryError("LogFeedback", err, fields)
	}
	return true, nil
}

// LogEmojiFeedback maps an emoji from models.EmojiRatings onto a rating and logs it
func (s *TrackerService) LogEmojiFeedback(ctx context.Context, userID int64, emoji, comments string) (bool, error) {
	rating, ok := models.EmojiRatings[strings.TrimSpace(emoji)]
	if !ok {
		return false, apperrors.NewValidationError("emoji", "emoji must be one of 😊, 🙂, 😔")
	}
	return s.LogFeedback(ctx, userID, rating, comments)
}

// ComputeMetrics aggregates internships, MSMEs supported and courses across users of role.
func (s *TrackerService) ComputeMetrics(ctx context.Context, role models.Role) (models.Metrics, error) {
	if !role.Valid() {
		return models.Metrics{}, invalidRole(role)
	}
	if m, ok := s.metrics.Get(string(role)); ok {
		return m, nil
	}

	m, err := s.store.Metrics.ByRole(ctx, role)
	if err != nil {
		return models.Metrics{}, s.queryError("ComputeMetrics", err, map[string]interface{}{"role": role})
	}

	s.metrics.Set(string(role), m)
	return m, nil
}

// FetchReportRows returns users of role left-joined with their internships, capped at the
// configured report limit.
func (s *TrackerService) FetchReportRows(ctx context.Context, role models.Role) ([]models.ReportRow, error) {
	if !role.Valid() {
		return nil, invalidRole(role)
	}
	if rows, ok := s.reports.Get(string(role)); ok {
		return rows, nil
	}

	rows, err := s.store.Metrics.ReportRows(ctx, role, s.reportLimit)
	if err != nil {
		return nil, s.queryError("FetchReportRows", err, map[string]interface{}{"role": role})
	}
	if rows == nil {
		rows = []models.ReportRow{}
	}
	if len(rows) > s.reportLimit {
		rows = rows[:s.reportLimit]
	}

	s.reports.Set(string(role), rows)
	return rows, nil
}

// Dashboard composes the landing view: greeting, the student progress prompt and the
// Student-scoped metrics ticker.
func (s *TrackerService) Dashboard(ctx context.Context, email string) (*models.Dashboard, error) {
	profile, err := s.GetUserProfile(ctx, email)
	if err != nil {
		return nil, err
	}

	ticker, err := s.ComputeMetrics(ctx, models.RoleStudent)
	if err != nil {
		return nil, err
	}

	d := &models.Dashboard{
		Greeting: Greeting(profile.Role, profile.Name),
		Profile:  profile,
		Ticker:   ticker,
	}
	if profile.Role == models.RoleStudent {
		d.Level = models.ProgressLevelFor(len(profile.Internships))
		d.Prompt = MotivationalPrompts[d.Level]
	}
	return d, nil
}

func (s *TrackerService) invalidateProfiles(op string) {
	s.profiles.Flush()
	s.logger.Debug().Str("op", op).Str("cache", s.profiles.Name()).Msg("Cache flushed")
}

// queryError logs a failed store call with its key arguments and wraps it as a query or
// store-unavailable error.
func (s *TrackerService) queryError(op string, err error, fields map[string]interface{}) error {
	s.logger.Error().Err(err).Str("op", op).Fields(fields).Msg("Store operation failed")
	return apperrors.NewQueryError(op, err)
}

func invalidRole(role models.Role) error {
	e := fieldError("role", apperrors.ErrInvalidRole)
	e.Message = "invalid role " + strconv.Quote(string(role))
	return e
}

// fieldError is a validation failure that also matches the more specific cause
func fieldError(field string, cause error) *apperrors.CustomError {
	return &apperrors.CustomError{
		Err:     fmt.Errorf("%w: %w", apperrors.ErrValidationFailed, cause),
		Message: cause.Error(),
		Details: map[string]interface{}{"field": field},
	}
}

// nameFromEmail turns "jane.doe@x.org" into "Jane.doe"
func nameFromEmail(email string) string {
	local := email
	if i := strings.Index(email, "@"); i >= 0 {
		local = email[:i]
	}
	if local == "" {
		return email
	}
	first, size := utf8.DecodeRuneInString(local)
	return string(unicode.ToUpper(first)) + strings.ToLower(local[size:])
}
