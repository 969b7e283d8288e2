package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kyra/interntrack/internal/app/models"
	"github.com/kyra/interntrack/internal/app/repositories"
	"github.com/kyra/interntrack/internal/app/repositories/inmem"
	"github.com/kyra/interntrack/internal/pkg/apperrors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingUsers counts store round trips for cache assertions
type countingUsers struct {
	repositories.UserStore
	lookups atomic.Int64
	checks  atomic.Int64
}

func (c *countingUsers) Exists(ctx context.Context, id int64) (bool, error) {
	c.checks.Add(1)
	return c.UserStore.Exists(ctx, id)
}

func (c *countingUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	c.lookups.Add(1)
	return c.UserStore.GetByEmail(ctx, email)
}

type countingMetrics struct {
	repositories.MetricsStore
	byRole  atomic.Int64
	reports atomic.Int64
}

func (c *countingMetrics) ByRole(ctx context.Context, role models.Role) (models.Metrics, error) {
	c.byRole.Add(1)
	return c.MetricsStore.ByRole(ctx, role)
}

func (c *countingMetrics) ReportRows(ctx context.Context, role models.Role, limit int) ([]models.ReportRow, error) {
	c.reports.Add(1)
	return c.MetricsStore.ReportRows(ctx, role, limit)
}

type fixture struct {
	svc     *TrackerService
	db      *inmem.DB
	users   *countingUsers
	metrics *countingMetrics
}

func newFixture(t *testing.T, opts TrackerOptions) *fixture {
	t.Helper()
	db := inmem.NewDB()
	store := inmem.NewStore(db)

	users := &countingUsers{UserStore: store.Users}
	metrics := &countingMetrics{MetricsStore: store.Metrics}
	store.Users = users
	store.Metrics = metrics

	return &fixture{
		svc:     NewTrackerService(store, opts, zerolog.Nop()),
		db:      db,
		users:   users,
		metrics: metrics,
	}
}

func TestAuthenticateOrRegister(t *testing.T) {
	f := newFixture(t, TrackerOptions{})
	ctx := context.Background()

	first, err := f.svc.AuthenticateOrRegister(ctx, "alice@example.com", "Alice", models.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, "Alice", first.Name)

	again, err := f.svc.AuthenticateOrRegister(ctx, "alice@example.com", "Someone Else", models.RoleMentor)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, models.RoleStudent, again.Role)
	assert.Equal(t, 1, f.db.UserCount())

	_, err = f.svc.AuthenticateOrRegister(ctx, "bob@example.com", "Bob", models.Role("Admin"))
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Equal(t, 1, f.db.UserCount())
}

func TestGetUserProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown email", func(t *testing.T) {
		f := newFixture(t, TrackerOptions{})
		profile, err := f.svc.GetUserProfile(ctx, "nobody@example.com")
		assert.Nil(t, profile)
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})

	t.Run("bundle", func(t *testing.T) {
		f := newFixture(t, TrackerOptions{})
		_, err := f.svc.AuthenticateOrRegister(ctx, "alice@example.com", "Alice", models.RoleStudent)
		require.NoError(t, err)
		_, err = f.svc.LogInternship(ctx, "alice@example.com", "Acme", "3 months", "good", 2)
		require.NoError(t, err)
		_, err = f.svc.LogCourseProgress(ctx, "alice@example.com", "Excel", 1, 5)
		require.NoError(t, err)

		profile, err := f.svc.GetUserProfile(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, "Alice", profile.Name)
		assert.Equal(t, models.RoleStudent, profile.Role)
		require.Len(t, profile.Internships, 1)
		assert.Equal(t, "Acme", profile.Internships[0].CompanyName)
		require.Len(t, profile.Courses, 1)
		assert.Equal(t, "Excel", profile.Courses[0].CourseName)
	})

	t.Run("empty lists are not nil", func(t *testing.T) {
		f := newFixture(t, TrackerOptions{})
		_, err := f.svc.AuthenticateOrRegister(ctx, "alice@example.com", "Alice", models.RoleStudent)
		require.NoError(t, err)

		profile, err := f.svc.GetUserProfile(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.NotNil(t, profile.Internships)
		assert.NotNil(t, profile.Courses)
	})
}

func TestProfileCache(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, TrackerOptions{})
	_, err := f.svc.AuthenticateOrRegister(ctx, "alice@example.com", "Alice", models.RoleStudent)
	require.NoError(t, err)

	first, err := f.svc.GetUserProfile(ctx, "alice@example.com")
	require.NoError(t, err)
	second, err := f.svc.GetUserProfile(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), f.users.lookups.Load(), "second read must be served from cache")

	_, err = f.svc.LogInternship(ctx, "alice@example.com", "Acme", "1 month", "", 0)
	require.NoError(t, err)

	third, err := f.svc.GetUserProfile(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Len(t, third.Internships, 1)
	assert.Equal(t, int64(2), f.users.lookups.Load())

	// course writes clear every cached profile, not just the writer's
	_, err = f.svc.AuthenticateOrRegister(ctx, "bob@example.com", "Bob", models.RoleMentor)
	require.NoError(t, err)
	_, err = f.svc.GetUserProfile(ctx, "bob@example.com")
	require.NoError(t, err)
	lookups := f.users.lookups.Load()

	_, err = f.svc.LogCourseProgress(ctx, "alice@example.com", "Go", 1, 2)
	require.NoError(t, err)
	lookups++ // LogCourseProgress resolves the user itself

	_, err = f.svc.GetUserProfile(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, lookups+1, f.users.lookups.Load())
}

func TestCachedProfileIsNotShared(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, TrackerOptions{})
	_, err := f.svc.LogInternship(ctx, "alice@example.com", "Acme", "3 months", "", 1)
	require.NoError(t, err)

	first, err := f.svc.GetUserProfile(ctx, "alice@example.com")
	require.NoError(t, err)
	first.Internships[0].CompanyName = "Changed"
	first.Name = "Changed"

	second, err := f.svc.GetUserProfile(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), f.users.lookups.Load(), "second read must be served from cache")
	assert.Equal(t, "Acme", second.Internships[0].CompanyName)
	assert.Equal(t, "Alice", second.Name)
}

func TestProfileCacheExpires(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, TrackerOptions{CacheTTL: 20 * time.Millisecond})
	_, err := f.svc.AuthenticateOrRegister(ctx, "alice@example.com", "Alice", models.RoleStudent)
	require.NoError(t, err)

	_, err = f.svc.GetUserProfile(ctx, "alice@example.com")
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)

	_, err = f.svc.GetUserProfile(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(2), f.users.lookups.Load())
}

func TestLogInternship(t *testing.T) {
	ctx := context.Background()

	t.Run("auto-creates a student", func(t *testing.T) {
		f := newFixture(t, TrackerOptions{})
		ok, err := f.svc.LogInternship(ctx, "jane.DOE@example.com", "Acme", "3 months", "", 1)
		require.NoError(t, err)
		assert.True(t, ok)

		profile, err := f.svc.GetUserProfile(ctx, "jane.DOE@example.com")
		require.NoError(t, err)
		assert.Equal(t, "Jane.doe", profile.Name)
		assert.Equal(t, models.RoleStudent, profile.Role)
	})

	t.Run("append-only", func(t *testing.T) {
		f := newFixture(t, TrackerOptions{})
		for i := 0; i < 4; i++ {
			ok, err := f.svc.LogInternship(ctx, "alice@example.com", "Acme", "1 month", "same", 1)
			require.NoError(t, err)
			require.True(t, ok)
		}

		profile, err := f.svc.GetUserProfile(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Len(t, profile.Internships, 4)
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name     string
			email    string
			company  string
			duration string
			msmes    int
		}{
			{name: "missing company", email: "a@example.com", duration: "1m"},
			{name: "missing duration", email: "a@example.com", company: "Acme"},
			{name: "negative msmes", email: "a@example.com", company: "Acme", duration: "1m", msmes: -1},
			{name: "bad email", email: "not-an-email", company: "Acme", duration: "1m"},
		}

		f := newFixture(t, TrackerOptions{})
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				ok, err := f.svc.LogInternship(ctx, tt.email, tt.company, tt.duration, "", tt.msmes)
				assert.False(t, ok)
				assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
			})
		}
		assert.Equal(t, 0, f.db.UserCount(), "validation failures must not reach the store")
	})
}

func TestLogCourseProgress(t *testing.T) {
	ctx := context.Background()

	t.Run("requires an existing user", func(t *testing.T) {
		f := newFixture(t, TrackerOptions{})
		ok, err := f.svc.LogCourseProgress(ctx, "ghost@example.com", "Go", 1, 3)
		assert.False(t, ok)
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
		assert.Equal(t, 0, f.db.UserCount())
	})

	t.Run("upsert", func(t *testing.T) {
		f := newFixture(t, TrackerOptions{})
		_, err := f.svc.AuthenticateOrRegister(ctx, "alice@example.com", "Alice", models.RoleStudent)
		require.NoError(t, err)

		_, err = f.svc.LogCourseProgress(ctx, "alice@example.com", "Go", 1, 5)
		require.NoError(t, err)
		ok, err := f.svc.LogCourseProgress(ctx, "alice@example.com", "Go", 4, 5)
		require.NoError(t, err)
		assert.True(t, ok)

		assert.Equal(t, 1, f.db.CourseCount())
		profile, err := f.svc.GetUserProfile(ctx, "alice@example.com")
		require.NoError(t, err)
		require.Len(t, profile.Courses, 1)
		assert.Equal(t, 4, profile.Courses[0].ModulesCompleted)
	})

	t.Run("validation", func(t *testing.T) {
		f := newFixture(t, TrackerOptions{})
		_, err := f.svc.AuthenticateOrRegister(ctx, "alice@example.com", "Alice", models.RoleStudent)
		require.NoError(t, err)

		for _, tc := range [][2]int{{-1, 3}, {1, 0}, {4, 3}} {
			ok, err := f.svc.LogCourseProgress(ctx, "alice@example.com", "Go", tc[0], tc[1])
			assert.False(t, ok)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed, "completed=%d total=%d", tc[0], tc[1])
		}
		_, err = f.svc.LogCourseProgress(ctx, "alice@example.com", " ", 1, 3)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		assert.Equal(t, 0, f.db.CourseCount())
	})
}

func TestLogFeedback(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, TrackerOptions{})
	user, err := f.svc.AuthenticateOrRegister(ctx, "alice@example.com", "Alice", models.RoleStudent)
	require.NoError(t, err)

	tests := []struct {
		rating int
		ok     bool
	}{
		{rating: 0},
		{rating: 6},
		{rating: -3},
		{rating: 1, ok: true},
		{rating: 5, ok: true},
		{rating: 3, ok: true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("rating %d", tt.rating), func(t *testing.T) {
			ok, err := f.svc.LogFeedback(ctx, user.ID, tt.rating, "comment")
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
			assert.ErrorIs(t, err, apperrors.ErrInvalidRating)
		})
	}
	assert.Equal(t, 3, f.db.FeedbackCount())

	checks := f.users.checks.Load()
	ok, err := f.svc.LogFeedback(ctx, 999, 4, "")
	assert.False(t, ok)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	assert.Equal(t, checks+1, f.users.checks.Load(), "unknown users are rejected by lookup before the insert")
	assert.Equal(t, 3, f.db.FeedbackCount())
}

func TestLogEmojiFeedback(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, TrackerOptions{})
	user, err := f.svc.AuthenticateOrRegister(ctx, "alice@example.com", "Alice", models.RoleStudent)
	require.NoError(t, err)

	for _, emoji := range []string{"😊", "🙂", "😔"} {
		ok, err := f.svc.LogEmojiFeedback(ctx, user.ID, emoji, "")
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, err := f.svc.LogEmojiFeedback(ctx, user.ID, "🤷", "")
	assert.False(t, ok)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Equal(t, 3, f.db.FeedbackCount())
}

func TestComputeMetrics(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, TrackerOptions{})

	_, err := f.svc.LogInternship(ctx, "s1@example.com", "Acme", "1 month", "", 1)
	require.NoError(t, err)
	_, err = f.svc.LogInternship(ctx, "s2@example.com", "Beta", "2 months", "", 3)
	require.NoError(t, err)
	_, err = f.svc.AuthenticateOrRegister(ctx, "mentor@example.com", "Dr. Jones", models.RoleMentor)
	require.NoError(t, err)
	_, err = f.svc.LogInternship(ctx, "mentor@example.com", "Gamma", "1 week", "", 10)
	require.NoError(t, err)
	_, err = f.svc.LogCourseProgress(ctx, "s1@example.com", "Go", 1, 2)
	require.NoError(t, err)

	m, err := f.svc.ComputeMetrics(ctx, models.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, int64(2), m.TotalInternships)
	assert.Equal(t, int64(4), m.TotalMSMEsSupported)
	assert.Equal(t, int64(1), m.TotalCourses)

	none, err := f.svc.ComputeMetrics(ctx, models.RoleGovernment)
	require.NoError(t, err)
	assert.Equal(t, models.Metrics{}, none)

	_, err = f.svc.ComputeMetrics(ctx, models.Role("Admin"))
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.ErrorIs(t, err, apperrors.ErrInvalidRole)
}

func TestMetricsCacheIsNotInvalidatedByWrites(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, TrackerOptions{})

	_, err := f.svc.LogInternship(ctx, "s1@example.com", "Acme", "1 month", "", 1)
	require.NoError(t, err)

	before, err := f.svc.ComputeMetrics(ctx, models.RoleStudent)
	require.NoError(t, err)

	_, err = f.svc.LogInternship(ctx, "s1@example.com", "Acme", "1 month", "", 5)
	require.NoError(t, err)

	after, err := f.svc.ComputeMetrics(ctx, models.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, int64(1), f.metrics.byRole.Load())
}

func TestFetchReportRows(t *testing.T) {
	ctx := context.Background()

	t.Run("left join", func(t *testing.T) {
		f := newFixture(t, TrackerOptions{})
		_, err := f.svc.LogInternship(ctx, "s1@example.com", "Acme", "1 month", "ok", 2)
		require.NoError(t, err)
		_, err = f.svc.AuthenticateOrRegister(ctx, "s2@example.com", "Idle", models.RoleStudent)
		require.NoError(t, err)

		rows, err := f.svc.FetchReportRows(ctx, models.RoleStudent)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		require.NotNil(t, rows[0].CompanyName)
		assert.Equal(t, "Acme", *rows[0].CompanyName)
		assert.Nil(t, rows[1].CompanyName)
		assert.Nil(t, rows[1].MSMEsDigitalized)

		_, err = f.svc.FetchReportRows(ctx, models.RoleStudent)
		require.NoError(t, err)
		assert.Equal(t, int64(1), f.metrics.reports.Load())
	})

	t.Run("capped", func(t *testing.T) {
		f := newFixture(t, TrackerOptions{ReportLimit: 100})
		for i := 0; i < 130; i++ {
			_, err := f.svc.LogInternship(ctx, fmt.Sprintf("s%d@example.com", i), "Acme", "1 month", "", 1)
			require.NoError(t, err)
		}

		rows, err := f.svc.FetchReportRows(ctx, models.RoleStudent)
		require.NoError(t, err)
		assert.Len(t, rows, 100)
	})

	t.Run("empty role", func(t *testing.T) {
		f := newFixture(t, TrackerOptions{})
		rows, err := f.svc.FetchReportRows(ctx, models.RoleCollege)
		require.NoError(t, err)
		assert.NotNil(t, rows)
		assert.Empty(t, rows)
	})
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, TrackerOptions{})

	_, err := f.svc.AuthenticateOrRegister(ctx, "student@example.com", "Alice", models.RoleStudent)
	require.NoError(t, err)

	d, err := f.svc.Dashboard(ctx, "student@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Welcome, Alice! Ky’ra is here to guide your journey. Let’s begin! 🌟", d.Greeting)
	assert.Equal(t, models.ProgressNone, d.Level)
	assert.Equal(t, MotivationalPrompts[models.ProgressNone], d.Prompt)

	_, err = f.svc.AuthenticateOrRegister(ctx, "gov@example.com", "Gov Official", models.RoleGovernment)
	require.NoError(t, err)
	_, err = f.svc.LogInternship(ctx, "student@example.com", "Acme", "1 month", "", 3)
	require.NoError(t, err)

	gov, err := f.svc.Dashboard(ctx, "gov@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Greetings, Gov Official! Driving impact with Ky’ra’s insights. 🏛", gov.Greeting)
	assert.Empty(t, gov.Prompt)
	// the ticker is served from the metrics cache filled by the first dashboard
	assert.Equal(t, d.Ticker, gov.Ticker)

	_, err = f.svc.Dashboard(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestProgressPrompts(t *testing.T) {
	assert.Equal(t, models.ProgressNone, models.ProgressLevelFor(0))
	assert.Equal(t, models.ProgressSome, models.ProgressLevelFor(1))
	assert.Equal(t, models.ProgressSome, models.ProgressLevelFor(2))
	assert.Equal(t, models.ProgressHigh, models.ProgressLevelFor(3))
	for _, level := range []models.ProgressLevel{models.ProgressNone, models.ProgressSome, models.ProgressHigh} {
		assert.NotEmpty(t, MotivationalPrompts[level])
	}
	assert.Equal(t, "Welcome back!", Greeting(models.Role("Guest"), "x"))
}

// failingMetrics simulates an outage or a broken query
type failingMetrics struct {
	repositories.MetricsStore
	err error
}

func (f *failingMetrics) ByRole(context.Context, models.Role) (models.Metrics, error) {
	return models.Metrics{}, f.err
}

func (f *failingMetrics) ReportRows(context.Context, models.Role, int) ([]models.ReportRow, error) {
	return nil, f.err
}

func TestStoreFailuresSurfaceAsErrorKinds(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "outage", err: fmt.Errorf("%w: connection refused", apperrors.ErrStoreUnavailable), want: apperrors.ErrStoreUnavailable},
		{name: "bad query", err: errors.New("syntax error"), want: apperrors.ErrQueryFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := inmem.NewStore(inmem.NewDB())
			store.Metrics = &failingMetrics{err: tt.err}
			svc := NewTrackerService(store, TrackerOptions{}, zerolog.Nop())

			m, err := svc.ComputeMetrics(ctx, models.RoleStudent)
			assert.Zero(t, m)
			assert.ErrorIs(t, err, tt.want)

			rows, err := svc.FetchReportRows(ctx, models.RoleStudent)
			assert.Nil(t, rows)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNameFromEmail(t *testing.T) {
	assert.Equal(t, "Student", nameFromEmail("student@example.com"))
	assert.Equal(t, "Jane.doe", nameFromEmail("JANE.DOE@example.com"))
	assert.Equal(t, "Élodie", nameFromEmail("élodie@example.fr"))
}
