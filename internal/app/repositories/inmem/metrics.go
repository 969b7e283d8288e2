package inmem

import (
	"context"

	"github.com/kyra/interntrack/internal/app/models"
)

type metricsRepository struct {
	db *DB
}

func (repo *metricsRepository) roleMembers(role models.Role) map[int64]bool {
	members := make(map[int64]bool)
	for _, u := range repo.db.users {
		if u.Role == role {
			members[u.ID] = true
		}
	}
	return members
}

func (repo *metricsRepository) ByRole(_ context.Context, role models.Role) (models.Metrics, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	members := repo.roleMembers(role)
	var m models.Metrics
	for _, i := range repo.db.internships {
		if members[i.UserID] {
			m.TotalInternships++
			m.TotalMSMEsSupported += int64(i.MSMEsDigitalized)
		}
	}
	for _, c := range repo.db.courses {
		if members[c.UserID] {
			m.TotalCourses++
		}
	}
	return m, nil
}

// ReportRows walks users in id order, emitting one row per internship or a single row with
// empty internship fields, the same shape as the SQL left join.
func (repo *metricsRepository) ReportRows(_ context.Context, role models.Role, limit int) ([]models.ReportRow, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	report := []models.ReportRow{}
	for _, u := range repo.db.users {
		if u.Role != role {
			continue
		}
		matched := false
		for _, i := range repo.db.internships {
			if i.UserID != u.ID {
				continue
			}
			matched = true
			company, duration, feedback, msmes := i.CompanyName, i.Duration, i.Feedback, i.MSMEsDigitalized
			report = append(report, models.ReportRow{
				Name:             u.Name,
				Email:            u.Email,
				CompanyName:      &company,
				Duration:         &duration,
				Feedback:         &feedback,
				MSMEsDigitalized: &msmes,
			})
			if len(report) == limit {
				return report, nil
			}
		}
		if !matched {
			report = append(report, models.ReportRow{Name: u.Name, Email: u.Email})
			if len(report) == limit {
				return report, nil
			}
		}
	}
	return report, nil
}
