package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kyra/interntrack/internal/app/models"
	"github.com/kyra/interntrack/internal/pkg/dberrors"
	"github.com/kyra/interntrack/internal/pkg/logger"
)

// MetricsRepository runs aggregate and report queries scoped by role
type MetricsRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewMetricsRepository creates a new MetricsRepository
func NewMetricsRepository(db *pgxpool.Pool) *MetricsRepository {
	return &MetricsRepository{
		db: db,
		sb: statementBuilder(),
	}
}

const metricsByRoleSQL = `
	SELECT
		(SELECT COUNT(*) FROM internships i JOIN users u ON u.user_id = i.user_id WHERE u.role = $1),
		(SELECT COALESCE(SUM(i.msme_digitalized), 0) FROM internships i JOIN users u ON u.user_id = i.user_id WHERE u.role = $1),
		(SELECT COUNT(*) FROM courses c JOIN users u ON u.user_id = c.user_id WHERE u.role = $1)`

// ByRole counts internships and courses and sums digitalized MSMEs for users of one role
func (r *MetricsRepository) ByRole(ctx context.Context, role models.Role) (models.Metrics, error) {
	var m models.Metrics
	err := r.db.QueryRow(ctx, metricsByRoleSQL, string(role)).Scan(
		&m.TotalInternships, &m.TotalMSMEsSupported, &m.TotalCourses)
	if err != nil {
		logger.Error().Err(err).Str("role", string(role)).Msg("Error executing metrics query")
		return models.Metrics{}, fmt.Errorf("error computing metrics: %w", dberrors.Classify(err))
	}
	return m, nil
}

// ReportRows left-joins users of a role with their internships, capped at limit rows
func (r *MetricsRepository) ReportRows(ctx context.Context, role models.Role, limit int) ([]models.ReportRow, error) {
	sql, args, err := r.sb.Select("u.name", "u.email", "i.company_name", "i.duration", "i.feedback", "i.msme_digitalized").
		From("users u").
		LeftJoin("internships i ON u.user_id = i.user_id").
		Where(squirrel.Eq{"u.role": string(role)}).
		OrderBy("u.user_id ASC", "i.internship_id ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build report query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("role", string(role)).Msg("Error executing report query")
		return nil, fmt.Errorf("error querying report rows: %w", dberrors.Classify(err))
	}
	defer rows.Close()

	report := []models.ReportRow{}
	for rows.Next() {
		var row models.ReportRow
		if err := rows.Scan(&row.Name, &row.Email, &row.CompanyName, &row.Duration, &row.Feedback, &row.MSMEsDigitalized); err != nil {
			return nil, fmt.Errorf("error scanning report row: %w", err)
		}
		report = append(report, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report rows: %w", dberrors.Classify(err))
	}

	return report, nil
}
