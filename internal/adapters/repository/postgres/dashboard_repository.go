package postgres

import (
	"context"

	"github.com/ogurasousui/hrms-lite/internal/core/dashboard"
	pgdb "github.com/ogurasousui/hrms-lite/internal/platform/db/postgres"
)

const dashboardCountsSQL = `
        SELECT (SELECT COUNT(*) FROM employees),
               (SELECT COUNT(*) FROM attendance_records)
    `

// DashboardRepository は全体集計を PostgreSQL から読み出します。
type DashboardRepository struct {
	pool pgdb.Queryer
}

// NewDashboardRepository は DashboardRepository を生成します。
func NewDashboardRepository(pool pgdb.Queryer) *DashboardRepository {
	return &DashboardRepository{pool: pool}
}

// Counts は社員数と勤怠記録数を 1 クエリで取得します。
func (r *DashboardRepository) Counts(ctx context.Context) (*dashboard.Summary, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)

	var summary dashboard.Summary
	if err := exec.QueryRow(ctx, dashboardCountsSQL).Scan(
		&summary.TotalEmployees,
		&summary.TotalAttendanceRecords,
	); err != nil {
		return nil, err
	}
	return &summary, nil
}
