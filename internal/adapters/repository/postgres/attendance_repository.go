package postgres

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/hrms-lite/internal/core/attendance"
	pgdb "github.com/ogurasousui/hrms-lite/internal/platform/db/postgres"
)

const (
	upsertAttendanceSQL = `
        INSERT INTO attendance_records (employee_id, attendance_date, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (employee_id, attendance_date) DO UPDATE
           SET status = EXCLUDED.status,
               updated_at = EXCLUDED.updated_at
        RETURNING id, employee_id, attendance_date, status, created_at, updated_at, (xmax = 0) AS inserted
    `

	summarizeAttendanceSQL = `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE status = 'Present'),
               COUNT(*) FILTER (WHERE status = 'Absent')
          FROM attendance_records
         WHERE employee_id = $1
    `

	employeeExistsSQL = `SELECT EXISTS (SELECT 1 FROM employees WHERE id = $1)`

	selectAttendanceSQL = `
        SELECT id, employee_id, attendance_date, status, created_at, updated_at
          FROM attendance_records`
)

// AttendanceRepository は PostgreSQL を利用した勤怠記録の永続化実装です。
type AttendanceRepository struct {
	pool pgdb.Queryer
}

// NewAttendanceRepository は AttendanceRepository を生成します。
func NewAttendanceRepository(pool pgdb.Queryer) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

// Upsert は (employee_id, attendance_date) の一意制約を使って 1 文で登録または更新します。
// xmax = 0 の行は今回の INSERT で作られた行です。
func (r *AttendanceRepository) Upsert(ctx context.Context, rec *attendance.Record) (*attendance.MarkResult, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, upsertAttendanceSQL,
		rec.EmployeeID,
		toDate(rec.Date),
		string(rec.Status),
		rec.CreatedAt,
		rec.UpdatedAt,
	)

	var inserted bool
	saved, err := scanRecord(row, &inserted)
	if err != nil {
		return nil, translateAttendancePgError(err)
	}

	return &attendance.MarkResult{Record: saved, Created: inserted}, nil
}

// List は社員の勤怠記録を日付の降順で取得します。
func (r *AttendanceRepository) List(ctx context.Context, filter attendance.ListFilter) ([]*attendance.Record, error) {
	query, args := buildListAttendanceQuery(filter)

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, translateAttendancePgError(err)
	}
	defer rows.Close()

	records := make([]*attendance.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, translateAttendancePgError(err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, translateAttendancePgError(err)
	}

	return records, nil
}

func buildListAttendanceQuery(filter attendance.ListFilter) (string, []any) {
	args := make([]any, 0, 3)
	conditions := make([]string, 0, 3)

	args = append(args, filter.EmployeeID)
	conditions = append(conditions, "employee_id = $"+strconv.Itoa(len(args)))

	if filter.StartDate != nil {
		args = append(args, toDate(*filter.StartDate))
		conditions = append(conditions, "attendance_date >= $"+strconv.Itoa(len(args)))
	}

	if filter.EndDate != nil {
		args = append(args, toDate(*filter.EndDate))
		conditions = append(conditions, "attendance_date <= $"+strconv.Itoa(len(args)))
	}

	query := selectAttendanceSQL + `
         WHERE ` + strings.Join(conditions, " AND ") + `
         ORDER BY attendance_date DESC`

	return query, args
}

// Summarize は社員の勤怠件数をステータス別に数えます。
func (r *AttendanceRepository) Summarize(ctx context.Context, employeeID string) (*attendance.Summary, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)

	summary := &attendance.Summary{EmployeeID: employeeID}
	if err := exec.QueryRow(ctx, summarizeAttendanceSQL, employeeID).Scan(
		&summary.TotalRecords,
		&summary.PresentDays,
		&summary.AbsentDays,
	); err != nil {
		return nil, translateAttendancePgError(err)
	}

	return summary, nil
}

// EmployeeExists は社員が存在するかを確認します。
func (r *AttendanceRepository) EmployeeExists(ctx context.Context, employeeID string) (bool, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)

	var exists bool
	if err := exec.QueryRow(ctx, employeeExistsSQL, employeeID).Scan(&exists); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == invalidTextCode {
			return false, nil
		}
		return false, err
	}
	return exists, nil
}

// scanRecord は勤怠記録 1 行を読み取ります。extra には RETURNING の追加列を渡します。
func scanRecord(row pgx.Row, extra ...any) (*attendance.Record, error) {
	var (
		rec    attendance.Record
		status string
	)

	dest := []any{
		&rec.ID,
		&rec.EmployeeID,
		&rec.Date,
		&status,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	rec.Date = toDate(rec.Date)
	rec.Status = attendance.Status(status)
	return &rec, nil
}

func translateAttendancePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return attendance.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case foreignKeyViolationCode, invalidTextCode:
			return attendance.ErrEmployeeNotFound
		}
	}

	return err
}
