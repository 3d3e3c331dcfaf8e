package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/hrms-lite/internal/core/employee"
	pgdb "github.com/ogurasousui/hrms-lite/internal/platform/db/postgres"
)

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	invalidTextCode         = "22P02"
	stringTooLongCode       = "22001"
	badEncodingCode         = "22021"

	employeesEmployeeIDKey = "employees_employee_id_key"
	employeesEmailKey      = "employees_email_key"
)

const (
	insertEmployeeSQL = `
        INSERT INTO employees (employee_id, full_name, email, department, created_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, employee_id, full_name, email, department, created_at
    `

	updateEmployeeSQL = `
        UPDATE employees
           SET full_name = $1,
               email = $2,
               department = $3
         WHERE id = $4
        RETURNING id, employee_id, full_name, email, department, created_at
    `

	deleteEmployeeSQL = `DELETE FROM employees WHERE id = $1`

	selectEmployeeSQL = `
        SELECT id, employee_id, full_name, email, department, created_at
          FROM employees
    `

	listEmployeeAttendanceSQL = `
        SELECT id, attendance_date, status, created_at, updated_at
          FROM attendance_records
         WHERE employee_id = $1
         ORDER BY attendance_date DESC
    `
)

// EmployeeRepository は PostgreSQL を利用した社員永続化の実装です。
type EmployeeRepository struct {
	pool pgdb.Queryer
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(pool pgdb.Queryer) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// Create は社員を新規作成します。employee_id と email の一意制約違反はそれぞれのエラーに変換されます。
func (r *EmployeeRepository) Create(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, insertEmployeeSQL,
		e.EmployeeID,
		e.FullName,
		e.Email,
		e.Department,
		e.CreatedAt,
	)

	created, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return created, nil
}

// Update は氏名・メールアドレス・部署を更新します。
func (r *EmployeeRepository) Update(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, updateEmployeeSQL,
		e.FullName,
		e.Email,
		e.Department,
		e.ID,
	)

	updated, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return updated, nil
}

// Delete は社員を削除します。
func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, deleteEmployeeSQL, id)
	if err != nil {
		return translateEmployeePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// FindByID は ID で社員を取得します。
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	return r.findOne(ctx, "id", id)
}

// FindByEmployeeID は社員コードで社員を取得します。
func (r *EmployeeRepository) FindByEmployeeID(ctx context.Context, employeeID string) (*employee.Employee, error) {
	return r.findOne(ctx, "employee_id", employeeID)
}

// FindByEmail はメールアドレスで社員を取得します。
func (r *EmployeeRepository) FindByEmail(ctx context.Context, email string) (*employee.Employee, error) {
	return r.findOne(ctx, "email", email)
}

func (r *EmployeeRepository) findOne(ctx context.Context, column, value string) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, selectEmployeeSQL+" WHERE "+column+" = $1 LIMIT 1", value)

	found, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return found, nil
}

// List は作成日時の降順で全社員を取得します。
func (r *EmployeeRepository) List(ctx context.Context) ([]*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, selectEmployeeSQL+" ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	defer rows.Close()

	employees := make([]*employee.Employee, 0)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, translateEmployeePgError(err)
		}
		employees = append(employees, emp)
	}

	if err := rows.Err(); err != nil {
		return nil, translateEmployeePgError(err)
	}

	return employees, nil
}

// ListAttendance は社員詳細に同梱する勤怠記録を取得します。
func (r *EmployeeRepository) ListAttendance(ctx context.Context, id string) ([]employee.AttendanceSnapshot, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, listEmployeeAttendanceSQL, id)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	defer rows.Close()

	records := make([]employee.AttendanceSnapshot, 0)
	for rows.Next() {
		var (
			snapshot employee.AttendanceSnapshot
			date     time.Time
		)
		if err := rows.Scan(&snapshot.ID, &date, &snapshot.Status, &snapshot.CreatedAt, &snapshot.UpdatedAt); err != nil {
			return nil, err
		}
		snapshot.Date = toDate(date)
		records = append(records, snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

func scanEmployee(row pgx.Row) (*employee.Employee, error) {
	var e employee.Employee
	if err := row.Scan(
		&e.ID,
		&e.EmployeeID,
		&e.FullName,
		&e.Email,
		&e.Department,
		&e.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, err
	}
	return &e, nil
}

func translateEmployeePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return employee.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			switch pgErr.ConstraintName {
			case employeesEmployeeIDKey:
				return employee.ErrEmployeeIDAlreadyExists
			case employeesEmailKey:
				return employee.ErrEmailAlreadyExists
			}
		case invalidTextCode:
			// uuid として解釈できない ID に一致する社員は存在しない
			return employee.ErrEmployeeNotFound
		case stringTooLongCode, badEncodingCode:
			return fmt.Errorf("%w: %s", employee.ErrInvalidValue, pgErr.Message)
		}
	}

	return err
}

// toDate は DATE 列の値を UTC の 0 時に揃えます。
func toDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
