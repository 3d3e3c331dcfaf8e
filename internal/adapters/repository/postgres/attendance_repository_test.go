package postgres

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/hrms-lite/internal/core/attendance"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

var attendanceColumns = []string{"id", "employee_id", "attendance_date", "status", "created_at", "updated_at"}

func TestBuildListAttendanceQuery(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		filter   attendance.ListFilter
		contains []string
		args     int
	}{
		{
			name:     "employee only",
			filter:   attendance.ListFilter{EmployeeID: "emp-1"},
			contains: []string{"WHERE employee_id = $1", "ORDER BY attendance_date DESC"},
			args:     1,
		},
		{
			name:     "start only",
			filter:   attendance.ListFilter{EmployeeID: "emp-1", StartDate: &start},
			contains: []string{"employee_id = $1 AND attendance_date >= $2"},
			args:     2,
		},
		{
			name:     "end only",
			filter:   attendance.ListFilter{EmployeeID: "emp-1", EndDate: &end},
			contains: []string{"employee_id = $1 AND attendance_date <= $2"},
			args:     2,
		},
		{
			name:     "both bounds",
			filter:   attendance.ListFilter{EmployeeID: "emp-1", StartDate: &start, EndDate: &end},
			contains: []string{"attendance_date >= $2 AND attendance_date <= $3"},
			args:     3,
		},
	}

	for _, tc := range cases {
		query, args := buildListAttendanceQuery(tc.filter)
		for _, fragment := range tc.contains {
			if !strings.Contains(query, fragment) {
				t.Errorf("%s: expected query to contain %q, got %q", tc.name, fragment, query)
			}
		}
		if len(args) != tc.args {
			t.Errorf("%s: expected %d args, got %d", tc.name, tc.args, len(args))
		}
	}

	_, args := buildListAttendanceQuery(attendance.ListFilter{EmployeeID: "emp-1", StartDate: &start})
	if got := args[1].(time.Time); !got.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected start bound truncated to date, got %v", got)
	}
}

func TestTranslateAttendancePgError(t *testing.T) {
	t.Parallel()

	fk := &pgconn.PgError{Code: foreignKeyViolationCode}
	if !errors.Is(translateAttendancePgError(fk), attendance.ErrEmployeeNotFound) {
		t.Fatalf("expected foreign key violation to map to ErrEmployeeNotFound")
	}

	other := errors.New("boom")
	if translateAttendancePgError(other) != other {
		t.Fatalf("unexpected translation for generic error")
	}
	if translateAttendancePgError(nil) != nil {
		t.Fatalf("expected nil for nil error")
	}
}

func TestAttendanceRepository_Upsert(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewAttendanceRepository(mock)
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	updatedAt := createdAt.Add(2 * time.Hour)

	columns := append(append([]string{}, attendanceColumns...), "inserted")

	mock.ExpectQuery(regexp.QuoteMeta(upsertAttendanceSQL)).
		WithArgs("emp-1", day, "Present", createdAt, createdAt).
		WillReturnRows(pgxmock.NewRows(columns).
			AddRow("att-1", "emp-1", day, "Present", createdAt, createdAt, true))
	mock.ExpectQuery(regexp.QuoteMeta(upsertAttendanceSQL)).
		WithArgs("emp-1", day, "Absent", updatedAt, updatedAt).
		WillReturnRows(pgxmock.NewRows(columns).
			AddRow("att-1", "emp-1", day, "Absent", createdAt, updatedAt, false))

	first, err := repo.Upsert(context.Background(), &attendance.Record{
		EmployeeID: "emp-1",
		Date:       day,
		Status:     attendance.StatusPresent,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	})
	if err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}
	if !first.Created || first.Record.Status != attendance.StatusPresent {
		t.Fatalf("unexpected first result %+v", first)
	}

	second, err := repo.Upsert(context.Background(), &attendance.Record{
		EmployeeID: "emp-1",
		Date:       day,
		Status:     attendance.StatusAbsent,
		CreatedAt:  updatedAt,
		UpdatedAt:  updatedAt,
	})
	if err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}
	if second.Created {
		t.Fatalf("expected second upsert to update")
	}
	if second.Record.ID != "att-1" || !second.Record.CreatedAt.Equal(createdAt) || !second.Record.UpdatedAt.Equal(updatedAt) {
		t.Fatalf("unexpected updated record %+v", second.Record)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAttendanceRepository_Upsert_UnknownEmployee(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewAttendanceRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(upsertAttendanceSQL)).
		WillReturnError(&pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "attendance_records_employee_id_fkey"})

	_, err = repo.Upsert(context.Background(), &attendance.Record{
		EmployeeID: "emp-x",
		Date:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:     attendance.StatusPresent,
	})
	if !errors.Is(err, attendance.ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestAttendanceRepository_List(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewAttendanceRepository(mock)
	now := time.Now().UTC()
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	day3 := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`attendance_date >= $2`)).
		WithArgs("emp-1", start).
		WillReturnRows(pgxmock.NewRows(attendanceColumns).
			AddRow("att-3", "emp-1", day3, "Present", now, now).
			AddRow("att-2", "emp-1", start, "Absent", now, now))

	records, err := repo.List(context.Background(), attendance.ListFilter{EmployeeID: "emp-1", StartDate: &start})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(records) != 2 || records[0].ID != "att-3" || records[1].Status != attendance.StatusAbsent {
		t.Fatalf("unexpected records %+v", records)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAttendanceRepository_Summarize(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewAttendanceRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(summarizeAttendanceSQL)).
		WithArgs("emp-1").
		WillReturnRows(pgxmock.NewRows([]string{"count", "present", "absent"}).AddRow(int64(5), int64(3), int64(2)))

	summary, err := repo.Summarize(context.Background(), "emp-1")
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	if summary.EmployeeID != "emp-1" || summary.TotalRecords != 5 || summary.PresentDays != 3 || summary.AbsentDays != 2 {
		t.Fatalf("unexpected summary %+v", summary)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAttendanceRepository_EmployeeExists(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewAttendanceRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(employeeExistsSQL)).
		WithArgs("emp-1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta(employeeExistsSQL)).
		WithArgs("not-a-uuid").
		WillReturnError(&pgconn.PgError{Code: invalidTextCode})

	exists, err := repo.EmployeeExists(context.Background(), "emp-1")
	if err != nil || !exists {
		t.Fatalf("expected employee to exist, got %v %v", exists, err)
	}

	exists, err = repo.EmployeeExists(context.Background(), "not-a-uuid")
	if err != nil || exists {
		t.Fatalf("expected malformed id to be reported missing, got %v %v", exists, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
