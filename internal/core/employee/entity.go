package employee

import "time"

// Employee は社員エンティティです。
type Employee struct {
	ID         string
	EmployeeID string
	FullName   string
	Email      string
	Department string
	CreatedAt  time.Time
	// Attendance は GetEmployee でのみ埋められる勤怠記録のスナップショットです。
	Attendance []AttendanceSnapshot
}

// AttendanceSnapshot は社員詳細に同梱する勤怠記録のスナップショットです。
type AttendanceSnapshot struct {
	ID        string
	Date      time.Time
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
