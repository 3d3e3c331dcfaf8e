package handler

import (
	"time"

	"github.com/ogurasousui/hrms-lite/internal/core/attendance"
	"github.com/ogurasousui/hrms-lite/internal/core/dashboard"
	"github.com/ogurasousui/hrms-lite/internal/core/employee"
)

const dateLayout = "2006-01-02"

type createEmployeeRequest struct {
	EmployeeID string `json:"employee_id" validate:"required,max=50"`
	FullName   string `json:"full_name" validate:"required,max=100"`
	Email      string `json:"email" validate:"required,max=320,email"`
	Department string `json:"department" validate:"required,max=50"`
}

type updateEmployeeRequest struct {
	FullName   *string `json:"full_name" validate:"omitnil,max=100"`
	Email      *string `json:"email" validate:"omitnil,max=320,email"`
	Department *string `json:"department" validate:"omitnil,max=50"`
}

type markAttendanceRequest struct {
	Date   string `json:"date" validate:"required"`
	Status string `json:"status" validate:"required,oneof=Present Absent"`
}

type employeeResponse struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employee_id"`
	FullName   string    `json:"full_name"`
	Email      string    `json:"email"`
	Department string    `json:"department"`
	CreatedAt  time.Time `json:"created_at"`
}

type employeeDetailResponse struct {
	employeeResponse
	AttendanceRecords []attendanceResponse `json:"attendance_records"`
}

type attendanceResponse struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employee_id"`
	Date       string    `json:"date"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type attendanceSummaryResponse struct {
	EmployeeID   string `json:"employee_id"`
	TotalRecords int64  `json:"total_records"`
	PresentDays  int64  `json:"present_days"`
	AbsentDays   int64  `json:"absent_days"`
}

type dashboardSummaryResponse struct {
	TotalEmployees         int64 `json:"total_employees"`
	TotalAttendanceRecords int64 `json:"total_attendance_records"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type errorResponse struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

func toEmployeeResponse(e *employee.Employee) employeeResponse {
	return employeeResponse{
		ID:         e.ID,
		EmployeeID: e.EmployeeID,
		FullName:   e.FullName,
		Email:      e.Email,
		Department: e.Department,
		CreatedAt:  e.CreatedAt,
	}
}

func toEmployeeDetailResponse(e *employee.Employee) employeeDetailResponse {
	records := make([]attendanceResponse, 0, len(e.Attendance))
	for _, snapshot := range e.Attendance {
		records = append(records, attendanceResponse{
			ID:         snapshot.ID,
			EmployeeID: e.ID,
			Date:       snapshot.Date.Format(dateLayout),
			Status:     snapshot.Status,
			CreatedAt:  snapshot.CreatedAt,
			UpdatedAt:  snapshot.UpdatedAt,
		})
	}

	return employeeDetailResponse{
		employeeResponse:  toEmployeeResponse(e),
		AttendanceRecords: records,
	}
}

func toAttendanceResponse(r *attendance.Record) attendanceResponse {
	return attendanceResponse{
		ID:         r.ID,
		EmployeeID: r.EmployeeID,
		Date:       r.Date.Format(dateLayout),
		Status:     string(r.Status),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func toAttendanceSummaryResponse(s *attendance.Summary) attendanceSummaryResponse {
	return attendanceSummaryResponse{
		EmployeeID:   s.EmployeeID,
		TotalRecords: s.TotalRecords,
		PresentDays:  s.PresentDays,
		AbsentDays:   s.AbsentDays,
	}
}

func toDashboardSummaryResponse(s *dashboard.Summary) dashboardSummaryResponse {
	return dashboardSummaryResponse{
		TotalEmployees:         s.TotalEmployees,
		TotalAttendanceRecords: s.TotalAttendanceRecords,
	}
}
