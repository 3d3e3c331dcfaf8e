package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/ogurasousui/hrms-lite/internal/core/attendance"
)

// AttendanceHandler は勤怠 API の HTTP ハンドラーです。
type AttendanceHandler struct {
	uc       attendance.UseCase
	validate *validator.Validate
}

// NewAttendanceHandler は AttendanceHandler を生成します。
func NewAttendanceHandler(uc attendance.UseCase) *AttendanceHandler {
	return &AttendanceHandler{uc: uc, validate: newValidator()}
}

// Register は /employees/:id/attendance 配下のルートを登録します。
func (h *AttendanceHandler) Register(r fiber.Router) {
	r.Post("/employees/:id/attendance", h.Mark)
	r.Get("/employees/:id/attendance/summary", h.Summary)
	r.Get("/employees/:id/attendance", h.List)
}

// Mark は勤怠を登録します。新規なら 201、既存記録の上書きなら 200 を返します。
func (h *AttendanceHandler) Mark(c *fiber.Ctx) error {
	id, ok := employeePathID(c)
	if !ok {
		return writeNotFound(c)
	}

	var req markAttendanceRequest
	if err := bindJSON(c, h.validate, &req); err != nil {
		return writeError(c, err)
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return writeError(c, &validationError{detail: "date: " + err.Error()})
	}

	status, err := attendance.ParseStatus(req.Status)
	if err != nil {
		return writeError(c, err)
	}

	result, err := h.uc.MarkAttendance(c.UserContext(), attendance.MarkAttendanceInput{
		EmployeeID: id,
		Date:       date,
		Status:     status,
	})
	if err != nil {
		return writeError(c, err)
	}

	code := fiber.StatusOK
	if result.Created {
		code = fiber.StatusCreated
	}
	return c.Status(code).JSON(toAttendanceResponse(result.Record))
}

// List は勤怠記録を日付の降順で返します。start_date と end_date は両端を含みます。
func (h *AttendanceHandler) List(c *fiber.Ctx) error {
	id, ok := employeePathID(c)
	if !ok {
		return writeNotFound(c)
	}

	start, err := parseOptionalDate("start_date", c.Query("start_date"))
	if err != nil {
		return writeError(c, err)
	}
	end, err := parseOptionalDate("end_date", c.Query("end_date"))
	if err != nil {
		return writeError(c, err)
	}

	records, err := h.uc.ListAttendance(c.UserContext(), attendance.ListAttendanceInput{
		EmployeeID: id,
		StartDate:  start,
		EndDate:    end,
	})
	if err != nil {
		return writeError(c, err)
	}

	out := make([]attendanceResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, toAttendanceResponse(rec))
	}
	return c.JSON(out)
}

// Summary は社員の出勤・欠勤日数を返します。
func (h *AttendanceHandler) Summary(c *fiber.Ctx) error {
	id, ok := employeePathID(c)
	if !ok {
		return writeNotFound(c)
	}

	summary, err := h.uc.Summarize(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(toAttendanceSummaryResponse(summary))
}
