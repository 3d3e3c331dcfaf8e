package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/ogurasousui/hrms-lite/internal/core/attendance"
)

type stubAttendanceUseCase struct {
	markInput  attendance.MarkAttendanceInput
	markCalled bool
	markOut    *attendance.MarkResult
	markErr    error

	listInput attendance.ListAttendanceInput
	listOut   []*attendance.Record
	listErr   error

	summaryID  string
	summaryOut *attendance.Summary
	summaryErr error
}

func (s *stubAttendanceUseCase) MarkAttendance(ctx context.Context, in attendance.MarkAttendanceInput) (*attendance.MarkResult, error) {
	s.markCalled = true
	s.markInput = in
	return s.markOut, s.markErr
}

func (s *stubAttendanceUseCase) ListAttendance(ctx context.Context, in attendance.ListAttendanceInput) ([]*attendance.Record, error) {
	s.listInput = in
	return s.listOut, s.listErr
}

func (s *stubAttendanceUseCase) Summarize(ctx context.Context, employeeID string) (*attendance.Summary, error) {
	s.summaryID = employeeID
	return s.summaryOut, s.summaryErr
}

func sampleRecord(status attendance.Status) *attendance.Record {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	return &attendance.Record{
		ID:         "att-1",
		EmployeeID: testEmployeeUUID,
		Date:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestAttendanceHandler_Mark_CreatedThenUpdated(t *testing.T) {
	t.Parallel()

	stub := &stubAttendanceUseCase{markOut: &attendance.MarkResult{Record: sampleRecord(attendance.StatusPresent), Created: true}}
	app := newTestApp(NewAttendanceHandler(stub))
	target := "/api/employees/" + testEmployeeUUID + "/attendance"

	resp, raw := doRequest(t, app, http.MethodPost, target, `{"date":"2024-01-01","status":"Present"}`)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, raw)
	}

	var body attendanceResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Date != "2024-01-01" || body.Status != "Present" || body.EmployeeID != testEmployeeUUID {
		t.Fatalf("unexpected body %+v", body)
	}

	in := stub.markInput
	if in.EmployeeID != testEmployeeUUID || in.Status != attendance.StatusPresent || !in.Date.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected mark input %+v", in)
	}

	stub.markOut = &attendance.MarkResult{Record: sampleRecord(attendance.StatusAbsent), Created: false}
	resp, raw = doRequest(t, app, http.MethodPost, target, `{"date":"2024-01-01","status":"Absent"}`)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for re-mark, got %d: %s", resp.StatusCode, raw)
	}
}

func TestAttendanceHandler_Mark_AcceptsTimestamp(t *testing.T) {
	t.Parallel()

	stub := &stubAttendanceUseCase{markOut: &attendance.MarkResult{Record: sampleRecord(attendance.StatusPresent), Created: true}}
	app := newTestApp(NewAttendanceHandler(stub))

	resp, _ := doRequest(t, app, http.MethodPost, "/api/employees/"+testEmployeeUUID+"/attendance",
		`{"date":"2024-01-01T18:30:00Z","status":"Present"}`)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC); !stub.markInput.Date.Equal(want) {
		t.Fatalf("expected date %v, got %v", want, stub.markInput.Date)
	}
}

func TestAttendanceHandler_Mark_Validation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
	}{
		{"unknown status", `{"date":"2024-01-01","status":"Late"}`},
		{"lowercase status", `{"date":"2024-01-01","status":"present"}`},
		{"missing date", `{"status":"Present"}`},
		{"bad date", `{"date":"01/02/2024","status":"Present"}`},
		{"impossible date", `{"date":"2024-02-30","status":"Present"}`},
	}

	for _, tc := range cases {
		stub := &stubAttendanceUseCase{}
		app := newTestApp(NewAttendanceHandler(stub))

		resp, raw := doRequest(t, app, http.MethodPost, "/api/employees/"+testEmployeeUUID+"/attendance", tc.body)
		if resp.StatusCode != fiber.StatusUnprocessableEntity {
			t.Errorf("%s: expected 422, got %d: %s", tc.name, resp.StatusCode, raw)
			continue
		}
		if body := decodeError(t, raw); body.Code != codeValidation {
			t.Errorf("%s: unexpected error body %+v", tc.name, body)
		}
		if stub.markCalled {
			t.Errorf("%s: use case must not be called", tc.name)
		}
	}
}

func TestAttendanceHandler_Mark_UnknownEmployee(t *testing.T) {
	t.Parallel()

	stub := &stubAttendanceUseCase{markErr: attendance.ErrEmployeeNotFound}
	app := newTestApp(NewAttendanceHandler(stub))

	resp, _ := doRequest(t, app, http.MethodPost, "/api/employees/"+testEmployeeUUID+"/attendance", `{"date":"2024-01-01","status":"Present"}`)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	resp, _ = doRequest(t, app, http.MethodPost, "/api/employees/42/attendance", `{"date":"2024-01-01","status":"Present"}`)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 for malformed id, got %d", resp.StatusCode)
	}
}

func TestAttendanceHandler_List_DateBounds(t *testing.T) {
	t.Parallel()

	stub := &stubAttendanceUseCase{listOut: []*attendance.Record{sampleRecord(attendance.StatusPresent)}}
	app := newTestApp(NewAttendanceHandler(stub))

	resp, raw := doRequest(t, app, http.MethodGet,
		"/api/employees/"+testEmployeeUUID+"/attendance?start_date=2024-01-01&end_date=2024-01-31T23:59:59Z", "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, raw)
	}

	in := stub.listInput
	if in.StartDate == nil || !in.StartDate.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start date %v", in.StartDate)
	}
	if in.EndDate == nil || !in.EndDate.Equal(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected end date %v", in.EndDate)
	}

	var body []attendanceResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body) != 1 {
		t.Fatalf("unexpected body %+v", body)
	}

	_, _ = doRequest(t, app, http.MethodGet, "/api/employees/"+testEmployeeUUID+"/attendance", "")
	if stub.listInput.StartDate != nil || stub.listInput.EndDate != nil {
		t.Fatalf("expected no bounds, got %+v", stub.listInput)
	}
}

func TestAttendanceHandler_List_BadDate(t *testing.T) {
	t.Parallel()

	app := newTestApp(NewAttendanceHandler(&stubAttendanceUseCase{}))

	resp, raw := doRequest(t, app, http.MethodGet, "/api/employees/"+testEmployeeUUID+"/attendance?start_date=yesterday", "")
	if resp.StatusCode != fiber.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	if body := decodeError(t, raw); body.Code != codeValidation {
		t.Fatalf("unexpected error body %+v", body)
	}
}

func TestAttendanceHandler_Summary(t *testing.T) {
	t.Parallel()

	stub := &stubAttendanceUseCase{summaryOut: &attendance.Summary{EmployeeID: testEmployeeUUID, TotalRecords: 5, PresentDays: 3, AbsentDays: 2}}
	app := newTestApp(NewAttendanceHandler(stub))

	resp, raw := doRequest(t, app, http.MethodGet, "/api/employees/"+testEmployeeUUID+"/attendance/summary", "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body attendanceSummaryResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.TotalRecords != 5 || body.PresentDays != 3 || body.AbsentDays != 2 || stub.summaryID != testEmployeeUUID {
		t.Fatalf("unexpected body %+v", body)
	}

	stub.summaryErr = attendance.ErrEmployeeNotFound
	resp, _ = doRequest(t, app, http.MethodGet, "/api/employees/"+testEmployeeUUID+"/attendance/summary", "")
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
