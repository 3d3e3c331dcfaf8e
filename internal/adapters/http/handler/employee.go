package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/ogurasousui/hrms-lite/internal/core/employee"
)

// EmployeeHandler は社員 API の HTTP ハンドラーです。
type EmployeeHandler struct {
	uc       employee.UseCase
	validate *validator.Validate
}

// NewEmployeeHandler は EmployeeHandler を生成します。
func NewEmployeeHandler(uc employee.UseCase) *EmployeeHandler {
	return &EmployeeHandler{uc: uc, validate: newValidator()}
}

// Register は /employees 配下のルートを登録します。
func (h *EmployeeHandler) Register(r fiber.Router) {
	r.Post("/employees", h.Create)
	r.Get("/employees", h.List)
	r.Get("/employees/:id", h.Get)
	r.Put("/employees/:id", h.Update)
	r.Delete("/employees/:id", h.Delete)
}

// Create は社員を作成し 201 を返します。
func (h *EmployeeHandler) Create(c *fiber.Ctx) error {
	var req createEmployeeRequest
	if err := bindJSON(c, h.validate, &req); err != nil {
		return writeError(c, err)
	}

	created, err := h.uc.CreateEmployee(c.UserContext(), employee.CreateEmployeeInput{
		EmployeeID: req.EmployeeID,
		FullName:   req.FullName,
		Email:      req.Email,
		Department: req.Department,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(toEmployeeResponse(created))
}

// List は全社員を作成日時の新しい順に返します。
func (h *EmployeeHandler) List(c *fiber.Ctx) error {
	employees, err := h.uc.ListEmployees(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}

	out := make([]employeeResponse, 0, len(employees))
	for _, e := range employees {
		out = append(out, toEmployeeResponse(e))
	}
	return c.JSON(out)
}

// Get は社員と勤怠記録を返します。
func (h *EmployeeHandler) Get(c *fiber.Ctx) error {
	id, ok := employeePathID(c)
	if !ok {
		return writeNotFound(c)
	}

	found, err := h.uc.GetEmployee(c.UserContext(), employee.GetEmployeeInput{ID: id})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(toEmployeeDetailResponse(found))
}

// Update は指定されたフィールドのみ更新します。
func (h *EmployeeHandler) Update(c *fiber.Ctx) error {
	id, ok := employeePathID(c)
	if !ok {
		return writeNotFound(c)
	}

	var req updateEmployeeRequest
	if err := bindJSON(c, h.validate, &req); err != nil {
		return writeError(c, err)
	}

	updated, err := h.uc.UpdateEmployee(c.UserContext(), employee.UpdateEmployeeInput{
		ID:         id,
		FullName:   req.FullName,
		Email:      req.Email,
		Department: req.Department,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(toEmployeeResponse(updated))
}

// Delete は社員と勤怠記録を削除し 204 を返します。
func (h *EmployeeHandler) Delete(c *fiber.Ctx) error {
	id, ok := employeePathID(c)
	if !ok {
		return writeNotFound(c)
	}

	if err := h.uc.DeleteEmployee(c.UserContext(), employee.DeleteEmployeeInput{ID: id}); err != nil {
		return writeError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
