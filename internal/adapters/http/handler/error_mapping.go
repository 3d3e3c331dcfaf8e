package handler

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/ogurasousui/hrms-lite/internal/core/attendance"
	"github.com/ogurasousui/hrms-lite/internal/core/employee"
)

const (
	codeValidation = "validation_error"
	codeNotFound   = "not_found"
	codeConflict   = "conflict"
	codeInternal   = "internal"
)

func toHTTPError(err error) (int, errorResponse) {
	var vErr *validationError
	switch {
	case errors.As(err, &vErr),
		errors.Is(err, employee.ErrInvalidID),
		errors.Is(err, employee.ErrInvalidEmployeeID),
		errors.Is(err, employee.ErrInvalidFullName),
		errors.Is(err, employee.ErrInvalidEmail),
		errors.Is(err, employee.ErrInvalidDepartment),
		errors.Is(err, employee.ErrInvalidValue),
		errors.Is(err, attendance.ErrInvalidEmployeeID),
		errors.Is(err, attendance.ErrInvalidDate),
		errors.Is(err, attendance.ErrInvalidStatus):
		return fiber.StatusUnprocessableEntity, errorResponse{Code: codeValidation, Detail: err.Error()}
	case errors.Is(err, employee.ErrEmployeeIDAlreadyExists),
		errors.Is(err, employee.ErrEmailAlreadyExists):
		return fiber.StatusBadRequest, errorResponse{Code: codeConflict, Detail: err.Error()}
	case errors.Is(err, employee.ErrEmployeeNotFound),
		errors.Is(err, attendance.ErrEmployeeNotFound):
		return fiber.StatusNotFound, errorResponse{Code: codeNotFound, Detail: err.Error()}
	default:
		return fiber.StatusInternalServerError, errorResponse{Code: codeInternal, Detail: "internal server error"}
	}
}

func writeError(c *fiber.Ctx, err error) error {
	status, body := toHTTPError(err)
	if status == fiber.StatusInternalServerError {
		log.Printf("%s %s failed: %v", c.Method(), c.Path(), err)
	}
	return c.Status(status).JSON(body)
}

func writeNotFound(c *fiber.Ctx) error {
	return writeError(c, employee.ErrEmployeeNotFound)
}

// ErrorHandler はハンドラーから返された fiber.Error などを JSON のエラー応答に変換します。
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fErr *fiber.Error
	if !errors.As(err, &fErr) {
		return writeError(c, err)
	}

	code := codeInternal
	switch {
	case fErr.Code == fiber.StatusNotFound:
		code = codeNotFound
	case fErr.Code == fiber.StatusUnprocessableEntity:
		code = codeValidation
	case fErr.Code < fiber.StatusInternalServerError:
		code = "client_error"
	}

	return c.Status(fErr.Code).JSON(errorResponse{Code: code, Detail: fErr.Message})
}
