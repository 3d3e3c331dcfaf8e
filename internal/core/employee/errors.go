package employee

import "errors"

var (
	ErrInvalidID               = errors.New("employee: invalid id")
	ErrInvalidEmployeeID       = errors.New("employee: employee_id must be 1-50 characters")
	ErrInvalidFullName         = errors.New("employee: full_name must be 1-100 characters")
	ErrInvalidEmail            = errors.New("employee: invalid email")
	ErrInvalidDepartment       = errors.New("employee: department must be 1-50 characters")
	ErrInvalidValue            = errors.New("employee: value cannot be stored")
	ErrEmployeeNotFound        = errors.New("employee not found")
	ErrEmployeeIDAlreadyExists = errors.New("employee id already exists")
	ErrEmailAlreadyExists      = errors.New("email already exists")
)
