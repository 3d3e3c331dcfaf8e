package attendance

import "errors"

var (
	ErrInvalidEmployeeID = errors.New("attendance: invalid employee id")
	ErrInvalidDate       = errors.New("attendance: invalid date")
	ErrInvalidStatus     = errors.New("attendance: status must be Present or Absent")
	ErrEmployeeNotFound  = errors.New("employee not found")
)
