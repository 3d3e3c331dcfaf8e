package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// errMalformedBody はリクエストボディを JSON として解釈できない場合のエラーです。
var errMalformedBody = errors.New("request body must be a JSON object")

// errInvalidDate は日付文字列を解釈できない場合のエラーです。
var errInvalidDate = errors.New("date must be YYYY-MM-DD or an RFC 3339 timestamp")

// validationError は入力検証の失敗を表します。HTTP では 422 になります。
type validationError struct {
	detail string
}

func (e *validationError) Error() string {
	return e.detail
}

// newValidator はフィールド名を JSON のキーで報告する validator を返します。
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// bindJSON はボディを dst に読み込み、構造体タグで検証します。
func bindJSON(c *fiber.Ctx, v *validator.Validate, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return &validationError{detail: errMalformedBody.Error()}
	}

	if err := v.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return &validationError{detail: describeFieldError(fieldErrs[0])}
		}
		return &validationError{detail: err.Error()}
	}

	return nil
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// parseDate は YYYY-MM-DD または RFC 3339 の文字列から日付部分を取り出します。
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, errInvalidDate
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// parseOptionalDate はクエリパラメータの日付を解釈します。空文字列は nil を返します。
func parseOptionalDate(name, raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := parseDate(raw)
	if err != nil {
		return nil, &validationError{detail: fmt.Sprintf("%s: %s", name, err.Error())}
	}
	return &t, nil
}

// employeePathID はパスの社員 ID を検証します。UUID でない ID に一致する社員は存在しません。
func employeePathID(c *fiber.Ctx) (string, bool) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return "", false
	}
	return id.String(), true
}
