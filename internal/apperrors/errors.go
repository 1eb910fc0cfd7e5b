package apperrors

import (
	"errors"
	"fmt"
)

// AppError is the error type returned by services. Handlers map Code to an
// HTTP status through httpx.Error.
type AppError struct {
	Code    string
	Message string
	Cause   error
	Details any
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

const (
	CodeNotFound        = "NOT_FOUND"
	CodeValidation      = "VALIDATION_ERROR"
	CodeInvalidInput    = "INVALID_INPUT"
	CodeExternalService = "EXTERNAL_SERVICE_ERROR"
	CodeDataIntegrity   = "DATA_INTEGRITY"
	CodeDatabase        = "DATABASE_ERROR"
	CodeConfigInvalid   = "CONFIG_INVALID"
	CodeInternal        = "INTERNAL_ERROR"
)

func New(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap keeps the code of an inner AppError, otherwise marks the error internal.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
			Details: appErr.Details,
		}
	}
	return &AppError{Code: CodeInternal, Message: message, Cause: err}
}

func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// GetCode returns the code of the first AppError in the chain, or "UNKNOWN".
func GetCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

func GetDetails(err error) any {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Details
	}
	return nil
}

func IsNotFound(err error) bool   { return GetCode(err) == CodeNotFound }
func IsValidation(err error) bool { return GetCode(err) == CodeValidation }

// --------------------------------------------------
// Constructors
// --------------------------------------------------

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

// NotFoundIDs reports every missing identifier, never just the first one.
func NotFoundIDs(resource string, ids []int) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, ids),
		Details: map[string]any{"missing_ids": ids},
	}
}

func Validation(message string) *AppError {
	return New(CodeValidation, message)
}

func Validationf(format string, args ...any) *AppError {
	return New(CodeValidation, fmt.Sprintf(format, args...))
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

func ExternalService(service string, cause error) *AppError {
	return &AppError{
		Code:    CodeExternalService,
		Message: fmt.Sprintf("%s service error", service),
		Cause:   cause,
	}
}

func DataIntegrity(message string) *AppError {
	return New(CodeDataIntegrity, message)
}

func Database(cause error) *AppError {
	return &AppError{Code: CodeDatabase, Message: "database error", Cause: cause}
}

func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}
