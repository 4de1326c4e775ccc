package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error types are stable identifiers; HTTPStatusCode maps each to a status.
const (
	ErrorTypeInvalidRequest = "INVALID_REQUEST"
	ErrorTypeUnauthorized   = "UNAUTHORIZED"
	ErrorTypeConflict       = "CONFLICT"
	ErrorTypeDatabaseError  = "DATABASE_ERROR"
	ErrorTypeUpstream       = "UPSTREAM_ERROR"
	ErrorTypeUnknown        = "UNKNOWN_ERROR"
)

// AppError carries a user-safe Message next to the wrapped cause.
type AppError struct {
	Type    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newAppError(errType, message string, err error) *AppError {
	return &AppError{Type: errType, Message: message, Err: err}
}

func NewInvalidRequestError(message string, err error) *AppError {
	return newAppError(ErrorTypeInvalidRequest, message, err)
}

func NewUnauthorizedError(message string, err error) *AppError {
	return newAppError(ErrorTypeUnauthorized, message, err)
}

func NewConflictError(message string, err error) *AppError {
	return newAppError(ErrorTypeConflict, message, err)
}

func NewDatabaseError(message string, err error) *AppError {
	return newAppError(ErrorTypeDatabaseError, message, err)
}

// NewUpstreamError marks failures of a third-party dependency such as the OAuth provider.
func NewUpstreamError(message string, err error) *AppError {
	return newAppError(ErrorTypeUpstream, message, err)
}

// GetErrorType returns the type of the first AppError in err's chain.
func GetErrorType(err error) string {
	if err == nil {
		return ""
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}

	return ErrorTypeUnknown
}

// duplicateKeyMarkers are the unique violation texts of postgres and sqlite.
var duplicateKeyMarkers = []string{
	"duplicate key",
	"unique constraint",
	"sqlstate 23505",
}

// IsDuplicateKeyError reports unique violations that reach us untranslated.
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}

	if GetErrorType(err) == ErrorTypeConflict {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range duplicateKeyMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
