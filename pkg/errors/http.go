package errors

import (
	"errors"
	"net/http"
)

const unexpectedErrorMessage = "An unexpected error occurred"

func HTTPStatusCode(err error) int {
	switch GetErrorType(err) {
	case ErrorTypeInvalidRequest:
		return http.StatusBadRequest
	case ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case ErrorTypeConflict:
		return http.StatusConflict
	case ErrorTypeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// GetHumanReadableMessage never exposes the wrapped cause, only the
// message an AppError was built with.
func GetHumanReadableMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return unexpectedErrorMessage
}
