package router

import (
	"net/http"

	"github.com/skill404/landing/internal/log"
)

// GetLogger returns the request logger installed by loggerInjectionMiddleware.
func GetLogger(ctx *RequestContext) *log.Logger {
	return log.GetLoggerInstanceFromContext(ctx.Request.Context(), nil)
}

func OKResult(data any, message string) *ServiceResult {
	return &ServiceResult{StatusCode: http.StatusOK, Data: data, Message: message}
}

func CreatedResult(data any, resourceName string) *ServiceResult {
	return &ServiceResult{StatusCode: http.StatusCreated, Data: data, Message: resourceName + " created successfully"}
}

func TooManyRequestsResult(data RateLimitResponse) *ServiceResult {
	return &ServiceResult{StatusCode: http.StatusTooManyRequests, Data: data, Message: "Too Many Requests"}
}

func BadRequestResult(message string, payload any) *ServiceResult {
	return &ServiceResult{StatusCode: http.StatusBadRequest, Data: payload, Message: message}
}

func NotFoundResult(message string) *ServiceResult {
	return &ServiceResult{StatusCode: http.StatusNotFound, Message: message}
}

func InternalServerErrorResult(message string) *ServiceResult {
	return &ServiceResult{StatusCode: http.StatusInternalServerError, Message: message}
}

func ErrorResult(statusCode int, message string, data any) *ServiceResult {
	return &ServiceResult{StatusCode: statusCode, Data: data, Message: message}
}
