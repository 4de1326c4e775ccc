package log

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// CorrelationHeader carries the correlation ID between the CLI, the server
// and its logs.
const CorrelationHeader = "X-Correlation-ID"

func GenerateCorrelationID() string {
	return uuid.New().String()
}

func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CorrelatedIDKey, id)
}

// GetOrGenerateCorrelationID never returns an empty string.
func GetOrGenerateCorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(CorrelatedIDKey).(string); ok && id != "" {
		return id
	}
	return GenerateCorrelationID()
}

// SetCorrelationHeader copies the context's correlation ID onto an outbound
// request, generating one when the context has none.
func SetCorrelationHeader(req *http.Request) {
	if req.Header.Get(CorrelationHeader) != "" {
		return
	}
	req.Header.Set(CorrelationHeader, GetOrGenerateCorrelationID(req.Context()))
}
