package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

const requestDataKey ctxKey = "request_data"

// RequestData is the authenticated identity attached to every request context
// by the auth middleware. Repos never see it; services pass the user id down
// explicitly so ownership scoping stays visible at call sites.
type RequestData struct {
	UserID    uuid.UUID
	Email     string
	IsAdmin   bool
	RequestID string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	rd, ok := ctx.Value(requestDataKey).(*RequestData)
	if !ok {
		return nil
	}
	return rd
}
