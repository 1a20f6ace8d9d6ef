package ctxutil

import "context"

// Default returns context.Background() when ctx is nil.
func Default(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

type requestDataKey struct{}

// RequestData carries the per-request identity of an inbound chat message.
type RequestData struct {
	RequestID string
	Sender    string
}

func WithRequestData(ctx context.Context, data *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, data)
}

func GetRequestData(ctx context.Context) *RequestData {
	rd, ok := ctx.Value(requestDataKey{}).(*RequestData)
	if !ok {
		return nil
	}
	return rd
}
